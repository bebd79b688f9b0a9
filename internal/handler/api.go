package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/prn-tf/grouporder-hub/internal/domain"
	"github.com/prn-tf/grouporder-hub/internal/service"
)

// sessionCookie is the name of the login cookie.
const sessionCookie = "grouporder_session"

// apiError is the JSON error body.
type apiError struct {
	Error string `json:"error"`
}

// userResponse is the wire form of an account. The password hash never
// leaves the server.
type userResponse struct {
	ID            int64  `json:"id"`
	Username      string `json:"username"`
	FirstName     string `json:"firstName"`
	LastName      string `json:"lastName"`
	GroupName     string `json:"groupName"`
	Email         string `json:"email"`
	IsCoordinator bool   `json:"isCoordinator"`
	IsAdmin       bool   `json:"isAdmin"`
	IsUserAdmin   bool   `json:"isUserAdmin"`
}

func toUserResponse(u *domain.User) userResponse {
	return userResponse{
		ID:            u.ID,
		Username:      u.Username,
		FirstName:     u.FirstName,
		LastName:      u.LastName,
		GroupName:     u.GroupName,
		Email:         u.Email,
		IsCoordinator: u.IsCoordinator,
		IsAdmin:       u.IsAdmin,
		IsUserAdmin:   u.IsUserAdmin,
	}
}

func toUserResponses(users []*domain.User) []userResponse {
	out := make([]userResponse, 0, len(users))
	for _, u := range users {
		out = append(out, toUserResponse(u))
	}
	return out
}

// orderItemResponse is one expanded order line. Product is null when
// the catalog entry has been deleted since the order was placed.
type orderItemResponse struct {
	ID        int64           `json:"id"`
	OrderID   int64           `json:"orderId"`
	ProductID int64           `json:"productId"`
	Quantity  int             `json:"quantity"`
	Price     float64         `json:"price"`
	Product   *domain.Product `json:"product,omitempty"`
}

// orderResponse is the wire form of an expanded order.
type orderResponse struct {
	ID        int64               `json:"id"`
	UserID    int64               `json:"userId"`
	Total     float64             `json:"total"`
	Status    string              `json:"status"`
	CreatedAt time.Time           `json:"createdAt"`
	OrderDate time.Time           `json:"orderDate"`
	User      *userResponse       `json:"user,omitempty"`
	Items     []orderItemResponse `json:"items"`
}

func toOrderResponse(d *service.OrderDetail) orderResponse {
	out := orderResponse{
		ID:        d.Order.ID,
		UserID:    d.Order.UserID,
		Total:     d.Order.Total,
		Status:    d.Order.Status,
		CreatedAt: d.Order.CreatedAt,
		OrderDate: d.Order.OrderDate,
		Items:     make([]orderItemResponse, 0, len(d.Items)),
	}

	if d.User != nil {
		u := toUserResponse(d.User)
		out.User = &u
	}

	for _, item := range d.Items {
		out.Items = append(out.Items, orderItemResponse{
			ID:        item.OrderItem.ID,
			OrderID:   item.OrderItem.OrderID,
			ProductID: item.OrderItem.ProductID,
			Quantity:  item.OrderItem.Quantity,
			Price:     item.OrderItem.Price,
			Product:   item.Product,
		})
	}

	return out
}

func toOrderResponses(details []*service.OrderDetail) []orderResponse {
	out := make([]orderResponse, 0, len(details))
	for _, d := range details {
		out = append(out, toOrderResponse(d))
	}
	return out
}

// writeJSON writes a JSON response with the given status.
func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

// writeError writes a JSON error response.
func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, apiError{Error: message})
}

// writeServiceError maps service errors to HTTP statuses.
func writeServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, service.ErrUserNotFound),
		errors.Is(err, service.ErrProductNotFound),
		errors.Is(err, service.ErrOrderNotFound):
		writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, service.ErrUserAlreadyExists):
		writeError(w, http.StatusConflict, err.Error())
	case errors.Is(err, service.ErrInvalidCredentials):
		writeError(w, http.StatusUnauthorized, "invalid username or password")
	case errors.Is(err, service.ErrSessionInvalid):
		writeError(w, http.StatusUnauthorized, err.Error())
	case errors.Is(err, service.ErrInvalidUsername),
		errors.Is(err, service.ErrInvalidPassword),
		errors.Is(err, service.ErrInvalidProduct),
		errors.Is(err, service.ErrEmptyOrder),
		errors.Is(err, service.ErrInvalidQuantity),
		errors.Is(err, service.ErrGroupNameEmpty):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, service.ErrGroupInUse),
		errors.Is(err, service.ErrAdminUndeletable):
		writeError(w, http.StatusConflict, err.Error())
	default:
		writeError(w, http.StatusInternalServerError, "internal server error")
	}
}

// decodeJSON decodes a JSON request body.
func decodeJSON(r *http.Request, out any) error {
	return json.NewDecoder(r.Body).Decode(out)
}
