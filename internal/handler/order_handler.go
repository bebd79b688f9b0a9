package handler

import (
	"net/http"

	"github.com/rs/zerolog"

	"github.com/prn-tf/grouporder-hub/internal/service"
)

// OrderHandler handles the member-facing order endpoints.
type OrderHandler struct {
	orders *service.OrderService
	logger zerolog.Logger
}

// NewOrderHandler creates a new OrderHandler.
func NewOrderHandler(orders *service.OrderService, logger zerolog.Logger) *OrderHandler {
	return &OrderHandler{
		orders: orders,
		logger: logger.With().Str("handler", "order").Logger(),
	}
}

type placeOrderRequest struct {
	Items []struct {
		ProductID int64 `json:"productId"`
		Quantity  int   `json:"quantity"`
	} `json:"items"`
}

// HandlePlace places an order for the logged-in user.
func (h *OrderHandler) HandlePlace(w http.ResponseWriter, r *http.Request) {
	user := currentUser(r)

	var req placeOrderRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	input := service.PlaceOrderInput{UserID: user.ID}
	for _, item := range req.Items {
		input.Items = append(input.Items, service.PlaceOrderItemInput{
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
		})
	}

	detail, err := h.orders.Place(r.Context(), input)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, toOrderResponse(detail))
}

// HandleListOwn returns the logged-in user's orders.
func (h *OrderHandler) HandleListOwn(w http.ResponseWriter, r *http.Request) {
	user := currentUser(r)
	writeJSON(w, http.StatusOK, toOrderResponses(h.orders.ListByUser(r.Context(), user.ID)))
}

// HandleGet returns one of the logged-in user's orders. Admins and
// coordinators can read any order.
func (h *OrderHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	user := currentUser(r)

	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid order id")
		return
	}

	detail, err := h.orders.GetByID(r.Context(), id)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	if detail.Order.UserID != user.ID && !user.IsAdmin && !user.IsCoordinator {
		writeError(w, http.StatusForbidden, "not your order")
		return
	}

	writeJSON(w, http.StatusOK, toOrderResponse(detail))
}
