package handler

import (
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"github.com/prn-tf/grouporder-hub/internal/domain"
	"github.com/prn-tf/grouporder-hub/internal/service"
)

// AdminHandler handles the admin endpoints: account management, the
// group registry, the order views and the promotion cycle.
type AdminHandler struct {
	users  *service.UserService
	orders *service.OrderService
	groups *service.GroupService
	logger zerolog.Logger
}

// NewAdminHandler creates a new AdminHandler.
func NewAdminHandler(users *service.UserService, orders *service.OrderService, groups *service.GroupService, logger zerolog.Logger) *AdminHandler {
	return &AdminHandler{
		users:  users,
		orders: orders,
		groups: groups,
		logger: logger.With().Str("handler", "admin").Logger(),
	}
}

// ---- accounts ----

// HandleListUsers returns all accounts.
func (h *AdminHandler) HandleListUsers(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, toUserResponses(h.users.List(r.Context())))
}

type adminCreateUserRequest struct {
	Username      string `json:"username"`
	Password      string `json:"password"`
	FirstName     string `json:"firstName"`
	LastName      string `json:"lastName"`
	GroupName     string `json:"groupName"`
	Email         string `json:"email"`
	IsCoordinator bool   `json:"isCoordinator"`
	IsAdmin       bool   `json:"isAdmin"`
	IsUserAdmin   bool   `json:"isUserAdmin"`
}

// HandleCreateUser creates an account, including privileged ones.
func (h *AdminHandler) HandleCreateUser(w http.ResponseWriter, r *http.Request) {
	var req adminCreateUserRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	user, err := h.users.AdminCreate(r.Context(), service.AdminCreateInput{
		Username:      req.Username,
		Password:      req.Password,
		FirstName:     req.FirstName,
		LastName:      req.LastName,
		GroupName:     req.GroupName,
		Email:         req.Email,
		IsCoordinator: req.IsCoordinator,
		IsAdmin:       req.IsAdmin,
		IsUserAdmin:   req.IsUserAdmin,
	})
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, toUserResponse(user))
}

type adminUpdateUserRequest struct {
	Password      *string `json:"password"`
	FirstName     *string `json:"firstName"`
	LastName      *string `json:"lastName"`
	GroupName     *string `json:"groupName"`
	Email         *string `json:"email"`
	IsCoordinator *bool   `json:"isCoordinator"`
	IsAdmin       *bool   `json:"isAdmin"`
	IsUserAdmin   *bool   `json:"isUserAdmin"`
}

// HandleUpdateUser applies a partial update to an account.
func (h *AdminHandler) HandleUpdateUser(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid user id")
		return
	}

	var req adminUpdateUserRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	user, err := h.users.Update(r.Context(), id, service.UpdateInput{
		Password:      req.Password,
		FirstName:     req.FirstName,
		LastName:      req.LastName,
		GroupName:     req.GroupName,
		Email:         req.Email,
		IsCoordinator: req.IsCoordinator,
		IsAdmin:       req.IsAdmin,
		IsUserAdmin:   req.IsUserAdmin,
	})
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toUserResponse(user))
}

// HandleDeleteUser removes an account with all its orders.
func (h *AdminHandler) HandleDeleteUser(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid user id")
		return
	}

	if err := h.users.Delete(r.Context(), id); err != nil {
		writeServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// HandleDeleteMembers removes every non-admin account.
func (h *AdminHandler) HandleDeleteMembers(w http.ResponseWriter, r *http.Request) {
	out := h.users.DeleteMembers(r.Context())
	writeJSON(w, http.StatusOK, map[string]int{"deleted": out.Deleted})
}

// promotionResponse is the wire form of a promotion run.
type promotionResponse struct {
	Promoted    int                      `json:"promoted"`
	Deleted     int                      `json:"deleted"`
	Transitions []domain.GroupTransition `json:"transitions"`
}

// HandlePromote runs the end-of-cycle promotion.
func (h *AdminHandler) HandlePromote(w http.ResponseWriter, r *http.Request) {
	result := h.users.Promote(r.Context())

	transitions := result.Transitions
	if transitions == nil {
		transitions = []domain.GroupTransition{}
	}

	writeJSON(w, http.StatusOK, promotionResponse{
		Promoted:    result.Promoted,
		Deleted:     result.Deleted,
		Transitions: transitions,
	})
}

// ---- groups ----

// HandleListGroups returns the group registry.
func (h *AdminHandler) HandleListGroups(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.groups.List(r.Context()))
}

type replaceGroupsRequest struct {
	Groups []string `json:"groups"`
}

// HandleReplaceGroups overwrites the group registry.
func (h *AdminHandler) HandleReplaceGroups(w http.ResponseWriter, r *http.Request) {
	var req replaceGroupsRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	groups, err := h.groups.Replace(r.Context(), req.Groups)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, groups)
}

type addGroupRequest struct {
	Name string `json:"name"`
}

// HandleAddGroup appends one group to the registry.
func (h *AdminHandler) HandleAddGroup(w http.ResponseWriter, r *http.Request) {
	var req addGroupRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	groups, err := h.groups.Add(r.Context(), req.Name)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, groups)
}

// HandleRemoveGroup drops one group from the registry.
func (h *AdminHandler) HandleRemoveGroup(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")

	groups, err := h.groups.Remove(r.Context(), name)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, groups)
}

// ---- order views ----

// HandleListOrders returns every order, or one day's orders with
// ?date=2026-08-30.
func (h *AdminHandler) HandleListOrders(w http.ResponseWriter, r *http.Request) {
	if raw := r.URL.Query().Get("date"); raw != "" {
		date, err := time.Parse("2006-01-02", raw)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid date, expected YYYY-MM-DD")
			return
		}
		writeJSON(w, http.StatusOK, toOrderResponses(h.orders.ListByDate(r.Context(), date)))
		return
	}

	writeJSON(w, http.StatusOK, toOrderResponses(h.orders.ListAll(r.Context())))
}

// HandleListOrdersByGroup returns one group's orders. Coordinators may
// only read their own group.
func (h *AdminHandler) HandleListOrdersByGroup(w http.ResponseWriter, r *http.Request) {
	user := currentUser(r)
	groupName := chi.URLParam(r, "groupName")

	if !user.IsAdmin && !strings.EqualFold(user.GroupName, groupName) {
		writeError(w, http.StatusForbidden, "coordinators may only view their own group")
		return
	}

	writeJSON(w, http.StatusOK, toOrderResponses(h.orders.ListByGroup(r.Context(), groupName)))
}

type updateStatusRequest struct {
	Status string `json:"status"`
}

// HandleUpdateOrderStatus overwrites an order's status.
func (h *AdminHandler) HandleUpdateOrderStatus(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid order id")
		return
	}

	var req updateStatusRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Status == "" {
		writeError(w, http.StatusBadRequest, "status is required")
		return
	}

	order, err := h.orders.UpdateStatus(r.Context(), id, req.Status)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, order)
}
