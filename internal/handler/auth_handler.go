package handler

import (
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"github.com/prn-tf/grouporder-hub/internal/service"
)

// AuthHandler handles registration, login, logout and the current-user
// endpoint.
type AuthHandler struct {
	users    *service.UserService
	sessions *service.SessionService
	logger   zerolog.Logger
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(users *service.UserService, sessions *service.SessionService, logger zerolog.Logger) *AuthHandler {
	return &AuthHandler{
		users:    users,
		sessions: sessions,
		logger:   logger.With().Str("handler", "auth").Logger(),
	}
}

type registerRequest struct {
	Username  string `json:"username"`
	Password  string `json:"password"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	GroupName string `json:"groupName"`
	Email     string `json:"email"`
}

// HandleRegister creates an account and logs it in.
func (h *AuthHandler) HandleRegister(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	user, err := h.users.Register(r.Context(), service.RegisterInput{
		Username:  req.Username,
		Password:  req.Password,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		GroupName: req.GroupName,
		Email:     req.Email,
	})
	if err != nil {
		writeServiceError(w, err)
		return
	}

	_, sess, err := h.sessions.Login(r.Context(), req.Username, req.Password)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	h.setSessionCookie(w, r, sess.Token)
	writeJSON(w, http.StatusCreated, toUserResponse(user))
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// HandleLogin authenticates and sets the session cookie.
func (h *AuthHandler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	user, sess, err := h.sessions.Login(r.Context(), req.Username, req.Password)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	h.setSessionCookie(w, r, sess.Token)
	writeJSON(w, http.StatusOK, toUserResponse(user))
}

// HandleLogout removes the session and clears the cookie.
func (h *AuthHandler) HandleLogout(w http.ResponseWriter, r *http.Request) {
	if cookie, err := r.Cookie(sessionCookie); err == nil {
		_ = h.sessions.Logout(r.Context(), cookie.Value)
	}

	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookie,
		Value:    "",
		Path:     "/",
		HttpOnly: true,
		MaxAge:   -1,
	})

	w.WriteHeader(http.StatusNoContent)
}

// HandleCurrentUser returns the logged-in account.
func (h *AuthHandler) HandleCurrentUser(w http.ResponseWriter, r *http.Request) {
	user := currentUser(r)
	if user == nil {
		writeError(w, http.StatusUnauthorized, "authentication required")
		return
	}
	writeJSON(w, http.StatusOK, toUserResponse(user))
}

func (h *AuthHandler) setSessionCookie(w http.ResponseWriter, r *http.Request, token string) {
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookie,
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		Secure:   r.TLS != nil,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   int(service.SessionTTL / time.Second),
	})
}
