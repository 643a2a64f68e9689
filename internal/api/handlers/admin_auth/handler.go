package admin_auth

import (
	"errors"
	"net"
	"net/http"

	"github.com/tripointhq/TPD-BookingService/internal/api/handlers"
	"github.com/tripointhq/TPD-BookingService/internal/service/adminauth"
)

const (
	msgInvalidRequestBody = "invalid request body"
	msgInvalidCredentials = "invalid credentials"
	msgTooManyAttempts    = "too many login attempts, try again later"
)

type Handler struct {
	authService AuthService
	logger      Logger
}

func NewHandler(authService AuthService, logger Logger) *Handler {
	return &Handler{
		authService: authService,
		logger:      logger,
	}
}

// HandleLogin POST /api/v1/admin/login
func (h *Handler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /admin/login - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	token, err := h.authService.Login(clientKey(r), req.Password)
	if err != nil {
		switch {
		case errors.Is(err, adminauth.ErrTooManyAttempts):
			h.logger.Warn("POST /admin/login - Rate limited: client=%s", clientKey(r))
			handlers.RespondError(w, http.StatusTooManyRequests, msgTooManyAttempts)

		case errors.Is(err, adminauth.ErrInvalidCredentials):
			h.logger.Warn("POST /admin/login - Invalid credentials: client=%s", clientKey(r))
			handlers.RespondUnauthorized(w, msgInvalidCredentials)

		default:
			h.logger.Error("POST /admin/login - Failed: %v", err)
			handlers.RespondInternalError(w)
		}
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     adminauth.CookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   int(h.authService.SessionTTL().Seconds()),
		HttpOnly: true,
		Secure:   true,
		SameSite: http.SameSiteStrictMode,
	})

	h.logger.Info("POST /admin/login - Session issued: client=%s", clientKey(r))
	handlers.RespondJSON(w, http.StatusOK, &SessionResponse{Authenticated: true})
}

// HandleLogout POST /api/v1/admin/logout
func (h *Handler) HandleLogout(w http.ResponseWriter, r *http.Request) {
	http.SetCookie(w, &http.Cookie{
		Name:     adminauth.CookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   true,
		SameSite: http.SameSiteStrictMode,
	})

	h.logger.Info("POST /admin/logout - Session cleared")
	handlers.RespondJSON(w, http.StatusOK, &SessionResponse{Authenticated: false})
}

// HandleSession GET /api/v1/admin/session
func (h *Handler) HandleSession(w http.ResponseWriter, r *http.Request) {
	cookie, err := r.Cookie(adminauth.CookieName)
	if err != nil || h.authService.Verify(cookie.Value) != nil {
		handlers.RespondJSON(w, http.StatusOK, &SessionResponse{Authenticated: false})
		return
	}
	handlers.RespondJSON(w, http.StatusOK, &SessionResponse{Authenticated: true})
}

// clientKey ключ клиента для rate limiter: IP без порта
func clientKey(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
