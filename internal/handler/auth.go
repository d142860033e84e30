package handler

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"time"

	"egunkari/internal/config"
	"egunkari/internal/httputil"
	"egunkari/internal/model"
	"egunkari/internal/service"
	"egunkari/internal/transport/http/middleware"
)

// AuthHandler groups identity endpoints and their dependencies.
type AuthHandler struct {
	userService *service.UserService
	authService *service.AuthService
	config      *config.Config
}

// NewAuthHandler wires dependencies for authentication endpoints.
func NewAuthHandler(userService *service.UserService, authService *service.AuthService, cfg *config.Config) *AuthHandler {
	return &AuthHandler{
		userService: userService,
		authService: authService,
		config:      cfg,
	}
}

// Register handles user sign-up
// POST /api/register
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req model.RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteBadRequest(w, "Invalid request body")
		return
	}

	user, err := h.userService.Register(r.Context(), &req)
	if err != nil {
		switch {
		case errors.Is(err, model.ErrEmailExists):
			httputil.WriteBadRequestWithCode(w, model.CodeEmailTaken, "Email is already registered")
		case errors.Is(err, model.ErrValidation):
			httputil.WriteBadRequest(w, "Username, email and password are required")
		default:
			log.Printf("[ERROR] Register handler: err=%v", err)
			httputil.WriteInternalError(w, "Failed to register")
		}
		return
	}

	httputil.WriteJSON(w, http.StatusCreated, model.AuthResponse{
		Message: "Registration successful",
		User:    *user,
	})
}

// Login verifies credentials and sets the session cookie. The token never
// appears in the response body.
// POST /api/login
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req model.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteBadRequest(w, "Invalid request body")
		return
	}

	user, err := h.userService.Login(r.Context(), &req)
	if err != nil {
		switch {
		case errors.Is(err, model.ErrValidation):
			httputil.WriteBadRequest(w, "Email and password are required")
		case errors.Is(err, model.ErrInvalidCredentials):
			httputil.WriteUnauthorized(w, "Invalid email or password")
		default:
			log.Printf("[ERROR] Login handler: err=%v", err)
			httputil.WriteInternalError(w, "Failed to login")
		}
		return
	}

	token, err := h.authService.Issue(*user)
	if err != nil {
		log.Printf("[ERROR] Login handler: user=%s err=%v", user.ID, err)
		httputil.WriteInternalError(w, "Failed to login")
		return
	}

	h.setSessionCookie(w, token)
	httputil.WriteJSON(w, http.StatusOK, model.AuthResponse{
		Message: "Login successful",
		User:    *user,
	})
}

// Logout clears the session cookie. A still-valid session is also revoked
// when a denylist is configured.
// POST /api/logout
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if cookie, err := r.Cookie(model.SessionCookieName); err == nil && cookie.Value != "" {
		if claims, err := h.authService.Verify(r.Context(), cookie.Value); err == nil {
			if err := h.authService.Revoke(r.Context(), claims); err != nil {
				log.Printf("[ERROR] Logout handler: user=%s err=%v", claims.UserID, err)
			}
		}
	}

	h.clearSessionCookie(w)
	httputil.WriteJSON(w, http.StatusOK, model.MessageResponse{Message: "Logout successful"})
}

// Me returns the session claims as issued
// GET /api/me
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.GetClaimsFromContext(r.Context())
	if !ok {
		httputil.WriteUnauthorizedWithCode(w, model.CodeTokenInvalid, "Authentication required")
		return
	}

	httputil.WriteJSON(w, http.StatusOK, model.MeResponse{User: claims})
}

func (h *AuthHandler) setSessionCookie(w http.ResponseWriter, token string) {
	ttl := h.authService.TokenTTL()
	http.SetCookie(w, &http.Cookie{
		Name:     model.SessionCookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   int(ttl.Seconds()),
		Expires:  time.Now().Add(ttl),
		HttpOnly: true,
		Secure:   h.config.IsProduction(),
		SameSite: http.SameSiteStrictMode,
	})
}

func (h *AuthHandler) clearSessionCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     model.SessionCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		Expires:  time.Unix(0, 0),
		HttpOnly: true,
		Secure:   h.config.IsProduction(),
		SameSite: http.SameSiteStrictMode,
	})
}
