package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/mdr/duck-rewards-website/internal/api/middleware"
	"github.com/mdr/duck-rewards-website/internal/domain"
	"github.com/mdr/duck-rewards-website/internal/service"
)

// User-facing messages for the business partnership gate.
const (
	pendingApprovalMessage = "Your business partnership is pending approval. You will receive an email once approved."
	rejectedMessage        = "Your business partnership application was not approved. Please contact support for more information."
)

type AuthHandler struct {
	authService *service.AuthService
}

func NewAuthHandler(authService *service.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

type RegisterRequest struct {
	Email    string                  `json:"email"`
	Password string                  `json:"password"`
	UserType string                  `json:"user_type"`
	Profile  service.ProfileFields   `json:"profile"`
	Business *service.BusinessFields `json:"business"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type IdentityResponse struct {
	ID               string     `json:"id"`
	Email            string     `json:"email"`
	EmailConfirmedAt *time.Time `json:"email_confirmed_at,omitempty"`
}

type AuthResponse struct {
	User         *domain.User `json:"user"`
	AccessToken  string       `json:"access_token"`
	RefreshToken string       `json:"refresh_token"`
	RedirectTo   string       `json:"redirect_to"`
}

func identityResponse(identity *domain.Identity) IdentityResponse {
	return IdentityResponse{
		ID:               identity.ID.String(),
		Email:            identity.Email,
		EmailConfirmedAt: identity.EmailConfirmedAt,
	}
}

func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	if req.Email == "" || req.Password == "" {
		http.Error(w, "Email and password are required", http.StatusBadRequest)
		return
	}

	userType := domain.UserType(req.UserType).Normalize()
	if userType == domain.UserTypeAdmin {
		// Admin accounts are provisioned by existing admins, never self-signup.
		http.Error(w, "Invalid user type", http.StatusBadRequest)
		return
	}

	identity, err := h.authService.Register(r.Context(), service.RegisterInput{
		Email:    req.Email,
		Password: req.Password,
		UserType: userType,
		Profile:  req.Profile,
		Business: req.Business,
	})
	if err != nil {
		if errors.Is(err, service.ErrEmailExists) {
			http.Error(w, "Email already registered", http.StatusConflict)
			return
		}
		if errors.Is(err, domain.ErrInvalidUserType) {
			http.Error(w, "Invalid user type", http.StatusBadRequest)
			return
		}
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(identityResponse(identity))
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	if req.Email == "" || req.Password == "" {
		http.Error(w, "Email and password are required", http.StatusBadRequest)
		return
	}

	result, err := h.authService.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidCredentials):
			http.Error(w, "Invalid credentials", http.StatusUnauthorized)
		case errors.Is(err, service.ErrAccountSuspended):
			http.Error(w, "Account suspended", http.StatusForbidden)
		case errors.Is(err, domain.ErrBusinessPending):
			http.Error(w, pendingApprovalMessage, http.StatusForbidden)
		case errors.Is(err, domain.ErrBusinessRejected):
			http.Error(w, rejectedMessage, http.StatusForbidden)
		default:
			http.Error(w, "Internal server error", http.StatusInternalServerError)
		}
		return
	}

	resp := AuthResponse{
		User:         result.User,
		AccessToken:  result.AccessToken,
		RefreshToken: result.RefreshToken,
		RedirectTo:   result.User.UserType.CanonicalHome(),
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(resp)
}

func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	user, err := h.authService.GetUserByID(r.Context(), userID)
	if err != nil {
		http.Error(w, "User not found", http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(user)
}

// Session returns the resolved session snapshot plus the profile-quality
// signals, the same shape the websocket pushes on session changes.
func (h *AuthHandler) Session(w http.ResponseWriter, r *http.Request) {
	snap, _ := middleware.GetSession(r.Context())

	resp := map[string]any{
		"session":            snap,
		"user_type":          snap.UserType(),
		"profile_complete":   snap.ProfileComplete(),
		"completion_percent": snap.CompletionPercent(),
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(resp)
}

func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	if err := h.authService.Logout(r.Context(), userID); err != nil {
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]bool{"success": true})
}
