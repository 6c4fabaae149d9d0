package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/example/marketplace/internal/api/middleware"
	"github.com/example/marketplace/internal/auth"
	"github.com/example/marketplace/internal/domain/user"
	"github.com/example/marketplace/internal/model"
)

// AuthHandlers handles registration, login and profile requests.
type AuthHandlers struct {
	userService *user.Service
	jwtService  *auth.JWTService
}

func NewAuthHandlers(userService *user.Service, jwtService *auth.JWTService) *AuthHandlers {
	return &AuthHandlers{
		userService: userService,
		jwtService:  jwtService,
	}
}

// RegisterRequest is the registration request body.
type RegisterRequest struct {
	FullName string     `json:"fullName"`
	Email    string     `json:"email"`
	Password string     `json:"password"`
	Role     model.Role `json:"role"`
}

// LoginRequest is the login request body.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Register creates a new identity.
func (h *AuthHandlers) Register(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	_, err := h.userService.Register(r.Context(), req.FullName, req.Email, req.Password, req.Role)
	if err != nil {
		switch {
		case errors.Is(err, user.ErrInvalidRole):
			respondError(w, http.StatusBadRequest, "Invalid role")
		case errors.Is(err, user.ErrMissingField):
			respondError(w, http.StatusBadRequest, "fullName, email and password are required")
		case errors.Is(err, user.ErrEmailTaken):
			respondError(w, http.StatusBadRequest, "Email already exists")
		case errors.Is(err, auth.ErrPasswordTooShort):
			respondError(w, http.StatusBadRequest, "Password must be at least 8 characters")
		default:
			respondInternal(w, err)
		}
		return
	}

	respondJSON(w, http.StatusCreated, map[string]string{
		"message": "User registered successfully",
	})
}

// Login verifies credentials and issues a token.
func (h *AuthHandlers) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	u, err := h.userService.Authenticate(r.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, user.ErrInvalidCredentials) {
			respondError(w, http.StatusBadRequest, "Invalid credentials")
			return
		}
		respondInternal(w, err)
		return
	}

	token, _, err := h.jwtService.Issue(u.ID, u.Email, u.Role)
	if err != nil {
		respondInternal(w, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{"token": token})
}

// Profile returns the caller's own profile.
func (h *AuthHandlers) Profile(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.GetUserFromContext(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "Authentication required")
		return
	}

	u, err := h.userService.Profile(r.Context(), claims.UserID)
	if err != nil {
		if errors.Is(err, user.ErrUserNotFound) {
			respondError(w, http.StatusNotFound, "User not found")
			return
		}
		respondInternal(w, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]any{
		"message": "Profile retrieved successfully",
		"user":    u,
	})
}
