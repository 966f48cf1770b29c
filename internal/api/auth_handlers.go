package api

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/example/ec-shop-api/internal/api/middleware"
	"github.com/example/ec-shop-api/internal/auth"
	"github.com/example/ec-shop-api/internal/domain/activity"
	"github.com/example/ec-shop-api/internal/domain/user"
)

// AuthHandlers covers registration, login, token refresh and profile.
type AuthHandlers struct {
	users      *user.Service
	tokens     *auth.TokenManager
	activities *activity.Recorder
}

func NewAuthHandlers(users *user.Service, tokens *auth.TokenManager, activities *activity.Recorder) *AuthHandlers {
	return &AuthHandlers{users: users, tokens: tokens, activities: activities}
}

type registerRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type userResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Role      user.Role `json:"role"`
	CreatedAt time.Time `json:"created_at"`
}

func toUserResponse(u *user.User) userResponse {
	return userResponse{ID: u.ID, Name: u.Name, Email: u.Email, Role: u.Role, CreatedAt: u.CreatedAt}
}

func (h *AuthHandlers) Register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondMessage(w, http.StatusBadRequest, "invalid request body")
		return
	}

	u, err := h.users.Register(r.Context(), req.Name, req.Email, req.Password)
	if err != nil {
		respondDomainError(w, err)
		return
	}

	h.activities.Record(r.Context(), activity.Record{
		Activity:   "New user registered",
		UserID:     u.ID,
		UserEmail:  u.Email,
		EntityType: activity.EntityUser,
		EntityID:   u.ID,
		Status:     activity.StatusNew,
	})

	h.setAuthCookies(w, u)
	respondJSON(w, http.StatusCreated, toUserResponse(u))
}

func (h *AuthHandlers) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondMessage(w, http.StatusBadRequest, "invalid request body")
		return
	}

	u, err := h.users.Authenticate(r.Context(), req.Email, req.Password)
	if err != nil {
		respondDomainError(w, err)
		return
	}

	h.activities.Record(r.Context(), activity.Record{
		Activity:   "User logged in",
		UserID:     u.ID,
		UserEmail:  u.Email,
		EntityType: activity.EntityUser,
		EntityID:   u.ID,
		Status:     activity.StatusUpdated,
	})

	h.setAuthCookies(w, u)
	respondJSON(w, http.StatusOK, toUserResponse(u))
}

// Refresh exchanges a valid refresh token for a new token pair.
func (h *AuthHandlers) Refresh(w http.ResponseWriter, r *http.Request) {
	cookie, err := r.Cookie("refresh_token")
	if err != nil {
		respondMessage(w, http.StatusUnauthorized, "missing refresh token")
		return
	}

	userID, err := h.tokens.ParseRefreshToken(cookie.Value)
	if err != nil {
		respondMessage(w, http.StatusUnauthorized, "invalid refresh token")
		return
	}

	u, err := h.users.Get(r.Context(), userID)
	if err != nil {
		respondDomainError(w, err)
		return
	}

	h.setAuthCookies(w, u)
	respondJSON(w, http.StatusOK, toUserResponse(u))
}

func (h *AuthHandlers) Logout(w http.ResponseWriter, r *http.Request) {
	clearCookie(w, "access_token")
	clearCookie(w, "refresh_token")
	respondMessage(w, http.StatusOK, "logged out")
}

func (h *AuthHandlers) Profile(w http.ResponseWriter, r *http.Request) {
	u, err := h.users.Get(r.Context(), middleware.UserID(r.Context()))
	if err != nil {
		respondDomainError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, toUserResponse(u))
}

func (h *AuthHandlers) setAuthCookies(w http.ResponseWriter, u *user.User) {
	access, accessExpiry, err := h.tokens.IssueAccessToken(u.ID, u.Email, string(u.Role))
	if err != nil {
		respondMessage(w, http.StatusInternalServerError, "failed to issue token")
		return
	}
	refresh, refreshExpiry, err := h.tokens.IssueRefreshToken(u.ID)
	if err != nil {
		respondMessage(w, http.StatusInternalServerError, "failed to issue token")
		return
	}

	setCookie(w, "access_token", access, accessExpiry)
	setCookie(w, "refresh_token", refresh, refreshExpiry)
}

func setCookie(w http.ResponseWriter, name, value string, expires time.Time) {
	http.SetCookie(w, &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     "/",
		Expires:  expires,
		HttpOnly: true,
		SameSite: http.SameSiteStrictMode,
	})
}

func clearCookie(w http.ResponseWriter, name string) {
	http.SetCookie(w, &http.Cookie{
		Name:     name,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
	})
}
