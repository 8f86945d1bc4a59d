package http

import (
	"net/http"
	"time"

	"github.com/devfolio/devfolio/internal/portfolio/domain"
	"github.com/devfolio/devfolio/pkg/httpx"
)

type registerRequest struct {
	Email    string `json:"email"`
	Name     string `json:"name"`
	Password string `json:"password"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// userResponse is the authenticated self-view. Password material is
// structurally absent.
type userResponse struct {
	ID        string `json:"id"`
	Email     string `json:"email"`
	Name      string `json:"name"`
	Slug      string `json:"unique_slug"`
	CreatedAt string `json:"created_at"`
}

type tokenResponse struct {
	AccessToken string       `json:"access_token"`
	TokenType   string       `json:"token_type"`
	ExpiresAt   string       `json:"expires_at"`
	User        userResponse `json:"user"`
}

func toUserResponse(u domain.User) userResponse {
	return userResponse{
		ID:        u.ID,
		Email:     u.Email,
		Name:      u.Name,
		Slug:      u.Slug,
		CreatedAt: u.CreatedAt.UTC().Format(time.RFC3339),
	}
}

func (h *Handlers) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeBadRequest(w, err)
		return
	}

	user, err := h.Users.Register(r.Context(), req.Email, req.Name, req.Password)
	if err != nil {
		writeServiceError(r.Context(), w, err)
		return
	}

	issued, err := h.Tokens.Issue(r.Context(), user.ID)
	if err != nil {
		writeServiceError(r.Context(), w, err)
		return
	}

	httpx.WriteJSON(w, http.StatusCreated, tokenResponse{
		AccessToken: issued.Token,
		TokenType:   issued.TokenType,
		ExpiresAt:   issued.ExpiresAt.UTC().Format(time.RFC3339),
		User:        toUserResponse(user),
	})
}

func (h *Handlers) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeBadRequest(w, err)
		return
	}

	user, err := h.Users.Authenticate(r.Context(), req.Email, req.Password)
	if err != nil {
		writeServiceError(r.Context(), w, err)
		return
	}

	issued, err := h.Tokens.Issue(r.Context(), user.ID)
	if err != nil {
		writeServiceError(r.Context(), w, err)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, tokenResponse{
		AccessToken: issued.Token,
		TokenType:   issued.TokenType,
		ExpiresAt:   issued.ExpiresAt.UTC().Format(time.RFC3339),
		User:        toUserResponse(user),
	})
}

func (h *Handlers) handleMe(w http.ResponseWriter, r *http.Request) {
	userID := httpx.UserIDFromContext(r.Context())

	user, err := h.Users.GetUserByID(r.Context(), userID)
	if err != nil {
		writeServiceError(r.Context(), w, err)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, toUserResponse(user))
}

// handleLogout denylists exactly the token that made this request, using
// the jti the authn middleware stashed in the context.
func (h *Handlers) handleLogout(w http.ResponseWriter, r *http.Request) {
	if err := h.Tokens.Revoke(r.Context(), httpx.TokenIDFromContext(r.Context())); err != nil {
		writeServiceError(r.Context(), w, err)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, map[string]string{"status": "logged out"})
}
