package http

import (
	"net/http"
	"time"

	"github.com/devfolio/devfolio/internal/portfolio/domain"
	"github.com/devfolio/devfolio/internal/portfolio/service"
	"github.com/devfolio/devfolio/pkg/httpx"
)

type createAchievementRequest struct {
	Title           string `json:"title"`
	Description     string `json:"description"`
	Date            string `json:"date"`
	CertificateLink string `json:"certificate_link"`
}

type updateAchievementRequest struct {
	Title           *string `json:"title"`
	Description     *string `json:"description"`
	Date            *string `json:"date"`
	CertificateLink *string `json:"certificate_link"`
}

type achievementResponse struct {
	ID              string `json:"id"`
	Title           string `json:"title"`
	Description     string `json:"description"`
	Date            string `json:"date"`
	CertificateLink string `json:"certificate_link"`
	CreatedAt       string `json:"created_at"`
}

func toAchievementResponse(a domain.Achievement) achievementResponse {
	return achievementResponse{
		ID:              a.ID,
		Title:           a.Title,
		Description:     a.Description,
		Date:            a.Date,
		CertificateLink: a.CertificateLink,
		CreatedAt:       a.CreatedAt.UTC().Format(time.RFC3339),
	}
}

func (h *Handlers) handleCreateAchievement(w http.ResponseWriter, r *http.Request) {
	var req createAchievementRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeBadRequest(w, err)
		return
	}

	a, err := h.Achievements.Create(r.Context(), httpx.UserIDFromContext(r.Context()), service.AchievementInput{
		Title:           req.Title,
		Description:     req.Description,
		Date:            req.Date,
		CertificateLink: req.CertificateLink,
	})
	if err != nil {
		writeServiceError(r.Context(), w, err)
		return
	}

	httpx.WriteJSON(w, http.StatusCreated, toAchievementResponse(a))
}

func (h *Handlers) handleListAchievements(w http.ResponseWriter, r *http.Request) {
	list, err := h.Achievements.List(r.Context(), httpx.UserIDFromContext(r.Context()))
	if err != nil {
		writeServiceError(r.Context(), w, err)
		return
	}

	out := make([]achievementResponse, 0, len(list))
	for _, a := range list {
		out = append(out, toAchievementResponse(a))
	}
	httpx.WriteJSON(w, http.StatusOK, out)
}

func (h *Handlers) handleGetAchievement(w http.ResponseWriter, r *http.Request) {
	a, err := h.Achievements.Get(r.Context(), httpx.UserIDFromContext(r.Context()), r.PathValue("id"))
	if err != nil {
		writeServiceError(r.Context(), w, err)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, toAchievementResponse(a))
}

func (h *Handlers) handleUpdateAchievement(w http.ResponseWriter, r *http.Request) {
	var req updateAchievementRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeBadRequest(w, err)
		return
	}

	a, err := h.Achievements.Update(r.Context(), httpx.UserIDFromContext(r.Context()), r.PathValue("id"),
		domain.AchievementUpdate{
			Title:           req.Title,
			Description:     req.Description,
			Date:            req.Date,
			CertificateLink: req.CertificateLink,
		})
	if err != nil {
		writeServiceError(r.Context(), w, err)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, toAchievementResponse(a))
}

func (h *Handlers) handleDeleteAchievement(w http.ResponseWriter, r *http.Request) {
	err := h.Achievements.Delete(r.Context(), httpx.UserIDFromContext(r.Context()), r.PathValue("id"))
	if err != nil {
		writeServiceError(r.Context(), w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
