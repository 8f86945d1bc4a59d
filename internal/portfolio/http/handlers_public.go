package http

import (
	"net/http"

	"github.com/devfolio/devfolio/internal/portfolio/domain"
	"github.com/devfolio/devfolio/pkg/httpx"
)

func (h *Handlers) handleProfile(w http.ResponseWriter, r *http.Request) {
	sections, err := domain.ParseSections(r.URL.Query().Get("sections"))
	if err != nil {
		writeServiceError(r.Context(), w, err)
		return
	}

	profile, err := h.Exports.BuildProfile(r.Context(), r.PathValue("slug"), sections)
	if err != nil {
		writeServiceError(r.Context(), w, err)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, profile)
}

func (h *Handlers) handleExport(w http.ResponseWriter, r *http.Request) {
	sections, err := domain.ParseSections(r.URL.Query().Get("sections"))
	if err != nil {
		writeServiceError(r.Context(), w, err)
		return
	}

	export, err := h.Exports.BuildExport(r.Context(), r.PathValue("slug"), sections)
	if err != nil {
		writeServiceError(r.Context(), w, err)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, export)
}
