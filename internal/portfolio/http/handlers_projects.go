package http

import (
	"net/http"
	"time"

	"github.com/devfolio/devfolio/internal/portfolio/domain"
	"github.com/devfolio/devfolio/internal/portfolio/service"
	"github.com/devfolio/devfolio/pkg/httpx"
)

type createProjectRequest struct {
	Title         string   `json:"title"`
	Description   string   `json:"description"`
	ReadmeContent string   `json:"readme_content"`
	TechStack     []string `json:"tech_stack"`
	GithubLink    string   `json:"github_link"`
	LiveDemoLink  string   `json:"live_demo_link"`
}

type updateProjectRequest struct {
	Title         *string   `json:"title"`
	Description   *string   `json:"description"`
	ReadmeContent *string   `json:"readme_content"`
	TechStack     *[]string `json:"tech_stack"`
	GithubLink    *string   `json:"github_link"`
	LiveDemoLink  *string   `json:"live_demo_link"`
}

type projectResponse struct {
	ID            string   `json:"id"`
	Title         string   `json:"title"`
	Description   string   `json:"description"`
	ReadmeContent string   `json:"readme_content"`
	TechStack     []string `json:"tech_stack"`
	GithubLink    string   `json:"github_link"`
	LiveDemoLink  string   `json:"live_demo_link"`
	CreatedAt     string   `json:"created_at"`
	UpdatedAt     string   `json:"updated_at"`
}

func toProjectResponse(p domain.Project) projectResponse {
	stack := p.TechStack
	if stack == nil {
		stack = []string{}
	}
	return projectResponse{
		ID:            p.ID,
		Title:         p.Title,
		Description:   p.Description,
		ReadmeContent: p.ReadmeContent,
		TechStack:     stack,
		GithubLink:    p.GithubLink,
		LiveDemoLink:  p.LiveDemoLink,
		CreatedAt:     p.CreatedAt.UTC().Format(time.RFC3339),
		UpdatedAt:     p.UpdatedAt.UTC().Format(time.RFC3339),
	}
}

func (h *Handlers) handleCreateProject(w http.ResponseWriter, r *http.Request) {
	var req createProjectRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeBadRequest(w, err)
		return
	}

	p, err := h.Projects.Create(r.Context(), httpx.UserIDFromContext(r.Context()), service.ProjectInput{
		Title:         req.Title,
		Description:   req.Description,
		ReadmeContent: req.ReadmeContent,
		TechStack:     req.TechStack,
		GithubLink:    req.GithubLink,
		LiveDemoLink:  req.LiveDemoLink,
	})
	if err != nil {
		writeServiceError(r.Context(), w, err)
		return
	}

	httpx.WriteJSON(w, http.StatusCreated, toProjectResponse(p))
}

func (h *Handlers) handleListProjects(w http.ResponseWriter, r *http.Request) {
	list, err := h.Projects.List(r.Context(), httpx.UserIDFromContext(r.Context()))
	if err != nil {
		writeServiceError(r.Context(), w, err)
		return
	}

	out := make([]projectResponse, 0, len(list))
	for _, p := range list {
		out = append(out, toProjectResponse(p))
	}
	httpx.WriteJSON(w, http.StatusOK, out)
}

func (h *Handlers) handleGetProject(w http.ResponseWriter, r *http.Request) {
	p, err := h.Projects.Get(r.Context(), httpx.UserIDFromContext(r.Context()), r.PathValue("id"))
	if err != nil {
		writeServiceError(r.Context(), w, err)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, toProjectResponse(p))
}

func (h *Handlers) handleUpdateProject(w http.ResponseWriter, r *http.Request) {
	var req updateProjectRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeBadRequest(w, err)
		return
	}

	p, err := h.Projects.Update(r.Context(), httpx.UserIDFromContext(r.Context()), r.PathValue("id"),
		domain.ProjectUpdate{
			Title:         req.Title,
			Description:   req.Description,
			ReadmeContent: req.ReadmeContent,
			TechStack:     req.TechStack,
			GithubLink:    req.GithubLink,
			LiveDemoLink:  req.LiveDemoLink,
		})
	if err != nil {
		writeServiceError(r.Context(), w, err)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, toProjectResponse(p))
}

func (h *Handlers) handleDeleteProject(w http.ResponseWriter, r *http.Request) {
	err := h.Projects.Delete(r.Context(), httpx.UserIDFromContext(r.Context()), r.PathValue("id"))
	if err != nil {
		writeServiceError(r.Context(), w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
