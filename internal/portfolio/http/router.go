package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/devfolio/devfolio/internal/portfolio/service"
	"github.com/devfolio/devfolio/internal/portfolio/store"
	"github.com/devfolio/devfolio/pkg/httpx"
	"github.com/devfolio/devfolio/pkg/jwtx"
	"github.com/devfolio/devfolio/pkg/slogx"
)

// Handlers bundles everything the HTTP surface needs.
type Handlers struct {
	Users        *service.UserService
	Tokens       *service.TokenService
	Projects     *service.ProjectService
	Achievements *service.AchievementService
	Exports      *service.ExportService

	Store   store.Store
	Keys    *jwtx.KeySet
	Logger  *slog.Logger
	Version string

	// CORSOrigins is the allow-list handed to the CORS middleware;
	// ["*"] allows everything.
	CORSOrigins []string

	started time.Time
}

// NewRouter wires every endpoint with its middleware chain. Auth endpoints
// run under the strict limiter, authenticated CRUD under the lenient
// per-user limiter, and the public read surface under the public tier.
func NewRouter(h *Handlers) http.Handler {
	h.started = time.Now()

	authn := httpx.AuthnMiddleware(h.Tokens)
	strict := httpx.RateLimitByIP(httpx.StrictLimit)
	lenient := httpx.RateLimitByUser(httpx.LenientLimit)
	public := httpx.RateLimitByIP(httpx.PublicLimit)

	mux := http.NewServeMux()

	// Auth
	mux.Handle("POST /api/auth/register", httpx.Chain(http.HandlerFunc(h.handleRegister), strict))
	mux.Handle("POST /api/auth/login", httpx.Chain(http.HandlerFunc(h.handleLogin), strict))
	mux.Handle("GET /api/auth/me", httpx.Chain(http.HandlerFunc(h.handleMe), authn, lenient))
	mux.Handle("POST /api/auth/logout", httpx.Chain(http.HandlerFunc(h.handleLogout), authn, lenient))

	// Projects
	mux.Handle("POST /api/projects", httpx.Chain(http.HandlerFunc(h.handleCreateProject), authn, lenient))
	mux.Handle("GET /api/projects", httpx.Chain(http.HandlerFunc(h.handleListProjects), authn, lenient))
	mux.Handle("GET /api/projects/{id}", httpx.Chain(http.HandlerFunc(h.handleGetProject), authn, lenient))
	mux.Handle("PUT /api/projects/{id}", httpx.Chain(http.HandlerFunc(h.handleUpdateProject), authn, lenient))
	mux.Handle("DELETE /api/projects/{id}", httpx.Chain(http.HandlerFunc(h.handleDeleteProject), authn, lenient))

	// Achievements
	mux.Handle("POST /api/achievements", httpx.Chain(http.HandlerFunc(h.handleCreateAchievement), authn, lenient))
	mux.Handle("GET /api/achievements", httpx.Chain(http.HandlerFunc(h.handleListAchievements), authn, lenient))
	mux.Handle("GET /api/achievements/{id}", httpx.Chain(http.HandlerFunc(h.handleGetAchievement), authn, lenient))
	mux.Handle("PUT /api/achievements/{id}", httpx.Chain(http.HandlerFunc(h.handleUpdateAchievement), authn, lenient))
	mux.Handle("DELETE /api/achievements/{id}", httpx.Chain(http.HandlerFunc(h.handleDeleteAchievement), authn, lenient))

	// Public read surface
	mux.Handle("GET /api/profile/{slug}", httpx.Chain(http.HandlerFunc(h.handleProfile), public))
	mux.Handle("GET /api/export/{slug}", httpx.Chain(http.HandlerFunc(h.handleExport), public))

	// Health
	mux.Handle("GET /livez", http.HandlerFunc(h.handleLivez))
	mux.Handle("GET /readyz", http.HandlerFunc(h.handleReadyz))

	return httpx.Chain(mux,
		slogx.HTTPMiddleware(h.Logger),
		httpx.CORSMiddleware(h.CORSOrigins),
	)
}
