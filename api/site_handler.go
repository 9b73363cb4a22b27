package api

import (
	"embed"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/hamim5264/devengine/errs"
)

//go:embed pages/*.md
var staticPages embed.FS

var pageSlugs = map[string]bool{
	"about":          true,
	"privacy-policy": true,
	"copyright":      true,
	"terms":          true,
}

var (
	publicNav = []NavLink{
		{Label: "Home", Href: "/"},
		{Label: "Projects", Href: "/projects"},
		{Label: "App Lab", Href: "/app-lab"},
		{Label: "Reviews", Href: "/reviews"},
		{Label: "About", Href: "/about"},
		{Label: "Contact", Href: "/contact"},
		{Label: "Privacy Policy", Href: "/privacy-policy"},
	}
	guestNav = []NavLink{
		{Label: "Login", Href: "/login"},
		{Label: "Sign Up", Href: "/signup"},
	}
	adminNav = []NavLink{
		{Label: "Add Project", Href: "/admin/add-project"},
		{Label: "Manage Projects", Href: "/admin/manage-projects"},
		{Label: "Manage Tags", Href: "/admin/manage-tags"},
	}
	footerLinks = []NavLink{
		{Label: "LinkedIn", Href: "https://www.linkedin.com/in/abdul-hamim-a35b02253"},
		{Label: "GitHub", Href: "https://github.com/hamim5264"},
		{Label: "Instagram", Href: "https://www.instagram.com/hamimleon"},
		{Label: "Facebook", Href: "https://www.facebook.com/share/18wTRxW6Fk/"},
		{Label: "Copyright", Href: "/copyright"},
		{Label: "Terms", Href: "/terms"},
	}
)

type siteHandler struct {
	responder   Responder
	logger      zerolog.Logger
	startupTime time.Time
}

func newSiteHandler(startupTime time.Time) siteHandler {
	logger := log.With().Str("handlerName", "siteHandler").Logger()

	return siteHandler{
		responder:   NewResponder(logger),
		logger:      logger,
		startupTime: startupTime,
	}
}

// session describes the page chrome for the current caller
// @Summary Site session
// @Tags Site
// @Produce json
// @Success 200 {object} SiteSession
// @Router /site/session [get]
func (h siteHandler) session() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s := SiteSession{Footer: footerLinks}

		identity := ctxGetIdentity(r.Context())
		if identity == nil {
			s.Nav = append(append([]NavLink{}, publicNav...), guestNav...)
			h.responder.WriteJSON(w, s)
			return
		}

		s.SignedIn = true
		s.DisplayName = identity.Name
		if s.DisplayName == "" {
			s.DisplayName = identity.Email
		}
		s.Role = identity.Role
		s.DashboardPath = identity.DashboardPath()
		s.Nav = append(append([]NavLink{}, publicNav...), NavLink{Label: "Dashboard", Href: s.DashboardPath})
		if identity.IsAdmin() {
			s.AdminNav = adminNav
		}
		h.responder.WriteJSON(w, s)
	}
}

// page returns one of the static informational pages as markdown
// @Summary Static page
// @Tags Site
// @Produce json
// @Param slug path string true "about, privacy-policy, copyright or terms"
// @Success 200 {object} PageResponse
// @Failure 404 {object} ErrorResponse "Not Found - Unknown page"
// @Router /site/pages/{slug} [get]
func (h siteHandler) page() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		slug := chi.URLParam(r, "slug")
		if !pageSlugs[slug] {
			h.responder.WriteError(w, errs.NewNotFound("page"))
			return
		}

		content, err := staticPages.ReadFile("pages/" + slug + ".md")
		if err != nil {
			h.responder.WriteError(w, errs.NewInternalErrorWithCause("read page", err))
			return
		}
		w.Header().Set("Cache-Control", "public, max-age=3600")
		h.responder.WriteJSON(w, PageResponse{Slug: slug, Markdown: string(content)})
	}
}

// health reports liveness and uptime
// @Summary Health check
// @Tags Site
// @Produce json
// @Success 200 {object} HealthResponse
// @Router /health [get]
func (h siteHandler) health() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		h.responder.WriteJSON(w, HealthResponse{
			Status: "ok",
			Uptime: time.Since(h.startupTime).Round(time.Second).String(),
		})
	}
}
