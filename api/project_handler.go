package api

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/hamim5264/devengine/catalog"
	"github.com/hamim5264/devengine/errs"
	"github.com/hamim5264/devengine/live"
	"github.com/hamim5264/devengine/models"
)

type projectHandler struct {
	responder Responder
	logger    zerolog.Logger
	projects  projectStore
	tags      tagStore
	feed      collectionNotifier
}

func newProjectHandler(projects projectStore, tags tagStore, feed collectionNotifier) projectHandler {
	logger := log.With().Str("handlerName", "projectHandler").Logger()

	return projectHandler{
		responder: NewResponder(logger),
		logger:    logger,
		projects:  projects,
		tags:      tags,
		feed:      feed,
	}
}

// parseFilter reads ?maxPrice and ?category. Missing values mean no ceiling and all categories.
func parseFilter(r *http.Request) (catalog.Filter, error) {
	var f catalog.Filter

	if raw := strings.TrimSpace(r.URL.Query().Get("maxPrice")); raw != "" {
		maxPrice, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || maxPrice < 0 {
			return f, errs.NewInvalidFieldError("maxPrice", "must be a non-negative whole number")
		}
		f.MaxPrice = &maxPrice
	}

	f.Category = strings.ToLower(strings.TrimSpace(r.URL.Query().Get("category")))
	if f.Category != "" && f.Category != catalog.CategoryAll && !models.Category(f.Category).Valid() {
		return f, errs.NewInvalidFieldError("category", "must be all, android, ios, desktop or web")
	}
	return f, nil
}

// listProjects returns the catalog, filtered by price ceiling and category
// @Summary List projects
// @Description Public projects matching the filter. Admins also see drafts.
// @Tags Projects
// @Produce json
// @Param maxPrice query int false "Highest effective price in BDT"
// @Param category query string false "all, android, ios, desktop or web"
// @Success 200 {object} ProjectCollection
// @Failure 400 {object} ErrorResponse "Bad Request - Invalid filter"
// @Router /projects [get]
func (h projectHandler) listProjects() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		filter, err := parseFilter(r)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		projects, err := h.projects.FindAll(r.Context(), ctxIsAdmin(r.Context()))
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("find projects", "projects", err))
			return
		}

		matched := filter.Apply(projects)
		h.responder.WriteJSON(w, ProjectCollection{Projects: matched, Total: len(matched)})
	}
}

// getProject returns one project with its tag names
// @Summary Get project
// @Tags Projects
// @Produce json
// @Param slug path string true "Project slug"
// @Success 200 {object} ProjectWithTags
// @Failure 404 {object} ErrorResponse "Not Found - Missing or unpublished project"
// @Router /projects/{slug} [get]
func (h projectHandler) getProject() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		project, err := h.projects.FindBySlug(r.Context(), chi.URLParam(r, "slug"))
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("find project", "project", err))
			return
		}
		if !project.IsPublic && !ctxIsAdmin(r.Context()) {
			h.responder.WriteError(w, errs.NewNotFound("project"))
			return
		}

		tags, err := h.tags.FindAll(r.Context())
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("find tags", "tags", err))
			return
		}

		h.responder.WriteJSON(w, ProjectWithTags{
			Project: *project,
			Tags:    catalog.ResolveTags(project.Tags, tags),
		})
	}
}

// home returns the featured sections of the landing page
// @Summary Home sections
// @Tags Projects
// @Produce json
// @Success 200 {object} HomeResponse
// @Router /home [get]
func (h projectHandler) home() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		projects, err := h.projects.FindAll(r.Context(), false)
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("find projects", "projects", err))
			return
		}

		sections := catalog.HomeSections(projects)
		if sections == nil {
			sections = []catalog.HomeSection{}
		}
		h.responder.WriteJSON(w, HomeResponse{Sections: sections})
	}
}

func (req ProjectRequest) apply(p *models.Project) {
	p.Title = strings.TrimSpace(req.Title)
	p.Subtitle = strings.TrimSpace(req.Subtitle)
	p.Details = req.Details
	p.Installation = req.Installation
	p.Tools = []string(req.Tools)
	p.Price = strings.TrimSpace(req.Price)
	p.Discount = strings.TrimSpace(req.Discount)
	p.Category = models.Category(req.Category)
	p.Tags = catalog.UniqueIDs(req.Tags)
	p.IsPublic = req.IsPublic
	if p.Tools == nil {
		p.Tools = []string{}
	}
}

// createProject adds a project under the slug of its title
// @Summary Create project
// @Tags Admin
// @Accept json
// @Produce json
// @Param project body ProjectRequest true "Project data"
// @Success 201 {object} models.Project
// @Failure 400 {object} ErrorResponse "Bad Request - Invalid project data"
// @Failure 409 {object} ErrorResponse "Conflict - Slug already exists"
// @Router /admin/projects [post]
func (h projectHandler) createProject() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req ProjectRequest
		if err := decodeJSON(w, r, &req); err != nil {
			h.responder.WriteError(w, err)
			return
		}

		slug, err := catalog.Slugify("title", req.Title)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		project := models.Project{Slug: slug}
		req.apply(&project)
		if identity := ctxGetIdentity(r.Context()); identity != nil {
			project.CreatedBy = identity.Email
		}

		if err := h.projects.Add(r.Context(), &project); err != nil {
			h.responder.WriteError(w, wrapDatabaseError("create project", "project", err))
			return
		}

		h.logger.Info().Str("slug", slug).Msg("project created")
		h.feed.Notify(r.Context(), live.Projects)
		h.responder.WriteStatus(w, http.StatusCreated, project)
	}
}

// listAllProjects returns every project, drafts included, newest first
// @Summary List all projects
// @Tags Admin
// @Produce json
// @Success 200 {object} ProjectCollection
// @Router /admin/projects [get]
func (h projectHandler) listAllProjects() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		projects, err := h.projects.FindAll(r.Context(), true)
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("find projects", "projects", err))
			return
		}
		h.responder.WriteJSON(w, ProjectCollection{Projects: projects, Total: len(projects)})
	}
}

// updateProject rewrites the editable fields. The slug never changes.
// @Summary Update project
// @Tags Admin
// @Accept json
// @Produce json
// @Param slug path string true "Project slug"
// @Param project body ProjectRequest true "Project data"
// @Success 200 {object} models.Project
// @Failure 404 {object} ErrorResponse "Not Found - Project not found"
// @Router /admin/projects/{slug} [put]
func (h projectHandler) updateProject() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req ProjectRequest
		if err := decodeJSON(w, r, &req); err != nil {
			h.responder.WriteError(w, err)
			return
		}

		project, err := h.projects.FindBySlug(r.Context(), chi.URLParam(r, "slug"))
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("find project", "project", err))
			return
		}

		req.apply(project)
		if err := h.projects.Update(r.Context(), project); err != nil {
			h.responder.WriteError(w, wrapDatabaseError("update project", "project", err))
			return
		}

		h.feed.Notify(r.Context(), live.Projects)
		h.responder.WriteJSON(w, project)
	}
}

// togglePublish flips the project between draft and public
// @Summary Toggle project visibility
// @Tags Admin
// @Produce json
// @Param slug path string true "Project slug"
// @Success 200 {object} PublishResponse
// @Failure 404 {object} ErrorResponse "Not Found - Project not found"
// @Router /admin/projects/{slug}/publish [patch]
func (h projectHandler) togglePublish() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		slug := chi.URLParam(r, "slug")
		isPublic, err := h.projects.TogglePublic(r.Context(), slug)
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("toggle project", "project", err))
			return
		}

		h.logger.Info().Str("slug", slug).Bool("isPublic", isPublic).Msg("project visibility changed")
		h.feed.Notify(r.Context(), live.Projects)
		h.responder.WriteJSON(w, PublishResponse{Slug: slug, IsPublic: isPublic})
	}
}

// deleteProject removes a project
// @Summary Delete project
// @Tags Admin
// @Param slug path string true "Project slug"
// @Success 204 "No Content"
// @Failure 404 {object} ErrorResponse "Not Found - Project not found"
// @Router /admin/projects/{slug} [delete]
func (h projectHandler) deleteProject() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		slug := chi.URLParam(r, "slug")
		if err := h.projects.Delete(r.Context(), slug); err != nil {
			h.responder.WriteError(w, wrapDatabaseError("delete project", "project", err))
			return
		}

		h.logger.Info().Str("slug", slug).Msg("project deleted")
		h.feed.Notify(r.Context(), live.Projects)
		w.WriteHeader(http.StatusNoContent)
	}
}
