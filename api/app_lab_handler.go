package api

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/hamim5264/devengine/catalog"
	"github.com/hamim5264/devengine/errs"
	"github.com/hamim5264/devengine/live"
	"github.com/hamim5264/devengine/models"
)

type appLabHandler struct {
	responder Responder
	logger    zerolog.Logger
	apps      appLabStore
	feed      collectionNotifier
	siteURL   string
}

func newAppLabHandler(apps appLabStore, feed collectionNotifier, siteURL string) appLabHandler {
	logger := log.With().Str("handlerName", "appLabHandler").Logger()

	return appLabHandler{
		responder: NewResponder(logger),
		logger:    logger,
		apps:      apps,
		feed:      feed,
		siteURL:   siteURL,
	}
}

// forViewer hides download links from anonymous callers.
func forViewer(r *http.Request, entry models.AppLabEntry) models.AppLabEntry {
	if ctxGetIdentity(r.Context()) == nil {
		entry.ApkURL = ""
	}
	return entry
}

// listApps returns the published App Lab builds
// @Summary List App Lab builds
// @Tags AppLab
// @Produce json
// @Success 200 {object} AppLabCollection
// @Router /app-lab [get]
func (h appLabHandler) listApps() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		apps, err := h.apps.FindAll(r.Context(), ctxIsAdmin(r.Context()))
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("find apps", "apps", err))
			return
		}

		visible := make([]models.AppLabEntry, 0, len(apps))
		for _, app := range apps {
			visible = append(visible, forViewer(r, app))
		}
		h.responder.WriteJSON(w, AppLabCollection{Apps: visible, Total: len(visible)})
	}
}

// getApp returns one build. The APK link is only shown to signed-in callers.
// @Summary Get App Lab build
// @Tags AppLab
// @Produce json
// @Param slug path string true "App slug"
// @Success 200 {object} models.AppLabEntry
// @Failure 404 {object} ErrorResponse "Not Found - Missing or unpublished app"
// @Router /app-lab/{slug} [get]
func (h appLabHandler) getApp() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		app, err := h.visibleApp(r)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		h.responder.WriteJSON(w, forViewer(r, *app))
	}
}

// downloadApp sends signed-in callers to the APK and everyone else to sign in
// @Summary Download App Lab build
// @Tags AppLab
// @Param slug path string true "App slug"
// @Success 302 "Redirect to the APK or the login page"
// @Router /app-lab/{slug}/download [get]
func (h appLabHandler) downloadApp() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		slug := chi.URLParam(r, "slug")
		if ctxGetIdentity(r.Context()) == nil {
			h.responder.Redirect(w, r, loginURL(h.siteURL, "/app-lab/"+slug))
			return
		}

		app, err := h.visibleApp(r)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		h.logger.Info().Str("slug", slug).Msg("apk download")
		h.responder.Redirect(w, r, app.ApkURL)
	}
}

func (h appLabHandler) visibleApp(r *http.Request) (*models.AppLabEntry, error) {
	app, err := h.apps.FindBySlug(r.Context(), chi.URLParam(r, "slug"))
	if err != nil {
		return nil, wrapDatabaseError("find app", "app", err)
	}
	if !app.IsPublic && !ctxIsAdmin(r.Context()) {
		return nil, errs.NewNotFound("app")
	}
	return app, nil
}

// createApp adds an App Lab build under the slug of its name
// @Summary Create App Lab build
// @Tags Admin
// @Accept json
// @Produce json
// @Param app body AppLabRequest true "App data"
// @Success 201 {object} models.AppLabEntry
// @Failure 409 {object} ErrorResponse "Conflict - App already exists"
// @Router /admin/app-lab [post]
func (h appLabHandler) createApp() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req AppLabRequest
		if err := decodeJSON(w, r, &req); err != nil {
			h.responder.WriteError(w, err)
			return
		}

		slug, err := catalog.Slugify("name", req.Name)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		entry := models.AppLabEntry{
			Slug:        slug,
			Name:        strings.TrimSpace(req.Name),
			Subtitle:    strings.TrimSpace(req.Subtitle),
			Version:     strings.TrimSpace(req.Version),
			Platform:    models.PlatformAndroid,
			ApkURL:      strings.TrimSpace(req.ApkURL),
			Description: req.Description,
			Usages:      nonNil(req.Usages),
			Warnings:    nonNil(req.Warnings),
			Images:      nonNil(catalog.NormalizeImageURLs(req.Images)),
			IsPublic:    req.IsPublic,
		}

		if err := h.apps.Add(r.Context(), &entry); err != nil {
			h.responder.WriteError(w, wrapDatabaseError("create app", "app", err))
			return
		}

		h.logger.Info().Str("slug", slug).Msg("app created")
		h.feed.Notify(r.Context(), live.AppLab)
		h.responder.WriteStatus(w, http.StatusCreated, entry)
	}
}

// listAllApps returns every build, drafts included
// @Summary List all App Lab builds
// @Tags Admin
// @Produce json
// @Success 200 {object} AppLabCollection
// @Router /admin/app-lab [get]
func (h appLabHandler) listAllApps() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		apps, err := h.apps.FindAll(r.Context(), true)
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("find apps", "apps", err))
			return
		}
		h.responder.WriteJSON(w, AppLabCollection{Apps: apps, Total: len(apps)})
	}
}

// togglePublish flips the build between draft and public
// @Summary Toggle App Lab visibility
// @Tags Admin
// @Produce json
// @Param slug path string true "App slug"
// @Success 200 {object} PublishResponse
// @Router /admin/app-lab/{slug}/publish [patch]
func (h appLabHandler) togglePublish() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		slug := chi.URLParam(r, "slug")
		isPublic, err := h.apps.TogglePublic(r.Context(), slug)
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("toggle app", "app", err))
			return
		}

		h.feed.Notify(r.Context(), live.AppLab)
		h.responder.WriteJSON(w, PublishResponse{Slug: slug, IsPublic: isPublic})
	}
}

// deleteApp removes a build
// @Summary Delete App Lab build
// @Tags Admin
// @Param slug path string true "App slug"
// @Success 204 "No Content"
// @Router /admin/app-lab/{slug} [delete]
func (h appLabHandler) deleteApp() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		slug := chi.URLParam(r, "slug")
		if err := h.apps.Delete(r.Context(), slug); err != nil {
			h.responder.WriteError(w, wrapDatabaseError("delete app", "app", err))
			return
		}

		h.feed.Notify(r.Context(), live.AppLab)
		w.WriteHeader(http.StatusNoContent)
	}
}

func nonNil(items []string) []string {
	if items == nil {
		return []string{}
	}
	return items
}
