package api

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/hamim5264/devengine/catalog"
	"github.com/hamim5264/devengine/live"
	"github.com/hamim5264/devengine/models"
)

type tagHandler struct {
	responder Responder
	logger    zerolog.Logger
	tags      tagStore
	feed      collectionNotifier
}

func newTagHandler(tags tagStore, feed collectionNotifier) tagHandler {
	logger := log.With().Str("handlerName", "tagHandler").Logger()

	return tagHandler{
		responder: NewResponder(logger),
		logger:    logger,
		tags:      tags,
		feed:      feed,
	}
}

// listTags returns every tag sorted by name
// @Summary List tags
// @Tags Tags
// @Produce json
// @Success 200 {object} TagCollection
// @Router /tags [get]
func (h tagHandler) listTags() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		tags, err := h.tags.FindAll(r.Context())
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("find tags", "tags", err))
			return
		}
		if tags == nil {
			tags = []models.Tag{}
		}
		h.responder.WriteJSON(w, TagCollection{Tags: tags})
	}
}

// createTag adds a tag whose id is the slug of its name
// @Summary Create tag
// @Tags Admin
// @Accept json
// @Produce json
// @Param tag body TagRequest true "Tag name"
// @Success 201 {object} models.Tag
// @Failure 409 {object} ErrorResponse "Conflict - Tag already exists"
// @Router /admin/tags [post]
func (h tagHandler) createTag() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req TagRequest
		if err := decodeJSON(w, r, &req); err != nil {
			h.responder.WriteError(w, err)
			return
		}

		id, err := catalog.Slugify("name", req.Name)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		tag := models.Tag{ID: id, Name: strings.TrimSpace(req.Name)}
		if err := h.tags.Add(r.Context(), &tag); err != nil {
			h.responder.WriteError(w, wrapDatabaseError("create tag", "tag", err))
			return
		}

		h.feed.Notify(r.Context(), live.Tags)
		h.responder.WriteStatus(w, http.StatusCreated, tag)
	}
}

// renameTag changes the display name. The id stays.
// @Summary Rename tag
// @Tags Admin
// @Accept json
// @Produce json
// @Param id path string true "Tag id"
// @Param tag body TagRequest true "New name"
// @Success 200 {object} models.Tag
// @Failure 404 {object} ErrorResponse "Not Found - Tag not found"
// @Router /admin/tags/{id} [put]
func (h tagHandler) renameTag() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req TagRequest
		if err := decodeJSON(w, r, &req); err != nil {
			h.responder.WriteError(w, err)
			return
		}

		tag := models.Tag{ID: chi.URLParam(r, "id"), Name: strings.TrimSpace(req.Name)}
		if err := h.tags.Rename(r.Context(), tag.ID, tag.Name); err != nil {
			h.responder.WriteError(w, wrapDatabaseError("rename tag", "tag", err))
			return
		}

		h.feed.Notify(r.Context(), live.Tags)
		h.responder.WriteJSON(w, tag)
	}
}

// deleteTag removes a tag. Projects keep the id; reads skip it.
// @Summary Delete tag
// @Tags Admin
// @Param id path string true "Tag id"
// @Success 204 "No Content"
// @Failure 404 {object} ErrorResponse "Not Found - Tag not found"
// @Router /admin/tags/{id} [delete]
func (h tagHandler) deleteTag() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")
		if err := h.tags.Delete(r.Context(), id); err != nil {
			h.responder.WriteError(w, wrapDatabaseError("delete tag", "tag", err))
			return
		}

		h.logger.Info().Str("tagId", id).Msg("tag deleted")
		h.feed.Notify(r.Context(), live.Tags)
		w.WriteHeader(http.StatusNoContent)
	}
}
