package api

import (
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/hamim5264/devengine/models"
)

const anonymousReviewer = "Anonymous"

type reviewHandler struct {
	responder Responder
	logger    zerolog.Logger
	reviews   reviewStore
	users     userStore
}

func newReviewHandler(reviews reviewStore, users userStore) reviewHandler {
	logger := log.With().Str("handlerName", "reviewHandler").Logger()

	return reviewHandler{
		responder: NewResponder(logger),
		logger:    logger,
		reviews:   reviews,
		users:     users,
	}
}

// listReviews returns every review, newest first
// @Summary List reviews
// @Tags Reviews
// @Produce json
// @Success 200 {object} ReviewCollection
// @Router /reviews [get]
func (h reviewHandler) listReviews() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		reviews, err := h.reviews.FindAll(r.Context())
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("find reviews", "reviews", err))
			return
		}
		if reviews == nil {
			reviews = []models.Review{}
		}
		h.responder.WriteJSON(w, ReviewCollection{Reviews: reviews})
	}
}

// createReview posts a review under the caller's profile name
// @Summary Post review
// @Tags Reviews
// @Accept json
// @Produce json
// @Param review body ReviewRequest true "Review text and rating"
// @Success 201 {object} models.Review
// @Failure 400 {object} ErrorResponse "Bad Request - Invalid rating"
// @Failure 401 {object} ErrorResponse "Unauthorized - Sign in required"
// @Router /reviews [post]
func (h reviewHandler) createReview() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req ReviewRequest
		if err := decodeJSON(w, r, &req); err != nil {
			h.responder.WriteError(w, err)
			return
		}

		identity := ctxGetIdentity(r.Context())
		name := identity.Name
		if profile, err := h.users.FindByUID(r.Context(), identity.UID); err == nil && strings.TrimSpace(profile.FullName) != "" {
			name = profile.FullName
		}
		if strings.TrimSpace(name) == "" {
			name = anonymousReviewer
		}

		review := models.Review{
			ID:           uuid.New(),
			ReviewText:   strings.TrimSpace(req.ReviewText),
			ReviewerName: strings.TrimSpace(name),
			Rating:       req.Rating,
			UserID:       identity.UID,
		}
		if err := h.reviews.Add(r.Context(), &review); err != nil {
			h.responder.WriteError(w, wrapDatabaseError("create review", "review", err))
			return
		}
		h.responder.WriteStatus(w, http.StatusCreated, review)
	}
}
