package api

import (
	"net/http"
	"strings"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/hamim5264/devengine/errs"
	"github.com/hamim5264/devengine/services"
)

type contactHandler struct {
	responder Responder
	logger    zerolog.Logger
	mailer    contactMailer
}

func newContactHandler(mailer contactMailer) contactHandler {
	logger := log.With().Str("handlerName", "contactHandler").Logger()

	return contactHandler{
		responder: NewResponder(logger),
		logger:    logger,
		mailer:    mailer,
	}
}

// sendMessage emails a contact form message to the site owner
// @Summary Contact the site owner
// @Tags Site
// @Accept json
// @Param message body ContactRequest true "Contact form"
// @Success 202 "Accepted"
// @Failure 400 {object} ErrorResponse "Bad Request - Missing field"
// @Failure 429 {object} ErrorResponse "Too Many Requests"
// @Router /contact [post]
func (h contactHandler) sendMessage() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req ContactRequest
		if err := decodeJSON(w, r, &req); err != nil {
			h.responder.WriteError(w, err)
			return
		}

		err := h.mailer.SendContact(r.Context(), services.ContactMessage{
			Name:    strings.TrimSpace(req.Name),
			Email:   strings.TrimSpace(req.Email),
			Message: strings.TrimSpace(req.Message),
		})
		if errs.IsConfigMissing(err) {
			h.responder.WriteError(w, err)
			return
		}
		if err != nil {
			h.responder.WriteError(w, errs.NewNotificationError(err))
			return
		}

		h.logger.Info().Str("from", req.Email).Msg("contact message sent")
		h.responder.WriteStatus(w, http.StatusAccepted, map[string]string{"status": "sent"})
	}
}
