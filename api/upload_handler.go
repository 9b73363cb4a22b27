package api

import (
	"errors"
	"net/http"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/hamim5264/devengine/errs"
)

const maxUploadSize = 200 << 20

type uploadHandler struct {
	responder Responder
	logger    zerolog.Logger
	storage   objectUploader
}

func newUploadHandler(storage objectUploader) uploadHandler {
	logger := log.With().Str("handlerName", "uploadHandler").Logger()

	return uploadHandler{
		responder: NewResponder(logger),
		logger:    logger,
		storage:   storage,
	}
}

// upload stores an APK or screenshot and returns its public URL
// @Summary Upload file
// @Tags Admin
// @Accept multipart/form-data
// @Produce json
// @Param file formData file true "APK or image"
// @Success 201 {object} URLResponse
// @Failure 400 {object} ErrorResponse "Bad Request - Missing file"
// @Failure 413 {object} ErrorResponse "Request Entity Too Large"
// @Router /admin/uploads [post]
func (h uploadHandler) upload() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		r.Body = http.MaxBytesReader(w, r.Body, maxUploadSize)
		if err := r.ParseMultipartForm(32 << 20); err != nil {
			var maxErr *http.MaxBytesError
			if errors.As(err, &maxErr) {
				h.responder.WriteError(w, errs.NewMaxBodySizeExceededError(maxUploadSize))
				return
			}
			h.responder.WriteError(w, errs.NewMalformedPayloadError("multipart", err))
			return
		}

		file, header, err := r.FormFile("file")
		if err != nil {
			h.responder.WriteError(w, errs.NewMissingRequiredFieldError("file"))
			return
		}
		defer file.Close()

		url, err := h.storage.Upload(r.Context(), header.Filename, header.Header.Get("Content-Type"), file)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		h.logger.Info().Str("file", header.Filename).Int64("size", header.Size).Msg("file uploaded")
		h.responder.WriteStatus(w, http.StatusCreated, URLResponse{URL: url})
	}
}
