package api

import (
	"context"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/hamim5264/devengine/auth"
	"github.com/hamim5264/devengine/catalog"
	"github.com/hamim5264/devengine/config"
	"github.com/hamim5264/devengine/errs"
	"github.com/hamim5264/devengine/metrics"
	"github.com/hamim5264/devengine/models"
	"github.com/hamim5264/devengine/services"
)

const notifyTimeout = 30 * time.Second

type paymentHandler struct {
	responder Responder
	logger    zerolog.Logger
	projects  projectStore
	users     userStore
	purchases purchaseStore
	gateway   paymentGateway
	notifier  purchaseNotifier
	defaults  config.PaymentSettings
	siteURL   string
	now       func() time.Time
}

func newPaymentHandler(projects projectStore, users userStore, purchases purchaseStore, gateway paymentGateway, notifier purchaseNotifier, defaults config.PaymentSettings, siteURL string) paymentHandler {
	logger := log.With().Str("handlerName", "paymentHandler").Logger()

	return paymentHandler{
		responder: NewResponder(logger),
		logger:    logger,
		projects:  projects,
		users:     users,
		purchases: purchases,
		gateway:   gateway,
		notifier:  notifier,
		defaults:  defaults,
		siteURL:   siteURL,
		now:       time.Now,
	}
}

func loginURL(siteURL, next string) string {
	return siteURL + "/login?next=" + next
}

// paymentRequest fills buyer details from the profile, falling back to the configured defaults.
func (h paymentHandler) paymentRequest(ctx context.Context, identity *auth.Identity, slug string, amount int64, name, email string) services.PaymentRequest {
	req := services.PaymentRequest{
		Amount:          amount,
		TranID:          services.NewTransactionID(slug, h.now()),
		ProductName:     slug,
		CustomerName:    name,
		CustomerEmail:   email,
		CustomerPhone:   h.defaults.DefaultPhone,
		CustomerAddress: h.defaults.DefaultAddress,
		CustomerCity:    h.defaults.DefaultCity,
		CustomerCountry: h.defaults.DefaultCountry,
		UserID:          identity.UID,
		UserEmail:       identity.Email,
	}

	profile, err := h.users.FindByUID(ctx, identity.UID)
	if err != nil {
		if !errs.IsNotFound(err) {
			h.logger.Warn().Err(err).Str("uid", identity.UID).Msg("profile lookup failed, using defaults")
		}
		return req
	}
	if req.CustomerName == "" {
		req.CustomerName = profile.FullName
	}
	if profile.Mobile != "" {
		req.CustomerPhone = profile.Mobile
	}
	if profile.Address != "" {
		req.CustomerAddress = profile.Address
	}
	return req
}

// checkout is the browser entry point of a purchase. Every outcome is a redirect.
// @Summary Start checkout
// @Tags Payments
// @Param slug path string true "Project slug"
// @Success 302 "Redirect to the gateway, the login page or an error page"
// @Router /checkout/{slug} [get]
func (h paymentHandler) checkout() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		slug := chi.URLParam(r, "slug")
		identity := ctxGetIdentity(r.Context())
		if identity == nil {
			h.responder.Redirect(w, r, loginURL(h.siteURL, "/checkout/"+url.QueryEscape(slug)))
			return
		}

		project, err := h.projects.FindBySlug(r.Context(), slug)
		if err != nil || !project.IsPublic {
			if err != nil && !errs.IsNotFound(err) {
				h.logger.Error().Err(err).Str("slug", slug).Msg("checkout project lookup failed")
			}
			metrics.RecordCheckout(metrics.OutcomeInvalid)
			h.responder.Redirect(w, r, h.siteURL+"/projects?error=project-not-found")
			return
		}

		amount, err := catalog.ParseAmount(project.EffectivePrice())
		if err != nil {
			h.logger.Warn().Str("slug", slug).Str("price", project.EffectivePrice()).Msg("project has no chargeable price")
			metrics.RecordCheckout(metrics.OutcomeInvalid)
			h.responder.Redirect(w, r, h.siteURL+"/projects?error=invalid-price")
			return
		}

		req := h.paymentRequest(r.Context(), identity, slug, amount, identity.Name, identity.Email)
		done := metrics.ObserveGateway("initiate")
		pageURL, err := h.gateway.InitiatePayment(r.Context(), req)
		done()
		if err != nil {
			h.logger.Error().Err(err).Str("tranId", req.TranID).Msg("payment initiation failed")
			metrics.RecordCheckout(metrics.OutcomeRejected)
			h.responder.Redirect(w, r, h.siteURL+"/payment-fail")
			return
		}

		metrics.RecordCheckout(metrics.OutcomeRedirected)
		h.responder.Redirect(w, r, pageURL)
	}
}

// initiatePayment opens a gateway session and returns its URL
// @Summary Initiate payment
// @Tags Payments
// @Accept json
// @Produce json
// @Param payment body InitiatePaymentRequest true "Buyer and amount"
// @Success 200 {object} InitiatePaymentResponse
// @Failure 400 {object} ErrorResponse "Bad Request - Missing or invalid field"
// @Failure 401 {object} ErrorResponse "Unauthorized - Sign in required"
// @Failure 500 {object} ErrorResponse "Store credentials missing"
// @Failure 502 {object} ErrorResponse "Gateway failure"
// @Router /api/initiate-payment [post]
func (h paymentHandler) initiatePayment() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req InitiatePaymentRequest
		if err := decodeJSON(w, r, &req); err != nil {
			h.responder.WriteError(w, err)
			return
		}

		slug := strings.TrimSpace(req.ProjectSlug)
		identity := ctxGetIdentity(r.Context())
		payment := h.paymentRequest(r.Context(), identity, slug, int64(req.Amount), req.Name, req.Email)

		done := metrics.ObserveGateway("initiate")
		pageURL, err := h.gateway.InitiatePayment(r.Context(), payment)
		done()
		if err != nil {
			metrics.RecordCheckout(metrics.OutcomeRejected)
			h.responder.WriteError(w, err)
			return
		}

		metrics.RecordCheckout(metrics.OutcomeRedirected)
		h.responder.WriteJSON(w, InitiatePaymentResponse{URL: pageURL})
	}
}

func orNA(s string) string {
	if strings.TrimSpace(s) == "" {
		return "N/A"
	}
	return s
}

// paymentSuccess validates the gateway callback and records the purchase once
// @Summary Payment success callback
// @Tags Payments
// @Param val_id query string true "Gateway validation id"
// @Success 302 "Redirect to purchase history or the failure page"
// @Router /payment/success [post]
func (h paymentHandler) paymentSuccess() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		failURL := h.siteURL + "/payment-fail"

		valID := strings.TrimSpace(r.FormValue("val_id"))
		if valID == "" {
			h.logger.Warn().Msg("payment callback without val_id")
			metrics.RecordValidation(metrics.OutcomeInvalid)
			h.responder.Redirect(w, r, failURL)
			return
		}

		done := metrics.ObserveGateway("validate")
		validation, err := h.gateway.ValidatePayment(r.Context(), valID)
		done()
		if err != nil {
			h.logger.Error().Err(err).Str("valId", valID).Msg("payment validation failed")
			metrics.RecordValidation(metrics.OutcomeError)
			h.responder.Redirect(w, r, failURL)
			return
		}
		if !validation.Valid() || validation.UserID == "" || validation.TranID == "" {
			h.logger.Warn().Err(errs.NewPaymentNotValidError(validation.Status)).Str("valId", valID).Msg("payment not accepted")
			metrics.RecordValidation(metrics.OutcomeInvalid)
			h.responder.Redirect(w, r, failURL)
			return
		}

		purchase := models.Purchase{
			ID:            uuid.New(),
			UserID:        validation.UserID,
			UserEmail:     validation.UserEmail,
			ProjectName:   validation.ProductName,
			PaymentType:   orNA(validation.CardIssuer),
			PaymentDate:   h.now().UTC().Format(time.RFC3339),
			Discount:      orNA(validation.CurrencyAmount),
			TotalAmount:   validation.Amount,
			TransactionID: validation.TranID,
		}

		created, err := h.purchases.Record(r.Context(), &purchase)
		if err != nil {
			h.logger.Error().Err(err).Str("tranId", purchase.TransactionID).Msg("failed to store purchase")
			metrics.RecordValidation(metrics.OutcomeError)
			h.responder.Redirect(w, r, failURL)
			return
		}

		if created {
			metrics.RecordValidation(metrics.OutcomeRecorded)
			h.logger.Info().Str("tranId", purchase.TransactionID).Str("uid", purchase.UserID).Msg("purchase recorded")
			go h.notify(context.WithoutCancel(r.Context()), purchase)
		} else {
			metrics.RecordValidation(metrics.OutcomeDuplicate)
			h.logger.Info().Str("tranId", purchase.TransactionID).Msg("duplicate payment callback ignored")
		}

		h.responder.Redirect(w, r, h.siteURL+"/purchase-history")
	}
}

// notify runs after the redirect is decided; failures are only logged.
func (h paymentHandler) notify(ctx context.Context, purchase models.Purchase) {
	if h.notifier == nil {
		return
	}
	ctx, cancel := context.WithTimeout(ctx, notifyTimeout)
	defer cancel()

	var mobile string
	if profile, err := h.users.FindByUID(ctx, purchase.UserID); err == nil {
		mobile = profile.Mobile
	}
	if err := h.notifier.NotifyPurchase(ctx, purchase, mobile); err != nil {
		h.logger.Warn().Err(err).Str("tranId", purchase.TransactionID).Msg("purchase notification incomplete")
	}
}

// paymentFail sends the buyer to the failure page
// @Summary Payment failure callback
// @Tags Payments
// @Success 302 "Redirect to the failure page"
// @Router /payment/fail [post]
func (h paymentHandler) paymentFail() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		h.logger.Info().Str("tranId", r.FormValue("tran_id")).Msg("gateway reported failed payment")
		h.responder.Redirect(w, r, h.siteURL+"/payment-fail")
	}
}

// paymentCancel sends the buyer to the cancellation page
// @Summary Payment cancel callback
// @Tags Payments
// @Success 302 "Redirect to the cancellation page"
// @Router /payment/cancel [post]
func (h paymentHandler) paymentCancel() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		h.logger.Info().Str("tranId", r.FormValue("tran_id")).Msg("buyer cancelled payment")
		h.responder.Redirect(w, r, h.siteURL+"/payment-cancel")
	}
}
