package api

import (
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/hamim5264/devengine/auth"
	"github.com/hamim5264/devengine/errs"
	"github.com/hamim5264/devengine/models"
)

type sessionCookie struct {
	name   string
	secure bool
}

type accountHandler struct {
	responder Responder
	logger    zerolog.Logger
	auth      auth.Authenticator
	users     userStore
	purchases purchaseStore
	cookie    sessionCookie
}

func newAccountHandler(authenticator auth.Authenticator, users userStore, purchases purchaseStore, cookie sessionCookie) accountHandler {
	logger := log.With().Str("handlerName", "accountHandler").Logger()

	return accountHandler{
		responder: NewResponder(logger),
		logger:    logger,
		auth:      authenticator,
		users:     users,
		purchases: purchases,
		cookie:    cookie,
	}
}

func (h accountHandler) writeSession(w http.ResponseWriter, status int, session *auth.Session) {
	http.SetCookie(w, &http.Cookie{
		Name:     h.cookie.name,
		Value:    session.Token,
		Path:     "/",
		Expires:  session.ExpiresAt,
		HttpOnly: true,
		Secure:   h.cookie.secure,
		SameSite: http.SameSiteLaxMode,
	})
	h.responder.WriteStatus(w, status, SessionResponse{
		Token:         session.Token,
		ExpiresAt:     session.ExpiresAt.UTC().Format(time.RFC3339),
		Identity:      session.Identity,
		DashboardPath: session.Identity.DashboardPath(),
	})
}

// signUp creates an account and its profile, then signs the user in
// @Summary Sign up
// @Tags Accounts
// @Accept json
// @Produce json
// @Param account body SignUpRequest true "Account details"
// @Success 201 {object} SessionResponse
// @Failure 400 {object} ErrorResponse "Bad Request - Invalid field"
// @Failure 409 {object} ErrorResponse "Conflict - Account already exists"
// @Router /auth/signup [post]
func (h accountHandler) signUp() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req SignUpRequest
		if err := decodeJSON(w, r, &req); err != nil {
			h.responder.WriteError(w, err)
			return
		}

		session, err := h.auth.SignUp(r.Context(), auth.SignUpInput{
			Email:    req.Email,
			Password: req.Password,
			Name:     strings.TrimSpace(req.FullName),
		})
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		profile := models.UserProfile{
			UID:      session.Identity.UID,
			FullName: strings.TrimSpace(req.FullName),
			Email:    session.Identity.Email,
			Mobile:   req.Mobile,
			Address:  strings.TrimSpace(req.Address),
		}
		// The account already exists at this point. A missing profile is
		// served from the identity by GET /me and rewritten by PUT /me.
		if err := h.users.Upsert(r.Context(), &profile); err != nil {
			h.logger.Error().Err(err).Str("uid", profile.UID).Msg("account created without profile")
			h.writeSession(w, http.StatusCreated, session)
			return
		}

		h.logger.Info().Str("uid", profile.UID).Msg("account created")
		h.writeSession(w, http.StatusCreated, session)
	}
}

// signIn exchanges email and password for a session
// @Summary Sign in
// @Tags Accounts
// @Accept json
// @Produce json
// @Param credentials body LoginRequest true "Email and password"
// @Success 200 {object} SessionResponse
// @Failure 401 {object} ErrorResponse "Unauthorized - Invalid credentials"
// @Router /auth/login [post]
func (h accountHandler) signIn() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req LoginRequest
		if err := decodeJSON(w, r, &req); err != nil {
			h.responder.WriteError(w, err)
			return
		}

		session, err := h.auth.SignIn(r.Context(), req.Email, req.Password)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		h.writeSession(w, http.StatusOK, session)
	}
}

// signOut ends the session and clears the cookie
// @Summary Sign out
// @Tags Accounts
// @Success 204 "No Content"
// @Router /auth/logout [post]
func (h accountHandler) signOut() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if token := ctxGetToken(r.Context()); token != "" {
			if err := h.auth.SignOut(r.Context(), token); err != nil {
				h.logger.Warn().Err(err).Msg("provider sign out failed")
			}
		}

		http.SetCookie(w, &http.Cookie{
			Name:     h.cookie.name,
			Value:    "",
			Path:     "/",
			MaxAge:   -1,
			HttpOnly: true,
			Secure:   h.cookie.secure,
			SameSite: http.SameSiteLaxMode,
		})
		w.WriteHeader(http.StatusNoContent)
	}
}

// requestPasswordReset mails a reset link. The answer never reveals whether the account exists.
// @Summary Request password reset
// @Tags Accounts
// @Accept json
// @Param email body PasswordResetRequest true "Account email"
// @Success 202 "Accepted"
// @Failure 400 {object} ErrorResponse "Bad Request - Malformed email"
// @Router /auth/password-reset [post]
func (h accountHandler) requestPasswordReset() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req PasswordResetRequest
		if err := decodeJSON(w, r, &req); err != nil {
			h.responder.WriteError(w, err)
			return
		}

		if err := h.auth.SendPasswordReset(r.Context(), req.Email); err != nil {
			h.logger.Error().Err(err).Msg("password reset email failed")
		}
		h.responder.WriteStatus(w, http.StatusAccepted, map[string]string{"status": "sent"})
	}
}

// confirmPasswordReset sets a new password using the emailed code
// @Summary Confirm password reset
// @Tags Accounts
// @Accept json
// @Param reset body PasswordResetConfirmRequest true "Code and new password"
// @Success 204 "No Content"
// @Failure 400 {object} ErrorResponse "Bad Request - Invalid code or password"
// @Router /auth/password-reset/confirm [post]
func (h accountHandler) confirmPasswordReset() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req PasswordResetConfirmRequest
		if err := decodeJSON(w, r, &req); err != nil {
			h.responder.WriteError(w, err)
			return
		}

		if err := h.auth.ConfirmPasswordReset(r.Context(), req.Code, req.NewPassword); err != nil {
			h.responder.WriteError(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

// getProfile returns the caller's profile, built from the session when none is stored
// @Summary Get my profile
// @Tags Accounts
// @Produce json
// @Success 200 {object} models.UserProfile
// @Failure 401 {object} ErrorResponse "Unauthorized - Sign in required"
// @Router /me [get]
func (h accountHandler) getProfile() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		identity := ctxGetIdentity(r.Context())

		profile, err := h.users.FindByUID(r.Context(), identity.UID)
		if errs.IsNotFound(err) {
			profile = &models.UserProfile{UID: identity.UID, FullName: identity.Name, Email: identity.Email}
		} else if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("find profile", "user", err))
			return
		}
		h.responder.WriteJSON(w, profile)
	}
}

// updateProfile saves name, mobile and address
// @Summary Update my profile
// @Tags Accounts
// @Accept json
// @Produce json
// @Param profile body ProfileRequest true "Profile fields"
// @Success 200 {object} models.UserProfile
// @Failure 400 {object} ErrorResponse "Bad Request - Invalid mobile"
// @Router /me [put]
func (h accountHandler) updateProfile() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req ProfileRequest
		if err := decodeJSON(w, r, &req); err != nil {
			h.responder.WriteError(w, err)
			return
		}

		identity := ctxGetIdentity(r.Context())
		profile := models.UserProfile{
			UID:      identity.UID,
			FullName: strings.TrimSpace(req.FullName),
			Email:    identity.Email,
			Mobile:   req.Mobile,
			Address:  strings.TrimSpace(req.Address),
		}
		if err := h.users.Upsert(r.Context(), &profile); err != nil {
			h.responder.WriteError(w, wrapDatabaseError("update profile", "user", err))
			return
		}
		h.responder.WriteJSON(w, profile)
	}
}

// listPurchases returns the caller's purchases, newest first
// @Summary My purchase history
// @Tags Accounts
// @Produce json
// @Success 200 {object} PurchaseCollection
// @Router /me/purchases [get]
func (h accountHandler) listPurchases() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		purchases, err := h.purchases.FindByUser(r.Context(), ctxGetIdentity(r.Context()).UID)
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("find purchases", "purchases", err))
			return
		}
		if purchases == nil {
			purchases = []models.Purchase{}
		}
		h.responder.WriteJSON(w, PurchaseCollection{Purchases: purchases})
	}
}
