package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/descope/go-sdk/descope"
	"github.com/descope/go-sdk/descope/client"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/hamim5264/devengine/errs"
	"github.com/hamim5264/devengine/models"
)

type DescopeConfig struct {
	ProjectID     string
	ManagementKey string
	AdminRole     string
	ResetURL      string
}

// Descope delegates accounts to the hosted Descope project. The admin role is
// whatever role name the project assigns to storefront administrators.
type Descope struct {
	client    *client.DescopeClient
	adminRole string
	resetURL  string
	logger    zerolog.Logger
}

func NewDescope(cfg DescopeConfig) (*Descope, error) {
	c, err := client.NewWithConfig(&client.Config{
		ProjectID:     cfg.ProjectID,
		ManagementKey: cfg.ManagementKey,
	})
	if err != nil {
		return nil, fmt.Errorf("create descope client: %w", err)
	}

	return &Descope{
		client:    c,
		adminRole: cfg.AdminRole,
		resetURL:  cfg.ResetURL,
		logger:    log.With().Str("authProvider", "descope").Logger(),
	}, nil
}

func (d *Descope) SignUp(ctx context.Context, in SignUpInput) (*Session, error) {
	if len(in.Password) < MinPasswordLength {
		return nil, errs.NewInvalidFieldError("password", fmt.Sprintf("must be at least %d characters", MinPasswordLength))
	}

	info, err := d.client.Auth.Password().SignUp(ctx, normalizeEmail(in.Email), &descope.User{
		Name:  in.Name,
		Email: normalizeEmail(in.Email),
	}, in.Password, nil)
	if err != nil {
		return nil, d.mapError("sign up", err)
	}
	return d.session(info)
}

func (d *Descope) SignIn(ctx context.Context, email, password string) (*Session, error) {
	info, err := d.client.Auth.Password().SignIn(ctx, normalizeEmail(email), password, nil)
	if err != nil {
		return nil, d.mapError("sign in", err)
	}
	return d.session(info)
}

func (d *Descope) SignOut(ctx context.Context, token string) error {
	id, err := d.Validate(ctx, token)
	if err != nil {
		return nil
	}
	if err := d.client.Management.User().LogoutUserByUserID(ctx, id.UID); err != nil {
		d.logger.Warn().Err(err).Str("uid", id.UID).Msg("descope logout failed")
	}
	return nil
}

func (d *Descope) SendPasswordReset(ctx context.Context, email string) error {
	// Errors are logged only. Callers answer 202 either way.
	if err := d.client.Auth.Password().SendPasswordReset(ctx, normalizeEmail(email), d.resetURL, nil); err != nil {
		d.logger.Warn().Err(err).Msg("descope password reset not sent")
	}
	return nil
}

// ConfirmPasswordReset redeems the emailed magic-link token and sets the new password on that user.
func (d *Descope) ConfirmPasswordReset(ctx context.Context, code, newPassword string) error {
	if len(newPassword) < MinPasswordLength {
		return errs.NewInvalidFieldError("newPassword", fmt.Sprintf("must be at least %d characters", MinPasswordLength))
	}

	info, err := d.client.Auth.MagicLink().Verify(ctx, code, nil)
	if err != nil || info.User == nil {
		return errs.NewInvalidResetCodeError()
	}

	loginID := info.User.Email
	if len(info.User.LoginIDs) > 0 {
		loginID = info.User.LoginIDs[0]
	}
	if err := d.client.Management.User().SetActivePassword(ctx, loginID, newPassword); err != nil {
		return d.mapError("set password", err)
	}
	return nil
}

func (d *Descope) Validate(ctx context.Context, token string) (*Identity, error) {
	ok, tok, err := d.client.Auth.ValidateSessionWithToken(ctx, token)
	if err != nil || !ok || tok == nil {
		return nil, errs.NewInvalidTokenError(err)
	}
	return d.identity(tok, nil), nil
}

func (d *Descope) session(info *descope.AuthenticationInfo) (*Session, error) {
	if info == nil || info.SessionToken == nil {
		return nil, errs.NewInvalidTokenError(errors.New("descope returned no session"))
	}

	return &Session{
		Token:     info.SessionToken.JWT,
		ExpiresAt: time.Unix(info.SessionToken.Expiration, 0),
		Identity:  *d.identity(info.SessionToken, info.User),
	}, nil
}

func (d *Descope) identity(tok *descope.Token, user *descope.UserResponse) *Identity {
	id := &Identity{UID: tok.ID, Role: models.RoleCustomer}
	if email, ok := tok.Claims["email"].(string); ok {
		id.Email = email
	}
	if name, ok := tok.Claims["name"].(string); ok {
		id.Name = name
	}
	if user != nil {
		id.Email = user.Email
		id.Name = user.Name
	}
	if hasRole(tok.Claims["roles"], d.adminRole) {
		id.Role = models.RoleAdmin
	}
	return id
}

func hasRole(claim interface{}, role string) bool {
	roles, ok := claim.([]interface{})
	if !ok {
		return false
	}
	for _, r := range roles {
		if s, ok := r.(string); ok && s == role {
			return true
		}
	}
	return false
}

func (d *Descope) mapError(op string, err error) error {
	switch {
	case errors.Is(err, descope.ErrUserAlreadyExists):
		return errs.NewAlreadyExists("account")
	case errors.Is(err, descope.ErrInvalidOneTimeCode), descope.IsUnauthorizedError(err):
		return errs.NewInvalidCredentialsError()
	default:
		d.logger.Error().Err(err).Str("op", op).Msg("descope call failed")
		return errs.NewInternalErrorWithCause("authentication provider error", err)
	}
}
