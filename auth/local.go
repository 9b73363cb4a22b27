package auth

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/crypto/bcrypt"

	"github.com/hamim5264/devengine/errs"
	"github.com/hamim5264/devengine/models"
)

const (
	tokenIssuer   = "devengine"
	resetCodeTTL  = time.Hour
	resetCodeSize = 32
)

type credentialStore interface {
	FindByEmail(ctx context.Context, email string) (*models.Credential, error)
	Add(ctx context.Context, cred *models.Credential) error
	SetResetCode(ctx context.Context, email, codeHash string, expiresAt time.Time) error
	ResetPassword(ctx context.Context, codeHash, passwordHash string, now time.Time) error
}

// ResetMailer delivers the password reset link.
type ResetMailer interface {
	SendPasswordReset(ctx context.Context, to, link string) error
}

type LocalConfig struct {
	Secret      string
	TTL         time.Duration
	ResetURL    string
	AdminEmails []string
}

// Local issues HS256 session tokens for accounts kept in the credentials table.
type Local struct {
	store    credentialStore
	mailer   ResetMailer
	secret   []byte
	ttl      time.Duration
	resetURL string
	admins   map[string]bool
	logger   zerolog.Logger
	now      func() time.Time
}

type sessionClaims struct {
	Email string `json:"email"`
	Name  string `json:"name"`
	Role  string `json:"role"`
	jwt.RegisteredClaims
}

func NewLocal(store credentialStore, mailer ResetMailer, cfg LocalConfig) *Local {
	admins := make(map[string]bool, len(cfg.AdminEmails))
	for _, e := range cfg.AdminEmails {
		admins[normalizeEmail(e)] = true
	}
	ttl := cfg.TTL
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}

	return &Local{
		store:    store,
		mailer:   mailer,
		secret:   []byte(cfg.Secret),
		ttl:      ttl,
		resetURL: cfg.ResetURL,
		admins:   admins,
		logger:   log.With().Str("authProvider", "local").Logger(),
		now:      time.Now,
	}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (l *Local) SignUp(ctx context.Context, in SignUpInput) (*Session, error) {
	if len(in.Password) < MinPasswordLength {
		return nil, errs.NewInvalidFieldError("password", fmt.Sprintf("must be at least %d characters", MinPasswordLength))
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	email := normalizeEmail(in.Email)
	role := models.RoleCustomer
	if l.admins[email] {
		role = models.RoleAdmin
	}

	cred := &models.Credential{
		UID:          uuid.NewString(),
		Email:        email,
		PasswordHash: string(hash),
		DisplayName:  strings.TrimSpace(in.Name),
		Role:         role,
	}
	if err := l.store.Add(ctx, cred); err != nil {
		return nil, err
	}

	return l.issue(Identity{UID: cred.UID, Email: cred.Email, Name: cred.DisplayName, Role: cred.Role})
}

func (l *Local) SignIn(ctx context.Context, email, password string) (*Session, error) {
	cred, err := l.store.FindByEmail(ctx, normalizeEmail(email))
	if errs.IsNotFound(err) {
		return nil, errs.NewInvalidCredentialsError()
	}
	if err != nil {
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(cred.PasswordHash), []byte(password)); err != nil {
		return nil, errs.NewInvalidCredentialsError()
	}

	return l.issue(Identity{UID: cred.UID, Email: cred.Email, Name: cred.DisplayName, Role: cred.Role})
}

// SignOut has nothing to revoke: tokens are stateless and the cookie is cleared by the caller.
func (l *Local) SignOut(ctx context.Context, token string) error {
	return nil
}

// SendPasswordReset mails a one-time link. Unknown emails are ignored so the
// response does not reveal which addresses have accounts.
func (l *Local) SendPasswordReset(ctx context.Context, email string) error {
	email = normalizeEmail(email)
	if _, err := l.store.FindByEmail(ctx, email); err != nil {
		if errs.IsNotFound(err) {
			l.logger.Info().Msg("password reset requested for unknown email")
			return nil
		}
		return err
	}

	code, err := newResetCode()
	if err != nil {
		return err
	}
	if err := l.store.SetResetCode(ctx, email, hashResetCode(code), l.now().Add(resetCodeTTL)); err != nil {
		return err
	}

	link := l.resetURL + "?code=" + url.QueryEscape(code)
	if l.mailer == nil {
		l.logger.Warn().Str("email", email).Msg("no mailer configured, reset link not sent")
		return nil
	}
	return l.mailer.SendPasswordReset(ctx, email, link)
}

func (l *Local) ConfirmPasswordReset(ctx context.Context, code, newPassword string) error {
	if len(newPassword) < MinPasswordLength {
		return errs.NewInvalidFieldError("newPassword", fmt.Sprintf("must be at least %d characters", MinPasswordLength))
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	return l.store.ResetPassword(ctx, hashResetCode(code), string(hash), l.now())
}

func (l *Local) Validate(ctx context.Context, token string) (*Identity, error) {
	claims := &sessionClaims{}
	_, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		return l.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(tokenIssuer),
		jwt.WithTimeFunc(l.now),
	)
	if err != nil {
		return nil, errs.NewInvalidTokenError(err)
	}
	if claims.Subject == "" {
		return nil, errs.NewInvalidTokenError(errors.New("token has no subject"))
	}

	return &Identity{UID: claims.Subject, Email: claims.Email, Name: claims.Name, Role: claims.Role}, nil
}

func (l *Local) issue(id Identity) (*Session, error) {
	now := l.now()
	expires := now.Add(l.ttl)
	claims := sessionClaims{
		Email: id.Email,
		Name:  id.Name,
		Role:  id.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    tokenIssuer,
			Subject:   id.UID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expires),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(l.secret)
	if err != nil {
		return nil, fmt.Errorf("sign session token: %w", err)
	}
	return &Session{Token: signed, ExpiresAt: expires, Identity: id}, nil
}

func newResetCode() (string, error) {
	buf := make([]byte, resetCodeSize)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("generate reset code: %w", err)
	}
	return hex.EncodeToString(buf), nil
}

func hashResetCode(code string) string {
	sum := sha256.Sum256([]byte(code))
	return hex.EncodeToString(sum[:])
}
