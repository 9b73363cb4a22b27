// Package auth adapts identity providers to the storefront: sign-up, sign-in,
// password reset and session validation with a server-issued role.
package auth

import (
	"context"
	"time"

	"github.com/hamim5264/devengine/models"
)

const MinPasswordLength = 6

// Identity is the caller behind a validated session token.
type Identity struct {
	UID   string `json:"uid"`
	Email string `json:"email"`
	Name  string `json:"name"`
	Role  string `json:"role"`
}

func (i Identity) IsAdmin() bool {
	return i.Role == models.RoleAdmin
}

// DashboardPath is where the site sends the user after sign-in.
func (i Identity) DashboardPath() string {
	if i.IsAdmin() {
		return "/admin/dashboard"
	}
	return "/dashboard"
}

type Session struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expiresAt"`
	Identity  Identity  `json:"identity"`
}

type SignUpInput struct {
	Email    string
	Password string
	Name     string
}

type Authenticator interface {
	SignUp(ctx context.Context, in SignUpInput) (*Session, error)
	SignIn(ctx context.Context, email, password string) (*Session, error)
	SignOut(ctx context.Context, token string) error
	SendPasswordReset(ctx context.Context, email string) error
	ConfirmPasswordReset(ctx context.Context, code, newPassword string) error
	Validate(ctx context.Context, token string) (*Identity, error)
}
