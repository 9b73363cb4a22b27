package api

import (
	"context"

	"github.com/hamim5264/devengine/auth"
)

type keyType string

const (
	identityKey  keyType = "identity"
	authErrorKey keyType = "authError"
	tokenKey     keyType = "sessionToken"
)

// ctxWithIdentity adds the validated caller and their token to the context
func ctxWithIdentity(ctx context.Context, identity *auth.Identity, token string) context.Context {
	ctx = context.WithValue(ctx, identityKey, identity)
	return context.WithValue(ctx, tokenKey, token)
}

// ctxWithAuthError remembers why a presented token was rejected
func ctxWithAuthError(ctx context.Context, err error) context.Context {
	return context.WithValue(ctx, authErrorKey, err)
}

// ctxGetIdentity returns the signed-in caller, or nil for anonymous requests
func ctxGetIdentity(ctx context.Context) *auth.Identity {
	identity, _ := ctx.Value(identityKey).(*auth.Identity)
	return identity
}

func ctxGetAuthError(ctx context.Context) error {
	err, _ := ctx.Value(authErrorKey).(error)
	return err
}

func ctxGetToken(ctx context.Context) string {
	token, _ := ctx.Value(tokenKey).(string)
	return token
}

func ctxIsAdmin(ctx context.Context) bool {
	identity := ctxGetIdentity(ctx)
	return identity != nil && identity.IsAdmin()
}
