package apply

import (
	"context"

	"github.com/entrhq/autoapply/pkg/cookiecache"
)

// Authenticator can tell whether it holds a usable session and sign in.
type Authenticator interface {
	CookieCache() *cookiecache.Cache
	SignIn(ctx context.Context) bool
}

// RequireSignIn signs in once when auth has no valid cached session and then
// runs op. op runs even when the sign-in fails; the failure is only logged
// by the Authenticator and op finds out on its own.
func RequireSignIn[T any](ctx context.Context, auth Authenticator, op func(context.Context) T) T {
	if !auth.CookieCache().IsValid() {
		auth.SignIn(ctx)
	}
	return op(ctx)
}
