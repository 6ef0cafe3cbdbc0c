package auth

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"
)

type contextKey string

const IdentityKey contextKey = "identity"

// Identity is the authenticated doctor behind the current request. It is
// resolved from the session cookie on every request and never shared
// between clients.
type Identity struct {
	DoctorID int64
	Login    string
	FullName string
}

func WithIdentity(ctx context.Context, id *Identity) context.Context {
	return context.WithValue(ctx, IdentityKey, id)
}

func IdentityFromContext(ctx context.Context) *Identity {
	id, _ := ctx.Value(IdentityKey).(*Identity)
	return id
}

// CurrentDoctor returns the identity attached to the request, or nil for an
// anonymous visitor.
func CurrentDoctor(c echo.Context) *Identity {
	return IdentityFromContext(c.Request().Context())
}

// RequireDoctor redirects anonymous requests to the login page.
func RequireDoctor() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if CurrentDoctor(c) == nil {
				return c.Redirect(http.StatusFound, "/login")
			}
			return next(c)
		}
	}
}
