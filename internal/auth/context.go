package auth

import (
	"errors"

	"github.com/ethanx94/chatty/internal/models"
)

var ErrUnauthorized = errors.New("unauthorized")

// Context carries the per-request resolved identity. A nil Context or a
// Context without a user means the request is unauthenticated; every guarded
// operation fails closed on it.
type Context struct {
	user    *models.User
	loaders *Loaders
}

func NewContext(user *models.User) *Context {
	return &Context{user: user}
}

func (c *Context) WithLoaders(l *Loaders) *Context {
	if c == nil {
		return nil
	}
	c.loaders = l
	return c
}

// Loaders returns the request's memoizing loaders, or nil when none were
// attached.
func (c *Context) Loaders() *Loaders {
	if c == nil {
		return nil
	}
	return c.loaders
}

// RequireUser resolves the current user or fails with ErrUnauthorized.
// Callers propagate the error unchanged — no wrapping, no retry.
func RequireUser(ctx *Context) (*models.User, error) {
	if ctx == nil || ctx.user == nil {
		return nil, ErrUnauthorized
	}
	return ctx.user, nil
}
