// Package session carries the acting user and time source into core operations.
package session

import (
	"time"

	"github.com/Keoroanthony/go-foodorders/internal/models"
	"github.com/Keoroanthony/go-foodorders/internal/timeutil"
)

// Context is built per request; nothing in it is process-wide.
type Context struct {
	User  *models.User
	Clock timeutil.Clock
}

func New(user *models.User, clock timeutil.Clock) Context {
	if clock == nil {
		clock = timeutil.System
	}
	return Context{User: user, Clock: clock}
}

// Anonymous is a session without an identity.
func Anonymous(clock timeutil.Clock) Context {
	return New(nil, clock)
}

func (c Context) Now() time.Time {
	if c.Clock == nil {
		return time.Now()
	}
	return c.Clock.Now()
}

func (c Context) Authenticated() bool {
	return c.User != nil && c.User.Login != ""
}

// Login is empty for anonymous sessions.
func (c Context) Login() string {
	if c.User == nil {
		return ""
	}
	return c.User.Login
}
