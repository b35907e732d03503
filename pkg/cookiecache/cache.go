// Package cookiecache keeps the cookies of an authenticated browser session
// on disk so later runs can skip signing in while the session is still fresh.
package cookiecache

import (
	"time"

	"github.com/entrhq/autoapply/pkg/browser"
)

// MaxAge is how long a captured session is trusted.
const MaxAge = time.Hour

var timeNow = time.Now // injected for testability

// Cache is an immutable snapshot of a signed-in session. A re-sign-in
// produces a new Cache rather than updating an existing one.
type Cache struct {
	Cookies    []browser.Cookie
	CapturedAt time.Time
}

// New captures cookies with the current time. The slice is copied.
func New(cookies []browser.Cookie) *Cache {
	return &Cache{
		Cookies:    append([]browser.Cookie(nil), cookies...),
		CapturedAt: timeNow(),
	}
}

// IsValid reports whether the cache holds cookies and has not expired.
// A cache is already expired at exactly CapturedAt+MaxAge. A nil cache is invalid.
func (c *Cache) IsValid() bool {
	if c == nil || len(c.Cookies) == 0 {
		return false
	}
	return timeNow().Before(c.ExpiresAt())
}

// ExpiresAt returns the instant the cache stops being valid.
func (c *Cache) ExpiresAt() time.Time {
	return c.CapturedAt.Add(MaxAge)
}

// Remaining returns the time left before expiry, never negative.
func (c *Cache) Remaining() time.Duration {
	if c == nil {
		return 0
	}
	left := c.ExpiresAt().Sub(timeNow())
	if left < 0 {
		return 0
	}
	return left
}
