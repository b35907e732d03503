// Package browser defines the browser-control contract that autoapply drives.
//
// The application core never talks to a browser engine directly. It locates
// elements, reads their text and values, activates controls and moves cookies
// through the Browser and Element interfaces declared here. Two
// implementations ship with the module:
//
//   - browser/playwright drives a live Chromium, Firefox or WebKit instance.
//   - browser/replay walks saved HTML snapshots offline, for rehearsals and tests.
//
// # Locators
//
// A Locator is a CSS selector. Engines that understand other selector
// languages accept a prefix such as "xpath=//button". Engines that cannot
// evaluate a locator return ErrUnsupportedLocator.
//
// # Absence
//
// Find, Element.Find and WaitUntilPresent return (nil, nil) when nothing
// matches. An error always means the browser itself failed.
package browser

import (
	"context"
	"errors"
	"time"
)

// ErrUnsupportedLocator is returned when an engine cannot evaluate a locator.
var ErrUnsupportedLocator = errors.New("browser: unsupported locator")

// Locator identifies elements on a page.
type Locator string

// Cookie is an engine-neutral cookie record.
type Cookie struct {
	Name     string  `json:"name"`
	Value    string  `json:"value"`
	Domain   string  `json:"domain"`
	Path     string  `json:"path"`
	Expires  float64 `json:"expires"` // unix seconds, -1 for session cookies
	HTTPOnly bool    `json:"http_only"`
	Secure   bool    `json:"secure"`
	SameSite string  `json:"same_site,omitempty"` // "Strict", "Lax", "None" or empty
}

// Element is a handle to a node on the live page. Handles are only valid
// until the page navigates.
type Element interface {
	// Text returns the element's visible text with surrounding whitespace trimmed.
	Text(ctx context.Context) (string, error)

	// Value returns the current value of an input, textarea or select.
	Value(ctx context.Context) (string, error)

	// Attribute returns the named attribute, or "" when it is absent.
	Attribute(ctx context.Context, name string) (string, error)

	// Enabled reports whether the element can be interacted with.
	Enabled(ctx context.Context) (bool, error)

	// Find returns the first descendant matching loc, or nil.
	Find(ctx context.Context, loc Locator) (Element, error)

	// FindAll returns every descendant matching loc in document order.
	FindAll(ctx context.Context, loc Locator) ([]Element, error)
}

// Browser is one controllable browser tab plus its cookie jar.
type Browser interface {
	Navigate(ctx context.Context, url string) error
	CurrentURL() string

	Find(ctx context.Context, loc Locator) (Element, error)
	FindAll(ctx context.Context, loc Locator) ([]Element, error)

	// WaitUntilPresent blocks until loc matches or timeout elapses.
	// It returns (nil, nil) on timeout.
	WaitUntilPresent(ctx context.Context, loc Locator, timeout time.Duration) (Element, error)

	Click(ctx context.Context, el Element) error

	// ForceActivate activates el from script, bypassing overlays that
	// would intercept a pointer click.
	ForceActivate(ctx context.Context, el Element) error

	Type(ctx context.Context, el Element, text string) error
	Clear(ctx context.Context, el Element) error
	ScrollIntoView(ctx context.Context, el Element) error

	// SelectOption picks option, a descendant of the select element sel.
	SelectOption(ctx context.Context, sel, option Element) error

	// SetFiles attaches the file at path to a file input.
	SetFiles(ctx context.Context, el Element, path string) error

	Cookies(ctx context.Context) ([]Cookie, error)
	AddCookie(ctx context.Context, c Cookie) error
}

// SplitLocator separates an engine prefix ("xpath", "css", ...) from the
// selector body. Unprefixed locators report the "css" engine.
func SplitLocator(loc Locator) (engine, selector string) {
	s := string(loc)
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c == '=' && i > 0 {
			return s[:i], s[i+1:]
		}
		if !(c >= 'a' && c <= 'z') {
			break
		}
	}
	return "css", s
}
