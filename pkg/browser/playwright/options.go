// Package playwright drives a real browser through playwright-go and exposes
// it as a browser.Browser.
package playwright

import (
	"fmt"
	"time"
)

// Browser engines.
const (
	EngineChromium = "chromium"
	EngineFirefox  = "firefox"
	EngineWebKit   = "webkit"
)

// Default values for new sessions
const (
	DefaultTimeout        = 30000.0 // 30 seconds in milliseconds
	DefaultViewportWidth  = 1280
	DefaultViewportHeight = 720
)

// Options configures Launch.
type Options struct {
	// Engine selects chromium, firefox or webkit. Empty means firefox.
	Engine string

	// Headless controls whether the browser runs without a visible window
	Headless bool

	// Viewport sets the initial viewport size
	Viewport *Viewport

	// Timeout sets the default timeout for operations (in milliseconds)
	Timeout float64

	// SkipInstall skips downloading the driver and browsers before starting.
	SkipInstall bool
}

// Viewport represents the browser viewport dimensions.
type Viewport struct {
	Width  int
	Height int
}

func (o Options) withDefaults() (Options, error) {
	switch o.Engine {
	case "":
		o.Engine = EngineFirefox
	case EngineChromium, EngineFirefox, EngineWebKit:
	default:
		return o, fmt.Errorf("unknown browser engine %q", o.Engine)
	}
	if o.Viewport == nil {
		o.Viewport = &Viewport{Width: DefaultViewportWidth, Height: DefaultViewportHeight}
	}
	if o.Timeout <= 0 {
		o.Timeout = DefaultTimeout
	}
	return o, nil
}

// milliseconds converts d to the float milliseconds playwright expects.
func milliseconds(d time.Duration) float64 {
	return float64(d) / float64(time.Millisecond)
}
