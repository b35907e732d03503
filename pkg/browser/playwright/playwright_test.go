package playwright

import (
	"testing"
	"time"

	"github.com/playwright-community/playwright-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/entrhq/autoapply/pkg/browser"
)

func TestOptionsDefaults(t *testing.T) {
	opts, err := Options{}.withDefaults()
	require.NoError(t, err)
	assert.Equal(t, EngineFirefox, opts.Engine)
	assert.Equal(t, DefaultTimeout, opts.Timeout)
	require.NotNil(t, opts.Viewport)
	assert.Equal(t, DefaultViewportWidth, opts.Viewport.Width)

	opts, err = Options{Engine: EngineChromium, Timeout: 5000}.withDefaults()
	require.NoError(t, err)
	assert.Equal(t, EngineChromium, opts.Engine)
	assert.Equal(t, 5000.0, opts.Timeout)

	_, err = Options{Engine: "netscape"}.withDefaults()
	assert.Error(t, err)
}

func TestLaunchRejectsUnknownEngine(t *testing.T) {
	_, err := Launch(Options{Engine: "netscape", SkipInstall: true})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "netscape")
}

func TestMilliseconds(t *testing.T) {
	assert.Equal(t, 1500.0, milliseconds(1500*time.Millisecond))
	assert.Equal(t, 0.5, milliseconds(500*time.Microsecond))
}

func TestCookieConversion(t *testing.T) {
	lax := playwright.SameSiteAttribute("Lax")
	in := playwright.Cookie{
		Name:     "li_at",
		Value:    "token",
		Domain:   ".www.linkedin.com",
		Path:     "/",
		Expires:  1767225600,
		HttpOnly: true,
		Secure:   true,
		SameSite: &lax,
	}

	c := fromPlaywright(in)
	assert.Equal(t, browser.Cookie{
		Name:     "li_at",
		Value:    "token",
		Domain:   ".www.linkedin.com",
		Path:     "/",
		Expires:  1767225600,
		HTTPOnly: true,
		Secure:   true,
		SameSite: "Lax",
	}, c)

	out := toPlaywright(c)
	assert.Equal(t, "li_at", out.Name)
	require.NotNil(t, out.Domain)
	assert.Equal(t, ".www.linkedin.com", *out.Domain)
	require.NotNil(t, out.Expires)
	assert.Equal(t, 1767225600.0, *out.Expires)
	require.NotNil(t, out.SameSite)
	assert.Equal(t, lax, *out.SameSite)
	assert.True(t, *out.HttpOnly)
}

func TestCookieConversion_SessionCookie(t *testing.T) {
	out := toPlaywright(browser.Cookie{Name: "sid", Value: "x", Domain: "example.com", Expires: -1})
	assert.Nil(t, out.Expires)
	assert.Nil(t, out.SameSite)
	require.NotNil(t, out.Path)
	assert.Equal(t, "/", *out.Path)

	assert.Empty(t, fromPlaywright(playwright.Cookie{Name: "sid"}).SameSite)
}
