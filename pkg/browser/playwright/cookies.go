package playwright

import (
	"github.com/playwright-community/playwright-go"

	"github.com/entrhq/autoapply/pkg/browser"
)

func fromPlaywright(c playwright.Cookie) browser.Cookie {
	out := browser.Cookie{
		Name:     c.Name,
		Value:    c.Value,
		Domain:   c.Domain,
		Path:     c.Path,
		Expires:  c.Expires,
		HTTPOnly: c.HttpOnly,
		Secure:   c.Secure,
	}
	if c.SameSite != nil {
		out.SameSite = string(*c.SameSite)
	}
	return out
}

func toPlaywright(c browser.Cookie) playwright.OptionalCookie {
	out := playwright.OptionalCookie{
		Name:     c.Name,
		Value:    c.Value,
		Domain:   playwright.String(c.Domain),
		Path:     playwright.String(c.Path),
		HttpOnly: playwright.Bool(c.HTTPOnly),
		Secure:   playwright.Bool(c.Secure),
	}
	if c.Path == "" {
		out.Path = playwright.String("/")
	}
	// Session cookies carry -1, which playwright rejects on input.
	if c.Expires > 0 {
		out.Expires = playwright.Float(c.Expires)
	}
	if c.SameSite != "" {
		sameSite := playwright.SameSiteAttribute(c.SameSite)
		out.SameSite = &sameSite
	}
	return out
}
