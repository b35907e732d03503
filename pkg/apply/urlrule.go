package apply

import (
	"fmt"

	"github.com/gobwas/glob"
)

// URLRule accepts the URLs a site serves job postings under.
type URLRule struct {
	patterns []string
	globs    []glob.Glob
}

// NewURLRule compiles glob patterns such as
// "https://www.linkedin.com/jobs/view/*". '*' matches any run of
// characters, including '/'.
func NewURLRule(patterns ...string) (*URLRule, error) {
	if len(patterns) == 0 {
		return nil, fmt.Errorf("at least one url pattern is required")
	}
	r := &URLRule{patterns: patterns, globs: make([]glob.Glob, 0, len(patterns))}
	for _, p := range patterns {
		g, err := glob.Compile(p)
		if err != nil {
			return nil, fmt.Errorf("invalid url pattern %q: %w", p, err)
		}
		r.globs = append(r.globs, g)
	}
	return r, nil
}

// Match reports whether rawURL matches any pattern.
func (r *URLRule) Match(rawURL string) bool {
	for _, g := range r.globs {
		if g.Match(rawURL) {
			return true
		}
	}
	return false
}

// ValidateTargetURL returns ErrInvalidTargetURL when rawURL matches no pattern.
func (r *URLRule) ValidateTargetURL(rawURL string) error {
	if rawURL == "" || !r.Match(rawURL) {
		return fmt.Errorf("%w: %q", ErrInvalidTargetURL, rawURL)
	}
	return nil
}

// Patterns returns the source patterns.
func (r *URLRule) Patterns() []string {
	return append([]string(nil), r.patterns...)
}
