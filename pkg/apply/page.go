package apply

import (
	"context"
	"fmt"
	"strings"

	"github.com/entrhq/autoapply/pkg/browser"
)

// PageKind is the classification of one step of the apply form.
type PageKind int

const (
	PageUnknown PageKind = iota
	PageContactInfo
	PageResume
	PageAdditionalQuestions
	PageSubmitReady
)

func (k PageKind) String() string {
	switch k {
	case PageContactInfo:
		return "contact_info"
	case PageResume:
		return "resume"
	case PageAdditionalQuestions:
		return "additional_questions"
	case PageSubmitReady:
		return "submit_ready"
	default:
		return "unknown"
	}
}

// PageTitles maps page headings to their kind.
type PageTitles map[string]PageKind

// Classify returns the kind registered for title. Surrounding whitespace is
// ignored; anything else must match exactly. Unregistered titles are
// PageUnknown.
func (t PageTitles) Classify(title string) PageKind {
	if kind, ok := t[strings.TrimSpace(title)]; ok {
		return kind
	}
	return PageUnknown
}

// ReadTitle returns the text of the page heading at loc.
func ReadTitle(ctx context.Context, b browser.Browser, loc browser.Locator) (string, error) {
	heading, err := b.Find(ctx, loc)
	if err != nil {
		return "", fmt.Errorf("find page heading: %w", err)
	}
	if heading == nil {
		return "", fmt.Errorf("%w: page heading %s", ErrElementNotFound, loc)
	}
	title, err := heading.Text(ctx)
	if err != nil {
		return "", fmt.Errorf("read page heading: %w", err)
	}
	return title, nil
}
