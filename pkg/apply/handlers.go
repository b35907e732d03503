package apply

import (
	"context"
	"errors"
	"fmt"

	"github.com/entrhq/autoapply/pkg/browser"
	"github.com/entrhq/autoapply/pkg/config"
	"github.com/entrhq/autoapply/pkg/form"
	"github.com/entrhq/autoapply/pkg/logging"
)

// Page is what a Handler works with: the live browser plus the settings
// of the run.
type Page struct {
	Browser browser.Browser
	Site    *Site
	Config  *config.Config
	Logger  *logging.Logger
}

// Handler fills the current page and advances to the next one.
type Handler func(ctx context.Context, p *Page) error

// Handlers dispatches page kinds to their handler.
type Handlers map[PageKind]Handler

// DefaultHandlers returns the handlers for every fillable page kind.
func DefaultHandlers() Handlers {
	return Handlers{
		PageContactInfo:         HandleContactInfo,
		PageResume:              HandleResume,
		PageAdditionalQuestions: HandleAdditionalQuestions,
	}
}

// HandleContactInfo writes the configured phone number into the phone field
// when it holds something else, then continues.
func HandleContactInfo(ctx context.Context, p *Page) error {
	fields, err := form.ReadText(ctx, p.Browser, p.Site.Locators.Form)
	if err != nil {
		return err
	}

	phone := p.Config.PhoneNumber
	for i := range fields {
		f := &fields[i]
		if f.Label != p.Site.PhoneLabel {
			continue
		}
		if phone == "" {
			p.Logger.Debugf("No phone number configured, leaving %q as %q", f.Label, f.Value)
			continue
		}
		changed, err := f.SetText(ctx, p.Browser, phone)
		if err != nil {
			return err
		}
		if changed {
			p.Logger.Debugf("Set %q", f.Label)
		}
	}

	return p.activate(ctx, p.Site.Locators.ContinueButton, "continue")
}

// HandleResume attaches the configured resume, then continues.
func HandleResume(ctx context.Context, p *Page) error {
	if p.Config.ResumePath == "" {
		return fmt.Errorf("resume page reached but no resume path is configured")
	}

	upload, err := p.Browser.Find(ctx, p.Site.Locators.ResumeUpload)
	if err != nil {
		return fmt.Errorf("find resume upload: %w", err)
	}
	if upload == nil {
		return fmt.Errorf("%w: resume upload %s", ErrElementNotFound, p.Site.Locators.ResumeUpload)
	}
	if err := p.Browser.SetFiles(ctx, upload, p.Config.ResumePath); err != nil {
		return fmt.Errorf("attach resume: %w", err)
	}
	p.Logger.Debugf("Attached resume %s", p.Config.ResumePath)

	return p.activate(ctx, p.Site.Locators.ContinueButton, "continue")
}

// HandleAdditionalQuestions gives every question its placeholder answer,
// then continues, or opens the review when there is no next step.
func HandleAdditionalQuestions(ctx context.Context, p *Page) error {
	fields, err := form.ReadAll(ctx, p.Browser, p.Site.Locators.Form)
	if err != nil {
		return err
	}
	for i := range fields {
		f := &fields[i]
		if err := f.AnswerDefault(ctx, p.Browser); err != nil {
			if errors.Is(err, form.ErrNoOptions) {
				p.Logger.Warnf("Skipping question %q: %v", f.Label, err)
				continue
			}
			return err
		}
		p.Logger.Debugf("Answered %s question %q", f.Kind, f.Label)
	}

	next, err := p.Browser.Find(ctx, p.Site.Locators.ContinueButton)
	if err != nil {
		return fmt.Errorf("find continue: %w", err)
	}
	if next != nil {
		return p.Browser.ForceActivate(ctx, next)
	}
	return p.activate(ctx, p.Site.Locators.ReviewButton, "review")
}

func (p *Page) activate(ctx context.Context, loc browser.Locator, name string) error {
	el, err := p.Browser.Find(ctx, loc)
	if err != nil {
		return fmt.Errorf("find %s: %w", name, err)
	}
	if el == nil {
		return fmt.Errorf("%w: %s button %s", ErrElementNotFound, name, loc)
	}
	if err := p.Browser.ForceActivate(ctx, el); err != nil {
		return fmt.Errorf("activate %s: %w", name, err)
	}
	return nil
}
