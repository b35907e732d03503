package apply

import (
	"fmt"

	"github.com/entrhq/autoapply/pkg/browser"
	"github.com/entrhq/autoapply/pkg/form"
)

// Locators names every control the flow touches on a site.
type Locators struct {
	LoginUsername browser.Locator
	LoginPassword browser.Locator
	LoginSubmit   browser.Locator

	// SignedIn is an element only shown after a successful sign-in.
	// Optional; when empty the cookies are captured right after submitting.
	SignedIn browser.Locator

	ApplyButton    browser.Locator
	SubmitButton   browser.Locator
	ContinueButton browser.Locator
	ReviewButton   browser.Locator
	PageHeading    browser.Locator
	ResumeUpload   browser.Locator

	Form form.Locators
}

// Site is everything that differs between job boards.
type Site struct {
	Name     string
	LoginURL string

	// URLPatterns are glob patterns of job posting URLs.
	URLPatterns []string

	Titles PageTitles

	// PhoneLabel is the label of the phone number input on the contact page.
	PhoneLabel string

	Locators Locators
}

// Validate checks that the profile is complete and its patterns compile.
func (s *Site) Validate() error {
	if s.Name == "" {
		return fmt.Errorf("site name is required")
	}
	if s.LoginURL == "" {
		return fmt.Errorf("site %s: login url is required", s.Name)
	}
	if _, err := NewURLRule(s.URLPatterns...); err != nil {
		return fmt.Errorf("site %s: %w", s.Name, err)
	}
	if len(s.Titles) == 0 {
		return fmt.Errorf("site %s: page titles are required", s.Name)
	}
	if s.PhoneLabel == "" {
		return fmt.Errorf("site %s: phone label is required", s.Name)
	}

	l := s.Locators
	required := []struct {
		name string
		loc  browser.Locator
	}{
		{"login_username", l.LoginUsername},
		{"login_password", l.LoginPassword},
		{"login_submit", l.LoginSubmit},
		{"apply_button", l.ApplyButton},
		{"submit_button", l.SubmitButton},
		{"continue_button", l.ContinueButton},
		{"review_button", l.ReviewButton},
		{"page_heading", l.PageHeading},
		{"resume_upload", l.ResumeUpload},
	}
	for _, r := range required {
		if r.loc == "" {
			return fmt.Errorf("site %s: locator %q is required", s.Name, r.name)
		}
	}
	if err := l.Form.Validate(); err != nil {
		return fmt.Errorf("site %s: %w", s.Name, err)
	}
	return nil
}
