// Package linkedin is the site profile for LinkedIn Easy Apply postings.
package linkedin

import (
	"github.com/entrhq/autoapply/pkg/apply"
	"github.com/entrhq/autoapply/pkg/form"
)

const (
	// LoginURL is the sign-in page.
	LoginURL = "https://www.linkedin.com/login?trk=guest_homepage-basic_nav-header-signin"

	// JobURLPattern matches job posting pages.
	JobURLPattern = "https://www.linkedin.com/jobs/view/*"

	// PhoneLabel labels the phone input on the contact info step.
	PhoneLabel = "Mobile phone number"
)

// Site returns a fresh LinkedIn profile. Callers may adjust it, for example
// to follow a markup change, before passing it to apply.Open.
func Site() *apply.Site {
	return &apply.Site{
		Name:        "linkedin",
		LoginURL:    LoginURL,
		URLPatterns: []string{JobURLPattern},
		Titles: apply.PageTitles{
			"Contact info":            apply.PageContactInfo,
			"Resume":                  apply.PageResume,
			"Additional Questions":    apply.PageAdditionalQuestions,
			"Additional":              apply.PageAdditionalQuestions,
			"Work authorization":      apply.PageAdditionalQuestions,
			"Review your application": apply.PageSubmitReady,
		},
		PhoneLabel: PhoneLabel,
		Locators: apply.Locators{
			LoginUsername: "#username",
			LoginPassword: "#password",
			LoginSubmit:   `button[type="submit"]`,
			SignedIn:      "#global-nav",

			ApplyButton:    "button.jobs-apply-button",
			SubmitButton:   `button[aria-label="Submit application"]`,
			ContinueButton: `button[aria-label="Continue to next step"]`,
			ReviewButton:   `button[aria-label="Review your application"]`,
			PageHeading:    "div.jobs-easy-apply-content h3",
			ResumeUpload:   `input[type="file"]`,

			Form: form.Locators{
				Group:       "div.jobs-easy-apply-form-element",
				Label:       "label",
				TextInput:   `input[type="text"]`,
				Select:      "select",
				Option:      "option",
				RadioGroup:  "fieldset[data-test-form-builder-radio-button-form-component]",
				RadioLabel:  "legend",
				RadioOption: `input[type="radio"]`,
			},
		},
	}
}
