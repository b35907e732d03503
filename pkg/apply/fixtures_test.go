package apply

import (
	"bytes"
	"testing"
	"time"

	"github.com/entrhq/autoapply/pkg/browser/replay"
	"github.com/entrhq/autoapply/pkg/config"
	"github.com/entrhq/autoapply/pkg/form"
	"github.com/entrhq/autoapply/pkg/logging"
)

const (
	loginURL     = "https://jobs.example.com/login"
	feedURL      = "https://jobs.example.com/feed"
	postingURL   = "https://jobs.example.com/view/123"
	contactURL   = "https://jobs.example.com/apply/contact"
	resumeURL    = "https://jobs.example.com/apply/resume"
	questionsURL = "https://jobs.example.com/apply/questions"
	reviewURL    = "https://jobs.example.com/apply/review"
	doneURL      = "https://jobs.example.com/apply/done"
	mysteryURL   = "https://jobs.example.com/apply/mystery"

	testPhone  = "+1 555 0100"
	testResume = "/tmp/resume.pdf"
)

const loginPage = `<html><body><form>
<input id="username" type="text">
<input id="password" type="password">
<button type="submit" id="signin" data-replay-next="` + feedURL + `" data-replay-cookie="li_at=token">Sign in</button>
</form></body></html>`

const feedPage = `<html><body><div id="feed">Feed</div></body></html>`

const postingPage = `<html><body>
<h1>Go engineer</h1>
<button class="apply" id="apply" data-replay-next="` + contactURL + `">Easy Apply</button>
</body></html>`

const contactPage = `<html><body>
<h3> Contact info </h3>
<div class="q"><label>Email address</label><input type="text" id="email" value="jane@example.com"></div>
<div class="q"><label>Mobile phone number</label><input type="text" id="phone" value=""></div>
<button id="continue" data-replay-next="` + resumeURL + `">Next</button>
</body></html>`

const resumePage = `<html><body>
<h3>Resume</h3>
<input type="file" id="upload">
<button id="continue" data-replay-next="` + questionsURL + `">Next</button>
</body></html>`

const questionsPage = `<html><body>
<h3>Additional Questions</h3>
<div class="q"><label>Years of Go</label><input type="text" id="years" value=""></div>
<div class="q"><label>English</label>
  <select id="english">
    <option value="">Select an option</option>
    <option value="basic">Basic</option>
    <option value="native">Native</option>
  </select>
</div>
<fieldset>
  <legend>Do you require sponsorship?</legend>
  <input type="radio" name="sponsor" value="Yes">
  <input type="radio" name="sponsor" value="No">
</fieldset>
<button id="review" data-replay-next="` + reviewURL + `">Review</button>
</body></html>`

const reviewPage = `<html><body>
<h3>Review your application</h3>
<button id="submit" data-replay-next="` + doneURL + `">Submit application</button>
</body></html>`

const donePage = `<html><body><h3>Application sent</h3></body></html>`

const mysteryPage = `<html><body><h3>Something else entirely</h3></body></html>`

func testSite() *Site {
	return &Site{
		Name:        "example",
		LoginURL:    loginURL,
		URLPatterns: []string{"https://jobs.example.com/view/*"},
		Titles: PageTitles{
			"Contact info":            PageContactInfo,
			"Resume":                  PageResume,
			"Additional Questions":    PageAdditionalQuestions,
			"Review your application": PageSubmitReady,
		},
		PhoneLabel: "Mobile phone number",
		Locators: Locators{
			LoginUsername:  "#username",
			LoginPassword:  "#password",
			LoginSubmit:    "button[type=submit]",
			SignedIn:       "#feed",
			ApplyButton:    "button.apply",
			SubmitButton:   "button#submit",
			ContinueButton: "button#continue",
			ReviewButton:   "button#review",
			PageHeading:    "h3",
			ResumeUpload:   "input[type=file]",
			Form: form.Locators{
				Group:       "div.q",
				Label:       "label",
				TextInput:   "input[type=text]",
				Select:      "select",
				Option:      "option",
				RadioGroup:  "fieldset",
				RadioLabel:  "legend",
				RadioOption: "input[type=radio]",
			},
		},
	}
}

func testConfig() *config.Config {
	cfg := config.DefaultConfig()
	cfg.Username = "jane@example.com"
	cfg.Password = "hunter2"
	cfg.PhoneNumber = testPhone
	cfg.ResumePath = testResume
	cfg.Flow.StepInterval = 0
	cfg.Flow.ApplyTimeout = 50 * time.Millisecond
	return cfg
}

// applicationPages is a complete apply flow behind a login page.
func applicationPages() []replay.Page {
	return []replay.Page{
		{URL: loginURL, HTML: loginPage},
		{URL: feedURL, HTML: feedPage},
		{URL: postingURL, HTML: postingPage},
		{URL: contactURL, HTML: contactPage},
		{URL: resumeURL, HTML: resumePage},
		{URL: questionsURL, HTML: questionsPage},
		{URL: reviewURL, HTML: reviewPage},
		{URL: doneURL, HTML: donePage},
	}
}

func testLogger(t *testing.T) (*logging.Logger, *bytes.Buffer) {
	t.Helper()
	var buf bytes.Buffer
	logger := logging.NewWriterLogger("apply", &buf)
	logger.SetLevel(logging.LevelDebug)
	return logger, &buf
}

func newTestController(t *testing.T, b *replay.Browser, cfg *config.Config) *Controller {
	t.Helper()
	logger, _ := testLogger(t)
	c := NewController(b, testSite(), cfg, logger)
	c.PollInterval = 5 * time.Millisecond
	return c
}

// actionsOn returns the logged actions of kind that targeted target.
func actionsOn(b *replay.Browser, kind replay.ActionKind, target string) []replay.Action {
	var out []replay.Action
	for _, a := range b.ActionsOf(kind) {
		if a.Target == target {
			out = append(out, a)
		}
	}
	return out
}
