package apply

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"golang.org/x/time/rate"

	"github.com/entrhq/autoapply/pkg/browser"
	"github.com/entrhq/autoapply/pkg/config"
	"github.com/entrhq/autoapply/pkg/logging"
)

// Defaults used when a Controller field is left zero.
const (
	DefaultMaxIterations = 1000
	DefaultApplyTimeout  = 10 * time.Second
	DefaultPollInterval  = 250 * time.Millisecond
)

// State is a step of the application state machine.
type State int

const (
	StateStart State = iota
	StateAwaitingApplyButton
	StateClassifying
	StateContactInfo
	StateResume
	StateAdditionalQuestions
	StateSubmitReady
	StateDone
	StateAborted
)

func (s State) String() string {
	switch s {
	case StateStart:
		return "start"
	case StateAwaitingApplyButton:
		return "awaiting_apply_button"
	case StateClassifying:
		return "classifying"
	case StateContactInfo:
		return "contact_info"
	case StateResume:
		return "resume"
	case StateAdditionalQuestions:
		return "additional_questions"
	case StateSubmitReady:
		return "submit_ready"
	case StateDone:
		return "done"
	case StateAborted:
		return "aborted"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

func stateFor(kind PageKind) State {
	switch kind {
	case PageContactInfo:
		return StateContactInfo
	case PageResume:
		return StateResume
	case PageAdditionalQuestions:
		return StateAdditionalQuestions
	case PageSubmitReady:
		return StateSubmitReady
	default:
		return StateClassifying
	}
}

// Outcome reports how one application attempt ended.
type Outcome struct {
	URL        string
	State      State
	Iterations int

	// Submitted is true only when the submit control was actually activated.
	Submitted bool

	Err error
}

// OK reports whether the attempt reached Done.
func (o Outcome) OK() bool {
	return o.State == StateDone && o.Err == nil
}

// Controller runs the application state machine against one browser.
type Controller struct {
	Browser  browser.Browser
	Site     *Site
	Config   *config.Config
	Handlers Handlers

	MaxIterations int
	ApplyTimeout  time.Duration
	PollInterval  time.Duration

	// Pacer, when set, is waited on before every Classifying round.
	Pacer *rate.Limiter

	Logger *logging.Logger

	// Observer, when set, is called on every state change.
	Observer func(from, to State)
}

// NewController builds a Controller with the default handlers and the flow
// limits from cfg.
func NewController(b browser.Browser, site *Site, cfg *config.Config, logger *logging.Logger) *Controller {
	c := &Controller{
		Browser:       b,
		Site:          site,
		Config:        cfg,
		Handlers:      DefaultHandlers(),
		MaxIterations: cfg.Flow.MaxIterations,
		ApplyTimeout:  cfg.Flow.ApplyTimeout,
		Logger:        logger,
	}
	if cfg.Flow.StepInterval > 0 {
		c.Pacer = rate.NewLimiter(rate.Every(cfg.Flow.StepInterval), 1)
	}
	return c
}

// Run applies to the posting at targetURL. It never returns an error; the
// Outcome says how far the attempt got and why it stopped.
func (c *Controller) Run(ctx context.Context, targetURL string) Outcome {
	a := &attempt{c: c, log: c.logger(), out: Outcome{URL: targetURL, State: StateStart}}
	return a.run(ctx)
}

func (c *Controller) logger() *logging.Logger {
	if c.Logger == nil {
		c.Logger = logging.NewWriterLogger("apply", io.Discard)
	}
	return c.Logger
}

// attempt is the mutable state of one Run.
type attempt struct {
	c   *Controller
	log *logging.Logger
	out Outcome
}

func (a *attempt) run(ctx context.Context) Outcome {
	c := a.c
	url := a.out.URL

	rule, err := NewURLRule(c.Site.URLPatterns...)
	if err != nil {
		return a.abort(err)
	}
	if err := rule.ValidateTargetURL(url); err != nil {
		a.log.Warnf("Invalid %s URL %s", c.Site.Name, url)
		return a.abort(err)
	}

	a.log.Infof("Applying to %s", url)
	if err := c.Browser.Navigate(ctx, url); err != nil {
		return a.abort(fmt.Errorf("navigate to %s: %w", url, err))
	}

	a.enter(StateAwaitingApplyButton)
	button, err := a.awaitApplyButton(ctx)
	if err != nil {
		return a.abort(err)
	}
	if err := c.Browser.ForceActivate(ctx, button); err != nil {
		return a.abort(fmt.Errorf("activate apply button: %w", err))
	}

	a.enter(StateClassifying)
	limit := c.MaxIterations
	if limit <= 0 {
		limit = DefaultMaxIterations
	}
	for a.out.Iterations < limit {
		a.out.Iterations++
		if err := a.pace(ctx); err != nil {
			return a.abort(err)
		}
		done, err := a.step(ctx)
		if err != nil {
			return a.abort(err)
		}
		if done {
			a.enter(StateDone)
			return a.out
		}
	}
	return a.abort(fmt.Errorf("%w: no submit button after %d pages", ErrIterationBoundExceeded, limit))
}

// awaitApplyButton polls until the apply button is present and enabled.
func (a *attempt) awaitApplyButton(ctx context.Context) (browser.Element, error) {
	c := a.c
	timeout := c.ApplyTimeout
	if timeout <= 0 {
		timeout = DefaultApplyTimeout
	}
	poll := c.PollInterval
	if poll <= 0 {
		poll = DefaultPollInterval
	}
	loc := c.Site.Locators.ApplyButton
	deadline := time.Now().Add(timeout)

	for {
		el, err := c.Browser.WaitUntilPresent(ctx, loc, time.Until(deadline))
		if err != nil {
			return nil, fmt.Errorf("wait for apply button: %w", err)
		}
		if el != nil {
			enabled, err := el.Enabled(ctx)
			if err != nil {
				return nil, fmt.Errorf("check apply button: %w", err)
			}
			if enabled {
				return el, nil
			}
		}

		remaining := time.Until(deadline)
		if remaining <= 0 {
			a.log.Warnf("No enabled apply button on %s after %s", a.out.URL, timeout)
			return nil, fmt.Errorf("%w: enabled apply button %s within %s", ErrElementNotFound, loc, timeout)
		}

		timer := time.NewTimer(min(poll, remaining))
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil, ctx.Err()
		case <-timer.C:
		}
	}
}

func (a *attempt) pace(ctx context.Context) error {
	if a.c.Pacer == nil {
		return ctx.Err()
	}
	return a.c.Pacer.Wait(ctx)
}

// step runs one Classifying round and reports whether the flow is done.
func (a *attempt) step(ctx context.Context) (bool, error) {
	c := a.c
	b := c.Browser

	submit, err := b.Find(ctx, c.Site.Locators.SubmitButton)
	if err != nil {
		return false, fmt.Errorf("find submit button: %w", err)
	}
	if submit != nil {
		return true, a.submit(ctx, submit)
	}

	title, err := ReadTitle(ctx, b, c.Site.Locators.PageHeading)
	if err != nil {
		return false, err
	}

	kind := c.Site.Titles.Classify(title)
	handler, ok := c.Handlers[kind]
	if !ok {
		a.log.Warnf("%v: %q (round %d)", ErrUnknownPageKind, title, a.out.Iterations)
		return false, nil
	}

	a.log.Debugf("Round %d: %q is %s", a.out.Iterations, title, kind)
	a.enter(stateFor(kind))
	page := &Page{Browser: b, Site: c.Site, Config: c.Config, Logger: a.log}
	if err := handler(ctx, page); err != nil {
		return false, fmt.Errorf("%s page: %w", kind, err)
	}
	a.enter(StateClassifying)
	return false, nil
}

func (a *attempt) submit(ctx context.Context, button browser.Element) error {
	a.enter(StateSubmitReady)
	if err := a.c.Browser.ScrollIntoView(ctx, button); err != nil {
		return fmt.Errorf("scroll to submit button: %w", err)
	}
	if !a.c.Config.SubmitEnabled {
		a.log.Infof("Application to %s is ready; submitting is disabled, not sending it", a.out.URL)
		return nil
	}
	if err := a.c.Browser.ForceActivate(ctx, button); err != nil {
		return fmt.Errorf("activate submit button: %w", err)
	}
	a.out.Submitted = true
	a.log.Infof("Submitted application to %s", a.out.URL)
	return nil
}

func (a *attempt) enter(to State) {
	from := a.out.State
	if from == to {
		return
	}
	a.out.State = to
	if a.c.Observer != nil {
		a.c.Observer(from, to)
	}
}

func (a *attempt) abort(err error) Outcome {
	a.out.Err = err
	a.enter(StateAborted)
	if !errors.Is(err, ErrInvalidTargetURL) {
		a.log.Errorf("Application to %s aborted: %v", a.out.URL, err)
	}
	return a.out
}
