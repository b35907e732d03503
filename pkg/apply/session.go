package apply

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/entrhq/autoapply/pkg/browser"
	"github.com/entrhq/autoapply/pkg/config"
	"github.com/entrhq/autoapply/pkg/cookiecache"
	"github.com/entrhq/autoapply/pkg/logging"
)

// DefaultSignInTimeout bounds the wait for the signed-in marker.
const DefaultSignInTimeout = 15 * time.Second

// Session is one browser signed in to one site. It is reused for every
// posting of a run and is not safe for concurrent use.
type Session struct {
	browser browser.Browser
	config  *config.Config
	site    *Site
	store   *cookiecache.FileStore
	cache   *cookiecache.Cache
	logger  *logging.Logger

	controller *Controller

	// SignInTimeout bounds the wait for Locators.SignedIn after submitting
	// the login form.
	SignInTimeout time.Duration
}

var _ Authenticator = (*Session)(nil)

// Open prepares a session. A still-valid cached sign-in is loaded from store
// and its cookies are put back into the browser, so the first ApplyTo does
// not need to sign in again.
func Open(ctx context.Context, b browser.Browser, cfg *config.Config, site *Site, store *cookiecache.FileStore, logger *logging.Logger) (*Session, error) {
	if err := site.Validate(); err != nil {
		return nil, fmt.Errorf("invalid site profile: %w", err)
	}
	if logger == nil {
		logger = logging.NewWriterLogger("apply", io.Discard)
	}

	s := &Session{
		browser:       b,
		config:        cfg,
		site:          site,
		store:         store,
		logger:        logger,
		controller:    NewController(b, site, cfg, logger),
		SignInTimeout: DefaultSignInTimeout,
	}

	cache := store.Load()
	switch {
	case cache == nil:
		logger.Infof("No cached %s session", site.Name)
	case !cache.IsValid():
		logger.Infof("Cached %s session expired at %s", site.Name, cache.ExpiresAt().Format(time.RFC3339))
	default:
		s.restore(ctx, cache)
	}
	s.cache = cache
	return s, nil
}

func (s *Session) restore(ctx context.Context, cache *cookiecache.Cache) {
	restored := 0
	for _, c := range cache.Cookies {
		if err := s.browser.AddCookie(ctx, c); err != nil {
			s.logger.Warnf("Unable to restore cookie %s for %s: %v", c.Name, c.Domain, err)
			continue
		}
		restored++
	}
	s.logger.Infof("Restored %d cached cookies, session valid for %s", restored, cache.Remaining().Round(time.Second))
}

// CookieCache returns the session's current cache, possibly nil.
func (s *Session) CookieCache() *cookiecache.Cache {
	return s.cache
}

// Controller exposes the state machine so callers can tune it.
func (s *Session) Controller() *Controller {
	return s.controller
}

// SignIn logs in with the configured credentials and stores the resulting
// cookies. Failures are logged and reported as false.
func (s *Session) SignIn(ctx context.Context) bool {
	if err := s.signIn(ctx); err != nil {
		s.logger.Errorf("%v", fmt.Errorf("%w: %w", ErrAuthentication, err))
		return false
	}
	return true
}

func (s *Session) signIn(ctx context.Context) error {
	b := s.browser
	l := s.site.Locators

	s.logger.Infof("Signing in to %s as %s", s.site.Name, s.config.Username)
	if err := b.Navigate(ctx, s.site.LoginURL); err != nil {
		return fmt.Errorf("open login page: %w", err)
	}
	if err := s.fill(ctx, l.LoginUsername, s.config.Username); err != nil {
		return err
	}
	if err := s.fill(ctx, l.LoginPassword, s.config.Password); err != nil {
		return err
	}

	submit, err := s.require(ctx, l.LoginSubmit)
	if err != nil {
		return err
	}
	if err := b.Click(ctx, submit); err != nil {
		return fmt.Errorf("submit login form: %w", err)
	}

	if l.SignedIn != "" {
		marker, err := b.WaitUntilPresent(ctx, l.SignedIn, s.SignInTimeout)
		if err != nil {
			return fmt.Errorf("wait for sign-in: %w", err)
		}
		if marker == nil {
			return fmt.Errorf("%w: signed-in marker %s after %s", ErrElementNotFound, l.SignedIn, s.SignInTimeout)
		}
	}

	cookies, err := b.Cookies(ctx)
	if err != nil {
		return fmt.Errorf("read cookies: %w", err)
	}
	if len(cookies) == 0 {
		return fmt.Errorf("no cookies set after sign-in")
	}

	s.cache = cookiecache.New(cookies)
	if err := s.store.Save(s.cache); err != nil {
		s.logger.Warnf("Unable to save session cache: %v", err)
	}
	s.logger.Infof("Signed in to %s, captured %d cookies", s.site.Name, len(cookies))
	return nil
}

func (s *Session) fill(ctx context.Context, loc browser.Locator, value string) error {
	el, err := s.require(ctx, loc)
	if err != nil {
		return err
	}
	if err := s.browser.Clear(ctx, el); err != nil {
		return fmt.Errorf("clear %s: %w", loc, err)
	}
	if err := s.browser.Type(ctx, el, value); err != nil {
		return fmt.Errorf("type into %s: %w", loc, err)
	}
	return nil
}

func (s *Session) require(ctx context.Context, loc browser.Locator) (browser.Element, error) {
	el, err := s.browser.Find(ctx, loc)
	if err != nil {
		return nil, fmt.Errorf("find %s: %w", loc, err)
	}
	if el == nil {
		return nil, fmt.Errorf("%w: %s", ErrElementNotFound, loc)
	}
	return el, nil
}

// ApplyTo signs in if needed and runs one application.
func (s *Session) ApplyTo(ctx context.Context, url string) Outcome {
	return RequireSignIn(ctx, s, func(ctx context.Context) Outcome {
		return s.controller.Run(ctx, url)
	})
}

// ApplyAll applies to each URL in order. Once ctx is done the remaining
// URLs are reported as aborted without being attempted.
func (s *Session) ApplyAll(ctx context.Context, urls []string) []Outcome {
	outcomes := make([]Outcome, 0, len(urls))
	for _, url := range urls {
		if err := ctx.Err(); err != nil {
			outcomes = append(outcomes, Outcome{URL: url, State: StateAborted, Err: err})
			continue
		}
		outcomes = append(outcomes, s.ApplyTo(ctx, url))
	}
	return outcomes
}
