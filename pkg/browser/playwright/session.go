package playwright

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/playwright-community/playwright-go"

	"github.com/entrhq/autoapply/pkg/browser"
)

// Session is one launched browser with a single page.
type Session struct {
	pw      *playwright.Playwright
	Browser playwright.Browser
	Context playwright.BrowserContext
	Page    playwright.Page
}

var _ browser.Browser = (*Session)(nil)

// Launch installs the driver if needed, starts the browser and opens a page.
func Launch(opts Options) (*Session, error) {
	opts, err := opts.withDefaults()
	if err != nil {
		return nil, err
	}

	// Discard driver output so it does not interleave with ours
	runOpts := &playwright.RunOptions{
		Browsers: []string{opts.Engine},
		Verbose:  false,
		Stdout:   io.Discard,
		Stderr:   io.Discard,
	}
	if !opts.SkipInstall {
		if err := playwright.Install(runOpts); err != nil {
			return nil, fmt.Errorf("failed to install playwright: %w", err)
		}
	}

	pw, err := playwright.Run(runOpts)
	if err != nil {
		return nil, fmt.Errorf("failed to start playwright: %w", err)
	}

	var engine playwright.BrowserType
	switch opts.Engine {
	case EngineChromium:
		engine = pw.Chromium
	case EngineWebKit:
		engine = pw.WebKit
	default:
		engine = pw.Firefox
	}

	b, err := engine.Launch(playwright.BrowserTypeLaunchOptions{
		Headless: playwright.Bool(opts.Headless),
	})
	if err != nil {
		_ = pw.Stop()
		return nil, fmt.Errorf("failed to launch %s: %w", opts.Engine, err)
	}

	bctx, err := b.NewContext(playwright.BrowserNewContextOptions{
		Viewport: &playwright.Size{
			Width:  opts.Viewport.Width,
			Height: opts.Viewport.Height,
		},
	})
	if err != nil {
		_ = b.Close()
		_ = pw.Stop()
		return nil, fmt.Errorf("failed to create context: %w", err)
	}

	page, err := bctx.NewPage()
	if err != nil {
		_ = bctx.Close()
		_ = b.Close()
		_ = pw.Stop()
		return nil, fmt.Errorf("failed to create page: %w", err)
	}
	page.SetDefaultTimeout(opts.Timeout)

	return &Session{pw: pw, Browser: b, Context: bctx, Page: page}, nil
}

// Close releases the page, context and browser and stops the driver.
func (s *Session) Close() error {
	return errors.Join(
		s.Page.Close(),
		s.Context.Close(),
		s.Browser.Close(),
		s.pw.Stop(),
	)
}

// Navigate loads url in the page.
func (s *Session) Navigate(ctx context.Context, url string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if _, err := s.Page.Goto(url); err != nil {
		return fmt.Errorf("navigation failed: %w", err)
	}
	return nil
}

// CurrentURL returns the page URL.
func (s *Session) CurrentURL() string {
	return s.Page.URL()
}

func (s *Session) Find(ctx context.Context, loc browser.Locator) (browser.Element, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	h, err := s.Page.QuerySelector(string(loc))
	if err != nil {
		return nil, fmt.Errorf("selector query failed: %w", err)
	}
	return wrap(h), nil
}

func (s *Session) FindAll(ctx context.Context, loc browser.Locator) ([]browser.Element, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	hs, err := s.Page.QuerySelectorAll(string(loc))
	if err != nil {
		return nil, fmt.Errorf("selector query failed: %w", err)
	}
	return wrapAll(hs), nil
}

// WaitUntilPresent waits for loc to be attached to the page. The wait is cut
// short by ctx's deadline.
func (s *Session) WaitUntilPresent(ctx context.Context, loc browser.Locator, timeout time.Duration) (browser.Element, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if deadline, ok := ctx.Deadline(); ok && time.Until(deadline) < timeout {
		timeout = time.Until(deadline)
	}
	// A zero timeout means "wait forever" to playwright.
	if timeout <= 0 {
		return s.Find(ctx, loc)
	}

	h, err := s.Page.WaitForSelector(string(loc), playwright.PageWaitForSelectorOptions{
		State:   playwright.WaitForSelectorStateAttached,
		Timeout: playwright.Float(milliseconds(timeout)),
	})
	if errors.Is(err, playwright.ErrTimeout) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("wait failed: %w", err)
	}
	return wrap(h), nil
}

func (s *Session) Click(ctx context.Context, el browser.Element) error {
	h, err := handleOf(ctx, el)
	if err != nil {
		return err
	}
	if err := h.Click(); err != nil {
		return fmt.Errorf("click failed: %w", err)
	}
	return nil
}

// ForceActivate clicks el from script, so overlays and hidden inputs do not
// get in the way.
func (s *Session) ForceActivate(ctx context.Context, el browser.Element) error {
	h, err := handleOf(ctx, el)
	if err != nil {
		return err
	}
	if _, err := h.Evaluate("el => el.click()"); err != nil {
		return fmt.Errorf("script click failed: %w", err)
	}
	return nil
}

func (s *Session) Type(ctx context.Context, el browser.Element, text string) error {
	h, err := handleOf(ctx, el)
	if err != nil {
		return err
	}
	if err := h.Type(text); err != nil {
		return fmt.Errorf("type failed: %w", err)
	}
	return nil
}

func (s *Session) Clear(ctx context.Context, el browser.Element) error {
	h, err := handleOf(ctx, el)
	if err != nil {
		return err
	}
	if err := h.Fill(""); err != nil {
		return fmt.Errorf("clear failed: %w", err)
	}
	return nil
}

func (s *Session) ScrollIntoView(ctx context.Context, el browser.Element) error {
	h, err := handleOf(ctx, el)
	if err != nil {
		return err
	}
	if err := h.ScrollIntoViewIfNeeded(); err != nil {
		return fmt.Errorf("scroll failed: %w", err)
	}
	return nil
}

func (s *Session) SelectOption(ctx context.Context, sel, option browser.Element) error {
	sh, err := handleOf(ctx, sel)
	if err != nil {
		return err
	}
	oh, err := handleOf(ctx, option)
	if err != nil {
		return err
	}
	if _, err := sh.SelectOption(playwright.SelectOptionValues{
		Elements: &[]playwright.ElementHandle{oh},
	}); err != nil {
		return fmt.Errorf("select failed: %w", err)
	}
	return nil
}

func (s *Session) SetFiles(ctx context.Context, el browser.Element, path string) error {
	h, err := handleOf(ctx, el)
	if err != nil {
		return err
	}
	if err := h.SetInputFiles(path); err != nil {
		return fmt.Errorf("set files failed: %w", err)
	}
	return nil
}

func (s *Session) Cookies(ctx context.Context) ([]browser.Cookie, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	cookies, err := s.Context.Cookies()
	if err != nil {
		return nil, fmt.Errorf("read cookies: %w", err)
	}
	out := make([]browser.Cookie, 0, len(cookies))
	for _, c := range cookies {
		out = append(out, fromPlaywright(c))
	}
	return out, nil
}

func (s *Session) AddCookie(ctx context.Context, c browser.Cookie) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := s.Context.AddCookies([]playwright.OptionalCookie{toPlaywright(c)}); err != nil {
		return fmt.Errorf("add cookie %s: %w", c.Name, err)
	}
	return nil
}
