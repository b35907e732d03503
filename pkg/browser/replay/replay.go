// Package replay implements browser.Browser over saved HTML snapshots.
//
// A replay browser never touches the network. Each page is registered under
// the URL it was captured from; navigating to that URL, or activating an
// element carrying data-replay-next="<url>", loads a fresh copy of the page.
// Form edits are applied to the in-memory document so later reads observe
// them, and every mutating call is appended to an action log.
//
// Conventions understood on elements:
//
//	data-replay-next="<url>"      activating the element loads <url>
//	data-replay-cookie="k=v"      activating the element stores cookie k=v for the current host
//	disabled                      the element is not Enabled and refuses pointer clicks
//
// Only CSS locators are supported.
package replay

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"

	"github.com/entrhq/autoapply/pkg/browser"
)

var (
	// ErrUnknownPage is returned when navigating to a URL with no snapshot.
	ErrUnknownPage = errors.New("replay: no page recorded for url")

	// ErrStaleElement is returned when an element from an earlier page is used.
	ErrStaleElement = errors.New("replay: element belongs to a previous page")
)

// Page is one saved snapshot.
type Page struct {
	URL  string
	HTML string
}

// ActionKind names a mutating browser call.
type ActionKind string

const (
	ActionNavigate      ActionKind = "navigate"
	ActionClick         ActionKind = "click"
	ActionForceActivate ActionKind = "force_activate"
	ActionType          ActionKind = "type"
	ActionClear         ActionKind = "clear"
	ActionScroll        ActionKind = "scroll"
	ActionSelect        ActionKind = "select"
	ActionSetFiles      ActionKind = "set_files"
	ActionAddCookie     ActionKind = "add_cookie"
)

// Action is one entry of the action log.
type Action struct {
	Kind   ActionKind
	URL    string // page the action happened on
	Target string // short description of the element, e.g. input#phone
	Value  string
}

func (a Action) String() string {
	s := fmt.Sprintf("%-14s %s", a.Kind, a.Target)
	if a.Value != "" {
		s += fmt.Sprintf(" %q", a.Value)
	}
	return strings.TrimSpace(s)
}

// Browser is an offline browser.Browser.
type Browser struct {
	sources    map[string]string
	doc        *goquery.Document
	currentURL string
	generation int
	actions    []Action
	cookies    []browser.Cookie
}

var _ browser.Browser = (*Browser)(nil)

// New creates a replay browser holding pages. No page is loaded until Navigate.
func New(pages ...Page) *Browser {
	b := &Browser{sources: make(map[string]string, len(pages))}
	for _, p := range pages {
		b.sources[p.URL] = p.HTML
	}
	return b
}

// Actions returns a copy of the action log.
func (b *Browser) Actions() []Action {
	return append([]Action(nil), b.actions...)
}

// ActionsOf returns the logged actions of one kind.
func (b *Browser) ActionsOf(kind ActionKind) []Action {
	var out []Action
	for _, a := range b.actions {
		if a.Kind == kind {
			out = append(out, a)
		}
	}
	return out
}

// HTML renders the current document, including edits.
func (b *Browser) HTML() (string, error) {
	if b.doc == nil {
		return "", nil
	}
	return b.doc.Html()
}

// CurrentURL returns the URL of the loaded page, or "about:blank".
func (b *Browser) CurrentURL() string {
	if b.currentURL == "" {
		return "about:blank"
	}
	return b.currentURL
}

// Navigate loads the snapshot registered for rawURL.
func (b *Browser) Navigate(ctx context.Context, rawURL string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	b.record(ActionNavigate, "", rawURL)
	return b.load(rawURL)
}

func (b *Browser) load(rawURL string) error {
	src, ok := b.sources[rawURL]
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownPage, rawURL)
	}
	node, err := html.Parse(strings.NewReader(src))
	if err != nil {
		return fmt.Errorf("replay: parse %s: %w", rawURL, err)
	}
	b.doc = goquery.NewDocumentFromNode(node)
	b.currentURL = rawURL
	b.generation++
	return nil
}

// Find returns the first element matching loc on the current page.
func (b *Browser) Find(ctx context.Context, loc browser.Locator) (browser.Element, error) {
	all, err := b.FindAll(ctx, loc)
	if err != nil || len(all) == 0 {
		return nil, err
	}
	return all[0], nil
}

// FindAll returns every element matching loc on the current page.
func (b *Browser) FindAll(ctx context.Context, loc browser.Locator) ([]browser.Element, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if b.doc == nil {
		return nil, nil
	}
	sel, err := cssOf(loc)
	if err != nil {
		return nil, err
	}
	return b.wrap(b.doc.Find(sel)), nil
}

// WaitUntilPresent checks once; snapshots never change on their own.
func (b *Browser) WaitUntilPresent(ctx context.Context, loc browser.Locator, _ time.Duration) (browser.Element, error) {
	return b.Find(ctx, loc)
}

// Click activates el like a pointer click. Disabled elements refuse it.
func (b *Browser) Click(ctx context.Context, el browser.Element) error {
	e, err := b.live(ctx, el)
	if err != nil {
		return err
	}
	if _, disabled := e.sel.Attr("disabled"); disabled {
		return fmt.Errorf("replay: click %s: element is disabled", e.describe())
	}
	b.record(ActionClick, e.describe(), "")
	return b.activate(e)
}

// ForceActivate activates el from script. Disabled elements ignore it.
func (b *Browser) ForceActivate(ctx context.Context, el browser.Element) error {
	e, err := b.live(ctx, el)
	if err != nil {
		return err
	}
	b.record(ActionForceActivate, e.describe(), "")
	if _, disabled := e.sel.Attr("disabled"); disabled {
		return nil
	}
	return b.activate(e)
}

func (b *Browser) activate(e *element) error {
	if goquery.NodeName(e.sel) == "input" {
		switch strings.ToLower(e.sel.AttrOr("type", "")) {
		case "radio":
			if name := e.sel.AttrOr("name", ""); name != "" {
				b.doc.Find(fmt.Sprintf("input[type=radio][name=%q]", name)).RemoveAttr("checked")
			}
			e.sel.SetAttr("checked", "checked")
		case "checkbox":
			if _, checked := e.sel.Attr("checked"); checked {
				e.sel.RemoveAttr("checked")
			} else {
				e.sel.SetAttr("checked", "checked")
			}
		}
	}
	if raw, ok := e.sel.Attr("data-replay-cookie"); ok {
		b.setCookieFromAttr(raw)
	}
	if next, ok := e.sel.Attr("data-replay-next"); ok {
		return b.load(next)
	}
	return nil
}

func (b *Browser) setCookieFromAttr(raw string) {
	name, value, _ := strings.Cut(raw, "=")
	host := ""
	if u, err := url.Parse(b.currentURL); err == nil {
		host = u.Hostname()
	}
	b.putCookie(browser.Cookie{Name: name, Value: value, Domain: host, Path: "/", Expires: -1, Secure: true})
}

// Type appends text to el's value.
func (b *Browser) Type(ctx context.Context, el browser.Element, text string) error {
	e, err := b.live(ctx, el)
	if err != nil {
		return err
	}
	b.record(ActionType, e.describe(), text)
	current, _ := e.Value(ctx)
	e.setValue(current + text)
	return nil
}

// Clear empties el's value.
func (b *Browser) Clear(ctx context.Context, el browser.Element) error {
	e, err := b.live(ctx, el)
	if err != nil {
		return err
	}
	b.record(ActionClear, e.describe(), "")
	e.setValue("")
	return nil
}

// ScrollIntoView only logs the call.
func (b *Browser) ScrollIntoView(ctx context.Context, el browser.Element) error {
	e, err := b.live(ctx, el)
	if err != nil {
		return err
	}
	b.record(ActionScroll, e.describe(), "")
	return nil
}

// SelectOption marks option as the only selected option of sel.
func (b *Browser) SelectOption(ctx context.Context, sel, option browser.Element) error {
	s, err := b.live(ctx, sel)
	if err != nil {
		return err
	}
	o, err := b.live(ctx, option)
	if err != nil {
		return err
	}
	if goquery.NodeName(s.sel) != "select" {
		return fmt.Errorf("replay: select option on %s: not a select", s.describe())
	}
	b.record(ActionSelect, s.describe(), o.sel.AttrOr("value", collapse(o.sel.Text())))
	s.sel.Find("option").RemoveAttr("selected")
	o.sel.SetAttr("selected", "selected")
	return nil
}

// SetFiles records path on a file input.
func (b *Browser) SetFiles(ctx context.Context, el browser.Element, path string) error {
	e, err := b.live(ctx, el)
	if err != nil {
		return err
	}
	if goquery.NodeName(e.sel) != "input" || !strings.EqualFold(e.sel.AttrOr("type", ""), "file") {
		return fmt.Errorf("replay: set files on %s: not a file input", e.describe())
	}
	b.record(ActionSetFiles, e.describe(), path)
	e.sel.SetAttr("data-replay-files", path)
	return nil
}

// Cookies returns a copy of the cookie jar.
func (b *Browser) Cookies(ctx context.Context) ([]browser.Cookie, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return append([]browser.Cookie(nil), b.cookies...), nil
}

// AddCookie stores c, replacing a cookie with the same name, domain and path.
func (b *Browser) AddCookie(ctx context.Context, c browser.Cookie) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	b.record(ActionAddCookie, c.Domain, c.Name)
	b.putCookie(c)
	return nil
}

func (b *Browser) putCookie(c browser.Cookie) {
	for i, existing := range b.cookies {
		if existing.Name == c.Name && existing.Domain == c.Domain && existing.Path == c.Path {
			b.cookies[i] = c
			return
		}
	}
	b.cookies = append(b.cookies, c)
}

func (b *Browser) record(kind ActionKind, target, value string) {
	b.actions = append(b.actions, Action{Kind: kind, URL: b.currentURL, Target: target, Value: value})
}

func (b *Browser) wrap(sel *goquery.Selection) []browser.Element {
	out := make([]browser.Element, 0, sel.Length())
	for i := range sel.Nodes {
		out = append(out, &element{b: b, sel: sel.Eq(i), gen: b.generation})
	}
	return out
}

func (b *Browser) live(ctx context.Context, el browser.Element) (*element, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	e, ok := el.(*element)
	if !ok || e == nil || e.b != b {
		return nil, fmt.Errorf("replay: element %T does not belong to this browser", el)
	}
	if e.gen != b.generation {
		return nil, fmt.Errorf("%w: %s", ErrStaleElement, e.describe())
	}
	return e, nil
}

func cssOf(loc browser.Locator) (string, error) {
	engine, sel := browser.SplitLocator(loc)
	if engine != "css" {
		return "", fmt.Errorf("%w: %s", browser.ErrUnsupportedLocator, loc)
	}
	return sel, nil
}

func collapse(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
