package playwright

import (
	"context"
	"fmt"
	"strings"

	"github.com/playwright-community/playwright-go"

	"github.com/entrhq/autoapply/pkg/browser"
)

// element adapts a playwright.ElementHandle.
type element struct {
	h playwright.ElementHandle
}

func wrap(h playwright.ElementHandle) browser.Element {
	if h == nil {
		return nil
	}
	return &element{h: h}
}

func wrapAll(hs []playwright.ElementHandle) []browser.Element {
	out := make([]browser.Element, 0, len(hs))
	for _, h := range hs {
		out = append(out, &element{h: h})
	}
	return out
}

func handleOf(ctx context.Context, el browser.Element) (playwright.ElementHandle, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	e, ok := el.(*element)
	if !ok || e == nil {
		return nil, fmt.Errorf("element %T was not created by this browser", el)
	}
	return e.h, nil
}

func (e *element) Text(ctx context.Context) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	text, err := e.h.InnerText()
	if err != nil {
		return "", fmt.Errorf("text extraction failed: %w", err)
	}
	return strings.TrimSpace(text), nil
}

func (e *element) Value(ctx context.Context) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	v, err := e.h.InputValue()
	if err != nil {
		return "", fmt.Errorf("read value failed: %w", err)
	}
	return v, nil
}

func (e *element) Attribute(ctx context.Context, name string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	v, err := e.h.GetAttribute(name)
	if err != nil {
		return "", fmt.Errorf("read attribute %s failed: %w", name, err)
	}
	return v, nil
}

func (e *element) Enabled(ctx context.Context) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	return e.h.IsEnabled()
}

func (e *element) Find(ctx context.Context, loc browser.Locator) (browser.Element, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	h, err := e.h.QuerySelector(string(loc))
	if err != nil {
		return nil, fmt.Errorf("selector query failed: %w", err)
	}
	return wrap(h), nil
}

func (e *element) FindAll(ctx context.Context, loc browser.Locator) ([]browser.Element, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	hs, err := e.h.QuerySelectorAll(string(loc))
	if err != nil {
		return nil, fmt.Errorf("selector query failed: %w", err)
	}
	return wrapAll(hs), nil
}
