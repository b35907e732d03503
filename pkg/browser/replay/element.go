package replay

import (
	"context"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/entrhq/autoapply/pkg/browser"
)

// element is a single node of a loaded snapshot.
type element struct {
	b   *Browser
	sel *goquery.Selection
	gen int
}

var _ browser.Element = (*element)(nil)

func (e *element) Text(ctx context.Context) (string, error) {
	if _, err := e.b.live(ctx, e); err != nil {
		return "", err
	}
	return collapse(e.sel.Text()), nil
}

func (e *element) Value(ctx context.Context) (string, error) {
	if _, err := e.b.live(ctx, e); err != nil {
		return "", err
	}
	switch goquery.NodeName(e.sel) {
	case "textarea":
		return e.sel.Text(), nil
	case "select":
		options := e.sel.Find("option")
		chosen := options.FilterFunction(func(_ int, o *goquery.Selection) bool {
			_, ok := o.Attr("selected")
			return ok
		}).First()
		if chosen.Length() == 0 {
			chosen = options.First()
		}
		if chosen.Length() == 0 {
			return "", nil
		}
		return chosen.AttrOr("value", collapse(chosen.Text())), nil
	default:
		return e.sel.AttrOr("value", ""), nil
	}
}

func (e *element) Attribute(ctx context.Context, name string) (string, error) {
	if _, err := e.b.live(ctx, e); err != nil {
		return "", err
	}
	return e.sel.AttrOr(name, ""), nil
}

func (e *element) Enabled(ctx context.Context) (bool, error) {
	if _, err := e.b.live(ctx, e); err != nil {
		return false, err
	}
	_, disabled := e.sel.Attr("disabled")
	return !disabled, nil
}

func (e *element) Find(ctx context.Context, loc browser.Locator) (browser.Element, error) {
	all, err := e.FindAll(ctx, loc)
	if err != nil || len(all) == 0 {
		return nil, err
	}
	return all[0], nil
}

func (e *element) FindAll(ctx context.Context, loc browser.Locator) ([]browser.Element, error) {
	if _, err := e.b.live(ctx, e); err != nil {
		return nil, err
	}
	sel, err := cssOf(loc)
	if err != nil {
		return nil, err
	}
	return e.b.wrap(e.sel.Find(sel)), nil
}

func (e *element) setValue(v string) {
	if goquery.NodeName(e.sel) == "textarea" {
		e.sel.SetText(v)
		return
	}
	e.sel.SetAttr("value", v)
}

// describe renders the element as tag#id, tag[name=...] or tag.class.
func (e *element) describe() string {
	tag := goquery.NodeName(e.sel)
	if id := e.sel.AttrOr("id", ""); id != "" {
		return tag + "#" + id
	}
	if name := e.sel.AttrOr("name", ""); name != "" {
		return tag + "[name=" + name + "]"
	}
	if class := strings.Fields(e.sel.AttrOr("class", "")); len(class) > 0 {
		return tag + "." + class[0]
	}
	return tag
}
