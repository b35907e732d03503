package form

import (
	"context"
	"fmt"

	"github.com/entrhq/autoapply/pkg/browser"
)

// Locators tells the readers where a site keeps its questions.
type Locators struct {
	// Group matches one question block holding a label and a text input or select.
	Group browser.Locator
	// Label matches the question text inside a Group.
	Label browser.Locator
	// TextInput matches a free-text input inside a Group.
	TextInput browser.Locator
	// Select matches a drop-down inside a Group.
	Select browser.Locator
	// Option matches the choices inside a Select.
	Option browser.Locator

	// RadioGroup matches one radio question, typically a fieldset.
	RadioGroup browser.Locator
	// RadioLabel matches the question text inside a RadioGroup.
	RadioLabel browser.Locator
	// RadioOption matches the radio inputs inside a RadioGroup.
	RadioOption browser.Locator
}

// Validate reports the first empty locator.
func (l Locators) Validate() error {
	required := []struct {
		name string
		loc  browser.Locator
	}{
		{"group", l.Group},
		{"label", l.Label},
		{"text_input", l.TextInput},
		{"select", l.Select},
		{"option", l.Option},
		{"radio_group", l.RadioGroup},
		{"radio_label", l.RadioLabel},
		{"radio_option", l.RadioOption},
	}
	for _, r := range required {
		if r.loc == "" {
			return fmt.Errorf("form locator %q is required", r.name)
		}
	}
	return nil
}

// ReadText returns every group holding a text input.
func ReadText(ctx context.Context, b browser.Browser, loc Locators) ([]Field, error) {
	groups, err := b.FindAll(ctx, loc.Group)
	if err != nil {
		return nil, fmt.Errorf("find question groups: %w", err)
	}

	var fields []Field
	for _, g := range groups {
		input, err := g.Find(ctx, loc.TextInput)
		if err != nil {
			return nil, fmt.Errorf("find text input: %w", err)
		}
		if input == nil {
			continue
		}
		label, err := labelOf(ctx, g, loc.Label)
		if err != nil {
			return nil, err
		}
		value, err := input.Value(ctx)
		if err != nil {
			return nil, fmt.Errorf("read value of %q: %w", label, err)
		}
		fields = append(fields, Field{Kind: KindText, Label: label, Element: input, Value: value})
	}
	return fields, nil
}

// ReadSelects returns every group holding a drop-down, with its options.
func ReadSelects(ctx context.Context, b browser.Browser, loc Locators) ([]Field, error) {
	groups, err := b.FindAll(ctx, loc.Group)
	if err != nil {
		return nil, fmt.Errorf("find question groups: %w", err)
	}

	var fields []Field
	for _, g := range groups {
		sel, err := g.Find(ctx, loc.Select)
		if err != nil {
			return nil, fmt.Errorf("find select: %w", err)
		}
		if sel == nil {
			continue
		}
		label, err := labelOf(ctx, g, loc.Label)
		if err != nil {
			return nil, err
		}
		options, err := sel.FindAll(ctx, loc.Option)
		if err != nil {
			return nil, fmt.Errorf("find options of %q: %w", label, err)
		}
		fields = append(fields, Field{Kind: KindSelect, Label: label, Element: sel, Options: options})
	}
	return fields, nil
}

// ReadRadios returns every radio group with its options.
func ReadRadios(ctx context.Context, b browser.Browser, loc Locators) ([]Field, error) {
	groups, err := b.FindAll(ctx, loc.RadioGroup)
	if err != nil {
		return nil, fmt.Errorf("find radio groups: %w", err)
	}

	fields := make([]Field, 0, len(groups))
	for _, g := range groups {
		label, err := labelOf(ctx, g, loc.RadioLabel)
		if err != nil {
			return nil, err
		}
		options, err := g.FindAll(ctx, loc.RadioOption)
		if err != nil {
			return nil, fmt.Errorf("find options of %q: %w", label, err)
		}
		fields = append(fields, Field{Kind: KindRadio, Label: label, Element: g, Options: options})
	}
	return fields, nil
}

// ReadAll returns the page's text fields, then selects, then radio groups.
func ReadAll(ctx context.Context, b browser.Browser, loc Locators) ([]Field, error) {
	var all []Field
	for _, read := range []func(context.Context, browser.Browser, Locators) ([]Field, error){
		ReadText, ReadSelects, ReadRadios,
	} {
		fields, err := read(ctx, b, loc)
		if err != nil {
			return nil, err
		}
		all = append(all, fields...)
	}
	return all, nil
}

func labelOf(ctx context.Context, scope browser.Element, loc browser.Locator) (string, error) {
	el, err := scope.Find(ctx, loc)
	if err != nil {
		return "", fmt.Errorf("find label: %w", err)
	}
	if el == nil {
		return "", nil
	}
	text, err := el.Text(ctx)
	if err != nil {
		return "", fmt.Errorf("read label: %w", err)
	}
	return text, nil
}
