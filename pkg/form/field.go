// Package form reads the input widgets of an application page into a
// uniform Field value and fills them with placeholder answers.
//
// A Field is a tagged variant: Kind says whether it wraps a text input, a
// select or a radio group, and the methods switch on it. Fields are read from
// the live page and must be discarded once the page navigates.
//
// The default answers are best-effort placeholders ("0" for text, the last
// option for selects and radio groups). They are not checked against the
// question being asked.
package form

import (
	"context"
	"errors"
	"fmt"

	"github.com/entrhq/autoapply/pkg/browser"
)

var (
	// ErrNoOptions is returned when a select or radio group has nothing to choose.
	ErrNoOptions = errors.New("form: field has no options")

	// ErrUnknownKind is returned for a Field whose Kind is not set.
	ErrUnknownKind = errors.New("form: unknown field kind")
)

// DefaultTextAnswer is typed into text fields that have no better answer.
const DefaultTextAnswer = "0"

// Kind discriminates the widget a Field wraps.
type Kind int

const (
	KindUnknown Kind = iota
	KindText
	KindSelect
	KindRadio
)

func (k Kind) String() string {
	switch k {
	case KindText:
		return "text"
	case KindSelect:
		return "select"
	case KindRadio:
		return "radio"
	default:
		return "unknown"
	}
}

// Field is one question on a form page.
type Field struct {
	Kind  Kind
	Label string

	// Element is the input, select, or radio group container.
	Element browser.Element

	// Value is the text input's value when the field was read. Text only.
	Value string

	// Options are the select's options or the group's radio inputs in
	// document order. Select and Radio only.
	Options []browser.Element
}

// AnswerDefault fills the field with its placeholder answer.
func (f *Field) AnswerDefault(ctx context.Context, b browser.Browser) error {
	switch f.Kind {
	case KindText:
		_, err := f.write(ctx, b, DefaultTextAnswer)
		return err
	case KindSelect:
		last, err := f.lastOption()
		if err != nil {
			return err
		}
		if err := b.SelectOption(ctx, f.Element, last); err != nil {
			return fmt.Errorf("select %q: %w", f.Label, err)
		}
		return nil
	case KindRadio:
		last, err := f.lastOption()
		if err != nil {
			return err
		}
		if err := b.ForceActivate(ctx, last); err != nil {
			return fmt.Errorf("choose %q: %w", f.Label, err)
		}
		return nil
	default:
		return fmt.Errorf("%w: %d", ErrUnknownKind, int(f.Kind))
	}
}

// SetText replaces a text field's value with v unless it already holds v.
// It reports whether anything was written.
func (f *Field) SetText(ctx context.Context, b browser.Browser, v string) (bool, error) {
	if f.Kind != KindText {
		return false, fmt.Errorf("set text on %s field %q: %w", f.Kind, f.Label, ErrUnknownKind)
	}
	if f.Value == v {
		return false, nil
	}
	return f.write(ctx, b, v)
}

func (f *Field) write(ctx context.Context, b browser.Browser, v string) (bool, error) {
	if err := b.Clear(ctx, f.Element); err != nil {
		return false, fmt.Errorf("clear %q: %w", f.Label, err)
	}
	if err := b.Type(ctx, f.Element, v); err != nil {
		return false, fmt.Errorf("type into %q: %w", f.Label, err)
	}
	f.Value = v
	return true, nil
}

func (f *Field) lastOption() (browser.Element, error) {
	if len(f.Options) == 0 {
		return nil, fmt.Errorf("%w: %s %q", ErrNoOptions, f.Kind, f.Label)
	}
	return f.Options[len(f.Options)-1], nil
}
