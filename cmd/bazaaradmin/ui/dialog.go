package ui

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/huh"

	"bazaaradmin/internal/api"
	"bazaaradmin/internal/form"
)

// dialogModel drives one create/edit dialog: a huh form generated from
// the resource's field metadata, bound to a draft. The draft is the
// source of truth; the form's string bindings are written back into it
// when the form completes.
type dialogModel struct {
	draft *form.Draft
	form  *huh.Form

	strings map[string]*string
	bools   map[string]*bool
	files   map[string]*string
}

func newDialog(draft *form.Draft, width int) *dialogModel {
	d := &dialogModel{
		draft:   draft,
		strings: make(map[string]*string),
		bools:   make(map[string]*bool),
		files:   make(map[string]*string),
	}

	var fields []huh.Field
	for _, f := range draft.Spec().Fields {
		switch {
		case f.File:
			v := new(string)
			d.files[f.Name] = v
			fields = append(fields, huh.NewFilePicker().
				Key(f.Name).
				Title(f.Label).
				Value(v))

		case f.Kind == api.KindBool:
			v := new(bool)
			if b, ok := draft.Get(f.Name).(bool); ok {
				*v = b
			}
			d.bools[f.Name] = v
			fields = append(fields, huh.NewConfirm().
				Key(f.Name).
				Title(f.Label).
				Value(v))

		case len(f.Options) > 0:
			v := new(string)
			*v = valueString(draft.Get(f.Name))
			d.strings[f.Name] = v
			opts := make([]huh.Option[string], 0, len(f.Options))
			for _, o := range f.Options {
				opts = append(opts, huh.NewOption(o, o))
			}
			fields = append(fields, huh.NewSelect[string]().
				Key(f.Name).
				Title(f.Label).
				Options(opts...).
				Value(v))

		case f.Multiline:
			v := new(string)
			*v = valueString(draft.Get(f.Name))
			d.strings[f.Name] = v
			fields = append(fields, huh.NewText().
				Key(f.Name).
				Title(f.Label).
				Value(v))

		default:
			v := new(string)
			*v = valueString(draft.Get(f.Name))
			d.strings[f.Name] = v
			fields = append(fields, huh.NewInput().
				Key(f.Name).
				Title(f.Label).
				Value(v))
		}
	}

	d.form = huh.NewForm(huh.NewGroup(fields...)).
		WithShowHelp(false).
		WithWidth(width)
	return d
}

// valueString renders a draft value for an input binding.
func valueString(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(t)
	default:
		return fmt.Sprintf("%v", t)
	}
}

// apply writes the form bindings back into the draft and validates it.
// Number fields keep their parsed value; a non-numeric entry is
// reported before anything is sent.
func (d *dialogModel) apply() error {
	kinds := make(map[string]api.FieldKind, len(d.draft.Spec().Fields))
	for _, f := range d.draft.Spec().Fields {
		kinds[f.Name] = f.Kind
	}

	for name, v := range d.strings {
		raw := strings.TrimSpace(*v)
		if kinds[name] == api.KindNumber {
			if raw == "" {
				d.draft.Set(name, "")
				continue
			}
			n, err := strconv.ParseFloat(raw, 64)
			if err != nil {
				return fmt.Errorf("%s must be a number", name)
			}
			d.draft.Set(name, n)
			continue
		}
		d.draft.Set(name, raw)
	}
	for name, v := range d.bools {
		d.draft.Set(name, *v)
	}
	for name, v := range d.files {
		if *v == "" {
			continue
		}
		if err := d.draft.AttachFile(name, *v); err != nil {
			return fmt.Errorf("attach %s: %w", name, err)
		}
	}

	return d.draft.Validate()
}

// confirmModel is a yes/no prompt, optionally with a second toggle
// (order deletion asks about restocking).
type confirmModel struct {
	form      *huh.Form
	confirmed bool
	restock   bool
}

func newConfirm(title string, withRestock bool, width int) *confirmModel {
	c := &confirmModel{}
	fields := []huh.Field{
		huh.NewConfirm().
			Key("confirm").
			Title(title).
			Affirmative("Yes").
			Negative("No").
			Value(&c.confirmed),
	}
	if withRestock {
		fields = append(fields, huh.NewConfirm().
			Key("restock").
			Title("Return items to inventory?").
			Affirmative("Yes").
			Negative("No").
			Value(&c.restock))
	}
	c.form = huh.NewForm(huh.NewGroup(fields...)).
		WithShowHelp(false).
		WithWidth(width)
	return c
}
