// Package form owns the uncommitted draft behind one create/edit
// dialog: field values seeded from a template, file-attachment preview
// handles, and required-field validation. A draft lives only while its
// dialog is open; Discard releases every resource it acquired.
package form

import (
	"fmt"
	"strings"

	"bazaaradmin/internal/api"
)

// ErrValidation wraps client-side validation failures so callers can
// surface them as warnings instead of request errors.
type ErrValidation struct {
	Field string
	Label string
}

func (e *ErrValidation) Error() string {
	return fmt.Sprintf("field %q is required", e.Field)
}

// Draft is the client-side working copy of one entity.
type Draft struct {
	spec     api.Spec
	existing string // id of the entity being edited, "" for create
	values   map[string]any
	previews map[string]*Preview
}

// NewDraft seeds a draft for spec. With an existing entity its fields
// are merged over the empty template, so template fields the entity
// predates keep their defaults; with nil the template is used as-is.
func NewDraft(spec api.Spec, existing api.Entity) *Draft {
	values := make(map[string]any, len(spec.Fields))
	for _, f := range spec.Fields {
		if f.File {
			continue // file fields hold previews, not values
		}
		values[f.Name] = fieldDefault(f)
	}
	d := &Draft{
		spec:     spec,
		values:   values,
		previews: make(map[string]*Preview),
	}
	if existing != nil {
		d.existing = existing.ID()
		for _, f := range spec.Fields {
			if f.File {
				continue
			}
			if v, ok := existing[f.Name]; ok && v != nil {
				d.values[f.Name] = v
			}
		}
	}
	return d
}

func fieldDefault(f api.Field) any {
	if f.Default != nil {
		return f.Default
	}
	switch f.Kind {
	case api.KindNumber:
		return float64(0)
	case api.KindBool:
		return false
	default:
		return ""
	}
}

// ID returns the id of the entity being edited, or "" for a create.
func (d *Draft) ID() string { return d.existing }

// IsEdit reports whether the draft edits an existing entity.
func (d *Draft) IsEdit() bool { return d.existing != "" }

// Spec returns the resource spec the draft belongs to.
func (d *Draft) Spec() api.Spec { return d.spec }

// Get reads a field value.
func (d *Draft) Get(field string) any { return d.values[field] }

// Set writes a field value.
func (d *Draft) Set(field string, value any) { d.values[field] = value }

// Preview returns the staged attachment for a file field, if any.
func (d *Draft) Preview(field string) *Preview { return d.previews[field] }

// AttachFile stages a local file for a file field. Any prior handle for
// that field is released first, and the persisted URL value backing the
// field is cleared so the upload wins.
func (d *Draft) AttachFile(field, srcPath string) error {
	preview, err := newPreview(srcPath)
	if err != nil {
		return err
	}
	if prior, ok := d.previews[field]; ok {
		if err := prior.Release(); err != nil {
			_ = preview.Release()
			return err
		}
	}
	d.previews[field] = preview
	d.values[urlField(field)] = ""
	return nil
}

// ClearFile drops the staged attachment for a file field, releasing its
// handle. The backing URL value stays empty: the user either re-uploads
// or types a URL.
func (d *Draft) ClearFile(field string) error {
	prior, ok := d.previews[field]
	if !ok {
		return nil
	}
	delete(d.previews, field)
	d.values[urlField(field)] = ""
	return prior.Release()
}

// urlField maps "logoFile" to the persisted value field "logo".
func urlField(fileField string) string {
	return strings.TrimSuffix(fileField, "File")
}

// Validate checks required fields locally before any request is sent.
func (d *Draft) Validate() error {
	for _, f := range d.spec.Fields {
		if !f.Required {
			continue
		}
		s, _ := d.values[f.Name].(string)
		if strings.TrimSpace(s) == "" {
			return &ErrValidation{Field: f.Name, Label: f.Label}
		}
	}
	return nil
}

// Payload assembles the mutation field map: draft values, staged file
// payloads, and the preview paths under the "<field>Preview" convention
// the encoder drops before the wire.
func (d *Draft) Payload() map[string]any {
	payload := make(map[string]any, len(d.values)+2*len(d.previews))
	for k, v := range d.values {
		if s, ok := v.(string); ok {
			payload[k] = strings.TrimSpace(s)
			continue
		}
		payload[k] = v
	}
	for field, preview := range d.previews {
		payload[field] = api.NewFilePayload(preview.Path())
		payload[field+"Preview"] = preview.Path()
	}
	return payload
}

// Discard releases every preview handle the draft owns. Safe to call
// once per draft; the dialog calls it on close and on successful submit.
func (d *Draft) Discard() error {
	var firstErr error
	for field, preview := range d.previews {
		if err := preview.Release(); err != nil && firstErr == nil {
			firstErr = err
		}
		delete(d.previews, field)
	}
	return firstErr
}
