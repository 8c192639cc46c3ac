package form

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/google/uuid"
)

// Preview is a local, revocable handle to a file staged for upload.
// Each handle owns a private temp-dir copy of the source file; Release
// removes it. Release must be called exactly once — replacing the
// attachment, clearing it, or discarding the draft each release the
// handle they owned.
type Preview struct {
	id       string
	path     string
	released bool
}

// newPreview copies src into a private temp file and returns its handle.
func newPreview(src string) (*Preview, error) {
	in, err := os.Open(src)
	if err != nil {
		return nil, fmt.Errorf("open attachment %q: %w", src, err)
	}
	defer func() { _ = in.Close() }()

	id := uuid.NewString()
	dir := filepath.Join(os.TempDir(), "bazaaradmin-previews")
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, fmt.Errorf("create preview dir: %w", err)
	}
	dst := filepath.Join(dir, id+filepath.Ext(src))

	out, err := os.Create(dst)
	if err != nil {
		return nil, fmt.Errorf("stage attachment: %w", err)
	}
	if _, err := io.Copy(out, in); err != nil {
		_ = out.Close()
		_ = os.Remove(dst)
		return nil, fmt.Errorf("stage attachment: %w", err)
	}
	if err := out.Close(); err != nil {
		_ = os.Remove(dst)
		return nil, fmt.Errorf("stage attachment: %w", err)
	}

	return &Preview{id: id, path: dst}, nil
}

// ID identifies the handle.
func (p *Preview) ID() string { return p.id }

// Path is the staged copy's location; valid until Release.
func (p *Preview) Path() string { return p.path }

// Released reports whether the handle was already released.
func (p *Preview) Released() bool { return p.released }

// Release removes the staged copy. Releasing twice is a bug in the
// caller and returns an error.
func (p *Preview) Release() error {
	if p.released {
		return fmt.Errorf("preview %s released twice", p.id)
	}
	p.released = true
	if err := os.Remove(p.path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("release preview %s: %w", p.id, err)
	}
	return nil
}
