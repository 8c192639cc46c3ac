package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
	"reflect"
	"sort"
	"strconv"
	"strings"
)

// previewSuffix marks client-only preview fields that must never reach
// the wire (e.g. "imageFilePreview").
const previewSuffix = "Preview"

// FilePayload is a local file selected for upload. The encoder opens and
// streams it; a nil *FilePayload in a file field means "leave the stored
// image untouched" and the field is omitted entirely.
type FilePayload struct {
	Name string // filename sent in the part header
	Path string // local path to read from
}

// NewFilePayload builds a payload for a local file path.
func NewFilePayload(path string) *FilePayload {
	return &FilePayload{Name: filepath.Base(path), Path: path}
}

// EncodeForm serializes a field map into a multipart body.
//
// Per-field rules, matching what the backend expects:
//   - nil values are skipped
//   - file fields (values of *FilePayload) are included only when a
//     payload is present, so an unset file never clears a stored URL
//   - fields with the Preview suffix are skipped
//   - slices and maps are encoded as JSON strings
//   - booleans are encoded as "true"/"false"
//   - everything else is written as its string form
func EncodeForm(fields map[string]any) (body *bytes.Buffer, contentType string, err error) {
	body = &bytes.Buffer{}
	w := multipart.NewWriter(body)

	// Deterministic part order keeps request logs and tests stable.
	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, key := range keys {
		value := fields[key]
		if value == nil {
			continue
		}
		if strings.HasSuffix(key, previewSuffix) {
			continue
		}

		switch v := value.(type) {
		case *FilePayload:
			if v == nil {
				continue
			}
			if err := writeFilePart(w, key, v); err != nil {
				return nil, "", err
			}
		case bool:
			if err := w.WriteField(key, strconv.FormatBool(v)); err != nil {
				return nil, "", err
			}
		case string:
			if err := w.WriteField(key, v); err != nil {
				return nil, "", err
			}
		default:
			encoded, err := encodeScalar(v)
			if err != nil {
				return nil, "", fmt.Errorf("encode field %q: %w", key, err)
			}
			if err := w.WriteField(key, encoded); err != nil {
				return nil, "", err
			}
		}
	}

	if err := w.Close(); err != nil {
		return nil, "", err
	}
	return body, w.FormDataContentType(), nil
}

func writeFilePart(w *multipart.Writer, key string, payload *FilePayload) error {
	f, err := os.Open(payload.Path)
	if err != nil {
		return fmt.Errorf("open upload %q: %w", payload.Path, err)
	}
	defer func() { _ = f.Close() }()

	name := payload.Name
	if name == "" {
		name = filepath.Base(payload.Path)
	}
	part, err := w.CreateFormFile(key, name)
	if err != nil {
		return err
	}
	if _, err := io.Copy(part, f); err != nil {
		return fmt.Errorf("copy upload %q: %w", payload.Path, err)
	}
	return nil
}

func encodeScalar(v any) (string, error) {
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Slice, reflect.Array, reflect.Map:
		b, err := json.Marshal(v)
		if err != nil {
			return "", err
		}
		return string(b), nil
	default:
		return fmt.Sprintf("%v", v), nil
	}
}
