package form

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bazaaradmin/internal/api"
)

func categorySpec(t *testing.T) api.Spec {
	t.Helper()
	spec, ok := api.Lookup("categories")
	require.True(t, ok)
	return spec
}

func brandSpec(t *testing.T) api.Spec {
	t.Helper()
	spec, ok := api.Lookup("brands")
	require.True(t, ok)
	return spec
}

func writeTemp(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestNewDraftUsesTemplateDefaults(t *testing.T) {
	d := NewDraft(categorySpec(t), nil)
	assert.Equal(t, "", d.Get("name"))
	assert.Equal(t, float64(0), d.Get("order"))
	assert.Equal(t, true, d.Get("isActive"))
	assert.False(t, d.IsEdit())
}

func TestNewDraftMergesEntityOverTemplate(t *testing.T) {
	d := NewDraft(categorySpec(t), api.Entity{
		"_id":  "c9",
		"name": "X",
		// order intentionally absent: the template default must hold.
	})
	assert.True(t, d.IsEdit())
	assert.Equal(t, "c9", d.ID())
	assert.Equal(t, "X", d.Get("name"))
	assert.Equal(t, float64(0), d.Get("order"))
	assert.Equal(t, true, d.Get("isActive"))
}

func TestNewDraftEntityFalseBeatsTemplateTrue(t *testing.T) {
	d := NewDraft(categorySpec(t), api.Entity{"id": "c1", "isActive": false})
	assert.Equal(t, false, d.Get("isActive"))
}

func TestValidateRequiredField(t *testing.T) {
	d := NewDraft(categorySpec(t), nil)
	err := d.Validate()
	var vErr *ErrValidation
	require.ErrorAs(t, err, &vErr)
	assert.Equal(t, "name", vErr.Field)

	d.Set("name", "  ")
	assert.Error(t, d.Validate())

	d.Set("name", "میوه")
	assert.NoError(t, d.Validate())
}

func TestAttachFileReplacesPriorHandle(t *testing.T) {
	d := NewDraft(brandSpec(t), api.Entity{"id": "b1", "logo": "/uploads/old.png"})

	fileA := writeTemp(t, "a.png", "A")
	require.NoError(t, d.AttachFile("logoFile", fileA))
	previewA := d.Preview("logoFile")
	require.NotNil(t, previewA)
	assert.Equal(t, "", d.Get("logo"), "attaching a file clears the stored URL")
	assert.FileExists(t, previewA.Path())

	fileB := writeTemp(t, "b.png", "B")
	require.NoError(t, d.AttachFile("logoFile", fileB))
	previewB := d.Preview("logoFile")
	require.NotNil(t, previewB)
	assert.NotEqual(t, previewA.ID(), previewB.ID())

	// A's handle is gone, B's is live.
	assert.True(t, previewA.Released())
	assert.NoFileExists(t, previewA.Path())
	assert.False(t, previewB.Released())
	assert.FileExists(t, previewB.Path())

	require.NoError(t, d.Discard())
	assert.True(t, previewB.Released())
	assert.NoFileExists(t, previewB.Path())
}

func TestPreviewReleaseTwiceErrors(t *testing.T) {
	d := NewDraft(brandSpec(t), nil)
	require.NoError(t, d.AttachFile("logoFile", writeTemp(t, "a.png", "A")))
	p := d.Preview("logoFile")

	require.NoError(t, d.Discard())
	assert.Error(t, p.Release())
}

func TestClearFileReleasesAndLeavesValueEmpty(t *testing.T) {
	d := NewDraft(brandSpec(t), api.Entity{"id": "b1", "logo": "/uploads/old.png"})
	require.NoError(t, d.AttachFile("logoFile", writeTemp(t, "a.png", "A")))
	p := d.Preview("logoFile")

	require.NoError(t, d.ClearFile("logoFile"))
	assert.True(t, p.Released())
	assert.Nil(t, d.Preview("logoFile"))
	assert.Equal(t, "", d.Get("logo"))

	// Clearing with nothing attached is a no-op.
	assert.NoError(t, d.ClearFile("logoFile"))
	// Discard after an explicit clear must not release again.
	assert.NoError(t, d.Discard())
}

func TestPayloadCarriesFileAndPreviewFields(t *testing.T) {
	d := NewDraft(brandSpec(t), nil)
	d.Set("name", " برند ")
	require.NoError(t, d.AttachFile("logoFile", writeTemp(t, "logo.png", "img")))
	t.Cleanup(func() { _ = d.Discard() })

	payload := d.Payload()
	assert.Equal(t, "برند", payload["name"], "string values are trimmed")

	fp, ok := payload["logoFile"].(*api.FilePayload)
	require.True(t, ok)
	assert.Equal(t, d.Preview("logoFile").Path(), fp.Path)
	assert.Equal(t, d.Preview("logoFile").Path(), payload["logoFilePreview"])

	// End to end: the encoder ships the file part and drops the preview.
	body, contentType, err := api.EncodeForm(payload)
	require.NoError(t, err)
	assert.NotEmpty(t, contentType)
	assert.NotZero(t, body.Len())
	assert.NotContains(t, body.String(), "logoFilePreview")
}

func TestPayloadWithoutAttachmentOmitsFileField(t *testing.T) {
	d := NewDraft(brandSpec(t), api.Entity{"id": "b1", "logo": "/uploads/old.png", "name": "برند"})
	payload := d.Payload()
	_, hasFile := payload["logoFile"]
	assert.False(t, hasFile, "no attachment means the stored logo must not be overwritten")
	assert.Equal(t, "/uploads/old.png", payload["logo"])
}
