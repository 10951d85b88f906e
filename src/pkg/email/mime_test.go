package email

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildRawMessageHeadersAndBodies(t *testing.T) {
	raw, e := buildRawMessage(
		"sender@example.com",
		[]string{"first@example.com", "second@example.com"},
		"Recognition results",
		"plain body",
		"<p>html body</p>",
		nil,
	)
	require.Nil(t, e)

	rendered := string(raw)
	assert.Contains(t, rendered, "From: sender@example.com")
	assert.Contains(t, rendered, "To: first@example.com, second@example.com")
	assert.Contains(t, rendered, "Subject: Recognition results")
	assert.Contains(t, rendered, "multipart/mixed")
	assert.Contains(t, rendered, "multipart/alternative")
	assert.Contains(t, rendered, "plain body")
	assert.Contains(t, rendered, "<p>html body</p>")
}

func TestBuildRawMessageEncodesAttachments(t *testing.T) {
	attachmentPath := filepath.Join(t.TempDir(), "conditioned.png")
	require.NoError(t, os.WriteFile(attachmentPath, []byte("hello"), 0o644))

	raw, e := buildRawMessage(
		"sender@example.com",
		[]string{"first@example.com"},
		"With attachment",
		"body",
		"",
		[]string{attachmentPath},
	)
	require.Nil(t, e)

	rendered := string(raw)
	assert.Contains(t, rendered, `filename="conditioned.png"`)
	assert.Contains(t, rendered, "Content-Transfer-Encoding: base64")
	assert.Contains(t, rendered, "aGVsbG8=")
	assert.Contains(t, rendered, "image/png")
}

func TestBuildRawMessageMissingAttachment(t *testing.T) {
	_, e := buildRawMessage(
		"sender@example.com",
		[]string{"first@example.com"},
		"Broken",
		"body",
		"",
		[]string{"/no/such/attachment.png"},
	)
	assert.NotNil(t, e)
}

func TestDetectMimeType(t *testing.T) {
	assert.Equal(t, "image/png", detectMimeType("a/b/c.png"))
	assert.Equal(t, "application/octet-stream", detectMimeType("a/b/c.weirdext"))
}

func TestSendMessageRespectsKillSwitch(t *testing.T) {
	e := SendMessage(ProviderMailgun, nil, "s@example.com", []string{"r@example.com"}, "subject", "text", "", nil)
	assert.Nil(t, e)

	disabled := false
	e = SendMessage(ProviderMailgun, &disabled, "s@example.com", []string{"r@example.com"}, "subject", "text", "", nil)
	assert.Nil(t, e)
}

func TestSendMessageRejectsUnknownProvider(t *testing.T) {
	enabled := true
	e := SendMessage(Provider("pigeon"), &enabled, "s@example.com", []string{"r@example.com"}, "subject", "text", "", nil)
	assert.NotNil(t, e)
}

func TestSendMessageRejectsEmptyRecipients(t *testing.T) {
	enabled := true
	e := SendMessage(ProviderMailgun, &enabled, "s@example.com", nil, "subject", "text", "", nil)
	assert.NotNil(t, e)
}
