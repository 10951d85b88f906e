package email

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"mime"
	"mime/multipart"
	"net/textproto"
	"os"
	"path/filepath"
	"strings"

	"github.com/tuumbleweed/xerr"
)

/*
buildRawMessage assembles a multipart/mixed MIME message: a
multipart/alternative part with the text and html bodies, followed by one
base64 part per attachment. This is the payload for the SES raw send API.
*/
func buildRawMessage(sender string, recipients []string, subject string, textBody string, htmlBody string, attachmentPaths []string) (raw []byte, e *xerr.Error) {
	buffer := &bytes.Buffer{}
	mixedWriter := multipart.NewWriter(buffer)

	fmt.Fprintf(buffer, "From: %s\r\n", sender)
	fmt.Fprintf(buffer, "To: %s\r\n", strings.Join(recipients, ", "))
	fmt.Fprintf(buffer, "Subject: %s\r\n", subject)
	fmt.Fprintf(buffer, "MIME-Version: 1.0\r\n")
	fmt.Fprintf(buffer, "Content-Type: multipart/mixed; boundary=%q\r\n\r\n", mixedWriter.Boundary())

	// Text and html bodies go into a nested multipart/alternative part.
	alternativeBuffer := &bytes.Buffer{}
	alternativeWriter := multipart.NewWriter(alternativeBuffer)
	writeBodyPart(alternativeWriter, "text/plain", textBody)
	if htmlBody != "" {
		writeBodyPart(alternativeWriter, "text/html", htmlBody)
	}
	_ = alternativeWriter.Close()

	alternativeHeader := textproto.MIMEHeader{}
	alternativeHeader.Set("Content-Type", fmt.Sprintf("multipart/alternative; boundary=%q", alternativeWriter.Boundary()))
	alternativePart, err := mixedWriter.CreatePart(alternativeHeader)
	if err != nil {
		return raw, xerr.NewError(err, "create alternative MIME part", subject)
	}
	_, _ = alternativePart.Write(alternativeBuffer.Bytes())

	for _, attachmentPath := range attachmentPaths {
		contentBytes, readErr := os.ReadFile(attachmentPath)
		if readErr != nil {
			return raw, xerr.NewError(readErr, "read attachment", attachmentPath)
		}

		fileName := filepath.Base(attachmentPath)
		attachmentHeader := textproto.MIMEHeader{}
		attachmentHeader.Set("Content-Type", detectMimeType(attachmentPath))
		attachmentHeader.Set("Content-Transfer-Encoding", "base64")
		attachmentHeader.Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", fileName))

		attachmentPart, partErr := mixedWriter.CreatePart(attachmentHeader)
		if partErr != nil {
			return raw, xerr.NewError(partErr, "create attachment MIME part", attachmentPath)
		}
		_, _ = attachmentPart.Write([]byte(encodeBase64Wrapped(contentBytes)))
	}

	if err = mixedWriter.Close(); err != nil {
		return raw, xerr.NewError(err, "finish MIME message", subject)
	}

	return buffer.Bytes(), nil
}

func writeBodyPart(writer *multipart.Writer, contentType string, body string) {
	header := textproto.MIMEHeader{}
	header.Set("Content-Type", contentType+"; charset=UTF-8")
	part, err := writer.CreatePart(header)
	if err != nil {
		return
	}
	_, _ = part.Write([]byte(body))
}

// detectMimeType maps the file extension to a MIME type, defaulting to
// application/octet-stream for unknown extensions.
func detectMimeType(path string) string {
	if mimeType := mime.TypeByExtension(strings.ToLower(filepath.Ext(path))); mimeType != "" {
		return mimeType
	}
	return "application/octet-stream"
}

// encodeBase64Wrapped encodes content as base64 with RFC 2045 line wrapping.
func encodeBase64Wrapped(content []byte) string {
	encoded := base64.StdEncoding.EncodeToString(content)
	const lineLength = 76
	builder := strings.Builder{}
	for start := 0; start < len(encoded); start += lineLength {
		end := start + lineLength
		if end > len(encoded) {
			end = len(encoded)
		}
		builder.WriteString(encoded[start:end])
		builder.WriteString("\r\n")
	}
	return builder.String()
}
