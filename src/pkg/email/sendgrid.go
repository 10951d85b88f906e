package email

import (
	"encoding/base64"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/sendgrid/rest"
	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"

	tl "github.com/tuumbleweed/tintlog/logger"
	"github.com/tuumbleweed/tintlog/palette"
	"github.com/tuumbleweed/xerr"
)

/*
sendWithSendGrid sends through the SendGrid API, one message per recipient
(the single-email helper builds a personalization per call). The key comes
from the SENDGRID_API_KEY environment variable.
*/
func sendWithSendGrid(sender string, recipients []string, subject string, textBody string, htmlBody string, attachmentPaths []string) (e *xerr.Error) {
	apiKey := strings.TrimSpace(os.Getenv("SENDGRID_API_KEY"))
	if apiKey == "" {
		err := fmt.Errorf("SENDGRID_API_KEY is not set")
		return xerr.NewError(err, "configure SendGrid client", subject)
	}
	client := sendgrid.NewSendClient(apiKey)

	from := mail.NewEmail("", sender)
	for _, recipientAddress := range recipients {
		to := mail.NewEmail("", recipientAddress)
		message := mail.NewSingleEmail(from, subject, to, textBody, htmlBody)

		for _, attachmentPath := range attachmentPaths {
			attachment, attachErr := buildSendGridAttachment(attachmentPath)
			if attachErr != nil {
				return attachErr
			}
			message.AddAttachment(attachment)
		}

		response, err := client.Send(message)
		if err != nil {
			return xerr.NewError(err, "send email via SendGrid", recipientAddress)
		}
		logSendGridResponse(recipientAddress, response)
	}

	return nil
}

func buildSendGridAttachment(attachmentPath string) (attachment *mail.Attachment, e *xerr.Error) {
	contentBytes, readErr := os.ReadFile(attachmentPath)
	if readErr != nil {
		return nil, xerr.NewError(readErr, "read attachment", attachmentPath)
	}

	attachment = mail.NewAttachment()
	attachment.SetContent(base64.StdEncoding.EncodeToString(contentBytes))
	attachment.SetType(detectMimeType(attachmentPath))
	attachment.SetFilename(filepath.Base(attachmentPath))
	attachment.SetDisposition("attachment")
	return attachment, nil
}

// logSendGridResponse logs the API response; SendGrid reports errors for
// accepted-but-invalid payloads only through the status code and body.
func logSendGridResponse(recipientAddress string, response *rest.Response) {
	if response == nil {
		return
	}
	if response.StatusCode >= 400 {
		tl.Log(tl.Warning, palette.YellowBold, "SendGrid returned status '%d' for '%s': %s", response.StatusCode, recipientAddress, response.Body)
		return
	}
	tl.Log(tl.Detailed, palette.GreenDim, "SendGrid accepted message for '%s' with status '%d'", recipientAddress, response.StatusCode)
}
