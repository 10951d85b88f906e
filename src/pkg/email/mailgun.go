package email

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/mailgun/mailgun-go/v4"

	tl "github.com/tuumbleweed/tintlog/logger"
	"github.com/tuumbleweed/tintlog/palette"
	"github.com/tuumbleweed/xerr"
)

// mailgunSendTimeout bounds a single Mailgun API call.
const mailgunSendTimeout = 30 * time.Second

/*
sendWithMailgun sends through the Mailgun API. The domain and key come from
the MAILGUN_DOMAIN and MAILGUN_API_KEY environment variables.
*/
func sendWithMailgun(sender string, recipients []string, subject string, textBody string, htmlBody string, attachmentPaths []string) (e *xerr.Error) {
	domain := strings.TrimSpace(os.Getenv("MAILGUN_DOMAIN"))
	apiKey := strings.TrimSpace(os.Getenv("MAILGUN_API_KEY"))
	if domain == "" || apiKey == "" {
		err := fmt.Errorf("MAILGUN_DOMAIN or MAILGUN_API_KEY is not set")
		return xerr.NewError(err, "configure Mailgun client", subject)
	}

	client := mailgun.NewMailgun(domain, apiKey)
	message := client.NewMessage(sender, subject, textBody, recipients...)
	if htmlBody != "" {
		message.SetHtml(htmlBody)
	}
	for _, attachmentPath := range attachmentPaths {
		message.AddAttachment(attachmentPath)
	}

	ctx, cancel := context.WithTimeout(context.Background(), mailgunSendTimeout)
	defer cancel()

	response, id, err := client.Send(ctx, message)
	if err != nil {
		return xerr.NewError(err, "send email via Mailgun", subject)
	}

	tl.Log(tl.Detailed, palette.GreenDim, "Mailgun accepted message, id '%s', response '%s'", id, response)
	return nil
}
