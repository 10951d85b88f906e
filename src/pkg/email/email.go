// Package email sends messages through one of the supported providers:
// Amazon SES, Mailgun or SendGrid. Credentials come from environment
// variables, the provider choice from configuration or flags.
package email

import (
	"fmt"

	tl "github.com/tuumbleweed/tintlog/logger"
	"github.com/tuumbleweed/tintlog/palette"
	"github.com/tuumbleweed/xerr"
)

type Provider string

const (
	ProviderSES      Provider = "ses"
	ProviderMailgun  Provider = "mailgun"
	ProviderSendGrid Provider = "sendgrid"
)

/*
SendMessage sends one email to every recipient through the chosen provider.

sendEmails is the kill switch: when nil or false the message is logged and
dropped instead of sent, so tooling can run against production config
without emailing anyone.

Attachments are supported for every provider; for SES they switch delivery
to the raw MIME API, since the simple send API cannot carry files.
*/
func SendMessage(provider Provider, sendEmails *bool, sender string, recipients []string, subject string, textBody string, htmlBody string, attachmentPaths []string) (e *xerr.Error) {
	if sendEmails == nil || !*sendEmails {
		tl.Log(
			tl.Notice, palette.YellowBold, "Email sending is %s. Would have sent '%s' from '%s' to %d recipient(s)",
			"disabled", subject, sender, len(recipients),
		)
		return nil
	}

	if len(recipients) == 0 {
		err := fmt.Errorf("no recipients provided")
		return xerr.NewError(err, "send email", subject)
	}

	tl.Log(
		tl.Info, palette.Blue, "Sending '%s' from '%s' to %d recipient(s) via '%s' with %d attachment(s)",
		subject, sender, len(recipients), provider, len(attachmentPaths),
	)

	switch provider {
	case ProviderSES:
		if len(attachmentPaths) > 0 {
			e = sendWithSESRaw(sender, recipients, subject, textBody, htmlBody, attachmentPaths)
		} else {
			e = sendWithSES(sender, recipients, subject, textBody, htmlBody)
		}
	case ProviderMailgun:
		e = sendWithMailgun(sender, recipients, subject, textBody, htmlBody, attachmentPaths)
	case ProviderSendGrid:
		e = sendWithSendGrid(sender, recipients, subject, textBody, htmlBody, attachmentPaths)
	default:
		err := fmt.Errorf("unknown email provider '%s'", provider)
		e = xerr.NewError(err, "pick email provider", string(provider))
	}

	if e == nil {
		tl.Log(tl.Info1, palette.Green, "Email '%s' was %s via '%s'", subject, "sent", provider)
	}
	return e
}
