package email

import (
	"context"

	awsv2 "github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/sesv2"
	sesv2types "github.com/aws/aws-sdk-go-v2/service/sesv2/types"
	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/session"
	sesv1 "github.com/aws/aws-sdk-go/service/ses"

	tl "github.com/tuumbleweed/tintlog/logger"
	"github.com/tuumbleweed/tintlog/palette"
	"github.com/tuumbleweed/xerr"
)

/*
sendWithSES sends through the SES v2 simple send API. Credentials and region
come from the default AWS environment (AWS_ACCESS_KEY_ID,
AWS_SECRET_ACCESS_KEY, AWS_REGION).
*/
func sendWithSES(sender string, recipients []string, subject string, textBody string, htmlBody string) (e *xerr.Error) {
	ctx := context.Background()

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx)
	if err != nil {
		return xerr.NewError(err, "load AWS configuration", "ses")
	}
	client := sesv2.NewFromConfig(awsCfg)

	body := &sesv2types.Body{
		Text: &sesv2types.Content{Data: awsv2.String(textBody)},
	}
	if htmlBody != "" {
		body.Html = &sesv2types.Content{Data: awsv2.String(htmlBody)}
	}

	output, err := client.SendEmail(ctx, &sesv2.SendEmailInput{
		FromEmailAddress: awsv2.String(sender),
		Destination:      &sesv2types.Destination{ToAddresses: recipients},
		Content: &sesv2types.EmailContent{
			Simple: &sesv2types.Message{
				Subject: &sesv2types.Content{Data: awsv2.String(subject)},
				Body:    body,
			},
		},
	})
	if err != nil {
		return xerr.NewError(err, "send email via SES", subject)
	}

	messageId := ""
	if output.MessageId != nil {
		messageId = *output.MessageId
	}
	tl.Log(tl.Detailed, palette.GreenDim, "SES accepted message, id '%s'", messageId)
	return nil
}

/*
sendWithSESRaw sends a raw MIME message through the SES v1 API, which is the
path that supports attachments.
*/
func sendWithSESRaw(sender string, recipients []string, subject string, textBody string, htmlBody string, attachmentPaths []string) (e *xerr.Error) {
	rawMessage, e := buildRawMessage(sender, recipients, subject, textBody, htmlBody, attachmentPaths)
	if e != nil {
		return e
	}

	awsSession, err := session.NewSession()
	if err != nil {
		return xerr.NewError(err, "create AWS session", "ses")
	}
	client := sesv1.New(awsSession)

	output, err := client.SendRawEmail(&sesv1.SendRawEmailInput{
		Source:       aws.String(sender),
		Destinations: aws.StringSlice(recipients),
		RawMessage:   &sesv1.RawMessage{Data: rawMessage},
	})
	if err != nil {
		return xerr.NewError(err, "send raw email via SES", subject)
	}

	tl.Log(tl.Detailed, palette.GreenDim, "SES accepted raw message, id '%s'", aws.StringValue(output.MessageId))
	return nil
}
