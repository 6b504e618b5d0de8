package email

import (
	"context"
	"encoding/base64"
	"fmt"
	"os"

	"github.com/sendgrid/rest"
	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
	"github.com/tuumbleweed/xerr"
)

// Uses SENDGRID_API_KEY.
func sendWithSendGrid(ctx context.Context, message Message) (messageID string, e *xerr.Error) {
	m := buildSendGridMail(message)

	client := sendgrid.NewSendClient(os.Getenv("SENDGRID_API_KEY"))
	response, err := client.SendWithContext(ctx, m)
	if err != nil {
		return "", xerr.NewError(err, "send email with sendgrid", message.Recipients)
	}

	return checkSendGridResponse(response)
}

func buildSendGridMail(message Message) *mail.SGMailV3 {
	m := mail.NewV3Mail()
	m.SetFrom(mail.NewEmail("", message.Sender))
	m.Subject = message.Subject

	personalization := mail.NewPersonalization()
	for _, recipient := range message.Recipients {
		personalization.AddTos(mail.NewEmail("", recipient))
	}
	m.AddPersonalizations(personalization)

	m.AddContent(mail.NewContent("text/plain", message.Text))
	if message.Html != "" {
		m.AddContent(mail.NewContent("text/html", message.Html))
	}

	for _, attachment := range message.Attachments {
		a := mail.NewAttachment()
		a.SetContent(base64.StdEncoding.EncodeToString(attachment.Data))
		a.SetType(attachment.ContentType)
		a.SetFilename(attachment.Filename)
		a.SetDisposition("attachment")
		m.AddAttachment(a)
	}

	return m
}

// SendGrid answers 202 Accepted and puts the id into X-Message-Id.
func checkSendGridResponse(response *rest.Response) (messageID string, e *xerr.Error) {
	if response == nil {
		return "", xerr.NewError(fmt.Errorf("empty response"), "send email with sendgrid", nil)
	}
	if response.StatusCode < 200 || response.StatusCode >= 300 {
		return "", xerr.NewError(
			fmt.Errorf("unexpected status %d", response.StatusCode),
			"send email with sendgrid", response.Body,
		)
	}
	if ids := response.Headers["X-Message-Id"]; len(ids) > 0 {
		messageID = ids[0]
	}
	return messageID, nil
}
