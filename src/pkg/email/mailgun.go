package email

import (
	"context"
	"os"

	"github.com/mailgun/mailgun-go/v4"
	"github.com/tuumbleweed/xerr"
)

// Uses MAILGUN_DOMAIN and MAILGUN_API_KEY.
func sendWithMailgun(ctx context.Context, message Message) (messageID string, e *xerr.Error) {
	mg := mailgun.NewMailgun(os.Getenv("MAILGUN_DOMAIN"), os.Getenv("MAILGUN_API_KEY"))

	m := mg.NewMessage(message.Sender, message.Subject, message.Text, message.Recipients...)
	if message.Html != "" {
		m.SetHtml(message.Html)
	}
	for _, attachment := range message.Attachments {
		m.AddBufferAttachment(attachment.Filename, attachment.Data)
	}

	status, id, err := mg.Send(ctx, m)
	if err != nil {
		return "", xerr.NewError(err, "send email with mailgun", map[string]any{
			"recipients": message.Recipients, "status": status,
		})
	}

	return id, nil
}
