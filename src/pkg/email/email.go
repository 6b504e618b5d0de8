/*
Package email sends plain text + html messages with optional attachments
through one of the supported providers (Amazon SES, Mailgun, SendGrid).
*/
package email

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

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

var (
	ErrUnknownProvider = errors.New("unknown email provider")
	ErrNoRecipients    = errors.New("no recipients")
	ErrNoSender        = errors.New("no sender")
)

// SendTimeout bounds a single provider call.
var SendTimeout = 30 * time.Second

// Attachment is a file sent along with the message.
type Attachment struct {
	Filename    string
	ContentType string
	Data        []byte
}

// Message is what every provider receives.
type Message struct {
	Sender      string
	Recipients  []string
	Subject     string
	Text        string
	Html        string
	Attachments []Attachment
}

type sendFunc func(ctx context.Context, message Message) (messageID string, e *xerr.Error)

var providers = map[Provider]sendFunc{
	ProviderSES:      sendWithSES,
	ProviderMailgun:  sendWithMailgun,
	ProviderSendGrid: sendWithSendGrid,
}

/*
SendMessage sends one email through provider.

If sendEmails points to false nothing leaves the machine, the message is only
logged. Html may be empty, in which case only the text part is sent.
*/
func SendMessage(
	provider Provider, sendEmails *bool, sender string, recipients []string,
	subject string, text string, html string, attachments []Attachment,
) (e *xerr.Error) {
	message := Message{
		Sender:      sender,
		Recipients:  cleanRecipients(recipients),
		Subject:     subject,
		Text:        text,
		Html:        html,
		Attachments: attachments,
	}

	if message.Sender == "" {
		return xerr.NewError(ErrNoSender, "unable to send email", provider)
	}
	if len(message.Recipients) == 0 {
		return xerr.NewError(ErrNoRecipients, "unable to send email", provider)
	}

	send, ok := providers[provider]
	if !ok {
		return xerr.NewError(fmt.Errorf("%w: '%s'", ErrUnknownProvider, provider), "unable to send email", provider)
	}

	tl.Log(
		tl.Info, palette.Blue, "Sending '%s' from '%s' to '%s' via %s (%s attachments)",
		subject, sender, strings.Join(message.Recipients, ", "), provider, len(attachments),
	)

	if sendEmails != nil && !*sendEmails {
		tl.Log(tl.Notice, palette.Yellow, "%s is %s, not sending '%s'", "sendEmails", "false", subject)
		tl.Log(tl.Verbose, palette.BlueDim, "Text part:\n```\n%s\n```", text)
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), SendTimeout)
	defer cancel()

	messageID, e := send(ctx, message)
	if e != nil {
		return e
	}

	tl.Log(tl.Info1, palette.Green, "%s via %s, message id: '%s'", "Sent email", provider, messageID)
	return nil
}

func cleanRecipients(recipients []string) (cleaned []string) {
	for _, recipient := range recipients {
		recipient = strings.TrimSpace(recipient)
		if recipient != "" {
			cleaned = append(cleaned, recipient)
		}
	}
	return cleaned
}
