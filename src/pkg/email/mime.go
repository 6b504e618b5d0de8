package email

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"mime"
	"mime/multipart"
	"net/textproto"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/tuumbleweed/xerr"
)

// base64 bodies are wrapped at 76 characters per RFC 2045.
const base64LineLength = 76

/*
buildRawMessage renders message as a MIME document for providers that take
raw messages (SES).

Layout is multipart/mixed holding a multipart/alternative part (text, html)
followed by one base64 part per attachment.
*/
func buildRawMessage(message Message, now time.Time) (raw []byte, e *xerr.Error) {
	var buffer bytes.Buffer

	mixed := multipart.NewWriter(&buffer)

	headers := []string{
		"From: " + message.Sender,
		"To: " + strings.Join(message.Recipients, ", "),
		"Subject: " + mime.QEncoding.Encode("utf-8", message.Subject),
		"Date: " + now.Format(time.RFC1123Z),
		"Message-ID: <" + uuid.NewString() + "@digit-capture>",
		"MIME-Version: 1.0",
		"Content-Type: multipart/mixed; boundary=" + mixed.Boundary(),
	}
	buffer.WriteString(strings.Join(headers, "\r\n") + "\r\n\r\n")

	e = writeBodyPart(mixed, message)
	if e != nil {
		return nil, e
	}

	for _, attachment := range message.Attachments {
		e = writeAttachmentPart(mixed, attachment)
		if e != nil {
			return nil, e
		}
	}

	err := mixed.Close()
	if err != nil {
		return nil, xerr.NewError(err, "close multipart/mixed writer", nil)
	}

	return buffer.Bytes(), nil
}

func writeBodyPart(mixed *multipart.Writer, message Message) (e *xerr.Error) {
	var body bytes.Buffer
	alternative := multipart.NewWriter(&body)

	parts := []struct {
		contentType string
		content     string
	}{
		{"text/plain; charset=utf-8", message.Text},
		{"text/html; charset=utf-8", message.Html},
	}
	for _, part := range parts {
		if part.content == "" {
			continue
		}
		writer, err := alternative.CreatePart(textproto.MIMEHeader{
			"Content-Type":              {part.contentType},
			"Content-Transfer-Encoding": {"base64"},
		})
		if err != nil {
			return xerr.NewError(err, "create body part", part.contentType)
		}
		_, err = writer.Write(wrapBase64([]byte(part.content)))
		if err != nil {
			return xerr.NewError(err, "write body part", part.contentType)
		}
	}

	err := alternative.Close()
	if err != nil {
		return xerr.NewError(err, "close multipart/alternative writer", nil)
	}

	writer, err := mixed.CreatePart(textproto.MIMEHeader{
		"Content-Type": {"multipart/alternative; boundary=" + alternative.Boundary()},
	})
	if err != nil {
		return xerr.NewError(err, "create multipart/alternative part", nil)
	}
	_, err = writer.Write(body.Bytes())
	if err != nil {
		return xerr.NewError(err, "write multipart/alternative part", nil)
	}
	return nil
}

func writeAttachmentPart(mixed *multipart.Writer, attachment Attachment) (e *xerr.Error) {
	contentType := attachment.ContentType
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	writer, err := mixed.CreatePart(textproto.MIMEHeader{
		"Content-Type":              {fmt.Sprintf("%s; name=%q", contentType, attachment.Filename)},
		"Content-Disposition":       {fmt.Sprintf("attachment; filename=%q", attachment.Filename)},
		"Content-Transfer-Encoding": {"base64"},
	})
	if err != nil {
		return xerr.NewError(err, "create attachment part", attachment.Filename)
	}

	_, err = writer.Write(wrapBase64(attachment.Data))
	if err != nil {
		return xerr.NewError(err, "write attachment part", attachment.Filename)
	}
	return nil
}

func wrapBase64(data []byte) []byte {
	encoded := base64.StdEncoding.EncodeToString(data)
	var wrapped bytes.Buffer
	for len(encoded) > base64LineLength {
		wrapped.WriteString(encoded[:base64LineLength] + "\r\n")
		encoded = encoded[base64LineLength:]
	}
	wrapped.WriteString(encoded + "\r\n")
	return wrapped.Bytes()
}
