package email

import (
	"context"
	"io"
	"mime"
	"mime/multipart"
	"net/mail"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/sendgrid/rest"
	"github.com/tuumbleweed/xerr"

	"digit-capture/src/pkg/recordlog"
	"digit-capture/src/pkg/util"
)

func captureProvider(t *testing.T) *[]Message {
	t.Helper()
	var sent []Message
	original := providers[ProviderMailgun]
	providers[ProviderMailgun] = func(ctx context.Context, message Message) (string, *xerr.Error) {
		sent = append(sent, message)
		return "test-id", nil
	}
	t.Cleanup(func() { providers[ProviderMailgun] = original })
	return &sent
}

func testConfig() Config {
	cfg := DefaultValueConfig()
	cfg.Sender = "scanner@example.com"
	cfg.Recipients = []string{"office@example.com"}
	return cfg
}

func TestShareLogAttachesFile(t *testing.T) {
	sent := captureProvider(t)
	log := recordlog.New(filepath.Join(t.TempDir(), "recognized_numbers.txt"))
	if e := log.Append("1111 2222"); e != nil {
		t.Fatalf("append: %v", e)
	}

	if e := ShareLog(log, testConfig()); e != nil {
		t.Fatalf("share: %v", e)
	}
	if len(*sent) != 1 {
		t.Fatalf("sent %d messages", len(*sent))
	}
	message := (*sent)[0]
	if message.Subject != "Recognized Numbers File" || message.Text != "Please find the recognized numbers file attached." {
		t.Fatalf("unexpected message %+v", message)
	}
	if len(message.Attachments) != 1 {
		t.Fatalf("attachments = %d", len(message.Attachments))
	}
	attachment := message.Attachments[0]
	if attachment.Filename != "recognized_numbers.txt" || string(attachment.Data) != "1111 2222\n" {
		t.Fatalf("attachment = %+v", attachment)
	}
}

func TestShareLogOverridesRecipients(t *testing.T) {
	sent := captureProvider(t)
	log := recordlog.New(filepath.Join(t.TempDir(), "log.txt"))
	_ = log.Reset()

	if e := ShareLog(log, testConfig(), "someone@example.com"); e != nil {
		t.Fatalf("share: %v", e)
	}
	if got := (*sent)[0].Recipients; len(got) != 1 || got[0] != "someone@example.com" {
		t.Fatalf("recipients = %v", got)
	}
}

func TestShareLogMissingFile(t *testing.T) {
	sent := captureProvider(t)
	log := recordlog.New(filepath.Join(t.TempDir(), "missing.txt"))

	if e := ShareLog(log, testConfig()); e == nil {
		t.Fatal("expected an error for a missing file")
	}
	if len(*sent) != 0 {
		t.Fatal("nothing must be sent")
	}
}

func TestSendMessageDryRun(t *testing.T) {
	sent := captureProvider(t)
	e := SendMessage(ProviderMailgun, util.Ptr(false), "a@example.com", []string{"b@example.com"}, "s", "t", "", nil)
	if e != nil {
		t.Fatalf("dry run: %v", e)
	}
	if len(*sent) != 0 {
		t.Fatal("dry run must not send")
	}
}

func TestSendMessageRejectsBadInput(t *testing.T) {
	captureProvider(t)
	if e := SendMessage("pigeon", nil, "a@example.com", []string{"b@example.com"}, "s", "t", "", nil); e == nil {
		t.Fatal("unknown provider must fail")
	}
	if e := SendMessage(ProviderMailgun, nil, "a@example.com", []string{" ", ""}, "s", "t", "", nil); e == nil {
		t.Fatal("blank recipients must fail")
	}
	if e := SendMessage(ProviderMailgun, nil, "", []string{"b@example.com"}, "s", "t", "", nil); e == nil {
		t.Fatal("missing sender must fail")
	}
}

func TestBuildRawMessage(t *testing.T) {
	message := Message{
		Sender:     "scanner@example.com",
		Recipients: []string{"a@example.com", "b@example.com"},
		Subject:    "Recognized Numbers File",
		Text:       "plain body",
		Html:       "<p>html body</p>",
		Attachments: []Attachment{
			{Filename: "recognized_numbers.txt", ContentType: "text/plain", Data: []byte(strings.Repeat("1234 ", 40))},
		},
	}

	raw, e := buildRawMessage(message, time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC))
	if e != nil {
		t.Fatalf("build: %v", e)
	}

	parsed, err := mail.ReadMessage(strings.NewReader(string(raw)))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if parsed.Header.Get("To") != "a@example.com, b@example.com" {
		t.Fatalf("To = %q", parsed.Header.Get("To"))
	}

	mediaType, params, err := mime.ParseMediaType(parsed.Header.Get("Content-Type"))
	if err != nil || mediaType != "multipart/mixed" {
		t.Fatalf("content type = %q (%v)", mediaType, err)
	}

	reader := multipart.NewReader(parsed.Body, params["boundary"])
	var partTypes []string
	var attachmentName string
	for {
		part, err := reader.NextPart()
		if err == io.EOF {
			break
		}
		if err != nil {
			t.Fatalf("next part: %v", err)
		}
		partType, _, _ := mime.ParseMediaType(part.Header.Get("Content-Type"))
		partTypes = append(partTypes, partType)
		if part.FileName() != "" {
			attachmentName = part.FileName()
		}
	}

	if len(partTypes) != 2 || partTypes[0] != "multipart/alternative" || partTypes[1] != "text/plain" {
		t.Fatalf("parts = %v", partTypes)
	}
	if attachmentName != "recognized_numbers.txt" {
		t.Fatalf("attachment name = %q", attachmentName)
	}
}

func TestWrapBase64LineLength(t *testing.T) {
	wrapped := string(wrapBase64([]byte(strings.Repeat("x", 300))))
	for _, line := range strings.Split(strings.TrimRight(wrapped, "\r\n"), "\r\n") {
		if len(line) > base64LineLength {
			t.Fatalf("line of %d characters", len(line))
		}
	}
}

func TestBuildSendGridMail(t *testing.T) {
	m := buildSendGridMail(Message{
		Sender:      "a@example.com",
		Recipients:  []string{"b@example.com"},
		Subject:     "s",
		Text:        "t",
		Attachments: []Attachment{{Filename: "f.txt", ContentType: "text/plain", Data: []byte("abc")}},
	})
	if len(m.Personalizations) != 1 || len(m.Personalizations[0].To) != 1 {
		t.Fatalf("personalizations = %+v", m.Personalizations)
	}
	if len(m.Content) != 1 || len(m.Attachments) != 1 || m.Attachments[0].Content != "YWJj" {
		t.Fatalf("unexpected mail %+v", m)
	}
}

func TestCheckSendGridResponse(t *testing.T) {
	id, e := checkSendGridResponse(&rest.Response{StatusCode: 202, Headers: map[string][]string{"X-Message-Id": {"abc"}}})
	if e != nil || id != "abc" {
		t.Fatalf("got %q, %v", id, e)
	}
	if _, e := checkSendGridResponse(&rest.Response{StatusCode: 401, Body: "unauthorized"}); e == nil {
		t.Fatal("401 must fail")
	}
}

func TestInitializeConfigKeepsDryRun(t *testing.T) {
	saved := Cfg
	t.Cleanup(func() { Cfg = saved })

	InitializeConfig(&Config{SendEmails: util.Ptr(false), Sender: "a@example.com"})
	if Cfg.SendEmails == nil || *Cfg.SendEmails {
		t.Fatal("explicit send_emails=false must survive defaults")
	}
	if Cfg.Subject != "Recognized Numbers File" {
		t.Fatalf("subject = %q", Cfg.Subject)
	}
}
