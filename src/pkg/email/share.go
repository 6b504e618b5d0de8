package email

import (
	"errors"

	tl "github.com/tuumbleweed/tintlog/logger"
	"github.com/tuumbleweed/tintlog/palette"
	"github.com/tuumbleweed/xerr"

	"digit-capture/src/pkg/recordlog"
)

// ErrNothingToShare means the result file does not exist yet.
var ErrNothingToShare = errors.New("file not found")

/*
ShareLog emails the result file as a plain text attachment using cfg.

Recipients may be overridden per call; an empty list falls back to
cfg.Recipients.
*/
func ShareLog(log *recordlog.Log, cfg Config, recipients ...string) (e *xerr.Error) {
	if !log.Exists() {
		return xerr.NewError(ErrNothingToShare, "unable to share result file", log.Path())
	}

	contents, e := log.Read()
	if e != nil {
		return e
	}

	if len(recipients) == 0 {
		recipients = cfg.Recipients
	}

	tl.Log(tl.Info1, palette.Cyan, "Sharing '%s' (%s bytes)", log.Path(), len(contents))

	attachment := Attachment{
		Filename:    cfg.AttachmentName,
		ContentType: "text/plain",
		Data:        []byte(contents),
	}
	return SendMessage(cfg.Provider, cfg.SendEmails, cfg.Sender, recipients, cfg.Subject, cfg.Body, "", []Attachment{attachment})
}
