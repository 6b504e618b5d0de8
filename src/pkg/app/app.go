/*
Package app loads every package configuration and builds the long-lived
pieces the programs share: the recognizer, the result log, the manual entry
store and the scan state.
*/
package app

import (
	"context"

	tl "github.com/tuumbleweed/tintlog/logger"
	"github.com/tuumbleweed/tintlog/palette"
	"github.com/tuumbleweed/xerr"

	"digit-capture/src/pkg/config"
	echomw "digit-capture/src/pkg/echo-middleware"
	"digit-capture/src/pkg/email"
	"digit-capture/src/pkg/manualentry"
	"digit-capture/src/pkg/ocr"
	"digit-capture/src/pkg/recordlog"
	"digit-capture/src/pkg/scan"
	"digit-capture/src/pkg/server"
)

// InitializeConfigs reads configPath and initializes every package section.
func InitializeConfigs(configPath string) {
	config.InitializeConfig(configPath)

	scan.InitializeConfig(config.Section[scan.Config]("scan"))
	ocr.InitializeConfig(config.Section[ocr.Config]("ocr"))
	manualentry.InitializeConfig(config.Section[manualentry.Config]("manual_entry"))
	email.InitializeConfig(config.Section[email.Config]("email"))
	echomw.InitializeConfig(config.Section[echomw.Config]("echo_middleware"))
	server.InitializeConfig(config.Section[server.Config]("server"))
}

// CheckRecognizerEnv exits when the configured engine needs credentials that
// are not set.
func CheckRecognizerEnv() {
	if ocr.Cfg.Engine == ocr.EngineOpenAI {
		config.CheckIfEnvVarsPresent("OPENAI_API_KEY")
	}
}

// CheckProviderEnv exits when the credentials of provider are not set.
func CheckProviderEnv(provider email.Provider) {
	switch provider {
	case email.ProviderSES:
		config.CheckIfEnvVarsPresent("AWS_ACCESS_KEY_ID", "AWS_SECRET_ACCESS_KEY", "AWS_REGION")
	case email.ProviderMailgun:
		config.CheckIfEnvVarsPresent("MAILGUN_DOMAIN", "MAILGUN_API_KEY")
	case email.ProviderSendGrid:
		config.CheckIfEnvVarsPresent("SENDGRID_API_KEY")
	}
}

// Log opens the configured result file.
func Log() *recordlog.Log {
	return recordlog.New(scan.Cfg.LogPath)
}

// NewState builds the scan state from the initialized configs.
func NewState() (state scan.State, e *xerr.Error) {
	recognizer, e := ocr.NewRecognizer(ocr.Cfg)
	if e != nil {
		return state, e
	}

	state = scan.NewState(scan.Cfg, recognizer, Log(), ocr.Cfg.EnhanceOptions())
	tl.Log(
		tl.Info1, palette.Cyan, "Scan state: engine '%s', overlay '%v' on preview '%v', log '%s'",
		ocr.Cfg.Engine, state.Overlay, state.Preview, state.Log.Path(),
	)
	return state, nil
}

// WithStoredManualEntries loads the manual entries into state.
func WithStoredManualEntries(ctx context.Context, state scan.State, store manualentry.Store) (scan.State, *xerr.Error) {
	entries, e := store.Load(ctx)
	if e != nil {
		return state, e
	}
	if entries.AllEmpty() {
		tl.Log(tl.Info1, palette.Purple, "%s are empty, all groups come from %s", "Manual entries", "OCR")
	}
	return state.WithManualEntries(entries), nil
}

// CloseStore releases the store connection, if it holds one.
func CloseStore(store manualentry.Store) {
	closer, ok := store.(interface{ Close() error })
	if !ok {
		return
	}
	err := closer.Close()
	if err != nil {
		tl.Log(tl.Warning, palette.Yellow, "Unable to close manual entry store: '%s'", err)
	}
}
