// Subprograms working on the result file: show, reset and share.
package main

import (
	"flag"
	"fmt"
	"os"
	"strings"

	tl "github.com/tuumbleweed/tintlog/logger"
	"github.com/tuumbleweed/tintlog/palette"
	"github.com/tuumbleweed/xerr"

	"digit-capture/src/pkg/app"
	"digit-capture/src/pkg/digits"
	"digit-capture/src/pkg/email"
)

// Print the result file to stdout.
func show(subprogram string, flags []string) {
	subprogramCmd := flag.NewFlagSet(subprogram, flag.ExitOnError)
	configPath := subprogramCmd.String("config", "./cfg/config.json", "Path to your configuration file.")

	xerr.QuitIfError(subprogramCmd.Parse(flags), "Unable to subprogramCmd.Parse")
	app.InitializeConfigs(*configPath)

	log := app.Log()
	if !log.Exists() {
		tl.Log(tl.Warning, palette.PurpleBold, "Result file '%s' %s", log.Path(), "does not exist yet")
		os.Exit(1)
	}

	lines, e := log.Lines()
	e.QuitIf(xerr.ErrorTypeError)

	tl.Log(tl.Info, palette.Cyan, "%s '%s' (%s lines)", "Showing", log.Path(), len(lines))
	for index, line := range lines {
		// Manual groups of odd widths can still add up to 44 digits.
		if !digits.WellFormed(line) {
			tl.Log(tl.Warning, palette.Yellow, "Line %s is not grouped as 4-digit groups: '%s'", index+1, line)
		}
		fmt.Println(line)
	}
}

// Truncate the result file.
func reset(subprogram string, flags []string) {
	subprogramCmd := flag.NewFlagSet(subprogram, flag.ExitOnError)
	configPath := subprogramCmd.String("config", "./cfg/config.json", "Path to your configuration file.")

	xerr.QuitIfError(subprogramCmd.Parse(flags), "Unable to subprogramCmd.Parse")
	app.InitializeConfigs(*configPath)

	log := app.Log()
	e := log.Reset()
	e.QuitIf(xerr.ErrorTypeError)

	tl.Log(tl.Notice, palette.Yellow, "Result file '%s' %s", log.Path(), "reset")
}

/*
Email the result file as an attachment.

Provider, sender and recipients default to the email config section.
*/
func share(subprogram string, flags []string) {
	subprogramCmd := flag.NewFlagSet(subprogram, flag.ExitOnError)
	configPath := subprogramCmd.String("config", "./cfg/config.json", "Path to your configuration file.")

	provider := subprogramCmd.String("provider", "", "Provider to use when sending emails (ses, mailgun, sendgrid).")
	senderAddress := subprogramCmd.String("sender", "", "Sender's address.")
	recipientAddress := subprogramCmd.String("recipient", "", "Comma separated recipient addresses.")
	dryRun := subprogramCmd.Bool("dry-run", false, "Log the email instead of sending it.")

	xerr.QuitIfError(subprogramCmd.Parse(flags), "Unable to subprogramCmd.Parse")
	app.InitializeConfigs(*configPath)

	cfg := email.Cfg
	if *provider != "" {
		cfg.Provider = email.Provider(*provider)
	}
	if *senderAddress != "" {
		cfg.Sender = *senderAddress
	}
	if *dryRun {
		sendEmails := false
		cfg.SendEmails = &sendEmails
	}

	var recipients []string
	if *recipientAddress != "" {
		recipients = strings.Split(*recipientAddress, ",")
	}

	if cfg.SendEmails == nil || *cfg.SendEmails {
		app.CheckProviderEnv(cfg.Provider)
	}

	e := email.ShareLog(app.Log(), cfg, recipients...)
	e.QuitIf(xerr.ErrorTypeError)

	tl.Log(tl.Notice1, palette.GreenBold, "%s", "Result file shared")
}

func main() {
	if len(os.Args) < 2 {
		tl.Log(tl.Error, palette.Red, "Usage: %s", "go run src/cmd/record-log/main.go subprogram_name (show, reset, share)")
		os.Exit(1)
	}
	subprogram := os.Args[1]
	flags := os.Args[2:]

	switch subprogram {
	case "show":
		show(subprogram, flags)
	case "reset":
		reset(subprogram, flags)
	case "share":
		share(subprogram, flags)
	default:
		tl.Log(tl.Error, palette.Red, "Unknown subprogram: %s", subprogram)
		os.Exit(1)
	}
}
