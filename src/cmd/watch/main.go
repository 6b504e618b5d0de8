package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"
	"time"

	tl "github.com/tuumbleweed/tintlog/logger"
	"github.com/tuumbleweed/tintlog/palette"
	"github.com/tuumbleweed/xerr"

	"digit-capture/src/pkg/app"
	"digit-capture/src/pkg/inbox"
	"digit-capture/src/pkg/manualentry"
	"digit-capture/src/pkg/scan"
	"digit-capture/src/pkg/util"
)

/*
main watches a directory and runs a capture for every new image dropped
into it, one at a time, until interrupted.

Manual entries (-manual) are re-read for every capture so edits made with
manual-entry or the HTTP intake apply to the next image.
*/
func main() {
	configPath := flag.String("config", "./cfg/config.json", "Path to your configuration file.")

	dirPath := flag.String("dir", "", "Directory to watch for new captures.")
	useManual := flag.Bool("manual", false, "Use the stored manual entries for the first 8 groups.")
	existing := flag.Bool("existing", false, "Process images already in the directory before watching.")
	settleMs := flag.Int("settle-ms", 300, "Wait this long after the last write before processing a file.")

	flag.Parse()
	util.RequiredFlag(dirPath, "dir")
	util.EnsureFlags()
	app.InitializeConfigs(*configPath)
	app.CheckRecognizerEnv()

	tl.Log(tl.Notice, palette.BlueBold, "%s entrypoint. Config path: '%s'", "Running watch", *configPath)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	state, e := app.NewState()
	e.QuitIf(xerr.ErrorTypeError)

	var store manualentry.Store
	if *useManual {
		store, e = manualentry.NewStore(manualentry.Cfg)
		e.QuitIf(xerr.ErrorTypeError)
		defer app.CloseStore(store)
	}

	process := func(path string) {
		captureState := state
		if store != nil {
			var e *xerr.Error
			captureState, e = app.WithStoredManualEntries(ctx, state, store)
			if e != nil {
				tl.Log(tl.Error, palette.RedBold, "Skipping '%s', unable to load manual entries: '%s'", path, e)
				return
			}
		}
		outcome := captureState.Process(ctx, scan.FileSource{Path: path})
		tl.Log(tl.Notice1, palette.GreenBold, "'%s': %s", path, outcome.Notice())
	}

	if *existing {
		images, e := inbox.ListImages(*dirPath)
		e.QuitIf(xerr.ErrorTypeError)
		for _, path := range images {
			process(path)
		}
	}

	e = inbox.Watch(ctx, *dirPath, time.Duration(*settleMs)*time.Millisecond, process)
	e.QuitIf(xerr.ErrorTypeError)
}
