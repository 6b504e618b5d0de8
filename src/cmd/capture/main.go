package main

import (
	"context"
	"flag"
	"os"

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
main captures digit groups from image files.

-image can be:
  - a single image file (.jpg/.jpeg/.png)
  - a directory containing images (.jpg/.jpeg/.png)

Every image goes through the full capture: overlay crop, enhancement, OCR,
reconciliation with manual entries (-manual) and an append to the result
file when the line validates.
*/
func main() {
	// Common flags.
	configPath := flag.String("config", "./cfg/config.json", "Path to your configuration file.")

	// Program-specific flags.
	imagePath := flag.String("image", "", "Path to a capture OR a directory with captures (.jpg/.jpeg/.png).")
	useManual := flag.Bool("manual", false, "Use the stored manual entries for the first 8 groups.")

	flag.Parse()
	util.RequiredFlag(imagePath, "image")
	util.EnsureFlags()
	app.InitializeConfigs(*configPath)
	app.CheckRecognizerEnv()

	tl.Log(tl.Notice, palette.BlueBold, "%s entrypoint. Config path: '%s'", "Running capture", *configPath)

	ctx := context.Background()

	state, e := app.NewState()
	e.QuitIf(xerr.ErrorTypeError)

	if *useManual {
		store, e := manualentry.NewStore(manualentry.Cfg)
		e.QuitIf(xerr.ErrorTypeError)
		state, e = app.WithStoredManualEntries(ctx, state, store)
		app.CloseStore(store)
		e.QuitIf(xerr.ErrorTypeError)
	}

	imagesToProcess, e := inbox.ResolveImages(*imagePath)
	e.QuitIf(xerr.ErrorTypeError)

	if len(imagesToProcess) == 0 {
		tl.Log(tl.Warning, palette.PurpleBold, "No .jpg/.jpeg/.png files found at: '%s'", *imagePath)
		os.Exit(0)
	}
	if len(imagesToProcess) > 1 {
		tl.Log(tl.Notice1, palette.GreenBold, "Found '%s' images to process", len(imagesToProcess))
	}

	savedCount := 0
	failedCount := 0
	for _, imgPath := range imagesToProcess {
		outcome := state.Process(ctx, scan.FileSource{Path: imgPath})
		if !outcome.Succeeded() {
			failedCount++
			tl.Log(tl.Warning1, palette.PurpleBold, "'%s': %s", imgPath, outcome.Notice())
			continue
		}
		savedCount++
	}

	tl.Log(
		tl.Notice, palette.GreenBold, "Done. Saved: '%s', failed: '%s'. Results in '%s'",
		savedCount, failedCount, state.Log.Path(),
	)
	if failedCount > 0 {
		os.Exit(2)
	}
}
