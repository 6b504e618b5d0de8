// Debug program: run the crop and OCR steps of a capture and print what was read.
package main

import (
	"context"
	"flag"
	"fmt"
	"strings"

	tl "github.com/tuumbleweed/tintlog/logger"
	"github.com/tuumbleweed/tintlog/palette"
	"github.com/tuumbleweed/xerr"

	"digit-capture/src/pkg/app"
	"digit-capture/src/pkg/digits"
	"digit-capture/src/pkg/ocr"
	"digit-capture/src/pkg/overlay"
	"digit-capture/src/pkg/scan"
	"digit-capture/src/pkg/util"
)

/*
main recognizes one image without touching the result file.

It maps the configured overlay, crops and enhances, runs the configured
recognizer, saves the artifacts into -out and prints the raw text together
with the digit groups both extraction modes find in it. Useful for tuning
the overlay and the enhancement settings.
*/
func main() {
	configPath := flag.String("config", "./cfg/config.json", "Path to your configuration file.")

	imagePath := flag.String("image", "", "Path to the capture to recognize.")
	outputDirPath := flag.String("out", "./out/debug", "Directory where the enhanced crop and OCR text will be stored.")

	flag.Parse()
	util.RequiredFlag(imagePath, "image")
	util.EnsureFlags()
	app.InitializeConfigs(*configPath)
	app.CheckRecognizerEnv()

	tl.Log(tl.Notice, palette.BlueBold, "%s entrypoint. Config path: '%s'", "Running OCR debug", *configPath)

	ctx := context.Background()

	captured, e := scan.FileSource{Path: *imagePath}.Capture(ctx)
	e.QuitIf(xerr.ErrorTypeError)

	oriented := ocr.NormalizeOrientation(captured.Image, scan.Cfg.Preview)
	crop, e := overlay.MapToImage(scan.Cfg.Overlay, scan.Cfg.Preview, overlay.SizeOf(oriented))
	e.QuitIf(xerr.ErrorTypeError)
	tl.Log(tl.Info1, palette.Cyan, "Image '%v', crop '%s'", overlay.SizeOf(oriented), crop)

	cropped, e := ocr.CropToOverlay(oriented, crop)
	e.QuitIf(xerr.ErrorTypeError)
	enhanced := ocr.Enhance(cropped, ocr.Cfg.EnhanceOptions())

	recognizer, e := ocr.NewRecognizer(ocr.Cfg)
	e.QuitIf(xerr.ErrorTypeError)

	text, e := recognizer.Recognize(ctx, enhanced)
	e.QuitIf(xerr.ErrorTypeError)

	runDirPath, e := ocr.SaveArtifacts(*outputDirPath, captured.ID, enhanced, text)
	e.QuitIf(xerr.ErrorTypeError)

	fmt.Printf("text:  %q\n", text)
	fmt.Printf("chunk: %s\n", strings.Join(digits.Extract(text, digits.ModeChunk), " "))
	fmt.Printf("runs:  %s\n", strings.Join(digits.Extract(text, digits.ModeRuns), " "))

	tl.Log(tl.Notice1, palette.GreenBold, "%s. Results stored in '%s'", "OCR run completed", runDirPath)
}
