/*
Package scan runs one capture end to end: acquire the image, line it up with
the overlay, crop, enhance, recognize, reconcile and append the result line.

Every dependency lives in State and is injected when the State is built, so
the pipeline never has to check whether something was initialized.
*/
package scan

import (
	"context"
	"image"

	tl "github.com/tuumbleweed/tintlog/logger"
	"github.com/tuumbleweed/tintlog/palette"
	"github.com/tuumbleweed/xerr"

	"digit-capture/src/pkg/digits"
	"digit-capture/src/pkg/manualentry"
	"digit-capture/src/pkg/ocr"
	"digit-capture/src/pkg/overlay"
	"digit-capture/src/pkg/recordlog"
)

// State is everything one capture needs.
type State struct {
	Overlay       overlay.Rect
	Preview       overlay.Size
	Recognizer    ocr.Recognizer
	Log           *recordlog.Log
	ManualEntries manualentry.Entries
	Enhance       ocr.EnhanceOptions
	Extraction    digits.Mode
	ArtifactsDir  string
}

// NewState builds a State from the scan configuration. Manual entries start
// empty; use WithManualEntries when the user typed them in.
func NewState(cfg Config, recognizer ocr.Recognizer, log *recordlog.Log, enhance ocr.EnhanceOptions) State {
	return State{
		Overlay:      cfg.Overlay,
		Preview:      cfg.Preview,
		Recognizer:   recognizer,
		Log:          log,
		Enhance:      enhance,
		Extraction:   cfg.Extraction,
		ArtifactsDir: cfg.ArtifactsDir,
	}
}

// WithManualEntries returns a copy of the state using entries for the
// leading groups.
func (s State) WithManualEntries(entries manualentry.Entries) State {
	s.ManualEntries = entries
	return s
}

// WithGeometry returns a copy of the state with another overlay and preview.
func (s State) WithGeometry(overlayRect overlay.Rect, preview overlay.Size) State {
	s.Overlay = overlayRect
	s.Preview = preview
	return s
}

// Capture starts Process in the background.
func (s State) Capture(ctx context.Context, src Source) *Task {
	return Go(ctx, func(ctx context.Context) Outcome {
		return s.Process(ctx, src)
	})
}

/*
Process runs one capture synchronously and reports it as an Outcome.

Failures before recognition are StatusCaptureFailed. Recognition, rejected
reconciliation, a cancelled ctx and a failed append are
StatusRecognizerFailed. Nothing is retried and nothing is appended unless the
line validated and ctx was still live right before the append.
*/
func (s State) Process(ctx context.Context, src Source) (outcome Outcome) {
	captured, e := src.Capture(ctx)
	if e != nil {
		return s.fail(outcome, StatusCaptureFailed, KindCaptureFailed, e)
	}
	outcome.CaptureID = captured.ID
	outcome.Source = captured.Name

	tl.Log(tl.Notice, palette.BlueBold, "%s capture '%s' from '%s'", "Processing", captured.ID, captured.Name)

	enhanced, crop, e := s.prepare(captured.Image)
	if e != nil {
		return s.fail(outcome, StatusCaptureFailed, KindCaptureFailed, e)
	}
	outcome.Crop = &crop

	text, e := s.Recognizer.Recognize(ctx, enhanced)
	if e != nil {
		s.saveArtifacts(captured.ID, enhanced, "")
		return s.fail(outcome, StatusRecognizerFailed, KindRecognitionFailed, e)
	}
	outcome.Text = text
	s.saveArtifacts(captured.ID, enhanced, text)

	reconciliation, e := digits.Reconcile(text, s.ManualEntries.Slice(), s.Extraction)
	outcome.Groups = reconciliation.Groups
	outcome.UsedManual = reconciliation.UsedManual
	outcome.Digits = reconciliation.Digits
	if e != nil {
		return s.fail(outcome, StatusRecognizerFailed, kindFromFailure(reconciliation.Failure), e)
	}

	// No append once the caller stopped waiting.
	err := ctx.Err()
	if err != nil {
		return s.fail(outcome, StatusRecognizerFailed, KindCancelled, xerr.NewError(err, "capture cancelled before append", outcome.CaptureID))
	}
	outcome.Line = reconciliation.Line

	e = s.Log.Append(reconciliation.Line)
	if e != nil {
		outcome.Line = ""
		return s.fail(outcome, StatusRecognizerFailed, KindFileIoError, e)
	}

	outcome.Status = StatusSucceeded
	outcome.Kind = KindNone
	tl.Log(tl.Notice1, palette.GreenBold, "%s: '%s'", "Final result", outcome.Line)
	return outcome
}

// prepare normalizes orientation, maps the overlay, crops and enhances.
func (s State) prepare(img image.Image) (enhanced image.Image, crop overlay.CropRect, e *xerr.Error) {
	oriented := ocr.NormalizeOrientation(img, s.Preview)

	crop, e = overlay.MapToImage(s.Overlay, s.Preview, overlay.SizeOf(oriented))
	if e != nil {
		return nil, crop, e
	}

	cropped, e := ocr.CropToOverlay(oriented, crop)
	if e != nil {
		return nil, crop, e
	}

	return ocr.Enhance(cropped, s.Enhance), crop, nil
}

func (s State) saveArtifacts(captureID string, enhanced image.Image, text string) {
	if s.ArtifactsDir == "" {
		return
	}
	_, e := ocr.SaveArtifacts(s.ArtifactsDir, captureID, enhanced, text)
	if e != nil {
		// Debug output only; the capture goes on.
		tl.Log(tl.Warning, palette.YellowDim, "Unable to save artifacts for '%s': '%s'", captureID, e)
	}
}

func (s State) fail(outcome Outcome, status Status, kind Kind, e *xerr.Error) Outcome {
	outcome.Status = status
	outcome.Kind = kind
	outcome.Err = e
	tl.Log(tl.Error, palette.RedBold, "Capture '%s' %s (%s): '%s'", outcome.CaptureID, status, kind, e)
	return outcome
}
