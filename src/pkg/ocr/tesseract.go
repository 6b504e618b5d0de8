package ocr

import (
	"bytes"
	"context"
	"fmt"
	"image"

	"github.com/disintegration/imaging"
	"github.com/otiai10/gosseract/v2"
	tl "github.com/tuumbleweed/tintlog/logger"
	"github.com/tuumbleweed/tintlog/palette"
	"github.com/tuumbleweed/xerr"
)

// Recognizer turns an image into text.
type Recognizer interface {
	Recognize(ctx context.Context, img image.Image) (string, *xerr.Error)
}

// NewRecognizer returns the engine selected by cfg.
func NewRecognizer(cfg Config) (recognizer Recognizer, e *xerr.Error) {
	switch cfg.Engine {
	case EngineTesseract, "":
		return &TesseractRecognizer{Language: cfg.Language, Whitelist: cfg.Whitelist}, nil
	case EngineOpenAI:
		return NewManagedRecognizer(cfg.Model), nil
	default:
		return nil, xerr.NewError(fmt.Errorf("unknown engine '%s'", cfg.Engine), "create recognizer", cfg.Engine)
	}
}

// TesseractRecognizer runs tesseract through gosseract on the host.
type TesseractRecognizer struct {
	Language  string
	Whitelist string
}

/*
Recognize performs a digit-biased OCR pass.

The image is handed to tesseract as PNG bytes. Characters are limited to the
whitelist and the page is treated as a single uniform block of text.
*/
func (r *TesseractRecognizer) Recognize(ctx context.Context, img image.Image) (text string, e *xerr.Error) {
	var encoded bytes.Buffer
	err := imaging.Encode(&encoded, img, imaging.PNG)
	if err != nil {
		return "", xerr.NewError(err, "encode crop as PNG for tesseract", nil)
	}

	language := r.Language
	if language == "" {
		language = "eng"
	}
	tl.Log(tl.Info1, palette.Cyan, "Running %s OCR (%s) on %s bytes", "tesseract", language, encoded.Len())

	client := gosseract.NewClient()
	defer func() {
		_ = client.Close()
	}()

	err = client.SetLanguage(language)
	if err != nil {
		return "", xerr.NewError(err, "unable to client.SetLanguage", language)
	}

	if r.Whitelist != "" {
		err = client.SetVariable("tessedit_char_whitelist", r.Whitelist)
		if err != nil {
			return "", xerr.NewError(err, "unable to whitelist characters", r.Whitelist)
		}
		err = client.SetVariable("classify_bln_numeric_mode", "1")
		if err != nil {
			return "", xerr.NewError(err, "unable to set classify_bln_numeric_mode", "1")
		}
	}

	// Match CLI: `--psm 6` (single uniform block of text).
	err = client.SetPageSegMode(gosseract.PSM_SINGLE_BLOCK)
	if err != nil {
		return "", xerr.NewError(err, "unable to client.SetPageSegMode(PSM_SINGLE_BLOCK)", nil)
	}

	err = client.SetImageFromBytes(encoded.Bytes())
	if err != nil {
		return "", xerr.NewError(err, "unable to client.SetImageFromBytes", encoded.Len())
	}

	text, err = client.Text()
	if err != nil {
		return "", xerr.NewError(err, "unable to run OCR on crop", language)
	}

	tl.Log(tl.Info1, palette.Green, "OCR completed (text length: %s)", fmt.Sprintf("%d", len(text)))
	return text, nil
}
