package ocr

import (
	"bytes"
	"context"
	"errors"
	"image"
	"os"

	"github.com/disintegration/imaging"
	tl "github.com/tuumbleweed/tintlog/logger"
	"github.com/tuumbleweed/tintlog/palette"
	"github.com/tuumbleweed/xerr"

	"digit-capture/src/pkg/openai"
)

// ErrMissingAPIKey means OPENAI_API_KEY is not set.
var ErrMissingAPIKey = errors.New("OPENAI_API_KEY is not set")

const managedInstructions = `You transcribe printed payment line digits from a photo crop.`

const managedDeveloperMessage = `Return every digit visible in the image, left to right, top to bottom.
Keep the digits exactly as printed, separate printed groups with single spaces
and do not add, guess or correct digits. If nothing is legible return an empty string.
Answer in this json format: {"text": "<digits>"}`

type managedAnswer struct {
	Text string `json:"text"`
}

// ManagedRecognizer asks the OpenAI Responses API to read the crop.
type ManagedRecognizer struct {
	Model  string
	APIKey string
}

// NewManagedRecognizer reads the key from OPENAI_API_KEY.
func NewManagedRecognizer(model string) *ManagedRecognizer {
	return &ManagedRecognizer{Model: model, APIKey: os.Getenv("OPENAI_API_KEY")}
}

func (r *ManagedRecognizer) Recognize(ctx context.Context, img image.Image) (text string, e *xerr.Error) {
	if r.APIKey == "" {
		return "", xerr.NewError(ErrMissingAPIKey, "run managed OCR", r.Model)
	}

	var encoded bytes.Buffer
	err := imaging.Encode(&encoded, img, imaging.PNG)
	if err != nil {
		return "", xerr.NewError(err, "encode crop as PNG for managed OCR", nil)
	}

	tl.Log(tl.Info1, palette.Cyan, "Running %s OCR with model '%s'", "managed", r.Model)

	answer, meta, e := openai.AskAboutImage[managedAnswer](ctx, openai.ImagePrompt{
		APIKey:           r.APIKey,
		Model:            r.Model,
		Effort:           openai.EffortLow,
		Instructions:     managedInstructions,
		DeveloperMessage: managedDeveloperMessage,
		UserText:         "Read the digits in this image.",
		ImageBytes:       encoded.Bytes(),
		ImageMimeType:    "image/png",
		SchemaProperties: map[string]any{"text": map[string]any{"type": "string"}},
		MaxOutputTokens:  2048,
	})
	if e != nil {
		return "", e
	}

	tl.LogJSON(tl.Verbose, palette.CyanDim, "Managed OCR run metadata", meta)
	return answer.Text, nil
}
