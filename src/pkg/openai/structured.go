package openai

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"sort"

	tl "github.com/tuumbleweed/tintlog/logger"
	"github.com/tuumbleweed/tintlog/palette"
	"github.com/tuumbleweed/xerr"

	"digit-capture/src/pkg/util"
)

// ImagePrompt is a structured-output request with one image attached.
type ImagePrompt struct {
	APIKey           string
	Model            string
	Effort           Effort
	Instructions     string
	DeveloperMessage string
	UserText         string
	ImageBytes       []byte
	ImageMimeType    string
	SchemaProperties map[string]any
	MaxOutputTokens  int
}

/*
AskAboutImage sends text plus an inline image and decodes the JSON answer
into T. The answer is constrained by a strict JSON schema built from
SchemaProperties.
*/
func AskAboutImage[T any](ctx context.Context, prompt ImagePrompt) (answer T, meta RunMetadata, e *xerr.Error) {
	textOptions := TextAsJSONSchema("answer", StrictObj(prompt.SchemaProperties), true)
	userContent := []map[string]any{
		{"type": "input_text", "text": prompt.UserText},
		{"type": "input_image", "image_url": ImageDataURL(prompt.ImageMimeType, prompt.ImageBytes)},
	}

	request := Request{
		APIKey:       prompt.APIKey,
		Model:        prompt.Model,
		Instructions: prompt.Instructions,
		Input: []InputItem{
			{Role: RoleDeveloper, Content: prompt.DeveloperMessage},
			{Role: RoleUser, Content: userContent},
		},
		Text: &textOptions,
	}
	if prompt.Effort != "" {
		request.Reasoning = &Reasoning{Effort: util.Ptr(prompt.Effort)}
	}
	if prompt.MaxOutputTokens > 0 {
		request.MaxOutputTokens = util.Ptr(prompt.MaxOutputTokens)
	}

	responseText, meta, e := SendPrompt(ctx, request)
	if e != nil {
		return answer, meta, e
	}
	tl.Log(tl.Verbose, palette.Cyan, "Response text:\n```\n%s\n```", responseText)

	err := json.Unmarshal([]byte(responseText), &answer)
	if err != nil {
		return answer, meta, xerr.NewError(err, "Unable to decode structured answer", responseText)
	}
	return answer, meta, nil
}

// ImageDataURL encodes image bytes as a data URL for input_image content.
func ImageDataURL(mimeType string, data []byte) string {
	if mimeType == "" {
		mimeType = "image/png"
	}
	return fmt.Sprintf("data:%s;base64,%s", mimeType, base64.StdEncoding.EncodeToString(data))
}

func TextAsJSONSchema(name string, schema map[string]any, strict bool) TextOptions {
	return TextOptions{
		Format: TextFormat{
			Type:   "json_schema",
			Name:   name,
			Schema: schema,
			Strict: &strict,
		},
	}
}

// StrictObj builds a strict JSON Schema object: every property required,
// additionalProperties false, keys sorted for determinism.
func StrictObj(props map[string]any) map[string]any {
	if props == nil {
		props = map[string]any{}
	}
	keys := make([]string, 0, len(props))
	for k := range props {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	return map[string]any{
		"type":                 "object",
		"properties":           props,
		"additionalProperties": false,
		"required":             keys,
	}
}
