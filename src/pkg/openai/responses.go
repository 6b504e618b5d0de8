package openai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	tl "github.com/tuumbleweed/tintlog/logger"
	"github.com/tuumbleweed/tintlog/palette"
	"github.com/tuumbleweed/xerr"
)

/*
A tiny REST client for the OpenAI Responses API:
- POST /v1/responses (createResponse): may return a completed or an in-progress response
- GET  /v1/responses/{id} (getResponseByID): poll status/output/usage
*/

const (
	CreateResponseTimeout = 120 * time.Second
	GetResponseTimeout    = 30 * time.Second
)

// APIURL is a variable so tests can point the client at a local server.
var APIURL = "https://api.openai.com/v1"

// PollInterval and PollTimeout control waiting for background responses.
var (
	PollInterval = 2 * time.Second
	PollTimeout  = 3 * time.Minute
)

/*
SendPrompt sends a request and returns the concatenated output text.

If the response is not completed right away it polls GET /v1/responses/{id}
every PollInterval until a terminal state or PollTimeout.
*/
func SendPrompt(ctx context.Context, request Request) (responseText string, meta RunMetadata, e *xerr.Error) {
	tl.Log(tl.Info, palette.Blue, "%s %s to %s with model '%s'", "Sending", "prompt", "OpenAI Responses API", request.Model)
	startTime := time.Now()

	initial, e := createResponse(ctx, request.APIKey, requestPayload{Request: request, Store: true, Background: true})
	if e != nil {
		return "", meta, e
	}

	final := initial
	switch initial.Status {
	case "", "completed":
	default:
		tl.Log(tl.Info, palette.Cyan, "%s current status is '%s' id - '%s' (polling every %s)...", "Waiting for completion,", initial.Status, initial.ID, PollInterval)
		final, e = waitForResponseCompletion(ctx, request.APIKey, initial.ID)
		if e != nil {
			return "", RunMetadata{ResponseID: initial.ID}, e
		}
	}

	meta = RunMetadata{
		ResponseID: final.ID,
		Model:      final.Model,
		Status:     final.Status,
		ElapsedMs:  time.Since(startTime).Milliseconds(),
	}
	if final.Usage != nil {
		meta.TokensIn = final.Usage.InputTokens
		meta.TokensOut = final.Usage.OutputTokens
		meta.TokensTotal = final.Usage.TotalTokens
		tl.Log(tl.Detailed, palette.CyanDim, "Tokens in: %v, out: %v, total: %v", meta.TokensIn, meta.TokensOut, meta.TokensTotal)
	} else {
		tl.Log(tl.Detailed, palette.PurpleDim, "Usage data is %s", "not available")
	}

	tl.Log(tl.Info1, palette.Green, "%s in %s for the response '%s'", "Response completed", time.Since(startTime), final.ID)
	return extractOutputText(&final), meta, nil
}

func createResponse(ctx context.Context, apiKey string, payload requestPayload) (response responseObject, e *xerr.Error) {
	url := APIURL + "/responses"
	tl.Log(tl.Info, palette.Blue, "%s %s to '%s'", "Creating", "response", url)

	encoded, marshalErr := json.Marshal(payload)
	if marshalErr != nil {
		return response, xerr.NewError(marshalErr, "Failed to marshal request payload", payload.Model)
	}

	ctx, cancel := context.WithTimeout(ctx, CreateResponseTimeout)
	defer cancel()

	req, newReqErr := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(encoded))
	if newReqErr != nil {
		return response, xerr.NewError(newReqErr, "Failed to create HTTP request", url)
	}
	req.Header.Set("Authorization", "Bearer "+apiKey)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept-Encoding", "br, gzip")

	return doResponseRequest(req, "POST /v1/responses")
}

func getResponseByID(ctx context.Context, apiKey, responseID string) (response responseObject, e *xerr.Error) {
	url := fmt.Sprintf("%s/responses/%s", APIURL, responseID)

	ctx, cancel := context.WithTimeout(ctx, GetResponseTimeout)
	defer cancel()

	req, newReqErr := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if newReqErr != nil {
		return response, xerr.NewError(newReqErr, "Failed to create HTTP request", map[string]any{"response_id": responseID})
	}
	req.Header.Set("Authorization", "Bearer "+apiKey)
	req.Header.Set("Accept-Encoding", "br, gzip")

	return doResponseRequest(req, "GET /v1/responses/{id}")
}

func doResponseRequest(req *http.Request, endpoint string) (response responseObject, e *xerr.Error) {
	resp, httpErr := http.DefaultClient.Do(req)
	if httpErr != nil {
		return response, xerr.NewError(httpErr, "HTTP error during "+endpoint, map[string]any{"url": req.URL.String()})
	}
	defer resp.Body.Close()

	respBody, e := GetBody(resp, req.URL.String())
	if e != nil {
		return response, e
	}
	if resp.StatusCode != http.StatusOK {
		return response, xerr.NewError(fmt.Errorf("status is '%s'", resp.Status), "API error from "+endpoint, string(respBody))
	}
	tl.Log(tl.Debug, palette.CyanDim, "openai response body: %s", string(respBody))

	decodeErr := json.Unmarshal(respBody, &response)
	if decodeErr != nil {
		return response, xerr.NewError(decodeErr, "Failed to decode response body", endpoint)
	}
	return response, nil
}

// extractOutputText collects all "output_text" fragments into a single string.
func extractOutputText(resp *responseObject) string {
	var builder strings.Builder
	for _, out := range resp.Output {
		if out.Type != "message" {
			continue
		}
		for _, c := range out.Content {
			if c.Type == "output_text" && c.Text != "" {
				builder.WriteString(c.Text)
			}
		}
	}
	return builder.String()
}

/*
waitForResponseCompletion polls until a terminal state, PollTimeout or ctx
cancellation. "failed", "cancelled" and "expired" return an error carrying
the API's error payload.
*/
func waitForResponseCompletion(ctx context.Context, apiKey, responseID string) (final responseObject, e *xerr.Error) {
	deadline := time.Now().Add(PollTimeout)
	ticker := time.NewTicker(PollInterval)
	defer ticker.Stop()

	previousStatus := ""
	for poll := 1; ; poll++ {
		select {
		case <-ctx.Done():
			return final, xerr.NewError(ctx.Err(), "response polling cancelled", responseID)
		case <-ticker.C:
		}
		if time.Now().After(deadline) {
			msg := fmt.Sprintf("Response polling timed out after %s", PollTimeout)
			tl.Log(tl.Info1, palette.Purple, "%s; last known id='%s'", msg, responseID)
			return final, xerr.NewError(fmt.Errorf("timeout"), msg, responseID)
		}

		resp, getErr := getResponseByID(ctx, apiKey, responseID)
		if getErr != nil {
			return final, getErr
		}
		final = resp

		if resp.Status != previousStatus {
			tl.Log(tl.Verbose, palette.Cyan, "Response status changed: '%s'", resp.Status)
			previousStatus = resp.Status
		}
		tl.Log(tl.Verbose, palette.Cyan, "Poll #%v: status is '%s'", poll, resp.Status)

		switch resp.Status {
		case "completed", "incomplete", "":
			return resp, nil
		case "failed", "cancelled", "expired":
			msg := fmt.Sprintf("Response ended with status '%s'", resp.Status)
			tl.Log(tl.Info1, palette.Purple, "%s id is '%s'", msg, responseID)
			return resp, xerr.NewError(fmt.Errorf("%s", resp.Status), msg, resp.Error)
		}
	}
}
