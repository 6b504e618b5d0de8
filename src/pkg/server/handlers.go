package server

import (
	"context"
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/andybalholm/brotli"
	"github.com/labstack/echo/v4"
	tl "github.com/tuumbleweed/tintlog/logger"
	"github.com/tuumbleweed/tintlog/palette"

	"digit-capture/src/pkg/email"
	"digit-capture/src/pkg/manualentry"
	"digit-capture/src/pkg/scan"
)

var errUploadTooLarge = errors.New("upload too large")

// CaptureResponse is the Outcome plus the message a client should show.
type CaptureResponse struct {
	scan.Outcome
	Notice string `json:"notice"`
}

func (s *Server) postCapture(c echo.Context) error {
	data, name, err := s.readUpload(c)
	if err != nil {
		if errors.Is(err, errUploadTooLarge) {
			return jsonError(c, http.StatusRequestEntityTooLarge, "image is too large")
		}
		return jsonError(c, http.StatusBadRequest, "multipart field 'image' is required")
	}

	state, err := s.requestState(c)
	if err != nil {
		return jsonError(c, http.StatusBadRequest, err.Error())
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), time.Duration(s.cfg.CaptureTimeoutMs)*time.Millisecond)
	defer cancel()

	task := state.Capture(ctx, scan.BytesSource{Name: name, Data: data})
	outcome, ok := task.Wait(ctx)
	if !ok {
		// ctx is done, so the capture can no longer append. Give it a moment
		// to report back in case it was already appending.
		graceCtx, graceCancel := context.WithTimeout(context.Background(), time.Duration(s.cfg.CancelGraceMs)*time.Millisecond)
		defer graceCancel()
		outcome, ok = task.Wait(graceCtx)
	}
	if !ok {
		tl.Log(tl.Warning, palette.Yellow, "%s waiting for capture of '%s'", "Gave up", name)
		return jsonError(c, http.StatusGatewayTimeout, "capture did not finish in time")
	}

	return c.JSON(statusFor(outcome), CaptureResponse{Outcome: outcome, Notice: outcome.Notice()})
}

func statusFor(outcome scan.Outcome) int {
	switch {
	case outcome.Status == scan.StatusSucceeded:
		return http.StatusCreated
	case outcome.Kind == scan.KindCancelled:
		return http.StatusGatewayTimeout
	case outcome.Kind == scan.KindFileIoError:
		return http.StatusInternalServerError
	case outcome.Status == scan.StatusCaptureFailed:
		return http.StatusBadRequest
	default:
		return http.StatusUnprocessableEntity
	}
}

func (s *Server) readUpload(c echo.Context) (data []byte, name string, err error) {
	header, err := c.FormFile("image")
	if err != nil {
		return nil, "", err
	}
	if s.cfg.MaxUploadBytes > 0 && header.Size > s.cfg.MaxUploadBytes {
		return nil, "", errUploadTooLarge
	}

	file, err := header.Open()
	if err != nil {
		return nil, "", err
	}
	defer file.Close()

	data, err = io.ReadAll(file)
	return data, header.Filename, err
}

// requestState applies per-request geometry and the manual flag.
func (s *Server) requestState(c echo.Context) (state scan.State, err error) {
	state = s.state

	overlayRect := state.Overlay
	preview := state.Preview
	fields := []struct {
		name   string
		target *int
	}{
		{"overlay_left", &overlayRect.Left},
		{"overlay_top", &overlayRect.Top},
		{"overlay_width", &overlayRect.Width},
		{"overlay_height", &overlayRect.Height},
		{"preview_width", &preview.Width},
		{"preview_height", &preview.Height},
	}
	for _, field := range fields {
		raw := strings.TrimSpace(c.FormValue(field.name))
		if raw == "" {
			continue
		}
		value, err := strconv.Atoi(raw)
		if err != nil {
			return state, errors.New("form field '" + field.name + "' must be an integer")
		}
		*field.target = value
	}
	state = state.WithGeometry(overlayRect, preview)

	manual, _ := strconv.ParseBool(c.FormValue("manual"))
	if manual {
		entries, e := s.store.Load(c.Request().Context())
		if e != nil {
			tl.Log(tl.Error, palette.Red, "Unable to load manual entries: '%s'", e)
			return state, errors.New("unable to load manual entries")
		}
		state = state.WithManualEntries(entries)
	}
	return state, nil
}

func (s *Server) getLog(c echo.Context) error {
	log := s.state.Log
	if !log.Exists() {
		return jsonError(c, http.StatusNotFound, email.ErrNothingToShare.Error())
	}
	contents, e := log.Read()
	if e != nil {
		tl.Log(tl.Error, palette.Red, "Unable to read '%s': '%s'", log.Path(), e)
		return jsonError(c, http.StatusInternalServerError, "unable to read result file")
	}

	if !acceptsBrotli(c.Request().Header.Get(echo.HeaderAcceptEncoding)) {
		return c.String(http.StatusOK, contents)
	}

	response := c.Response()
	response.Header().Set(echo.HeaderContentType, echo.MIMETextPlainCharsetUTF8)
	response.Header().Set(echo.HeaderContentEncoding, "br")
	response.Header().Add(echo.HeaderVary, echo.HeaderAcceptEncoding)
	response.WriteHeader(http.StatusOK)

	writer := brotli.NewWriterLevel(response, brotli.DefaultCompression)
	_, err := io.WriteString(writer, contents)
	if err != nil {
		_ = writer.Close()
		return err
	}
	return writer.Close()
}

func acceptsBrotli(acceptEncoding string) bool {
	for _, part := range strings.Split(acceptEncoding, ",") {
		coding, params, _ := strings.Cut(strings.TrimSpace(part), ";")
		if !strings.EqualFold(strings.TrimSpace(coding), "br") {
			continue
		}
		return strings.ReplaceAll(strings.TrimSpace(params), " ", "") != "q=0"
	}
	return false
}

func (s *Server) deleteLog(c echo.Context) error {
	e := s.state.Log.Reset()
	if e != nil {
		tl.Log(tl.Error, palette.Red, "Unable to reset '%s': '%s'", s.state.Log.Path(), e)
		return jsonError(c, http.StatusInternalServerError, "unable to reset result file")
	}
	tl.Log(tl.Notice, palette.Yellow, "Result file '%s' %s", s.state.Log.Path(), "reset")
	return c.NoContent(http.StatusNoContent)
}

type shareRequest struct {
	Recipients []string `json:"recipients"`
}

func (s *Server) shareLog(c echo.Context) error {
	var request shareRequest
	if c.Request().ContentLength > 0 {
		err := c.Bind(&request)
		if err != nil {
			return jsonError(c, http.StatusBadRequest, "invalid share request")
		}
	}

	if !s.state.Log.Exists() {
		return jsonError(c, http.StatusNotFound, email.ErrNothingToShare.Error())
	}

	e := email.ShareLog(s.state.Log, s.share, request.Recipients...)
	if e != nil {
		tl.Log(tl.Error, palette.Red, "Unable to share result file: '%s'", e)
		return jsonError(c, http.StatusBadGateway, "unable to send result file")
	}
	return c.JSON(http.StatusOK, map[string]string{"status": "sent"})
}

// ManualEntriesBody is the JSON shape of the manual entry routes.
type ManualEntriesBody struct {
	Groups []string `json:"groups"`
}

func (s *Server) getManualEntries(c echo.Context) error {
	entries, e := s.store.Load(c.Request().Context())
	if e != nil {
		tl.Log(tl.Error, palette.Red, "Unable to load manual entries: '%s'", e)
		return jsonError(c, http.StatusInternalServerError, "unable to load manual entries")
	}
	return c.JSON(http.StatusOK, ManualEntriesBody{Groups: entries.Slice()})
}

func (s *Server) putManualEntries(c echo.Context) error {
	var body ManualEntriesBody
	err := c.Bind(&body)
	if err != nil {
		return jsonError(c, http.StatusBadRequest, "invalid manual entries body")
	}
	if len(body.Groups) != manualentry.Count {
		return jsonError(c, http.StatusBadRequest, "exactly 8 groups are required")
	}

	entries := manualentry.FromSlice(body.Groups)
	if e := entries.Validate(); e != nil {
		return jsonError(c, http.StatusBadRequest, manualentry.ErrInvalidGroup.Error())
	}

	e := s.store.Save(c.Request().Context(), entries)
	if e != nil {
		tl.Log(tl.Error, palette.Red, "Unable to save manual entries: '%s'", e)
		return jsonError(c, http.StatusInternalServerError, "unable to save manual entries")
	}
	return c.JSON(http.StatusOK, ManualEntriesBody{Groups: entries.Slice()})
}
