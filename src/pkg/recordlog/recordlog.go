/*
Package recordlog is the append-only text file that collects recognized
lines, one per successful capture.

There is no locking: writes come from one capture path at a time and every
append is a single O_APPEND write.
*/
package recordlog

import (
	"errors"
	"os"
	"path/filepath"
	"strings"

	tl "github.com/tuumbleweed/tintlog/logger"
	"github.com/tuumbleweed/tintlog/palette"
	"github.com/tuumbleweed/xerr"
)

// ErrNotFound is returned by Read when the log file does not exist yet.
var ErrNotFound = errors.New("log file not found")

// Log is an append-only text file at a fixed path.
type Log struct {
	path string
}

func New(path string) *Log {
	return &Log{path: path}
}

func (l *Log) Path() string {
	return l.path
}

// Append writes line and a newline at the end of the file, creating the
// file and its parent directories when needed.
func (l *Log) Append(line string) (e *xerr.Error) {
	e = l.ensureDirectory()
	if e != nil {
		return e
	}

	file, openErr := os.OpenFile(l.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if openErr != nil {
		return xerr.NewError(openErr, "open log file for append", l.path)
	}

	_, writeErr := file.WriteString(line + "\n")
	if writeErr != nil {
		_ = file.Close()
		return xerr.NewError(writeErr, "append line to log file", l.path)
	}

	syncErr := file.Sync()
	if syncErr != nil {
		_ = file.Close()
		return xerr.NewError(syncErr, "flush log file", l.path)
	}

	closeErr := file.Close()
	if closeErr != nil {
		return xerr.NewError(closeErr, "close log file", l.path)
	}

	tl.Log(tl.Info1, palette.Green, "Appended '%s' to '%s'", line, l.path)
	return nil
}

// Read returns the whole file as text.
func (l *Log) Read() (contents string, e *xerr.Error) {
	fileBytes, readErr := os.ReadFile(l.path)
	if readErr != nil {
		if os.IsNotExist(readErr) {
			return "", xerr.NewError(ErrNotFound, "read log file", l.path)
		}
		return "", xerr.NewError(readErr, "read log file", l.path)
	}
	return string(fileBytes), nil
}

// Lines returns the non-empty lines of the file.
func (l *Log) Lines() (lines []string, e *xerr.Error) {
	contents, e := l.Read()
	if e != nil {
		return nil, e
	}
	for _, line := range strings.Split(contents, "\n") {
		if strings.TrimSpace(line) != "" {
			lines = append(lines, line)
		}
	}
	return lines, nil
}

// Exists reports whether the log file is present.
func (l *Log) Exists() bool {
	info, statErr := os.Stat(l.path)
	return statErr == nil && !info.IsDir()
}

// Reset truncates the file to zero length, creating it if missing.
func (l *Log) Reset() (e *xerr.Error) {
	e = l.ensureDirectory()
	if e != nil {
		return e
	}

	writeErr := os.WriteFile(l.path, nil, 0o644)
	if writeErr != nil {
		return xerr.NewError(writeErr, "truncate log file", l.path)
	}

	tl.Log(tl.Notice1, palette.GreenBold, "Log file '%s' was %s", l.path, "reset")
	return nil
}

func (l *Log) ensureDirectory() (e *xerr.Error) {
	dir := filepath.Dir(l.path)
	err := os.MkdirAll(dir, 0o755)
	if err != nil {
		return xerr.NewError(err, "create log directory", dir)
	}
	return nil
}
