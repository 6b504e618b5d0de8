/*
Package config loads the JSON configuration file shared by every program.

The file is a single object with one key per package, for example:

	{
	  "scan":            { "log_path": "./out/recognized_numbers.txt" },
	  "ocr":             { "engine": "tesseract", "language": "eng" },
	  "manual_entry":    { "backend": "file" },
	  "email":           { "provider": "ses" },
	  "server":          { "port": 8401 }
	}

Packages own their Config types; this package only hands out raw sections.
*/
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"runtime"
	"strings"

	tl "github.com/tuumbleweed/tintlog/logger"
	"github.com/tuumbleweed/tintlog/palette"
	"github.com/tuumbleweed/xerr"
)

// Cfg holds the raw per-package sections of the loaded configuration file.
var Cfg = map[string]json.RawMessage{}

/*
InitializeConfig reads the configuration file at configPath into Cfg.

A missing file is not fatal: every package keeps its default values. A file
that exists but cannot be parsed stops the program.
*/
func InitializeConfig(configPath string) {
	fileBytes, readErr := os.ReadFile(configPath)
	if readErr != nil {
		if os.IsNotExist(readErr) {
			tl.Log(tl.Warning, palette.Purple, "Config file '%s' %s, using %s", configPath, "not found", "default values")
			Cfg = map[string]json.RawMessage{}
			return
		}
		xerr.QuitIfError(readErr, fmt.Sprintf("Unable to read config file '%s'", configPath))
	}

	e := parseConfig(fileBytes)
	e.QuitIf(xerr.ErrorTypeError)

	tl.Log(tl.Info, palette.Green, "Loaded config '%s' with %s sections", configPath, len(Cfg))
}

func parseConfig(fileBytes []byte) (e *xerr.Error) {
	sections := map[string]json.RawMessage{}
	err := json.Unmarshal(fileBytes, &sections)
	if err != nil {
		return xerr.NewError(err, "unable to parse config file", string(fileBytes))
	}
	Cfg = sections
	return nil
}

/*
Section decodes the named section into a new T.

Returns nil when the section is absent so that callers fall back to their
package defaults. A section that does not decode into T stops the program.
*/
func Section[T any](name string) *T {
	raw, found := Cfg[name]
	if !found || len(raw) == 0 || string(raw) == "null" {
		return nil
	}

	var section T
	err := json.Unmarshal(raw, &section)
	xerr.QuitIfError(err, fmt.Sprintf("Unable to decode '%s' config section", name))
	return &section
}

// GetPackageName returns the name of the package that called it.
func GetPackageName() string {
	pc, _, _, ok := runtime.Caller(1)
	if !ok {
		return "unknown"
	}
	fullName := runtime.FuncForPC(pc).Name() // e.g. digit-capture/src/pkg/echo-middleware.InitializeConfig
	lastSlash := strings.LastIndex(fullName, "/")
	name := fullName[lastSlash+1:]
	if dot := strings.Index(name, "."); dot >= 0 {
		name = name[:dot]
	}
	return name
}
