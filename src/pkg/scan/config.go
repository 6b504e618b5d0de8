package scan

import (
	"fmt"

	tl "github.com/tuumbleweed/tintlog/logger"
	"github.com/tuumbleweed/tintlog/palette"

	"digit-capture/src/pkg/config"
	"digit-capture/src/pkg/digits"
	"digit-capture/src/pkg/overlay"
)

type Config struct {
	Overlay      overlay.Rect `json:"overlay,omitempty"`       // crop region in preview pixels
	Preview      overlay.Size `json:"preview,omitempty"`       // preview view size the overlay was laid out on
	LogPath      string       `json:"log_path,omitempty"`      // append-only result file
	ArtifactsDir string       `json:"artifacts_dir,omitempty"` // enhanced crops and OCR text, empty disables
	Extraction   digits.Mode  `json:"extraction,omitempty"`    // "chunk" or "runs"
}

func DefaultValueConfig() Config {
	return Config{
		// A 1080x1920 portrait preview with a wide band across the middle.
		Overlay:      overlay.Rect{Left: 40, Top: 760, Width: 1000, Height: 400},
		Preview:      overlay.Size{Width: 1080, Height: 1920},
		LogPath:      "./out/cameraocrextract/recognized_numbers.txt",
		ArtifactsDir: "./out/artifacts",
		Extraction:   digits.ModeChunk,
	}
}

var Cfg Config = DefaultValueConfig()

/*
If local Config is provided - use it. Replace all missing values with default ones.

If not provided - just use defaultConfig.
*/
func InitializeConfig(localConfig *Config) {
	if localConfig == nil {
		tl.Log(tl.Info, palette.Purple, "%s config is %s, keeping %s", "scan", "not provided", "default scan config")
		return
	}

	defaultConfig := DefaultValueConfig()
	Cfg = *localConfig

	tl.ApplyDefaults(&Cfg, defaultConfig, func(field string, defVal any) {
		tl.Log(
			tl.Info, palette.Purple,
			"%s field is %s in %s configuration. Using default value: %v",
			field, "missing", config.GetPackageName(), tl.PrettyForStderr(defVal),
		)
	})

	tl.Log(tl.Info, palette.Green, "%s config was %s, using %s", "scan", "provided", "local scan config")
	tl.LogJSON(tl.Verbose, palette.CyanDim, fmt.Sprintf("%s configuration", config.GetPackageName()), Cfg)
}
