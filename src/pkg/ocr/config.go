package ocr

import (
	"fmt"

	tl "github.com/tuumbleweed/tintlog/logger"
	"github.com/tuumbleweed/tintlog/palette"

	"digit-capture/src/pkg/config"
	"digit-capture/src/pkg/util"
)

const (
	EngineTesseract = "tesseract"
	EngineOpenAI    = "openai"
)

// Pointer fields are tagged skip so an explicit false or 0 in the file
// survives tl.ApplyDefaults; nil means "use the default".
type Config struct {
	Engine       string   `json:"engine,omitempty"`                   // "tesseract" or "openai"
	Language     string   `json:"language,omitempty"`                 // tesseract language(s), e.g. "eng" or "eng+por"
	Whitelist    string   `json:"whitelist,omitempty"`                // tessedit_char_whitelist
	Model        string   `json:"model,omitempty"`                    // openai model
	Grayscale    *bool    `json:"grayscale,omitempty" default:"skip"` // convert before enhancing
	ChannelScale float64  `json:"channel_scale,omitempty"`            // per-channel multiplier, 1 keeps colours
	Contrast     *float64 `json:"contrast,omitempty" default:"skip"`  // imaging.AdjustContrast percentage, 0 disables
	Sharpen      *float64 `json:"sharpen,omitempty" default:"skip"`   // imaging.Sharpen sigma, 0 disables
	Threshold    int      `json:"threshold,omitempty"`                // hard black/white cut, 0 disables
}

const (
	defaultGrayscale = true
	defaultContrast  = 40.0
	defaultSharpen   = 1.0
)

func DefaultValueConfig() Config {
	return Config{
		Engine:       EngineTesseract,
		Language:     "eng",
		Whitelist:    "0123456789 ",
		Model:        "gpt-5-mini",
		Grayscale:    util.Ptr(defaultGrayscale),
		ChannelScale: 0.8,
		Contrast:     util.Ptr(defaultContrast),
		Sharpen:      util.Ptr(defaultSharpen),
		Threshold:    0,
	}
}

var Cfg Config = DefaultValueConfig()

/*
If local Config is provided - use it. Replace all missing values with default ones.

If not provided - just use defaultConfig.
*/
func InitializeConfig(localConfig *Config) {
	if localConfig == nil {
		tl.Log(tl.Info, palette.Purple, "%s config is %s, keeping %s", "ocr", "not provided", "default ocr config")
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

	tl.Log(tl.Info, palette.Green, "%s config was %s, using %s", "ocr", "provided", "local ocr config")
	tl.LogJSON(tl.Verbose, palette.CyanDim, fmt.Sprintf("%s configuration", config.GetPackageName()), Cfg)
}

// EnhanceOptions derives preprocessing options from the config.
func (c Config) EnhanceOptions() EnhanceOptions {
	return EnhanceOptions{
		Grayscale:    valueOr(c.Grayscale, defaultGrayscale),
		ChannelScale: c.ChannelScale,
		Contrast:     valueOr(c.Contrast, defaultContrast),
		Sharpen:      valueOr(c.Sharpen, defaultSharpen),
		Threshold:    uint8(min(max(c.Threshold, 0), 255)),
	}
}

func valueOr[T any](value *T, fallback T) T {
	if value == nil {
		return fallback
	}
	return *value
}
