package email

import (
	"fmt"

	tl "github.com/tuumbleweed/tintlog/logger"
	"github.com/tuumbleweed/tintlog/palette"

	"digit-capture/src/pkg/config"
	"digit-capture/src/pkg/util"
)

type Config struct {
	Provider       Provider `json:"provider,omitempty"`
	SendEmails     *bool    `json:"send_emails,omitempty" default:"skip"` // false keeps everything local (dry run), nil sends
	Sender         string   `json:"sender,omitempty"`
	Recipients     []string `json:"recipients,omitempty"`
	Subject        string   `json:"subject,omitempty"`
	Body           string   `json:"body,omitempty"`
	AttachmentName string   `json:"attachment_name,omitempty"`
}

func DefaultValueConfig() Config {
	return Config{
		Provider:       ProviderMailgun,
		SendEmails:     util.Ptr(true),
		Subject:        "Recognized Numbers File",
		Body:           "Please find the recognized numbers file attached.",
		AttachmentName: "recognized_numbers.txt",
	}
}

var Cfg Config = DefaultValueConfig()

/*
If local Config is provided - use it. Replace all missing values with default ones.

If not provided - just use defaultConfig.
*/
func InitializeConfig(localConfig *Config) {
	if localConfig == nil {
		tl.Log(tl.Info, palette.Purple, "%s config is %s, keeping %s", "email", "not provided", "default email config")
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

	tl.LogJSON(tl.Verbose, palette.CyanDim, fmt.Sprintf("%s configuration", config.GetPackageName()), Cfg)
}
