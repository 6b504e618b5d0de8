package manualentry

import (
	"fmt"

	tl "github.com/tuumbleweed/tintlog/logger"
	"github.com/tuumbleweed/tintlog/palette"

	"digit-capture/src/pkg/config"
)

const (
	BackendFile  = "file"
	BackendRedis = "redis"
)

type Config struct {
	Backend  string   `json:"backend,omitempty"`   // "file" or "redis"
	FilePath string   `json:"file_path,omitempty"` // used by the file backend
	RedisURL string   `json:"redis_url,omitempty"` // used by the redis backend
	RedisKey string   `json:"redis_key,omitempty"` // hash holding GROUP_1..GROUP_8
	Defaults []string `json:"defaults,omitempty"`  // overrides DefaultEntries
}

func DefaultValueConfig() Config {
	return Config{
		Backend:  BackendFile,
		FilePath: "./out/user-groups.json",
		RedisURL: "redis://127.0.0.1:6379/0",
		RedisKey: "digit-capture:user-groups",
		Defaults: DefaultEntries.Slice(),
	}
}

var Cfg Config = DefaultValueConfig()

/*
If local Config is provided - use it. Replace all missing values with default ones.

If not provided - just use defaultConfig.
*/
func InitializeConfig(localConfig *Config) {
	if localConfig == nil {
		tl.Log(tl.Info, palette.Purple, "%s config is %s, keeping %s", "manual-entry", "not provided", "default manual-entry config")
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

	tl.Log(tl.Info, palette.Green, "%s config was %s, using %s", "manual-entry", "provided", "local manual-entry config")
	tl.LogJSON(tl.Verbose, palette.CyanDim, fmt.Sprintf("%s configuration", config.GetPackageName()), Cfg)
}

// DefaultsFromConfig returns the configured defaults, or DefaultEntries.
func (c Config) DefaultsFromConfig() Entries {
	if len(c.Defaults) != Count {
		return DefaultEntries
	}
	return FromSlice(c.Defaults)
}
