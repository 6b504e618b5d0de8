package config

import (
	"os"
	"strings"

	"github.com/joho/godotenv"
	tl "github.com/tuumbleweed/tintlog/logger"
	"github.com/tuumbleweed/tintlog/palette"
)

// EnvFilePath is loaded (if present) before environment variables are checked.
var EnvFilePath = ".env"

/*
CheckIfEnvVarsPresent loads EnvFilePath into the environment (existing
variables win) and exits(1) when any of the listed variables is empty.
*/
func CheckIfEnvVarsPresent(names ...string) {
	loadEnvFile()

	missing := MissingEnvVars(names...)
	for _, name := range missing {
		tl.Log(tl.Warning, palette.YellowBold, "%s environment variable is %s", name, "required")
	}
	if len(missing) > 0 {
		os.Exit(1)
	}
}

// MissingEnvVars returns the subset of names that are unset or blank.
func MissingEnvVars(names ...string) (missing []string) {
	for _, name := range names {
		if strings.TrimSpace(os.Getenv(name)) == "" {
			missing = append(missing, name)
		}
	}
	return missing
}

func loadEnvFile() {
	if _, statErr := os.Stat(EnvFilePath); statErr != nil {
		tl.Log(tl.Verbose, palette.CyanDim, "No %s file at '%s'", "env", EnvFilePath)
		return
	}
	err := godotenv.Load(EnvFilePath)
	if err != nil {
		tl.Log(tl.Warning, palette.YellowDim, "Unable to load env file '%s': '%s'", EnvFilePath, err)
		return
	}
	tl.Log(tl.Info1, palette.Blue, "Loaded env file '%s'", EnvFilePath)
}
