// Subprograms for the eight manually entered groups: show, set, clear, reset.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"

	tl "github.com/tuumbleweed/tintlog/logger"
	"github.com/tuumbleweed/tintlog/palette"
	"github.com/tuumbleweed/xerr"

	"digit-capture/src/pkg/app"
	"digit-capture/src/pkg/manualentry"
	"digit-capture/src/pkg/util"
)

func openStore(subprogram string, flags []string, extra func(*flag.FlagSet)) manualentry.Store {
	subprogramCmd := flag.NewFlagSet(subprogram, flag.ExitOnError)
	configPath := subprogramCmd.String("config", "./cfg/config.json", "Path to your configuration file.")
	if extra != nil {
		extra(subprogramCmd)
	}

	xerr.QuitIfError(subprogramCmd.Parse(flags), "Unable to subprogramCmd.Parse")
	app.InitializeConfigs(*configPath)

	store, e := manualentry.NewStore(manualentry.Cfg)
	e.QuitIf(xerr.ErrorTypeError)
	return store
}

func show(subprogram string, flags []string) {
	store := openStore(subprogram, flags, nil)
	defer app.CloseStore(store)

	entries, e := store.Load(context.Background())
	e.QuitIf(xerr.ErrorTypeError)

	for index, group := range entries {
		fmt.Printf("%s=%s\n", manualentry.Key(index), group)
	}
}

// Store eight groups given as "1111,2222,...". Each must be four digits.
func set(subprogram string, flags []string) {
	var groups *string
	store := openStore(subprogram, flags, func(fs *flag.FlagSet) {
		groups = fs.String("groups", "", "Eight comma separated 4-digit groups.")
	})
	defer app.CloseStore(store)

	util.RequiredFlag(groups, "groups")
	util.EnsureFlags()

	values := strings.Split(*groups, ",")
	for index := range values {
		values[index] = strings.TrimSpace(values[index])
	}
	if len(values) != manualentry.Count {
		tl.Log(tl.Error, palette.Red, "Expected %s groups, got %s", manualentry.Count, len(values))
		os.Exit(1)
	}

	entries := manualentry.FromSlice(values)
	e := entries.Validate()
	e.QuitIf(xerr.ErrorTypeError)

	e = store.Save(context.Background(), entries)
	e.QuitIf(xerr.ErrorTypeError)
}

// Store empty groups so every group comes from OCR.
func clearEntries(subprogram string, flags []string) {
	store := openStore(subprogram, flags, nil)
	defer app.CloseStore(store)

	e := store.Save(context.Background(), manualentry.Entries{})
	e.QuitIf(xerr.ErrorTypeError)
	tl.Log(tl.Notice, palette.Yellow, "Manual entries %s, all groups come from %s", "cleared", "OCR")
}

// Store the configured default groups.
func reset(subprogram string, flags []string) {
	store := openStore(subprogram, flags, nil)
	defer app.CloseStore(store)

	e := store.Save(context.Background(), manualentry.Cfg.DefaultsFromConfig())
	e.QuitIf(xerr.ErrorTypeError)
	tl.Log(tl.Notice, palette.Yellow, "Manual entries %s to %s", "reset", "defaults")
}

func main() {
	if len(os.Args) < 2 {
		tl.Log(tl.Error, palette.Red, "Usage: %s", "go run src/cmd/manual-entry/main.go subprogram_name (show, set, clear, reset)")
		os.Exit(1)
	}
	subprogram := os.Args[1]
	flags := os.Args[2:]

	switch subprogram {
	case "show":
		show(subprogram, flags)
	case "set":
		set(subprogram, flags)
	case "clear":
		clearEntries(subprogram, flags)
	case "reset":
		reset(subprogram, flags)
	default:
		tl.Log(tl.Error, palette.Red, "Unknown subprogram: %s", subprogram)
		os.Exit(1)
	}
}
