package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"

	tl "github.com/tuumbleweed/tintlog/logger"
	"github.com/tuumbleweed/tintlog/palette"
	"github.com/tuumbleweed/xerr"

	"digit-capture/src/pkg/app"
	"digit-capture/src/pkg/config"
	echomw "digit-capture/src/pkg/echo-middleware"
	"digit-capture/src/pkg/email"
	"digit-capture/src/pkg/manualentry"
	"digit-capture/src/pkg/server"
)

/*
main runs the HTTP intake: uploads are captured with the configured overlay,
the result file can be read, reset and emailed, and manual entries edited.
*/
func main() {
	configPath := flag.String("config", "./cfg/config.json", "Path to your configuration file.")
	port := flag.Int("port", 0, "Override the port from the server config.")

	flag.Parse()
	app.InitializeConfigs(*configPath)
	config.CheckIfEnvVarsPresent(echomw.EnvBearerToken)
	app.CheckRecognizerEnv()

	if *port != 0 {
		server.Cfg.Port = *port
	}

	tl.Log(tl.Notice, palette.BlueBold, "%s entrypoint. Config path: '%s'", "Running server", *configPath)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	state, e := app.NewState()
	e.QuitIf(xerr.ErrorTypeError)

	store, e := manualentry.NewStore(manualentry.Cfg)
	e.QuitIf(xerr.ErrorTypeError)
	defer app.CloseStore(store)

	if email.Cfg.SendEmails == nil || *email.Cfg.SendEmails {
		app.CheckProviderEnv(email.Cfg.Provider)
	}

	s := server.New(server.Cfg, state, store, email.Cfg, echomw.BearerTokenFromEnv(), echomw.NewRateLimiter(echomw.Cfg))
	e = s.Run(ctx)
	e.QuitIf(xerr.ErrorTypeError)
}
