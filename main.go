package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/patiwat/firewatch-go/cmd"
	"github.com/patiwat/firewatch-go/internal/conf"
	"github.com/patiwat/firewatch-go/internal/logging"
)

func main() {
	settings, err := conf.Load()
	if err != nil {
		logging.Fatal("error loading configuration", "error", err)
	}

	level := slog.LevelInfo
	if settings.Debug {
		level = slog.LevelDebug
	}
	logging.Init(level)

	if settings.Main.Log.Enabled {
		fileLogger, closeLogger, err := logging.NewFileLogger(settings.Main.Log.Path, settings.Main.Name, level)
		if err != nil {
			logging.Warn("file logging disabled", "path", settings.Main.Log.Path, "error", err)
		} else {
			defer func() { _ = closeLogger() }()
			slog.SetDefault(fileLogger)
		}
	}

	rootCmd := cmd.RootCommand(settings)
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}
