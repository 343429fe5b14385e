package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/wgamage/snakeid-go/cmd"
	"github.com/wgamage/snakeid-go/internal/conf"
	"github.com/wgamage/snakeid-go/internal/logging"
)

func main() {
	settings, err := conf.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading configuration: %v\n", err)
		os.Exit(1)
	}

	level := slog.LevelInfo
	if settings.Debug {
		level = slog.LevelDebug
	}
	logging.Init(logging.Options{
		Level:      level,
		FilePath:   logFilePath(settings),
		MaxSizeMB:  settings.Main.Log.MaxSize,
		MaxBackups: settings.Main.Log.MaxBackups,
		MaxAgeDays: settings.Main.Log.MaxAge,
	})
	defer func() {
		_ = logging.Close()
	}()

	rootCmd := cmd.RootCommand(settings)
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func logFilePath(settings *conf.Settings) string {
	if !settings.Main.Log.Enabled {
		return ""
	}
	return settings.Main.Log.Path
}
