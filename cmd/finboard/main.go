package main

import (
	"fmt"
	"os"

	"finboard/internal/cli"
	"finboard/internal/config"
	"finboard/internal/logging"
)

func main() {
	configDir := ""
	for i, arg := range os.Args {
		if arg == "--config" && i+1 < len(os.Args) {
			configDir = os.Args[i+1]
		}
	}

	cfg, err := config.Load(configDir)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	logCfg := logging.DefaultLogConfig()
	logCfg.Level = cfg.Logging.Level
	logCfg.Console = cfg.Logging.Console
	if cfg.Logging.File != "" {
		logCfg.FilePath = cfg.Logging.File
	}
	logCfg.MaxSize = cfg.Logging.MaxSizeMB
	logCfg.MaxBackups = cfg.Logging.MaxBackups
	logCfg.MaxAge = cfg.Logging.MaxAgeDays
	logger := logging.NewLoggerWithConfig(logCfg)

	rootCmd := cli.NewRootCmd(cfg, logger)
	if err := rootCmd.Execute(); err != nil {
		logger.Error().Err(err).Msg("Command failed")
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
