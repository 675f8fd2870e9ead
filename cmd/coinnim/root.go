package main

import (
	"io"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/mitchelldurbincs/CoinNim/internal/config"
)

// app is the state shared by every subcommand once flags are parsed.
type app struct {
	configPath string
	logLevel   string

	logger zerolog.Logger
}

// conf returns the live configuration snapshot, which picks up reloads.
func (a *app) conf() *config.Config { return config.Get() }

func newRootCmd() *cobra.Command {
	a := &app{}

	root := &cobra.Command{
		Use:           "coinnim",
		Short:         "Play and analyse coin subtraction games",
		SilenceUsage:  true,
		SilenceErrors: false,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.init(cmd.ErrOrStderr())
		},
	}
	root.PersistentFlags().StringVar(&a.configPath, "config", "", "Path to config file")
	root.PersistentFlags().StringVar(&a.logLevel, "log-level", "", "Log level (debug, info, warn, error); empty uses the config")

	root.AddCommand(
		newPlayCmd(a),
		newArenaCmd(a),
		newAnalyzeCmd(a),
		newRestrictionsCmd(a),
		newTemplatesCmd(a),
		newConfigCmd(a),
	)
	return root
}

func (a *app) init(logOut io.Writer) error {
	if err := config.Init(a.configPath); err != nil {
		return err
	}
	if a.logLevel != "" {
		config.Set("log.level", a.logLevel)
	}
	c := config.Get()
	if err := config.Validate(c); err != nil {
		return err
	}
	a.logger = setupLogging(c, logOut)
	a.logger.Debug().Str("config_file", config.ConfigFilePath()).Msg("Configuration loaded")
	return nil
}

// watch reloads the config file while a long-running command is active.
func (a *app) watch() {
	if config.ConfigFilePath() == "" {
		return
	}
	config.WatchConfig(func() {
		a.logger.Info().Str("config_file", config.ConfigFilePath()).Msg("Configuration reloaded")
	})
}

func setupLogging(cfg *config.Config, out io.Writer) zerolog.Logger {
	var logger zerolog.Logger
	if cfg.Log.Format == "json" {
		logger = zerolog.New(out).With().Timestamp().Logger()
	} else {
		logger = zerolog.New(zerolog.ConsoleWriter{
			Out:        out,
			TimeFormat: time.RFC3339,
		}).With().Timestamp().Logger()
	}
	logger = logger.Level(cfg.LogLevel())
	log.Logger = logger
	return logger
}
