package main

import (
	"github.com/bsm/scf/internal/config"
	"github.com/bsm/scf/internal/logger"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var version = "0.1.0"

// app carries state shared by all subcommands.
type app struct {
	configFile string
	logLevel   string
	logFormat  string

	cfg *config.Config
	log *zap.Logger
}

func newRootCmd() *cobra.Command {
	a := new(app)

	root := &cobra.Command{
		Use:   "scf",
		Short: "Convert between CSV and the simple columnar format",
		Long: `scf stores tabular data column by column, with an inferred type and
independent compression per column. Columns can be decoded selectively.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.init(cmd)
		},
		PersistentPostRun: func(_ *cobra.Command, _ []string) {
			if a.log != nil {
				_ = a.log.Sync()
			}
		},
	}

	root.PersistentFlags().StringVar(&a.configFile, "config", "", "Path to YAML configuration file")
	root.PersistentFlags().StringVar(&a.logLevel, "log-level", "", "Log level (debug, info, warn, error)")
	root.PersistentFlags().StringVar(&a.logFormat, "log-format", "", "Log encoding (console, json)")

	root.AddCommand(
		newEncodeCmd(a),
		newDecodeCmd(a),
		newInspectCmd(a),
		newVersionCmd(),
	)
	return root
}

// init loads the configuration, applies flag overrides and builds the logger.
func (a *app) init(cmd *cobra.Command) error {
	cfg := config.Default()
	if a.configFile != "" {
		var err error
		if cfg, err = config.Load(a.configFile); err != nil {
			return err
		}
	}

	flags := cmd.Flags()
	if flags.Changed("log-level") {
		cfg.Log.Level = a.logLevel
	}
	if flags.Changed("log-format") {
		cfg.Log.Encoding = a.logFormat
	}

	log, err := logger.New(cfg.Log)
	if err != nil {
		return err
	}

	a.cfg, a.log = cfg, log
	return nil
}
