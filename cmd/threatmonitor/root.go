package main

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"ThreatMonitor/internal/app"
	"ThreatMonitor/internal/config"
	"ThreatMonitor/internal/logging"
)

type rootOptions struct {
	configPath string
	logLevel   string
}

func newRootCommand() *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:           "threatmonitor",
		Short:         "Threat intelligence dashboard backend",
		Long:          "Serves the threat monitoring dashboard API and queries articles, social threats and the analysis service from the command line.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().StringVar(&opts.configPath, "config", "", "path to the YAML config (default $THREAT_MONITOR_CONFIG)")
	cmd.PersistentFlags().StringVar(&opts.logLevel, "log-level", "", "override the configured log level")

	cmd.AddCommand(
		newServeCommand(opts),
		newPageCommand(opts),
		newThreatsCommand(opts),
		newAnalyzeCommand(opts),
		newScrapersCommand(opts),
		newTestAlertCommand(opts),
		newSourcesCommand(opts),
		newPollCommand(opts),
	)

	return cmd
}

// load reads the configuration and builds the logger and application.
func (o *rootOptions) load() (config.Config, *zap.Logger, *app.Application, error) {
	cfg, err := config.Load(o.configPath)
	if err != nil {
		return config.Config{}, nil, nil, err
	}
	if o.logLevel != "" {
		cfg.Logging.Level = o.logLevel
	}

	logger, err := logging.New(cfg.Logging.Level, cfg.Logging.Development)
	if err != nil {
		return config.Config{}, nil, nil, err
	}

	application, err := app.New(cfg, logger)
	if err != nil {
		_ = logger.Sync()
		return config.Config{}, nil, nil, fmt.Errorf("build application: %w", err)
	}
	return cfg, logger, application, nil
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
