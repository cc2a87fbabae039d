package main

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"ThreatMonitor/internal/app"
	"ThreatMonitor/internal/records"
)

// withApp loads the application, runs fn and closes it afterwards.
func withApp(opts *rootOptions, fn func(cmd *cobra.Command, application *app.Application) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, _ []string) error {
		_, _, application, err := opts.load()
		if err != nil {
			return err
		}
		return errors.Join(fn(cmd, application), application.Close())
	}
}

func newServeCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API and the polling loops",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, logger, application, err := opts.load()
			if err != nil {
				return err
			}
			logger.Info("starting threat monitor",
				zap.String("address", cfg.HTTP.Address),
				zap.Int("sources", len(cfg.Sources)))

			serveErr := application.Serve(cmd.Context())
			logger.Info("threat monitor stopped")
			return errors.Join(serveErr, application.Close())
		},
	}
}

type filterFlags struct {
	date  string
	label string
	query string
}

func (f filterFlags) criteria(parseLabel func(string) (string, error)) (records.Criteria, error) {
	date, err := records.ParseDateFilter(f.date)
	if err != nil {
		return records.Criteria{}, err
	}
	label, err := parseLabel(f.label)
	if err != nil {
		return records.Criteria{}, err
	}
	return records.Criteria{Date: date, Label: label, Query: f.query}, nil
}

func newPageCommand(opts *rootOptions) *cobra.Command {
	var flags filterFlags
	cmd := &cobra.Command{
		Use:   "page <slug>",
		Short: "Print the articles of a category, entity or source page",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := flags.criteria(records.ParseSentimentFilter)
			if err != nil {
				return err
			}
			return withApp(opts, func(cmd *cobra.Command, application *app.Application) error {
				view, err := application.Dashboard().Page(cmd.Context(), args[0], c)
				if err != nil {
					return err
				}
				return printJSON(cmd.OutOrStdout(), view)
			})(cmd, args)
		},
	}
	cmd.Flags().StringVar(&flags.date, "date", "", "date window: All, Today, Week or Month")
	cmd.Flags().StringVar(&flags.label, "sentiment", "", "sentiment: All, Positive, Negative or Neutral")
	cmd.Flags().StringVar(&flags.query, "q", "", "free-text search")
	return cmd
}

func newThreatsCommand(opts *rootOptions) *cobra.Command {
	var flags filterFlags
	cmd := &cobra.Command{
		Use:   "threats",
		Short: "Print the social threat feed",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := flags.criteria(records.ParseThreatFilter)
			if err != nil {
				return err
			}
			return withApp(opts, func(cmd *cobra.Command, application *app.Application) error {
				feed, err := application.Dashboard().Threats(cmd.Context(), c)
				if err != nil {
					return err
				}
				return printJSON(cmd.OutOrStdout(), feed)
			})(cmd, args)
		},
	}
	cmd.Flags().StringVar(&flags.date, "date", "", "date window: All, Today, Week or Month")
	cmd.Flags().StringVar(&flags.label, "level", "", "threat level, e.g. critical_threat")
	cmd.Flags().StringVar(&flags.query, "q", "", "free-text search")
	return cmd
}

func newAnalyzeCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "analyze [text...]",
		Short: "Score text with the analysis service (reads stdin when no text is given)",
		RunE: func(cmd *cobra.Command, args []string) error {
			text := strings.Join(args, " ")
			if len(args) == 0 {
				raw, err := io.ReadAll(cmd.InOrStdin())
				if err != nil {
					return fmt.Errorf("read stdin: %w", err)
				}
				text = string(raw)
			}
			return withApp(opts, func(cmd *cobra.Command, application *app.Application) error {
				result, err := application.Dashboard().Analyze(cmd.Context(), text)
				if err != nil {
					return err
				}
				return printJSON(cmd.OutOrStdout(), result)
			})(cmd, args)
		},
	}
}

func newScrapersCommand(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "scrapers",
		Short: "Control the remote scrapers",
	}
	cmd.AddCommand(
		&cobra.Command{
			Use:   "run",
			Short: "Start a scraper run",
			Args:  cobra.NoArgs,
			RunE: withApp(opts, func(cmd *cobra.Command, application *app.Application) error {
				result, err := application.Dashboard().RunScrapers(cmd.Context())
				if err != nil {
					return err
				}
				return printJSON(cmd.OutOrStdout(), result)
			}),
		},
		&cobra.Command{
			Use:   "status",
			Short: "Print the scraper status",
			Args:  cobra.NoArgs,
			RunE: withApp(opts, func(cmd *cobra.Command, application *app.Application) error {
				status, err := application.Dashboard().ScraperStatus(cmd.Context())
				if err != nil {
					return err
				}
				return printJSON(cmd.OutOrStdout(), status)
			}),
		},
	)
	return cmd
}

func newTestAlertCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "test-alert",
		Short: "Ask the analysis service to inject a test alert",
		Args:  cobra.NoArgs,
		RunE: withApp(opts, func(cmd *cobra.Command, application *app.Application) error {
			result, err := application.Dashboard().AddTestAlert(cmd.Context())
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), result)
		}),
	}
}

func newSourcesCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "sources",
		Short: "Probe every configured source once and print its health",
		Args:  cobra.NoArgs,
		RunE: withApp(opts, func(cmd *cobra.Command, application *app.Application) error {
			return printJSON(cmd.OutOrStdout(), application.ProbeSources(cmd.Context()))
		}),
	}
}

func newPollCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "poll",
		Short: "Refresh every cached snapshot once",
		Args:  cobra.NoArgs,
		RunE: withApp(opts, func(cmd *cobra.Command, application *app.Application) error {
			return application.PollOnce(cmd.Context())
		}),
	}
}
