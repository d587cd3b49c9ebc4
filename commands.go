package main

import (
	"context"
	"fmt"
	"net"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"reviews-dashboard/catalog"
	"reviews-dashboard/config"
	"reviews-dashboard/dashboard"
	"reviews-dashboard/metrics"
	"reviews-dashboard/models"
	"reviews-dashboard/services"
	"reviews-dashboard/snapshot"
	"reviews-dashboard/storage"
	"reviews-dashboard/utils"
)

// app carries what every command needs once flags are parsed.
type app struct {
	cfg    *config.Config
	logger *utils.Logger
}

func newRootCmd(logger *utils.Logger) *cobra.Command {
	a := &app{logger: logger}

	var reviewsPath string
	root := &cobra.Command{
		Use:           "reviews-dashboard",
		Short:         "Sentiment and topic dashboard over attraction reviews",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			a.cfg = config.Load()
			if reviewsPath != "" {
				a.cfg.ReviewsPath = reviewsPath
			}
			a.logger.SetLevel(utils.ParseLevel(a.cfg.LogLevel))
		},
	}
	root.PersistentFlags().StringVar(&reviewsPath, "reviews", "", "review file (overrides REVIEWS_PATH)")

	serve := a.serveCmd()
	root.AddCommand(serve, a.reportCmd(), a.snapshotCmd())

	// Running without a subcommand serves the dashboard.
	root.Flags().AddFlagSet(serve.Flags())
	root.RunE = serve.RunE

	return root
}

func (a *app) serveCmd() *cobra.Command {
	var port string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Compute the report and serve the dashboard",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			report, err := a.buildReport(ctx)
			if err != nil {
				return err
			}
			srv, err := dashboard.NewServer(report, a.dashboardOptions(), metrics.New(), a.logger)
			if err != nil {
				return err
			}

			if port == "" {
				port = a.cfg.Port
			}
			a.logger.Info("[serve] Dashboard listening on http://localhost:%s", port)
			return srv.ListenAndServe(ctx, ":"+port)
		},
	}
	cmd.Flags().StringVar(&port, "port", "", "HTTP port (overrides PORT)")
	return cmd
}

func (a *app) reportCmd() *cobra.Command {
	var export string
	cmd := &cobra.Command{
		Use:   "report",
		Short: "Print the report as terminal tables",
		RunE: func(cmd *cobra.Command, args []string) error {
			report, err := a.buildReport(cmd.Context())
			if err != nil {
				return err
			}
			a.insightService(nil).Print(cmd.OutOrStdout(), report)

			if export == "" {
				return nil
			}
			w, err := storage.NewCSVWriter(export)
			if err != nil {
				return err
			}
			if err := exportAggregates(w, report.Locations); err != nil {
				return err
			}
			a.logger.Info("[report] Wrote %d location aggregates to %s", len(report.Locations), export)
			return nil
		},
	}
	cmd.Flags().StringVar(&export, "export", "", "also write per-location aggregates to this CSV file")
	return cmd
}

func (a *app) snapshotCmd() *cobra.Command {
	var out string
	cmd := &cobra.Command{
		Use:   "snapshot",
		Short: "Render the dashboard in headless Chrome and save a PNG",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := context.WithCancel(cmd.Context())
			defer cancel()

			report, err := a.buildReport(ctx)
			if err != nil {
				return err
			}
			srv, err := dashboard.NewServer(report, a.dashboardOptions(), metrics.New(), a.logger)
			if err != nil {
				return err
			}

			ln, err := net.Listen("tcp", "127.0.0.1:0")
			if err != nil {
				return fmt.Errorf("snapshot: listen: %w", err)
			}
			served := make(chan error, 1)
			go func() { served <- srv.Serve(ctx, ln) }()

			if out == "" {
				out = a.cfg.SnapshotPath
			}
			capturer := snapshot.New(a.cfg.ChromeBin, a.cfg.MaxRetries, a.logger)
			captureErr := capturer.Capture(ctx, "http://"+ln.Addr().String()+"/", out)

			cancel()
			if err := <-served; err != nil && captureErr == nil {
				return err
			}
			return captureErr
		},
	}
	cmd.Flags().StringVar(&out, "out", "", "PNG output path (overrides SNAPSHOT_PATH)")
	return cmd
}

func exportAggregates(w storage.AggregateWriter, aggs []models.LocationAggregate) error {
	if err := w.WriteAggregates(aggs); err != nil {
		w.Close()
		return err
	}
	return w.Close()
}

// buildReport loads the configured source and runs the pipeline over it.
func (a *app) buildReport(ctx context.Context) (*models.Report, error) {
	cat, err := a.loadCatalog()
	if err != nil {
		return nil, err
	}

	src, err := storage.Open(ctx, a.cfg, a.logger)
	if err != nil {
		return nil, err
	}
	defer src.Close()

	raw, err := src.Load(ctx)
	if err != nil {
		return nil, err
	}
	a.logger.Info("[app] Loaded %d rows with columns %v", raw.Len(), raw.Columns)

	return a.insightService(cat).Generate(raw)
}

func (a *app) insightService(cat *catalog.Catalog) *services.InsightService {
	return services.NewInsightService(a.logger, services.InsightOptions{
		FocusSize:            a.cfg.FocusSize,
		MinTopicMentions:     a.cfg.MinTopicMentions,
		DropUnassignedTopics: a.cfg.DropUnassignedTopicRows,
		Catalog:              cat,
	})
}

func (a *app) loadCatalog() (*catalog.Catalog, error) {
	if a.cfg.TopicsPath == "" {
		return catalog.Default(), nil
	}
	cat, err := catalog.LoadFile(a.cfg.TopicsPath)
	if err != nil {
		return nil, err
	}
	a.logger.Info("[app] Loaded %d topic descriptions from %s", cat.Len(), a.cfg.TopicsPath)
	return cat, nil
}

func (a *app) dashboardOptions() dashboard.Options {
	opts := dashboard.DefaultOptions()
	opts.StylesheetURL = a.cfg.StylesheetURL
	opts.PlotlyURL = a.cfg.PlotlyURL
	opts.AllowedOrigins = a.cfg.AllowedOrigins
	return opts
}
