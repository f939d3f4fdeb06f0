package main

import (
	"github.com/spf13/cobra"
	"golang.org/x/time/rate"

	"github.com/sportsprod/erp/pkg/infrastructure/events"
	"github.com/sportsprod/erp/pkg/interfaces/cli/commands"
	"github.com/sportsprod/erp/pkg/interfaces/httpapi"
)

func newServeCmd() *cobra.Command {
	var (
		addr      string
		rps       float64
		burst     int
		alertKeep int
		eventKeep int
	)
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the calculators as a JSON API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, argv []string) error {
			app, err := newAppWithRetention(eventKeep)
			if err != nil {
				return err
			}

			alerts := events.NewAlertLog(alertKeep)
			if _, err := app.Events().Subscribe([]string{events.CACAlertRaisedEvent}, alerts); err != nil {
				return err
			}

			opts := []httpapi.Option{httpapi.WithAlertLog(alerts)}
			if rps > 0 {
				opts = append(opts, httpapi.WithRateLimit(rate.Limit(rps), burst))
			}
			if cfg.SpendFile != "" && cfg.ConversionsFile != "" {
				repo, err := commands.LoadMarketingData(cfg.SpendFile, cfg.ConversionsFile)
				if err != nil {
					return err
				}
				opts = append(opts, httpapi.WithMarketingData(repo))
			}

			if addr == "" {
				addr = cfg.HTTPAddr
			}
			server := httpapi.NewServer(app.Service(), logger, opts...)
			return server.Run(cmd.Context(), addr, cfg.ShutdownTimeout)
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "Listen address (default SPORTSPROD_HTTP_ADDR)")
	cmd.Flags().Float64Var(&rps, "rate", 20, "API requests per second, 0 disables limiting")
	cmd.Flags().IntVar(&burst, "burst", 40, "API request burst")
	cmd.Flags().IntVar(&alertKeep, "alerts", 500, "Number of CAC alerts to retain")
	cmd.Flags().IntVar(&eventKeep, "events", 10000, "Number of planning events to retain")
	return cmd
}
