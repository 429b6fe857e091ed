package commands

import (
	"context"
	"errors"
	"github.com/avicd/go-kifu/ingest"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
	"net/http"
	"time"
)

var (
	scheduleNow     *bool
	scheduleMetrics *bool
)

func init() {
	scheduleNow = scheduleCmd.Flags().Bool("now", false, "Run once right away before waiting for the schedule.")
	scheduleMetrics = scheduleCmd.Flags().Bool("metrics", true, "Serve /metrics on KIFU_METRICS_ADDR.")
	rootCmd.AddCommand(scheduleCmd)
}

var scheduleCmd = &cobra.Command{
	Use:   "schedule",
	Short: "Runs the crawl on KIFU_SCHEDULE until interrupted.",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		pipeline, release, err := newPipeline(ctx, cfg)
		if err != nil {
			return err
		}
		defer release()
		sched, err := ingest.NewScheduler(pipeline, cfg.Schedule, cfg.RunTimeout)
		if err != nil {
			return err
		}

		var srv *http.Server
		if *scheduleMetrics {
			mux := http.NewServeMux()
			mux.Handle("/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))
			srv = &http.Server{Addr: cfg.MetricsAddr, Handler: mux, ReadHeaderTimeout: 10 * time.Second}
			go func() {
				log.Infof("serving metrics on %s", cfg.MetricsAddr)
				if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					log.Errorf("metrics server: %v", err)
				}
			}()
		}

		if *scheduleNow {
			sched.RunNow(ctx)
		}
		sched.Start()
		<-ctx.Done()

		log.Infof("stopping scheduler")
		stopCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if srv != nil {
			srv.Shutdown(stopCtx)
		}
		return sched.Stop(stopCtx)
	},
}
