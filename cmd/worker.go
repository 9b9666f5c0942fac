package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/frahmantamala/deptdesk/internal/cache"
	"github.com/frahmantamala/deptdesk/internal/routing"
	"github.com/frahmantamala/deptdesk/pkg/clock"
	"github.com/frahmantamala/deptdesk/pkg/logger"
	"github.com/spf13/cobra"
)

var workerCmd = &cobra.Command{
	Use:   "worker",
	Short: "Start background workers",
	Long:  `Start long running background jobs such as periodic issue auto-routing.`,
}

var autoRouteWorkerCmd = &cobra.Command{
	Use:   "autoroute",
	Short: "Periodically auto-route pending issues",
	Long:  `Run the routing engine over pending issues on a fixed interval until interrupted`,
	Run: func(cmd *cobra.Command, args []string) {
		startAutoRouteWorker()
	},
}

var (
	autoRouteInterval string
	autoRouteOnce     bool
)

func startAutoRouteWorker() {
	config, err := loadConfig(configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}
	lg := logger.LoggerWrapper()

	interval := config.Routing.AutoRouteInterval
	if autoRouteInterval != "" {
		interval, err = time.ParseDuration(autoRouteInterval)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Invalid --interval: %v\n", err)
			os.Exit(1)
		}
	}
	if interval <= 0 && !autoRouteOnce {
		fmt.Fprintln(os.Stderr, "auto-route interval must be positive")
		os.Exit(1)
	}

	db, sqlxDB, err := initDB(config.Database)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize database: %v\n", err)
		os.Exit(1)
	}
	cacheClient := cache.New(config.Cache.Addr, config.Cache.Password, config.Cache.DB, lg)

	deps, err := WireDependencies(config, db, sqlxDB, cacheClient, lg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize dependencies: %v\n", err)
		os.Exit(1)
	}
	defer deps.Close()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	scheduler := routing.NewScheduler(deps.Routing, clock.Real(), interval, lg)
	if autoRouteOnce {
		scheduler.RunOnce(ctx)
		return
	}

	lg.Info("auto-route worker is running. Press Ctrl+C to stop.", "interval", interval)
	if err := scheduler.Run(ctx); err != nil {
		lg.Error("auto-route worker stopped", "error", err)
		return
	}
	lg.Info("auto-route worker shutdown complete")
}

func init() {
	autoRouteWorkerCmd.Flags().StringVar(&autoRouteInterval, "interval", "", "Interval between runs, e.g. 1m (overrides config)")
	autoRouteWorkerCmd.Flags().BoolVar(&autoRouteOnce, "once", false, "Route pending issues once and exit")

	workerCmd.AddCommand(autoRouteWorkerCmd)

	rootCmd.AddCommand(workerCmd)
}
