package cmd

import (
	"context"
	"fmt"
	"os"
	"slices"
	"strings"
	"time"

	"github.com/frahmantamala/deptdesk/internal/cache"
	"github.com/frahmantamala/deptdesk/internal/core/events"
	"github.com/frahmantamala/deptdesk/pkg/logger"
	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

var eventCmd = &cobra.Command{
	Use:   "event",
	Short: "Domain event commands",
	Long:  `Inspect and publish domain events on the service event bus`,
}

var listEventsCmd = &cobra.Command{
	Use:   "list",
	Short: "List published event types",
	Run: func(cmd *cobra.Command, args []string) {
		for _, t := range events.All {
			fmt.Println(t)
		}
	},
}

// Publishing goes through the fully wired bus, so subscribers such as the
// analytics cache invalidation run exactly as they do in the server.
var publishEventCmd = &cobra.Command{
	Use:   "publish [event-type]",
	Short: "Publish a domain event",
	Long:  `Publish an event to the wired event bus, e.g. to drop the cached analytics summary`,
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		publishEvent(args[0])
	},
}

var eventData string

func publishEvent(eventType string) {
	if !slices.Contains(events.All, eventType) {
		fmt.Fprintf(os.Stderr, "unknown event type %q, expected one of: %s\n", eventType, strings.Join(events.All, ", "))
		os.Exit(1)
	}

	config, err := loadConfig(configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	db, sqlxDB, err := initDB(config.Database)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize database: %v\n", err)
		os.Exit(1)
	}

	lg := logger.LoggerWrapper()
	deps, err := WireDependencies(config, db, sqlxDB, cache.New(config.Cache.Addr, config.Cache.Password, config.Cache.DB, lg), lg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize dependencies: %v\n", err)
		os.Exit(1)
	}
	defer deps.Close()

	event := events.BaseEvent{
		ID:        uuid.NewString(),
		Type:      eventType,
		Timestamp: time.Now().UTC(),
		Data: map[string]interface{}{
			"message": eventData,
			"source":  "cli-command",
		},
	}

	deps.Logger.Info("publishing event", "event_type", eventType, "event_id", event.ID)
	if err := deps.Bus.PublishSync(context.Background(), event); err != nil {
		deps.Logger.Error("failed to publish event", "error", err)
		return
	}
	deps.Logger.Info("event published")
}

func init() {
	publishEventCmd.Flags().StringVar(&eventData, "data", "", "Free-form message attached to the event")

	eventCmd.AddCommand(listEventsCmd)
	eventCmd.AddCommand(publishEventCmd)

	rootCmd.AddCommand(eventCmd)
}
