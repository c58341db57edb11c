package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/frahmantamala/timesheet/internal/core/clock"
	"github.com/frahmantamala/timesheet/internal/core/events"
	"github.com/frahmantamala/timesheet/internal/notify"
	"github.com/frahmantamala/timesheet/pkg/logger"
	"github.com/spf13/cobra"
)

var eventCmd = &cobra.Command{
	Use:   "event",
	Short: "Event bus debugging commands",
}

var publishEventCmd = &cobra.Command{
	Use:   "publish [event-type]",
	Short: "Publish a sample event",
	Long:  `Publish a sample report.submitted or reports.purged event and print what the admin fan-out would send`,
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return publishSampleEvent(args[0])
	},
}

var (
	eventUserID  int64
	eventComment string
)

func sampleEvent(eventType string) (events.Event, error) {
	switch eventType {
	case events.EventTypeReportSubmitted:
		items := []events.SubmittedItem{{Project: "РС", Hours: 6}, {Project: "КП", Hours: 2}}
		today := clock.Today(clock.NewSystem(time.Local))
		return events.NewReportSubmittedEvent(eventUserID, "cli", items, eventComment, today), nil
	case events.EventTypeReportsPurged:
		return events.NewReportsPurgedEvent(eventUserID, 0), nil
	default:
		return nil, fmt.Errorf("unknown event type %q, expected %s or %s",
			eventType, events.EventTypeReportSubmitted, events.EventTypeReportsPurged)
	}
}

func publishSampleEvent(eventType string) error {
	lg := logger.LoggerWrapper()
	event, err := sampleEvent(eventType)
	if err != nil {
		return err
	}

	bus := events.NewEventBus(lg)
	bus.Subscribe(eventType, func(ctx context.Context, e events.Event) error {
		lg.Info("handler received event",
			"event_id", e.EventID(),
			"event_type", e.EventType(),
			"payload", e.Payload())
		if submitted, ok := e.(*events.ReportSubmittedEvent); ok {
			fmt.Println(notify.FormatSubmission(submitted))
		}
		return nil
	})

	lg.Info("publishing event", "event_type", eventType, "event_id", event.EventID())
	return bus.PublishSync(context.Background(), event)
}

func init() {
	publishEventCmd.Flags().Int64Var(&eventUserID, "user", 1, "user id carried by the event")
	publishEventCmd.Flags().StringVar(&eventComment, "comment", "test message", "comment carried by a report.submitted event")

	eventCmd.AddCommand(publishEventCmd)
	rootCmd.AddCommand(eventCmd)
}
