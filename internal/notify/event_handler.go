package notify

import (
	"context"
	"fmt"
	"html"
	"log/slog"
	"strconv"
	"strings"

	"github.com/frahmantamala/timesheet/internal"
	"github.com/frahmantamala/timesheet/internal/core/events"
	"github.com/samber/lo"
)

// AdminFanout tells every administrator, except the submitter, about a new
// submission.
type AdminFanout struct {
	batcher Batcher
	admins  internal.AdminSet
	logger  *slog.Logger
}

func NewAdminFanout(batcher Batcher, admins internal.AdminSet, logger *slog.Logger) *AdminFanout {
	return &AdminFanout{
		batcher: batcher,
		admins:  admins,
		logger:  logger,
	}
}

func (h *AdminFanout) RegisterEventHandlers(bus *events.EventBus) {
	bus.Subscribe(events.EventTypeReportSubmitted, h.HandleReportSubmitted)
}

func (h *AdminFanout) HandleReportSubmitted(ctx context.Context, event events.Event) error {
	submitted, ok := event.(*events.ReportSubmittedEvent)
	if !ok {
		return fmt.Errorf("unexpected event payload %T for %s", event, event.EventType())
	}

	recipients := lo.Filter(h.admins.IDs(), func(id int64, _ int) bool {
		return id != submitted.UserID
	})
	if len(recipients) == 0 {
		return nil
	}

	result := h.batcher.Deliver(ctx, recipients, FormatSubmission(submitted))
	h.logger.Info("admins notified about submission",
		"event_id", submitted.EventID(),
		"user_id", submitted.UserID,
		"sent", result.Sent,
		"failed", result.Failed)
	return nil
}

func formatHours(h float64) string {
	return strconv.FormatFloat(h, 'f', -1, 64)
}

// FormatSubmission renders the admin notice: one bullet per project, the
// total and the comment.
func FormatSubmission(e *events.ReportSubmittedEvent) string {
	name := e.Username
	if name == "" {
		name = "-"
	}

	lines := make([]string, len(e.Items))
	for i, item := range e.Items {
		lines[i] = fmt.Sprintf("  • %s: %s ч", html.EscapeString(item.Project), formatHours(item.Hours))
	}

	var b strings.Builder
	fmt.Fprintf(&b, "📬 <b>%s</b> (id %d)\n", html.EscapeString(name), e.UserID)
	b.WriteString(strings.Join(lines, "\n"))
	fmt.Fprintf(&b, "\n⏱ %s ч\n💬 %s", formatHours(e.TotalHours()), html.EscapeString(e.Comment))
	return b.String()
}
