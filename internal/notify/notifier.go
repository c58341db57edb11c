package notify

import (
	"context"
	"log/slog"
)

// DefaultBroadcastText is sent by a manual broadcast without a custom text.
const DefaultBroadcastText = "📢 <b>Напоминание!</b>\n\nПожалуйста, заполните отчёт за сегодня 👇"

// Notifier delivers one text message to one user. Messages may carry
// Telegram HTML markup.
type Notifier interface {
	Notify(ctx context.Context, userID int64, text string) error
}

// NotifierFunc adapts a plain function to Notifier.
type NotifierFunc func(ctx context.Context, userID int64, text string) error

func (f NotifierFunc) Notify(ctx context.Context, userID int64, text string) error {
	return f(ctx, userID, text)
}

// LogNotifier only logs, used when no bot token is configured.
type LogNotifier struct {
	logger *slog.Logger
}

func NewLogNotifier(logger *slog.Logger) *LogNotifier {
	return &LogNotifier{logger: logger}
}

func (n *LogNotifier) Notify(ctx context.Context, userID int64, text string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	n.logger.Info("notification (log only)", "user_id", userID, "text", text)
	return nil
}
