package notify

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/frahmantamala/timesheet/internal"
	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
)

// TelegramNotifier delivers messages through the Bot API sendMessage call.
// Only outbound calls are made; updates are polled by the bot process.
type TelegramNotifier struct {
	bot    *bot.Bot
	token  string
	logger *slog.Logger
}

func NewTelegramNotifier(apiURL, token string, timeout time.Duration, logger *slog.Logger) (*TelegramNotifier, error) {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	opts := []bot.Option{
		bot.WithSkipGetMe(),
		bot.WithHTTPClient(timeout, &http.Client{Timeout: timeout}),
	}
	if apiURL = strings.TrimRight(apiURL, "/"); apiURL != "" {
		opts = append(opts, bot.WithServerURL(apiURL))
	}

	b, err := bot.New(token, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create telegram client: %s", redact(err.Error(), token))
	}
	return &TelegramNotifier{bot: b, token: token, logger: logger}, nil
}

func (n *TelegramNotifier) Notify(ctx context.Context, userID int64, text string) error {
	_, err := n.bot.SendMessage(ctx, &bot.SendMessageParams{
		ChatID:    userID,
		Text:      text,
		ParseMode: models.ParseModeHTML,
	})
	if err != nil {
		// transport errors embed the request URL, which contains the token
		cause := &redactedError{msg: redact(err.Error(), n.token), err: err}
		return internal.NewExternalError("telegram delivery failed", internal.ErrCodeDeliveryFailed, cause)
	}

	n.logger.Debug("telegram message sent", "user_id", userID)
	return nil
}

// IsBlocked reports whether the recipient refused the message, typically a
// user who blocked the bot.
func IsBlocked(err error) bool {
	return errors.Is(err, bot.ErrorForbidden)
}

type redactedError struct {
	msg string
	err error
}

func (e *redactedError) Error() string { return e.msg }
func (e *redactedError) Unwrap() error { return e.err }

func redact(s, token string) string {
	if token == "" {
		return s
	}
	return strings.ReplaceAll(s, token, "***")
}
