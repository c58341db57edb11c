package notify

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/frahmantamala/timesheet/internal"
	"github.com/frahmantamala/timesheet/internal/transport"
)

type UserLister interface {
	UserIDs(ctx context.Context) []int64
}

type BroadcastDTO struct {
	Text string `json:"text"`
}

type Handler struct {
	*transport.BaseHandler
	Batcher Batcher
	Users   UserLister
}

func NewHandler(baseHandler *transport.BaseHandler, batcher Batcher, users UserLister) *Handler {
	return &Handler{
		BaseHandler: baseHandler,
		Batcher:     batcher,
		Users:       users,
	}
}

// Broadcast sends text, or the default reminder, to every known user.
func Broadcast(ctx context.Context, batcher Batcher, users UserLister, text string) BatchResult {
	if strings.TrimSpace(text) == "" {
		text = DefaultBroadcastText
	}
	return batcher.Deliver(ctx, users.UserIDs(ctx), text)
}

// Broadcast handles POST /notify
func (h *Handler) Broadcast(w http.ResponseWriter, r *http.Request) {
	var dto BroadcastDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil && !errors.Is(err, io.EOF) {
		h.Logger.Warn("Broadcast: invalid request body", "error", err)
		h.HandleServiceError(w, internal.ErrMalformedPayload)
		return
	}

	result := Broadcast(r.Context(), h.Batcher, h.Users, dto.Text)
	h.Logger.Info("Broadcast: finished", "sent", result.Sent, "failed", result.Failed)
	h.WriteJSON(w, http.StatusOK, result)
}
