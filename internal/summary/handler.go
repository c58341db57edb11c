package summary

import (
	"context"
	"net/http"

	"github.com/frahmantamala/timesheet/internal"
	"github.com/frahmantamala/timesheet/internal/transport"
)

type ServiceAPI interface {
	BuildSummary(ctx context.Context, userID int64) Payload
}

type Handler struct {
	*transport.BaseHandler
	Service ServiceAPI
}

func NewHandler(baseHandler *transport.BaseHandler, service ServiceAPI) *Handler {
	return &Handler{
		BaseHandler: baseHandler,
		Service:     service,
	}
}

// GetSummary handles GET /summary
func (h *Handler) GetSummary(w http.ResponseWriter, r *http.Request) {
	caller, ok := internal.CallerFromContext(r.Context())
	if !ok {
		h.HandleServiceError(w, internal.ErrMissingIdentity)
		return
	}

	payload := h.Service.BuildSummary(r.Context(), caller.ID)
	if payload.Username == "" {
		payload.Username = caller.Username
	}
	h.WriteJSON(w, http.StatusOK, payload)
}
