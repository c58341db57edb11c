package reminder

import (
	"net/http"
	"time"

	"github.com/frahmantamala/timesheet/internal/notify"
	"github.com/frahmantamala/timesheet/internal/transport"
)

type StatusResponse struct {
	Enabled  bool      `json:"enabled"`
	Schedule string    `json:"schedule,omitempty"`
	State    State     `json:"state"`
	Next     time.Time `json:"next,omitempty"`
}

type RunResponse struct {
	Recipients int `json:"recipients"`
	notify.BatchResult
}

type Handler struct {
	*transport.BaseHandler
	Pass      *Pass
	Scheduler *Scheduler
}

// NewHandler takes a nil scheduler when scheduled reminders are disabled.
func NewHandler(baseHandler *transport.BaseHandler, pass *Pass, scheduler *Scheduler) *Handler {
	return &Handler{
		BaseHandler: baseHandler,
		Pass:        pass,
		Scheduler:   scheduler,
	}
}

// Run handles POST /reminders/run
func (h *Handler) Run(w http.ResponseWriter, r *http.Request) {
	result := h.Pass.Run(r.Context())
	h.WriteJSON(w, http.StatusOK, RunResponse{
		Recipients:  len(result.Results),
		BatchResult: result,
	})
}

// Status handles GET /reminders
func (h *Handler) Status(w http.ResponseWriter, r *http.Request) {
	if h.Scheduler == nil {
		h.WriteJSON(w, http.StatusOK, StatusResponse{Enabled: false, State: StateIdle})
		return
	}
	h.WriteJSON(w, http.StatusOK, StatusResponse{
		Enabled:  true,
		Schedule: h.Scheduler.Spec(),
		State:    h.Scheduler.State(),
		Next:     h.Scheduler.Next(),
	})
}
