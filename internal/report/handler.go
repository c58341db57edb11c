package report

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/frahmantamala/timesheet/internal"
	"github.com/frahmantamala/timesheet/internal/transport"
	"github.com/go-chi/chi"
	"github.com/samber/lo"
)

type ServiceAPI interface {
	SubmitReport(ctx context.Context, userID int64, username string, items []Item, comment string) ([]Report, error)
	GetUserReports(ctx context.Context, userID int64, days int) []Report
	GetAllReports(ctx context.Context, days int) []Report
	DeleteUserReports(ctx context.Context, userID int64) int
}

// UserDirectory resolves a stored display name when the caller sent none.
type UserDirectory interface {
	Username(ctx context.Context, id int64) string
}

type Handler struct {
	*transport.BaseHandler
	Service ServiceAPI
	Users   UserDirectory
}

func NewHandler(baseHandler *transport.BaseHandler, service ServiceAPI, users UserDirectory) *Handler {
	return &Handler{
		BaseHandler: baseHandler,
		Service:     service,
		Users:       users,
	}
}

// SubmitReport handles POST /reports
func (h *Handler) SubmitReport(w http.ResponseWriter, r *http.Request) {
	caller, ok := internal.CallerFromContext(r.Context())
	if !ok {
		h.HandleServiceError(w, internal.ErrMissingIdentity)
		return
	}

	var dto SubmitReportDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.Logger.Warn("SubmitReport: invalid request body", "error", err, "user_id", caller.ID)
		h.HandleServiceError(w, internal.ErrMalformedPayload)
		return
	}

	username := caller.Username
	if username == "" && h.Users != nil {
		username = h.Users.Username(r.Context(), caller.ID)
	}

	reports, err := h.Service.SubmitReport(r.Context(), caller.ID, username, dto.Items(), dto.Comments)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusCreated, SubmitReportResponse{
		OK:      true,
		Reports: reports,
		TotalHours: lo.SumBy(reports, func(r Report) float64 {
			return r.Hours
		}),
	})
}

// GetMyReports handles GET /reports
func (h *Handler) GetMyReports(w http.ResponseWriter, r *http.Request) {
	caller, ok := internal.CallerFromContext(r.Context())
	if !ok {
		h.HandleServiceError(w, internal.ErrMissingIdentity)
		return
	}

	days := transport.QueryInt(r, "days", 0)
	h.WriteJSON(w, http.StatusOK, ReportsResponse{
		Reports: h.Service.GetUserReports(r.Context(), caller.ID, days),
		Days:    days,
	})
}

// GetAllReports handles GET /reports/all
func (h *Handler) GetAllReports(w http.ResponseWriter, r *http.Request) {
	days := transport.QueryInt(r, "days", 0)
	h.WriteJSON(w, http.StatusOK, ReportsResponse{
		Reports: h.Service.GetAllReports(r.Context(), days),
		Days:    days,
	})
}

// DeleteUserReports handles DELETE /users/{id}/reports
func (h *Handler) DeleteUserReports(w http.ResponseWriter, r *http.Request) {
	userID, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		h.HandleServiceError(w, internal.NewValidationFieldError("id", "user id must be numeric", internal.ErrCodeInvalidUser))
		return
	}

	removed := h.Service.DeleteUserReports(r.Context(), userID)
	h.WriteJSON(w, http.StatusOK, DeleteReportsResponse{OK: true, UserID: userID, Removed: removed})
}
