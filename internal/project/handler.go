package project

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"strconv"

	"github.com/frahmantamala/timesheet/internal"
	"github.com/frahmantamala/timesheet/internal/transport"
	"github.com/go-chi/chi"
)

type ServiceAPI interface {
	GetProjects(ctx context.Context) []Project
	AddProject(ctx context.Context, abbr, full string) (*Project, error)
	RemoveProject(ctx context.Context, abbr string) bool
	GetUserProjects(ctx context.Context, userID int64) []Project
	SetUserProjects(ctx context.Context, userID int64, abbrs []string)
	GetAssignments(ctx context.Context) map[int64][]string
	AssignedUserIDs(ctx context.Context) []int64
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

// GetProjects handles GET /projects
func (h *Handler) GetProjects(w http.ResponseWriter, r *http.Request) {
	caller, ok := internal.CallerFromContext(r.Context())
	if !ok {
		h.HandleServiceError(w, internal.ErrMissingIdentity)
		return
	}

	h.WriteJSON(w, http.StatusOK, ProjectsResponse{
		Projects:    h.Service.GetUserProjects(r.Context(), caller.ID),
		AllProjects: h.Service.GetProjects(r.Context()),
	})
}

// CreateProject handles POST /projects
func (h *Handler) CreateProject(w http.ResponseWriter, r *http.Request) {
	var dto CreateProjectDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.Logger.Warn("CreateProject: invalid request body", "error", err)
		h.HandleServiceError(w, internal.ErrMalformedPayload)
		return
	}
	dto.Normalize()
	if err := dto.Validate(); err != nil {
		h.HandleServiceError(w, err)
		return
	}

	p, err := h.Service.AddProject(r.Context(), dto.Abbr, dto.Full)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusCreated, MutationResponse{
		OK:      true,
		Message: "project added",
		Project: p,
	})
}

// DeleteProject handles DELETE /projects/{abbr}
func (h *Handler) DeleteProject(w http.ResponseWriter, r *http.Request) {
	abbr := chi.URLParam(r, "abbr")
	if unescaped, err := url.PathUnescape(abbr); err == nil {
		abbr = unescaped
	}

	if !h.Service.RemoveProject(r.Context(), abbr) {
		h.HandleServiceError(w, internal.ErrProjectNotFound)
		return
	}

	h.WriteJSON(w, http.StatusOK, MutationResponse{OK: true, Message: "project removed"})
}

// AssignProjects handles PUT /users/{id}/projects
func (h *Handler) AssignProjects(w http.ResponseWriter, r *http.Request) {
	userID, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		h.HandleServiceError(w, internal.NewValidationFieldError("id", "user id must be numeric", internal.ErrCodeInvalidUser))
		return
	}

	var dto AssignProjectsDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.Logger.Warn("AssignProjects: invalid request body", "error", err)
		h.HandleServiceError(w, internal.ErrMalformedPayload)
		return
	}

	h.Service.SetUserProjects(r.Context(), userID, dto.Projects)
	h.WriteJSON(w, http.StatusOK, UserProjectsResponse{
		UserID:   userID,
		Projects: h.Service.GetUserProjects(r.Context(), userID),
	})
}

// GetAssignments handles GET /assignments
func (h *Handler) GetAssignments(w http.ResponseWriter, r *http.Request) {
	h.WriteJSON(w, http.StatusOK, AssignmentsResponse{
		Users:       h.Service.AssignedUserIDs(r.Context()),
		Assignments: h.Service.GetAssignments(r.Context()),
	})
}
