package user

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/frahmantamala/timesheet/internal"
	"github.com/frahmantamala/timesheet/internal/transport"
	"github.com/go-chi/chi"
)

type ServiceAPI interface {
	RegisterUser(ctx context.Context, id int64, username string) *User
	GetAllUsers(ctx context.Context) []*User
	FindUser(ctx context.Context, id int64) (*User, error)
	IsAdmin(id int64) bool
	Admins() []int64
}

type Handler struct {
	*transport.BaseHandler
	Service ServiceAPI
}

func NewHandler(baseHandler *transport.BaseHandler, svc ServiceAPI) *Handler {
	return &Handler{
		BaseHandler: baseHandler,
		Service:     svc,
	}
}

// RegisterUser handles POST /users/register
func (h *Handler) RegisterUser(w http.ResponseWriter, r *http.Request) {
	caller, ok := internal.CallerFromContext(r.Context())
	if !ok {
		h.HandleServiceError(w, internal.ErrMissingIdentity)
		return
	}

	var dto RegisterUserDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.Logger.Warn("RegisterUser: invalid request body", "error", err)
		h.HandleServiceError(w, internal.ErrMalformedPayload)
		return
	}
	if dto.Username == "" {
		dto.Username = caller.Username
	}
	if err := dto.Validate(); err != nil {
		h.HandleServiceError(w, err)
		return
	}

	u := h.Service.RegisterUser(r.Context(), caller.ID, dto.Username)
	h.WriteJSON(w, http.StatusOK, UserResponse{
		User:    u,
		IsAdmin: h.Service.IsAdmin(caller.ID),
	})
}

// ListUsers handles GET /users
func (h *Handler) ListUsers(w http.ResponseWriter, r *http.Request) {
	h.WriteJSON(w, http.StatusOK, UsersResponse{
		Users:  h.Service.GetAllUsers(r.Context()),
		Admins: h.Service.Admins(),
	})
}

// GetUser handles GET /users/{id}
func (h *Handler) GetUser(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		h.HandleServiceError(w, internal.NewValidationFieldError("id", "user id must be numeric", internal.ErrCodeInvalidUser))
		return
	}

	u, err := h.Service.FindUser(r.Context(), id)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, UserResponse{User: u, IsAdmin: h.Service.IsAdmin(id)})
}
