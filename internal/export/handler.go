package export

import (
	"context"
	"net/http"
	"strconv"

	"github.com/frahmantamala/timesheet/internal/transport"
)

type ServiceAPI interface {
	Export(ctx context.Context, format string) (*File, error)
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

// Export handles GET /export
func (h *Handler) Export(w http.ResponseWriter, r *http.Request) {
	file, err := h.Service.Export(r.Context(), r.URL.Query().Get("format"))
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	w.Header().Set("X-Report-Count", strconv.Itoa(file.Rows))
	h.WriteFile(w, file.Name, file.ContentType, file.Data)
}
