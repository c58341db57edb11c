package middleware

import (
	"encoding/json"
	"net/http"

	"github.com/frahmantamala/timesheet/internal"
	"github.com/frahmantamala/timesheet/pkg/logger"
)

// RequireAdmin lets only members of the configured admin list through.
func RequireAdmin(admins internal.AdminSet) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			caller, ok := internal.CallerFromContext(r.Context())
			if !ok {
				writeAppError(w, internal.ErrMissingIdentity)
				return
			}

			if !admins.Contains(caller.ID) {
				logger.From(r.Context()).Warn("access denied: admin only route",
					"user_id", caller.ID,
					"path", r.URL.Path)
				writeAppError(w, internal.ErrAdminOnly)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

func writeAppError(w http.ResponseWriter, appErr *internal.AppError) {
	status, body := appErr.ToHTTPResponse()
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
