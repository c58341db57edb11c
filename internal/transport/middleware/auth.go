package middleware

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/frahmantamala/timesheet/internal"
	"github.com/frahmantamala/timesheet/pkg/logger"
)

const (
	HeaderUserID   = "X-User-ID"
	HeaderUsername = "X-Username"
)

// Identity trusts the caller id set by the transport collaborator (the bot or
// the web app backend) and rejects requests without one.
func Identity(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw := strings.TrimSpace(r.Header.Get(HeaderUserID))
		userID, err := strconv.ParseInt(raw, 10, 64)
		if raw == "" || err != nil || userID <= 0 {
			writeAppError(w, internal.ErrMissingIdentity)
			return
		}

		caller := internal.Caller{
			ID:       userID,
			Username: strings.TrimSpace(r.Header.Get(HeaderUsername)),
		}
		ctx := internal.ContextWithCaller(r.Context(), caller)
		ctx = logger.With(ctx, "user_id", userID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
