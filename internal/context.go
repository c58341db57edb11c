package internal

import (
	"context"
	"time"
)

type ctxKey string

const (
	ContextUserKey     ctxKey = "userID"
	ContextUsernameKey ctxKey = "username"
)

// Caller is the identity the transport collaborator vouches for.
type Caller struct {
	ID       int64
	Username string
}

func CallerFromContext(ctx context.Context) (Caller, bool) {
	if ctx == nil {
		return Caller{}, false
	}
	id, ok := ctx.Value(ContextUserKey).(int64)
	if !ok {
		return Caller{}, false
	}
	name, _ := ctx.Value(ContextUsernameKey).(string)
	return Caller{ID: id, Username: name}, true
}

func ContextWithCaller(ctx context.Context, caller Caller) context.Context {
	ctx = context.WithValue(ctx, ContextUserKey, caller.ID)
	return context.WithValue(ctx, ContextUsernameKey, caller.Username)
}

// WithTimeout returns a context with timeout, defaulting to 5 seconds if duration is zero or negative.
func WithTimeout(ctx context.Context, duration time.Duration) (context.Context, context.CancelFunc) {
	if duration <= 0 {
		duration = 5 * time.Second
	}
	return context.WithTimeout(ctx, duration)
}
