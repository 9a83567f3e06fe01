package http

import (
	"context"
)

type contextKey string

const memberIDKey contextKey = "member-id"

func withMemberID(ctx context.Context, memberID int32) context.Context {
	return context.WithValue(ctx, memberIDKey, memberID)
}

// MemberIDFromContext returns the member id the auth middleware attached to
// the request. Handlers read it once and pass it to services explicitly.
func MemberIDFromContext(ctx context.Context) (int32, bool) {
	id, ok := ctx.Value(memberIDKey).(int32)
	return id, ok
}
