package auth

import "context"

type sessionContextKey struct{}

// SetSessionToContext stores the materialized session for handler access.
func SetSessionToContext(ctx context.Context, session Session) context.Context {
	return context.WithValue(ctx, sessionContextKey{}, session)
}

// GetSessionFromContext retrieves the session stored by middleware.
// Returns an anonymous session if none was stored.
func GetSessionFromContext(ctx context.Context) Session {
	session, _ := ctx.Value(sessionContextKey{}).(Session)
	return session
}
