package auth

// SessionUser is the read-only user view handed to the presentation layer.
// It never exposes token internals.
type SessionUser struct {
	ID    string `json:"id"`
	Name  string `json:"name,omitempty"`
	Email string `json:"email"`
	Image string `json:"image,omitempty"`
}

// Session is the materialized view of a request's authentication state.
type Session struct {
	User *SessionUser `json:"user,omitempty"`
}

// Authenticated reports whether the session carries a user.
func (s Session) Authenticated() bool {
	return s.User != nil
}

// Materialize produces the presentation-layer session view from verified
// claims. Nil claims (absent or invalid token) yield an anonymous session.
func Materialize(claims *Claims) Session {
	if claims == nil || claims.ID == "" {
		return Session{}
	}

	return Session{User: &SessionUser{
		ID:    claims.ID,
		Name:  claims.Name,
		Email: claims.Email,
		Image: claims.Picture,
	}}
}
