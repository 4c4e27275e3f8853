package session

import "context"

// Session is the authenticated caller's context for one request. UserID is
// an opaque subject id minted by the external identity provider; the
// service never inspects its structure. Services receive a Session
// explicitly on every call instead of reading ambient global state.
type Session struct {
	UserID string
}

// Authenticated reports whether the session carries an identity.
func (s Session) Authenticated() bool {
	return s.UserID != ""
}

// Anonymous is the zero session used for unauthenticated requests.
var Anonymous = Session{}

type ctxKey struct{}

// NewContext returns a new context carrying the given session.
func NewContext(ctx context.Context, s Session) context.Context {
	return context.WithValue(ctx, ctxKey{}, s)
}

// FromContext returns the session stored in the context, or Anonymous.
func FromContext(ctx context.Context) Session {
	if s, ok := ctx.Value(ctxKey{}).(Session); ok {
		return s
	}
	return Anonymous
}
