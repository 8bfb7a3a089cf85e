// Package session supplies the identity that namespaces a user's task storage.
package session

// Provider is consumed by the task store entry points. A user id is only
// meaningful once IsSessionLoading reports false.
type Provider interface {
	CurrentUserID() (string, bool)
	IsSessionLoading() bool
}

// Static is a fixed, already-resolved session, e.g. one built from a verified token.
type Static struct {
	UserID string
}

func (s Static) CurrentUserID() (string, bool) {
	return s.UserID, s.UserID != ""
}

func (s Static) IsSessionLoading() bool {
	return false
}
