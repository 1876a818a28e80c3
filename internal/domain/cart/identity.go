// internal/domain/cart/identity.go
package cart

import "errors"

// ErrInvalidIdentity is returned when an identity does not name exactly
// one of user id and session key.
var ErrInvalidIdentity = errors.New("cart identity must be a user id or a session key")

// Identity names the shopper a cart operation acts for. It is passed
// explicitly into every operation; nothing in this package reads
// ambient request or session state.
type Identity struct {
	UserID     *uint
	SessionKey string
}

// UserIdentity returns the identity of an authenticated shopper
func UserIdentity(userID uint) Identity {
	return Identity{UserID: &userID}
}

// SessionIdentity returns the identity of an anonymous visitor
func SessionIdentity(sessionKey string) Identity {
	return Identity{SessionKey: sessionKey}
}

// IsAuthenticated reports whether the identity belongs to a user account
func (id Identity) IsAuthenticated() bool {
	return id.UserID != nil
}

// Valid reports whether exactly one of user id and session key is set
func (id Identity) Valid() bool {
	if id.UserID != nil {
		return id.SessionKey == ""
	}
	return id.SessionKey != ""
}
