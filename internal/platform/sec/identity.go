// Copyright (c) 2026 Wild Oasis. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package sec

// Identity is the caller established by the protect middleware.
//
// A request authenticated by an API key carries an Identity with APIKey set
// and no user; it bypasses every role check.
type Identity struct {
	UserID string
	Role   UserRole
	APIKey bool
}

// Allowed reports whether the identity may use a route restricted to roles.
func (identity *Identity) Allowed(roles []UserRole) bool {
	if identity == nil {
		return false
	}
	if identity.APIKey {
		return true
	}
	return identity.Role.In(roles)
}
