// Copyright (c) 2026 Wild Oasis. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth

import (
	"context"
	"time"

	"github.com/taibuivan/wildoasis/internal/resource"
)

// # User Data Access

// UserRepository defines the data access contract for staff accounts.
//
// Lookups only see active accounts, except [UserRepository.FindByVerificationToken]
// which exists to activate them. A missing account is a dberr not-found error.
type UserRepository interface {

	/*
		FindByID returns the active account with the given ID.

		Parameters:
		  - ctx: context.Context
		  - id: string

		Returns:
		  - *User: Hydrated entity, including the password hash
		  - error: Not found or database failures
	*/
	FindByID(ctx context.Context, id string) (*User, error)

	/*
		FindByEmail returns the active account with the given email.

		Parameters:
		  - ctx: context.Context
		  - email: string (already lowercased)

		Returns:
		  - *User: Hydrated entity, including the password hash
		  - error: Not found or database failures
	*/
	FindByEmail(ctx context.Context, email string) (*User, error)

	/*
		FindByVerificationToken returns the account, active or not, holding an
		email verification token hash that expires after now.
	*/
	FindByVerificationToken(ctx context.Context, hash string, now time.Time) (*User, error)

	/*
		FindByResetToken returns the active account holding a password reset
		token hash that expires after now.
	*/
	FindByResetToken(ctx context.Context, hash string, now time.Time) (*User, error)

	/*
		Insert persists a brand-new account together with its verification token.

		Parameters:
		  - ctx: context.Context
		  - user: *User
		  - verification: Credentials

		Returns:
		  - error: Duplicate email or persistence failures
	*/
	Insert(ctx context.Context, user *User, verification Credentials) error

	// Remove physically deletes an account, active or not.
	Remove(ctx context.Context, id string) error

	// Activate marks the account active and verified and clears its verification token.
	Activate(ctx context.Context, id string) (*User, error)

	// SetResetToken stores a reset token hash, or clears it when reset is nil.
	SetResetToken(ctx context.Context, id string, reset *Credentials) error

	// UpdatePassword replaces the hash, records the change time and clears any reset token.
	UpdatePassword(ctx context.Context, id, hash string, changedAt time.Time) error

	// TouchSignIn records a successful sign in.
	TouchSignIn(ctx context.Context, id string, at time.Time) error

	// UpdateProfile applies a partial update of the writable profile fields.
	UpdateProfile(ctx context.Context, id string, values resource.Values) (*User, error)

	// Deactivate soft deletes an active account.
	Deactivate(ctx context.Context, id string) error
}
