// Copyright (c) 2026 Wild Oasis. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package auth implements the staff accounts and their sessions.

It covers the whole account lifecycle of the admin portal: managers create
accounts, new users activate them from an emailed link, and everyone signs in
with email and password to receive a signed session cookie.

# Architecture

  - User: the account entity, also exposed as a read-only resource to admins.
  - Service: signup, verification, login, password recovery and profile use cases.
  - Repository: PostgreSQL storage of users and their one-time token hashes.
  - Handler: the /users HTTP surface.

The service also implements the session resolver used by the protect guard,
so every request is checked against the current state of its account.
*/
package auth

import (
	"time"

	"github.com/taibuivan/wildoasis/internal/platform/database/schema"
	"github.com/taibuivan/wildoasis/internal/platform/sec"
	"github.com/taibuivan/wildoasis/internal/resource"
)

// # Domain Entities

// User is a staff account.
type User struct {
	ID                string       `json:"_id" db:"id"`
	FullName          string       `json:"fullName" db:"full_name"`
	Email             string       `json:"email" db:"email"`
	Avatar            string       `json:"avatar" db:"avatar"`
	Role              sec.UserRole `json:"role" db:"role"`
	IsEmailVerified   bool         `json:"isEmailVerified" db:"is_email_verified"`
	PasswordChangedAt *time.Time   `json:"passwordChangedAt,omitempty" db:"password_changed_at"`
	LastSignIn        *time.Time   `json:"lastSignIn,omitempty" db:"last_sign_in"`
	CreatedAt         time.Time    `json:"createdAt" db:"created_at"`
	UpdatedAt         time.Time    `json:"updatedAt" db:"updated_at"`
	Version           *int64       `json:"__v,omitempty" db:"version"`

	// Never serialised.
	PasswordHash string `json:"-" db:"password_hash"`
	IsActive     bool   `json:"-" db:"is_active"`
}

// Credentials is a freshly created one-time token: the raw value goes into
// the emailed link and only the hash is stored.
type Credentials struct {
	Hash    string
	Expires time.Time
}

// # Field Identifiers

const (
	FieldFullName        = "fullName"
	FieldEmail           = "email"
	FieldPassword        = "password"
	FieldPasswordConfirm = "passwordConfirm"
	FieldCurrentPassword = "currentPassword"
	FieldAvatar          = "avatar"
	FieldUser            = "user"
)

// NewDescriptor declares users as a resource. Only the profile fields are
// writable; credentials change through the dedicated flows.
func NewDescriptor() *resource.Descriptor[User] {
	return &resource.Descriptor[User]{
		Name:     "user",
		Plural:   "users",
		Schema:   schema.User.Query(),
		Writable: []string{FieldFullName, FieldAvatar},
		Required: []string{FieldFullName},
	}
}
