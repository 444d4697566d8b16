// Copyright (c) 2026 Wild Oasis. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package schema

import "github.com/taibuivan/wildoasis/internal/platform/features"

// UserTable represents the 'users' table
type UserTable struct {
	Table                    string
	ID                       string
	FullName                 string
	Email                    string
	Avatar                   string
	Role                     string
	PasswordHash             string
	PasswordChangedAt        string
	IsActive                 string
	IsEmailVerified          string
	PasswordResetToken       string
	PasswordResetExpires     string
	EmailVerificationToken   string
	EmailVerificationExpires string
	LastSignIn               string
	CreatedAt                string
}

// User is the schema definition for users
var User = UserTable{
	Table:                    "users",
	ID:                       ColumnID,
	FullName:                 "full_name",
	Email:                    "email",
	Avatar:                   "avatar",
	Role:                     "role",
	PasswordHash:             "password_hash",
	PasswordChangedAt:        "password_changed_at",
	IsActive:                 "is_active",
	IsEmailVerified:          "is_email_verified",
	PasswordResetToken:       "password_reset_token",
	PasswordResetExpires:     "password_reset_expires",
	EmailVerificationToken:   "email_verification_token",
	EmailVerificationExpires: "email_verification_expires",
	LastSignIn:               "last_sign_in",
	CreatedAt:                ColumnCreatedAt,
}

// ActiveScope restricts every generic lookup to active accounts.
const ActiveScope = "is_active = TRUE"

// Query returns the public field mapping. Secrets and token hashes are not
// part of it, so they can be neither filtered on nor projected.
func (t UserTable) Query() features.Schema {
	return newQuery(t.Table, ActiveScope,
		features.Field{Name: "fullName", Column: t.FullName, Kind: features.KindString},
		features.Field{Name: "email", Column: t.Email, Kind: features.KindString},
		features.Field{Name: "avatar", Column: t.Avatar, Kind: features.KindString},
		features.Field{Name: "role", Column: t.Role, Kind: features.KindString},
		features.Field{Name: "isEmailVerified", Column: t.IsEmailVerified, Kind: features.KindBool},
		features.Field{Name: "passwordChangedAt", Column: t.PasswordChangedAt, Kind: features.KindTime, Hidden: true},
		features.Field{Name: "lastSignIn", Column: t.LastSignIn, Kind: features.KindTime},
	)
}
