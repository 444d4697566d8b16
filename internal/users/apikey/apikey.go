// Copyright (c) 2026 Wild Oasis. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package apikey manages the credentials used by machine clients.

A key is a random secret handed out once. Only its HMAC-SHA256 under the
server secret is stored, so a leaked table cannot be replayed. Each owner
("forWhom") holds at most one active key at a time; expired keys are retired
the next time a key is generated for the same owner.

The [Service] doubles as the verifier behind the x-api-key guard: every
accepted request increments the key's usage counter in the same statement
that checks it.
*/
package apikey

import "time"

// # Domain Entities

// APIKey is one issued key. The secret itself is never stored.
type APIKey struct {
	ID         string     `json:"_id" db:"id"`
	ForWhom    string     `json:"forWhom" db:"for_whom"`
	ExpiresAt  time.Time  `json:"expiresAt" db:"expires_at"`
	UsageCount int64      `json:"usageCount" db:"usage_count"`
	LastUsedAt *time.Time `json:"lastUsedAt,omitempty" db:"last_used_at"`
	IsActive   bool       `json:"isActive" db:"is_active"`
	CreatedAt  time.Time  `json:"createdAt" db:"created_at"`

	Hash string `json:"-" db:"api_key_hash"`
}

// # Client-Facing Messages

const (
	MessageOnlyOneActive = "Only one active API key is allowed"
	MessageNoActiveKey   = "No active API key found for that owner"
)

// FieldForWhom is the owner field of the generate payload.
const FieldForWhom = "forWhom"
