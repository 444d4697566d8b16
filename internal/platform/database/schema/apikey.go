// Copyright (c) 2026 Wild Oasis. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package schema

import "github.com/taibuivan/wildoasis/internal/platform/features"

// APIKeyTable represents the 'api_keys' table
type APIKeyTable struct {
	Table      string
	ID         string
	KeyHash    string
	ForWhom    string
	ExpiresAt  string
	UsageCount string
	LastUsedAt string
	IsActive   string
	CreatedAt  string
}

// APIKey is the schema definition for api_keys
var APIKey = APIKeyTable{
	Table:      "api_keys",
	ID:         ColumnID,
	KeyHash:    "api_key_hash",
	ForWhom:    "for_whom",
	ExpiresAt:  "expires_at",
	UsageCount: "usage_count",
	LastUsedAt: "last_used_at",
	IsActive:   "is_active",
	CreatedAt:  ColumnCreatedAt,
}

// Query returns the public field mapping. The key hash is never exposed.
func (t APIKeyTable) Query() features.Schema {
	return newQuery(t.Table, "",
		features.Field{Name: "forWhom", Column: t.ForWhom, Kind: features.KindString},
		features.Field{Name: "expiresAt", Column: t.ExpiresAt, Kind: features.KindTime},
		features.Field{Name: "usageCount", Column: t.UsageCount, Kind: features.KindInt},
		features.Field{Name: "lastUsedAt", Column: t.LastUsedAt, Kind: features.KindTime},
		features.Field{Name: "isActive", Column: t.IsActive, Kind: features.KindBool},
	)
}
