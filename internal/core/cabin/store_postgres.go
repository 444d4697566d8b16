// Copyright (c) 2026 Wild Oasis. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package cabin

import (
	"github.com/taibuivan/wildoasis/internal/platform/postgres"
	"github.com/taibuivan/wildoasis/internal/resource"
)

// NewStore creates the PostgreSQL store for cabins.
func NewStore(db postgres.DB) *resource.Store[Cabin] {
	return resource.NewStore(db, NewDescriptor())
}
