// Copyright (c) 2026 Wild Oasis. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package pagination_test

import (
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/wildoasis/pkg/pagination"
)

/*
TestParse covers defaults, fallbacks, negative values and the offset bound.
*/
func TestParse(t *testing.T) {
	tests := []struct {
		name   string
		query  string
		page   int
		limit  int
		offset int
		err    error
	}{
		{"defaults", "", 1, 100, 0, nil},
		{"explicit", "page=2&limit=10", 2, 10, 10, nil},
		{"zero_page_falls_back", "page=0&limit=5", 1, 5, 0, nil},
		{"non_numeric_falls_back", "page=abc&limit=xyz", 1, 100, 0, nil},
		{"third_page", "page=3&limit=25", 3, 25, 50, nil},
		{"negative_page", "page=-1", 0, 0, 0, pagination.ErrNegativePage},
		{"negative_limit", "limit=-5", 0, 0, 0, pagination.ErrNegativeLimit},
		{"last_page_within_bound", "page=2147484&limit=1000", 2147484, 1000, 2147483000, nil},
		{"offset_overflow", "page=100000000000000000&limit=1000", 0, 0, 0, pagination.ErrPageTooLarge},
		{"offset_past_bound", "page=2147485&limit=1000", 0, 0, 0, pagination.ErrPageTooLarge},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			values, err := url.ParseQuery(tt.query)
			require.NoError(t, err)

			params, err := pagination.Parse(values)
			if tt.err != nil {
				assert.ErrorIs(t, err, tt.err)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.page, params.Page)
			assert.Equal(t, tt.limit, params.Limit)
			assert.Equal(t, tt.offset, params.Offset())
		})
	}
}
