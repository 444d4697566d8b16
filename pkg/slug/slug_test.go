// Copyright (c) 2026 Wild Oasis. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package slug_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/taibuivan/wildoasis/pkg/slug"
)

func TestFrom(t *testing.T) {
	tests := map[string]string{
		"Forest Lodge":         "forest-lodge",
		"Copy of Forest Lodge": "copy-of-forest-lodge",
		"  Chalet  Élan 002 ":  "chalet-elan-002",
		"Cabin/North":          "cabin-north",
	}

	for input, expected := range tests {
		assert.Equal(t, expected, slug.From(input), input)
	}
}
