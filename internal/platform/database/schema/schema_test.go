// Copyright (c) 2026 Wild Oasis. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package schema_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/taibuivan/wildoasis/internal/platform/database/schema"
	"github.com/taibuivan/wildoasis/internal/platform/features"
)

func TestQuerySchemas(t *testing.T) {
	schemas := map[string]features.Schema{
		"cabins":   schema.Cabin.Query(),
		"guests":   schema.Guest.Query(),
		"bookings": schema.Booking.Query(),
		"settings": schema.Setting.Query(),
		"users":    schema.User.Query(),
		"api_keys": schema.APIKey.Query(),
	}

	for table, query := range schemas {
		t.Run(table, func(t *testing.T) {
			assert.Equal(t, table, query.Table)

			id, ok := query.Lookup(features.IDField)
			assert.True(t, ok)
			assert.Equal(t, schema.ColumnID, id.Column)

			names := map[string]bool{}
			for _, field := range query.Fields {
				assert.False(t, names[field.Name], "duplicate field %s", field.Name)
				names[field.Name] = true
			}

			for _, field := range query.DefaultProjection() {
				assert.NotEqual(t, "__v", field.Name)
			}
		})
	}
}

func TestUserQueryHidesSecrets(t *testing.T) {
	query := schema.User.Query()

	assert.Equal(t, schema.ActiveScope, query.Scope)
	for _, field := range query.Fields {
		assert.NotContains(t, []string{schema.User.PasswordHash, schema.User.PasswordResetToken, schema.User.EmailVerificationToken}, field.Column)
	}
}
