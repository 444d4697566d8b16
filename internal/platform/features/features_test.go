// Copyright (c) 2026 Wild Oasis. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package features_test

import (
	"encoding/json"
	"net/http"
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/wildoasis/internal/platform/apperr"
	"github.com/taibuivan/wildoasis/internal/platform/features"
)

var cabinSchema = features.Schema{
	Table: "cabins",
	Fields: []features.Field{
		{Name: features.IDField, Column: "id", Kind: features.KindID},
		{Name: "name", Column: "name", Kind: features.KindString},
		{Name: "maxCapacity", Column: "max_capacity", Kind: features.KindInt},
		{Name: "regularPrice", Column: "regular_price", Kind: features.KindFloat},
		{Name: "createdAt", Column: "created_at", Kind: features.KindTime},
		{Name: "__v", Column: "version", Kind: features.KindInt, Hidden: true},
	},
	DefaultSort: "-createdAt",
}

func parse(t *testing.T, raw string) url.Values {
	t.Helper()
	values, err := url.ParseQuery(raw)
	require.NoError(t, err)
	return values
}

func requireBadRequest(t *testing.T, err error) {
	t.Helper()
	require.Error(t, err)
	appError := apperr.As(err)
	require.NotNil(t, appError)
	assert.Equal(t, http.StatusBadRequest, appError.HTTPStatus)
}

func TestFeatures_DefaultQuery(t *testing.T) {
	plan := features.New(cabinSchema, url.Values{}).Filter().Sort().LimitFields().Paginate()
	require.NoError(t, plan.Err())

	selectSQL, args := plan.SelectSQL()
	assert.Equal(t,
		"SELECT id, name, max_capacity, regular_price, created_at FROM cabins ORDER BY created_at DESC, id ASC LIMIT $1 OFFSET $2",
		selectSQL)
	assert.Equal(t, []any{100, 0}, args)

	countSQL, countArgs := plan.CountSQL()
	assert.Equal(t, "SELECT COUNT(*) FROM cabins", countSQL)
	assert.Empty(t, countArgs)
}

func TestFeatures_FilterOperators(t *testing.T) {
	plan := features.New(cabinSchema, parse(t, "maxCapacity[gte]=4&regularPrice[lt]=500&name=Forest")).Filter()
	require.NoError(t, plan.Err())

	countSQL, args := plan.CountSQL()
	assert.Equal(t, "SELECT COUNT(*) FROM cabins WHERE max_capacity >= $1 AND name = $2 AND regular_price < $3", countSQL)
	assert.Equal(t, []any{int64(4), "Forest", float64(500)}, args)
}

func TestFeatures_RepeatedKeyMatchesAny(t *testing.T) {
	plan := features.New(cabinSchema, parse(t, "name=a&name=b")).Filter()
	require.NoError(t, plan.Err())

	countSQL, args := plan.CountSQL()
	assert.Equal(t, "SELECT COUNT(*) FROM cabins WHERE name IN ($1, $2)", countSQL)
	assert.Equal(t, []any{"a", "b"}, args)
}

func TestFeatures_ScopeAndWhere(t *testing.T) {
	schema := cabinSchema
	schema.Scope = "is_active = TRUE"

	plan := features.New(schema, parse(t, "name=x")).Filter().Where("maxCapacity", "<=", int64(2))
	require.NoError(t, plan.Err())

	countSQL, args := plan.CountSQL()
	assert.Equal(t, "SELECT COUNT(*) FROM cabins WHERE is_active = TRUE AND name = $1 AND max_capacity <= $2", countSQL)
	assert.Equal(t, []any{"x", int64(2)}, args)
}

func TestFeatures_FilterRejectsUnknownInput(t *testing.T) {
	cases := map[string]string{
		"unknown field":    "password=secret",
		"unknown operator": "maxCapacity[ne]=2",
		"nested brackets":  "maxCapacity[gte][x]=2",
		"quoted key":       "na'me=1",
		"bad cast":         "maxCapacity=lots",
		"bad id":           "_id=not-a-uuid",
		"bad time":         "createdAt[gte]=yesterday",
	}

	for name, raw := range cases {
		t.Run(name, func(t *testing.T) {
			plan := features.New(cabinSchema, parse(t, raw)).Filter().Sort().Paginate()
			requireBadRequest(t, plan.Err())
		})
	}
}

func TestFeatures_CastErrorMessage(t *testing.T) {
	plan := features.New(cabinSchema, parse(t, "maxCapacity=lots")).Filter()
	appError := apperr.As(plan.Err())
	require.NotNil(t, appError)
	assert.Equal(t, "Invalid maxCapacity: lots.", appError.Message)
}

func TestFeatures_Sort(t *testing.T) {
	plan := features.New(cabinSchema, parse(t, "sort=regularPrice,-name")).Sort()
	require.NoError(t, plan.Err())

	selectSQL, _ := plan.SelectSQL()
	assert.Contains(t, selectSQL, "ORDER BY regular_price ASC, name DESC, id ASC")

	plan = features.New(cabinSchema, parse(t, "sort=-_id")).Sort()
	selectSQL, _ = plan.SelectSQL()
	assert.Contains(t, selectSQL, "ORDER BY id DESC")
	assert.NotContains(t, selectSQL, "id ASC")

	requireBadRequest(t, features.New(cabinSchema, parse(t, "sort=secret")).Sort().Err())
}

func TestFeatures_LimitFields(t *testing.T) {
	t.Run("inclusion keeps id", func(t *testing.T) {
		plan := features.New(cabinSchema, parse(t, "fields=name,maxCapacity")).LimitFields()
		require.NoError(t, plan.Err())
		assert.True(t, plan.Explicit())
		assert.Equal(t, "id, name, max_capacity", features.ColumnList(plan.Projection()))
	})

	t.Run("inclusion may request hidden field", func(t *testing.T) {
		plan := features.New(cabinSchema, parse(t, "fields=name,__v")).LimitFields()
		require.NoError(t, plan.Err())
		assert.Equal(t, "id, name, version", features.ColumnList(plan.Projection()))
	})

	t.Run("exclusion", func(t *testing.T) {
		plan := features.New(cabinSchema, parse(t, "fields=-name,-createdAt")).LimitFields()
		require.NoError(t, plan.Err())
		assert.Equal(t, "id, max_capacity, regular_price", features.ColumnList(plan.Projection()))
	})

	t.Run("mixed is rejected", func(t *testing.T) {
		requireBadRequest(t, features.New(cabinSchema, parse(t, "fields=name,-maxCapacity")).LimitFields().Err())
	})

	t.Run("unknown is rejected", func(t *testing.T) {
		requireBadRequest(t, features.New(cabinSchema, parse(t, "fields=passwordHash")).LimitFields().Err())
	})
}

func TestFeatures_Paginate(t *testing.T) {
	plan := features.New(cabinSchema, parse(t, "page=3&limit=10")).Paginate()
	require.NoError(t, plan.Err())
	assert.Equal(t, 20, plan.Page().Offset())

	selectSQL, args := plan.SelectSQL()
	assert.Contains(t, selectSQL, "LIMIT $1 OFFSET $2")
	assert.Equal(t, []any{10, 20}, args)

	plan = features.New(cabinSchema, parse(t, "page=-1")).Paginate()
	requireBadRequest(t, plan.Err())
	assert.Equal(t, "page number should be positive integer", apperr.As(plan.Err()).Message)

	plan = features.New(cabinSchema, parse(t, "page=100000000000000000&limit=1000")).Paginate()
	requireBadRequest(t, plan.Err())
	assert.Equal(t, "page number is too large", apperr.As(plan.Err()).Message)
}

func TestFeatures_FirstErrorWins(t *testing.T) {
	plan := features.New(cabinSchema, parse(t, "unknown=1&sort=alsoUnknown")).Filter().Sort()
	assert.Equal(t, "Invalid filter field: unknown.", apperr.As(plan.Err()).Message)
}

func TestCastJSON(t *testing.T) {
	intField := cabinSchema.MustLookup("maxCapacity")

	value, err := features.CastJSON(intField, json.RawMessage(`4`))
	require.NoError(t, err)
	assert.Equal(t, int64(4), value)

	value, err = features.CastJSON(intField, json.RawMessage(`"6"`))
	require.NoError(t, err)
	assert.Equal(t, int64(6), value)

	value, err = features.CastJSON(intField, json.RawMessage(`null`))
	require.NoError(t, err)
	assert.Nil(t, value)

	_, err = features.CastJSON(intField, json.RawMessage(`{"$gt":1}`))
	requireBadRequest(t, err)
}

func TestParseTime(t *testing.T) {
	value, err := features.ParseTime("2026-05-01")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC), value)

	value, err = features.ParseTime("2026-05-01T10:30:00+02:00")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2026, 5, 1, 8, 30, 0, 0, time.UTC), value)

	_, err = features.ParseTime("05/01/2026")
	assert.Error(t, err)
}
