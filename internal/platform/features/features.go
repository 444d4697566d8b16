// Copyright (c) 2026 Wild Oasis. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package features turns a list request's query string into SQL.

A [Features] value is built from a table [Schema] and the request's
[url.Values], then refined with chainable steps, mirroring how list
endpoints are described to clients:

	plan := features.New(schema, request.URL.Query()).
		Filter().
		Sort().
		LimitFields().
		Paginate()
	if err := plan.Err(); err != nil {
		return err
	}
	selectSQL, args := plan.SelectSQL()
	countSQL, countArgs := plan.CountSQL()

Query keys:

  - field=value: equality. A repeated key matches any of its values.
  - field[gte|gt|lte|lt]=value: range comparison.
  - sort=a,-b: ordering, "-" means descending. Default: newest first.
  - fields=a,b or fields=-a,-b: projection. Default: every non-hidden field.
  - page, limit: pagination, defaults 1 and 100.

Only fields declared in the schema are accepted. Values are cast to the
field's kind and always travel as bind parameters, never as SQL text.
The first failing step records a 400 error; later steps become no-ops.
*/
package features

import (
	"errors"
	"fmt"
	"net/url"
	"slices"
	"strings"

	"github.com/taibuivan/wildoasis/internal/platform/apperr"
	"github.com/taibuivan/wildoasis/pkg/pagination"
	"github.com/taibuivan/wildoasis/pkg/query"
)

// Reserved query keys that never become filters.
const (
	ParamPage   = "page"
	ParamSort   = "sort"
	ParamLimit  = "limit"
	ParamFields = "fields"
)

var reserved = []string{ParamPage, ParamSort, ParamLimit, ParamFields}

// operators maps bracket keywords to SQL comparison operators.
var operators = map[string]string{
	"gte": ">=",
	"gt":  ">",
	"lte": "<=",
	"lt":  "<",
}

// Condition is one filter predicate.
type Condition struct {
	Field    Field
	Operator string
	Values   []any
}

// Order is one sort key.
type Order struct {
	Field      Field
	Descending bool
}

// Features accumulates the query plan for one list request.
type Features struct {
	schema     Schema
	values     url.Values
	conditions []Condition
	orders     []Order
	projection []Field
	explicit   bool
	page       pagination.Params
	paginated  bool
	err        error
}

// New starts a plan over schema for the given query values.
func New(schema Schema, values url.Values) *Features {
	return &Features{
		schema:     schema,
		values:     values,
		projection: schema.DefaultProjection(),
	}
}

// Err returns the first error recorded by a step.
func (f *Features) Err() error { return f.err }

// Where appends an extra predicate built by the caller. Column names are
// taken from the schema; the value is bound as a parameter.
func (f *Features) Where(name, operator string, value any) *Features {
	if f.err != nil {
		return f
	}
	field, ok := f.schema.Lookup(name)
	if !ok {
		f.err = fmt.Errorf("features: unknown field %q", name)
		return f
	}
	f.conditions = append(f.conditions, Condition{Field: field, Operator: operator, Values: []any{value}})
	return f
}

// # Filtering

// Filter turns every non-reserved key into a predicate.
func (f *Features) Filter() *Features {
	if f.err != nil {
		return f
	}

	keys := make([]string, 0, len(f.values))
	for key := range f.values {
		if !slices.Contains(reserved, key) {
			keys = append(keys, key)
		}
	}
	slices.Sort(keys)

	for _, key := range keys {
		condition, err := f.parseCondition(key, f.values[key])
		if err != nil {
			f.err = err
			return f
		}
		f.conditions = append(f.conditions, condition)
	}

	return f
}

func (f *Features) parseCondition(key string, raws []string) (Condition, error) {
	name, keyword, ok := query.Bracket(key)
	if !ok {
		return Condition{}, apperr.BadRequest(fmt.Sprintf("Invalid filter: %s.", key))
	}

	field, ok := f.schema.Lookup(name)
	if !ok {
		return Condition{}, apperr.BadRequest(fmt.Sprintf("Invalid filter field: %s.", name))
	}

	condition := Condition{Field: field, Operator: "="}
	if keyword != "" {
		operator, ok := operators[keyword]
		if !ok {
			return Condition{}, apperr.BadRequest(fmt.Sprintf("Invalid filter operator: %s.", keyword))
		}
		condition.Operator = operator
		// Range operators use a single bound; the last one wins.
		raws = raws[len(raws)-1:]
	}

	for _, raw := range raws {
		value, err := Cast(field, raw)
		if err != nil {
			return Condition{}, err
		}
		condition.Values = append(condition.Values, value)
	}

	return condition, nil
}

// # Sorting

// Sort parses the sort parameter, falling back to the schema default.
func (f *Features) Sort() *Features {
	if f.err != nil {
		return f
	}

	raw := f.values.Get(ParamSort)
	if raw == "" {
		raw = f.schema.DefaultSort
	}

	for _, token := range query.StringSlice(raw) {
		descending := strings.HasPrefix(token, "-")
		name := strings.TrimPrefix(token, "-")

		field, ok := f.schema.Lookup(name)
		if !ok {
			f.err = apperr.BadRequest(fmt.Sprintf("Invalid sort field: %s.", name))
			return f
		}
		f.orders = append(f.orders, Order{Field: field, Descending: descending})
	}

	return f
}

// # Projection

// LimitFields parses the fields parameter into the projection.
func (f *Features) LimitFields() *Features {
	if f.err != nil {
		return f
	}

	tokens := query.StringSlice(f.values.Get(ParamFields))
	if len(tokens) == 0 {
		return f
	}

	var included, excluded []string
	for _, token := range tokens {
		if name, found := strings.CutPrefix(token, "-"); found {
			excluded = append(excluded, name)
		} else {
			included = append(included, token)
		}
	}

	if len(included) > 0 && len(excluded) > 0 {
		f.err = apperr.BadRequest("Projection cannot have a mix of inclusion and exclusion.")
		return f
	}

	for _, name := range append(slices.Clone(included), excluded...) {
		if _, ok := f.schema.Lookup(name); !ok {
			f.err = apperr.BadRequest(fmt.Sprintf("Invalid projection field: %s.", name))
			return f
		}
	}

	var projection []Field
	if len(included) > 0 {
		projection = append(projection, f.schema.MustLookup(IDField))
		for _, field := range f.schema.Fields {
			if field.Name != IDField && slices.Contains(included, field.Name) {
				projection = append(projection, field)
			}
		}
	} else {
		for _, field := range f.schema.DefaultProjection() {
			if !slices.Contains(excluded, field.Name) {
				projection = append(projection, field)
			}
		}
	}

	f.projection = projection
	f.explicit = true
	return f
}

// Projection returns the selected fields.
func (f *Features) Projection() []Field { return f.projection }

// Explicit reports whether the client asked for a projection.
func (f *Features) Explicit() bool { return f.explicit }

// # Pagination

// Paginate parses page and limit. A negative page fails with 400 before any
// query is built.
func (f *Features) Paginate() *Features {
	if f.err != nil {
		return f
	}

	params, err := pagination.Parse(f.values)
	if err != nil {
		switch {
		case errors.Is(err, pagination.ErrNegativePage), errors.Is(err, pagination.ErrNegativeLimit), errors.Is(err, pagination.ErrPageTooLarge):
			f.err = apperr.BadRequest(err.Error())
		default:
			f.err = err
		}
		return f
	}

	f.page = params
	f.paginated = true
	return f
}

// Page returns the parsed pagination parameters.
func (f *Features) Page() pagination.Params { return f.page }

// # SQL Rendering

// where renders the WHERE clause and its arguments.
func (f *Features) where() (string, []any) {
	var predicates []string
	var args []any

	if f.schema.Scope != "" {
		predicates = append(predicates, f.schema.Scope)
	}

	for _, condition := range f.conditions {
		if len(condition.Values) == 1 {
			args = append(args, condition.Values[0])
			predicates = append(predicates, fmt.Sprintf("%s %s $%d", condition.Field.Column, condition.Operator, len(args)))
			continue
		}

		placeholders := make([]string, len(condition.Values))
		for i, value := range condition.Values {
			args = append(args, value)
			placeholders[i] = fmt.Sprintf("$%d", len(args))
		}
		predicates = append(predicates, fmt.Sprintf("%s IN (%s)", condition.Field.Column, strings.Join(placeholders, ", ")))
	}

	if len(predicates) == 0 {
		return "", nil
	}

	return " WHERE " + strings.Join(predicates, " AND "), args
}

// orderBy renders the ORDER BY clause. The primary key is appended as a
// final tie-breaker so that pages never overlap.
func (f *Features) orderBy() string {
	if len(f.orders) == 0 {
		return ""
	}

	keys := make([]string, 0, len(f.orders)+1)
	hasID := false
	for _, order := range f.orders {
		direction := "ASC"
		if order.Descending {
			direction = "DESC"
		}
		keys = append(keys, order.Field.Column+" "+direction)
		hasID = hasID || order.Field.Name == IDField
	}

	if !hasID {
		if idField, ok := f.schema.Lookup(IDField); ok {
			keys = append(keys, idField.Column+" ASC")
		}
	}

	return " ORDER BY " + strings.Join(keys, ", ")
}

// SelectSQL renders the paginated, sorted and projected query.
func (f *Features) SelectSQL() (string, []any) {
	whereSQL, args := f.where()

	var builder strings.Builder
	builder.WriteString("SELECT ")
	builder.WriteString(ColumnList(f.projection))
	builder.WriteString(" FROM ")
	builder.WriteString(f.schema.Table)
	builder.WriteString(whereSQL)
	builder.WriteString(f.orderBy())

	if f.paginated {
		args = append(args, f.page.Limit)
		builder.WriteString(fmt.Sprintf(" LIMIT $%d", len(args)))
		args = append(args, f.page.Offset())
		builder.WriteString(fmt.Sprintf(" OFFSET $%d", len(args)))
	}

	return builder.String(), args
}

// CountSQL renders the unpaginated count over the same filter state.
func (f *Features) CountSQL() (string, []any) {
	whereSQL, args := f.where()
	return "SELECT COUNT(*) FROM " + f.schema.Table + whereSQL, args
}
