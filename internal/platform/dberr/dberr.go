// Copyright (c) 2026 Wild Oasis. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package dberr provides a bridge between low-level database errors and
// higher-level application errors.
//
// Store adapters never hand raw driver errors to the layers above. They call
// [Wrap], which classifies the failure into an [*Error] carrying exactly one
// [Kind]. The HTTP layer then turns that variant into an operational
// [apperr.AppError] through [Error.AppError].
package dberr

import (
	"errors"
	"fmt"
	"regexp"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/taibuivan/wildoasis/internal/platform/apperr"
)

// Kind identifies the class of a store failure.
type Kind int

const (
	// KindNotFound means the addressed row does not exist.
	KindNotFound Kind = iota + 1
	// KindDuplicate means a unique constraint rejected the write.
	KindDuplicate
	// KindCast means a value could not be converted to the column type.
	KindCast
	// KindValidation means a CHECK, NOT NULL or foreign key constraint rejected the write.
	KindValidation
)

// SQLSTATE codes classified by [Wrap].
const (
	codeUniqueViolation     = "23505"
	codeCheckViolation      = "23514"
	codeNotNullViolation    = "23502"
	codeForeignKeyViolation = "23503"
	codeInvalidText         = "22P02"
	codeInvalidDatetime     = "22007"
	codeDatetimeOverflow    = "22008"
	codeNumericOverflow     = "22003"
)

// Error is the tagged store error. Exactly one Kind is set; Field, Value and
// Constraint are filled when the driver reports them.
type Error struct {
	Kind       Kind
	Field      string
	Value      string
	Constraint string
	Message    string
	Cause      error
}

// Error implements the error interface.
func (e *Error) Error() string {
	return fmt.Sprintf("dberr(kind=%d field=%s constraint=%s): %v", e.Kind, e.Field, e.Constraint, e.Cause)
}

// Unwrap exposes the driver error.
func (e *Error) Unwrap() error { return e.Cause }

// AppError translates the variant into the client-facing error.
func (e *Error) AppError() *apperr.AppError {
	switch e.Kind {
	case KindNotFound:
		message := e.Message
		if message == "" {
			message = "No document found with that ID"
		}
		return apperr.NotFound(message).WithCause(e)

	case KindDuplicate:
		if _, err := uuid.Parse(e.Value); err == nil {
			return apperr.Duplicate("Duplicate entry not allowed.").WithCause(e)
		}
		return apperr.Duplicate(fmt.Sprintf("Duplicate field value: %s. Please use another value!", e.Value)).WithCause(e)

	case KindCast:
		return apperr.Cast(e.Field, e.Value).WithCause(e)

	case KindValidation:
		return apperr.InvalidInput(apperr.FieldError{Field: e.Field, Message: e.Message}).WithCause(e)
	}

	return apperr.Internal(e)
}

// # Constructors

// NotFound builds a not-found variant with the client message to show.
func NotFound(message string) *Error {
	return &Error{Kind: KindNotFound, Message: message, Cause: pgx.ErrNoRows}
}

// Cast builds a cast variant for a value rejected before it reached the store.
func Cast(field, value string) *Error {
	return &Error{Kind: KindCast, Field: field, Value: value, Cause: errors.New("invalid value")}
}

// As extracts the [*Error] from err's chain. It returns nil if not found.
func As(err error) *Error {
	var storeError *Error
	if errors.As(err, &storeError) {
		return storeError
	}
	return nil
}

// IsNotFound reports whether err is a not-found variant.
func IsNotFound(err error) bool {
	storeError := As(err)
	return storeError != nil && storeError.Kind == KindNotFound
}

// IsDuplicate reports whether err is a unique-constraint variant.
func IsDuplicate(err error) bool {
	storeError := As(err)
	return storeError != nil && storeError.Kind == KindDuplicate
}

// # Classification

// detailPattern extracts column and value from messages such as
// `Key (name)=(Forest Lodge) already exists.`
var detailPattern = regexp.MustCompile(`^Key \((.+?)\)=\((.*)\)`)

// Wrap inspects a database error and wraps it into the tagged [*Error]
// variant. Errors it cannot classify are returned wrapped with the action so
// that they surface as internal errors.
func Wrap(err error, action string) error {
	if err == nil {
		return nil
	}

	if As(err) != nil || apperr.IsAppError(err) {
		return err
	}

	// 1. Not Found mapping
	if errors.Is(err, pgx.ErrNoRows) {
		return &Error{Kind: KindNotFound, Cause: err}
	}

	// 2. SQLSTATE mapping
	var pgError *pgconn.PgError
	if errors.As(err, &pgError) {
		switch pgError.Code {
		case codeUniqueViolation:
			field, value := parseDetail(pgError.Detail)
			return &Error{Kind: KindDuplicate, Field: field, Value: value, Constraint: pgError.ConstraintName, Cause: err}

		case codeInvalidText, codeInvalidDatetime, codeDatetimeOverflow, codeNumericOverflow:
			return &Error{Kind: KindCast, Field: columnOrUnknown(pgError.ColumnName), Value: pgError.Message, Cause: err}

		case codeCheckViolation:
			return &Error{Kind: KindValidation, Field: constraintOrUnknown(pgError), Constraint: pgError.ConstraintName, Message: checkMessage(pgError.ConstraintName), Cause: err}

		case codeNotNullViolation:
			field := columnOrUnknown(pgError.ColumnName)
			return &Error{Kind: KindValidation, Field: field, Message: "Path `" + field + "` is required.", Cause: err}

		case codeForeignKeyViolation:
			field, value := parseDetail(pgError.Detail)
			return &Error{Kind: KindValidation, Field: field, Value: value, Constraint: pgError.ConstraintName, Message: "Referenced document does not exist.", Cause: err}
		}
	}

	// 3. Unknown query errors become Internal Server Errors
	return fmt.Errorf("%s: %w", action, err)
}

// parseDetail returns the column and value named by a constraint detail message.
func parseDetail(detail string) (string, string) {
	matches := detailPattern.FindStringSubmatch(detail)
	if len(matches) != 3 {
		return "", ""
	}
	return matches[1], matches[2]
}

func columnOrUnknown(column string) string {
	if column == "" {
		return "value"
	}
	return column
}

func constraintOrUnknown(pgError *pgconn.PgError) string {
	if pgError.ColumnName != "" {
		return pgError.ColumnName
	}
	if field, ok := checkFields[pgError.ConstraintName]; ok {
		return field
	}
	return columnOrUnknown(pgError.ConstraintName)
}

// checkFields and checkMessages describe the named CHECK constraints created
// by the migrations.
var checkFields = map[string]string{
	"cabins_max_capacity_check":         "maxCapacity",
	"cabins_regular_price_check":        "regularPrice",
	"cabins_discount_check":             "discount",
	"bookings_status_check":             "status",
	"bookings_num_guests_check":         "numGuests",
	"bookings_dates_check":              "endDate",
	"settings_booking_length_check":     "maxBookingLength",
	"settings_min_booking_length_check": "minBookingLength",
	"settings_max_guests_check":         "maxGuestsPerBooking",
	"settings_breakfast_price_check":    "breakfastPrice",
	"users_role_check":                  "role",
}

var checkMessages = map[string]string{
	"cabins_max_capacity_check":         "A cabin must accommodate at least 1 guest",
	"cabins_regular_price_check":        "Price must not be negative",
	"cabins_discount_check":             "Discount must not be negative",
	"bookings_status_check":             "Status is either: unconfirmed, checked-in, checked-out",
	"bookings_num_guests_check":         "A booking must have at least 1 guest",
	"bookings_dates_check":              "End date must be after the start date",
	"settings_booking_length_check":     "Minimum booking length must be less than or equal to maximum booking length",
	"settings_max_guests_check":         "Maximum guests per booking must be at least 1",
	"settings_breakfast_price_check":    "Breakfast price must not be negative",
	"users_role_check":                  "Role is either: demo, staff, manager, admin",
	"settings_min_booking_length_check": "Minimum booking length must be at least 1",
}

func checkMessage(constraint string) string {
	if message, ok := checkMessages[constraint]; ok {
		return message
	}
	return "Constraint " + constraint + " failed."
}
