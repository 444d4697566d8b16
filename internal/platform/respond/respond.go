// Copyright (c) 2026 Wild Oasis. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package respond provides HTTP response helpers used by all API handlers.
//
// # Architecture
//
// This package centralizes the presentation logic for HTTP responses.
// It ensures that every response (Success or Error) across the entire application
// follows the same JSON envelope:
//
//	{"status": "success"|"fail"|"error", "data": ..., "message": ..., "results": n, "totalDocuments": n}
//
// The admin portal parses this envelope directly, so its shape is part of the API contract.
package respond

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/taibuivan/wildoasis/internal/platform/apperr"
	"github.com/taibuivan/wildoasis/internal/platform/ctxutil"
	"github.com/taibuivan/wildoasis/internal/platform/dberr"
)

// StatusSuccess is the envelope status of every 2xx response.
const StatusSuccess = "success"

// Envelope is the JSON envelope for successful responses.
type Envelope struct {
	Status         string `json:"status"`
	Results        *int   `json:"results,omitempty"`
	TotalDocuments *int   `json:"totalDocuments,omitempty"`
	Message        string `json:"message,omitempty"`
	Data           any    `json:"data,omitempty"`
}

// ErrorEnvelope is the JSON envelope for error responses.
//
// Error is only populated for requests flagged by [ctxutil.WithExposeErrors].
type ErrorEnvelope struct {
	Status  string              `json:"status"`
	Message string              `json:"message"`
	Code    string              `json:"code,omitempty"`
	Details []apperr.FieldError `json:"details,omitempty"`
	Error   string              `json:"error,omitempty"`
}

// JSON writes a JSON response with the given status code.
func JSON(writer http.ResponseWriter, statusCode int, payload any) {
	writer.Header().Set("Content-Type", "application/json; charset=utf-8")
	writer.WriteHeader(statusCode)
	_ = json.NewEncoder(writer).Encode(payload)
}

// OK writes a 200 OK response with data wrapped in the standard success envelope.
func OK(writer http.ResponseWriter, data any) {
	JSON(writer, http.StatusOK, Envelope{Status: StatusSuccess, Data: data})
}

// Created writes a 201 Created response with data wrapped in the standard success envelope.
func Created(writer http.ResponseWriter, data any) {
	JSON(writer, http.StatusCreated, Envelope{Status: StatusSuccess, Data: data})
}

// Message writes a success envelope that carries only a message.
func Message(writer http.ResponseWriter, statusCode int, message string) {
	JSON(writer, statusCode, Envelope{Status: StatusSuccess, Message: message})
}

// List writes a 200 OK response for a page of documents together with the
// page size and the number of documents matching the filter.
func List(writer http.ResponseWriter, data any, results, totalDocuments int) {
	JSON(writer, http.StatusOK, Envelope{
		Status:         StatusSuccess,
		Results:        &results,
		TotalDocuments: &totalDocuments,
		Data:           data,
	})
}

// NoContent writes a 204 No Content response.
func NoContent(writer http.ResponseWriter) {
	writer.WriteHeader(http.StatusNoContent)
}

// Error converts any Go error into a standardized JSON API error response.
//
// Store errors are translated through [dberr.Error.AppError]. Errors that are
// neither store nor application errors are reported as a generic failure; the
// raw message is only attached when the request allows exposing internals.
func Error(writer http.ResponseWriter, request *http.Request, err error) {
	context := request.Context()
	logger := ctxutil.GetLogger(context)

	appError := translate(err)
	if appError == nil {
		// Unexpected internal error: log full details but hide them from the client for security.
		logger.ErrorContext(context, "unhandled_error_swallowed",
			slog.String("error", err.Error()),
			slog.String("request_id", ctxutil.GetRequestID(context)),
		)
		appError = apperr.Internal(err)
	}

	// Always log 5xx errors as they indicate server-side issues.
	if appError.HTTPStatus >= 500 {
		logger.ErrorContext(context, "api_server_error",
			slog.String("code", appError.Code),
			slog.String("request_id", ctxutil.GetRequestID(context)),
			slog.Any("cause", appError.Cause),
		)
	}

	envelope := ErrorEnvelope{
		Status:  appError.Status(),
		Message: appError.Message,
		Code:    appError.Code,
		Details: appError.Details,
	}

	if ctxutil.ExposeErrors(context) {
		envelope.Error = err.Error()
	}

	JSON(writer, appError.HTTPStatus, envelope)
}

// translate returns the client-facing error for err, or nil when err carries
// no classification.
func translate(err error) *apperr.AppError {
	if appError := apperr.As(err); appError != nil {
		return appError
	}
	if storeError := dberr.As(err); storeError != nil {
		return storeError.AppError()
	}
	return nil
}
