// Copyright (c) 2026 Wild Oasis. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package middleware

import (
	"bytes"
	"encoding/json"
	"io"
	"mime"
	"net/http"
	"net/url"
	"slices"
	"strings"

	"github.com/microcosm-cc/bluemonday"

	"github.com/taibuivan/wildoasis/internal/platform/constants"
)

// # Markup Sanitization

// markupPolicy strips every HTML element from client input.
var markupPolicy = bluemonday.StrictPolicy()

// sanitizeText removes markup from value. Text without angle brackets is
// returned untouched so that ampersands and quotes are not entity-encoded.
func sanitizeText(value string) string {
	if !strings.ContainsAny(value, "<>") {
		return value
	}
	return markupPolicy.Sanitize(value)
}

// sanitizeValue walks a decoded JSON document and cleans every string.
func sanitizeValue(value any) any {
	switch typed := value.(type) {
	case string:
		return sanitizeText(typed)
	case []any:
		for i, item := range typed {
			typed[i] = sanitizeValue(item)
		}
		return typed
	case map[string]any:
		for key, item := range typed {
			typed[key] = sanitizeValue(item)
		}
		return typed
	default:
		return value
	}
}

// Sanitize strips markup from query values and from the string values of JSON
// bodies. Bodies that are oversized or not valid JSON are forwarded unchanged
// so that the decoder reports them.
func Sanitize(next http.Handler) http.Handler {
	return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		if request.URL.RawQuery != "" {
			query := request.URL.Query()
			for key, values := range query {
				for i, value := range values {
					values[i] = sanitizeText(value)
				}
				query[key] = values
			}
			request.URL.RawQuery = query.Encode()
		}

		if isJSON(request) && request.Body != nil {
			sanitizeBody(request)
		}

		next.ServeHTTP(writer, request)
	})
}

func isJSON(request *http.Request) bool {
	mediaType, _, err := mime.ParseMediaType(request.Header.Get("Content-Type"))
	return err == nil && mediaType == "application/json"
}

func sanitizeBody(request *http.Request) {
	raw, err := io.ReadAll(io.LimitReader(request.Body, constants.MaxJSONBodyBytes+1))
	if err != nil || len(raw) > constants.MaxJSONBodyBytes {
		request.Body = readCloser{Reader: io.MultiReader(bytes.NewReader(raw), request.Body), Closer: request.Body}
		return
	}

	decoder := json.NewDecoder(bytes.NewReader(raw))
	decoder.UseNumber()

	var document any
	if err := decoder.Decode(&document); err != nil {
		request.Body = io.NopCloser(bytes.NewReader(raw))
		return
	}

	cleaned, err := json.Marshal(sanitizeValue(document))
	if err != nil {
		request.Body = io.NopCloser(bytes.NewReader(raw))
		return
	}

	request.Body = io.NopCloser(bytes.NewReader(cleaned))
	request.ContentLength = int64(len(cleaned))
}

type readCloser struct {
	io.Reader
	io.Closer
}

// # Parameter Pollution

// ParameterPollution keeps only the last value of repeated query parameters.
// Parameters named in allowed keep every value; a bracketed operator suffix
// is ignored when matching, so "status[gte]" follows "status".
func ParameterPollution(allowed ...string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			if request.URL.RawQuery == "" {
				next.ServeHTTP(writer, request)
				return
			}

			query := request.URL.Query()
			collapsed := url.Values{}
			for key, values := range query {
				base, _, _ := strings.Cut(key, "[")
				if len(values) > 1 && !slices.Contains(allowed, base) {
					values = values[len(values)-1:]
				}
				collapsed[key] = values
			}
			request.URL.RawQuery = collapsed.Encode()

			next.ServeHTTP(writer, request)
		})
	}
}
