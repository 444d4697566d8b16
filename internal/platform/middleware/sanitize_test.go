// Copyright (c) 2026 Wild Oasis. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package middleware_test

import (
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/wildoasis/internal/platform/middleware"
)

// capture returns a handler storing the body and query seen downstream.
func capture(body *string, query *url.Values) http.Handler {
	return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		if request.Body != nil {
			raw, _ := io.ReadAll(request.Body)
			*body = string(raw)
		}
		*query = request.URL.Query()
		writer.WriteHeader(http.StatusOK)
	})
}

func TestSanitize_JSONBody(t *testing.T) {
	var body string
	var query url.Values
	handler := middleware.Sanitize(capture(&body, &query))

	request := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(
		`{"name":"<script>alert(1)</script>Forest <b>Lodge</b>","note":"Tom & Jerry","price":250.50,"tags":["<i>a</i>"]}`))
	request.Header.Set("Content-Type", "application/json; charset=utf-8")
	handler.ServeHTTP(httptest.NewRecorder(), request)

	assert.JSONEq(t, `{"name":"Forest Lodge","note":"Tom & Jerry","price":250.50,"tags":["a"]}`, body)
}

func TestSanitize_LeavesInvalidJSON(t *testing.T) {
	var body string
	var query url.Values
	handler := middleware.Sanitize(capture(&body, &query))

	request := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"name":`))
	request.Header.Set("Content-Type", "application/json")
	handler.ServeHTTP(httptest.NewRecorder(), request)

	assert.Equal(t, `{"name":`, body)
}

func TestSanitize_LeavesOversizedBody(t *testing.T) {
	var body string
	var query url.Values
	handler := middleware.Sanitize(capture(&body, &query))

	payload := `{"name":"` + strings.Repeat("<b>x</b>", 3000) + `"}`
	request := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(payload))
	request.Header.Set("Content-Type", "application/json")
	handler.ServeHTTP(httptest.NewRecorder(), request)

	assert.Equal(t, payload, body)
}

func TestSanitize_Query(t *testing.T) {
	var body string
	var query url.Values
	handler := middleware.Sanitize(capture(&body, &query))

	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/?name=%3Cb%3ELodge%3C%2Fb%3E&sort=-name", nil))

	assert.Equal(t, "Lodge", query.Get("name"))
	assert.Equal(t, "-name", query.Get("sort"))
}

func TestParameterPollution(t *testing.T) {
	var body string
	var query url.Values
	handler := middleware.ParameterPollution("status", "numGuests")(capture(&body, &query))

	recorder := httptest.NewRecorder()
	handler.ServeHTTP(recorder, httptest.NewRequest(http.MethodGet,
		"/?sort=name&sort=-regularPrice&status=unconfirmed&status=checked-in&numGuests[gte]=2&numGuests[gte]=3", nil))
	require.Equal(t, http.StatusOK, recorder.Code)

	assert.Equal(t, []string{"-regularPrice"}, query["sort"])
	assert.Equal(t, []string{"unconfirmed", "checked-in"}, query["status"])
	assert.Equal(t, []string{"2", "3"}, query["numGuests[gte]"])
}
