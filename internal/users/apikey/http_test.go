// Copyright (c) 2026 Wild Oasis. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package apikey_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/wildoasis/internal/platform/middleware/accesstest"
	"github.com/taibuivan/wildoasis/internal/platform/sec"
	"github.com/taibuivan/wildoasis/internal/users/apikey"
)

func newRouter(repository apikey.Repository) http.Handler {
	now := time.Now()
	handler := apikey.NewHandler(newService(repository, &now))

	router := chi.NewRouter()
	handler.RegisterRoutes(router, accesstest.New())
	return router
}

func serve(t *testing.T, router http.Handler, method, target, body string, role sec.UserRole) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()
	request := httptest.NewRequest(method, target, strings.NewReader(body))
	request.Header.Set("Content-Type", "application/json")
	if role != "" {
		accesstest.Login(request, role, "0190d6a4-8f7e-7c3a-9b1e-eeeeeeeeeeee")
	}
	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, request)

	decoded := map[string]any{}
	if recorder.Body.Len() > 0 {
		require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &decoded))
	}
	return recorder, decoded
}

func TestHandler_Generate(t *testing.T) {
	repository := &memoryRepository{}
	router := newRouter(repository)

	recorder, body := serve(t, router, http.MethodPost, "/generate-api-key", `{"forWhom":"booking-site"}`, sec.RoleAdmin)
	require.Equal(t, http.StatusCreated, recorder.Code)
	secret := body["data"].(map[string]any)["apiKey"].(string)
	assert.Len(t, secret, 64)

	recorder, body = serve(t, router, http.MethodPost, "/generate-api-key", `{"forWhom":"booking-site"}`, sec.RoleAdmin)
	assert.Equal(t, http.StatusBadRequest, recorder.Code)
	assert.Equal(t, apikey.MessageOnlyOneActive, body["message"])

	recorder, body = serve(t, router, http.MethodGet, "/api-keys", "", sec.RoleAdmin)
	require.Equal(t, http.StatusOK, recorder.Code)
	keys := body["data"].(map[string]any)["apiKeys"].([]any)
	require.Len(t, keys, 1)
	assert.NotContains(t, keys[0], "hash")
	assert.NotContains(t, keys[0], "apiKeyHash")
	assert.Equal(t, "booking-site", keys[0].(map[string]any)["forWhom"])

	recorder, _ = serve(t, router, http.MethodDelete, "/api-keys/booking-site", "", sec.RoleAdmin)
	assert.Equal(t, http.StatusNoContent, recorder.Code)
}

func TestHandler_AdminOnly(t *testing.T) {
	router := newRouter(&memoryRepository{})

	recorder, _ := serve(t, router, http.MethodPost, "/generate-api-key", `{"forWhom":"booking-site"}`, "")
	assert.Equal(t, http.StatusUnauthorized, recorder.Code)

	recorder, _ = serve(t, router, http.MethodPost, "/generate-api-key", `{"forWhom":"booking-site"}`, sec.RoleManager)
	assert.Equal(t, http.StatusForbidden, recorder.Code)

	// A machine key cannot mint more keys
	request := httptest.NewRequest(http.MethodGet, "/api-keys", nil)
	request.Header.Set("X-Api-Key", accesstest.APIKey)
	recorder = httptest.NewRecorder()
	router.ServeHTTP(recorder, request)
	assert.Equal(t, http.StatusUnauthorized, recorder.Code)
}
