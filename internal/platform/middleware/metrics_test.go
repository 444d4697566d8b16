// Copyright (c) 2026 Wild Oasis. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/wildoasis/internal/platform/middleware"
)

func TestMetrics_LabelsByRoutePattern(t *testing.T) {
	registry := prometheus.NewRegistry()
	metrics := middleware.NewMetrics(registry)

	router := chi.NewRouter()
	router.Use(metrics.Handler)
	router.Get("/cabins/{id}", okHandler)

	for _, id := range []string{"a", "b"} {
		router.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/cabins/"+id, nil))
	}

	expected := `
# HELP http_requests_total Total number of HTTP requests processed, by method, route pattern, and status code.
# TYPE http_requests_total counter
http_requests_total{method="GET",route="/cabins/{id}",status="200"} 2
`
	require.NoError(t, testutil.GatherAndCompare(registry, strings.NewReader(expected), "http_requests_total"))

	count, err := testutil.GatherAndCount(registry, "http_request_duration_seconds")
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}
