// Copyright (c) 2026 Wild Oasis. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package cabin_test

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/wildoasis/internal/core/cabin"
	"github.com/taibuivan/wildoasis/internal/platform/constants"
	"github.com/taibuivan/wildoasis/internal/platform/middleware/accesstest"
	"github.com/taibuivan/wildoasis/internal/platform/sec"
)

const userID = "0190d6a4-8f7e-7c3a-9b1e-aaaaaaaaaaaa"

func newRouter(mock pgxmock.PgxPoolIface, images *fakeImages) http.Handler {
	store := cabin.NewStore(mock)
	handler := cabin.NewHandler(store, cabin.NewService(store, images))

	router := chi.NewRouter()
	handler.RegisterRoutes(router, accesstest.New())
	return router
}

func multipartBody(t *testing.T, fields map[string]string, fileField string, file []byte) (*bytes.Buffer, string) {
	t.Helper()
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	for name, value := range fields {
		require.NoError(t, writer.WriteField(name, value))
	}
	if fileField != "" {
		part, err := writer.CreateFormFile(fileField, "upload.bin")
		require.NoError(t, err)
		_, err = part.Write(file)
		require.NoError(t, err)
	}
	require.NoError(t, writer.Close())
	return body, writer.FormDataContentType()
}

func decode(t *testing.T, recorder *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	decoded := map[string]any{}
	if recorder.Body.Len() > 0 {
		require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &decoded))
	}
	return decoded
}

var cabinFields = map[string]string{
	"name":         "Forest Lodge",
	"description":  "Cosy cabin in the woods",
	"maxCapacity":  "4",
	"regularPrice": "250",
}

var pngBytes = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR\x00\x00\x00\x01\x00\x00\x00\x01\x08\x06\x00\x00\x00")

func TestHandler_CreateCabinFromMultipart(t *testing.T) {
	mock := newMock(t)
	router := newRouter(mock, &fakeImages{})

	mock.ExpectQuery("INSERT INTO cabins (id, name, slug, description, max_capacity, regular_price, image) VALUES ($1, $2, $3, $4, $5, $6, $7) "+returning).
		WithArgs(pgxmock.AnyArg(), "Forest Lodge", "forest-lodge", "Cosy cabin in the woods", int64(4), float64(250), imageURL).
		WillReturnRows(cabinRows("Forest Lodge", "forest-lodge"))

	body, contentType := multipartBody(t, cabinFields, cabin.ImageField, pngBytes)
	request := httptest.NewRequest(http.MethodPost, "/", body)
	request.Header.Set("Content-Type", contentType)
	accesstest.Login(request, sec.RoleManager, userID)

	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, request)
	require.Equal(t, http.StatusCreated, recorder.Code)

	created := decode(t, recorder)["data"].(map[string]any)["cabin"].(map[string]any)
	assert.Equal(t, "forest-lodge", created["slug"])
	assert.Equal(t, imageURL, created["image"])
}

func TestHandler_CreateCabinRejectsBadUploads(t *testing.T) {
	cases := []struct {
		name      string
		fileField string
		file      []byte
		status    int
		message   string
	}{
		{name: "missing image", status: http.StatusBadRequest, message: cabin.MessageImageRequired},
		{name: "not an image", fileField: cabin.ImageField, file: []byte("plain text notes"), status: http.StatusUnsupportedMediaType, message: cabin.MessageImageRequired},
		{name: "wrong field", fileField: "photo", file: pngBytes, status: http.StatusBadRequest, message: "Incorrect field name 'photo'."},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			router := newRouter(newMock(t), &fakeImages{})

			body, contentType := multipartBody(t, cabinFields, tc.fileField, tc.file)
			request := httptest.NewRequest(http.MethodPost, "/", body)
			request.Header.Set("Content-Type", contentType)
			accesstest.Login(request, sec.RoleAdmin, userID)

			recorder := httptest.NewRecorder()
			router.ServeHTTP(recorder, request)

			assert.Equal(t, tc.status, recorder.Code)
			assert.Equal(t, tc.message, decode(t, recorder)["message"])
		})
	}
}

func TestHandler_RoleMatrix(t *testing.T) {
	cases := []struct {
		name   string
		method string
		target string
		role   sec.UserRole
		status int
	}{
		{name: "staff cannot create", method: http.MethodPost, target: "/", role: sec.RoleStaff, status: http.StatusForbidden},
		{name: "demo cannot update", method: http.MethodPut, target: "/" + cabinID, role: sec.RoleDemo, status: http.StatusForbidden},
		{name: "staff cannot delete", method: http.MethodDelete, target: "/" + cabinID, role: sec.RoleStaff, status: http.StatusForbidden},
		{name: "staff cannot duplicate", method: http.MethodPost, target: "/" + cabinID + "/duplicate", role: sec.RoleStaff, status: http.StatusForbidden},
		{name: "anonymous cannot read", method: http.MethodGet, target: "/", status: http.StatusUnauthorized},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			router := newRouter(newMock(t), &fakeImages{})

			request := httptest.NewRequest(tc.method, tc.target, nil)
			if tc.role != "" {
				accesstest.Login(request, tc.role, userID)
			}
			recorder := httptest.NewRecorder()
			router.ServeHTTP(recorder, request)

			assert.Equal(t, tc.status, recorder.Code)
		})
	}
}

func TestHandler_ListWithAPIKey(t *testing.T) {
	mock := newMock(t)
	router := newRouter(mock, &fakeImages{})

	mock.ExpectQuery("SELECT COUNT(*) FROM cabins WHERE max_capacity >= $1").
		WithArgs(int64(4)).
		WillReturnRows(pgxmock.NewRows([]string{"count"}).AddRow(1))
	mock.ExpectQuery("SELECT id, name, slug, description, max_capacity, regular_price, discount, image, created_at, updated_at FROM cabins WHERE max_capacity >= $1 ORDER BY regular_price ASC, id ASC LIMIT $2 OFFSET $3").
		WithArgs(int64(4), 100, 0).
		WillReturnRows(cabinRows("Forest Lodge", "forest-lodge"))

	request := httptest.NewRequest(http.MethodGet, "/?maxCapacity[gte]=4&sort=regularPrice", nil)
	request.Header.Set(constants.HeaderAPIKey, accesstest.APIKey)
	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, request)

	require.Equal(t, http.StatusOK, recorder.Code)
	body := decode(t, recorder)
	assert.EqualValues(t, 1, body["results"])
	assert.Len(t, body["data"].(map[string]any)["cabins"], 1)
}

func TestHandler_DuplicateCabin(t *testing.T) {
	mock := newMock(t)
	router := newRouter(mock, &fakeImages{})

	mock.ExpectQuery(selectCabin).
		WithArgs(cabinID).
		WillReturnRows(cabinRows("Forest Lodge", "forest-lodge"))
	mock.ExpectQuery("INSERT INTO cabins (id, name, slug, description, max_capacity, regular_price, discount, image) VALUES ($1, $2, $3, $4, $5, $6, $7, $8) "+returning).
		WithArgs(pgxmock.AnyArg(), "Copy of Forest Lodge", "copy-of-forest-lodge", "Cosy cabin in the woods", int64(4), float64(250), float64(25), imageURL).
		WillReturnRows(cabinRows("Copy of Forest Lodge", "copy-of-forest-lodge"))

	request := httptest.NewRequest(http.MethodPost, "/"+cabinID+"/duplicate", nil)
	accesstest.Login(request, sec.RoleManager, userID)
	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, request)

	require.Equal(t, http.StatusCreated, recorder.Code)
	copied := decode(t, recorder)["data"].(map[string]any)["cabin"].(map[string]any)
	assert.Equal(t, "Copy of Forest Lodge", copied["name"])
}
