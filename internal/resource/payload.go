// Copyright (c) 2026 Wild Oasis. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package resource

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/taibuivan/wildoasis/internal/platform/features"
	requestutil "github.com/taibuivan/wildoasis/internal/platform/request"
	"github.com/taibuivan/wildoasis/internal/platform/upload"
)

// DecodeJSON reads a JSON object body and keeps only the writable fields,
// cast to their schema kind. Unknown keys are dropped.
func (descriptor *Descriptor[T]) DecodeJSON(request *http.Request) (Values, error) {
	raw := map[string]json.RawMessage{}
	if err := requestutil.DecodeJSON(request, &raw); err != nil {
		return nil, err
	}
	return descriptor.CastRaw(raw)
}

// CastRaw keeps the writable fields of an already decoded JSON object, cast
// to their schema kind.
func (descriptor *Descriptor[T]) CastRaw(raw map[string]json.RawMessage) (Values, error) {
	values := Values{}
	for _, field := range descriptor.writable() {
		message, ok := raw[field.Name]
		if !ok {
			continue
		}
		value, err := features.CastJSON(field, message)
		if err != nil {
			return nil, err
		}
		values[field.Name] = value
	}

	return values, nil
}

// DecodeForm reads the writable fields from an already parsed form. When a
// field is repeated the last value wins.
func (descriptor *Descriptor[T]) DecodeForm(form map[string][]string) (Values, error) {
	values := Values{}
	for _, field := range descriptor.writable() {
		entries := form[field.Name]
		if len(entries) == 0 {
			continue
		}
		raw := entries[len(entries)-1]

		if field.Kind != features.KindString && strings.TrimSpace(raw) == "" {
			values[field.Name] = nil
			continue
		}

		value, err := features.Cast(field, raw)
		if err != nil {
			return nil, err
		}
		values[field.Name] = value
	}

	return values, nil
}

// DecodeUpload reads a create or update payload that may carry one image.
//
// Multipart bodies are parsed with [upload.Parse] and their text fields run
// through [Descriptor.DecodeForm]; any other body is read as JSON and the
// returned file is nil.
func (descriptor *Descriptor[T]) DecodeUpload(writer http.ResponseWriter, request *http.Request, field, invalidTypeMessage string) (Values, *upload.File, error) {
	if !upload.IsMultipart(request) {
		values, err := descriptor.DecodeJSON(request)
		return values, nil, err
	}

	form, err := upload.Parse(writer, request, field, invalidTypeMessage)
	if err != nil {
		return nil, nil, err
	}

	values, err := descriptor.DecodeForm(form.Values)
	if err != nil {
		return nil, nil, err
	}
	return values, form.File, nil
}
