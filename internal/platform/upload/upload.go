// Copyright (c) 2026 Wild Oasis. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package upload handles single-image multipart uploads.

A request may carry at most one file, in one expected form field. The file
type is sniffed from its content, never trusted from the client, and only
images are accepted. Accepted files are stored in a public bucket under

	<name with "/" replaced by "-">-<unix millis>.<image subtype>

and the public URL is returned for the entity to reference.
*/
package upload

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gabriel-vasile/mimetype"

	"github.com/taibuivan/wildoasis/internal/platform/apperr"
	"github.com/taibuivan/wildoasis/internal/platform/constants"
	"github.com/taibuivan/wildoasis/internal/platform/storage"
)

// ErrFileTooLarge is returned when the multipart body exceeds [constants.MaxUploadBytes].
var ErrFileTooLarge = apperr.PayloadTooLarge("File too large")

// File is an uploaded image held in memory.
type File struct {
	Data        []byte
	ContentType string
	Extension   string
}

// Form is a parsed multipart request.
type Form struct {
	Values map[string][]string
	File   *File
}

// IsMultipart reports whether the request carries a multipart body.
func IsMultipart(request *http.Request) bool {
	mediaType, _, err := mime.ParseMediaType(request.Header.Get("Content-Type"))
	return err == nil && mediaType == "multipart/form-data"
}

// Parse reads a multipart request that may carry one image in field.
//
// Files in any other field are rejected with 400 "Incorrect field name".
// A file whose sniffed type is not an image is rejected with 415 and
// invalidTypeMessage.
func Parse(writer http.ResponseWriter, request *http.Request, field, invalidTypeMessage string) (*Form, error) {
	request.Body = http.MaxBytesReader(writer, request.Body, constants.MaxUploadBytes)

	if err := request.ParseMultipartForm(constants.MaxUploadBytes); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return nil, ErrFileTooLarge
		}
		return nil, apperr.BadRequest("Invalid multipart form data").WithCause(err)
	}

	form := &Form{Values: request.MultipartForm.Value}

	for name, headers := range request.MultipartForm.File {
		if name != field || len(headers) > 1 {
			return nil, apperr.BadRequest(fmt.Sprintf("Incorrect field name '%s'.", name))
		}

		opened, err := headers[0].Open()
		if err != nil {
			return nil, fmt.Errorf("upload_open_failed: %w", err)
		}
		data, err := io.ReadAll(opened)
		_ = opened.Close()
		if err != nil {
			return nil, fmt.Errorf("upload_read_failed: %w", err)
		}

		file, err := sniff(data, invalidTypeMessage)
		if err != nil {
			return nil, err
		}
		form.File = file
	}

	return form, nil
}

// sniff detects the content type and keeps only images.
func sniff(data []byte, invalidTypeMessage string) (*File, error) {
	detected := mimetype.Detect(data)
	contentType, _, _ := strings.Cut(detected.String(), ";")

	subtype, isImage := strings.CutPrefix(contentType, "image/")
	if !isImage {
		return nil, apperr.UnsupportedMediaType(invalidTypeMessage)
	}

	return &File{Data: data, ContentType: contentType, Extension: subtype}, nil
}

// ObjectKey builds the storage key for an image named after name.
func ObjectKey(name string, now time.Time, extension string) string {
	return strings.ReplaceAll(name, "/", "-") + "-" + strconv.FormatInt(now.UnixMilli(), 10) + "." + extension
}

// Images stores uploaded images and returns their public URL.
type Images struct {
	uploader storage.Uploader
	now      func() time.Time
}

// NewImages creates an image store on top of uploader.
func NewImages(uploader storage.Uploader) *Images {
	return &Images{uploader: uploader, now: time.Now}
}

// WithClock replaces the time source. Used by tests.
func (images *Images) WithClock(now func() time.Time) *Images {
	images.now = now
	return images
}

// Save uploads file to bucket under a key derived from name.
func (images *Images) Save(ctx context.Context, bucket, name string, file *File) (string, error) {
	key := ObjectKey(name, images.now(), file.Extension)

	err := images.uploader.Upload(ctx, storage.Object{
		Bucket:      bucket,
		Key:         key,
		ContentType: file.ContentType,
		Body:        bytes.NewReader(file.Data),
		Size:        int64(len(file.Data)),
	})
	if err != nil {
		return "", err
	}

	return images.uploader.PublicURL(bucket, key), nil
}
