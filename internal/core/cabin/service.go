// Copyright (c) 2026 Wild Oasis. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package cabin

import (
	"context"
	"fmt"
	"strings"

	"github.com/taibuivan/wildoasis/internal/platform/apperr"
	"github.com/taibuivan/wildoasis/internal/platform/constants"
	"github.com/taibuivan/wildoasis/internal/platform/upload"
	"github.com/taibuivan/wildoasis/internal/resource"
)

// ImageStore saves uploaded images and returns their public URL.
type ImageStore interface {
	Save(ctx context.Context, bucket, name string, file *upload.File) (string, error)
}

// Service implements the cabin writes that involve an image.
type Service struct {
	repository resource.Repository[Cabin]
	images     ImageStore
}

// NewService creates a cabin service.
func NewService(repository resource.Repository[Cabin], images ImageStore) *Service {
	return &Service{repository: repository, images: images}
}

// # Writes

// Create stores the image named after the cabin and inserts the cabin.
func (service *Service) Create(ctx context.Context, values resource.Values, image *upload.File) (*Cabin, error) {
	if missingAny(values, "name", "description", "maxCapacity", "regularPrice") {
		return nil, apperr.BadRequest(MessageRequiredFields)
	}
	if image == nil {
		return nil, apperr.BadRequest(MessageImageRequired)
	}

	url, err := service.images.Save(ctx, constants.BucketCabinImages, strings.TrimSpace(values.String("name")), image)
	if err != nil {
		return nil, fmt.Errorf("cabin_image_upload_failed: %w", err)
	}
	values["image"] = url

	return service.repository.Create(ctx, values)
}

// Update applies a partial update. A new image is named after the cabin's
// current name, before any rename in values takes effect.
func (service *Service) Update(ctx context.Context, id string, values resource.Values, image *upload.File) (*Cabin, error) {
	current, err := service.repository.Get(ctx, id, nil)
	if err != nil {
		return nil, err
	}

	if image != nil {
		url, err := service.images.Save(ctx, constants.BucketCabinImages, current.Name, image)
		if err != nil {
			return nil, fmt.Errorf("cabin_image_upload_failed: %w", err)
		}
		values["image"] = url
	}

	return service.repository.Update(ctx, id, values)
}

// Duplicate copies a cabin as "Copy of <name>". The copy shares the image.
func (service *Service) Duplicate(ctx context.Context, id string) (*Cabin, error) {
	original, err := service.repository.Get(ctx, id, nil)
	if err != nil {
		return nil, err
	}

	return service.repository.Create(ctx, resource.Values{
		"name":         "Copy of " + original.Name,
		"description":  original.Description,
		"maxCapacity":  original.MaxCapacity,
		"regularPrice": original.RegularPrice,
		"discount":     original.Discount,
		"image":        original.Image,
	})
}

// missingAny reports whether any of names is absent or holds a zero value.
func missingAny(values resource.Values, names ...string) bool {
	for _, name := range names {
		switch value := values[name].(type) {
		case nil:
			return true
		case string:
			if strings.TrimSpace(value) == "" {
				return true
			}
		case int64:
			if value == 0 {
				return true
			}
		case float64:
			if value == 0 {
				return true
			}
		}
	}
	return false
}
