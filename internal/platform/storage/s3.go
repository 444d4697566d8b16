// Copyright (c) 2026 Wild Oasis. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package storage provides an S3-compatible object storage client for cabin
// images and user avatars. It wraps the AWS SDK v2 with path-style
// addressing so that MinIO, Ceph and Supabase storage all work unchanged.
package storage

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	s3types "github.com/aws/aws-sdk-go-v2/service/s3/types"
)

// Object is one file to store.
type Object struct {
	Bucket      string
	Key         string
	ContentType string
	Body        io.Reader
	Size        int64
}

// Uploader stores public objects and resolves their URL.
type Uploader interface {
	Upload(ctx context.Context, object Object) error
	PublicURL(bucket, key string) string
}

// putObjectAPI is the part of the S3 client used here.
type putObjectAPI interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// Client uploads objects to public buckets.
type Client struct {
	s3        putObjectAPI
	endpoint  string
	publicURL string
}

// New creates an S3 storage client with static credentials and path-style
// addressing.
func New(endpoint, region, accessKey, secretKey, publicURL string) *Client {
	endpoint = strings.TrimRight(endpoint, "/")

	s3Client := s3.New(s3.Options{
		Region:       region,
		BaseEndpoint: aws.String(endpoint),
		Credentials:  credentials.NewStaticCredentialsProvider(accessKey, secretKey, ""),
		UsePathStyle: true,
	})

	return newClient(s3Client, endpoint, publicURL)
}

func newClient(api putObjectAPI, endpoint, publicURL string) *Client {
	return &Client{
		s3:        api,
		endpoint:  strings.TrimRight(endpoint, "/"),
		publicURL: strings.TrimRight(publicURL, "/"),
	}
}

// Upload stores the object with a public-read ACL.
func (c *Client) Upload(ctx context.Context, object Object) error {
	_, err := c.s3.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(object.Bucket),
		Key:           aws.String(object.Key),
		Body:          object.Body,
		ContentLength: aws.Int64(object.Size),
		ContentType:   aws.String(object.ContentType),
		ACL:           s3types.ObjectCannedACLPublicRead,
	})
	if err != nil {
		return fmt.Errorf("storage_upload_failed: %s/%s: %w", object.Bucket, object.Key, err)
	}
	return nil
}

// PublicURL returns the URL clients use to fetch an object. The configured
// public URL (CDN or storage gateway) wins over the raw endpoint.
func (c *Client) PublicURL(bucket, key string) string {
	base := c.endpoint
	if c.publicURL != "" {
		base = c.publicURL
	}
	return base + "/" + bucket + "/" + key
}
