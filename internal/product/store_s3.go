// Copyright (c) 2026 Kaimono. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package product

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// # Object Storage

// imageURLTTL is the validity window of presigned image URLs. Long enough
// for a storefront page lifetime, short enough that links do not leak value.
const imageURLTTL = 15 * time.Minute

// S3ImageStore implements [ImageStore] against S3-compatible object storage.
type S3ImageStore struct {
	client  *s3.Client
	presign *s3.PresignClient
	bucket  string
}

// NewS3ImageStore constructs an image store bound to a single bucket.
func NewS3ImageStore(client *s3.Client, bucket string) *S3ImageStore {
	return &S3ImageStore{
		client:  client,
		presign: s3.NewPresignClient(client),
		bucket:  bucket,
	}
}

/*
Put uploads an image under the given key, replacing any previous object.

Parameters:
  - context: context.Context
  - key: string (Object-storage key)
  - contentType: string (MIME type, stored as object metadata)
  - body: io.Reader (Image bytes)

Returns:
  - error: Upload failures
*/
func (store *S3ImageStore) Put(context context.Context, key, contentType string, body io.Reader) error {
	_, err := store.client.PutObject(context, &s3.PutObjectInput{
		Bucket:      aws.String(store.bucket),
		Key:         aws.String(key),
		Body:        body,
		ContentType: aws.String(contentType),
	})

	if err != nil {
		return fmt.Errorf("s3_image_store_put_failed: %w", err)
	}

	return nil
}

/*
Delete removes the object under the given key.

Parameters:
  - context: context.Context
  - key: string

Returns:
  - error: Removal failures
*/
func (store *S3ImageStore) Delete(context context.Context, key string) error {
	_, err := store.client.DeleteObject(context, &s3.DeleteObjectInput{
		Bucket: aws.String(store.bucket),
		Key:    aws.String(key),
	})

	if err != nil {
		return fmt.Errorf("s3_image_store_delete_failed: %w", err)
	}

	return nil
}

/*
URL returns a time-limited, pre-signed GET URL for the object.

Parameters:
  - context: context.Context
  - key: string

Returns:
  - string: Presigned GET URL valid for imageURLTTL
  - error: Signing failures
*/
func (store *S3ImageStore) URL(context context.Context, key string) (string, error) {
	request, err := store.presign.PresignGetObject(context, &s3.GetObjectInput{
		Bucket: aws.String(store.bucket),
		Key:    aws.String(key),
	}, s3.WithPresignExpires(imageURLTTL))

	if err != nil {
		return "", fmt.Errorf("s3_image_store_presign_failed: %w", err)
	}

	return request.URL, nil
}
