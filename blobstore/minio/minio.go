// Package minio implements blobstore.BlobStore for MinIO and S3-compatible
// object storage.
package minio

import (
	"bytes"
	"context"
	"io"
	"path"
	"strings"

	"github.com/minio/minio-go/v7"

	"github.com/skmbw/stark/blobstore"
)

// Store implements blobstore.BlobStore on a MinIO bucket.
type Store struct {
	client *minio.Client
	bucket string
	prefix string
}

// NewStore creates a MinIO blob store. rootPrefix is prepended to all blob
// names (e.g. "snapshots/").
func NewStore(client *minio.Client, bucket, rootPrefix string) *Store {
	return &Store{client: client, bucket: bucket, prefix: rootPrefix}
}

func (s *Store) key(name string) string {
	return path.Join(s.prefix, name)
}

// Put writes a blob atomically.
func (s *Store) Put(ctx context.Context, name string, data []byte) error {
	_, err := s.client.PutObject(ctx, s.bucket, s.key(name),
		bytes.NewReader(data), int64(len(data)), minio.PutObjectOptions{})
	return err
}

// Get reads a whole blob.
func (s *Store) Get(ctx context.Context, name string) ([]byte, error) {
	obj, err := s.client.GetObject(ctx, s.bucket, s.key(name), minio.GetObjectOptions{})
	if err != nil {
		return nil, err
	}
	defer obj.Close()

	data, err := io.ReadAll(obj)
	if err != nil {
		errResp := minio.ToErrorResponse(err)
		if errResp.Code == "NoSuchKey" || errResp.Code == "NotFound" {
			return nil, blobstore.ErrNotFound
		}
		return nil, err
	}
	return data, nil
}

// Delete removes a blob.
func (s *Store) Delete(ctx context.Context, name string) error {
	err := s.client.RemoveObject(ctx, s.bucket, s.key(name), minio.RemoveObjectOptions{})
	if err != nil {
		errResp := minio.ToErrorResponse(err)
		if errResp.Code == "NoSuchKey" || errResp.Code == "NotFound" {
			return nil
		}
	}
	return err
}

// List returns the names of all blobs with the given prefix.
func (s *Store) List(ctx context.Context, prefix string) ([]string, error) {
	fullPrefix := s.key(prefix)

	var names []string
	for obj := range s.client.ListObjects(ctx, s.bucket, minio.ListObjectsOptions{
		Prefix:    fullPrefix,
		Recursive: true,
	}) {
		if obj.Err != nil {
			return nil, obj.Err
		}
		name := strings.TrimPrefix(obj.Key, s.prefix)
		name = strings.TrimPrefix(name, "/")
		if name != "" {
			names = append(names, name)
		}
	}
	return names, nil
}
