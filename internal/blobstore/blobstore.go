// Package blobstore wraps the storage bucket holding uploaded video files.
package blobstore

import (
	"context"
	"io"

	"github.com/sirupsen/logrus"
	storage_go "github.com/supabase-community/storage-go"
)

// Store is the binary object surface consumed by the upload orchestrator.
//
// Remove is deliberately a no-throw operation: blob cleanup is best-effort
// everywhere it is used and must never fail a visible operation.
type Store interface {
	// Upload stores content at path without overwriting an existing object.
	Upload(ctx context.Context, path string, content io.Reader, contentType string) error

	// PublicURL resolves the publicly fetchable URL for a stored object.
	PublicURL(path string) string

	// Remove deletes objects by path, swallowing failures.
	Remove(paths ...string)
}

type supabaseBlobStore struct {
	storage *storage_go.Client
	bucket  string
	log     *logrus.Logger
}

// New returns a Store over the given storage bucket.
func New(storage *storage_go.Client, bucket string, log *logrus.Logger) Store {
	return &supabaseBlobStore{storage: storage, bucket: bucket, log: log}
}

func (s *supabaseBlobStore) Upload(ctx context.Context, path string, content io.Reader, contentType string) error {
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	cacheControl := "3600"
	upsert := false

	_, err := s.storage.UploadFile(s.bucket, path, content, storage_go.FileOptions{
		CacheControl: &cacheControl,
		ContentType:  &contentType,
		Upsert:       &upsert,
	})
	return err
}

func (s *supabaseBlobStore) PublicURL(path string) string {
	return s.storage.GetPublicUrl(s.bucket, path).SignedURL
}

func (s *supabaseBlobStore) Remove(paths ...string) {
	if len(paths) == 0 {
		return
	}
	if _, err := s.storage.RemoveFile(s.bucket, paths); err != nil {
		s.log.WithFields(logrus.Fields{
			"bucket": s.bucket,
			"paths":  paths,
		}).WithError(err).Warn("Best-effort blob removal failed")
	}
}
