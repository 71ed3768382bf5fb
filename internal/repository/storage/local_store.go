package storage

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"banjara-intake-backend/internal/domain"
)

// DefaultLocalBaseURL is where the API serves the local store
const DefaultLocalBaseURL = "/files"

// LocalStore writes attachments below a directory, one subdirectory per bucket.
type LocalStore struct {
	root    string
	baseURL string
}

func NewLocalStore(root, publicBaseURL string) (*LocalStore, error) {
	if root == "" {
		return nil, fmt.Errorf("LOCAL_STORAGE_PATH is required for the local storage provider")
	}
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("create storage root: %w", err)
	}
	if publicBaseURL == "" {
		publicBaseURL = DefaultLocalBaseURL
	}
	return &LocalStore{root: root, baseURL: publicBaseURL}, nil
}

// Root is the directory served under the public base URL.
func (s *LocalStore) Root() string {
	return s.root
}

func (s *LocalStore) Upload(ctx context.Context, bucket, fileName string, data []byte, contentType string) (domain.AttachmentRef, error) {
	if err := validName(bucket, fileName); err != nil {
		return domain.AttachmentRef{}, err
	}
	if err := ctx.Err(); err != nil {
		return domain.AttachmentRef{}, err
	}

	dir := filepath.Join(s.root, bucket)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return domain.AttachmentRef{}, err
	}

	// O_EXCL keeps an existing object untouched
	f, err := os.OpenFile(filepath.Join(dir, fileName), os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return domain.AttachmentRef{}, err
	}
	if _, err := f.Write(data); err != nil {
		f.Close()
		return domain.AttachmentRef{}, err
	}
	if err := f.Close(); err != nil {
		return domain.AttachmentRef{}, err
	}

	return domain.AttachmentRef{Bucket: bucket, Key: fileName, URL: s.PublicURL(bucket, fileName)}, nil
}

func (s *LocalStore) PublicURL(bucket, fileName string) string {
	return joinURL(s.baseURL, bucket, fileName)
}
