package storage

import (
	"context"
	"fmt"
	"path"
	"strings"
	"time"

	"banjara-intake-backend/internal/domain"
)

// Providers
const (
	ProviderS3       = "s3"
	ProviderSupabase = "supabase"
	ProviderLocal    = "local"
)

// Options selects and configures the attachment store backend.
type Options struct {
	Provider string

	S3 S3Config

	SupabaseURL        string
	SupabaseServiceKey string

	LocalPath string

	// PublicBaseURL overrides the provider's public URL scheme when set
	// (CDN in front of the bucket, or the API's own /files route for local).
	PublicBaseURL string
	Timeout       time.Duration
}

// NewAttachmentStore builds the store named by opts.Provider.
func NewAttachmentStore(ctx context.Context, opts Options) (domain.AttachmentStore, error) {
	if opts.Timeout <= 0 {
		opts.Timeout = 30 * time.Second
	}

	var (
		store domain.AttachmentStore
		err   error
	)
	switch strings.ToLower(opts.Provider) {
	case ProviderS3:
		store, err = NewS3Store(ctx, opts.S3, opts.PublicBaseURL)
	case ProviderSupabase:
		store, err = NewSupabaseStore(opts.SupabaseURL, opts.SupabaseServiceKey, opts.PublicBaseURL, opts.Timeout)
	case ProviderLocal, "":
		store, err = NewLocalStore(opts.LocalPath, opts.PublicBaseURL)
	default:
		err = fmt.Errorf("unknown storage provider %q", opts.Provider)
	}
	if err != nil {
		return nil, err
	}
	return store, nil
}

// validName rejects names that could escape the bucket.
func validName(bucket, fileName string) error {
	if bucket == "" || strings.ContainsAny(bucket, `/\`) || bucket == "." || bucket == ".." {
		return fmt.Errorf("invalid bucket %q", bucket)
	}
	if fileName == "" || strings.ContainsAny(fileName, `/\`) || path.Clean(fileName) != fileName || fileName == "." || fileName == ".." {
		return fmt.Errorf("invalid file name %q", fileName)
	}
	return nil
}

func joinURL(base string, parts ...string) string {
	return strings.TrimRight(base, "/") + "/" + strings.Join(parts, "/")
}
