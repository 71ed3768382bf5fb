package storage

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"banjara-intake-backend/internal/domain"
)

// SupabaseStore uploads through the Supabase Storage REST API.
type SupabaseStore struct {
	baseURL    string
	serviceKey string
	publicURL  string
	client     *http.Client
}

func NewSupabaseStore(baseURL, serviceKey, publicBaseURL string, timeout time.Duration) (*SupabaseStore, error) {
	if baseURL == "" || serviceKey == "" {
		return nil, fmt.Errorf("SUPABASE_URL and SUPABASE_SERVICE_KEY are required for the supabase storage provider")
	}
	if _, err := url.Parse(baseURL); err != nil {
		return nil, fmt.Errorf("invalid SUPABASE_URL: %w", err)
	}
	return &SupabaseStore{
		baseURL:    baseURL,
		serviceKey: serviceKey,
		publicURL:  publicBaseURL,
		client:     &http.Client{Timeout: timeout},
	}, nil
}

func (s *SupabaseStore) Upload(ctx context.Context, bucket, fileName string, data []byte, contentType string) (domain.AttachmentRef, error) {
	if err := validName(bucket, fileName); err != nil {
		return domain.AttachmentRef{}, err
	}

	endpoint := joinURL(s.baseURL, "storage/v1/object", url.PathEscape(bucket), url.PathEscape(fileName))
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(data))
	if err != nil {
		return domain.AttachmentRef{}, err
	}
	req.Header.Set("Authorization", "Bearer "+s.serviceKey)
	req.Header.Set("apikey", s.serviceKey)
	req.Header.Set("Content-Type", contentType)
	// Names are unique per upload; never overwrite
	req.Header.Set("x-upsert", "false")

	resp, err := s.client.Do(req)
	if err != nil {
		return domain.AttachmentRef{}, fmt.Errorf("upload to %s: %w", bucket, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return domain.AttachmentRef{}, fmt.Errorf("upload to %s: status %d: %s", bucket, resp.StatusCode, bytes.TrimSpace(body))
	}

	return domain.AttachmentRef{Bucket: bucket, Key: fileName, URL: s.PublicURL(bucket, fileName)}, nil
}

func (s *SupabaseStore) PublicURL(bucket, fileName string) string {
	if s.publicURL != "" {
		return joinURL(s.publicURL, bucket, fileName)
	}
	return joinURL(s.baseURL, "storage/v1/object/public", url.PathEscape(bucket), url.PathEscape(fileName))
}
