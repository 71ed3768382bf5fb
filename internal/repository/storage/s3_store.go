package storage

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"banjara-intake-backend/internal/domain"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// S3Flavor is the S3-compatible service behind the store
type S3Flavor string

const (
	S3FlavorAWS    S3Flavor = "aws"
	S3FlavorWasabi S3Flavor = "wasabi"
	// S3FlavorCustom covers R2, MinIO and other endpoints given explicitly
	S3FlavorCustom S3Flavor = "custom"
)

// S3Config holds configuration for S3-compatible storage
type S3Config struct {
	Flavor          S3Flavor
	AccessKeyID     string
	SecretAccessKey string
	Region          string
	Bucket          string
	// Endpoint is required for custom, optional for wasabi
	Endpoint string
}

// WasabiEndpoints maps regions to Wasabi endpoints
var WasabiEndpoints = map[string]string{
	"us-east-1":      "s3.us-east-1.wasabisys.com",
	"us-east-2":      "s3.us-east-2.wasabisys.com",
	"us-west-1":      "s3.us-west-1.wasabisys.com",
	"eu-central-1":   "s3.eu-central-1.wasabisys.com",
	"eu-west-1":      "s3.eu-west-1.wasabisys.com",
	"ap-northeast-1": "s3.ap-northeast-1.wasabisys.com",
	"ap-southeast-1": "s3.ap-southeast-1.wasabisys.com",
	"ap-southeast-2": "s3.ap-southeast-2.wasabisys.com",
}

// endpoint returns the base endpoint URL, or "" for plain AWS.
func (c S3Config) endpoint() string {
	switch c.Flavor {
	case S3FlavorWasabi:
		if c.Endpoint != "" {
			return withScheme(c.Endpoint)
		}
		if ep, ok := WasabiEndpoints[c.Region]; ok {
			return "https://" + ep
		}
		return "https://s3.ap-southeast-1.wasabisys.com"
	case S3FlavorCustom:
		return withScheme(c.Endpoint)
	default:
		if c.Endpoint != "" {
			return withScheme(c.Endpoint)
		}
		return ""
	}
}

func withScheme(endpoint string) string {
	if endpoint == "" || strings.Contains(endpoint, "://") {
		return endpoint
	}
	return "https://" + endpoint
}

type objectPutter interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// S3Store keeps every logical bucket as a key prefix inside one physical bucket.
type S3Store struct {
	client  objectPutter
	cfg     S3Config
	baseURL string
}

func NewS3Store(ctx context.Context, cfg S3Config, publicBaseURL string) (*S3Store, error) {
	if cfg.Bucket == "" {
		return nil, fmt.Errorf("S3_BUCKET is required for the s3 storage provider")
	}
	if cfg.Flavor == S3FlavorCustom && cfg.Endpoint == "" {
		return nil, fmt.Errorf("S3_ENDPOINT is required for a custom S3 provider")
	}

	awsCfg, err := config.LoadDefaultConfig(ctx,
		config.WithRegion(cfg.Region),
		config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			cfg.AccessKeyID,
			cfg.SecretAccessKey,
			"",
		)),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	endpoint := cfg.endpoint()
	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if endpoint != "" {
			// Wasabi and most compatible services need path-style addressing
			o.BaseEndpoint = aws.String(endpoint)
			o.UsePathStyle = true
		}
	})

	return newS3Store(client, cfg, publicBaseURL), nil
}

func newS3Store(client objectPutter, cfg S3Config, publicBaseURL string) *S3Store {
	return &S3Store{client: client, cfg: cfg, baseURL: publicBaseURL}
}

func (s *S3Store) Upload(ctx context.Context, bucket, fileName string, data []byte, contentType string) (domain.AttachmentRef, error) {
	if err := validName(bucket, fileName); err != nil {
		return domain.AttachmentRef{}, err
	}

	key := bucket + "/" + fileName
	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(s.cfg.Bucket),
		Key:           aws.String(key),
		Body:          bytes.NewReader(data),
		ContentType:   aws.String(contentType),
		ContentLength: aws.Int64(int64(len(data))),
	})
	if err != nil {
		return domain.AttachmentRef{}, fmt.Errorf("put %s: %w", key, err)
	}

	return domain.AttachmentRef{Bucket: bucket, Key: fileName, URL: s.PublicURL(bucket, fileName)}, nil
}

func (s *S3Store) PublicURL(bucket, fileName string) string {
	if s.baseURL != "" {
		return joinURL(s.baseURL, bucket, fileName)
	}
	if ep := s.cfg.endpoint(); ep != "" {
		return joinURL(ep, s.cfg.Bucket, bucket, fileName)
	}
	return fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s/%s", s.cfg.Bucket, s.cfg.Region, bucket, fileName)
}
