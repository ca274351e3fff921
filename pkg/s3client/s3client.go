package s3client

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	s3types "github.com/aws/aws-sdk-go-v2/service/s3/types"
)

const (
	// Scheme is the URL scheme used to address objects, as in s3://bucket/key.
	Scheme = "s3"

	maxObjectSize = 1024 * 1024 // 1 MB
	defaultRegion = "us-southeast-1"
)

var ErrNotFound = errors.New("object not found")

func isNotFound(err error) bool {
	var nsk *s3types.NoSuchKey
	return errors.As(err, &nsk) || strings.Contains(err.Error(), "NoSuchKey")
}

type Client struct {
	s3       *s3.Client
	endpoint string
	log      *slog.Logger
}

// New builds a client for an S3-compatible endpoint from the S3_KEY,
// S3_SECRET and S3_ENDPOINT environment variables. S3_REGION is optional.
func New() (*Client, error) {
	key := os.Getenv("S3_KEY")
	if key == "" {
		return nil, fmt.Errorf("S3_KEY env var is undefined")
	}
	secret := os.Getenv("S3_SECRET")
	if secret == "" {
		return nil, fmt.Errorf("S3_SECRET env var is undefined")
	}
	endpoint := os.Getenv("S3_ENDPOINT")
	if endpoint == "" {
		return nil, fmt.Errorf("S3_ENDPOINT env var is undefined")
	}
	region := os.Getenv("S3_REGION")
	if region == "" {
		region = defaultRegion
	}

	client := s3.New(s3.Options{
		Region:           region,
		BaseEndpoint:     &endpoint,
		Credentials:      credentials.NewStaticCredentialsProvider(key, secret, ""),
		UsePathStyle:     true,
		RetryMaxAttempts: 5,
	})

	return &Client{
		s3:       client,
		endpoint: endpoint,
		log:      slog.Default(),
	}, nil
}

// NewDirect creates a Client with explicitly provided dependencies.
func NewDirect(s3Client *s3.Client, endpoint string, log *slog.Logger) *Client {
	return &Client{
		s3:       s3Client,
		endpoint: endpoint,
		log:      log,
	}
}

// IsURL reports whether raw addresses an object, i.e. uses the s3:// scheme.
func IsURL(raw string) bool {
	return strings.HasPrefix(raw, Scheme+"://")
}

// ParseURL splits s3://bucket/path/to/key into its bucket and key.
func ParseURL(raw string) (bucket, key string, err error) {
	parsed, err := url.Parse(raw)
	if err != nil {
		return "", "", fmt.Errorf("invalid object URL: %w", err)
	}
	if parsed.Scheme != Scheme {
		return "", "", fmt.Errorf("unsupported URL scheme %q", parsed.Scheme)
	}
	bucket = parsed.Host
	key = strings.TrimPrefix(parsed.Path, "/")
	if bucket == "" || key == "" {
		return "", "", fmt.Errorf("object URL %q needs both a bucket and a key", raw)
	}
	return bucket, key, nil
}

// FetchObject reads a whole object. Objects larger than 1 MB are rejected.
func (c *Client) FetchObject(ctx context.Context, bucket, key string) ([]byte, error) {
	c.log.Info("Fetching object", "endpoint", c.endpoint, "bucket", bucket, "key", key)

	start := time.Now()
	out, err := c.s3.GetObject(ctx, &s3.GetObjectInput{
		Bucket: &bucket,
		Key:    &key,
	})
	if err != nil {
		if isNotFound(err) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("fetching object from s3: %w", err)
	}
	defer out.Body.Close()

	data, err := io.ReadAll(io.LimitReader(out.Body, maxObjectSize+1))
	if err != nil {
		return nil, fmt.Errorf("reading object body: %w", err)
	}
	if len(data) > maxObjectSize {
		return nil, fmt.Errorf("object %s/%s exceeds %d bytes", bucket, key, maxObjectSize)
	}

	c.log.Info(fmt.Sprintf("s3 fetch time: %dms", time.Since(start).Milliseconds()),
		"bucket", bucket, "key", key, "size", len(data))
	return data, nil
}
