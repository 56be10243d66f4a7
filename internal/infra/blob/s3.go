// Package blob uploads artifact images to S3 compatible object storage.
package blob

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"hogwarts-artifacts/config"
	"hogwarts-artifacts/internal/apperr"

	"github.com/aws/aws-sdk-go-v2/aws"
	awshttp "github.com/aws/aws-sdk-go-v2/aws/transport/http"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

const uploadFailed = "Failed to upload image to blob storage"

type S3Store struct {
	api           *s3.Client
	endpoint      string
	region        string
	pathStyle     bool
	publicBaseURL string
}

func NewS3Store(ctx context.Context, cfg config.S3Config) (*S3Store, error) {
	opts := []func(*awsconfig.LoadOptions) error{
		awsconfig.WithRegion(cfg.Region),
		awsconfig.WithHTTPClient(awshttp.NewBuildableClient().WithTimeout(30 * time.Second)),
	}
	if cfg.AccessKey != "" && cfg.SecretKey != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, ""),
		))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}

	endpoint := strings.TrimRight(strings.TrimSpace(cfg.Endpoint), "/")
	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		o.HTTPClient = newTracedClient(awsCfg.HTTPClient)
		o.UsePathStyle = cfg.ForcePathStyle
		o.RequestChecksumCalculation = aws.RequestChecksumCalculationWhenRequired
		if endpoint != "" {
			o.BaseEndpoint = aws.String(endpoint)
		}
	})

	return &S3Store{
		api:           client,
		endpoint:      endpoint,
		region:        cfg.Region,
		pathStyle:     cfg.ForcePathStyle,
		publicBaseURL: strings.TrimRight(cfg.PublicBaseURL, "/"),
	}, nil
}

// tracedClient sends SDK requests through an otelhttp transport. It wraps the
// client only after LoadDefaultConfig has applied AWS_CA_BUNDLE, which needs
// the concrete buildable client.
type tracedClient struct {
	rt http.RoundTripper
}

func newTracedClient(inner aws.HTTPClient) aws.HTTPClient {
	return tracedClient{rt: otelhttp.NewTransport(doerFunc(inner.Do))}
}

func (c tracedClient) Do(req *http.Request) (*http.Response, error) {
	return c.rt.RoundTrip(req)
}

type doerFunc func(*http.Request) (*http.Response, error)

func (f doerFunc) RoundTrip(req *http.Request) (*http.Response, error) {
	return f(req)
}

// Upload stores data in container under a fresh UUID name that keeps the
// extension of originalName, and returns the object's public URL.
func (s *S3Store) Upload(ctx context.Context, container, originalName string, data io.Reader, size int64) (string, error) {
	key := NewObjectName(originalName)

	body, ok := data.(io.ReadSeeker)
	if !ok {
		buf, err := io.ReadAll(data)
		if err != nil {
			return "", storageError(err)
		}
		body = bytes.NewReader(buf)
		size = int64(len(buf))
	}

	input := &s3.PutObjectInput{
		Bucket:        aws.String(container),
		Key:           aws.String(key),
		Body:          body,
		ContentLength: aws.Int64(size),
	}
	if ct := contentTypeFor(key); ct != "" {
		input.ContentType = aws.String(ct)
	}

	if _, err := s.api.PutObject(ctx, input); err != nil {
		return "", storageError(err)
	}
	return s.ObjectURL(container, key), nil
}

func (s *S3Store) ObjectURL(container, key string) string {
	switch {
	case s.publicBaseURL != "":
		return fmt.Sprintf("%s/%s/%s", s.publicBaseURL, container, key)
	case s.endpoint != "" && s.pathStyle:
		return fmt.Sprintf("%s/%s/%s", s.endpoint, container, key)
	default:
		return fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s", container, s.region, key)
	}
}

func NewObjectName(originalName string) string {
	return uuid.NewString() + strings.ToLower(filepath.Ext(originalName))
}

func contentTypeFor(key string) string {
	switch filepath.Ext(key) {
	case ".jpg", ".jpeg":
		return "image/jpeg"
	case ".png":
		return "image/png"
	case ".gif":
		return "image/gif"
	case ".webp":
		return "image/webp"
	default:
		return ""
	}
}

func storageError(err error) error {
	return &apperr.Error{
		Kind:    apperr.KindUpstream,
		Status:  http.StatusInternalServerError,
		Message: uploadFailed,
		Data:    err.Error(),
		Err:     err,
	}
}
