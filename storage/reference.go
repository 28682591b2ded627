package storage

import (
	"context"
	"errors"
	"fmt"
	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/aws/aws-sdk-go/service/s3/s3iface"
	"net/url"
	"strings"
	"time"
)

var (
	ErrUnsupportedScheme = errors.New("unsupported reference image scheme")
	ErrS3Disabled        = errors.New("s3 reference images are not configured")
)

// Resolver turns a clothing reference locator into a URL a provider can
// fetch. Product images kept in a private bucket are addressed as
// s3://bucket/key and get a short lived presigned URL.
type Resolver struct {
	s3  s3iface.S3API
	ttl time.Duration
}

// NewResolver accepts a nil client, in which case only public URLs resolve.
func NewResolver(client s3iface.S3API, ttl time.Duration) *Resolver {
	return &Resolver{s3: client, ttl: ttl}
}

func (r *Resolver) Resolve(_ context.Context, raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", nil
	}
	if strings.HasPrefix(raw, "data:") {
		return raw, nil
	}

	u, err := url.Parse(raw)
	if err != nil {
		return "", fmt.Errorf("parse reference image url: %w", err)
	}

	switch u.Scheme {
	case "http", "https":
		return raw, nil
	case "s3":
		return r.presign(u)
	}

	return "", fmt.Errorf("%w: %q", ErrUnsupportedScheme, u.Scheme)
}

func (r *Resolver) presign(u *url.URL) (string, error) {
	if r.s3 == nil {
		return "", ErrS3Disabled
	}

	key := strings.TrimPrefix(u.Path, "/")
	if u.Host == "" || key == "" {
		return "", fmt.Errorf("invalid s3 reference %q", u.String())
	}

	req, _ := r.s3.GetObjectRequest(&s3.GetObjectInput{
		Bucket: aws.String(u.Host),
		Key:    aws.String(key),
	})

	signed, err := req.Presign(r.ttl)
	if err != nil {
		return "", fmt.Errorf("presign s3 reference: %w", err)
	}

	return signed, nil
}
