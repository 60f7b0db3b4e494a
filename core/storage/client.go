package storage

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"time"
)

// ObjectRef identifies a single object within a bucket.
type ObjectRef struct {
	Bucket string
	Key    string
}

// Client defines the interface for storage operations.
// A single Client is built per process and shared; implementations must be safe for concurrent use.
type Client interface {
	// PresignGetObject returns a URL granting read access to ref until expiry elapses.
	// Signing is local; no request is sent to the provider.
	PresignGetObject(ctx context.Context, ref ObjectRef, expiry time.Duration) (string, error)
	// BucketExists checks if a bucket exists.
	BucketExists(ctx context.Context, bucketName string) (bool, error)
}

// Factory builds a Client from configuration.
type Factory func(cfg Config) (Client, error)

// NewClient validates the configuration and creates a client for the configured driver.
func NewClient(cfg Config) (Client, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	switch cfg.driver() {
	case DriverMinio:
		return newMinioClient(cfg)
	default:
		return newAWSClient(cfg)
	}
}

// newTransport returns an HTTP transport with strict timeouts shared by both drivers.
func newTransport(timeout time.Duration) *http.Transport {
	tr := &http.Transport{}
	applyTransportTimeouts(tr, timeout)
	return tr
}

// applyTransportTimeouts sets dial and idle limits on tr, leaving TLS settings untouched.
func applyTransportTimeouts(tr *http.Transport, timeout time.Duration) {
	tr.Proxy = http.ProxyFromEnvironment
	tr.DialContext = (&net.Dialer{
		Timeout:   timeout,
		KeepAlive: 30 * time.Second,
	}).DialContext
	tr.ForceAttemptHTTP2 = true
	tr.MaxIdleConns = 100
	tr.IdleConnTimeout = 90 * time.Second
	tr.TLSHandshakeTimeout = timeout
	tr.ExpectContinueTimeout = 1 * time.Second
	tr.ResponseHeaderTimeout = timeout
}

func validateRequest(ref ObjectRef, expiry time.Duration) error {
	if ref.Bucket == "" {
		return fmt.Errorf("bucket name is required")
	}
	if ref.Key == "" {
		return fmt.Errorf("object key is required")
	}
	if expiry <= 0 {
		return fmt.Errorf("expiry must be positive, got %s", expiry)
	}
	return nil
}
