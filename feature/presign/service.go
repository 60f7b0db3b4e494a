package presign

import (
	"context"
	"time"

	"object-signer/core/storage"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// SignedURL is a presigned read link for a single object.
type SignedURL struct {
	Key       string    `json:"key"`
	URL       string    `json:"url"`
	ExpiresAt time.Time `json:"expires_at"`
}

// Service signs read URLs for objects in the configured bucket.
// It holds no per-call state and is safe for concurrent use.
type Service struct {
	client storage.Client
	bucket string
	expiry time.Duration
	logger *zap.Logger
	db     *gorm.DB
	now    func() time.Time
}

// NewService creates a new presign service around the shared storage client.
// db may be nil, in which case no audit records are written.
func NewService(client storage.Client, cfg storage.Config, logger *zap.Logger, db *gorm.DB) *Service {
	return &Service{
		client: client,
		bucket: cfg.Bucket,
		expiry: cfg.PresignExpiry(),
		logger: logger,
		db:     db,
		now:    time.Now,
	}
}

// DefaultExpiry returns the lifetime used when the caller does not pick one.
func (s *Service) DefaultExpiry() time.Duration {
	return s.expiry
}

// GeneratePresignedURL returns a URL granting read access to key for the default expiry.
func (s *Service) GeneratePresignedURL(ctx context.Context, key string) (string, error) {
	signed, err := s.Sign(ctx, key, 0)
	if err != nil {
		return "", err
	}
	return signed.URL, nil
}

// Sign returns a read URL for key valid for expiry, truncated to whole seconds.
// A non-positive expiry uses the default.
// Every failure is logged and returned as a *SigningError.
func (s *Service) Sign(ctx context.Context, key string, expiry time.Duration) (SignedURL, error) {
	if expiry <= 0 {
		expiry = s.expiry
	}

	if key == "" {
		return SignedURL{}, s.fail(ctx, key, ErrEmptyKey)
	}
	if expiry < time.Second || expiry > MaxExpiry {
		return SignedURL{}, s.fail(ctx, key, ErrInvalidExpiry)
	}
	// X-Amz-Expires is whole seconds; ExpiresAt must match what was signed.
	expiry = expiry.Truncate(time.Second)

	issuedAt := s.now()
	url, err := s.client.PresignGetObject(ctx, storage.ObjectRef{Bucket: s.bucket, Key: key}, expiry)
	if err != nil {
		return SignedURL{}, s.fail(ctx, key, err)
	}

	signed := SignedURL{
		Key:       key,
		URL:       url,
		ExpiresAt: issuedAt.Add(expiry).UTC(),
	}
	s.record(ctx, signed)

	return signed, nil
}

func (s *Service) fail(ctx context.Context, key string, cause error) error {
	fields := []zap.Field{
		zap.String("key", key),
		zap.String("bucket", s.bucket),
		zap.Error(cause),
	}
	if rid := rayIDFrom(ctx); rid != "" {
		fields = append(fields, zap.String("ray_id", rid))
	}
	s.logger.Error("Failed to generate presigned URL", fields...)

	return &SigningError{Key: key, Err: cause}
}

// record writes an audit row. Failures are logged and never fail the signing call.
func (s *Service) record(ctx context.Context, signed SignedURL) {
	if s.db == nil {
		return
	}

	entry := Audit{
		ObjectKey: signed.Key,
		Bucket:    s.bucket,
		ExpiresAt: signed.ExpiresAt,
		RayID:     rayIDFrom(ctx),
	}
	if err := s.db.WithContext(ctx).Create(&entry).Error; err != nil {
		s.logger.Warn("Failed to record presign audit entry",
			zap.String("key", signed.Key),
			zap.Error(err))
	}
}
