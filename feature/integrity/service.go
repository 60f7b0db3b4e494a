package integrity

import (
	"context"
	"fmt"

	"object-signer/core/database"
	"object-signer/core/storage"
	"object-signer/feature/presign"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// BucketReport describes whether the configured bucket is reachable.
type BucketReport struct {
	Bucket string `json:"bucket"`
	Exists bool   `json:"exists"`
}

// AuditReport describes the state of the presign audit table.
type AuditReport struct {
	Enabled bool     `json:"enabled"`
	Missing []string `json:"missing,omitempty"`
}

// Service handles integrity checks.
type Service struct {
	client storage.Client
	bucket string
	logger *zap.Logger
	db     *gorm.DB
}

// NewService creates a new integrity service.
func NewService(client storage.Client, bucket string, logger *zap.Logger, db *gorm.DB) *Service {
	return &Service{
		client: client,
		bucket: bucket,
		logger: logger,
		db:     db,
	}
}

// CheckBucket verifies the configured bucket exists. A missing bucket is reported, not returned as an error.
func (s *Service) CheckBucket(ctx context.Context) (BucketReport, error) {
	report := BucketReport{Bucket: s.bucket}

	exists, err := s.client.BucketExists(ctx, s.bucket)
	if err != nil {
		return report, fmt.Errorf("failed to check bucket existence: %w", err)
	}
	report.Exists = exists

	if !exists {
		s.logger.Warn("Configured bucket does not exist", zap.String("bucket", s.bucket))
	}
	return report, nil
}

// CheckAudit verifies the audit table has every expected column.
// Without a database the report is returned with Enabled=false.
func (s *Service) CheckAudit(ctx context.Context) (AuditReport, error) {
	if s.db == nil {
		return AuditReport{}, nil
	}

	missing, err := database.MissingColumns(s.db.WithContext(ctx), presign.Audit{}.TableName(), presign.AuditColumns)
	if err != nil {
		return AuditReport{Enabled: true}, err
	}
	if len(missing) > 0 {
		s.logger.Warn("Audit table is missing columns", zap.Strings("missing", missing))
	}
	return AuditReport{Enabled: true, Missing: missing}, nil
}
