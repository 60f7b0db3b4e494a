package presign

import (
	"context"
	"time"

	"gorm.io/gorm"
)

// Audit records that a link was issued. The signed URL itself is never stored.
type Audit struct {
	ID        uint64    `gorm:"primaryKey"`
	ObjectKey string    `gorm:"column:object_key;size:1024;not null"`
	Bucket    string    `gorm:"size:255;not null"`
	ExpiresAt time.Time `gorm:"not null;index"`
	RayID     string    `gorm:"column:ray_id;size:36"`
	CreatedAt time.Time
}

// TableName overrides the gorm default.
func (Audit) TableName() string {
	return "presign_audits"
}

// AuditColumns lists the columns the audit table must have.
var AuditColumns = []string{"id", "object_key", "bucket", "expires_at", "ray_id", "created_at"}

// Migrate creates or updates the audit table.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(&Audit{})
}

type rayIDKey struct{}

// WithRayID attaches a request's ray id to ctx so audit records and logs can carry it.
func WithRayID(ctx context.Context, rayID string) context.Context {
	if rayID == "" {
		return ctx
	}
	return context.WithValue(ctx, rayIDKey{}, rayID)
}

func rayIDFrom(ctx context.Context) string {
	rid, _ := ctx.Value(rayIDKey{}).(string)
	return rid
}
