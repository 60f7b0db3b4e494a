package integrity

import (
	"context"
	"testing"
	"time"

	"object-signer/core/storage/mocks"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
)

func setupMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("Failed to open mock sql db: %v", err)
	}

	dialector := mysql.New(mysql.Config{
		Conn:                      db,
		SkipInitializeWithVersion: true,
	})

	gormDB, err := gorm.Open(dialector, &gorm.Config{})
	if err != nil {
		t.Fatalf("Failed to open gorm db: %v", err)
	}

	return gormDB, mock
}

func auditColumnRows(fields ...string) *sqlmock.Rows {
	rows := sqlmock.NewRows([]string{"Field", "Type", "Null", "Key", "Default", "Extra"})
	for _, f := range fields {
		rows.AddRow(f, "varchar(255)", "NO", "", nil, "")
	}
	return rows
}

func TestCheckBucket(t *testing.T) {
	t.Run("Exists", func(t *testing.T) {
		mockClient := new(mocks.Client)
		mockClient.On("BucketExists", mock.Anything, "assets").Return(true, nil)

		svc := NewService(mockClient, "assets", zap.NewNop(), nil)
		report, err := svc.CheckBucket(context.Background())
		require.NoError(t, err)
		assert.Equal(t, BucketReport{Bucket: "assets", Exists: true}, report)
	})

	t.Run("Missing", func(t *testing.T) {
		mockClient := new(mocks.Client)
		mockClient.On("BucketExists", mock.Anything, "assets").Return(false, nil)

		svc := NewService(mockClient, "assets", zap.NewNop(), nil)
		report, err := svc.CheckBucket(context.Background())
		require.NoError(t, err)
		assert.False(t, report.Exists)
	})

	t.Run("Error", func(t *testing.T) {
		mockClient := new(mocks.Client)
		mockClient.On("BucketExists", mock.Anything, "assets").Return(false, assert.AnError)

		svc := NewService(mockClient, "assets", zap.NewNop(), nil)
		_, err := svc.CheckBucket(context.Background())
		assert.ErrorIs(t, err, assert.AnError)
	})
}

func TestCheckAudit(t *testing.T) {
	t.Run("NoDatabase", func(t *testing.T) {
		svc := NewService(new(mocks.Client), "assets", zap.NewNop(), nil)
		report, err := svc.CheckAudit(context.Background())
		require.NoError(t, err)
		assert.False(t, report.Enabled)
	})

	t.Run("Complete", func(t *testing.T) {
		db, sqlMock := setupMockDB(t)
		sqlMock.ExpectQuery("SHOW COLUMNS FROM `presign_audits`").
			WillReturnRows(auditColumnRows("id", "object_key", "bucket", "expires_at", "ray_id", "created_at"))

		svc := NewService(new(mocks.Client), "assets", zap.NewNop(), db)
		report, err := svc.CheckAudit(context.Background())
		require.NoError(t, err)
		assert.True(t, report.Enabled)
		assert.Empty(t, report.Missing)
	})

	t.Run("MissingColumns", func(t *testing.T) {
		db, sqlMock := setupMockDB(t)
		sqlMock.ExpectQuery("SHOW COLUMNS").WillReturnRows(auditColumnRows("id", "object_key"))

		svc := NewService(new(mocks.Client), "assets", zap.NewNop(), db)
		report, err := svc.CheckAudit(context.Background())
		require.NoError(t, err)
		assert.Equal(t, []string{"bucket", "expires_at", "ray_id", "created_at"}, report.Missing)
	})

	t.Run("QueryError", func(t *testing.T) {
		db, sqlMock := setupMockDB(t)
		sqlMock.ExpectQuery("SHOW COLUMNS").WillReturnError(assert.AnError)

		svc := NewService(new(mocks.Client), "assets", zap.NewNop(), db)
		_, err := svc.CheckAudit(context.Background())
		assert.Error(t, err)
	})

	t.Run("CanceledContext", func(t *testing.T) {
		db, sqlMock := setupMockDB(t)
		sqlMock.ExpectQuery("SHOW COLUMNS").
			WillDelayFor(time.Second).
			WillReturnRows(auditColumnRows("id"))

		ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
		defer cancel()

		svc := NewService(new(mocks.Client), "assets", zap.NewNop(), db)
		start := time.Now()
		_, err := svc.CheckAudit(ctx)
		assert.Error(t, err)
		assert.Less(t, time.Since(start), time.Second)
	})
}
