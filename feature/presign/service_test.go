package presign

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"sync"
	"testing"
	"time"

	"object-signer/core/storage"
	"object-signer/core/storage/mocks"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
)

func testConfig() storage.Config {
	return storage.Config{
		Region:               "us-east-1",
		AccessKeyID:          "AKIATESTKEY",
		SecretAccessKey:      "testsecret",
		Bucket:               "test-bucket",
		Driver:               storage.DriverAWS,
		PresignExpirySeconds: 86400,
	}
}

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

// fakeClient returns deterministic URLs and counts calls without locking through testify.
type fakeClient struct {
	mu    sync.Mutex
	calls int
}

func (f *fakeClient) PresignGetObject(ctx context.Context, ref storage.ObjectRef, expiry time.Duration) (string, error) {
	f.mu.Lock()
	f.calls++
	f.mu.Unlock()
	return fmt.Sprintf("https://%s.example.com/%s?X-Amz-Expires=%d", ref.Bucket, ref.Key, int(expiry.Seconds())), nil
}

func (f *fakeClient) BucketExists(ctx context.Context, bucketName string) (bool, error) {
	return true, nil
}

func TestGeneratePresignedURL(t *testing.T) {
	mockClient := new(mocks.Client)
	svc := NewService(mockClient, testConfig(), zap.NewNop(), nil)

	ref := storage.ObjectRef{Bucket: "test-bucket", Key: "docs/report.pdf"}
	mockClient.On("PresignGetObject", mock.Anything, ref, 24*time.Hour).
		Return("https://signed.example.com/docs/report.pdf", nil)

	u, err := svc.GeneratePresignedURL(context.Background(), "docs/report.pdf")
	require.NoError(t, err)
	assert.Equal(t, "https://signed.example.com/docs/report.pdf", u)
	mockClient.AssertExpectations(t)
}

func TestGeneratePresignedURL_RealSigner(t *testing.T) {
	client, err := storage.NewClient(testConfig())
	require.NoError(t, err)

	svc := NewService(client, testConfig(), zap.NewNop(), nil)

	signed, err := svc.GeneratePresignedURL(context.Background(), "photos/cat.jpg")
	require.NoError(t, err)

	u, err := url.Parse(signed)
	require.NoError(t, err)
	assert.Contains(t, u.Host+u.Path, "test-bucket")
	assert.True(t, strings.HasSuffix(u.Path, "photos/cat.jpg"))
	assert.Equal(t, "86400", u.Query().Get("X-Amz-Expires"))

	other, err := svc.GeneratePresignedURL(context.Background(), "photos/dog.jpg")
	require.NoError(t, err)
	assert.NotEqual(t, signed, other)
}

func TestSign_ExpiresAt(t *testing.T) {
	fixed := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	svc := NewService(&fakeClient{}, testConfig(), zap.NewNop(), nil)
	svc.now = func() time.Time { return fixed }

	signed, err := svc.Sign(context.Background(), "a.txt", 0)
	require.NoError(t, err)
	assert.Equal(t, "a.txt", signed.Key)
	assert.Equal(t, fixed.Add(24*time.Hour), signed.ExpiresAt)
	assert.Contains(t, signed.URL, "X-Amz-Expires=86400")

	signed, err = svc.Sign(context.Background(), "a.txt", time.Hour)
	require.NoError(t, err)
	assert.Equal(t, fixed.Add(time.Hour), signed.ExpiresAt)
	assert.Contains(t, signed.URL, "X-Amz-Expires=3600")
}

func TestSign_TruncatesToWholeSeconds(t *testing.T) {
	fixed := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	svc := NewService(&fakeClient{}, testConfig(), zap.NewNop(), nil)
	svc.now = func() time.Time { return fixed }

	signed, err := svc.Sign(context.Background(), "a.txt", 90*time.Second+700*time.Millisecond)
	require.NoError(t, err)
	assert.Contains(t, signed.URL, "X-Amz-Expires=90")
	assert.Equal(t, fixed.Add(90*time.Second), signed.ExpiresAt)
}

func TestSign_SubSecondExpiryWithRealSigner(t *testing.T) {
	client, err := storage.NewClient(testConfig())
	require.NoError(t, err)
	svc := NewService(client, testConfig(), zap.NewNop(), nil)

	signed, err := svc.Sign(context.Background(), "a.txt", 500*time.Millisecond)
	assert.ErrorIs(t, err, ErrInvalidExpiry)
	assert.True(t, IsInvalidInput(err))
	assert.Empty(t, signed.URL)
}

func TestSign_ConfiguredDefaultExpiry(t *testing.T) {
	cfg := testConfig()
	cfg.PresignExpirySeconds = 900

	svc := NewService(&fakeClient{}, cfg, zap.NewNop(), nil)
	assert.Equal(t, 15*time.Minute, svc.DefaultExpiry())

	u, err := svc.GeneratePresignedURL(context.Background(), "a.txt")
	require.NoError(t, err)
	assert.Contains(t, u, "X-Amz-Expires=900")
}

func TestSign_Failures(t *testing.T) {
	tests := []struct {
		name   string
		key    string
		expiry time.Duration
		cause  error
		signer error
	}{
		{"EmptyKey", "", 0, ErrEmptyKey, nil},
		{"ExpiryTooLong", "a.txt", MaxExpiry + time.Second, ErrInvalidExpiry, nil},
		{"ExpiryUnderOneSecond", "a.txt", 500 * time.Millisecond, ErrInvalidExpiry, nil},
		{"SignerError", "a.txt", 0, assert.AnError, assert.AnError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			core, logs := observer.New(zapcore.InfoLevel)
			mockClient := new(mocks.Client)
			if tt.signer != nil {
				mockClient.On("PresignGetObject", mock.Anything, mock.Anything, mock.Anything).Return("", tt.signer)
			}
			svc := NewService(mockClient, testConfig(), zap.New(core), nil)

			signed, err := svc.Sign(context.Background(), tt.key, tt.expiry)
			require.Error(t, err)
			assert.Empty(t, signed.URL)

			var signErr *SigningError
			require.True(t, errors.As(err, &signErr))
			assert.Equal(t, tt.key, signErr.Key)
			assert.ErrorIs(t, err, tt.cause)

			entries := logs.FilterMessage("Failed to generate presigned URL").All()
			require.Len(t, entries, 1)
			assert.Equal(t, zapcore.ErrorLevel, entries[0].Level)
			assert.Equal(t, tt.key, entries[0].ContextMap()["key"])
			assert.Equal(t, "test-bucket", entries[0].ContextMap()["bucket"])

			if tt.signer == nil {
				mockClient.AssertNotCalled(t, "PresignGetObject", mock.Anything, mock.Anything, mock.Anything)
			}
		})
	}
}

func TestGeneratePresignedURL_InvalidCredentials(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	mockClient := new(mocks.Client)
	mockClient.On("PresignGetObject", mock.Anything, mock.Anything, mock.Anything).
		Return("", errors.New("InvalidAccessKeyId: the access key does not exist"))
	svc := NewService(mockClient, testConfig(), zap.New(core), nil)

	u, err := svc.GeneratePresignedURL(context.Background(), "a.txt")
	assert.Empty(t, u)

	var signErr *SigningError
	require.ErrorAs(t, err, &signErr)
	assert.Contains(t, signErr.Error(), "InvalidAccessKeyId")
	assert.False(t, IsInvalidInput(err))
	assert.Equal(t, 1, logs.Len())
}

func TestFail_IncludesRayID(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	svc := NewService(&fakeClient{}, testConfig(), zap.New(core), nil)

	ctx := WithRayID(context.Background(), "ray-42")
	_, err := svc.Sign(ctx, "", 0)
	require.Error(t, err)

	require.Equal(t, 1, logs.Len())
	assert.Equal(t, "ray-42", logs.All()[0].ContextMap()["ray_id"])
}

func TestService_ReusesClient(t *testing.T) {
	fake := &fakeClient{}
	svc := NewService(fake, testConfig(), zap.NewNop(), nil)

	for i := 0; i < 10; i++ {
		_, err := svc.GeneratePresignedURL(context.Background(), fmt.Sprintf("file-%d.txt", i))
		require.NoError(t, err)
	}

	assert.Equal(t, 10, fake.calls)
}

func TestGeneratePresignedURL_Concurrent(t *testing.T) {
	svc := NewService(&fakeClient{}, testConfig(), zap.NewNop(), nil)

	const n = 64
	results := make([]string, n)
	errs := make([]error, n)

	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i], errs[i] = svc.GeneratePresignedURL(context.Background(), fmt.Sprintf("objects/%d.bin", i))
		}(i)
	}
	wg.Wait()

	for i := 0; i < n; i++ {
		require.NoError(t, errs[i])
		assert.Equal(t, fmt.Sprintf("https://test-bucket.example.com/objects/%d.bin?X-Amz-Expires=86400", i), results[i])
	}
}

func TestSign_RecordsAudit(t *testing.T) {
	db, sqlMock := setupMockDB(t)
	svc := NewService(&fakeClient{}, testConfig(), zap.NewNop(), db)

	sqlMock.ExpectBegin()
	sqlMock.ExpectExec("INSERT INTO `presign_audits`").
		WithArgs("a.txt", "test-bucket", sqlmock.AnyArg(), "ray-7", sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 1))
	sqlMock.ExpectCommit()

	ctx := WithRayID(context.Background(), "ray-7")
	signed, err := svc.Sign(ctx, "a.txt", 0)
	require.NoError(t, err)
	assert.NotEmpty(t, signed.URL)
	assert.NoError(t, sqlMock.ExpectationsWereMet())
}

func TestSign_AuditFailureDoesNotFailSigning(t *testing.T) {
	db, sqlMock := setupMockDB(t)
	core, logs := observer.New(zapcore.InfoLevel)
	svc := NewService(&fakeClient{}, testConfig(), zap.New(core), db)

	sqlMock.ExpectBegin()
	sqlMock.ExpectExec("INSERT INTO `presign_audits`").WillReturnError(assert.AnError)
	sqlMock.ExpectRollback()

	signed, err := svc.Sign(context.Background(), "a.txt", 0)
	require.NoError(t, err)
	assert.NotEmpty(t, signed.URL)

	entries := logs.FilterMessage("Failed to record presign audit entry").All()
	require.Len(t, entries, 1)
	assert.Equal(t, zapcore.WarnLevel, entries[0].Level)
}

func TestSign_NoAuditOnFailure(t *testing.T) {
	db, sqlMock := setupMockDB(t)
	svc := NewService(&fakeClient{}, testConfig(), zap.NewNop(), db)

	_, err := svc.Sign(context.Background(), "", 0)
	require.Error(t, err)
	assert.NoError(t, sqlMock.ExpectationsWereMet())
}
