package service

import (
	"context"
	"errors"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/MKhiriev/notesync/internal/mock"
	"github.com/MKhiriev/notesync/models"
)

func TestImageBackoff(t *testing.T) {
	base, limit := 5*time.Second, 5*time.Minute

	tests := []struct {
		retries int
		want    time.Duration
	}{
		{retries: -1, want: 5 * time.Second},
		{retries: 0, want: 5 * time.Second},
		{retries: 1, want: 10 * time.Second},
		{retries: 2, want: 20 * time.Second},
		{retries: 3, want: 40 * time.Second},
		{retries: 5, want: 160 * time.Second},
		{retries: 6, want: 5 * time.Minute},
		{retries: 1000, want: 5 * time.Minute},
		{retries: math.MaxInt32, want: 5 * time.Minute},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, ImageBackoff(tt.retries, base, limit), "retries=%d", tt.retries)
	}
}

func TestImageBackoff_Monotonic(t *testing.T) {
	prev := time.Duration(0)
	for n := 0; n < 200; n++ {
		d := ImageBackoff(n, 5*time.Second, 5*time.Minute)
		assert.GreaterOrEqual(t, d, prev, "n=%d", n)
		assert.LessOrEqual(t, d, 5*time.Minute)
		prev = d
	}
}

func TestImageQueueService_Fail(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := mock.NewMockImageUploadRepository(ctrl)
	svc := NewImageQueueService(repo, 5*time.Second, 5*time.Minute)

	now := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	u := models.PendingImageUpload{ID: "up-1", RetryCount: 2, Status: models.UploadUploading}

	repo.EXPECT().MarkFailed(gomock.Any(), "up-1", 3, now.Add(40*time.Second)).Return(nil)

	got, err := svc.Fail(context.Background(), u, now)
	require.NoError(t, err)
	assert.Equal(t, 3, got.RetryCount)
	assert.Equal(t, models.UploadFailed, got.Status)
	assert.Equal(t, now.Add(40*time.Second), *got.NextRetryAt)
}

func TestImageQueueService_FailStorageError(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := mock.NewMockImageUploadRepository(ctrl)
	svc := NewImageQueueService(repo, time.Second, time.Minute)

	boom := errors.New("disk I/O error")
	repo.EXPECT().MarkFailed(gomock.Any(), "up-1", 1, gomock.Any()).Return(boom)

	_, err := svc.Fail(context.Background(), models.PendingImageUpload{ID: "up-1"}, time.Now())
	assert.ErrorIs(t, err, boom)
}

func TestImageQueueService_Enqueue(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := mock.NewMockImageUploadRepository(ctrl)
	svc := NewImageQueueService(repo, time.Second, time.Minute)

	t.Run("empty blob", func(t *testing.T) {
		_, err := svc.Enqueue(context.Background(), "doc", nil, "image/png")
		assert.ErrorIs(t, err, ErrEmptyBlob)
	})

	t.Run("defaults content type", func(t *testing.T) {
		repo.EXPECT().Enqueue(gomock.Any(), gomock.Any()).DoAndReturn(func(ctx context.Context, u models.PendingImageUpload) error {
			assert.Equal(t, "doc", u.ParentDocID)
			assert.Equal(t, "application/octet-stream", u.ContentType)
			assert.Equal(t, models.UploadPending, u.Status)
			assert.NotEmpty(t, u.ID)
			return nil
		})

		u, err := svc.Enqueue(context.Background(), "doc", []byte("x"), "")
		require.NoError(t, err)
		assert.Zero(t, u.RetryCount)
	})
}
