package storage

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joseph-ayodele/contracts-extractor/internal/common"
)

func TestLocalStore(t *testing.T) {
	ctx := context.Background()
	s, err := NewLocalStore(t.TempDir(), nil)
	require.NoError(t, err)

	key := "uploads/task/1-lease.pdf"
	require.NoError(t, s.Put(ctx, key, []byte("%PDF-1.7"), "application/pdf"))

	got, err := s.Get(ctx, key)
	require.NoError(t, err)
	assert.Equal(t, []byte("%PDF-1.7"), got)

	require.NoError(t, s.Put(ctx, key, []byte("v2"), ""))
	got, err = s.Get(ctx, key)
	require.NoError(t, err)
	assert.Equal(t, []byte("v2"), got)

	require.NoError(t, s.Delete(ctx, key))
	require.NoError(t, s.Delete(ctx, key))
	_, err = s.Get(ctx, key)
	assert.ErrorIs(t, err, ErrObjectNotFound)
	assert.ErrorIs(t, err, common.ErrNotFound)
}

func TestLocalStore_RejectsEscapingKeys(t *testing.T) {
	s, err := NewLocalStore(t.TempDir(), nil)
	require.NoError(t, err)

	for _, key := range []string{"../outside", "/etc/passwd", ""} {
		assert.Error(t, s.Put(context.Background(), key, []byte("x"), ""), key)
	}
}

func TestNew_Local(t *testing.T) {
	s, err := New(context.Background(), common.StorageConfig{Backend: BackendLocal, LocalDir: t.TempDir()}, nil)
	require.NoError(t, err)
	assert.IsType(t, &LocalStore{}, s)

	_, err = New(context.Background(), common.StorageConfig{Backend: "gcs"}, nil)
	assert.Error(t, err)
}

func TestKeys(t *testing.T) {
	id := uuid.MustParse("8a1f2c3d-0000-4000-8000-000000000001")
	assert.Equal(t, "uploads/8a1f2c3d-0000-4000-8000-000000000001/3-lease.pdf", UploadKey(id, 3, "../../tmp/lease.pdf"))
	assert.Equal(t, "exports/8a1f2c3d-0000-4000-8000-000000000001.xlsx", ExportKey(id))
}

func TestMapMinioErr(t *testing.T) {
	err := mapMinioErr("k", minio.ErrorResponse{Code: "NoSuchKey", StatusCode: 404})
	assert.ErrorIs(t, err, ErrObjectNotFound)

	err = mapMinioErr("k", errors.New("connection refused"))
	assert.NotErrorIs(t, err, ErrObjectNotFound)
}
