package service

import (
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"triance/backend/internal/testutil"
)

type memoryStorage struct {
	objects map[string][]byte
	types   map[string]string
	failPut     bool
	failPresign bool
}

func newMemoryStorage() *memoryStorage {
	return &memoryStorage{objects: map[string][]byte{}, types: map[string]string{}}
}

func (m *memoryStorage) PutObject(_ context.Context, key, contentType string, data []byte) error {
	if m.failPut {
		return errors.New("bucket unreachable")
	}
	m.objects[key] = data
	m.types[key] = contentType
	return nil
}

func (m *memoryStorage) GeneratePresignedDownloadURL(_ context.Context, key string, expires time.Duration) (string, error) {
	if m.failPresign {
		return "", errors.New("signer unavailable")
	}
	return "https://storage.test/" + key + "?expires=" + expires.String(), nil
}

func (m *memoryStorage) DeleteObject(_ context.Context, key string) error {
	delete(m.objects, key)
	return nil
}

func newExportFixture(t *testing.T, files *memoryStorage) (*fixture, *exportService) {
	t.Helper()
	f := newFixture(t)
	users := NewUserService(f.store.Users, testutil.Logger(t))
	var svc ExportService
	if files == nil {
		svc = NewExportService(f.workouts, users, nil, 0, testutil.Logger(t))
	} else {
		svc = NewExportService(f.workouts, users, files, 10*time.Minute, testutil.Logger(t))
	}
	es := svc.(*exportService)
	es.now = func() time.Time { return time.Date(2024, 2, 3, 4, 5, 6, 0, time.UTC) }
	return f, es
}

func TestRenderCSV(t *testing.T) {
	f, svc := newExportFixture(t, nil)
	f.create(t, "ana", "Push", "Bench Press", "Squat")

	out, err := svc.Render(f.ctx, "ana", "CSV")
	require.NoError(t, err)
	assert.Equal(t, "text/csv", out.ContentType)

	records, err := csv.NewReader(bytes.NewReader(out.Data)).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 3)
	assert.Equal(t, "Bench Press", records[1][4])
	assert.Equal(t, "Squat", records[2][4])
}

func TestRenderJSONDefault(t *testing.T) {
	f, svc := newExportFixture(t, nil)

	out, err := svc.Render(f.ctx, "bo", "")
	require.NoError(t, err)
	assert.Equal(t, "application/json", out.ContentType)
	assert.Contains(t, string(out.Data), `"count": 0`)
}

func TestRenderFailures(t *testing.T) {
	f, svc := newExportFixture(t, nil)

	_, err := svc.Render(f.ctx, "ana", "xml")
	assert.ErrorIs(t, err, ErrValidation)

	_, err = svc.Render(f.ctx, "ghost", "json")
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = svc.Publish(f.ctx, "ana", "json")
	assert.ErrorIs(t, err, ErrStorageUnavailable)
}

func TestPublish(t *testing.T) {
	files := newMemoryStorage()
	f, svc := newExportFixture(t, files)
	f.create(t, "ana", "", "Row")

	pub, err := svc.Publish(f.ctx, "ana", "csv")
	require.NoError(t, err)
	assert.Equal(t, "exports/ana/20240203T040506Z.csv", pub.Key)
	assert.True(t, strings.HasPrefix(pub.URL, "https://storage.test/exports/ana/"))
	assert.Equal(t, time.Date(2024, 2, 3, 4, 15, 6, 0, time.UTC), pub.ExpiresAt)

	require.Contains(t, files.objects, pub.Key)
	assert.Equal(t, "text/csv", files.types[pub.Key])

	files.failPut = true
	_, err = svc.Publish(f.ctx, "ana", "json")
	assert.Error(t, err)
}

func TestPublishRemovesUnsignedUpload(t *testing.T) {
	files := newMemoryStorage()
	files.failPresign = true
	f, svc := newExportFixture(t, files)
	f.create(t, "ana", "", "Row")

	_, err := svc.Publish(f.ctx, "ana", "json")
	require.Error(t, err)
	assert.Empty(t, files.objects)
}
