package service

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"blog-server/internal/domain"
	"blog-server/internal/storage"
)

type memoryStorage struct {
	mu      sync.Mutex
	objects map[string][]byte
}

func newMemoryStorage() *memoryStorage {
	return &memoryStorage{objects: map[string][]byte{}}
}

func (m *memoryStorage) PutObject(_ context.Context, bucket, key string, body io.Reader, _ string) (string, error) {
	data, err := io.ReadAll(body)
	if err != nil {
		return "", err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.objects[key] = data
	return fmt.Sprintf("s3://%s/%s", bucket, key), nil
}

func (m *memoryStorage) ListObjects(_ context.Context, _, prefix string) ([]storage.ObjectInfo, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []storage.ObjectInfo{}
	for key, data := range m.objects {
		if strings.HasPrefix(key, prefix) {
			out = append(out, storage.ObjectInfo{Key: key, Size: int64(len(data))})
		}
	}
	return out, nil
}

func (m *memoryStorage) DeletePrefix(_ context.Context, _, prefix string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for key := range m.objects {
		if strings.HasPrefix(key, prefix) {
			delete(m.objects, key)
		}
	}
	return nil
}

func (m *memoryStorage) GetObjectURL(_ context.Context, bucket, key string, _ time.Duration) (string, error) {
	return "https://" + bucket + ".example/" + key, nil
}

func TestExportService_Disabled(t *testing.T) {
	env := newTestEnv(t)
	svc := NewExportService(env.posts, nil, "", "exports", env.log)

	_, err := svc.Export(context.Background(), "u1")
	assert.ErrorIs(t, err, ErrStorageDisabled)
	_, err = svc.List(context.Background(), "u1")
	assert.ErrorIs(t, err, ErrStorageDisabled)
}

func TestExportService_ExportListPurge(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	posts := env.postService()
	for i := 0; i < 3; i++ {
		_, err := posts.Create(ctx, CreatePostInput{Title: fmt.Sprintf("T%d", i), Content: "C", Author: "u1"})
		require.NoError(t, err)
	}
	_, err := posts.Create(ctx, CreatePostInput{Title: "other", Content: "C", Author: "u2"})
	require.NoError(t, err)

	store := newMemoryStorage()
	svc := NewExportService(env.posts, store, "bucket", "/exports/", env.log).(*exportService)
	svc.now = func() time.Time { return time.Date(2024, 2, 3, 4, 5, 6, 0, time.UTC) }

	export, err := svc.Export(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, 3, export.Posts)
	assert.True(t, strings.HasPrefix(export.Location, "s3://bucket/exports/u1/20240203T040506.000000000Z-"), export.Location)
	assert.True(t, strings.HasSuffix(export.Location, ".json"))
	assert.NotEmpty(t, export.URL)

	key := strings.TrimPrefix(export.Location, "s3://bucket/")
	var doc exportDocument
	require.NoError(t, json.Unmarshal(store.objects[key], &doc))
	assert.Equal(t, "u1", doc.Author)
	assert.Len(t, doc.Posts, 3)

	// same clock reading, distinct objects
	second, err := svc.Export(ctx, "u1")
	require.NoError(t, err)
	assert.NotEqual(t, export.Location, second.Location)

	objects, err := svc.List(ctx, "u1")
	require.NoError(t, err)
	assert.Len(t, objects, 2)

	require.NoError(t, svc.Purge(ctx, "u1"))
	objects, err = svc.List(ctx, "u1")
	require.NoError(t, err)
	assert.Empty(t, objects)
}

func TestExportService_RejectsPathLikeAuthor(t *testing.T) {
	env := newTestEnv(t)
	svc := NewExportService(env.posts, newMemoryStorage(), "bucket", "exports", env.log)

	for _, id := range []string{"", "..", "a/b"} {
		_, err := svc.Export(context.Background(), id)
		var verr *domain.ValidationError
		assert.ErrorAs(t, err, &verr, "author %q", id)
	}
}
