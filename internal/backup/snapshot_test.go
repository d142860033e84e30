package backup

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"egunkari/internal/sheets"
)

type fakeUploader struct {
	objects map[string][]byte
	putErr  error
}

func (f *fakeUploader) Put(ctx context.Context, key string, body []byte, contentType string) error {
	if f.putErr != nil {
		return f.putErr
	}
	if f.objects == nil {
		f.objects = map[string][]byte{}
	}
	f.objects[key] = body
	return nil
}

func TestSnapshotter_Run(t *testing.T) {
	ctx := context.Background()
	store := sheets.NewMemoryStore()
	require.NoError(t, store.EnsureSheet(ctx, "users", []string{"ID", "Email"}))
	require.NoError(t, store.EnsureSheet(ctx, "posts", []string{"ID"}))
	require.NoError(t, store.Append(ctx, "users!A2:B", [][]string{{"u1", "a@x.com"}}))

	uploader := &fakeUploader{}
	snap := NewSnapshotter(store, uploader)
	snap.now = func() time.Time { return time.Date(2024, 3, 4, 5, 6, 7, 0, time.UTC) }

	keys, err := snap.Run(ctx, "users", "posts")
	require.NoError(t, err)
	assert.Equal(t, []string{
		"backups/20240304T050607Z/users.json",
		"backups/20240304T050607Z/posts.json",
	}, keys)

	var got Snapshot
	require.NoError(t, json.Unmarshal(uploader.objects[keys[0]], &got))
	assert.Equal(t, "users", got.Sheet)
	assert.Equal(t, [][]string{{"ID", "Email"}, {"u1", "a@x.com"}}, got.Rows)
}

func TestSnapshotter_MissingSheet(t *testing.T) {
	ctx := context.Background()
	store := sheets.NewMemoryStore()
	require.NoError(t, store.EnsureSheet(ctx, "users", []string{"ID"}))

	keys, err := NewSnapshotter(store, &fakeUploader{}).Run(ctx, "users", "missing")
	assert.ErrorIs(t, err, sheets.ErrSheetNotFound)
	assert.Len(t, keys, 1)
}

func TestSnapshotter_UploadError(t *testing.T) {
	ctx := context.Background()
	store := sheets.NewMemoryStore()
	require.NoError(t, store.EnsureSheet(ctx, "users", []string{"ID"}))

	uploadErr := errors.New("bucket unavailable")
	keys, err := NewSnapshotter(store, &fakeUploader{putErr: uploadErr}).Run(ctx, "users")
	assert.ErrorIs(t, err, uploadErr)
	assert.Empty(t, keys)
}
