package cookiecache

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/entrhq/autoapply/pkg/logging"
)

func newTestStore(t *testing.T) (*FileStore, *bytes.Buffer) {
	t.Helper()
	var buf bytes.Buffer
	logger := logging.NewWriterLogger("cookiecache", &buf)
	logger.SetLevel(logging.LevelDebug)

	store, err := NewFileStore(filepath.Join(t.TempDir(), "nested", "session.json"), logger)
	require.NoError(t, err)
	return store, &buf
}

func TestFileStore_SaveThenLoad(t *testing.T) {
	store, _ := newTestStore(t)

	captured := time.Date(2026, 3, 1, 11, 45, 0, 123, time.UTC)
	original := &Cache{Cookies: sampleCookies, CapturedAt: captured}
	require.NoError(t, store.Save(original))

	info, err := os.Stat(store.Path())
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0600), info.Mode().Perm())

	loaded := store.Load()
	require.NotNil(t, loaded)
	assert.True(t, captured.Equal(loaded.CapturedAt))
	assert.Equal(t, sampleCookies, loaded.Cookies)
}

func TestFileStore_SaveOverwrites(t *testing.T) {
	store, _ := newTestStore(t)

	first := &Cache{Cookies: sampleCookies, CapturedAt: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)}
	second := &Cache{Cookies: sampleCookies[:0], CapturedAt: time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)}
	require.NoError(t, store.Save(first))
	require.NoError(t, store.Save(second))

	loaded := store.Load()
	require.NotNil(t, loaded)
	assert.True(t, second.CapturedAt.Equal(loaded.CapturedAt))
	assert.Empty(t, loaded.Cookies)

	_, err := os.Stat(store.Path() + ".tmp")
	assert.True(t, os.IsNotExist(err), "temp file should not survive a save")
}

func TestFileStore_SaveNilIsNoop(t *testing.T) {
	store, _ := newTestStore(t)

	require.NoError(t, store.Save(nil))

	_, err := os.Stat(store.Path())
	assert.True(t, os.IsNotExist(err))
}

func TestFileStore_Load(t *testing.T) {
	t.Run("missing file yields nil without warning", func(t *testing.T) {
		store, buf := newTestStore(t)

		assert.Nil(t, store.Load())
		assert.NotContains(t, buf.String(), "[WARN]")
	})

	t.Run("corrupt file yields nil and warns", func(t *testing.T) {
		store, buf := newTestStore(t)
		require.NoError(t, os.MkdirAll(filepath.Dir(store.Path()), 0750))
		require.NoError(t, os.WriteFile(store.Path(), []byte("\x80\x04pickle"), 0600))

		assert.Nil(t, store.Load())
		assert.Contains(t, buf.String(), "[WARN] Unable to load session cache")
	})

	t.Run("unknown version yields nil and warns", func(t *testing.T) {
		store, buf := newTestStore(t)
		require.NoError(t, os.MkdirAll(filepath.Dir(store.Path()), 0750))
		record := `{"version": 2, "captured_at": "2026-03-01T12:00:00Z", "cookies": []}`
		require.NoError(t, os.WriteFile(store.Path(), []byte(record), 0600))

		assert.Nil(t, store.Load())
		assert.Contains(t, buf.String(), "unsupported record version")
	})

	t.Run("unreadable path yields nil and warns", func(t *testing.T) {
		store, buf := newTestStore(t)
		// A directory where the file should be makes ReadFile fail.
		require.NoError(t, os.MkdirAll(store.Path(), 0750))

		assert.Nil(t, store.Load())
		assert.Contains(t, buf.String(), "[WARN]")
	})
}

func TestFileStore_Delete(t *testing.T) {
	store, _ := newTestStore(t)

	// Deleting before anything was saved is fine.
	require.NoError(t, store.Delete())

	require.NoError(t, store.Save(&Cache{Cookies: sampleCookies, CapturedAt: time.Now()}))
	require.NoError(t, store.Delete())
	assert.Nil(t, store.Load())
}

func TestNewFileStore_DefaultPath(t *testing.T) {
	store, err := NewFileStore("", logging.NewWriterLogger("cookiecache", &bytes.Buffer{}))
	require.NoError(t, err)

	homeDir, _ := os.UserHomeDir()
	assert.Equal(t, filepath.Join(homeDir, ".autoapply", "session.json"), store.Path())
}

func TestDecode_RecordLayout(t *testing.T) {
	record := `{
  "version": 1,
  "captured_at": "2026-03-01T12:00:00Z",
  "cookies": [
    {"name": "JSESSIONID", "value": "ajax:1", "domain": ".www.linkedin.com", "path": "/",
     "expires": -1, "http_only": false, "secure": true, "same_site": "None"}
  ]
}`
	c, err := Decode([]byte(record))
	require.NoError(t, err)
	require.Len(t, c.Cookies, 1)
	assert.Equal(t, "JSESSIONID", c.Cookies[0].Name)
	assert.Equal(t, float64(-1), c.Cookies[0].Expires)
	assert.Equal(t, "None", c.Cookies[0].SameSite)
	assert.True(t, time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC).Equal(c.CapturedAt))
}
