package cookiecache

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/entrhq/autoapply/pkg/browser"
	"github.com/entrhq/autoapply/pkg/logging"
)

// RecordVersion is the only on-disk layout this build reads and writes.
const RecordVersion = 1

// ErrUnsupportedVersion is returned when a record was written by another layout.
var ErrUnsupportedVersion = errors.New("cookiecache: unsupported record version")

// Record is the on-disk form of a Cache.
type Record struct {
	Version    int              `json:"version"`
	CapturedAt time.Time        `json:"captured_at"`
	Cookies    []browser.Cookie `json:"cookies"`
}

// Encode serializes c as an indented Record.
func Encode(c *Cache) ([]byte, error) {
	rec := Record{
		Version:    RecordVersion,
		CapturedAt: c.CapturedAt.UTC(),
		Cookies:    c.Cookies,
	}
	if rec.Cookies == nil {
		rec.Cookies = []browser.Cookie{}
	}
	b, err := json.MarshalIndent(rec, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("cookiecache: encode: %w", err)
	}
	return b, nil
}

// Decode parses a Record and rejects layouts other than RecordVersion.
func Decode(b []byte) (*Cache, error) {
	var rec Record
	if err := json.Unmarshal(b, &rec); err != nil {
		return nil, fmt.Errorf("cookiecache: decode: %w", err)
	}
	if rec.Version != RecordVersion {
		return nil, fmt.Errorf("%w: %d", ErrUnsupportedVersion, rec.Version)
	}
	return &Cache{Cookies: rec.Cookies, CapturedAt: rec.CapturedAt}, nil
}

// FileStore persists a single Cache as a JSON file.
// It is not safe for concurrent use; one process reads it at start-up and
// writes it after each successful sign-in.
type FileStore struct {
	path   string
	logger *logging.Logger
}

// NewFileStore creates a store at path.
// If path is empty, defaults to ~/.autoapply/session.json
func NewFileStore(path string, logger *logging.Logger) (*FileStore, error) {
	if path == "" {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("failed to get user home directory: %w", err)
		}
		path = filepath.Join(homeDir, ".autoapply", "session.json")
	}
	return &FileStore{path: path, logger: logger}, nil
}

// Path returns the file path of the store.
func (s *FileStore) Path() string {
	return s.path
}

// Load reads the stored cache. It never fails: a missing, unreadable or
// corrupt record yields nil, and everything but a missing file is logged
// as a warning.
func (s *FileStore) Load() *Cache {
	b, err := os.ReadFile(s.path)
	if errors.Is(err, os.ErrNotExist) {
		s.logger.Debugf("No session cache at %s", s.path)
		return nil
	}
	if err != nil {
		s.logger.Warnf("Unable to load session cache %s: %v", s.path, err)
		return nil
	}
	c, err := Decode(b)
	if err != nil {
		s.logger.Warnf("Unable to load session cache %s: %v", s.path, err)
		return nil
	}
	return c
}

// Save overwrites the stored cache with c. A nil cache is ignored.
func (s *FileStore) Save(c *Cache) error {
	if c == nil {
		return nil
	}

	b, err := Encode(c)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(s.path), 0750); err != nil {
		return fmt.Errorf("cookiecache: create directory: %w", err)
	}

	// Write to a temp file and rename so a crash never leaves half a record.
	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, b, 0600); err != nil {
		return fmt.Errorf("cookiecache: write temp file: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("cookiecache: rename %s: %w", s.path, err)
	}
	return nil
}

// Delete removes the stored cache. A missing file is not an error.
func (s *FileStore) Delete() error {
	if err := os.Remove(s.path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("cookiecache: delete %s: %w", s.path, err)
	}
	return nil
}
