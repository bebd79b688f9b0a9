// Package persist implements the durable key-value persistence layer.
//
// All application state lives in a single JSON document on disk. Each
// top-level key is an independent value: writing one key reads the whole
// file, replaces that key and rewrites the whole file. This is a
// deliberate simplification for a small working set: there is no write
// coalescing and no partial-write recovery, so a crash in the middle of
// a write can corrupt the file.
package persist

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"

	"github.com/prn-tf/grouporder-hub/internal/metrics"
)

// ErrKeyNotFound indicates the requested key is not present in the data
// file (or the file does not exist yet). This is an ordinary condition
// on first startup, not a failure.
var ErrKeyNotFound = errors.New("key not found in data file")

// File is a key-value view over a single JSON document on disk.
type File struct {
	path    string
	metrics *metrics.Metrics
	logger  zerolog.Logger
}

// NewFile creates a File rooted at the given path. The parent directory
// is created if it does not exist. A nil metrics instance disables
// instrumentation.
func NewFile(path string, m *metrics.Metrics, logger zerolog.Logger) (*File, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}
	return &File{
		path:    path,
		metrics: m,
		logger:  logger.With().Str("component", "persist").Logger(),
	}, nil
}

// Path returns the location of the data file.
func (f *File) Path() string {
	return f.path
}

// SaveKey stores value under key, rewriting the entire file.
func (f *File) SaveKey(key string, value any) error {
	err := f.saveKey(key, value)
	f.metrics.RecordWrite(err)
	if err != nil {
		return err
	}
	f.logger.Debug().Str("key", key).Msg("data saved")
	return nil
}

func (f *File) saveKey(key string, value any) error {
	doc, err := f.readDocument()
	if err != nil {
		return err
	}

	raw, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to encode value for key %q: %w", key, err)
	}
	doc[key] = raw

	out, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode data file: %w", err)
	}

	if err := os.WriteFile(f.path, out, 0o644); err != nil {
		return fmt.Errorf("failed to write data file: %w", err)
	}
	return nil
}

// LoadKey reads the value stored under key into out. Returns
// ErrKeyNotFound when the file or the key does not exist.
func (f *File) LoadKey(key string, out any) error {
	doc, err := f.readDocument()
	if err != nil {
		return err
	}

	raw, ok := doc[key]
	if !ok {
		return ErrKeyNotFound
	}

	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("failed to decode value for key %q: %w", key, err)
	}
	return nil
}

// readDocument reads and decodes the whole data file. A missing or empty
// file yields an empty document.
func (f *File) readDocument() (map[string]json.RawMessage, error) {
	data, err := os.ReadFile(f.path)
	if err != nil {
		if os.IsNotExist(err) {
			return map[string]json.RawMessage{}, nil
		}
		return nil, fmt.Errorf("failed to read data file: %w", err)
	}
	if len(data) == 0 {
		return map[string]json.RawMessage{}, nil
	}

	var doc map[string]json.RawMessage
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to decode data file: %w", err)
	}
	return doc, nil
}
