package tokenstore

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
)

// FileStore keeps the entry in a single file readable only by the owner.
type FileStore struct {
	path  string
	codec Codec
	mu    sync.Mutex
}

// NewFileStore returns a store backed by path. The parent directory is
// created on first write.
func NewFileStore(path string, opts ...Option) (*FileStore, error) {
	if path == "" {
		return nil, fmt.Errorf("tokenstore: empty file path")
	}
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	return &FileStore{path: filepath.Clean(path), codec: o.codec}, nil
}

// Path returns the backing file path.
func (s *FileStore) Path() string {
	return s.path
}

func (s *FileStore) Get(ctx context.Context) (Entry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return Entry{}, nil
	}
	if err != nil {
		return Entry{}, err
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return Entry{}, nil
	}

	entry, err := s.codec.Decode(data)
	if errors.Is(err, ErrCorruptRecord) {
		// A record that is not a complete triple is never trusted.
		_ = s.remove()
		return Entry{}, nil
	}
	if err != nil {
		return Entry{}, err
	}
	return entry, nil
}

func (s *FileStore) Set(ctx context.Context, entry Entry) error {
	if err := entry.validate(); err != nil {
		return err
	}
	data, err := s.codec.Encode(entry)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	return s.writeAtomic(data)
}

func (s *FileStore) Clear(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.remove()
}

func (s *FileStore) remove() error {
	if err := os.Remove(s.path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	return nil
}

// writeAtomic replaces the file through a sibling temp file so readers see
// either the old or the new record, never a prefix of it.
func (s *FileStore) writeAtomic(data []byte) error {
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return err
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(s.path)+".*")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	defer func() { _ = os.Remove(tmpName) }()

	if err := tmp.Chmod(0o600); err != nil {
		_ = tmp.Close()
		return err
	}
	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return err
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmpName, s.path)
}
