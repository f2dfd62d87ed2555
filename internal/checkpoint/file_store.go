package checkpoint

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/spf13/afero"
)

// FileName is the checkpoint file inside the git directory
const FileName = ".restack_continue"

// FileStore keeps the checkpoint as a JSON file
type FileStore struct {
	fs     afero.Fs
	path   string
	mu     sync.Mutex
	closed bool
}

// NewFileStore creates a store that keeps the checkpoint in gitDir
func NewFileStore(fs afero.Fs, gitDir string) *FileStore {
	return &FileStore{
		fs:   fs,
		path: filepath.Join(gitDir, FileName),
	}
}

// Save implements Store
func (s *FileStore) Save(_ context.Context, args Args) (*Checkpoint, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil, ErrStoreClosed
	}

	cp := newCheckpoint(args)
	rec, err := encode(cp)
	if err != nil {
		return nil, err
	}
	data, err := json.MarshalIndent(rec, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal checkpoint: %w", err)
	}
	if err := s.fs.MkdirAll(filepath.Dir(s.path), 0750); err != nil {
		return nil, fmt.Errorf("create checkpoint directory: %w", err)
	}
	if err := afero.WriteFile(s.fs, s.path, data, 0600); err != nil {
		return nil, fmt.Errorf("write checkpoint: %w", err)
	}
	return cp, nil
}

// MostRecent implements Store
func (s *FileStore) MostRecent(_ context.Context) (*Checkpoint, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil, ErrStoreClosed
	}

	data, err := afero.ReadFile(s.fs, s.path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read checkpoint: %w", err)
	}

	var rec record
	if err := json.Unmarshal(data, &rec); err != nil {
		return nil, fmt.Errorf("parse checkpoint: %w", err)
	}
	return decode(&rec)
}

// Clear implements Store
func (s *FileStore) Clear(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return ErrStoreClosed
	}

	err := s.fs.Remove(s.path)
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("clear checkpoint: %w", err)
	}
	return nil
}

// Close implements Store
func (s *FileStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	return nil
}
