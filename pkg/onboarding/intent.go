package onboarding

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"gopkg.in/yaml.v3"
)

// ErrNoIntent is returned by IntentStore.Load when nothing is pending.
var ErrNoIntent = errors.New("onboarding: no pending intent")

// Intent is an invite the user accepted but has not redeemed yet. It must
// survive process death between accepting and finishing sign-up.
type Intent struct {
	Token   string    `yaml:"token"`
	SavedAt time.Time `yaml:"saved_at"`
}

// IntentStore persists at most one Intent under a single durable key.
type IntentStore interface {
	Load(ctx context.Context) (Intent, error)
	Save(ctx context.Context, in Intent) error
	Clear(ctx context.Context) error
}

// FileIntentStore keeps the intent in a YAML file. Writes go through a
// temporary file and a rename, so a crash leaves either the old or the new
// intent, never a torn one.
type FileIntentStore struct {
	Path string
}

func NewFileIntentStore(path string) *FileIntentStore {
	return &FileIntentStore{Path: path}
}

func (s *FileIntentStore) Load(context.Context) (Intent, error) {
	data, err := os.ReadFile(s.Path)
	if errors.Is(err, os.ErrNotExist) {
		return Intent{}, ErrNoIntent
	}
	if err != nil {
		return Intent{}, fmt.Errorf("read intent: %w", err)
	}

	var in Intent
	if err := yaml.Unmarshal(data, &in); err != nil {
		return Intent{}, fmt.Errorf("parse intent: %w", err)
	}
	if in.Token == "" {
		return Intent{}, ErrNoIntent
	}
	return in, nil
}

func (s *FileIntentStore) Save(_ context.Context, in Intent) error {
	data, err := yaml.Marshal(in)
	if err != nil {
		return err
	}

	dir := filepath.Dir(s.Path)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return fmt.Errorf("create intent dir: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".intent-*.yaml")
	if err != nil {
		return fmt.Errorf("create intent temp file: %w", err)
	}
	defer os.Remove(tmp.Name()) // no-op after a successful rename

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("write intent: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("sync intent: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close intent: %w", err)
	}
	if err := os.Rename(tmp.Name(), s.Path); err != nil {
		return fmt.Errorf("commit intent: %w", err)
	}
	return nil
}

func (s *FileIntentStore) Clear(context.Context) error {
	if err := os.Remove(s.Path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("clear intent: %w", err)
	}
	return nil
}

// MemoryIntentStore is an IntentStore for tests and for platforms that
// persist elsewhere.
type MemoryIntentStore struct {
	mu     sync.Mutex
	intent *Intent
}

func (s *MemoryIntentStore) Load(context.Context) (Intent, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.intent == nil {
		return Intent{}, ErrNoIntent
	}
	return *s.intent, nil
}

func (s *MemoryIntentStore) Save(_ context.Context, in Intent) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.intent = &in
	return nil
}

func (s *MemoryIntentStore) Clear(context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.intent = nil
	return nil
}
