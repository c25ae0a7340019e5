package onboarding

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestFileIntentStore(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "intent.yaml")
	s := NewFileIntentStore(path)
	ctx := t.Context()

	_, err := s.Load(ctx)
	require.ErrorIs(t, err, ErrNoIntent)

	saved := Intent{Token: testToken, SavedAt: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)}
	require.NoError(t, s.Save(ctx, saved))

	info, err := os.Stat(path)
	require.NoError(t, err)
	require.Equal(t, os.FileMode(0o600), info.Mode().Perm())

	got, err := s.Load(ctx)
	require.NoError(t, err)
	require.Equal(t, saved.Token, got.Token)
	require.True(t, saved.SavedAt.Equal(got.SavedAt))

	// Overwrite leaves no temp files behind
	require.NoError(t, s.Save(ctx, Intent{Token: "second", SavedAt: saved.SavedAt}))
	entries, err := os.ReadDir(filepath.Dir(path))
	require.NoError(t, err)
	require.Len(t, entries, 1)

	require.NoError(t, s.Clear(ctx))
	require.NoError(t, s.Clear(ctx))
	_, err = s.Load(ctx)
	require.ErrorIs(t, err, ErrNoIntent)
}

func TestFileIntentStoreRejectsGarbage(t *testing.T) {
	path := filepath.Join(t.TempDir(), "intent.yaml")
	require.NoError(t, os.WriteFile(path, []byte("token: [unterminated"), 0o600))

	_, err := NewFileIntentStore(path).Load(t.Context())
	require.Error(t, err)
	require.NotErrorIs(t, err, ErrNoIntent)
}
