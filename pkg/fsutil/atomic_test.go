package fsutil_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/mdbook-pandoc/pkg/fsutil"
)

func TestWriteAtomic(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		existing string
		target   string
		content  string
		mode     os.FileMode
		wantMode os.FileMode
	}{
		{name: "new file", target: "chapter.md", content: "[]", mode: 0o644, wantMode: 0o644},
		{name: "overwrite", existing: "old", target: "chapter.md", content: "[Para []]", mode: 0o644, wantMode: 0o644},
		{name: "explicit mode", target: "chapter.md", content: "x", mode: 0o600, wantMode: 0o600},
		{name: "default mode", target: "chapter.md", content: "x", wantMode: fsutil.DefaultFileMode},
		{name: "empty content", target: "chapter.md", mode: 0o644, wantMode: 0o644},
		{name: "missing parents", target: "src/nested/chapter.md", content: "[]", mode: 0o644, wantMode: 0o644},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			dir := t.TempDir()
			path := filepath.Join(dir, filepath.FromSlash(tt.target))
			if tt.existing != "" {
				require.NoError(t, os.WriteFile(path, []byte(tt.existing), 0o644))
			}

			require.NoError(t, fsutil.WriteAtomic(context.Background(), path, []byte(tt.content), tt.mode))

			got, err := os.ReadFile(path)
			require.NoError(t, err)
			assert.Equal(t, tt.content, string(got))

			stat, err := os.Stat(path)
			require.NoError(t, err)
			assert.Equal(t, tt.wantMode, stat.Mode().Perm())

			entries, err := os.ReadDir(filepath.Dir(path))
			require.NoError(t, err)
			assert.Len(t, entries, 1, "temp file left behind")
		})
	}
}

func TestWriteAtomic_Cancelled(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	path := filepath.Join(t.TempDir(), "chapter.md")
	require.ErrorIs(t, fsutil.WriteAtomic(ctx, path, []byte("x"), 0), context.Canceled)
	assert.NoFileExists(t, path)

	_, err := fsutil.WriteAtomicIfChanged(ctx, path, []byte("x"), 0)
	require.ErrorIs(t, err, context.Canceled)
}

func TestWriteAtomic_CleansUpOnError(t *testing.T) {
	t.Parallel()

	// Renaming over a non-empty directory fails.
	dir := t.TempDir()
	path := filepath.Join(dir, "target")
	require.NoError(t, os.Mkdir(path, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(path, "child"), nil, 0o644))

	require.Error(t, fsutil.WriteAtomic(context.Background(), path, []byte("content"), 0o644))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "target", entries[0].Name())
}

func TestWriteAtomicIfChanged(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name        string
		existing    *string
		content     string
		wantChanged bool
	}{
		{name: "new file", content: "book", wantChanged: true},
		{name: "unchanged", existing: ptr("book"), content: "book", wantChanged: false},
		{name: "changed", existing: ptr("old"), content: "book", wantChanged: true},
		{name: "empty file gains content", existing: ptr(""), content: "book", wantChanged: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			path := filepath.Join(t.TempDir(), "book.yml")
			if tt.existing != nil {
				require.NoError(t, os.WriteFile(path, []byte(*tt.existing), 0o644))
			}

			changed, err := fsutil.WriteAtomicIfChanged(context.Background(), path, []byte(tt.content), 0o644)
			require.NoError(t, err)
			assert.Equal(t, tt.wantChanged, changed)

			got, err := os.ReadFile(path)
			require.NoError(t, err)
			assert.Equal(t, tt.content, string(got))
		})
	}
}

func ptr(s string) *string { return &s }
