package book_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/mdbook-pandoc/pkg/book"
	"github.com/yaklabco/mdbook-pandoc/pkg/fsutil"
)

func writeBook(t *testing.T, files map[string]string) string {
	t.Helper()

	root := t.TempDir()
	for name, content := range files {
		path := filepath.Join(root, filepath.FromSlash(name))
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	}
	return root
}

func TestLoad(t *testing.T) {
	t.Parallel()

	root := writeBook(t, map[string]string{
		"src/SUMMARY.md":   "# My Book\n\n- [Chapter](chapter.md)\n- [Draft]()\n",
		"src/chapter.md":   "# Chapter\n",
		"src/unlinked.md":  "not in the outline",
		"other/SUMMARY.md": "- [X](x.md)\n",
	})

	b, err := book.Load(context.Background(), root, book.LoadOptions{})
	require.NoError(t, err)

	assert.Equal(t, "My Book", b.Title)
	assert.Equal(t, filepath.Join(b.Root, "src"), b.SourceDir)

	chapters := b.Chapters()
	require.Len(t, chapters, 2)
	assert.Equal(t, "# Chapter\n", chapters[0].Content)
	assert.Empty(t, chapters[1].Content)
}

func TestLoad_TitleOverride(t *testing.T) {
	t.Parallel()

	root := writeBook(t, map[string]string{
		"docs/SUMMARY.md": "# Outline\n\n[Intro](intro.md)\n",
		"docs/intro.md":   "Intro",
	})

	b, err := book.Load(context.Background(), root, book.LoadOptions{Src: "docs", Title: "Configured"})
	require.NoError(t, err)
	assert.Equal(t, "Configured", b.Title)
}

func TestLoad_DecodesLegacyEncoding(t *testing.T) {
	t.Parallel()

	root := writeBook(t, map[string]string{
		"src/SUMMARY.md": "- [Caf\xe9](cafe.md)\n",
		"src/cafe.md":    "# Caf\xe9\n",
	})

	b, err := book.Load(context.Background(), root, book.LoadOptions{})
	require.NoError(t, err)

	chapter := b.Chapters()[0]
	assert.Equal(t, "Café", chapter.Name)
	assert.Equal(t, "# Café\n", chapter.Content)
}

func TestLoad_MissingChapter(t *testing.T) {
	t.Parallel()

	root := writeBook(t, map[string]string{
		"src/SUMMARY.md": "- [Missing](missing.md)\n",
	})

	_, err := book.Load(context.Background(), root, book.LoadOptions{})
	require.ErrorIs(t, err, fsutil.ErrNotFound)
	assert.Contains(t, err.Error(), `chapter "Missing"`)
}

func TestLoad_MissingSummary(t *testing.T) {
	t.Parallel()

	_, err := book.Load(context.Background(), t.TempDir(), book.LoadOptions{})
	require.ErrorIs(t, err, fsutil.ErrNotFound)
}
