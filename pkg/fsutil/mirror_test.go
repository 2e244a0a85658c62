package fsutil_test

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/yaklabco/mdbook-pandoc/pkg/fsutil"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("setup: %v", err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("setup: %v", err)
	}
}

func TestMirrorTree(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	src := filepath.Join(root, "src")
	dst := filepath.Join(root, "out", "src")

	writeFile(t, filepath.Join(src, "chapter.md"), "# Chapter")
	writeFile(t, filepath.Join(src, "images", "logo.svg"), "<svg/>")
	writeFile(t, filepath.Join(src, "book", "stale.md"), "skip me")
	writeFile(t, filepath.Join(root, "shared", "common.md"), "shared")

	if err := os.Symlink(filepath.Join(root, "shared"), filepath.Join(src, "linked")); err != nil {
		t.Skipf("symlinks unavailable: %v", err)
	}

	opts := fsutil.MirrorOptions{
		Skip: func(path string) bool {
			return filepath.Base(path) == "book"
		},
	}
	if err := fsutil.MirrorTree(context.Background(), src, dst, opts); err != nil {
		t.Fatalf("MirrorTree() error = %v", err)
	}

	want := map[string]string{
		"chapter.md":       "# Chapter",
		"images/logo.svg":  "<svg/>",
		"linked/common.md": "shared",
	}
	for rel, content := range want {
		got, err := os.ReadFile(filepath.Join(dst, filepath.FromSlash(rel)))
		if err != nil {
			t.Errorf("%s: %v", rel, err)
			continue
		}
		if string(got) != content {
			t.Errorf("%s = %q, want %q", rel, got, content)
		}
	}

	if ok, _ := fsutil.Exists(filepath.Join(dst, "book")); ok {
		t.Error("skipped directory was mirrored")
	}

	// The linked directory is a real directory in the mirror.
	info, err := os.Lstat(filepath.Join(dst, "linked"))
	if err != nil {
		t.Fatalf("lstat: %v", err)
	}
	if info.Mode()&os.ModeSymlink != 0 {
		t.Error("linked directory was mirrored as a symlink")
	}
}

func TestMirrorTree_LinkCycle(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	src := filepath.Join(root, "src")
	writeFile(t, filepath.Join(src, "a.md"), "a")

	if err := os.Symlink(src, filepath.Join(src, "loop")); err != nil {
		t.Skipf("symlinks unavailable: %v", err)
	}

	dst := filepath.Join(root, "dst")
	if err := fsutil.MirrorTree(context.Background(), src, dst, fsutil.MirrorOptions{}); err != nil {
		t.Fatalf("MirrorTree() error = %v", err)
	}

	if ok, _ := fsutil.Exists(filepath.Join(dst, "a.md")); !ok {
		t.Error("a.md not mirrored")
	}
	if ok, _ := fsutil.Exists(filepath.Join(dst, "loop", "a.md")); ok {
		t.Error("cyclic link was followed")
	}
}

func TestMirrorTree_Cancelled(t *testing.T) {
	t.Parallel()

	src := t.TempDir()
	writeFile(t, filepath.Join(src, "a.md"), "a")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := fsutil.MirrorTree(ctx, src, filepath.Join(t.TempDir(), "dst"), fsutil.MirrorOptions{})
	if err == nil {
		t.Fatal("expected error for cancelled context")
	}
}

func TestCopyFile(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	src := filepath.Join(dir, "script.sh")
	writeFile(t, src, "#!/bin/sh\n")
	if err := os.Chmod(src, 0o755); err != nil {
		t.Fatalf("chmod: %v", err)
	}

	dst := filepath.Join(dir, "nested", "copy.sh")
	if err := fsutil.CopyFile(context.Background(), src, dst); err != nil {
		t.Fatalf("CopyFile() error = %v", err)
	}

	info, err := os.Stat(dst)
	if err != nil {
		t.Fatalf("stat: %v", err)
	}
	if info.Mode().Perm() != 0o755 {
		t.Errorf("mode = %v, want 0755", info.Mode().Perm())
	}

	err = fsutil.CopyFile(context.Background(), filepath.Join(dir, "missing"), dst)
	if err == nil || !strings.Contains(err.Error(), "open") {
		t.Errorf("CopyFile(missing) error = %v, want open error", err)
	}
}

func TestResetDir(t *testing.T) {
	t.Parallel()

	dir := filepath.Join(t.TempDir(), "src")
	writeFile(t, filepath.Join(dir, "old", "stale.md"), "stale")

	if err := fsutil.ResetDir(dir); err != nil {
		t.Fatalf("ResetDir() error = %v", err)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("readdir: %v", err)
	}
	if len(entries) != 0 {
		t.Errorf("ResetDir left %d entries", len(entries))
	}
}
