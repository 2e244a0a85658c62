package fsutil

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"go.uber.org/multierr"
)

// ResetDir removes dir and everything below it, then recreates it empty.
func ResetDir(dir string) error {
	if err := os.RemoveAll(dir); err != nil {
		return fmt.Errorf("remove %s: %w", dir, err)
	}
	if err := os.MkdirAll(dir, DefaultDirMode); err != nil {
		return fmt.Errorf("create %s: %w", dir, err)
	}
	return nil
}

// MirrorOptions controls MirrorTree.
type MirrorOptions struct {
	// Skip reports whether a source path, and everything below it, is left
	// out of the mirror.
	Skip func(path string) bool
}

// MirrorTree copies every file below src into dst, following symbolic
// links. Directories reached twice through links are copied once.
//
// Copy failures of individual files do not stop the walk; they are returned
// together once the walk completes.
func MirrorTree(ctx context.Context, src, dst string, opts MirrorOptions) error {
	m := &mirror{
		opts:    opts,
		visited: make(map[string]bool),
	}
	if err := m.dir(ctx, src, dst); err != nil {
		return err
	}
	return m.errs
}

type mirror struct {
	opts    MirrorOptions
	visited map[string]bool
	errs    error
}

func (m *mirror) dir(ctx context.Context, src, dst string) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("mirror %s: %w", src, err)
	}

	real, err := filepath.EvalSymlinks(src)
	if err != nil {
		return fmt.Errorf("resolve %s: %w", src, err)
	}
	if m.visited[real] {
		return nil
	}
	m.visited[real] = true

	if err := os.MkdirAll(dst, DefaultDirMode); err != nil {
		return fmt.Errorf("create directory %s: %w", dst, err)
	}

	entries, err := os.ReadDir(src)
	if err != nil {
		return fmt.Errorf("read directory %s: %w", src, err)
	}

	for _, entry := range entries {
		from := filepath.Join(src, entry.Name())
		to := filepath.Join(dst, entry.Name())
		if m.opts.Skip != nil && m.opts.Skip(from) {
			continue
		}

		// Stat follows links, so linked directories are walked as directories.
		stat, err := os.Stat(from)
		if err != nil {
			m.errs = multierr.Append(m.errs, fmt.Errorf("stat %s: %w", from, err))
			continue
		}

		if stat.IsDir() {
			if err := m.dir(ctx, from, to); err != nil {
				return err
			}
			continue
		}

		if err := CopyFile(ctx, from, to); err != nil {
			m.errs = multierr.Append(m.errs, err)
		}
	}
	return nil
}

// CopyFile copies the file at src to dst, creating dst's parent directories
// and preserving the permission bits.
func CopyFile(ctx context.Context, src, dst string) (err error) {
	select {
	case <-ctx.Done():
		return fmt.Errorf("copy %s: %w", src, ctx.Err())
	default:
	}

	in, err := os.Open(src)
	if err != nil {
		return fmt.Errorf("open %s: %w", src, err)
	}
	defer func() { _ = in.Close() }()

	stat, err := in.Stat()
	if err != nil {
		return fmt.Errorf("stat %s: %w", src, err)
	}

	if err := os.MkdirAll(filepath.Dir(dst), DefaultDirMode); err != nil {
		return fmt.Errorf("create directory for %s: %w", dst, err)
	}

	out, err := os.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, stat.Mode().Perm())
	if err != nil {
		return fmt.Errorf("create %s: %w", dst, err)
	}
	defer func() {
		err = multierr.Append(err, out.Close())
	}()

	if _, err := io.Copy(out, in); err != nil {
		return fmt.Errorf("copy %s to %s: %w", src, dst, err)
	}
	return nil
}
