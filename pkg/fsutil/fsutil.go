// Package fsutil provides the file system primitives of a book build:
// reading sources, atomic writes of generated files, and mirroring the
// source tree into the build directory.
package fsutil

import (
	"bytes"
	"context"
	"crypto/sha256"
	"errors"
	"fmt"
	"os"
	"unicode/utf8"

	"golang.org/x/net/html/charset"
)

// Sentinel errors for error categorization via errors.Is.
var (
	// ErrNotFound indicates the file does not exist.
	ErrNotFound = errors.New("file not found")

	// ErrPermissionDenied indicates a permission error.
	ErrPermissionDenied = errors.New("permission denied")

	// ErrIsDirectory indicates the path is a directory, not a file.
	ErrIsDirectory = errors.New("path is a directory")
)

// FileInfo captures the state of a source file when it was read.
type FileInfo struct {
	// Path is the path the file was read from.
	Path string

	// Mode is the file's permission and mode bits.
	Mode os.FileMode

	// Size is the file size in bytes.
	Size int64

	// Hash is the SHA-256 hash of the raw file content.
	Hash [32]byte

	// Encoding names the encoding the content was decoded from. It is empty
	// for content that was already valid UTF-8.
	Encoding string
}

// ReadFile reads a file and returns its content along with metadata.
func ReadFile(ctx context.Context, path string) ([]byte, *FileInfo, error) {
	select {
	case <-ctx.Done():
		return nil, nil, fmt.Errorf("read file: %w", ctx.Err())
	default:
	}

	stat, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil, fmt.Errorf("%w: %s: %w", ErrNotFound, path, err)
		}
		if os.IsPermission(err) {
			return nil, nil, fmt.Errorf("%w: %s: %w", ErrPermissionDenied, path, err)
		}
		return nil, nil, fmt.Errorf("stat %s: %w", path, err)
	}

	if stat.IsDir() {
		return nil, nil, fmt.Errorf("%w: %s", ErrIsDirectory, path)
	}

	content, err := os.ReadFile(path)
	if err != nil {
		if os.IsPermission(err) {
			return nil, nil, fmt.Errorf("%w: %s: %w", ErrPermissionDenied, path, err)
		}
		return nil, nil, fmt.Errorf("read %s: %w", path, err)
	}

	info := &FileInfo{
		Path: path,
		Mode: stat.Mode(),
		Size: stat.Size(),
		Hash: sha256.Sum256(content),
	}

	return content, info, nil
}

// ReadText reads a text file and decodes it to UTF-8. Content that is not
// valid UTF-8 is decoded with the encoding sniffed from a byte order mark or
// a <meta charset> declaration, falling back to windows-1252.
func ReadText(ctx context.Context, path string) ([]byte, *FileInfo, error) {
	content, info, err := ReadFile(ctx, path)
	if err != nil {
		return nil, nil, err
	}
	if utf8.Valid(content) {
		return content, info, nil
	}

	enc, name, _ := charset.DetermineEncoding(content, "text/html")
	decoded, err := enc.NewDecoder().Bytes(content)
	if err != nil {
		return nil, nil, fmt.Errorf("decode %s as %s: %w", path, name, err)
	}
	info.Encoding = name
	// A truncated trailing rune is sniffed as UTF-8 and survives decoding.
	return bytes.ToValidUTF8(decoded, []byte("\uFFFD")), info, nil
}

// Exists reports whether path exists. Errors other than non-existence are
// returned.
func Exists(path string) (bool, error) {
	_, err := os.Stat(path)
	switch {
	case err == nil:
		return true, nil
	case os.IsNotExist(err):
		return false, nil
	default:
		return false, fmt.Errorf("stat %s: %w", path, err)
	}
}
