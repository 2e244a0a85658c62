package preprocess

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"net/url"
	"path"
	"path/filepath"
	"strings"
)

// NormalizedPath locates a file referenced by the book in both the source
// tree and the preprocessed output tree.
type NormalizedPath struct {
	// Source is the absolute, symlink-free path of the referenced file.
	Source string

	// Preprocessed is the absolute path of the file's copy in the output tree.
	Preprocessed string

	// Rel is Preprocessed relative to the book root, slash separated. It is
	// the form links are written in.
	Rel string
}

// canonical returns the absolute path with symbolic links and ".."
// elements resolved. The file must exist.
func canonical(p string) (string, error) {
	abs, err := filepath.Abs(p)
	if err != nil {
		return "", err
	}
	return filepath.EvalSymlinks(abs)
}

// canonicalWithFallback resolves p, falling back to the rendered or source
// counterpart of chapter files: index.html to README.md, x.html to x.md and
// x.md to x.html.
func canonicalWithFallback(p string) (string, error) {
	resolved, err := canonical(p)
	if err == nil {
		return resolved, nil
	}

	ext := filepath.Ext(p)
	stem := strings.TrimSuffix(p, ext)
	switch ext {
	case ".html":
		if filepath.Base(stem) == "index" {
			if readme, readmeErr := canonical(filepath.Join(filepath.Dir(p), "README.md")); readmeErr == nil {
				return readme, nil
			}
		}
		if md, mdErr := canonical(stem + ".md"); mdErr == nil {
			return md, nil
		}
	case ".md":
		if html, htmlErr := canonical(stem + ".html"); htmlErr == nil {
			return html, nil
		}
	}
	return "", err
}

// normalizePath maps p to its place in the output tree. Files below the
// source or output tree keep their relative path; anything else gets a
// name derived from a hash of its absolute path.
func (p *Preprocessor) normalizePath(file string) (NormalizedPath, error) {
	abs, err := canonicalWithFallback(file)
	if err != nil {
		return NormalizedPath{}, fmt.Errorf("unable to normalize path %s: %w", file, err)
	}

	rel, ok := within(p.srcDir, abs)
	if !ok {
		rel, ok = within(p.preprocessed, abs)
	}
	if !ok {
		rel = hashedName(abs)
	}

	return NormalizedPath{
		Source:       abs,
		Preprocessed: filepath.Join(p.preprocessed, rel),
		Rel:          path.Join(p.preprocessedRel, filepath.ToSlash(rel)),
	}, nil
}

// within returns target relative to dir when target lies below dir.
func within(dir, target string) (string, bool) {
	rel, err := filepath.Rel(dir, target)
	if err != nil || rel == "." || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", false
	}
	return rel, true
}

func hashedName(abs string) string {
	sum := sha256.Sum256([]byte(abs))
	return hex.EncodeToString(sum[:8]) + filepath.Ext(abs)
}

// splitLink separates the path of a link from its query and fragment.
func splitLink(link string) (string, string) {
	if i := strings.IndexAny(link, "?#"); i >= 0 {
		return link[:i], link[i:]
	}
	return link, ""
}

// decodeBestEffort percent-decodes s, returning it unchanged when it is not
// validly encoded.
func decodeBestEffort(s string) string {
	decoded, err := url.PathUnescape(s)
	if err != nil {
		return s
	}
	return decoded
}

// encodeURI percent-encodes s like JavaScript's encodeURI: characters that
// may be part of URI syntax are kept.
func encodeURI(s string) string {
	const hexDigits = "0123456789ABCDEF"

	var sb strings.Builder
	for i := range len(s) {
		c := s[i]
		if keepInURI(c) {
			sb.WriteByte(c)
			continue
		}
		sb.WriteByte('%')
		sb.WriteByte(hexDigits[c>>4])
		sb.WriteByte(hexDigits[c&0xf])
	}
	return sb.String()
}

func keepInURI(c byte) bool {
	switch {
	case 'a' <= c && c <= 'z', 'A' <= c && c <= 'Z', '0' <= c && c <= '9':
		return true
	}
	return strings.IndexByte("-_.!~*'();/?:@&=+$,#", c) >= 0
}
