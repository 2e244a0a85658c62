package preprocess

import (
	"context"
	"fmt"
	"path"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/yaklabco/mdbook-pandoc/internal/logging"
	"github.com/yaklabco/mdbook-pandoc/pkg/book"
	"github.com/yaklabco/mdbook-pandoc/pkg/fsutil"
	"github.com/yaklabco/mdbook-pandoc/pkg/parser/goldmark"
)

// RFC 3986 section 3.1.
var uriScheme = regexp.MustCompile(`^[a-zA-Z][a-zA-Z0-9+.-]*:`)

type linkContext int

const (
	contextLink linkContext = iota
	contextImage
)

// linkTarget is a resolved link. Path is unencoded.
type linkTarget struct {
	Path   string
	Suffix string

	// External targets are written exactly as given.
	External bool
}

func external(link string) linkTarget {
	return linkTarget{Path: link, External: true}
}

func (t linkTarget) String() string {
	if t.External {
		return t.Path + t.Suffix
	}
	return encodeURI(t.Path) + t.Suffix
}

func isExternal(link string) bool {
	return uriScheme.MatchString(link) || strings.HasPrefix(link, "//")
}

// chapterDir returns the slash-separated directory of a chapter relative to
// the source directory.
func chapterDir(chapter *book.Chapter) string {
	return path.Dir(chapter.Path)
}

// normalizeLink resolves a link written in chapter. Failures are logged and
// leave the link as written, unless a hosted HTML book can serve it.
func (p *Preprocessor) normalizeLink(ctx context.Context, chapter *book.Chapter, kind goldmark.LinkKind, link string, lc linkContext) string {
	target, err := p.resolveLink(ctx, chapterDir(chapter), kind, link)
	if err == nil {
		return target.String()
	}

	if hosted, ok := p.hostedLink(chapter, link); ok {
		p.logger.Info(fmt.Sprintf("Failed to resolve link '%s' in chapter '%s', linking to hosted HTML book at '%s'",
			link, chapter.Path, hosted))
		return hosted
	}

	p.unresolved = true
	switch lc {
	case contextImage:
		p.warn(fmt.Sprintf("Failed to resolve image link '%s' in chapter '%s': %v", link, chapter.Name, err),
			logging.FieldLink, link)
	default:
		p.warn(fmt.Sprintf("Unable to normalize link '%s' in chapter '%s': %v", link, chapter.Name, err),
			logging.FieldLink, link)
	}
	return link
}

// resolveLink resolves link relative to dir. dir is either absolute or
// relative to the source directory.
func (p *Preprocessor) resolveLink(ctx context.Context, dir string, kind goldmark.LinkKind, link string) (linkTarget, error) {
	if kind == goldmark.LinkEmail || isExternal(link) {
		return external(link), nil
	}

	linkPath, suffix := splitLink(link)
	if linkPath == "" {
		return external(link), nil
	}
	decoded := decodeBestEffort(linkPath)

	if p.isResolved(decoded) {
		return external(link), nil
	}

	np, err := p.normalizeCandidates(p.candidates(dir, decoded))
	if err != nil {
		return linkTarget{}, err
	}

	if dest, ok := p.redirects[np.Rel]; ok {
		dest = p.followRedirects(dest)
		if dest.Suffix == "" {
			dest.Suffix = suffix
		}
		return dest, nil
	}

	exists, err := fsutil.Exists(np.Preprocessed)
	if err != nil {
		return linkTarget{}, err
	}
	if !exists {
		if err := fsutil.CopyFile(ctx, np.Source, np.Preprocessed); err != nil {
			return linkTarget{}, err
		}
		p.assets++
		p.logger.Debug("Copied referenced file", logging.FieldInput, np.Source, logging.FieldOutput, np.Preprocessed)
	}

	if !strings.Contains(suffix, "#") {
		anchor, err := p.beginningAnchor(ctx, np.Rel)
		if err != nil {
			return linkTarget{}, err
		}
		if anchor != "" {
			suffix += "#" + anchor
		}
	}

	return linkTarget{Path: np.Rel, Suffix: suffix}, nil
}

// candidates lists the files a link path may refer to, in lookup order.
// Redirect stubs only exist in the preprocessed tree.
func (p *Preprocessor) candidates(dir, linkPath string) []string {
	if rooted, ok := strings.CutPrefix(linkPath, "/"); ok {
		rel := filepath.FromSlash(rooted)
		return []string{filepath.Join(p.srcDir, rel), filepath.Join(p.preprocessed, rel)}
	}
	if filepath.IsAbs(dir) {
		return []string{filepath.Join(dir, filepath.FromSlash(linkPath))}
	}
	rel := filepath.FromSlash(path.Join(dir, linkPath))
	return []string{filepath.Join(p.srcDir, rel), filepath.Join(p.preprocessed, rel)}
}

func (p *Preprocessor) normalizeCandidates(files []string) (NormalizedPath, error) {
	var firstErr error
	for _, file := range files {
		np, err := p.normalizePath(file)
		if err == nil {
			return np, nil
		}
		if firstErr == nil {
			firstErr = err
		}
	}
	return NormalizedPath{}, firstErr
}

// isResolved reports whether linkPath already addresses a file of the
// preprocessed tree relative to the book root.
func (p *Preprocessor) isResolved(linkPath string) bool {
	if !strings.HasPrefix(linkPath, p.preprocessedRel+"/") {
		return false
	}
	exists, err := fsutil.Exists(filepath.Join(p.root, filepath.FromSlash(linkPath)))
	return err == nil && exists
}

// followRedirects follows the redirect table from dest to its fixed point.
// The table is static, so a chain longer than the table is a cycle.
func (p *Preprocessor) followRedirects(dest linkTarget) linkTarget {
	for range len(p.redirects) {
		if dest.External {
			break
		}
		next, ok := p.redirects[dest.Path]
		if !ok {
			break
		}
		dest = next
	}
	return dest
}

// hostedLink rewrites an unresolvable link to the hosted HTML book.
func (p *Preprocessor) hostedLink(chapter *book.Chapter, link string) (string, bool) {
	if p.hostedHTML == "" {
		return "", false
	}
	linkPath, suffix := splitLink(link)
	target := decodeBestEffort(linkPath)
	if rooted, ok := strings.CutPrefix(target, "/"); ok {
		target = rooted
	} else {
		target = path.Join(chapterDir(chapter), target)
	}
	return strings.TrimRight(p.hostedHTML, "/") + "/" + encodeURI(target) + suffix, true
}

// beginningAnchor returns the anchor of the first heading of the chapter at
// rel, or "" when rel is not a chapter or the chapter has no heading. The
// missing heading is warned about once.
func (p *Preprocessor) beginningAnchor(ctx context.Context, rel string) (string, error) {
	ic, ok := p.chapters[rel]
	if !ok {
		return "", nil
	}
	if !ic.scanned {
		anchor, err := p.scanBeginningAnchor(ctx, ic.chapter)
		if err != nil {
			return "", err
		}
		ic.scanned = true
		ic.anchor = anchor
		if anchor == "" {
			p.warn(fmt.Sprintf("Failed to determine suitable anchor for beginning of chapter '%s'", ic.chapter.Name),
				logging.FieldChapter, ic.chapter.Path)
		}
	}
	return ic.anchor, nil
}

func (p *Preprocessor) scanBeginningAnchor(ctx context.Context, chapter *book.Chapter) (string, error) {
	doc, err := p.parser.Parse(ctx, []byte(chapter.Content))
	if err != nil {
		return "", err
	}
	r := doc.Reader()
	for {
		ev, ok := r.Next()
		if !ok {
			return "", nil
		}
		if !ev.Event.IsStart(goldmark.TagHeading) {
			continue
		}
		if ev.Event.ID != "" {
			return ev.Event.ID, nil
		}
		return headingSlug(r.PeekUntil(func(e goldmark.Event) bool { return e.IsEnd(goldmark.TagHeading) })), nil
	}
}
