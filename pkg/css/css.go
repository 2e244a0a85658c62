// Package css extracts the little CSS knowledge the converter needs: the
// declarations of simple class selectors from stylesheets, and the
// declarations of inline style attributes.
package css

import (
	"bytes"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
	parse "github.com/tdewolff/parse/v2"
	"github.com/tdewolff/parse/v2/css"
)

// Declaration is a single property: value pair.
type Declaration struct {
	Property string
	Value    string
}

// Styles holds the declarations of class selectors collected from one or
// more stylesheets. Later rules override earlier ones property by property.
type Styles struct {
	sheets  []string
	classes map[string]map[string]string
}

// NewStyles returns an empty style set.
func NewStyles() *Styles {
	return &Styles{classes: make(map[string]map[string]string)}
}

// Stylesheets returns the names of the loaded stylesheets in load order.
func (s *Styles) Stylesheets() []string {
	return s.sheets
}

// LoadFiles reads and loads each stylesheet, resolving relative paths
// against root. Unreadable stylesheets are logged and skipped.
func (s *Styles) LoadFiles(root string, paths []string, logger *log.Logger) {
	if logger == nil {
		logger = log.Default()
	}
	for _, path := range paths {
		full := path
		if !filepath.IsAbs(full) {
			full = filepath.Join(root, path)
		}
		data, err := os.ReadFile(full)
		if err != nil {
			logger.Warn("Failed to read CSS stylesheet", "stylesheet", path, "error", err)
			continue
		}
		s.Load(path, data, logger)
	}
}

// Load parses a stylesheet and merges its class rules. Rules with any
// selector other than a single class are ignored, as are at-rules and
// everything nested in them.
func (s *Styles) Load(name string, data []byte, logger *log.Logger) {
	if logger == nil {
		logger = log.Default()
	}
	s.sheets = append(s.sheets, name)

	parser := css.NewParser(parse.NewInput(bytes.NewReader(data)), false)
	atDepth := 0
	lastErr := -1
	var classes []string

	for {
		gt, _, data := parser.Next()

		switch gt {
		case css.ErrorGrammar:
			if !parser.HasParseError() {
				if err := parser.Err(); err != nil && !errors.Is(err, io.EOF) {
					logger.Warn("Failed to read CSS", "stylesheet", name, "error", err)
				}
				return
			}
			if parser.Offset() == lastErr {
				return
			}
			lastErr = parser.Offset()
			logger.Warn("Failed to parse CSS", "stylesheet", name, "error", parser.Err())

		case css.BeginAtRuleGrammar:
			atDepth++

		case css.EndAtRuleGrammar:
			if atDepth > 0 {
				atDepth--
			}

		case css.BeginRulesetGrammar:
			if atDepth > 0 {
				classes = nil
				continue
			}
			classes = classSelectors(parser.Values())

		case css.DeclarationGrammar:
			if atDepth > 0 || len(classes) == 0 {
				continue
			}
			decl := declaration(data, parser.Values())
			for _, class := range classes {
				props, ok := s.classes[class]
				if !ok {
					props = make(map[string]string)
					s.classes[class] = props
				}
				props[decl.Property] = decl.Value
			}

		case css.EndRulesetGrammar:
			classes = nil
		}
	}
}

// Property returns the value of prop declared for class.
func (s *Styles) Property(class, prop string) (string, bool) {
	props, ok := s.classes[class]
	if !ok {
		return "", false
	}
	value, ok := props[prop]
	return value, ok
}

// Class returns the declarations of class. The map must not be modified.
func (s *Styles) Class(class string) map[string]string {
	return s.classes[class]
}

// ParseInline parses the declarations of a style attribute, in source order.
// Malformed declarations are skipped.
func ParseInline(style string) []Declaration {
	if strings.TrimSpace(style) == "" {
		return nil
	}

	parser := css.NewParser(parse.NewInput(strings.NewReader(style)), true)
	var decls []Declaration
	lastErr := -1
	for {
		gt, _, data := parser.Next()
		switch gt {
		case css.ErrorGrammar:
			if !parser.HasParseError() || parser.Offset() == lastErr {
				return decls
			}
			lastErr = parser.Offset()
		case css.DeclarationGrammar:
			decls = append(decls, declaration(data, parser.Values()))
		}
	}
}

// Lookup returns the value of the last declaration of prop.
func Lookup(decls []Declaration, prop string) (string, bool) {
	for i := len(decls) - 1; i >= 0; i-- {
		if decls[i].Property == prop {
			return decls[i].Value, true
		}
	}
	return "", false
}

func declaration(name []byte, values []css.Token) Declaration {
	return Declaration{Property: string(name), Value: joinTokens(values)}
}

func joinTokens(tokens []css.Token) string {
	var sb strings.Builder
	for _, tok := range tokens {
		sb.Write(tok.Data)
	}
	return strings.TrimSpace(sb.String())
}

// classSelectors returns the class names of a comma separated selector list
// when every selector is a single class (".name").
func classSelectors(tokens []css.Token) []string {
	var classes []string
	for sel := range strings.SplitSeq(joinTokens(tokens), ",") {
		sel = strings.TrimSpace(sel)
		name, ok := strings.CutPrefix(sel, ".")
		if !ok || !isIdent(name) {
			continue
		}
		classes = append(classes, name)
	}
	return classes
}

func isIdent(s string) bool {
	if s == "" {
		return false
	}
	for i, r := range s {
		switch {
		case r == '-' || r == '_' || r >= 0x80:
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z':
		case r >= '0' && r <= '9' && i > 0:
		default:
			return false
		}
	}
	return true
}
