package pandoc

import "slices"

// LatexPackage is a LaTeX package the generated documents rely on.
type LatexPackage string

// Known LaTeX packages.
const (
	FontAwesome LatexPackage = "fontawesome"
)

// Capabilities answers which pandoc extensions may be used for a build and
// records the ones that were.
//
// Availability is memoized per extension. A Capabilities value belongs to a
// single build and is not safe for concurrent use.
type Capabilities struct {
	version   Version
	format    OutputFormat
	checked   map[Extension]bool
	enabled   map[Extension]bool
	latexPkgs map[LatexPackage]bool
}

// NewCapabilities returns the capabilities of pandoc version v rendering to
// format. GitHub-style identifiers are always requested so heading anchors
// match the generated ids.
func NewCapabilities(v Version, format OutputFormat) *Capabilities {
	c := &Capabilities{
		version:   v,
		format:    format,
		checked:   make(map[Extension]bool),
		enabled:   make(map[Extension]bool),
		latexPkgs: make(map[LatexPackage]bool),
	}
	c.Enable(GfmAutoIdentifiers)
	return c
}

// Version returns the pandoc version.
func (c *Capabilities) Version() Version { return c.version }

// Format returns the output format.
func (c *Capabilities) Format() OutputFormat { return c.format }

// Available reports whether pandoc supports e, without marking it used.
func (c *Capabilities) Available(e Extension) bool {
	available, ok := c.checked[e]
	if !ok {
		available = e.AvailableIn(c.version)
		c.checked[e] = available
	}
	return available
}

// Enable marks e as used and reports whether it is available.
func (c *Capabilities) Enable(e Extension) bool {
	available := c.Available(e)
	c.enabled[e] = available
	return available
}

// Enabled returns the used extensions that are available, in declaration
// order.
func (c *Capabilities) Enabled() []Extension {
	return c.collect(true)
}

// Unavailable returns the used extensions this pandoc version lacks.
func (c *Capabilities) Unavailable() []Extension {
	return c.collect(false)
}

func (c *Capabilities) collect(available bool) []Extension {
	var out []Extension
	for e, ok := range c.enabled {
		if ok == available {
			out = append(out, e)
		}
	}
	slices.Sort(out)
	return out
}

// NeedLatexPackage records that the output requires pkg.
func (c *Capabilities) NeedLatexPackage(pkg LatexPackage) {
	c.latexPkgs[pkg] = true
}

// LatexPackages returns the needed LaTeX packages, sorted by name.
func (c *Capabilities) LatexPackages() []LatexPackage {
	out := make([]LatexPackage, 0, len(c.latexPkgs))
	for pkg := range c.latexPkgs {
		out = append(out, pkg)
	}
	slices.Sort(out)
	return out
}

// ReaderFormat returns the pandoc --from argument for the generated
// documents: commonmark plus every available enabled extension.
func (c *Capabilities) ReaderFormat() string {
	from := "commonmark"
	for _, e := range c.Enabled() {
		from += "+" + e.Name()
	}
	return from
}
