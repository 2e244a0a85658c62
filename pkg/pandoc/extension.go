package pandoc

// Extension is a pandoc Markdown reader extension used by the generated
// documents.
type Extension int

// Extensions in the order they are reported.
const (
	Strikeout Extension = iota
	Footnotes
	PipeTables
	TaskLists
	Attributes
	AutoIdentifiers
	GfmAutoIdentifiers
	RawAttribute
	DefinitionLists
	FencedDivs
	RebaseRelativePaths

	extensionCount
)

var extensionNames = [extensionCount]string{
	Strikeout:           "strikeout",
	Footnotes:           "footnotes",
	PipeTables:          "pipe_tables",
	TaskLists:           "task_lists",
	Attributes:          "attributes",
	AutoIdentifiers:     "auto_identifiers",
	GfmAutoIdentifiers:  "gfm_auto_identifiers",
	RawAttribute:        "raw_attribute",
	DefinitionLists:     "definition_lists",
	FencedDivs:          "fenced_divs",
	RebaseRelativePaths: "rebase_relative_paths",
}

// Extensions are assumed never to be removed once pandoc adds them, so a
// minimum version is the whole requirement.
var extensionMinimum = [extensionCount]Version{
	Strikeout:           {0, 10, 0},
	Footnotes:           {2, 10, 1},
	PipeTables:          {0, 10, 0},
	TaskLists:           {2, 6, 0},
	Attributes:          {2, 10, 1},
	AutoIdentifiers:     {0, 10, 0},
	GfmAutoIdentifiers:  {2, 0, 0},
	RawAttribute:        {2, 10, 1},
	DefinitionLists:     {0, 10, 0},
	FencedDivs:          {2, 0, 0},
	RebaseRelativePaths: {2, 14, 0},
}

// Name returns the extension name as pandoc spells it.
func (e Extension) Name() string {
	if e < 0 || e >= extensionCount {
		return "unknown"
	}
	return extensionNames[e]
}

func (e Extension) String() string { return e.Name() }

// MinimumVersion returns the first pandoc version that supports e.
func (e Extension) MinimumVersion() Version {
	if e < 0 || e >= extensionCount {
		return nil
	}
	return extensionMinimum[e]
}

// AvailableIn reports whether pandoc version v supports e.
func (e Extension) AvailableIn(v Version) bool {
	minimum := e.MinimumVersion()
	return minimum != nil && v.Compare(minimum) >= 0
}

// AllExtensions returns every known extension.
func AllExtensions() []Extension {
	all := make([]Extension, 0, extensionCount)
	for e := range extensionCount {
		all = append(all, e)
	}
	return all
}

// ParseExtension looks up an extension by its pandoc name.
func ParseExtension(name string) (Extension, bool) {
	for e, n := range extensionNames {
		if n == name {
			return Extension(e), true
		}
	}
	return 0, false
}
