package logging

// Keys of structured log fields.
const (
	// Common fields.
	FieldError      = "error"
	FieldPath       = "path"
	FieldInput      = "input"
	FieldOutput     = "output"
	FieldWorkingDir = "working_dir"

	// Book fields.
	FieldBook    = "book"
	FieldChapter = "chapter"
	FieldLink    = "link"
	FieldPart    = "part"

	// Configuration fields.
	FieldConfig  = "config"
	FieldProfile = "profile"
	FieldFormat  = "format"
	FieldPandoc  = "pandoc"
	FieldStrict  = "strict"

	// Statistics fields.
	FieldChaptersWritten = "chapters_written"
	FieldPartsWritten    = "parts_written"
	FieldAssetsCopied    = "assets_copied"
	FieldWarnings        = "warnings"
	FieldUnresolvedLinks = "unresolved_links"
	FieldMaxListDepth    = "max_list_depth"

	// Version fields.
	FieldVersion = "version"
	FieldCommit  = "commit"
	FieldBuilt   = "built"
)
