package pandoc_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/mdbook-pandoc/pkg/pandoc"
)

func TestParseVersion(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{in: "3.6", want: "3.6"},
		{in: "3.1.11.1", want: "3.1.11.1"},
		{in: "v2.19.2", want: "2.19.2"},
		{in: "", wantErr: true},
		{in: "3.x", wantErr: true},
		{in: "3..1", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			t.Parallel()

			v, err := pandoc.ParseVersion(tt.in)
			if tt.wantErr {
				require.ErrorIs(t, err, pandoc.ErrInvalidVersion)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, v.String())
		})
	}
}

func TestVersion_Compare(t *testing.T) {
	t.Parallel()

	v := pandoc.MustParseVersion
	assert.Equal(t, 0, v("2.10").Compare(v("2.10.0")))
	assert.Equal(t, -1, v("2.10.0").Compare(v("2.10.1")))
	assert.Equal(t, 1, v("3.1.11.1").Compare(v("3.1.11")))
	assert.Equal(t, 1, v("2.10").Compare(v("2.9.9")))
}

func TestExtension_AvailableIn(t *testing.T) {
	t.Parallel()

	v := pandoc.MustParseVersion
	assert.True(t, pandoc.Footnotes.AvailableIn(v("2.10.1")))
	assert.False(t, pandoc.Footnotes.AvailableIn(v("2.10")))
	assert.True(t, pandoc.Strikeout.AvailableIn(v("1.0")))
	assert.False(t, pandoc.RebaseRelativePaths.AvailableIn(v("2.13")))
	assert.Equal(t, "pipe_tables", pandoc.PipeTables.Name())

	e, ok := pandoc.ParseExtension("raw_attribute")
	require.True(t, ok)
	assert.Equal(t, pandoc.RawAttribute, e)
	assert.Len(t, pandoc.AllExtensions(), 11)
}

func TestCapabilities(t *testing.T) {
	t.Parallel()

	caps := pandoc.NewCapabilities(pandoc.MustParseVersion("2.9"), pandoc.FormatLatex)

	assert.True(t, caps.Enable(pandoc.Strikeout))
	assert.False(t, caps.Enable(pandoc.Footnotes))
	assert.False(t, caps.Available(pandoc.RawAttribute))

	assert.Equal(t, []pandoc.Extension{pandoc.Strikeout, pandoc.GfmAutoIdentifiers}, caps.Enabled())
	assert.Equal(t, []pandoc.Extension{pandoc.Footnotes}, caps.Unavailable())
	assert.Equal(t, "commonmark+strikeout+gfm_auto_identifiers", caps.ReaderFormat())

	caps.NeedLatexPackage(pandoc.FontAwesome)
	caps.NeedLatexPackage(pandoc.FontAwesome)
	assert.Equal(t, []pandoc.LatexPackage{pandoc.FontAwesome}, caps.LatexPackages())
}
