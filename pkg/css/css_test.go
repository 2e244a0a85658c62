package css_test

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/mdbook-pandoc/pkg/css"
)

func TestStyles_Load(t *testing.T) {
	t.Parallel()

	styles := css.NewStyles()
	styles.Load("theme.css", []byte(`
/* comment */
.ferris-explain { width: 100px; height: 50 }
.hidden, .also-hidden { display: none; }
div.scoped { width: 10px }
p { width: 20px }
@media print {
  .ferris-explain { width: 1px }
}
.ferris-explain { height: 60 }
`), log.New(&bytes.Buffer{}))

	width, ok := styles.Property("ferris-explain", "width")
	require.True(t, ok)
	assert.Equal(t, "100px", width)

	height, ok := styles.Property("ferris-explain", "height")
	require.True(t, ok)
	assert.Equal(t, "60", height)

	for _, class := range []string{"hidden", "also-hidden"} {
		display, ok := styles.Property(class, "display")
		require.True(t, ok, class)
		assert.Equal(t, "none", display)
	}

	_, ok = styles.Property("scoped", "width")
	assert.False(t, ok)
	assert.Nil(t, styles.Class("p"))
	assert.Equal(t, []string{"theme.css"}, styles.Stylesheets())
}

func TestStyles_LoadFiles(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(root, "a.css"), []byte(".a { width: 5em }"), 0o644))

	var buf bytes.Buffer
	styles := css.NewStyles()
	styles.LoadFiles(root, []string{"a.css", "missing.css"}, log.New(&buf))

	width, ok := styles.Property("a", "width")
	require.True(t, ok)
	assert.Equal(t, "5em", width)
	assert.Equal(t, 1, strings.Count(buf.String(), "Failed to read CSS stylesheet"))
	assert.Contains(t, buf.String(), "missing.css")
}

func TestParseInline(t *testing.T) {
	t.Parallel()

	decls := css.ParseInline("width: 50px; height:100px;display : none")
	assert.Equal(t, []css.Declaration{
		{Property: "width", Value: "50px"},
		{Property: "height", Value: "100px"},
		{Property: "display", Value: "none"},
	}, decls)

	value, ok := css.Lookup(decls, "display")
	require.True(t, ok)
	assert.Equal(t, "none", value)

	assert.Empty(t, css.ParseInline("   "))
}
