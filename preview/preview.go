// Package preview renders developer aids for a compiled schema: the XML dump
// as highlighted HTML and the structure of the schema as a diagram.
package preview

import (
	"io"

	"github.com/alecthomas/chroma/v2"
	hlhtml "github.com/alecthomas/chroma/v2/formatters/html"
	"github.com/alecthomas/chroma/v2/lexers"
	"github.com/alecthomas/chroma/v2/styles"
)

// DefaultStyle is the highlighting style used when none is configured.
const DefaultStyle = "github"

// HTML writes the dump to w as a standalone HTML page with line numbers,
// so that errors reported by the wiki importer can be located.
func HTML(w io.Writer, dump string, styleName string) error {
	l := lexers.Get("xml")
	if l == nil {
		l = lexers.Fallback
	}
	l = chroma.Coalesce(l)

	if len(styleName) == 0 {
		styleName = DefaultStyle
	}
	s := styles.Get(styleName)

	f := hlhtml.New(hlhtml.Standalone(true), hlhtml.WithLineNumbers(true))

	it, err := l.Tokenise(nil, dump)
	if err != nil {
		return err
	}
	return f.Format(w, s, it)
}
