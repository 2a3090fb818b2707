package wiki

import (
	"testing"
	"testing/fstest"
	"time"

	"github.com/hesusruiz/tsv2smw/lang"
	"github.com/hesusruiz/tsv2smw/shell"
	"github.com/stretchr/testify/require"
)

func testEnv(t *testing.T, code string) *Env {
	t.Helper()
	loc, err := lang.New(code)
	require.NoError(t, err)
	return &Env{
		Shells: shell.NewLoader(nil, nil),
		Lang:   loc,
		Pages: fstest.MapFS{
			"intro_param.md":    {Data: []byte("<!-- Main Page -->\nWelcome to $1, see $10 & more\n")},
			"it/intro_param.md": {Data: []byte("<!-- Pagina principale -->\nBenvenuti in $1\n")},
			"common.js":         {Data: []byte("// MediaWiki:Common.js\nvar db = '$1';\n")},
			"style.css":         {Data: []byte("/* MediaWiki:Common.css */\nbody {}\n")},
			"plain.md":          {Data: []byte("no comment here\n")},
		},
		Now: func() time.Time { return time.Date(2024, 5, 1, 10, 30, 0, 0, time.UTC) },
	}
}

func TestDocumentIdentity(t *testing.T) {
	env := testEnv(t, "en")
	p := NewProperty(42, "Weight", "", 0, "", 0, "")
	require.Equal(t, 42, p.Identity().ID)

	out, err := p.Render(env)
	require.NoError(t, err)
	require.Contains(t, out, "<id>42</id>")
	require.Contains(t, out, "<timestamp>2024-05-01T10:30:00Z</timestamp>")
}
