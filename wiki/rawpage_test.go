package wiki

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNamespaceOf(t *testing.T) {
	tests := []struct {
		name  string
		want  Namespace
		known bool
	}{
		{"MediaWiki:Sidebar", NamespaceMediaWiki, true},
		{"Form:Search entry", NamespaceForm, true},
		{"Widget:ShinyPlotSrv", NamespaceWidget, true},
		{"Module:Stats", NamespaceModule, true},
		{"Template:Timeline", NamespaceTemplate, true},
		{"Main Page", NamespacePage, false},
		{"Ratio 1:2", NamespacePage, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ns, known := NamespaceOf(tt.name)
			assert.Equal(t, tt.known, known)
			if known {
				assert.Equal(t, tt.want, ns)
			}
		})
	}
}

func TestRawPageResolve(t *testing.T) {
	params := []string{"Registry", "2", "3", "4", "5", "6", "7", "8", "9", "ten"}
	tests := []struct {
		name     string
		language string
		page     *RawPage
		wantName string
		wantNS   Namespace
		wantText string
	}{
		{
			name:     "first line names the page",
			language: "en",
			page:     NewRawPage(1, "", NamespaceAuto, "intro_param.md", "", params),
			wantName: "Main Page",
			wantNS:   NamespacePage,
			wantText: "Welcome to Registry, see ten &amp; more\n",
		},
		{
			name:     "language directory first",
			language: "it",
			page:     NewRawPage(1, "", NamespaceAuto, "intro_param.md", "", params),
			wantName: "Pagina principale",
			wantNS:   NamespacePage,
			wantText: "Benvenuti in Registry\n",
		},
		{
			name:     "fallback to the default page",
			language: "it",
			page:     NewRawPage(1, "", NamespaceAuto, "common.js", "", []string{"db"}),
			wantName: "MediaWiki:Common.js",
			wantNS:   NamespaceMediaWiki,
			wantText: "var db = &#39;db&#39;;\n",
		},
		{
			name:     "block comment",
			language: "en",
			page:     NewRawPage(1, "", NamespaceAuto, "style.css", "", nil),
			wantName: "MediaWiki:Common.css",
			wantNS:   NamespaceMediaWiki,
			wantText: "body {}\n",
		},
		{
			name:     "explicit name keeps the first line",
			language: "en",
			page:     NewRawPage(1, "Form:Plain", NamespaceAuto, "plain.md", "", nil),
			wantName: "Form:Plain",
			wantNS:   NamespaceForm,
			wantText: "no comment here\n",
		},
		{
			name:     "literal text",
			language: "en",
			page:     NewRawPage(1, "Smw true words", NamespaceMediaWiki, "", "<b>yes</b>", nil),
			wantName: "Smw true words",
			wantNS:   NamespaceMediaWiki,
			wantText: "&lt;b&gt;yes&lt;/b&gt;",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			name, ns, text, err := tt.page.Resolve(testEnv(t, tt.language))
			require.NoError(t, err)
			assert.Equal(t, tt.wantName, name)
			assert.Equal(t, tt.wantNS, ns)
			assert.Equal(t, tt.wantText, text)
		})
	}
}

func TestRawPageRender(t *testing.T) {
	env := testEnv(t, "en")

	out, err := NewRawPage(7, "", NamespaceAuto, "common.js", "", []string{"db"}).Render(env)
	require.NoError(t, err)
	assert.Contains(t, out, "<title>MediaWiki:Common.js</title>")
	assert.Contains(t, out, "<ns>8</ns>")
	assert.Contains(t, out, "<model>javascript</model>")

	_, err = NewRawPage(8, "", NamespaceAuto, "missing.md", "", nil).Render(env)
	assert.Error(t, err)
}
