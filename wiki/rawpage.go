package wiki

import (
	"bufio"
	"fmt"
	"io/fs"
	"path"
	"strconv"
	"strings"

	"github.com/hesusruiz/tsv2smw/schema"
	"github.com/hesusruiz/tsv2smw/shell"
)

// Namespace is a MediaWiki namespace.
type Namespace int

const (
	NamespaceAuto      Namespace = -10 // resolved from the prefix of the page name
	NamespacePage      Namespace = 0
	NamespaceMediaWiki Namespace = 8
	NamespaceTemplate  Namespace = 10
	NamespaceCategory  Namespace = 14
	NamespaceProperty  Namespace = 102
	NamespaceForm      Namespace = 106
	NamespaceWidget    Namespace = 274
	NamespaceModule    Namespace = 828
)

var namespaceByPrefix = map[string]Namespace{
	"Page":      NamespacePage,
	"MediaWiki": NamespaceMediaWiki,
	"Template":  NamespaceTemplate,
	"Category":  NamespaceCategory,
	"Property":  NamespaceProperty,
	"Form":      NamespaceForm,
	"Widget":    NamespaceWidget,
	"Module":    NamespaceModule,
}

// NamespaceOf returns the namespace named by the prefix of a page name.
func NamespaceOf(name string) (Namespace, bool) {
	prefix, _, found := strings.Cut(name, ":")
	if !found {
		return NamespacePage, false
	}
	ns, ok := namespaceByPrefix[strings.TrimSpace(prefix)]
	return ns, ok
}

// RawPage is a page with a literal text. Without text, it is read from File
// in the simple pages, preferring the directory of the current language.
// The first line of the file names the page when Name is empty, and $1..$n
// are replaced with Params.
type RawPage struct {
	DocumentIdentity
	Namespace Namespace
	File      string
	Text      string
	Params    []string
}

func NewRawPage(id int, name string, ns Namespace, file, text string, params []string) *RawPage {
	return &RawPage{
		DocumentIdentity: DocumentIdentity{ID: id, Name: name},
		Namespace:        ns,
		File:             file,
		Text:             text,
		Params:           params,
	}
}

// commentDelimiters are the comment markers accepted on the first line of a simple page.
var commentDelimiters = []struct{ open, close string }{
	{"<!--", "-->"},
	{"/*", "*/"},
	{"//", ""},
	{"--", ""},
	{"#", ""},
}

// pageName extracts the page name from a first-line comment.
func pageName(line string) (string, bool) {
	for _, d := range commentDelimiters {
		if rest, ok := strings.CutPrefix(line, d.open); ok {
			rest = strings.TrimSpace(rest)
			return strings.TrimSpace(strings.TrimSuffix(rest, d.close)), true
		}
	}
	return "", false
}

// readSimplePage returns the file of the current language, or the default one.
func readSimplePage(pages fs.FS, language, file string) ([]byte, error) {
	if pages == nil {
		return nil, fmt.Errorf("simple page '%s': no pages source", file)
	}
	if len(language) > 0 {
		if data, err := fs.ReadFile(pages, path.Join(language, file)); err == nil {
			return data, nil
		}
	}
	return fs.ReadFile(pages, file)
}

// substitute replaces $1..$n, starting from the highest so that $1 does not eat $10.
func substitute(text string, params []string) string {
	for i := len(params); i > 0; i-- {
		text = strings.ReplaceAll(text, "$"+strconv.Itoa(i), params[i-1])
	}
	return text
}

// Resolve returns the name, namespace and text of the page.
func (p *RawPage) Resolve(env *Env) (string, Namespace, string, error) {
	name, text := p.Name, p.Text

	if len(text) == 0 && len(p.File) > 0 {
		var language string
		if env.Lang != nil {
			language = env.Lang.Language()
		}
		data, err := readSimplePage(env.Pages, language, p.File)
		if err != nil {
			return "", 0, "", err
		}

		var b strings.Builder
		scanner := bufio.NewScanner(strings.NewReader(string(data)))
		scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
		first := true
		for scanner.Scan() {
			line := scanner.Text()
			if first && len(name) == 0 {
				if n, ok := pageName(line); ok {
					name = n
					first = false
					continue
				}
			}
			first = false
			b.WriteString(line)
			b.WriteByte('\n')
		}
		if err := scanner.Err(); err != nil {
			return "", 0, "", fmt.Errorf("simple page '%s': %w", p.File, err)
		}
		text = substitute(b.String(), p.Params)
	}

	ns := p.Namespace
	if prefixed, ok := NamespaceOf(name); ok {
		ns = prefixed
	} else if ns == NamespaceAuto {
		ns = NamespacePage
	}

	return name, ns, schema.ConvertEntities(text), nil
}

func (p *RawPage) Render(env *Env) (string, error) {
	name, ns, text, err := p.Resolve(env)
	if err != nil {
		return "", err
	}
	return p.fill(env, shell.ShellFor(p.File), map[string]string{
		"NAME": name,
		"NS":   strconv.Itoa(int(ns)),
		"TEXT": text,
	})
}
