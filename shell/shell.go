// Package shell loads the literal markup shells that the renderer fills.
//
// A shell is a fragment of the XML dump with «PLACEHOLDER» markers. Shells
// are looked up by logical name, first in an optional override directory and
// then among the embedded defaults, and each one is read at most once per
// Loader.
package shell

import (
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"path"
	"strings"

	"github.com/hesusruiz/tsv2smw/sliceedit"
	"go.uber.org/zap"
)

// Logical shell names.
const (
	SiteInfo       = "siteinfo"
	Property       = "property"
	Template       = "template"
	SimpleTemplate = "simple_template"
	Form           = "form"
	SimpleForm     = "simple_form"
	Category       = "category"
	Instance       = "instance"
	RawPage        = "raw_page"
	JSPage         = "js_page"
	CSSPage        = "css_page"
)

// Names lists every shell the renderer may ask for.
var Names = []string{SiteInfo, Property, Template, SimpleTemplate, Form, SimpleForm,
	Category, Instance, RawPage, JSPage, CSSPage}

// DumpSuffix closes the XML dump.
const DumpSuffix = "</mediawiki>\n"

const siteInfoEnd = "</siteinfo>"

//go:embed shells/*.xml
var embedded embed.FS

// ErrUnknownShell is returned when no source has the requested shell.
var ErrUnknownShell = errors.New("unknown shell")

// Provider returns the text of a shell given its logical name.
type Provider interface {
	Shell(name string) (string, error)
}

// Loader is a Provider reading shells from a list of file systems and
// memoizing what it reads.
type Loader struct {
	sources []fs.FS
	cache   map[string]string
	log     *zap.SugaredLogger
}

// NewLoader returns a Loader looking into override (which may be nil) before
// the embedded shells.
func NewLoader(override fs.FS, log *zap.SugaredLogger) *Loader {
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	l := &Loader{cache: map[string]string{}, log: log}
	if override != nil {
		l.sources = append(l.sources, override)
	}
	defaults, _ := fs.Sub(embedded, "shells")
	l.sources = append(l.sources, defaults)
	return l
}

// Shell implements Provider.
func (l *Loader) Shell(name string) (string, error) {
	if text, ok := l.cache[name]; ok {
		return text, nil
	}

	file := name + ".xml"
	for _, src := range l.sources {
		data, err := fs.ReadFile(src, file)
		if errors.Is(err, fs.ErrNotExist) {
			continue
		}
		if err != nil {
			return "", fmt.Errorf("reading shell %s: %w", name, err)
		}
		text := string(data)
		l.cache[name] = text
		l.log.Debugw("shell loaded", "name", name, "placeholders", sliceedit.Placeholders(text))
		return text, nil
	}

	return "", fmt.Errorf("%w '%s'", ErrUnknownShell, name)
}

// Fill loads a shell and replaces its markers with values.
func Fill(p Provider, name string, values map[string]string) (string, error) {
	text, err := p.Shell(name)
	if err != nil {
		return "", err
	}
	return sliceedit.Fill(text, values), nil
}

// DumpPrefix returns the beginning of the XML dump, up to and including the
// site information, with the host and wiki name filled in.
func DumpPrefix(p Provider, host string, wikiName string) (string, error) {
	text, err := p.Shell(SiteInfo)
	if err != nil {
		return "", err
	}
	end := strings.Index(text, siteInfoEnd)
	if end < 0 {
		return "", fmt.Errorf("shell %s: missing %s", SiteInfo, siteInfoEnd)
	}
	prefix := text[:end+len(siteInfoEnd)] + "\n"
	return sliceedit.Fill(prefix, map[string]string{"HOST": host, "NAME": wikiName}), nil
}

// ShellFor returns the raw page shell matching the extension of file.
func ShellFor(file string) string {
	switch strings.ToLower(path.Ext(file)) {
	case ".js":
		return JSPage
	case ".css":
		return CSSPage
	}
	return RawPage
}
