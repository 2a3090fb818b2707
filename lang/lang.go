// Package lang holds the localized strings used in the generated pages.
package lang

import (
	_ "embed"
	"fmt"
	"strings"

	"github.com/hesusruiz/vcutils/yaml"
	"golang.org/x/text/language"
)

//go:embed localization.yaml
var localization string

// Supported languages. The first one is the fallback.
var supported = []language.Tag{language.English, language.Italian}

var matcher = language.NewMatcher(supported)

// Localizer returns the strings of one language.
type Localizer struct {
	tag   language.Tag
	code  string
	table *yaml.YAML
}

// New returns a localizer for the language closest to code ("en", "it-IT", ...).
// An empty code selects English.
func New(code string) (*Localizer, error) {
	table, err := yaml.ParseYaml(localization)
	if err != nil {
		return nil, fmt.Errorf("parsing localization table: %w", err)
	}
	return newLocalizer(code, table)
}

// NewFromYAML is like New but reads the strings from src, which has the same
// layout as the embedded table.
func NewFromYAML(code string, src string) (*Localizer, error) {
	table, err := yaml.ParseYaml(src)
	if err != nil {
		return nil, fmt.Errorf("parsing localization table: %w", err)
	}
	return newLocalizer(code, table)
}

func newLocalizer(code string, table *yaml.YAML) (*Localizer, error) {
	tag := language.English
	if len(code) > 0 {
		requested, err := language.Parse(code)
		if err != nil {
			return nil, fmt.Errorf("language '%s': %w", code, err)
		}
		_, index, _ := matcher.Match(requested)
		tag = supported[index]
	}
	base, _ := tag.Base()
	return &Localizer{tag: tag, code: base.String(), table: table}, nil
}

// Language returns the two-letter code of the selected language.
func (l *Localizer) Language() string {
	return l.code
}

// Tag returns the selected language tag.
func (l *Localizer) Tag() language.Tag {
	return l.tag
}

// Get returns the string for key, falling back to English and then to the key itself.
func (l *Localizer) Get(key string) string {
	if s := l.table.String(l.code + "." + key); len(s) > 0 {
		return s
	}
	return l.table.String("en."+key, key)
}

// Format returns the string for key with {0}, {1}, ... replaced by args.
func (l *Localizer) Format(key string, args ...string) string {
	pairs := make([]string, 0, 2*len(args))
	for i, a := range args {
		pairs = append(pairs, fmt.Sprintf("{%d}", i), a)
	}
	return strings.NewReplacer(pairs...).Replace(l.Get(key))
}
