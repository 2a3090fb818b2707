package wiki

import (
	"fmt"
	"strings"

	"github.com/hesusruiz/tsv2smw/schema"
	"github.com/hesusruiz/tsv2smw/shell"
)

// SimpleTemplate is a template with a literal body.
type SimpleTemplate struct {
	DocumentIdentity
	Body         string
	LinkProperty string
	Categories   []string
	Modules      []string
}

func NewSimpleTemplate(id int, name, message, body, linkProperty string, categories []string, modules []string) *SimpleTemplate {
	return &SimpleTemplate{
		DocumentIdentity: DocumentIdentity{ID: id, Name: name, Message: message},
		Body:             body,
		LinkProperty:     linkProperty,
		Categories:       categories,
		Modules:          modules,
	}
}

// modules declares an array for each user module used by the template.
func modules(used []string) string {
	decls := make([]string, len(used))
	for i, u := range used {
		decls[i] = fmt.Sprintf("{{#arraydefine: %s | {{#%s: | ... }} }}", u, u)
	}
	return strings.Join(decls, "\n\n")
}

func categoryLinks(categories []string, sep string) string {
	links := make([]string, len(categories))
	for i, cat := range categories {
		links[i] = fmt.Sprintf("{{#if: %s | [[Category:%s]] |}}", cat, cat)
	}
	return strings.Join(links, sep)
}

func (t *SimpleTemplate) Render(env *Env) (string, error) {
	return t.fill(env, shell.SimpleTemplate, map[string]string{
		"TNAME":      schema.NormalizeNames(t.Name),
		"MESSAGE":    t.Message,
		"MODULES":    modules(t.Modules),
		"BODY":       t.Body,
		"CATEGORIES": categoryLinks(t.Categories, "\n\n"),
	})
}

// Template displays and annotates the fields of a form.
// When Subobject is set the values are stored in a subobject of the page,
// as required by the repeated instances of a list.
type Template struct {
	DocumentIdentity
	Fields       []TemplateField
	LinkProperty string
	Categories   []string
	Modules      []string
	Subobject    bool
}

func NewTemplate(id int, name, message string, fields []TemplateField, linkProperty string, categories []string, modules []string, subobject bool) *Template {
	return &Template{
		DocumentIdentity: DocumentIdentity{ID: id, Name: name, Message: message},
		Fields:           fields,
		LinkProperty:     linkProperty,
		Categories:       categories,
		Modules:          modules,
		Subobject:        subobject,
	}
}

// uidProperty is the property displayed in the title of the pages.
const uidProperty = "Uid"

// visibility is the kind of a "show on select" cell.
type visibility int

const (
	alwaysShown visibility = iota
	declaresKeys
	conditioned
)

// parseShowOnSelect decodes a "show on select" cell.
// "=>key" is a checkbox declaring key, "v1=>k1;v2=>k2" declares a key per
// value and a plain "key" makes the field visible only when key is selected.
func parseShowOnSelect(sos string) (visibility, map[string][]string, []string) {
	sos = strings.TrimSpace(strings.ReplaceAll(sos, "&gt;", ">"))
	if len(sos) == 0 {
		return alwaysShown, nil, nil
	}
	if !strings.Contains(sos, "=>") {
		return conditioned, nil, []string{sos}
	}

	conditions := map[string][]string{}
	var keys []string
	for _, elem := range strings.Split(sos, ";") {
		value, key, found := strings.Cut(elem, "=>")
		if !found {
			continue
		}
		value, key = strings.TrimSpace(value), strings.TrimSpace(key)
		if _, seen := conditions[key]; !seen {
			keys = append(keys, key)
		}
		conditions[key] = append(conditions[key], value)
	}
	return declaresKeys, conditions, keys
}

// switches accumulates the conditions under which each key is selected.
type switches struct {
	conditions map[string]string
}

// declare adds the conditions of a governing field. An empty value stands
// for a checked checkbox.
func (s *switches) declare(prop string, values map[string][]string, keys []string, yes string) {
	for _, key := range keys {
		for _, v := range values[key] {
			if len(v) == 0 {
				v = yes
			}
			if c, ok := s.conditions[key]; ok {
				s.conditions[key] = c + " | " + v
			} else {
				s.conditions[key] = "{{{" + prop + "}}} | " + v
			}
		}
	}
}

func (s *switches) lookup(key string) (string, bool) {
	c, ok := s.conditions[key]
	return c, ok
}

func sectionKey(sec schema.SectionID) string {
	return "sec-" + strings.ReplaceAll(string(sec), " ", "-")
}

// renderFields walks the fields in section and group order, opening a tab
// for each group and a switch for each run of conditioned fields.
func (t *Template) renderFields(loc Localizer) (string, error) {
	var b strings.Builder

	l := t.LinkProperty
	if len(l) > 0 && !t.Subobject {
		fmt.Fprintf(&b, "\n\n'''[[Property:%s|%s]]''': [[%s::%s]]\n\n", l, l, l, param(l))
	} else if t.Subobject {
		fmt.Fprintf(&b, "\n{{#subobject:\n |%s={{PAGENAME}}\n", l)
		for _, f := range t.Fields {
			fmt.Fprintf(&b, " |%s=%s\n", f.Label, param(f.Prop))
		}
		b.WriteString("}}\n")
	}

	sw := &switches{conditions: map[string]string{}}
	yes := loc.Get("Checked")

	var lastSection schema.SectionID
	var lastGroup schema.GroupID
	started := false
	inSwitch := false
	var switchKey string

	closeSwitch := func() {
		if inSwitch {
			b.WriteString("}}\n")
			inSwitch = false
		}
	}

	for _, f := range t.Fields {
		newSection := !started || f.Section != lastSection
		if newSection {
			if started {
				closeSwitch()
				b.WriteString("    |}\n&lt;/tabber&gt;\n&lt;/div&gt;\n\n")
			}
			key := sectionKey(f.Section)
			if cond, ok := sw.lookup(key); ok {
				fmt.Fprintf(&b, "&lt;div id=\"%s\" style=\"display: {{#if: {{#pos: %s }} | block | none }}\"&gt;\n\n", key, cond)
			} else {
				fmt.Fprintf(&b, "&lt;div id=\"%s\"&gt;\n\n", key)
			}
			if f.Section != schema.MainSection {
				fmt.Fprintf(&b, "\n==%s==\n\n", f.Section)
			}
			b.WriteString("&lt;tabber&gt;\n")
		}

		if newSection || f.Group != lastGroup {
			if !newSection {
				closeSwitch()
				b.WriteString("    |}\n |-|\n")
			}
			fmt.Fprintf(&b, "  %s =\n", f.Group)
			b.WriteString("    {| class=\"wikitable\" style=\"width: 95%; margin-left: 20px;\"\n")
		}

		var prefix string
		kind, values, keys := parseShowOnSelect(f.ShowOnSelect)
		switch kind {
		case declaresKeys:
			sw.declare(f.Prop, values, keys, yes)
			closeSwitch()
		case conditioned:
			key := keys[0]
			cond, ok := sw.lookup(key)
			if !ok {
				return "", fmt.Errorf("%w '%s' in property '%s'", schema.ErrUndefinedVisibilityKey, key, f.Prop)
			}
			if inSwitch && key != switchKey {
				closeSwitch()
			}
			if !inSwitch {
				prefix = "{{#switch: " + cond + " =\n"
				inSwitch = true
				switchKey = key
			}
		default:
			closeSwitch()
		}

		b.WriteString(prefix + f.Render(t.Name, true, inSwitch, loc) + "\n")
		lastGroup = f.Group
		lastSection = f.Section
		started = true
	}

	if started {
		if inSwitch {
			b.WriteString("| }}\n")
		}
		b.WriteString("    |}\n&lt;/tabber&gt;\n&lt;/div&gt;\n\n")
	}

	return b.String(), nil
}

// rating is the completeness of a page: the share of filled fields on a scale of 5.
func (t *Template) rating() string {
	var items []string
	for _, f := range t.Fields {
		if strings.HasPrefix(strings.ToLower(f.ParameterName), "note") || f.ParameterName == "Hash" {
			continue
		}
		items = append(items, "{{#if: "+param(f.ParameterName)+" | 1 | 0 }}\n")
	}
	if len(items) == 0 {
		return "\n{{#vardefine: rating | 0 }}\n"
	}
	return fmt.Sprintf("\n{{#vardefine: rating |\n  {{#expr:\n   (%s) / %d * 5\n  }}\n}}\n",
		strings.Join(items, "    + "), len(items))
}

func (t *Template) Render(env *Env) (string, error) {
	fields, err := t.renderFields(env.Lang)
	if err != nil {
		return "", fmt.Errorf("template '%s': %w", t.Name, err)
	}

	var displayName, setID, semDep string
	if len(t.LinkProperty) > 0 {
		displayName = "{{DISPLAYTITLE: {{#show: {{PAGENAME}} |?" + t.LinkProperty + "." + uidProperty + "}} ({{PAGENAME}}) }}"
		semDep = "[[Semantic Dependency::" + param(t.LinkProperty) + "|Part of " + param(t.LinkProperty) + "]]"
	} else {
		displayName = "{{DISPLAYTITLE:{{#if: {{#urlget: " + uidProperty + "}} | {{#urlget: " + uidProperty +
			"}} | {{#show: {{PAGENAME}} |?" + uidProperty + "}} }} }}"
		setID = "{{#set: " + t.Name + " ID=" + param(env.Lang.Get("PatientID")) + " }}"
	}

	return t.fill(env, shell.Template, map[string]string{
		"TNAME":      schema.NormalizeNames(t.Name),
		"MESSAGE":    t.Message,
		"MODULES":    modules(t.Modules),
		"DNAME":      displayName,
		"PatientID":  setID,
		"SEMDEP":     semDep,
		"FIELDS":     fields,
		"RATING":     t.rating(),
		"CATEGORIES": categoryLinks(t.Categories, "\n"),
	})
}
