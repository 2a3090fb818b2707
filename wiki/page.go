package wiki

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/hesusruiz/tsv2smw/schema"
	"github.com/hesusruiz/tsv2smw/shell"
)

// HeaderOptions qualify a column of a data file.
type HeaderOptions struct {
	Mandatory bool
	Normalize bool   // the value is a page name
	Elems     string // ':'-separated elements of a vector column
}

// ParamField is a template parameter with its value.
type ParamField struct {
	Name    string
	Options HeaderOptions
	Value   string
}

// idParam is the column holding the name of the page, never passed to templates.
const idParam = "ID"

// TemplateCall is the invocation of a template inside an instance page.
type TemplateCall struct {
	ID       string
	Template string
	IsList   bool
	Fields   []ParamField
}

// Values returns the comma-separated values of the parameters.
func (c TemplateCall) Values() string {
	var values []string
	for _, f := range c.Fields {
		if f.Name != idParam {
			values = append(values, f.Value)
		}
	}
	return strings.Join(values, ", ")
}

func (c TemplateCall) String() string {
	var params []string
	for _, f := range c.Fields {
		if f.Name != idParam {
			params = append(params, fmt.Sprintf("      | %s = %s", f.Name, f.Value))
		}
	}
	return "\n    {{" + c.Template + "\n" + strings.Join(params, "\n") + "\n    }}"
}

// DefaultUserID and DefaultUserName are the contributor of pages without an author.
const (
	DefaultUserID   = 1
	DefaultUserName = "WikiSysop"
)

// Page is an instance page, a call to Template with the values of a data row.
type Page struct {
	DocumentIdentity
	Fields       []ParamField
	Template     string
	SubTemplates []TemplateCall
	Categories   []string

	// FillNA writes NA in the missing mandatory values.
	FillNA   bool
	UserID   int
	UserName string
}

// NewPage builds an instance page; categories is a '|'-separated list.
func NewPage(id int, name, message string, fields []ParamField, template string, subTemplates []TemplateCall, categories string) *Page {
	p := &Page{
		DocumentIdentity: DocumentIdentity{ID: id, Name: name, Message: message},
		Fields:           fields,
		Template:         template,
		SubTemplates:     subTemplates,
		UserID:           DefaultUserID,
		UserName:         DefaultUserName,
	}
	if len(categories) > 0 {
		p.Categories = strings.Split(categories, "|")
	}
	return p
}

// Add appends the values of a further data row to the page.
func (p *Page) Add(fields []ParamField, subTemplates []TemplateCall) {
	p.Fields = append(p.Fields, fields...)
	p.SubTemplates = append(p.SubTemplates, subTemplates...)
}

// Headers returns the column names of the page fields.
func (p *Page) Headers() []string {
	headers := make([]string, len(p.Fields))
	for i, f := range p.Fields {
		headers[i] = f.Name
		if len(f.Options.Elems) > 0 {
			headers[i] += " [elems:" + strings.ReplaceAll(f.Options.Elems, ":", ",") + "]"
		}
	}
	return headers
}

// ManageNA returns the value to write: "_" stands for an explicitly empty
// value and missing mandatory values become NA when fill is set.
func ManageNA(value string, mandatory bool, fill bool) string {
	switch {
	case value == "_":
		return ""
	case mandatory && fill && len(value) == 0:
		return NA
	}
	return value
}

func (p *Page) parameters() string {
	var b strings.Builder
	for _, f := range p.Fields {
		v := f.Value
		if f.Options.Normalize {
			v = schema.NormalizeNames(v)
		}
		fmt.Fprintf(&b, "  | %s = %s\n", f.Name, ManageNA(v, f.Options.Mandatory, p.FillNA))
	}

	// the calls of a list are joined in a single parameter
	var order []string
	lists := map[string]string{}
	for _, st := range p.SubTemplates {
		value := st.String()
		if st.IsList {
			value = st.Values()
		}
		prev, ok := lists[st.Template]
		switch {
		case !ok:
			order = append(order, st.Template)
			lists[st.Template] = value
		case st.IsList:
			lists[st.Template] = prev + ", " + value
		default:
			lists[st.Template] = prev + value
		}
	}
	for _, k := range order {
		fmt.Fprintf(&b, "  | %s = %s\n", k, lists[k])
	}

	return b.String()
}

func (p *Page) Render(env *Env) (string, error) {
	name := p.Name
	if !strings.HasPrefix(name, p.Template) {
		name = schema.NormalizeNames(name)
	}

	var categories strings.Builder
	for _, cat := range p.Categories {
		fmt.Fprintf(&categories, "{{#if: %s | [[Category:%s]] |}}\n", cat, cat)
	}

	return p.fill(env, shell.Instance, map[string]string{
		"INAME":      name,
		"USERNAME":   p.UserName,
		"USERID":     strconv.Itoa(p.UserID),
		"MESSAGE":    p.Message,
		"TNAME":      p.Template,
		"PAGES":      "",
		"PARAMETERS": p.parameters(),
		"TLIST":      "",
		"CATEGORIES": categories.String(),
	})
}
