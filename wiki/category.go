package wiki

import (
	"fmt"
	"strings"

	"github.com/hesusruiz/tsv2smw/schema"
	"github.com/hesusruiz/tsv2smw/shell"
)

// Category is a page of the Category namespace. With fields it becomes a
// drilldown page filtering the pages of the category on those fields.
type Category struct {
	DocumentIdentity
	Template        string // text placed in the page, usually a template call
	Parents         []string
	Form            string // default form of the pages in the category
	Fields          []TemplateField
	IsPropertyGroup bool
}

// NewCategory builds a category; parents is a '|'-separated list.
func NewCategory(id int, name, template, parents, form string, fields []TemplateField, isPropertyGroup bool) *Category {
	c := &Category{
		DocumentIdentity: DocumentIdentity{ID: id, Name: name},
		Template:         template,
		Form:             form,
		Fields:           fields,
		IsPropertyGroup:  isPropertyGroup,
	}
	if len(parents) > 0 {
		c.Parents = strings.Split(parents, "|")
	}
	return c
}

var filterLabelReplacer = strings.NewReplacer("(", "- ", ")", "")

func (c *Category) filters(loc Localizer) string {
	if len(c.Fields) == 0 {
		return ""
	}

	var filters, printouts []string
	for _, f := range c.Fields {
		if f.IsFilter {
			filters = append(filters, fmt.Sprintf("  %s (property=%s, group=%s)",
				filterLabelReplacer.Replace(f.Label), schema.Capitalize(f.Prop), f.Group))
		}
		if !f.IsMultiple && !f.AreSubpages && !f.IsHidden {
			printouts = append(printouts, f.Prop)
		}
	}

	return fmt.Sprintf("__SHOWINDRILLDOWN__\n\n\n{{#drilldowninfo:filters=\n%s\n  |title=%s\n  |printouts=%s\n}}\n",
		strings.Join(filters, ",\n"), loc.Get("ExploreDataTitle"), strings.Join(printouts, ";"))
}

func (c *Category) Render(env *Env) (string, error) {
	var form string
	if len(c.Form) > 0 {
		form = "{{#default_form:" + c.Form + "}}"
	}

	var parents []string
	for _, p := range c.Parents {
		// parameters of a template call are not categories
		if !strings.Contains(p, "{") {
			parents = append(parents, "[[Category:"+p+"]]")
		}
	}

	var group string
	if c.IsPropertyGroup {
		group = "{{#set: Is property group=true}}"
	}

	return c.fill(env, shell.Category, map[string]string{
		"CNAME":            schema.NormalizeNames(c.Name),
		"FNAME":            form,
		"FILTERS":          c.filters(env.Lang),
		"TEMPLATE":         c.Template,
		"PGROUP":           group,
		"SUPER-CATEGORIES": strings.Join(parents, "\n"),
	})
}
