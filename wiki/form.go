package wiki

import (
	"fmt"
	"strings"

	"github.com/hesusruiz/tsv2smw/schema"
	"github.com/hesusruiz/tsv2smw/shell"
	"go.uber.org/zap"
)

const formTable = "{| class=\"formtable\" style=\"width: 95%; margin-left: 20px;\"\n"

// CoreForm is the repeatable form of the items of a list, embedded in the main form.
type CoreForm struct {
	Template     string
	Fields       []schema.MainLine
	MainTemplate string
}

func NewCoreForm(template string, fields []schema.MainLine, mainTemplate string) *CoreForm {
	return &CoreForm{Template: template, Fields: fields, MainTemplate: mainTemplate}
}

func (c *CoreForm) Render(loc Localizer, log *zap.SugaredLogger) string {
	var fields []string
	for _, fg := range c.Fields {
		if fg.Options.Has(schema.OptModule) {
			continue
		}
		fields = append(fields, FormFieldOf(fg, "").Render(loc, log))
	}

	return fmt.Sprintf(`
    {{{for template|%s|multiple|add button text=%s|embed in field=%s[%s]}}}
    %s    %s
    |}
    {{{end template}}}`, c.Template, loc.Format("AddButton", c.Template), c.MainTemplate, c.Template,
		formTable, strings.Join(fields, "\n\n"))
}

// SimpleForm is a form made of a single table of fields.
type SimpleForm struct {
	DocumentIdentity
	Text     string
	Fields   []schema.MainLine
	Template string
}

func NewSimpleForm(id int, name, message, text string, fields []schema.MainLine, template string) *SimpleForm {
	return &SimpleForm{
		DocumentIdentity: DocumentIdentity{ID: id, Name: name, Message: message},
		Text:             text,
		Fields:           fields,
		Template:         template,
	}
}

func (f *SimpleForm) Render(env *Env) (string, error) {
	var b strings.Builder
	b.WriteString(formTable)
	for _, fg := range f.Fields {
		if !fg.Options.Has(schema.OptModule) {
			b.WriteString(FormFieldOf(fg, "").Render(env.Lang, env.logger()))
		}
	}
	b.WriteString("|}\n{{{end template}}}")

	return f.fill(env, shell.SimpleForm, map[string]string{
		"FNAME":   schema.NormalizeNames(f.Name),
		"MESSAGE": f.Message,
		"TEXT":    f.Text,
		"TNAME":   f.Template,
		"FIELDS":  b.String(),
	})
}

// Form is a full data entry form, with the same sections and groups as its template.
// LinkProperty is empty for the main form; the forms of subpages set it to
// the property pointing to the parent page, chosen from ParentCategory.
type Form struct {
	DocumentIdentity
	Sections       *schema.Sections
	Template       string
	SubForms       []*CoreForm
	NoteText       string
	Category       string
	LinkProperty   string
	ParentCategory string
}

func NewForm(id int, name, message string, sections *schema.Sections, template string, subForms []*CoreForm,
	noteText, category, linkProperty, parentCategory string) *Form {
	return &Form{
		DocumentIdentity: DocumentIdentity{ID: id, Name: name, Message: message},
		Sections:         sections,
		Template:         template,
		SubForms:         subForms,
		NoteText:         noteText,
		Category:         category,
		LinkProperty:     linkProperty,
		ParentCategory:   parentCategory,
	}
}

func (f *Form) isMain() bool {
	return len(f.LinkProperty) == 0
}

// groupFields renders the inputs of a group, wrapping the conditioned ones
// in the divs shown when their key is selected.
func (f *Form) groupFields(lines []schema.MainLine, loc Localizer, log *zap.SugaredLogger) string {
	var b strings.Builder
	inDiv := false
	var divKey string

	for _, fg := range lines {
		if fg.Options.Has(schema.OptModule) || fg.Options.Has(schema.OptComputed) {
			continue
		}

		var prefix string
		kind, _, keys := parseShowOnSelect(fg.ShowOnSelect)
		switch {
		case kind == conditioned && (!inDiv || keys[0] != divKey):
			prefix = "|}\n"
			if inDiv {
				prefix += "    &lt;/div&gt;\n"
			}
			prefix += fmt.Sprintf("   &lt;div id=\"%s\"&gt;\n%s", keys[0], formTable)
			inDiv = true
			divKey = keys[0]
		case kind != conditioned && inDiv:
			prefix = "|}\n    &lt;/div&gt;\n" + formTable
			inDiv = false
		}

		b.WriteString(prefix + FormFieldOf(fg, f.Name).Render(loc, log))
	}

	if inDiv {
		b.WriteString("|}\n    &lt;/div&gt;\n" + formTable)
	}
	return b.String()
}

func (f *Form) renderSections(loc Localizer, log *zap.SugaredLogger) string {
	var b strings.Builder

	if !f.isMain() {
		// readonly: only administrators can change the parent page
		fmt.Fprintf(&b, "  {{{field|%s|input type=combobox|property=%s|readonly|values from category=%s}}}\n\n",
			f.LinkProperty, f.LinkProperty, f.ParentCategory)
	}

	identifier := f.isMain()
	for _, sec := range f.Sections.All() {
		fmt.Fprintf(&b, "&lt;div id=\"%s\"&gt;\n\n", sectionKey(sec.ID))
		if sec.ID != schema.MainSection {
			fmt.Fprintf(&b, "\n==%s==\n\n", sec.ID)
		}

		b.WriteString("&lt;tabber&gt;\n\n")
		for _, g := range sec.Groups {
			fields := f.groupFields(g.Lines, loc, log)
			if len(fields) == 0 {
				continue
			}
			fmt.Fprintf(&b, "  %s =\n    %s", g.ID, formTable)
			if identifier {
				fmt.Fprintf(&b, "    ! style=\"width: 30%%\"| %s\n    | style=\"width: 70%%\"| {{{field|%s|input type=text|property=%s ID|class=identifier}}}\n    |-\n",
					f.Name, f.Name, f.Name)
				identifier = false
			}
			b.WriteString(fields)
			b.WriteString("|}\n\n|-|\n\n")
		}
		b.WriteString("&lt;/tabber&gt;\n&lt;/div&gt;\n\n")
	}

	return b.String()
}

func (f *Form) Render(env *Env) (string, error) {
	log := env.logger()

	fields := "{{{for template|" + f.Template + "}}}\n" + f.renderSections(env.Lang, log) + "\n{{{end template}}}"

	subForms := make([]string, len(f.SubForms))
	for i, sf := range f.SubForms {
		subForms[i] = sf.Render(env.Lang, log)
	}

	templateName := f.Template + " &lt;unique number;start=00001&gt;"
	if !f.isMain() {
		templateName += " - &lt;" + f.Template + "[" + f.LinkProperty + "]&gt;"
	}

	return f.fill(env, shell.Form, map[string]string{
		"FNAME":    schema.NormalizeNames(f.Name),
		"MESSAGE":  f.Message,
		"TNAME":    templateName,
		"FIELDS":   fields,
		"MFORMS":   strings.Join(subForms, "\n\n"),
		"NOTE":     f.NoteText,
		"CATEGORY": f.Category,
	})
}
