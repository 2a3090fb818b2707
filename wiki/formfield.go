package wiki

import (
	"fmt"
	"strings"

	"github.com/hesusruiz/tsv2smw/schema"
	"go.uber.org/zap"
)

// FormField is an input of a form.
type FormField struct {
	Label        string
	Type         schema.InputType
	Prop         string
	Domain       string
	Options      schema.Options
	Info         string
	ShowOnSelect string
	MainForm     string // form embedding the subpages created from this field
}

func NewFormField(label string, typ schema.InputType, prop, domain string, options schema.Options, info, showOnSelect, mainForm string) FormField {
	return FormField{
		Label:        label,
		Type:         typ,
		Prop:         prop,
		Domain:       domain,
		Options:      options,
		Info:         info,
		ShowOnSelect: showOnSelect,
		MainForm:     mainForm,
	}
}

// FormFieldOf builds the input of a schema record.
func FormFieldOf(line schema.MainLine, mainForm string) FormField {
	return NewFormField(line.Label, line.Type, line.Prop, line.Domain, line.Options, line.Info, line.ShowOnSelect, mainForm)
}

// category returns the category the values are chosen from, if any.
func (f FormField) category() string {
	switch {
	case f.Type == schema.TypeSubpage:
		_, cat, _ := strings.Cut(f.Domain, "/")
		return cat
	case f.Type == schema.TypeTree, strings.HasPrefix(f.Domain, "Category:"):
		_, cat, _ := strings.Cut(f.Domain, ":")
		return strings.TrimSpace(cat)
	}
	return ""
}

// queryString returns the form creating the subpages and the field of that
// form pointing back to the page, as in "Visit[Has Patient]".
func (f FormField) queryString(loc Localizer) string {
	page, _, _ := strings.Cut(f.Domain, "/")
	_, qs, _ := strings.Cut(page, ":")
	if !strings.Contains(qs, "[") {
		qs += "[" + loc.Get("Has") + " " + f.MainForm + "]"
	}
	return qs
}

func (f FormField) vectorElems() []string {
	if f.Type == schema.TypeVector || f.Options.Has(schema.OptVector) {
		return schema.VectorElems(f.Domain)
	}
	return nil
}

// pattern extracts the regular expression of a Regex field, given as
// "Pattern=..." (or "Motivo=...") or as the whole domain.
func (f FormField) pattern() string {
	for _, item := range strings.Split(f.Domain, "|") {
		for _, key := range []string{"Pattern=", "Motivo="} {
			if p, ok := strings.CutPrefix(strings.TrimSpace(item), key); ok {
				return p
			}
		}
	}
	return f.Domain
}

// vectorClass returns the CSS class sizing the inputs of a vector.
func vectorClass(n int) string {
	switch {
	case n < 5:
		return "s4"
	case n <= 7:
		return fmt.Sprintf("s%d", n)
	}
	return "s10"
}

// Render returns the table row of the field. Computed fields have no input.
func (f FormField) Render(loc Localizer, log *zap.SugaredLogger) string {
	if f.Options.Has(schema.OptComputed) {
		return ""
	}

	mandatory := f.Options.Has(schema.OptMandatory)
	var options string
	if mandatory {
		options = "mandatory"
	}

	if strings.Contains(f.Domain, "=") && f.Type != schema.TypeRegex {
		c := schema.Constraints(f.Domain)
		for _, key := range []string{"min", "max", "step"} {
			if v, ok := c[key]; ok {
				options += "|" + key + "=" + v
			}
		}
	}

	cat := f.category()
	if (f.Type == schema.TypeOption || f.Type == schema.TypeList) && len(cat) == 0 {
		options += "|values=" + f.Domain
		if !f.Options.Has(schema.OptDefined) {
			options += "," + NA
		}
	}
	if f.Type == schema.TypeRegex {
		options += "|regexp=/" + f.pattern() + "/"
	}

	elems := f.vectorElems()

	const prefix = "|input type="
	var inputType string
	switch f.Type {
	case schema.TypePage:
		inputType = prefix + "text"
	case schema.TypeNumber, schema.TypeVector:
		inputType = prefix + "number"
		if !strings.Contains(options, "step") && !f.Options.Has(schema.OptInteger) {
			options += "|step=any"
		}
		if !strings.Contains(options, "min") && f.Options.Has(schema.OptPositive) {
			inputType += "|min=0"
		}
		if len(elems) > 0 {
			options += "|class=" + vectorClass(len(elems))
		}
	case schema.TypeFile:
		inputType = prefix + "text"
		options += "|uploadable|default filename=" + f.Prop + " for &lt;page name&gt;..."
	case schema.TypeText:
		if f.Options.Has(schema.OptExtended) {
			inputType = prefix + "textarea"
			options += "|rows=10"
		} else {
			inputType = prefix + "text"
		}
	case schema.TypeBoolean:
		inputType = prefix + "checkbox"
	case schema.TypeOption:
		if f.Options.Has(schema.OptExclusive) {
			inputType = prefix + "radiobutton"
		} else {
			inputType = prefix + "checkboxes"
		}
		if mandatory {
			options += "|default=None"
		}
	case schema.TypeList, schema.TypeTokens:
		if f.Options.Has(schema.OptList) || !f.Options.Has(schema.OptExclusive) {
			inputType = prefix + "tokens"
		} else {
			inputType = prefix + "combobox"
		}
	case schema.TypeTree:
		inputType = prefix + "tree"
		options = "|width=800|height=300"
	case schema.TypeDate:
		inputType = prefix + "datepicker"
	case schema.TypeRegex:
		inputType = prefix + "regexp"
	case schema.TypeCoordinates:
		inputType = prefix + "leaflet"
	}

	if strings.Contains(f.ShowOnSelect, "=&gt;") {
		options += "|show on select=" + strings.TrimPrefix(f.ShowOnSelect, "=&gt;")
	}
	if f.Options.Has(schema.OptRestricted) {
		options += "|restricted"
	}
	if f.Options.Has(schema.OptIdentifier) {
		options += "|class=identifier"
	}

	var info string
	if len(f.Info) > 0 {
		info = "{{#info: " + f.Info + "|note}}"
	}
	var star string
	if mandatory {
		star = "* "
	}
	header := "    ! style=\"width: 30%\"| " + f.Label + star + info + "\n"

	switch f.Type {
	case schema.TypeSubpage:
		qs := f.queryString(loc)
		child, _, _ := strings.Cut(qs, "[")
		return header + fmt.Sprintf("    | style=\"width: 70%%\"| {{#forminput:form=%s|query string=%s={{PAGENAME}}|button text=%s}}\n    |-\n",
			child, qs, loc.Format("AddButton", f.Label))
	case schema.TypeRepeated:
		return header + "    | style=\"width: 70%\"| {{{field|" + f.Prop + "|holds template}}}\n    |-\n"
	}

	var catOption string
	if len(cat) > 0 {
		if f.Type == schema.TypeTree {
			catOption = "|top category=" + cat
		} else {
			catOption = "|values from category=" + cat
		}
		if !strings.Contains(inputType, "tokens") && log != nil {
			log.Warnw("choice from category without a tokens control", "field", f.Label, "category", cat)
		}
	}

	if options = strings.TrimPrefix(options, "|"); len(options) > 0 {
		options = "|" + options
	}

	var field string
	if len(elems) > 0 {
		var b strings.Builder
		fmt.Fprintf(&b, "      | &lt;span class='vect' id='vect-%s'&gt;\n", schema.NormalizeIDs(f.Prop))
		for _, e := range elems {
			fmt.Fprintf(&b, "         {{{field|%s %s%s|title=%s|property=%s %s%s%s}}}\n", f.Prop, e, inputType, e, f.Prop, e, catOption, options)
		}
		b.WriteString("      &lt;/span&gt;\n")
		field = b.String()
	} else {
		field = fmt.Sprintf("    | style=\"width: 70%%\"| {{{field|%s%s|property=%s%s%s}}}\n", f.Prop, inputType, f.Prop, catOption, options)
	}
	return header + field + "    |-\n"
}
