package wiki

import (
	"fmt"
	"strings"

	"github.com/hesusruiz/tsv2smw/formula"
	"github.com/hesusruiz/tsv2smw/schema"
)

// TemplateField is a property bound to a section and group of a template,
// with the flags deciding how its value is displayed.
type TemplateField struct {
	Section       schema.SectionID
	Group         schema.GroupID
	Label         string
	Prop          string
	ParameterName string
	LinkProperty  string
	SubpageForm   string // form creating the subpages, from a "Subpage:Form/Category" domain
	Category      string
	Info          string
	ShowOnSelect  string
	VectorElems   []string

	IsList        bool
	IsHidden      bool
	IsMultiple    bool
	IsExclusive   bool
	AreSubpages   bool
	IsFilter      bool
	IsCheckOption bool
	IsIdentifier  bool
	IsLiteral     bool
	IsFile        bool
	IsDate        bool

	Formula        string
	ModuleVariable string
}

// NewTemplateField binds a record to a section. Computed records have their
// domain compiled by fc, which also defines the formula variables.
func NewTemplateField(sec schema.SectionID, line schema.MainLine, linkProperty string, fc *formula.Compiler) (TemplateField, error) {
	opts := line.Options
	f := TemplateField{
		Section:       sec,
		Group:         line.Group,
		Label:         line.Label,
		Prop:          line.Prop,
		ParameterName: line.Prop,
		LinkProperty:  linkProperty,
		Category:      line.Category,
		Info:          line.Info,
		ShowOnSelect:  line.ShowOnSelect,
		IsHidden:      opts.Has(schema.OptHidden),
		IsList:        line.Type == schema.TypeList || line.Type == schema.TypeTree || opts.Has(schema.OptList),
		IsFile:        line.Type == schema.TypeFile,
		IsMultiple:    opts.Has(schema.OptMultiple),
		IsExclusive:   opts.Has(schema.OptExclusive),
		AreSubpages:   opts.Has(schema.OptSubpages),
		IsDate:        line.Type == schema.TypeDate,
		IsFilter:      line.Type != schema.TypeText && line.Type != schema.TypeRepeated && line.Type != schema.TypeSubpage,
		IsCheckOption: line.Type == schema.TypeOption && !opts.Has(schema.OptExclusive),
		IsIdentifier:  opts.Has(schema.OptIdentifier),
		IsLiteral:     line.Type == schema.TypeLiteral,
	}

	if strings.Contains(line.Domain, "/") && strings.Contains(line.Domain, ":") {
		_, page, _ := strings.Cut(line.Domain, ":")
		f.SubpageForm, _, _ = strings.Cut(page, "/")
	}

	if line.Type == schema.TypeVector || opts.Has(schema.OptVector) {
		f.VectorElems = line.VectorElems()
	}

	if opts.Has(schema.OptComputed) && fc != nil {
		compiled, err := fc.Compile(line.Domain)
		if err != nil {
			return TemplateField{}, err
		}
		f.Formula = compiled
	}

	if opts.Has(schema.OptModule) {
		f.ModuleVariable = fmt.Sprintf("{{#arrayindex: %s }}", line.Domain)
	}

	return f, nil
}

// param is the template parameter of the field.
func param(name string) string {
	return "{{{" + name + "|}}}"
}

// Render displays the field in the template named templateName.
// In a table the field is a row; inside a switch the row separators are escaped.
func (f TemplateField) Render(templateName string, inTable bool, inSwitch bool, loc Localizer) string {
	p := f.ParameterName
	link := "[[Property:" + f.Prop + "|" + f.Label + "]]"

	var set string
	var title, value string
	switch {
	case f.IsHidden:
		title, value = f.Prop, f.Prop
	case (f.IsList && !f.IsExclusive) || f.IsCheckOption:
		title = link
		if len(f.Category) > 0 {
			value = fmt.Sprintf("{{#arraymap:%s|,|x|[[%s::Category:x]][[Category:x]]}}", param(p), f.Prop)
		} else {
			value = fmt.Sprintf("{{#arraymap:%s|,|x|[[%s::x]]}}", param(p), f.Prop)
		}
	case f.IsLiteral:
		title, value = link, "[["+f.Prop+"::"+p+"]]"
	case len(f.VectorElems) > 0:
		var b strings.Builder
		b.WriteString("{{#set:\n")
		elems := make([]string, len(f.VectorElems))
		for i, elem := range f.VectorElems {
			name := f.Prop + " " + elem
			fmt.Fprintf(&b, "        |%s = %s\n", name, param(name))
			elems[i] = param(name)
		}
		b.WriteString("    }}\n    ")
		set = b.String()
		title, value = link, "&#x3008;[["+f.Prop+"::"+strings.Join(elems, ", ")+"]]&#x3009;"
	case len(f.Formula) > 0:
		title, value = link, "[["+f.Prop+"::"+f.Formula+" ]]"
	case len(f.ModuleVariable) > 0:
		title, value = link, "[["+f.Prop+"::"+f.ModuleVariable+"]]"
	case f.IsDate:
		title, value = link, fmt.Sprintf("[[%s::%s|{{#time: l d F Y | %s }}]]", f.Prop, param(p), param(p))
	case f.AreSubpages:
		firstName, lastName := loc.Get("Firstname"), loc.Get("Lastname")
		title = f.Label
		value = fmt.Sprintf("{{#formlink:form=%s|link text=%s %s|new window|query string=%s[%s %s]={{PAGENAME}}",
			f.SubpageForm, loc.Get("Add"), f.Label, f.SubpageForm, loc.Get("Has"), templateName) +
			fmt.Sprintf("&amp;%s=%s&amp;%s=%s }}\n", lastName, param(lastName), firstName, param(firstName)) +
			fmt.Sprintf("{{#ask:[[Category:%s]][[%s::{{PAGENAME}}]]|format=ul}}", f.Category, f.LinkProperty)
	case f.IsMultiple:
		title, value = link, param(f.Prop)
	case len(f.Category) > 0:
		title, value = link, fmt.Sprintf("[[%s::Category:%s|%s]]", f.Prop, param(p), param(p))
	case f.IsFile:
		title, value = link, fmt.Sprintf("{{#if: %s | [[%s::File:%s]] }}", param(p), f.Prop, param(p))
	default:
		title, value = link, "[["+f.Prop+"::"+param(p)+"]]"
	}

	if f.IsIdentifier {
		if (f.IsList && !f.IsExclusive) || f.IsCheckOption {
			value = fmt.Sprintf("{{#arraymap:%s|,|x|&lt;span style=\"color: red\"&gt;[[%s::x]]&lt;/span&gt;}}", param(p), f.Prop)
		} else {
			value = "&lt;span style=\"color: red\"&gt;" + value + "&lt;/span&gt;"
		}
	}
	if len(f.Formula) > 0 {
		value = "&lt;span style=\"color: blue\"&gt;" + value + "&lt;/span&gt;"
	}

	if !f.AreSubpages && f.IsExclusive && len(f.Category) > 0 {
		value = fmt.Sprintf("{{#if: %s | [[%s::Category:%s|%s]] [[Category:%s]] | }}", param(p), p, param(p), param(p), param(p))
	} else if cat, ok := strings.CutPrefix(f.Formula, "Category:"); ok {
		v := "{{#var: " + p + " }}"
		value = fmt.Sprintf("{{#vardefine: %s | %s }} {{#if: {{#var:%s }} | [[%s::Category:%s | %s ]] [[Category:%s ]] | }}",
			p, cat, p, p, v, v, v)
	}

	if f.IsHidden {
		return fmt.Sprintf("    {{ #set: %s = %s }}", title, param(value))
	}

	var info string
	if len(f.Info) > 0 {
		info = "{{#info: " + f.Info + "|note}}"
	}

	if !inTable {
		return "'''" + title + "'''" + info + ": " + value + "\n"
	}

	pipe := "|"
	if inSwitch {
		pipe = "{{!}}"
	}
	return fmt.Sprintf("\n    %s! style=\"width: 30%%\"| %s%s:\n    %s style=\"width: 70%%\"| %s\n    %s-",
		set, title, info, pipe, value, pipe)
}
