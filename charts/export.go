package charts

import (
	"fmt"
	"strings"

	"github.com/hesusruiz/tsv2smw/schema"
	"github.com/hesusruiz/tsv2smw/wiki"
)

// exportFormat is a result format of the ask queries in the export page.
type exportFormat struct {
	heading string
	format  string
	label   string // localization key of the link suffix
}

var exportFormats = []exportFormat{
	{"Excel spreadsheets", "spreadsheet", "AsExcel"},
	{"R dataframes", "dataframe", "AsR"},
	{"Prolog predicates", "prolog", "AsProlog"},
}

// exportable reports the fields holding a single plain value per page.
func exportable(f wiki.TemplateField) bool {
	return !f.IsIdentifier && !f.IsMultiple && !f.AreSubpages && !f.IsHidden
}

func printout(f wiki.TemplateField) string {
	if f.Prop == f.Label {
		return "  |?" + f.Prop
	}
	return "  |?" + f.Prop + " = " + f.Label
}

// ExportLinks returns a page with links downloading the data of catName in
// every export format: one link per section of the main template, and one
// per auxiliary template listing its pages with the parent they belong to.
func ExportLinks(loc wiki.Localizer, catName string, fields []wiki.TemplateField, auxTemplates []*wiki.Template) string {
	var b strings.Builder
	for i, ef := range exportFormats {
		if i > 0 {
			b.WriteString("\n")
		}
		fmt.Fprintf(&b, "\n==%s==\n", ef.heading)
		writeSectionQueries(&b, loc, catName, fields, ef)

		b.WriteString("\n===Auxiliary data===\n")
		for _, aux := range auxTemplates {
			if len(aux.Categories) == 0 {
				continue
			}
			cat := aux.Categories[0]
			var printouts []string
			for _, f := range aux.Fields {
				if exportable(f) {
					printouts = append(printouts, printout(f))
				}
			}
			fmt.Fprintf(&b, "\n* {{#ask:\n  [[Category:%s]]\n  |?%s = Parent\n", cat, aux.LinkProperty)
			if len(printouts) > 0 {
				b.WriteString(strings.Join(printouts, "\n"))
				b.WriteString("\n")
			}
			fmt.Fprintf(&b, "  |searchlabel=%s '%s' %s\n  |format=%s\n  |sort=%s\n}}\n",
				loc.Get("Category"), cat, loc.Get(ef.label), ef.format, aux.LinkProperty)
		}
	}
	return b.String()
}

// writeSectionQueries writes one ask query per section of fields.
// Sections without exportable fields get no query.
func writeSectionQueries(b *strings.Builder, loc wiki.Localizer, catName string, fields []wiki.TemplateField, ef exportFormat) {
	var (
		sec       schema.SectionID
		printouts []string
		first     = true
	)
	flush := func() {
		if len(printouts) == 0 {
			return
		}
		item := "* "
		if first {
			item = ""
		}
		fmt.Fprintf(b, "\n%s{{#ask:\n  [[Category:%s]]\n%s\n  |searchlabel=%s '%s - %s' %s\n  |format=%s\n}}",
			item, catName, strings.Join(printouts, "\n"), loc.Get("Category"), catName, sec, loc.Get(ef.label), ef.format)
		first = false
		printouts = nil
	}

	for i, f := range fields {
		if i > 0 && f.Section != sec {
			flush()
		}
		sec = f.Section
		if exportable(f) {
			printouts = append(printouts, printout(f))
		}
	}
	flush()
}

// PropChainHelperConf returns the PropertyChainsHelper settings for the
// LocalSettings.php of the wiki: the level of each category and property,
// and the link properties chaining the auxiliary categories to the main one.
func PropChainHelperConf(catName string, fields []wiki.TemplateField, auxTemplates []*wiki.Template) string {
	var cats, props, links []string
	cats = append(cats, fmt.Sprintf("  '%s' => 0,", catName))
	for _, f := range fields {
		if exportable(f) {
			props = append(props, fmt.Sprintf("  \"%s\" => [0, 0],", f.Prop))
		}
	}

	chain := 0
	for _, aux := range auxTemplates {
		if len(aux.Categories) == 0 {
			continue
		}
		cats = append(cats, fmt.Sprintf("  '%s' => 1,", aux.Categories[0]))
		for _, f := range aux.Fields {
			if exportable(f) {
				props = append(props, fmt.Sprintf("  \"%s\" => [%d, 1],", f.Prop, chain))
			}
		}
		links = append(links, "['"+aux.LinkProperty+"']")
		chain++
	}

	return fmt.Sprintf("$pchCatLevels = [\n%s\n];\n\n$pchPropLevels = [\n%s\n];\n\n$pchLinkProps = [\n    %s\n];",
		strings.Join(cats, "\n"), strings.Join(props, "\n"), strings.Join(links, ",\n    "))
}
