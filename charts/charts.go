// Package charts builds the pages that query and plot the data of the main
// category: data tables, distribution charts, timelines, export links and maps.
package charts

import (
	"fmt"
	"strings"

	"github.com/hesusruiz/tsv2smw/schema"
	"github.com/hesusruiz/tsv2smw/wiki"
	"go.uber.org/zap"
)

// ServerPort is where the Shiny server answers the plot requests.
const ServerPort = 3838

// DataTable returns a page with one tabbed table per section, with a tab per
// group listing the visible properties of the pages in catName.
func DataTable(catName string, sections *schema.Sections) string {
	var b strings.Builder
	b.WriteString("\n<div style=\"overflow-x: auto; white-space: nowrap;\">\n")

	for _, sec := range sections.All() {
		fmt.Fprintf(&b, "\n==%s==\n\n<tabber>\n\n", sec.ID)
		for _, g := range sec.Groups {
			var printouts strings.Builder
			for _, fg := range g.Lines {
				if fg.Options.Has(schema.OptSubpages) || fg.Options.Has(schema.OptHidden) {
					continue
				}
				fmt.Fprintf(&printouts, "      |?%s = %s\n", fg.Prop, fg.Label)
			}
			if printouts.Len() == 0 {
				continue
			}
			fmt.Fprintf(&b, "%s =\n{{#ask:\n    [[Category:%s]]\n", g.ID, catName)
			b.WriteString(printouts.String())
			fmt.Fprintf(&b, "      |mainlabel=%s\n      |format=table\n      |limit=25\n      |class=datatable\n  }}\n|-|\n", catName)
		}
		b.WriteString("</tabber>\n\n")
	}

	b.WriteString("\n</div>")
	return b.String()
}

// plotPaths are the server plots used for each type in ChartsPage.
var plotPaths = map[schema.InputType]string{
	schema.TypeList:   "hbars",
	schema.TypeTokens: "hbars",
	schema.TypeOption: "pies",
	schema.TypeNumber: "bars",
	schema.TypeDate:   "timelinesSrvAPI",
}

// ChartsPage returns a page with a plot for each plottable property, grouped
// by property group. The plots are served by the Shiny server on host.
func ChartsPage(loc wiki.Localizer, host, catName string, sections *schema.Sections, log *zap.SugaredLogger) string {
	if log == nil {
		log = zap.NewNop().Sugar()
	}

	var b strings.Builder
	for _, sec := range sections.All() {
		for _, g := range sec.Groups {
			fmt.Fprintf(&b, "\n==%s==\n", g.ID)
			for _, fg := range g.Lines {
				path, ok := plotPaths[fg.Type]
				if !ok {
					if fg.Type == schema.TypeText && !fg.Options.Has(schema.OptExtended) {
						log.Infow("property skipped in charts", "property", fg.Prop, "type", fg.Type.Label())
					}
					continue
				}

				title := loc.Get("PropChart")
				if fg.Type == schema.TypeNumber || fg.Type == schema.TypeDate {
					title = loc.Get("PropHistogram")
				}
				var manySep string
				if fg.Type == schema.TypeList || fg.Type == schema.TypeTokens {
					manySep = "|manysep=,"
				}

				// the widget call must stay on one line
				fmt.Fprintf(&b, "\n===%s===\n", fg.Prop)
				fmt.Fprintf(&b, "{{#widget:Iframe|url=http://%s:%d/%s/?title={{urlencode: %s \"%s\" }}"+
					"&data={{urlencode: {{#ask: [[Category:%s]] |?%s= |format=array|mainlabel=-|sep=,%s|headers=hide|hidegaps=all|limit=10000}} }}"+
					"|width=800|height=400}}\n\n",
					host, ServerPort, path, title, fg.Prop, catName, fg.Prop, manySep)
			}
			b.WriteString("\n")
		}
	}
	return b.String()
}

// Bivariate returns a widget call plotting pairs of properties: a
// scatterplot for two numbers, a boxplot for a number against a class.
// Other pairs of types give an empty string.
func Bivariate(loc wiki.Localizer, sections *schema.Sections, typ1, typ2 schema.InputType) string {
	var plot, title, label1, label2 string
	switch {
	case typ1 == schema.TypeNumber && typ2 == schema.TypeNumber:
		plot = "scatterplots"
		title = loc.Get("PropCorrelation")
		label1 = loc.Get("Property") + " 1"
		label2 = loc.Get("Property") + " 2"
	case typ1 == schema.TypeNumber && (typ2 == schema.TypeOption || typ2 == schema.TypeList):
		plot = "boxplots"
		title = loc.Get("PropDistribution")
		label1 = loc.Get("Property")
		label2 = loc.Get("Class")
	default:
		return ""
	}

	var props1, props2 []string
	for _, fg := range sections.Lines() {
		if fg.Type == typ1 {
			props1 = append(props1, fg.Prop)
		}
		if fg.Type == typ2 {
			props2 = append(props2, fg.Prop)
		}
	}

	return fmt.Sprintf("{{#widget:ShinyPlotSrv |prop1_label=%s|prop1_data=%s\n"+
		"  |prop2_label=%s|prop2_data=%s\n"+
		"  |prop3_label=|prop3_data=\n"+
		"  |plot=%sSrvAPI|title=%s\n}}",
		label1, strings.Join(props1, ","), label2, strings.Join(props2, ","), plot, title)
}

// Timeline returns the page showing the pages of catName on a timeline of a
// date property, and the form choosing that property.
func Timeline(loc wiki.Localizer, catName string, sections *schema.Sections) (page string, form string) {
	var dates []string
	for _, fg := range sections.Lines() {
		if fg.Type == schema.TypeDate {
			dates = append(dates, fg.Prop)
		}
	}

	property := loc.Get("Property")
	timeline := loc.Get("timeline")

	form = fmt.Sprintf(`<includeonly>
<div id='wikiPreview' style='display: none; padding-bottom: 25px; margin-bottom: 25px; border-bottom: 1px solid #AAAAAA;'></div>
{{{info|page name=%[1]s}}}

{{{for template|%[1]s}}}
'''%[2]s''' {{{field|%[2]s|input type=combobox|values=%[3]s }}}
{{{end template}}}

{{{standard input|save}}} {{{standard input|cancel}}}
</includeonly>`, timeline, property, strings.Join(dates, ","))

	// the query must stay on one line
	page = fmt.Sprintf("{{#formlink:form=%s|link text=%s|}}\n\n"+
		"{{#ask: [[Category:%s]] |?{{{%s|}}}= |format=timeline |limit=10000|headers=hide|timelinesize=300px|timelineposition=middle|timelinebands=MONTH,YEAR,DECADE }}\n",
		timeline, loc.Get("EditProperty"), catName, loc.Get("PropChart"))

	return page, form
}
