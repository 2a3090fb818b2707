package wiki

import (
	"fmt"
	"strings"

	"github.com/hesusruiz/tsv2smw/schema"
)

// Widgets plotting data on the Shiny server.
const (
	plotWidget    = "ShinyPlot"
	serverSuffix  = "Srv"
	serverAPIPlot = "SrvAPI"
)

// plotTypes maps the type of a property to the kind of univariate plot.
var plotTypes = map[schema.InputType]string{
	schema.TypeOption:      "pies",
	schema.TypeList:        "hbars",
	schema.TypeNumber:      "bars",
	schema.TypeCoordinates: "maps",
	schema.TypeNexus:       "mapsAnat",
	schema.TypeText:        "wordclouds",
}

// UnivariateChart returns the title and the widget call plotting the
// distribution of properties of the given type. When name is not empty only
// that property (or comma-separated list of properties) is plotted, otherwise
// every compatible property found in sections.
// With withCats, the short text properties are offered as classes.
func UnivariateChart(loc Localizer, name string, sections *schema.Sections, typ schema.InputType, withCats bool, onServer bool) (string, string) {
	title := loc.Get("PropDistribution")

	plot := plotTypes[typ]
	if typ == schema.TypeDate {
		plot = "timelines"
		if withCats {
			plot = "scurves"
		}
	}
	widget := plotWidget
	if onServer {
		plot += serverAPIPlot
		widget += serverSuffix
	}

	var props, classes []string
	if len(name) > 0 {
		props = append(props, name)
	} else if sections != nil {
		for _, fg := range sections.Lines() {
			extended := fg.Options.Has(schema.OptExtended)
			if fg.Type == typ && (typ != schema.TypeText || extended) {
				props = append(props, fg.Prop)
			}
			if fg.Type == schema.TypeText && !extended {
				classes = append(classes, fg.Prop)
			}
		}
	}

	var b strings.Builder
	fmt.Fprintf(&b, "{{#widget:%s\n  |prop1_label=%s|prop1_data=%s\n", widget, loc.Get("Property"), strings.Join(props, ","))
	if withCats {
		fmt.Fprintf(&b, "  |prop2_label=%s|prop2_data=%s\n", loc.Get("Class"), strings.Join(classes, ","))
	} else {
		b.WriteString("  |prop2_label=\n")
	}
	b.WriteString("  |prop3_label=|prop3_data=\n")
	fmt.Fprintf(&b, "  |plot=%s|title=%s\n}}\n", plot, title)

	return title, b.String()
}
