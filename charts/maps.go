package charts

import (
	"fmt"
	"strings"

	"github.com/hesusruiz/tsv2smw/schema"
	"github.com/hesusruiz/tsv2smw/wiki"
)

// DefaultLayer is the layer of the plain geographic maps.
const DefaultLayer = "default"

// Map is a map declared by a Category marker: the coordinates property of
// the category pages, plotted for the pages linked through Fields.
type Map struct {
	Category string
	Property string   // the coordinates property
	Fields   []string // "<Link property>.<coordinates property>" chains
	Layer    string
}

// MapPage is a page of the dump holding maps.
type MapPage struct {
	Name string
	Text string
}

// MapCode returns a leaflet query showing the coordinate fields of the pages
// selected by page. A layer other than the default one overlays the map
// configured with that name in the Leaflet extension.
func MapCode(page string, fields []string, layer string, clickable bool) string {
	printouts := make([]string, len(fields))
	for i, f := range fields {
		printouts[i] = " |?" + f
	}

	var b strings.Builder
	fmt.Fprintf(&b, "\n{{#ask: [[%s]]\n%s\n", page, strings.Join(printouts, "\n"))
	b.WriteString(" |format=leaflet\n |offset=0\n |link=all\n |headers=show\n |width=auto\n |height=auto\n")
	custom := len(layer) > 0 && layer != DefaultLayer
	if custom {
		b.WriteString(" |clustermaxzoom=1\n")
	}
	b.WriteString(" |markercluster=on\n")
	if custom {
		b.WriteString(" |layers=" + layer + "\n")
	}
	b.WriteString(" |scrollwheelzoom=1\n |pagelabel=true\n")
	if clickable {
		b.WriteString(" |copycoords=1\n |clicktarget=javascript:alert('Lat: %lat%, long: %long%')\n")
	}
	b.WriteString(" |showtitle=1\n}}\n\n")
	return b.String()
}

// ListPagesInCat returns the category tree of the current page for every
// category but the main one.
func ListPagesInCat(name, mainCategory string) string {
	if len(mainCategory) == 0 || mainCategory == name {
		return ""
	}
	return "\n\n{{#categorytree:{{PAGENAME}}|mode=all|showcount=on}}"
}

// MapPages returns the pages with the maps of the schema and the text of the
// page listing them. Without declared maps there is one page for each
// coordinates property of the main category.
func MapPages(loc wiki.Localizer, catName string, coordProps []string, maps []Map, sections *schema.Sections) ([]MapPage, string) {
	var pages []MapPage
	if len(maps) == 0 {
		for _, p := range coordProps {
			pages = append(pages, MapPage{
				Name: loc.Get("PropertyMap") + " " + p,
				Text: MapCode("Category:"+catName, []string{p}, "", true) + "<hr />\n",
			})
		}
	}

	for _, m := range maps {
		geoNames := make([]string, len(m.Fields))
		for i, f := range m.Fields {
			geoNames[i], _, _ = strings.Cut(f, ".")
		}

		typ := schema.TypeNexus
		if m.Layer == DefaultLayer {
			typ = schema.TypeCoordinates
		}
		_, chart := wiki.UnivariateChart(loc, strings.Join(geoNames, ", "), sections, typ, false, true)

		var b strings.Builder
		b.WriteString("<h2>R Shiny maps</h2>\n")
		b.WriteString(chart + "\n<hr />\n")
		for i, f := range m.Fields {
			fmt.Fprintf(&b, "<h2>%s '%s'</h2>\n", loc.Get("PropertyMap"), geoNames[i])
			b.WriteString(MapCode("Category:"+m.Category, []string{f}, m.Layer, true))
			b.WriteString("<hr />\n")
		}
		pages = append(pages, MapPage{Name: loc.Get("CategoryMap") + " " + m.Category, Text: b.String()})
	}

	var index strings.Builder
	fmt.Fprintf(&index, "\n==%s==\n\n", loc.Get("AvailableMaps"))
	for _, p := range pages {
		fmt.Fprintf(&index, "* [[%s]]\n\n", p.Name)
	}
	return pages, index.String()
}
