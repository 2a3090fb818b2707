package preview

import (
	"context"
	"fmt"
	"strings"

	"github.com/hesusruiz/tsv2smw/compiler"
	"github.com/hesusruiz/tsv2smw/schema"
	"oss.terrastruct.com/d2/d2graph"
	"oss.terrastruct.com/d2/d2layouts/d2dagrelayout"
	"oss.terrastruct.com/d2/d2lib"
	"oss.terrastruct.com/d2/d2renderers/d2svg"
	"oss.terrastruct.com/d2/d2themes/d2themescatalog"
	"oss.terrastruct.com/d2/lib/textmeasure"
)

// Block is a subpage or a list attached to the main template.
type Block struct {
	Name  string
	Link  string // link property of a subpage, empty for a list
	Lines []schema.MainLine
}

// Outline is the structure of a compiled schema.
type Outline struct {
	Name     string
	Sections *schema.Sections
	Subpages []Block
	Lists    []Block
}

// NewOutline extracts the outline of a parsed schema whose main template is tfName.
func NewOutline(tfName string, res *compiler.Result) Outline {
	o := Outline{Name: tfName, Sections: res.State.Main}
	for _, f := range res.AuxForms {
		o.Subpages = append(o.Subpages, Block{Name: f.Name, Link: f.LinkProperty, Lines: f.Sections.Lines()})
	}
	for _, sf := range res.SubForms {
		o.Lists = append(o.Lists, Block{Name: sf.Template, Lines: sf.Fields})
	}
	return o
}

func quote(s string) string {
	return `"` + strings.NewReplacer(`\`, `\\`, `"`, `\"`).Replace(s) + `"`
}

func writeTable(b *strings.Builder, indent, name string, lines []schema.MainLine) {
	fmt.Fprintf(b, "%s%s: {\n%s  shape: sql_table\n", indent, quote(name), indent)
	for _, l := range lines {
		fmt.Fprintf(b, "%s  %s: %s\n", indent, quote(l.Prop), quote(l.Type.String()))
	}
	fmt.Fprintf(b, "%s}\n", indent)
}

// Source returns the d2 description of the outline: the main template holds
// a container per section with a table per group, and subpages and lists are
// tables connected to it.
func (o Outline) Source() string {
	var b strings.Builder
	b.WriteString("direction: right\n\n")

	fmt.Fprintf(&b, "%s: {\n", quote(o.Name))
	if o.Sections != nil {
		for _, sec := range o.Sections.All() {
			fmt.Fprintf(&b, "  %s: {\n", quote(string(sec.ID)))
			for _, g := range sec.Groups {
				writeTable(&b, "    ", string(g.ID), g.Lines)
			}
			b.WriteString("  }\n")
		}
	}
	b.WriteString("}\n")

	for _, s := range o.Subpages {
		b.WriteString("\n")
		writeTable(&b, "", s.Name, s.Lines)
		fmt.Fprintf(&b, "%s -> %s: %s\n", quote(s.Name), quote(o.Name), quote(s.Link))
	}
	for _, l := range o.Lists {
		b.WriteString("\n")
		writeTable(&b, "", l.Name, l.Lines)
		fmt.Fprintf(&b, "%s -> %s: list\n", quote(o.Name), quote(l.Name))
	}
	return b.String()
}

// SVG lays out a d2 description and renders it.
func SVG(ctx context.Context, source string) ([]byte, error) {
	ruler, err := textmeasure.NewRuler()
	if err != nil {
		return nil, fmt.Errorf("creating the text ruler: %w", err)
	}

	defaultLayout := func(ctx context.Context, g *d2graph.Graph) error {
		return d2dagrelayout.Layout(ctx, g, nil)
	}
	diagram, _, err := d2lib.Compile(ctx, source, &d2lib.CompileOptions{
		Layout: defaultLayout,
		Ruler:  ruler,
	})
	if err != nil {
		return nil, fmt.Errorf("compiling the diagram: %w", err)
	}

	return d2svg.Render(diagram, &d2svg.RenderOpts{
		Pad:     d2svg.DEFAULT_PADDING,
		ThemeID: d2themescatalog.NeutralDefault.ID,
	})
}
