package compiler

import (
	"fmt"
	"slices"
	"strconv"
	"strings"

	"github.com/hesusruiz/tsv2smw/charts"
	"github.com/hesusruiz/tsv2smw/formula"
	"github.com/hesusruiz/tsv2smw/schema"
	"github.com/hesusruiz/tsv2smw/wiki"
)

// maxParents is the number of parent parameters of a category template.
const maxParents = 4

// ParserState is the state of the schema parser between two lines.
// It is threaded through Step by value. Main and the open subpage are
// pointers, so the records they hold are shared with the previous state.
type ParserState struct {
	Mode schema.Mode
	Line int // last processed line, 1-based

	Section      schema.SectionID
	Category     string // category of the open Category or List block
	List         string
	Subpage      string
	SubpageCat   string
	LinkProperty string
	NoteText     string

	// Main holds the records of the main template and Fields their template
	// fields, in the section and group order of Main.
	Main   *schema.Sections
	Fields []wiki.TemplateField

	sectionSeen bool
	catHeaders  []string
	block       []schema.MainLine // records of the open List block
	subpage     *schema.Sections  // records of the open Subpage block
}

// Kind tells what an Emitted entity is.
type Kind int

const (
	KindProperty Kind = iota
	KindSuperProperty
	KindLinkProperty
	KindSimpleTemplate // auxiliary template of a category
	KindTemplate       // auxiliary template of a list or subpage
	KindForm           // form of a subpage
	KindSubForm        // embedded form of a list
	KindAuxCategory    // category of the pages of a subpage
	KindCategory
	KindMap
	KindModule
)

var kindNames = [...]string{"Property", "SuperProperty", "LinkProperty", "SimpleTemplate", "Template",
	"Form", "SubForm", "AuxCategory", "Category", "Map", "Module"}

func (k Kind) String() string {
	if int(k) < 0 || int(k) >= len(kindNames) {
		return "Kind(" + strconv.Itoa(int(k)) + ")"
	}
	return kindNames[k]
}

// Emitted is an entity produced by a line of the schema.
// Doc is set for the documents of the dump, SubForm for KindSubForm,
// Map for KindMap and Name for KindModule.
type Emitted struct {
	Kind    Kind
	Doc     wiki.Document
	SubForm *wiki.CoreForm
	Map     *charts.Map
	Name    string
}

// Step processes the cells of one line. The returned state replaces st.
// Errors carry the line number.
func (c *Compiler) Step(st ParserState, cells []string) (ParserState, []Emitted, error) {
	st.Line++
	if st.Main == nil {
		st.Main = schema.NewSections()
	}

	kind := schema.Classify(cells, st.Mode)
	if kind == schema.GroupComment {
		return st, nil, nil
	}
	c.log.Debugw("line", "line", st.Line, "kind", kind, "mode", st.Mode)

	var out []Emitted
	var err error

	switch kind {
	case schema.Blank:
		out, err = c.seal(&st)
		st.Mode = schema.ModeStart

	case schema.LinkMarker:
		out, err = c.linkMarker(&st, cells)

	case schema.NoteMarker:
		st.NoteText = schema.Cell(cells, schema.ColProperty)

	case schema.ListStart:
		if out, err = c.seal(&st); err == nil {
			st.List = schema.MarkerArgument(cells[0])
			if len(st.Category) == 0 {
				st.Category = c.opts.CatName
			}
			st.Mode = schema.ModeList
		}

	case schema.SubpageStart:
		if out, err = c.seal(&st); err == nil {
			st.Subpage, st.SubpageCat, _ = strings.Cut(schema.MarkerArgument(cells[0]), "/")
			st.subpage = schema.NewSections()
			st.subpage.Section(schema.MainSection)
			st.Mode = schema.ModeSubpage
		}

	case schema.CategoryStart:
		if out, err = c.seal(&st); err == nil {
			var more []Emitted
			more, err = c.categoryMarker(&st, cells)
			out = append(out, more...)
		}

	case schema.SectionStart:
		if out, err = c.seal(&st); err == nil {
			c.sectionMarker(&st, cells)
		}

	case schema.Record:
		switch st.Mode {
		case schema.ModeCategory:
			out, err = c.categoryRecord(&st, cells)
		case schema.ModeList:
			out, err = c.listRecord(&st, cells)
		case schema.ModeMain, schema.ModeSubpage:
			out, err = c.mainRecord(&st, cells)
		default:
			err = fmt.Errorf("%w: record in state %s (id = %d)", schema.ErrInvalidState, st.Mode, c.reg.LastID())
		}
	}
	if err != nil {
		return st, out, schema.AtLine(c.opts.Filename, st.Line, err)
	}

	// every processed line has its own ID
	c.reg.NextID()
	return st, out, nil
}

// Finish seals the block left open at the end of the input.
func (c *Compiler) Finish(st ParserState) (ParserState, []Emitted, error) {
	out, err := c.seal(&st)
	if err != nil {
		return st, out, schema.AtLine(c.opts.Filename, st.Line, err)
	}
	st.Mode = schema.ModeStart
	return st, out, nil
}

// seal closes the open List or Subpage block and returns to the start state.
func (c *Compiler) seal(st *ParserState) ([]Emitted, error) {
	var out []Emitted
	var err error

	switch st.Mode {
	case schema.ModeList:
		out, err = c.sealList(st)
	case schema.ModeSubpage:
		out, err = c.sealSubpage(st)
	}

	st.Category = ""
	st.List = ""
	st.Subpage = ""
	st.SubpageCat = ""
	st.block = nil
	st.subpage = nil
	return out, err
}

func (c *Compiler) sealList(st *ParserState) ([]Emitted, error) {
	fc := formula.New(c.reg, st.LinkProperty, c.opts.Policy, c.log)

	var out []Emitted
	fields := make([]wiki.TemplateField, 0, len(st.block))
	for _, line := range st.block {
		f, err := wiki.NewTemplateField(st.Section, line, st.LinkProperty, fc)
		if err != nil {
			return nil, err
		}
		f.Category = st.Category
		fields = append(fields, f)
		out = append(out, c.module(line)...)
	}

	t := wiki.NewTemplate(c.reg.NextID(), st.List, c.loc.Get("TemplateCaption")+" "+st.List, fields,
		st.LinkProperty, []string{st.Category}, nil, true)
	out = append(out,
		Emitted{Kind: KindTemplate, Doc: t},
		Emitted{Kind: KindSubForm, SubForm: wiki.NewCoreForm(st.List, st.block, c.opts.TFName)},
	)
	c.log.Debugw("list sealed", "list", st.List, "fields", len(fields))
	return out, nil
}

func (c *Compiler) sealSubpage(st *ParserState) ([]Emitted, error) {
	fc := formula.New(c.reg, st.LinkProperty, c.opts.Policy, c.log)

	var out []Emitted
	var fields []wiki.TemplateField
	for _, sec := range st.subpage.All() {
		for _, g := range sec.Groups {
			for _, line := range g.Lines {
				f, err := wiki.NewTemplateField(sec.ID, line, st.LinkProperty, fc)
				if err != nil {
					return nil, err
				}
				fields = append(fields, f)
				out = append(out, c.module(line)...)
			}
		}
	}

	t := wiki.NewTemplate(c.reg.NextID(), st.Subpage, "", fields, st.LinkProperty, []string{st.SubpageCat}, nil, false)
	form := wiki.NewForm(c.reg.NextID(), st.Subpage, "", st.subpage, st.Subpage, nil, st.NoteText,
		st.SubpageCat, st.LinkProperty, c.opts.CatName)
	cat := wiki.NewCategory(c.reg.NextID(), st.SubpageCat, "", "", st.Subpage, fields, false)

	out = append(out,
		Emitted{Kind: KindTemplate, Doc: t},
		Emitted{Kind: KindForm, Doc: form},
		Emitted{Kind: KindAuxCategory, Doc: cat},
	)
	c.log.Debugw("subpage sealed", "subpage", st.Subpage, "category", st.SubpageCat, "fields", len(fields))
	return out, nil
}

// linkMarker changes the property linking the next subordinate pages to their parent.
func (c *Compiler) linkMarker(st *ParserState, cells []string) ([]Emitted, error) {
	name := schema.Cell(cells, schema.ColProperty)
	if err := c.reg.Claim(name); err != nil {
		return nil, err
	}
	st.LinkProperty = name
	p := wiki.NewProperty(c.reg.NextID(), name, "", schema.TypePage, "", 0, "")
	return []Emitted{{Kind: KindLinkProperty, Doc: p}}, nil
}

func (c *Compiler) sectionMarker(st *ParserState, cells []string) {
	sec := schema.SectionID(schema.MarkerArgument(cells[0]))
	if !st.sectionSeen {
		st.Main.Clear()
		st.Fields = nil
		st.sectionSeen = true
	}
	st.Main.Section(sec)
	st.Section = sec
	st.Mode = schema.ModeMain
}

// categoryMarker opens a Category block. The first cell is
// "Category:<name>[|<map fields>]"; the following ones declare the properties
// of the category pages as "<name>[<type>]", optionally followed by ":<layer>"
// to draw them on a map.
func (c *Compiler) categoryMarker(st *ParserState, cells []string) ([]Emitted, error) {
	name, mapFields, _ := strings.Cut(schema.MarkerArgument(cells[0]), "|")
	st.Category = name
	st.catHeaders = nil
	st.Mode = schema.ModeCategory

	var out []Emitted
	var coordName, layer string
	for _, cell := range cells[1:] {
		prop, rest, found := strings.Cut(cell, "[")
		if !found {
			continue
		}
		typeName, mapLayer, isMap := strings.Cut(rest, ":")
		typ, err := schema.ParseInputType(strings.TrimSuffix(typeName, "]"))
		if err != nil {
			return out, err
		}
		coordName = prop

		if isMap {
			m := &charts.Map{Category: name, Property: prop, Layer: mapLayer}
			for _, mf := range strings.Split(mapFields, ",") {
				if len(mf) > 0 {
					m.Fields = append(m.Fields, schema.Capitalize(schema.NormalizeNames(mf))+"."+prop)
				}
			}
			layer = mapLayer
			out = append(out, Emitted{Kind: KindMap, Map: m})
		}

		st.catHeaders = append(st.catHeaders, prop)
		// the same property can be shared by several categories
		if !c.reg.HasProperty(prop) {
			if err := c.reg.Claim(prop); err != nil {
				return out, err
			}
			c.reg.AddProperty(prop)
			out = append(out, Emitted{Kind: KindProperty, Doc: wiki.NewProperty(c.reg.NextID(), prop, "", typ, "", 0, "")})
		}
	}

	var body string
	if len(coordName) > 0 {
		label := c.loc.Get("Coordinates")
		body = fmt.Sprintf("[[Property:%s|%s]]: [[%s::{{{%s|}}}]]\n\n", label, coordName, label, coordName)
		body += charts.MapCode(":Category:{{PAGENAME}}", []string{coordName}, layer, false)
	}
	body += charts.ListPagesInCat(name, c.opts.CatName)

	parents := []string{"{{{Parent|}}}"}
	for i := 1; i <= maxParents; i++ {
		parents = append(parents, "{{{Parent"+strconv.Itoa(i)+"|}}}")
	}
	t := wiki.NewSimpleTemplate(c.reg.NextID(), name, c.loc.Get("TemplateCaption")+" '"+name+"'", body,
		c.opts.TFName, parents, nil)
	top := wiki.NewCategory(c.reg.NextID(), name, "{{#categorytree:{{PAGENAME}}|mode=all|showcount=on}}", "", "", nil, false)

	return append(out,
		Emitted{Kind: KindSimpleTemplate, Doc: t},
		Emitted{Kind: KindCategory, Doc: top},
	), nil
}

// categoryRecord adds a category to the open block: the first cell is the
// name, the second the '|'-separated parents and the others the values of
// the properties declared by the marker.
func (c *Compiler) categoryRecord(st *ParserState, cells []string) ([]Emitted, error) {
	opts := wiki.HeaderOptions{Normalize: true}

	var fields []wiki.ParamField
	for i := 2; i < len(cells) && i-2 < len(st.catHeaders); i++ {
		fields = append(fields, wiki.ParamField{Name: st.catHeaders[i-2], Options: opts, Value: cells[i]})
	}
	fields = append(fields, wiki.ParamField{Name: "Parent", Options: opts, Value: st.Category})

	if parents := schema.Cell(cells, schema.ColParentCategory); len(parents) > 0 {
		list := strings.Split(parents, "|")
		if len(list) > maxParents {
			return nil, fmt.Errorf("%w: %d, at most %d", schema.ErrTooManyParents, len(list), maxParents)
		}
		for i, p := range list {
			fields = append(fields, wiki.ParamField{Name: "Parent" + strconv.Itoa(i+1), Options: opts, Value: schema.NormalizeNames(p)})
		}
	}

	call := wiki.TemplateCall{ID: "-", Template: st.Category, Fields: fields}
	cat := wiki.NewCategory(c.reg.NextID(), cells[schema.ColCategory], call.String(), "", "", nil, false)
	return []Emitted{{Kind: KindCategory, Doc: cat}}, nil
}

// group registers the category of a property group the first time it is seen.
func (c *Compiler) group(st *ParserState, name string) ([]Emitted, error) {
	first, reused := c.reg.SeeGroup(name)
	if first {
		return []Emitted{{Kind: KindCategory, Doc: wiki.NewCategory(c.reg.NextID(), name, "", "", "", nil, true)}}, nil
	}
	if reused {
		if c.opts.Strict {
			return nil, fmt.Errorf("%w: %s", schema.ErrGroupReused, name)
		}
		c.log.Warnw("group already used", "line", st.Line, "group", name)
	}
	return nil, nil
}

// superProperty registers the super-property of a record the first time it is seen.
func (c *Compiler) superProperty(line schema.MainLine, domain, group string) ([]Emitted, error) {
	if len(line.SuperProperty) == 0 {
		return nil, nil
	}
	created, err := c.reg.AddSuperProperty(line.SuperProperty)
	if err != nil || !created {
		return nil, err
	}
	p := wiki.NewProperty(c.reg.NextID(), line.SuperProperty, "", line.Type, domain, 0, group)
	return []Emitted{{Kind: KindSuperProperty, Doc: p}}, nil
}

// module records the module used by a record.
func (c *Compiler) module(line schema.MainLine) []Emitted {
	if !line.Options.Has(schema.OptModule) {
		return nil
	}
	name, _, _ := strings.Cut(line.Domain, "|")
	c.log.Warnw("better not to use modules", "property", line.Prop, "module", name)
	return []Emitted{{Kind: KindModule, Name: name}}
}

func (c *Compiler) listRecord(st *ParserState, cells []string) ([]Emitted, error) {
	line, err := c.record(st, cells)
	if err != nil {
		return nil, err
	}
	group := string(line.Group)

	out, err := c.group(st, group)
	if err != nil {
		return out, err
	}
	sp, err := c.superProperty(line, line.Domain, group)
	out = append(out, sp...)
	if err != nil {
		return out, err
	}

	if err := c.reg.Claim(line.Prop); err != nil {
		return out, err
	}
	c.reg.AddProperty(line.Prop)
	out = append(out, Emitted{Kind: KindProperty,
		Doc: wiki.NewProperty(c.reg.NextID(), line.Prop, line.SuperProperty, line.Type, line.Domain, line.Options, group)})

	st.block = append(st.block, line)
	return out, nil
}

// record parses a property record, noting when its name had characters the
// wiki does not accept in a page title.
func (c *Compiler) record(st *ParserState, cells []string) (schema.MainLine, error) {
	line, err := schema.ParseRecord(cells)
	if err != nil {
		return line, err
	}
	if schema.NormalizeNames(line.Label) != line.Label {
		c.log.Infow("invalid character in property name, modified", "line", st.Line, "name", line.Label, "normalized", line.Prop)
	}
	return line, nil
}

// mainRecord adds a record to the main template or to the open subpage.
func (c *Compiler) mainRecord(st *ParserState, cells []string) ([]Emitted, error) {
	line, err := c.record(st, cells)
	if err != nil {
		return nil, err
	}
	group := "Group_" + string(line.Group)

	out, err := c.group(st, group)
	if err != nil {
		return out, err
	}
	sp, err := c.superProperty(line, "", group)
	out = append(out, sp...)
	if err != nil {
		return out, err
	}

	if st.Mode == schema.ModeSubpage {
		st.subpage.Add(schema.MainSection, line)
	} else {
		fc := formula.New(c.reg, st.LinkProperty, c.opts.Policy, c.log)
		f, err := wiki.NewTemplateField(st.Section, line, st.LinkProperty, fc)
		if err != nil {
			return out, err
		}
		st.Main.Add(st.Section, line)
		st.Fields = insertField(st.Fields, f)
		out = append(out, c.module(line)...)
	}

	if line.Type == schema.TypeRepeated {
		return out, nil
	}

	props, err := c.properties(line, group)
	out = append(out, props...)
	if err != nil {
		return out, err
	}
	c.reg.AddProperty(line.Prop)
	return out, nil
}

// insertField places f after the last field of its group, or after the last
// field of its section when the group is new, so that the fields follow the
// order of the sections.
func insertField(fields []wiki.TemplateField, f wiki.TemplateField) []wiki.TemplateField {
	inGroup, inSection := -1, -1
	for i, g := range fields {
		if g.Section != f.Section {
			continue
		}
		inSection = i + 1
		if g.Group == f.Group {
			inGroup = i + 1
		}
	}

	at := len(fields)
	switch {
	case inGroup >= 0:
		at = inGroup
	case inSection >= 0:
		at = inSection
	}
	return slices.Insert(fields, at, f)
}

// properties registers the properties of a record. A vector is stored as a
// text and each of its elements as a property of its own.
func (c *Compiler) properties(line schema.MainLine, group string) ([]Emitted, error) {
	if line.Type != schema.TypeVector && !line.Options.Has(schema.OptVector) {
		if err := c.reg.Claim(line.Prop); err != nil {
			return nil, err
		}
		p := wiki.NewProperty(c.reg.NextID(), line.Prop, line.SuperProperty, line.Type, line.Domain, line.Options, group)
		return []Emitted{{Kind: KindProperty, Doc: p}}, nil
	}

	if err := c.reg.Claim(line.Prop); err != nil {
		return nil, err
	}
	out := []Emitted{{Kind: KindProperty,
		Doc: wiki.NewProperty(c.reg.NextID(), line.Prop, line.SuperProperty, schema.TypeText, line.Domain, line.Options, group)}}

	elemType := line.Type
	if elemType == schema.TypeVector {
		elemType = schema.TypeNumber
	}
	for _, elem := range line.VectorElems() {
		name := line.Prop + " " + elem
		if err := c.reg.Claim(name); err != nil {
			return out, err
		}
		out = append(out, Emitted{Kind: KindProperty,
			Doc: wiki.NewProperty(c.reg.NextID(), name, line.Prop, elemType, "", 0, group)})
	}
	return out, nil
}
