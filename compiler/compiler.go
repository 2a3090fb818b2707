// Package compiler turns a schema file into the documents of a Semantic
// MediaWiki site and writes them as an XML dump. It also merges data files
// into instance pages of a compiled schema.
package compiler

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"strings"

	"github.com/hesusruiz/tsv2smw/charts"
	"github.com/hesusruiz/tsv2smw/formula"
	"github.com/hesusruiz/tsv2smw/schema"
	"github.com/hesusruiz/tsv2smw/shell"
	"github.com/hesusruiz/tsv2smw/wiki"
	"go.uber.org/zap"
)

// Options configure a compilation.
type Options struct {
	WikiName string
	CatName  string // main category
	TFName   string // main template and form
	Host     string
	StartID  int
	Policy   formula.Policy
	Strict   bool   // group reuse is an error
	Filename string // used in error messages
}

// Compiler compiles one schema. It is not safe for concurrent use.
type Compiler struct {
	opts Options
	reg  *schema.Registry
	loc  wiki.Localizer
	log  *zap.SugaredLogger
}

func New(opts Options, loc wiki.Localizer, log *zap.SugaredLogger) *Compiler {
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	return &Compiler{
		opts: opts,
		reg:  schema.NewRegistry(opts.StartID, log),
		loc:  loc,
		log:  log,
	}
}

// Registry returns the symbol table of the compilation.
func (c *Compiler) Registry() *schema.Registry {
	return c.reg
}

// Result holds the entities of a compiled schema.
type Result struct {
	Bookkeeping        []*wiki.Property // template ID, semantic dependency and rating
	LinkProperties     []*wiki.Property
	SuperProperties    []*wiki.Property
	Properties         []*wiki.Property
	AuxSimpleTemplates []*wiki.SimpleTemplate
	AuxTemplates       []*wiki.Template
	AuxForms           []*wiki.Form
	AuxCategories      []*wiki.Category
	SubForms           []*wiki.CoreForm
	Categories         []*wiki.Category
	Maps               []charts.Map
	Modules            []string

	State ParserState
}

// collect files an emitted entity in the result.
func (r *Result) collect(e Emitted) {
	switch e.Kind {
	case KindProperty:
		r.Properties = append(r.Properties, e.Doc.(*wiki.Property))
	case KindSuperProperty:
		r.SuperProperties = append(r.SuperProperties, e.Doc.(*wiki.Property))
	case KindLinkProperty:
		r.LinkProperties = append(r.LinkProperties, e.Doc.(*wiki.Property))
	case KindSimpleTemplate:
		r.AuxSimpleTemplates = append(r.AuxSimpleTemplates, e.Doc.(*wiki.SimpleTemplate))
	case KindTemplate:
		r.AuxTemplates = append(r.AuxTemplates, e.Doc.(*wiki.Template))
	case KindForm:
		r.AuxForms = append(r.AuxForms, e.Doc.(*wiki.Form))
	case KindSubForm:
		r.SubForms = append(r.SubForms, e.SubForm)
	case KindAuxCategory:
		r.AuxCategories = append(r.AuxCategories, e.Doc.(*wiki.Category))
	case KindCategory:
		r.Categories = append(r.Categories, e.Doc.(*wiki.Category))
	case KindMap:
		r.Maps = append(r.Maps, *e.Map)
	case KindModule:
		for _, m := range r.Modules {
			if m == e.Name {
				return
			}
		}
		r.Modules = append(r.Modules, e.Name)
	}
}

// Parse reads the schema and builds its entities.
func (c *Compiler) Parse(r io.Reader) (*Result, error) {
	res := &Result{}
	for _, name := range []string{c.opts.TFName + " ID", "Semantic Dependency", "Rating"} {
		if err := c.reg.Claim(name); err != nil {
			return nil, err
		}
	}
	res.Bookkeeping = []*wiki.Property{
		wiki.NewProperty(c.reg.NextID(), c.opts.TFName+" ID", "", schema.TypeText, "", 0, ""),
		wiki.NewProperty(c.reg.NextID(), "Semantic Dependency", "", schema.TypeText, "", 0, ""),
		wiki.NewProperty(c.reg.NextID(), "Rating", "General", schema.TypeText, "", 0, ""),
	}

	st := ParserState{
		Section:      schema.MainSection,
		LinkProperty: c.loc.Get("Has") + " " + c.opts.TFName,
		NoteText:     "Note",
		Main:         schema.NewSections(),
	}

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := schema.ConvertEntities(strings.TrimRight(scanner.Text(), " \t\r"))
		var out []Emitted
		var err error
		st, out, err = c.Step(st, strings.Split(line, "\t"))
		for _, e := range out {
			res.collect(e)
		}
		if err != nil {
			return res, err
		}
	}
	if err := scanner.Err(); err != nil {
		return res, fmt.Errorf("reading %s: %w", c.opts.Filename, err)
	}

	st, out, err := c.Finish(st)
	for _, e := range out {
		res.collect(e)
	}
	res.State = st
	return res, err
}

// Compile parses the schema read from r and writes the dump to w.
func (c *Compiler) Compile(r io.Reader, w io.Writer, env *wiki.Env) (*Result, error) {
	res, err := c.Parse(r)
	if err != nil {
		return res, err
	}
	if err := c.Write(w, env, res); err != nil {
		return res, err
	}

	c.log.Infow("PropertyChainsHelper configuration",
		"settings", charts.PropChainHelperConf(c.opts.CatName, res.State.Fields, res.AuxTemplates))
	c.log.Infow("compilation done", "Last ID", c.reg.LastID())
	return res, nil
}

// dumpWriter writes documents to the dump, stopping at the first error.
type dumpWriter struct {
	w   io.Writer
	env *wiki.Env
	err error
}

func (d *dumpWriter) text(s string) {
	if d.err != nil {
		return
	}
	_, d.err = io.WriteString(d.w, s)
}

func (d *dumpWriter) docs(docs ...wiki.Document) {
	for _, doc := range docs {
		if d.err != nil {
			return
		}
		var s string
		s, d.err = doc.Render(d.env)
		if d.err != nil {
			id := doc.Identity()
			d.err = fmt.Errorf("rendering %d '%s': %w", id.ID, id.Name, d.err)
			return
		}
		d.text(s)
	}
}

func asDocs[T wiki.Document](list []T) []wiki.Document {
	docs := make([]wiki.Document, len(list))
	for i, d := range list {
		docs[i] = d
	}
	return docs
}

func isNotExist(err error) bool {
	return errors.Is(err, fs.ErrNotExist)
}

// simplePages returns the pages copied as they are: those of the language
// directory first, then those of the root that have no translation.
func simplePages(pages fs.FS, language string) ([]string, error) {
	if pages == nil {
		return nil, nil
	}
	var files []string
	translated := map[string]bool{}

	if len(language) > 0 {
		entries, err := fs.ReadDir(pages, language)
		if err != nil && !isNotExist(err) {
			return nil, err
		}
		for _, e := range entries {
			if !e.IsDir() && !strings.Contains(e.Name(), "param") {
				files = append(files, e.Name())
				translated[e.Name()] = true
			}
		}
	}

	entries, err := fs.ReadDir(pages, ".")
	if err != nil {
		return nil, err
	}
	for _, e := range entries {
		if !e.IsDir() && !strings.Contains(e.Name(), "param") && !translated[e.Name()] {
			files = append(files, e.Name())
		}
	}
	return files, nil
}

// Write builds the site pages of a parsed schema and writes the whole dump.
func (c *Compiler) Write(w io.Writer, env *wiki.Env, res *Result) error {
	o := c.opts
	st := res.State
	id := c.reg.NextID
	raw := func(name string, ns wiki.Namespace, file, text string, params ...string) *wiki.RawPage {
		return wiki.NewRawPage(id(), name, ns, file, text, params)
	}

	introduction := raw("", wiki.NamespacePage, "introduction_param.md", "", o.WikiName, o.TFName, o.CatName)
	sidebar := raw("", wiki.NamespaceMediaWiki, "sidebar_param.md", "", o.TFName, o.CatName)
	searchForm := raw("", wiki.NamespaceForm, "form_SearchEntry_param.md", "", o.TFName, o.CatName)
	searchTemplate := raw("", wiki.NamespaceTemplate, "template_SearchEntry_param.md", "", o.TFName, o.CatName)
	editPage := raw("", wiki.NamespacePage, "modify_entry_param.md", "", o.TFName)
	commonJS := raw("MediaWiki:Common.js", wiki.NamespaceMediaWiki, "common_param.js", "", o.WikiName)
	shinyPlot := raw("Widget:ShinyPlotSrv", wiki.NamespaceWidget, "widgets_ShinyPlotSrv_param.md", "", o.CatName)
	trueWords := raw("MediaWiki:Smw_true_words", wiki.NamespaceMediaWiki, "", "vero,v,sì,s,true,t,yes,y")

	loc := c.loc
	dataPage := raw(loc.Get("DataTables"), wiki.NamespacePage, "", charts.DataTable(o.CatName, st.Main))
	chartsPage := raw(loc.Get("DataDistribution"), wiki.NamespacePage, "", charts.ChartsPage(loc, o.Host, o.CatName, st.Main, c.log))

	_, pies := wiki.UnivariateChart(loc, "", st.Main, schema.TypeOption, false, true)
	for _, f := range res.AuxForms {
		_, more := wiki.UnivariateChart(loc, "", f.Sections, schema.TypeOption, false, true)
		pies += "\n\n" + more
	}
	univariate := func(typ schema.InputType, withCats bool) string {
		_, text := wiki.UnivariateChart(loc, "", st.Main, typ, withCats, true)
		return text
	}
	piePage := raw(loc.Get("PieCharts"), wiki.NamespacePage, "", pies)
	barPage := raw(loc.Get("BarCharts"), wiki.NamespacePage, "", univariate(schema.TypeList, false))
	histPage := raw(loc.Get("Histograms"), wiki.NamespacePage, "", univariate(schema.TypeNumber, false))
	curvePage := raw(loc.Get("SurvivalCurves"), wiki.NamespacePage, "", univariate(schema.TypeDate, true))
	timelinesPage := raw(loc.Get("Timelines"), wiki.NamespacePage, "", univariate(schema.TypeDate, false))
	cloudPage := raw(loc.Get("WordClouds"), wiki.NamespacePage, "", univariate(schema.TypeText, true))

	scatterPage := raw(loc.Get("Scatterplots"), wiki.NamespacePage, "", charts.Bivariate(loc, st.Main, schema.TypeNumber, schema.TypeNumber))
	boxPage := raw(loc.Get("Boxplots"), wiki.NamespacePage, "", charts.Bivariate(loc, st.Main, schema.TypeNumber, schema.TypeOption))
	tmQuery, tmForm := charts.Timeline(loc, o.CatName, st.Main)
	timelinePage := raw(loc.Get("TimeLineTemplate"), wiki.NamespacePage, "", tmQuery)
	timelineForm := raw(loc.Get("TimeLineForm"), wiki.NamespacePage, "", tmForm)
	exportPage := raw(loc.Get("ExportPageTitle"), wiki.NamespacePage, "", charts.ExportLinks(loc, o.CatName, st.Fields, res.AuxTemplates))

	template := wiki.NewTemplate(id(), o.TFName, loc.Get("TemplateCaption")+" '"+o.CatName+"'", st.Fields, "",
		[]string{o.CatName}, res.Modules, false)
	form := wiki.NewForm(id(), o.TFName, loc.Get("FormCCaption")+" "+o.CatName, st.Main, o.TFName, res.SubForms,
		st.NoteText, o.CatName, "", "")
	mainCat := wiki.NewCategory(id(), o.CatName, "", "", o.TFName, st.Fields, false)

	files, err := simplePages(env.Pages, loc.Language())
	if err != nil {
		return fmt.Errorf("listing simple pages: %w", err)
	}
	simple := make([]wiki.Document, len(files))
	for i, f := range files {
		simple[i] = raw("", wiki.NamespaceAuto, f, "")
	}

	var coords []string
	for _, p := range res.Properties {
		if p.Type == schema.TypeCoordinates {
			coords = append(coords, p.Name)
		}
	}
	maps, mapsIndex := charts.MapPages(loc, o.CatName, coords, res.Maps, st.Main)
	mapPages := make([]wiki.Document, len(maps))
	for i, m := range maps {
		mapPages[i] = raw(m.Name, wiki.NamespacePage, "", m.Text)
	}
	mapsPage := raw(loc.Get("Maps"), wiki.NamespacePage, "", mapsIndex)

	prefix, err := shell.DumpPrefix(env.Shells, o.Host, o.WikiName)
	if err != nil {
		return err
	}

	d := &dumpWriter{w: w, env: env}
	d.text(prefix)
	d.docs(introduction, sidebar, commonJS, shinyPlot, searchForm, searchTemplate, editPage, trueWords)
	d.docs(simple...)
	d.docs(exportPage, mainCat)
	d.docs(asDocs(res.LinkProperties)...)
	d.docs(asDocs(res.Bookkeeping)...)
	d.docs(template, form, dataPage, chartsPage, piePage, barPage, histPage, curvePage, timelinesPage, cloudPage,
		scatterPage, boxPage, timelinePage, timelineForm)
	d.docs(asDocs(res.SuperProperties)...)
	d.docs(asDocs(res.Properties)...)
	d.docs(asDocs(res.AuxSimpleTemplates)...)
	d.docs(asDocs(res.AuxTemplates)...)
	d.docs(asDocs(res.AuxForms)...)
	d.docs(asDocs(res.AuxCategories)...)
	d.docs(asDocs(res.Categories)...)
	d.docs(mapPages...)
	d.docs(mapsPage)
	d.text(shell.DumpSuffix)
	return d.err
}
