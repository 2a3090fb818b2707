package compiler

import (
	"bufio"
	"fmt"
	"io"
	"regexp"
	"strings"
	"time"

	"github.com/hesusruiz/tsv2smw/schema"
	"github.com/hesusruiz/tsv2smw/shell"
	"github.com/hesusruiz/tsv2smw/wiki"
	"go.uber.org/zap"
)

// DefaultAuthorColumn is the field of a page holding the name of its author.
const DefaultAuthorColumn = 4

// DataOptions configure the merge of a data file.
type DataOptions struct {
	WikiName     string
	TFName       string // template of the main pages
	Host         string
	StartID      int
	Filename     string
	Users        Users // nil when pages are not attributed
	AuthorColumn int
}

// dataMode is the state of the data parser.
type dataMode int

const (
	dataStart dataMode = iota
	dataList
	dataMain
	dataSubpage
	dataNone
)

// column is a header of a data file bound to its position.
type column struct {
	index   int
	name    string
	options wiki.HeaderOptions
}

// Merger builds the instance pages of a data file.
type Merger struct {
	opts DataOptions
	log  *zap.SugaredLogger

	mode    dataMode
	line    int
	nextID  int
	headers []column
	notes   int

	list    string
	isList  bool
	subpage string

	// calls of the lists, per list and owner, in order of appearance
	lists     []string
	listCalls map[string]map[schema.UserID][]wiki.TemplateCall

	Pages    []*wiki.Page
	AuxPages []*wiki.Page
	byName   map[string]*wiki.Page
	auxNames map[string]*wiki.Page
}

func NewMerger(opts DataOptions, log *zap.SugaredLogger) *Merger {
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	if opts.StartID <= 0 {
		opts.StartID = 1
	}
	if opts.AuthorColumn <= 0 {
		opts.AuthorColumn = DefaultAuthorColumn
	}
	return &Merger{
		opts:      opts,
		log:       log,
		nextID:    opts.StartID,
		notes:     -1,
		listCalls: map[string]map[schema.UserID][]wiki.TemplateCall{},
		byName:    map[string]*wiki.Page{},
		auxNames:  map[string]*wiki.Page{},
	}
}

// LastID is the next ID that would be assigned.
func (m *Merger) LastID() int {
	return m.nextID
}

// Read processes a data file. It can be called for several files, whose rows
// are merged into the same pages.
func (m *Merger) Read(r io.Reader) error {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	m.line = 0
	for scanner.Scan() {
		m.line++
		line := schema.ConvertEntities(scanner.Text())
		if err := m.step(strings.Split(line, "\t")); err != nil {
			return schema.AtLine(m.opts.Filename, m.line, err)
		}
	}
	return scanner.Err()
}

func (m *Merger) step(cells []string) error {
	if len(strings.TrimSpace(strings.Join(cells, ""))) == 0 {
		m.mode = dataNone
		return nil
	}
	defer func() { m.nextID++ }()

	first := cells[0]
	switch {
	case strings.HasPrefix(first, "Section:"):
		m.mode = dataMain
		return nil
	case strings.HasPrefix(first, "Subpage:"):
		m.subpage = schema.MarkerArgument(first)
		m.mode = dataSubpage
		return nil
	case strings.HasPrefix(first, "List:") || strings.HasPrefix(first, "Elenco:"):
		prefix, name, _ := strings.Cut(first, ":")
		m.list = name
		m.isList = prefix == "List"
		if _, ok := m.listCalls[name]; !ok {
			m.lists = append(m.lists, name)
			m.listCalls[name] = map[schema.UserID][]wiki.TemplateCall{}
		}
		m.mode = dataList
		return nil
	}

	switch m.mode {
	case dataList:
		if first == "ID" {
			m.parseHeaders(cells)
			// a single column is a plain list of values
			if len(m.headers) < 2 {
				m.headers = append(m.headers, column{index: len(m.headers), name: m.list,
					options: wiki.HeaderOptions{Mandatory: true, Normalize: true}})
			}
			return nil
		}
		owner := schema.UserID(first)
		call := wiki.TemplateCall{ID: "-", Template: m.list, IsList: m.isList, Fields: m.fields(cells)}
		m.listCalls[m.list][owner] = append(m.listCalls[m.list][owner], call)

	case dataMain, dataSubpage:
		if first == "ID" {
			m.parseHeaders(cells)
			return nil
		}
		m.row(cells)

	default:
		m.log.Debugw("row outside a block skipped", "line", m.line)
	}
	return nil
}

var elemsPattern = regexp.MustCompile(`^(.*?)\s*\[elems:([^\]]*)\]$`)

// parseHeaders reads a header row. A '*' marks a mandatory column, a '°' a
// column of page names and "[elems:a,b]" a vector. The columns stop at the
// first empty header; the NOTE column holds the message of the page.
func (m *Merger) parseHeaders(cells []string) {
	m.headers = nil
	m.notes = -1
	for i, value := range cells {
		if len(value) == 0 {
			break
		}
		if strings.Contains(value, "NOTE") {
			m.notes = i
			continue
		}

		var opts wiki.HeaderOptions
		if strings.Contains(value, "*") {
			opts.Mandatory = true
			value = strings.ReplaceAll(value, "*", "")
		}
		if match := elemsPattern.FindStringSubmatch(value); match != nil {
			value = match[1]
			opts.Elems = strings.ReplaceAll(match[2], ",", ":")
		}
		if strings.Contains(value, "&#176;") {
			opts.Normalize = true
			value = strings.ReplaceAll(value, "&#176;", "")
		}
		m.headers = append(m.headers, column{index: i, name: schema.Capitalize(schema.NormalizeNames(value)), options: opts})
	}
}

var itDate = regexp.MustCompile(`^\d\d/\d\d/\d\d\d\d$`)

// fields binds the values of a row to the headers.
func (m *Merger) fields(cells []string) []wiki.ParamField {
	var fields []wiki.ParamField
	for _, h := range m.headers {
		value := schema.Cell(cells, h.index)
		if h.options.Normalize {
			value = schema.Capitalize(schema.NormalizeNames(value))
		}

		if len(h.options.Elems) > 0 {
			elems := strings.Split(h.options.Elems, ":")
			values := strings.Split(value, ",")
			if len(elems) > 1 && len(values) == len(elems) {
				for j, e := range elems {
					fields = append(fields, wiki.ParamField{Name: h.name + " " + e, Options: h.options, Value: strings.TrimSpace(values[j])})
				}
				continue
			}
		}

		// dates are written day first in the data files
		if itDate.MatchString(value) {
			if t, err := time.Parse("02/01/2006", value); err == nil {
				value = t.Format("2006/01/02")
			}
		}
		fields = append(fields, wiki.ParamField{Name: h.name, Options: h.options, Value: value})
	}
	return fields
}

// row adds a data row to its page, creating the page the first time.
func (m *Merger) row(cells []string) {
	var notes string
	if m.notes >= 0 && m.notes < len(cells) {
		notes = "\n" + cells[m.notes]
	}
	fields := m.fields(cells)

	owner := schema.UserID(cells[0])
	var calls []wiki.TemplateCall
	for _, l := range m.lists {
		calls = append(calls, m.listCalls[l][owner]...)
	}

	name := cells[0]
	pages, list, template := m.byName, &m.Pages, m.opts.TFName
	if m.mode == dataSubpage {
		pages, list, template = m.auxNames, &m.AuxPages, m.subpage
	}

	if p, ok := pages[name]; ok {
		p.Add(fields, calls)
		return
	}
	p := wiki.NewPage(m.nextID, name, notes, fields, template, calls, "")
	p.FillNA = true
	m.nextID++
	pages[name] = p
	*list = append(*list, p)
}

// attribute sets the author of the main pages from the users table.
func (m *Merger) attribute() {
	if m.opts.Users == nil {
		return
	}
	for _, p := range m.Pages {
		if m.opts.AuthorColumn >= len(p.Fields) {
			m.log.Warnw("page without author", "page", p.Name)
			continue
		}
		name := schema.Capitalize(p.Fields[m.opts.AuthorColumn].Value)
		id, ok := m.opts.Users.Lookup(name)
		if !ok {
			m.log.Warnw("unknown user", "page", p.Name, "user", name)
			continue
		}
		p.UserID = id
		p.UserName = name
	}
}

// Write writes the dump with the main pages followed by the subpages.
func (m *Merger) Write(w io.Writer, env *wiki.Env) error {
	m.attribute()

	prefix, err := shell.DumpPrefix(env.Shells, m.opts.Host, m.opts.WikiName)
	if err != nil {
		return err
	}
	d := &dumpWriter{w: w, env: env}
	d.text(prefix)
	d.docs(asDocs(m.Pages)...)
	d.docs(asDocs(m.AuxPages)...)
	d.text(shell.DumpSuffix)
	if d.err != nil {
		return d.err
	}

	m.log.Infow("data merged", "pages", len(m.Pages), "subpages", len(m.AuxPages), "Last ID", m.nextID)
	return nil
}

// MergeData reads a data file and writes its pages.
func MergeData(r io.Reader, w io.Writer, env *wiki.Env, opts DataOptions) (*Merger, error) {
	m := NewMerger(opts, env.Log)
	if err := m.Read(r); err != nil {
		return m, err
	}
	if err := m.Write(w, env); err != nil {
		return m, fmt.Errorf("writing %s: %w", opts.Filename, err)
	}
	return m, nil
}
