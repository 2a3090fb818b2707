package schema

import (
	"fmt"
	"strings"
)

// Column positions in a schema file.
const (
	ColGroup = iota
	ColSuperProperty
	ColProperty
	ColType
	ColDomain
	ColNotes
	ColInfo
	ColShowOnSelect
)

// Column positions in the rows of a Category block.
const (
	ColCategory       = 0
	ColParentCategory = 1
)

// MinRecordColumns is the number of columns a schema record must have.
const MinRecordColumns = 4

// Cell returns the i-th cell, or the empty string when the row is shorter.
func Cell(cells []string, i int) string {
	if i < 0 || i >= len(cells) {
		return ""
	}
	return cells[i]
}

// MainLine is one record of the schema.
type MainLine struct {
	Group         GroupID
	SuperProperty string
	Prop          string // normalized and capitalized property name
	Label         string // the property name as written by the author
	Type          InputType
	Category      string
	Domain        string
	Options       Options
	Info          string
	ShowOnSelect  string
}

// NewMainLine builds a record from its raw components.
// The options column is a comma-separated list of option keywords.
func NewMainLine(group GroupID, superProperty, property, typ, domain, options, info, showOnSelect string) (MainLine, error) {
	t, err := ParseInputType(typ)
	if err != nil {
		return MainLine{}, err
	}

	opts, err := ParseOptions(options)
	if err != nil {
		return MainLine{}, err
	}
	switch t {
	case TypeTokens:
		opts = opts.With(OptList)
	case TypeRepeated:
		opts = opts.With(OptMultiple)
	case TypeSubpage:
		opts = opts.With(OptSubpages)
	}

	m := MainLine{
		Group:         group,
		SuperProperty: superProperty,
		Prop:          Capitalize(NormalizeNames(property)),
		Label:         property,
		Type:          t,
		Domain:        domain,
		Options:       opts,
		Info:          info,
		ShowOnSelect:  showOnSelect,
	}
	if len(m.Prop) == 0 {
		return MainLine{}, fmt.Errorf("%w: property column", ErrEmptyName)
	}

	if strings.Contains(domain, "ategory:") {
		m.Category = secondPart(domain, ":")
	} else if strings.Contains(domain, "Subpage:") {
		m.Category = secondPart(secondPart(domain, ":"), "/")
	}

	return m, nil
}

// ParseRecord builds a record from the cells of a schema line.
func ParseRecord(cells []string) (MainLine, error) {
	if len(cells) < MinRecordColumns {
		return MainLine{}, fmt.Errorf("%w: %d columns, expecting at least %d", ErrTooFewColumns, len(cells), MinRecordColumns)
	}
	return NewMainLine(GroupID(cells[ColGroup]), cells[ColSuperProperty], cells[ColProperty], cells[ColType],
		Cell(cells, ColDomain), Cell(cells, ColNotes), Cell(cells, ColInfo), Cell(cells, ColShowOnSelect))
}

// VectorElems returns the elements declared with "elems=a:b:c" in the domain.
func (m MainLine) VectorElems() []string {
	return VectorElems(m.Domain)
}

// VectorElems extracts the vector elements from a domain.
func VectorElems(domain string) []string {
	for _, item := range strings.Split(domain, ",") {
		if elems, ok := strings.CutPrefix(strings.TrimSpace(item), "elems="); ok && len(elems) > 0 {
			return strings.Split(elems, ":")
		}
	}
	return nil
}

// Constraints parses the "key=value" items of a domain.
// Items without '=' are ignored.
func Constraints(domain string) map[string]string {
	constraints := map[string]string{}
	for _, item := range strings.Split(domain, ",") {
		key, value, found := strings.Cut(item, "=")
		if !found {
			continue
		}
		key = strings.TrimSpace(key)
		if _, dup := constraints[key]; !dup {
			constraints[key] = strings.TrimSpace(value)
		}
	}
	return constraints
}

// secondPart returns what follows the first sep, or s itself when sep is missing.
func secondPart(s, sep string) string {
	parts := strings.Split(s, sep)
	if len(parts) < 2 {
		return s
	}
	return parts[1]
}
