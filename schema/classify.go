package schema

import "strings"

// Mode is the state of the schema parser.
type Mode int

const (
	ModeStart Mode = iota
	ModeCategory
	ModeList
	ModeSubpage
	ModeMain
)

var modeNames = [...]string{"START", "CATEGORY", "LIST", "SUBPAGE", "MAIN"}

func (m Mode) String() string {
	if int(m) < 0 || int(m) >= len(modeNames) {
		return "UNKNOWN"
	}
	return modeNames[m]
}

// LineKind is the classification of a schema line.
type LineKind int

const (
	Blank LineKind = iota
	GroupComment
	LinkMarker
	NoteMarker
	ListStart
	CategoryStart
	SubpageStart
	SectionStart
	Record
)

var kindNames = [...]string{"Blank", "GroupComment", "LinkMarker", "NoteMarker", "ListStart",
	"CategoryStart", "SubpageStart", "SectionStart", "Record"}

func (k LineKind) String() string {
	if int(k) < 0 || int(k) >= len(kindNames) {
		return "Unknown"
	}
	return kindNames[k]
}

// Marker prefixes of the first cell.
var (
	listPrefixes    = []string{"List:", "Elenco:", "Repeated:"}
	categoryPrefix  = "Category:"
	subpagePrefix   = "Subpage:"
	sectionPrefix   = "Section:"
	groupHeader     = "Group"
	linkMarkerStart = "-"
	noteType        = "Note"
)

// Classify returns the kind of a line given its cells and the current mode.
// Inside a Category block only a cell equal to "Group" is a header comment,
// so that category names starting with that word are still records.
func Classify(cells []string, mode Mode) LineKind {
	if len(strings.TrimSpace(strings.Join(cells, ""))) == 0 {
		return Blank
	}

	first := Cell(cells, 0)
	if first == groupHeader || (mode != ModeCategory && strings.HasPrefix(first, groupHeader)) {
		return GroupComment
	}
	if strings.HasPrefix(first, linkMarkerStart) {
		return LinkMarker
	}
	if len(cells) > ColType && cells[ColType] == noteType {
		return NoteMarker
	}

	for _, p := range listPrefixes {
		if strings.HasPrefix(first, p) {
			return ListStart
		}
	}
	switch {
	case strings.HasPrefix(first, categoryPrefix):
		return CategoryStart
	case strings.HasPrefix(first, subpagePrefix):
		return SubpageStart
	case strings.HasPrefix(first, sectionPrefix):
		return SectionStart
	}

	return Record
}

// MarkerArgument returns what follows the marker prefix of the first cell.
func MarkerArgument(cell string) string {
	_, arg, found := strings.Cut(cell, ":")
	if !found {
		return ""
	}
	return arg
}
