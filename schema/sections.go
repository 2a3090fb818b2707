package schema

// Group is an ordered list of records sharing a GroupID.
type Group struct {
	ID    GroupID
	Lines []MainLine
}

// Section is an ordered list of groups.
type Section struct {
	ID     SectionID
	Groups []*Group
	index  map[GroupID]int
}

// Group returns the group with the given id, creating it at the end when missing.
func (s *Section) Group(id GroupID) *Group {
	if i, ok := s.index[id]; ok {
		return s.Groups[i]
	}
	g := &Group{ID: id}
	s.index[id] = len(s.Groups)
	s.Groups = append(s.Groups, g)
	return g
}

// Sections maps sections to groups to records, preserving insertion order at
// both levels. Templates and forms walk the same Sections so that fields are
// rendered in the same order in both.
type Sections struct {
	list  []*Section
	index map[SectionID]int
}

func NewSections() *Sections {
	return &Sections{index: map[SectionID]int{}}
}

// Section returns the section with the given id, creating it at the end when missing.
func (s *Sections) Section(id SectionID) *Section {
	if i, ok := s.index[id]; ok {
		return s.list[i]
	}
	sec := &Section{ID: id, index: map[GroupID]int{}}
	s.index[id] = len(s.list)
	s.list = append(s.list, sec)
	return sec
}

// Has reports whether the section exists.
func (s *Sections) Has(id SectionID) bool {
	_, ok := s.index[id]
	return ok
}

// Add appends a record to a group of a section.
func (s *Sections) Add(sec SectionID, line MainLine) {
	g := s.Section(sec).Group(line.Group)
	g.Lines = append(g.Lines, line)
}

// All returns the sections in insertion order.
func (s *Sections) All() []*Section {
	return s.list
}

func (s *Sections) Len() int {
	return len(s.list)
}

// Lines returns every record in section and group order.
func (s *Sections) Lines() []MainLine {
	var lines []MainLine
	for _, sec := range s.list {
		for _, g := range sec.Groups {
			lines = append(lines, g.Lines...)
		}
	}
	return lines
}

// Clear removes all sections.
func (s *Sections) Clear() {
	s.list = nil
	s.index = map[SectionID]int{}
}

// Clone returns a deep copy.
func (s *Sections) Clone() *Sections {
	c := NewSections()
	for _, sec := range s.list {
		cs := c.Section(sec.ID)
		for _, g := range sec.Groups {
			cg := cs.Group(g.ID)
			cg.Lines = append([]MainLine(nil), g.Lines...)
		}
	}
	return c
}
