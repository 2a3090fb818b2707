package schema

// GroupID identifies a group of fields inside a section.
// Groups are rendered as tabs, in first-seen order.
type GroupID string

func (g GroupID) String() string { return string(g) }

// SectionID identifies a section of a template or form.
type SectionID string

func (s SectionID) String() string { return string(s) }

// MainSection is the implicit section used before the first Section marker
// and as the only section of a subpage.
const MainSection SectionID = "MAIN"

// UserID is the key of the page owning a row in a data file.
type UserID string

func (u UserID) String() string { return string(u) }
