package schema

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func line(group, prop string) MainLine {
	return MainLine{Group: GroupID(group), Prop: prop, Label: prop}
}

func TestSectionsOrder(t *testing.T) {
	s := NewSections()
	s.Add("Second", line("Z", "p1"))
	s.Add("First", line("B", "p2"))
	s.Add("Second", line("A", "p3"))
	s.Add("Second", line("Z", "p4"))

	var got []string
	for _, sec := range s.All() {
		for _, g := range sec.Groups {
			got = append(got, string(sec.ID)+"/"+string(g.ID))
		}
	}
	assert.Equal(t, []string{"Second/Z", "Second/A", "First/B"}, got)

	var props []string
	for _, l := range s.Lines() {
		props = append(props, l.Prop)
	}
	assert.Equal(t, []string{"p1", "p4", "p3", "p2"}, props)
}

func TestSectionsClone(t *testing.T) {
	s := NewSections()
	s.Add(MainSection, line("G", "p1"))
	c := s.Clone()
	s.Add(MainSection, line("G", "p2"))
	s.Clear()

	assert.Equal(t, 0, s.Len())
	assert.Equal(t, 1, c.Len())
	assert.Len(t, c.Lines(), 1)
	assert.True(t, c.Has(MainSection))
}
