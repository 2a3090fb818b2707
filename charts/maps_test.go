package charts

import (
	"testing"

	"github.com/hesusruiz/tsv2smw/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMapCode(t *testing.T) {
	tests := []struct {
		name      string
		layer     string
		clickable bool
		has       []string
		hasNot    []string
	}{
		{"default", DefaultLayer, false, []string{" |?Position\n |format=leaflet\n"}, []string{"|layers=", "clustermaxzoom", "copycoords"}},
		{"empty layer", "", true, []string{" |copycoords=1\n"}, []string{"|layers="}},
		{"overlay", "Anatomy", false, []string{" |clustermaxzoom=1\n |markercluster=on\n |layers=Anatomy\n"}, []string{"copycoords"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := MapCode("Category:Places", []string{"Position"}, tt.layer, tt.clickable)
			assert.Contains(t, out, "\n{{#ask: [[Category:Places]]\n")
			for _, s := range tt.has {
				assert.Contains(t, out, s)
			}
			for _, s := range tt.hasNot {
				assert.NotContains(t, out, s)
			}
		})
	}
}

func TestListPagesInCat(t *testing.T) {
	assert.Empty(t, ListPagesInCat("Patients", "Patients"))
	assert.Empty(t, ListPagesInCat("Drugs", ""))
	assert.Equal(t, "\n\n{{#categorytree:{{PAGENAME}}|mode=all|showcount=on}}", ListPagesInCat("Drugs", "Patients"))
}

func TestMapPages(t *testing.T) {
	loc := english(t)

	t.Run("coordinates properties", func(t *testing.T) {
		pages, index := MapPages(loc, "Patients", []string{"Home", "Work"}, nil, schema.NewSections())
		require.Len(t, pages, 2)
		assert.Equal(t, "Map of Home", pages[0].Name)
		assert.Contains(t, pages[0].Text, "[[Category:Patients]]\n |?Home\n")
		assert.NotContains(t, pages[1].Text, "|?Home")
		assert.Equal(t, "\n==Available maps==\n\n* [[Map of Home]]\n\n* [[Map of Work]]\n\n", index)
	})

	t.Run("declared maps", func(t *testing.T) {
		m := Map{Category: "Cities", Property: "Cities", Fields: []string{"Birthplace.Position"}, Layer: DefaultLayer}
		pages, index := MapPages(loc, "Patients", []string{"Ignored"}, []Map{m}, schema.NewSections())
		require.Len(t, pages, 1)
		assert.Equal(t, "Category map Cities", pages[0].Name)
		assert.Contains(t, pages[0].Text, "|prop1_data=Birthplace\n")
		assert.Contains(t, pages[0].Text, "|plot=mapsSrvAPI|")
		assert.Contains(t, pages[0].Text, "<h2>Map of 'Birthplace'</h2>\n")
		assert.Contains(t, index, "* [[Category map Cities]]")
	})
}
