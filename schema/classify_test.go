package schema

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name  string
		cells []string
		mode  Mode
		want  LineKind
	}{
		{name: "empty", cells: []string{""}, mode: ModeMain, want: Blank},
		{name: "only tabs and spaces", cells: []string{" ", "", " "}, mode: ModeList, want: Blank},
		{name: "header", cells: []string{"Group", "Super", "Property", "Type"}, mode: ModeStart, want: GroupComment},
		{name: "header prefix", cells: []string{"Groups", "x"}, mode: ModeMain, want: GroupComment},
		{name: "category named like header", cells: []string{"Groupware", "Software"}, mode: ModeCategory, want: Record},
		{name: "link marker", cells: []string{"-", "", "Has Owner"}, mode: ModeMain, want: LinkMarker},
		{name: "note", cells: []string{"", "", "Remarks", "Note"}, mode: ModeMain, want: NoteMarker},
		{name: "list", cells: []string{"List:Drugs"}, mode: ModeStart, want: ListStart},
		{name: "elenco", cells: []string{"Elenco:Farmaci"}, mode: ModeStart, want: ListStart},
		{name: "category", cells: []string{"Category:Towns|Home", "Parent:Places"}, mode: ModeStart, want: CategoryStart},
		{name: "subpage", cells: []string{"Subpage:Visit/Visits"}, mode: ModeMain, want: SubpageStart},
		{name: "section", cells: []string{"Section:Anamnesis"}, mode: ModeList, want: SectionStart},
		{name: "record", cells: []string{"General", "", "Name", "Text"}, mode: ModeMain, want: Record},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Classify(tt.cells, tt.mode))
		})
	}
}

func TestMarkerArgument(t *testing.T) {
	assert.Equal(t, "Visit/Visits", MarkerArgument("Subpage:Visit/Visits"))
	assert.Equal(t, "", MarkerArgument("Section"))
}
