package charts

import (
	"testing"

	"github.com/hesusruiz/tsv2smw/lang"
	"github.com/hesusruiz/tsv2smw/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func english(t *testing.T) *lang.Localizer {
	t.Helper()
	loc, err := lang.New("en")
	require.NoError(t, err)
	return loc
}

func line(t *testing.T, group, prop, typ, domain, options string) schema.MainLine {
	t.Helper()
	l, err := schema.NewMainLine(schema.GroupID(group), "", prop, typ, domain, options, "", "")
	require.NoError(t, err)
	return l
}

func testSections(t *testing.T) *schema.Sections {
	s := schema.NewSections()
	s.Add("Visit", line(t, "Anamnesis", "Weight", "Number", "", ""))
	s.Add("Visit", line(t, "Anamnesis", "Sex", "Option", "M,F", ""))
	s.Add("Visit", line(t, "Anamnesis", "Notes", "Text", "", ""))
	s.Add("Visit", line(t, "Exams", "Exam date", "Date", "", ""))
	s.Add("Visit", line(t, "Exams", "Photos", "Subpage", "Subpage:Photo/Photos", ""))
	s.Add("Follow up", line(t, "Therapy", "Drugs", "Tokens", "Category:Drugs", ""))
	s.Add("Follow up", line(t, "Therapy", "Height", "Number", "", ""))
	return s
}

func TestDataTable(t *testing.T) {
	s := schema.NewSections()
	s.Add("Visit", line(t, "Anamnesis", "Weight", "Number", "", ""))
	s.Add("Visit", line(t, "Hidden", "Secret", "Text", "", "Hidden"))

	want := "\n<div style=\"overflow-x: auto; white-space: nowrap;\">\n" +
		"\n==Visit==\n\n<tabber>\n\n" +
		"Anamnesis =\n{{#ask:\n    [[Category:Patients]]\n" +
		"      |?Weight = Weight\n" +
		"      |mainlabel=Patients\n      |format=table\n      |limit=25\n      |class=datatable\n  }}\n|-|\n" +
		"</tabber>\n\n" +
		"\n</div>"
	assert.Equal(t, want, DataTable("Patients", s))
}

func TestChartsPage(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	out := ChartsPage(english(t), "10.0.0.1", "Patients", testSections(t), zap.New(core).Sugar())

	tests := []struct {
		name string
		want string
	}{
		{"group heading", "\n==Anamnesis==\n"},
		{"number", "\n===Weight===\n{{#widget:Iframe|url=http://10.0.0.1:3838/bars/?title={{urlencode: Histogram of \"Weight\" }}" +
			"&data={{urlencode: {{#ask: [[Category:Patients]] |?Weight= |format=array|mainlabel=-|sep=,|headers=hide|hidegaps=all|limit=10000}} }}|width=800|height=400}}\n\n"},
		{"option", "3838/pies/?title={{urlencode: Chart of \"Sex\" }}"},
		{"date", "3838/timelinesSrvAPI/?title={{urlencode: Histogram of \"Exam date\" }}"},
		{"tokens", "|?Drugs= |format=array|mainlabel=-|sep=,|manysep=,|headers=hide"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Contains(t, out, tt.want)
		})
	}

	assert.NotContains(t, out, "===Notes===")
	assert.NotContains(t, out, "===Photos===")
	require.Equal(t, 1, logs.Len())
	assert.Equal(t, "Notes", logs.All()[0].ContextMap()["property"])
}

func TestBivariate(t *testing.T) {
	loc := english(t)
	s := testSections(t)

	tests := []struct {
		name string
		typ2 schema.InputType
		want string
	}{
		{"scatterplot", schema.TypeNumber, "{{#widget:ShinyPlotSrv |prop1_label=Property 1|prop1_data=Weight,Height\n" +
			"  |prop2_label=Property 2|prop2_data=Weight,Height\n" +
			"  |prop3_label=|prop3_data=\n" +
			"  |plot=scatterplotsSrvAPI|title=Correlation of the properties\n}}"},
		{"boxplot", schema.TypeOption, "{{#widget:ShinyPlotSrv |prop1_label=Property|prop1_data=Weight,Height\n" +
			"  |prop2_label=Class|prop2_data=Sex\n" +
			"  |prop3_label=|prop3_data=\n" +
			"  |plot=boxplotsSrvAPI|title=Distribution of the property\n}}"},
		{"unsupported", schema.TypeDate, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Bivariate(loc, s, schema.TypeNumber, tt.typ2))
		})
	}
}

func TestTimeline(t *testing.T) {
	page, form := Timeline(english(t), "Patients", testSections(t))

	assert.Equal(t, "{{#formlink:form=Timeline|link text=Change property|}}\n\n"+
		"{{#ask: [[Category:Patients]] |?{{{Chart of|}}}= |format=timeline |limit=10000|headers=hide|timelinesize=300px|timelineposition=middle|timelinebands=MONTH,YEAR,DECADE }}\n", page)
	assert.Contains(t, form, "{{{info|page name=Timeline}}}")
	assert.Contains(t, form, "'''Property''' {{{field|Property|input type=combobox|values=Exam date }}}")
}
