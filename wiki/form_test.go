package wiki

import (
	"strings"
	"testing"

	"github.com/hesusruiz/tsv2smw/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormRender(t *testing.T) {
	env := testEnv(t, "en")
	sections := schema.NewSections()
	for _, l := range []schema.MainLine{
		mustLine(t, "Name", "Text", "", "", ""),
		mustLine(t, "Smoker", "Boolean", "", "", "=&gt;smoke"),
		mustLine(t, "Packs", "Number", "", "", "smoke"),
		mustLine(t, "Notes", "Text", "", "Extended", ""),
		mustLine(t, "BMI", "Number", "x", "Computed", ""),
	} {
		sections.Add(schema.MainSection, l)
	}
	core := NewCoreForm("Therapy", []schema.MainLine{mustLine(t, "Drug", "Text", "", "", "")}, "Patient")

	out, err := NewForm(20, "Patient", "welcome", sections, "Patient", []*CoreForm{core}, "Notes", "Patients", "", "").Render(env)
	require.NoError(t, err)

	assert.Contains(t, out, "<title>Form:Patient</title>")
	assert.Contains(t, out, "{{#forminput:form=Patient|autocomplete on category=Patients}}")
	assert.Contains(t, out, "{{{info|page name=Patient &lt;unique number;start=00001&gt;}}}")
	assert.Contains(t, out, "{{{field|Patient|input type=text|property=Patient ID|class=identifier}}}")
	assert.Contains(t, out, "   &lt;div id=\"smoke\"&gt;\n{| class=\"formtable\"")
	assert.NotContains(t, out, "{{{field|BMI")
	assert.NotContains(t, out, "==MAIN==")
	assert.Contains(t, out, "{{{for template|Therapy|multiple|add button text=Add Therapy|embed in field=Patient[Therapy]}}}")
	assert.Contains(t, out, "&#39;&#39;&#39;Notes:&#39;&#39;&#39;")

	div := strings.Index(out, "&lt;div id=\"smoke\"&gt;")
	packs := strings.Index(out, "{{{field|Packs")
	closing := strings.Index(out, "    &lt;/div&gt;\n")
	notes := strings.Index(out, "{{{field|Notes")
	assert.True(t, div < packs && packs < closing && closing < notes)
}

func TestSubpageFormRender(t *testing.T) {
	env := testEnv(t, "en")
	sections := schema.NewSections()
	sections.Add(schema.MainSection, mustLine(t, "Date", "Date", "", "", ""))
	sections.Add("Exams", mustLine(t, "Glucose", "Number", "", "", ""))

	out, err := NewForm(21, "Visit", "", sections, "Visit", nil, "Notes", "Visits", "Has Patient", "Patients").Render(env)
	require.NoError(t, err)

	assert.Contains(t, out, "  {{{field|Has Patient|input type=combobox|property=Has Patient|readonly|values from category=Patients}}}")
	assert.Contains(t, out, "{{{info|page name=Visit &lt;unique number;start=00001&gt; - &lt;Visit[Has Patient]&gt;}}}")
	assert.NotContains(t, out, "class=identifier")
	assert.Contains(t, out, "&lt;div id=\"sec-Exams\"&gt;\n\n\n==Exams==\n\n&lt;tabber&gt;")
}

func TestSimpleFormRender(t *testing.T) {
	env := testEnv(t, "en")
	fields := []schema.MainLine{
		mustLine(t, "Latitude", "Number", "", "", ""),
		mustLine(t, "Score", "Number", "", "Module", ""),
	}
	out, err := NewSimpleForm(22, "Hospital", "msg", "Insert a hospital", fields, "Hospital").Render(env)
	require.NoError(t, err)
	assert.Contains(t, out, "<title>Form:Hospital</title>")
	assert.Contains(t, out, "Insert a hospital\n{{{for template|Hospital}}}\n{| class=\"formtable\"")
	assert.Contains(t, out, "{{{field|Latitude|input type=number|property=Latitude|step=any}}}")
	assert.NotContains(t, out, "Score")
	assert.Contains(t, out, "|}\n{{{end template}}}")
}
