package wiki

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCategoryRender(t *testing.T) {
	env := testEnv(t, "en")
	fields := []TemplateField{
		mustField(t, mustLine(t, "Sex", "Option", "M,F", "Exclusive", ""), nil),
		mustField(t, mustLine(t, "Weight (kg)", "Number", "", "", ""), nil),
		mustField(t, mustLine(t, "Name", "Text", "", "", ""), nil),
		mustField(t, mustLine(t, "Therapies", "Repeated", "", "", ""), nil),
	}

	out, err := NewCategory(30, "Patients", "", "Registry|{{{parent|}}}", "Patient", fields, false).Render(env)
	require.NoError(t, err)
	assert.Contains(t, out, "<title>Category:Patients</title>")
	assert.Contains(t, out, "{{#default_form:Patient}}")
	assert.Contains(t, out, "{{#drilldowninfo:filters=\n"+
		"  Sex (property=Sex, group=General),\n"+
		"  Weight - kg (property=Weight ⟮kg⟯, group=General)\n"+
		"  |title=Explore data\n"+
		"  |printouts=Sex;Weight ⟮kg⟯;Name\n}}\n")
	assert.Contains(t, out, "[[Category:Registry]]")
	assert.NotContains(t, out, "[[Category:{{{parent|}}}]]")
	assert.NotContains(t, out, "Is property group")

	group, err := NewCategory(31, "Group_Vitals", "", "", "", nil, true).Render(env)
	require.NoError(t, err)
	assert.Contains(t, group, "{{#set: Is property group=true}}")
	assert.NotContains(t, group, "drilldowninfo")
}

func TestCategoryParents(t *testing.T) {
	c := NewCategory(1, "Drugs", "", "", "", nil, false)
	assert.Empty(t, c.Parents)
	c = NewCategory(1, "Drugs", "", "A|B", "", nil, false)
	assert.Equal(t, []string{"A", "B"}, c.Parents)
}
