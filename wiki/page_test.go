package wiki

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestManageNA(t *testing.T) {
	tests := []struct {
		value     string
		mandatory bool
		fill      bool
		want      string
	}{
		{"_", true, true, ""},
		{"", true, true, NA},
		{"", true, false, ""},
		{"", false, true, ""},
		{"12", true, true, "12"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, ManageNA(tt.value, tt.mandatory, tt.fill))
	}
}

func TestPageAdd(t *testing.T) {
	env := testEnv(t, "en")
	p := NewPage(40, "Rossi/Mario", "", []ParamField{
		{Name: "ID", Value: "Rossi/Mario"},
		{Name: "Age", Options: HeaderOptions{Mandatory: true}, Value: ""},
	}, "Patient", nil, "Patients|Adults")
	p.FillNA = true

	before, err := p.Render(env)
	require.NoError(t, err)

	p.Add([]ParamField{{Name: "Hospital", Options: HeaderOptions{Normalize: true}, Value: "St. Mary"}}, []TemplateCall{
		{ID: "1", Template: "Therapy", IsList: true, Fields: []ParamField{{Name: "ID", Value: "1"}, {Name: "Drug", Value: "aspirin"}}},
		{ID: "2", Template: "Therapy", IsList: true, Fields: []ParamField{{Name: "Drug", Value: "insulin"}}},
	})
	after, err := p.Render(env)
	require.NoError(t, err)

	assert.NotContains(t, before, "Hospital")
	assert.Contains(t, after, "<title>Rossi⁄Mario</title>")
	assert.Contains(t, after, "{{Patient\n  | ID = Rossi/Mario\n  | Age = N/D\n  | Hospital = St· Mary\n  | Therapy = aspirin, insulin\n}}")
	assert.Contains(t, after, "{{#if: Patients | [[Category:Patients]] |}}\n{{#if: Adults | [[Category:Adults]] |}}\n")
	assert.Contains(t, after, "<username>WikiSysop</username>")
	assert.Equal(t, []string{"ID", "Age", "Hospital"}, p.Headers())
}

func TestPageAuthor(t *testing.T) {
	env := testEnv(t, "en")
	p := NewPage(41, "Patient 00001", "", nil, "Patient", []TemplateCall{
		{Template: "Visit", Fields: []ParamField{{Name: "Weight", Value: "70"}}},
	}, "")
	p.UserID, p.UserName = 7, "Dr House"

	out, err := p.Render(env)
	require.NoError(t, err)
	assert.Contains(t, out, "<title>Patient 00001</title>")
	assert.Contains(t, out, "<username>Dr House</username>")
	assert.Contains(t, out, "<id>7</id>")
	assert.Contains(t, out, "  | Visit = \n    {{Visit\n      | Weight = 70\n    }}\n")
}

func TestTemplateCallString(t *testing.T) {
	c := TemplateCall{Template: "Hospital", Fields: []ParamField{
		{Name: "ID", Value: "x"},
		{Name: "Latitude", Value: "45.1"},
		{Name: "Longitude", Value: "9.2"},
	}}
	assert.Equal(t, "\n    {{Hospital\n      | Latitude = 45.1\n      | Longitude = 9.2\n    }}", c.String())
	assert.Equal(t, "45.1, 9.2", c.Values())
}
