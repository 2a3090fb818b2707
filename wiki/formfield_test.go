package wiki

import (
	"testing"

	"github.com/hesusruiz/tsv2smw/schema"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestFormFieldRender(t *testing.T) {
	env := testEnv(t, "en")
	tests := []struct {
		name  string
		field FormField
		want  string
	}{
		{
			name:  "number with range",
			field: NewFormField("Prop 1", schema.TypeNumber, "prop 1", "min=1,max=10", schema.OptionsOf(schema.OptMandatory), "info 1", "Entry", ""),
			want: "    ! style=\"width: 30%\"| Prop 1* {{#info: info 1|note}}\n" +
				"    | style=\"width: 70%\"| {{{field|prop 1|input type=number|property=prop 1|mandatory|min=1|max=10|step=any}}}\n" +
				"    |-\n",
		},
		{
			name:  "exclusive option",
			field: NewFormField("Sex", schema.TypeOption, "Sex", "M,F", schema.OptionsOf(schema.OptMandatory, schema.OptExclusive), "", "", ""),
			want: "    ! style=\"width: 30%\"| Sex* \n" +
				"    | style=\"width: 70%\"| {{{field|Sex|input type=radiobutton|property=Sex|mandatory|values=M,F,N/D|default=None}}}\n" +
				"    |-\n",
		},
		{
			name:  "defined list",
			field: NewFormField("Drugs", schema.TypeList, "Drugs", "a,b", schema.OptionsOf(schema.OptDefined), "", "", ""),
			want: "    ! style=\"width: 30%\"| Drugs\n" +
				"    | style=\"width: 70%\"| {{{field|Drugs|input type=tokens|property=Drugs|values=a,b}}}\n" +
				"    |-\n",
		},
		{
			name:  "integer",
			field: NewFormField("Age", schema.TypeNumber, "Age", "", schema.OptionsOf(schema.OptInteger, schema.OptPositive), "", "", ""),
			want: "    ! style=\"width: 30%\"| Age\n" +
				"    | style=\"width: 70%\"| {{{field|Age|input type=number|min=0|property=Age}}}\n" +
				"    |-\n",
		},
		{
			name:  "checkbox declaring a key",
			field: NewFormField("Smoker", schema.TypeBoolean, "Smoker", "", 0, "", "=&gt;smoke", ""),
			want: "    ! style=\"width: 30%\"| Smoker\n" +
				"    | style=\"width: 70%\"| {{{field|Smoker|input type=checkbox|property=Smoker|show on select=smoke}}}\n" +
				"    |-\n",
		},
		{
			name:  "regex",
			field: NewFormField("Zip", schema.TypeRegex, "Zip", `Pattern=\d{5}`, 0, "", "", ""),
			want: "    ! style=\"width: 30%\"| Zip\n" +
				"    | style=\"width: 70%\"| {{{field|Zip|input type=regexp|property=Zip|regexp=/\\d{5}/}}}\n" +
				"    |-\n",
		},
		{
			name:  "vector",
			field: NewFormField("BP", schema.TypeVector, "BP", "elems=sys:dia", 0, "", "", ""),
			want: "    ! style=\"width: 30%\"| BP\n" +
				"      | &lt;span class='vect' id='vect-BP'&gt;\n" +
				"         {{{field|BP sys|input type=number|title=sys|property=BP sys|step=any|class=s4}}}\n" +
				"         {{{field|BP dia|input type=number|title=dia|property=BP dia|step=any|class=s4}}}\n" +
				"      &lt;/span&gt;\n" +
				"    |-\n",
		},
		{
			name:  "subpage",
			field: NewFormField("Visits", schema.TypeSubpage, "Visits", "Subpage:Visit/Visits", schema.OptionsOf(schema.OptSubpages), "", "", "Patient"),
			want: "    ! style=\"width: 30%\"| Visits\n" +
				"    | style=\"width: 70%\"| {{#forminput:form=Visit|query string=Visit[Has Patient]={{PAGENAME}}|button text=Add Visits}}\n" +
				"    |-\n",
		},
		{
			name:  "repeated",
			field: NewFormField("Therapies", schema.TypeRepeated, "Therapies", "", schema.OptionsOf(schema.OptMultiple), "", "", ""),
			want: "    ! style=\"width: 30%\"| Therapies\n" +
				"    | style=\"width: 70%\"| {{{field|Therapies|holds template}}}\n" +
				"    |-\n",
		},
		{
			name:  "computed",
			field: NewFormField("BMI", schema.TypeNumber, "BMI", "div, @a=Weight", schema.OptionsOf(schema.OptComputed), "", "", ""),
			want:  "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.field.Render(env.Lang, zap.NewNop().Sugar()))
		})
	}
}

func TestFormFieldCategoryWithoutTokens(t *testing.T) {
	env := testEnv(t, "en")
	core, logs := observer.New(zapcore.WarnLevel)

	f := NewFormField("Hospital", schema.TypePage, "Hospital", "Category:Hospitals", 0, "", "", "")
	out := f.Render(env.Lang, zap.New(core).Sugar())

	assert.Contains(t, out, "{{{field|Hospital|input type=text|property=Hospital|values from category=Hospitals}}}")
	assert.Equal(t, 1, logs.FilterMessage("choice from category without a tokens control").Len())
}
