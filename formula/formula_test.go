package formula

import (
	"testing"

	"github.com/hesusruiz/tsv2smw/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func newScope(props ...string) *schema.Registry {
	r := schema.NewRegistry(1, nil)
	for _, p := range props {
		r.AddProperty(p)
	}
	return r
}

func TestExpression(t *testing.T) {
	tests := []struct {
		name string
		expr string
		want string
	}{
		{
			name: "query printouts",
			expr: "?x |?y#ISO, ?x=Number, ?y=Date",
			want: "?Number |?Date#ISO",
		},
		{
			name: "template parameters",
			expr: "{{#expr: @w / (@h * @h)}}, @w=weight, @h=height",
			want: "{{#expr: {{{Weight|}}} / ({{{Height|}}} * {{{Height|}}})}}",
		},
		{
			name: "link property path",
			expr: "{{#show: {{{Has Patient|}}} |?b}}, ?b=Has Patient.birth date",
			want: "{{#show: {{{Has Patient|}}} |?Has Patient.Birth date}}",
		},
		{
			name: "token boundaries",
			expr: "?x ?xy, ?x=Number",
			want: "?Number ?xy",
		},
		{
			name: "remaining parameters",
			expr: "{{#if: @Weight | yes }}",
			want: "{{#if: {{{Weight|}}} | yes }}",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := New(newScope("Number", "Date", "Weight", "Height", "Birth date"), "Has Patient", Warn, nil)
			got, err := c.Expression(tt.expr)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestCompileVariables(t *testing.T) {
	scope := newScope("Weight", "Height")
	c := New(scope, "Has Patient", Warn, nil)

	got, err := c.Compile("$bmi <- {{#expr: @w / (@h * @h)}}, @w=Weight, @h=Height;{{#expr: $bmi &gt; 25}}")
	require.NoError(t, err)
	assert.Equal(t, "{{#vardefine: bmi | {{#expr: {{{Weight|}}} / ({{{Height|}}} * {{{Height|}}})}} }}{{#expr: {{#var: bmi}} &gt; 25}}", got)
	assert.True(t, scope.HasVariable("bmi"))

	_, err = c.Compile("$bmi <- 1")
	assert.ErrorIs(t, err, schema.ErrDuplicateName)
}

func TestUnresolvedPolicy(t *testing.T) {
	core, logs := observer.New(zapcore.WarnLevel)
	c := New(newScope(), "Has Patient", Warn, zap.New(core).Sugar())

	got, err := c.Expression("?x, ?x=Missing")
	require.NoError(t, err)
	assert.Equal(t, "?Missing", got)
	assert.Equal(t, 1, logs.FilterField(zap.String("property", "Missing")).Len())

	strict := New(newScope(), "Has Patient", Fail, nil)
	_, err = strict.Expression("?x, ?x=Missing")
	assert.ErrorIs(t, err, schema.ErrUnresolvedReference)

	_, err = strict.Compile("{{#expr: $undefined + 1}}")
	assert.ErrorIs(t, err, schema.ErrUnresolvedReference)
}

func TestNormalizedComponents(t *testing.T) {
	tests := []struct {
		name   string
		expr   string
		want   string
		logged int
	}{
		{"invalid characters", "?x, ?x=Weight (kg)", "?Weight ⟮kg⟯", 1},
		{"link property path", "?x, ?x=Has Patient.dose/day", "?Has Patient.Dose⁄day", 1},
		{"valid name", "?x, ?x=weight", "?Weight", 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			core, logs := observer.New(zapcore.InfoLevel)
			c := New(newScope("Weight ⟮kg⟯", "Dose⁄day", "Weight"), "Has Patient", Warn, zap.New(core).Sugar())

			got, err := c.Expression(tt.expr)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.logged, logs.FilterMessage("invalid character in property name, modified").Len())
		})
	}
}

func TestParsePolicy(t *testing.T) {
	p, err := ParsePolicy("")
	require.NoError(t, err)
	assert.Equal(t, Warn, p)

	p, err = ParsePolicy("FAIL")
	require.NoError(t, err)
	assert.Equal(t, Fail, p)

	_, err = ParsePolicy("maybe")
	assert.Error(t, err)
}
