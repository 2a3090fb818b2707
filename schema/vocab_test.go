package schema

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInputTypeTable(t *testing.T) {
	for _, e := range inputTypes {
		byKeyword, err := ParseInputType(e.keyword)
		require.NoError(t, err)
		assert.Equal(t, e.typ, byKeyword)

		byLabel, err := ParseInputType(e.label)
		require.NoError(t, err)
		assert.Equal(t, e.typ, byLabel)

		assert.Equal(t, e.keyword, e.typ.String())
		assert.Equal(t, e.label, e.typ.Label())
	}
}

func TestParseInputType(t *testing.T) {
	tests := []struct {
		name    string
		text    string
		want    InputType
		wantErr bool
	}{
		{name: "keyword", text: "Tree", want: TypeTree},
		{name: "platform label", text: "Hierarchy", want: TypeTree},
		{name: "surrounding spaces", text: " Date ", want: TypeDate},
		{name: "coordinates label", text: "Geographic coordinates", want: TypeCoordinates},
		{name: "unknown", text: "Colour", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseInputType(tt.text)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrUnknownType)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseOptions(t *testing.T) {
	opts, err := ParseOptions("Mandatory, Exclusive,,Vector")
	require.NoError(t, err)
	assert.True(t, opts.Has(OptMandatory))
	assert.True(t, opts.Has(OptExclusive))
	assert.True(t, opts.Has(OptVector))
	assert.False(t, opts.Has(OptHidden))
	assert.Equal(t, "Mandatory,Exclusive,Vector", opts.String())
	assert.False(t, opts.Without(OptVector).Has(OptVector))

	_, err = ParseOptions("Mandatory,Sometimes")
	assert.ErrorIs(t, err, ErrUnknownOption)

	empty, err := ParseOptions("")
	require.NoError(t, err)
	assert.Empty(t, empty.List())
}
