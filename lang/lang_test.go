package lang

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	tests := []struct {
		name string
		code string
		want string
	}{
		{"empty defaults to English", "", "en"},
		{"English", "en", "en"},
		{"Italian", "it", "it"},
		{"regional Italian", "it-IT", "it"},
		{"unsupported falls back", "ja", "en"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l, err := New(tt.code)
			require.NoError(t, err)
			assert.Equal(t, tt.want, l.Language())
		})
	}
}

func TestNewInvalidCode(t *testing.T) {
	_, err := New("not a language tag")
	assert.Error(t, err)
}

func TestGet(t *testing.T) {
	en, err := New("en")
	require.NoError(t, err)
	it, err := New("it")
	require.NoError(t, err)

	assert.Equal(t, "Has", en.Get("Has"))
	assert.Equal(t, "Ha", it.Get("Has"))
	assert.Equal(t, "Form:Timeline", en.Get("TimeLineForm"))
	assert.Equal(t, "NoSuchKey", it.Get("NoSuchKey"))
}

func TestGetFallsBackToEnglish(t *testing.T) {
	src := "en:\n  Has: Has\n  Maps: Maps\nit:\n  Has: Ha\n"
	l, err := NewFromYAML("it", src)
	require.NoError(t, err)

	assert.Equal(t, "Ha", l.Get("Has"))
	assert.Equal(t, "Maps", l.Get("Maps"))
}

func TestFormat(t *testing.T) {
	en, err := New("en")
	require.NoError(t, err)
	it, err := New("it")
	require.NoError(t, err)

	assert.Equal(t, "Add Visit", en.Format("AddButton", "Visit"))
	assert.Equal(t, "Aggiungi Visita", it.Format("AddButton", "Visita"))
}
