package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewApp(t *testing.T) {
	app := newApp()
	assert.Equal(t, "tsv2smw", app.Name)
	assert.Empty(t, app.Authors)

	tests := []struct {
		command string
		flags   []string
	}{
		{"schema", []string{"cat-name", "strict", "diagram", "ft-name", "begin-id", "watch"}},
		{"data", []string{"users-file", "author-column", "wiki", "host", "watch"}},
	}
	for _, tt := range tests {
		t.Run(tt.command, func(t *testing.T) {
			cmd := app.Command(tt.command)
			require.NotNil(t, cmd)
			assert.NotNil(t, cmd.Action)

			var names []string
			for _, f := range cmd.Flags {
				names = append(names, f.Names()...)
			}
			for _, want := range tt.flags {
				assert.Contains(t, names, want)
			}
		})
	}
}
