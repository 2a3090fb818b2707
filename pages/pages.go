// Package pages embeds the simple pages copied into every generated wiki.
//
// Files whose name contains "param" are instantiated with positional
// parameters ($1, $2, ...) by the compiler; the others are copied as they are.
// The root holds the English pages and each language directory holds the
// translated ones.
package pages

import "embed"

//go:embed *.md *.js it
var FS embed.FS
