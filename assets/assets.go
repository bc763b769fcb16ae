// Package assets embeds the default codon table shipped with the binary.
package assets

import _ "embed"

// CodonsJSON is the built-in codon answer table.
//
//go:embed data/codons.json
var CodonsJSON []byte
