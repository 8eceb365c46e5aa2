package ir

import (
	"strings"

	"golang.org/x/text/unicode/norm"
)

// NormalizeIdent returns the canonical form of a field identifier.
//
// Schemas and snapshots may be authored in different editors, and the
// same visible identifier can arrive in different Unicode compositions
// (e.g. "é" as one codepoint or as "e" + combining accent). All field
// identifiers are NFC-normalized at the boundary so lookups, dependency
// edges, and ordering tie-breaks agree on a single spelling.
func NormalizeIdent(name string) string {
	return norm.NFC.String(strings.TrimSpace(name))
}

// NormalizeSnapshot returns a copy of the snapshot with every key in
// canonical form. The input map is not modified.
func NormalizeSnapshot(snap map[string]Value) map[string]Value {
	out := make(map[string]Value, len(snap))
	for k, v := range snap {
		out[NormalizeIdent(k)] = v
	}
	return out
}
