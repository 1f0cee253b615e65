// Package example keeps the bundled sample of the certificate metadata.
package example

import (
	_ "embed"
	"encoding/json"
)

//go:embed sample_metadata.json
var sample []byte

// Document returns the sample metadata.
// The returned bytes are a copy, the caller may modify them.
func Document() json.RawMessage {
	document := make(json.RawMessage, len(sample))
	copy(document, sample)
	return document
}
