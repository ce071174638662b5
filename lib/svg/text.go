// Package svg has shared helpers for writing SVG documents.
package svg

import (
	"bytes"
	"encoding/xml"
)

// EscapeText escapes text for embedding in element content or an
// attribute value.
func EscapeText(text string) string {
	buf := new(bytes.Buffer)
	_ = xml.EscapeText(buf, []byte(text))
	return buf.String()
}
