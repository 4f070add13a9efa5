package output

import (
	"encoding/json"
	"io"
)

// JSONFormatter writes data as JSON, indented unless Compact is set.
// Server payloads are printed as received, so HTML characters in phrases
// and URLs are not escaped.
type JSONFormatter struct {
	Compact bool
}

// Format implements Formatter.
func (f *JSONFormatter) Format(w io.Writer, data any) error {
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	if !f.Compact {
		enc.SetIndent("", "  ")
	}
	return enc.Encode(data)
}
