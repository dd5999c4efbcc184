package cli

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/theirongolddev/smartbudget/internal/model"

	"gopkg.in/yaml.v3"
)

// Output formats.
const (
	FormatTable = "table"
	FormatJSON  = "json"
	FormatYAML  = "yaml"
)

// Envelope is the machine-readable shape of one analyze run.
type Envelope struct {
	Source string       `json:"source,omitempty" yaml:"source,omitempty"`
	Budget float64      `json:"budget" yaml:"budget"`
	Result model.Result `json:"result" yaml:"result"`
}

// WriteEncoded writes v as indented JSON or YAML.
func WriteEncoded(w io.Writer, format string, v any) error {
	switch format {
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if err := enc.Encode(v); err != nil {
			return fmt.Errorf("encoding json: %w", err)
		}
		return nil
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return fmt.Errorf("encoding yaml: %w", err)
		}
		return enc.Close()
	default:
		return fmt.Errorf("unknown output format %q", format)
	}
}
