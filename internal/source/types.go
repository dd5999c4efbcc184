package source

import (
	"errors"
	"path/filepath"
	"strings"

	"github.com/theirongolddev/smartbudget/internal/model"
)

// Format is the encoding of an input document.
type Format string

// Supported input encodings.
const (
	FormatJSON  Format = "json"
	FormatJSONL Format = "jsonl"
	FormatYAML  Format = "yaml"
	FormatTOML  Format = "toml"
)

var (
	// ErrUnsupportedFormat is returned for files with an unrecognized extension.
	ErrUnsupportedFormat = errors.New("unsupported input format")
	// ErrMissingBudget is returned when a document has no budget key.
	ErrMissingBudget = errors.New("missing budget")
	// ErrNegativeBudget is returned when a document's budget is below zero.
	ErrNegativeBudget = errors.New("budget must be >= 0")
)

// FormatFor picks the decoder for path by extension.
func FormatFor(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return FormatJSON, nil
	case ".jsonl", ".ndjson":
		return FormatJSONL, nil
	case ".yaml", ".yml":
		return FormatYAML, nil
	case ".toml":
		return FormatTOML, nil
	default:
		return "", ErrUnsupportedFormat
	}
}

// rawRequest mirrors model.Request with a nullable budget so a missing key
// can be told apart from a zero budget.
type rawRequest struct {
	Budget   *float64           `json:"budget" yaml:"budget" toml:"budget"`
	Expenses map[string]float64 `json:"expenses" yaml:"expenses" toml:"expenses"`
}

func (r rawRequest) request() (model.Request, error) {
	if r.Budget == nil {
		return model.Request{}, ErrMissingBudget
	}
	if *r.Budget < 0 {
		return model.Request{}, ErrNegativeBudget
	}
	exp := make(model.ExpenseMap, len(r.Expenses))
	for k, v := range r.Expenses {
		exp[model.Category(k)] = v
	}
	return model.Request{Budget: *r.Budget, Expenses: exp}, nil
}

// Document is one request read from disk. Line is 1-based for JSONL input and 0 otherwise.
type Document struct {
	Path    string
	Line    int
	Request model.Request
}

// DiscoveredFile is an input document found during directory scanning.
type DiscoveredFile struct {
	Path   string
	Name   string // path relative to the scanned directory
	Format Format
}
