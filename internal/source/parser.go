// Package source reads budget requests from JSON, JSONL, YAML and TOML documents.
package source

import (
	"bufio"
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/theirongolddev/smartbudget/internal/model"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"
)

// ReadFile decodes a single-request document. JSONL files must hold exactly one request.
// Category keys are kept verbatim; the evaluator decides whether they are known.
func ReadFile(path string) (model.Request, error) {
	docs, err := ReadDocuments(path)
	if err != nil {
		return model.Request{}, err
	}
	if len(docs) != 1 {
		return model.Request{}, fmt.Errorf("%s: expected 1 request, found %d", path, len(docs))
	}
	return docs[0].Request, nil
}

// ReadDocuments decodes every request in path.
func ReadDocuments(path string) ([]Document, error) {
	format, err := FormatFor(path)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer func() { _ = f.Close() }()

	if format == FormatJSONL {
		return ParseLines(f, path)
	}

	req, err := Decode(f, format)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return []Document{{Path: path, Request: req}}, nil
}

var errTrailingData = errors.New("unexpected data after request")

// Decode reads one request in the given format. Unknown top-level keys are rejected.
func Decode(r io.Reader, format Format) (model.Request, error) {
	var raw rawRequest

	switch format {
	case FormatJSON, FormatJSONL:
		dec := json.NewDecoder(r)
		dec.DisallowUnknownFields()
		if err := dec.Decode(&raw); err != nil {
			return model.Request{}, fmt.Errorf("decoding json: %w", err)
		}
		var extra json.RawMessage
		if err := dec.Decode(&extra); err != io.EOF {
			if err == nil {
				err = errTrailingData
			}
			return model.Request{}, fmt.Errorf("decoding json: %w", err)
		}
	case FormatYAML:
		dec := yaml.NewDecoder(r)
		dec.KnownFields(true)
		if err := dec.Decode(&raw); err != nil {
			if err == io.EOF {
				return model.Request{}, ErrMissingBudget
			}
			return model.Request{}, fmt.Errorf("decoding yaml: %w", err)
		}
	case FormatTOML:
		md, err := toml.NewDecoder(r).Decode(&raw)
		if err != nil {
			return model.Request{}, fmt.Errorf("decoding toml: %w", err)
		}
		if undecoded := md.Undecoded(); len(undecoded) > 0 {
			return model.Request{}, fmt.Errorf("decoding toml: unknown key %q", undecoded[0].String())
		}
	default:
		return model.Request{}, ErrUnsupportedFormat
	}

	return raw.request()
}

// ParseLines reads one JSON request per line. Blank lines and lines starting
// with '#' are skipped. The first bad line aborts with its line number.
func ParseLines(r io.Reader, path string) ([]Document, error) {
	var docs []Document

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := bytes.TrimSpace(scanner.Bytes())
		if len(line) == 0 || line[0] == '#' {
			continue
		}

		req, err := Decode(bytes.NewReader(line), FormatJSONL)
		if err != nil {
			return nil, fmt.Errorf("%s:%d: %w", path, lineNo, err)
		}
		docs = append(docs, Document{Path: path, Line: lineNo, Request: req})
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return docs, nil
}

// Label identifies a document in reports, e.g. "march.yaml" or "all.jsonl:3".
func (d Document) Label() string {
	name := d.Path
	if i := strings.LastIndexAny(name, `/\`); i >= 0 {
		name = name[i+1:]
	}
	if d.Line > 0 {
		return fmt.Sprintf("%s:%d", name, d.Line)
	}
	return name
}
