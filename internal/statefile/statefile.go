// Package statefile loads and writes the plain documents the freedux CLI
// operates on, from local files or S3 objects. Documents decode to
// map[string]any, []any and scalars so that every path into them is
// reachable by the store engine.
package statefile

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/vango-dev/freedux/internal/errors"
)

// Format is a document encoding.
type Format int

const (
	JSON Format = iota
	YAML
)

func (f Format) String() string {
	if f == YAML {
		return "yaml"
	}
	return "json"
}

// FormatOf picks a format from the file extension. Unknown extensions are
// treated as JSON.
func FormatOf(name string) Format {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".yaml", ".yml":
		return YAML
	}
	return JSON
}

// Load reads and decodes the document at path.
func Load(path string) (any, error) {
	return LoadSource(context.Background(), fileSource{path: path})
}

// Decode parses data in the given format.
func Decode(data []byte, format Format) (any, error) {
	var doc any
	switch format {
	case YAML:
		if err := yaml.Unmarshal(data, &doc); err != nil {
			return nil, errors.New(errors.CodeStateFile).
				WithDetail("Invalid YAML: " + err.Error())
		}
		normalized, err := normalize(doc)
		if err != nil {
			return nil, err
		}
		return normalized, nil
	default:
		dec := json.NewDecoder(bytes.NewReader(data))
		dec.UseNumber()
		if err := dec.Decode(&doc); err != nil {
			return nil, errors.New(errors.CodeStateFile).
				WithDetail("Invalid JSON: " + err.Error())
		}
		if _, err := dec.Token(); err != io.EOF {
			return nil, errors.New(errors.CodeStateFile).
				WithDetail("Invalid JSON: unexpected data after the top-level value")
		}
		return numbers(doc), nil
	}
}

// DecodeValue parses a single value given on the command line. Input that is
// not valid in the format is taken as a plain string.
func DecodeValue(text string, format Format) any {
	v, err := Decode([]byte(text), format)
	if err != nil {
		return text
	}
	return v
}

// Encode renders doc in the given format.
func Encode(doc any, format Format) ([]byte, error) {
	if format == YAML {
		var buf bytes.Buffer
		enc := yaml.NewEncoder(&buf)
		enc.SetIndent(2)
		if err := enc.Encode(doc); err != nil {
			return nil, errors.New(errors.CodeStateFile).Wrap(err)
		}
		if err := enc.Close(); err != nil {
			return nil, errors.New(errors.CodeStateFile).Wrap(err)
		}
		return buf.Bytes(), nil
	}
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return nil, errors.New(errors.CodeStateFile).Wrap(err)
	}
	return append(data, '\n'), nil
}

// numbers turns json.Number into int64 where exact, float64 otherwise.
func numbers(v any) any {
	switch x := v.(type) {
	case map[string]any:
		for k, e := range x {
			x[k] = numbers(e)
		}
	case []any:
		for i, e := range x {
			x[i] = numbers(e)
		}
	case json.Number:
		if n, err := x.Int64(); err == nil {
			return n
		}
		if f, err := x.Float64(); err == nil {
			return f
		}
		return x.String()
	}
	return v
}

// normalize converts YAML mappings to map[string]any and integers to int64
// so JSON and YAML documents share one shape.
func normalize(v any) (any, error) {
	switch x := v.(type) {
	case map[string]any:
		for k, e := range x {
			n, err := normalize(e)
			if err != nil {
				return nil, err
			}
			x[k] = n
		}
		return x, nil
	case map[any]any:
		out := make(map[string]any, len(x))
		for k, e := range x {
			n, err := normalize(e)
			if err != nil {
				return nil, err
			}
			out[fmt.Sprint(k)] = n
		}
		return out, nil
	case []any:
		for i, e := range x {
			n, err := normalize(e)
			if err != nil {
				return nil, err
			}
			x[i] = n
		}
		return x, nil
	case int:
		return int64(x), nil
	}
	return v, nil
}
