// Package codec converts between the YAML configuration format and the
// in-memory model.Config.
package codec

import (
	"bytes"
	"errors"
	"fmt"
	"io"

	"github.com/alfredjeanlab/confighelper/internal/model"
	"gopkg.in/yaml.v3"
)

// ParseError reports YAML that is syntactically invalid or does not fit the
// Config shape.
type ParseError struct {
	Err error
}

func (e *ParseError) Error() string { return "parse yaml: " + e.Err.Error() }

func (e *ParseError) Unwrap() error { return e.Err }

// Decode parses a YAML document into a Config. Empty or comment-only input
// yields an empty Config; absent top-level keys become empty sequences.
// Only the first document of a multi-document stream is read.
func Decode(text []byte) (*model.Config, error) {
	var cfg model.Config
	dec := yaml.NewDecoder(bytes.NewReader(text))
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, &ParseError{Err: err}
	}
	cfg.Normalize()
	return &cfg, nil
}

// Encode serialises cfg as YAML with a two-space indent. A nil cfg encodes
// as an empty Config. Top-level sequences are always emitted, empty ones as [].
func Encode(cfg *model.Config) ([]byte, error) {
	out := model.Config{}
	if cfg != nil {
		out = *cfg
	}
	out.Dashboards = append([]model.Dashboard(nil), out.Dashboards...)
	out.Normalize()

	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(&out); err != nil {
		return nil, fmt.Errorf("encode yaml: %w", err)
	}
	if err := enc.Close(); err != nil {
		return nil, fmt.Errorf("encode yaml: %w", err)
	}
	return buf.Bytes(), nil
}
