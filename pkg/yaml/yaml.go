// Package yaml wraps [github.com/goccy/go-yaml] with the encoder settings
// and error type used throughout quellcode.
package yaml

import (
	"bytes"
	"errors"
	"io"

	"github.com/goccy/go-yaml"
)

// EncodeOptions are applied to every encoder.
var EncodeOptions = []yaml.EncodeOption{
	yaml.Indent(2),
	yaml.IndentSequence(true),
}

type Decoder struct {
	d *yaml.Decoder
}

// NewDecoder returns a [Decoder] reading from r.
// Unknown fields are rejected when strict is set.
func NewDecoder(r io.Reader, strict bool) *Decoder {
	opts := []yaml.DecodeOption{}
	if strict {
		opts = append(opts, yaml.DisallowUnknownField())
	}

	return &Decoder{d: yaml.NewDecoder(r, opts...)}
}

// Decode reads the next document into v. Parse and type errors are returned
// as [*Error] carrying the offending token.
func (d *Decoder) Decode(v any) error {
	return wrapDecodeError(d.d.Decode(v))
}

type Encoder struct {
	e *yaml.Encoder
}

func NewEncoder(w io.Writer) *Encoder {
	return &Encoder{e: yaml.NewEncoder(w, EncodeOptions...)}
}

func (e *Encoder) Encode(v any) error {
	return e.e.Encode(v) //nolint:wrapcheck // Return the original error.
}

func (e *Encoder) Close() error {
	return e.e.Close() //nolint:wrapcheck // Return the original error.
}

// Marshal encodes v with [EncodeOptions].
func Marshal(v any) ([]byte, error) {
	var buf bytes.Buffer

	enc := NewEncoder(&buf)
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	if err := enc.Close(); err != nil {
		return nil, err
	}

	return buf.Bytes(), nil
}

// Unmarshal decodes data into v, allowing unknown fields.
func Unmarshal(data []byte, v any) error {
	return wrapDecodeError(yaml.Unmarshal(data, v))
}

func wrapDecodeError(err error) error {
	if err == nil {
		return nil
	}

	var yamlErr yaml.Error
	if errors.As(err, &yamlErr) {
		return NewError(errors.New(yamlErr.GetMessage()), WithToken(yamlErr.GetToken()))
	}

	return err
}
