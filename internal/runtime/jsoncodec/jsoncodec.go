// Package jsoncodec is the JSON codec used for harvest reports and CLI output.
package jsoncodec

import (
	"bytes"
	"io"

	"github.com/bytedance/sonic"
)

// reports are produced by several harvesters; unknown fields are ignored and
// keys match the way encoding/json matches them.
var defaultConfig = sonic.ConfigStd

func Marshal(v any) ([]byte, error) {
	return defaultConfig.Marshal(v)
}

func MarshalIndent(v any, prefix, indent string) ([]byte, error) {
	return defaultConfig.MarshalIndent(v, prefix, indent)
}

func Unmarshal(data []byte, v any) error {
	return defaultConfig.Unmarshal(data, v)
}

// Valid reports whether data is a syntactically valid JSON document.
func Valid(data []byte) bool {
	return defaultConfig.Valid(data)
}

// Encode writes v to w followed by a newline.
func Encode(w io.Writer, v any) error {
	return defaultConfig.NewEncoder(w).Encode(v)
}

// DecodeStream calls fn for every JSON value read from r until EOF. It is
// used to replay newline-delimited reports. A value cut off by the end of
// input fails with io.ErrUnexpectedEOF.
func DecodeStream[T any](r io.Reader, fn func(T) error) error {
	dec := defaultConfig.NewDecoder(r)
	for {
		var v T
		if err := dec.Decode(&v); err != nil {
			if err == io.EOF {
				return trailingInput(dec.Buffered())
			}
			return err
		}
		if err := fn(v); err != nil {
			return err
		}
	}
}

// trailingInput reports io.ErrUnexpectedEOF when anything but whitespace is
// left in rest.
func trailingInput(rest io.Reader) error {
	if rest == nil {
		return nil
	}
	left, err := io.ReadAll(rest)
	if err != nil {
		return err
	}
	if len(bytes.TrimSpace(left)) > 0 {
		return io.ErrUnexpectedEOF
	}
	return nil
}
