package cli

import (
	"encoding/json"
	"io"
	"reflect"
)

// IsJSONOutput reports whether --json was given.
func IsJSONOutput() bool {
	return jsonOutput
}

// IsJSONLOutput reports whether --jsonl was given.
func IsJSONLOutput() bool {
	return jsonlOutput
}

// WriteOutput encodes v as indented JSON, or one compact line per element
// in JSONL mode.
func WriteOutput(out io.Writer, v any) error {
	enc := json.NewEncoder(out)
	if !IsJSONLOutput() {
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	}

	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Slice {
		return enc.Encode(v)
	}
	for i := 0; i < rv.Len(); i++ {
		if err := enc.Encode(rv.Index(i).Interface()); err != nil {
			return err
		}
	}
	return nil
}
