package printers

import (
	"encoding/json"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"
)

// Format is a machine readable output format.
type Format string

const (
	Text Format = ""
	JSON Format = "json"
	YAML Format = "yaml"
)

// Encode writes v to w in format. Text is not an encoding and is rejected.
func Encode(w io.Writer, format Format, v interface{}) error {
	switch format {
	case JSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	case YAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return err
		}
		return enc.Close()
	}
	return fmt.Errorf("printers: unsupported format %q", format)
}
