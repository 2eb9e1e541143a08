package main

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/urfave/cli/v2"
	"gopkg.in/yaml.v3"
)

type format string

const (
	formatJSON format = "json"
	formatYAML format = "yaml"
)

func parseFormat(s string) (format, error) {
	switch format(s) {
	case formatJSON, formatYAML:
		return format(s), nil
	case "yml":
		return formatYAML, nil
	}
	return "", fmt.Errorf("unsupported output format %q, want json or yaml", s)
}

// output writes v in the format selected by --output.
func output(c *cli.Context, v any) error {
	f, err := parseFormat(c.String("output"))
	if err != nil {
		return err
	}
	return encode(c.App.Writer, f, v)
}

func encode(w io.Writer, f format, v any) error {
	// Round-trip through JSON so json.RawMessage and struct tags render the
	// same way in both formats.
	raw, err := json.Marshal(v)
	if err != nil {
		return err
	}
	var generic any
	if err := json.Unmarshal(raw, &generic); err != nil {
		return err
	}

	if f == formatYAML {
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(generic); err != nil {
			return err
		}
		return enc.Close()
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(generic)
}
