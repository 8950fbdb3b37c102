package main

import (
	"encoding/json"
	"io"

	"go.yaml.in/yaml/v3"

	"github.com/kbukum/mdpsolve/errors"
	"github.com/kbukum/mdpsolve/mdp"
)

var outputFormats = []string{"text", "json", "yaml"}

// writeResult renders res in the requested format.
func writeResult(w io.Writer, res *mdp.Result, format string) error {
	switch format {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if err := enc.Encode(res.Report()); err != nil {
			return errors.Internal(err)
		}
		return nil
	case "yaml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(res.Report()); err != nil {
			return errors.Internal(err)
		}
		if err := enc.Close(); err != nil {
			return errors.Internal(err)
		}
		return nil
	default:
		if err := res.Format(w); err != nil {
			return errors.Internal(err)
		}
		return nil
	}
}
