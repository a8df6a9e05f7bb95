package main

import (
	"encoding/json"
	"io"

	"github.com/rotisserie/eris"
)

const (
	outputJSON  = "json"
	outputTable = "table"
)

func checkOutput(format string) error {
	switch format {
	case outputJSON, outputTable:
		return nil
	}
	return eris.Errorf("unknown output format %q (want json or table)", format)
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// truncateID returns the first 8 characters of a UUID for compact display.
func truncateID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
