package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/rotisserie/eris"
	"gopkg.in/yaml.v3"

	"github.com/sells-group/nonprofit-intel/internal/model"
	"github.com/sells-group/nonprofit-intel/internal/transform"
)

func isYAML(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return true
	}
	return false
}

func isInputFile(path string) bool {
	return isYAML(path) || strings.EqualFold(filepath.Ext(path), ".json")
}

// decodeFile strictly decodes a JSON or YAML document into v.
func decodeFile(path string, v any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return eris.Wrapf(err, "read %s", path)
	}
	if isYAML(path) {
		var doc any
		if err := yaml.Unmarshal(data, &doc); err != nil {
			return eris.Wrapf(err, "parse yaml %s", path)
		}
		if data, err = json.Marshal(doc); err != nil {
			return eris.Wrapf(err, "convert yaml %s", path)
		}
	}

	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return eris.Wrapf(err, "decode %s", path)
	}
	return nil
}

// readTransformInput loads one organization's raw records.
func readTransformInput(path string) (model.TransformInput, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return model.TransformInput{}, eris.Wrapf(err, "read %s", path)
	}
	var in model.TransformInput
	if isYAML(path) {
		in, err = transform.DecodeInputYAML(data)
	} else {
		in, err = transform.DecodeInput(data)
	}
	if err != nil {
		return model.TransformInput{}, eris.Wrapf(err, "input %s", path)
	}
	return in, nil
}

// collectInputs returns the explicit file arguments followed by every JSON or
// YAML file directly inside dir, in name order.
func collectInputs(args []string, dir string) ([]string, error) {
	files := append([]string(nil), args...)
	if dir != "" {
		entries, err := os.ReadDir(dir)
		if err != nil {
			return nil, eris.Wrapf(err, "read dir %s", dir)
		}
		var found []string
		for _, e := range entries {
			if e.IsDir() || !isInputFile(e.Name()) {
				continue
			}
			found = append(found, filepath.Join(dir, e.Name()))
		}
		sort.Strings(found)
		files = append(files, found...)
	}
	if len(files) == 0 {
		return nil, eris.New("no input files: pass file arguments or --dir")
	}
	return files, nil
}

// idFromPath derives an organization id from an input file name.
func idFromPath(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}
