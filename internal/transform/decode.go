package transform

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/rotisserie/eris"
	"gopkg.in/yaml.v3"

	"github.com/sells-group/nonprofit-intel/internal/model"
)

// ErrInvalidInput is returned when raw input does not match the input schema.
var ErrInvalidInput = eris.New("transform: invalid input")

// DecodeInput strictly decodes a JSON transformation input. Unknown fields,
// trailing data and quality scores outside [0, 100] are rejected.
func DecodeInput(data []byte) (model.TransformInput, error) {
	var in model.TransformInput

	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&in); err != nil {
		return model.TransformInput{}, eris.Wrapf(ErrInvalidInput, "decode: %v", err)
	}
	if _, err := dec.Token(); err != io.EOF {
		return model.TransformInput{}, eris.Wrap(ErrInvalidInput, "trailing data after input object")
	}

	if problems := checkInput(in); len(problems) > 0 {
		return model.TransformInput{}, eris.Wrap(ErrInvalidInput, strings.Join(problems, "; "))
	}
	return in, nil
}

// DecodeInputYAML converts a YAML document to JSON and decodes it with DecodeInput.
func DecodeInputYAML(data []byte) (model.TransformInput, error) {
	var doc any
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return model.TransformInput{}, eris.Wrapf(ErrInvalidInput, "yaml: %v", err)
	}
	if doc == nil {
		doc = map[string]any{}
	}
	raw, err := json.Marshal(doc)
	if err != nil {
		return model.TransformInput{}, eris.Wrapf(ErrInvalidInput, "yaml to json: %v", err)
	}
	return DecodeInput(raw)
}

func checkInput(in model.TransformInput) []string {
	if in.WebScraping == nil {
		return nil
	}
	var problems []string
	check := func(path string, q float64) {
		if q < 0 || q > 100 {
			problems = append(problems, fmt.Sprintf("%s.quality_score %v outside [0,100]", path, q))
		}
	}
	for i, l := range in.WebScraping.Leadership {
		check(fmt.Sprintf("web_scraping.leadership[%d]", i), l.QualityScore)
	}
	for i, p := range in.WebScraping.Programs {
		check(fmt.Sprintf("web_scraping.programs[%d]", i), p.QualityScore)
	}
	for i, c := range in.WebScraping.ContactInfo {
		check(fmt.Sprintf("web_scraping.contact_info[%d]", i), c.QualityScore)
	}
	return problems
}
