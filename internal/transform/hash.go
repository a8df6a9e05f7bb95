package transform

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"

	"github.com/rotisserie/eris"

	"github.com/sells-group/nonprofit-intel/internal/model"
)

// SourceDataHash returns the hex SHA-256 of the canonical JSON form of input.
// Object keys are sorted and numbers keep their literal text, so two inputs
// that differ only in key order or whitespace hash the same.
func SourceDataHash(input model.TransformInput) (string, error) {
	canonical, err := canonicalJSON(input)
	if err != nil {
		return "", err
	}
	sum := sha256.Sum256(canonical)
	return hex.EncodeToString(sum[:]), nil
}

func canonicalJSON(v any) ([]byte, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, eris.Wrap(err, "transform: marshal input")
	}

	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	var generic any
	if err := dec.Decode(&generic); err != nil {
		return nil, eris.Wrap(err, "transform: decode input")
	}

	out, err := json.Marshal(generic)
	if err != nil {
		return nil, eris.Wrap(err, "transform: canonicalize input")
	}
	return out, nil
}
