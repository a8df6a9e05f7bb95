// Package names parses free-text personal names and compares them for matching.
package names

import (
	"strings"
	"unicode/utf8"

	"github.com/rotisserie/eris"

	"github.com/sells-group/nonprofit-intel/internal/config"
	"github.com/sells-group/nonprofit-intel/internal/model"
)

// ErrInvalidName is returned when a name is too short to parse.
var ErrInvalidName = eris.New("names: invalid input")

// DefaultConfig returns a config.NameConfig with sensible defaults.
func DefaultConfig() config.NameConfig {
	return config.NameConfig{
		MinLength:     2,
		StripTitles:   true,
		StripSuffixes: true,
		UseNicknames:  true,
	}
}

// Parser splits names into parts and normalizes them for matching.
// A Parser is read-only after construction and safe for concurrent use.
type Parser struct {
	cfg       config.NameConfig
	nicknames map[string]string
}

// NewParser creates a Parser. Nicknames from cfg extend and override the
// built-in table.
func NewParser(cfg config.NameConfig) *Parser {
	nick := make(map[string]string, len(defaultNicknames)+len(cfg.Nicknames))
	for k, v := range defaultNicknames {
		nick[k] = v
	}
	for k, v := range cfg.Nicknames {
		nick[strings.ToLower(strings.TrimSpace(k))] = strings.ToLower(strings.TrimSpace(v))
	}
	if cfg.MinLength < 1 {
		cfg.MinLength = 1
	}
	return &Parser{cfg: cfg, nicknames: nick}
}

// Parse splits fullName into prefix, first, middle, last and suffix, and
// computes its normalized form.
func (p *Parser) Parse(fullName string) (model.ParsedName, error) {
	trimmed := strings.TrimSpace(fullName)
	if utf8.RuneCountInString(trimmed) < p.cfg.MinLength {
		return model.ParsedName{}, eris.Wrapf(ErrInvalidName, "name %q is shorter than %d characters", trimmed, p.cfg.MinLength)
	}

	tokens := tokenize(trimmed)
	if len(tokens) == 0 {
		return model.ParsedName{}, eris.Wrapf(ErrInvalidName, "name %q has no name tokens", trimmed)
	}

	pn := model.ParsedName{FullName: fullName}
	pn.Prefix, tokens = extractPrefix(tokens)
	pn.Suffix, tokens = extractSuffix(tokens)

	switch len(tokens) {
	case 1:
		pn.First = tokens[0]
	case 2:
		pn.First, pn.Last = tokens[0], tokens[1]
	case 3:
		pn.First, pn.Middle, pn.Last = tokens[0], tokens[1], tokens[2]
	default:
		pn.First = tokens[0]
		pn.Middle = strings.Join(tokens[1:len(tokens)-1], " ")
		pn.Last = tokens[len(tokens)-1]
	}

	pn.NormalizedName = p.Normalize(pn)
	return pn, nil
}

// Normalize derives the canonical matching string from the structured parts
// of pn under the parser's configuration. FullName is ignored.
func (p *Parser) Normalize(pn model.ParsedName) string {
	var parts []string

	if !p.cfg.StripTitles && pn.Prefix != "" {
		parts = append(parts, strings.ToLower(pn.Prefix))
	}

	if pn.First != "" {
		first := strings.ToLower(pn.First)
		if p.cfg.UseNicknames {
			if canonical, ok := p.nicknames[first]; ok {
				first = canonical
			}
		}
		parts = append(parts, first)
	}

	if pn.Middle != "" {
		r, _ := utf8.DecodeRuneInString(strings.ToLower(pn.Middle))
		parts = append(parts, string(r))
	}

	if pn.Last != "" {
		parts = append(parts, strings.ToLower(pn.Last))
	}

	if !p.cfg.StripSuffixes && pn.Suffix != "" {
		parts = append(parts, strings.ToLower(pn.Suffix))
	}

	return strings.Join(parts, " ")
}

// tokenize splits a name on whitespace, commas and semicolons. Two-character
// tokens ending in a period are initials and lose the period.
func tokenize(name string) []string {
	name = strings.NewReplacer(",", " ", ";", " ").Replace(name)
	fields := strings.Fields(name)
	tokens := make([]string, 0, len(fields))
	for _, f := range fields {
		if utf8.RuneCountInString(f) == 2 && strings.HasSuffix(f, ".") {
			f = strings.TrimSuffix(f, ".")
		}
		if strings.Trim(f, ".") == "" {
			continue
		}
		tokens = append(tokens, f)
	}
	return tokens
}

// vocabKey is the lookup form of a token in the title and suffix tables.
func vocabKey(tok string) string {
	return strings.ToLower(strings.ReplaceAll(tok, ".", ""))
}

// extractPrefix removes a leading title. At least one name token always remains.
func extractPrefix(tokens []string) (string, []string) {
	if len(tokens) > 2 {
		if t, ok := compoundTitles[vocabKey(tokens[0])+" "+vocabKey(tokens[1])]; ok {
			return t, tokens[2:]
		}
	}
	if len(tokens) > 1 {
		if t, ok := titles[vocabKey(tokens[0])]; ok {
			return t, tokens[1:]
		}
	}
	return "", tokens
}

// extractSuffix removes a trailing generational suffix or credential.
// At least one name token always remains.
func extractSuffix(tokens []string) (string, []string) {
	n := len(tokens)
	if n > 2 {
		if s, ok := compoundSuffixes[vocabKey(tokens[n-2])+" "+vocabKey(tokens[n-1])]; ok {
			return s, tokens[:n-2]
		}
	}
	if n > 1 {
		if s, ok := suffixes[vocabKey(tokens[n-1])]; ok {
			return s, tokens[:n-1]
		}
	}
	return "", tokens
}
