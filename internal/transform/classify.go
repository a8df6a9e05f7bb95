package transform

import (
	"regexp"
	"strings"
	"unicode"

	"github.com/sells-group/nonprofit-intel/internal/model"
)

// Role vocabularies, matched against the words of a title. Indicator words
// of minStemLen letters or more also match as a word prefix ("Chairperson",
// "Boardmember"); shorter ones such as "cto" must match a whole word.
var (
	boardIndicators     = []string{"board", "director", "trustee", "chairman", "chair", "vice chair"}
	executiveIndicators = []string{"ceo", "president", "executive director", "cfo", "coo", "cto", "chairman"}
)

const minStemLen = 5

// titleWords lower-cases a title and splits it on anything that is not a letter or digit.
func titleWords(title string) []string {
	return strings.FieldsFunc(strings.ToLower(title), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
}

// hasIndicator reports whether any indicator phrase occurs as a contiguous run
// of words.
func hasIndicator(words []string, indicators []string) bool {
	for _, ind := range indicators {
		phrase := strings.Fields(ind)
		for i := 0; i+len(phrase) <= len(words); i++ {
			if phraseAt(words[i:i+len(phrase)], phrase) {
				return true
			}
		}
	}
	return false
}

func phraseAt(window, phrase []string) bool {
	for k, w := range phrase {
		if !wordMatches(window[k], w) {
			return false
		}
	}
	return true
}

// wordMatches allows a plural "s" on any indicator and a longer word for stems.
func wordMatches(word, ind string) bool {
	if word == ind || word == ind+"s" {
		return true
	}
	return len(ind) >= minStemLen && strings.HasPrefix(word, ind)
}

// classifyRole returns the board and executive flags for a position title.
func classifyRole(title string) (board, executive bool) {
	words := titleWords(title)
	return hasIndicator(words, boardIndicators), hasIndicator(words, executiveIndicators)
}

// programRules are tried in order; the first match decides the type.
var programRules = []struct {
	programType model.ProgramType
	pattern     *regexp.Regexp
}{
	{model.ProgramAdvocacy, regexp.MustCompile(`(?i)\b(advoca\w*|polic(?:y|ies)|lobby\w*|campaigns?|rights|awareness|civic)\b`)},
	{model.ProgramResearch, regexp.MustCompile(`(?i)\b(research\w*|stud(?:y|ies)|scientific|science|clinical|analysis|data)\b`)},
	{model.ProgramEducation, regexp.MustCompile(`(?i)\b(educat\w*|schools?|training|scholarships?|tutor\w*|curricul\w*|literacy|mentor\w*|workshops?|classes|courses?|learning)\b`)},
	{model.ProgramGrantmaking, regexp.MustCompile(`(?i)\b(grants?|grantmaking|regranting|fellowships?|funding)\b`)},
	{model.ProgramDirectService, regexp.MustCompile(`(?i)\b(services?|shelters?|food|meals?|housing|clinics?|counseling|care|relief|pantry|assistance|outreach)\b`)},
}

// classifyProgram assigns a program type from its name and description.
func classifyProgram(name, description string) model.ProgramType {
	text := name + " " + description
	for _, rule := range programRules {
		if rule.pattern.MatchString(text) {
			return rule.programType
		}
	}
	return model.ProgramOther
}

var stopWords = map[string]bool{
	"the": true, "and": true, "for": true, "are": true, "was": true,
	"were": true, "been": true, "have": true, "has": true, "had": true,
	"this": true, "that": true, "with": true, "from": true, "what": true,
	"how": true, "does": true, "which": true, "where": true, "when": true,
	"who": true, "why": true, "can": true, "will": true, "not": true,
	"our": true, "you": true, "your": true, "their": true, "they": true,
	"its": true, "into": true, "about": true, "also": true, "all": true,
	"each": true, "more": true, "other": true, "such": true, "than": true,
	"them": true, "these": true, "those": true, "through": true, "over": true,
	"under": true, "while": true, "program": true, "programs": true,
}

// extractKeywords returns distinct lower-case words of three or more letters
// in first-appearance order, excluding stop words, capped at limit.
func extractKeywords(text string, limit int) []string {
	words := strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r)
	})
	keywords := []string{}
	seen := make(map[string]bool)
	for _, w := range words {
		if len([]rune(w)) < 3 || stopWords[w] || seen[w] {
			continue
		}
		seen[w] = true
		keywords = append(keywords, w)
		if limit > 0 && len(keywords) == limit {
			break
		}
	}
	return keywords
}

// contactTypeAliases maps free-text contact labels to a ContactType.
var contactTypeAliases = map[string]model.ContactType{
	"email":           model.ContactEmail,
	"e-mail":          model.ContactEmail,
	"mail":            model.ContactEmail,
	"phone":           model.ContactPhone,
	"telephone":       model.ContactPhone,
	"tel":             model.ContactPhone,
	"mobile":          model.ContactPhone,
	"fax":             model.ContactPhone,
	"address":         model.ContactAddress,
	"mailing address": model.ContactAddress,
	"street address":  model.ContactAddress,
	"location":        model.ContactAddress,
	"website":         model.ContactWebsite,
	"web":             model.ContactWebsite,
	"url":             model.ContactWebsite,
	"homepage":        model.ContactWebsite,
	"social":          model.ContactSocial,
	"social media":    model.ContactSocial,
	"twitter":         model.ContactSocial,
	"facebook":        model.ContactSocial,
	"linkedin":        model.ContactSocial,
	"instagram":       model.ContactSocial,
	"youtube":         model.ContactSocial,
}

var (
	emailPattern   = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[A-Za-z]{2,}$`)
	websitePattern = regexp.MustCompile(`(?i)^(https?://)?([a-z0-9](?:[a-z0-9-]*[a-z0-9])?\.)+[a-z]{2,}(?::\d+)?(?:/\S*)?$`)
	phoneChars     = regexp.MustCompile(`^[\d\s+().\-/x]+$`)
)

// normalizeContactType maps a raw type label to a ContactType. Unknown or
// blank labels are inferred from the shape of the value.
func normalizeContactType(raw, value string) model.ContactType {
	key := strings.Join(strings.Fields(strings.ToLower(raw)), " ")
	if ct, ok := contactTypeAliases[key]; ok {
		return ct
	}
	v := strings.TrimSpace(value)
	switch {
	case emailPattern.MatchString(v):
		return model.ContactEmail
	case strings.HasPrefix(strings.ToLower(v), "http://"), strings.HasPrefix(strings.ToLower(v), "https://"):
		return model.ContactWebsite
	case phoneChars.MatchString(v) && digitCount(v) >= 7:
		return model.ContactPhone
	}
	return model.ContactOther
}

// validateContact checks the value format for types that have one.
func validateContact(ct model.ContactType, value string) model.ValidationStatus {
	v := strings.TrimSpace(value)
	switch ct {
	case model.ContactEmail:
		if emailPattern.MatchString(v) {
			return model.ValidationValid
		}
		return model.ValidationInvalid
	case model.ContactPhone:
		n := digitCount(v)
		if phoneChars.MatchString(v) && n >= 7 && n <= 15 {
			return model.ValidationValid
		}
		return model.ValidationInvalid
	case model.ContactWebsite:
		if websitePattern.MatchString(v) {
			return model.ValidationValid
		}
		return model.ValidationInvalid
	default:
		return model.ValidationUnverified
	}
}

func digitCount(s string) int {
	n := 0
	for _, r := range s {
		if r >= '0' && r <= '9' {
			n++
		}
	}
	return n
}
