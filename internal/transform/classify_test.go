package transform

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/sells-group/nonprofit-intel/internal/model"
)

func TestClassifyRole(t *testing.T) {
	tests := []struct {
		title     string
		board     bool
		executive bool
	}{
		{"Board Chair", true, false},
		{"Chairman of the Board", true, true},
		{"Vice Chair", true, false},
		{"Executive Director", true, true},
		{"Director of Development", true, false},
		{"Member, Board of Directors", true, false},
		{"Trustee", true, false},
		{"Chairperson", true, false},
		{"Chairwoman", true, false},
		{"Boardmember", true, false},
		{"Co-Chairperson, Finance Committee", true, false},
		{"Trustees Emeritus", true, false},
		{"Executive Directors", true, true},
		{"CEOs", false, true},
		{"CEO", false, true},
		{"President & CEO", false, true},
		{"Vice President, Programs", false, true},
		{"Chief Financial Officer (CFO)", false, true},
		{"Treasurer", false, false},
		{"Actor", false, false},
		{"", false, false},
	}

	for _, tt := range tests {
		t.Run(tt.title, func(t *testing.T) {
			board, exec := classifyRole(tt.title)
			assert.Equal(t, tt.board, board, "board")
			assert.Equal(t, tt.executive, exec, "executive")
		})
	}
}

func TestClassifyRole_AcronymsMatchWholeWords(t *testing.T) {
	// "director" contains "cto", "coordinator" starts with "coo".
	for _, title := range []string{"Director", "Program Coordinator", "Doctoral Fellow"} {
		_, exec := classifyRole(title)
		assert.False(t, exec, title)
	}
}

func TestClassifyProgram(t *testing.T) {
	tests := []struct {
		name, desc string
		want       model.ProgramType
	}{
		{"Voter Rights Campaign", "", model.ProgramAdvocacy},
		{"Watershed Study", "Long-term water quality research", model.ProgramResearch},
		{"Summer Scholars", "Scholarships for first-generation students", model.ProgramEducation},
		{"Community Fund", "Small grants to neighborhood groups", model.ProgramGrantmaking},
		{"Warm Nights", "Emergency shelter and meals", model.ProgramDirectService},
		{"Annual Gala", "A night to remember", model.ProgramOther},
		// Advocacy is checked before education.
		{"Policy School", "", model.ProgramAdvocacy},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, classifyProgram(tt.name, tt.desc))
		})
	}
}

func TestExtractKeywords(t *testing.T) {
	got := extractKeywords("The youth program serves youth in Oakland; it's free and open to all ages.", 10)
	assert.Equal(t, []string{"youth", "serves", "oakland", "free", "open", "ages"}, got)

	long := "alpha bravo charlie delta echo foxtrot golf hotel india juliet kilo lima"
	assert.Len(t, extractKeywords(long, 10), 10)
	assert.Equal(t, []string{"alpha", "bravo"}, extractKeywords(long, 2))
	assert.Empty(t, extractKeywords("", 10))
}

func TestNormalizeContactType(t *testing.T) {
	tests := []struct {
		raw, value string
		want       model.ContactType
	}{
		{"E-Mail", "x", model.ContactEmail},
		{"Telephone", "x", model.ContactPhone},
		{"Mailing  Address", "x", model.ContactAddress},
		{"URL", "x", model.ContactWebsite},
		{"LinkedIn", "x", model.ContactSocial},
		{"", "someone@example.org", model.ContactEmail},
		{"", "http://example.org", model.ContactWebsite},
		{"main line", "+1 (555) 010-2000", model.ContactPhone},
		{"pager", "beep", model.ContactOther},
	}
	for _, tt := range tests {
		t.Run(tt.raw+"/"+tt.value, func(t *testing.T) {
			assert.Equal(t, tt.want, normalizeContactType(tt.raw, tt.value))
		})
	}
}

func TestValidateContact(t *testing.T) {
	tests := []struct {
		ct    model.ContactType
		value string
		want  model.ValidationStatus
	}{
		{model.ContactEmail, "info@example.org", model.ValidationValid},
		{model.ContactEmail, "info@example", model.ValidationInvalid},
		{model.ContactPhone, "555-0100", model.ValidationValid},
		{model.ContactPhone, "12345", model.ValidationInvalid},
		{model.ContactPhone, "1234567890123456", model.ValidationInvalid},
		{model.ContactPhone, "call us", model.ValidationInvalid},
		{model.ContactWebsite, "example.org", model.ValidationValid},
		{model.ContactWebsite, "https://www.example.org/about", model.ValidationValid},
		{model.ContactWebsite, "not a url", model.ValidationInvalid},
		{model.ContactAddress, "1 Main St", model.ValidationUnverified},
		{model.ContactSocial, "@example", model.ValidationUnverified},
	}
	for _, tt := range tests {
		t.Run(string(tt.ct)+"/"+tt.value, func(t *testing.T) {
			assert.Equal(t, tt.want, validateContact(tt.ct, tt.value))
		})
	}
}
