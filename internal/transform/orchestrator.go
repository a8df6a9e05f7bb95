// Package transform converts raw board-member and scraped records for one
// organization into resolved people, roles, programs, contacts and connections.
package transform

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/nonprofit-intel/internal/config"
	"github.com/sells-group/nonprofit-intel/internal/dedup"
	"github.com/sells-group/nonprofit-intel/internal/model"
	"github.com/sells-group/nonprofit-intel/internal/names"
)

const (
	boardMemberConfidence = 0.9
	lowQualityThreshold   = 50.0
)

// Validation error types.
const (
	ErrTypeInvalidName    = "invalid_name"
	ErrTypeMissingField   = "missing_field"
	ErrTypeInvalidFormat  = "invalid_format"
	ErrTypePrecondition   = "precondition_failed"
	ErrTypeHashFailed     = "hash_failed"
	ErrTypeProfileMissing = "profile_not_found"
)

// ErrProfileNotFound is returned by a ProfileLookup when the profile does not exist.
var ErrProfileNotFound = eris.New("transform: profile not found")

// ProfileLookup checks that a profile exists before its records are transformed.
// It returns ErrProfileNotFound, or any other error on failure.
type ProfileLookup func(profileID string) error

// DefaultConfig returns a config.TransformConfig with sensible defaults.
func DefaultConfig() config.TransformConfig {
	return config.TransformConfig{
		EnableFuzzyMatching: true,
		AutoMerge:           true,
		BuildConnections:    true,
		ErrorTolerance:      0.10,
		MaxKeywords:         10,
	}
}

// Option configures an Orchestrator.
type Option func(*Orchestrator)

// WithProfileLookup sets the lookup used to verify the profile before transforming.
func WithProfileLookup(fn ProfileLookup) Option {
	return func(o *Orchestrator) { o.lookup = fn }
}

// Orchestrator runs the transformation pipeline. It holds only read-only
// configuration and may be shared across goroutines.
type Orchestrator struct {
	cfg    config.TransformConfig
	parser *names.Parser
	dedup  *dedup.Deduplicator
	lookup ProfileLookup
}

// New creates an Orchestrator from the names, dedup and transform sections of cfg.
func New(cfg *config.Config, opts ...Option) *Orchestrator {
	o := &Orchestrator{
		cfg:    cfg.Transform,
		parser: names.NewParser(cfg.Names),
		dedup:  dedup.New(cfg.Dedup),
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// run holds the intermediate state of one Transform call.
type run struct {
	orgID  string
	result *model.TransformationResult
}

func (r *run) addError(field, errType, msg string, sev model.Severity) {
	r.result.ValidationErrors = append(r.result.ValidationErrors, model.ValidationError{
		Field:     field,
		ErrorType: errType,
		Message:   msg,
		Severity:  sev,
	})
}

// Transform builds typed entities from input. Per-record failures become
// validation errors and processing continues; a failed precondition yields a
// single critical error and no entities.
func (o *Orchestrator) Transform(profileID, organizationID string, input model.TransformInput) *model.TransformationResult {
	start := time.Now()
	log := zap.L().With(zap.String("profile_id", profileID), zap.String("organization_id", organizationID))

	res := newResult(profileID, organizationID)
	r := &run{orgID: organizationID, result: res}

	if hash, err := SourceDataHash(input); err != nil {
		r.addError("input", ErrTypeHashFailed, err.Error(), model.SeverityWarning)
	} else {
		res.SourceDataHash = hash
	}

	if err := o.checkPreconditions(profileID, organizationID); err != nil {
		log.Warn("transform: precondition failed", zap.Error(err))
		errType := ErrTypePrecondition
		if eris.Is(err, ErrProfileNotFound) {
			errType = ErrTypeProfileMissing
		}
		res.ValidationErrors = []model.ValidationError{{
			Field:     "profile_id",
			ErrorType: errType,
			Message:   err.Error(),
			Severity:  model.SeverityCritical,
		}}
		res.Stats.TotalRecordsProcessed = input.RecordCount()
		res.Stats.ValidationErrorCount = 1
		res.Stats.ElapsedMillis = time.Since(start).Milliseconds()
		return res
	}

	o.buildBoardMembers(r, input.BoardMembers)
	if ws := input.WebScraping; ws != nil {
		o.buildLeadership(r, ws.Leadership)
		o.buildPrograms(r, ws.Programs)
		o.buildContacts(r, ws.ContactInfo)
	}

	if o.cfg.EnableFuzzyMatching {
		o.resolveDuplicates(r)
	}
	if o.cfg.BuildConnections {
		res.Connections = buildConnections(organizationID, res.People, res.Roles)
	}

	total := input.RecordCount()
	errCount := res.ErrorCount()
	res.Success = errCount == 0 || float64(errCount) < o.cfg.ErrorTolerance*float64(total)

	res.Stats.PeopleCreated = len(res.People)
	res.Stats.RolesCreated = len(res.Roles)
	res.Stats.ProgramsCreated = len(res.Programs)
	res.Stats.ContactsCreated = len(res.Contacts)
	res.Stats.ConnectionsCreated = len(res.Connections)
	res.Stats.TotalRecordsProcessed = total
	res.Stats.ValidationErrorCount = len(res.ValidationErrors)
	res.Stats.DuplicateCount = len(res.DuplicateMatches)
	res.Stats.DataQualityScore = dataQualityScore(total, errCount)
	res.Stats.ElapsedMillis = time.Since(start).Milliseconds()

	log.Info("transform: complete",
		zap.Bool("success", res.Success),
		zap.Int("records", total),
		zap.Int("people", res.Stats.PeopleCreated),
		zap.Int("errors", errCount),
		zap.Int("duplicates", res.Stats.DuplicateCount),
		zap.Int("merged", res.Stats.MergedCount),
	)
	return res
}

func newResult(profileID, organizationID string) *model.TransformationResult {
	return &model.TransformationResult{
		ID:               uuid.NewString(),
		ProfileID:        profileID,
		OrganizationID:   organizationID,
		People:           []model.Person{},
		Roles:            []model.OrganizationRole{},
		Programs:         []model.Program{},
		Contacts:         []model.Contact{},
		Connections:      []model.Connection{},
		ValidationErrors: []model.ValidationError{},
		DuplicateMatches: []model.DuplicationMatch{},
	}
}

func (o *Orchestrator) checkPreconditions(profileID, organizationID string) error {
	if strings.TrimSpace(profileID) == "" {
		return eris.New("transform: profile id is required")
	}
	if strings.TrimSpace(organizationID) == "" {
		return eris.New("transform: organization id is required")
	}
	if o.lookup != nil {
		if err := o.lookup(profileID); err != nil {
			return eris.Wrapf(err, "transform: profile %s", profileID)
		}
	}
	return nil
}

func (o *Orchestrator) buildBoardMembers(r *run, members []model.BoardMemberRecord) {
	for i, bm := range members {
		field := fmt.Sprintf("board_members[%d].name", i)
		pn, err := o.parser.Parse(bm.Name)
		if err != nil {
			r.addError(field, ErrTypeInvalidName, err.Error(), model.SeverityError)
			continue
		}

		person := newPerson(pn, bm.Title, bm.Background, boardMemberConfidence, model.SourceBoardMembers)
		r.result.People = append(r.result.People, person)

		role := newRole(person.MatchKey, r.orgID, bm.Title, model.SourceBoardMembers, boardMemberConfidence)
		if bm.Compensation != nil {
			c := *bm.Compensation
			role.Compensation = &c
		}
		role.Committees = cleanList(bm.Committees)
		r.result.Roles = append(r.result.Roles, role)
	}
}

func (o *Orchestrator) buildLeadership(r *run, leaders []model.ScrapedLeader) {
	for i, l := range leaders {
		field := fmt.Sprintf("web_scraping.leadership[%d].name", i)
		pn, err := o.parser.Parse(l.Name)
		if err != nil {
			r.addError(field, ErrTypeInvalidName, err.Error(), model.SeverityError)
			continue
		}

		conf := scrapedConfidence(l.QualityScore)
		person := newPerson(pn, l.Title, l.Biography, conf, model.SourceWebScraping)
		if l.QualityScore < lowQualityThreshold {
			person.QualityFlags = []string{model.FlagLowQualityScraping}
		}
		r.result.People = append(r.result.People, person)
		r.result.Roles = append(r.result.Roles, newRole(person.MatchKey, r.orgID, l.Title, model.SourceWebScraping, conf))
	}
}

func (o *Orchestrator) buildPrograms(r *run, programs []model.ScrapedProgram) {
	for i, p := range programs {
		name := strings.TrimSpace(p.Name)
		if name == "" {
			r.addError(fmt.Sprintf("web_scraping.programs[%d].name", i), ErrTypeMissingField, "program name is empty", model.SeverityError)
			continue
		}
		desc := strings.TrimSpace(p.Description)

		r.result.Programs = append(r.result.Programs, model.Program{
			Name:            name,
			Description:     desc,
			ProgramType:     classifyProgram(name, desc),
			Keywords:        extractKeywords(keywordSource(name, desc), o.cfg.MaxKeywords),
			DataSource:      model.SourceWebScraping,
			ConfidenceScore: scrapedConfidence(p.QualityScore),
			MatchKey:        names.MatchKey(name),
		})
	}
}

func (o *Orchestrator) buildContacts(r *run, contacts []model.ScrapedContact) {
	for i, c := range contacts {
		value := strings.TrimSpace(c.Value)
		if value == "" {
			r.addError(fmt.Sprintf("web_scraping.contact_info[%d].value", i), ErrTypeMissingField, "contact value is empty", model.SeverityError)
			continue
		}

		ct := normalizeContactType(c.Type, value)
		status := validateContact(ct, value)
		if status == model.ValidationInvalid {
			r.addError(fmt.Sprintf("web_scraping.contact_info[%d].value", i), ErrTypeInvalidFormat,
				fmt.Sprintf("%s value %q failed format check", ct, value), model.SeverityWarning)
		}

		r.result.Contacts = append(r.result.Contacts, model.Contact{
			ContactType:      ct,
			Value:            value,
			Label:            strings.TrimSpace(c.Label),
			ValidationStatus: status,
			DataSource:       model.SourceWebScraping,
			ConfidenceScore:  scrapedConfidence(c.QualityScore),
		})
	}
}

// resolveDuplicates records duplicate matches and, with AutoMerge, folds each
// cluster into its primary and rewrites role keys.
func (o *Orchestrator) resolveDuplicates(r *run) {
	people := r.result.People
	r.result.DuplicateMatches = o.dedup.FindPersonDuplicates(people)
	if !o.cfg.AutoMerge || len(r.result.DuplicateMatches) == 0 {
		return
	}

	clusters := o.dedup.Clusters(people)
	merged := make(map[int]model.Person, len(clusters))
	removed := make(map[int]bool)
	remap := make(map[string]string)
	for _, cluster := range clusters {
		m := o.dedup.MergeCluster(people, cluster)
		merged[cluster[0]] = m
		for _, idx := range cluster {
			remap[people[idx].MatchKey] = m.MatchKey
			if idx != cluster[0] {
				removed[idx] = true
			}
		}
	}

	out := make([]model.Person, 0, len(people)-len(removed))
	for i, p := range people {
		if removed[i] {
			continue
		}
		if m, ok := merged[i]; ok {
			p = m
		}
		out = append(out, p)
	}
	r.result.People = out
	r.result.Stats.MergedCount = len(removed)
	r.result.Roles = remapRoles(r.result.Roles, remap)
}

// remapRoles points roles at merged person keys and drops roles that become
// identical to an earlier one.
func remapRoles(roles []model.OrganizationRole, remap map[string]string) []model.OrganizationRole {
	out := make([]model.OrganizationRole, 0, len(roles))
	seen := make(map[string]bool, len(roles))
	for _, role := range roles {
		if k, ok := remap[role.PersonMatchKey]; ok {
			role.PersonMatchKey = k
		}
		id := role.PersonMatchKey + "|" + strings.ToLower(strings.TrimSpace(role.PositionTitle)) + "|" + role.DataSource
		if seen[id] {
			continue
		}
		seen[id] = true
		out = append(out, role)
	}
	return out
}

func newPerson(pn model.ParsedName, title, bio string, conf float64, source string) model.Person {
	title = strings.TrimSpace(title)
	titles := []string{}
	if title != "" {
		titles = append(titles, title)
	}
	return model.Person{
		Name:            pn,
		PrimaryTitle:    title,
		AllTitles:       titles,
		Biography:       strings.TrimSpace(bio),
		ConfidenceScore: conf,
		DataSources:     []string{source},
		QualityFlags:    []string{},
		MatchKey:        names.MatchKey(pn.NormalizedName),
	}
}

func newRole(personKey, orgID, title, source string, conf float64) model.OrganizationRole {
	board, exec := classifyRole(title)
	return model.OrganizationRole{
		PersonMatchKey:  personKey,
		OrganizationID:  orgID,
		PositionTitle:   strings.TrimSpace(title),
		IsCurrent:       true,
		IsBoardMember:   board,
		IsExecutive:     exec,
		DataSource:      source,
		ConfidenceScore: conf,
		Committees:      []string{},
	}
}

// scrapedConfidence maps a 0-100 scraping quality score to [0, 1].
func scrapedConfidence(quality float64) float64 {
	return math.Max(0, math.Min(quality/100, 1.0))
}

// keywordSource prefers the description and falls back to the program name.
func keywordSource(name, desc string) string {
	if desc != "" {
		return desc
	}
	return name
}

func dataQualityScore(total, errCount int) float64 {
	if total == 0 {
		return 0
	}
	successful := total - errCount
	if successful < 0 {
		successful = 0
	}
	return math.Round(float64(successful)/float64(total)*100*100) / 100
}

func cleanList(in []string) []string {
	out := []string{}
	for _, s := range in {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}
