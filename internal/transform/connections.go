package transform

import (
	"github.com/sells-group/nonprofit-intel/internal/model"
)

// buildConnections links every pair of distinct people who hold a current
// board role, then every pair holding a current executive role. A pair is
// connected once; board colleagues take precedence. Strength is the mean of
// the two people's confidence scores.
func buildConnections(orgID string, people []model.Person, roles []model.OrganizationRole) []model.Connection {
	conf := make(map[string]float64, len(people))
	for _, p := range people {
		conf[p.MatchKey] = p.ConfidenceScore
	}

	var board, exec []string
	seenBoard := make(map[string]bool)
	seenExec := make(map[string]bool)
	for _, role := range roles {
		if !role.IsCurrent {
			continue
		}
		if _, ok := conf[role.PersonMatchKey]; !ok {
			continue
		}
		if role.IsBoardMember && !seenBoard[role.PersonMatchKey] {
			seenBoard[role.PersonMatchKey] = true
			board = append(board, role.PersonMatchKey)
		}
		if role.IsExecutive && !seenExec[role.PersonMatchKey] {
			seenExec[role.PersonMatchKey] = true
			exec = append(exec, role.PersonMatchKey)
		}
	}

	out := []model.Connection{}
	linked := make(map[[2]string]bool)
	link := func(keys []string, ct model.ConnectionType) {
		for i := 0; i < len(keys); i++ {
			for j := i + 1; j < len(keys); j++ {
				a, b := keys[i], keys[j]
				if b < a {
					a, b = b, a
				}
				if a == b || linked[[2]string{a, b}] {
					continue
				}
				linked[[2]string{a, b}] = true
				out = append(out, model.Connection{
					PersonMatchKey:    a,
					ConnectedMatchKey: b,
					OrganizationID:    orgID,
					ConnectionType:    ct,
					Strength:          (conf[a] + conf[b]) / 2,
				})
			}
		}
	}
	link(board, model.ConnectionBoardColleague)
	link(exec, model.ConnectionLeadershipColleague)
	return out
}
