// Package win decides whether a team has won.
package win

import "github.com/osse101/nightfall/internal/domain"

// TeamLookup resolves a role id to its team.
type TeamLookup func(roleID string) string

// Evaluate returns the winning team over the living roster, or "" when the
// game continues. Every living non-aggressor counts toward the majority side.
func Evaluate(participants []*domain.Participant, teams domain.Teams, teamOf TeamLookup) string {
	aggressors, others := 0, 0
	for _, p := range participants {
		if !p.Alive {
			continue
		}
		if teamOf(p.Role) == teams.Aggressor {
			aggressors++
		} else {
			others++
		}
	}

	switch {
	case aggressors == 0:
		return teams.Majority
	case aggressors >= others:
		return teams.Aggressor
	default:
		return ""
	}
}
