package store

import (
	"context"
	"fmt"
	"regexp"
	"strconv"

	"github.com/prn-tf/grouporder-hub/internal/domain"
)

// maxGroupLevel is the promotion ceiling: a member whose group is
// already at this level graduates out (is deleted) instead of advancing.
const maxGroupLevel = 5

// leveledGroupPattern matches group names of the form "<text> <integer>"
// (e.g. "Team 3"); the trailing integer is the level.
var leveledGroupPattern = regexp.MustCompile(`^(.+)\s+(\d+)$`)

// PromoteMembers advances every non-admin member's group by one level.
// Members of non-leveled (free-form) groups are left untouched; members
// at the ceiling level are deleted through the full cascade, freeing
// their IDs. The result carries counts and the deduplicated list of
// distinct group transitions, for reporting.
//
// The operation is a one-shot batch transform. Invoking it again simply
// keeps advancing (or deleting); there is no lock against
// double-invocation.
func (s *Store) PromoteMembers(ctx context.Context) domain.PromotionResult {
	s.mu.Lock()
	defer s.mu.Unlock()

	var result domain.PromotionResult

	// Snapshot the members first: the loop mutates the user map.
	var members []*domain.User
	for _, user := range s.users {
		if user.GroupName != domain.GroupAdmin {
			members = append(members, user)
		}
	}

	for _, member := range members {
		match := leveledGroupPattern.FindStringSubmatch(member.GroupName)
		if match == nil {
			// Free-form group name: exempt from promotion.
			continue
		}

		level, err := strconv.Atoi(match[2])
		if err != nil {
			continue
		}

		if level >= maxGroupLevel {
			if err := s.deleteUserLocked(member.ID); err == nil {
				result.Deleted++
			}
			continue
		}

		from := member.GroupName
		to := fmt.Sprintf("%s %d", match[1], level+1)

		member.GroupName = to
		result.Promoted++

		if !hasTransition(result.Transitions, from, to) {
			result.Transitions = append(result.Transitions, domain.GroupTransition{From: from, To: to})
		}
	}

	s.save()

	s.logger.Info().
		Int("promoted", result.Promoted).
		Int("deleted", result.Deleted).
		Int("transitions", len(result.Transitions)).
		Msg("members promoted")

	return result
}

func hasTransition(transitions []domain.GroupTransition, from, to string) bool {
	for _, t := range transitions {
		if t.From == from && t.To == to {
			return true
		}
	}
	return false
}
