package store

import (
	"context"
	"sort"

	"github.com/prn-tf/grouporder-hub/internal/domain"
)

// GetAvailableGroups returns the group registry. The explicit persisted
// list wins when non-empty; otherwise the distinct group names of the
// current users (excluding the Admin group) are derived; with no users
// either, the fixed built-in defaults are returned. Never fails, never
// returns an empty list.
func (s *Store) GetAvailableGroups(ctx context.Context) []string {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.availableGroups) > 0 {
		out := make([]string, len(s.availableGroups))
		copy(out, s.availableGroups)
		return out
	}

	seen := make(map[string]struct{})
	var derived []string
	for _, user := range s.users {
		name := user.GroupName
		if name == "" || name == domain.GroupAdmin {
			continue
		}
		if _, ok := seen[name]; ok {
			continue
		}
		seen[name] = struct{}{}
		derived = append(derived, name)
	}

	if len(derived) == 0 {
		return domain.DefaultGroups()
	}

	sort.Strings(derived)
	return derived
}

// UpdateAvailableGroups replaces the registry wholesale with the given
// list, sorted. The store does not check whether removed names are still
// referenced by users; the admin layer is expected to pre-check with
// GetAllUsers. A group name on a user that no longer appears in the
// registry is tolerated, not an error.
func (s *Store) UpdateAvailableGroups(ctx context.Context, groups []string) []string {
	s.mu.Lock()
	defer s.mu.Unlock()

	next := make([]string, len(groups))
	copy(next, groups)
	sort.Strings(next)

	s.availableGroups = next
	if err := s.file.SaveKey(groupsKey, next); err != nil {
		s.logger.Error().Err(err).Msg("failed to persist group registry")
	}

	s.logger.Info().Int("groups", len(next)).Msg("group registry replaced")

	out := make([]string, len(next))
	copy(out, next)
	return out
}
