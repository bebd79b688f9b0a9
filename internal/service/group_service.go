package service

import (
	"context"
	"strings"

	"github.com/rs/zerolog"

	"github.com/prn-tf/grouporder-hub/internal/store"
)

// GroupService handles the group registry.
type GroupService struct {
	store  *store.Store
	logger zerolog.Logger
}

// NewGroupService creates a new GroupService.
func NewGroupService(st *store.Store, logger zerolog.Logger) *GroupService {
	return &GroupService{
		store:  st,
		logger: logger.With().Str("service", "group").Logger(),
	}
}

// List returns the available groups. Never empty: the store falls back
// to the groups derived from current users, then to the built-in
// defaults.
func (s *GroupService) List(ctx context.Context) []string {
	return s.store.GetAvailableGroups(ctx)
}

// Replace overwrites the registry with the given list. Blank names are
// rejected; duplicates are collapsed.
func (s *GroupService) Replace(ctx context.Context, groups []string) ([]string, error) {
	seen := make(map[string]struct{}, len(groups))
	cleaned := make([]string, 0, len(groups))
	for _, name := range groups {
		name = strings.TrimSpace(name)
		if name == "" {
			return nil, ErrGroupNameEmpty
		}
		if _, dup := seen[name]; dup {
			continue
		}
		seen[name] = struct{}{}
		cleaned = append(cleaned, name)
	}

	return s.store.UpdateAvailableGroups(ctx, cleaned), nil
}

// Add appends one group to the registry if it is not already present.
func (s *GroupService) Add(ctx context.Context, name string) ([]string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ErrGroupNameEmpty
	}

	current := s.store.GetAvailableGroups(ctx)
	for _, existing := range current {
		if existing == name {
			return current, nil
		}
	}

	return s.store.UpdateAvailableGroups(ctx, append(current, name)), nil
}

// Remove drops one group from the registry. The group must have no
// remaining members.
func (s *GroupService) Remove(ctx context.Context, name string) ([]string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ErrGroupNameEmpty
	}

	for _, user := range s.store.GetAllUsers(ctx) {
		if strings.EqualFold(user.GroupName, name) {
			return nil, ErrGroupInUse
		}
	}

	current := s.store.GetAvailableGroups(ctx)
	next := make([]string, 0, len(current))
	for _, existing := range current {
		if existing != name {
			next = append(next, existing)
		}
	}

	return s.store.UpdateAvailableGroups(ctx, next), nil
}
