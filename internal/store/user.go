package store

import (
	"context"
	"errors"

	"github.com/prn-tf/grouporder-hub/internal/domain"
	"github.com/prn-tf/grouporder-hub/internal/persist"
)

// GetUser returns the user with the given ID.
func (s *Store) GetUser(ctx context.Context, id int64) (*domain.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	user, ok := s.users[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	u := *user
	return &u, nil
}

// GetUserByUsername returns the user with the given username.
func (s *Store) GetUserByUsername(ctx context.Context, username string) (*domain.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, user := range s.users {
		if user.Username == username {
			u := *user
			return &u, nil
		}
	}
	return nil, domain.ErrUserNotFound
}

// GetAllUsers returns every user, in no particular order. Callers sort.
func (s *Store) GetAllUsers(ctx context.Context) []*domain.User {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]*domain.User, 0, len(s.users))
	for _, user := range s.users {
		u := *user
		out = append(out, &u)
	}
	return out
}

// CreateUser stores a new user and returns the full record including the
// assigned ID. IDs freed by deletion are reused smallest-first; only
// when none are free does the ID sequence grow.
//
// The store does not reject duplicate usernames; callers are expected to
// pre-check with GetUserByUsername. Role flags are stored exactly as
// supplied; privileged bootstrap accounts are seeded explicitly at
// startup, not special-cased here.
func (s *Store) CreateUser(ctx context.Context, user domain.User) *domain.User {
	s.mu.Lock()
	defer s.mu.Unlock()

	user.ID = s.allocateUserID()

	u := user
	s.users[u.ID] = &u
	s.save()

	s.logger.Info().
		Int64("user_id", u.ID).
		Str("username", u.Username).
		Str("group", u.GroupName).
		Msg("user created")

	out := u
	return &out
}

// allocateUserID implements the user ID allocation algorithm.
//
// The freed-ID list is reloaded from the persisted snapshot first: the
// file may have been advanced by another process since startup, and the
// on-disk list wins over the in-memory one. With no freed IDs, the next
// ID is one past the highest persisted user ID. The monotonic counter
// only tracks the high-water mark for that fallback path.
func (s *Store) allocateUserID() int64 {
	var snap snapshot
	haveSnap := false
	switch err := s.file.LoadKey(snapshotKey, &snap); {
	case err == nil:
		haveSnap = true
		if snap.DeletedUserIDs != nil {
			s.deletedUserIDs = snap.DeletedUserIDs
		}
	case errors.Is(err, persist.ErrKeyNotFound):
		// First user ever; nothing persisted yet.
	default:
		s.logger.Error().Err(err).Msg("failed to reload freed user IDs, using in-memory list")
	}

	var id int64
	if len(s.deletedUserIDs) > 0 {
		sortIDs(s.deletedUserIDs)
		id = s.deletedUserIDs[0]
		s.deletedUserIDs = s.deletedUserIDs[1:]
		s.logger.Debug().Int64("user_id", id).Msg("reusing freed user ID")
	} else {
		var maxID int64
		if haveSnap {
			for _, e := range snap.Users {
				if e.ID > maxID {
					maxID = e.ID
				}
			}
		} else {
			maxID = s.userID - 1
		}
		id = maxID + 1
	}

	if id >= s.userID {
		s.userID = id + 1
	}
	return id
}

// UpdateUser merges the patch over the stored record. Omitted (nil)
// fields are retained; set fields overwrite, including overwrites with
// zero values.
func (s *Store) UpdateUser(ctx context.Context, id int64, patch domain.UserPatch) (*domain.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	user, ok := s.users[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}

	patch.Apply(user)
	s.save()

	u := *user
	return &u, nil
}

// DeleteUser removes the user and cascades: every order owned by the
// user and every item of those orders is deleted, and the freed ID is
// recorded for reuse.
func (s *Store) DeleteUser(ctx context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.deleteUserLocked(id)
}

// deleteUserLocked is the cascade shared by DeleteUser and the promotion
// engine. Callers hold s.mu.
func (s *Store) deleteUserLocked(id int64) error {
	user, ok := s.users[id]
	if !ok {
		return domain.ErrUserNotFound
	}

	orders := 0
	items := 0
	for orderID, order := range s.orders {
		if order.UserID != id {
			continue
		}
		for itemID, item := range s.orderItems {
			if item.OrderID == orderID {
				delete(s.orderItems, itemID)
				items++
			}
		}
		delete(s.orders, orderID)
		orders++
	}

	delete(s.users, id)

	if !containsID(s.deletedUserIDs, id) {
		s.deletedUserIDs = append(s.deletedUserIDs, id)
	}
	sortIDs(s.deletedUserIDs)

	s.save()

	s.logger.Info().
		Int64("user_id", id).
		Str("username", user.Username).
		Int("orders_deleted", orders).
		Int("items_deleted", items).
		Msg("user deleted")

	return nil
}

func containsID(ids []int64, id int64) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}
