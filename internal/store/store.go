// Package store implements the entity store for Group Order Hub.
//
// The store keeps all entities in memory and flushes a full snapshot to
// the persistence layer on every mutation. The in-memory maps are the
// source of truth for the process lifetime; the data file is consulted
// at startup and, narrowly, when reloading the freed user-ID list inside
// CreateUser. A failed flush is logged and swallowed: the store keeps
// serving the in-memory state, trading durability for availability.
//
// A single mutex serializes all public operations, reproducing the
// sequential-access assumption the store is specified under. There is no
// finer-grained locking and no conflict resolution between concurrent
// writers of the data file.
package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/rs/zerolog"

	"github.com/prn-tf/grouporder-hub/internal/domain"
	"github.com/prn-tf/grouporder-hub/internal/persist"
)

// Persisted top-level keys. The group registry is stored independently
// of the entity snapshot.
const (
	snapshotKey = "appData"
	groupsKey   = "availableGroups"
)

// Store owns the four entity maps, the ID counters and the freed user-ID
// list. No other component mutates them.
type Store struct {
	mu sync.Mutex

	users      map[int64]*domain.User
	products   map[int64]*domain.Product
	orders     map[int64]*domain.Order
	orderItems map[int64]*domain.OrderItem

	availableGroups []string

	userID      int64
	productID   int64
	orderID     int64
	orderItemID int64

	deletedUserIDs []int64

	file   *persist.File
	logger zerolog.Logger
}

// pair serializes an entity as a [id, record] tuple, the on-disk shape
// of each entity map.
type pair[T any] struct {
	ID  int64
	Rec T
}

// MarshalJSON encodes the pair as a two-element JSON array.
func (p pair[T]) MarshalJSON() ([]byte, error) {
	return json.Marshal([2]any{p.ID, p.Rec})
}

// UnmarshalJSON decodes a two-element JSON array into the pair.
func (p *pair[T]) UnmarshalJSON(data []byte) error {
	var parts []json.RawMessage
	if err := json.Unmarshal(data, &parts); err != nil {
		return err
	}
	if len(parts) != 2 {
		return fmt.Errorf("entity entry must have 2 elements, got %d", len(parts))
	}
	if err := json.Unmarshal(parts[0], &p.ID); err != nil {
		return fmt.Errorf("invalid entity id: %w", err)
	}
	if err := json.Unmarshal(parts[1], &p.Rec); err != nil {
		return fmt.Errorf("invalid entity record: %w", err)
	}
	return nil
}

// snapshot is the persisted form of the entity store.
type snapshot struct {
	Users          []pair[*domain.User]      `json:"users"`
	Products       []pair[*domain.Product]   `json:"products"`
	Orders         []pair[*domain.Order]     `json:"orders"`
	OrderItems     []pair[*domain.OrderItem] `json:"orderItems"`
	UserID         int64                     `json:"userId"`
	ProductID      int64                     `json:"productId"`
	OrderID        int64                     `json:"orderId"`
	OrderItemID    int64                     `json:"orderItemId"`
	DeletedUserIDs []int64                   `json:"deletedUserIds"`
}

// Open loads the entity store from the given data file. A missing or
// unreadable snapshot yields a fresh, empty store: startup never fails
// on bad data, it starts over and logs why.
func Open(file *persist.File, logger zerolog.Logger) *Store {
	s := &Store{
		users:      make(map[int64]*domain.User),
		products:   make(map[int64]*domain.Product),
		orders:     make(map[int64]*domain.Order),
		orderItems: make(map[int64]*domain.OrderItem),

		userID:      1,
		productID:   1,
		orderID:     1,
		orderItemID: 1,

		file:   file,
		logger: logger.With().Str("component", "store").Logger(),
	}

	var snap snapshot
	switch err := file.LoadKey(snapshotKey, &snap); {
	case err == nil:
		s.restore(&snap)
		s.logger.Info().
			Int("users", len(s.users)).
			Int("products", len(s.products)).
			Int("orders", len(s.orders)).
			Msg("entity snapshot loaded")
	case errors.Is(err, persist.ErrKeyNotFound):
		s.logger.Info().Msg("no entity snapshot found, starting empty")
	default:
		s.logger.Error().Err(err).Msg("failed to load entity snapshot, starting empty")
	}

	var groups []string
	switch err := file.LoadKey(groupsKey, &groups); {
	case err == nil:
		s.availableGroups = groups
	case errors.Is(err, persist.ErrKeyNotFound):
		// No explicit registry yet; GetAvailableGroups falls back to
		// user-derived groups or the built-in defaults.
	default:
		s.logger.Error().Err(err).Msg("failed to load group registry")
	}

	return s
}

// restore rebuilds the in-memory maps from a snapshot.
func (s *Store) restore(snap *snapshot) {
	for _, e := range snap.Users {
		s.users[e.ID] = e.Rec
	}
	for _, e := range snap.Products {
		s.products[e.ID] = e.Rec
	}
	for _, e := range snap.Orders {
		s.orders[e.ID] = e.Rec
	}
	for _, e := range snap.OrderItems {
		s.orderItems[e.ID] = e.Rec
	}
	s.userID = snap.UserID
	s.productID = snap.ProductID
	s.orderID = snap.OrderID
	s.orderItemID = snap.OrderItemID

	s.deletedUserIDs = snap.DeletedUserIDs
	sortIDs(s.deletedUserIDs)
}

// save flushes the full entity snapshot. Write failures are logged and
// swallowed: the in-memory state keeps serving and the next successful
// write catches the file up.
func (s *Store) save() {
	snap := snapshot{
		Users:          pairs(s.users),
		Products:       pairs(s.products),
		Orders:         pairs(s.orders),
		OrderItems:     pairs(s.orderItems),
		UserID:         s.userID,
		ProductID:      s.productID,
		OrderID:        s.orderID,
		OrderItemID:    s.orderItemID,
		DeletedUserIDs: s.deletedUserIDs,
	}
	if snap.DeletedUserIDs == nil {
		snap.DeletedUserIDs = []int64{}
	}

	if err := s.file.SaveKey(snapshotKey, &snap); err != nil {
		s.logger.Error().Err(err).Msg("failed to persist entity snapshot")
	}
}

// pairs converts an entity map into [id, record] tuples in ascending ID
// order, so the on-disk document is stable across saves.
func pairs[T any](m map[int64]T) []pair[T] {
	out := make([]pair[T], 0, len(m))
	for id, rec := range m {
		out = append(out, pair[T]{ID: id, Rec: rec})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// sortIDs sorts an ID slice ascending, so the smallest freed ID is
// always reused first.
func sortIDs(ids []int64) {
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
}
