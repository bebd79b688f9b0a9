package store

import (
	"context"
	"strings"
	"time"

	"github.com/prn-tf/grouporder-hub/internal/domain"
)

// GetOrders returns every order, in no particular order.
func (s *Store) GetOrders(ctx context.Context) []*domain.Order {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]*domain.Order, 0, len(s.orders))
	for _, order := range s.orders {
		o := *order
		out = append(out, &o)
	}
	return out
}

// GetOrdersByUser returns the orders owned by the given user.
func (s *Store) GetOrdersByUser(ctx context.Context, userID int64) []*domain.Order {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []*domain.Order
	for _, order := range s.orders {
		if order.UserID == userID {
			o := *order
			out = append(out, &o)
		}
	}
	return out
}

// GetOrdersByDate returns the orders whose order date falls on the same
// calendar day as the given time.
func (s *Store) GetOrdersByDate(ctx context.Context, date time.Time) []*domain.Order {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []*domain.Order
	for _, order := range s.orders {
		if sameDay(order.OrderDate, date) {
			o := *order
			out = append(out, &o)
		}
	}
	return out
}

// sameDay reports whether a and b fall on the same calendar day, with b
// deciding the time zone of the comparison.
func sameDay(a, b time.Time) bool {
	ay, am, ad := a.In(b.Location()).Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}

// GetOrdersByGroup returns the orders whose owning user belongs to the
// given group, compared case-insensitively. Orders whose owner no longer
// exists, or whose group does not match, are silently excluded.
func (s *Store) GetOrdersByGroup(ctx context.Context, groupName string) []*domain.Order {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []*domain.Order
	for _, order := range s.orders {
		user, ok := s.users[order.UserID]
		if !ok {
			continue
		}
		if user.GroupName == "" || groupName == "" {
			continue
		}
		if strings.EqualFold(user.GroupName, groupName) {
			o := *order
			out = append(out, &o)
		}
	}
	return out
}

// GetOrderByID returns the order with the given ID.
func (s *Store) GetOrderByID(ctx context.Context, id int64) (*domain.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	order, ok := s.orders[id]
	if !ok {
		return nil, domain.ErrOrderNotFound
	}
	o := *order
	return &o, nil
}

// CreateOrder stores a new order. Status defaults to pending, CreatedAt
// is stamped at call time and OrderDate falls back to the creation time
// when unset. The owning user is not validated.
func (s *Store) CreateOrder(ctx context.Context, order domain.Order) *domain.Order {
	s.mu.Lock()
	defer s.mu.Unlock()

	order.ID = s.orderID
	s.orderID++

	order.CreatedAt = time.Now()
	if order.Status == "" {
		order.Status = domain.OrderStatusPending
	}
	if order.OrderDate.IsZero() {
		order.OrderDate = order.CreatedAt
	}

	o := order
	s.orders[o.ID] = &o
	s.save()

	s.logger.Info().
		Int64("order_id", o.ID).
		Int64("user_id", o.UserID).
		Float64("total", o.Total).
		Msg("order created")

	out := o
	return &out
}

// UpdateOrderStatus overwrites the order status unconditionally. Any
// string is accepted; transition validation, if wanted, belongs to the
// calling layer.
func (s *Store) UpdateOrderStatus(ctx context.Context, id int64, status string) (*domain.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	order, ok := s.orders[id]
	if !ok {
		return nil, domain.ErrOrderNotFound
	}

	order.Status = status
	s.save()

	o := *order
	return &o, nil
}

// GetOrderItems returns the items of the given order.
func (s *Store) GetOrderItems(ctx context.Context, orderID int64) []*domain.OrderItem {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []*domain.OrderItem
	for _, item := range s.orderItems {
		if item.OrderID == orderID {
			it := *item
			out = append(out, &it)
		}
	}
	return out
}

// CreateOrderItem appends an order item. Neither the order nor the
// product reference is validated; the price is the caller's snapshot of
// the unit price at order time.
func (s *Store) CreateOrderItem(ctx context.Context, item domain.OrderItem) *domain.OrderItem {
	s.mu.Lock()
	defer s.mu.Unlock()

	item.ID = s.orderItemID
	s.orderItemID++

	it := item
	s.orderItems[it.ID] = &it
	s.save()

	out := it
	return &out
}
