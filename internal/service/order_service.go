package service

import (
	"context"
	"sort"
	"time"

	"github.com/rs/zerolog"

	"github.com/prn-tf/grouporder-hub/internal/domain"
	"github.com/prn-tf/grouporder-hub/internal/store"
)

// OrderService handles order placement and the order views used by
// members, coordinators and admins.
type OrderService struct {
	store  *store.Store
	logger zerolog.Logger
}

// NewOrderService creates a new OrderService.
func NewOrderService(st *store.Store, logger zerolog.Logger) *OrderService {
	return &OrderService{
		store:  st,
		logger: logger.With().Str("service", "order").Logger(),
	}
}

// PlaceOrderItemInput is one line of a new order.
type PlaceOrderItemInput struct {
	ProductID int64
	Quantity  int
}

// PlaceOrderInput contains the data for a new order.
type PlaceOrderInput struct {
	UserID int64
	Items  []PlaceOrderItemInput
}

// Place creates an order with its items. Unit prices are snapshotted
// from the current catalog and the total is computed here, so later
// catalog edits never change order history.
func (s *OrderService) Place(ctx context.Context, input PlaceOrderInput) (*OrderDetail, error) {
	if len(input.Items) == 0 {
		return nil, ErrEmptyOrder
	}

	type line struct {
		product  *domain.Product
		quantity int
	}

	var total float64
	lines := make([]line, 0, len(input.Items))
	for _, item := range input.Items {
		if item.Quantity < 1 {
			return nil, ErrInvalidQuantity
		}
		product, err := s.store.GetProduct(ctx, item.ProductID)
		if err != nil {
			return nil, ErrProductNotFound
		}
		total += product.Price * float64(item.Quantity)
		lines = append(lines, line{product: product, quantity: item.Quantity})
	}

	order := s.store.CreateOrder(ctx, domain.Order{
		UserID: input.UserID,
		Total:  total,
	})

	items := make([]*OrderItemDetail, 0, len(lines))
	for _, l := range lines {
		created := s.store.CreateOrderItem(ctx, domain.OrderItem{
			OrderID:   order.ID,
			ProductID: l.product.ID,
			Quantity:  l.quantity,
			Price:     l.product.Price,
		})
		items = append(items, &OrderItemDetail{OrderItem: created, Product: l.product})
	}

	s.logger.Info().
		Int64("order_id", order.ID).
		Int64("user_id", order.UserID).
		Int("items", len(items)).
		Float64("total", order.Total).
		Msg("order placed")

	return &OrderDetail{Order: order, Items: items}, nil
}

// OrderItemDetail pairs an order item with its product, when the
// product still exists in the catalog.
type OrderItemDetail struct {
	OrderItem *domain.OrderItem
	Product   *domain.Product
}

// OrderDetail is an order expanded with its items and, for the admin
// views, its owning user.
type OrderDetail struct {
	Order *domain.Order
	User  *domain.User
	Items []*OrderItemDetail
}

// GetByID returns a single expanded order.
func (s *OrderService) GetByID(ctx context.Context, id int64) (*OrderDetail, error) {
	order, err := s.store.GetOrderByID(ctx, id)
	if err != nil {
		return nil, ErrOrderNotFound
	}
	return s.expand(ctx, order), nil
}

// ListByUser returns the expanded orders of one user, newest first.
func (s *OrderService) ListByUser(ctx context.Context, userID int64) []*OrderDetail {
	return s.expandAll(ctx, s.store.GetOrdersByUser(ctx, userID))
}

// ListAll returns every order expanded, newest first.
func (s *OrderService) ListAll(ctx context.Context) []*OrderDetail {
	return s.expandAll(ctx, s.store.GetOrders(ctx))
}

// ListByGroup returns the expanded orders of one group, matched
// case-insensitively, newest first.
func (s *OrderService) ListByGroup(ctx context.Context, groupName string) []*OrderDetail {
	return s.expandAll(ctx, s.store.GetOrdersByGroup(ctx, groupName))
}

// ListByDate returns the expanded orders of one calendar day.
func (s *OrderService) ListByDate(ctx context.Context, date time.Time) []*OrderDetail {
	return s.expandAll(ctx, s.store.GetOrdersByDate(ctx, date))
}

// UpdateStatus overwrites an order's status. The status is free-form.
func (s *OrderService) UpdateStatus(ctx context.Context, id int64, status string) (*domain.Order, error) {
	order, err := s.store.UpdateOrderStatus(ctx, id, status)
	if err != nil {
		return nil, ErrOrderNotFound
	}

	s.logger.Info().
		Int64("order_id", id).
		Str("status", status).
		Msg("order status updated")

	return order, nil
}

// expandAll expands and sorts a raw order list newest first.
func (s *OrderService) expandAll(ctx context.Context, orders []*domain.Order) []*OrderDetail {
	sort.Slice(orders, func(i, j int) bool {
		return orders[i].CreatedAt.After(orders[j].CreatedAt)
	})

	out := make([]*OrderDetail, 0, len(orders))
	for _, order := range orders {
		out = append(out, s.expand(ctx, order))
	}
	return out
}

// expand attaches items, products and the owning user to an order.
// Deleted products and users leave nil references rather than failing
// the whole view.
func (s *OrderService) expand(ctx context.Context, order *domain.Order) *OrderDetail {
	detail := &OrderDetail{Order: order}

	if user, err := s.store.GetUser(ctx, order.UserID); err == nil {
		detail.User = user
	}

	for _, item := range s.store.GetOrderItems(ctx, order.ID) {
		d := &OrderItemDetail{OrderItem: item}
		if product, err := s.store.GetProduct(ctx, item.ProductID); err == nil {
			d.Product = product
		}
		detail.Items = append(detail.Items, d)
	}

	sort.Slice(detail.Items, func(i, j int) bool {
		return detail.Items[i].OrderItem.ID < detail.Items[j].OrderItem.ID
	})

	return detail
}
