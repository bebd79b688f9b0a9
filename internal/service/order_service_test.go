package service

import (
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/prn-tf/grouporder-hub/internal/domain"
	"github.com/prn-tf/grouporder-hub/internal/store"
)

type orderFixture struct {
	store   *store.Store
	users   *UserService
	catalog *CatalogService
	orders  *OrderService

	anna   *domain.User
	ben    *domain.User
	coffee *domain.Product
	tea    *domain.Product
}

func newOrderFixture(t *testing.T) *orderFixture {
	t.Helper()

	st := newTestStore(t)
	f := &orderFixture{
		store:   st,
		users:   NewUserService(st, nil, zerolog.Nop()),
		catalog: NewCatalogService(st, zerolog.Nop()),
		orders:  NewOrderService(st, zerolog.Nop()),
	}

	ctx := context.Background()
	var err error

	f.anna, err = f.users.Register(ctx, RegisterInput{Username: "anna", Password: "long enough", GroupName: "Team A"})
	require.NoError(t, err)
	f.ben, err = f.users.Register(ctx, RegisterInput{Username: "ben", Password: "long enough", GroupName: "Office 1"})
	require.NoError(t, err)

	f.coffee, err = f.catalog.Create(ctx, CreateProductInput{Name: "Coffee", Price: 2.5, Category: "Drinks"})
	require.NoError(t, err)
	f.tea, err = f.catalog.Create(ctx, CreateProductInput{Name: "Tea", Price: 1.5, Category: "Drinks"})
	require.NoError(t, err)

	return f
}

func TestPlaceOrderComputesTotalAndSnapshotsPrices(t *testing.T) {
	ctx := context.Background()
	f := newOrderFixture(t)

	detail, err := f.orders.Place(ctx, PlaceOrderInput{
		UserID: f.anna.ID,
		Items: []PlaceOrderItemInput{
			{ProductID: f.coffee.ID, Quantity: 2},
			{ProductID: f.tea.ID, Quantity: 1},
		},
	})
	require.NoError(t, err)

	assert.Equal(t, 6.5, detail.Order.Total)
	assert.Equal(t, domain.OrderStatusPending, detail.Order.Status)
	require.Len(t, detail.Items, 2)

	// Later price changes must not affect the placed order.
	newPrice := 9.99
	_, err = f.catalog.Update(ctx, f.coffee.ID, domain.ProductPatch{Price: &newPrice})
	require.NoError(t, err)

	reloaded, err := f.orders.GetByID(ctx, detail.Order.ID)
	require.NoError(t, err)
	assert.Equal(t, 6.5, reloaded.Order.Total)
	assert.Equal(t, 2.5, reloaded.Items[0].OrderItem.Price)
}

func TestPlaceOrderValidation(t *testing.T) {
	ctx := context.Background()
	f := newOrderFixture(t)

	_, err := f.orders.Place(ctx, PlaceOrderInput{UserID: f.anna.ID})
	assert.ErrorIs(t, err, ErrEmptyOrder)

	_, err = f.orders.Place(ctx, PlaceOrderInput{
		UserID: f.anna.ID,
		Items:  []PlaceOrderItemInput{{ProductID: f.coffee.ID, Quantity: 0}},
	})
	assert.ErrorIs(t, err, ErrInvalidQuantity)

	_, err = f.orders.Place(ctx, PlaceOrderInput{
		UserID: f.anna.ID,
		Items:  []PlaceOrderItemInput{{ProductID: 999, Quantity: 1}},
	})
	assert.ErrorIs(t, err, ErrProductNotFound)
}

func TestListByGroupExpandsOwner(t *testing.T) {
	ctx := context.Background()
	f := newOrderFixture(t)

	_, err := f.orders.Place(ctx, PlaceOrderInput{
		UserID: f.anna.ID,
		Items:  []PlaceOrderItemInput{{ProductID: f.coffee.ID, Quantity: 1}},
	})
	require.NoError(t, err)
	_, err = f.orders.Place(ctx, PlaceOrderInput{
		UserID: f.ben.ID,
		Items:  []PlaceOrderItemInput{{ProductID: f.tea.ID, Quantity: 1}},
	})
	require.NoError(t, err)

	details := f.orders.ListByGroup(ctx, "team a")
	require.Len(t, details, 1)
	require.NotNil(t, details[0].User)
	assert.Equal(t, f.anna.ID, details[0].User.ID)
	require.Len(t, details[0].Items, 1)
	require.NotNil(t, details[0].Items[0].Product)
	assert.Equal(t, "Coffee", details[0].Items[0].Product.Name)
}

func TestExpandToleratesDeletedProduct(t *testing.T) {
	ctx := context.Background()
	f := newOrderFixture(t)

	detail, err := f.orders.Place(ctx, PlaceOrderInput{
		UserID: f.anna.ID,
		Items:  []PlaceOrderItemInput{{ProductID: f.coffee.ID, Quantity: 1}},
	})
	require.NoError(t, err)

	require.NoError(t, f.catalog.Delete(ctx, f.coffee.ID))

	reloaded, err := f.orders.GetByID(ctx, detail.Order.ID)
	require.NoError(t, err)
	require.Len(t, reloaded.Items, 1)
	assert.Nil(t, reloaded.Items[0].Product)
	assert.Equal(t, 2.5, reloaded.Items[0].OrderItem.Price, "snapshot survives product deletion")
}

func TestUpdateStatus(t *testing.T) {
	ctx := context.Background()
	f := newOrderFixture(t)

	detail, err := f.orders.Place(ctx, PlaceOrderInput{
		UserID: f.anna.ID,
		Items:  []PlaceOrderItemInput{{ProductID: f.coffee.ID, Quantity: 1}},
	})
	require.NoError(t, err)

	order, err := f.orders.UpdateStatus(ctx, detail.Order.ID, domain.OrderStatusCompleted)
	require.NoError(t, err)
	assert.Equal(t, domain.OrderStatusCompleted, order.Status)

	_, err = f.orders.UpdateStatus(ctx, 999, domain.OrderStatusCompleted)
	assert.ErrorIs(t, err, ErrOrderNotFound)
}
