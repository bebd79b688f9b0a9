package domain

import "time"

// Order status values. These are informational: the store accepts any
// status string and performs no transition validation. The calling
// layer decides how strict to be.
const (
	OrderStatusPending    = "pending"
	OrderStatusProcessing = "processing"
	OrderStatusCompleted  = "completed"
	OrderStatusCancelled  = "cancelled"
)

// Order represents a single purchase placed by a user.
type Order struct {
	// ID is the unique identifier for the order (monotonic, never
	// recycled).
	ID int64 `json:"id"`

	// UserID is the owning user. Existence is not enforced at write
	// time; group and user-detail queries silently skip orders whose
	// owner no longer exists.
	UserID int64 `json:"userId"`

	// Status is the current order status. Initially "pending".
	Status string `json:"status"`

	// Total is the caller-supplied order total. It is not recomputed
	// from the order items.
	Total float64 `json:"total"`

	// CreatedAt is stamped when the order is created and never changes.
	CreatedAt time.Time `json:"createdAt"`

	// OrderDate is the caller-supplied delivery/pickup date. Defaults
	// to the creation time when absent.
	OrderDate time.Time `json:"orderDate"`
}

// OrderItem is one line of an order, with a snapshot of the unit price
// at purchase time. Items are immutable once created and disappear only
// when their owning user is deleted (through the parent order).
type OrderItem struct {
	// ID is the unique identifier for the item (monotonic).
	ID int64 `json:"id"`

	// OrderID is the parent order.
	OrderID int64 `json:"orderId"`

	// ProductID is the ordered product. Not validated at write time.
	ProductID int64 `json:"productId"`

	// Quantity is the number of units ordered.
	Quantity int `json:"quantity"`

	// Price is the unit price at order time, decoupled from the live
	// product price.
	Price float64 `json:"price"`
}
