package domain

// CategoryAll is the reserved query wildcard for product category filters.
// It is never a storable category value: filtering by it returns every
// product.
const CategoryAll = "All"

// Product represents an item of the catalog users can order.
type Product struct {
	// ID is the unique identifier for the product (monotonic, never
	// recycled).
	ID int64 `json:"id"`

	// Name is the display name of the product.
	Name string `json:"name"`

	// Description is the free-text product description.
	Description string `json:"description"`

	// Price is the current unit price. Orders keep their own snapshot
	// of the price at purchase time, so changing this never rewrites
	// history.
	Price float64 `json:"price"`

	// Category is the free-text catalog category.
	Category string `json:"category"`

	// Available indicates whether the product can currently be ordered.
	Available bool `json:"available"`
}

// ProductPatch describes a partial update to a product. Nil fields keep
// the stored value; non-nil fields overwrite it.
type ProductPatch struct {
	Name        *string
	Description *string
	Price       *float64
	Category    *string
	Available   *bool
}

// Apply merges the patch into the given product.
func (p ProductPatch) Apply(prod *Product) {
	if p.Name != nil {
		prod.Name = *p.Name
	}
	if p.Description != nil {
		prod.Description = *p.Description
	}
	if p.Price != nil {
		prod.Price = *p.Price
	}
	if p.Category != nil {
		prod.Category = *p.Category
	}
	if p.Available != nil {
		prod.Available = *p.Available
	}
}
