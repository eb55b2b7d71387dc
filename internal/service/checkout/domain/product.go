package domain

import "time"

// ProductStatus is the catalog lifecycle of a product.
type ProductStatus string

const (
	ProductActive   ProductStatus = "ACTIVE"
	ProductDraft    ProductStatus = "DRAFT"
	ProductArchived ProductStatus = "ARCHIVED"
)

// Product is the catalog entity the checkout flow reads prices and stock from.
// Quantity is only ever mutated through ProductRepository.ReserveStock; the
// application layer never does read-modify-write on it.
type Product struct {
	ID        uint64
	Name      string
	Price     float64
	Quantity  int
	Status    ProductStatus
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Purchasable reports whether the product may appear on a new order.
func (p *Product) Purchasable() bool {
	return p.Status == ProductActive
}
