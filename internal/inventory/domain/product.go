package domain

import (
	"time"
)

// Product represents a countable inventory unit. Quantity is the
// authoritative current stock count and is mutated only through the
// transaction coordinator.
type Product struct {
	ID        string    `json:"id" gorm:"primaryKey;size:36"`
	Name      string    `json:"name" gorm:"not null"`
	SKU       string    `json:"sku" gorm:"uniqueIndex;not null"`
	Price     float64   `json:"price" gorm:"not null"`
	Quantity  int       `json:"quantity" gorm:"not null;default:0"`
	MinLevel  int       `json:"min_level" gorm:"not null;default:0"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName specifies the table name
func (Product) TableName() string {
	return "products"
}

// IsLowStock reports whether quantity has fallen below the reorder threshold
func (p *Product) IsLowStock() bool {
	return p.Quantity < p.MinLevel
}
