package domain

import (
	"time"
)

// MovementType classifies a stock change. Quantity on a movement is always
// a positive magnitude; direction is encoded by the type.
type MovementType string

const (
	MovementIn         MovementType = "IN"
	MovementOut        MovementType = "OUT"
	MovementAdjustment MovementType = "ADJUSTMENT"
)

// Valid reports whether t is a known movement type
func (t MovementType) Valid() bool {
	switch t {
	case MovementIn, MovementOut, MovementAdjustment:
		return true
	}
	return false
}

// SignedDelta converts a positive magnitude into the signed quantity delta
// this movement type applies to a product
func (t MovementType) SignedDelta(amount int) int {
	if t == MovementOut {
		return -amount
	}
	return amount
}

// Movement is one immutable record of a stock quantity change. Movements are
// only ever appended, never updated or deleted.
type Movement struct {
	ID        string       `json:"id" gorm:"primaryKey;size:36"`
	ProductID string       `json:"product_id" gorm:"size:36;not null;index"`
	Type      MovementType `json:"type" gorm:"size:16;not null"`
	Quantity  int          `json:"quantity" gorm:"not null"`
	Notes     string       `json:"notes"`
	CreatedAt time.Time    `json:"created_at" gorm:"index"`
}

// TableName specifies the table name
func (Movement) TableName() string {
	return "movements"
}

// MovementWithProduct is a movement joined with product identity for display
type MovementWithProduct struct {
	ID          string       `json:"id"`
	ProductID   string       `json:"product_id"`
	Type        MovementType `json:"type"`
	Quantity    int          `json:"quantity"`
	Notes       string       `json:"notes"`
	CreatedAt   time.Time    `json:"created_at"`
	ProductName string       `json:"product_name"`
	ProductSKU  string       `json:"product_sku"`
}
