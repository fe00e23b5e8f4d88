package kafka

import "time"

// StockMovementEvent is emitted after a stock change has been committed
type StockMovementEvent struct {
	EventID      string    `json:"event_id"`
	EventType    string    `json:"event_type"`
	MovementID   string    `json:"movement_id"`
	ProductID    string    `json:"product_id"`
	MovementType string    `json:"movement_type"`
	Quantity     int       `json:"quantity"`
	NewQuantity  int       `json:"new_quantity"`
	Notes        string    `json:"notes"`
	Timestamp    time.Time `json:"timestamp"`
}

// Event types
const (
	EventTypeStockMovement = "stock.movement"
)

// Kafka topics
const (
	TopicStockMovements = "stock-movements"
)
