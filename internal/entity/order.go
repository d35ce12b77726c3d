package entity

import (
	"fmt"
	"time"
)

// Order is immutable once persisted. At most one order exists per
// (UserID, ProductCode) pair.
type Order struct {
	ID          string
	UserID      string
	ProductCode string
	Quantity    int
	CreatedAt   time.Time
}

// CreateOrderRequest is the input value object for order creation. RequestID is
// optional and only echoed into logs; dedup runs on (UserID, ProductCode).
type CreateOrderRequest struct {
	UserID      string
	ProductCode string
	Quantity    int
	RequestID   string
}

// Validate checks the request shape. Catalog membership is the ledger's call.
func (r CreateOrderRequest) Validate() error {
	if r.UserID == "" {
		return fmt.Errorf("%w: userId must be provided", ErrOrderValidation)
	}
	if r.ProductCode == "" {
		return fmt.Errorf("%w: productCode must be provided", ErrOrderValidation)
	}
	if r.Quantity <= 0 {
		return fmt.Errorf("%w: quantity must be greater than zero", ErrOrderValidation)
	}
	return nil
}

type OrderConfirmation struct {
	OrderID   string
	Message   string
	CreatedAt time.Time
}
