// Package domain defines the inventory entities, the storage ports and the
// error taxonomy shared by every layer of the service.
package domain

import (
	"errors"
	"fmt"
)

// ValidationError is returned for malformed input, rejected before any
// state is touched
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed: field=%s, reason=%s", e.Field, e.Reason)
}

// Is allows error type checking with errors.Is()
func (e *ValidationError) Is(target error) bool {
	_, ok := target.(*ValidationError)
	return ok
}

// ProductNotFoundError is returned when a referenced product does not exist
type ProductNotFoundError struct {
	ProductID string
}

func (e *ProductNotFoundError) Error() string {
	return fmt.Sprintf("product not found: id=%s", e.ProductID)
}

// Is allows error type checking with errors.Is()
func (e *ProductNotFoundError) Is(target error) bool {
	_, ok := target.(*ProductNotFoundError)
	return ok
}

// InsufficientStockError is returned when an operation would drive a
// product quantity negative. It is an expected, routine outcome.
type InsufficientStockError struct {
	ProductID string
	Name      string
	Requested int
	Available int
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("insufficient stock for product %s (%s): requested=%d, available=%d",
		e.Name, e.ProductID, e.Requested, e.Available)
}

// Is allows error type checking with errors.Is()
func (e *InsufficientStockError) Is(target error) bool {
	_, ok := target.(*InsufficientStockError)
	return ok
}

// DuplicateSKUError is returned when creating a product with an SKU that
// already exists
type DuplicateSKUError struct {
	SKU string
}

func (e *DuplicateSKUError) Error() string {
	return fmt.Sprintf("duplicate SKU: %s already exists", e.SKU)
}

// Is allows error type checking with errors.Is()
func (e *DuplicateSKUError) Is(target error) bool {
	_, ok := target.(*DuplicateSKUError)
	return ok
}

// IsValidation checks if an error is a ValidationError
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// IsProductNotFound checks if an error is a ProductNotFoundError
func IsProductNotFound(err error) bool {
	var nf *ProductNotFoundError
	return errors.As(err, &nf)
}

// IsInsufficientStock checks if an error is an InsufficientStockError
func IsInsufficientStock(err error) bool {
	var is *InsufficientStockError
	return errors.As(err, &is)
}

// IsDuplicateSKU checks if an error is a DuplicateSKUError
func IsDuplicateSKU(err error) bool {
	var d *DuplicateSKUError
	return errors.As(err, &d)
}
