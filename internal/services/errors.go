package services

import (
	"errors"
	"fmt"
)

var (
	// ErrEmptyCart is returned when checkout finds no resolvable items.
	ErrEmptyCart = errors.New("cart is empty")

	// ErrOrderNotFound is returned when a referenced order does not exist.
	ErrOrderNotFound = errors.New("order not found")

	// ErrSignatureVerification is returned when a payment signature or
	// webhook signature does not match the expected value.
	ErrSignatureVerification = errors.New("signature verification failed")
)

// InvalidAmountError reports an order amount below the gateway minimum.
type InvalidAmountError struct {
	AmountMinor int64
}

func (e *InvalidAmountError) Error() string {
	return fmt.Sprintf("invalid amount: amount_minor=%d", e.AmountMinor)
}

// GatewayError wraps an upstream payment-provider failure.
type GatewayError struct {
	Status int
	Detail string
	Err    error
}

func (e *GatewayError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("gateway error: %v", e.Err)
	}
	return fmt.Sprintf("gateway error: status=%d detail=%s", e.Status, e.Detail)
}

func (e *GatewayError) Unwrap() error {
	return e.Err
}

// CategoryInUseError reports a category deletion blocked by products that
// still reference it.
type CategoryInUseError struct {
	Name  string
	Count int64
}

func (e *CategoryInUseError) Error() string {
	return fmt.Sprintf("category %q is referenced by %d product(s)", e.Name, e.Count)
}
