package errors

import (
	"errors"
	"fmt"

	"github.com/pointsmall/pointsmall/internal/domain/model"
)

// Sentinel errors. The typed errors below implement Is against these so
// callers can branch with errors.Is without losing the structured context
// carried by the concrete type.
var (
	ErrNotFound            = errors.New("not found")
	ErrAlreadyExists       = errors.New("already exists")
	ErrInvalidCredentials  = errors.New("invalid credentials")
	ErrInvalidAdjustment   = errors.New("invalid adjustment")
	ErrInsufficientBalance = errors.New("insufficient balance")
	ErrOutOfStock          = errors.New("out of stock")
	ErrProductNotFound     = errors.New("product not found")
	ErrProductNotActive    = errors.New("product not active")
	ErrOrderNotFound       = errors.New("order not found")
	ErrInvalidOrderState   = errors.New("invalid order state")

	// ErrLockTimeout signals that a transaction could not acquire its row
	// locks in time. It is transient: callers may retry, and it must never
	// be reported as a business failure.
	ErrLockTimeout = errors.New("lock acquisition timed out")
)

// InsufficientBalanceError reports a debit that would drive the balance
// negative, with enough context to render a precise message.
type InsufficientBalanceError struct {
	Balance  int64
	Required int64
}

func (e *InsufficientBalanceError) Error() string {
	return fmt.Sprintf("insufficient balance: have %d, need %d", e.Balance, e.Required)
}

func (e *InsufficientBalanceError) Is(target error) bool {
	return target == ErrInsufficientBalance
}

// Shortfall returns how many points are missing.
func (e *InsufficientBalanceError) Shortfall() int64 {
	return e.Required - e.Balance
}

// OutOfStockError reports a redemption against an exhausted product.
type OutOfStockError struct {
	ProductID int64
}

func (e *OutOfStockError) Error() string {
	return fmt.Sprintf("product %d is out of stock", e.ProductID)
}

func (e *OutOfStockError) Is(target error) bool {
	return target == ErrOutOfStock
}

// ProductNotFoundError reports a reference to an unknown product.
type ProductNotFoundError struct {
	ProductID int64
}

func (e *ProductNotFoundError) Error() string {
	return fmt.Sprintf("product %d not found", e.ProductID)
}

func (e *ProductNotFoundError) Is(target error) bool {
	return target == ErrProductNotFound
}

// ProductNotActiveError reports a redemption against a delisted product.
type ProductNotActiveError struct {
	ProductID int64
}

func (e *ProductNotActiveError) Error() string {
	return fmt.Sprintf("product %d is not active", e.ProductID)
}

func (e *ProductNotActiveError) Is(target error) bool {
	return target == ErrProductNotActive
}

// OrderNotFoundError reports a reference to an unknown order number.
type OrderNotFoundError struct {
	OrderNo string
}

func (e *OrderNotFoundError) Error() string {
	return fmt.Sprintf("order %s not found", e.OrderNo)
}

func (e *OrderNotFoundError) Is(target error) bool {
	return target == ErrOrderNotFound
}

// InvalidOrderStateError reports a transition attempted from a state other
// than PENDING.
type InvalidOrderStateError struct {
	OrderNo string
	Status  model.OrderStatus
}

func (e *InvalidOrderStateError) Error() string {
	return fmt.Sprintf("order %s is %s, only pending orders allowed", e.OrderNo, e.Status)
}

func (e *InvalidOrderStateError) Is(target error) bool {
	return target == ErrInvalidOrderState
}
