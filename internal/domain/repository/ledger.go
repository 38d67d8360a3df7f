package repository

import (
	"context"

	"github.com/pointsmall/pointsmall/internal/domain/model"
)

// LedgerRepository is the single write path for points balances. Every
// balance change appends exactly one ledger entry in the same transaction.
type LedgerRepository interface {
	// Adjust applies a signed delta to the user's balance, creating the user
	// with a zero balance if absent. A result below zero fails with an
	// InsufficientBalanceError and writes nothing.
	Adjust(ctx context.Context, openID string, delta int64, kind model.LedgerKind, reason, operator string, refID *string) (*model.LedgerEntry, error)

	// ListByUser returns a page of entries newest-first plus the total count.
	ListByUser(ctx context.Context, openID string, page, pageSize int) ([]model.LedgerEntry, int64, error)

	// SumDeltas replays the user's whole ledger as a single aggregate. Used
	// to audit that the ledger still reconciles with the stored balance.
	SumDeltas(ctx context.Context, openID string) (int64, error)
}
