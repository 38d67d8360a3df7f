package usecase

import (
	"context"
	"strings"

	domainErrors "github.com/pointsmall/pointsmall/internal/domain/errors"
	"github.com/pointsmall/pointsmall/internal/domain/model"
	"github.com/pointsmall/pointsmall/internal/domain/repository"
)

// PointsUseCase manages balance mutations and ledger queries.
type PointsUseCase struct {
	ledger repository.LedgerRepository
	users  repository.UserRepository
}

// NewPointsUseCase constructs PointsUseCase.
func NewPointsUseCase(ledger repository.LedgerRepository, users repository.UserRepository) *PointsUseCase {
	return &PointsUseCase{ledger: ledger, users: users}
}

// Adjust applies a manual balance change on behalf of an operator. The
// ledger kind is derived from the delta sign; engine-driven debits and
// credits (redemption, refund) never go through here.
func (u *PointsUseCase) Adjust(ctx context.Context, openID string, delta int64, reason, operator string, refID *string) (*model.LedgerEntry, error) {
	if delta == 0 {
		return nil, domainErrors.ErrInvalidAdjustment
	}
	if strings.TrimSpace(reason) == "" || strings.TrimSpace(operator) == "" {
		return nil, domainErrors.ErrInvalidAdjustment
	}

	kind := model.LedgerKindManualAdd
	if delta < 0 {
		kind = model.LedgerKindManualSub
	}
	return u.ledger.Adjust(ctx, openID, delta, kind, reason, operator, refID)
}

// Ledger returns a page of the user's ledger entries newest-first with the
// total count.
func (u *PointsUseCase) Ledger(ctx context.Context, openID string, page, pageSize int) ([]model.LedgerEntry, int64, error) {
	page, pageSize = NormalizePage(page, pageSize)
	return u.ledger.ListByUser(ctx, openID, page, pageSize)
}

// LedgerSum replays the user's ledger as one aggregate delta. A healthy
// ledger sums to the user's current balance.
func (u *PointsUseCase) LedgerSum(ctx context.Context, openID string) (int64, error) {
	return u.ledger.SumDeltas(ctx, openID)
}

// LedgerOfExistingUser is the admin variant of Ledger: it fails with
// ErrNotFound when the user has never been seen.
func (u *PointsUseCase) LedgerOfExistingUser(ctx context.Context, openID string, page, pageSize int) ([]model.LedgerEntry, int64, error) {
	if _, err := u.users.GetByOpenID(ctx, openID); err != nil {
		return nil, 0, err
	}
	return u.Ledger(ctx, openID, page, pageSize)
}
