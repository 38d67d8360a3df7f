package usecase

import (
	"context"
	"errors"
	"testing"

	domainErrors "github.com/pointsmall/pointsmall/internal/domain/errors"
	"github.com/pointsmall/pointsmall/internal/domain/model"
	testhelpers "github.com/pointsmall/pointsmall/internal/test"
)

func TestOrderUseCaseRedeemDelegates(t *testing.T) {
	repo := &testhelpers.OrderRepositoryStub{}
	uc := NewOrderUseCase(repo)

	order, err := uc.Redeem(context.Background(), "openid-1", 3)
	if err != nil {
		t.Fatalf("redeem returned error: %v", err)
	}
	if order.Status != model.OrderStatusPending {
		t.Fatalf("expected pending order, got %s", order.Status)
	}
	if len(repo.Redeemed) != 1 || repo.Redeemed[0] != "openid-1" {
		t.Fatalf("redeem call not recorded: %+v", repo.Redeemed)
	}
}

func TestOrderUseCaseRedeemPropagatesRejections(t *testing.T) {
	repo := &testhelpers.OrderRepositoryStub{
		RedeemFn: func(ctx context.Context, openID string, productID int64) (*model.RedeemOrder, error) {
			return nil, &domainErrors.OutOfStockError{ProductID: productID}
		},
	}
	uc := NewOrderUseCase(repo)

	_, err := uc.Redeem(context.Background(), "openid-1", 9)
	if !errors.Is(err, domainErrors.ErrOutOfStock) {
		t.Fatalf("expected out of stock error, got %v", err)
	}
}

func TestOrderUseCaseCancelRoutesOnRefund(t *testing.T) {
	repo := &testhelpers.OrderRepositoryStub{}
	uc := NewOrderUseCase(repo)

	ctx := context.Background()
	if _, err := uc.Cancel(ctx, "R1", "admin", false); err != nil {
		t.Fatalf("plain cancel failed: %v", err)
	}
	if len(repo.Cancelled) != 1 || len(repo.RefundCalls) != 0 {
		t.Fatalf("plain cancel must not refund: %+v", repo.RefundCalls)
	}

	if _, err := uc.Cancel(ctx, "R2", "admin", true); err != nil {
		t.Fatalf("refund cancel failed: %v", err)
	}
	if len(repo.RefundCalls) != 1 {
		t.Fatalf("expected one refund call, got %d", len(repo.RefundCalls))
	}
	if repo.RefundCalls[0].OrderNo != "R2" || repo.RefundCalls[0].Operator != "admin" {
		t.Fatalf("unexpected refund call: %+v", repo.RefundCalls[0])
	}
}

func TestOrderUseCaseFulfillInvalidState(t *testing.T) {
	repo := &testhelpers.OrderRepositoryStub{
		FulfillFn: func(ctx context.Context, orderNo string) (*model.RedeemOrder, error) {
			return nil, &domainErrors.InvalidOrderStateError{OrderNo: orderNo, Status: model.OrderStatusCancelled}
		},
	}
	uc := NewOrderUseCase(repo)

	_, err := uc.Fulfill(context.Background(), "R3")
	var badState *domainErrors.InvalidOrderStateError
	if !errors.As(err, &badState) {
		t.Fatalf("expected InvalidOrderStateError, got %v", err)
	}
	if badState.Status != model.OrderStatusCancelled {
		t.Fatalf("unexpected status in error: %s", badState.Status)
	}
}

func TestOrderUseCaseListNormalizesPaging(t *testing.T) {
	var gotPage, gotSize int
	repo := &testhelpers.OrderRepositoryStub{
		ListFn: func(ctx context.Context, status *model.OrderStatus, page, pageSize int) ([]model.RedeemOrder, int64, error) {
			gotPage, gotSize = page, pageSize
			return nil, 0, nil
		},
	}
	uc := NewOrderUseCase(repo)

	if _, _, err := uc.List(context.Background(), nil, -1, 0); err != nil {
		t.Fatalf("list returned error: %v", err)
	}
	if gotPage != 1 || gotSize != 20 {
		t.Fatalf("expected normalized paging 1/20, got %d/%d", gotPage, gotSize)
	}
}

func TestOrderUseCaseListByUserFilters(t *testing.T) {
	repo := &testhelpers.OrderRepositoryStub{
		Orders: []model.RedeemOrder{
			{OrderNo: "R1", OpenID: "alice"},
			{OrderNo: "R2", OpenID: "bob"},
			{OrderNo: "R3", OpenID: "alice"},
		},
	}
	uc := NewOrderUseCase(repo)

	orders, total, err := uc.ListByUser(context.Background(), "alice", 1, 20)
	if err != nil {
		t.Fatalf("list returned error: %v", err)
	}
	if total != 2 || len(orders) != 2 {
		t.Fatalf("unexpected page %d/%d", len(orders), total)
	}
}
