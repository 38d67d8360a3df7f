package postgres

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	pgxmockv3 "github.com/pashagolub/pgxmock/v3"

	domainErrors "github.com/pointsmall/pointsmall/internal/domain/errors"
	"github.com/pointsmall/pointsmall/internal/domain/model"
	"github.com/pointsmall/pointsmall/internal/domain/repository"
)

func newMockStorage(t *testing.T) (*Storage, pgxmockv3.PgxPoolIface) {
	t.Helper()
	mock, err := pgxmockv3.NewPool()
	if err != nil {
		t.Fatalf("failed to create mock pool: %v", err)
	}
	logger := slog.New(slog.NewJSONHandler(io.Discard, nil))
	storage := &Storage{pool: mock, logger: logger, lockTimeout: 3 * time.Second}
	return storage, mock
}

func expectSchema(mock pgxmockv3.PgxPoolIface) {
	tableStatements := []string{
		"CREATE TABLE IF NOT EXISTS users",
		"CREATE TABLE IF NOT EXISTS points_ledger",
		"CREATE TABLE IF NOT EXISTS products",
		"CREATE TABLE IF NOT EXISTS redeem_orders",
	}
	for _, stmt := range tableStatements {
		mock.ExpectExec(stmt).WillReturnResult(pgxmockv3.NewResult("CREATE", 0))
	}
	mock.ExpectExec("CREATE INDEX IF NOT EXISTS idx_ledger_user ON points_ledger").WillReturnResult(pgxmockv3.NewResult("CREATE", 0))
	mock.ExpectExec("CREATE INDEX IF NOT EXISTS idx_orders_user ON redeem_orders").WillReturnResult(pgxmockv3.NewResult("CREATE", 0))
}

func expectTxStart(mock pgxmockv3.PgxPoolIface) {
	mock.ExpectBegin()
	mock.ExpectExec("SET LOCAL lock_timeout").WillReturnResult(pgxmockv3.NewResult("SET", 0))
}

func TestInitSchema(t *testing.T) {
	storage, mock := newMockStorage(t)
	defer mock.Close()

	expectSchema(mock)
	if err := storage.initSchema(context.Background()); err != nil {
		t.Fatalf("init schema failed: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations not met: %v", err)
	}
}

func TestInitSchemaError(t *testing.T) {
	storage, mock := newMockStorage(t)
	defer mock.Close()

	mock.ExpectExec("CREATE TABLE IF NOT EXISTS users").WillReturnError(errors.New("boom"))
	if err := storage.initSchema(context.Background()); err == nil {
		t.Fatal("expected error")
	}
}

func TestLedgerAdjustCredit(t *testing.T) {
	storage, mock := newMockStorage(t)
	defer mock.Close()
	now := time.Now()

	expectTxStart(mock)
	mock.ExpectExec("INSERT INTO users").WithArgs("openid-1").WillReturnResult(pgxmockv3.NewResult("INSERT", 1))
	mock.ExpectQuery("SELECT points_balance FROM users WHERE openid=").WithArgs("openid-1").
		WillReturnRows(pgxmockv3.NewRows([]string{"points_balance"}).AddRow(int64(100)))
	mock.ExpectExec("UPDATE users SET points_balance=").WithArgs(int64(150), "openid-1").
		WillReturnResult(pgxmockv3.NewResult("UPDATE", 1))
	mock.ExpectQuery("INSERT INTO points_ledger").
		WithArgs("openid-1", int64(50), int64(150), model.LedgerKindManualAdd, "gift", "admin", pgxmockv3.AnyArg()).
		WillReturnRows(pgxmockv3.NewRows([]string{"id", "created_at"}).AddRow(int64(7), now))
	mock.ExpectCommit()

	entry, err := storage.Ledger().Adjust(context.Background(), "openid-1", 50, model.LedgerKindManualAdd, "gift", "admin", nil)
	if err != nil {
		t.Fatalf("adjust failed: %v", err)
	}
	if entry.ID != 7 || entry.BalanceAfter != 150 || entry.Delta != 50 {
		t.Fatalf("unexpected entry: %+v", entry)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations not met: %v", err)
	}
}

func TestLedgerAdjustInsufficientBalanceRollsBack(t *testing.T) {
	storage, mock := newMockStorage(t)
	defer mock.Close()

	expectTxStart(mock)
	mock.ExpectExec("INSERT INTO users").WithArgs("openid-1").WillReturnResult(pgxmockv3.NewResult("INSERT", 0))
	mock.ExpectQuery("SELECT points_balance FROM users WHERE openid=").WithArgs("openid-1").
		WillReturnRows(pgxmockv3.NewRows([]string{"points_balance"}).AddRow(int64(30)))
	mock.ExpectRollback()

	_, err := storage.Ledger().Adjust(context.Background(), "openid-1", -100, model.LedgerKindManualSub, "correction", "admin", nil)
	if !errors.Is(err, domainErrors.ErrInsufficientBalance) {
		t.Fatalf("expected insufficient balance, got %v", err)
	}
	var insufficient *domainErrors.InsufficientBalanceError
	if !errors.As(err, &insufficient) || insufficient.Balance != 30 || insufficient.Required != 100 {
		t.Fatalf("unexpected error context: %+v", insufficient)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations not met: %v", err)
	}
}

func TestLedgerAdjustLockTimeout(t *testing.T) {
	storage, mock := newMockStorage(t)
	defer mock.Close()

	expectTxStart(mock)
	mock.ExpectExec("INSERT INTO users").WithArgs("openid-1").
		WillReturnError(&pgconn.PgError{Code: pgErrCodeLockNotAvailable})
	mock.ExpectRollback()

	_, err := storage.Ledger().Adjust(context.Background(), "openid-1", 10, model.LedgerKindManualAdd, "gift", "admin", nil)
	if !errors.Is(err, domainErrors.ErrLockTimeout) {
		t.Fatalf("expected lock timeout, got %v", err)
	}
}

func TestLedgerAdjustDeadlockMapped(t *testing.T) {
	storage, mock := newMockStorage(t)
	defer mock.Close()

	expectTxStart(mock)
	mock.ExpectExec("INSERT INTO users").WithArgs("openid-1").
		WillReturnError(&pgconn.PgError{Code: pgErrCodeDeadlockDetected})
	mock.ExpectRollback()

	_, err := storage.Ledger().Adjust(context.Background(), "openid-1", 10, model.LedgerKindManualAdd, "gift", "admin", nil)
	if !errors.Is(err, domainErrors.ErrLockTimeout) {
		t.Fatalf("expected deadlock to map to lock timeout, got %v", err)
	}
}

func TestRedeemSuccess(t *testing.T) {
	storage, mock := newMockStorage(t)
	defer mock.Close()
	now := time.Now()

	expectTxStart(mock)
	mock.ExpectExec("INSERT INTO users").WithArgs("openid-1").WillReturnResult(pgxmockv3.NewResult("INSERT", 0))
	mock.ExpectQuery("SELECT points_balance FROM users WHERE openid=").WithArgs("openid-1").
		WillReturnRows(pgxmockv3.NewRows([]string{"points_balance"}).AddRow(int64(500)))
	mock.ExpectQuery("SELECT name, points_cost, stock, is_active FROM products WHERE id=").WithArgs(int64(3)).
		WillReturnRows(pgxmockv3.NewRows([]string{"name", "points_cost", "stock", "is_active"}).AddRow("mug", int64(100), int64(5), true))
	mock.ExpectExec("UPDATE products SET stock=stock-1").WithArgs(int64(3)).
		WillReturnResult(pgxmockv3.NewResult("UPDATE", 1))
	mock.ExpectExec("UPDATE users SET points_balance=").WithArgs(int64(400), "openid-1").
		WillReturnResult(pgxmockv3.NewResult("UPDATE", 1))
	mock.ExpectQuery("INSERT INTO points_ledger").
		WithArgs("openid-1", int64(-100), int64(400), model.LedgerKindRedeem, "redeem product: mug", model.OperatorSystem, pgxmockv3.AnyArg()).
		WillReturnRows(pgxmockv3.NewRows([]string{"id", "created_at"}).AddRow(int64(11), now))
	mock.ExpectQuery("INSERT INTO redeem_orders").
		WithArgs(pgxmockv3.AnyArg(), "openid-1", int64(3), "mug", int64(100), model.OrderStatusPending).
		WillReturnRows(pgxmockv3.NewRows([]string{"id", "created_at", "updated_at"}).AddRow(int64(21), now, now))
	mock.ExpectCommit()

	order, err := storage.Orders().Redeem(context.Background(), "openid-1", 3)
	if err != nil {
		t.Fatalf("redeem failed: %v", err)
	}
	if order.Status != model.OrderStatusPending || order.PointsCost != 100 || order.ProductName != "mug" {
		t.Fatalf("unexpected order: %+v", order)
	}
	if !strings.HasPrefix(order.OrderNo, "R") || len(order.OrderNo) != 23 {
		t.Fatalf("unexpected order number %q", order.OrderNo)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations not met: %v", err)
	}
}

func TestRedeemUnlimitedStockSkipsDecrement(t *testing.T) {
	storage, mock := newMockStorage(t)
	defer mock.Close()
	now := time.Now()

	expectTxStart(mock)
	mock.ExpectExec("INSERT INTO users").WithArgs("openid-1").WillReturnResult(pgxmockv3.NewResult("INSERT", 0))
	mock.ExpectQuery("SELECT points_balance FROM users WHERE openid=").WithArgs("openid-1").
		WillReturnRows(pgxmockv3.NewRows([]string{"points_balance"}).AddRow(int64(500)))
	mock.ExpectQuery("SELECT name, points_cost, stock, is_active FROM products WHERE id=").WithArgs(int64(4)).
		WillReturnRows(pgxmockv3.NewRows([]string{"name", "points_cost", "stock", "is_active"}).AddRow("sticker", int64(10), model.StockUnlimited, true))
	mock.ExpectExec("UPDATE users SET points_balance=").WithArgs(int64(490), "openid-1").
		WillReturnResult(pgxmockv3.NewResult("UPDATE", 1))
	mock.ExpectQuery("INSERT INTO points_ledger").
		WithArgs("openid-1", int64(-10), int64(490), model.LedgerKindRedeem, "redeem product: sticker", model.OperatorSystem, pgxmockv3.AnyArg()).
		WillReturnRows(pgxmockv3.NewRows([]string{"id", "created_at"}).AddRow(int64(12), now))
	mock.ExpectQuery("INSERT INTO redeem_orders").
		WithArgs(pgxmockv3.AnyArg(), "openid-1", int64(4), "sticker", int64(10), model.OrderStatusPending).
		WillReturnRows(pgxmockv3.NewRows([]string{"id", "created_at", "updated_at"}).AddRow(int64(22), now, now))
	mock.ExpectCommit()

	if _, err := storage.Orders().Redeem(context.Background(), "openid-1", 4); err != nil {
		t.Fatalf("redeem failed: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations not met: %v", err)
	}
}

func TestRedeemRejections(t *testing.T) {
	cases := []struct {
		name    string
		stock   int64
		active  bool
		balance int64
		want    error
	}{
		{"inactive product", 5, false, 500, domainErrors.ErrProductNotActive},
		{"insufficient balance", 5, true, 30, domainErrors.ErrInsufficientBalance},
		{"out of stock", 0, true, 500, domainErrors.ErrOutOfStock},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			storage, mock := newMockStorage(t)
			defer mock.Close()

			expectTxStart(mock)
			mock.ExpectExec("INSERT INTO users").WithArgs("openid-1").WillReturnResult(pgxmockv3.NewResult("INSERT", 0))
			mock.ExpectQuery("SELECT points_balance FROM users WHERE openid=").WithArgs("openid-1").
				WillReturnRows(pgxmockv3.NewRows([]string{"points_balance"}).AddRow(tc.balance))
			mock.ExpectQuery("SELECT name, points_cost, stock, is_active FROM products WHERE id=").WithArgs(int64(3)).
				WillReturnRows(pgxmockv3.NewRows([]string{"name", "points_cost", "stock", "is_active"}).AddRow("mug", int64(100), tc.stock, tc.active))
			mock.ExpectRollback()

			_, err := storage.Orders().Redeem(context.Background(), "openid-1", 3)
			if !errors.Is(err, tc.want) {
				t.Fatalf("expected %v, got %v", tc.want, err)
			}
			if err := mock.ExpectationsWereMet(); err != nil {
				t.Fatalf("expectations not met: %v", err)
			}
		})
	}
}

func TestRedeemMissingProduct(t *testing.T) {
	storage, mock := newMockStorage(t)
	defer mock.Close()

	expectTxStart(mock)
	mock.ExpectExec("INSERT INTO users").WithArgs("openid-1").WillReturnResult(pgxmockv3.NewResult("INSERT", 0))
	mock.ExpectQuery("SELECT points_balance FROM users WHERE openid=").WithArgs("openid-1").
		WillReturnRows(pgxmockv3.NewRows([]string{"points_balance"}).AddRow(int64(500)))
	mock.ExpectQuery("SELECT name, points_cost, stock, is_active FROM products WHERE id=").WithArgs(int64(9)).
		WillReturnError(pgx.ErrNoRows)
	mock.ExpectRollback()

	_, err := storage.Orders().Redeem(context.Background(), "openid-1", 9)
	var notFound *domainErrors.ProductNotFoundError
	if !errors.As(err, &notFound) || notFound.ProductID != 9 {
		t.Fatalf("expected ProductNotFoundError(9), got %v", err)
	}
}

func TestFulfillPendingOrder(t *testing.T) {
	storage, mock := newMockStorage(t)
	defer mock.Close()
	now := time.Now()

	expectTxStart(mock)
	mock.ExpectQuery("SELECT id, order_no, openid, product_id, product_name, points_cost, status, created_at, updated_at FROM redeem_orders WHERE order_no=").
		WithArgs("R1").
		WillReturnRows(pgxmockv3.NewRows([]string{"id", "order_no", "openid", "product_id", "product_name", "points_cost", "status", "created_at", "updated_at"}).
			AddRow(int64(9), "R1", "alice", int64(3), "mug", int64(100), model.OrderStatusPending, now, now))
	mock.ExpectQuery("UPDATE redeem_orders SET status=").WithArgs(model.OrderStatusFulfilled, int64(9)).
		WillReturnRows(pgxmockv3.NewRows([]string{"updated_at"}).AddRow(now))
	mock.ExpectCommit()

	order, err := storage.Orders().Fulfill(context.Background(), "R1")
	if err != nil {
		t.Fatalf("fulfill failed: %v", err)
	}
	if order.Status != model.OrderStatusFulfilled {
		t.Fatalf("unexpected status %s", order.Status)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations not met: %v", err)
	}
}

func TestFulfillNonPendingOrder(t *testing.T) {
	storage, mock := newMockStorage(t)
	defer mock.Close()
	now := time.Now()

	expectTxStart(mock)
	mock.ExpectQuery("SELECT id, order_no, openid, product_id, product_name, points_cost, status, created_at, updated_at FROM redeem_orders WHERE order_no=").
		WithArgs("R1").
		WillReturnRows(pgxmockv3.NewRows([]string{"id", "order_no", "openid", "product_id", "product_name", "points_cost", "status", "created_at", "updated_at"}).
			AddRow(int64(9), "R1", "alice", int64(3), "mug", int64(100), model.OrderStatusCancelled, now, now))
	mock.ExpectRollback()

	_, err := storage.Orders().Fulfill(context.Background(), "R1")
	if !errors.Is(err, domainErrors.ErrInvalidOrderState) {
		t.Fatalf("expected invalid order state, got %v", err)
	}
}

func TestCancelWithRefundRestoresStock(t *testing.T) {
	storage, mock := newMockStorage(t)
	defer mock.Close()
	now := time.Now()

	expectTxStart(mock)
	mock.ExpectQuery("SELECT id, order_no, openid, product_id, product_name, points_cost, status, created_at, updated_at FROM redeem_orders WHERE order_no=").
		WithArgs("R1").
		WillReturnRows(pgxmockv3.NewRows([]string{"id", "order_no", "openid", "product_id", "product_name", "points_cost", "status", "created_at", "updated_at"}).
			AddRow(int64(9), "R1", "alice", int64(3), "mug", int64(100), model.OrderStatusPending, now, now))
	mock.ExpectExec("INSERT INTO users").WithArgs("alice").WillReturnResult(pgxmockv3.NewResult("INSERT", 0))
	mock.ExpectQuery("SELECT points_balance FROM users WHERE openid=").WithArgs("alice").
		WillReturnRows(pgxmockv3.NewRows([]string{"points_balance"}).AddRow(int64(50)))
	mock.ExpectExec("UPDATE users SET points_balance=").WithArgs(int64(150), "alice").
		WillReturnResult(pgxmockv3.NewResult("UPDATE", 1))
	mock.ExpectQuery("INSERT INTO points_ledger").
		WithArgs("alice", int64(100), int64(150), model.LedgerKindRefund, "cancel order refund: mug", "admin", pgxmockv3.AnyArg()).
		WillReturnRows(pgxmockv3.NewRows([]string{"id", "created_at"}).AddRow(int64(13), now))
	mock.ExpectQuery("SELECT stock FROM products WHERE id=").WithArgs(int64(3)).
		WillReturnRows(pgxmockv3.NewRows([]string{"stock"}).AddRow(int64(4)))
	mock.ExpectExec(`UPDATE products SET stock=stock\+1`).WithArgs(int64(3)).
		WillReturnResult(pgxmockv3.NewResult("UPDATE", 1))
	mock.ExpectQuery("UPDATE redeem_orders SET status=").WithArgs(model.OrderStatusCancelled, int64(9)).
		WillReturnRows(pgxmockv3.NewRows([]string{"updated_at"}).AddRow(now))
	mock.ExpectCommit()

	order, err := storage.Orders().CancelWithRefund(context.Background(), "R1", "admin")
	if err != nil {
		t.Fatalf("cancel with refund failed: %v", err)
	}
	if order.Status != model.OrderStatusCancelled {
		t.Fatalf("unexpected status %s", order.Status)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations not met: %v", err)
	}
}

func TestCancelWithRefundProductGone(t *testing.T) {
	storage, mock := newMockStorage(t)
	defer mock.Close()
	now := time.Now()

	expectTxStart(mock)
	mock.ExpectQuery("SELECT id, order_no, openid, product_id, product_name, points_cost, status, created_at, updated_at FROM redeem_orders WHERE order_no=").
		WithArgs("R1").
		WillReturnRows(pgxmockv3.NewRows([]string{"id", "order_no", "openid", "product_id", "product_name", "points_cost", "status", "created_at", "updated_at"}).
			AddRow(int64(9), "R1", "alice", int64(3), "mug", int64(100), model.OrderStatusPending, now, now))
	mock.ExpectExec("INSERT INTO users").WithArgs("alice").WillReturnResult(pgxmockv3.NewResult("INSERT", 0))
	mock.ExpectQuery("SELECT points_balance FROM users WHERE openid=").WithArgs("alice").
		WillReturnRows(pgxmockv3.NewRows([]string{"points_balance"}).AddRow(int64(50)))
	mock.ExpectExec("UPDATE users SET points_balance=").WithArgs(int64(150), "alice").
		WillReturnResult(pgxmockv3.NewResult("UPDATE", 1))
	mock.ExpectQuery("INSERT INTO points_ledger").
		WithArgs("alice", int64(100), int64(150), model.LedgerKindRefund, "cancel order refund: mug", "admin", pgxmockv3.AnyArg()).
		WillReturnRows(pgxmockv3.NewRows([]string{"id", "created_at"}).AddRow(int64(14), now))
	mock.ExpectQuery("SELECT stock FROM products WHERE id=").WithArgs(int64(3)).
		WillReturnError(pgx.ErrNoRows)
	mock.ExpectQuery("UPDATE redeem_orders SET status=").WithArgs(model.OrderStatusCancelled, int64(9)).
		WillReturnRows(pgxmockv3.NewRows([]string{"updated_at"}).AddRow(now))
	mock.ExpectCommit()

	order, err := storage.Orders().CancelWithRefund(context.Background(), "R1", "admin")
	if err != nil {
		t.Fatalf("refund must survive deleted product: %v", err)
	}
	if order.Status != model.OrderStatusCancelled {
		t.Fatalf("unexpected status %s", order.Status)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations not met: %v", err)
	}
}

func TestUserGetByOpenIDNotFound(t *testing.T) {
	storage, mock := newMockStorage(t)
	defer mock.Close()

	mock.ExpectQuery("SELECT id, openid, nickname, avatar_url, points_balance, created_at, updated_at").
		WithArgs("missing").WillReturnError(pgx.ErrNoRows)

	_, err := storage.Users().GetByOpenID(context.Background(), "missing")
	if !errors.Is(err, domainErrors.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestUserListWithKeyword(t *testing.T) {
	storage, mock := newMockStorage(t)
	defer mock.Close()
	now := time.Now()

	mock.ExpectQuery("SELECT COUNT").WithArgs("%ali%").
		WillReturnRows(pgxmockv3.NewRows([]string{"count"}).AddRow(int64(1)))
	mock.ExpectQuery("SELECT id, openid, nickname, avatar_url, points_balance, created_at, updated_at").
		WithArgs("%ali%", 20, 0).
		WillReturnRows(pgxmockv3.NewRows([]string{"id", "openid", "nickname", "avatar_url", "points_balance", "created_at", "updated_at"}).
			AddRow(int64(1), "alice", nil, nil, int64(100), now, now))

	users, total, err := storage.Users().List(context.Background(), "ali", 1, 20)
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if total != 1 || len(users) != 1 || users[0].OpenID != "alice" {
		t.Fatalf("unexpected result: %+v total=%d", users, total)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations not met: %v", err)
	}
}

func TestLedgerListByUser(t *testing.T) {
	storage, mock := newMockStorage(t)
	defer mock.Close()
	now := time.Now()

	mock.ExpectQuery("SELECT COUNT").WithArgs("alice").
		WillReturnRows(pgxmockv3.NewRows([]string{"count"}).AddRow(int64(2)))
	mock.ExpectQuery("SELECT id, openid, delta, balance_after, kind, reason, operator, ref_id, created_at").
		WithArgs("alice", 20, 0).
		WillReturnRows(pgxmockv3.NewRows([]string{"id", "openid", "delta", "balance_after", "kind", "reason", "operator", "ref_id", "created_at"}).
			AddRow(int64(2), "alice", int64(-100), int64(0), model.LedgerKindRedeem, "redeem product: mug", model.OperatorSystem, nil, now).
			AddRow(int64(1), "alice", int64(100), int64(100), model.LedgerKindManualAdd, "gift", "admin", nil, now))

	entries, total, err := storage.Ledger().ListByUser(context.Background(), "alice", 1, 20)
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if total != 2 || len(entries) != 2 {
		t.Fatalf("unexpected page %d/%d", len(entries), total)
	}
	if entries[0].ID != 2 {
		t.Fatalf("expected newest-first order, got %+v", entries[0])
	}
}

func TestLedgerSumDeltas(t *testing.T) {
	storage, mock := newMockStorage(t)
	defer mock.Close()

	mock.ExpectQuery("SELECT COALESCE").WithArgs("alice").
		WillReturnRows(pgxmockv3.NewRows([]string{"coalesce"}).AddRow(int64(130)))

	sum, err := storage.Ledger().SumDeltas(context.Background(), "alice")
	if err != nil {
		t.Fatalf("sum failed: %v", err)
	}
	if sum != 130 {
		t.Fatalf("unexpected sum %d", sum)
	}
}

func TestProductUpdateNotFound(t *testing.T) {
	storage, mock := newMockStorage(t)
	defer mock.Close()

	mock.ExpectQuery("UPDATE products SET").WithArgs(int64(9), int64(55)).
		WillReturnError(pgx.ErrNoRows)

	cost := int64(55)
	_, err := storage.Products().Update(context.Background(), 9, repository.ProductPatch{PointsCost: &cost})
	var notFound *domainErrors.ProductNotFoundError
	if !errors.As(err, &notFound) || notFound.ProductID != 9 {
		t.Fatalf("expected ProductNotFoundError(9), got %v", err)
	}
}

func TestOrderListByStatus(t *testing.T) {
	storage, mock := newMockStorage(t)
	defer mock.Close()
	now := time.Now()

	status := model.OrderStatusPending
	mock.ExpectQuery("SELECT COUNT").WithArgs(status).
		WillReturnRows(pgxmockv3.NewRows([]string{"count"}).AddRow(int64(1)))
	mock.ExpectQuery("SELECT id, order_no, openid, product_id, product_name, points_cost, status, created_at, updated_at").
		WithArgs(status, 20, 0).
		WillReturnRows(pgxmockv3.NewRows([]string{"id", "order_no", "openid", "product_id", "product_name", "points_cost", "status", "created_at", "updated_at"}).
			AddRow(int64(9), "R1", "alice", int64(3), "mug", int64(100), status, now, now))

	orders, total, err := storage.Orders().List(context.Background(), &status, 1, 20)
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if total != 1 || len(orders) != 1 || orders[0].OrderNo != "R1" {
		t.Fatalf("unexpected result: %+v total=%d", orders, total)
	}
}

func TestHealthCheck(t *testing.T) {
	storage, mock := newMockStorage(t)
	defer mock.Close()

	mock.ExpectPing().WillReturnError(errors.New("ping"))
	if err := storage.HealthCheck(context.Background()); err == nil {
		t.Fatal("expected error")
	}

	mock.ExpectPing()
	if err := storage.HealthCheck(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestNewOrderNoShape(t *testing.T) {
	no := newOrderNo()
	if !strings.HasPrefix(no, "R") || len(no) != 23 {
		t.Fatalf("unexpected order number %q", no)
	}
	if no == newOrderNo() {
		t.Fatalf("expected unique order numbers")
	}
}
