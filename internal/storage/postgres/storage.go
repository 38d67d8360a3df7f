package postgres

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	domainErrors "github.com/pointsmall/pointsmall/internal/domain/errors"
	"github.com/pointsmall/pointsmall/internal/domain/model"
	"github.com/pointsmall/pointsmall/internal/domain/repository"
	"github.com/pointsmall/pointsmall/internal/pkg/errs"
)

// PostgreSQL error codes surfaced by concurrent transactions.
const (
	pgErrCodeUniqueViolation  = "23505"
	pgErrCodeLockNotAvailable = "55P03"
	pgErrCodeDeadlockDetected = "40P01"
)

const defaultLockTimeout = 3 * time.Second

// Pool is the subset of pgxpool.Pool the storage needs; tests substitute a
// pgxmock pool through it.
type Pool interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	BeginTx(ctx context.Context, opts pgx.TxOptions) (pgx.Tx, error)
	Ping(ctx context.Context) error
	Close()
}

// Storage acts as repository facade backed by PostgreSQL.
//
// Lock ordering contract: every transaction that locks more than one row
// acquires locks in the fixed order orders -> users -> products. Redemption
// locks the user row before the product row; compensation locks the order,
// then the user, then the product. No code path may lock these tables in any
// other order, otherwise two concurrent transactions can deadlock.
type Storage struct {
	pool        Pool
	logger      *slog.Logger
	lockTimeout time.Duration
}

type userRepository struct {
	storage *Storage
}

type ledgerRepository struct {
	storage *Storage
}

type productRepository struct {
	storage *Storage
}

type orderRepository struct {
	storage *Storage
}

// New creates storage with schema initialization.
func New(ctx context.Context, dsn string, lockTimeout time.Duration, logger *slog.Logger) (*Storage, error) {
	cfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("parse dsn: %w", err)
	}

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("connect db: %w", err)
	}

	if lockTimeout <= 0 {
		lockTimeout = defaultLockTimeout
	}

	storage := &Storage{pool: pool, logger: logger, lockTimeout: lockTimeout}
	if err := storage.initSchema(ctx); err != nil {
		pool.Close()
		return nil, err
	}

	return storage, nil
}

// Close releases database resources.
func (s *Storage) Close() {
	if s.pool != nil {
		s.pool.Close()
	}
}

// Factory methods for domain repositories.
func (s *Storage) Users() repository.UserRepository {
	return &userRepository{storage: s}
}

func (s *Storage) Ledger() repository.LedgerRepository {
	return &ledgerRepository{storage: s}
}

func (s *Storage) Products() repository.ProductRepository {
	return &productRepository{storage: s}
}

func (s *Storage) Orders() repository.OrderRepository {
	return &orderRepository{storage: s}
}

func (s *Storage) initSchema(ctx context.Context) error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS users (
            id BIGSERIAL PRIMARY KEY,
            openid TEXT UNIQUE NOT NULL,
            nickname TEXT,
            avatar_url TEXT,
            points_balance BIGINT NOT NULL DEFAULT 0 CHECK (points_balance >= 0),
            created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
            updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
        )`,
		`CREATE TABLE IF NOT EXISTS points_ledger (
            id BIGSERIAL PRIMARY KEY,
            openid TEXT NOT NULL,
            delta BIGINT NOT NULL,
            balance_after BIGINT NOT NULL,
            kind TEXT NOT NULL,
            reason TEXT NOT NULL,
            operator TEXT NOT NULL,
            ref_id TEXT,
            created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
        )`,
		`CREATE TABLE IF NOT EXISTS products (
            id BIGSERIAL PRIMARY KEY,
            name TEXT NOT NULL,
            description TEXT,
            image_url TEXT,
            points_cost BIGINT NOT NULL CHECK (points_cost > 0),
            stock BIGINT NOT NULL DEFAULT -1,
            is_active BOOLEAN NOT NULL DEFAULT TRUE,
            created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
            updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
        )`,
		`CREATE TABLE IF NOT EXISTS redeem_orders (
            id BIGSERIAL PRIMARY KEY,
            order_no TEXT UNIQUE NOT NULL,
            openid TEXT NOT NULL,
            product_id BIGINT NOT NULL,
            product_name TEXT NOT NULL,
            points_cost BIGINT NOT NULL,
            status TEXT NOT NULL,
            created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
            updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
        )`,
		`CREATE INDEX IF NOT EXISTS idx_ledger_user ON points_ledger(openid, created_at DESC)`,
		`CREATE INDEX IF NOT EXISTS idx_orders_user ON redeem_orders(openid, created_at DESC)`,
	}

	for _, stmt := range statements {
		if _, err := s.pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("init schema: %w", err)
		}
	}

	return nil
}

// WithinTransaction executes fn inside a transaction with a bounded lock
// wait. A transaction that cannot acquire its row locks within the timeout
// aborts, and the failure is reported as the transient ErrLockTimeout so
// callers can retry instead of treating it as a business error.
func (s *Storage) WithinTransaction(ctx context.Context, fn func(pgx.Tx) error) (err error) {
	tx, err := s.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback(ctx)
			err = s.mapTransientError(err)
		} else {
			err = s.mapTransientError(tx.Commit(ctx))
		}
	}()

	timeout := s.lockTimeout
	if timeout <= 0 {
		timeout = defaultLockTimeout
	}
	if _, err = tx.Exec(ctx, fmt.Sprintf("SET LOCAL lock_timeout = '%dms'", timeout.Milliseconds())); err != nil {
		return err
	}

	err = fn(tx)
	return err
}

func (s *Storage) mapTransientError(err error) error {
	if err == nil {
		return nil
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && (pgErr.Code == pgErrCodeLockNotAvailable || pgErr.Code == pgErrCodeDeadlockDetected) {
		return errs.Mark(err, domainErrors.ErrLockTimeout)
	}
	return err
}

// lockUserTx guarantees the user row exists and holds an exclusive lock on
// it for the rest of the transaction, returning the current balance.
func (s *Storage) lockUserTx(ctx context.Context, tx pgx.Tx, openID string) (int64, error) {
	const ensure = `INSERT INTO users (openid, points_balance) VALUES ($1, 0) ON CONFLICT (openid) DO NOTHING`
	if _, err := tx.Exec(ctx, ensure, openID); err != nil {
		return 0, err
	}

	const lock = `SELECT points_balance FROM users WHERE openid=$1 FOR UPDATE`
	var balance int64
	if err := tx.QueryRow(ctx, lock, openID).Scan(&balance); err != nil {
		return 0, err
	}
	return balance, nil
}

// adjustBalanceTx is the single write path for points_balance: it moves the
// locked user's balance by delta and appends exactly one ledger entry. The
// caller must already hold the user row lock via lockUserTx.
func (s *Storage) adjustBalanceTx(ctx context.Context, tx pgx.Tx, openID string, balance, delta int64, kind model.LedgerKind, reason, operator string, refID *string) (*model.LedgerEntry, error) {
	newBalance := balance + delta
	if newBalance < 0 {
		return nil, &domainErrors.InsufficientBalanceError{Balance: balance, Required: -delta}
	}

	const updateBalance = `UPDATE users SET points_balance=$1, updated_at=NOW() WHERE openid=$2`
	if _, err := tx.Exec(ctx, updateBalance, newBalance, openID); err != nil {
		return nil, err
	}

	const insertEntry = `INSERT INTO points_ledger (openid, delta, balance_after, kind, reason, operator, ref_id)
                         VALUES ($1, $2, $3, $4, $5, $6, $7)
                         RETURNING id, created_at`
	entry := &model.LedgerEntry{
		OpenID:       openID,
		Delta:        delta,
		BalanceAfter: newBalance,
		Kind:         kind,
		Reason:       reason,
		Operator:     operator,
		RefID:        refID,
	}
	if err := tx.QueryRow(ctx, insertEntry, openID, delta, newBalance, kind, reason, operator, refID).Scan(&entry.ID, &entry.CreatedAt); err != nil {
		return nil, err
	}
	return entry, nil
}

// newOrderNo generates a unique, time-traceable order number: an R prefix,
// a second-resolution timestamp, and a random suffix.
func newOrderNo() string {
	id := uuid.New()
	return fmt.Sprintf("R%s%X", time.Now().Format("20060102150405"), id[:4])
}

// --- UserRepository implementation ---

func (r *userRepository) GetOrCreate(ctx context.Context, openID string) (*model.User, error) {
	const ensure = `INSERT INTO users (openid, points_balance) VALUES ($1, 0) ON CONFLICT (openid) DO NOTHING`
	if _, err := r.storage.pool.Exec(ctx, ensure, openID); err != nil {
		return nil, err
	}
	return r.GetByOpenID(ctx, openID)
}

func (r *userRepository) GetByOpenID(ctx context.Context, openID string) (*model.User, error) {
	const query = `SELECT id, openid, nickname, avatar_url, points_balance, created_at, updated_at
                   FROM users WHERE openid=$1`
	var u model.User
	err := r.storage.pool.QueryRow(ctx, query, openID).Scan(&u.ID, &u.OpenID, &u.Nickname, &u.AvatarURL, &u.PointsBalance, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domainErrors.ErrNotFound
		}
		return nil, err
	}
	return &u, nil
}

func (r *userRepository) List(ctx context.Context, keyword string, page, pageSize int) ([]model.User, int64, error) {
	var (
		countQuery = `SELECT COUNT(*) FROM users`
		listQuery  = `SELECT id, openid, nickname, avatar_url, points_balance, created_at, updated_at
                      FROM users ORDER BY created_at DESC LIMIT $1 OFFSET $2`
		countArgs []any
		listArgs  = []any{pageSize, (page - 1) * pageSize}
	)
	if keyword != "" {
		pattern := "%" + keyword + "%"
		countQuery = `SELECT COUNT(*) FROM users WHERE openid ILIKE $1 OR nickname ILIKE $1`
		listQuery = `SELECT id, openid, nickname, avatar_url, points_balance, created_at, updated_at
                     FROM users WHERE openid ILIKE $1 OR nickname ILIKE $1
                     ORDER BY created_at DESC LIMIT $2 OFFSET $3`
		countArgs = []any{pattern}
		listArgs = []any{pattern, pageSize, (page - 1) * pageSize}
	}

	var total int64
	if err := r.storage.pool.QueryRow(ctx, countQuery, countArgs...).Scan(&total); err != nil {
		return nil, 0, err
	}

	rows, err := r.storage.pool.Query(ctx, listQuery, listArgs...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var result []model.User
	for rows.Next() {
		var u model.User
		if err := rows.Scan(&u.ID, &u.OpenID, &u.Nickname, &u.AvatarURL, &u.PointsBalance, &u.CreatedAt, &u.UpdatedAt); err != nil {
			return nil, 0, err
		}
		result = append(result, u)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}
	return result, total, nil
}

// --- LedgerRepository implementation ---

func (r *ledgerRepository) Adjust(ctx context.Context, openID string, delta int64, kind model.LedgerKind, reason, operator string, refID *string) (*model.LedgerEntry, error) {
	var entry *model.LedgerEntry
	err := r.storage.WithinTransaction(ctx, func(tx pgx.Tx) error {
		balance, err := r.storage.lockUserTx(ctx, tx, openID)
		if err != nil {
			return err
		}
		entry, err = r.storage.adjustBalanceTx(ctx, tx, openID, balance, delta, kind, reason, operator, refID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return entry, nil
}

func (r *ledgerRepository) ListByUser(ctx context.Context, openID string, page, pageSize int) ([]model.LedgerEntry, int64, error) {
	const countQuery = `SELECT COUNT(*) FROM points_ledger WHERE openid=$1`
	var total int64
	if err := r.storage.pool.QueryRow(ctx, countQuery, openID).Scan(&total); err != nil {
		return nil, 0, err
	}

	const listQuery = `SELECT id, openid, delta, balance_after, kind, reason, operator, ref_id, created_at
                       FROM points_ledger WHERE openid=$1
                       ORDER BY created_at DESC, id DESC LIMIT $2 OFFSET $3`
	rows, err := r.storage.pool.Query(ctx, listQuery, openID, pageSize, (page-1)*pageSize)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var result []model.LedgerEntry
	for rows.Next() {
		var e model.LedgerEntry
		if err := rows.Scan(&e.ID, &e.OpenID, &e.Delta, &e.BalanceAfter, &e.Kind, &e.Reason, &e.Operator, &e.RefID, &e.CreatedAt); err != nil {
			return nil, 0, err
		}
		result = append(result, e)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}
	return result, total, nil
}

func (r *ledgerRepository) SumDeltas(ctx context.Context, openID string) (int64, error) {
	const query = `SELECT COALESCE(SUM(delta), 0) FROM points_ledger WHERE openid=$1`
	var sum int64
	if err := r.storage.pool.QueryRow(ctx, query, openID).Scan(&sum); err != nil {
		return 0, err
	}
	return sum, nil
}

// --- ProductRepository implementation ---

func (r *productRepository) Create(ctx context.Context, p *model.Product) (*model.Product, error) {
	const query = `INSERT INTO products (name, description, image_url, points_cost, stock, is_active)
                   VALUES ($1, $2, $3, $4, $5, $6)
                   RETURNING id, created_at, updated_at`
	created := *p
	err := r.storage.pool.QueryRow(ctx, query, p.Name, p.Description, p.ImageURL, p.PointsCost, p.Stock, p.IsActive).
		Scan(&created.ID, &created.CreatedAt, &created.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &created, nil
}

func (r *productRepository) Update(ctx context.Context, id int64, patch repository.ProductPatch) (*model.Product, error) {
	sets := []string{"updated_at=NOW()"}
	args := []any{id}

	add := func(column string, value any) {
		args = append(args, value)
		sets = append(sets, fmt.Sprintf("%s=$%d", column, len(args)))
	}
	if patch.Name != nil {
		add("name", *patch.Name)
	}
	if patch.Description != nil {
		add("description", *patch.Description)
	}
	if patch.ImageURL != nil {
		add("image_url", *patch.ImageURL)
	}
	if patch.PointsCost != nil {
		add("points_cost", *patch.PointsCost)
	}
	if patch.Stock != nil {
		add("stock", *patch.Stock)
	}
	if patch.IsActive != nil {
		add("is_active", *patch.IsActive)
	}

	query := fmt.Sprintf(`UPDATE products SET %s WHERE id=$1
                          RETURNING id, name, description, image_url, points_cost, stock, is_active, created_at, updated_at`,
		strings.Join(sets, ", "))

	var p model.Product
	err := r.storage.pool.QueryRow(ctx, query, args...).
		Scan(&p.ID, &p.Name, &p.Description, &p.ImageURL, &p.PointsCost, &p.Stock, &p.IsActive, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, &domainErrors.ProductNotFoundError{ProductID: id}
		}
		return nil, err
	}
	return &p, nil
}

func (r *productRepository) GetByID(ctx context.Context, id int64) (*model.Product, error) {
	const query = `SELECT id, name, description, image_url, points_cost, stock, is_active, created_at, updated_at
                   FROM products WHERE id=$1`
	var p model.Product
	err := r.storage.pool.QueryRow(ctx, query, id).
		Scan(&p.ID, &p.Name, &p.Description, &p.ImageURL, &p.PointsCost, &p.Stock, &p.IsActive, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, &domainErrors.ProductNotFoundError{ProductID: id}
		}
		return nil, err
	}
	return &p, nil
}

func (r *productRepository) ListActive(ctx context.Context) ([]model.Product, error) {
	const query = `SELECT id, name, description, image_url, points_cost, stock, is_active, created_at, updated_at
                   FROM products WHERE is_active ORDER BY created_at DESC`
	return r.list(ctx, query)
}

func (r *productRepository) ListAll(ctx context.Context) ([]model.Product, error) {
	const query = `SELECT id, name, description, image_url, points_cost, stock, is_active, created_at, updated_at
                   FROM products ORDER BY created_at DESC`
	return r.list(ctx, query)
}

func (r *productRepository) list(ctx context.Context, query string) ([]model.Product, error) {
	rows, err := r.storage.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []model.Product
	for rows.Next() {
		var p model.Product
		if err := rows.Scan(&p.ID, &p.Name, &p.Description, &p.ImageURL, &p.PointsCost, &p.Stock, &p.IsActive, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, err
		}
		result = append(result, p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

// --- OrderRepository implementation ---

func (r *orderRepository) Redeem(ctx context.Context, openID string, productID int64) (*model.RedeemOrder, error) {
	var order *model.RedeemOrder
	err := r.storage.WithinTransaction(ctx, func(tx pgx.Tx) error {
		// Lock order: user row before product row.
		balance, err := r.storage.lockUserTx(ctx, tx, openID)
		if err != nil {
			return err
		}

		const lockProduct = `SELECT name, points_cost, stock, is_active FROM products WHERE id=$1 FOR UPDATE`
		var (
			name     string
			cost     int64
			stock    int64
			isActive bool
		)
		err = tx.QueryRow(ctx, lockProduct, productID).Scan(&name, &cost, &stock, &isActive)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return &domainErrors.ProductNotFoundError{ProductID: productID}
			}
			return err
		}

		if !isActive {
			return &domainErrors.ProductNotActiveError{ProductID: productID}
		}
		if balance < cost {
			return &domainErrors.InsufficientBalanceError{Balance: balance, Required: cost}
		}
		if stock != model.StockUnlimited && stock <= 0 {
			return &domainErrors.OutOfStockError{ProductID: productID}
		}

		if stock != model.StockUnlimited {
			if _, err := tx.Exec(ctx, `UPDATE products SET stock=stock-1, updated_at=NOW() WHERE id=$1`, productID); err != nil {
				return err
			}
		}

		orderNo := newOrderNo()
		reason := fmt.Sprintf("redeem product: %s", name)
		if _, err := r.storage.adjustBalanceTx(ctx, tx, openID, balance, -cost, model.LedgerKindRedeem, reason, model.OperatorSystem, &orderNo); err != nil {
			return err
		}

		const insertOrder = `INSERT INTO redeem_orders (order_no, openid, product_id, product_name, points_cost, status)
                             VALUES ($1, $2, $3, $4, $5, $6)
                             RETURNING id, created_at, updated_at`
		order = &model.RedeemOrder{
			OrderNo:     orderNo,
			OpenID:      openID,
			ProductID:   productID,
			ProductName: name,
			PointsCost:  cost,
			Status:      model.OrderStatusPending,
		}
		return tx.QueryRow(ctx, insertOrder, orderNo, openID, productID, name, cost, model.OrderStatusPending).
			Scan(&order.ID, &order.CreatedAt, &order.UpdatedAt)
	})
	if err != nil {
		return nil, err
	}
	return order, nil
}

// lockOrderTx locks the order row and returns it, enforcing the pending-only
// precondition shared by fulfill and both cancel paths.
func (r *orderRepository) lockOrderTx(ctx context.Context, tx pgx.Tx, orderNo string) (*model.RedeemOrder, error) {
	const query = `SELECT id, order_no, openid, product_id, product_name, points_cost, status, created_at, updated_at
                   FROM redeem_orders WHERE order_no=$1 FOR UPDATE`
	var o model.RedeemOrder
	err := tx.QueryRow(ctx, query, orderNo).
		Scan(&o.ID, &o.OrderNo, &o.OpenID, &o.ProductID, &o.ProductName, &o.PointsCost, &o.Status, &o.CreatedAt, &o.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, &domainErrors.OrderNotFoundError{OrderNo: orderNo}
		}
		return nil, err
	}
	if o.Status != model.OrderStatusPending {
		return nil, &domainErrors.InvalidOrderStateError{OrderNo: orderNo, Status: o.Status}
	}
	return &o, nil
}

func (r *orderRepository) setStatusTx(ctx context.Context, tx pgx.Tx, order *model.RedeemOrder, status model.OrderStatus) error {
	const query = `UPDATE redeem_orders SET status=$1, updated_at=NOW() WHERE id=$2 RETURNING updated_at`
	if err := tx.QueryRow(ctx, query, status, order.ID).Scan(&order.UpdatedAt); err != nil {
		return err
	}
	order.Status = status
	return nil
}

func (r *orderRepository) Fulfill(ctx context.Context, orderNo string) (*model.RedeemOrder, error) {
	return r.transition(ctx, orderNo, model.OrderStatusFulfilled)
}

func (r *orderRepository) Cancel(ctx context.Context, orderNo string) (*model.RedeemOrder, error) {
	return r.transition(ctx, orderNo, model.OrderStatusCancelled)
}

func (r *orderRepository) transition(ctx context.Context, orderNo string, status model.OrderStatus) (*model.RedeemOrder, error) {
	var order *model.RedeemOrder
	err := r.storage.WithinTransaction(ctx, func(tx pgx.Tx) error {
		o, err := r.lockOrderTx(ctx, tx, orderNo)
		if err != nil {
			return err
		}
		if err := r.setStatusTx(ctx, tx, o, status); err != nil {
			return err
		}
		order = o
		return nil
	})
	if err != nil {
		return nil, err
	}
	return order, nil
}

func (r *orderRepository) CancelWithRefund(ctx context.Context, orderNo, operator string) (*model.RedeemOrder, error) {
	var order *model.RedeemOrder
	err := r.storage.WithinTransaction(ctx, func(tx pgx.Tx) error {
		// Lock order: order row, then user row, then product row.
		o, err := r.lockOrderTx(ctx, tx, orderNo)
		if err != nil {
			return err
		}

		balance, err := r.storage.lockUserTx(ctx, tx, o.OpenID)
		if err != nil {
			return err
		}

		reason := fmt.Sprintf("cancel order refund: %s", o.ProductName)
		if _, err := r.storage.adjustBalanceTx(ctx, tx, o.OpenID, balance, o.PointsCost, model.LedgerKindRefund, reason, operator, &o.OrderNo); err != nil {
			return err
		}

		// Stock restore is best-effort against the current product record:
		// the product may have been deleted or switched to unlimited stock
		// since the order was placed, and neither blocks the refund.
		const lockProduct = `SELECT stock FROM products WHERE id=$1 FOR UPDATE`
		var stock int64
		err = tx.QueryRow(ctx, lockProduct, o.ProductID).Scan(&stock)
		switch {
		case errors.Is(err, pgx.ErrNoRows):
		case err != nil:
			return err
		case stock != model.StockUnlimited:
			if _, err := tx.Exec(ctx, `UPDATE products SET stock=stock+1, updated_at=NOW() WHERE id=$1`, o.ProductID); err != nil {
				return err
			}
		}

		if err := r.setStatusTx(ctx, tx, o, model.OrderStatusCancelled); err != nil {
			return err
		}
		order = o
		return nil
	})
	if err != nil {
		return nil, err
	}
	return order, nil
}

func (r *orderRepository) GetByNumber(ctx context.Context, orderNo string) (*model.RedeemOrder, error) {
	const query = `SELECT id, order_no, openid, product_id, product_name, points_cost, status, created_at, updated_at
                   FROM redeem_orders WHERE order_no=$1`
	var o model.RedeemOrder
	err := r.storage.pool.QueryRow(ctx, query, orderNo).
		Scan(&o.ID, &o.OrderNo, &o.OpenID, &o.ProductID, &o.ProductName, &o.PointsCost, &o.Status, &o.CreatedAt, &o.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, &domainErrors.OrderNotFoundError{OrderNo: orderNo}
		}
		return nil, err
	}
	return &o, nil
}

func (r *orderRepository) ListByUser(ctx context.Context, openID string, page, pageSize int) ([]model.RedeemOrder, int64, error) {
	const countQuery = `SELECT COUNT(*) FROM redeem_orders WHERE openid=$1`
	var total int64
	if err := r.storage.pool.QueryRow(ctx, countQuery, openID).Scan(&total); err != nil {
		return nil, 0, err
	}

	const listQuery = `SELECT id, order_no, openid, product_id, product_name, points_cost, status, created_at, updated_at
                       FROM redeem_orders WHERE openid=$1
                       ORDER BY created_at DESC, id DESC LIMIT $2 OFFSET $3`
	rows, err := r.storage.pool.Query(ctx, listQuery, openID, pageSize, (page-1)*pageSize)
	if err != nil {
		return nil, 0, err
	}
	return scanOrders(rows, total)
}

func (r *orderRepository) List(ctx context.Context, status *model.OrderStatus, page, pageSize int) ([]model.RedeemOrder, int64, error) {
	var (
		countQuery = `SELECT COUNT(*) FROM redeem_orders`
		listQuery  = `SELECT id, order_no, openid, product_id, product_name, points_cost, status, created_at, updated_at
                      FROM redeem_orders ORDER BY created_at DESC, id DESC LIMIT $1 OFFSET $2`
		countArgs []any
		listArgs  = []any{pageSize, (page - 1) * pageSize}
	)
	if status != nil {
		countQuery = `SELECT COUNT(*) FROM redeem_orders WHERE status=$1`
		listQuery = `SELECT id, order_no, openid, product_id, product_name, points_cost, status, created_at, updated_at
                     FROM redeem_orders WHERE status=$1
                     ORDER BY created_at DESC, id DESC LIMIT $2 OFFSET $3`
		countArgs = []any{*status}
		listArgs = []any{*status, pageSize, (page - 1) * pageSize}
	}

	var total int64
	if err := r.storage.pool.QueryRow(ctx, countQuery, countArgs...).Scan(&total); err != nil {
		return nil, 0, err
	}

	rows, err := r.storage.pool.Query(ctx, listQuery, listArgs...)
	if err != nil {
		return nil, 0, err
	}
	return scanOrders(rows, total)
}

func scanOrders(rows pgx.Rows, total int64) ([]model.RedeemOrder, int64, error) {
	defer rows.Close()

	var result []model.RedeemOrder
	for rows.Next() {
		var o model.RedeemOrder
		if err := rows.Scan(&o.ID, &o.OrderNo, &o.OpenID, &o.ProductID, &o.ProductName, &o.PointsCost, &o.Status, &o.CreatedAt, &o.UpdatedAt); err != nil {
			return nil, 0, err
		}
		result = append(result, o)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}
	return result, total, nil
}

// HealthCheck verifies database connectivity.
func (s *Storage) HealthCheck(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	return s.pool.Ping(ctx)
}

// Logger returns storage logger.
func (s *Storage) Logger() *slog.Logger {
	return s.logger
}
