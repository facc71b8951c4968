// Package pgstore persists billing orders and subscriptions in PostgreSQL.
package pgstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/dmitrymomot/taskflow/pkg/pg"
	"github.com/dmitrymomot/taskflow/svc/billing"
)

// DB is satisfied by *pgxpool.Pool.
type DB interface {
	pg.DBTX
	pg.TxBeginner
}

// Store implements billing.Store. Commit serializes per workspace with a
// transaction scoped advisory lock; the partial unique index on active
// subscriptions backs it up.
type Store struct {
	db DB
}

var _ billing.Store = (*Store)(nil)

func New(db DB) *Store {
	if db == nil {
		panic("pgstore: db is required")
	}
	return &Store{db: db}
}

const orderColumns = `id, workspace_id, plan_id, amount, currency, status,
	COALESCE(payment_reference, ''), created_at, updated_at, paid_at`

func (s *Store) InsertOrder(ctx context.Context, o *billing.Order) error {
	_, err := s.db.Exec(ctx, `
		INSERT INTO billing_orders (id, workspace_id, plan_id, amount, currency, status,
			payment_reference, created_at, updated_at, paid_at)
		VALUES ($1, $2, $3, $4, $5, $6, NULLIF($7, ''), $8, $9, $10)`,
		o.ID, o.WorkspaceID, o.PlanID, o.Amount, o.Currency, o.Status,
		o.PaymentReference, o.CreatedAt, o.UpdatedAt, o.PaidAt,
	)
	if err != nil {
		return fmt.Errorf("insert order: %w", err)
	}
	return nil
}

func (s *Store) GetOrder(ctx context.Context, id uuid.UUID) (*billing.Order, error) {
	return getOrder(ctx, s.db, id)
}

func (s *Store) TransitionOrder(ctx context.Context, req billing.OrderTransition) (*billing.Order, error) {
	if err := billing.OrderTransitions.Transition(req.From, req.To); err != nil {
		return nil, errors.Join(billing.ErrOrderNotPayable, err)
	}

	var paidAt *time.Time
	if req.To == billing.OrderPaid {
		paidAt = &req.At
	}
	row := s.db.QueryRow(ctx, `
		UPDATE billing_orders
		SET status = $3,
			payment_reference = COALESCE(NULLIF($4, ''), payment_reference),
			paid_at = COALESCE($5, paid_at),
			updated_at = $6
		WHERE id = $1 AND status = $2
		RETURNING `+orderColumns,
		req.OrderID, req.From, req.To, req.PaymentReference, paidAt, req.At,
	)
	o, err := scanOrder(row)
	if pg.IsNotFoundError(err) {
		return nil, s.missingOrNotPayable(ctx, s.db, req.OrderID)
	}
	if err != nil {
		return nil, fmt.Errorf("transition order: %w", err)
	}
	return o, nil
}

func (s *Store) ExpireOrders(ctx context.Context, createdBefore, now time.Time) (int64, error) {
	tag, err := s.db.Exec(ctx, `
		UPDATE billing_orders SET status = $1, updated_at = $2
		WHERE status = $3 AND created_at < $4`,
		billing.OrderExpired, now, billing.OrderCreated, createdBefore,
	)
	if err != nil {
		return 0, fmt.Errorf("expire orders: %w", err)
	}
	return tag.RowsAffected(), nil
}

const subscriptionColumns = `id, workspace_id, plan_id, plan_snapshot, status, order_id,
	COALESCE(payment_reference, ''), current_period_start, current_period_end, created_at, cancelled_at`

func (s *Store) ActiveSubscription(ctx context.Context, workspaceID uuid.UUID) (*billing.Subscription, error) {
	row := s.db.QueryRow(ctx, `
		SELECT `+subscriptionColumns+`
		FROM billing_subscriptions
		WHERE workspace_id = $1 AND status = $2`,
		workspaceID, billing.SubscriptionActive,
	)
	sub, err := scanSubscription(row)
	if pg.IsNotFoundError(err) {
		return nil, billing.ErrSubscriptionNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get active subscription: %w", err)
	}
	return sub, nil
}

func (s *Store) ListSubscriptions(ctx context.Context, workspaceID uuid.UUID) ([]billing.Subscription, error) {
	rows, err := s.db.Query(ctx, `
		SELECT `+subscriptionColumns+`
		FROM billing_subscriptions
		WHERE workspace_id = $1
		ORDER BY created_at DESC`,
		workspaceID,
	)
	if err != nil {
		return nil, fmt.Errorf("list subscriptions: %w", err)
	}
	defer rows.Close()

	out := []billing.Subscription{}
	for rows.Next() {
		sub, err := scanSubscription(rows)
		if err != nil {
			return nil, fmt.Errorf("scan subscription: %w", err)
		}
		out = append(out, *sub)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list subscriptions: %w", err)
	}
	return out, nil
}

func (s *Store) Commit(ctx context.Context, req billing.CommitRequest) (*billing.Subscription, error) {
	sub := req.Subscription.Clone()
	sub.Status = billing.SubscriptionActive

	snapshot, err := json.Marshal(sub.Plan)
	if err != nil {
		return nil, fmt.Errorf("encode plan snapshot: %w", err)
	}

	err = pg.WithTx(ctx, s.db, pgx.TxOptions{}, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, `SELECT pg_advisory_xact_lock(hashtext($1))`, sub.WorkspaceID.String()); err != nil {
			return fmt.Errorf("lock workspace: %w", err)
		}

		tag, err := tx.Exec(ctx, `
			UPDATE billing_orders
			SET status = $2, payment_reference = NULLIF($3, ''), paid_at = $4, updated_at = $4
			WHERE id = $1 AND status = $5`,
			req.OrderID, billing.OrderPaid, req.PaymentReference, req.At, billing.OrderCreated,
		)
		if err != nil {
			return fmt.Errorf("settle order: %w", err)
		}
		if tag.RowsAffected() == 0 {
			return s.missingOrNotPayable(ctx, tx, req.OrderID)
		}

		if _, err := tx.Exec(ctx, `
			UPDATE billing_subscriptions SET status = $2, cancelled_at = $3
			WHERE workspace_id = $1 AND status = $4`,
			sub.WorkspaceID, billing.SubscriptionCancelled, req.At, billing.SubscriptionActive,
		); err != nil {
			return fmt.Errorf("cancel active subscription: %w", err)
		}

		if _, err := tx.Exec(ctx, `
			INSERT INTO billing_subscriptions (id, workspace_id, plan_id, plan_snapshot, status, order_id,
				payment_reference, current_period_start, current_period_end, created_at)
			VALUES ($1, $2, $3, $4, $5, $6, NULLIF($7, ''), $8, $9, $10)`,
			sub.ID, sub.WorkspaceID, sub.PlanID, snapshot, sub.Status, sub.OrderID,
			sub.PaymentReference, sub.CurrentPeriodStart, sub.CurrentPeriodEnd, sub.CreatedAt,
		); err != nil {
			if pg.IsDuplicateKeyError(err) {
				return errors.Join(billing.ErrOrderNotPayable, err)
			}
			return fmt.Errorf("insert subscription: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return sub, nil
}

func (s *Store) missingOrNotPayable(ctx context.Context, db pg.DBTX, id uuid.UUID) error {
	_, err := getOrder(ctx, db, id)
	if err != nil {
		return err
	}
	return billing.ErrOrderNotPayable
}

func getOrder(ctx context.Context, db pg.DBTX, id uuid.UUID) (*billing.Order, error) {
	row := db.QueryRow(ctx, `SELECT `+orderColumns+` FROM billing_orders WHERE id = $1`, id)
	o, err := scanOrder(row)
	if pg.IsNotFoundError(err) {
		return nil, billing.ErrOrderNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get order: %w", err)
	}
	return o, nil
}

func scanOrder(row pgx.Row) (*billing.Order, error) {
	var o billing.Order
	if err := row.Scan(
		&o.ID, &o.WorkspaceID, &o.PlanID, &o.Amount, &o.Currency, &o.Status,
		&o.PaymentReference, &o.CreatedAt, &o.UpdatedAt, &o.PaidAt,
	); err != nil {
		return nil, err
	}
	o.CreatedAt = o.CreatedAt.UTC()
	o.UpdatedAt = o.UpdatedAt.UTC()
	o.PaidAt = utc(o.PaidAt)
	return &o, nil
}

func scanSubscription(row pgx.Row) (*billing.Subscription, error) {
	var (
		sub      billing.Subscription
		snapshot []byte
	)
	if err := row.Scan(
		&sub.ID, &sub.WorkspaceID, &sub.PlanID, &snapshot, &sub.Status, &sub.OrderID,
		&sub.PaymentReference, &sub.CurrentPeriodStart, &sub.CurrentPeriodEnd, &sub.CreatedAt, &sub.CancelledAt,
	); err != nil {
		return nil, err
	}
	if err := json.Unmarshal(snapshot, &sub.Plan); err != nil {
		return nil, fmt.Errorf("decode plan snapshot: %w", err)
	}
	sub.CurrentPeriodStart = sub.CurrentPeriodStart.UTC()
	sub.CurrentPeriodEnd = sub.CurrentPeriodEnd.UTC()
	sub.CreatedAt = sub.CreatedAt.UTC()
	sub.CancelledAt = utc(sub.CancelledAt)
	return &sub, nil
}

func utc(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	u := t.UTC()
	return &u
}
