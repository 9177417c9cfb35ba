package order_repo

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"TourPay/internal/domain/order"
	"TourPay/pkg/postgres"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
)

// PgOrderRepo stores orders in the orders table.
type PgOrderRepo struct {
	repo
}

func NewPgOrderRepo(pg *postgres.Postgres) *PgOrderRepo {
	return &PgOrderRepo{
		repo: repo{db: pg.Pool, builder: pg.Builder},
	}
}

type repo struct {
	db      postgres.Executor
	builder squirrel.StatementBuilderType
}

func (r *repo) Create(ctx context.Context, o order.Order) error {
	query, args, err := r.builder.Insert("orders").
		Columns(orderColumns...).
		Values(orderValues(o)...).
		ToSql()
	if err != nil {
		return fmt.Errorf("build insert query: %w", err)
	}

	_, err = r.db.Exec(ctx, query, args...)
	if err != nil {
		if postgres.IsPgErrorUniqueViolation(err) {
			return order.ErrAlreadyExists
		}
		return fmt.Errorf("create order: %w", err)
	}
	return nil
}

func (r *repo) FindByID(ctx context.Context, id string) (order.Order, error) {
	query, args, err := r.builder.Select(orderColumns...).
		From("orders").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return order.Order{}, fmt.Errorf("build select query: %w", err)
	}

	o, err := parseOrderRow(r.db.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return order.Order{}, order.ErrNotFound
		}
		return order.Order{}, fmt.Errorf("find order: %w", err)
	}
	return o, nil
}

// UpdateStatusIfPending relies on the row lock taken by UPDATE: a second
// concurrent statement re-evaluates the WHERE clause after the first
// commits and no longer matches.
func (r *repo) UpdateStatusIfPending(ctx context.Context, id string, status order.Status, gatewayRef string) (order.Order, bool, error) {
	if err := order.StatusPending.CheckTransition(status); err != nil {
		return order.Order{}, false, err
	}

	query, args, err := r.builder.Update("orders").
		Set("status", string(status)).
		Set("gateway_ref", gatewayRef).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id}).
		Where(squirrel.Eq{"status": string(order.StatusPending)}).
		Suffix("RETURNING " + strings.Join(orderColumns, ", ")).
		ToSql()
	if err != nil {
		return order.Order{}, false, fmt.Errorf("build update query: %w", err)
	}

	o, err := parseOrderRow(r.db.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return order.Order{}, false, nil
		}
		return order.Order{}, false, fmt.Errorf("update order status: %w", err)
	}
	return o, true, nil
}
