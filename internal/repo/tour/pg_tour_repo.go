package tour_repo

import (
	"context"
	"errors"
	"fmt"

	"TourPay/internal/domain/tour"
	"TourPay/pkg/postgres"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
)

var tourColumns = []string{
	"id", "name", "subtitle", "type", "booking_type", "duration", "image",
	"adult_price", "child_price", "infant_price", "includes", "notes",
}

// PgTourRepo reads the catalog from the tours table.
type PgTourRepo struct {
	db      postgres.Executor
	builder squirrel.StatementBuilderType
}

func NewPgTourRepo(pg *postgres.Postgres) *PgTourRepo {
	return &PgTourRepo{db: pg.Pool, builder: pg.Builder}
}

func (r *PgTourRepo) GetTour(ctx context.Context, id string) (tour.Tour, error) {
	query, args, err := r.builder.Select(tourColumns...).
		From("tours").
		Where(squirrel.Eq{"id": id}).
		Where(squirrel.Eq{"active": true}).
		ToSql()
	if err != nil {
		return tour.Tour{}, fmt.Errorf("build select query: %w", err)
	}

	t, err := scanTour(r.db.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return tour.Tour{}, fmt.Errorf("%w: %s", tour.ErrNotFound, id)
		}
		return tour.Tour{}, fmt.Errorf("get tour: %w", err)
	}
	return t, nil
}

func (r *PgTourRepo) ListTours(ctx context.Context) ([]tour.Tour, error) {
	query, args, err := r.builder.Select(tourColumns...).
		From("tours").
		Where(squirrel.Eq{"active": true}).
		OrderBy("sort_order ASC", "id ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build select query: %w", err)
	}

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query tours: %w", err)
	}
	defer rows.Close()

	tours := []tour.Tour{}
	for rows.Next() {
		t, err := scanTour(rows)
		if err != nil {
			return nil, fmt.Errorf("scan tour row: %w", err)
		}
		tours = append(tours, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate tour rows: %w", err)
	}
	return tours, nil
}

func scanTour(row pgx.Row) (tour.Tour, error) {
	var t tour.Tour
	err := row.Scan(&t.ID, &t.Name, &t.Subtitle, &t.Type, &t.BookingType, &t.Duration, &t.Image,
		&t.AdultPrice, &t.ChildPrice, &t.InfantPrice, &t.Includes, &t.Notes)
	return t, err
}
