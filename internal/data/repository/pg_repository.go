package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"bus-booking/pkg/apperror"
	"bus-booking/pkg/database"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

type scanner interface {
	Scan(dest ...any) error
}

// table describes how one entity maps onto its postgres table.
// columns[0] is the primary key.
type table[T any] struct {
	name    string
	columns []string
	// bind returns scan destinations in column order and a hook that
	// copies driver-specific values into the entity after Scan.
	bind   func(item *T) ([]any, func())
	values func(item *T) []any
	id     func(item *T) uuid.UUID
}

func (t table[T]) selectColumns(alias string) string {
	if alias == "" {
		return strings.Join(t.columns, ", ")
	}
	cols := make([]string, len(t.columns))
	for i, c := range t.columns {
		cols[i] = alias + "." + c
	}
	return strings.Join(cols, ", ")
}

func (t table[T]) scanOne(row scanner) (*T, error) {
	item := new(T)
	dest, done := t.bind(item)
	if err := row.Scan(dest...); err != nil {
		return nil, err
	}
	if done != nil {
		done()
	}
	return item, nil
}

func (t table[T]) scanAll(rows pgx.Rows) ([]*T, error) {
	defer rows.Close()

	var items []*T
	for rows.Next() {
		item, err := t.scanOne(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, rows.Err()
}

type pgRepository[T any] struct {
	db    database.Querier
	table table[T]
	log   *zap.Logger
}

func newPgRepository[T any](db database.Querier, t table[T], log *zap.Logger) *pgRepository[T] {
	return &pgRepository[T]{
		db:    db,
		table: t,
		log:   log.With(zap.String("repository", t.name)),
	}
}

func (r *pgRepository[T]) GetByID(ctx context.Context, id uuid.UUID) (*T, error) {
	query := fmt.Sprintf("SELECT %s FROM %s WHERE id = $1", r.table.selectColumns(""), r.table.name)

	item, err := r.table.scanOne(r.db.QueryRow(ctx, query, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find by ID", zap.Error(err), zap.String("id", id.String()))
		return nil, fmt.Errorf("find %s by ID %s: %w", r.table.name, id.String(), err)
	}

	return item, nil
}

func (r *pgRepository[T]) GetAll(ctx context.Context) ([]*T, error) {
	query := fmt.Sprintf("SELECT %s FROM %s ORDER BY created_at", r.table.selectColumns(""), r.table.name)

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		r.log.Error("Failed to list", zap.Error(err))
		return nil, fmt.Errorf("list %s: %w", r.table.name, err)
	}

	items, err := r.table.scanAll(rows)
	if err != nil {
		return nil, fmt.Errorf("scan %s: %w", r.table.name, err)
	}
	return items, nil
}

func (r *pgRepository[T]) Add(ctx context.Context, item *T) error {
	placeholders := make([]string, len(r.table.columns))
	for i := range placeholders {
		placeholders[i] = fmt.Sprintf("$%d", i+1)
	}
	query := fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)",
		r.table.name, r.table.selectColumns(""), strings.Join(placeholders, ", "))

	if _, err := r.db.Exec(ctx, query, r.table.values(item)...); err != nil {
		id := r.table.id(item).String()
		if database.IsUniqueViolation(err) {
			return apperror.Wrap(apperror.KindConflict, err, "%s %s violates a unique constraint", r.table.name, id)
		}
		r.log.Error("Failed to insert", zap.Error(err), zap.String("id", id))
		return fmt.Errorf("insert %s %s: %w", r.table.name, id, err)
	}

	return nil
}

func (r *pgRepository[T]) Update(ctx context.Context, item *T) error {
	sets := make([]string, 0, len(r.table.columns)-1)
	for i, c := range r.table.columns[1:] {
		sets = append(sets, fmt.Sprintf("%s = $%d", c, i+2))
	}
	query := fmt.Sprintf("UPDATE %s SET %s WHERE id = $1", r.table.name, strings.Join(sets, ", "))

	id := r.table.id(item).String()
	tag, err := r.db.Exec(ctx, query, r.table.values(item)...)
	if err != nil {
		if database.IsUniqueViolation(err) {
			return apperror.Wrap(apperror.KindConflict, err, "%s %s violates a unique constraint", r.table.name, id)
		}
		r.log.Error("Failed to update", zap.Error(err), zap.String("id", id))
		return fmt.Errorf("update %s %s: %w", r.table.name, id, err)
	}

	if tag.RowsAffected() == 0 {
		return apperror.New(apperror.KindNotFound, "%s %s not found", r.table.name, id)
	}

	return nil
}

func (r *pgRepository[T]) Delete(ctx context.Context, id uuid.UUID) error {
	query := fmt.Sprintf("DELETE FROM %s WHERE id = $1", r.table.name)

	tag, err := r.db.Exec(ctx, query, id)
	if err != nil {
		r.log.Error("Failed to delete", zap.Error(err), zap.String("id", id.String()))
		return fmt.Errorf("delete %s %s: %w", r.table.name, id.String(), err)
	}

	if tag.RowsAffected() == 0 {
		return apperror.New(apperror.KindNotFound, "%s %s not found", r.table.name, id.String())
	}

	return nil
}

// Query loads every row and filters in process.
func (r *pgRepository[T]) Query(ctx context.Context, match func(*T) bool) ([]*T, error) {
	all, err := r.GetAll(ctx)
	if err != nil {
		return nil, err
	}

	var matched []*T
	for _, item := range all {
		if match(item) {
			matched = append(matched, item)
		}
	}
	return matched, nil
}
