package db

import (
	"context"
	"fmt"

	"github.com/doug-martin/goqu/v9"
)

// Query is anything goqu can render, e.g. *goqu.SelectDataset or *goqu.UpdateDataset.
type Query interface {
	ToSQL() (string, []any, error)
}

func Get(ctx context.Context, q DBTX, dest any, ds Query) error {
	query, args, err := ds.ToSQL()
	if err != nil {
		return fmt.Errorf("build query: %w", err)
	}
	return q.GetContext(ctx, dest, query, args...)
}

func Select(ctx context.Context, q DBTX, dest any, ds Query) error {
	query, args, err := ds.ToSQL()
	if err != nil {
		return fmt.Errorf("build query: %w", err)
	}
	return q.SelectContext(ctx, dest, query, args...)
}

// Exec runs ds and returns the number of affected rows.
func Exec(ctx context.Context, q DBTX, ds Query) (int64, error) {
	query, args, err := ds.ToSQL()
	if err != nil {
		return 0, fmt.Errorf("build query: %w", err)
	}
	res, err := q.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

// Insert runs ds and returns the generated id column.
func Insert(ctx context.Context, q DBTX, d Dialect, ds *goqu.InsertDataset) (int64, error) {
	if d.SupportsReturning() {
		var id int64
		if err := Get(ctx, q, &id, ds.Returning("id")); err != nil {
			return 0, err
		}
		return id, nil
	}

	query, args, err := ds.ToSQL()
	if err != nil {
		return 0, fmt.Errorf("build insert: %w", err)
	}
	res, err := q.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

// Count runs SELECT COUNT(*) over ds with its ordering and paging cleared.
func Count(ctx context.Context, q DBTX, ds *goqu.SelectDataset) (int64, error) {
	var n int64
	err := Get(ctx, q, &n, ds.ClearOrder().ClearLimit().ClearOffset().Select(goqu.COUNT(goqu.Star())))
	return n, err
}
