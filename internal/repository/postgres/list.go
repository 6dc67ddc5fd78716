package postgres

import (
	"context"

	"github.com/andresuchdata/stockroom/backend-go/internal/domain"
	"github.com/jmoiron/sqlx"
	"golang.org/x/sync/errgroup"
)

// selectPage runs the page query and the count query concurrently. Both take
// the search term as $1; the page query also takes LIMIT $2 OFFSET $3.
func selectPage[T any](ctx context.Context, db *DB, query, countQuery string, params domain.ListParams) ([]T, int, error) {
	params = params.Normalize()

	var (
		rows  []T
		total int
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return sqlx.SelectContext(gctx, db, &rows, query, params.Search, params.PageSize, params.Offset())
	})
	g.Go(func() error {
		return sqlx.GetContext(gctx, db, &total, countQuery, params.Search)
	})
	if err := g.Wait(); err != nil {
		return nil, 0, err
	}

	if rows == nil {
		rows = make([]T, 0)
	}
	return rows, total, nil
}
