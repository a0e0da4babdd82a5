package repository

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"pharmastore/m/domain"
)

var storeColumns = []string{"id", "name", "created_at"}

// InsertStore creates a store and returns its id.
func (r *Repository) InsertStore(ctx context.Context, q Querier, name string) (int64, error) {
	ib := flavor.NewInsertBuilder()
	ib.InsertInto("stores").Cols("name", "created_at").Values(name, r.timestamp())

	id, err := r.insert(ctx, q, ib)
	if err != nil {
		return 0, fmt.Errorf("insert store %q: %w", name, err)
	}
	r.logger.Debug("store created", zap.Int64("store_id", id), zap.String("name", name))
	return id, nil
}

func (r *Repository) GetStore(ctx context.Context, q Querier, id int64) (*domain.Store, error) {
	sb := flavor.NewSelectBuilder()
	sb.Select(storeColumns...).From("stores").Where(sb.Equal("id", id))

	var store domain.Store
	if err := r.getOne(ctx, q, &store, sb); err != nil {
		return nil, fmt.Errorf("get store %d: %w", id, err)
	}
	return &store, nil
}

func (r *Repository) ListStores(ctx context.Context, q Querier) ([]domain.Store, error) {
	sb := flavor.NewSelectBuilder()
	sb.Select(storeColumns...).From("stores").OrderBy("id").Asc()

	stores := []domain.Store{}
	if err := r.selectAll(ctx, q, &stores, sb); err != nil {
		return nil, fmt.Errorf("list stores: %w", err)
	}
	return stores, nil
}

func (r *Repository) CountStores(ctx context.Context, q Querier) (int, error) {
	sb := flavor.NewSelectBuilder()
	sb.Select("COUNT(*)").From("stores")

	var n int
	if err := r.getOne(ctx, q, &n, sb); err != nil {
		return 0, fmt.Errorf("count stores: %w", err)
	}
	return n, nil
}
