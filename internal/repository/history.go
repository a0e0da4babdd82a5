package repository

import (
	"context"
	"fmt"

	"pharmastore/m/domain"
)

type SortOrder string

const (
	SortAsc  SortOrder = "asc"
	SortDesc SortOrder = "desc"
)

var historyColumns = []string{"id", "operation", "created_at", "updated_at"}

func (r *Repository) InsertHistoryEntry(ctx context.Context, q Querier, storeID int64, e domain.HistoryEntry) (int64, error) {
	createdAt, updatedAt := r.stamps(e.CreatedAt, e.UpdatedAt)

	ib := flavor.NewInsertBuilder()
	ib.InsertInto("history").
		Cols("store_id", "operation", "created_at", "updated_at").
		Values(storeID, e.Operation, createdAt, updatedAt)

	id, err := r.insert(ctx, q, ib)
	if err != nil {
		return 0, fmt.Errorf("insert history entry: %w", err)
	}
	return id, nil
}

// ListHistory returns a store's history ordered by creation time. startDate and
// endDate are inclusive YYYY-MM-DD bounds; empty strings leave that side open.
func (r *Repository) ListHistory(ctx context.Context, q Querier, storeID int64, order SortOrder, startDate, endDate string) ([]domain.HistoryEntry, error) {
	sb := flavor.NewSelectBuilder()
	sb.Select(historyColumns...).From("history").Where(sb.Equal("store_id", storeID))
	if startDate != "" {
		sb.Where(sb.GreaterEqualThan("date(created_at)", startDate))
	}
	if endDate != "" {
		sb.Where(sb.LessEqualThan("date(created_at)", endDate))
	}
	dir := " ASC"
	if order == SortDesc {
		dir = " DESC"
	}
	// Asc/Desc would only apply to the last column.
	sb.OrderBy("created_at"+dir, "id"+dir)

	entries := []domain.HistoryEntry{}
	if err := r.selectAll(ctx, q, &entries, sb); err != nil {
		return nil, fmt.Errorf("list history for store %d: %w", storeID, err)
	}
	return entries, nil
}
