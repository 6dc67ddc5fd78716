package memory

import (
	"context"
	"sort"

	"github.com/andresuchdata/stockroom/backend-go/internal/domain"
	"github.com/shopspring/decimal"
)

type stockSummaryRepository struct{ s *state }

func (r *stockSummaryRepository) ListMovements(_ context.Context, params domain.ListParams) ([]domain.StockMovement, int, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	movements := r.s.movements()
	rows := make([]domain.StockMovement, 0, len(movements))
	for _, m := range movements {
		if matches(params.Search, m.NameEn, m.NameKh, m.ProductCode, m.CategoryName) {
			rows = append(rows, m)
		}
	}
	sort.SliceStable(rows, func(i, j int) bool {
		if rows[i].NameEn != rows[j].NameEn {
			return rows[i].NameEn < rows[j].NameEn
		}
		return rows[i].ProductID < rows[j].ProductID
	})
	page, total := paginate(rows, params)
	return page, total, nil
}

func (r *stockSummaryRepository) FindMovement(_ context.Context, productID string) (*domain.StockMovement, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	for _, m := range r.s.movements() {
		if m.ProductID == productID {
			return &m, nil
		}
	}
	return nil, nil
}

// movements sums stock-in and stock-out per product, zero for idle products.
func (s *state) movements() []domain.StockMovement {
	byProduct := make(map[string]*domain.StockMovement, len(s.products.rows))
	out := make([]*domain.StockMovement, 0, len(s.products.rows))
	for _, p := range s.products.oldestFirst() {
		joined := s.joinProduct(p)
		m := &domain.StockMovement{
			ProductID:         joined.ID,
			ProductCode:       joined.ProductCode,
			NameEn:            joined.NameEn,
			NameKh:            joined.NameKh,
			CategoryName:      joined.CategoryName,
			BeginningQuantity: int64(joined.BeginningQuantity),
			MinimumStock:      int64(joined.MinimumStock),
			TotalStockInCost:  decimal.Zero,
		}
		byProduct[p.ID] = m
		out = append(out, m)
	}

	for _, item := range s.items.rows {
		if m, ok := byProduct[item.ProductID]; ok {
			m.TotalStockIn += int64(item.Quantity)
			m.TotalStockInCost = m.TotalStockInCost.Add(item.TotalPrice)
		}
	}
	for _, so := range s.stockOuts.rows {
		if m, ok := byProduct[so.ProductID]; ok {
			m.TotalStockOut += int64(so.Quantity)
		}
	}

	result := make([]domain.StockMovement, 0, len(out))
	for _, m := range out {
		result = append(result, *m)
	}
	return result
}
