package memory

import (
	"context"

	"github.com/andresuchdata/stockroom/backend-go/internal/domain"
)

type stockOutRepository struct{ s *state }

// Create checks the product reference only. The employee is taken from the
// token and is not required to exist in the users table here.
func (r *stockOutRepository) Create(_ context.Context, stockOut *domain.StockOut) (*domain.StockOut, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.products.get(stockOut.ProductID); !ok {
		return nil, missingReference("stock_out_product_id_fkey")
	}
	row := *stockOut
	row.NameEn, row.NameKh, row.EmployeeName = "", "", ""
	r.s.stockOuts.insert(row.ID, row)
	return &row, nil
}

func (r *stockOutRepository) List(_ context.Context, params domain.ListParams) ([]domain.StockOut, int, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	rows := make([]domain.StockOut, 0, len(r.s.stockOuts.rows))
	for _, row := range r.s.stockOuts.newestFirst() {
		if p, ok := r.s.products.get(row.ProductID); ok {
			row.NameEn = p.NameEn
			row.NameKh = p.NameKh
		}
		if u, ok := r.s.users.get(row.EmployeeID); ok {
			row.EmployeeName = u.UserName
		}
		if matches(params.Search, row.NameEn, row.NameKh, row.EmployeeName) {
			rows = append(rows, row)
		}
	}
	page, total := paginate(rows, params)
	return page, total, nil
}

func (r *stockOutRepository) Count(_ context.Context) (int, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	return len(r.s.stockOuts.rows), nil
}
