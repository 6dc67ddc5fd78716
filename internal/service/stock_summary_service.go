package service

import (
	"context"

	"github.com/andresuchdata/stockroom/backend-go/internal/domain"
	"github.com/andresuchdata/stockroom/backend-go/internal/repository"
	"github.com/shopspring/decimal"
)

// StockSummaryService derives stock positions from current rows on every
// call. Nothing here is cached.
type StockSummaryService struct {
	repo repository.StockSummaryRepository
}

func NewStockSummaryService(repo repository.StockSummaryRepository) *StockSummaryService {
	return &StockSummaryService{repo: repo}
}

// Summarize computes quantity in hand, average cost and available amount from
// raw per-product sums.
func Summarize(m domain.StockMovement) domain.StockSummary {
	qih := m.BeginningQuantity + m.TotalStockIn - m.TotalStockOut
	avg := domain.AverageCost(m.TotalStockInCost, m.TotalStockIn)

	return domain.StockSummary{
		ProductID:         m.ProductID,
		ProductCode:       m.ProductCode,
		NameEn:            m.NameEn,
		NameKh:            m.NameKh,
		CategoryName:      m.CategoryName,
		BeginningQuantity: m.BeginningQuantity,
		MinimumStock:      m.MinimumStock,
		TotalStockIn:      m.TotalStockIn,
		TotalStockOut:     m.TotalStockOut,
		QuantityInHand:    qih,
		UnitAvgCost:       domain.RoundMoney(avg),
		AvailableAmount:   domain.RoundMoney(avg.Mul(decimal.NewFromInt(qih))),
		LowStock:          qih <= m.MinimumStock,
		NegativeStock:     qih < 0,
	}
}

func (s *StockSummaryService) GetStockSummary(ctx context.Context, params domain.ListParams) (*domain.Page[domain.StockSummary], error) {
	page, err := listPage(ctx, params, s.repo.ListMovements)
	if err != nil {
		return nil, err
	}

	summaries := make([]domain.StockSummary, 0, len(page.Items))
	for _, m := range page.Items {
		summaries = append(summaries, Summarize(m))
	}
	return &domain.Page[domain.StockSummary]{
		Items:    summaries,
		Total:    page.Total,
		Page:     page.Page,
		PageSize: page.PageSize,
	}, nil
}

func (s *StockSummaryService) GetProductStock(ctx context.Context, productID string) (*domain.StockSummary, error) {
	if !validID(productID) {
		return nil, domain.NotFound("product not found")
	}
	m, err := s.repo.FindMovement(ctx, productID)
	if err != nil {
		return nil, err
	}
	if m == nil {
		return nil, domain.NotFound("product not found")
	}
	summary := Summarize(*m)
	return &summary, nil
}

// All walks every page of the summary in display order.
func (s *StockSummaryService) All(ctx context.Context, search string, pageSize int) ([]domain.StockSummary, error) {
	var out []domain.StockSummary
	for page := 1; ; page++ {
		p, err := s.GetStockSummary(ctx, domain.ListParams{Page: page, PageSize: pageSize, Search: search})
		if err != nil {
			return nil, err
		}
		out = append(out, p.Items...)
		if len(p.Items) == 0 || len(out) >= p.Total {
			return out, nil
		}
	}
}
