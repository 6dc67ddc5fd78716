package service

import (
	"context"

	"github.com/andresuchdata/stockroom/backend-go/internal/domain"
	"github.com/andresuchdata/stockroom/backend-go/internal/repository"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

type StockOutService struct {
	repo     repository.StockOutRepository
	products repository.ProductRepository
	summary  repository.StockSummaryRepository
	now      clock
}

func NewStockOutService(repo repository.StockOutRepository, products repository.ProductRepository, summary repository.StockSummaryRepository) *StockOutService {
	return &StockOutService{repo: repo, products: products, summary: summary, now: utcNow}
}

// CreateStockOut records a depletion by the acting principal. It does not
// check the quantity in hand; a resulting negative balance is logged and
// shows up as negative_stock in the summary.
func (s *StockOutService) CreateStockOut(ctx context.Context, principal domain.Principal, productID string, quantity int) (*domain.StockOut, error) {
	if !validID(principal.ID) {
		return nil, domain.Unauthorized("invalid principal")
	}
	if quantity < 0 {
		return nil, domain.Validation("quantity must be greater than or equal to 0")
	}
	if quantity > domain.MaxQuantity {
		return nil, domain.Validation("quantity must not exceed %d", domain.MaxQuantity)
	}
	if !validID(productID) {
		return nil, domain.NotFound("product not found")
	}
	product, err := s.products.FindByID(ctx, productID)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, domain.NotFound("product not found")
	}

	now := s.now()
	created, err := s.repo.Create(ctx, &domain.StockOut{
		ID:         uuid.NewString(),
		ProductID:  productID,
		Quantity:   quantity,
		EmployeeID: principal.ID,
		CreatedAt:  now,
		UpdatedAt:  now,
	})
	if err != nil {
		return nil, err
	}
	created.NameEn = product.NameEn
	created.NameKh = product.NameKh

	s.reportNegativeStock(ctx, productID)
	return created, nil
}

func (s *StockOutService) reportNegativeStock(ctx context.Context, productID string) {
	movement, err := s.summary.FindMovement(ctx, productID)
	if err != nil {
		log.Error().Err(err).Str("product_id", productID).Msg("failed to read stock after stock out")
		return
	}
	if movement == nil {
		return
	}
	if summary := Summarize(*movement); summary.NegativeStock {
		log.Warn().
			Str("product_id", productID).
			Int64("quantity_in_hand", summary.QuantityInHand).
			Msg("stock out drove quantity in hand below zero")
	}
}

func (s *StockOutService) List(ctx context.Context, params domain.ListParams) (*domain.Page[domain.StockOut], error) {
	return listPage(ctx, params, s.repo.List)
}

func (s *StockOutService) Count(ctx context.Context) (int, error) {
	return s.repo.Count(ctx)
}
