package service

import (
	"context"

	"github.com/andresuchdata/stockroom/backend-go/internal/domain"
	"github.com/andresuchdata/stockroom/backend-go/internal/repository"
	"github.com/google/uuid"
)

type SupplierService struct {
	repo repository.SupplierRepository
	now  clock
}

func NewSupplierService(repo repository.SupplierRepository) *SupplierService {
	return &SupplierService{repo: repo, now: utcNow}
}

func (s *SupplierService) Create(ctx context.Context, in domain.Supplier) (*domain.Supplier, error) {
	name, err := required("supplier_name", in.SupplierName)
	if err != nil {
		return nil, err
	}

	existing, err := s.repo.FindByName(ctx, name)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, domain.Conflict("supplier already exists")
	}

	now := s.now()
	in.ID = uuid.NewString()
	in.SupplierName = name
	in.CreatedAt, in.UpdatedAt = now, now
	return s.repo.Create(ctx, &in)
}

func (s *SupplierService) Get(ctx context.Context, id string) (*domain.Supplier, error) {
	if !validID(id) {
		return nil, domain.NotFound("supplier not found")
	}
	supplier, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if supplier == nil {
		return nil, domain.NotFound("supplier not found")
	}
	return supplier, nil
}

func (s *SupplierService) List(ctx context.Context, params domain.ListParams) (*domain.Page[domain.Supplier], error) {
	return listPage(ctx, params, s.repo.List)
}

func (s *SupplierService) Update(ctx context.Context, id string, patch domain.SupplierPatch) (*domain.Supplier, error) {
	if patch.IsEmpty() {
		return nil, domain.Validation("no fields to update")
	}
	var err error
	if patch.SupplierName, err = trimmedField("supplier_name", patch.SupplierName); err != nil {
		return nil, err
	}

	current, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if patch.SupplierName != nil && *patch.SupplierName != current.SupplierName {
		existing, err := s.repo.FindByName(ctx, *patch.SupplierName)
		if err != nil {
			return nil, err
		}
		if existing != nil && existing.ID != id {
			return nil, domain.Conflict("supplier already exists")
		}
	}

	merged := patch.Apply(*current, s.now())
	updated, err := s.repo.Update(ctx, &merged)
	if err != nil {
		return nil, err
	}
	if updated == nil {
		return nil, domain.NotFound("supplier not found")
	}
	return updated, nil
}

// Delete reports false when nothing matched.
func (s *SupplierService) Delete(ctx context.Context, id string) (bool, error) {
	if !validID(id) {
		return false, nil
	}
	return s.repo.Delete(ctx, id)
}

func (s *SupplierService) Count(ctx context.Context) (int, error) {
	return s.repo.Count(ctx)
}

type CategoryService struct {
	repo repository.CategoryRepository
	now  clock
}

func NewCategoryService(repo repository.CategoryRepository) *CategoryService {
	return &CategoryService{repo: repo, now: utcNow}
}

func (s *CategoryService) Create(ctx context.Context, in domain.Category) (*domain.Category, error) {
	name, err := required("category_name", in.CategoryName)
	if err != nil {
		return nil, err
	}

	existing, err := s.repo.FindByName(ctx, name)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, domain.Conflict("category already exists")
	}

	now := s.now()
	in.ID = uuid.NewString()
	in.CategoryName = name
	in.CreatedAt, in.UpdatedAt = now, now
	return s.repo.Create(ctx, &in)
}

func (s *CategoryService) Get(ctx context.Context, id string) (*domain.Category, error) {
	if !validID(id) {
		return nil, domain.NotFound("category not found")
	}
	category, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if category == nil {
		return nil, domain.NotFound("category not found")
	}
	return category, nil
}

func (s *CategoryService) List(ctx context.Context, params domain.ListParams) (*domain.Page[domain.Category], error) {
	return listPage(ctx, params, s.repo.List)
}

func (s *CategoryService) Update(ctx context.Context, id string, patch domain.CategoryPatch) (*domain.Category, error) {
	if patch.IsEmpty() {
		return nil, domain.Validation("no fields to update")
	}
	var err error
	if patch.CategoryName, err = trimmedField("category_name", patch.CategoryName); err != nil {
		return nil, err
	}

	current, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if patch.CategoryName != nil && *patch.CategoryName != current.CategoryName {
		existing, err := s.repo.FindByName(ctx, *patch.CategoryName)
		if err != nil {
			return nil, err
		}
		if existing != nil && existing.ID != id {
			return nil, domain.Conflict("category already exists")
		}
	}

	merged := patch.Apply(*current, s.now())
	updated, err := s.repo.Update(ctx, &merged)
	if err != nil {
		return nil, err
	}
	if updated == nil {
		return nil, domain.NotFound("category not found")
	}
	return updated, nil
}

func (s *CategoryService) Delete(ctx context.Context, id string) (bool, error) {
	if !validID(id) {
		return false, nil
	}
	return s.repo.Delete(ctx, id)
}

func (s *CategoryService) Count(ctx context.Context) (int, error) {
	return s.repo.Count(ctx)
}

type ProductService struct {
	repo       repository.ProductRepository
	categories repository.CategoryRepository
	now        clock
}

func NewProductService(repo repository.ProductRepository, categories repository.CategoryRepository) *ProductService {
	return &ProductService{repo: repo, categories: categories, now: utcNow}
}

func (s *ProductService) Create(ctx context.Context, in domain.Product) (*domain.Product, error) {
	var err error
	if in.ProductCode, err = required("product_code", in.ProductCode); err != nil {
		return nil, err
	}
	if in.NameEn, err = required("name_en", in.NameEn); err != nil {
		return nil, err
	}
	if in.NameKh, err = required("name_kh", in.NameKh); err != nil {
		return nil, err
	}
	if err := checkQuantities(in.BeginningQuantity, in.MinimumStock); err != nil {
		return nil, err
	}
	if err := s.requireCategory(ctx, in.CategoryID); err != nil {
		return nil, err
	}

	existing, err := s.repo.FindByNaturalKey(ctx, in.ProductCode, in.NameEn, in.NameKh)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, domain.Conflict("product already exists")
	}

	now := s.now()
	in.ID = uuid.NewString()
	in.CategoryName = ""
	in.CreatedAt, in.UpdatedAt = now, now
	return s.repo.Create(ctx, &in)
}

func (s *ProductService) Get(ctx context.Context, id string) (*domain.Product, error) {
	if !validID(id) {
		return nil, domain.NotFound("product not found")
	}
	product, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, domain.NotFound("product not found")
	}
	return product, nil
}

func (s *ProductService) List(ctx context.Context, params domain.ListParams) (*domain.Page[domain.Product], error) {
	return listPage(ctx, params, s.repo.List)
}

func (s *ProductService) Update(ctx context.Context, id string, patch domain.ProductPatch) (*domain.Product, error) {
	if patch.IsEmpty() {
		return nil, domain.Validation("no fields to update")
	}
	var err error
	if patch.ProductCode, err = trimmedField("product_code", patch.ProductCode); err != nil {
		return nil, err
	}
	if patch.NameEn, err = trimmedField("name_en", patch.NameEn); err != nil {
		return nil, err
	}
	if patch.NameKh, err = trimmedField("name_kh", patch.NameKh); err != nil {
		return nil, err
	}

	current, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	merged := patch.Apply(*current, s.now())
	if err := checkQuantities(merged.BeginningQuantity, merged.MinimumStock); err != nil {
		return nil, err
	}
	if patch.CategoryID != nil && *patch.CategoryID != current.CategoryID {
		if err := s.requireCategory(ctx, *patch.CategoryID); err != nil {
			return nil, err
		}
	}
	if patch.TouchesNaturalKey() {
		existing, err := s.repo.FindByNaturalKey(ctx, merged.ProductCode, merged.NameEn, merged.NameKh)
		if err != nil {
			return nil, err
		}
		if existing != nil && existing.ID != id {
			return nil, domain.Conflict("product already exists")
		}
	}

	updated, err := s.repo.Update(ctx, &merged)
	if err != nil {
		return nil, err
	}
	if updated == nil {
		return nil, domain.NotFound("product not found")
	}
	return updated, nil
}

func (s *ProductService) Delete(ctx context.Context, id string) (bool, error) {
	if !validID(id) {
		return false, nil
	}
	return s.repo.Delete(ctx, id)
}

func (s *ProductService) Count(ctx context.Context) (int, error) {
	return s.repo.Count(ctx)
}

func (s *ProductService) requireCategory(ctx context.Context, categoryID string) error {
	if !validID(categoryID) {
		return domain.NotFound("category not found")
	}
	category, err := s.categories.FindByID(ctx, categoryID)
	if err != nil {
		return err
	}
	if category == nil {
		return domain.NotFound("category not found")
	}
	return nil
}

func checkQuantities(beginning, minimum int) error {
	if beginning < 0 {
		return domain.Validation("beginning_quantity must be greater than or equal to 0")
	}
	if minimum < 0 {
		return domain.Validation("minimum_stock must be greater than or equal to 0")
	}
	if beginning > domain.MaxQuantity {
		return domain.Validation("beginning_quantity must not exceed %d", domain.MaxQuantity)
	}
	if minimum > domain.MaxQuantity {
		return domain.Validation("minimum_stock must not exceed %d", domain.MaxQuantity)
	}
	return nil
}
