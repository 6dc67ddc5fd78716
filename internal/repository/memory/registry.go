package memory

import (
	"context"

	"github.com/andresuchdata/stockroom/backend-go/internal/domain"
)

type supplierRepository struct{ s *state }

func (r *supplierRepository) Create(_ context.Context, supplier *domain.Supplier) (*domain.Supplier, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if r.s.suppliers.exists(func(x domain.Supplier) bool { return x.SupplierName == supplier.SupplierName }) {
		return nil, domain.Conflict("supplier already exists")
	}
	row := *supplier
	r.s.suppliers.insert(row.ID, row)
	return &row, nil
}

func (r *supplierRepository) FindByID(_ context.Context, id string) (*domain.Supplier, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	row, ok := r.s.suppliers.get(id)
	if !ok {
		return nil, nil
	}
	return &row, nil
}

func (r *supplierRepository) FindByName(_ context.Context, name string) (*domain.Supplier, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	for _, row := range r.s.suppliers.oldestFirst() {
		if row.SupplierName == name {
			return &row, nil
		}
	}
	return nil, nil
}

func (r *supplierRepository) List(_ context.Context, params domain.ListParams) ([]domain.Supplier, int, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	rows := filter(r.s.suppliers.newestFirst(), func(x domain.Supplier) bool {
		return matches(params.Search, x.SupplierName, x.CompanyName, x.PhoneNumber)
	})
	page, total := paginate(rows, params)
	return page, total, nil
}

func (r *supplierRepository) Update(_ context.Context, supplier *domain.Supplier) (*domain.Supplier, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.suppliers.get(supplier.ID); !ok {
		return nil, nil
	}
	if r.s.suppliers.exists(func(x domain.Supplier) bool {
		return x.ID != supplier.ID && x.SupplierName == supplier.SupplierName
	}) {
		return nil, domain.Conflict("supplier already exists")
	}
	row := *supplier
	r.s.suppliers.put(row.ID, row)
	return &row, nil
}

func (r *supplierRepository) Delete(_ context.Context, id string) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if r.s.invoices.exists(func(x domain.StockInInvoice) bool { return x.SupplierID == id }) {
		return false, stillInUse("supplier")
	}
	return r.s.suppliers.remove(id), nil
}

func (r *supplierRepository) Count(_ context.Context) (int, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	return len(r.s.suppliers.rows), nil
}

type categoryRepository struct{ s *state }

func (r *categoryRepository) Create(_ context.Context, category *domain.Category) (*domain.Category, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if r.s.categories.exists(func(x domain.Category) bool { return x.CategoryName == category.CategoryName }) {
		return nil, domain.Conflict("category already exists")
	}
	row := *category
	r.s.categories.insert(row.ID, row)
	return &row, nil
}

func (r *categoryRepository) FindByID(_ context.Context, id string) (*domain.Category, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	row, ok := r.s.categories.get(id)
	if !ok {
		return nil, nil
	}
	return &row, nil
}

func (r *categoryRepository) FindByName(_ context.Context, name string) (*domain.Category, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	for _, row := range r.s.categories.oldestFirst() {
		if row.CategoryName == name {
			return &row, nil
		}
	}
	return nil, nil
}

func (r *categoryRepository) List(_ context.Context, params domain.ListParams) ([]domain.Category, int, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	rows := filter(r.s.categories.newestFirst(), func(x domain.Category) bool {
		return matches(params.Search, x.CategoryName, x.Description)
	})
	page, total := paginate(rows, params)
	return page, total, nil
}

func (r *categoryRepository) Update(_ context.Context, category *domain.Category) (*domain.Category, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.categories.get(category.ID); !ok {
		return nil, nil
	}
	if r.s.categories.exists(func(x domain.Category) bool {
		return x.ID != category.ID && x.CategoryName == category.CategoryName
	}) {
		return nil, domain.Conflict("category already exists")
	}
	row := *category
	r.s.categories.put(row.ID, row)
	return &row, nil
}

func (r *categoryRepository) Delete(_ context.Context, id string) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if r.s.products.exists(func(x domain.Product) bool { return x.CategoryID == id }) {
		return false, stillInUse("category")
	}
	return r.s.categories.remove(id), nil
}

func (r *categoryRepository) Count(_ context.Context) (int, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	return len(r.s.categories.rows), nil
}

type productRepository struct{ s *state }

func (r *productRepository) Create(_ context.Context, product *domain.Product) (*domain.Product, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if err := r.check(product); err != nil {
		return nil, err
	}
	row := *product
	r.s.products.insert(row.ID, row)
	return r.s.joinProduct(row), nil
}

func (r *productRepository) FindByID(_ context.Context, id string) (*domain.Product, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	row, ok := r.s.products.get(id)
	if !ok {
		return nil, nil
	}
	return r.s.joinProduct(row), nil
}

func (r *productRepository) FindByNaturalKey(_ context.Context, productCode, nameEn, nameKh string) (*domain.Product, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	for _, row := range r.s.products.oldestFirst() {
		if row.ProductCode == productCode && row.NameEn == nameEn && row.NameKh == nameKh {
			return r.s.joinProduct(row), nil
		}
	}
	return nil, nil
}

func (r *productRepository) List(_ context.Context, params domain.ListParams) ([]domain.Product, int, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	rows := make([]domain.Product, 0, len(r.s.products.rows))
	for _, row := range r.s.products.newestFirst() {
		joined := r.s.joinProduct(row)
		if matches(params.Search, joined.ProductCode, joined.NameEn, joined.NameKh, joined.CategoryName) {
			rows = append(rows, *joined)
		}
	}
	page, total := paginate(rows, params)
	return page, total, nil
}

func (r *productRepository) Update(_ context.Context, product *domain.Product) (*domain.Product, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.products.get(product.ID); !ok {
		return nil, nil
	}
	if err := r.check(product); err != nil {
		return nil, err
	}
	row := *product
	r.s.products.put(row.ID, row)
	return r.s.joinProduct(row), nil
}

// check enforces the category reference and the (code, en, kh) unique key.
func (r *productRepository) check(p *domain.Product) error {
	if _, ok := r.s.categories.get(p.CategoryID); !ok {
		return missingReference("products_category_id_fkey")
	}
	if r.s.products.exists(func(x domain.Product) bool {
		return x.ID != p.ID && x.ProductCode == p.ProductCode && x.NameEn == p.NameEn && x.NameKh == p.NameKh
	}) {
		return domain.Conflict("product already exists")
	}
	return nil
}

func (r *productRepository) Delete(_ context.Context, id string) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if r.s.items.exists(func(x domain.StockInItem) bool { return x.ProductID == id }) ||
		r.s.stockOuts.exists(func(x domain.StockOut) bool { return x.ProductID == id }) {
		return false, stillInUse("product")
	}
	return r.s.products.remove(id), nil
}

func (r *productRepository) Count(_ context.Context) (int, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	return len(r.s.products.rows), nil
}

// joinProduct fills the category name the way the SQL join does.
func (s *state) joinProduct(p domain.Product) *domain.Product {
	if c, ok := s.categories.get(p.CategoryID); ok {
		p.CategoryName = c.CategoryName
	}
	return &p
}

type userRepository struct{ s *state }

func (r *userRepository) Create(_ context.Context, user *domain.User) (*domain.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if r.s.users.exists(func(x domain.User) bool { return x.Email == user.Email }) {
		return nil, domain.Conflict("user already exists")
	}
	row := *user
	r.s.users.insert(row.ID, row)
	return &row, nil
}

func (r *userRepository) FindByID(_ context.Context, id string) (*domain.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	row, ok := r.s.users.get(id)
	if !ok {
		return nil, nil
	}
	return &row, nil
}

func (r *userRepository) FindByEmail(_ context.Context, email string) (*domain.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	for _, row := range r.s.users.oldestFirst() {
		if row.Email == email {
			return &row, nil
		}
	}
	return nil, nil
}
