package main

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/andresuchdata/stockroom/backend-go/internal/domain"
	"github.com/andresuchdata/stockroom/backend-go/internal/repository"
	"github.com/andresuchdata/stockroom/backend-go/pkg/logger"
	"github.com/urfave/cli/v2"
)

// record is one CSV row keyed by its header column.
type record map[string]string

func runSeeder(c *cli.Context) error {
	db, err := dbFrom(c)
	if err != nil {
		return err
	}
	dataDir := c.String("data-dir")
	ctx := c.Context

	// Start a transaction
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	// Defer a rollback in case anything fails.
	defer tx.Rollback()

	logger.Log.Info().Str("dir", dataDir).Msg("Starting database seeding...")

	if err := seedMasterData(ctx, repository.NewIngestRepository(tx), dataDir); err != nil {
		return fmt.Errorf("failed to seed master data: %w", err)
	}

	// Commit the transaction
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	logger.Log.Info().Msg("Database seeding completed successfully!")
	return nil
}

// seedMasterData loads categories before products so product rows can
// resolve their category by name. A missing file is skipped.
func seedMasterData(ctx context.Context, repo *repository.IngestRepository, dataDir string) error {
	steps := []struct {
		table string
		file  string
		load  func(context.Context, *repository.IngestRepository, record) error
	}{
		{"suppliers", "suppliers.csv", seedSupplier},
		{"categories", "categories.csv", seedCategory},
		{"products", "products.csv", seedProduct},
	}

	for _, step := range steps {
		path := filepath.Join(dataDir, step.file)
		rows, err := readCSV(path)
		if errors.Is(err, fs.ErrNotExist) {
			logger.Log.Warn().Str("file", path).Msg("seed file not found, skipping")
			continue
		}
		if err != nil {
			return err
		}

		for i, row := range rows {
			if err := step.load(ctx, repo, row); err != nil {
				return fmt.Errorf("%s row %d: %w", step.file, i+2, err)
			}
		}
		logger.Log.Info().Str("table", step.table).Int("rows", len(rows)).Msg("seeded")
	}
	return nil
}

func seedSupplier(ctx context.Context, repo *repository.IngestRepository, row record) error {
	s, err := supplierFromRecord(row)
	if err != nil {
		return err
	}
	_, err = repo.UpsertSupplier(ctx, &s)
	return err
}

func seedCategory(ctx context.Context, repo *repository.IngestRepository, row record) error {
	cat, err := categoryFromRecord(row)
	if err != nil {
		return err
	}
	_, err = repo.UpsertCategory(ctx, &cat)
	return err
}

func seedProduct(ctx context.Context, repo *repository.IngestRepository, row record) error {
	p, err := productFromRecord(row)
	if err != nil {
		return err
	}
	_, err = repo.UpsertProduct(ctx, &p)
	return err
}

func supplierFromRecord(row record) (domain.Supplier, error) {
	s := domain.Supplier{
		SupplierName: row["supplier_name"],
		PhoneNumber:  row["phone_number"],
		Address:      row["address"],
		CompanyName:  row["company_name"],
	}
	if s.SupplierName == "" {
		return s, fmt.Errorf("supplier_name is required")
	}
	return s, nil
}

func categoryFromRecord(row record) (domain.Category, error) {
	c := domain.Category{
		CategoryName: row["category_name"],
		Description:  row["description"],
	}
	if c.CategoryName == "" {
		return c, fmt.Errorf("category_name is required")
	}
	return c, nil
}

func productFromRecord(row record) (domain.Product, error) {
	p := domain.Product{
		CategoryName: row["category_name"],
		ProductCode:  row["product_code"],
		NameEn:       row["name_en"],
		NameKh:       row["name_kh"],
	}
	for _, field := range []struct{ name, value string }{
		{"category_name", p.CategoryName},
		{"product_code", p.ProductCode},
		{"name_en", p.NameEn},
		{"name_kh", p.NameKh},
	} {
		if field.value == "" {
			return p, fmt.Errorf("%s is required", field.name)
		}
	}

	var err error
	if p.BeginningQuantity, err = parseQuantity(row["beginning_quantity"]); err != nil {
		return p, fmt.Errorf("beginning_quantity: %w", err)
	}
	if p.MinimumStock, err = parseQuantity(row["minimum_stock"]); err != nil {
		return p, fmt.Errorf("minimum_stock: %w", err)
	}
	return p, nil
}

// parseQuantity reads a non-negative whole number; blank means zero.
func parseQuantity(value string) (int, error) {
	value = strings.ReplaceAll(strings.TrimSpace(value), ",", "")
	if value == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("invalid integer %q", value)
	}
	if n < 0 {
		return 0, fmt.Errorf("must be non-negative, got %d", n)
	}
	if n > domain.MaxQuantity {
		return 0, fmt.Errorf("must not exceed %d, got %d", domain.MaxQuantity, n)
	}
	return n, nil
}

func readCSV(path string) ([]record, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()
	return parseCSV(file)
}

// parseCSV keys every row by the lower-cased header. Values are trimmed.
func parseCSV(r io.Reader) ([]record, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV header: %w", err)
	}
	for i, h := range header {
		header[i] = strings.ToLower(strings.TrimSpace(strings.TrimPrefix(h, "\ufeff")))
	}

	var rows []record
	for {
		fields, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read CSV record: %w", err)
		}

		row := make(record, len(header))
		for i, col := range header {
			if i < len(fields) {
				row[col] = strings.TrimSpace(fields[i])
			}
		}
		rows = append(rows, row)
	}
	return rows, nil
}
