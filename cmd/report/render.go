package main

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/andresuchdata/stockroom/backend-go/internal/domain"
	"github.com/xuri/excelize/v2"
)

const (
	formatCSV  = "csv"
	formatXLSX = "xlsx"

	summarySheet = "Stock Summary"
)

var summaryHeader = []string{
	"product_id", "product_code", "name_en", "name_kh", "category_name",
	"beginning_quantity", "total_stock_in", "total_stock_out", "quantity_in_hand",
	"minimum_stock", "unit_avg_cost", "available_amount", "low_stock", "negative_stock",
}

var contentTypes = map[string]string{
	formatCSV:  "text/csv",
	formatXLSX: "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
}

// summaryCells returns one row in header order. Quantities and money stay
// numeric so spreadsheets can sum them.
func summaryCells(s domain.StockSummary) []interface{} {
	return []interface{}{
		s.ProductID,
		s.ProductCode,
		s.NameEn,
		s.NameKh,
		s.CategoryName,
		s.BeginningQuantity,
		s.TotalStockIn,
		s.TotalStockOut,
		s.QuantityInHand,
		s.MinimumStock,
		s.UnitAvgCost.InexactFloat64(),
		s.AvailableAmount.InexactFloat64(),
		s.LowStock,
		s.NegativeStock,
	}
}

func writeSummary(w io.Writer, format string, summaries []domain.StockSummary) error {
	switch format {
	case formatCSV:
		return writeSummaryCSV(w, summaries)
	case formatXLSX:
		return writeSummaryXLSX(w, summaries)
	default:
		return fmt.Errorf("unknown format %q (want csv or xlsx)", format)
	}
}

func writeSummaryCSV(w io.Writer, summaries []domain.StockSummary) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(summaryHeader); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}
	for _, s := range summaries {
		row := []string{
			s.ProductID,
			s.ProductCode,
			s.NameEn,
			s.NameKh,
			s.CategoryName,
			strconv.FormatInt(s.BeginningQuantity, 10),
			strconv.FormatInt(s.TotalStockIn, 10),
			strconv.FormatInt(s.TotalStockOut, 10),
			strconv.FormatInt(s.QuantityInHand, 10),
			strconv.FormatInt(s.MinimumStock, 10),
			s.UnitAvgCost.StringFixed(2),
			s.AvailableAmount.StringFixed(2),
			strconv.FormatBool(s.LowStock),
			strconv.FormatBool(s.NegativeStock),
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("failed to write row for %s: %w", s.ProductID, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

func writeSummaryXLSX(w io.Writer, summaries []domain.StockSummary) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", summarySheet); err != nil {
		return fmt.Errorf("failed to name sheet: %w", err)
	}

	setRow := func(row int, values []interface{}) error {
		for i, v := range values {
			cell, err := excelize.CoordinatesToCellName(i+1, row)
			if err != nil {
				return err
			}
			if err := f.SetCellValue(summarySheet, cell, v); err != nil {
				return fmt.Errorf("failed to set %s: %w", cell, err)
			}
		}
		return nil
	}

	header := make([]interface{}, len(summaryHeader))
	for i, h := range summaryHeader {
		header[i] = h
	}
	if err := setRow(1, header); err != nil {
		return err
	}
	for i, s := range summaries {
		if err := setRow(i+2, summaryCells(s)); err != nil {
			return err
		}
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}
	return nil
}

// reportKey builds a sortable object key under prefix.
func reportKey(prefix, format string, at time.Time) string {
	if prefix != "" && !strings.HasSuffix(prefix, "/") {
		prefix += "/"
	}
	return prefix + "stock-summary-" + at.UTC().Format("20060102T150405Z") + "." + format
}
