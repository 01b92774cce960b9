// Package export renders production and procurement history as CSV and PDF
// downloads.
package export

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"strconv"
	"time"

	"github.com/jung-kurt/gofpdf/v2"
	"go.uber.org/zap"

	"github.com/prasadnk/dairydesk/internal/domain/models"
	"github.com/prasadnk/dairydesk/internal/repository/mongodb"
)

// Service generates report files from the filtered history reads.
type Service struct {
	productions  mongodb.ProductionRepository
	procurements mongodb.ProcurementRepository
	suppliers    mongodb.SupplierRepository
	logger       *zap.Logger
	now          func() time.Time
}

// NewService wires a new export service instance.
func NewService(productions mongodb.ProductionRepository, procurements mongodb.ProcurementRepository, suppliers mongodb.SupplierRepository, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		productions:  productions,
		procurements: procurements,
		suppliers:    suppliers,
		logger:       logger,
		now:          time.Now,
	}
}

var productionColumns = []string{
	"Date", "Batch", "Milk", "Toned Milk", "Curd", "Paneer", "Malai Paneer", "Butter", "Cream", "Ghee",
}

// ProductionCSV renders the filtered production history as CSV.
func (s *Service) ProductionCSV(ctx context.Context, query mongodb.ProductionQuery) ([]byte, error) {
	entries, err := s.productions.List(ctx, query, 0)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write(productionColumns); err != nil {
		return nil, fmt.Errorf("write csv header: %w", err)
	}
	for _, e := range entries {
		if err := w.Write(productionRow(e)); err != nil {
			return nil, fmt.Errorf("write csv row: %w", err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, fmt.Errorf("flush csv: %w", err)
	}
	return buf.Bytes(), nil
}

// ProductionPDF renders the filtered production history as a landscape PDF
// table.
func (s *Service) ProductionPDF(ctx context.Context, query mongodb.ProductionQuery) ([]byte, error) {
	entries, err := s.productions.List(ctx, query, 0)
	if err != nil {
		return nil, err
	}

	pdf := gofpdf.New("L", "mm", "A4", "")
	pdf.SetMargins(10, 10, 10)
	pdf.AddPage()

	pdf.SetFont("Arial", "B", 14)
	pdf.CellFormat(277, 10, "Production History", "", 1, "C", false, 0, "")
	pdf.SetFont("Arial", "", 9)
	pdf.CellFormat(277, 6, fmt.Sprintf("Generated: %s", s.now().Format("02-Jan-2006 03:04 PM")), "", 1, "C", false, 0, "")
	pdf.Ln(4)

	widths := []float64{25, 42, 26, 26, 26, 26, 28, 26, 26, 26}
	pdf.SetFont("Arial", "B", 9)
	pdf.SetFillColor(200, 200, 200)
	for i, col := range productionColumns {
		pdf.CellFormat(widths[i], 7, col, "1", 0, "C", true, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont("Arial", "", 9)
	for _, e := range entries {
		row := productionRow(e)
		for i, cell := range row {
			align := "C"
			if i == 1 {
				align = "L"
				cell = truncateCell(cell, 24)
			}
			pdf.CellFormat(widths[i], 6, cell, "1", 0, align, false, 0, "")
		}
		pdf.Ln(-1)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("render production pdf: %w", err)
	}
	return buf.Bytes(), nil
}

var procurementColumns = []string{
	"Date", "Supplier", "Milk Qty (L)", "Fat %", "SNF %", "Rate", "Total Amount",
}

// ProcurementCSV renders the filtered procurement history as CSV, with
// supplier ids resolved to names.
func (s *Service) ProcurementCSV(ctx context.Context, query mongodb.ProcurementQuery) ([]byte, error) {
	procurements, names, err := s.procurementRows(ctx, query)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write(procurementColumns); err != nil {
		return nil, fmt.Errorf("write csv header: %w", err)
	}
	for _, p := range procurements {
		if err := w.Write(procurementRow(p, names)); err != nil {
			return nil, fmt.Errorf("write csv row: %w", err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, fmt.Errorf("flush csv: %w", err)
	}
	return buf.Bytes(), nil
}

// ProcurementPDF renders the filtered procurement history as a PDF table.
func (s *Service) ProcurementPDF(ctx context.Context, query mongodb.ProcurementQuery) ([]byte, error) {
	procurements, names, err := s.procurementRows(ctx, query)
	if err != nil {
		return nil, err
	}

	pdf := gofpdf.New("L", "mm", "A4", "")
	pdf.SetMargins(10, 10, 10)
	pdf.AddPage()

	pdf.SetFont("Arial", "B", 14)
	pdf.CellFormat(277, 10, "Milk Procurement History", "", 1, "C", false, 0, "")
	pdf.SetFont("Arial", "", 9)
	pdf.CellFormat(277, 6, fmt.Sprintf("Generated: %s", s.now().Format("02-Jan-2006 03:04 PM")), "", 1, "C", false, 0, "")
	pdf.Ln(4)

	widths := []float64{30, 77, 34, 28, 28, 34, 46}
	pdf.SetFont("Arial", "B", 9)
	pdf.SetFillColor(200, 200, 200)
	for i, col := range procurementColumns {
		pdf.CellFormat(widths[i], 7, col, "1", 0, "C", true, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont("Arial", "", 9)
	var totalQty, totalAmount float64
	for _, p := range procurements {
		row := procurementRow(p, names)
		for i, cell := range row {
			align := "C"
			if i == 1 {
				align = "L"
				cell = truncateCell(cell, 42)
			}
			pdf.CellFormat(widths[i], 6, cell, "1", 0, align, false, 0, "")
		}
		pdf.Ln(-1)
		totalQty += p.MilkQuantity
		totalAmount += p.TotalAmount
	}

	pdf.SetFont("Arial", "B", 9)
	pdf.CellFormat(107, 7, "Total", "1", 0, "R", false, 0, "")
	pdf.CellFormat(34, 7, fmt.Sprintf("%.2f", totalQty), "1", 0, "C", false, 0, "")
	pdf.CellFormat(90, 7, "", "1", 0, "C", false, 0, "")
	pdf.CellFormat(46, 7, fmt.Sprintf("%.2f", totalAmount), "1", 1, "C", false, 0, "")

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("render procurement pdf: %w", err)
	}
	return buf.Bytes(), nil
}

func (s *Service) procurementRows(ctx context.Context, query mongodb.ProcurementQuery) ([]models.Procurement, map[string]string, error) {
	procurements, err := s.procurements.History(ctx, query, 0)
	if err != nil {
		return nil, nil, err
	}

	suppliers, err := s.suppliers.List(ctx)
	if err != nil {
		return nil, nil, err
	}
	names := make(map[string]string, len(suppliers))
	for _, sup := range suppliers {
		names[sup.ID.Hex()] = sup.SupplierName
	}
	return procurements, names, nil
}

func productionRow(e models.ProductionEntry) []string {
	return []string{
		e.Date,
		e.Batch,
		formatQuantity(e.MilkQuantity),
		formatQuantity(e.TonedMilkQuantity),
		formatQuantity(e.CurdQuantity),
		formatQuantity(e.PaneerQuantity),
		formatQuantity(e.MalaiPaneerQuantity),
		formatQuantity(e.ButterQuantity),
		formatQuantity(e.CreamQuantity),
		formatQuantity(e.GheeQuantity),
	}
}

func procurementRow(p models.Procurement, names map[string]string) []string {
	name := names[p.SupplierID.Hex()]
	if name == "" {
		name = p.SupplierID.Hex()
	}
	return []string{
		p.Date,
		name,
		fmt.Sprintf("%.2f", p.MilkQuantity),
		formatQuantity(p.FatPercentage),
		formatQuantity(p.SNFPercentage),
		fmt.Sprintf("%.2f", p.Rate),
		fmt.Sprintf("%.2f", p.TotalAmount),
	}
}

func formatQuantity(q *float64) string {
	if q == nil {
		return ""
	}
	return strconv.FormatFloat(*q, 'f', -1, 64)
}

// truncateCell shortens a label to max runes for a fixed-width table column.
// Slicing on runes keeps multibyte names intact.
func truncateCell(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max-3]) + "..."
}
