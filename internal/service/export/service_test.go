package export

import (
	"bytes"
	"context"
	"encoding/csv"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/prasadnk/dairydesk/internal/domain/models"
	"github.com/prasadnk/dairydesk/internal/repository/mongodb"
	"github.com/prasadnk/dairydesk/internal/repository/mongodb/mongotest"
)

func f(v float64) *float64 { return &v }

func newTestService(t *testing.T) (*Service, *mongotest.ProductionRepo, *mongotest.ProcurementRepo, *mongotest.SupplierRepo) {
	t.Helper()
	productions := &mongotest.ProductionRepo{}
	procurements := &mongotest.ProcurementRepo{}
	suppliers := &mongotest.SupplierRepo{}
	return NewService(productions, procurements, suppliers, nil), productions, procurements, suppliers
}

func TestProductionCSV(t *testing.T) {
	svc, productions, _, _ := newTestService(t)
	ctx := context.Background()

	entry := models.ProductionEntry{
		Date:         "2024-01-05",
		Batch:        "B1",
		MilkQuantity: f(100),
		CurdQuantity: f(20.5),
	}
	if _, err := productions.Insert(ctx, &entry); err != nil {
		t.Fatalf("seed production: %v", err)
	}

	data, err := svc.ProductionCSV(ctx, mongodb.ProductionQuery{})
	if err != nil {
		t.Fatalf("ProductionCSV: %v", err)
	}

	rows, err := csv.NewReader(bytes.NewReader(data)).ReadAll()
	if err != nil {
		t.Fatalf("parse csv: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("csv rows = %d, want header + 1", len(rows))
	}
	if rows[0][0] != "Date" || rows[0][1] != "Batch" {
		t.Errorf("unexpected header: %v", rows[0])
	}

	row := rows[1]
	if row[0] != "2024-01-05" || row[1] != "B1" {
		t.Errorf("unexpected row: %v", row)
	}
	if row[2] != "100" {
		t.Errorf("milk cell = %q, want %q", row[2], "100")
	}
	if row[4] != "20.5" {
		t.Errorf("curd cell = %q, want %q", row[4], "20.5")
	}
	if row[3] != "" {
		t.Errorf("absent quantity cell = %q, want empty", row[3])
	}
}

func TestProcurementCSVResolvesSupplierNames(t *testing.T) {
	svc, _, procurements, suppliers := newTestService(t)
	ctx := context.Background()

	supplierID, err := suppliers.Insert(ctx, &models.Supplier{SupplierName: "Ramesh Dairy Farm"})
	if err != nil {
		t.Fatalf("seed supplier: %v", err)
	}
	if _, err := procurements.Insert(ctx, &models.Procurement{
		SupplierID:   supplierID,
		Date:         "2024-01-05",
		MilkQuantity: 100,
		Rate:         50,
		TotalAmount:  5000,
	}); err != nil {
		t.Fatalf("seed procurement: %v", err)
	}

	data, err := svc.ProcurementCSV(ctx, mongodb.ProcurementQuery{})
	if err != nil {
		t.Fatalf("ProcurementCSV: %v", err)
	}

	rows, err := csv.NewReader(bytes.NewReader(data)).ReadAll()
	if err != nil {
		t.Fatalf("parse csv: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("csv rows = %d, want header + 1", len(rows))
	}

	row := rows[1]
	if row[1] != "Ramesh Dairy Farm" {
		t.Errorf("supplier cell = %q, want resolved name", row[1])
	}
	if row[6] != "5000.00" {
		t.Errorf("total cell = %q, want %q", row[6], "5000.00")
	}
}

func TestPDFOutputs(t *testing.T) {
	svc, productions, procurements, suppliers := newTestService(t)
	ctx := context.Background()

	if _, err := productions.Insert(ctx, &models.ProductionEntry{Date: "2024-01-05", Batch: "B1", MilkQuantity: f(100)}); err != nil {
		t.Fatalf("seed production: %v", err)
	}
	supplierID, err := suppliers.Insert(ctx, &models.Supplier{SupplierName: "Ramesh Dairy Farm"})
	if err != nil {
		t.Fatalf("seed supplier: %v", err)
	}
	if _, err := procurements.Insert(ctx, &models.Procurement{SupplierID: supplierID, Date: "2024-01-05", MilkQuantity: 100, Rate: 50, TotalAmount: 5000}); err != nil {
		t.Fatalf("seed procurement: %v", err)
	}

	prodPDF, err := svc.ProductionPDF(ctx, mongodb.ProductionQuery{})
	if err != nil {
		t.Fatalf("ProductionPDF: %v", err)
	}
	if !strings.HasPrefix(string(prodPDF), "%PDF") {
		t.Error("production pdf must start with the PDF magic")
	}

	procPDF, err := svc.ProcurementPDF(ctx, mongodb.ProcurementQuery{})
	if err != nil {
		t.Fatalf("ProcurementPDF: %v", err)
	}
	if !strings.HasPrefix(string(procPDF), "%PDF") {
		t.Error("procurement pdf must start with the PDF magic")
	}
}

func TestTruncateCellKeepsRunesIntact(t *testing.T) {
	tests := []struct {
		name string
		in   string
		max  int
		want string
	}{
		{"short ascii unchanged", "Morning Batch", 24, "Morning Batch"},
		{"long ascii shortened", "A very long production batch label", 24, "A very long productio..."},
		{"exact length unchanged", strings.Repeat("x", 24), 24, strings.Repeat("x", 24)},
		{"multibyte shortened", strings.Repeat("दूध", 10), 24, strings.Repeat("दूध", 7) + "..."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := truncateCell(tt.in, tt.max)
			if got != tt.want {
				t.Errorf("truncateCell(%q, %d) = %q, want %q", tt.in, tt.max, got, tt.want)
			}
			if !utf8.ValidString(got) {
				t.Errorf("truncateCell produced invalid UTF-8: %q", got)
			}
		})
	}
}
