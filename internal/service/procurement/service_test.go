package procurement

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/prasadnk/dairydesk/internal/domain/apperr"
	"github.com/prasadnk/dairydesk/internal/domain/models"
	"github.com/prasadnk/dairydesk/internal/repository/mongodb"
	"github.com/prasadnk/dairydesk/internal/repository/mongodb/mongotest"
)

func newTestService(t *testing.T) (*Service, *mongotest.ProcurementRepo, *mongotest.SupplierRepo, primitive.ObjectID) {
	t.Helper()

	suppliers := &mongotest.SupplierRepo{}
	supplierID, err := suppliers.Insert(context.Background(), &models.Supplier{
		SupplierName:   "Ramesh Dairy Farm",
		SupplierNumber: "9876543210",
		SupplierTSRate: 45,
	})
	if err != nil {
		t.Fatalf("seed supplier: %v", err)
	}

	repo := &mongotest.ProcurementRepo{}
	return NewService(repo, suppliers, nil), repo, suppliers, supplierID
}

func validCreate(supplierID primitive.ObjectID) models.ProcurementCreateRequest {
	return models.ProcurementCreateRequest{
		SupplierID:   supplierID.Hex(),
		Date:         "2024-01-01",
		MilkQuantity: 100.0,
		Rate:         50.0,
	}
}

func TestCreateComputesTotalAmount(t *testing.T) {
	svc, _, _, supplierID := newTestService(t)

	created, err := svc.Create(context.Background(), validCreate(supplierID))
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if created.TotalAmount != 5000 {
		t.Errorf("totalAmount = %v, want 5000", created.TotalAmount)
	}
}

func TestCreateRoundsTotalAmount(t *testing.T) {
	svc, _, _, supplierID := newTestService(t)

	req := validCreate(supplierID)
	req.MilkQuantity = 3.33
	req.Rate = 7.77

	created, err := svc.Create(context.Background(), req)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if created.TotalAmount != 25.87 {
		t.Errorf("totalAmount = %v, want 25.87", created.TotalAmount)
	}
}

func TestCreateIgnoresCallerTotalAmount(t *testing.T) {
	svc, _, _, supplierID := newTestService(t)

	req := validCreate(supplierID)
	req.TotalAmount = 1.0

	created, err := svc.Create(context.Background(), req)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if created.TotalAmount != 5000 {
		t.Errorf("totalAmount = %v, want server-computed 5000", created.TotalAmount)
	}
}

func TestCreateAcceptsNumericStrings(t *testing.T) {
	svc, _, _, supplierID := newTestService(t)

	req := validCreate(supplierID)
	req.MilkQuantity = "100"
	req.Rate = "50"
	req.FatPercentage = "4.2"

	created, err := svc.Create(context.Background(), req)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if created.TotalAmount != 5000 {
		t.Errorf("totalAmount = %v, want 5000", created.TotalAmount)
	}
	if created.FatPercentage == nil || *created.FatPercentage != 4.2 {
		t.Errorf("fat = %v, want 4.2", created.FatPercentage)
	}
}

func TestCreateValidation(t *testing.T) {
	svc, repo, _, supplierID := newTestService(t)
	ctx := context.Background()

	tests := []struct {
		name   string
		mutate func(*models.ProcurementCreateRequest)
	}{
		{"missing supplier id", func(r *models.ProcurementCreateRequest) { r.SupplierID = "" }},
		{"missing date", func(r *models.ProcurementCreateRequest) { r.Date = "" }},
		{"missing quantity", func(r *models.ProcurementCreateRequest) { r.MilkQuantity = nil }},
		{"missing rate", func(r *models.ProcurementCreateRequest) { r.Rate = nil }},
		{"malformed supplier id", func(r *models.ProcurementCreateRequest) { r.SupplierID = "zz" }},
		{"zero quantity", func(r *models.ProcurementCreateRequest) { r.MilkQuantity = 0.0 }},
		{"negative rate", func(r *models.ProcurementCreateRequest) { r.Rate = -5.0 }},
		{"quantity not numeric", func(r *models.ProcurementCreateRequest) { r.MilkQuantity = "many" }},
		{"fat above 100", func(r *models.ProcurementCreateRequest) { r.FatPercentage = 101.0 }},
		{"snf below 0", func(r *models.ProcurementCreateRequest) { r.SNFPercentage = -1.0 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := validCreate(supplierID)
			tt.mutate(&req)
			if _, err := svc.Create(ctx, req); !errors.Is(err, apperr.ErrInvalid) {
				t.Errorf("err = %v, want ErrInvalid", err)
			}
		})
	}

	if len(repo.Procurements) != 0 {
		t.Error("validation failures must not write")
	}
}

func TestCreateUnknownSupplierIsNotFound(t *testing.T) {
	svc, repo, _, _ := newTestService(t)

	req := validCreate(primitive.NewObjectID())
	if _, err := svc.Create(context.Background(), req); !errors.Is(err, apperr.ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
	if len(repo.Procurements) != 0 {
		t.Error("not-found failures must not write")
	}
}

func TestCreateUpdatesLastProcurementDate(t *testing.T) {
	svc, _, suppliers, supplierID := newTestService(t)

	if _, err := svc.Create(context.Background(), validCreate(supplierID)); err != nil {
		t.Fatalf("Create: %v", err)
	}

	supplier, err := suppliers.FindByID(context.Background(), supplierID)
	if err != nil {
		t.Fatalf("FindByID: %v", err)
	}
	if supplier.LastProcurementDate != "2024-01-01" {
		t.Errorf("lastProcurementDate = %q, want %q", supplier.LastProcurementDate, "2024-01-01")
	}
}

func TestCreateToleratesLastProcurementDateFailure(t *testing.T) {
	svc, repo, suppliers, supplierID := newTestService(t)
	suppliers.FailLastProcurement = true

	created, err := svc.Create(context.Background(), validCreate(supplierID))
	if err != nil {
		t.Fatalf("Create must succeed despite the denormalization failure, got %v", err)
	}
	if created.ID.IsZero() {
		t.Error("expected generated id")
	}
	if len(repo.Procurements) != 1 {
		t.Errorf("stored %d procurements, want 1", len(repo.Procurements))
	}
}

func TestHistoryIsCappedAndProjected(t *testing.T) {
	suppliers := &mongotest.SupplierRepo{}
	repo := &mongotest.ProcurementRepo{}
	svc := NewService(repo, suppliers, nil)
	ctx := context.Background()

	supplierID := primitive.NewObjectID()
	for i := 0; i < 10; i++ {
		_, err := repo.Insert(ctx, &models.Procurement{
			SupplierID:   supplierID,
			Date:         "2024-01-05",
			MilkQuantity: 10,
			Rate:         40,
			TotalAmount:  400,
			CreatedAt:    time.Now(),
			UpdatedAt:    time.Now(),
		})
		if err != nil {
			t.Fatalf("seed procurement: %v", err)
		}
	}

	history, err := svc.History(ctx, mongodb.ProcurementQuery{StartDate: "2024-01-01", EndDate: "2024-01-31"})
	if err != nil {
		t.Fatalf("History: %v", err)
	}
	if len(history) != 10 {
		t.Fatalf("history returned %d records, want 10", len(history))
	}
	for _, p := range history {
		if !p.CreatedAt.IsZero() || !p.UpdatedAt.IsZero() {
			t.Fatal("history must project away timestamps")
		}
	}
}
