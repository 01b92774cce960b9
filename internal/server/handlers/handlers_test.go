package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/prasadnk/dairydesk/internal/config"
	"github.com/prasadnk/dairydesk/internal/domain/models"
	"github.com/prasadnk/dairydesk/internal/repository/mongodb/mongotest"
	"github.com/prasadnk/dairydesk/internal/server/handlers"
	"github.com/prasadnk/dairydesk/internal/server/router"
	exportsvc "github.com/prasadnk/dairydesk/internal/service/export"
	procurementsvc "github.com/prasadnk/dairydesk/internal/service/procurement"
	productionsvc "github.com/prasadnk/dairydesk/internal/service/production"
	reportingsvc "github.com/prasadnk/dairydesk/internal/service/reporting"
	suppliersvc "github.com/prasadnk/dairydesk/internal/service/supplier"
)

type testEnv struct {
	engine       *gin.Engine
	productions  *mongotest.ProductionRepo
	suppliers    *mongotest.SupplierRepo
	procurements *mongotest.ProcurementRepo
	summaries    *mongotest.SummaryRepo
}

func setup(t *testing.T) *testEnv {
	t.Helper()

	env := &testEnv{
		productions:  &mongotest.ProductionRepo{},
		suppliers:    &mongotest.SupplierRepo{},
		procurements: &mongotest.ProcurementRepo{},
		summaries:    &mongotest.SummaryRepo{},
	}

	productionService := productionsvc.NewService(env.productions, nil)
	supplierService := suppliersvc.NewService(env.suppliers, 0, 500, nil)
	procurementService := procurementsvc.NewService(env.procurements, env.suppliers, nil)
	reportingService := reportingsvc.NewService(env.productions, env.procurements, env.summaries, nil)
	exportService := exportsvc.NewService(env.productions, env.procurements, env.suppliers, nil)

	env.engine = router.New(router.Handlers{
		Production:  handlers.NewProductionHandler(productionService, nil, false),
		Supplier:    handlers.NewSupplierHandler(supplierService, nil, false),
		Procurement: handlers.NewProcurementHandler(procurementService, nil, false),
		Export:      handlers.NewExportHandler(exportService, nil, false),
		Report:      handlers.NewReportHandler(reportingService, nil, false),
	}, config.CORSConfig{AllowedOrigins: []string{"http://localhost:3000"}}, nil)

	return env
}

func (e *testEnv) do(t *testing.T, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal body: %v", err)
		}
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	e.engine.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	if err := json.Unmarshal(w.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode response %q: %v", w.Body.String(), err)
	}
	return out
}

func TestProductionCreateRenamesSecondBatch(t *testing.T) {
	env := setup(t)

	payload := map[string]any{"date": "2024-01-01", "batch": "B1", "milk_quantity": "100"}

	first := env.do(t, http.MethodPost, "/production", payload)
	if first.Code != http.StatusCreated {
		t.Fatalf("first POST status = %d, body %s", first.Code, first.Body.String())
	}
	if entry := decode[models.ProductionEntry](t, first); entry.Batch != "B1" {
		t.Errorf("first batch = %q, want %q", entry.Batch, "B1")
	}

	second := env.do(t, http.MethodPost, "/production", payload)
	if second.Code != http.StatusCreated {
		t.Fatalf("second POST status = %d, body %s", second.Code, second.Body.String())
	}
	if entry := decode[models.ProductionEntry](t, second); entry.Batch != "B1 (1)" {
		t.Errorf("second batch = %q, want %q", entry.Batch, "B1 (1)")
	}
}

func TestProductionCreateValidation(t *testing.T) {
	env := setup(t)

	w := env.do(t, http.MethodPost, "/production", map[string]any{"batch": "B1"})
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", w.Code)
	}
	if body := decode[map[string]string](t, w); body["error"] == "" {
		t.Error("error body must carry an error key")
	}
}

func TestProductionListFiltersByProduct(t *testing.T) {
	env := setup(t)

	env.do(t, http.MethodPost, "/production", map[string]any{"date": "2024-01-01", "batch": "B1", "curd_quantity": "20"})
	env.do(t, http.MethodPost, "/production", map[string]any{"date": "2024-01-02", "batch": "B2", "milk_quantity": "50"})

	w := env.do(t, http.MethodGet, "/production?product=curd", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	entries := decode[[]models.ProductionEntry](t, w)
	if len(entries) != 1 || entries[0].Batch != "B1" {
		t.Errorf("filtered entries = %+v, want only B1", entries)
	}
}

func TestProductionDelete(t *testing.T) {
	env := setup(t)

	created := decode[models.ProductionEntry](t, env.do(t, http.MethodPost, "/production",
		map[string]any{"date": "2024-01-01", "batch": "B1"}))

	w := env.do(t, http.MethodDelete, "/production?id="+created.ID.Hex(), nil)
	if w.Code != http.StatusOK {
		t.Fatalf("delete status = %d", w.Code)
	}

	again := env.do(t, http.MethodDelete, "/production?id="+created.ID.Hex(), nil)
	if again.Code != http.StatusNotFound {
		t.Errorf("second delete status = %d, want 404", again.Code)
	}
}

func supplierPayload() map[string]any {
	return map[string]any{
		"supplierName":    "Ramesh Dairy Farm",
		"supplierNumber":  "9876543210",
		"supplierAddress": "Village Khera, Tehsil Road",
		"supplierTSRate":  45.5,
	}
}

func TestSupplierDuplicatePhoneConflicts(t *testing.T) {
	env := setup(t)

	first := env.do(t, http.MethodPost, "/supplier", supplierPayload())
	if first.Code != http.StatusCreated {
		t.Fatalf("first POST status = %d, body %s", first.Code, first.Body.String())
	}

	payload := supplierPayload()
	payload["supplierName"] = "Another Farm"
	second := env.do(t, http.MethodPost, "/supplier", payload)
	if second.Code != http.StatusConflict {
		t.Errorf("second POST status = %d, want 409", second.Code)
	}
}

func TestSupplierPartialUpdate(t *testing.T) {
	env := setup(t)

	created := decode[models.Supplier](t, env.do(t, http.MethodPost, "/supplier", supplierPayload()))

	w := env.do(t, http.MethodPut, "/supplier?id="+created.ID.Hex(), map[string]any{"supplierName": "Renamed Farm"})
	if w.Code != http.StatusOK {
		t.Fatalf("PUT status = %d, body %s", w.Code, w.Body.String())
	}

	updated := decode[models.Supplier](t, w)
	if updated.SupplierName != "Renamed Farm" {
		t.Errorf("name = %q, want updated", updated.SupplierName)
	}
	if updated.SupplierNumber != "9876543210" {
		t.Errorf("number = %q, want untouched", updated.SupplierNumber)
	}
}

func TestProcurementCreateComputesTotal(t *testing.T) {
	env := setup(t)

	created := decode[models.Supplier](t, env.do(t, http.MethodPost, "/supplier", supplierPayload()))

	w := env.do(t, http.MethodPost, "/supplier/procurement", map[string]any{
		"supplierId":   created.ID.Hex(),
		"date":         "2024-01-01",
		"milkQuantity": 100,
		"rate":         50,
		"totalAmount":  1, // must be ignored
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("POST status = %d, body %s", w.Code, w.Body.String())
	}

	procurement := decode[models.Procurement](t, w)
	if procurement.TotalAmount != 5000 {
		t.Errorf("totalAmount = %v, want 5000", procurement.TotalAmount)
	}

	suppliers := decode[[]models.Supplier](t, env.do(t, http.MethodGet, "/supplier", nil))
	if len(suppliers) != 1 || suppliers[0].LastProcurementDate != "2024-01-01" {
		t.Errorf("lastProcurementDate not denormalized: %+v", suppliers)
	}
}

func TestProcurementUnknownSupplierIsNotFound(t *testing.T) {
	env := setup(t)

	w := env.do(t, http.MethodPost, "/supplier/procurement", map[string]any{
		"supplierId":   "65b2f0a1c3d4e5f607182934",
		"date":         "2024-01-01",
		"milkQuantity": 100,
		"rate":         50,
	})
	if w.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", w.Code)
	}
}

func TestProcurementHistorySetsCacheControl(t *testing.T) {
	env := setup(t)

	w := env.do(t, http.MethodGet, "/supplier/procurement/history?startDate=2024-01-01", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	if got := w.Header().Get("Cache-Control"); got != "public, max-age=60, stale-while-revalidate=300" {
		t.Errorf("Cache-Control = %q", got)
	}
}

func TestProductionExportCSVDownload(t *testing.T) {
	env := setup(t)
	env.do(t, http.MethodPost, "/production", map[string]any{"date": "2024-01-01", "batch": "B1", "milk_quantity": "100"})

	w := env.do(t, http.MethodGet, "/production/export/csv", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	if ct := w.Header().Get("Content-Type"); ct != "text/csv" {
		t.Errorf("Content-Type = %q, want text/csv", ct)
	}
	if cd := w.Header().Get("Content-Disposition"); cd == "" {
		t.Error("expected a Content-Disposition attachment header")
	}
	if !bytes.Contains(w.Body.Bytes(), []byte("B1")) {
		t.Error("csv body must contain the exported batch")
	}
}

func TestDailySummariesEndpoint(t *testing.T) {
	env := setup(t)

	if err := env.summaries.Upsert(context.Background(), models.DailySummary{Date: "2024-01-05", BatchCount: 3}); err != nil {
		t.Fatalf("seed summary: %v", err)
	}

	w := env.do(t, http.MethodGet, "/reports/daily?startDate=2024-01-01&endDate=2024-01-31", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	summaries := decode[[]models.DailySummary](t, w)
	if len(summaries) != 1 || summaries[0].BatchCount != 3 {
		t.Errorf("summaries = %+v, want the seeded one", summaries)
	}
}

func TestHealthz(t *testing.T) {
	env := setup(t)

	w := env.do(t, http.MethodGet, "/healthz", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
}
