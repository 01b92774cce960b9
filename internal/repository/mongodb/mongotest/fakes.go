// Package mongotest provides in-memory repository fakes for service and
// handler tests. The fakes mirror the Mongo semantics the code relies on:
// the unique batch index, the partial unique supplier-number index, filter
// composition and the sort orders.
package mongotest

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/prasadnk/dairydesk/internal/domain/apperr"
	"github.com/prasadnk/dairydesk/internal/domain/models"
	"github.com/prasadnk/dairydesk/internal/repository/mongodb"
)

// ProductionRepo is an in-memory mongodb.ProductionRepository.
type ProductionRepo struct {
	mu      sync.Mutex
	Entries []models.ProductionEntry

	// ExtraConflicts simulates insert races: the given number of inserts
	// fail with a conflict even though the label is free.
	ExtraConflicts int
}

func (r *ProductionRepo) Insert(_ context.Context, entry *models.ProductionEntry) (primitive.ObjectID, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.ExtraConflicts > 0 {
		r.ExtraConflicts--
		return primitive.NilObjectID, apperr.Conflictf("batch %q already exists", entry.Batch)
	}
	for _, e := range r.Entries {
		if e.Batch == entry.Batch {
			return primitive.NilObjectID, apperr.Conflictf("batch %q already exists", entry.Batch)
		}
	}

	stored := *entry
	stored.ID = primitive.NewObjectID()
	r.Entries = append(r.Entries, stored)
	return stored.ID, nil
}

func (r *ProductionRepo) FindByBatch(_ context.Context, batch string) (*models.ProductionEntry, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i := range r.Entries {
		if r.Entries[i].Batch == batch {
			entry := r.Entries[i]
			return &entry, nil
		}
	}
	return nil, nil
}

func (r *ProductionRepo) CountOthersOnDate(_ context.Context, date, batch string) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var count int64
	for _, e := range r.Entries {
		if e.Date == date && e.Batch != batch {
			count++
		}
	}
	return count, nil
}

func (r *ProductionRepo) List(_ context.Context, query mongodb.ProductionQuery, limit int64) ([]models.ProductionEntry, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	matched := make([]models.ProductionEntry, 0)
	for _, e := range r.Entries {
		if !dateInRange(e.Date, query.StartDate, query.EndDate) {
			continue
		}
		if query.Product != "" && !strings.Contains(query.Product, "$") {
			if _, ok := models.ProductQuantityFields[query.Product]; ok {
				qty := productQuantity(e, query.Product)
				if qty == nil || *qty <= 0 {
					continue
				}
			}
		}
		matched = append(matched, e)
	}

	sort.SliceStable(matched, func(i, j int) bool {
		if matched[i].Date != matched[j].Date {
			return matched[i].Date > matched[j].Date
		}
		return matched[i].CreatedAt.After(matched[j].CreatedAt)
	})

	if limit > 0 && int64(len(matched)) > limit {
		matched = matched[:limit]
	}
	return matched, nil
}

func (r *ProductionRepo) ListByDate(ctx context.Context, date string) ([]models.ProductionEntry, error) {
	return r.List(ctx, mongodb.ProductionQuery{StartDate: date, EndDate: date}, 0)
}

func (r *ProductionRepo) DeleteByID(_ context.Context, id primitive.ObjectID) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i, e := range r.Entries {
		if e.ID == id {
			r.Entries = append(r.Entries[:i], r.Entries[i+1:]...)
			return 1, nil
		}
	}
	return 0, nil
}

func productQuantity(e models.ProductionEntry, product string) *float64 {
	switch product {
	case "milk":
		return e.MilkQuantity
	case "toned_milk":
		return e.TonedMilkQuantity
	case "curd":
		return e.CurdQuantity
	case "paneer":
		return e.PaneerQuantity
	case "malai_paneer":
		return e.MalaiPaneerQuantity
	case "butter":
		return e.ButterQuantity
	case "cream":
		return e.CreamQuantity
	case "ghee":
		return e.GheeQuantity
	}
	return nil
}

// SupplierRepo is an in-memory mongodb.SupplierRepository.
type SupplierRepo struct {
	mu        sync.Mutex
	Suppliers []models.Supplier

	// FailLastProcurement makes SetLastProcurementDate fail, exercising the
	// best-effort path.
	FailLastProcurement bool
}

func (r *SupplierRepo) Insert(_ context.Context, supplier *models.Supplier) (primitive.ObjectID, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if supplier.SupplierNumber != "" {
		for _, s := range r.Suppliers {
			if s.SupplierNumber == supplier.SupplierNumber {
				return primitive.NilObjectID, apperr.Conflictf("supplier number %s already registered", supplier.SupplierNumber)
			}
		}
	}

	stored := *supplier
	stored.ID = primitive.NewObjectID()
	r.Suppliers = append(r.Suppliers, stored)
	return stored.ID, nil
}

func (r *SupplierRepo) List(_ context.Context) ([]models.Supplier, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]models.Supplier, len(r.Suppliers))
	copy(out, r.Suppliers)
	return out, nil
}

func (r *SupplierRepo) FindByID(_ context.Context, id primitive.ObjectID) (*models.Supplier, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i := range r.Suppliers {
		if r.Suppliers[i].ID == id {
			supplier := r.Suppliers[i]
			return &supplier, nil
		}
	}
	return nil, nil
}

func (r *SupplierRepo) NumberInUse(_ context.Context, number string, exclude primitive.ObjectID) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, s := range r.Suppliers {
		if s.SupplierNumber == number && s.ID != exclude {
			return true, nil
		}
	}
	return false, nil
}

func (r *SupplierRepo) UpdateByID(_ context.Context, id primitive.ObjectID, fields map[string]interface{}) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i := range r.Suppliers {
		if r.Suppliers[i].ID != id {
			continue
		}
		s := &r.Suppliers[i]
		for key, value := range fields {
			switch key {
			case "supplierName":
				s.SupplierName = value.(string)
			case "supplierType":
				s.SupplierType = value.(string)
			case "supplierNumber":
				s.SupplierNumber = value.(string)
			case "supplierAddress":
				s.SupplierAddress = value.(string)
			case "supplierTSRate":
				s.SupplierTSRate = value.(float64)
			}
		}
		return 1, nil
	}
	return 0, nil
}

func (r *SupplierRepo) DeleteByID(_ context.Context, id primitive.ObjectID) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i, s := range r.Suppliers {
		if s.ID == id {
			r.Suppliers = append(r.Suppliers[:i], r.Suppliers[i+1:]...)
			return 1, nil
		}
	}
	return 0, nil
}

func (r *SupplierRepo) SetLastProcurementDate(_ context.Context, id primitive.ObjectID, date string) error {
	if r.FailLastProcurement {
		return apperr.NotFoundf("supplier not found")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	for i := range r.Suppliers {
		if r.Suppliers[i].ID == id {
			r.Suppliers[i].LastProcurementDate = date
			return nil
		}
	}
	return nil
}

// ProcurementRepo is an in-memory mongodb.ProcurementRepository.
type ProcurementRepo struct {
	mu           sync.Mutex
	Procurements []models.Procurement
}

func (r *ProcurementRepo) Insert(_ context.Context, procurement *models.Procurement) (primitive.ObjectID, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	stored := *procurement
	stored.ID = primitive.NewObjectID()
	r.Procurements = append(r.Procurements, stored)
	return stored.ID, nil
}

func (r *ProcurementRepo) ListBySupplier(_ context.Context, supplierID primitive.ObjectID) ([]models.Procurement, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]models.Procurement, 0)
	for _, p := range r.Procurements {
		if p.SupplierID == supplierID {
			out = append(out, p)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Date > out[j].Date })
	return out, nil
}

func (r *ProcurementRepo) History(_ context.Context, query mongodb.ProcurementQuery, limit int64) ([]models.Procurement, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]models.Procurement, 0)
	for _, p := range r.Procurements {
		if !dateInRange(p.Date, query.StartDate, query.EndDate) {
			continue
		}
		projected := p
		projected.CreatedAt = time.Time{}
		projected.UpdatedAt = time.Time{}
		out = append(out, projected)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Date > out[j].Date })

	if limit > 0 && int64(len(out)) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r *ProcurementRepo) ListByDate(ctx context.Context, date string) ([]models.Procurement, error) {
	return r.History(ctx, mongodb.ProcurementQuery{StartDate: date, EndDate: date}, 0)
}

// SummaryRepo is an in-memory mongodb.SummaryRepository.
type SummaryRepo struct {
	mu        sync.Mutex
	Summaries map[string]models.DailySummary
}

func (r *SummaryRepo) Upsert(_ context.Context, summary models.DailySummary) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.Summaries == nil {
		r.Summaries = map[string]models.DailySummary{}
	}
	r.Summaries[summary.Date] = summary
	return nil
}

func (r *SummaryRepo) List(_ context.Context, startDate, endDate string) ([]models.DailySummary, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]models.DailySummary, 0)
	for _, s := range r.Summaries {
		if dateInRange(s.Date, startDate, endDate) {
			out = append(out, s)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Date > out[j].Date })
	return out, nil
}

func dateInRange(date, start, end string) bool {
	if start != "" && date < start {
		return false
	}
	if end != "" && date > end {
		return false
	}
	return true
}
