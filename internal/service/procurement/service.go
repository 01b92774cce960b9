// Package procurement implements recording of supplier milk deliveries with
// the server-computed payment amount.
package procurement

import (
	"context"
	"math"
	"strconv"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"github.com/prasadnk/dairydesk/internal/domain/apperr"
	"github.com/prasadnk/dairydesk/internal/domain/models"
	"github.com/prasadnk/dairydesk/internal/repository/mongodb"
)

const historyLimit = 5000

// Service records and reads procurement records.
type Service struct {
	repo      mongodb.ProcurementRepository
	suppliers mongodb.SupplierRepository
	logger    *zap.Logger
	now       func() time.Time
}

// NewService wires a new procurement service instance.
func NewService(repo mongodb.ProcurementRepository, suppliers mongodb.SupplierRepository, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{repo: repo, suppliers: suppliers, logger: logger, now: time.Now}
}

// Create validates the delivery, checks the supplier exists, computes the
// payable amount and inserts the record. The supplier's lastProcurementDate
// is then updated best-effort: a failure there is logged but the procurement
// stands.
func (s *Service) Create(ctx context.Context, req models.ProcurementCreateRequest) (*models.Procurement, error) {
	if req.SupplierID == "" || req.Date == "" || req.MilkQuantity == nil || req.Rate == nil {
		return nil, apperr.Invalidf("supplierId, date, milkQuantity and rate are required")
	}

	supplierID, err := primitive.ObjectIDFromHex(req.SupplierID)
	if err != nil {
		return nil, apperr.Invalidf("invalid supplier id")
	}

	milkQuantity, ok := parseNumber(req.MilkQuantity)
	if !ok || milkQuantity <= 0 {
		return nil, apperr.Invalidf("milkQuantity must be a positive number")
	}
	rate, ok := parseNumber(req.Rate)
	if !ok || rate <= 0 {
		return nil, apperr.Invalidf("rate must be a positive number")
	}

	fat, err := parsePercentage(req.FatPercentage, "fatPercentage")
	if err != nil {
		return nil, err
	}
	snf, err := parsePercentage(req.SNFPercentage, "snfPercentage")
	if err != nil {
		return nil, err
	}

	supplier, err := s.suppliers.FindByID(ctx, supplierID)
	if err != nil {
		return nil, err
	}
	if supplier == nil {
		return nil, apperr.NotFoundf("supplier not found")
	}

	now := s.now().UTC()
	procurement := &models.Procurement{
		SupplierID:    supplierID,
		Date:          req.Date,
		MilkQuantity:  milkQuantity,
		FatPercentage: fat,
		SNFPercentage: snf,
		Rate:          rate,
		TotalAmount:   math.Round(milkQuantity*rate*100) / 100,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	id, err := s.repo.Insert(ctx, procurement)
	if err != nil {
		return nil, err
	}
	procurement.ID = id

	if err := s.suppliers.SetLastProcurementDate(ctx, supplierID, req.Date); err != nil {
		s.logger.Warn("failed to update supplier last procurement date",
			zap.String("supplier_id", supplierID.Hex()),
			zap.String("date", req.Date),
			zap.Error(err))
	}

	return procurement, nil
}

// ListBySupplier returns all deliveries for one supplier.
func (s *Service) ListBySupplier(ctx context.Context, supplierID string) ([]models.Procurement, error) {
	oid, err := primitive.ObjectIDFromHex(supplierID)
	if err != nil {
		return nil, apperr.Invalidf("invalid supplier id")
	}
	return s.repo.ListBySupplier(ctx, oid)
}

// History returns the bulk date-filtered read, capped at 5000 records.
func (s *Service) History(ctx context.Context, query mongodb.ProcurementQuery) ([]models.Procurement, error) {
	return s.repo.History(ctx, query, historyLimit)
}

func parseNumber(value any) (float64, bool) {
	switch v := value.(type) {
	case float64:
		return v, true
	case int:
		return float64(v), true
	case string:
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return 0, false
		}
		return f, true
	default:
		return 0, false
	}
}

func parsePercentage(value any, field string) (*float64, error) {
	if value == nil {
		return nil, nil
	}
	if s, isString := value.(string); isString && s == "" {
		return nil, nil
	}

	parsed, ok := parseNumber(value)
	if !ok {
		return nil, apperr.Invalidf("%s must be numeric", field)
	}
	if parsed < 0 || parsed > 100 {
		return nil, apperr.Invalidf("%s must be between 0 and 100", field)
	}
	return &parsed, nil
}
