// Package supplier implements the supplier registry with phone-number
// uniqueness and field-level validation.
package supplier

import (
	"context"
	"regexp"
	"strconv"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"github.com/prasadnk/dairydesk/internal/domain/apperr"
	"github.com/prasadnk/dairydesk/internal/domain/models"
	"github.com/prasadnk/dairydesk/internal/repository/mongodb"
)

var phonePattern = regexp.MustCompile(`^[0-9]{10}$`)

// Service manages supplier records.
type Service struct {
	repo      mongodb.SupplierRepository
	tsRateMin float64
	tsRateMax float64
	logger    *zap.Logger
	now       func() time.Time
}

// NewService wires a new supplier service instance. The TS rate bounds come
// from configuration.
func NewService(repo mongodb.SupplierRepository, tsRateMin, tsRateMax float64, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		repo:      repo,
		tsRateMin: tsRateMin,
		tsRateMax: tsRateMax,
		logger:    logger,
		now:       time.Now,
	}
}

// List returns all suppliers.
func (s *Service) List(ctx context.Context) ([]models.Supplier, error) {
	return s.repo.List(ctx)
}

// Create validates the request, enforces phone-number uniqueness and inserts
// the supplier.
func (s *Service) Create(ctx context.Context, req models.SupplierCreateRequest) (*models.Supplier, error) {
	if len(req.SupplierName) < 2 {
		return nil, apperr.Invalidf("supplierName must be at least 2 characters")
	}
	if req.SupplierType != "" && len(req.SupplierType) < 2 {
		return nil, apperr.Invalidf("supplierType must be at least 2 characters")
	}
	if req.SupplierNumber != "" && !phonePattern.MatchString(req.SupplierNumber) {
		return nil, apperr.Invalidf("supplierNumber must be exactly 10 digits")
	}
	if req.SupplierAddress != "" && len(req.SupplierAddress) < 5 {
		return nil, apperr.Invalidf("supplierAddress must be at least 5 characters")
	}

	tsRate, err := s.parseTSRate(req.SupplierTSRate)
	if err != nil {
		return nil, err
	}

	if req.SupplierNumber != "" {
		inUse, err := s.repo.NumberInUse(ctx, req.SupplierNumber, primitive.NilObjectID)
		if err != nil {
			return nil, err
		}
		if inUse {
			return nil, apperr.Conflictf("supplier number %s already registered", req.SupplierNumber)
		}
	}

	now := s.now().UTC()
	supplier := &models.Supplier{
		SupplierName:    req.SupplierName,
		SupplierType:    req.SupplierType,
		SupplierNumber:  req.SupplierNumber,
		SupplierAddress: req.SupplierAddress,
		SupplierTSRate:  tsRate,
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	id, err := s.repo.Insert(ctx, supplier)
	if err != nil {
		return nil, err
	}
	supplier.ID = id
	return supplier, nil
}

// Update applies a partial update; only fields present in the request are
// touched. The uniqueness check excludes the record being updated.
func (s *Service) Update(ctx context.Context, id string, req models.SupplierUpdateRequest) (*models.Supplier, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, apperr.Invalidf("invalid supplier id")
	}

	fields := map[string]interface{}{}

	if req.SupplierName != nil {
		if len(*req.SupplierName) < 2 {
			return nil, apperr.Invalidf("supplierName must be at least 2 characters")
		}
		fields["supplierName"] = *req.SupplierName
	}
	if req.SupplierType != nil {
		if *req.SupplierType != "" && len(*req.SupplierType) < 2 {
			return nil, apperr.Invalidf("supplierType must be at least 2 characters")
		}
		fields["supplierType"] = *req.SupplierType
	}
	if req.SupplierNumber != nil {
		number := *req.SupplierNumber
		if number != "" {
			if !phonePattern.MatchString(number) {
				return nil, apperr.Invalidf("supplierNumber must be exactly 10 digits")
			}
			inUse, err := s.repo.NumberInUse(ctx, number, oid)
			if err != nil {
				return nil, err
			}
			if inUse {
				return nil, apperr.Conflictf("supplier number %s already registered", number)
			}
		}
		fields["supplierNumber"] = number
	}
	if req.SupplierAddress != nil {
		if *req.SupplierAddress != "" && len(*req.SupplierAddress) < 5 {
			return nil, apperr.Invalidf("supplierAddress must be at least 5 characters")
		}
		fields["supplierAddress"] = *req.SupplierAddress
	}
	if req.SupplierTSRate != nil {
		tsRate, err := s.parseTSRate(req.SupplierTSRate)
		if err != nil {
			return nil, err
		}
		fields["supplierTSRate"] = tsRate
	}

	if len(fields) == 0 {
		return nil, apperr.Invalidf("no fields to update")
	}
	fields["updatedAt"] = s.now().UTC()

	matched, err := s.repo.UpdateByID(ctx, oid, fields)
	if err != nil {
		return nil, err
	}
	if matched == 0 {
		return nil, apperr.NotFoundf("supplier not found")
	}

	updated, err := s.repo.FindByID(ctx, oid)
	if err != nil {
		return nil, err
	}
	if updated == nil {
		return nil, apperr.NotFoundf("supplier not found")
	}
	return updated, nil
}

// Delete removes one supplier by its hex identifier. Procurement history is
// kept; deletion does not cascade.
func (s *Service) Delete(ctx context.Context, id string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return apperr.Invalidf("invalid supplier id")
	}

	deleted, err := s.repo.DeleteByID(ctx, oid)
	if err != nil {
		return err
	}
	if deleted == 0 {
		return apperr.NotFoundf("supplier not found")
	}
	return nil
}

func (s *Service) parseTSRate(value any) (float64, error) {
	var rate float64
	switch v := value.(type) {
	case nil:
		return 0, apperr.Invalidf("supplierTSRate is required")
	case float64:
		rate = v
	case int:
		rate = float64(v)
	case string:
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return 0, apperr.Invalidf("supplierTSRate must be numeric")
		}
		rate = f
	default:
		return 0, apperr.Invalidf("supplierTSRate must be numeric")
	}

	if rate < s.tsRateMin || rate > s.tsRateMax {
		return 0, apperr.Invalidf("supplierTSRate must be between %.2f and %.2f", s.tsRateMin, s.tsRateMax)
	}
	return rate, nil
}
