// Package production implements the batch recording workflow, including the
// duplicate-aware batch naming scheme.
package production

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"github.com/prasadnk/dairydesk/internal/domain/apperr"
	"github.com/prasadnk/dairydesk/internal/domain/models"
	"github.com/prasadnk/dairydesk/internal/repository/mongodb"
)

const (
	listLimit = 100
	// maxNamingAttempts bounds the ordinal bump when a renamed batch label
	// still collides with one minted for another date.
	maxNamingAttempts = 5
)

// Service records and reads production entries.
type Service struct {
	repo   mongodb.ProductionRepository
	logger *zap.Logger
	now    func() time.Time
}

// NewService wires a new production service instance.
func NewService(repo mongodb.ProductionRepository, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{repo: repo, logger: logger, now: time.Now}
}

// Create validates the request and inserts exactly one entry with a batch
// label distinct from every stored one. When the proposed label already
// exists, it is renamed to "<label> (<n>)" with n derived from how many other
// entries share the candidate's date. The unique index on batch backs this
// check-then-insert: a racing or cross-date collision surfaces as a conflict
// and bumps the ordinal instead of storing a duplicate label.
func (s *Service) Create(ctx context.Context, req models.ProductionCreateRequest) (*models.ProductionEntry, error) {
	if req.Date == "" {
		return nil, apperr.Invalidf("date is required")
	}
	if req.Batch == "" {
		return nil, apperr.Invalidf("batch is required")
	}

	now := s.now().UTC()
	entry := &models.ProductionEntry{
		Date:                req.Date,
		Batch:               req.Batch,
		MilkQuantity:        parseQuantity(req.MilkQuantity),
		TonedMilkQuantity:   parseQuantity(req.TonedMilkQuantity),
		CurdQuantity:        parseQuantity(req.CurdQuantity),
		PaneerQuantity:      parseQuantity(req.PaneerQuantity),
		MalaiPaneerQuantity: parseQuantity(req.MalaiPaneerQuantity),
		ButterQuantity:      parseQuantity(req.ButterQuantity),
		CreamQuantity:       parseQuantity(req.CreamQuantity),
		GheeQuantity:        parseQuantity(req.GheeQuantity),
		CreatedAt:           now,
		UpdatedAt:           now,
	}

	existing, err := s.repo.FindByBatch(ctx, req.Batch)
	if err != nil {
		return nil, err
	}

	ordinal := int64(0)
	if existing != nil {
		others, err := s.repo.CountOthersOnDate(ctx, req.Date, req.Batch)
		if err != nil {
			return nil, err
		}
		ordinal = others + 1
	}

	for attempt := 0; attempt < maxNamingAttempts; attempt++ {
		entry.Batch = req.Batch
		if ordinal > 0 {
			entry.Batch = fmt.Sprintf("%s (%d)", req.Batch, ordinal)
		}

		id, err := s.repo.Insert(ctx, entry)
		if err == nil {
			entry.ID = id
			if entry.Batch != req.Batch {
				s.logger.Info("batch renamed on collision",
					zap.String("requested", req.Batch),
					zap.String("stored", entry.Batch),
					zap.String("date", req.Date))
			}
			return entry, nil
		}
		if !errors.Is(err, apperr.ErrConflict) {
			return nil, err
		}
		ordinal++
	}

	return nil, apperr.Conflictf("could not allocate a unique label for batch %q", req.Batch)
}

// List returns entries matching the optional filters, capped at 100.
func (s *Service) List(ctx context.Context, query mongodb.ProductionQuery) ([]models.ProductionEntry, error) {
	return s.repo.List(ctx, query, listLimit)
}

// History returns the unbounded filtered read backing the history view.
func (s *Service) History(ctx context.Context, query mongodb.ProductionQuery) ([]models.ProductionEntry, error) {
	return s.repo.List(ctx, query, 0)
}

// Delete removes one entry by its hex identifier.
func (s *Service) Delete(ctx context.Context, id string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return apperr.Invalidf("invalid production id")
	}

	deleted, err := s.repo.DeleteByID(ctx, oid)
	if err != nil {
		return err
	}
	if deleted == 0 {
		return apperr.NotFoundf("production entry not found")
	}
	return nil
}

// parseQuantity normalizes a loosely-typed quantity value. Anything that is
// not a non-negative number comes back nil and is stored as null; a bad
// quantity never rejects the whole request.
func parseQuantity(value any) *float64 {
	var parsed float64

	switch v := value.(type) {
	case nil:
		return nil
	case float64:
		parsed = v
	case int:
		parsed = float64(v)
	case string:
		if v == "" {
			return nil
		}
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return nil
		}
		parsed = f
	default:
		return nil
	}

	if parsed < 0 {
		return nil
	}
	return &parsed
}
