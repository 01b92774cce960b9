// Package reporting aggregates one day of production and procurement into a
// stored summary.
package reporting

import (
	"context"
	"math"
	"time"

	"go.uber.org/zap"

	"github.com/prasadnk/dairydesk/internal/domain/models"
	"github.com/prasadnk/dairydesk/internal/repository/mongodb"
)

// Service builds and stores daily summaries.
type Service struct {
	productions  mongodb.ProductionRepository
	procurements mongodb.ProcurementRepository
	summaries    mongodb.SummaryRepository
	logger       *zap.Logger
	now          func() time.Time
}

// NewService wires a new reporting service instance.
func NewService(productions mongodb.ProductionRepository, procurements mongodb.ProcurementRepository, summaries mongodb.SummaryRepository, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		productions:  productions,
		procurements: procurements,
		summaries:    summaries,
		logger:       logger,
		now:          time.Now,
	}
}

// BuildDailySummary aggregates everything recorded for one calendar date.
func (s *Service) BuildDailySummary(ctx context.Context, date string) (models.DailySummary, error) {
	summary := models.DailySummary{
		Date:            date,
		TotalsByProduct: map[string]float64{},
		CreatedAt:       s.now().UTC(),
	}

	entries, err := s.productions.ListByDate(ctx, date)
	if err != nil {
		return models.DailySummary{}, err
	}
	summary.BatchCount = len(entries)
	for _, entry := range entries {
		addQuantity(summary.TotalsByProduct, "milk", entry.MilkQuantity)
		addQuantity(summary.TotalsByProduct, "toned_milk", entry.TonedMilkQuantity)
		addQuantity(summary.TotalsByProduct, "curd", entry.CurdQuantity)
		addQuantity(summary.TotalsByProduct, "paneer", entry.PaneerQuantity)
		addQuantity(summary.TotalsByProduct, "malai_paneer", entry.MalaiPaneerQuantity)
		addQuantity(summary.TotalsByProduct, "butter", entry.ButterQuantity)
		addQuantity(summary.TotalsByProduct, "cream", entry.CreamQuantity)
		addQuantity(summary.TotalsByProduct, "ghee", entry.GheeQuantity)
	}

	procurements, err := s.procurements.ListByDate(ctx, date)
	if err != nil {
		return models.DailySummary{}, err
	}

	seen := map[string]struct{}{}
	for _, p := range procurements {
		summary.MilkProcured += p.MilkQuantity
		summary.AmountPayable += p.TotalAmount
		seen[p.SupplierID.Hex()] = struct{}{}
	}
	summary.SupplierCount = len(seen)
	summary.MilkProcured = round2(summary.MilkProcured)
	summary.AmountPayable = round2(summary.AmountPayable)

	return summary, nil
}

// SaveDailySummary upserts the summary for its date.
func (s *Service) SaveDailySummary(ctx context.Context, summary models.DailySummary) error {
	return s.summaries.Upsert(ctx, summary)
}

// ListDailySummaries returns stored summaries within the inclusive range.
func (s *Service) ListDailySummaries(ctx context.Context, startDate, endDate string) ([]models.DailySummary, error) {
	return s.summaries.List(ctx, startDate, endDate)
}

func addQuantity(totals map[string]float64, product string, qty *float64) {
	if qty == nil {
		return
	}
	totals[product] = round2(totals[product] + *qty)
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
