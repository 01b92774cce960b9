package sheets

import (
	"context"
	"fmt"

	"go.uber.org/zap"
	"google.golang.org/api/option"
	sheetsapi "google.golang.org/api/sheets/v4"

	"github.com/prasadnk/dairydesk/internal/config"
	"github.com/prasadnk/dairydesk/internal/domain/models"
)

const summaryRange = "DailySummary!A:G"

// Repository defines the spreadsheet mirror for daily summaries.
type Repository interface {
	AppendDailySummary(ctx context.Context, summary models.DailySummary) error
}

// GoogleSheetRepository implements the Repository interface using the
// official Google Sheets API.
type GoogleSheetRepository struct {
	service       *sheetsapi.Service
	spreadsheetID string
	logger        *zap.Logger
}

// NewGoogleSheetRepository builds a Google Sheets backed repository instance.
func NewGoogleSheetRepository(ctx context.Context, cfg config.SheetsConfig, logger *zap.Logger) (Repository, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	service, err := sheetsapi.NewService(ctx, option.WithCredentialsFile(cfg.CredentialsPath), option.WithScopes(sheetsapi.SpreadsheetsScope))
	if err != nil {
		return nil, fmt.Errorf("failed to initialize sheets client: %w", err)
	}

	return &GoogleSheetRepository{
		service:       service,
		spreadsheetID: cfg.SpreadsheetID,
		logger:        logger,
	}, nil
}

// AppendDailySummary appends one summary row to the DailySummary sheet.
func (r *GoogleSheetRepository) AppendDailySummary(ctx context.Context, summary models.DailySummary) error {
	row := []interface{}{
		summary.Date,
		summary.BatchCount,
		summary.TotalsByProduct["milk"],
		summary.TotalsByProduct["curd"],
		summary.MilkProcured,
		summary.AmountPayable,
		summary.SupplierCount,
	}

	payload := &sheetsapi.ValueRange{Values: [][]interface{}{row}}

	call := r.service.Spreadsheets.Values.Append(r.spreadsheetID, summaryRange, payload).
		ValueInputOption("USER_ENTERED").
		InsertDataOption("INSERT_ROWS").
		Context(ctx)

	if _, err := call.Do(); err != nil {
		return fmt.Errorf("append summary row for %s: %w", summary.Date, err)
	}

	r.logger.Debug("summary row appended to sheet", zap.String("date", summary.Date))
	return nil
}
