package scheduler

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/prasadnk/dairydesk/internal/config"
	"github.com/prasadnk/dairydesk/internal/repository/sheets"
	"github.com/prasadnk/dairydesk/internal/service/reporting"
	"github.com/prasadnk/dairydesk/pkg/clients/notify"
)

const dateLayout = "2006-01-02"

// Scheduler runs the daily summary job. The sheet mirror and the webhook
// notifier are optional; nil disables them.
type Scheduler struct {
	cron         *cron.Cron
	reportingSvc *reporting.Service
	sheetRepo    sheets.Repository
	notifier     *notify.Client
	cfg          config.ReportingConfig
	location     *time.Location
	logger       *zap.Logger
	now          func() time.Time
}

// NewScheduler creates a new scheduler instance in the configured timezone.
func NewScheduler(cfg config.ReportingConfig, reportingSvc *reporting.Service, sheetRepo sheets.Repository, notifier *notify.Client, logger *zap.Logger) (*Scheduler, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	location, err := time.LoadLocation(cfg.Timezone)
	if err != nil {
		return nil, err
	}

	return &Scheduler{
		cron:         cron.New(cron.WithLocation(location)),
		reportingSvc: reportingSvc,
		sheetRepo:    sheetRepo,
		notifier:     notifier,
		cfg:          cfg,
		location:     location,
		logger:       logger,
		now:          time.Now,
	}, nil
}

// Start registers the daily summary job and starts the cron loop.
func (s *Scheduler) Start() error {
	s.logger.Info("starting scheduler", zap.String("schedule", s.cfg.CronSchedule))

	if _, err := s.cron.AddFunc(s.cfg.CronSchedule, s.runDailySummary); err != nil {
		return err
	}

	s.cron.Start()
	return nil
}

// Stop stops the scheduler.
func (s *Scheduler) Stop() {
	s.logger.Info("stopping scheduler")
	s.cron.Stop()
}

// runDailySummary builds and stores the summary for the previous calendar
// day in the configured timezone, then mirrors it to the configured sinks.
// Each sink is best-effort. The day must be resolved in the same location the
// cron fires in; the process-local zone may sit on a different calendar date.
func (s *Scheduler) runDailySummary() {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	date := s.now().In(s.location).AddDate(0, 0, -1).Format(dateLayout)
	s.logger.Info("generating daily summary", zap.String("date", date))

	summary, err := s.reportingSvc.BuildDailySummary(ctx, date)
	if err != nil {
		s.logger.Error("failed to build daily summary", zap.String("date", date), zap.Error(err))
		return
	}

	if err := s.reportingSvc.SaveDailySummary(ctx, summary); err != nil {
		s.logger.Error("failed to store daily summary", zap.String("date", date), zap.Error(err))
		return
	}

	if s.sheetRepo != nil {
		if err := s.sheetRepo.AppendDailySummary(ctx, summary); err != nil {
			s.logger.Warn("failed to mirror summary to sheet", zap.String("date", date), zap.Error(err))
		}
	}

	if s.notifier != nil {
		if err := s.notifier.PostDailySummary(ctx, summary); err != nil {
			s.logger.Warn("failed to deliver summary webhook", zap.String("date", date), zap.Error(err))
		}
	}

	s.logger.Info("daily summary stored", zap.String("date", date), zap.Int("batches", summary.BatchCount))
}
