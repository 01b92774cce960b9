package scheduler

import (
	"testing"
	"time"

	"github.com/prasadnk/dairydesk/internal/config"
	"github.com/prasadnk/dairydesk/internal/domain/models"
	"github.com/prasadnk/dairydesk/internal/repository/mongodb/mongotest"
	"github.com/prasadnk/dairydesk/internal/service/reporting"
)

func newTestScheduler(t *testing.T, timezone string) (*Scheduler, *mongotest.SummaryRepo) {
	t.Helper()

	summaries := &mongotest.SummaryRepo{}
	reportingSvc := reporting.NewService(&mongotest.ProductionRepo{}, &mongotest.ProcurementRepo{}, summaries, nil)

	cfg := config.ReportingConfig{CronSchedule: "30 0 * * *", Timezone: timezone}
	sched, err := NewScheduler(cfg, reportingSvc, nil, nil, nil)
	if err != nil {
		t.Fatalf("NewScheduler: %v", err)
	}
	return sched, summaries
}

func TestRunDailySummaryResolvesDayInConfiguredTimezone(t *testing.T) {
	sched, summaries := newTestScheduler(t, "Asia/Kolkata")

	// 19:00 UTC on the 14th is already 00:30 on the 15th in Kolkata, which is
	// when the default schedule fires. The previous Kolkata day is the 14th.
	sched.now = func() time.Time {
		return time.Date(2024, 1, 14, 19, 0, 0, 0, time.UTC)
	}

	sched.runDailySummary()

	if _, ok := summaries.Summaries["2024-01-14"]; !ok {
		t.Fatalf("stored summaries = %v, want one for 2024-01-14", keys(summaries.Summaries))
	}
	if _, ok := summaries.Summaries["2024-01-13"]; ok {
		t.Error("summary stored for the process-local previous day instead of the configured timezone's")
	}
}

func TestRunDailySummaryUTC(t *testing.T) {
	sched, summaries := newTestScheduler(t, "UTC")

	sched.now = func() time.Time {
		return time.Date(2024, 3, 1, 0, 30, 0, 0, time.UTC)
	}

	sched.runDailySummary()

	if _, ok := summaries.Summaries["2024-02-29"]; !ok {
		t.Fatalf("stored summaries = %v, want one for 2024-02-29", keys(summaries.Summaries))
	}
}

func TestNewSchedulerRejectsUnknownTimezone(t *testing.T) {
	reportingSvc := reporting.NewService(&mongotest.ProductionRepo{}, &mongotest.ProcurementRepo{}, &mongotest.SummaryRepo{}, nil)

	cfg := config.ReportingConfig{CronSchedule: "30 0 * * *", Timezone: "Mars/Olympus_Mons"}
	if _, err := NewScheduler(cfg, reportingSvc, nil, nil, nil); err == nil {
		t.Error("expected an error for an unknown timezone")
	}
}

func keys(m map[string]models.DailySummary) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	return out
}
