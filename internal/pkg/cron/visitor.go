package cron

import (
	"context"
	"fmt"
	"time"

	"github.com/cmlabs-hris/vms-backend-go/internal/domain/visitor"
	"github.com/cmlabs-hris/vms-backend-go/internal/pkg/metrics"
)

// VisitorJobs contains visitor-related cron jobs
type VisitorJobs struct {
	visitorRepo visitor.VisitorRepository
	metrics     *metrics.Metrics
	interval    time.Duration
}

// NewVisitorJobs creates visitor cron jobs
func NewVisitorJobs(visitorRepo visitor.VisitorRepository, m *metrics.Metrics, interval time.Duration) *VisitorJobs {
	if interval <= 0 {
		interval = time.Minute
	}
	return &VisitorJobs{
		visitorRepo: visitorRepo,
		metrics:     m,
		interval:    interval,
	}
}

// RegisterJobs registers all visitor-related cron jobs
func (j *VisitorJobs) RegisterJobs(scheduler *Scheduler) {
	scheduler.AddJob("refresh_visitor_status_gauge", j.interval, j.RefreshStatusGauge)
}

// RefreshStatusGauge sets vms_visitors{status} from the store.
// Every known status is written so drained states drop back to zero.
func (j *VisitorJobs) RefreshStatusGauge(ctx context.Context) error {
	counts, err := j.visitorRepo.CountByStatus(ctx)
	if err != nil {
		return fmt.Errorf("count visitors by status: %w", err)
	}
	for _, status := range visitor.AllStatuses() {
		j.metrics.VisitorsByStatus.WithLabelValues(string(status)).Set(float64(counts[status]))
	}
	return nil
}
