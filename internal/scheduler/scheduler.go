package scheduler

import (
	"context"
	"log"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/rentora/billing-engine/internal/config"
	"github.com/rentora/billing-engine/internal/service"
)

// Scheduler binds the billing jobs to their cron triggers. The jobs carry
// the behavior; this layer only owns timing, so every job stays directly
// callable in tests.
type Scheduler struct {
	cron *cron.Cron
	jobs *service.BillingJobs
	cfg  *config.Config
}

func New(jobs *service.BillingJobs, cfg *config.Config) (*Scheduler, error) {
	location, err := time.LoadLocation(cfg.Scheduler.Timezone)
	if err != nil {
		return nil, err
	}

	return &Scheduler{
		cron: cron.New(cron.WithSeconds(), cron.WithLocation(location)),
		jobs: jobs,
		cfg:  cfg,
	}, nil
}

// Register wires all billing jobs to their configured cron specs.
func (s *Scheduler) Register() error {
	entries := []struct {
		name string
		spec string
		run  func(context.Context) (*service.JobReport, error)
	}{
		{"generate_upcoming_payments", s.cfg.Scheduler.GenerateSpec, s.jobs.GenerateUpcomingPayments},
		{"send_payment_reminders", s.cfg.Scheduler.ReminderSpec, s.jobs.SendPaymentReminders},
		{"send_overdue_notices", s.cfg.Scheduler.OverdueSpec, s.jobs.SendOverdueNotices},
		{"accrue_late_fees", s.cfg.Scheduler.LateFeeSpec, s.jobs.AccrueLateFees},
	}

	for _, entry := range entries {
		entry := entry
		_, err := s.cron.AddFunc(entry.spec, func() {
			log.Printf("job %s: starting", entry.name)
			report, err := entry.run(context.Background())
			if err != nil {
				log.Printf("job %s: failed: %v", entry.name, err)
				return
			}
			log.Printf("job %s: processed=%d skipped=%d failed=%d",
				entry.name, report.Processed, report.Skipped, report.Failed)
		})
		if err != nil {
			return err
		}
	}

	return nil
}

// Start begins running jobs on their schedules.
func (s *Scheduler) Start() {
	s.cron.Start()
}

// Stop waits for in-flight jobs and halts the scheduler.
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
}
