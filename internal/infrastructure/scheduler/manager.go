// Package scheduler provides unified scheduler management using gocron v2.
package scheduler

import (
	"context"
	"sync"
	"time"

	"github.com/go-co-op/gocron/v2"

	"skillswap/internal/shared/biztime"
	"skillswap/internal/shared/logger"
)

// BatchJob defines the interface for a scheduled batch processing job.
// Each Execute call processes a batch and returns the number of items processed.
type BatchJob interface {
	Execute(ctx context.Context) (int, error)
}

// SchedulerManager manages all scheduled jobs using gocron v2. A single
// scheduler instance owns every registered job; jobs run in singleton mode so
// a slow sweep can never overlap with its own next run.
type SchedulerManager struct {
	scheduler gocron.Scheduler
	logger    logger.Interface

	// Track whether the scheduler has been started
	started   bool
	startedMu sync.RWMutex
}

// NewSchedulerManager creates a new SchedulerManager instance.
// It initializes gocron with the business timezone for cron expressions.
func NewSchedulerManager(log logger.Interface) (*SchedulerManager, error) {
	scheduler, err := gocron.NewScheduler(
		gocron.WithLocation(biztime.Location()),
	)
	if err != nil {
		return nil, err
	}

	return &SchedulerManager{
		scheduler: scheduler,
		logger:    log,
	}, nil
}

// RegisterMembershipJobs registers the membership reconciliation jobs:
// - Charge and extend lapsed auto-renew memberships
// - Expire lapsed memberships without auto-renew
//
// Renewals run before expirations inside one task so both sweeps observe a
// consistent cut of the memberships table per tick.
func (m *SchedulerManager) RegisterMembershipJobs(
	renewMembershipsJob BatchJob,
	expireMembershipsJob BatchJob,
	interval time.Duration,
) error {
	_, err := m.scheduler.NewJob(
		gocron.DurationJob(interval),
		gocron.NewTask(func() {
			ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
			defer cancel()
			m.processMembershipTasks(ctx, renewMembershipsJob, expireMembershipsJob)
		}),
		gocron.WithStartAt(gocron.WithStartImmediately()),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
		gocron.WithTags("membership", "renew", "expire"),
		gocron.WithName("membership-reconciler"),
	)
	if err != nil {
		return err
	}

	m.logger.Infow("registered membership jobs", "interval", interval)
	return nil
}

func (m *SchedulerManager) processMembershipTasks(
	ctx context.Context,
	renewMembershipsJob BatchJob,
	expireMembershipsJob BatchJob,
) {
	m.logger.Debugw("processing membership tasks started")

	startTime := biztime.NowUTC()

	// Step 1: Charge lapsed auto-renew memberships; unpayable ones expire
	renewedCount, err := renewMembershipsJob.Execute(ctx)
	if err != nil {
		m.logger.Errorw("failed to process membership renewals",
			"error", err,
			"duration", time.Since(startTime),
		)
	} else if renewedCount > 0 {
		m.logger.Infow("membership renewals processed",
			"count", renewedCount,
			"duration", time.Since(startTime),
		)
	}

	// Step 2: Expire lapsed memberships that did not opt into auto-renew
	expiredCount, err := expireMembershipsJob.Execute(ctx)
	if err != nil {
		m.logger.Errorw("failed to process expired memberships",
			"error", err,
		)
	} else if expiredCount > 0 {
		m.logger.Infow("expired memberships processed",
			"count", expiredCount,
		)
	}
}

// Start starts the scheduler and all registered jobs.
func (m *SchedulerManager) Start() {
	m.startedMu.Lock()
	defer m.startedMu.Unlock()

	if m.started {
		return
	}

	m.scheduler.Start()
	m.started = true
	m.logger.Infow("scheduler manager started", "job_count", len(m.scheduler.Jobs()))
}

// Stop gracefully stops the scheduler.
// It waits for all running jobs to complete before returning.
func (m *SchedulerManager) Stop() error {
	m.startedMu.Lock()
	defer m.startedMu.Unlock()

	if !m.started {
		return nil
	}

	m.logger.Infow("stopping scheduler manager")

	// Shutdown scheduler and wait for running jobs
	err := m.scheduler.Shutdown()
	m.started = false

	if err != nil {
		m.logger.Errorw("scheduler manager shutdown with error", "error", err)
		return err
	}

	m.logger.Infow("scheduler manager stopped")
	return nil
}

// IsStarted returns whether the scheduler is running.
func (m *SchedulerManager) IsStarted() bool {
	m.startedMu.RLock()
	defer m.startedMu.RUnlock()
	return m.started
}

// Jobs returns all registered jobs for inspection.
func (m *SchedulerManager) Jobs() []gocron.Job {
	return m.scheduler.Jobs()
}
