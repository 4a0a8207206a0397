// Package scheduler defers task enqueues to a future instant using gocron
// one-time jobs. It sits in front of the dispatcher: once a job fires, the
// task follows normal engine semantics.
package scheduler

import (
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/go-co-op/gocron/v2"
	"github.com/google/uuid"

	"github.com/MartyrMind/email-cli-app/internal/task"
)

// Enqueuer accepts tasks for dispatch. Satisfied by dispatcher.Dispatcher.
type Enqueuer interface {
	Enqueue(t task.EmailTask)
}

// Scheduler manages deferred enqueues.
type Scheduler struct {
	cron     gocron.Scheduler
	enqueuer Enqueuer
	logger   *slog.Logger

	mu   sync.Mutex
	jobs map[string]uuid.UUID // task id → gocron job UUID
}

// New creates a Scheduler. Call Start before scheduling.
func New(enqueuer Enqueuer, logger *slog.Logger) (*Scheduler, error) {
	cron, err := gocron.NewScheduler()
	if err != nil {
		return nil, fmt.Errorf("creating gocron scheduler: %w", err)
	}
	return &Scheduler{
		cron:     cron,
		enqueuer: enqueuer,
		logger:   logger,
		jobs:     make(map[string]uuid.UUID),
	}, nil
}

// Start begins executing due jobs.
func (s *Scheduler) Start() {
	s.cron.Start()
}

// Stop shuts the scheduler down, waiting for running jobs to return.
func (s *Scheduler) Stop() error {
	return s.cron.Shutdown()
}

// ScheduleSend enqueues t at the given instant. A time at or before now
// enqueues immediately. Scheduling the same task id again replaces the
// previous pending job.
func (s *Scheduler) ScheduleSend(t task.EmailTask, at time.Time) error {
	if !at.After(time.Now()) {
		s.enqueuer.Enqueue(t)
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if jobID, ok := s.jobs[t.ID]; ok {
		if err := s.cron.RemoveJob(jobID); err != nil {
			s.logger.Warn("failed to remove existing job", "task_id", t.ID, "error", err)
		}
		delete(s.jobs, t.ID)
	}

	job, err := s.cron.NewJob(
		gocron.OneTimeJob(gocron.OneTimeJobStartDateTime(at)),
		gocron.NewTask(func() { s.fire(t) }),
	)
	if err != nil {
		return fmt.Errorf("scheduling task %q: %w", t.ID, err)
	}

	s.jobs[t.ID] = job.ID()
	s.logger.Info("send scheduled", "task_id", t.ID, "at", at)
	return nil
}

// fire hands the task to the dispatcher and forgets the job.
func (s *Scheduler) fire(t task.EmailTask) {
	s.mu.Lock()
	delete(s.jobs, t.ID)
	s.mu.Unlock()

	s.enqueuer.Enqueue(t)
	s.logger.Info("deferred send fired", "task_id", t.ID)
}

// PendingCount returns the number of not-yet-fired jobs.
func (s *Scheduler) PendingCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.jobs)
}
