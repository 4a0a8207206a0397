// Package dispatcher implements the queue worker at the heart of the engine:
// a single long-lived loop that promotes enqueued tasks into concurrently
// running fan-out jobs (one delivery attempt per recipient) and retires jobs
// once every attempt has finished.
package dispatcher

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/MartyrMind/email-cli-app/internal/message"
	"github.com/MartyrMind/email-cli-app/internal/task"
)

// DefaultPollInterval is the idle interval between queue scans.
const DefaultPollInterval = 500 * time.Millisecond

// StatusSink receives per-attempt status transitions. It is invoked exactly
// twice per recipient attempt: StatusSending before transmission starts and
// one terminal status after it concludes. Sinks are fire-and-forget: a
// panicking sink never affects the attempt's outcome.
type StatusSink func(notificationID string, status task.Status)

// MessageBuilder builds the transmittable message once per task.
type MessageBuilder interface {
	Build(t task.EmailTask) (*message.Message, error)
}

// Sender performs one delivery attempt. Satisfied by transport.Transport.
type Sender interface {
	Send(ctx context.Context, t task.EmailTask, msg *message.Message, recipient string) error
}

// Config collects the dispatcher's collaborators.
type Config struct {
	Transport Sender
	Builder   MessageBuilder
	// Sink is optional; nil disables status reporting.
	Sink StatusSink
	// PollInterval defaults to DefaultPollInterval when zero.
	PollInterval time.Duration
	Logger       *slog.Logger
}

// Dispatcher owns the pending-task queue and the active-job set. All shared
// state lives behind one mutex; the loop never holds it across a blocking
// operation.
type Dispatcher struct {
	transport Sender
	builder   MessageBuilder
	sink      StatusSink
	interval  time.Duration
	logger    *slog.Logger

	mu     sync.Mutex
	queue  []task.EmailTask
	active map[string]chan struct{} // task id → closed when the fan-out joins
}

// New creates a Dispatcher. Call Run to start the loop.
func New(cfg Config) *Dispatcher {
	interval := cfg.PollInterval
	if interval <= 0 {
		interval = DefaultPollInterval
	}
	return &Dispatcher{
		transport: cfg.Transport,
		builder:   cfg.Builder,
		sink:      cfg.Sink,
		interval:  interval,
		logger:    cfg.Logger,
		active:    make(map[string]chan struct{}),
	}
}

// Enqueue appends a snapshot of t to the pending queue. It never blocks and
// is safe to call concurrently with the running loop. No validation happens
// here; delivery problems surface as error transitions per recipient.
func (d *Dispatcher) Enqueue(t task.EmailTask) {
	snapshot := t.Clone()

	d.mu.Lock()
	d.queue = append(d.queue, snapshot)
	d.mu.Unlock()

	d.logger.Info("task enqueued",
		"task_id", t.ID, "recipients", len(t.Recipients), "profile", t.Profile)
}

// Run executes the dispatch loop until ctx is cancelled. Cancellation stops
// the promotion of new work only; fan-out jobs already in flight run to
// completion on their own goroutines.
func (d *Dispatcher) Run(ctx context.Context) {
	ticker := time.NewTicker(d.interval)
	defer ticker.Stop()

	d.logger.Info("dispatcher started", "poll_interval", d.interval)
	for {
		select {
		case <-ctx.Done():
			d.logger.Info("dispatcher stopped")
			return
		case <-ticker.C:
			d.promote(ctx)
			d.reap()
		}
	}
}

// promote starts a fan-out job for every pending task whose id is not in the
// active set, then drops every pending entry whose id is started or still in
// flight, so a task enqueued twice before its first run completes collapses
// to a single run.
func (d *Dispatcher) promote(ctx context.Context) {
	d.mu.Lock()
	snapshot := make([]task.EmailTask, len(d.queue))
	copy(snapshot, d.queue)
	d.mu.Unlock()

	started := make(map[string]bool)
	for _, t := range snapshot {
		d.mu.Lock()
		_, running := d.active[t.ID]
		if running || started[t.ID] {
			d.mu.Unlock()
			continue
		}
		done := make(chan struct{})
		d.active[t.ID] = done
		d.mu.Unlock()

		started[t.ID] = true
		// Detach from the loop's context: cancellation must not abort
		// attempts already in flight.
		go d.runTask(context.WithoutCancel(ctx), t, done)
	}

	d.mu.Lock()
	remaining := d.queue[:0]
	for _, t := range d.queue {
		if !started[t.ID] && !d.runningLocked(t.ID) {
			remaining = append(remaining, t)
		}
	}
	d.queue = remaining
	d.mu.Unlock()
}

// runningLocked reports whether the id has a fan-out job still in flight.
// A completed job awaiting reap does not count, so a task re-enqueued right
// after finishing is kept for the next promotion. Caller holds d.mu.
func (d *Dispatcher) runningLocked(id string) bool {
	done, ok := d.active[id]
	if !ok {
		return false
	}
	select {
	case <-done:
		return false
	default:
		return true
	}
}

// reap removes every active job whose fan-out has joined.
func (d *Dispatcher) reap() {
	d.mu.Lock()
	defer d.mu.Unlock()

	for id, done := range d.active {
		select {
		case <-done:
			delete(d.active, id)
			d.logger.Info("task retired", "task_id", id)
		default:
		}
	}
}

// runTask is one fan-out job: build the message once, spawn one attempt per
// recipient, join on all of them, then signal completion by closing done.
func (d *Dispatcher) runTask(ctx context.Context, t task.EmailTask, done chan struct{}) {
	defer close(done)

	msg, buildErr := d.build(t)
	if buildErr != nil {
		d.logger.Error("message build failed, failing all recipients",
			"task_id", t.ID, "error", buildErr)
	}

	var wg sync.WaitGroup
	for _, recipient := range t.Recipients {
		wg.Add(1)
		go func(recipient string) {
			defer wg.Done()
			d.attempt(ctx, t, msg, buildErr, recipient)
		}(recipient)
	}
	wg.Wait()

	d.logger.Info("fan-out complete", "task_id", t.ID, "recipients", len(t.Recipients))
}

// build runs the message builder with panic isolation: a broken task must
// not take down the engine.
func (d *Dispatcher) build(t task.EmailTask) (msg *message.Message, err error) {
	defer func() {
		if r := recover(); r != nil {
			msg, err = nil, fmt.Errorf("message builder panicked: %v", r)
		}
	}()
	return d.builder.Build(t)
}

// attempt delivers to one recipient and emits the two status transitions.
// Failure of this attempt is isolated: siblings of the same task proceed
// independently.
func (d *Dispatcher) attempt(ctx context.Context, t task.EmailTask, msg *message.Message, buildErr error, recipient string) {
	notificationID := task.NotificationID(t.ID, recipient)

	d.emit(notificationID, task.StatusSending)

	err := buildErr
	if err == nil {
		err = d.send(ctx, t, msg, recipient)
	}

	if err != nil {
		d.logger.Warn("delivery failed",
			"task_id", t.ID, "recipient", recipient, "error", err)
		d.emit(notificationID, task.StatusError)
		return
	}

	d.logger.Info("delivery succeeded", "task_id", t.ID, "recipient", recipient)
	d.emit(notificationID, task.StatusSuccess)
}

// send invokes the transport exactly once, converting panics into errors at
// the attempt boundary.
func (d *Dispatcher) send(ctx context.Context, t task.EmailTask, msg *message.Message, recipient string) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("transport panicked: %v", r)
		}
	}()
	return d.transport.Send(ctx, t, msg, recipient)
}

// emit calls the sink with panic recovery; a failing observer never affects
// the attempt.
func (d *Dispatcher) emit(notificationID string, status task.Status) {
	if d.sink == nil {
		return
	}
	defer func() {
		if r := recover(); r != nil {
			d.logger.Warn("status sink panicked",
				"notification_id", notificationID, "status", status, "panic", r)
		}
	}()
	d.sink(notificationID, status)
}

// Stats returns the current pending-queue length and active-job count.
func (d *Dispatcher) Stats() (pending, active int) {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.queue), len(d.active)
}
