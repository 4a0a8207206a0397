package transport

import (
	"context"
	"errors"
	"log/slog"
	"math/rand"
	"sync"
	"time"

	"github.com/MartyrMind/email-cli-app/internal/message"
	"github.com/MartyrMind/email-cli-app/internal/task"
)

// ErrSimulatedFailure is the injected failure of an unlucky simulated attempt.
var ErrSimulatedFailure = errors.New("simulated delivery failure")

const (
	defaultMinDelay    = 2 * time.Second
	defaultMaxDelay    = 5 * time.Second
	defaultSuccessRate = 0.85
)

// Simulated is the network-free transport: each attempt sleeps a random
// duration within the configured range and then succeeds with the configured
// probability. It is meant for demonstration; tests inject a seed, a tiny
// delay range, or a success rate of 0 or 1 to pin the outcome.
type Simulated struct {
	minDelay    time.Duration
	maxDelay    time.Duration
	successRate float64
	logger      *slog.Logger

	mu  sync.Mutex
	rng *rand.Rand
}

// SimulatedOption customizes a Simulated transport.
type SimulatedOption func(*Simulated)

// WithDelayRange sets the inclusive simulated delay bounds.
func WithDelayRange(minDelay, maxDelay time.Duration) SimulatedOption {
	return func(s *Simulated) {
		s.minDelay = minDelay
		s.maxDelay = maxDelay
	}
}

// WithSuccessRate sets the probability in [0,1] that an attempt succeeds.
func WithSuccessRate(rate float64) SimulatedOption {
	return func(s *Simulated) { s.successRate = rate }
}

// WithSeed makes the outcome sequence reproducible.
func WithSeed(seed int64) SimulatedOption {
	return func(s *Simulated) { s.rng = rand.New(rand.NewSource(seed)) } //nolint:gosec // simulation, not crypto
}

// NewSimulated creates a Simulated transport with a 2–5s delay and an 85%
// success rate unless overridden.
func NewSimulated(logger *slog.Logger, opts ...SimulatedOption) *Simulated {
	s := &Simulated{
		minDelay:    defaultMinDelay,
		maxDelay:    defaultMaxDelay,
		successRate: defaultSuccessRate,
		logger:      logger,
		rng:         rand.New(rand.NewSource(time.Now().UnixNano())), //nolint:gosec // simulation, not crypto
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Name returns the transport identifier.
func (s *Simulated) Name() string { return "simulated" }

// Send sleeps the randomized delay and resolves to exactly one terminal
// outcome. Once started, the attempt runs to completion: the delay is not
// cut short by ctx, matching the no-cancellation contract of real attempts.
func (s *Simulated) Send(_ context.Context, t task.EmailTask, _ *message.Message, recipient string) error {
	delay, success := s.draw()

	s.logger.Debug("simulating delivery",
		"task_id", t.ID, "recipient", recipient, "delay", delay)
	time.Sleep(delay)

	if !success {
		s.logger.Warn("simulated delivery failed",
			"task_id", t.ID, "recipient", recipient)
		return ErrSimulatedFailure
	}

	s.logger.Info("simulated delivery succeeded",
		"task_id", t.ID, "recipient", recipient, "delay", delay)
	return nil
}

// draw picks the attempt's delay and outcome under the rng lock.
func (s *Simulated) draw() (time.Duration, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	delay := s.minDelay
	if span := s.maxDelay - s.minDelay; span > 0 {
		delay += time.Duration(s.rng.Int63n(int64(span) + 1))
	}
	return delay, s.rng.Float64() < s.successRate
}
