package transport_test

import (
	"context"
	"log/slog"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MartyrMind/email-cli-app/internal/task"
	"github.com/MartyrMind/email-cli-app/internal/transport"
)

func newTestLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
}

func TestSimulated_AlwaysSucceeds(t *testing.T) {
	tr := transport.NewSimulated(newTestLogger(),
		transport.WithDelayRange(0, 0),
		transport.WithSuccessRate(1.0),
	)

	for i := 0; i < 20; i++ {
		err := tr.Send(context.Background(), task.EmailTask{ID: "t1"}, nil, "a@b.c")
		assert.NoError(t, err)
	}
}

func TestSimulated_AlwaysFails(t *testing.T) {
	tr := transport.NewSimulated(newTestLogger(),
		transport.WithDelayRange(0, 0),
		transport.WithSuccessRate(0),
	)

	for i := 0; i < 20; i++ {
		err := tr.Send(context.Background(), task.EmailTask{ID: "t1"}, nil, "a@b.c")
		assert.ErrorIs(t, err, transport.ErrSimulatedFailure)
	}
}

func TestSimulated_SeededOutcomeIsReproducible(t *testing.T) {
	run := func() []bool {
		tr := transport.NewSimulated(newTestLogger(),
			transport.WithDelayRange(0, 0),
			transport.WithSeed(42),
		)
		var outcomes []bool
		for i := 0; i < 10; i++ {
			err := tr.Send(context.Background(), task.EmailTask{ID: "t1"}, nil, "a@b.c")
			outcomes = append(outcomes, err == nil)
		}
		return outcomes
	}

	assert.Equal(t, run(), run())
}

func TestSimulated_DelayWithinBounds(t *testing.T) {
	minDelay := 10 * time.Millisecond
	maxDelay := 30 * time.Millisecond
	tr := transport.NewSimulated(newTestLogger(),
		transport.WithDelayRange(minDelay, maxDelay),
		transport.WithSuccessRate(1.0),
	)

	start := time.Now()
	err := tr.Send(context.Background(), task.EmailTask{ID: "t1"}, nil, "a@b.c")
	elapsed := time.Since(start)

	require.NoError(t, err)
	assert.GreaterOrEqual(t, elapsed, minDelay)
	// Generous upper bound: sleep granularity on loaded machines.
	assert.Less(t, elapsed, maxDelay+200*time.Millisecond)
}

func TestSimulated_Name(t *testing.T) {
	assert.Equal(t, "simulated", transport.NewSimulated(newTestLogger()).Name())
}
