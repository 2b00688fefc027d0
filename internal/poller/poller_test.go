package poller

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"scoresync/internal/syncer"
)

type fakeStatusClient struct {
	mu     sync.Mutex
	start  func(req syncer.SeedRequest) (string, error)
	status func(jobID string, call int) (*syncer.Status, error)
	calls  int
}

func (f *fakeStatusClient) StartSeedSeason(_ context.Context, req syncer.SeedRequest) (string, error) {
	if f.start != nil {
		return f.start(req)
	}
	return "job-1", nil
}

func (f *fakeStatusClient) JobStatus(_ context.Context, jobID string) (*syncer.Status, error) {
	f.mu.Lock()
	f.calls++
	call := f.calls
	f.mu.Unlock()
	return f.status(jobID, call)
}

func (f *fakeStatusClient) statusCalls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

func fastOptions() Options {
	return Options{
		Interval:             5 * time.Millisecond,
		MaxAttempts:          10,
		MaxConsecutiveErrors: 3,
	}
}

func waitDone(t *testing.T, c *Controller) Snapshot {
	t.Helper()
	select {
	case <-c.Done():
	case <-time.After(2 * time.Second):
		t.Fatal("controller did not reach a terminal state")
	}
	return c.Snapshot()
}

func TestControllerCompletes(t *testing.T) {
	result := json.RawMessage(`{"version":1}`)
	client := &fakeStatusClient{
		status: func(_ string, call int) (*syncer.Status, error) {
			switch call {
			case 1:
				return &syncer.Status{State: syncer.StateWaiting}, nil
			case 2:
				p := 50
				return &syncer.Status{State: syncer.StateActive, Progress: &p}, nil
			default:
				p := 100
				return &syncer.Status{State: syncer.StateCompleted, Progress: &p, Result: result}, nil
			}
		},
	}
	c := NewController(client, fastOptions(), zap.NewNop())

	jobID, err := c.Start(context.Background(), syncer.SeedRequest{SeasonExternalID: "s1"})
	require.NoError(t, err)
	assert.Equal(t, "job-1", jobID)

	snap := waitDone(t, c)
	assert.Equal(t, StateCompleted, snap.State)
	assert.Equal(t, ReasonNone, snap.Reason)
	assert.JSONEq(t, string(result), string(snap.Result))
	require.NotNil(t, snap.Progress)
	assert.Equal(t, 100, *snap.Progress)
}

func TestControllerJobFailure(t *testing.T) {
	client := &fakeStatusClient{
		status: func(string, int) (*syncer.Status, error) {
			return &syncer.Status{State: syncer.StateFailed, Error: "season fetch blew up"}, nil
		},
	}
	c := NewController(client, fastOptions(), zap.NewNop())

	_, err := c.Start(context.Background(), syncer.SeedRequest{SeasonExternalID: "s1"})
	require.NoError(t, err)

	snap := waitDone(t, c)
	assert.Equal(t, StateFailed, snap.State)
	assert.Equal(t, ReasonJobFailed, snap.Reason)
	assert.Equal(t, "season fetch blew up", snap.Err)
}

func TestControllerAttemptCap(t *testing.T) {
	client := &fakeStatusClient{
		status: func(string, int) (*syncer.Status, error) {
			return &syncer.Status{State: syncer.StateActive}, nil
		},
	}
	opts := fastOptions()
	opts.MaxAttempts = 4
	c := NewController(client, opts, zap.NewNop())

	_, err := c.Start(context.Background(), syncer.SeedRequest{SeasonExternalID: "s1"})
	require.NoError(t, err)

	snap := waitDone(t, c)
	assert.Equal(t, StateFailed, snap.State)
	assert.Equal(t, ReasonTimeout, snap.Reason)
	assert.Equal(t, 4, snap.Attempts)
}

func TestControllerTransportErrorCap(t *testing.T) {
	client := &fakeStatusClient{
		status: func(string, int) (*syncer.Status, error) {
			return nil, errors.New("connection refused")
		},
	}
	c := NewController(client, fastOptions(), zap.NewNop())

	_, err := c.Start(context.Background(), syncer.SeedRequest{SeasonExternalID: "s1"})
	require.NoError(t, err)

	snap := waitDone(t, c)
	assert.Equal(t, StateFailed, snap.State)
	assert.Equal(t, ReasonTransport, snap.Reason)
	assert.Equal(t, 3, snap.Attempts)
}

func TestControllerSuccessResetsErrorStreak(t *testing.T) {
	client := &fakeStatusClient{
		status: func(_ string, call int) (*syncer.Status, error) {
			// Two errors, a good poll, two more errors, then done. Never
			// three in a row, so transport must not be the fail reason.
			switch call {
			case 1, 2, 4, 5:
				return nil, errors.New("flaky")
			case 3:
				return &syncer.Status{State: syncer.StateActive}, nil
			default:
				return &syncer.Status{State: syncer.StateCompleted}, nil
			}
		},
	}
	c := NewController(client, fastOptions(), zap.NewNop())

	_, err := c.Start(context.Background(), syncer.SeedRequest{SeasonExternalID: "s1"})
	require.NoError(t, err)

	snap := waitDone(t, c)
	assert.Equal(t, StateCompleted, snap.State)
}

func TestControllerFirstPollImmediate(t *testing.T) {
	client := &fakeStatusClient{
		status: func(string, int) (*syncer.Status, error) {
			return &syncer.Status{State: syncer.StateCompleted}, nil
		},
	}
	opts := fastOptions()
	// With the interval out of reach, only an immediate first poll can
	// terminate before waitDone gives up.
	opts.Interval = time.Hour
	c := NewController(client, opts, zap.NewNop())

	_, err := c.Start(context.Background(), syncer.SeedRequest{SeasonExternalID: "s1"})
	require.NoError(t, err)

	snap := waitDone(t, c)
	assert.Equal(t, StateCompleted, snap.State)
	assert.Equal(t, 1, snap.Attempts)
}

func TestControllerJobNotFoundIsImmediatelyFatal(t *testing.T) {
	client := &fakeStatusClient{
		status: func(string, int) (*syncer.Status, error) {
			return nil, syncer.ErrJobNotFound
		},
	}
	c := NewController(client, fastOptions(), zap.NewNop())

	_, err := c.Start(context.Background(), syncer.SeedRequest{SeasonExternalID: "s1"})
	require.NoError(t, err)

	snap := waitDone(t, c)
	assert.Equal(t, StateFailed, snap.State)
	assert.Equal(t, ReasonTransport, snap.Reason)
	assert.Equal(t, 1, snap.Attempts)
}

func TestControllerStartFailure(t *testing.T) {
	client := &fakeStatusClient{
		start: func(syncer.SeedRequest) (string, error) {
			return "", errors.New("api unreachable")
		},
	}
	c := NewController(client, fastOptions(), zap.NewNop())

	_, err := c.Start(context.Background(), syncer.SeedRequest{SeasonExternalID: "s1"})
	require.Error(t, err)

	snap := waitDone(t, c)
	assert.Equal(t, StateFailed, snap.State)
	assert.Equal(t, ReasonTransport, snap.Reason)
}

func TestControllerStopCancels(t *testing.T) {
	client := &fakeStatusClient{
		status: func(string, int) (*syncer.Status, error) {
			return &syncer.Status{State: syncer.StateActive}, nil
		},
	}
	c := NewController(client, fastOptions(), zap.NewNop())

	_, err := c.Start(context.Background(), syncer.SeedRequest{SeasonExternalID: "s1"})
	require.NoError(t, err)

	c.Stop()
	snap := waitDone(t, c)
	assert.Equal(t, StateFailed, snap.State)
	assert.Equal(t, ReasonCanceled, snap.Reason)

	// Late responses must not resurrect the state machine.
	calls := client.statusCalls()
	time.Sleep(30 * time.Millisecond)
	assert.Equal(t, StateFailed, c.Snapshot().State)
	assert.LessOrEqual(t, client.statusCalls(), calls+1)
}

func TestControllerSecondStartRejected(t *testing.T) {
	client := &fakeStatusClient{
		status: func(string, int) (*syncer.Status, error) {
			return &syncer.Status{State: syncer.StateActive}, nil
		},
	}
	c := NewController(client, fastOptions(), zap.NewNop())

	_, err := c.Start(context.Background(), syncer.SeedRequest{SeasonExternalID: "s1"})
	require.NoError(t, err)

	_, err = c.Start(context.Background(), syncer.SeedRequest{SeasonExternalID: "s2"})
	assert.ErrorIs(t, err, ErrAlreadyRunning)
	c.Stop()
}

func TestControllerResetAllowsReuse(t *testing.T) {
	client := &fakeStatusClient{
		status: func(string, int) (*syncer.Status, error) {
			return &syncer.Status{State: syncer.StateCompleted}, nil
		},
	}
	c := NewController(client, fastOptions(), zap.NewNop())

	_, err := c.Start(context.Background(), syncer.SeedRequest{SeasonExternalID: "s1"})
	require.NoError(t, err)
	waitDone(t, c)

	require.NoError(t, c.Reset())
	assert.Equal(t, StateIdle, c.Snapshot().State)

	_, err = c.Start(context.Background(), syncer.SeedRequest{SeasonExternalID: "s2"})
	require.NoError(t, err)
	snap := waitDone(t, c)
	assert.Equal(t, StateCompleted, snap.State)
}

func TestControllerResetWhileActiveRejected(t *testing.T) {
	client := &fakeStatusClient{
		status: func(string, int) (*syncer.Status, error) {
			return &syncer.Status{State: syncer.StateActive}, nil
		},
	}
	c := NewController(client, fastOptions(), zap.NewNop())

	_, err := c.Start(context.Background(), syncer.SeedRequest{SeasonExternalID: "s1"})
	require.NoError(t, err)

	assert.ErrorIs(t, c.Reset(), ErrNotTerminal)
	c.Stop()
}

func TestAdvanceIgnoresTerminalInput(t *testing.T) {
	opts := fastOptions()
	done := Snapshot{State: StateCompleted, Attempts: 3}
	next := advance(done, &syncer.Status{State: syncer.StateFailed}, nil, opts)
	assert.Equal(t, done, next)
}
