package runner_test

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/andyle182810/webber/runner"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	errStart = errors.New("start error")
	errStop  = errors.New("stop error")
)

type journal struct {
	mu      sync.Mutex
	entries []string
}

func (j *journal) add(entry string) {
	j.mu.Lock()
	defer j.mu.Unlock()

	j.entries = append(j.entries, entry)
}

func (j *journal) list() []string {
	j.mu.Lock()
	defer j.mu.Unlock()

	return append([]string(nil), j.entries...)
}

type mockService struct {
	name         string
	journal      *journal
	startErr     error
	stopErr      error
	stopDelay    time.Duration
	panicOnStart bool
	started      atomic.Bool
	stopped      atomic.Bool
}

func newMockService(name string, j *journal) *mockService {
	return &mockService{ //nolint:exhaustruct
		name:    name,
		journal: j,
	}
}

func (m *mockService) Start(context.Context) error {
	if m.panicOnStart {
		panic("mock panic on start")
	}

	if m.startErr != nil {
		return m.startErr
	}

	m.started.Store(true)
	m.journal.add("start " + m.name)

	return nil
}

func (m *mockService) Stop() error {
	if m.stopDelay > 0 {
		time.Sleep(m.stopDelay)
	}

	m.journal.add("stop " + m.name)

	if m.stopErr != nil {
		return m.stopErr
	}

	m.stopped.Store(true)

	return nil
}

func (m *mockService) Name() string {
	return m.name
}

func newRunner(opts ...runner.Option) *runner.Runner {
	return runner.New(append([]runner.Option{runner.WithLogger(zerolog.Nop())}, opts...)...)
}

func TestRunner_ServiceInterfaceImplementation(t *testing.T) {
	t.Parallel()

	var _ runner.Service = newMockService("test", &journal{}) //nolint:exhaustruct
}

func TestRun_WithoutServicesReturnsOnCancel(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(t.Context())
	cancel()

	require.NoError(t, newRunner().Run(ctx))
}

func TestRun_StartsInOrderAndStopsInReverse(t *testing.T) {
	t.Parallel()

	j := &journal{} //nolint:exhaustruct
	first := newMockService("first", j)
	second := newMockService("second", j)

	ctx, cancel := context.WithCancel(t.Context())

	errCh := make(chan error, 1)

	go func() {
		errCh <- newRunner(runner.WithService(first), runner.WithService(second)).Run(ctx)
	}()

	require.Eventually(t, func() bool {
		return first.started.Load() && second.started.Load()
	}, time.Second, 5*time.Millisecond)

	cancel()

	select {
	case err := <-errCh:
		require.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("Run did not return after cancellation")
	}

	assert.Equal(t, []string{"start first", "start second", "stop second", "stop first"}, j.list())
	assert.True(t, first.stopped.Load())
	assert.True(t, second.stopped.Load())
}

func TestRun_StartFailureStopsStartedServices(t *testing.T) {
	t.Parallel()

	j := &journal{} //nolint:exhaustruct
	first := newMockService("first", j)
	broken := newMockService("broken", j)
	broken.startErr = errStart
	never := newMockService("never", j)

	err := newRunner(
		runner.WithService(first),
		runner.WithService(broken),
		runner.WithService(never),
	).Run(t.Context())

	require.ErrorIs(t, err, runner.ErrServiceFailed)
	require.ErrorIs(t, err, errStart)
	assert.Equal(t, []string{"start first", "stop first"}, j.list())
	assert.False(t, never.started.Load())
}

func TestRun_StartPanicIsRecovered(t *testing.T) {
	t.Parallel()

	j := &journal{} //nolint:exhaustruct
	svc := newMockService("panicky", j)
	svc.panicOnStart = true

	err := newRunner(runner.WithService(svc)).Run(t.Context())

	require.ErrorIs(t, err, runner.ErrServicePanic)
	assert.Contains(t, err.Error(), "mock panic on start")
}

func TestRun_ReportsStopErrors(t *testing.T) {
	t.Parallel()

	j := &journal{} //nolint:exhaustruct
	svc := newMockService("stubborn", j)
	svc.stopErr = errStop
	other := newMockService("other", j)

	ctx, cancel := context.WithCancel(t.Context())
	cancel()

	err := newRunner(runner.WithService(other), runner.WithService(svc)).Run(ctx)

	require.ErrorIs(t, err, errStop)
	assert.Contains(t, err.Error(), "stubborn")
	assert.True(t, other.stopped.Load())
}

func TestRun_ShutdownTimeout(t *testing.T) {
	t.Parallel()

	j := &journal{} //nolint:exhaustruct
	svc := newMockService("slow", j)
	svc.stopDelay = 200 * time.Millisecond

	ctx, cancel := context.WithCancel(t.Context())
	cancel()

	err := newRunner(
		runner.WithService(svc),
		runner.WithShutdownTimeout(20*time.Millisecond),
	).Run(ctx)

	require.ErrorIs(t, err, runner.ErrShutdownTimeout)
}
