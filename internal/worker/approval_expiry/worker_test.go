package approval_expiry

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

type fakeApprovalService struct {
	calls atomic.Int32
}

func (f *fakeApprovalService) Expire(_ context.Context, _ time.Time) (int, error) {
	f.calls.Add(1)
	return 1, nil
}

type fixedTime struct {
	t time.Time
}

func (f fixedTime) Now() time.Time { return f.t }

type noopLogger struct{}

func (noopLogger) Info(string, ...interface{})  {}
func (noopLogger) Warn(string, ...interface{})  {}
func (noopLogger) Error(string, ...interface{}) {}

func TestWorker_SweepsImmediatelyAndStopsOnCancel(t *testing.T) {
	svc := &fakeApprovalService{}
	w := New(svc, time.Hour, fixedTime{t: time.Now()}, noopLogger{})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		w.Run(ctx)
		close(done)
	}()

	assert.Eventually(t, func() bool {
		return svc.calls.Load() == 1
	}, time.Second, 10*time.Millisecond)

	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("worker did not stop after context cancel")
	}
}

func TestWorker_TicksOnInterval(t *testing.T) {
	svc := &fakeApprovalService{}
	w := New(svc, 20*time.Millisecond, fixedTime{t: time.Now()}, noopLogger{})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go w.Run(ctx)

	assert.Eventually(t, func() bool {
		return svc.calls.Load() >= 3
	}, time.Second, 10*time.Millisecond)
}

func TestNew_DefaultsInterval(t *testing.T) {
	w := New(&fakeApprovalService{}, 0, fixedTime{t: time.Now()}, noopLogger{})
	assert.Equal(t, defaultInterval, w.interval)
}
