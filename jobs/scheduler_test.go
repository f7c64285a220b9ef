package jobs_test

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"bff-gateway/jobs"

	"github.com/pkg/errors"
	"github.com/txix-open/isp-kit/test"
)

func TestSchedulerRunOnce(t *testing.T) {
	t.Parallel()
	test, require := test.New(t)

	runs := &atomic.Int32{}
	scheduler := jobs.NewScheduler(test.Logger(), jobs.Job{
		Name:     "refresh",
		Interval: time.Hour,
		Run: func(ctx context.Context) error {
			runs.Add(1)
			return nil
		},
	})

	require.NoError(scheduler.RunOnce(context.Background(), "refresh"))
	require.EqualValues(1, runs.Load())
	require.Error(scheduler.RunOnce(context.Background(), "unknown"))
}

func TestSchedulerStartStop(t *testing.T) {
	t.Parallel()
	test, require := test.New(t)

	ticks := &atomic.Int32{}
	failures := &atomic.Int32{}
	scheduler := jobs.NewScheduler(test.Logger(),
		jobs.Job{
			Name:       "tick",
			Interval:   5 * time.Millisecond,
			RunAtStart: true,
			Run: func(ctx context.Context) error {
				ticks.Add(1)
				return nil
			},
		},
		jobs.Job{
			Name:     "failing",
			Interval: 5 * time.Millisecond,
			Run: func(ctx context.Context) error {
				failures.Add(1)
				if failures.Load() == 1 {
					panic("boom")
				}
				return errors.New("always fails")
			},
		},
	)

	scheduler.Start(context.Background())
	scheduler.Start(context.Background())
	require.Eventually(func() bool {
		return ticks.Load() >= 3 && failures.Load() >= 2
	}, time.Second, time.Millisecond)

	scheduler.Stop()
	stopped := ticks.Load()
	time.Sleep(20 * time.Millisecond)
	require.Equal(stopped, ticks.Load())

	scheduler.Stop()
}
