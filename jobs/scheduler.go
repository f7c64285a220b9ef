package jobs

import (
	"context"
	"sync"
	"time"

	"github.com/pkg/errors"
	"github.com/txix-open/isp-kit/log"
)

type Job struct {
	Name       string
	Interval   time.Duration
	RunAtStart bool
	Run        func(ctx context.Context) error
}

// Scheduler runs each job on its own ticker until Stop is called.
type Scheduler struct {
	jobs   []Job
	logger log.Logger

	lock    sync.Mutex
	cancel  context.CancelFunc
	running sync.WaitGroup
}

func NewScheduler(logger log.Logger, jobs ...Job) *Scheduler {
	return &Scheduler{
		jobs:   jobs,
		logger: logger,
	}
}

func (s *Scheduler) Start(ctx context.Context) {
	s.lock.Lock()
	defer s.lock.Unlock()
	if s.cancel != nil {
		return
	}

	ctx, cancel := context.WithCancel(ctx)
	s.cancel = cancel
	for _, job := range s.jobs {
		s.running.Add(1)
		go s.loop(ctx, job)
	}
}

// Stop cancels all jobs and waits for in-flight runs to return.
func (s *Scheduler) Stop() {
	s.lock.Lock()
	cancel := s.cancel
	s.cancel = nil
	s.lock.Unlock()

	if cancel == nil {
		return
	}
	cancel()
	s.running.Wait()
}

// RunOnce executes the named job synchronously.
func (s *Scheduler) RunOnce(ctx context.Context, name string) error {
	for _, job := range s.jobs {
		if job.Name == name {
			return job.Run(ctx)
		}
	}
	return errors.Errorf("unknown job '%s'", name)
}

func (s *Scheduler) loop(ctx context.Context, job Job) {
	defer s.running.Done()

	if job.RunAtStart {
		s.run(ctx, job)
	}

	ticker := time.NewTicker(job.Interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.run(ctx, job)
		}
	}
}

func (s *Scheduler) run(ctx context.Context, job Job) {
	defer func() {
		r := recover()
		if r != nil {
			s.logger.Error(ctx, errors.Errorf("job %s panicked: %v", job.Name, r))
		}
	}()

	err := job.Run(ctx)
	if err != nil && ctx.Err() == nil {
		s.logger.Error(ctx, errors.WithMessagef(err, "job %s", job.Name))
	}
}
