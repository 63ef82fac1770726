package scheduler

import (
	"context"
	"fmt"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// Job is a unit of background work. An empty schedule registers the job as on-demand only.
type Job interface {
	Name() string
	Schedule() string
	Run(ctx context.Context) error
}

type Scheduler struct {
	cron   *cron.Cron
	jobs   []Job
	logger *zap.Logger
}

func New(logger *zap.Logger) *Scheduler {
	return &Scheduler{
		cron:   cron.New(),
		jobs:   make([]Job, 0),
		logger: logger,
	}
}

func (s *Scheduler) Register(job Job) error {
	s.jobs = append(s.jobs, job)

	schedule := job.Schedule()
	if schedule == "" {
		s.logger.Info("job registered on-demand", zap.String("job", job.Name()))
		return nil
	}

	_, err := s.cron.AddFunc(schedule, func() {
		if err := job.Run(context.Background()); err != nil {
			s.logger.Error("scheduled job failed", zap.String("job", job.Name()), zap.Error(err))
			return
		}
		s.logger.Debug("scheduled job completed", zap.String("job", job.Name()))
	})
	if err != nil {
		return fmt.Errorf("schedule %s: %w", job.Name(), err)
	}

	s.logger.Info("job scheduled", zap.String("job", job.Name()), zap.String("schedule", schedule))
	return nil
}

func (s *Scheduler) Start() {
	s.cron.Start()
	s.logger.Info("scheduler started", zap.Int("jobs", len(s.jobs)))
}

// Stop waits for running jobs to finish.
func (s *Scheduler) Stop() {
	<-s.cron.Stop().Done()
	s.logger.Info("scheduler stopped")
}

func (s *Scheduler) RunByName(ctx context.Context, name string) error {
	for _, job := range s.jobs {
		if job.Name() == name {
			return job.Run(ctx)
		}
	}
	return fmt.Errorf("job %q not registered", name)
}

func (s *Scheduler) Jobs() []string {
	names := make([]string, len(s.jobs))
	for i, job := range s.jobs {
		names[i] = job.Name()
	}
	return names
}
