package background

import (
	"context"
	"fmt"
	"sync"
	"time"

	"socialai/internal/jobs"

	"github.com/go-co-op/gocron/v2"
	"go.uber.org/zap"
)

const publishJobName = "scheduled-post-publisher"

// JobScheduler owns the process's recurring jobs. It is started once at
// startup and shut down with the HTTP server.
type JobScheduler struct {
	scheduler gocron.Scheduler
	publisher *jobs.PostPublisher
	interval  time.Duration
	log       *zap.Logger
	jobs      map[string]gocron.Job
	mu        sync.RWMutex
	started   bool
}

func NewJobScheduler(publisher *jobs.PostPublisher, interval time.Duration, log *zap.Logger, opts ...gocron.SchedulerOption) (*JobScheduler, error) {
	scheduler, err := gocron.NewScheduler(opts...)
	if err != nil {
		return nil, fmt.Errorf("create scheduler: %w", err)
	}

	js := &JobScheduler{
		scheduler: scheduler,
		publisher: publisher,
		interval:  interval,
		log:       log,
		jobs:      make(map[string]gocron.Job),
	}
	if err := js.registerJobs(); err != nil {
		_ = scheduler.Shutdown()
		return nil, err
	}
	return js, nil
}

func (js *JobScheduler) registerJobs() error {
	job, err := js.scheduler.NewJob(
		gocron.DurationJob(js.interval),
		gocron.NewTask(js.publishDuePosts),
		gocron.WithName(publishJobName),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
	)
	if err != nil {
		return fmt.Errorf("register %s: %w", publishJobName, err)
	}

	js.mu.Lock()
	js.jobs[publishJobName] = job
	js.mu.Unlock()

	js.log.Info("registered background jobs", zap.Int("count", len(js.jobs)), zap.Duration("interval", js.interval))
	return nil
}

// Start is idempotent.
func (js *JobScheduler) Start() {
	js.mu.Lock()
	defer js.mu.Unlock()
	if js.started {
		return
	}
	js.log.Info("starting background job scheduler")
	js.scheduler.Start()
	js.started = true
}

// Stop waits for running jobs to finish.
func (js *JobScheduler) Stop() error {
	js.log.Info("stopping background job scheduler")
	return js.scheduler.Shutdown()
}

// Jobs lists the registered job names.
func (js *JobScheduler) Jobs() []string {
	js.mu.RLock()
	defer js.mu.RUnlock()
	names := make([]string, 0, len(js.jobs))
	for name := range js.jobs {
		names = append(names, name)
	}
	return names
}

func (js *JobScheduler) publishDuePosts() {
	ctx, cancel := context.WithTimeout(context.Background(), js.interval)
	defer cancel()

	if _, err := js.publisher.PublishDue(ctx); err != nil {
		js.log.Error("scheduled publishing run failed", zap.Error(err))
	}
}
