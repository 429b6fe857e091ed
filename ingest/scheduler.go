package ingest

import (
	"context"
	"fmt"
	"github.com/avicd/go-kifu/logger"
	"github.com/robfig/cron/v3"
	"sync"
	"time"
)

type Scheduler struct {
	pipeline *Pipeline
	spec     string
	timeout  time.Duration
	cron     *cron.Cron
	ctx      context.Context
	cancel   context.CancelFunc
	mu       sync.Mutex
	status   Status
}

// cronLogger sends the messages of cron to the logx logger.
type cronLogger struct {
	scope logger.Scope
}

func (it cronLogger) Info(msg string, keysAndValues ...any) {
	it.scope.Debugf("%s %v", msg, keysAndValues)
}

func (it cronLogger) Error(err error, msg string, keysAndValues ...any) {
	it.scope.Errorf("%s: %v %v", msg, err, keysAndValues)
}

type Status struct {
	Last Report
	Err  error
	Runs int
}

// NewScheduler runs pipeline on the cron spec, e.g. "0 3 * * *" or
// "@every 6h". A run that is still going makes the next one be skipped.
func NewScheduler(pipeline *Pipeline, spec string, timeout time.Duration) (*Scheduler, error) {
	clog := cronLogger{scope: logger.Scope("cron")}
	it := &Scheduler{
		pipeline: pipeline,
		spec:     spec,
		timeout:  timeout,
		cron: cron.New(
			cron.WithLogger(clog),
			cron.WithChain(cron.Recover(clog), cron.SkipIfStillRunning(clog)),
		),
	}
	it.ctx, it.cancel = context.WithCancel(context.Background())
	if _, err := it.cron.AddFunc(spec, it.run); err != nil {
		it.cancel()
		return nil, fmt.Errorf("ingest: schedule %q: %w", spec, err)
	}
	return it, nil
}

func (it *Scheduler) run() {
	ctx := it.ctx
	if it.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, it.timeout)
		defer cancel()
	}
	it.RunNow(ctx)
}

// RunNow runs the pipeline once, outside the schedule.
func (it *Scheduler) RunNow(ctx context.Context) (Report, error) {
	report, err := it.pipeline.Run(ctx, nil)
	if err != nil {
		log.Errorf("scheduled run failed: %v", err)
	}
	it.mu.Lock()
	it.status.Last, it.status.Err = report, err
	it.status.Runs++
	it.mu.Unlock()
	return report, err
}

// Status reports the latest run and the number of runs so far.
func (it *Scheduler) Status() Status {
	it.mu.Lock()
	defer it.mu.Unlock()
	return it.status
}

func (it *Scheduler) Next() time.Time {
	entries := it.cron.Entries()
	if len(entries) < 1 {
		return time.Time{}
	}
	return entries[0].Next
}

func (it *Scheduler) Start() {
	it.cron.Start()
	log.Infof("scheduled '%s', next run at %s", it.spec, it.Next().Format(time.RFC3339))
}

// Stop cancels a running job and waits for it to return or ctx to end.
func (it *Scheduler) Stop(ctx context.Context) error {
	done := it.cron.Stop()
	it.cancel()
	select {
	case <-done.Done():
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
