package notify

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"
)

var ErrDispatcherStopped = errors.New("dispatcher stopped")

// Result is the outcome of one delivery.
type Result struct {
	UserID  int64  `json:"user_id"`
	OK      bool   `json:"ok"`
	Blocked bool   `json:"blocked,omitempty"`
	Error   string `json:"error,omitempty"`
}

type BatchResult struct {
	Results []Result `json:"results"`
	Sent    int      `json:"sent"`
	Failed  int      `json:"failed"`
}

func (b *BatchResult) add(r Result) {
	b.Results = append(b.Results, r)
	if r.OK {
		b.Sent++
	} else {
		b.Failed++
	}
}

// Batcher delivers one text to many users and reports per-recipient results.
type Batcher interface {
	Deliver(ctx context.Context, recipients []int64, text string) BatchResult
}

type Job struct {
	ctx    context.Context
	index  int
	UserID int64
	Text   string
	done   chan<- jobResult
}

type jobResult struct {
	index int
	Result
}

type Worker struct {
	ID         int
	WorkerPool chan chan Job
	JobChannel chan Job
	Logger     *slog.Logger
}

func NewWorker(id int, workerPool chan chan Job, logger *slog.Logger) *Worker {
	return &Worker{
		ID:         id,
		WorkerPool: workerPool,
		JobChannel: make(chan Job, 1),
		Logger:     logger,
	}
}

func (w *Worker) Start(ctx context.Context, wg *sync.WaitGroup, processFunc func(Job)) {
	wg.Add(1)
	go func() {
		defer wg.Done()

		for {
			w.WorkerPool <- w.JobChannel

			select {
			case job := <-w.JobChannel:
				w.Logger.Debug("worker processing job", "worker_id", w.ID, "user_id", job.UserID)
				processFunc(job)
			case <-ctx.Done():
				w.Logger.Debug("worker shutting down", "worker_id", w.ID)
				return
			}
		}
	}()
}

type Config struct {
	MaxWorkers      int
	QueueSize       int
	DeliveryTimeout time.Duration
}

// Dispatcher fans deliveries out over a fixed pool of workers. A failed
// delivery is recorded and never retried.
type Dispatcher struct {
	notifier Notifier
	timeout  time.Duration
	logger   *slog.Logger

	jobQueue   chan Job
	workerPool chan chan Job
	maxWorkers int
	ctx        context.Context
	cancel     context.CancelFunc
	wg         sync.WaitGroup
	once       sync.Once
}

func NewDispatcher(notifier Notifier, config Config, logger *slog.Logger) *Dispatcher {
	ctx, cancel := context.WithCancel(context.Background())

	maxWorkers := config.MaxWorkers
	if maxWorkers <= 0 {
		maxWorkers = 4
	}

	queueSize := config.QueueSize
	if queueSize <= 0 {
		queueSize = 100
	}

	timeout := config.DeliveryTimeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	d := &Dispatcher{
		notifier:   notifier,
		timeout:    timeout,
		logger:     logger,
		maxWorkers: maxWorkers,
		jobQueue:   make(chan Job, queueSize),
		workerPool: make(chan chan Job, maxWorkers),
		ctx:        ctx,
		cancel:     cancel,
	}

	d.startWorkerPool()

	return d
}

func (d *Dispatcher) startWorkerPool() {
	d.once.Do(func() {
		for i := 0; i < d.maxWorkers; i++ {
			worker := NewWorker(i, d.workerPool, d.logger)
			worker.Start(d.ctx, &d.wg, d.process)
		}

		d.wg.Add(1)
		go d.dispatch()

		d.logger.Info("notification worker pool started",
			"max_workers", d.maxWorkers,
			"queue_size", cap(d.jobQueue))
	})
}

func (d *Dispatcher) dispatch() {
	defer d.wg.Done()

	for {
		select {
		case job := <-d.jobQueue:
			select {
			case jobChannel := <-d.workerPool:
				jobChannel <- job
			case <-d.ctx.Done():
				job.done <- jobResult{index: job.index, Result: Result{UserID: job.UserID, Error: ErrDispatcherStopped.Error()}}
				return
			}
		case <-d.ctx.Done():
			d.logger.Info("notification dispatcher shutting down")
			return
		}
	}
}

func (d *Dispatcher) process(job Job) {
	result := Result{UserID: job.UserID}

	err := job.ctx.Err()
	if err == nil {
		ctx, cancel := context.WithTimeout(job.ctx, d.timeout)
		err = d.notifier.Notify(ctx, job.UserID, job.Text)
		cancel()
	}

	switch {
	case IsBlocked(err):
		result.Error, result.Blocked = err.Error(), true
		d.logger.Info("recipient has blocked the bot", "user_id", job.UserID)
	case err != nil:
		result.Error = err.Error()
		d.logger.Warn("notification delivery failed", "user_id", job.UserID, "error", err)
	default:
		result.OK = true
	}
	job.done <- jobResult{index: job.index, Result: result}
}

// Deliver sends text to every recipient and waits for all outcomes. Results
// keep the recipients' order.
func (d *Dispatcher) Deliver(ctx context.Context, recipients []int64, text string) BatchResult {
	results := make([]Result, len(recipients))
	finished := make([]bool, len(recipients))
	done := make(chan jobResult, len(recipients))

	pending := 0
	for i, userID := range recipients {
		job := Job{ctx: ctx, index: i, UserID: userID, Text: text, done: done}
		select {
		case d.jobQueue <- job:
			pending++
		case <-ctx.Done():
			results[i], finished[i] = Result{UserID: userID, Error: ctx.Err().Error()}, true
		case <-d.ctx.Done():
			results[i], finished[i] = Result{UserID: userID, Error: ErrDispatcherStopped.Error()}, true
		}
	}

wait:
	for pending > 0 {
		select {
		case r := <-done:
			results[r.index], finished[r.index] = r.Result, true
			pending--
		case <-d.ctx.Done():
			break wait
		}
	}
	for drained := false; !drained; {
		select {
		case r := <-done:
			results[r.index], finished[r.index] = r.Result, true
		default:
			drained = true
		}
	}

	batch := BatchResult{Results: make([]Result, 0, len(recipients))}
	for i, r := range results {
		if !finished[i] {
			r = Result{UserID: recipients[i], Error: ErrDispatcherStopped.Error()}
		}
		batch.add(r)
	}

	d.logger.Info("notification batch delivered",
		"recipients", len(recipients),
		"sent", batch.Sent,
		"failed", batch.Failed)
	return batch
}

func (d *Dispatcher) Shutdown() {
	d.logger.Info("shutting down notification dispatcher")
	d.cancel()
	d.wg.Wait()
	d.logger.Info("notification dispatcher shutdown complete")
}
