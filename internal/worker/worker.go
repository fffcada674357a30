package worker

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/cuongbtq/skillbridge/internal/activity"
	"github.com/cuongbtq/skillbridge/internal/worker/domain"
	amqp "github.com/rabbitmq/amqp091-go"
)

// DefaultRequeueDelay is how long a transiently failed event waits before it is nacked back to the queue
const DefaultRequeueDelay = time.Second

// ErrShutdownTimeout is returned by Start when in-flight events outlive the shutdown timeout
var ErrShutdownTimeout = errors.New("worker pool did not drain before shutdown timeout")

// Consumer is the slice of the RabbitMQ client the worker needs
type Consumer interface {
	Qos(prefetchCount int) error
	Consume(consumerTag string) (<-chan amqp.Delivery, error)
}

// EventStore records activity events
type EventStore interface {
	RecordEvent(ctx context.Context, event *activity.Event) (bool, error)
}

// Config holds worker configuration
type Config struct {
	Logger          *slog.Logger
	Store           EventStore
	Consumer        Consumer
	WorkerID        string
	Concurrency     int
	BufferSize      int
	PrefetchCount   int
	EventTimeout    time.Duration
	ShutdownTimeout time.Duration
	RequeueDelay    time.Duration
}

// Worker consumes activity events and writes them to the activity log
type Worker struct {
	logger          *slog.Logger
	store           EventStore
	consumer        Consumer
	workerID        string
	concurrency     int
	prefetchCount   int
	eventTimeout    time.Duration
	shutdownTimeout time.Duration
	requeueDelay    time.Duration

	eventsChan chan *domain.EventMessage
	wg         sync.WaitGroup
}

// NewWorker creates a new worker instance
func NewWorker(cfg *Config) *Worker {
	concurrency := cfg.Concurrency
	if concurrency <= 0 {
		concurrency = 1
	}
	bufferSize := cfg.BufferSize
	if bufferSize < 0 {
		bufferSize = 0
	}
	prefetch := cfg.PrefetchCount
	if prefetch <= 0 {
		prefetch = concurrency
	}
	requeueDelay := cfg.RequeueDelay
	if requeueDelay <= 0 {
		requeueDelay = DefaultRequeueDelay
	}

	return &Worker{
		logger:          cfg.Logger,
		store:           cfg.Store,
		consumer:        cfg.Consumer,
		workerID:        cfg.WorkerID,
		concurrency:     concurrency,
		prefetchCount:   prefetch,
		eventTimeout:    cfg.EventTimeout,
		shutdownTimeout: cfg.ShutdownTimeout,
		requeueDelay:    requeueDelay,
		eventsChan:      make(chan *domain.EventMessage, bufferSize),
	}
}

// Start consumes until ctx is canceled or the broker closes the delivery channel,
// then lets the pool finish what was already dispatched.
func (w *Worker) Start(ctx context.Context) error {
	w.logger.Info("Starting worker",
		slog.String("worker_id", w.workerID),
		slog.Int("concurrency", w.concurrency),
		slog.Duration("event_timeout", w.eventTimeout),
	)

	deliveries, err := w.setupConsumer()
	if err != nil {
		return err
	}

	w.spawnWorkerPool(ctx)
	w.startMessageDispatcher(ctx, deliveries)

	close(w.eventsChan)
	return w.wait()
}

func (w *Worker) wait() error {
	done := make(chan struct{})
	go func() {
		w.wg.Wait()
		close(done)
	}()

	if w.shutdownTimeout <= 0 {
		<-done
		w.logger.Info("Worker stopped")
		return nil
	}

	select {
	case <-done:
		w.logger.Info("Worker stopped")
		return nil
	case <-time.After(w.shutdownTimeout):
		w.logger.Warn("Worker pool still busy at shutdown timeout",
			slog.Duration("shutdown_timeout", w.shutdownTimeout),
		)
		return ErrShutdownTimeout
	}
}
