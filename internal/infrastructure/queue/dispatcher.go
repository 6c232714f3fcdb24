package queue

import (
	"context"
	"errors"
	"hash/fnv"
	"strconv"
	"time"

	"github.com/rs/zerolog"

	"github.com/studyforge/learning-api/internal/core/ports"
	"github.com/studyforge/learning-api/internal/pkg/metrics"
)

const (
	defaultWorkers = 4
	channelBuffer  = 128
)

// ErrDispatcherStopped is returned by Notify once the dispatcher has shut down.
var ErrDispatcherStopped = errors.New("reset dispatcher stopped")

// Dispatcher delivers reset notices asynchronously through a fixed set of
// workers. Notices for one email always land on the same worker, so they are
// delivered in the order they were issued.
type Dispatcher struct {
	workers []chan ports.ResetNotice
	mailer  ports.ResetMailer
	log     zerolog.Logger
	done    chan struct{}
}

// NewDispatcher creates a Dispatcher with numWorkers sharded workers.
// If numWorkers <= 0, defaultWorkers is used.
func NewDispatcher(numWorkers int, mailer ports.ResetMailer, log zerolog.Logger) *Dispatcher {
	if numWorkers <= 0 {
		numWorkers = defaultWorkers
	}
	d := &Dispatcher{
		workers: make([]chan ports.ResetNotice, numWorkers),
		mailer:  mailer,
		log:     log,
		done:    make(chan struct{}),
	}
	for i := range d.workers {
		d.workers[i] = make(chan ports.ResetNotice, channelBuffer)
	}
	return d
}

// Start launches all worker goroutines. Workers stop when ctx is cancelled.
func (d *Dispatcher) Start(ctx context.Context) {
	for i, ch := range d.workers {
		go d.runWorker(ctx, i, ch)
	}
	go func() {
		<-ctx.Done()
		close(d.done)
	}()
}

// Notify queues notice on the worker responsible for its email. It blocks
// while that worker's buffer is full, until ctx is done.
func (d *Dispatcher) Notify(ctx context.Context, notice ports.ResetNotice) error {
	// A ready send could otherwise win over done and strand the notice.
	select {
	case <-d.done:
		return ErrDispatcherStopped
	default:
	}

	idx := d.shardIndex(notice.Email)
	select {
	case <-d.done:
		return ErrDispatcherStopped
	case <-ctx.Done():
		return ctx.Err()
	case d.workers[idx] <- notice:
		metrics.ResetQueueDepth.WithLabelValues(strconv.Itoa(idx)).Set(float64(len(d.workers[idx])))
		return nil
	}
}

// shardIndex maps an email deterministically to a worker index.
func (d *Dispatcher) shardIndex(email string) int {
	h := fnv.New32a()
	_, _ = h.Write([]byte(email))
	return int(h.Sum32() % uint32(len(d.workers)))
}

func (d *Dispatcher) runWorker(ctx context.Context, id int, ch <-chan ports.ResetNotice) {
	label := strconv.Itoa(id)
	for {
		select {
		case <-ctx.Done():
			return
		case notice := <-ch:
			metrics.ResetQueueDepth.WithLabelValues(label).Set(float64(len(ch)))
			d.deliver(ctx, id, notice)
		}
	}
}

func (d *Dispatcher) deliver(ctx context.Context, id int, notice ports.ResetNotice) {
	start := time.Now()
	if err := d.mailer.SendPasswordReset(ctx, notice); err != nil {
		metrics.ResetDeliveryDuration.WithLabelValues("error").Observe(time.Since(start).Seconds())
		d.log.Error().Err(err).
			Str("user_id", notice.UserID).
			Int("worker_id", id).
			Msg("reset notice delivery failed")
		return
	}
	metrics.ResetDeliveryDuration.WithLabelValues("sent").Observe(time.Since(start).Seconds())
}
