package queue

import (
	"context"
	"hash/fnv"
	"strconv"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/palaup/jobboard/internal/api/metrics"
	"github.com/palaup/jobboard/internal/core/ports"
)

const (
	defaultWorkers = 4
	channelBuffer  = 256
)

// ViewCounter is the store operation the workers apply.
type ViewCounter interface {
	IncrementViews(ctx context.Context, jobID string) error
}

// Dispatcher moves job view increments off the request path. Ids are sharded
// onto a fixed set of workers by hash, so increments for one job are applied
// by a single goroutine.
type Dispatcher struct {
	workers []chan string
	store   ViewCounter
	log     zerolog.Logger
	wg      sync.WaitGroup
}

// NewDispatcher creates a Dispatcher with numWorkers sharded workers.
// If numWorkers <= 0, defaultWorkers is used.
func NewDispatcher(numWorkers int, store ViewCounter, log zerolog.Logger) *Dispatcher {
	if numWorkers <= 0 {
		numWorkers = defaultWorkers
	}
	d := &Dispatcher{
		workers: make([]chan string, numWorkers),
		store:   store,
		log:     log,
	}
	for i := range d.workers {
		d.workers[i] = make(chan string, channelBuffer)
	}
	return d
}

// Start launches the workers. They stop when ctx is cancelled.
func (d *Dispatcher) Start(ctx context.Context) {
	for i, ch := range d.workers {
		d.wg.Add(1)
		go d.runWorker(ctx, i, ch)
	}
}

// Wait blocks until every worker has returned.
func (d *Dispatcher) Wait() { d.wg.Wait() }

// Record never blocks. When a worker's buffer is full the increment is
// dropped and counted.
func (d *Dispatcher) Record(jobIDs ...string) {
	for _, id := range jobIDs {
		if id == "" {
			continue
		}
		idx := d.shardIndex(id)
		select {
		case d.workers[idx] <- id:
			metrics.ViewQueueDepth.WithLabelValues(strconv.Itoa(idx)).Set(float64(len(d.workers[idx])))
		default:
			metrics.ViewsDroppedTotal.Inc()
			d.log.Warn().Str("job_id", id).Int("worker_id", idx).Msg("view queue full, dropping increment")
		}
	}
}

func (d *Dispatcher) shardIndex(jobID string) int {
	h := fnv.New32a()
	_, _ = h.Write([]byte(jobID))
	return int(h.Sum32() % uint32(len(d.workers)))
}

func (d *Dispatcher) runWorker(ctx context.Context, id int, ch <-chan string) {
	defer d.wg.Done()
	label := strconv.Itoa(id)

	for {
		select {
		case <-ctx.Done():
			return
		case jobID := <-ch:
			metrics.ViewQueueDepth.WithLabelValues(label).Set(float64(len(ch)))

			start := time.Now()
			err := d.store.IncrementViews(ctx, jobID)
			result := "ok"
			if err != nil {
				result = "error"
				d.log.Error().Err(err).
					Str("job_id", jobID).
					Int("worker_id", id).
					Msg("view increment failed")
			}
			metrics.ViewWriteDuration.WithLabelValues(result).Observe(time.Since(start).Seconds())
		}
	}
}

var _ ports.ViewRecorder = (*Dispatcher)(nil)
