package queue

import (
	"context"
	"hash/fnv"
	"strconv"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/medcare/health-portal/internal/api/metrics"
	"github.com/medcare/health-portal/internal/core/domain"
	"github.com/medcare/health-portal/internal/core/ports"
)

const (
	defaultWorkers = 4
	channelBuffer  = 256
	drainTimeout   = 5 * time.Second
)

// Dispatcher routes access events to a fixed set of workers using consistent
// hashing on the subject id, so one subject's events are recorded in order.
type Dispatcher struct {
	workers []chan domain.AccessEvent
	service ports.AuditService
	log     zerolog.Logger
	wg      sync.WaitGroup

	mu     sync.RWMutex
	closed bool
}

// NewDispatcher creates a Dispatcher with numWorkers sharded workers, each
// buffering up to buffer events. Non-positive values select the defaults.
func NewDispatcher(numWorkers, buffer int, service ports.AuditService, log zerolog.Logger) *Dispatcher {
	if numWorkers <= 0 {
		numWorkers = defaultWorkers
	}
	if buffer <= 0 {
		buffer = channelBuffer
	}
	d := &Dispatcher{
		workers: make([]chan domain.AccessEvent, numWorkers),
		service: service,
		log:     log,
	}
	for i := range d.workers {
		d.workers[i] = make(chan domain.AccessEvent, buffer)
	}
	return d
}

// Start launches all worker goroutines. When ctx is cancelled each worker
// records whatever is still buffered, under a fresh bounded context, and
// returns.
func (d *Dispatcher) Start(ctx context.Context) {
	for i, ch := range d.workers {
		d.wg.Add(1)
		go d.runWorker(ctx, i, ch)
	}
}

// Wait blocks until every worker has returned.
func (d *Dispatcher) Wait() {
	d.wg.Wait()
}

// Close stops accepting events and closes every shard. Workers record the
// events left in their shard and then return.
func (d *Dispatcher) Close() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.closed {
		return
	}
	d.closed = true
	for _, ch := range d.workers {
		close(ch)
	}
}

// Shutdown closes the dispatcher and waits for the workers to finish.
func (d *Dispatcher) Shutdown() {
	d.Close()
	d.Wait()
}

// Enqueue hands an event to the worker responsible for its subject. It never
// blocks: when the shard is full the event is dropped and false is returned.
func (d *Dispatcher) Enqueue(event domain.AccessEvent) bool {
	idx := d.shardIndex(event.SubjectID)

	d.mu.RLock()
	defer d.mu.RUnlock()
	if d.closed {
		metrics.AuditEventsDroppedTotal.Inc()
		d.log.Warn().Str("subject_id", event.SubjectID).Msg("audit dispatcher closed, event dropped")
		return false
	}

	select {
	case d.workers[idx] <- event:
		metrics.AuditQueueDepth.WithLabelValues(strconv.Itoa(idx)).Set(float64(len(d.workers[idx])))
		return true
	default:
		metrics.AuditEventsDroppedTotal.Inc()
		d.log.Warn().
			Str("subject_id", event.SubjectID).
			Int("worker_id", idx).
			Msg("audit queue full, event dropped")
		return false
	}
}

// shardIndex maps a subject id deterministically to a worker index.
func (d *Dispatcher) shardIndex(subjectID string) int {
	h := fnv.New32a()
	_, _ = h.Write([]byte(subjectID))
	return int(h.Sum32() % uint32(len(d.workers)))
}

func (d *Dispatcher) runWorker(ctx context.Context, id int, ch <-chan domain.AccessEvent) {
	defer d.wg.Done()
	depth := metrics.AuditQueueDepth.WithLabelValues(strconv.Itoa(id))
	for {
		select {
		case <-ctx.Done():
			d.drain(id, ch, nil)
			return
		case event, ok := <-ch:
			if !ok {
				depth.Set(0)
				return
			}
			if ctx.Err() != nil {
				d.drain(id, ch, &event)
				return
			}
			depth.Set(float64(len(ch)))
			d.record(ctx, id, event)
		}
	}
}

// drain records pending and every event still buffered in ch. It stops once
// ch is empty or closed.
func (d *Dispatcher) drain(id int, ch <-chan domain.AccessEvent, pending *domain.AccessEvent) {
	ctx, cancel := context.WithTimeout(context.Background(), drainTimeout)
	defer cancel()

	if pending != nil {
		d.record(ctx, id, *pending)
	}
	for {
		select {
		case event, ok := <-ch:
			if !ok {
				return
			}
			d.record(ctx, id, event)
		default:
			return
		}
	}
}

func (d *Dispatcher) record(ctx context.Context, id int, event domain.AccessEvent) {
	if err := d.service.Record(ctx, event); err != nil {
		metrics.AuditEventsErrorsTotal.Inc()
		d.log.Error().Err(err).
			Str("subject_id", event.SubjectID).
			Int("worker_id", id).
			Msg("access event recording failed")
	}
}
