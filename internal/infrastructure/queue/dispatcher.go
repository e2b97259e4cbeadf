package queue

import (
	"context"
	"hash/fnv"
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"

	"github.com/99minutos/identity-gateway/internal/core/domain"
	"github.com/99minutos/identity-gateway/internal/core/ports"
	"github.com/99minutos/identity-gateway/internal/metrics"
)

const (
	defaultWorkers = 4
	channelBuffer  = 256
	recordTimeout  = 5 * time.Second
)

var _ ports.RegistrationRecorder = (*Dispatcher)(nil)

// Dispatcher routes journal events to a fixed set of workers using consistent
// hashing on the registration key, so events of one registration are written
// in the order they were produced.
type Dispatcher struct {
	workers []chan domain.RegistrationEvent
	journal ports.RegistrationJournal
	log     zerolog.Logger
	dropped atomic.Uint64
	wg      sync.WaitGroup
}

// NewDispatcher creates a Dispatcher with numWorkers sharded workers.
// If numWorkers <= 0, defaultWorkers is used.
func NewDispatcher(numWorkers int, journal ports.RegistrationJournal, log zerolog.Logger) *Dispatcher {
	if numWorkers <= 0 {
		numWorkers = defaultWorkers
	}
	d := &Dispatcher{
		workers: make([]chan domain.RegistrationEvent, numWorkers),
		journal: journal,
		log:     log,
	}
	for i := range d.workers {
		d.workers[i] = make(chan domain.RegistrationEvent, channelBuffer)
	}
	return d
}

// Start launches all worker goroutines. Workers drain what is already queued
// and stop once ctx is cancelled; Wait blocks until they have.
func (d *Dispatcher) Start(ctx context.Context) {
	for i, ch := range d.workers {
		d.wg.Add(1)
		go d.runWorker(ctx, i, ch)
	}
}

func (d *Dispatcher) Wait() {
	d.wg.Wait()
}

// Enqueue hands event to its worker. It never blocks: when the worker queue
// is full the event is dropped and counted.
func (d *Dispatcher) Enqueue(event domain.RegistrationEvent) {
	idx := d.shardIndex(event.Key())
	select {
	case d.workers[idx] <- event:
		metrics.JournalQueueDepth.WithLabelValues(strconv.Itoa(idx)).Set(float64(len(d.workers[idx])))
	default:
		d.dropped.Add(1)
		metrics.JournalDroppedTotal.Inc()
		d.log.Warn().
			Str("email", event.Email).
			Str("state", string(event.State)).
			Int("worker_id", idx).
			Msg("journal queue full, event dropped")
	}
}

// Dropped returns how many events were discarded so far.
func (d *Dispatcher) Dropped() uint64 {
	return d.dropped.Load()
}

// shardIndex maps a registration key deterministically to a worker index.
func (d *Dispatcher) shardIndex(key string) int {
	h := fnv.New32a()
	_, _ = h.Write([]byte(key))
	return int(h.Sum32() % uint32(len(d.workers)))
}

func (d *Dispatcher) runWorker(ctx context.Context, id int, ch <-chan domain.RegistrationEvent) {
	defer d.wg.Done()
	label := strconv.Itoa(id)
	for {
		select {
		case <-ctx.Done():
			d.drain(id, ch)
			return
		case event := <-ch:
			d.record(ctx, id, event)
			metrics.JournalQueueDepth.WithLabelValues(label).Set(float64(len(ch)))
		}
	}
}

func (d *Dispatcher) drain(id int, ch <-chan domain.RegistrationEvent) {
	ctx := context.Background()
	for {
		select {
		case event := <-ch:
			d.record(ctx, id, event)
		default:
			return
		}
	}
}

func (d *Dispatcher) record(ctx context.Context, id int, event domain.RegistrationEvent) {
	rctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), recordTimeout)
	defer cancel()

	if err := d.journal.Record(rctx, event); err != nil {
		d.log.Error().Err(err).
			Str("email", event.Email).
			Str("state", string(event.State)).
			Int("worker_id", id).
			Msg("journal write failed")
	}
}
