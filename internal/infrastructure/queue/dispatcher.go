package queue

import (
	"context"
	"hash/fnv"
	"strconv"

	"github.com/rs/zerolog"

	"github.com/vinealabs/winery-system/internal/core/ports"
	"github.com/vinealabs/winery-system/internal/pkg/metrics"
)

const (
	defaultWorkers = 4
	channelBuffer  = 256
)

// Dispatcher routes sensor readings to a fixed set of workers using
// consistent hashing on the batch id, guaranteeing per-batch ordering of
// measurements.
type Dispatcher struct {
	workers   []chan ports.SensorReadingInput
	processor ports.ReadingProcessor
	log       zerolog.Logger
}

// NewDispatcher creates a Dispatcher with numWorkers sharded workers.
// If numWorkers <= 0, defaultWorkers is used.
func NewDispatcher(numWorkers int, processor ports.ReadingProcessor, log zerolog.Logger) *Dispatcher {
	if numWorkers <= 0 {
		numWorkers = defaultWorkers
	}
	d := &Dispatcher{
		workers:   make([]chan ports.SensorReadingInput, numWorkers),
		processor: processor,
		log:       log,
	}
	for i := range d.workers {
		d.workers[i] = make(chan ports.SensorReadingInput, channelBuffer)
	}
	return d
}

// Start launches all worker goroutines. Workers stop when ctx is cancelled.
func (d *Dispatcher) Start(ctx context.Context) {
	for i, ch := range d.workers {
		go d.runWorker(ctx, i, ch)
	}
}

// Enqueue sends a reading to the worker responsible for its batch.
// The call is non-blocking up to channelBuffer capacity.
func (d *Dispatcher) Enqueue(reading ports.SensorReadingInput) {
	i := d.shardIndex(reading.BatchID.String())
	d.workers[i] <- reading
	metrics.ReadingsQueueDepth.WithLabelValues(strconv.Itoa(i)).Set(float64(len(d.workers[i])))
}

// shardIndex maps a batch id deterministically to a worker index.
func (d *Dispatcher) shardIndex(batchID string) int {
	h := fnv.New32a()
	_, _ = h.Write([]byte(batchID))
	return int(h.Sum32()) % len(d.workers)
}

func (d *Dispatcher) runWorker(ctx context.Context, id int, ch <-chan ports.SensorReadingInput) {
	workerID := strconv.Itoa(id)
	for {
		select {
		case <-ctx.Done():
			return
		case reading, ok := <-ch:
			if !ok {
				return
			}
			metrics.ReadingsQueueDepth.WithLabelValues(workerID).Set(float64(len(ch)))
			if err := d.processor.Process(ctx, reading); err != nil {
				d.log.Error().Err(err).
					Str("batch_id", reading.BatchID.String()).
					Int("worker_id", id).
					Msg("reading processing failed")
				continue
			}
			metrics.ReadingsProcessedTotal.WithLabelValues(workerID).Inc()
		}
	}
}
