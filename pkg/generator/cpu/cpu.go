package cpu

import (
	"context"
	"crypto/rand"
	"runtime"
	"sync/atomic"
	"time"

	"github.com/Amr-9/BeautyHunter/pkg/beauty"
	"github.com/Amr-9/BeautyHunter/pkg/generator"
	"github.com/Amr-9/BeautyHunter/pkg/hdkey"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

// CPUGenerator implements the Generator interface using CPU-based goroutines.
type CPUGenerator struct {
	attempts  uint64                         // Atomic counter for total attempts
	skipped   uint64                         // Atomic counter for invalid derivations
	matches   [beauty.SingleClass + 1]uint64 // Atomic counters per classification code
	startTime int64                          // Unix nanoseconds, set when Run starts
	workers   int                            // Default number of concurrent workers
	entropy   func() (*chachaReader, error)  // Worker RNG constructor
}

// NewCPUGenerator creates a new CPU-based generator.
// If workers is 0, it defaults to the number of CPU cores.
func NewCPUGenerator(workers int) *CPUGenerator {
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	return &CPUGenerator{
		workers: workers,
		entropy: func() (*chachaReader, error) { return newChaChaReader(rand.Reader) },
	}
}

// Name returns the implementation name.
func (g *CPUGenerator) Name() string {
	return "CPU"
}

// Stats returns the current performance statistics.
func (g *CPUGenerator) Stats() generator.Stats {
	stats := generator.Stats{
		Attempts: atomic.LoadUint64(&g.attempts),
		Skipped:  atomic.LoadUint64(&g.skipped),
	}
	for code := range g.matches {
		stats.Matches[code] = atomic.LoadUint64(&g.matches[code])
	}

	if start := atomic.LoadInt64(&g.startTime); start != 0 {
		stats.ElapsedSecs = time.Since(time.Unix(0, start)).Seconds()
	}
	if stats.ElapsedSecs > 0 {
		stats.HashRate = float64(stats.Attempts) / stats.ElapsedSecs
	}

	return stats
}

// Run starts the workers and blocks until they stop. The first worker error
// cancels the others. The sink is flushed once all workers have returned.
func (g *CPUGenerator) Run(ctx context.Context, config *generator.Config) error {
	if err := config.Validate(); err != nil {
		return err
	}

	workers := g.workers
	if config.Workers > 0 {
		workers = config.Workers
	}
	batchSize := config.BatchSize
	if batchSize <= 0 {
		batchSize = generator.DefaultBatchSize
	}

	g.reset()

	log.WithFields(log.Fields{
		"workers": workers,
		"mode":    config.Mode,
		"batch":   batchSize,
		"limit":   config.Limit,
	}).Info("search started")

	group, groupCtx := errgroup.WithContext(ctx)
	for i := 0; i < workers; i++ {
		id := i
		group.Go(func() error {
			rng, err := g.entropy()
			if err != nil {
				return errors.Wrapf(err, "worker %d", id)
			}
			w := &worker{
				id:        id,
				gen:       g,
				config:    config,
				factory:   newAccountFactory(config, rng),
				batchSize: batchSize,
				logger:    log.WithField("worker", id),
			}
			return w.run(groupCtx)
		})
	}

	err := group.Wait()
	if flushErr := config.Sink.Flush(); flushErr != nil {
		if err == nil {
			err = errors.Wrap(flushErr, "final flush")
		} else {
			log.WithError(flushErr).Warn("final flush failed")
		}
	}

	stats := g.Stats()
	log.WithFields(log.Fields{
		"attempts": stats.Attempts,
		"matches":  stats.TotalMatches(),
		"skipped":  stats.Skipped,
	}).Info("search stopped")

	return err
}

func (g *CPUGenerator) reset() {
	atomic.StoreUint64(&g.attempts, 0)
	atomic.StoreUint64(&g.skipped, 0)
	for code := range g.matches {
		atomic.StoreUint64(&g.matches[code], 0)
	}
	atomic.StoreInt64(&g.startTime, time.Now().UnixNano())
}

type worker struct {
	id        int
	gen       *CPUGenerator
	config    *generator.Config
	factory   accountFactory
	batchSize int
	logger    *log.Entry

	batchCount int
	batchStart time.Time
}

// run generates, classifies and pushes candidates until ctx is done or the
// limit is reached. Within a worker, matches reach the sink in generation
// order.
func (w *worker) run(ctx context.Context) error {
	w.logger.Debug("worker started")
	defer w.logger.Debug("worker stopped")

	w.batchStart = time.Now()
	defer w.reportBatch()

	var generated uint64
	for {
		select {
		case <-ctx.Done():
			return nil
		default:
		}

		if w.config.Limit > 0 && generated >= w.config.Limit {
			return nil
		}
		generated++

		if err := w.step(); err != nil {
			return errors.Wrapf(err, "worker %d", w.id)
		}

		w.batchCount++
		if w.batchCount >= w.batchSize {
			w.reportBatch()
		}
	}
}

func (w *worker) step() error {
	atomic.AddUint64(&w.gen.attempts, 1)

	candidate, err := w.factory.next()
	if err != nil {
		if errors.Is(err, hdkey.ErrInvalidChildKey) {
			atomic.AddUint64(&w.gen.skipped, 1)
			invalidDerivationsTotal.Inc()
			w.logger.WithError(err).Warn("skipping candidate with invalid derived key")
			return nil
		}
		return err
	}

	candidate.AccountID, err = w.config.Oracle.AccountID(candidate.Keypair.Public[:])
	if err != nil {
		return errors.Wrap(err, "computing account id")
	}

	code := beauty.Classify(candidate.AccountID)
	if code == beauty.NoMatch {
		return nil
	}

	atomic.AddUint64(&w.gen.matches[code], 1)
	matchesTotal.WithLabelValues(code.String()).Inc()

	if err := w.config.Sink.Push(candidate, code); err != nil {
		return errors.Wrap(err, "pushing match")
	}
	return nil
}

// reportBatch publishes the throughput of the current batch.
func (w *worker) reportBatch() {
	if w.batchCount == 0 {
		return
	}

	elapsed := time.Since(w.batchStart)
	candidatesTotal.Add(float64(w.batchCount))
	w.logger.WithFields(log.Fields{
		"candidates": w.batchCount,
		"elapsed":    elapsed.Round(time.Millisecond),
		"rate":       float64(w.batchCount) / elapsed.Seconds(),
	}).Debug("batch done")

	w.batchCount = 0
	w.batchStart = time.Now()
}
