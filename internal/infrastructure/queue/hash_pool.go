package queue

import (
	"context"
	"errors"
	"runtime"
	"time"

	"github.com/rs/zerolog"

	"github.com/99minutos/account-service/internal/pkg/metrics"
	"github.com/99minutos/account-service/internal/core/ports"
)

const jobBuffer = 64

// ErrPoolStopped is returned for work submitted after the pool shut down.
var ErrPoolStopped = errors.New("hash pool stopped")

type job struct {
	op   string
	fn   func()
	done chan struct{}
}

// HashPool runs password hashing and verification on a fixed set of workers
// so that CPU-bound bcrypt calls cannot starve request handling. It wraps
// another PasswordHasher and implements ports.PasswordHasher itself.
type HashPool struct {
	inner   ports.PasswordHasher
	workers int
	jobs    chan job
	stopped chan struct{}
	log     zerolog.Logger
}

// NewHashPool creates a pool with numWorkers workers. If numWorkers <= 0,
// one worker per CPU is used.
func NewHashPool(numWorkers int, inner ports.PasswordHasher, log zerolog.Logger) *HashPool {
	if numWorkers <= 0 {
		numWorkers = runtime.NumCPU()
	}
	return &HashPool{
		inner:   inner,
		workers: numWorkers,
		jobs:    make(chan job, jobBuffer),
		stopped: make(chan struct{}),
		log:     log,
	}
}

// Start launches all workers. Workers stop when ctx is cancelled, after which
// submissions fail with ErrPoolStopped.
func (p *HashPool) Start(ctx context.Context) {
	for i := 0; i < p.workers; i++ {
		go p.runWorker(ctx, i)
	}
	go func() {
		<-ctx.Done()
		close(p.stopped)
	}()
	p.log.Info().Int("workers", p.workers).Msg("hash pool started")
}

func (p *HashPool) Hash(ctx context.Context, plaintext string) (string, error) {
	var (
		digest string
		err    error
	)
	if serr := p.submit(ctx, "hash", func() { digest, err = p.inner.Hash(ctx, plaintext) }); serr != nil {
		return "", serr
	}
	return digest, err
}

func (p *HashPool) Verify(ctx context.Context, plaintext, digest string) (bool, error) {
	var (
		ok  bool
		err error
	)
	if serr := p.submit(ctx, "verify", func() { ok, err = p.inner.Verify(ctx, plaintext, digest) }); serr != nil {
		return false, serr
	}
	return ok, err
}

// submit blocks until the job has run or ctx ends.
func (p *HashPool) submit(ctx context.Context, op string, fn func()) error {
	j := job{op: op, fn: fn, done: make(chan struct{})}

	select {
	case p.jobs <- j:
		metrics.HashQueueDepth.Set(float64(len(p.jobs)))
	case <-p.stopped:
		return ErrPoolStopped
	case <-ctx.Done():
		return ctx.Err()
	}

	select {
	case <-j.done:
		return nil
	case <-p.stopped:
		return ErrPoolStopped
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (p *HashPool) runWorker(ctx context.Context, id int) {
	for {
		select {
		case <-ctx.Done():
			return
		case j := <-p.jobs:
			metrics.HashQueueDepth.Set(float64(len(p.jobs)))
			start := time.Now()
			j.fn()
			metrics.PasswordHashDuration.WithLabelValues(j.op).Observe(time.Since(start).Seconds())
			p.log.Trace().Str("op", j.op).Int("worker_id", id).Dur("took", time.Since(start)).Msg("hash job done")
			close(j.done)
		}
	}
}
