package jobs

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/playshelf/playshelf-api/pkg/storage"
)

// JanitorConfig configures the staging cleanup loop.
type JanitorConfig struct {
	// StagingTTL is how long a staging folder may exist before it is
	// considered abandoned by an interrupted import.
	StagingTTL time.Duration
	// Period is the interval between sweeps.
	Period time.Duration
	Logger *zap.Logger
}

// Janitor periodically removes staging folders left behind by imports that
// never reached Finalize. It never touches finalized folders or catalog rows.
type Janitor struct {
	store      storage.FileStore
	stagingTTL time.Duration
	period     time.Duration
	logger     *zap.Logger

	cancel  context.CancelFunc
	wg      sync.WaitGroup
	mu      sync.Mutex
	started bool
}

// NewJanitor builds a janitor over the given file store.
func NewJanitor(store storage.FileStore, cfg JanitorConfig) *Janitor {
	if cfg.StagingTTL <= 0 {
		cfg.StagingTTL = time.Hour
	}
	if cfg.Period <= 0 {
		cfg.Period = 30 * time.Minute
	}
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}
	return &Janitor{
		store:      store,
		stagingTTL: cfg.StagingTTL,
		period:     cfg.Period,
		logger:     cfg.Logger,
	}
}

// Start launches the sweep loop. Safe to call once.
func (j *Janitor) Start(ctx context.Context) {
	j.mu.Lock()
	defer j.mu.Unlock()
	if j.started || j.store == nil {
		return
	}
	ctx, j.cancel = context.WithCancel(ctx)
	j.wg.Add(1)
	go j.loop(ctx)
	j.started = true
	j.logger.Sugar().Infow("staging janitor started", "period", j.period, "ttl", j.stagingTTL)
}

// Stop cancels the loop and waits for it to exit.
func (j *Janitor) Stop() {
	j.mu.Lock()
	if !j.started {
		j.mu.Unlock()
		return
	}
	j.cancel()
	j.mu.Unlock()
	j.wg.Wait()
	j.logger.Sugar().Infow("staging janitor stopped")
}

func (j *Janitor) loop(ctx context.Context) {
	defer j.wg.Done()
	ticker := time.NewTicker(j.period)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			j.Sweep(ctx)
		}
	}
}

// Sweep removes staging folders older than the TTL. Exported for tests and
// for an eager sweep at startup.
func (j *Janitor) Sweep(ctx context.Context) {
	cutoff := time.Now().Add(-j.stagingTTL)
	stale, err := j.store.ListStaging(ctx, cutoff)
	if err != nil {
		j.logger.Warn("staging sweep failed", zap.Error(err))
		return
	}
	for _, dir := range stale {
		if err := j.store.RemoveAll(ctx, dir); err != nil {
			j.logger.Warn("failed to remove staging folder", zap.String("dir", dir), zap.Error(err))
			continue
		}
		j.logger.Info("removed abandoned staging folder", zap.String("dir", dir))
	}
}
