package application

import (
	"context"
	"sync"
	"time"

	log "github.com/sirupsen/logrus"
	"github.com/sony/gobreaker"
	"golang.org/x/time/rate"

	"github.com/asgardex/asgardex-core/internal/core/domain"
	"github.com/asgardex/asgardex-core/internal/core/ports"
	"github.com/asgardex/asgardex-core/pkg/circuitbreaker"
	"github.com/asgardex/asgardex-core/pkg/option"
)

const snapshotQueueMaxSize = 16

// PoolSnapshot is one polled view of all watched pools, keyed by
// Asset.String(), plus the USD pricing pool when it could be resolved.
type PoolSnapshot struct {
	Pools   map[string]domain.PoolData
	USDPool option.Option[domain.PoolData]
}

// PoolWatcher polls reserve snapshots for a set of pools on a fixed cadence
// and pushes them on a channel. Flows feed received snapshots into
// ApplyPoolSnapshot / SetPool.
type PoolWatcher struct {
	logger   *log.Entry
	provider ports.PoolProvider
	interval time.Duration
	breaker  *gobreaker.CircuitBreaker
	limiter  *rate.Limiter

	mtx    sync.RWMutex
	assets []domain.Asset

	snapshotChan chan PoolSnapshot
	quitChan     chan struct{}
	wg           sync.WaitGroup
}

// NewPoolWatcher builds a watcher polling the given assets' pools.
func NewPoolWatcher(
	provider ports.PoolProvider,
	assets []domain.Asset,
	interval time.Duration,
	ratePerSecond int,
) *PoolWatcher {
	return &PoolWatcher{
		logger:       log.WithField("watcher", "pools"),
		provider:     provider,
		interval:     interval,
		breaker:      circuitbreaker.NewCircuitBreaker("pool-watcher"),
		limiter:      rate.NewLimiter(rate.Limit(ratePerSecond), 1),
		assets:       assets,
		snapshotChan: make(chan PoolSnapshot, snapshotQueueMaxSize),
		quitChan:     make(chan struct{}),
	}
}

// Start launches the polling loop with an immediate first poll.
func (w *PoolWatcher) Start() {
	w.wg.Add(1)
	go w.loop()
}

// Stop tears the loop down. The snapshot channel stays open, consumers drain
// it on their own.
func (w *PoolWatcher) Stop() {
	close(w.quitChan)
	w.wg.Wait()
}

// Snapshots returns the channel snapshots are pushed on. A snapshot is
// dropped when the queue is full rather than blocking the poll loop.
func (w *PoolWatcher) Snapshots() <-chan PoolSnapshot {
	return w.snapshotChan
}

// SetAssets replaces the watched pool set, effective from the next poll.
func (w *PoolWatcher) SetAssets(assets []domain.Asset) {
	w.mtx.Lock()
	defer w.mtx.Unlock()
	w.assets = assets
}

func (w *PoolWatcher) loop() {
	defer w.wg.Done()

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	w.poll()
	for {
		select {
		case <-ticker.C:
			w.poll()
		case <-w.quitChan:
			return
		}
	}
}

func (w *PoolWatcher) poll() {
	ctx, cancel := context.WithTimeout(context.Background(), w.interval)
	defer cancel()

	w.mtx.RLock()
	assets := make([]domain.Asset, len(w.assets))
	copy(assets, w.assets)
	w.mtx.RUnlock()

	snapshot := PoolSnapshot{
		Pools:   make(map[string]domain.PoolData, len(assets)),
		USDPool: option.None[domain.PoolData](),
	}

	for _, asset := range assets {
		asset := asset
		if err := w.limiter.Wait(ctx); err != nil {
			return
		}
		pool, err := w.breaker.Execute(func() (interface{}, error) {
			return w.provider.PoolData(ctx, asset)
		})
		if err != nil {
			w.logger.Debugf("failed to poll pool %s: %v", asset, err)
			continue
		}
		snapshot.Pools[asset.String()] = pool.(domain.PoolData)
	}

	if err := w.limiter.Wait(ctx); err != nil {
		return
	}
	usdPool, err := w.breaker.Execute(func() (interface{}, error) {
		return w.provider.USDPool(ctx)
	})
	if err != nil {
		w.logger.Debugf("failed to poll usd pool: %v", err)
	} else {
		snapshot.USDPool = option.Some(usdPool.(domain.PoolData))
	}

	select {
	case w.snapshotChan <- snapshot:
	default:
		w.logger.Debug("snapshot queue full, dropping snapshot")
	}
}
