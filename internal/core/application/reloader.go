package application

import (
	"context"
	"sync"
	"time"

	log "github.com/sirupsen/logrus"
	"github.com/sony/gobreaker"
	"golang.org/x/time/rate"

	"github.com/asgardex/asgardex-core/pkg/circuitbreaker"
	"github.com/asgardex/asgardex-core/pkg/option"
	"github.com/asgardex/asgardex-core/pkg/remote"
)

// FeeReloader is a debounced, cancel-on-supersede quote pipeline. P is the
// parameter bundle, F the quote shape.
//
// Reload requests settle after a short debounce interval to absorb rapid
// slider drags; each settle supersedes the effect of any in-flight request
// and issues exactly one new one, using the latest explicit reload params if
// present, else the ambient params, else a zero-fee success without any
// fetch. Every successful response updates a last-known-good cache which
// pending and failed responses never evict, so consumers reading
// CurrentOrLastGood never see the fee regress to absent during a refresh.
type FeeReloader[P, F any] struct {
	logger   *log.Entry
	fetch    func(context.Context, P) (F, error)
	zero     F
	skip     func(P) bool
	debounce time.Duration
	breaker  *gobreaker.CircuitBreaker
	limiter  *rate.Limiter

	mtx      sync.RWMutex
	current  remote.Data[F]
	lastGood option.Option[F]
	ambient  option.Option[P]
	gen      uint64

	onUpdate func()

	reloadC chan option.Option[P]
	quitC   chan struct{}
	wg      sync.WaitGroup
}

// NewFeeReloader builds a reloader around the given fetch function. zero is
// the quote emitted without a fetch for absent params; skip short-circuits a
// fetch to the zero quote (zero submit amounts), it may be nil.
func NewFeeReloader[P, F any](
	name string,
	fetch func(context.Context, P) (F, error),
	zero F,
	skip func(P) bool,
	debounce time.Duration,
	ratePerSecond int,
) *FeeReloader[P, F] {
	return &FeeReloader[P, F]{
		logger:   log.WithField("reloader", name),
		fetch:    fetch,
		zero:     zero,
		skip:     skip,
		debounce: debounce,
		breaker:  circuitbreaker.NewCircuitBreaker(name),
		limiter:  rate.NewLimiter(rate.Limit(ratePerSecond), 1),
		current:  remote.Success(zero),
		lastGood: option.Some(zero),
		reloadC:  make(chan option.Option[P], 1),
		quitC:    make(chan struct{}),
	}
}

// SetOnUpdate registers a callback invoked after every applied quote result.
// Flows use it to re-run the max-amount clamp when a re-quote shrinks the
// available balance. Must be set before Start.
func (r *FeeReloader[P, F]) SetOnUpdate(fn func()) {
	r.onUpdate = fn
}

// Start launches the debounce loop.
func (r *FeeReloader[P, F]) Start() {
	r.wg.Add(1)
	go r.loop()
}

// Stop tears the loop down and cancels any in-flight fetch.
func (r *FeeReloader[P, F]) Stop() {
	close(r.quitC)
	r.wg.Wait()
}

// SetParams replaces the ambient parameter bundle used when a reload carries
// no explicit params, and schedules a reload.
func (r *FeeReloader[P, F]) SetParams(params option.Option[P]) {
	r.mtx.Lock()
	r.ambient = params
	r.mtx.Unlock()
	r.Reload(option.None[P]())
}

// Reload schedules a new quote request. Requests scheduled within the
// debounce interval collapse into one; the latest params win.
func (r *FeeReloader[P, F]) Reload(params option.Option[P]) {
	for {
		select {
		case r.reloadC <- params:
			return
		default:
			// drop the superseded pending request
			select {
			case <-r.reloadC:
			default:
			}
		}
	}
}

// Current returns the quote state as-is, including pending and failed.
func (r *FeeReloader[P, F]) Current() remote.Data[F] {
	r.mtx.RLock()
	defer r.mtx.RUnlock()
	return r.current
}

// CurrentOrLastGood returns the latest quote, falling back to the last
// successful one while a newer request is pending or has failed.
func (r *FeeReloader[P, F]) CurrentOrLastGood() remote.Data[F] {
	r.mtx.RLock()
	defer r.mtx.RUnlock()
	if r.current.IsSuccess() {
		return r.current
	}
	if v, ok := r.lastGood.Value(); ok {
		return remote.Success(v)
	}
	return r.current
}

// LastGood returns the last successful quote, if any.
func (r *FeeReloader[P, F]) LastGood() option.Option[F] {
	r.mtx.RLock()
	defer r.mtx.RUnlock()
	return r.lastGood
}

func (r *FeeReloader[P, F]) loop() {
	defer r.wg.Done()

	var (
		timerC  <-chan time.Time
		timer   *time.Timer
		pending option.Option[P]
		cancel  context.CancelFunc = func() {}
	)
	defer func() { cancel() }()

	for {
		select {
		case params := <-r.reloadC:
			pending = params
			if timer != nil {
				timer.Stop()
			}
			timer = time.NewTimer(r.debounce)
			timerC = timer.C
		case <-timerC:
			timerC = nil
			cancel()
			var ctx context.Context
			ctx, cancel = context.WithCancel(context.Background())
			gen := r.nextGen()
			params := pending
			pending = option.None[P]()
			r.wg.Add(1)
			go r.issue(ctx, gen, params)
		case <-r.quitC:
			return
		}
	}
}

func (r *FeeReloader[P, F]) issue(ctx context.Context, gen uint64, oParams option.Option[P]) {
	defer r.wg.Done()

	r.mtx.RLock()
	params, hasParams := oParams.Value()
	if !hasParams {
		params, hasParams = r.ambient.Value()
	}
	r.mtx.RUnlock()

	// no params or zero submit amount: zero-fee success, no network call
	if !hasParams || (r.skip != nil && r.skip(params)) {
		r.apply(gen, r.zero, nil)
		return
	}

	r.setPending(gen)

	if err := r.limiter.Wait(ctx); err != nil {
		return
	}
	res, err := r.breaker.Execute(func() (interface{}, error) {
		return r.fetch(ctx, params)
	})
	if ctx.Err() != nil {
		// superseded, the result must not be applied
		return
	}
	if err != nil {
		r.logger.Debugf("fee quote failed: %v", err)
		r.apply(gen, r.zero, err)
		return
	}
	r.apply(gen, res.(F), nil)
}

func (r *FeeReloader[P, F]) nextGen() uint64 {
	r.mtx.Lock()
	defer r.mtx.Unlock()
	r.gen++
	return r.gen
}

func (r *FeeReloader[P, F]) setPending(gen uint64) {
	r.mtx.Lock()
	defer r.mtx.Unlock()
	if gen != r.gen {
		return
	}
	r.current = remote.Pending[F]()
}

func (r *FeeReloader[P, F]) apply(gen uint64, value F, err error) {
	r.mtx.Lock()
	if gen != r.gen {
		// a newer request has superseded this result
		r.mtx.Unlock()
		return
	}
	if err != nil {
		r.current = remote.Failure[F](err)
	} else {
		r.current = remote.Success(value)
		r.lastGood = option.Some(value)
	}
	fn := r.onUpdate
	r.mtx.Unlock()
	if fn != nil {
		fn()
	}
}
