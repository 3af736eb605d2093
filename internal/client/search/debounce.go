// Package search debounces type-ahead lookups such as firm and product
// search.
package search

import (
	"context"
	"sync"
	"time"
)

// Lookup performs one search for query.
type Lookup[T any] func(ctx context.Context, query string) (T, error)

// Result is delivered once per lookup that actually ran. Seq grows with
// every issued lookup.
type Result[T any] struct {
	Query string
	Value T
	Err   error
	Seq   uint64
}

type options struct {
	discardStale bool
}

type Option func(*options)

// DiscardStale drops results of lookups older than the newest issued one.
// Without it a slow response may arrive after, and overwrite, a newer one.
func DiscardStale() Option {
	return func(o *options) { o.discardStale = true }
}

// Debouncer runs a lookup delay after the last keystroke. Every Type
// cancels the pending timer; lookups already in flight keep running.
type Debouncer[T any] struct {
	delay   time.Duration
	lookup  Lookup[T]
	deliver func(Result[T])
	opts    options

	mu         sync.Mutex
	timer      *time.Timer
	pending    string
	pendingCtx context.Context
	issued     uint64
	stopped    bool
	wg         sync.WaitGroup
}

func NewDebouncer[T any](delay time.Duration, lookup Lookup[T], deliver func(Result[T]), opts ...Option) *Debouncer[T] {
	d := &Debouncer[T]{delay: delay, lookup: lookup, deliver: deliver}
	for _, o := range opts {
		o(&d.opts)
	}
	return d
}

// Type records a new query value.
func (d *Debouncer[T]) Type(ctx context.Context, query string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.stopped {
		return
	}
	if d.timer != nil {
		d.timer.Stop()
	}
	d.pending, d.pendingCtx = query, ctx
	d.timer = time.AfterFunc(d.delay, func() { d.fire(ctx, query) })
}

func (d *Debouncer[T]) fire(ctx context.Context, query string) {
	d.mu.Lock()
	if d.stopped {
		d.mu.Unlock()
		return
	}
	d.issued++
	seq := d.issued
	d.wg.Add(1)
	d.mu.Unlock()
	defer d.wg.Done()

	v, err := d.lookup(ctx, query)

	d.mu.Lock()
	stale := d.opts.discardStale && seq != d.issued
	d.mu.Unlock()
	if stale {
		return
	}
	d.deliver(Result[T]{Query: query, Value: v, Err: err, Seq: seq})
}

// Flush runs the pending lookup right away, if there is one, and returns
// once it has been delivered.
func (d *Debouncer[T]) Flush() {
	d.mu.Lock()
	var run func()
	if d.timer != nil && d.timer.Stop() {
		ctx, query := d.pendingCtx, d.pending
		run = func() { d.fire(ctx, query) }
	}
	d.timer = nil
	d.mu.Unlock()

	if run != nil {
		run()
	}
}

// Stop cancels the pending lookup and waits for lookups in flight.
func (d *Debouncer[T]) Stop() {
	d.mu.Lock()
	d.stopped = true
	if d.timer != nil {
		d.timer.Stop()
	}
	d.mu.Unlock()
	d.wg.Wait()
}
