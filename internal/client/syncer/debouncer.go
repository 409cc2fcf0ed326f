package syncer

import (
	"context"
	"sort"
	"sync"
	"time"
)

// DispatchFunc sends one operation to the remote store. Errors are the
// callee's to report; the debouncer never retries.
type DispatchFunc func(ctx context.Context, op Op)

type slot struct {
	op    Op
	timer *time.Timer
	seq   uint64
}

// Debouncer holds at most one pending op per stream.
type Debouncer struct {
	window   time.Duration
	dispatch DispatchFunc

	mu      sync.Mutex
	pending map[string]*slot
	seq     uint64
	closed  bool

	// serializes dispatches so writes reach the store in firing order
	sendMu sync.Mutex
}

func NewDebouncer(window time.Duration, dispatch DispatchFunc) *Debouncer {
	return &Debouncer{
		window:   window,
		dispatch: dispatch,
		pending:  make(map[string]*slot),
	}
}

// Schedule replaces the pending op of op's stream and restarts its timer.
// After Close, ops are dispatched immediately.
func (d *Debouncer) Schedule(op Op) {
	key := op.Stream()

	d.mu.Lock()
	if d.closed {
		d.mu.Unlock()
		d.send(context.Background(), op)
		return
	}
	d.seq++
	seq := d.seq
	if s, ok := d.pending[key]; ok {
		s.timer.Stop()
	}
	d.pending[key] = &slot{
		op:    op,
		seq:   seq,
		timer: time.AfterFunc(d.window, func() { d.fire(key, seq) }),
	}
	d.mu.Unlock()
}

func (d *Debouncer) fire(key string, seq uint64) {
	d.mu.Lock()
	s, ok := d.pending[key]
	if !ok || s.seq != seq {
		d.mu.Unlock()
		return
	}
	delete(d.pending, key)
	d.mu.Unlock()

	d.send(context.Background(), s.op)
}

func (d *Debouncer) send(ctx context.Context, op Op) {
	d.sendMu.Lock()
	defer d.sendMu.Unlock()
	d.dispatch(ctx, op)
}

// Pending returns the stream keys with an op waiting, sorted.
func (d *Debouncer) Pending() []string {
	d.mu.Lock()
	defer d.mu.Unlock()
	keys := make([]string, 0, len(d.pending))
	for k := range d.pending {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// FlushAll cancels every timer and dispatches the pending ops now, in stream
// key order. It stops early if ctx is done.
func (d *Debouncer) FlushAll(ctx context.Context) {
	d.mu.Lock()
	slots := make([]*slot, 0, len(d.pending))
	for k, s := range d.pending {
		s.timer.Stop()
		slots = append(slots, s)
		delete(d.pending, k)
	}
	d.mu.Unlock()

	sort.Slice(slots, func(i, j int) bool { return slots[i].op.Stream() < slots[j].op.Stream() })
	for _, s := range slots {
		if ctx.Err() != nil {
			return
		}
		d.send(ctx, s.op)
	}
}

// Close flushes pending ops and switches the debouncer to immediate dispatch.
func (d *Debouncer) Close(ctx context.Context) {
	d.mu.Lock()
	d.closed = true
	d.mu.Unlock()
	d.FlushAll(ctx)
}
