package ledger

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// Store is the persistence collaborator behind a ledger.
type Store interface {
	Append(ctx context.Context, decisions []Decision) error
	// Remove deletes the stored decision of itemID that has newer later
	// decisions of the same item. newer is zero for the latest one.
	Remove(ctx context.Context, itemID int64, newer int) error
	ClearAll(ctx context.Context) error
}

const storeTimeout = 10 * time.Second

type opKind int

const (
	opAppend opKind = iota
	opRemove
	opClear
	opBarrier
)

func (k opKind) String() string {
	switch k {
	case opAppend:
		return "append"
	case opRemove:
		return "remove"
	case opClear:
		return "clear"
	default:
		return "barrier"
	}
}

type op struct {
	kind      opKind
	decisions []Decision
	itemID    int64
	newer     int
	ack       chan struct{}
}

// writer applies store operations in submission order on one goroutine.
// Enqueueing never blocks and failures are logged, never returned.
type writer struct {
	store  Store
	logger zerolog.Logger

	mu     sync.Mutex
	queue  []op
	closed bool

	wake chan struct{}
	done chan struct{}
}

func newWriter(store Store, logger zerolog.Logger) *writer {
	w := &writer{
		store:  store,
		logger: logger,
		wake:   make(chan struct{}, 1),
		done:   make(chan struct{}),
	}
	go w.run()
	return w
}

func (w *writer) enqueue(o op) bool {
	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		w.logger.Warn().Str("op", o.kind.String()).Msg("ledger writer closed, dropping write")
		return false
	}
	w.queue = append(w.queue, o)
	w.mu.Unlock()

	select {
	case w.wake <- struct{}{}:
	default:
	}
	return true
}

func (w *writer) flush() {
	ack := make(chan struct{})
	if !w.enqueue(op{kind: opBarrier, ack: ack}) {
		return
	}
	<-ack
}

func (w *writer) close() {
	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		<-w.done
		return
	}
	w.closed = true
	w.mu.Unlock()

	select {
	case w.wake <- struct{}{}:
	default:
	}
	<-w.done
}

func (w *writer) run() {
	defer close(w.done)
	for {
		w.mu.Lock()
		batch := w.queue
		w.queue = nil
		closed := w.closed
		w.mu.Unlock()

		for _, o := range batch {
			w.apply(o)
		}
		if len(batch) > 0 {
			continue
		}
		if closed {
			return
		}
		<-w.wake
	}
}

func (w *writer) apply(o op) {
	if o.kind == opBarrier {
		close(o.ack)
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), storeTimeout)
	defer cancel()

	var err error
	switch o.kind {
	case opAppend:
		err = w.store.Append(ctx, o.decisions)
	case opRemove:
		err = w.store.Remove(ctx, o.itemID, o.newer)
	case opClear:
		err = w.store.ClearAll(ctx)
	}
	if err == nil {
		return
	}

	event := w.logger.Error().Err(err).Str("op", o.kind.String())
	switch o.kind {
	case opAppend:
		ids := make([]int64, 0, len(o.decisions))
		for _, d := range o.decisions {
			ids = append(ids, d.ItemID)
		}
		event = event.Ints64("subject_ids", ids)
	case opRemove:
		event = event.Int64("subject_id", o.itemID).Int("newer", o.newer)
	}
	event.Msg("failed to persist ledger change")
}
