package session

import "sync"

// State is the lifecycle of one fetched entity.
type State int

const (
	Idle State = iota
	Loading
	Ready
	Failed
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Loading:
		return "loading"
	case Ready:
		return "ready"
	case Failed:
		return "failed"
	default:
		return "unknown"
	}
}

// Resource holds one entity's fetch state. Every fetch starts with
// Begin, which hands out a generation; Complete and Fail carry that
// generation back and are dropped if a newer fetch has since begun.
// That suppression is what makes overlapping fetches safe: the last
// *started* fetch wins, not the last one to happen to finish. A failed
// fetch keeps the previous value, so readers always see the newest
// successfully fetched state.
type Resource[T any] struct {
	mu       sync.Mutex
	state    State
	value    T
	hasValue bool
	err      error
	gen      uint64
	closed   bool
}

func NewResource[T any]() *Resource[T] {
	return &Resource[T]{}
}

// Begin marks the resource Loading and returns the generation the
// caller must present when completing or failing the fetch.
func (r *Resource[T]) Begin() uint64 {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.gen++
	if !r.closed {
		r.state = Loading
	}
	return r.gen
}

// Complete stores the fetched value. It reports false when the result
// was discarded because it is stale or the resource was closed.
func (r *Resource[T]) Complete(gen uint64, value T) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed || gen != r.gen {
		return false
	}
	r.state = Ready
	r.value = value
	r.hasValue = true
	r.err = nil
	return true
}

// Fail records the error but keeps the previous value, if any, as a
// stale-but-valid read model. Stale and post-close failures are
// discarded like stale completions.
func (r *Resource[T]) Fail(gen uint64, err error) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed || gen != r.gen {
		return false
	}
	r.state = Failed
	r.err = err
	return true
}

func (r *Resource[T]) State() State {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.state
}

// Value returns the most recently fetched value and whether one exists.
// It is served even in the Failed state.
func (r *Resource[T]) Value() (T, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.value, r.hasValue
}

func (r *Resource[T]) Err() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.err
}

// Close drops the resource back to Idle and discards every in-flight
// fetch, so nothing updates state that belongs to a torn-down session.
func (r *Resource[T]) Close() {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.closed = true
	r.state = Idle
	var zero T
	r.value = zero
	r.hasValue = false
	r.err = nil
}
