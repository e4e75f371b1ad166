package store

import "context"

// KV is an asynchronous key-value store with atomic read-modify-write
// transactions and an observable stream of snapshots.
type KV interface {
	// Data returns the latest committed snapshot.
	Data(ctx context.Context) (Preferences, error)

	// Edit applies fn to the latest snapshot as one atomic transaction.
	// Edits are serialized, so concurrent edits of the same key each observe
	// the other's effect. If fn returns an error nothing is committed.
	Edit(ctx context.Context, fn func(*MutablePreferences) error) error

	// Observe emits the current snapshot, then each committed snapshot.
	// The channel closes when ctx is done.
	Observe(ctx context.Context) <-chan Preferences
}

// Project maps the snapshot stream of kv through fn and emits only values
// that differ from the previous emission. The first value is always emitted,
// so a projection of an empty store yields fn's defaults. Intermediate values
// may be skipped when the consumer is slower than the producer.
func Project[T comparable](ctx context.Context, kv KV, fn func(Preferences) T) <-chan T {
	in := kv.Observe(ctx)
	out := make(chan T, 1)

	go func() {
		defer close(out)
		var last T
		first := true
		for p := range in {
			v := fn(p)
			if !first && v == last {
				continue
			}
			first, last = false, v
			select {
			case <-out:
			default:
			}
			out <- v
		}
	}()
	return out
}
