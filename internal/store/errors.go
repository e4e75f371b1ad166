package store

import "fmt"

// ErrUnavailable indicates the underlying storage failed a read or a
// transaction (I/O error, locked database, closed store).
type ErrUnavailable struct {
	Op  string
	Err error
}

func (e *ErrUnavailable) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("store unavailable (%s): %v", e.Op, e.Err)
	}
	return fmt.Sprintf("store unavailable (%s)", e.Op)
}

func (e *ErrUnavailable) Unwrap() error { return e.Err }

func unavailable(op string, err error) error {
	return &ErrUnavailable{Op: op, Err: err}
}
