package portfolio

import (
	"errors"
	"fmt"
)

// Sentinels for each error kind. The concrete error types below match them
// through errors.Is so callers can branch on kind without a type switch.
var (
	ErrValidation      = errors.New("validation failed")
	ErrNotFound        = errors.New("ticker not found")
	ErrCorruptStore    = errors.New("portfolio store is corrupt")
	ErrMalformedRecord = errors.New("malformed holding record")
	ErrPersistence     = errors.New("portfolio persistence failed")
	ErrProvider        = errors.New("price provider failed")
)

// ValidationError rejects bad user input before any mutation happens.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

func (e *ValidationError) Is(target error) bool { return target == ErrValidation }

// NotFoundError reports a ticker the price provider does not recognise.
type NotFoundError struct {
	Ticker string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("ticker %s not found", e.Ticker)
}

func (e *NotFoundError) Is(target error) bool { return target == ErrNotFound }

// CorruptStoreError is returned by Load when the store exists but cannot be
// parsed. The accompanying Portfolio is empty; the caller decides whether to
// carry on with it.
type CorruptStoreError struct {
	Location string
	Err      error
}

func (e *CorruptStoreError) Error() string {
	return fmt.Sprintf("corrupt portfolio store %s: %v", e.Location, e.Err)
}

func (e *CorruptStoreError) Is(target error) bool { return target == ErrCorruptStore }
func (e *CorruptStoreError) Unwrap() error        { return e.Err }

// MalformedRecordError describes one stored record that was skipped on load.
type MalformedRecordError struct {
	Index  int
	Reason string
}

func (e *MalformedRecordError) Error() string {
	return fmt.Sprintf("record %d skipped: %s", e.Index, e.Reason)
}

func (e *MalformedRecordError) Is(target error) bool { return target == ErrMalformedRecord }

// PersistenceError wraps an I/O failure of the store. A failed save leaves the
// previously persisted snapshot in place.
type PersistenceError struct {
	Op  string
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("%s portfolio: %v", e.Op, e.Err)
}

func (e *PersistenceError) Is(target error) bool { return target == ErrPersistence }
func (e *PersistenceError) Unwrap() error        { return e.Err }

// ProviderError is a quote failure for a single ticker.
type ProviderError struct {
	Ticker string
	Err    error
}

func (e *ProviderError) Error() string {
	return fmt.Sprintf("quote %s: %v", e.Ticker, e.Err)
}

func (e *ProviderError) Is(target error) bool { return target == ErrProvider }
func (e *ProviderError) Unwrap() error        { return e.Err }

// MalformedRecords extracts every MalformedRecordError carried by err, which
// may be a single error or the result of errors.Join.
func MalformedRecords(err error) []*MalformedRecordError {
	if err == nil {
		return nil
	}
	var out []*MalformedRecordError
	if joined, ok := err.(interface{ Unwrap() []error }); ok {
		for _, e := range joined.Unwrap() {
			out = append(out, MalformedRecords(e)...)
		}
		return out
	}
	var m *MalformedRecordError
	if errors.As(err, &m) {
		out = append(out, m)
	}
	return out
}
