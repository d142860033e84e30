// Package sheets provides the row-addressed tabular store the services persist into.
//
// Every backend speaks A1 ranges: a read returns a block of cells, an append adds rows
// after the last populated row, and an update overwrites cells at an exact address.
// There is no key lookup, no locking and no transaction; callers locate rows by scanning.
package sheets

import (
	"context"
	"errors"
	"time"
)

// ErrSheetNotFound is returned when a range names a sheet that does not exist.
var ErrSheetNotFound = errors.New("sheet not found")

// Store is the range-addressed persistence contract.
type Store interface {
	// Get returns the cells in rng. Row 0 of the result is the range's first row.
	// Trailing empty cells and rows may be omitted.
	Get(ctx context.Context, rng string) ([][]string, error)

	// Append writes rows after the last non-empty row at or below rng's first row.
	Append(ctx context.Context, rng string, rows [][]string) error

	// Update overwrites the cells starting at rng's top-left corner.
	Update(ctx context.Context, rng string, rows [][]string) error

	// EnsureSheet creates the sheet with a header row when it does not exist yet.
	EnsureSheet(ctx context.Context, title string, headers []string) error
}

// Value returns row[i] or "" when the row is shorter.
func Value(row []string, i int) string {
	if i < len(row) {
		return row[i]
	}
	return ""
}

// WithTimeout bounds every store call by d. A zero d leaves calls unbounded.
func WithTimeout(s Store, d time.Duration) Store {
	if d <= 0 {
		return s
	}
	return &timeoutStore{next: s, timeout: d}
}

type timeoutStore struct {
	next    Store
	timeout time.Duration
}

func (t *timeoutStore) Get(ctx context.Context, rng string) ([][]string, error) {
	ctx, cancel := context.WithTimeout(ctx, t.timeout)
	defer cancel()
	return t.next.Get(ctx, rng)
}

func (t *timeoutStore) Append(ctx context.Context, rng string, rows [][]string) error {
	ctx, cancel := context.WithTimeout(ctx, t.timeout)
	defer cancel()
	return t.next.Append(ctx, rng, rows)
}

func (t *timeoutStore) Update(ctx context.Context, rng string, rows [][]string) error {
	ctx, cancel := context.WithTimeout(ctx, t.timeout)
	defer cancel()
	return t.next.Update(ctx, rng, rows)
}

func (t *timeoutStore) EnsureSheet(ctx context.Context, title string, headers []string) error {
	ctx, cancel := context.WithTimeout(ctx, t.timeout)
	defer cancel()
	return t.next.EnsureSheet(ctx, title, headers)
}
