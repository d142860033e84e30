package sheets

import (
	"context"
	"fmt"
	"sync"
)

// MemoryStore keeps sheets in process memory. Each call is atomic on its own;
// sequences of calls are not, same as the remote backends.
type MemoryStore struct {
	mu     sync.RWMutex
	sheets map[string][][]string
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{sheets: make(map[string][][]string)}
}

func (m *MemoryStore) EnsureSheet(ctx context.Context, title string, headers []string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.sheets[title]; ok {
		return nil
	}
	header := make([]string, len(headers))
	copy(header, headers)
	m.sheets[title] = [][]string{header}
	return nil
}

func (m *MemoryStore) Get(ctx context.Context, rng string) ([][]string, error) {
	r, err := ParseRange(rng)
	if err != nil {
		return nil, err
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	data, ok := m.sheets[r.Sheet]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrSheetNotFound, r.Sheet)
	}
	return sliceRange(data, r), nil
}

func (m *MemoryStore) Append(ctx context.Context, rng string, rows [][]string) error {
	r, err := ParseRange(rng)
	if err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	data, ok := m.sheets[r.Sheet]
	if !ok {
		return fmt.Errorf("%w: %s", ErrSheetNotFound, r.Sheet)
	}

	next := r.StartRow
	for i := len(data) - 1; i >= r.StartRow-1; i-- {
		if !isEmptyRow(data[i]) {
			next = i + 2
			break
		}
	}
	m.sheets[r.Sheet] = writeCells(data, next, r.StartCol, rows)
	return nil
}

func (m *MemoryStore) Update(ctx context.Context, rng string, rows [][]string) error {
	r, err := ParseRange(rng)
	if err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	data, ok := m.sheets[r.Sheet]
	if !ok {
		return fmt.Errorf("%w: %s", ErrSheetNotFound, r.Sheet)
	}
	m.sheets[r.Sheet] = writeCells(data, r.StartRow, r.StartCol, rows)
	return nil
}

// sliceRange cuts r out of a sheet held as row-1-first slices, trimming
// trailing empties the way the Sheets API does.
func sliceRange(data [][]string, r Range) [][]string {
	last := len(data)
	if r.EndRow != 0 && r.EndRow < last {
		last = r.EndRow
	}

	var out [][]string
	for i := r.StartRow - 1; i < last; i++ {
		row := data[i]
		cells := make([]string, 0, r.Width())
		for c := r.StartCol; c <= r.EndCol && c < len(row); c++ {
			cells = append(cells, row[c])
		}
		out = append(out, trimRow(cells))
	}

	for len(out) > 0 && len(out[len(out)-1]) == 0 {
		out = out[:len(out)-1]
	}
	return out
}

func writeCells(data [][]string, startRow, startCol int, rows [][]string) [][]string {
	for i, values := range rows {
		idx := startRow - 1 + i
		for len(data) <= idx {
			data = append(data, nil)
		}
		row := data[idx]
		for len(row) < startCol+len(values) {
			row = append(row, "")
		}
		copy(row[startCol:], values)
		data[idx] = row
	}
	return data
}

func trimRow(cells []string) []string {
	n := len(cells)
	for n > 0 && cells[n-1] == "" {
		n--
	}
	return cells[:n]
}

func isEmptyRow(row []string) bool {
	for _, c := range row {
		if c != "" {
			return false
		}
	}
	return true
}
