package sheets

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ErrInvalidRange is returned for A1 ranges this package cannot address.
var ErrInvalidRange = errors.New("invalid range")

// Range is a parsed A1 range such as "posts!A2:L", "posts!I5" or "users!A1:E1".
// Columns are zero-based, rows are one-based. EndRow is 0 for open-ended ranges.
type Range struct {
	Sheet    string
	StartCol int
	StartRow int
	EndCol   int
	EndRow   int
}

// ParseRange parses "Sheet!A2:L" style notation. A bare column ("A:E") starts at row 1.
func ParseRange(s string) (Range, error) {
	sheet, cells, ok := strings.Cut(s, "!")
	if !ok || sheet == "" || cells == "" {
		return Range{}, fmt.Errorf("%w: %q", ErrInvalidRange, s)
	}
	sheet = strings.Trim(sheet, "'")

	start, end, hasEnd := strings.Cut(cells, ":")

	startCol, startRow, err := parseCell(start)
	if err != nil {
		return Range{}, fmt.Errorf("%w: %q: %v", ErrInvalidRange, s, err)
	}
	if startRow == 0 {
		startRow = 1
	}

	r := Range{Sheet: sheet, StartCol: startCol, StartRow: startRow, EndCol: startCol, EndRow: startRow}
	if hasEnd {
		endCol, endRow, err := parseCell(end)
		if err != nil {
			return Range{}, fmt.Errorf("%w: %q: %v", ErrInvalidRange, s, err)
		}
		r.EndCol = endCol
		r.EndRow = endRow
		if endCol < startCol || (endRow != 0 && endRow < startRow) {
			return Range{}, fmt.Errorf("%w: %q: end before start", ErrInvalidRange, s)
		}
	}
	return r, nil
}

// Width is the number of columns covered by the range.
func (r Range) Width() int {
	return r.EndCol - r.StartCol + 1
}

// String renders the range back to A1 notation.
func (r Range) String() string {
	start := ColumnName(r.StartCol) + strconv.Itoa(r.StartRow)
	end := ColumnName(r.EndCol)
	if r.EndRow != 0 {
		end += strconv.Itoa(r.EndRow)
	}
	if start == end {
		return r.Sheet + "!" + start
	}
	return r.Sheet + "!" + start + ":" + end
}

// Cell builds the A1 address of a single cell.
func Cell(sheet string, col, row int) string {
	return fmt.Sprintf("%s!%s%d", sheet, ColumnName(col), row)
}

// Rows builds an open-ended range covering columns [fromCol, toCol] starting at row.
func Rows(sheet string, fromCol, toCol, row int) string {
	return fmt.Sprintf("%s!%s%d:%s", sheet, ColumnName(fromCol), row, ColumnName(toCol))
}

// ColumnName converts a zero-based column index to letters (0 -> A, 26 -> AA).
func ColumnName(col int) string {
	name := ""
	for col >= 0 {
		name = string(rune('A'+col%26)) + name
		col = col/26 - 1
	}
	return name
}

// ColumnIndex converts column letters to a zero-based index.
func ColumnIndex(name string) (int, error) {
	if name == "" {
		return 0, errors.New("empty column")
	}
	idx := 0
	for _, c := range strings.ToUpper(name) {
		if c < 'A' || c > 'Z' {
			return 0, fmt.Errorf("bad column %q", name)
		}
		idx = idx*26 + int(c-'A'+1)
	}
	return idx - 1, nil
}

func parseCell(s string) (col, row int, err error) {
	i := 0
	for i < len(s) && (s[i] < '0' || s[i] > '9') {
		i++
	}
	col, err = ColumnIndex(s[:i])
	if err != nil {
		return 0, 0, err
	}
	if i == len(s) {
		return col, 0, nil
	}
	row, err = strconv.Atoi(s[i:])
	if err != nil || row < 1 {
		return 0, 0, fmt.Errorf("bad row in %q", s)
	}
	return col, row, nil
}
