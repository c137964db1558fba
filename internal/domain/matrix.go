package domain

import "fmt"

// DurationMatrix holds directed travel durations in whole minutes.
// Entry [i][j] is the time to drive from stop i to stop j.
type DurationMatrix [][]int

// Validate checks that the matrix is n×n with non-negative entries and a zero diagonal.
func (m DurationMatrix) Validate(n int) error {
	if len(m) != n {
		return fmt.Errorf("validate matrix: %w: got %d rows, want %d", ErrInvalidInput, len(m), n)
	}
	for i, row := range m {
		if len(row) != n {
			return fmt.Errorf("validate matrix: %w: row %d has %d columns, want %d", ErrInvalidInput, i, len(row), n)
		}
		for j, v := range row {
			if v < 0 {
				return fmt.Errorf("validate matrix: %w: negative duration at [%d][%d]", ErrInvalidInput, i, j)
			}
		}
		if row[i] != 0 {
			return fmt.Errorf("validate matrix: %w: non-zero diagonal at [%d][%d]", ErrInvalidInput, i, i)
		}
	}
	return nil
}
