package scoring

// Error is a custom error type for scoring errors
type Error string

// Error implements the error interface
func (e Error) Error() string {
	return string(e)
}

// ErrInvalidPosition is returned for positions outside MinPosition..MaxPosition
const ErrInvalidPosition Error = "position must be between 1 and 12"

const (
	// MinPosition is the winning position
	MinPosition = 1

	// MaxPosition is the last position in a full grid
	MaxPosition = 12
)

// points is indexed by position-1
var points = [MaxPosition]int{15, 12, 10, 8, 7, 6, 5, 4, 3, 2, 1, 0}

// Points returns the score for a finishing position
func Points(position int) (int, error) {
	if !ValidPosition(position) {
		return 0, ErrInvalidPosition
	}
	return points[position-1], nil
}

// ValidPosition reports whether position is on the grid
func ValidPosition(position int) bool {
	return position >= MinPosition && position <= MaxPosition
}

// Table returns a copy of the full position-to-points mapping
func Table() map[int]int {
	table := make(map[int]int, MaxPosition)
	for i, p := range points {
		table[i+1] = p
	}
	return table
}
