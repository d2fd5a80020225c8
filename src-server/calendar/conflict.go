package calendar

// ConflictLevel is a display hint derived from how many events fall on a
// day. It is keyed on the daily count only: two events at 09:00 and 17:00
// are flagged the same as two that overlap.
type ConflictLevel int

const (
	ConflictNone ConflictLevel = iota
	ConflictSingle
	ConflictDouble
	ConflictMultiple
)

func ClassifyConflict(count int) ConflictLevel {
	switch {
	case count <= 0:
		return ConflictNone
	case count == 1:
		return ConflictSingle
	case count == 2:
		return ConflictDouble
	default:
		return ConflictMultiple
	}
}

func (c ConflictLevel) String() string {
	switch c {
	case ConflictSingle:
		return "single"
	case ConflictDouble:
		return "double"
	case ConflictMultiple:
		return "multiple"
	default:
		return "none"
	}
}

// Whether the level gets a visual flag at all.
func (c ConflictLevel) Flagged() bool {
	return c >= ConflictDouble
}

// CSS class for the cell, empty when unflagged.
func (c ConflictLevel) CSSClass() string {
	switch c {
	case ConflictDouble:
		return "conflict-2"
	case ConflictMultiple:
		return "conflict-3"
	default:
		return ""
	}
}
