package models

// Priority represents an item priority level
type Priority int

// Priority constants, lowest to highest
const (
	PriorityNone Priority = iota
	PriorityLow
	PriorityMedium
	PriorityHigh
)

// String returns the human-readable priority description
func (p Priority) String() string {
	switch p {
	case PriorityLow:
		return "low"
	case PriorityMedium:
		return "medium"
	case PriorityHigh:
		return "high"
	default:
		return "none"
	}
}

// Valid reports whether p is a known priority level
func (p Priority) Valid() bool {
	return p >= PriorityNone && p <= PriorityHigh
}
