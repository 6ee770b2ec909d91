package findings

import (
	"fmt"
	"strings"
)

// Priority is the normalized severity of a finding. The ordinal value is
// used as a dense index, so new values must be appended before numPriorities.
type Priority int

const (
	Low Priority = iota
	Normal
	High

	numPriorities
)

// Priorities lists every priority in ordinal order.
var Priorities = []Priority{Low, Normal, High}

func (p Priority) String() string {
	switch p {
	case Low:
		return "LOW"
	case Normal:
		return "NORMAL"
	case High:
		return "HIGH"
	default:
		return fmt.Sprintf("Priority(%d)", int(p))
	}
}

// Valid reports whether p is one of the defined priorities.
func (p Priority) Valid() bool {
	return p >= Low && p < numPriorities
}

// ParsePriority converts a priority name into a Priority.
// Accepts LOW, NORMAL, HIGH in any case and "medium" as an alias of NORMAL.
func ParsePriority(value string) (Priority, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "low":
		return Low, nil
	case "normal", "medium":
		return Normal, nil
	case "high":
		return High, nil
	default:
		return Normal, fmt.Errorf("%w: unknown priority %q", ErrInvalidArgument, value)
	}
}

// PriorityFromSarifLevel maps a SARIF result level onto a Priority.
func PriorityFromSarifLevel(level string) Priority {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "error":
		return High
	case "warning":
		return Normal
	default:
		return Low
	}
}
