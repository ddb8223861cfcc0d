package domain

// Severity ranks how harmful a leaked category is.
type Severity string

const (
	SeverityLow      Severity = "low"
	SeverityMedium   Severity = "medium"
	SeverityHigh     Severity = "high"
	SeverityCritical Severity = "critical"
)

// Rank orders severities from low (1) to critical (4). Unknown values rank 0.
func (s Severity) Rank() int {
	switch s {
	case SeverityLow:
		return 1
	case SeverityMedium:
		return 2
	case SeverityHigh:
		return 3
	case SeverityCritical:
		return 4
	default:
		return 0
	}
}

// Less reports whether s ranks below other.
func (s Severity) Less(other Severity) bool {
	return s.Rank() < other.Rank()
}

func (s Severity) String() string {
	return string(s)
}
