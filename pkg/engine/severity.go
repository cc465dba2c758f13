package engine

// Severity is an ordered classification for findings. The integer values
// give a total order, so Critical > High > Medium > Low compares directly.
type Severity int

const (
	SeverityLow Severity = iota
	SeverityMedium
	SeverityHigh
	SeverityCritical
)

func (s Severity) String() string {
	switch s {
	case SeverityCritical:
		return "CRITICAL"
	case SeverityHigh:
		return "HIGH"
	case SeverityMedium:
		return "MEDIUM"
	default:
		return "LOW"
	}
}

// Weight returns the risk-score contribution of a single finding at this severity.
func (s Severity) Weight() int {
	switch s {
	case SeverityCritical:
		return 30
	case SeverityHigh:
		return 15
	case SeverityMedium:
		return 8
	default:
		return 2
	}
}

// Finding is a single severity-tagged observation about one metric or log signal.
// Findings are produced once and never mutated.
type Finding struct {
	Severity       Severity `json:"severity"`
	Metric         string   `json:"metric"`
	Value          string   `json:"value"`
	Title          string   `json:"title,omitempty"`
	Message        string   `json:"message"`
	Description    string   `json:"description,omitempty"`
	Recommendation string   `json:"recommendation,omitempty"`
}

// DisplayTitle prefers the narrative title over the bare metric name.
func (f Finding) DisplayTitle() string {
	if f.Title != "" {
		return f.Title
	}
	return f.Metric
}
