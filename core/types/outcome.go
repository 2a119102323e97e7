package types

// OutcomeKind tags the result of normalizing one record.
type OutcomeKind int

const (
	// Accepted means the record produced a row
	Accepted OutcomeKind = iota

	// Skipped means the record was dropped silently (missing field, not silver)
	Skipped

	// Warned means the record was dropped and the reason must be reported
	Warned
)

// String returns the outcome name
func (k OutcomeKind) String() string {
	switch k {
	case Accepted:
		return "accepted"
	case Skipped:
		return "skipped"
	case Warned:
		return "warned"
	}
	return "unknown"
}

// Outcome is the tagged per-record result of ingestion.
type Outcome struct {
	Kind OutcomeKind

	// Reason is set for Warned outcomes
	Reason string
}

// Accept returns an Accepted outcome.
func Accept() Outcome { return Outcome{Kind: Accepted} }

// Skip returns a silent Skipped outcome.
func Skip() Outcome { return Outcome{Kind: Skipped} }

// Warn returns a Warned outcome carrying reason.
func Warn(reason string) Outcome { return Outcome{Kind: Warned, Reason: reason} }

// OK reports whether the record was accepted.
func (o Outcome) OK() bool { return o.Kind == Accepted }

// Warning is a recoverable, per-row problem reported on the error channel.
type Warning struct {
	// Source is the dataset label (plans, zips, slcsp)
	Source string `json:"source"`

	// Line is the source line number
	Line int `json:"line"`

	// Message describes why the row was skipped
	Message string `json:"message"`
}
