package model

// State classifies the current value of a governed property relative to its
// desired value.
type State string

const (
	// StateSatisfied means current and desired values already match.
	StateSatisfied State = "satisfied"
	// StateDivergent means the property differs from the desired value and a
	// single corrective write is needed.
	StateDivergent State = "divergent"
	// StateAbsent means a dependent lookup (workflow file, hosted zone) was
	// simply not found. For advisory checks this is a warning, not an error.
	StateAbsent State = "absent"
)

// Evaluation contains the result of assessing a property's current state
// against its desired state. It is returned by Check.Evaluate and passed to
// Check.Apply when the property diverges.
type Evaluation struct {
	// CheckID is the identifier of the evaluated check.
	CheckID string

	// State classifies the current value (satisfied, divergent, absent).
	State State

	// Message is a human-readable description of what was found.
	Message string

	// Guidance carries manual-remediation instructions for absent lookups.
	Guidance string

	// Internal is opaque data passed from Evaluate to Apply so the apply
	// phase does not have to re-read the resource.
	Internal any
}
