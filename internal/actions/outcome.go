package actions

// Outcome is the result of an operation that can stop at a rebase conflict
type Outcome int

const (
	// Success indicates the operation ran to completion
	Success Outcome = iota
	// ConflictSuspended indicates a conflict stopped the operation and a
	// checkpoint was saved so 'continue' can resume it
	ConflictSuspended
)

func (o Outcome) String() string {
	if o == ConflictSuspended {
		return "conflict"
	}
	return "success"
}
