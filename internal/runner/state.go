package runner

// State is the orchestrator's position in the run. Failed is reachable from
// every non-terminal state.
type State int

const (
	StateInit State = iota
	StateGeneratingTestData
	StateFillingFields
	StateSubmitting
	StateDone
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateInit:
		return "init"
	case StateGeneratingTestData:
		return "generating_test_data"
	case StateFillingFields:
		return "filling_fields"
	case StateSubmitting:
		return "submitting"
	case StateDone:
		return "done"
	case StateFailed:
		return "failed"
	}
	return "unknown"
}
