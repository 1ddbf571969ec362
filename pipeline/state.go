package pipeline

// State is a pipeline run's position in its linear state machine.
type State string

const (
	StateCreated           State = "Created"
	StateStageADone        State = "StageA_Done"
	StateStageBDone        State = "StageB_Done"
	StateParallelBatchDone State = "ParallelBatch_Done"
	StateStageDDone        State = "StageD_Done"
	StateFailed            State = "Failed"
)

// Terminal reports whether the state ends a run.
func (s State) Terminal() bool {
	return s == StateStageDDone || s == StateFailed
}

// next maps each non-terminal state to its sole successor.
var next = map[State]State{
	StateCreated:           StateStageADone,
	StateStageADone:        StateStageBDone,
	StateStageBDone:        StateParallelBatchDone,
	StateParallelBatchDone: StateStageDDone,
}

// advance returns the successor state. Advancing a terminal state is a
// programming error and panics.
func (s State) advance() State {
	n, ok := next[s]
	if !ok {
		panic("pipeline: advance from terminal state " + string(s))
	}
	return n
}
