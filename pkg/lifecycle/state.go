package lifecycle

// State is a step of the lifecycle
type State string

const (
	StateInit                 State = "init"
	StateOptionsResolved      State = "options_resolved"
	StateRequirementsResolved State = "requirements_resolved"
	StateGenerated            State = "generated"
	StateBuilt                State = "built"
	StateTested               State = "tested"
	StatePackaged             State = "packaged"
)

var transitions = map[State][]State{
	StateInit:                 {StateOptionsResolved},
	StateOptionsResolved:      {StateRequirementsResolved},
	StateRequirementsResolved: {StateGenerated},
	StateGenerated:            {StateBuilt},
	StateBuilt:                {StateTested, StatePackaged},
	StateTested:               {StatePackaged},
	StatePackaged:             {},
}

// CanTransition reports whether from may be followed by to
func CanTransition(from, to State) bool {
	for _, candidate := range transitions[from] {
		if candidate == to {
			return true
		}
	}
	return false
}

// Tracker records the states of one run and rejects disallowed transitions.
// No state can be entered twice because the transition graph has no cycles.
type Tracker struct {
	current State
	history []State
}

// NewTracker starts a tracker in StateInit
func NewTracker() *Tracker {
	return &Tracker{current: StateInit, history: []State{StateInit}}
}

// Current returns the current state
func (t *Tracker) Current() State {
	return t.current
}

// History returns every state entered so far, starting with StateInit
func (t *Tracker) History() []State {
	return append([]State(nil), t.history...)
}

// Advance moves to the next state
func (t *Tracker) Advance(to State) error {
	if !CanTransition(t.current, to) {
		return NewInvalidTransitionError(t.current, to)
	}
	t.current = to
	t.history = append(t.history, to)
	return nil
}
