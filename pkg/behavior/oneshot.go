package behavior

import "github.com/vango-dev/pagefx/pkg/dom"

// State is the lifecycle of an element under a one-shot trigger.
type State uint8

const (
	Untracked State = iota
	Pending
	Fired
)

// String returns the state name.
func (s State) String() string {
	switch s {
	case Pending:
		return "pending"
	case Fired:
		return "fired"
	default:
		return "untracked"
	}
}

// OneShot records which elements a visibility trigger has fired for.
// An element moves Untracked -> Pending -> Fired and never back, so a
// trigger reacts to the first intersection only, however many entries
// the observer delivers afterwards.
type OneShot struct {
	states map[dom.Element]State
}

// NewOneShot creates an empty tracker.
func NewOneShot() *OneShot {
	return &OneShot{states: make(map[dom.Element]State)}
}

// Track marks el pending. It reports false if el was already tracked.
func (o *OneShot) Track(el dom.Element) bool {
	if el == nil {
		return false
	}
	if _, ok := o.states[el]; ok {
		return false
	}
	o.states[el] = Pending
	return true
}

// Fire moves a pending element to fired. It reports whether this call
// made the transition; untracked and already fired elements return false.
func (o *OneShot) Fire(el dom.Element) bool {
	if o.states[el] != Pending {
		return false
	}
	o.states[el] = Fired
	return true
}

// State returns el's state.
func (o *OneShot) State(el dom.Element) State {
	return o.states[el]
}

// Count returns how many elements are in state s.
func (o *OneShot) Count(s State) int {
	n := 0
	for _, st := range o.states {
		if st == s {
			n++
		}
	}
	return n
}
