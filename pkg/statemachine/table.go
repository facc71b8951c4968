package statemachine

import "slices"

// State is any string-backed state type.
type State interface {
	~string
}

// Table holds the set of declared states and the allowed moves between them.
type Table[S State] struct {
	states []S
	edges  map[S]map[S]struct{}
}

// NewTable declares the states of a lifecycle. Order is preserved by States.
// Panics on duplicates so that misconfigured tables fail at init.
func NewTable[S State](states ...S) *Table[S] {
	t := &Table[S]{
		states: make([]S, 0, len(states)),
		edges:  make(map[S]map[S]struct{}, len(states)),
	}
	for _, s := range states {
		if _, exists := t.edges[s]; exists {
			panic("statemachine: duplicate state " + string(s))
		}
		t.states = append(t.states, s)
		t.edges[s] = make(map[S]struct{})
	}
	return t
}

// Allow declares moves from one state to each of the target states.
// Panics if any state was not declared with NewTable.
func (t *Table[S]) Allow(from S, to ...S) *Table[S] {
	targets, ok := t.edges[from]
	if !ok {
		panic("statemachine: unknown state " + string(from))
	}
	for _, s := range to {
		if _, ok := t.edges[s]; !ok {
			panic("statemachine: unknown state " + string(s))
		}
		targets[s] = struct{}{}
	}
	return t
}

// AllowAll makes the table fully connected, self transitions included.
func (t *Table[S]) AllowAll() *Table[S] {
	for _, from := range t.states {
		t.Allow(from, t.states...)
	}
	return t
}

// States returns the declared states in declaration order.
func (t *Table[S]) States() []S {
	return slices.Clone(t.states)
}

// Known reports whether s was declared.
func (t *Table[S]) Known(s S) bool {
	_, ok := t.edges[s]
	return ok
}

// CanTransition reports whether moving from one state to another is allowed.
func (t *Table[S]) CanTransition(from, to S) bool {
	return t.Transition(from, to) == nil
}

// Transition validates a move. It returns *ErrUnknownState when either state is not
// declared and *ErrNoTransitionAvailable when the move is not allowed.
func (t *Table[S]) Transition(from, to S) error {
	targets, ok := t.edges[from]
	if !ok {
		return NewErrUnknownState(string(from))
	}
	if _, ok := t.edges[to]; !ok {
		return NewErrUnknownState(string(to))
	}
	if _, ok := targets[to]; !ok {
		return NewErrNoTransitionAvailable(string(from), string(to))
	}
	return nil
}

// Terminal reports whether no move leaves s.
func (t *Table[S]) Terminal(s S) bool {
	targets, ok := t.edges[s]
	return ok && len(targets) == 0
}
