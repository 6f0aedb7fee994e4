package qpl

// QplState is the mutable parsing state threaded through a single program:
// the index of the line currently being parsed, the set of line indices
// seen so far (valid targets for #N input references), and the table each
// line produced.
type QplState struct {
	CurrentIdx int
	Seen       map[int]bool
	IdxToTable map[int]Table
}

func NewQplState() QplState {
	return QplState{
		Seen:       make(map[int]bool),
		IdxToTable: make(map[int]Table),
	}
}

// snapshot is an opaque, independent copy of a QplState, taken before trying
// a parser alternative and restored if that alternative mismatches, so a
// partially-applied branch never leaks state into the next one tried.
type snapshot struct {
	currentIdx int
	seen       map[int]bool
	idxToTable map[int]Table
}

func (s *QplState) snapshot() snapshot {
	seen := make(map[int]bool, len(s.Seen))
	for k, v := range s.Seen {
		seen[k] = v
	}
	idxToTable := make(map[int]Table, len(s.IdxToTable))
	for k, v := range s.IdxToTable {
		idxToTable[k] = v
	}
	return snapshot{currentIdx: s.CurrentIdx, seen: seen, idxToTable: idxToTable}
}

func (s *QplState) restore(snap snapshot) {
	s.CurrentIdx = snap.currentIdx
	s.Seen = snap.seen
	s.IdxToTable = snap.idxToTable
}

// QplEnvironment pairs the mutable QplState with the (immutable, once set)
// schema a program is validated against.
type QplEnvironment struct {
	State  QplState
	Schema *SqlSchema
}

func NewQplEnvironment() *QplEnvironment {
	return &QplEnvironment{State: NewQplState()}
}

// Snapshot/Restore let a combinator checkpoint the environment's mutable
// state around a speculative parse attempt. Schema is never mutated mid
// parse, so it is not part of the snapshot.
func (e *QplEnvironment) Snapshot() snapshot { return e.State.snapshot() }

func (e *QplEnvironment) Restore(snap snapshot) { e.State.restore(snap) }
