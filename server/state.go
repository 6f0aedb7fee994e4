package server

import (
	"sync"

	"github.com/qplang/qpl"
	"github.com/qplang/qpl/tokenizer"
)

// State is the shared, mutex-guarded server state: every request handler
// takes a read or write lock around it, mirroring the original's
// Arc<RwLock<ServerState>>.
type State struct {
	mu sync.RWMutex

	counter          uint64
	tokenizer        tokenizer.Tokenizer
	schemas          *qpl.SchemaRegistry
	partialParses    map[string]PartialParse
	withTypeChecking bool
}

// PartialParse is one cached incremental-parse outcome, keyed by the
// decoded token-id prefix it was computed from (see cache.go).
type PartialParse struct {
	DecodedPrefix string
	Result        qpl.Classification
}

// NewState builds an empty server state with the given type-checking
// default, the setting every /validate and /parse call uses; requests carry
// no per-request override.
func NewState(withTypeChecking bool) *State {
	return &State{
		schemas:          qpl.NewSchemaRegistry(),
		partialParses:    make(map[string]PartialParse),
		withTypeChecking: withTypeChecking,
	}
}

func (s *State) bumpCounter() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.counter++
	return s.counter
}

func (s *State) registerSchema(schema *qpl.SqlSchema) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.schemas.Register(schema)
}

func (s *State) registerTokenizer(t tokenizer.Tokenizer) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tokenizer = t
}

func (s *State) snapshotForDebug() debugView {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return debugView{
		Counter:          s.counter,
		SchemaCount:      s.schemas.Len(),
		HasTokenizer:     s.tokenizer != nil,
		CachedPartials:   len(s.partialParses),
		WithTypeChecking: s.withTypeChecking,
	}
}

// debugView is a read-only, repr-friendly snapshot of State for the /debug
// endpoint, which never exposes the mutex or the registry internals
// directly.
type debugView struct {
	Counter          uint64
	SchemaCount      int
	HasTokenizer     bool
	CachedPartials   int
	WithTypeChecking bool
}
