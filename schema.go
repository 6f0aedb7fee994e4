package qpl

import (
	"strings"
	"sync"

	"golang.org/x/exp/slices"
)

// SqlSchema describes the tables, columns, and key relationships a QPL
// program is validated against. It is immutable once registered: a request
// only ever reads from it, never mutates it (spec's read-heavy, write-rare
// registry design).
type SqlSchema struct {
	DbID          string       `json:"db_id"`
	TableNames    []string     `json:"table_names"`
	ColumnNames   []string     `json:"column_names"`
	ColumnTypes   []ColumnType `json:"column_types"`
	ColumnToTable []int        `json:"column_to_table"`
	// TableToColumns maps a table name to the set of column indices it owns;
	// carried for wire-compatibility with the spec's schema JSON, but every
	// lookup in this package goes through ColumnToTable/TableIndex instead.
	TableToColumns map[string][]int `json:"table_to_columns"`
	// ForeignKeys holds (foreignKeyColumnIdx, primaryKeyColumnIdx) pairs.
	ForeignKeys [][2]int `json:"foreign_keys"`
	PrimaryKeys []int    `json:"primary_keys"`
}

// TableIndex returns the position of name in TableNames, or -1.
func (s *SqlSchema) TableIndex(name string) int {
	for i, t := range s.TableNames {
		if t == name {
			return i
		}
	}
	return -1
}

// columnIndexInTable finds the column named name (case-insensitive) that
// belongs to table, returning -1 if none match.
func (s *SqlSchema) columnIndexInTable(table, column string) int {
	t := s.TableIndex(table)
	if t < 0 {
		return -1
	}
	lower := strings.ToLower(column)
	for i, cn := range s.ColumnNames {
		if strings.ToLower(cn) == lower && s.ColumnToTable[i] == t {
			return i
		}
	}
	return -1
}

// ColumnType returns the type of column within table, and whether it exists.
func (s *SqlSchema) ColumnType(table, column string) (ColumnType, bool) {
	i := s.columnIndexInTable(table, column)
	if i < 0 {
		return 0, false
	}
	return s.ColumnTypes[i], true
}

// ColumnKey classifies column of table as zero or more primary/foreign keys,
// following the original's column_key algorithm: a column is a primary key
// if it's listed in PrimaryKeys or is the primary side of a foreign-key
// pair; if it's the referencing side of one or more foreign-key pairs it is
// also a foreign key of every distinct table that any foreign-key pair in
// the schema references (not only the tables its own pairs point at).
func (s *SqlSchema) ColumnKey(table, column string) []KeyType {
	i := s.columnIndexInTable(table, column)
	if i < 0 {
		return nil
	}

	var fkSides, pkSides []int
	for _, fk := range s.ForeignKeys {
		fkSides = append(fkSides, fk[0])
		pkSides = append(pkSides, fk[1])
	}

	var result []KeyType
	if slices.Contains(s.PrimaryKeys, i) || slices.Contains(pkSides, i) {
		result = append(result, KeyType{Kind: PrimaryKey, Table: table})
	}
	if slices.Contains(fkSides, i) {
		var fks []KeyType
		for _, pk := range pkSides {
			fks = append(fks, KeyType{Kind: ForeignKey, Table: s.TableNames[s.ColumnToTable[pk]]})
		}
		result = append(result, dedupKeys(fks)...)
	}
	return result
}

// SchemaRegistry holds the set of schemas a server knows about, keyed by
// db_id. Registration is rare; lookups happen on every parse, so reads take
// the cheap path through an RWMutex.
type SchemaRegistry struct {
	mu      sync.RWMutex
	schemas map[string]*SqlSchema
}

func NewSchemaRegistry() *SchemaRegistry {
	return &SchemaRegistry{schemas: make(map[string]*SqlSchema)}
}

// Register upserts schema by its DbID. Registration is idempotent: posting
// the same schema twice leaves the registry in the same observable state.
func (r *SchemaRegistry) Register(schema *SqlSchema) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.schemas[schema.DbID] = schema
}

func (r *SchemaRegistry) Get(dbID string) (*SqlSchema, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	s, ok := r.schemas[dbID]
	return s, ok
}

// All returns every registered schema, sorted longest-db_id-first, the order
// the prefixed-program parser must try them in so "singer_in_concert" is
// preferred over "singer" when both are valid prefixes of the input.
func (r *SchemaRegistry) All() []*SqlSchema {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*SqlSchema, 0, len(r.schemas))
	for _, s := range r.schemas {
		out = append(out, s)
	}
	slices.SortFunc(out, func(a, b *SqlSchema) int {
		return len([]rune(b.DbID)) - len([]rune(a.DbID))
	})
	return out
}

func (r *SchemaRegistry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.schemas)
}
