package qpl

import (
	"encoding/json"
	"fmt"
	"sort"
)

// ColumnType is the SQL-ish type lattice a schema column can carry.
type ColumnType int

const (
	Number ColumnType = iota
	Boolean
	Text
	Time
	Others
)

func (t ColumnType) String() string {
	switch t {
	case Number:
		return "Number"
	case Boolean:
		return "Boolean"
	case Text:
		return "Text"
	case Time:
		return "Time"
	case Others:
		return "Others"
	default:
		return "Unknown"
	}
}

// MarshalJSON renders a ColumnType as its lowercase enum name, the wire
// shape a schema JSON's column_types array carries.
func (t ColumnType) MarshalJSON() ([]byte, error) {
	var name string
	switch t {
	case Number:
		name = "number"
	case Boolean:
		name = "boolean"
	case Text:
		name = "text"
	case Time:
		name = "time"
	case Others:
		name = "others"
	default:
		return nil, fmt.Errorf("qpl: invalid ColumnType %d", int(t))
	}
	return json.Marshal(name)
}

// UnmarshalJSON parses a ColumnType from its lowercase enum name.
func (t *ColumnType) UnmarshalJSON(data []byte) error {
	var name string
	if err := json.Unmarshal(data, &name); err != nil {
		return err
	}
	switch name {
	case "number":
		*t = Number
	case "boolean":
		*t = Boolean
	case "text":
		*t = Text
	case "time":
		*t = Time
	case "others":
		*t = Others
	default:
		return fmt.Errorf("qpl: unknown column type %q", name)
	}
	return nil
}

// KeyType marks a column as a primary or foreign key of some table.
type KeyType struct {
	Kind  KeyKind
	Table string
}

type KeyKind int

const (
	PrimaryKey KeyKind = iota
	ForeignKey
)

func (k KeyType) String() string {
	switch k.Kind {
	case PrimaryKey:
		return fmt.Sprintf("PrimaryKey(%s)", k.Table)
	case ForeignKey:
		return fmt.Sprintf("ForeignKey(%s)", k.Table)
	default:
		return "UnknownKey"
	}
}

func keyTypeLess(a, b KeyType) bool {
	if a.Kind != b.Kind {
		return a.Kind < b.Kind
	}
	return a.Table < b.Table
}

func sortKeys(keys []KeyType) {
	sort.Slice(keys, func(i, j int) bool { return keyTypeLess(keys[i], keys[j]) })
}

func dedupKeys(keys []KeyType) []KeyType {
	if len(keys) == 0 {
		return keys
	}
	sortKeys(keys)
	out := keys[:1]
	for _, k := range keys[1:] {
		if k != out[len(out)-1] {
			out = append(out, k)
		}
	}
	return out
}

// ColumnKind distinguishes the three column shapes a table can expose.
type ColumnKind int

const (
	ColumnDummy ColumnKind = iota
	ColumnPlain
	ColumnAliased
)

// Column is a tagged union over Dummy/Plain/Aliased columns, mirroring the
// three output shapes a line in a query plan can produce: the literal
// placeholder column ("1 AS One"), a column carried straight from a table
// (including one renamed with "AS" in a Scan), or a column synthesized by an
// aggregate (Count_Star, Max_Age, ...).
type Column struct {
	Kind Kind
	Name string
	Type ColumnType
	Keys []KeyType
}

// Kind aliases ColumnKind so callers can write qpl.ColumnPlain etc. without
// stuttering on qpl.ColumnKind.ColumnPlain.
type Kind = ColumnKind

func DummyColumn() Column { return Column{Kind: ColumnDummy} }

func PlainColumn(name string, typ ColumnType, keys []KeyType) Column {
	return Column{Kind: ColumnPlain, Name: name, Type: typ, Keys: keys}
}

func AliasedColumn(name string, typ ColumnType, keys []KeyType) Column {
	return Column{Kind: ColumnAliased, Name: name, Type: typ, Keys: keys}
}

// ColumnName returns the column's display name, or "" for a dummy column.
func (c Column) ColumnName() string {
	if c.Kind == ColumnDummy {
		return ""
	}
	return c.Name
}

// TableKind distinguishes a table produced directly by a Scan (Named) from
// the index-only tables every other operation produces (Indexed).
type TableKind int

const (
	TableNamed TableKind = iota
	TableIndexed
)

// Table is the output shape every line records in the environment's
// idx_to_table map: either a Scan's Named table, or an Indexed table
// keyed by the producing line's index.
type Table struct {
	Kind    TableKind
	Name    string // only set for TableNamed
	Idx     int    // only set for TableIndexed
	Columns []Column
}

func NamedTable(name string, columns []Column) Table {
	return Table{Kind: TableNamed, Name: name, Columns: columns}
}

func IndexedTable(idx int, columns []Column) Table {
	return Table{Kind: TableIndexed, Idx: idx, Columns: columns}
}

// Comparable is one side of a Comparison: a literal value or a column
// reference. Exactly one of the typed fields is meaningful, selected by Kind.
type Comparable struct {
	Kind    ComparableKind
	Number  float64
	Str     string
	Boolean bool
	Column  string
}

type ComparableKind int

const (
	CmpNumber ComparableKind = iota
	CmpStr
	CmpBoolean
	CmpNull
	CmpColumn
)

func NumberComparable(v float64) Comparable  { return Comparable{Kind: CmpNumber, Number: v} }
func StrComparable(v string) Comparable      { return Comparable{Kind: CmpStr, Str: v} }
func BooleanComparable(v bool) Comparable    { return Comparable{Kind: CmpBoolean, Boolean: v} }
func NullComparable() Comparable             { return Comparable{Kind: CmpNull} }
func ColumnComparable(name string) Comparable { return Comparable{Kind: CmpColumn, Column: name} }

// ComparisonOp enumerates the ten comparison operators QPL recognizes. The
// enum order carries no meaning for parsing; the longest-match order the
// parser tries them in is comparisonOpText's.
type ComparisonOp int

const (
	OpEqual ComparisonOp = iota
	OpNotEqual
	OpGreaterThan
	OpGreaterThanOrEqual
	OpLessThan
	OpLessThanOrEqual
	OpIs
	OpIsNot
	OpLike
	OpNotLike
)

// comparisonOpText is ordered by longest-match priority, not enum value:
// "<>" and the two-char relational operators must be tried before their
// single-char prefixes, and "IS NOT"/"NOT LIKE" before their shorter
// siblings "IS"/"LIKE".
var comparisonOpText = []struct {
	Text     string
	Op       ComparisonOp
	Caseless bool
}{
	{"<>", OpNotEqual, false},
	{"<=", OpLessThanOrEqual, false},
	{">=", OpGreaterThanOrEqual, false},
	{"is not", OpIsNot, true},
	{"is", OpIs, true},
	{"not like", OpNotLike, true},
	{"like", OpLike, true},
	{"<", OpLessThan, false},
	{">", OpGreaterThan, false},
	{"=", OpEqual, false},
}

// Comparison is a fully resolved binary comparison between two Comparables.
type Comparison struct {
	Op       ComparisonOp
	LHS, RHS Comparable
}

func NewComparison(op ComparisonOp, lhs, rhs Comparable) Comparison {
	return Comparison{Op: op, LHS: lhs, RHS: rhs}
}

// PredicateKind distinguishes a leaf comparison from an And/Or combination.
type PredicateKind int

const (
	PredicateSingle PredicateKind = iota
	PredicateAnd
	PredicateOr
)

// Predicate is a left-associative boolean tree of Comparisons built by
// repeated folding: "A AND B OR C" parses as (A AND B) OR C, never
// reassociated by operator precedence.
type Predicate struct {
	Kind       PredicateKind
	Comparison Comparison
	LHS, RHS   *Predicate
}

func SinglePredicate(c Comparison) Predicate {
	return Predicate{Kind: PredicateSingle, Comparison: c}
}

func AndPredicate(lhs, rhs Predicate) Predicate {
	return Predicate{Kind: PredicateAnd, LHS: &lhs, RHS: &rhs}
}

func OrPredicate(lhs, rhs Predicate) Predicate {
	return Predicate{Kind: PredicateOr, LHS: &lhs, RHS: &rhs}
}

// Agg enumerates the aggregate functions Aggregate lines may apply.
type Agg int

const (
	AggSum Agg = iota
	AggMin
	AggMax
	AggCount
	AggAverage
)

func AggValues() []Agg { return []Agg{AggSum, AggMin, AggMax, AggCount, AggAverage} }

func (a Agg) String() string {
	switch a {
	case AggSum:
		return "Sum"
	case AggMin:
		return "Min"
	case AggMax:
		return "Max"
	case AggCount:
		return "Count"
	case AggAverage:
		return "Avg"
	default:
		return "UnknownAgg"
	}
}

// OperationKind enumerates the ten operations a QPL line may carry out.
type OperationKind int

const (
	OpScan OperationKind = iota
	OpFilter
	OpAggregate
	OpJoin
	OpIntersect
	OpExcept
	OpUnion
	OpTop
	OpSort
	OpTopSort
)

// ExceptKind distinguishes Except's two mutually exclusive selector shapes.
type ExceptKind int

const (
	ExceptByPredicate ExceptKind = iota
	ExceptByColumns
)

// Operation is a tagged union over the ten QPL operations. Only the fields
// relevant to Kind are populated; see each operation's own file for the
// parser that builds it.
type Operation struct {
	Kind OperationKind

	// Scan
	Table string

	// Predicate: Scan/Filter/Join/Intersect/Except; IsDistinct: the same
	// operations plus Sort
	Predicate   *Predicate
	IsDistinct  bool

	// Filter/Aggregate/Join/Intersect/Except/Union/Top/Sort/TopSort
	Inputs []int

	// Aggregate
	GroupBy []string

	// Sort/TopSort
	OrderBy []string

	// Top/TopSort
	Rows int

	// TopSort
	WithTies bool

	// Except
	ExceptSelector ExceptKind
	ExceptColumn   string
}

// Line is one numbered statement of a Qpl program.
type Line struct {
	Idx       int
	Operation Operation
}

// Qpl is an ordered sequence of Lines, the fully parsed query plan.
type Qpl struct {
	Lines []Line
}
