package qpl

import (
	"sort"
	"strconv"
	"strings"

	"github.com/qplang/qpl/cursor"
)

// multispace0 consumes zero or more whitespace runes. Reaching the end of a
// not-yet-complete buffer while still matching whitespace is Incomplete:
// there is no way to know yet whether the run of spaces has actually ended.
func multispace0(c *cursor.Cursor, _ *QplEnvironment) (struct{}, error) {
	for {
		if c.Len() == 0 {
			if !c.Complete {
				return struct{}{}, cursor.Incomplete("multispace0 at eof")
			}
			return struct{}{}, nil
		}
		if !cursor.IsSpace(c.Peek()) {
			return struct{}{}, nil
		}
		c.Shift()
	}
}

// choice tries each candidate as a case-insensitive literal, longest first
// if the caller has already sorted them that way, and returns the matched
// candidate's canonical spelling.
func choice(candidates []string) ParserFunc[string] {
	return func(c *cursor.Cursor, env *QplEnvironment) (string, error) {
		for _, cand := range candidates {
			v, ok, err := opt(c, env, caselessValue(cand))
			if err != nil {
				return "", err
			}
			if ok {
				return v, nil
			}
		}
		return "", cursor.Mismatch("no choice matched")
	}
}

func caselessValue(lit string) ParserFunc[string] {
	return func(c *cursor.Cursor, _ *QplEnvironment) (string, error) {
		if err := c.CaselessLiteral(lit); err != nil {
			return "", err
		}
		return lit, nil
	}
}

func byLengthDesc(items []string) []string {
	out := append([]string(nil), items...)
	sort.SliceStable(out, func(i, j int) bool {
		return len([]rune(out[i])) > len([]rune(out[j]))
	})
	return out
}

// tableName matches the longest schema table name that is a case-insensitive
// prefix of the remaining input.
func tableName(c *cursor.Cursor, env *QplEnvironment) (string, error) {
	if env.Schema == nil {
		return "", ErrNoSchemaSelected
	}
	return choice(byLengthDesc(env.Schema.TableNames))(c, env)
}

// columnName matches the longest schema column name, independent of table.
func columnName(c *cursor.Cursor, env *QplEnvironment) (string, error) {
	if env.Schema == nil {
		return "", ErrNoSchemaSelected
	}
	return choice(byLengthDesc(env.Schema.ColumnNames))(c, env)
}

// aliasedColumn matches any previously produced column whose name looks
// like an aggregate alias (see startsWithAgg), longest match first.
func aliasedColumn(c *cursor.Cursor, env *QplEnvironment) (string, error) {
	var names []string
	for _, t := range env.State.IdxToTable {
		for _, col := range t.Columns {
			n := col.ColumnName()
			if n != "" && startsWithAgg(n) {
				names = append(names, n)
			}
		}
	}
	return choice(byLengthDesc(names))(c, env)
}

// ColumnRef is a column name together with its optional output alias.
type ColumnRef struct {
	Name  string
	Alias string // "" if unaliased
}

// columnInTable parses a column name known to belong to table, with an
// optional " AS alias" suffix.
func columnInTable(table string) ParserFunc[ColumnRef] {
	return func(c *cursor.Cursor, env *QplEnvironment) (ColumnRef, error) {
		col, err := columnName(c, env)
		if err != nil {
			return ColumnRef{}, err
		}
		alias, ok, err := opt(c, env, aliasSuffix)
		if err != nil {
			return ColumnRef{}, err
		}
		if env.Schema.columnIndexInTable(table, col) < 0 {
			return ColumnRef{}, ErrUnknownColumn
		}
		if ok {
			return ColumnRef{Name: col, Alias: alias}, nil
		}
		return ColumnRef{Name: col}, nil
	}
}

func aliasSuffix(c *cursor.Cursor, env *QplEnvironment) (string, error) {
	if err := literalExact(" AS ")(c, env); err != nil {
		return "", err
	}
	return takeWhile1(cursor.IsAlphaNum, "alphanumeric alias")(c, env)
}

type columnParserType int

const (
	columnParserNamed columnParserType = iota
	columnParserAliased
)

// columnInIndex parses a column name (named or aliased) and verifies it
// belongs to the table produced by line idx.
func columnInIndex(idx int, kind columnParserType) ParserFunc[string] {
	return func(c *cursor.Cursor, env *QplEnvironment) (string, error) {
		var col string
		var err error
		switch kind {
		case columnParserNamed:
			col, err = columnName(c, env)
		default:
			col, err = aliasedColumn(c, env)
		}
		if err != nil {
			return "", err
		}
		table, ok := env.State.IdxToTable[idx]
		if !ok {
			return "", ErrUnknownLineIndex
		}
		for _, tc := range table.Columns {
			if tc.Kind != ColumnDummy && tc.Name == col {
				return col, nil
			}
		}
		return "", ErrUnknownColumn
	}
}

// IndexedColumnRef is a "#idx.column" reference into a prior line's output.
type IndexedColumnRef struct {
	Idx    int
	Column string
}

// indexedColumn parses "#<idx>.<column>" where idx must be one of inputs.
func indexedColumn(inputs []int) ParserFunc[IndexedColumnRef] {
	return func(c *cursor.Cursor, env *QplEnvironment) (IndexedColumnRef, error) {
		if err := literalExact("#")(c, env); err != nil {
			return IndexedColumnRef{}, err
		}
		idx, err := decUint(c, env)
		if err != nil {
			return IndexedColumnRef{}, err
		}
		found := false
		for _, i := range inputs {
			if i == idx {
				found = true
				break
			}
		}
		if !found {
			return IndexedColumnRef{}, ErrUnknownLineIndex
		}
		if err := literalExact(".")(c, env); err != nil {
			return IndexedColumnRef{}, err
		}
		col, err := alt(c, env, columnInIndex(idx, columnParserNamed), columnInIndex(idx, columnParserAliased))
		if err != nil {
			return IndexedColumnRef{}, err
		}
		return IndexedColumnRef{Idx: idx, Column: col}, nil
	}
}

func literalExact(lit string) ParserFunc[struct{}] { return literalP(lit) }

func takeWhile1(valid cursor.CheckFn, what string) ParserFunc[string] {
	return func(c *cursor.Cursor, _ *QplEnvironment) (string, error) {
		start := c.Mark()
		s := c.TakeWhile(valid)
		if s == "" {
			if !c.Complete && c.Len() == 0 {
				return "", cursor.Incomplete("empty " + what + " at eof")
			}
			c.Reset(start)
			return "", cursor.Mismatch("expected " + what)
		}
		// If we stopped only because the buffer ran out (not because we
		// saw a disqualifying rune), more input could extend the match.
		if c.Len() == 0 && !c.Complete {
			return "", cursor.Incomplete("truncated " + what)
		}
		return s, nil
	}
}

func decUint(c *cursor.Cursor, env *QplEnvironment) (int, error) {
	s, err := takeWhile1(cursor.IsDigit, "digits")(c, env)
	if err != nil {
		return 0, err
	}
	n, convErr := strconv.Atoi(s)
	if convErr != nil {
		return 0, cursor.Mismatch("invalid integer: " + s)
	}
	return n, nil
}

// comparisonOp parses one of the ten comparison operators in mandatory
// longest-match order.
func comparisonOp(c *cursor.Cursor, env *QplEnvironment) (ComparisonOp, error) {
	for _, cand := range comparisonOpText {
		var err error
		if cand.Caseless {
			err = c.CaselessLiteral(cand.Text)
		} else {
			err = c.Literal(cand.Text)
		}
		if err == nil {
			return cand.Op, nil
		}
		if cursor.IsIncomplete(err) {
			return 0, err
		}
	}
	return 0, ErrInvalidComparisonOp
}

func spacedComparisonOp(c *cursor.Cursor, env *QplEnvironment) (ComparisonOp, error) {
	if _, err := multispace0(c, env); err != nil {
		return 0, err
	}
	op, err := comparisonOp(c, env)
	if err != nil {
		return 0, err
	}
	if _, err := multispace0(c, env); err != nil {
		return 0, err
	}
	return op, nil
}

func numberComparable(c *cursor.Cursor, env *QplEnvironment) (Comparable, error) {
	start := c.Mark()
	neg := false
	if c.Peek() == '-' {
		c.Shift()
		neg = true
	}
	intPart := c.TakeWhile(cursor.IsDigit)
	if intPart == "" {
		c.Reset(start)
		return Comparable{}, cursor.Mismatch("expected number")
	}
	frac := ""
	if c.Peek() == '.' {
		dotMark := c.Mark()
		c.Shift()
		frac = c.TakeWhile(cursor.IsDigit)
		if frac == "" {
			c.Reset(dotMark)
		}
	}
	if c.Len() == 0 && !c.Complete {
		return Comparable{}, cursor.Incomplete("truncated number")
	}
	text := intPart
	if frac != "" {
		text += "." + frac
	}
	if neg {
		text = "-" + text
	}
	f, err := strconv.ParseFloat(text, 64)
	if err != nil {
		c.Reset(start)
		return Comparable{}, cursor.Mismatch("invalid number: " + text)
	}
	return NumberComparable(f), nil
}

func stringComparable(c *cursor.Cursor, env *QplEnvironment) (Comparable, error) {
	if err := c.Literal("'"); err != nil {
		return Comparable{}, err
	}
	s := c.TakeWhile(cursor.Not(cursor.IsQuote))
	if c.Len() == 0 {
		if !c.Complete {
			return Comparable{}, cursor.Incomplete("unterminated string")
		}
		return Comparable{}, cursor.Mismatch("unterminated string")
	}
	if err := c.Literal("'"); err != nil {
		return Comparable{}, err
	}
	return StrComparable(s), nil
}

func booleanComparable(c *cursor.Cursor, env *QplEnvironment) (Comparable, error) {
	v, err := alt(c, env,
		func(c *cursor.Cursor, _ *QplEnvironment) (bool, error) {
			return false, c.Literal("0")
		},
		func(c *cursor.Cursor, _ *QplEnvironment) (bool, error) {
			return true, c.Literal("1")
		},
	)
	if err != nil {
		return Comparable{}, err
	}
	return BooleanComparable(v), nil
}

func nullComparable(c *cursor.Cursor, env *QplEnvironment) (Comparable, error) {
	if err := c.Literal("NULL"); err != nil {
		return Comparable{}, err
	}
	return NullComparable(), nil
}

// inputIds parses "[ #a, #b ] " (1 or 2 ids), each of which must already
// have been produced by an earlier line.
func inputIds(c *cursor.Cursor, env *QplEnvironment) ([]int, error) {
	if err := literalExact("[ ")(c, env); err != nil {
		return nil, err
	}
	single := func(c *cursor.Cursor, env *QplEnvironment) (int, error) {
		if err := literalExact("#")(c, env); err != nil {
			return 0, err
		}
		return decUint(c, env)
	}
	sep := func(c *cursor.Cursor, env *QplEnvironment) (struct{}, error) {
		if _, err := multispace0(c, env); err != nil {
			return struct{}{}, err
		}
		return literalExact(", ")(c, env)
	}
	ids, err := sepBy(c, env, 1, 2, single, sep)
	if err != nil {
		return nil, err
	}
	for _, id := range ids {
		if !env.State.Seen[id] {
			return nil, ErrUnknownLineIndex
		}
	}
	if err := literalExact(" ] ")(c, env); err != nil {
		return nil, err
	}
	return ids, nil
}

func predicateWrapper(inner ParserFunc[Predicate]) ParserFunc[Predicate] {
	return func(c *cursor.Cursor, env *QplEnvironment) (Predicate, error) {
		if err := literalExact("Predicate [ ")(c, env); err != nil {
			return Predicate{}, err
		}
		p, err := inner(c, env)
		if err != nil {
			return Predicate{}, err
		}
		if err := literalExact(" ] ")(c, env); err != nil {
			return Predicate{}, err
		}
		return p, nil
	}
}

// orderBy parses "<column> ASC|DESC" where column must belong to the table
// produced by inputIdx, formatted back out as a single "col DIR" string.
func orderBy(inputIdx int) ParserFunc[string] {
	return func(c *cursor.Cursor, env *QplEnvironment) (string, error) {
		by, err := alt(c, env, aliasedColumn, columnName)
		if err != nil {
			return "", err
		}
		table, ok := env.State.IdxToTable[inputIdx]
		if !ok {
			return "", ErrUnknownLineIndex
		}
		valid := false
		for _, tc := range table.Columns {
			if tc.ColumnName() == by {
				valid = true
				break
			}
		}
		if !valid {
			return "", ErrUnknownColumn
		}
		if _, err := multispace0(c, env); err != nil {
			return "", err
		}
		dir, err := alt(c, env,
			func(c *cursor.Cursor, _ *QplEnvironment) (string, error) { return "ASC", c.Literal("ASC") },
			func(c *cursor.Cursor, _ *QplEnvironment) (string, error) { return "DESC", c.Literal("DESC") },
		)
		if err != nil {
			return "", err
		}
		return by + " " + dir, nil
	}
}

// startsWithAgg reports whether column looks like an aggregate alias this
// parser itself produced (Sum_/Min_/Max_/Count_/Avg_ prefix, or countstar).
func startsWithAgg(column string) bool {
	for _, a := range AggValues() {
		if strings.HasPrefix(column, a.String()+"_") {
			return true
		}
	}
	return strings.HasPrefix(column, "countstar")
}

func hasDuplicateStrings(items []string) bool {
	seen := make(map[string]bool, len(items))
	for _, it := range items {
		if seen[it] {
			return true
		}
		seen[it] = true
	}
	return false
}

// getOutput resolves a set of unqualified output names against the columns
// produced by inputs, recognizing the two synthetic aliases ("1 AS One",
// "countstar AS Count_Star") and any aggregate-alias-shaped name.
func getOutput(env *QplEnvironment, inputs []int, outs []string) (Table, error) {
	var prev []Table
	for _, i := range inputs {
		t, ok := env.State.IdxToTable[i]
		if !ok {
			return Table{}, ErrUnknownLineIndex
		}
		prev = append(prev, t)
	}
	columns := make([]Column, 0, len(outs))
	for _, out := range outs {
		col, ok := resolveSyntheticOrPrior(out, prev)
		if !ok {
			return Table{}, ErrOutputNotSubset
		}
		columns = append(columns, col)
	}
	return IndexedTable(env.State.CurrentIdx, columns), nil
}

func resolveSyntheticOrPrior(out string, prev []Table) (Column, bool) {
	switch {
	case out == "1 AS One":
		return DummyColumn(), true
	case out == "countstar AS Count_Star":
		return AliasedColumn("Count_Star", Number, nil), true
	case startsWithAgg(out):
		return AliasedColumn(out, Number, nil), true
	}
	for _, t := range prev {
		for _, c := range t.Columns {
			if c.ColumnName() == out {
				return c, true
			}
		}
	}
	return Column{}, false
}

// getIndexedOutputTable builds a Table::Indexed from a list of "#idx.col"
// references, as Join/Intersect/Except/Union all do for their Output list.
func getIndexedOutputTable(env *QplEnvironment, refs []IndexedColumnRef) (Table, error) {
	columns := make([]Column, 0, len(refs))
	for _, ref := range refs {
		switch {
		case ref.Column == "1 AS One":
			columns = append(columns, DummyColumn())
		case ref.Column == "countstar AS Count_Star":
			columns = append(columns, AliasedColumn("Count_Star", Number, nil))
		case startsWithAgg(ref.Column):
			columns = append(columns, AliasedColumn(ref.Column, Number, nil))
		default:
			table, ok := env.State.IdxToTable[ref.Idx]
			if !ok {
				return Table{}, ErrUnknownLineIndex
			}
			found := false
			for _, col := range table.Columns {
				if col.ColumnName() == ref.Column {
					columns = append(columns, col)
					found = true
					break
				}
			}
			if !found {
				return Table{}, ErrOutputNotSubset
			}
		}
	}
	return IndexedTable(env.State.CurrentIdx, columns), nil
}

// getOutputTable builds the Table::Named a Scan line produces: every output
// column's type and keys are looked up fresh from the schema, since a Scan
// is the only operation reading directly from a base table.
func getOutputTable(schema *SqlSchema, table string, outs []ColumnRef) Table {
	columns := make([]Column, 0, len(outs))
	for _, out := range outs {
		if out.Name == "1 AS One" {
			columns = append(columns, DummyColumn())
			continue
		}
		name := out.Name
		if out.Alias != "" {
			name = out.Alias
		}
		typ, _ := schema.ColumnType(table, out.Name)
		keys := schema.ColumnKey(table, out.Name)
		columns = append(columns, PlainColumn(name, typ, keys))
	}
	return NamedTable(table, columns)
}

func hasDuplicateColumnRefs(refs []ColumnRef) bool {
	seen := make(map[ColumnRef]bool, len(refs))
	for _, r := range refs {
		if seen[r] {
			return true
		}
		seen[r] = true
	}
	return false
}
