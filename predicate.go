package qpl

import "github.com/qplang/qpl/cursor"

// predTerm is one entry of a parsed AND/OR chain: the first term has no
// leading operator, every later term records whether it was joined by AND
// or OR.
type predTerm struct {
	pred  Predicate
	isAnd bool
	hasOp bool
}

// foldPredicate implements the left-associative "C1 AND C2 OR C3 ..." fold:
// no operator precedence, each subsequent AND/OR combines with everything
// parsed so far, never reassociated. Terms are collected onto a stack as
// they're parsed, then drained through a second stack to restore parse
// order before folding. The join key search below also walks its candidate
// list in declared order, by pushing it onto a single stack in reverse.
func foldPredicate(c *cursor.Cursor, env *QplEnvironment, comparison ParserFunc[Comparison]) (Predicate, error) {
	first, err := comparison(c, env)
	if err != nil {
		return Predicate{}, err
	}

	terms := &stack[predTerm]{}
	terms.push(predTerm{pred: SinglePredicate(first)})

	for {
		cp := mark(c, env)
		isAnd, ok, err := opt(c, env, func(c *cursor.Cursor, _ *QplEnvironment) (bool, error) {
			return true, c.Literal(" AND ")
		})
		if err != nil {
			cp.restore(c, env)
			return Predicate{}, err
		}
		if !ok {
			isAnd, ok, err = opt(c, env, func(c *cursor.Cursor, _ *QplEnvironment) (bool, error) {
				return false, c.Literal(" OR ")
			})
			if err != nil {
				cp.restore(c, env)
				return Predicate{}, err
			}
		}
		if !ok {
			cp.restore(c, env)
			break
		}
		next, err := comparison(c, env)
		if err != nil {
			cp.restore(c, env)
			return Predicate{}, err
		}
		terms.push(predTerm{pred: SinglePredicate(next), isAnd: isAnd, hasOp: true})
	}

	ordered := &stack[predTerm]{}
	for {
		t, ok := terms.pop()
		if !ok {
			break
		}
		ordered.push(t)
	}

	head, _ := ordered.pop()
	acc := head.pred
	for {
		t, ok := ordered.pop()
		if !ok {
			break
		}
		if t.isAnd {
			acc = AndPredicate(acc, t.pred)
		} else {
			acc = OrPredicate(acc, t.pred)
		}
	}
	return acc, nil
}

// comparableParser returns a parser for the RHS of a comparison given the
// LHS column's declared type and whether type checking is enforced. Without
// type checking, any of the four literal shapes or a same-context column is
// accepted (the original's untyped `comparable`); with it, only the shapes
// the type table in spec section 4.4 allows for lhsType are tried.
func comparableParser(withTypeChecking bool, lhsType ColumnType, colInContext ParserFunc[Comparable]) ParserFunc[Comparable] {
	if !withTypeChecking {
		return func(c *cursor.Cursor, env *QplEnvironment) (Comparable, error) {
			return alt(c, env, numberComparable, booleanComparable, stringComparable, nullComparable, colInContext)
		}
	}
	switch lhsType {
	case Number:
		return func(c *cursor.Cursor, env *QplEnvironment) (Comparable, error) {
			return alt(c, env, numberComparable, nullComparable, colInContext)
		}
	case Boolean:
		return func(c *cursor.Cursor, env *QplEnvironment) (Comparable, error) {
			return alt(c, env, booleanComparable, nullComparable, colInContext)
		}
	case Text, Time:
		return func(c *cursor.Cursor, env *QplEnvironment) (Comparable, error) {
			return alt(c, env, stringComparable, nullComparable, colInContext)
		}
	default: // Others
		return func(c *cursor.Cursor, env *QplEnvironment) (Comparable, error) {
			return alt(c, env, numberComparable, booleanComparable, stringComparable, nullComparable, colInContext)
		}
	}
}

// columnOfTypeInTable restricts columnInTable to columns whose schema type
// equals typ, used on the RHS of a type-checked comparison (spec 4.4: a
// column on the RHS must match the LHS's declared type).
func columnOfTypeInTable(table string, typ ColumnType) ParserFunc[Comparable] {
	return func(c *cursor.Cursor, env *QplEnvironment) (Comparable, error) {
		col, err := columnName(c, env)
		if err != nil {
			return Comparable{}, err
		}
		gotType, ok := env.Schema.ColumnType(table, col)
		if !ok || gotType != typ {
			return Comparable{}, ErrTypeMismatch
		}
		return ColumnComparable(col), nil
	}
}

// columnOfTypeInIndex is columnOfTypeInTable's equivalent for operations
// that reference a prior line's output by index rather than a base table.
func columnOfTypeInIndex(idx int, typ ColumnType) ParserFunc[Comparable] {
	return func(c *cursor.Cursor, env *QplEnvironment) (Comparable, error) {
		col, err := alt(c, env, columnInIndex(idx, columnParserNamed), columnInIndex(idx, columnParserAliased))
		if err != nil {
			return Comparable{}, err
		}
		table, ok := env.State.IdxToTable[idx]
		if !ok {
			return Comparable{}, ErrUnknownLineIndex
		}
		for _, tc := range table.Columns {
			if tc.ColumnName() == col && tc.Type == typ {
				return ColumnComparable(col), nil
			}
		}
		return Comparable{}, ErrTypeMismatch
	}
}

// untypedColumnInIndex accepts any named or aliased column of idx's table,
// used when type checking is disabled.
func untypedColumnInIndex(idx int) ParserFunc[Comparable] {
	return func(c *cursor.Cursor, env *QplEnvironment) (Comparable, error) {
		col, err := alt(c, env, columnInIndex(idx, columnParserNamed), columnInIndex(idx, columnParserAliased))
		if err != nil {
			return Comparable{}, err
		}
		return ColumnComparable(col), nil
	}
}

// columnOfTypeInIndices is columnOfTypeInIndex's multi-input counterpart:
// it resolves a "#idx.column" reference against any of idxs rather than a
// single fixed index, matching the original's type_comparable, which
// searches the join's full input_idxs instead of picking one side.
func columnOfTypeInIndices(idxs []int, typ ColumnType) ParserFunc[Comparable] {
	return func(c *cursor.Cursor, env *QplEnvironment) (Comparable, error) {
		ref, err := indexedColumn(idxs)(c, env)
		if err != nil {
			return Comparable{}, err
		}
		table, ok := env.State.IdxToTable[ref.Idx]
		if !ok {
			return Comparable{}, ErrUnknownLineIndex
		}
		for _, tc := range table.Columns {
			if tc.ColumnName() == ref.Column && tc.Type == typ {
				return ColumnComparable(ref.Column), nil
			}
		}
		return Comparable{}, ErrTypeMismatch
	}
}

// untypedColumnInIndices is untypedColumnInIndex's multi-input counterpart,
// used when type checking is disabled.
func untypedColumnInIndices(idxs []int) ParserFunc[Comparable] {
	return func(c *cursor.Cursor, env *QplEnvironment) (Comparable, error) {
		ref, err := indexedColumn(idxs)(c, env)
		if err != nil {
			return Comparable{}, err
		}
		return ColumnComparable(ref.Column), nil
	}
}

// sharpenedJoinKey implements the original's join key search: it parses a
// "#idx.column" reference from inputs, then requires the referenced
// column's keys to satisfy one of the LHS column's declared keys in
// order — a PrimaryKey{T} on the LHS expects the RHS to carry
// ForeignKey{T}; a ForeignKey{T} on the LHS expects the RHS to carry
// ForeignKey{T} or PrimaryKey{T} — falling back to accepting any Aliased
// RHS column of the same type. A parsed-but-non-matching RHS is a clean
// Mismatch, never the panic the original's `todo!()` produced.
func sharpenedJoinKey(inputs []int, lhsType ColumnType, lhsKeys []KeyType) ParserFunc[Comparable] {
	return func(c *cursor.Cursor, env *QplEnvironment) (Comparable, error) {
		ref, err := indexedColumn(inputs)(c, env)
		if err != nil {
			return Comparable{}, err
		}
		table, ok := env.State.IdxToTable[ref.Idx]
		if !ok {
			return Comparable{}, ErrUnknownLineIndex
		}
		var rc *Column
		for i := range table.Columns {
			if table.Columns[i].ColumnName() == ref.Column {
				rc = &table.Columns[i]
				break
			}
		}
		if rc == nil {
			return Comparable{}, ErrUnknownColumn
		}
		pending := &stack[KeyType]{}
		for i := len(lhsKeys) - 1; i >= 0; i-- {
			pending.push(lhsKeys[i])
		}
		for {
			key, ok := pending.pop()
			if !ok {
				break
			}
			switch key.Kind {
			case PrimaryKey:
				if hasKey(rc.Keys, ForeignKey, key.Table) {
					return ColumnComparable(ref.Column), nil
				}
			case ForeignKey:
				if hasKey(rc.Keys, ForeignKey, key.Table) || hasKey(rc.Keys, PrimaryKey, key.Table) {
					return ColumnComparable(ref.Column), nil
				}
			}
		}
		if rc.Kind == ColumnAliased && rc.Type == lhsType {
			return ColumnComparable(ref.Column), nil
		}
		return Comparable{}, ErrNoJoinKey
	}
}

func hasKey(keys []KeyType, kind KeyKind, table string) bool {
	for _, k := range keys {
		if k.Kind == kind && k.Table == table {
			return true
		}
	}
	return false
}
