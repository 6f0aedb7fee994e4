package qpl

import "github.com/qplang/qpl/cursor"

// parseJoin parses "Join [ #l, #r ] Predicate [ ... ] Distinct [ true ] Output [ ... ]",
// with Distinct optional. Join
// predicates use the key-sharpening algorithm (see sharpenedJoinKey) on the
// RHS of each comparison instead of a plain type-compatible literal/column.
func parseJoin(withTypeChecking bool) ParserFunc[Operation] {
	return func(c *cursor.Cursor, env *QplEnvironment) (Operation, error) {
		if err := literalExact("Join ")(c, env); err != nil {
			return Operation{}, err
		}
		inputs, err := inputIds(c, env)
		if err != nil {
			return Operation{}, err
		}
		if len(inputs) != 2 {
			return Operation{}, ErrWrongInputCount
		}

		comparison := joinComparison(withTypeChecking, inputs)
		pred, err := predicateWrapper(func(c *cursor.Cursor, env *QplEnvironment) (Predicate, error) {
			return foldPredicate(c, env, comparison)
		})(c, env)
		if err != nil {
			return Operation{}, err
		}

		_, isDistinct, err := opt(c, env, literalP("Distinct [ true ] "))
		if err != nil {
			return Operation{}, err
		}

		if err := literalExact("Output [ ")(c, env); err != nil {
			return Operation{}, err
		}
		outs, err := indexedOutputList(inputs)(c, env)
		if err != nil {
			return Operation{}, err
		}
		if !validateIndexedOutput(outs) {
			return Operation{}, ErrOutputNotSubset
		}

		outTable, err := getIndexedOutputTable(env, outs)
		if err != nil {
			return Operation{}, err
		}
		env.State.IdxToTable[env.State.CurrentIdx] = outTable

		if err := literalExact(" ]")(c, env); err != nil {
			return Operation{}, err
		}

		return Operation{Kind: OpJoin, Inputs: inputs, Predicate: &pred, IsDistinct: isDistinct}, nil
	}
}

// joinComparison parses one join-predicate comparison: the LHS must be a
// column from either input index, and for equality comparisons with a Plain
// LHS column the RHS is resolved through sharpenedJoinKey; other operators,
// and an Aliased LHS, fall back to a plain type-compatible comparable.
func joinComparison(withTypeChecking bool, inputs []int) ParserFunc[Comparison] {
	return func(c *cursor.Cursor, env *QplEnvironment) (Comparison, error) {
		lhsRef, err := indexedColumn(inputs)(c, env)
		if err != nil {
			return Comparison{}, err
		}
		lhsTable := env.State.IdxToTable[lhsRef.Idx]
		var lhsCol *Column
		for i := range lhsTable.Columns {
			if lhsTable.Columns[i].ColumnName() == lhsRef.Column {
				lhsCol = &lhsTable.Columns[i]
				break
			}
		}
		if lhsCol == nil {
			return Comparison{}, ErrUnknownColumn
		}

		op, err := spacedComparisonOp(c, env)
		if err != nil {
			return Comparison{}, err
		}

		var rhsParser ParserFunc[Comparable]
		switch {
		case op == OpEqual && lhsCol.Kind == ColumnPlain:
			rhsParser = sharpenedJoinKey(inputs, lhsCol.Type, lhsCol.Keys)
		case withTypeChecking:
			rhsParser = comparableParser(true, lhsCol.Type, columnOfTypeInIndices(inputs, lhsCol.Type))
		default:
			rhsParser = comparableParser(false, Others, untypedColumnInIndices(inputs))
		}
		rhs, err := rhsParser(c, env)
		if err != nil {
			return Comparison{}, err
		}
		return NewComparison(op, ColumnComparable(lhsRef.Column), rhs), nil
	}
}

// indexedOutputList parses "#idx.col, #idx.col, ... ]" for operations whose
// outputs are all references into prior lines (Join/Intersect/Except/Union).
func indexedOutputList(inputs []int) ParserFunc[[]IndexedColumnRef] {
	return func(c *cursor.Cursor, env *QplEnvironment) ([]IndexedColumnRef, error) {
		sep := func(c *cursor.Cursor, env *QplEnvironment) (struct{}, error) {
			if _, err := multispace0(c, env); err != nil {
				return struct{}{}, err
			}
			return literalExact(", ")(c, env)
		}
		return sepBy(c, env, 1, 0, indexedColumn(inputs), sep)
	}
}

func validateIndexedOutput(outs []IndexedColumnRef) bool {
	seen := make(map[IndexedColumnRef]bool, len(outs))
	for _, o := range outs {
		if seen[o] {
			return false
		}
		seen[o] = true
	}
	return true
}
