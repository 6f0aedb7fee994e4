package qpl

import "github.com/qplang/qpl/cursor"

// parseExcept parses "Except [ #a, #b ] ( Predicate [ ... ] | ExceptColumns [ #idx.col ] ) Distinct [ true ] Output [ ... ]".
func parseExcept(withTypeChecking bool) ParserFunc[Operation] {
	return func(c *cursor.Cursor, env *QplEnvironment) (Operation, error) {
		if err := literalExact("Except ")(c, env); err != nil {
			return Operation{}, err
		}
		inputs, err := inputIds(c, env)
		if err != nil {
			return Operation{}, err
		}
		if len(inputs) != 2 {
			return Operation{}, ErrWrongInputCount
		}

		comparison := exceptComparison(withTypeChecking, inputs)
		predSelector := func(c *cursor.Cursor, env *QplEnvironment) (Operation, error) {
			p, err := predicateWrapper(func(c *cursor.Cursor, env *QplEnvironment) (Predicate, error) {
				return foldPredicate(c, env, comparison)
			})(c, env)
			if err != nil {
				return Operation{}, err
			}
			return Operation{ExceptSelector: ExceptByPredicate, Predicate: &p}, nil
		}
		columnsSelector := func(c *cursor.Cursor, env *QplEnvironment) (Operation, error) {
			if err := literalExact("ExceptColumns [ ")(c, env); err != nil {
				return Operation{}, err
			}
			ref, err := indexedColumn(inputs)(c, env)
			if err != nil {
				return Operation{}, err
			}
			if err := literalExact(" ] ")(c, env); err != nil {
				return Operation{}, err
			}
			return Operation{ExceptSelector: ExceptByColumns, ExceptColumn: ref.Column}, nil
		}
		selected, err := alt(c, env, predSelector, columnsSelector)
		if err != nil {
			return Operation{}, err
		}

		_, isDistinct, err := opt(c, env, literalP("Distinct [ true ] "))
		if err != nil {
			return Operation{}, err
		}
		selected.IsDistinct = isDistinct

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

		selected.Kind = OpExcept
		selected.Inputs = inputs
		return selected, nil
	}
}

// exceptComparison is the simpler, non-sharpened comparison Except's
// predicate branch uses: the RHS is just type-compatible (a column on the
// RHS is a "#idx.column" reference into either input), no PK/FK
// discipline is enforced.
func exceptComparison(withTypeChecking bool, inputs []int) ParserFunc[Comparison] {
	return func(c *cursor.Cursor, env *QplEnvironment) (Comparison, error) {
		lhsRef, err := indexedColumn(inputs)(c, env)
		if err != nil {
			return Comparison{}, err
		}
		lhsTable := env.State.IdxToTable[lhsRef.Idx]
		var lhsType ColumnType
		for _, col := range lhsTable.Columns {
			if col.ColumnName() == lhsRef.Column {
				lhsType = col.Type
				break
			}
		}

		op, err := spacedComparisonOp(c, env)
		if err != nil {
			return Comparison{}, err
		}

		var rhsParser ParserFunc[Comparable]
		if withTypeChecking {
			rhsParser = comparableParser(true, lhsType, columnOfTypeInIndices(inputs, lhsType))
		} else {
			rhsParser = comparableParser(false, Others, untypedColumnInIndices(inputs))
		}
		rhs, err := rhsParser(c, env)
		if err != nil {
			return Comparison{}, err
		}
		return NewComparison(op, ColumnComparable(lhsRef.Column), rhs), nil
	}
}
