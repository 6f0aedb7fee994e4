package qpl

import "github.com/qplang/qpl/cursor"

// parseFilter parses "Filter [ #n ] Predicate [ ... ] Distinct [ true ] Output [ ... ]".
// Unlike Scan, Filter reads from a prior line's Indexed/Named table rather
// than a base table, so its column lookups go through columnInIndex.
func parseFilter(withTypeChecking bool) ParserFunc[Operation] {
	return func(c *cursor.Cursor, env *QplEnvironment) (Operation, error) {
		if err := literalExact("Filter ")(c, env); err != nil {
			return Operation{}, err
		}
		inputs, err := inputIds(c, env)
		if err != nil {
			return Operation{}, err
		}
		if len(inputs) != 1 {
			return Operation{}, ErrWrongInputCount
		}
		idx := inputs[0]

		comparison := indexComparison(withTypeChecking, idx)
		pred, hasPred, err := opt(c, env, predicateWrapper(func(c *cursor.Cursor, env *QplEnvironment) (Predicate, error) {
			return foldPredicate(c, env, comparison)
		}))
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
		outs, err := alt(c, env,
			func(c *cursor.Cursor, env *QplEnvironment) ([]string, error) {
				if err := c.Literal("1 AS One"); err != nil {
					return nil, err
				}
				return []string{"1 AS One"}, nil
			},
			func(c *cursor.Cursor, env *QplEnvironment) ([]string, error) {
				return sepBy(c, env, 1, 0, alt2(columnName, aliasedColumn), columnListSep)
			},
		)
		if err != nil {
			return Operation{}, err
		}
		if !validateSubsetOutput(idx, outs, env) {
			return Operation{}, ErrOutputNotSubset
		}

		outTable, err := getOutput(env, inputs, outs)
		if err != nil {
			return Operation{}, err
		}
		env.State.IdxToTable[env.State.CurrentIdx] = outTable

		if err := literalExact(" ]")(c, env); err != nil {
			return Operation{}, err
		}

		op := Operation{Kind: OpFilter, Inputs: inputs, IsDistinct: isDistinct}
		if hasPred {
			op.Predicate = &pred
		}
		return op, nil
	}
}

// alt2 is alt specialized to exactly two string-returning alternatives, the
// common "columnName, else aliasedColumn" output shape several operations
// share.
func alt2(a, b ParserFunc[string]) ParserFunc[string] {
	return func(c *cursor.Cursor, env *QplEnvironment) (string, error) {
		return alt(c, env, a, b)
	}
}

// validateSubsetOutput checks that every non-synthetic output name was
// already produced by idx's table, and that outs has no duplicates.
func validateSubsetOutput(idx int, outs []string, env *QplEnvironment) bool {
	if hasDuplicateStrings(outs) {
		return false
	}
	table, ok := env.State.IdxToTable[idx]
	if !ok {
		return false
	}
	prevCols := make(map[string]bool, len(table.Columns))
	for _, col := range table.Columns {
		if n := col.ColumnName(); n != "" {
			prevCols[n] = true
		}
	}
	for _, out := range outs {
		if startsWithAgg(out) || out == "1 AS One" || out == "countstar AS Count_Star" {
			continue
		}
		if !prevCols[out] {
			return false
		}
	}
	return true
}

// indexComparison parses one "<column> <op> <value>" comparison whose LHS
// must belong to the table produced by idx.
func indexComparison(withTypeChecking bool, idx int) ParserFunc[Comparison] {
	return func(c *cursor.Cursor, env *QplEnvironment) (Comparison, error) {
		lhs, err := alt(c, env, columnInIndex(idx, columnParserNamed), columnInIndex(idx, columnParserAliased))
		if err != nil {
			return Comparison{}, err
		}
		op, err := spacedComparisonOp(c, env)
		if err != nil {
			return Comparison{}, err
		}
		var rhsParser ParserFunc[Comparable]
		if withTypeChecking {
			typ, ok := columnTypeInIndex(env, idx, lhs)
			if !ok {
				return Comparison{}, ErrTypeMismatch
			}
			rhsParser = comparableParser(true, typ, columnOfTypeInIndex(idx, typ))
		} else {
			rhsParser = comparableParser(false, Others, untypedColumnInIndex(idx))
		}
		rhs, err := rhsParser(c, env)
		if err != nil {
			return Comparison{}, err
		}
		return NewComparison(op, ColumnComparable(lhs), rhs), nil
	}
}

func columnTypeInIndex(env *QplEnvironment, idx int, column string) (ColumnType, bool) {
	table, ok := env.State.IdxToTable[idx]
	if !ok {
		return 0, false
	}
	for _, c := range table.Columns {
		if c.ColumnName() == column {
			return c.Type, true
		}
	}
	return 0, false
}
