package qpl

import "github.com/qplang/qpl/cursor"

// parseScan parses "Scan Table [ <table> ] Predicate [ ... ] Distinct [ true ] Output [ ... ]",
// with Predicate and Distinct optional, and records the Named table the
// line produces.
func parseScan(withTypeChecking bool) ParserFunc[Operation] {
	return func(c *cursor.Cursor, env *QplEnvironment) (Operation, error) {
		if err := literalExact("Scan Table [ ")(c, env); err != nil {
			return Operation{}, err
		}
		table, err := tableName(c, env)
		if err != nil {
			return Operation{}, err
		}
		if err := literalExact(" ] ")(c, env); err != nil {
			return Operation{}, err
		}

		comparison := scanComparison(withTypeChecking, table)
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
			func(c *cursor.Cursor, env *QplEnvironment) ([]ColumnRef, error) {
				if err := c.Literal("1 AS One"); err != nil {
					return nil, err
				}
				return []ColumnRef{{Name: "1 AS One"}}, nil
			},
			func(c *cursor.Cursor, env *QplEnvironment) ([]ColumnRef, error) {
				return sepBy(c, env, 1, 0, columnInTable(table), columnListSep)
			},
		)
		if err != nil {
			return Operation{}, err
		}
		if hasDuplicateColumnRefs(outs) {
			return Operation{}, ErrDuplicateOutput
		}

		outputTable := getOutputTable(env.Schema, table, outs)
		env.State.IdxToTable[env.State.CurrentIdx] = outputTable

		if err := literalExact(" ]")(c, env); err != nil {
			return Operation{}, err
		}

		op := Operation{Kind: OpScan, Table: table, IsDistinct: isDistinct}
		if hasPred {
			op.Predicate = &pred
		}
		return op, nil
	}
}

func columnListSep(c *cursor.Cursor, env *QplEnvironment) (struct{}, error) {
	if _, err := multispace0(c, env); err != nil {
		return struct{}{}, err
	}
	return literalExact(", ")(c, env)
}

// scanComparison parses one "<column> <op> <value>" comparison whose LHS
// must belong to table.
func scanComparison(withTypeChecking bool, table string) ParserFunc[Comparison] {
	return func(c *cursor.Cursor, env *QplEnvironment) (Comparison, error) {
		lhs, err := columnInTable(table)(c, env)
		if err != nil {
			return Comparison{}, err
		}
		op, err := spacedComparisonOp(c, env)
		if err != nil {
			return Comparison{}, err
		}
		var rhsParser ParserFunc[Comparable]
		if withTypeChecking {
			typ, ok := env.Schema.ColumnType(table, lhs.Name)
			if !ok {
				return Comparison{}, ErrTypeMismatch
			}
			rhsParser = comparableParser(true, typ, columnOfTypeInTable(table, typ))
		} else {
			rhsParser = comparableParser(false, Others, untypedColumnInTable(table))
		}
		rhs, err := rhsParser(c, env)
		if err != nil {
			return Comparison{}, err
		}
		return NewComparison(op, ColumnComparable(lhs.Name), rhs), nil
	}
}

func untypedColumnInTable(table string) ParserFunc[Comparable] {
	return func(c *cursor.Cursor, env *QplEnvironment) (Comparable, error) {
		ref, err := columnInTable(table)(c, env)
		if err != nil {
			return Comparable{}, err
		}
		return ColumnComparable(ref.Name), nil
	}
}
