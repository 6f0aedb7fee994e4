package qpl

import (
	"strings"

	"github.com/qplang/qpl/cursor"
)

// parseAggregate parses "Aggregate [ #n ] GroupBy [ ... ] Output [ ... ]",
// with GroupBy optional.
func parseAggregate(c *cursor.Cursor, env *QplEnvironment) (Operation, error) {
	if err := literalExact("Aggregate ")(c, env); err != nil {
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

	groupBy, _, err := opt(c, env, aggregateGroupBy(idx))
	if err != nil {
		return Operation{}, err
	}

	if err := literalExact("Output [ ")(c, env); err != nil {
		return Operation{}, err
	}
	outs, err := aggregateOutputs(idx)(c, env)
	if err != nil {
		return Operation{}, err
	}
	if !validateAggregateOutput(idx, outs, env) {
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

	return Operation{Kind: OpAggregate, Inputs: inputs, GroupBy: groupBy}, nil
}

func aggregateGroupBy(idx int) ParserFunc[[]string] {
	return func(c *cursor.Cursor, env *QplEnvironment) ([]string, error) {
		if err := literalExact("GroupBy [ ")(c, env); err != nil {
			return nil, err
		}
		cols, err := sepBy(c, env, 1, 0, columnInIndex(idx, columnParserNamed), columnListSep)
		if err != nil {
			return nil, err
		}
		if err := literalExact(" ] ")(c, env); err != nil {
			return nil, err
		}
		return cols, nil
	}
}

func aggregateOutputs(idx int) ParserFunc[[]string] {
	return func(c *cursor.Cursor, env *QplEnvironment) ([]string, error) {
		item := func(c *cursor.Cursor, env *QplEnvironment) (string, error) {
			return alt(c, env,
				func(c *cursor.Cursor, env *QplEnvironment) (string, error) {
					if err := c.Literal("countstar AS Count_Star"); err != nil {
						return "", err
					}
					return "countstar AS Count_Star", nil
				},
				aliasedAggregate(idx),
				columnName,
			)
		}
		return sepBy(c, env, 1, 0, item, columnListSep)
	}
}

// aliasedAggregate parses "<AGG>([DISTINCT ]<column>) AS <AGG>_[Dist_]<column>",
// requiring the alias to literally echo the aggregate/DISTINCT/column it
// names (case-insensitively for the column part).
func aliasedAggregate(idx int) ParserFunc[string] {
	return func(c *cursor.Cursor, env *QplEnvironment) (string, error) {
		agg, err := parseAgg(c, env)
		if err != nil {
			return "", err
		}
		if err := literalExact("(")(c, env); err != nil {
			return "", err
		}
		_, isDistinct, err := opt(c, env, literalP("DISTINCT "))
		if err != nil {
			return "", err
		}
		col, err := columnInIndex(idx, columnParserNamed)(c, env)
		if err != nil {
			return "", err
		}
		if err := literalExact(") AS ")(c, env); err != nil {
			return "", err
		}
		if err := literalExact(agg.String() + "_")(c, env); err != nil {
			return "", err
		}
		if isDistinct {
			if err := literalExact("Dist_")(c, env); err != nil {
				return "", err
			}
		}
		if err := c.CaselessLiteral(col); err != nil {
			return "", err
		}
		alias := agg.String() + "_"
		if isDistinct {
			alias += "Dist_"
		}
		alias += col
		return alias, nil
	}
}

func parseAgg(c *cursor.Cursor, env *QplEnvironment) (Agg, error) {
	for _, agg := range AggValues() {
		if err := c.CaselessLiteral(strings.ToUpper(agg.String())); err == nil {
			return agg, nil
		} else if cursor.IsIncomplete(err) {
			return 0, err
		}
	}
	return 0, ErrInvalidAggregate
}

func validateAggregateOutput(idx int, outs []string, env *QplEnvironment) bool {
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
		if startsWithAgg(out) {
			continue
		}
		if !prevCols[out] {
			return false
		}
	}
	return true
}
