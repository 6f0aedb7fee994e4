package qpl

import "github.com/qplang/qpl/cursor"

// parseTopSort parses "TopSort [ #k ] Rows [ n ] OrderBy [ orderings ] WithTies [ true ] Output [ outputs ]".
func parseTopSort(c *cursor.Cursor, env *QplEnvironment) (Operation, error) {
	if err := literalExact("TopSort ")(c, env); err != nil {
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

	if err := literalExact("Rows [ ")(c, env); err != nil {
		return Operation{}, err
	}
	rows, err := decUint(c, env)
	if err != nil {
		return Operation{}, err
	}
	if err := literalExact(" ] OrderBy [ ")(c, env); err != nil {
		return Operation{}, err
	}
	orderings, err := sepBy(c, env, 1, 0, orderBy(idx), columnListSep)
	if err != nil {
		return Operation{}, err
	}
	if err := literalExact(" ] ")(c, env); err != nil {
		return Operation{}, err
	}

	_, withTies, err := opt(c, env, literalP("WithTies [ true ] "))
	if err != nil {
		return Operation{}, err
	}

	if err := literalExact("Output [ ")(c, env); err != nil {
		return Operation{}, err
	}
	outs, err := sepBy(c, env, 1, 0, alt2(columnName, aliasedColumn), columnListSep)
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

	return Operation{
		Kind:     OpTopSort,
		Inputs:   inputs,
		Rows:     rows,
		OrderBy:  orderings,
		WithTies: withTies,
	}, nil
}
