package qpl

import "github.com/qplang/qpl/cursor"

// parseTop parses "Top [ #k ] Rows [ n ] Output [ outputs ]". As in Sort
// and TopSort, the output list accepts only column names and aggregate
// aliases: the "1 AS One" dummy column is not offered as an alternative,
// matching the original grammar.
func parseTop(c *cursor.Cursor, env *QplEnvironment) (Operation, error) {
	if err := literalExact("Top ")(c, env); err != nil {
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
	if err := literalExact(" ] Output [ ")(c, env); err != nil {
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

	return Operation{Kind: OpTop, Inputs: inputs, Rows: rows}, nil
}
