package qpl

import "github.com/qplang/qpl/cursor"

// parseUnion parses "Union [ #a, #b ] Output [ <indexed-outputs> ]". No
// predicate, no Distinct.
func parseUnion(c *cursor.Cursor, env *QplEnvironment) (Operation, error) {
	if err := literalExact("Union ")(c, env); err != nil {
		return Operation{}, err
	}
	inputs, err := inputIds(c, env)
	if err != nil {
		return Operation{}, err
	}
	if len(inputs) != 2 {
		return Operation{}, ErrWrongInputCount
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

	return Operation{Kind: OpUnion, Inputs: inputs}, nil
}
