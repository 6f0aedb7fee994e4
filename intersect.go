package qpl

import "github.com/qplang/qpl/cursor"

// parseIntersect has the identical shape to Join, differing only in its
// leading keyword (spec section 4.5).
func parseIntersect(withTypeChecking bool) ParserFunc[Operation] {
	return func(c *cursor.Cursor, env *QplEnvironment) (Operation, error) {
		if err := literalExact("Intersect ")(c, env); err != nil {
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

		return Operation{Kind: OpIntersect, Inputs: inputs, Predicate: &pred, IsDistinct: isDistinct}, nil
	}
}
