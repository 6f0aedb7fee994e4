package qpl

import (
	"strconv"

	"github.com/qplang/qpl/cursor"
)

// parseLine parses one "#<k> = <operation>" line, where k must equal the
// current line index plus one. current_idx is advanced before the
// operation is dispatched, since every operation parser reads
// env.State.CurrentIdx to know where to record its output table.
func parseLine(withTypeChecking bool) ParserFunc[Line] {
	return func(c *cursor.Cursor, env *QplEnvironment) (Line, error) {
		wantIdx := env.State.CurrentIdx + 1
		if err := literalExact("#" + strconv.Itoa(wantIdx) + " = ")(c, env); err != nil {
			return Line{}, err
		}
		env.State.CurrentIdx = wantIdx

		op, err := alt(c, env,
			parseScan(withTypeChecking),
			parseAggregate,
			parseFilter(withTypeChecking),
			parseTop,
			parseSort,
			parseTopSort,
			parseJoin(withTypeChecking),
			parseIntersect(withTypeChecking),
			parseExcept(withTypeChecking),
			parseUnion,
		)
		if err != nil {
			return Line{}, err
		}
		env.State.Seen[wantIdx] = true
		return Line{Idx: wantIdx, Operation: op}, nil
	}
}

// parseQpl parses a non-empty sequence of lines separated by the exact
// literal " ; ", expecting nothing but those lines (the caller is
// responsible for requiring EOF afterward).
func parseQpl(withTypeChecking bool) ParserFunc[Qpl] {
	return func(c *cursor.Cursor, env *QplEnvironment) (Qpl, error) {
		sep := literalP(" ; ")
		lines, err := sepBy(c, env, 1, 0, parseLine(withTypeChecking), sep)
		if err != nil {
			return Qpl{}, err
		}
		return Qpl{Lines: lines}, nil
	}
}
