package qpl

import "github.com/qplang/qpl/cursor"

// Sentinel reasons wrapped into cursor.Mismatch errors at the exact points
// a grammar rule can definitively reject input. Kept as a flat list, the
// same shape as a typical error taxonomy, so callers can errors.Is against
// a specific cause instead of parsing Error.Msg strings.
var (
	ErrUnknownTable        = cursor.Mismatch("unknown table")
	ErrUnknownColumn       = cursor.Mismatch("unknown column")
	ErrUnknownSchema       = cursor.Mismatch("unknown schema")
	ErrUnknownLineIndex    = cursor.Mismatch("unknown line index")
	ErrDuplicateOutput     = cursor.Mismatch("duplicate output column")
	ErrTypeMismatch        = cursor.Mismatch("comparison type mismatch")
	ErrWrongInputCount     = cursor.Mismatch("wrong number of inputs")
	ErrInvalidComparisonOp = cursor.Mismatch("invalid comparison operator")
	ErrInvalidAggregate    = cursor.Mismatch("invalid aggregate function")
	ErrBadLineIndex        = cursor.Mismatch("line index out of sequence")
	ErrNoJoinKey           = cursor.Mismatch("no matching join key")
	ErrOutputNotSubset     = cursor.Mismatch("output column not produced by input")
	ErrNoSchemaSelected    = cursor.Mismatch("no schema selected")
)
