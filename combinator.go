package qpl

import "github.com/qplang/qpl/cursor"

// ParserFunc is the shape every grammar rule in this package has: read from
// c, possibly mutate env, produce a T or fail with a cursor.Error whose Kind
// says whether more input could still save the parse.
type ParserFunc[T any] func(c *cursor.Cursor, env *QplEnvironment) (T, error)

// checkpoint bundles a cursor offset with an environment snapshot, taken
// together so a failed alternative can be undone atomically.
type checkpoint struct {
	off  int
	snap snapshot
}

func mark(c *cursor.Cursor, env *QplEnvironment) checkpoint {
	return checkpoint{off: c.Mark(), snap: env.Snapshot()}
}

func (cp checkpoint) restore(c *cursor.Cursor, env *QplEnvironment) {
	c.Reset(cp.off)
	env.Restore(cp.snap)
}

// alt tries each parser in order against an independent checkpoint. A
// Mismatch on one branch lets the next be tried; an Incomplete on any
// branch propagates immediately without trying the remaining ones, since
// more input might still resolve that branch one way or the other.
func alt[T any](c *cursor.Cursor, env *QplEnvironment, parsers ...ParserFunc[T]) (T, error) {
	var zero T
	for _, p := range parsers {
		cp := mark(c, env)
		v, err := p(c, env)
		if err == nil {
			return v, nil
		}
		if cursor.IsIncomplete(err) {
			cp.restore(c, env)
			return zero, err
		}
		cp.restore(c, env)
	}
	return zero, cursor.Mismatch("no alternative matched")
}

// opt tries p; a Mismatch is swallowed and reported as found=false, while an
// Incomplete still propagates (we can't yet tell whether p would have
// matched).
func opt[T any](c *cursor.Cursor, env *QplEnvironment, p ParserFunc[T]) (T, bool, error) {
	var zero T
	cp := mark(c, env)
	v, err := p(c, env)
	if err == nil {
		return v, true, nil
	}
	if cursor.IsIncomplete(err) {
		cp.restore(c, env)
		return zero, false, err
	}
	cp.restore(c, env)
	return zero, false, nil
}

// literalP and caselessLiteralP adapt Cursor's literal matchers to
// ParserFunc[struct{}] so they can be used as alt/opt/sepBy arguments.
func literalP(lit string) ParserFunc[struct{}] {
	return func(c *cursor.Cursor, _ *QplEnvironment) (struct{}, error) {
		return struct{}{}, c.Literal(lit)
	}
}

func caselessLiteralP(lit string) ParserFunc[struct{}] {
	return func(c *cursor.Cursor, _ *QplEnvironment) (struct{}, error) {
		return struct{}{}, c.CaselessLiteral(lit)
	}
}

// sepBy parses at least min occurrences of item, separated by sep
// (min=0 and max=0 both mean "0 and unbounded"; pass max<0 for unbounded).
// Once sep has matched, item is required: failing to parse it there is a
// hard error (Incomplete propagates, Mismatch aborts the whole sepBy),
// mirroring winnow's separated semantics.
func sepBy[T any](c *cursor.Cursor, env *QplEnvironment, min, max int, item ParserFunc[T], sep ParserFunc[struct{}]) ([]T, error) {
	var out []T

	first, err := item(c, env)
	if err != nil {
		if min <= 0 {
			if cursor.IsIncomplete(err) {
				return nil, err
			}
			return out, nil
		}
		return nil, err
	}
	out = append(out, first)

	for max <= 0 || len(out) < max {
		cp := mark(c, env)
		if _, err := sep(c, env); err != nil {
			if cursor.IsIncomplete(err) {
				cp.restore(c, env)
				return nil, err
			}
			cp.restore(c, env)
			break
		}
		v, err := item(c, env)
		if err != nil {
			// sep already matched: committing further is required.
			cp.restore(c, env)
			if cursor.IsIncomplete(err) {
				return nil, err
			}
			return nil, err
		}
		out = append(out, v)
	}

	if len(out) < min {
		return nil, cursor.Mismatch("too few repetitions")
	}
	return out, nil
}

// many0 skips zero or more matches of p, used for things like the leading
// "<pad>"/"<s>"/"</s>" special tokens.
func many0[T any](c *cursor.Cursor, env *QplEnvironment, p ParserFunc[T]) error {
	for {
		cp := mark(c, env)
		_, err := p(c, env)
		if err != nil {
			if cursor.IsIncomplete(err) {
				cp.restore(c, env)
				return err
			}
			cp.restore(c, env)
			return nil
		}
	}
}
