package qpl

import "github.com/qplang/qpl/cursor"

// specialToken matches one of the tokenizer-artifact markers "<pad>", "<s>",
// "</s>" that may precede the schema selector.
func specialToken(c *cursor.Cursor, env *QplEnvironment) (struct{}, error) {
	if err := literalExact("<")(c, env); err != nil {
		return struct{}{}, err
	}
	_, err := alt(c, env,
		func(c *cursor.Cursor, _ *QplEnvironment) (string, error) { return "pad", c.Literal("pad") },
		func(c *cursor.Cursor, _ *QplEnvironment) (string, error) { return "s", c.Literal("s") },
		func(c *cursor.Cursor, _ *QplEnvironment) (string, error) { return "/s", c.Literal("/s") },
	)
	if err != nil {
		return struct{}{}, err
	}
	return struct{}{}, literalExact(">")(c, env)
}

// selectSchema tries every registered schema's db_id as a case-insensitive
// literal, longest id first, binding the first match into env.Schema.
func selectSchema(registry *SchemaRegistry) ParserFunc[*SqlSchema] {
	return func(c *cursor.Cursor, env *QplEnvironment) (*SqlSchema, error) {
		for _, schema := range registry.All() {
			_, ok, err := opt(c, env, caselessLiteralP(schema.DbID))
			if err != nil {
				return nil, err
			}
			if ok {
				return schema, nil
			}
		}
		return nil, ErrUnknownSchema
	}
}

// parsePrefixedQpl parses the full top-level grammar: optional whitespace
// and special tokens, the schema selector, "|", and the program itself,
// requiring the input be fully consumed afterward.
func parsePrefixedQpl(registry *SchemaRegistry, withTypeChecking bool) ParserFunc[Qpl] {
	return func(c *cursor.Cursor, env *QplEnvironment) (Qpl, error) {
		if _, err := multispace0(c, env); err != nil {
			return Qpl{}, err
		}
		if err := many0(c, env, specialToken); err != nil {
			return Qpl{}, err
		}
		if _, err := multispace0(c, env); err != nil {
			return Qpl{}, err
		}
		schema, err := selectSchema(registry)(c, env)
		if err != nil {
			return Qpl{}, err
		}
		env.Schema = schema

		if _, err := multispace0(c, env); err != nil {
			return Qpl{}, err
		}
		if err := literalExact("|")(c, env); err != nil {
			return Qpl{}, err
		}
		if _, err := multispace0(c, env); err != nil {
			return Qpl{}, err
		}

		program, err := parseQpl(withTypeChecking)(c, env)
		if err != nil {
			return Qpl{}, err
		}
		if !c.AtEOF() {
			if c.Len() == 0 {
				return Qpl{}, cursor.Incomplete("awaiting eof")
			}
			return Qpl{}, cursor.Mismatch("trailing input after program")
		}
		return program, nil
	}
}
