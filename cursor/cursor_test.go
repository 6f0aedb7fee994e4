package cursor_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/qplang/qpl/cursor"
)

func TestLiteralComplete(t *testing.T) {
	t.Parallel()
	c := cursor.New("<=foo", true)
	err := c.Literal("<=")
	require.NoError(t, err)
	assert.Equal(t, "foo", c.Remaining())
}

func TestLiteralMismatch(t *testing.T) {
	t.Parallel()
	c := cursor.New("<x", true)
	err := c.Literal("<=")
	require.Error(t, err)
	assert.False(t, cursor.IsIncomplete(err))
}

func TestLiteralIncompleteAtPrefix(t *testing.T) {
	t.Parallel()
	c := cursor.New("<", false)
	err := c.Literal("<=")
	require.Error(t, err)
	assert.True(t, cursor.IsIncomplete(err))
}

func TestLiteralMismatchAtPrefixWhenComplete(t *testing.T) {
	t.Parallel()
	c := cursor.New("<", true)
	err := c.Literal("<=")
	require.Error(t, err)
	assert.False(t, cursor.IsIncomplete(err))
}

func TestCaselessLiteral(t *testing.T) {
	t.Parallel()
	c := cursor.New("AnD rest", true)
	err := c.CaselessLiteral("and")
	require.NoError(t, err)
	assert.Equal(t, " rest", c.Remaining())
}

func TestMarkReset(t *testing.T) {
	t.Parallel()
	c := cursor.New("abcdef", true)
	mark := c.Mark()
	c.Shift()
	c.Shift()
	assert.Equal(t, "cdef", c.Remaining())
	c.Reset(mark)
	assert.Equal(t, "abcdef", c.Remaining())
}

func TestTakeWhile(t *testing.T) {
	t.Parallel()
	c := cursor.New("123abc", true)
	digits := c.TakeWhile(cursor.IsDigit)
	assert.Equal(t, "123", digits)
	assert.Equal(t, "abc", c.Remaining())
}

func TestAtEOF(t *testing.T) {
	t.Parallel()
	c := cursor.New("", true)
	assert.True(t, c.AtEOF())

	c2 := cursor.New("", false)
	assert.False(t, c2.AtEOF())
}
