package qpl_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/qplang/qpl"
)

func TestFilterOnPriorLine(t *testing.T) {
	t.Parallel()
	program := "#1 = Scan Table [ singer ] Output [ Age, Name ] ; #2 = Filter [ #1 ] Predicate [ Age >= 18 ] Output [ Name ]"
	result := classifyLines(t, program)
	require.Equal(t, qpl.ResultComplete, result.Result, "reason: %s", result.Reason)
	assert.Equal(t, qpl.OpFilter, result.Program.Lines[1].Operation.Kind)
}

func TestFilterFailsWhenOutputNotSubset(t *testing.T) {
	t.Parallel()
	program := "#1 = Scan Table [ singer ] Output [ Age ] ; #2 = Filter [ #1 ] Predicate [ Age >= 18 ] Output [ Name ]"
	result := classifyLines(t, program)
	assert.Equal(t, qpl.ResultFailure, result.Result)
}

func TestTopKeepsTopRows(t *testing.T) {
	t.Parallel()
	program := "#1 = Scan Table [ singer ] Output [ Age, Name ] ; #2 = Top [ #1 ] Rows [ 5 ] Output [ Name ]"
	result := classifyLines(t, program)
	require.Equal(t, qpl.ResultComplete, result.Result, "reason: %s", result.Reason)
	assert.Equal(t, 5, result.Program.Lines[1].Operation.Rows)
}

func TestSortOrdersByColumn(t *testing.T) {
	t.Parallel()
	program := "#1 = Scan Table [ singer ] Output [ Age, Name ] ; #2 = Sort [ #1 ] OrderBy [ Age DESC ] Output [ Name ]"
	result := classifyLines(t, program)
	require.Equal(t, qpl.ResultComplete, result.Result, "reason: %s", result.Reason)
	assert.Equal(t, []string{"Age DESC"}, result.Program.Lines[1].Operation.OrderBy)
}

func TestSortWithDistinct(t *testing.T) {
	t.Parallel()
	program := "#1 = Scan Table [ singer ] Output [ Age, Name ] ; #2 = Sort [ #1 ] Distinct [ true ] OrderBy [ Age ASC ] Output [ Name ]"
	result := classifyLines(t, program)
	require.Equal(t, qpl.ResultComplete, result.Result, "reason: %s", result.Reason)
	assert.True(t, result.Program.Lines[1].Operation.IsDistinct)
}

func TestTopSortWithTies(t *testing.T) {
	t.Parallel()
	program := "#1 = Scan Table [ singer ] Output [ Age, Name ] ; #2 = TopSort [ #1 ] Rows [ 3 ] OrderBy [ Age DESC ] WithTies [ true ] Output [ Name ]"
	result := classifyLines(t, program)
	require.Equal(t, qpl.ResultComplete, result.Result, "reason: %s", result.Reason)
	assert.True(t, result.Program.Lines[1].Operation.WithTies)
}

func TestUnionOfTwoScans(t *testing.T) {
	t.Parallel()
	program := "#1 = Scan Table [ singer ] Output [ Name ] ; #2 = Scan Table [ singer ] Output [ Name ] ; #3 = Union [ #1 , #2 ] Output [ #1.Name ]"
	result := classifyLines(t, program)
	require.Equal(t, qpl.ResultComplete, result.Result, "reason: %s", result.Reason)
	assert.Equal(t, qpl.OpUnion, result.Program.Lines[2].Operation.Kind)
}

func TestIntersectSameShapeAsJoin(t *testing.T) {
	t.Parallel()
	program := "#1 = Scan Table [ stadium ] Output [ Stadium_ID , Name ] ; #2 = Scan Table [ concert ] Output [ Stadium_ID ] ; #3 = Intersect [ #1 , #2 ] Predicate [ #2.Stadium_ID = #1.Stadium_ID ] Output [ #1.Name ]"
	result := classifyLines(t, program)
	require.Equal(t, qpl.ResultComplete, result.Result, "reason: %s", result.Reason)
	assert.Equal(t, qpl.OpIntersect, result.Program.Lines[2].Operation.Kind)
}

func TestExceptByColumns(t *testing.T) {
	t.Parallel()
	program := "#1 = Scan Table [ stadium ] Output [ Stadium_ID , Name ] ; #2 = Scan Table [ concert ] Output [ Stadium_ID ] ; #3 = Except [ #1 , #2 ] ExceptColumns [ #1.Stadium_ID ] Output [ #1.Name ]"
	result := classifyLines(t, program)
	assert.Equal(t, qpl.ResultComplete, result.Result, "reason: %s", result.Reason)
}

func TestExceptByColumnsWithDistinct(t *testing.T) {
	t.Parallel()
	program := "#1 = Scan Table [ stadium ] Output [ Stadium_ID , Name ] ; #2 = Scan Table [ concert ] Output [ Stadium_ID ] ; #3 = Except [ #1 , #2 ] ExceptColumns [ #1.Stadium_ID ] Distinct [ true ] Output [ #1.Name ]"
	result := classifyLines(t, program)
	require.Equal(t, qpl.ResultComplete, result.Result, "reason: %s", result.Reason)
	assert.True(t, result.Program.Lines[2].Operation.IsDistinct)
}

func TestJoinNonEqualityComparisonAcrossEitherInput(t *testing.T) {
	t.Parallel()
	program := "#1 = Scan Table [ stadium ] Output [ Capacity , Highest ] ; #2 = Scan Table [ singer ] Output [ Age ] ; #3 = Join [ #1 , #2 ] Predicate [ #1.Capacity > #1.Highest ] Output [ #1.Capacity ]"
	result := classifyLines(t, program)
	assert.Equal(t, qpl.ResultComplete, result.Result, "reason: %s", result.Reason)
}

func TestJoinFailsWithoutSharedKey(t *testing.T) {
	t.Parallel()
	program := "#1 = Scan Table [ singer ] Output [ Name ] ; #2 = Scan Table [ concert ] Output [ Theme ] ; #3 = Join [ #1 , #2 ] Predicate [ #1.Name = #2.Theme ] Output [ #1.Name ]"
	result := classifyLines(t, program)
	assert.Equal(t, qpl.ResultFailure, result.Result)
}
