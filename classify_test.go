package qpl_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/qplang/qpl"
)

func withSchemaPrefix(schemaName, program string) string {
	return schemaName + " | " + program
}

func TestClassifyPositives(t *testing.T) {
	t.Parallel()
	registry := registryWith(concertSinger())
	for _, program := range positiveQpls {
		program := program
		t.Run(program[:min(40, len(program))], func(t *testing.T) {
			t.Parallel()
			result := qpl.Classify(withSchemaPrefix("concert_singer", program), true, registry)
			assert.Equal(t, qpl.ResultComplete, result.Result, "reason: %s", result.Reason)
		})
	}
}

func TestClassifyNegatives(t *testing.T) {
	t.Parallel()
	registry := registryWith(concertSinger())
	for _, program := range negativeQpls {
		program := program
		t.Run(program[:min(40, len(program))], func(t *testing.T) {
			t.Parallel()
			result := qpl.Classify(withSchemaPrefix("concert_singer", program), true, registry)
			assert.NotEqual(t, qpl.ResultComplete, result.Result)
		})
	}
}

func TestClassifySingleLine(t *testing.T) {
	t.Parallel()
	registry := registryWith(concertSinger())
	result := qpl.Classify(withSchemaPrefix("concert_singer", "#1 = Scan Table [ stadium ] Output [ Location ]"), true, registry)
	require.Equal(t, qpl.ResultComplete, result.Result)
	require.NotNil(t, result.Program)
	require.Len(t, result.Program.Lines, 1)
	assert.Equal(t, 1, result.Program.Lines[0].Idx)
	assert.Equal(t, qpl.OpScan, result.Program.Lines[0].Operation.Kind)
}

func TestClassifyTwoLines(t *testing.T) {
	t.Parallel()
	registry := registryWith(concertSinger())
	program := "#1 = Scan Table [ singer ] Output [ Age ] ; #2 = Aggregate [ #1 ] GroupBy [ Age ] Output [ countstar AS Count_Star ]"
	result := qpl.Classify(withSchemaPrefix("concert_singer", program), true, registry)
	require.Equal(t, qpl.ResultComplete, result.Result)
	require.Len(t, result.Program.Lines, 2)
	assert.Equal(t, qpl.OpAggregate, result.Program.Lines[1].Operation.Kind)
}

func TestClassifyPartialProgram(t *testing.T) {
	t.Parallel()
	registry := registryWith(concertSinger())
	program := "#1 = Scan Table [ stadium ] Output [ Name, Capacity, Stadium_ID ] ; #2 = Scan Table [ concert ] Predicate [ Year >= 2014 ] Output [ Stadium_ID, Year ] ; #3 = Join [ #1, #2 ] Predicate [ #2.Stadium_ID = #1.Stadium_ID ] Output [ #1.Name, #1.Capacity ] ; #4 = Aggregate [ #3 ] GroupBy [ Name ] Output [ Name, countstar AS Count_Star ] ; #5 = TopSort [ #4 ] Rows [ 1 ] OrderBy [ Count_Star "
	result := qpl.Classify(withSchemaPrefix("concert_singer", program), false, registry)
	assert.Equal(t, qpl.ResultPartial, result.Result)
}

func TestClassifyUnknownSchema(t *testing.T) {
	t.Parallel()
	registry := registryWith(concertSinger())
	result := qpl.Classify("no_such_schema | #1 = Scan Table [ stadium ] Output [ Location ]", true, registry)
	assert.Equal(t, qpl.ResultFailure, result.Result)
}

func TestClassifyLongestSchemaMatch(t *testing.T) {
	t.Parallel()
	registry := registryWith(concertSinger(), &qpl.SqlSchema{
		DbID:        "concert",
		TableNames:  []string{"stadium"},
		ColumnNames: []string{"Stadium_ID"},
		ColumnTypes: []qpl.ColumnType{qpl.Number},
	})
	result := qpl.Classify(withSchemaPrefix("concert_singer", "#1 = Scan Table [ stadium ] Output [ Stadium_ID ]"), true, registry)
	assert.Equal(t, qpl.ResultComplete, result.Result)
}

func TestValidate(t *testing.T) {
	t.Parallel()
	registry := registryWith(concertSinger())
	valid, reason := qpl.Validate(withSchemaPrefix("concert_singer", "#1 = Scan Table [ stadium ] Output [ Location ]"), registry)
	assert.True(t, valid)
	assert.Empty(t, reason)

	valid, reason = qpl.Validate(withSchemaPrefix("concert_singer", "#1 = Scan Table [ nope ] Output [ Location ]"), registry)
	assert.False(t, valid)
	assert.Equal(t, "Failed to parse", reason)
}

func TestPrefixedProgramSpecialTokens(t *testing.T) {
	t.Parallel()
	registry := registryWith(concertSinger())
	program := "<s> concert_singer | #1 = Scan Table [ stadium ] Output [ Location ]"
	result := qpl.Classify(program, true, registry)
	assert.Equal(t, qpl.ResultComplete, result.Result)
}

func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}
