package server_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/qplang/qpl/server"
)

func newTestServer() *server.Server {
	log := logrus.New()
	log.SetLevel(logrus.PanicLevel)
	return server.New(server.NewState(true), log)
}

func doJSON(t *testing.T, s *server.Server, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(b)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, req)
	return rec
}

func registerStadiumSchema(t *testing.T, s *server.Server) {
	t.Helper()
	schema := map[string]interface{}{
		"db_id":            "stadium_db",
		"table_names":      []string{"stadium"},
		"column_names":     []string{"Name"},
		"column_types":     []string{"text"},
		"column_to_table":  []int{0},
		"table_to_columns": map[string][]int{"stadium": {0}},
	}
	rec := doJSON(t, s, http.MethodPost, "/schema", schema)
	require.Equal(t, http.StatusOK, rec.Code)
}

func TestHealthEndpoint(t *testing.T) {
	t.Parallel()
	s := newTestServer()
	rec := doJSON(t, s, http.MethodGet, "/health", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.NotEmpty(t, rec.Header().Get("X-Request-Id"))
}

func TestValidateEndpointRoundTrip(t *testing.T) {
	t.Parallel()
	s := newTestServer()
	registerStadiumSchema(t, s)

	rec := doJSON(t, s, http.MethodPost, "/validate", map[string]string{
		"qpl": "stadium_db | #1 = Scan Table [ stadium ] Output [ Name ]",
	})
	require.Equal(t, http.StatusOK, rec.Code)

	var result struct {
		Tag    string `json:"tag"`
		Reason string `json:"reason"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &result))
	assert.Equal(t, "valid", result.Tag)
}

func TestValidateEndpointRejectsUnknownSchema(t *testing.T) {
	t.Parallel()
	s := newTestServer()

	rec := doJSON(t, s, http.MethodPost, "/validate", map[string]string{
		"qpl": "nope | #1 = Scan Table [ stadium ] Output [ Name ]",
	})
	require.Equal(t, http.StatusOK, rec.Code)

	var result struct {
		Tag    string `json:"tag"`
		Reason string `json:"reason"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &result))
	assert.Equal(t, "invalid", result.Tag)
	assert.NotEmpty(t, result.Reason)
}

func TestParseEndpointRequiresTokenizer(t *testing.T) {
	t.Parallel()
	s := newTestServer()
	registerStadiumSchema(t, s)

	rec := doJSON(t, s, http.MethodPost, "/parse", map[string]interface{}{
		"input_ids":  [][]int{{0}},
		"top_tokens": [][]int{{1}},
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestParseEndpointFeedsCandidates(t *testing.T) {
	t.Parallel()
	s := newTestServer()
	registerStadiumSchema(t, s)

	vocab := `{"vocab": {"stadium_db": 0, "|": 1, "#1": 2, "=": 3, "Scan": 4, "Table": 5, "[": 6, "stadium": 7, "]": 8, "Output": 9, "Name": 10}}`
	req := httptest.NewRequest(http.MethodPost, "/tokenizer", bytes.NewReader([]byte(vocab)))
	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	// prefix decodes to "stadium_db | #1 = Scan Table [ stadium ] Output", and
	// the candidate "[" moves the partial parse one token closer to complete.
	prefix := []int{0, 1, 2, 3, 4, 5, 6, 7, 8, 9}
	rec = doJSON(t, s, http.MethodPost, "/parse", map[string]interface{}{
		"input_ids":  [][]int{prefix},
		"top_tokens": [][]int{{6}},
	})
	require.Equal(t, http.StatusOK, rec.Code)

	var results []struct {
		BatchID    int `json:"batch_id"`
		TopToken   int `json:"top_token"`
		FeedResult struct {
			Tag string `json:"tag"`
		} `json:"feed_result"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &results))
	require.Len(t, results, 1)
	assert.Equal(t, "partial", results[0].FeedResult.Tag)
}

func TestDebugEndpointReportsState(t *testing.T) {
	t.Parallel()
	s := newTestServer()
	registerStadiumSchema(t, s)

	rec := doJSON(t, s, http.MethodGet, "/debug", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "SchemaCount")
}
