package server

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/alecthomas/repr"
	"github.com/gofrs/uuid"
	"github.com/juju/errors"
	"github.com/qplang/qpl"
	"github.com/qplang/qpl/tokenizer"
	"github.com/sirupsen/logrus"
)

// Server wires State to the five HTTP endpoints the original exposes, plus
// the supplemented /debug introspection endpoint.
type Server struct {
	state  *State
	log    logrus.FieldLogger
	mux    *http.ServeMux
}

// New builds a Server with all routes registered.
func New(state *State, log logrus.FieldLogger) *Server {
	if log == nil {
		log = logrus.StandardLogger()
	}
	s := &Server{state: state, log: log, mux: http.NewServeMux()}
	s.mux.HandleFunc("/health", s.withRequestID(s.handleHealth))
	s.mux.HandleFunc("/debug", s.withRequestID(s.handleDebug))
	s.mux.HandleFunc("/schema", s.withRequestID(s.handleRegisterSchema))
	s.mux.HandleFunc("/tokenizer", s.withRequestID(s.handleRegisterTokenizer))
	s.mux.HandleFunc("/validate", s.withRequestID(s.handleValidate))
	s.mux.HandleFunc("/parse", s.withRequestID(s.handleParse))
	return s
}

// ServeHTTP makes Server itself an http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mux.ServeHTTP(w, r)
}

// withRequestID tags every request with a correlation id, the way a busy
// server distinguishes interleaved log lines from concurrent callers.
func (s *Server) withRequestID(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := uuid.NewV4()
		reqID := "unknown"
		if err == nil {
			reqID = id.String()
		}
		w.Header().Set("X-Request-Id", reqID)
		s.log.WithFields(logrus.Fields{
			"request_id": reqID,
			"method":     r.Method,
			"path":       r.URL.Path,
		}).Debug("handling request")
		next(w, r)
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
}

func (s *Server) handleDebug(w http.ResponseWriter, r *http.Request) {
	view := s.state.snapshotForDebug()
	s.log.Debug(repr.String(view, repr.Indent("  ")))
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	io.WriteString(w, repr.String(view, repr.Indent("  ")))
}

func (s *Server) handleRegisterSchema(w http.ResponseWriter, r *http.Request) {
	var schema qpl.SqlSchema
	if err := json.NewDecoder(r.Body).Decode(&schema); err != nil {
		s.badRequest(w, errors.Annotate(err, "decoding schema"))
		return
	}
	s.state.registerSchema(&schema)
	s.log.WithField("db_id", schema.DbID).Debug("registered schema")
	w.WriteHeader(http.StatusOK)
}

func (s *Server) handleRegisterTokenizer(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		s.badRequest(w, errors.Annotate(err, "reading tokenizer body"))
		return
	}
	t, err := tokenizer.FromJSON(string(body))
	if err != nil {
		s.badRequest(w, errors.Annotate(err, "parsing tokenizer"))
		return
	}
	s.state.registerTokenizer(t)
	s.log.Debug("registered tokenizer")
	w.WriteHeader(http.StatusOK)
}

func (s *Server) handleValidate(w http.ResponseWriter, r *http.Request) {
	var req ValidationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.badRequest(w, errors.Annotate(err, "decoding validate request"))
		return
	}

	s.state.mu.RLock()
	withTypeChecking := s.state.withTypeChecking
	s.state.mu.RUnlock()

	valid, reason := qpl.Validate(req.Qpl, s.state.schemas, qpl.WithTypeChecking(withTypeChecking))
	var result ValidationResult
	if valid {
		result = validResult()
	} else {
		result = invalidResult(reason)
	}
	s.log.WithField("result", result.Tag).Debug("validated qpl")
	s.writeJSON(w, result)
}

// handleParse implements the original's feed/batch_feed, left as todo!()
// stubs there: for every batch element's token-id prefix, it decodes the
// prefix plus each candidate next token and classifies the result.
func (s *Server) handleParse(w http.ResponseWriter, r *http.Request) {
	var req ParseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.badRequest(w, errors.Annotate(err, "decoding parse request"))
		return
	}
	if len(req.InputIDs) != len(req.TopTokens) {
		s.badRequest(w, errors.New("input_ids and top_tokens must have the same length"))
		return
	}

	s.state.mu.RLock()
	tok := s.state.tokenizer
	withTypeChecking := s.state.withTypeChecking
	s.state.mu.RUnlock()
	if tok == nil {
		s.badRequest(w, errors.New("no tokenizer registered"))
		return
	}

	results := make([]BatchFeedResult, 0, len(req.InputIDs))
	for batchID, inputs := range req.InputIDs {
		for _, topToken := range req.TopTokens[batchID] {
			fr := s.feed(tok, inputs, topToken, withTypeChecking)
			results = append(results, BatchFeedResult{
				BatchID:    batchID,
				TopToken:   topToken,
				FeedResult: fr,
			})
		}
	}
	s.state.bumpCounter()
	s.writeJSON(w, results)
}

func (s *Server) feed(tok tokenizer.Tokenizer, inputs []int, nextToken int, withTypeChecking bool) FeedResult {
	candidate := make([]int, len(inputs)+1)
	copy(candidate, inputs)
	candidate[len(inputs)] = nextToken

	decoded, err := tok.Decode(candidate)
	if err != nil {
		return failureResult(err.Error())
	}

	result := s.state.classifyCached(decoded, false, qpl.WithTypeChecking(withTypeChecking))
	switch result.Result {
	case qpl.ResultComplete:
		return completeResult()
	case qpl.ResultPartial:
		return partialResult()
	default:
		return failureResult(result.Reason)
	}
}

func (s *Server) badRequest(w http.ResponseWriter, err error) {
	s.log.WithError(err).Debug("bad request")
	http.Error(w, err.Error(), http.StatusBadRequest)
}

func (s *Server) writeJSON(w http.ResponseWriter, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.log.WithError(err).Error("encoding response")
	}
}
