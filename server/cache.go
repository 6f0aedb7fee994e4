package server

import "github.com/qplang/qpl"

// classifyCached runs qpl.Classify against the decoded prefix, memoizing by
// the prefix text itself rather than the token-id slice the prefix came
// from — two different tokenizations that decode to the same text reuse
// the same cached parse.
func (s *State) classifyCached(decodedPrefix string, complete bool, opt ...qpl.Option) qpl.Classification {
	s.mu.RLock()
	cached, ok := s.partialParses[decodedPrefix]
	s.mu.RUnlock()
	if ok {
		return cached.Result
	}

	result := qpl.Classify(decodedPrefix, complete, s.schemas, opt...)

	s.mu.Lock()
	s.partialParses[decodedPrefix] = PartialParse{DecodedPrefix: decodedPrefix, Result: result}
	s.mu.Unlock()

	return result
}
