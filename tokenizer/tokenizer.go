// Package tokenizer provides the minimal token-id <-> text bridge the
// server needs to feed incremental token ids through the classifier. No
// subword/BPE tokenizer library appears anywhere in the retrieval pack, so
// this is a plain whitespace vocabulary rather than a byte-pair encoder;
// see DESIGN.md for why that gap is filled with stdlib instead of a
// fabricated dependency.
package tokenizer

import (
	"encoding/json"
	"strings"

	"github.com/juju/errors"
)

// Tokenizer turns text into token ids and back, the two operations the
// server's /tokenizer and /parse endpoints need.
type Tokenizer interface {
	Encode(text string) ([]int, error)
	Decode(ids []int) (string, error)
}

// VocabTokenizer is a whitespace-splitting tokenizer over a fixed id<->token
// vocabulary, the shape produced by serializing a tokenizer.json's
// model.vocab table.
type VocabTokenizer struct {
	idToToken []string
	tokenToID map[string]int
}

// ErrUnknownToken is returned by Encode when a word has no vocabulary entry
// and by Decode when an id is out of range.
var ErrUnknownToken = errors.New("unknown token")

type vocabFile struct {
	Vocab map[string]int `json:"vocab"`
}

// FromJSON parses repr as a `{"vocab": {"token": id, ...}}` document, the
// representation the server receives as the raw body of POST /tokenizer.
func FromJSON(repr string) (*VocabTokenizer, error) {
	var doc vocabFile
	if err := json.Unmarshal([]byte(repr), &doc); err != nil {
		return nil, errors.Annotate(err, "parsing tokenizer vocab")
	}
	if len(doc.Vocab) == 0 {
		return nil, errors.New("tokenizer vocab is empty")
	}

	t := &VocabTokenizer{
		tokenToID: doc.Vocab,
		idToToken: make([]string, 0, len(doc.Vocab)),
	}
	maxID := 0
	for _, id := range doc.Vocab {
		if id > maxID {
			maxID = id
		}
	}
	t.idToToken = make([]string, maxID+1)
	for tok, id := range doc.Vocab {
		t.idToToken[id] = tok
	}
	return t, nil
}

// Encode splits text on whitespace and looks each word up in the vocab.
func (t *VocabTokenizer) Encode(text string) ([]int, error) {
	fields := strings.Fields(text)
	ids := make([]int, 0, len(fields))
	for _, f := range fields {
		id, ok := t.tokenToID[f]
		if !ok {
			return nil, errors.Annotatef(ErrUnknownToken, "word %q", f)
		}
		ids = append(ids, id)
	}
	return ids, nil
}

// Decode joins the tokens for ids with a single space, the separator QPL's
// own program grammar uses between the tokens of a line.
func (t *VocabTokenizer) Decode(ids []int) (string, error) {
	toks := make([]string, 0, len(ids))
	for _, id := range ids {
		if id < 0 || id >= len(t.idToToken) || t.idToToken[id] == "" {
			return "", errors.Annotatef(ErrUnknownToken, "id %d", id)
		}
		toks = append(toks, t.idToToken[id])
	}
	return strings.Join(toks, " "), nil
}
