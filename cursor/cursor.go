// Package cursor implements the partial-input-aware scanning primitive the
// qpl parser is built on. It descends from a rune-at-a-time lexing cursor,
// widened with an offset bookmark (Mark/Reset) and a Complete flag so
// callers can tell "ran out of buffer but more may come" from "ran out of
// buffer for good".
package cursor

import (
	"errors"
	"strings"
	"unicode/utf8"
)

// RuneEOF is returned by Shift when the buffer is exhausted.
const RuneEOF rune = 0

// Cursor walks a string left to right. Complete records whether the caller
// promises no further bytes will ever be appended; when false, running out
// of buffer mid-match is Incomplete rather than a mismatch.
type Cursor struct {
	buf      string
	off      int
	Complete bool
}

func New(text string, complete bool) *Cursor {
	return &Cursor{buf: text, Complete: complete}
}

func (c *Cursor) empty() bool { return len(c.buf) <= c.off }

// Len is the number of unread bytes remaining.
func (c *Cursor) Len() int { return len(c.buf) - c.off }

// Remaining returns the unread suffix of the buffer.
func (c *Cursor) Remaining() string { return c.buf[c.off:] }

// Off is the cursor's current byte offset, usable with Reset.
func (c *Cursor) Off() int { return c.off }

// Mark bookmarks the current offset for a later Reset.
func (c *Cursor) Mark() int { return c.off }

// Reset rewinds the cursor to a previously marked offset.
func (c *Cursor) Reset(mark int) { c.off = mark }

// Shift consumes and returns the next rune, or RuneEOF if the buffer is
// exhausted.
func (c *Cursor) Shift() rune {
	if c.empty() {
		return RuneEOF
	}
	r, n := utf8.DecodeRuneInString(c.buf[c.off:])
	c.off += n
	return r
}

// Peek returns the next rune without consuming it.
func (c *Cursor) Peek() rune {
	mark := c.Mark()
	r := c.Shift()
	c.Reset(mark)
	return r
}

// AtEOF reports whether the cursor has no more bytes and the input is
// known complete (a hard end, not a pause in a partial decode).
func (c *Cursor) AtEOF() bool { return c.empty() && c.Complete }

// Expect advances past the next rune if it passes valid.
func (c *Cursor) Expect(valid CheckFn) bool {
	mark := c.Mark()
	if !valid(c.Shift()) {
		c.Reset(mark)
		return false
	}
	return true
}

// TakeWhile consumes runes while valid holds, returning the consumed text.
// It always succeeds, possibly with zero runes consumed.
func (c *Cursor) TakeWhile(valid CheckFn) string {
	start := c.Mark()
	for {
		mark := c.Mark()
		r := c.Shift()
		if r == RuneEOF || !valid(r) {
			c.Reset(mark)
			break
		}
	}
	return c.buf[start:c.off]
}

// ErrKind is the two-variant error taxonomy every scanning primitive in
// this package reports through: Incomplete when more input might still
// complete the match, Mismatch when it definitely cannot.
type ErrKind int

const (
	KindIncomplete ErrKind = iota
	KindMismatch
)

type Error struct {
	Kind ErrKind
	Msg  string
}

func (e *Error) Error() string { return e.Msg }

func Incomplete(msg string) *Error { return &Error{Kind: KindIncomplete, Msg: msg} }
func Mismatch(msg string) *Error   { return &Error{Kind: KindMismatch, Msg: msg} }

// IsIncomplete reports whether err is (or wraps) an Incomplete cursor error.
func IsIncomplete(err error) bool {
	var e *Error
	return errors.As(err, &e) && e.Kind == KindIncomplete
}

// Literal consumes lit from the cursor exactly, case-sensitively. If the
// remaining buffer is a strict prefix of lit and the input isn't known
// complete, the match is Incomplete, not a Mismatch: more bytes could still
// make it match.
func (c *Cursor) Literal(lit string) error {
	return c.literal(lit, false)
}

// CaselessLiteral is Literal with ASCII/Unicode case folding, the behavior
// winnow's Caseless combinator has in the original grammar (schema ids,
// keywords like "IS NOT", "LIKE").
func (c *Cursor) CaselessLiteral(lit string) error {
	return c.literal(lit, true)
}

func (c *Cursor) literal(lit string, caseless bool) error {
	mark := c.Mark()

	for _, want := range lit {
		r := c.Shift()
		if r == RuneEOF {
			c.Reset(mark)
			// Ran out of bytes partway through lit: ambiguous unless the
			// caller has promised no more input is coming.
			if !c.Complete {
				return Incomplete("literal truncated: " + lit)
			}
			return Mismatch("literal truncated at eof: " + lit)
		}
		if caseless {
			if !runeEqualFold(r, want) {
				c.Reset(mark)
				return Mismatch("literal mismatch: " + lit)
			}
		} else if r != want {
			c.Reset(mark)
			return Mismatch("literal mismatch: " + lit)
		}
	}
	return nil
}

func runeEqualFold(a, b rune) bool {
	if a == b {
		return true
	}
	return strings.EqualFold(string(a), string(b))
}
