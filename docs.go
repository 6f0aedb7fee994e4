/*
Package qpl implements an incremental parser and validator for QPL, a
line-numbered relational-algebra query plan language, checked against a
caller-supplied SQL schema.

A QPL program is a "|"-separated schema selector followed by a sequence of
numbered lines, each applying one relational operator (Scan, Filter,
Aggregate, Join, Intersect, Except, Union, Top, Sort, TopSort) to the
outputs of earlier lines:

	concert_singer | #1 = Scan Table [ singer ] Output [ Name ] ; #2 = Top [ #1 ] Rows [ 3 ] Output [ Name ]

The parser is designed to run token-by-token against a partially generated
program, as produced by a language model: every entry point returns one of
three outcomes rather than a single success/failure bit — the input parses
to a complete, valid program; the input is a valid prefix of some program
that more tokens could complete; or the input can never become valid no
matter what follows. See Classify.
*/
package qpl
