// Package lexer implements the Jack tokenizer: it strips comments from a
// source file and scans the remaining text into a token stream, exposing
// one- and two-token lookahead to the compilation engine.
package lexer

import (
	"os"
	"strings"

	"github.com/pkg/errors"

	"github.com/skx/jackvm/token"
)

// Tokenizer holds the full, eagerly-scanned token sequence for one
// source file; the head of the slice is the current token, and Advance
// drops it.
//
// The tokenizer is eager: New reads and tokenizes the whole file before
// returning, so any lexical error is discovered at construction time
// rather than mid-parse.
type Tokenizer struct {
	tokens []token.Token
}

// New opens path, strips its comments, and tokenizes the remainder.
func New(path string) (*Tokenizer, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "reading %s", path)
	}

	cleaned := stripComments(string(raw))

	toks, err := scan(cleaned)
	if err != nil {
		return nil, errors.Wrapf(err, "tokenizing %s", path)
	}

	return &Tokenizer{tokens: toks}, nil
}

// HasMore reports whether at least one token remains unconsumed.
func (t *Tokenizer) HasMore() bool {
	return len(t.tokens) > 0
}

// Advance discards the current token. It is a programming error to call
// Advance with no tokens remaining.
func (t *Tokenizer) Advance() error {
	if !t.HasMore() {
		return errors.New("advance called with no tokens remaining")
	}
	t.tokens = t.tokens[1:]
	return nil
}

// CurrentKind returns the kind of the token at the head of the stream.
func (t *Tokenizer) CurrentKind() token.Type {
	if len(t.tokens) == 0 {
		return token.EOF
	}
	return t.tokens[0].Type
}

// CurrentLexeme returns the literal text of the token at the head of
// the stream.
func (t *Tokenizer) CurrentLexeme() string {
	if len(t.tokens) == 0 {
		return ""
	}
	return t.tokens[0].Literal
}

// NextKind returns the kind of the second token in the stream, one past
// the current one. It is used only to disambiguate identifier-led terms.
func (t *Tokenizer) NextKind() token.Type {
	if len(t.tokens) < 2 {
		return token.EOF
	}
	return t.tokens[1].Type
}

// NextLexeme returns the literal text of the second token in the stream.
func (t *Tokenizer) NextLexeme() string {
	if len(t.tokens) < 2 {
		return ""
	}
	return t.tokens[1].Literal
}

// stripComments implements the line-oriented comment preprocessor: "//"
// to end of line, same-line "/* ... */" spliced around, and an unclosed
// "/* ..." that enters block-comment mode until a later line closes it
// with "*/".
func stripComments(src string) string {
	var out strings.Builder

	inBlock := false
	for _, line := range strings.Split(src, "\n") {

		if inBlock {
			if idx := strings.Index(line, "*/"); idx >= 0 {
				line = line[idx+2:]
				inBlock = false
			} else {
				continue
			}
		}

		if idx := strings.Index(line, "//"); idx >= 0 {
			line = line[:idx]
		}

		if b := strings.Index(line, "/*"); b >= 0 {
			if e := strings.Index(line, "*/"); e >= 0 {
				line = line[:b] + line[e+2:]
			} else {
				line = line[:b]
				inBlock = true
			}
		}

		out.WriteString(line)
		out.WriteByte('\n')
	}

	return out.String()
}

// scan tokenizes cleaned (comment-free) source text, in one left-to-right
// pass, matching the longest alternative among stringConstant, identifier,
// integerConstant, and symbol at each position. Whitespace separates
// tokens and is otherwise discarded.
func scan(cleaned string) ([]token.Token, error) {
	var toks []token.Token

	chars := []rune(cleaned)
	pos := 0

	for pos < len(chars) {
		ch := chars[pos]

		if isWhitespace(ch) {
			pos++
			continue
		}

		switch {
		case ch == '"':
			lit, next, err := readString(chars, pos)
			if err != nil {
				return nil, err
			}
			toks = append(toks, token.Token{Type: token.STR_CONST, Literal: lit})
			pos = next

		case isLetter(ch):
			lit, next := readIdentifier(chars, pos)
			toks = append(toks, token.Token{Type: token.LookupIdentifier(lit), Literal: lit})
			pos = next

		case isDigit(ch):
			lit, next := readNumber(chars, pos)
			toks = append(toks, token.Token{Type: token.INT_CONST, Literal: lit})
			pos = next

		case token.IsSymbol(ch):
			toks = append(toks, token.Token{Type: token.SYMBOL, Literal: string(ch)})
			pos++

		default:
			return nil, errors.Errorf("unrecognised character %q", ch)
		}
	}

	return toks, nil
}

// readString reads a stringConstant starting at the opening quote,
// returning the interior text (quotes stripped) and the position just
// past the closing quote.
func readString(chars []rune, start int) (string, int, error) {
	pos := start + 1
	var sb strings.Builder
	for pos < len(chars) && chars[pos] != '"' {
		sb.WriteRune(chars[pos])
		pos++
	}
	if pos >= len(chars) {
		return "", 0, errors.New("unterminated string constant")
	}
	return sb.String(), pos + 1, nil
}

func readIdentifier(chars []rune, start int) (string, int) {
	pos := start
	var sb strings.Builder
	for pos < len(chars) && (isLetter(chars[pos]) || isDigit(chars[pos])) {
		sb.WriteRune(chars[pos])
		pos++
	}
	return sb.String(), pos
}

func readNumber(chars []rune, start int) (string, int) {
	pos := start
	var sb strings.Builder
	for pos < len(chars) && isDigit(chars[pos]) {
		sb.WriteRune(chars[pos])
		pos++
	}
	return sb.String(), pos
}

func isWhitespace(ch rune) bool {
	return ch == ' ' || ch == '\t' || ch == '\n' || ch == '\r'
}

func isDigit(ch rune) bool {
	return ch >= '0' && ch <= '9'
}

func isLetter(ch rune) bool {
	return (ch >= 'a' && ch <= 'z') || (ch >= 'A' && ch <= 'Z') || ch == '_'
}
