package lexer

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/skx/jackvm/token"
)

// newFixture writes contents to a temporary .jack file and returns its path.
func newFixture(t *testing.T, contents string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "Fixture.jack")
	require.NoError(t, os.WriteFile(path, []byte(contents), 0o644))
	return path
}

// Trivial test of scanning symbols, identifiers, and integers.
func TestScanBasics(t *testing.T) {
	path := newFixture(t, `class Main { field int x; }`)

	tok, err := New(path)
	require.NoError(t, err)

	tests := []struct {
		expectedKind    token.Type
		expectedLiteral string
	}{
		{token.KEYWORD, "class"},
		{token.IDENTIFIER, "Main"},
		{token.SYMBOL, "{"},
		{token.KEYWORD, "field"},
		{token.KEYWORD, "int"},
		{token.IDENTIFIER, "x"},
		{token.SYMBOL, ";"},
		{token.SYMBOL, "}"},
	}

	for i, tt := range tests {
		assert.Equal(t, tt.expectedKind, tok.CurrentKind(), "tests[%d]", i)
		assert.Equal(t, tt.expectedLiteral, tok.CurrentLexeme(), "tests[%d]", i)
		require.NoError(t, tok.Advance())
	}
	assert.False(t, tok.HasMore())
}

// TestLookahead exercises the two-token peek used to disambiguate
// identifier-led terms.
func TestLookahead(t *testing.T) {
	path := newFixture(t, `foo.bar(1)`)

	tok, err := New(path)
	require.NoError(t, err)

	assert.Equal(t, token.IDENTIFIER, tok.CurrentKind())
	assert.Equal(t, "foo", tok.CurrentLexeme())
	assert.Equal(t, token.SYMBOL, tok.NextKind())
	assert.Equal(t, ".", tok.NextLexeme())
}

// TestStringConstant checks that surrounding quotes are stripped and the
// interior text is preserved verbatim.
func TestStringConstant(t *testing.T) {
	path := newFixture(t, `"hello world"`)

	tok, err := New(path)
	require.NoError(t, err)

	assert.Equal(t, token.STR_CONST, tok.CurrentKind())
	assert.Equal(t, "hello world", tok.CurrentLexeme())
}

// TestLineComment checks that "//" comments are discarded to end of line.
func TestLineComment(t *testing.T) {
	path := newFixture(t, "let x = 1; // assign\nlet y = 2;")

	tok, err := New(path)
	require.NoError(t, err)

	var lexemes []string
	for tok.HasMore() {
		lexemes = append(lexemes, tok.CurrentLexeme())
		require.NoError(t, tok.Advance())
	}
	assert.Equal(t, []string{"let", "x", "=", "1", ";", "let", "y", "=", "2", ";"}, lexemes)
}

// TestBlockComment checks single-line and multi-line block comments.
func TestBlockComment(t *testing.T) {
	path := newFixture(t, "let x /* inline */ = 1;\n/* a\n   multi-line\n   comment */\nlet y = 2;")

	tok, err := New(path)
	require.NoError(t, err)

	var lexemes []string
	for tok.HasMore() {
		lexemes = append(lexemes, tok.CurrentLexeme())
		require.NoError(t, tok.Advance())
	}
	assert.Equal(t, []string{"let", "x", "=", "1", ";", "let", "y", "=", "2", ";"}, lexemes)
}

// TestUnrecognisedCharacter checks that a character outside every
// recognised alphabet aborts tokenization.
func TestUnrecognisedCharacter(t *testing.T) {
	path := newFixture(t, `let x = 1 $ 2;`)

	_, err := New(path)
	require.Error(t, err)
}

// TestMissingFile checks that an unreadable path is reported as an error.
func TestMissingFile(t *testing.T) {
	_, err := New(filepath.Join(t.TempDir(), "missing.jack"))
	require.Error(t, err)
}
