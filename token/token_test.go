package token

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// TestLookupKeyword ensures every reserved word is reclassified as a
// keyword, and that an arbitrary identifier is not.
func TestLookupKeyword(t *testing.T) {
	for key := range keywords {
		assert.Equal(t, Type(KEYWORD), LookupIdentifier(key), "keyword %q", key)
	}

	assert.Equal(t, Type(IDENTIFIER), LookupIdentifier("myVariable"))
	assert.Equal(t, Type(IDENTIFIER), LookupIdentifier("SomeClass"))
}

// TestIsSymbol checks recognition of the fixed symbol alphabet.
func TestIsSymbol(t *testing.T) {
	for _, ch := range "{}()[].,;+-*/&|<>=~" {
		assert.True(t, IsSymbol(ch), "expected %q to be a symbol", ch)
	}

	assert.False(t, IsSymbol('$'))
	assert.False(t, IsSymbol('@'))
}
