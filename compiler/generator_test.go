package compiler

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/skx/jackvm/symboltable"
)

// TestSegmentFor checks the fixed kind-to-segment mapping: static,
// argument, and local pass through unchanged, while field maps to this.
func TestSegmentFor(t *testing.T) {
	assert.Equal(t, "static", segmentFor(symboltable.Static))
	assert.Equal(t, "this", segmentFor(symboltable.Field))
	assert.Equal(t, "argument", segmentFor(symboltable.Argument))
	assert.Equal(t, "local", segmentFor(symboltable.Local))
}

// TestEmptyExpressionListCallsWithZeroArgs checks that an empty argument
// list to a static call emits no pushes and a zero arg count.
func TestEmptyExpressionListCallsWithZeroArgs(t *testing.T) {
	lines := compile(t, `
class Main {
    function void run() {
        do Sys.halt();
        return;
    }
}`)

	assert.Equal(t, []string{
		"function Main.run 0",
		"call Sys.halt 0",
		"pop temp 0",
		"push constant 0",
		"return",
	}, lines)
}

// TestParenthesizedSubExpression checks grouping with no precedence
// change beyond the grouping itself.
func TestParenthesizedSubExpression(t *testing.T) {
	lines := compile(t, `
class Main {
    function void run() {
        var int x;
        let x = (1 + 2) * 3;
        return;
    }
}`)

	assert.Equal(t, []string{
		"function Main.run 1",
		"push constant 1",
		"push constant 2",
		"add",
		"push constant 3",
		"call Math.multiply 2",
		"pop local 0",
		"push constant 0",
		"return",
	}, lines)
}

// TestUnaryMinusAndNot checks the unary operator VM sequences.
func TestUnaryMinusAndNot(t *testing.T) {
	lines := compile(t, `
class Main {
    function void run() {
        var int x;
        var boolean b;
        let x = -x;
        let b = ~b;
        return;
    }
}`)

	assert.Equal(t, []string{
		"function Main.run 2",
		"push local 0",
		"neg",
		"pop local 0",
		"push local 1",
		"not",
		"pop local 1",
		"push constant 0",
		"return",
	}, lines)
}
