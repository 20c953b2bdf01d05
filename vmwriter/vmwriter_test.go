package vmwriter

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// TestPushPop checks the push/pop line format.
func TestPushPop(t *testing.T) {
	w := New()
	w.WritePush("constant", 7)
	w.WritePop("local", 2)

	assert.Equal(t, "push constant 7\npop local 2\n", w.String())
}

// TestArithmeticMultiplyDivide checks that '*' and '/' compile to a call
// instruction, not a hardware opcode.
func TestArithmeticMultiplyDivide(t *testing.T) {
	w := New()
	w.WriteArithmetic("*")
	w.WriteArithmetic("/")

	assert.Equal(t, "call Math.multiply 2\ncall Math.divide 2\n", w.String())
}

// TestArithmeticSimple checks the remaining binary operator mappings.
func TestArithmeticSimple(t *testing.T) {
	tests := []struct {
		op       string
		expected string
	}{
		{"+", "add"},
		{"-", "sub"},
		{"&", "and"},
		{"|", "or"},
		{"=", "eq"},
		{">", "gt"},
		{"<", "lt"},
	}

	for _, tt := range tests {
		w := New()
		w.WriteArithmetic(tt.op)
		assert.Equal(t, tt.expected+"\n", w.String(), "op %q", tt.op)
	}
}

// TestUnary checks the unary operator mappings.
func TestUnary(t *testing.T) {
	w := New()
	w.WriteUnary("-")
	w.WriteUnary("~")

	assert.Equal(t, "neg\nnot\n", w.String())
}

// TestControlFlow checks label/goto/if-goto emission.
func TestControlFlow(t *testing.T) {
	w := New()
	w.WriteLabel("ifLbl0")
	w.WriteGoto("ifLbl1")
	w.WriteIf("whileLbl0")

	assert.Equal(t, "label ifLbl0\ngoto ifLbl1\nif-goto whileLbl0\n", w.String())
}

// TestCallFunctionReturn checks call/function/return emission.
func TestCallFunctionReturn(t *testing.T) {
	w := New()
	w.WriteCall("Math.multiply", 2)
	w.WriteFunction("Point.new", 0)
	w.WriteReturn()

	assert.Equal(t, "call Math.multiply 2\nfunction Point.new 0\nreturn\n", w.String())
}
