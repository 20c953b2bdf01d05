// Package vmwriter is a stateless translator from abstract VM operations
// to textual VM instruction lines. It knows the operator-to-opcode
// mapping, including the two arithmetic operators that compile to
// runtime library calls because the target VM has no hardware multiply
// or divide.
package vmwriter

import (
	"fmt"
	"strings"
)

// Writer accumulates VM instruction lines. It carries no state besides
// the output buffer: every method is a pure line-emitting translation.
type Writer struct {
	lines strings.Builder
}

// New returns an empty Writer.
func New() *Writer {
	return &Writer{}
}

// WritePush emits a push instruction for the given segment and index.
func (w *Writer) WritePush(segment string, index int) {
	fmt.Fprintf(&w.lines, "push %s %d\n", segment, index)
}

// WritePop emits a pop instruction for the given segment and index.
func (w *Writer) WritePop(segment string, index int) {
	fmt.Fprintf(&w.lines, "pop %s %d\n", segment, index)
}

// binaryOps maps a binary source operator to the VM instruction it
// compiles to. "*" and "/" intentionally emit a call instruction, not an
// opcode: the target VM has no hardware multiply or divide.
var binaryOps = map[string]string{
	"+": "add",
	"-": "sub",
	"&": "and",
	"|": "or",
	"=": "eq",
	">": "gt",
	"<": "lt",
	"*": "call Math.multiply 2",
	"/": "call Math.divide 2",
}

// unaryOps maps a unary source operator to its VM instruction.
var unaryOps = map[string]string{
	"-": "neg",
	"~": "not",
}

// WriteArithmetic emits the VM sequence for a binary operator.
func (w *Writer) WriteArithmetic(op string) {
	fmt.Fprintf(&w.lines, "%s\n", binaryOps[op])
}

// WriteUnary emits the VM instruction for a unary operator.
func (w *Writer) WriteUnary(op string) {
	fmt.Fprintf(&w.lines, "%s\n", unaryOps[op])
}

// WriteLabel emits a label directive.
func (w *Writer) WriteLabel(label string) {
	fmt.Fprintf(&w.lines, "label %s\n", label)
}

// WriteGoto emits an unconditional branch.
func (w *Writer) WriteGoto(label string) {
	fmt.Fprintf(&w.lines, "goto %s\n", label)
}

// WriteIf emits a conditional branch.
func (w *Writer) WriteIf(label string) {
	fmt.Fprintf(&w.lines, "if-goto %s\n", label)
}

// WriteCall emits a call instruction.
func (w *Writer) WriteCall(name string, nArgs int) {
	fmt.Fprintf(&w.lines, "call %s %d\n", name, nArgs)
}

// WriteFunction emits a function directive.
func (w *Writer) WriteFunction(name string, nLocals int) {
	fmt.Fprintf(&w.lines, "function %s %d\n", name, nLocals)
}

// WriteReturn emits a return instruction.
func (w *Writer) WriteReturn() {
	w.lines.WriteString("return\n")
}

// String returns the accumulated VM instruction text.
func (w *Writer) String() string {
	return w.lines.String()
}
