// Package compiler contains the core of the translator.
//
// It is a recursive-descent parser fused with the code generator: one
// procedure per grammar production, each emitting VM code directly as it
// recognises its piece of the grammar. No intermediate tree is built
// between the tokenizer and the VM output.
//
// The engine drives the tokenizer, maintains the two-scope symbol table
// discipline (class scope for the whole class, subroutine scope rebuilt
// per subroutine), and owns the label counter used for control flow.
package compiler

import (
	"strconv"

	"github.com/pkg/errors"

	"github.com/skx/jackvm/lexer"
	"github.com/skx/jackvm/symboltable"
	"github.com/skx/jackvm/token"
	"github.com/skx/jackvm/vmwriter"
)

// binaryOperators is the fixed set of binary operator symbols.
const binaryOperators = "+-*/&|<>="

// unaryOperators is the fixed set of unary operator symbols.
const unaryOperators = "-~"

// keywordConstants is the fixed set of keyword-constant lexemes.
var keywordConstants = map[string]bool{
	"true": true, "false": true, "null": true, "this": true,
}

// Engine holds the compilation context: the current class and
// subroutine name, the current subroutine's kind, the two symbol-table
// scopes, the monotonically increasing label counter, and the tokenizer
// and VM-output sink it drives.
type Engine struct {
	className      string
	subroutineName string
	subroutineKind string

	classScope      *symboltable.Table
	subroutineScope *symboltable.Table

	labelCount int

	tokens *lexer.Tokenizer
	out    *vmwriter.Writer
}

// New creates a compilation engine for the source file at path. The
// input is tokenized eagerly; the next call should be Compile.
func New(path string) (*Engine, error) {
	toks, err := lexer.New(path)
	if err != nil {
		return nil, err
	}
	return &Engine{tokens: toks, out: vmwriter.New()}, nil
}

// Compile translates the whole class and returns the generated VM code.
func (e *Engine) Compile() (string, error) {
	if err := e.compileClass(); err != nil {
		return "", err
	}
	return e.out.String(), nil
}

// nextLabel draws a fresh label from the monotonic counter. The counter
// is never reset, so every label generated within one translation unit
// is unique.
func (e *Engine) nextLabel(prefix string) string {
	l := e.labelCount
	e.labelCount++
	return prefix + "Lbl" + strconv.Itoa(l)
}

// cur returns the lexeme of the token at the head of the stream.
func (e *Engine) cur() string {
	return e.tokens.CurrentLexeme()
}

// curKind returns the kind of the token at the head of the stream.
func (e *Engine) curKind() token.Type {
	return e.tokens.CurrentKind()
}

// advance discards the current token.
func (e *Engine) advance() error {
	return errors.WithStack(e.tokens.Advance())
}

// compileClass consumes "class <Ident> { classVarDec* subroutineDec* }".
func (e *Engine) compileClass() error {
	if err := e.advance(); err != nil { // steps over 'class'
		return errors.Wrap(err, "compiling class")
	}
	e.className = e.cur()
	if err := e.advance(); err != nil { // steps over className
		return err
	}
	if err := e.advance(); err != nil { // steps over '{'
		return err
	}

	e.classScope = symboltable.New()

	for e.cur() == "static" || e.cur() == "field" {
		if err := e.compileClassVarDec(); err != nil {
			return err
		}
	}

	for e.cur() == "constructor" || e.cur() == "method" || e.cur() == "function" {
		if err := e.compileSubroutineDec(); err != nil {
			return err
		}
	}

	return e.advance() // steps over '}'
}

// compileClassVarDec compiles "( static | field ) type name (, name)* ;".
func (e *Engine) compileClassVarDec() error {
	kind := symboltable.Kind(e.cur())
	if err := e.advance(); err != nil { // steps over kind
		return err
	}
	typ := e.cur()
	if err := e.advance(); err != nil { // steps over type
		return err
	}

	for {
		name := e.cur()
		if err := e.advance(); err != nil { // steps over name
			return err
		}
		e.classScope.Add(name, typ, kind)

		if e.cur() == "," {
			if err := e.advance(); err != nil {
				return err
			}
			continue
		}
		break
	}

	return e.advance() // steps over ';'
}

// compileSubroutineDec compiles a complete constructor, function, or
// method declaration.
func (e *Engine) compileSubroutineDec() error {
	e.subroutineScope = symboltable.New()

	if e.cur() == "method" {
		e.subroutineScope.Add("this", e.className, symboltable.Argument)
	}

	e.subroutineKind = e.cur()
	if err := e.advance(); err != nil { // steps over subroutineKind
		return err
	}

	if err := e.advance(); err != nil { // steps over return-type
		return err
	}

	e.subroutineName = e.cur()
	if err := e.advance(); err != nil { // steps over subroutineName
		return err
	}

	if err := e.advance(); err != nil { // steps over '('
		return err
	}
	if err := e.compileParameterList(); err != nil {
		return err
	}
	if err := e.advance(); err != nil { // steps over ')'
		return err
	}

	if err := e.compileSubroutineBody(); err != nil {
		return err
	}

	e.subroutineScope = nil
	return nil
}

// compileParameterList compiles a possibly empty, comma-separated
// "type name" list. It does not handle the enclosing parentheses.
func (e *Engine) compileParameterList() error {
	for e.cur() != ")" {
		typ := e.cur()
		if err := e.advance(); err != nil { // steps over type
			return err
		}
		name := e.cur()
		if err := e.advance(); err != nil { // steps over name
			return err
		}
		e.subroutineScope.Add(name, typ, symboltable.Argument)

		if e.cur() == "," {
			if err := e.advance(); err != nil {
				return err
			}
		}
	}
	return nil
}

// compileSubroutineBody compiles a subroutine's body, including the
// enclosing braces. The function directive is emitted only after every
// local variable has been declared, since its local count must be final.
func (e *Engine) compileSubroutineBody() error {
	if err := e.advance(); err != nil { // steps over '{'
		return err
	}

	for e.cur() == "var" {
		if err := e.compileVarDec(); err != nil {
			return err
		}
	}

	e.out.WriteFunction(e.className+"."+e.subroutineName, e.subroutineScope.Count(symboltable.Local))

	switch e.subroutineKind {
	case "constructor":
		e.out.WritePush("constant", e.classScope.Count(symboltable.Field))
		e.out.WriteCall("Memory.alloc", 1)
		e.out.WritePop("pointer", 0)
	case "method":
		e.out.WritePush("argument", 0)
		e.out.WritePop("pointer", 0)
	}

	if err := e.compileStatements(); err != nil {
		return err
	}

	return e.advance() // steps over '}'
}

// compileVarDec compiles "var type name (, name)* ;". All var
// declarations are parsed before the function directive is emitted, so
// n_locals is final by the time it is needed.
func (e *Engine) compileVarDec() error {
	if err := e.advance(); err != nil { // steps over 'var'
		return err
	}
	typ := e.cur()
	if err := e.advance(); err != nil { // steps over type
		return err
	}

	for e.cur() != ";" {
		name := e.cur()
		if err := e.advance(); err != nil {
			return err
		}
		e.subroutineScope.Add(name, typ, symboltable.Local)

		if e.cur() == "," {
			if err := e.advance(); err != nil {
				return err
			}
		}
	}

	return e.advance() // steps over ';'
}

// compileStatements dispatches on the leading keyword, repeatedly, until
// a token outside {let, if, while, do, return} is seen.
func (e *Engine) compileStatements() error {
	for {
		switch e.cur() {
		case "if":
			if err := e.compileIf(); err != nil {
				return err
			}
		case "while":
			if err := e.compileWhile(); err != nil {
				return err
			}
		case "let":
			if err := e.compileLet(); err != nil {
				return err
			}
		case "do":
			if err := e.compileDo(); err != nil {
				return err
			}
		case "return":
			if err := e.compileReturn(); err != nil {
				return err
			}
		default:
			return nil
		}
	}
}

// compileIf compiles an if statement, with an optional trailing else.
func (e *Engine) compileIf() error {
	if err := e.advance(); err != nil { // steps over "if"
		return err
	}
	if err := e.advance(); err != nil { // steps over "("
		return err
	}
	if err := e.compileExpression(); err != nil {
		return err
	}
	e.out.WriteUnary("~")
	l1 := e.nextLabel("if")
	e.out.WriteIf(l1)
	if err := e.advance(); err != nil { // steps over ")"
		return err
	}

	if err := e.advance(); err != nil { // steps over "{"
		return err
	}
	if err := e.compileStatements(); err != nil {
		return err
	}
	if err := e.advance(); err != nil { // steps over "}"
		return err
	}

	if e.cur() == "else" {
		l2 := e.nextLabel("if")
		e.out.WriteGoto(l2)
		e.out.WriteLabel(l1)

		if err := e.advance(); err != nil { // steps over "else"
			return err
		}
		if err := e.advance(); err != nil { // steps over "{"
			return err
		}
		if err := e.compileStatements(); err != nil {
			return err
		}
		if err := e.advance(); err != nil { // steps over "}"
			return err
		}

		e.out.WriteLabel(l2)
	} else {
		e.out.WriteLabel(l1)
	}

	return nil
}

// compileWhile compiles a while statement.
func (e *Engine) compileWhile() error {
	l1 := e.nextLabel("while")
	l2 := e.nextLabel("while")

	e.out.WriteLabel(l1)
	if err := e.advance(); err != nil { // steps over "while"
		return err
	}
	if err := e.advance(); err != nil { // steps over "("
		return err
	}
	if err := e.compileExpression(); err != nil {
		return err
	}
	if err := e.advance(); err != nil { // steps over ")"
		return err
	}
	e.out.WriteUnary("~")
	e.out.WriteIf(l2)

	if err := e.advance(); err != nil { // steps over "{"
		return err
	}
	if err := e.compileStatements(); err != nil {
		return err
	}
	e.out.WriteGoto(l1)
	e.out.WriteLabel(l2)

	return e.advance() // steps over "}"
}

// lookup searches the subroutine scope, then the class scope, for name.
func (e *Engine) lookup(name string) (typ string, kind symboltable.Kind, index int, found bool) {
	if e.subroutineScope != nil && e.subroutineScope.Contains(name) {
		typ, kind, index, _ = e.subroutineScope.Get(name)
		return typ, kind, index, true
	}
	if e.classScope.Contains(name) {
		typ, kind, index, _ = e.classScope.Get(name)
		return typ, kind, index, true
	}
	return "", "", 0, false
}

// segmentFor maps a symbol-table kind onto the VM segment it is stored
// in: static->static, field->this, argument->argument, local->local.
func segmentFor(kind symboltable.Kind) string {
	if kind == symboltable.Field {
		return "this"
	}
	return string(kind)
}

// compileLet compiles "let name = expr ;" or "let name [ idx ] = expr ;".
func (e *Engine) compileLet() error {
	if err := e.advance(); err != nil { // steps over "let"
		return err
	}
	varName := e.cur()
	_, kind, index, found := e.lookup(varName)
	if !found {
		return errors.Errorf("using unknown variable %q", varName)
	}
	if err := e.advance(); err != nil { // steps over varName
		return err
	}

	if e.cur() == "[" {
		if err := e.advance(); err != nil { // steps over '['
			return err
		}
		if err := e.compileExpression(); err != nil {
			return err
		}
		if err := e.advance(); err != nil { // steps over ']'
			return err
		}
		e.out.WritePush(segmentFor(kind), index)
		e.out.WriteArithmetic("+")

		if err := e.advance(); err != nil { // steps over '='
			return err
		}
		if err := e.compileExpression(); err != nil {
			return err
		}
		e.out.WritePop("temp", 0)
		e.out.WritePop("pointer", 1)
		e.out.WritePush("temp", 0)
		e.out.WritePop("that", 0)
	} else {
		if err := e.advance(); err != nil { // steps over '='
			return err
		}
		if err := e.compileExpression(); err != nil {
			return err
		}
		e.out.WritePop(segmentFor(kind), index)
	}

	return e.advance() // steps over ';'
}

// compileDo compiles "do subroutineCall ;", discarding the return value.
func (e *Engine) compileDo() error {
	if err := e.advance(); err != nil { // steps over 'do'
		return err
	}
	name := e.cur()
	if err := e.advance(); err != nil { // steps over name
		return err
	}

	switch e.cur() {
	case ".":
		if err := e.advance(); err != nil { // steps over '.'
			return err
		}
		subName := e.cur()
		if err := e.advance(); err != nil { // steps over subroutineName
			return err
		}
		if err := e.advance(); err != nil { // steps over '('
			return err
		}

		if typ, kind, index, found := e.lookup(name); found {
			e.out.WritePush(segmentFor(kind), index)
			n, err := e.compileExpressionList()
			if err != nil {
				return err
			}
			e.out.WriteCall(typ+"."+subName, n+1)
		} else {
			n, err := e.compileExpressionList()
			if err != nil {
				return err
			}
			e.out.WriteCall(name+"."+subName, n)
		}

		if err := e.advance(); err != nil { // steps over ')'
			return err
		}

	case "(":
		e.out.WritePush("pointer", 0)
		if err := e.advance(); err != nil { // steps over '('
			return err
		}
		n, err := e.compileExpressionList()
		if err != nil {
			return err
		}
		e.out.WriteCall(e.className+"."+name, n+1)
		if err := e.advance(); err != nil { // steps over ')'
			return err
		}

	default:
		return errors.Errorf("expected '.' or '(' after %q in do statement", name)
	}

	if err := e.advance(); err != nil { // steps over ';'
		return err
	}
	e.out.WritePop("temp", 0)
	return nil
}

// compileReturn compiles a return statement. A void return still leaves
// a value on the stack, since every function returns something.
func (e *Engine) compileReturn() error {
	if err := e.advance(); err != nil { // steps over 'return'
		return err
	}

	if e.cur() == ";" {
		if err := e.advance(); err != nil { // steps over ';'
			return err
		}
		e.out.WritePush("constant", 0)
	} else {
		if err := e.compileExpression(); err != nil {
			return err
		}
		if err := e.advance(); err != nil { // steps over ';'
			return err
		}
	}

	e.out.WriteReturn()
	return nil
}
