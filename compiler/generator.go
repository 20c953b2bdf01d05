// generator.go contains the expression-and-term half of the engine: the
// productions that decide, term by term, which VM sequence a piece of an
// expression compiles to.

package compiler

import (
	"strconv"
	"strings"

	"github.com/pkg/errors"

	"github.com/skx/jackvm/token"
)

// compileExpression compiles "term ( op term )*". Operators associate
// strictly left-to-right in textual order; there is no precedence.
func (e *Engine) compileExpression() error {
	if err := e.compileTerm(); err != nil {
		return err
	}

	for e.curKind() == token.SYMBOL && strings.ContainsAny(e.cur(), binaryOperators) {
		op := e.cur()
		if err := e.advance(); err != nil { // steps over operator
			return err
		}
		if err := e.compileTerm(); err != nil {
			return err
		}
		e.out.WriteArithmetic(op)
	}

	return nil
}

// compileTerm compiles a single term. When the current token is an
// identifier, a single token of lookahead (one of '(', '[', or '.')
// disambiguates a bare variable, an array entry, and a subroutine call.
func (e *Engine) compileTerm() error {
	switch {
	case e.curKind() == token.INT_CONST:
		n, err := strconv.Atoi(e.cur())
		if err != nil {
			return errors.Wrapf(err, "invalid integer constant %q", e.cur())
		}
		e.out.WritePush("constant", n)
		return e.advance()

	case e.curKind() == token.STR_CONST:
		return e.compileStringConstant()

	case keywordConstants[e.cur()]:
		return e.compileKeywordConstant()

	case e.curKind() == token.IDENTIFIER:
		return e.compileIdentifierTerm()

	case e.cur() == "(":
		if err := e.advance(); err != nil { // steps over '('
			return err
		}
		if err := e.compileExpression(); err != nil {
			return err
		}
		return e.advance() // steps over ')'

	case strings.ContainsAny(e.cur(), unaryOperators) && e.curKind() == token.SYMBOL:
		op := e.cur()
		if err := e.advance(); err != nil { // steps over unaryOp
			return err
		}
		if err := e.compileTerm(); err != nil {
			return err
		}
		e.out.WriteUnary(op)
		return nil

	default:
		return errors.Errorf("unexpected token %q while compiling a term", e.cur())
	}
}

// compileStringConstant pushes the length, calls String.new, then
// appends each character in order via String.appendChar, which returns
// the string and leaves it as the term's value.
func (e *Engine) compileStringConstant() error {
	s := e.cur()
	if err := e.advance(); err != nil { // steps over stringConstant
		return err
	}

	e.out.WritePush("constant", len([]rune(s)))
	e.out.WriteCall("String.new", 1)
	for _, c := range s {
		e.out.WritePush("constant", int(c))
		e.out.WriteCall("String.appendChar", 2)
	}
	return nil
}

// compileKeywordConstant compiles true/false/null/this.
func (e *Engine) compileKeywordConstant() error {
	kw := e.cur()
	if err := e.advance(); err != nil { // steps over the keyword
		return err
	}

	switch kw {
	case "true":
		e.out.WritePush("constant", 0)
		e.out.WriteUnary("~")
	case "false", "null":
		e.out.WritePush("constant", 0)
	case "this":
		e.out.WritePush("pointer", 0)
	default:
		return errors.Errorf("unreachable keyword constant %q", kw)
	}
	return nil
}

// compileIdentifierTerm handles the three remaining term cases: a bare
// variable reference, an array entry "name[expr]", and a subroutine
// call in one of its three forms (implicit-this method, receiver
// method, or class-qualified function).
func (e *Engine) compileIdentifierTerm() error {
	name := e.cur()

	if typ, kind, index, found := e.lookup(name); found {
		switch e.tokens.NextLexeme() {
		case "[":
			if err := e.advance(); err != nil { // steps over name
				return err
			}
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
			e.out.WritePop("pointer", 1)
			e.out.WritePush("that", 0)
			return nil

		case ".":
			e.out.WritePush(segmentFor(kind), index)
			if err := e.advance(); err != nil { // steps over name
				return err
			}
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
			n, err := e.compileExpressionList()
			if err != nil {
				return err
			}
			e.out.WriteCall(typ+"."+subName, n+1)
			return e.advance() // steps over ')'

		default:
			e.out.WritePush(segmentFor(kind), index)
			return e.advance() // steps over name
		}
	}

	switch e.tokens.NextLexeme() {
	case "(":
		if err := e.advance(); err != nil { // steps over name
			return err
		}
		if err := e.advance(); err != nil { // steps over '('
			return err
		}
		e.out.WritePush("pointer", 0)
		n, err := e.compileExpressionList()
		if err != nil {
			return err
		}
		e.out.WriteCall(e.className+"."+name, n+1)
		return e.advance() // steps over ')'

	case ".":
		if err := e.advance(); err != nil { // steps over name
			return err
		}
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
		n, err := e.compileExpressionList()
		if err != nil {
			return err
		}
		e.out.WriteCall(name+"."+subName, n)
		return e.advance() // steps over ')'

	default:
		return errors.Errorf("using unknown variable %q", name)
	}
}

// compileExpressionList compiles a possibly empty, comma-separated
// expression list, not handling the enclosing parentheses, and returns
// the number of expressions compiled.
func (e *Engine) compileExpressionList() (int, error) {
	count := 0
	for e.cur() != ")" {
		if err := e.compileExpression(); err != nil {
			return 0, err
		}
		count++
		if e.cur() == "," {
			if err := e.advance(); err != nil {
				return 0, err
			}
		}
	}
	return count, nil
}
