// Package symboltable implements the two-scope binding store used by the
// compilation engine: a class scope (lifetime = the whole class) and a
// subroutine scope (lifetime = one subroutine, rebuilt from empty at the
// start of every subroutine).
package symboltable

import "github.com/pkg/errors"

// Kind is the role a declared identifier plays in the source: its kind
// maps 1:1 onto a VM segment at emission time.
type Kind string

// The four kinds a symbol-table entry may hold.
const (
	Static   Kind = "static"
	Field    Kind = "field"
	Argument Kind = "argument"
	Local    Kind = "local"
)

// entry is one binding: a type, a kind, and a dense per-kind index.
type entry struct {
	typ   string
	kind  Kind
	index int
}

// Table is a single scope: a flat map of name to entry, plus a running
// count of entries seen per kind so indices are dense and allocated in
// insertion order.
type Table struct {
	entries map[string]entry
	counts  map[Kind]int
}

// New returns an empty scope.
func New() *Table {
	return &Table{
		entries: make(map[string]entry),
		counts:  make(map[Kind]int),
	}
}

// Add records name as a new binding of the given type and kind, assigning
// it the next index for that kind. Adding the same name twice within one
// scope is a programming error in the source being compiled.
func (t *Table) Add(name, typ string, kind Kind) {
	idx := t.counts[kind]
	t.counts[kind] = idx + 1
	t.entries[name] = entry{typ: typ, kind: kind, index: idx}
}

// Contains reports whether name is bound in this scope.
func (t *Table) Contains(name string) bool {
	_, ok := t.entries[name]
	return ok
}

// Get looks up name, returning its type, kind, and index. It fails if
// name is not bound in this scope.
func (t *Table) Get(name string) (typ string, kind Kind, index int, err error) {
	e, ok := t.entries[name]
	if !ok {
		return "", "", 0, errors.Errorf("unknown identifier %q", name)
	}
	return e.typ, e.kind, e.index, nil
}

// Count returns the number of entries of the given kind currently bound
// in this scope.
func (t *Table) Count(kind Kind) int {
	return t.counts[kind]
}
