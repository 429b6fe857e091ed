package expr

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrInvalidKey = errors.New("expr: invalid key")
	ErrNoTable    = errors.New("expr: missing table")
	ErrNoColumns  = errors.New("expr: missing columns")
	ErrNoRows     = errors.New("expr: missing values")
	ErrArity      = errors.New("expr: value count does not match column count")
	ErrNoAssign   = errors.New("expr: update without assignments")
)

// Binder renders a bound value into the statement text and returns the
// placeholder written in its place.
type Binder func(value any) string

// Writer accumulates the rendered text of a node tree. The first error
// reported by any node is kept and later ones are dropped.
type Writer struct {
	buf  strings.Builder
	args []any
	bind Binder
	err  error
}

func NewWriter() *Writer {
	return &Writer{}
}

func NewWriterWith(bind Binder) *Writer {
	return &Writer{bind: bind}
}

func (it *Writer) Write(text string) {
	it.buf.WriteString(text)
}

func (it *Writer) Key(key Key) {
	if !key.Valid() {
		it.Fail(fmt.Errorf("%w: %q", ErrInvalidKey, string(key)))
		return
	}
	it.buf.WriteString(string(key))
}

// Column writes an entry of a select list.
func (it *Writer) Column(key Key) {
	if !key.ValidColumn() {
		it.Fail(fmt.Errorf("%w: %q", ErrInvalidKey, string(key)))
		return
	}
	it.buf.WriteString(string(key))
}

func (it *Writer) Bind(value any) {
	if it.bind != nil {
		it.buf.WriteString(it.bind(value))
		return
	}
	it.buf.WriteString("?")
	it.args = append(it.args, value)
}

func (it *Writer) Fail(err error) {
	if it.err == nil {
		it.err = err
	}
}

func (it *Writer) Err() error {
	return it.err
}

func (it *Writer) String() string {
	return it.buf.String()
}

func (it *Writer) Args() []any {
	return it.args
}

// Node is any piece of the tree that knows how to render itself.
type Node interface {
	Render(w *Writer)
}

// ToSql renders node with `?` placeholders and returns the collected args.
func ToSql(node Node) (string, []any, error) {
	w := NewWriter()
	node.Render(w)
	if w.err != nil {
		return "", nil, w.err
	}
	return w.String(), w.args, nil
}

func operand(w *Writer, value any) {
	switch val := value.(type) {
	case Key:
		w.Key(val)
	case Value:
		w.Bind(val.V)
	case *SelectStmt:
		w.Write("(")
		val.Render(w)
		w.Write(")")
	case Node:
		val.Render(w)
	default:
		w.Bind(value)
	}
}
