package expr

import "strings"

type condKind int

const (
	kindEmpty condKind = iota
	kindTrue
	kindFalse
	kindAnd
	kindOr
	kindNot
	kindLeaf
	kindRaw
)

// Cond is a node of a boolean tree. Trees are simplified while they are
// built, so a rendered Cond never carries trivial sub-trees.
type Cond interface {
	Node
	kind() condKind
}

type constCond struct {
	k condKind
}

var (
	// Empty is the absent condition. It renders nothing and vanishes from
	// And/Or.
	Empty Cond = constCond{k: kindEmpty}
	True  Cond = constCond{k: kindTrue}
	False Cond = constCond{k: kindFalse}
)

func (it constCond) kind() condKind {
	return it.k
}

func (it constCond) Render(w *Writer) {
	switch it.k {
	case kindTrue:
		w.Write("1 = 1")
	case kindFalse:
		w.Write("1 = 0")
	}
}

func IsEmpty(c Cond) bool {
	return c == nil || c.kind() == kindEmpty
}

type junction struct {
	k        condKind
	children []Cond
}

func (it *junction) kind() condKind {
	return it.k
}

func (it *junction) Render(w *Writer) {
	sep := " AND "
	if it.k == kindOr {
		sep = " OR "
	}
	for i, child := range it.children {
		if i > 0 {
			w.Write(sep)
		}
		switch child.kind() {
		case kindAnd, kindOr, kindRaw:
			w.Write("(")
			child.Render(w)
			w.Write(")")
		default:
			child.Render(w)
		}
	}
}

func And(conds ...Cond) Cond {
	return join(kindAnd, conds)
}

func Or(conds ...Cond) Cond {
	return join(kindOr, conds)
}

func join(k condKind, conds []Cond) Cond {
	identity, absorbing := True, False
	if k == kindOr {
		identity, absorbing = False, True
	}
	var kept []Cond
	sawIdentity := false
	for _, c := range conds {
		if c == nil {
			continue
		}
		switch c.kind() {
		case kindEmpty:
			continue
		case identity.kind():
			sawIdentity = true
			continue
		case absorbing.kind():
			return absorbing
		case k:
			kept = append(kept, c.(*junction).children...)
		default:
			kept = append(kept, c)
		}
	}
	switch len(kept) {
	case 0:
		if sawIdentity {
			return identity
		}
		return Empty
	case 1:
		return kept[0]
	}
	return &junction{k: k, children: kept}
}

type negation struct {
	inner Cond
}

func (it *negation) kind() condKind {
	return kindNot
}

func (it *negation) Render(w *Writer) {
	w.Write("NOT (")
	it.inner.Render(w)
	w.Write(")")
}

func Not(c Cond) Cond {
	if c == nil {
		return Empty
	}
	switch c.kind() {
	case kindEmpty:
		return Empty
	case kindTrue:
		return False
	case kindFalse:
		return True
	case kindNot:
		return c.(*negation).inner
	}
	return &negation{inner: c}
}

type compare struct {
	key   Key
	op    string
	value any
}

func (it *compare) kind() condKind {
	return kindLeaf
}

func (it *compare) Render(w *Writer) {
	w.Key(it.key)
	w.Write(" " + it.op + " ")
	operand(w, it.value)
}

type nullCheck struct {
	key Key
	not bool
}

func (it *nullCheck) kind() condKind {
	return kindLeaf
}

func (it *nullCheck) Render(w *Writer) {
	w.Key(it.key)
	if it.not {
		w.Write(" IS NOT NULL")
	} else {
		w.Write(" IS NULL")
	}
}

type between struct {
	key       Key
	low, high any
}

func (it *between) kind() condKind {
	return kindLeaf
}

func (it *between) Render(w *Writer) {
	w.Key(it.key)
	w.Write(" BETWEEN ")
	operand(w, it.low)
	w.Write(" AND ")
	operand(w, it.high)
}

type inList struct {
	key    Key
	values []any
	not    bool
}

func (it *inList) kind() condKind {
	return kindLeaf
}

func (it *inList) Render(w *Writer) {
	w.Key(it.key)
	if it.not {
		w.Write(" NOT IN (")
	} else {
		w.Write(" IN (")
	}
	if sub, ok := it.values[0].(*SelectStmt); ok && len(it.values) == 1 {
		sub.Render(w)
		w.Write(")")
		return
	}
	for i, v := range it.values {
		if i > 0 {
			w.Write(", ")
		}
		operand(w, v)
	}
	w.Write(")")
}

type raw struct {
	text string
	args []any
}

func (it *raw) kind() condKind {
	return kindRaw
}

// splitMarks cuts text at every `?` outside single or double quotes.
func splitMarks(text string) []string {
	var parts []string
	var quote rune
	start := 0
	for i, c := range text {
		switch {
		case quote != 0:
			if c == quote {
				quote = 0
			}
		case c == '\'' || c == '"':
			quote = c
		case c == '?':
			parts = append(parts, text[start:i])
			start = i + 1
		}
	}
	return append(parts, text[start:])
}

func (it *raw) Render(w *Writer) {
	parts := splitMarks(it.text)
	if len(parts)-1 != len(it.args) {
		w.Fail(ErrArity)
		return
	}
	for i, part := range parts {
		w.Write(part)
		if i < len(it.args) {
			w.Bind(it.args[i])
		}
	}
}

// Raw embeds a hand written fragment; each `?` in text is bound to the
// matching arg.
func Raw(text string, args ...any) Cond {
	if strings.TrimSpace(text) == "" {
		return Empty
	}
	return &raw{text: text, args: args}
}

// Where is the optional WHERE clause of a statement.
type Where struct {
	Cond Cond
}

func (it Where) And(conds ...Cond) Where {
	return Where{Cond: And(append([]Cond{it.Cond}, conds...)...)}
}

func (it Where) Or(conds ...Cond) Where {
	return Where{Cond: Or(append([]Cond{it.Cond}, conds...)...)}
}

func (it Where) empty() bool {
	return IsEmpty(it.Cond) || it.Cond.kind() == kindTrue
}

func (it Where) Render(w *Writer) {
	if it.empty() {
		return
	}
	w.Write("WHERE ")
	it.Cond.Render(w)
}
