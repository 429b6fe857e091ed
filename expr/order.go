package expr

import "strconv"

type Ordering struct {
	Key  Key
	Desc bool
}

type Order []Ordering

func OrderBy(items ...Ordering) Order {
	return items
}

func (it Order) Then(items ...Ordering) Order {
	return append(append(Order{}, it...), items...)
}

func (it Order) Render(w *Writer) {
	if len(it) < 1 {
		return
	}
	w.Write("ORDER BY ")
	for i, item := range it {
		if i > 0 {
			w.Write(", ")
		}
		w.Key(item.Key)
		if item.Desc {
			w.Write(" DESC")
		} else {
			w.Write(" ASC")
		}
	}
}

// Limit renders nothing unless Count is positive; Skip is only honoured
// together with a Count.
type Limit struct {
	Count int
	Skip  int
}

func Take(n int) Limit {
	return Limit{Count: n}
}

func (it Limit) Offset(n int) Limit {
	it.Skip = n
	return it
}

func (it Limit) empty() bool {
	return it.Count <= 0
}

func (it Limit) Render(w *Writer) {
	if it.empty() {
		return
	}
	w.Write("LIMIT " + strconv.Itoa(it.Count))
	if it.Skip > 0 {
		w.Write(" OFFSET " + strconv.Itoa(it.Skip))
	}
}
