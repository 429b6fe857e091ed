package expr

type MethodKind int

const (
	SelectMethod MethodKind = iota
	InsertMethod
	UpdateMethod
	DeleteMethod
)

// Method is a complete statement.
type Method interface {
	Node
	Method() MethodKind
}

type SelectStmt struct {
	columns  []Key
	table    Key
	count    bool
	distinct bool
	where    Where
	groupBy  []Key
	order    Order
	limit    Limit
}

func Select(columns ...Key) *SelectStmt {
	return &SelectStmt{columns: columns}
}

func (it *SelectStmt) Method() MethodKind {
	return SelectMethod
}

func (it *SelectStmt) From(table Key) *SelectStmt {
	it.table = table
	return it
}

func (it *SelectStmt) Count() *SelectStmt {
	it.count = true
	return it
}

func (it *SelectStmt) Distinct() *SelectStmt {
	it.distinct = true
	return it
}

func (it *SelectStmt) Where(conds ...Cond) *SelectStmt {
	it.where = it.where.And(conds...)
	return it
}

func (it *SelectStmt) GroupBy(keys ...Key) *SelectStmt {
	it.groupBy = append(it.groupBy, keys...)
	return it
}

func (it *SelectStmt) OrderBy(items ...Ordering) *SelectStmt {
	it.order = it.order.Then(items...)
	return it
}

func (it *SelectStmt) Limit(n int) *SelectStmt {
	it.limit.Count = n
	return it
}

func (it *SelectStmt) Offset(n int) *SelectStmt {
	it.limit.Skip = n
	return it
}

func (it *SelectStmt) Render(w *Writer) {
	if it.table == "" {
		w.Fail(ErrNoTable)
		return
	}
	w.Write("SELECT ")
	if it.distinct {
		w.Write("DISTINCT ")
	}
	switch {
	case it.count:
		w.Write("COUNT(*)")
	case len(it.columns) < 1:
		w.Write("*")
	default:
		for i, k := range it.columns {
			if i > 0 {
				w.Write(", ")
			}
			w.Column(k)
		}
	}
	w.Write(" FROM ")
	w.Key(it.table)
	if !it.where.empty() {
		w.Write(" ")
		it.where.Render(w)
	}
	if len(it.groupBy) > 0 {
		w.Write(" GROUP BY ")
		keyList(w, it.groupBy)
	}
	if len(it.order) > 0 {
		w.Write(" ")
		it.order.Render(w)
	}
	if !it.limit.empty() {
		w.Write(" ")
		it.limit.Render(w)
	}
}

type InsertStmt struct {
	table     Key
	columns   []Key
	rows      [][]any
	conflict  []Key
	updates   []Key
	onConfl   bool
	doNothing bool
}

func InsertInto(table Key) *InsertStmt {
	return &InsertStmt{table: table}
}

func (it *InsertStmt) Method() MethodKind {
	return InsertMethod
}

func (it *InsertStmt) Columns(columns ...Key) *InsertStmt {
	it.columns = append(it.columns, columns...)
	return it
}

// Values appends one row; its arity is checked when rendered.
func (it *InsertStmt) Values(values ...any) *InsertStmt {
	it.rows = append(it.rows, values)
	return it
}

// Set adds a column to a single row insert.
func (it *InsertStmt) Set(column Key, value any) *InsertStmt {
	it.columns = append(it.columns, column)
	if len(it.rows) < 1 {
		it.rows = append(it.rows, nil)
	}
	it.rows[0] = append(it.rows[0], value)
	return it
}

func (it *InsertStmt) OnConflict(keys ...Key) *InsertStmt {
	it.onConfl = true
	it.conflict = keys
	return it
}

// DoUpdate overwrites columns of the conflicting row with the incoming ones;
// without columns every non conflict column is overwritten.
func (it *InsertStmt) DoUpdate(columns ...Key) *InsertStmt {
	it.doNothing = false
	it.updates = columns
	return it
}

func (it *InsertStmt) DoNothing() *InsertStmt {
	it.doNothing = true
	it.updates = nil
	return it
}

func (it *InsertStmt) Render(w *Writer) {
	if it.table == "" {
		w.Fail(ErrNoTable)
		return
	}
	if len(it.columns) < 1 {
		w.Fail(ErrNoColumns)
		return
	}
	if len(it.rows) < 1 {
		w.Fail(ErrNoRows)
		return
	}
	for _, row := range it.rows {
		if len(row) != len(it.columns) {
			w.Fail(ErrArity)
			return
		}
	}
	w.Write("INSERT INTO ")
	w.Key(it.table)
	w.Write(" (")
	keyList(w, it.columns)
	w.Write(") VALUES ")
	for i, row := range it.rows {
		if i > 0 {
			w.Write(", ")
		}
		w.Write("(")
		for j, v := range row {
			if j > 0 {
				w.Write(", ")
			}
			operand(w, v)
		}
		w.Write(")")
	}
	if it.onConfl {
		it.renderConflict(w)
	}
}

func (it *InsertStmt) renderConflict(w *Writer) {
	w.Write(" ON CONFLICT")
	if len(it.conflict) > 0 {
		w.Write(" (")
		keyList(w, it.conflict)
		w.Write(")")
	}
	updates := it.updates
	if len(updates) < 1 && !it.doNothing {
		skip := map[Key]bool{}
		for _, k := range it.conflict {
			skip[k] = true
		}
		for _, k := range it.columns {
			if !skip[k] {
				updates = append(updates, k)
			}
		}
	}
	if it.doNothing || len(updates) < 1 {
		w.Write(" DO NOTHING")
		return
	}
	w.Write(" DO UPDATE SET ")
	for i, k := range updates {
		if i > 0 {
			w.Write(", ")
		}
		w.Key(k)
		w.Write(" = excluded.")
		w.Key(k)
	}
}

type assignment struct {
	column Key
	value  any
}

type UpdateStmt struct {
	table   Key
	assigns []assignment
	where   Where
}

func Update(table Key) *UpdateStmt {
	return &UpdateStmt{table: table}
}

func (it *UpdateStmt) Method() MethodKind {
	return UpdateMethod
}

// Set assigns value to column; value may be a Key or a Raw fragment to
// reference other columns.
func (it *UpdateStmt) Set(column Key, value any) *UpdateStmt {
	it.assigns = append(it.assigns, assignment{column: column, value: value})
	return it
}

func (it *UpdateStmt) Where(conds ...Cond) *UpdateStmt {
	it.where = it.where.And(conds...)
	return it
}

func (it *UpdateStmt) Render(w *Writer) {
	if it.table == "" {
		w.Fail(ErrNoTable)
		return
	}
	if len(it.assigns) < 1 {
		w.Fail(ErrNoAssign)
		return
	}
	w.Write("UPDATE ")
	w.Key(it.table)
	w.Write(" SET ")
	for i, a := range it.assigns {
		if i > 0 {
			w.Write(", ")
		}
		w.Key(a.column)
		w.Write(" = ")
		operand(w, a.value)
	}
	if !it.where.empty() {
		w.Write(" ")
		it.where.Render(w)
	}
}

type DeleteStmt struct {
	table Key
	where Where
}

func Delete(table Key) *DeleteStmt {
	return &DeleteStmt{table: table}
}

func (it *DeleteStmt) Method() MethodKind {
	return DeleteMethod
}

func (it *DeleteStmt) Where(conds ...Cond) *DeleteStmt {
	it.where = it.where.And(conds...)
	return it
}

func (it *DeleteStmt) Render(w *Writer) {
	if it.table == "" {
		w.Fail(ErrNoTable)
		return
	}
	w.Write("DELETE FROM ")
	w.Key(it.table)
	if !it.where.empty() {
		w.Write(" ")
		it.where.Render(w)
	}
}

func keyList(w *Writer, keys []Key) {
	for i, k := range keys {
		if i > 0 {
			w.Write(", ")
		}
		w.Key(k)
	}
}
