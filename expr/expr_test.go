package expr

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func render(t *testing.T, node Node) (string, []any) {
	t.Helper()
	sql, args, err := ToSql(node)
	require.NoError(t, err)
	return sql, args
}

func TestCompare(t *testing.T) {
	sql, args := render(t, Key("rank_value").Ge(30))
	assert.Equal(t, "rank_value >= ?", sql)
	assert.Equal(t, []any{30}, args)

	sql, args = render(t, Key("black_id").Eq(Key("white_id")))
	assert.Equal(t, "black_id = white_id", sql)
	assert.Empty(t, args)

	sql, _ = render(t, Key("country").Eq(nil))
	assert.Equal(t, "country IS NULL", sql)

	sql, _ = render(t, Key("country").Ne(nil))
	assert.Equal(t, "country IS NOT NULL", sql)

	sql, args = render(t, Key("moves").Between(100, 200))
	assert.Equal(t, "moves BETWEEN ? AND ?", sql)
	assert.Equal(t, []any{100, 200}, args)

	sql, args = render(t, Key("name").Like("Lee%"))
	assert.Equal(t, "name LIKE ?", sql)
	assert.Equal(t, []any{"Lee%"}, args)
}

func TestInList(t *testing.T) {
	sql, args := render(t, Key("id").In("a", "b"))
	assert.Equal(t, "id IN (?, ?)", sql)
	assert.Equal(t, []any{"a", "b"}, args)

	sql, _ = render(t, AnyOf(Key("id"), []string{"x"}))
	assert.Equal(t, "id IN (?)", sql)

	assert.Equal(t, False, Key("id").In())
	assert.Equal(t, True, Key("id").NotIn())

	sql, _ = render(t, Key("id").NotIn(1))
	assert.Equal(t, "id NOT IN (?)", sql)
}

func TestJunctionSimplify(t *testing.T) {
	a := Key("a").Eq(1)
	b := Key("b").Eq(2)
	c := Key("c").Eq(3)

	assert.Equal(t, Empty, And())
	assert.Equal(t, Empty, Or(Empty, nil))
	assert.Equal(t, a, And(a))
	assert.Equal(t, a, And(Empty, a, True))
	assert.Equal(t, False, And(a, False, b))
	assert.Equal(t, True, Or(a, True))
	assert.Equal(t, True, And(True, True))
	assert.Equal(t, False, Or(False))
	assert.Equal(t, b, Or(False, b))

	sql, args := render(t, And(a, And(b, c)))
	assert.Equal(t, "a = ? AND b = ? AND c = ?", sql)
	assert.Equal(t, []any{1, 2, 3}, args)

	sql, _ = render(t, And(a, Or(b, c)))
	assert.Equal(t, "a = ? AND (b = ? OR c = ?)", sql)

	sql, _ = render(t, Or(And(a, b), And(b, a)))
	assert.Equal(t, "(a = ? AND b = ?) OR (b = ? AND a = ?)", sql)
}

func TestNot(t *testing.T) {
	a := Key("a").Eq(1)
	assert.Equal(t, Empty, Not(Empty))
	assert.Equal(t, Empty, Not(nil))
	assert.Equal(t, False, Not(True))
	assert.Equal(t, True, Not(False))
	assert.Equal(t, a, Not(Not(a)))

	sql, _ := render(t, Not(Or(a, Key("b").Eq(2))))
	assert.Equal(t, "NOT (a = ? OR b = ?)", sql)
}

func TestRaw(t *testing.T) {
	sql, args := render(t, And(Key("a").Eq(1), Raw("x > ? OR y < ?", 1, 2)))
	assert.Equal(t, "a = ? AND (x > ? OR y < ?)", sql)
	assert.Equal(t, []any{1, 1, 2}, args)

	_, _, err := ToSql(Raw("x = ?"))
	assert.ErrorIs(t, err, ErrArity)

	assert.Equal(t, Empty, Raw("  "))

	sql, args = render(t, Raw("name = '?' AND note <> \"a?b\" AND id = ?", 1))
	assert.Equal(t, "name = '?' AND note <> \"a?b\" AND id = ?", sql)
	assert.Equal(t, []any{1}, args)
}

func TestInvalidKey(t *testing.T) {
	_, _, err := ToSql(Key("name; DROP TABLE players").Eq(1))
	assert.ErrorIs(t, err, ErrInvalidKey)

	assert.True(t, Key("games.id").Valid())
	assert.False(t, Key("*").Valid())
	assert.False(t, Key("t.*").Valid())
	assert.True(t, Key("*").ValidColumn())
	assert.True(t, Key("games.*").ValidColumn())
	assert.False(t, Key("1abc").Valid())
	assert.False(t, Key("").Valid())
}

func TestStarOnlyInSelectList(t *testing.T) {
	sql, _ := render(t, Select("games.*", "players.name").From("games"))
	assert.Equal(t, "SELECT games.*, players.name FROM games", sql)

	_, _, err := ToSql(Select().From("*"))
	assert.ErrorIs(t, err, ErrInvalidKey)
	_, _, err = ToSql(Select().From("players").Where(Key("*").Eq(1)))
	assert.ErrorIs(t, err, ErrInvalidKey)
	_, _, err = ToSql(Delete("players").Where(Key("t.*").Gt(1)))
	assert.ErrorIs(t, err, ErrInvalidKey)
	_, _, err = ToSql(Select().From("players").OrderBy(Key("*").Asc()))
	assert.ErrorIs(t, err, ErrInvalidKey)
	_, _, err = ToSql(InsertInto("players").Columns("*").Values(1))
	assert.ErrorIs(t, err, ErrInvalidKey)
	_, _, err = ToSql(Update("players").Set("*", 1))
	assert.ErrorIs(t, err, ErrInvalidKey)
}

func TestTypedNil(t *testing.T) {
	var country *string
	sql, args := render(t, Where{Cond: Key("country").Eq(country)})
	assert.Equal(t, "WHERE country IS NULL", sql)
	assert.Empty(t, args)

	sql, _ = render(t, Where{Cond: Key("country").Ne((*int)(nil))})
	assert.Equal(t, "WHERE country IS NOT NULL", sql)

	sql, _ = render(t, Where{Cond: Key("tags").Eq([]string(nil))})
	assert.Equal(t, "WHERE tags IS NULL", sql)

	code := "KR"
	sql, args = render(t, Where{Cond: Key("country").Eq(&code)})
	assert.Equal(t, "WHERE country = ?", sql)
	assert.Equal(t, []any{&code}, args)
}

func TestSelect(t *testing.T) {
	stmt := Select("id", "name").
		From("players").
		Where(Key("country").Eq("KR"), Empty).
		Where(Key("rank_value").Ge(40)).
		OrderBy(Key("rank_value").Desc(), Key("name").Asc()).
		Limit(10).
		Offset(20)
	sql, args := render(t, stmt)
	assert.Equal(t, "SELECT id, name FROM players WHERE country = ? AND rank_value >= ? ORDER BY rank_value DESC, name ASC LIMIT 10 OFFSET 20", sql)
	assert.Equal(t, []any{"KR", 40}, args)
	assert.Equal(t, SelectMethod, stmt.Method())

	sql, args = render(t, Select().From("players"))
	assert.Equal(t, "SELECT * FROM players", sql)
	assert.Empty(t, args)

	sql, _ = render(t, Select().From("games").Count().Where(True))
	assert.Equal(t, "SELECT COUNT(*) FROM games", sql)

	sql, _ = render(t, Select("winner").Distinct().From("games").GroupBy("winner").Where(False))
	assert.Equal(t, "SELECT DISTINCT winner FROM games WHERE 1 = 0 GROUP BY winner", sql)

	sql, _ = render(t, Select().From("games").Limit(0).Offset(5))
	assert.Equal(t, "SELECT * FROM games", sql)

	_, _, err := ToSql(Select("id"))
	assert.ErrorIs(t, err, ErrNoTable)
}

func TestSubSelect(t *testing.T) {
	sub := Select("black_id").From("games").Where(Key("event").Eq("Ing Cup"))
	sql, args := render(t, Select().From("players").Where(Key("id").In(sub)))
	assert.Equal(t, "SELECT * FROM players WHERE id IN (SELECT black_id FROM games WHERE event = ?)", sql)
	assert.Equal(t, []any{"Ing Cup"}, args)
}

func TestInsert(t *testing.T) {
	stmt := InsertInto("players").Set("id", "p1").Set("name", "Lee Sedol")
	sql, args := render(t, stmt)
	assert.Equal(t, "INSERT INTO players (id, name) VALUES (?, ?)", sql)
	assert.Equal(t, []any{"p1", "Lee Sedol"}, args)

	stmt = InsertInto("games").Columns("id", "result").Values("g1", "B+R").Values("g2", Val("W+0.5")).
		OnConflict("id").DoUpdate()
	sql, args = render(t, stmt)
	assert.Equal(t, "INSERT INTO games (id, result) VALUES (?, ?), (?, ?) ON CONFLICT (id) DO UPDATE SET result = excluded.result", sql)
	assert.Equal(t, []any{"g1", "B+R", "g2", "W+0.5"}, args)

	sql, _ = render(t, InsertInto("games").Set("id", "g1").OnConflict("id").DoUpdate())
	assert.Equal(t, "INSERT INTO games (id) VALUES (?) ON CONFLICT (id) DO NOTHING", sql)

	sql, _ = render(t, InsertInto("games").Set("id", "g1").Set("event", "x").OnConflict("id").DoNothing())
	assert.Equal(t, "INSERT INTO games (id, event) VALUES (?, ?) ON CONFLICT (id) DO NOTHING", sql)

	_, _, err := ToSql(InsertInto("games").Columns("id", "result").Values("g1"))
	assert.ErrorIs(t, err, ErrArity)
	_, _, err = ToSql(InsertInto("games"))
	assert.ErrorIs(t, err, ErrNoColumns)
	_, _, err = ToSql(InsertInto("games").Columns("id"))
	assert.ErrorIs(t, err, ErrNoRows)
	_, _, err = ToSql(InsertInto("").Set("id", 1))
	assert.ErrorIs(t, err, ErrNoTable)
}

func TestUpdate(t *testing.T) {
	stmt := Update("players").
		Set("wins", Raw("wins + ?", 1)).
		Set("name", "Cho Chikun").
		Where(Key("id").Eq("p2"))
	sql, args := render(t, stmt)
	assert.Equal(t, "UPDATE players SET wins = wins + ?, name = ? WHERE id = ?", sql)
	assert.Equal(t, []any{1, "Cho Chikun", "p2"}, args)

	_, _, err := ToSql(Update("players").Where(Key("id").Eq(1)))
	assert.ErrorIs(t, err, ErrNoAssign)
}

func TestDelete(t *testing.T) {
	sql, args := render(t, Delete("games").Where(Key("id").In("g1", "g2")))
	assert.Equal(t, "DELETE FROM games WHERE id IN (?, ?)", sql)
	assert.Equal(t, []any{"g1", "g2"}, args)

	sql, _ = render(t, Delete("games"))
	assert.Equal(t, "DELETE FROM games", sql)
}

func TestCustomBinder(t *testing.T) {
	var bound []any
	w := NewWriterWith(func(value any) string {
		bound = append(bound, value)
		return "#{v}"
	})
	Key("a").Eq(7).Render(w)
	assert.NoError(t, w.Err())
	assert.Equal(t, "a = #{v}", w.String())
	assert.Empty(t, w.Args())
	assert.Equal(t, []any{7}, bound)
}

func TestWhere(t *testing.T) {
	var where Where
	sql, _ := render(t, where)
	assert.Equal(t, "", sql)

	where = where.Or(Key("a").Eq(1)).Or(Key("b").Eq(2)).And(Key("c").Eq(3))
	sql, _ = render(t, where)
	assert.Equal(t, "WHERE (a = ? OR b = ?) AND c = ?", sql)
}
