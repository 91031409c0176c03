package store

import (
	"context"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/require"
)

type thing struct {
	ID   int64  `db:"id"`
	Name string `db:"name"`
	Qty  int64  `db:"qty"`
}

func thingManager() *Manager[thing] {
	return NewManager[thing]("things", []string{"id", "name", "qty"})
}

func TestInsertSQL(t *testing.T) {
	q := insertSQL("things", []string{"id", "name", "qty"}, []string{"name", "qty"})
	require.Equal(t,
		`INSERT INTO things (name, qty) VALUES ($1, $2) RETURNING id, name, qty`, q)
}

func TestUpdateSQL(t *testing.T) {
	q := updateSQL("things", []string{"id", "name", "qty"}, []string{"name", "qty"})
	require.Equal(t,
		`UPDATE things SET name = $1, qty = $2 WHERE id = $3 RETURNING id, name, qty`, q)
}

func TestWhereClause(t *testing.T) {
	require.Equal(t, "name = $1 AND qty = $2", whereClause([]string{"name", "qty"}, 0))
	require.Equal(t, "qty = $3", whereClause([]string{"qty"}, 2))
}

// split всегда отдаёт поля в одном и том же порядке, как бы ни
// итерировалась map.
func TestSplit_Deterministic(t *testing.T) {
	m := thingManager()
	for i := 0; i < 20; i++ {
		names, args, err := m.split(map[string]any{"qty": 7, "name": "болт", "id": int64(3)})
		require.NoError(t, err)
		require.Equal(t, []string{"id", "name", "qty"}, names)
		require.Equal(t, []any{int64(3), "болт", 7}, args)
	}
}

func TestSplit_UnknownColumn(t *testing.T) {
	m := thingManager()
	_, _, err := m.split(map[string]any{"name": "x", "color": "red"})
	require.ErrorContains(t, err, "unknown column")
	require.ErrorContains(t, err, "color")
}

func TestCreate_RejectsBeforeQuery(t *testing.T) {
	m := thingManager()
	ctx := context.Background()

	_, err := m.Create(ctx, map[string]any{"color": "red"})
	require.ErrorContains(t, err, "unknown column")

	_, err = m.Create(ctx, map[string]any{})
	require.ErrorContains(t, err, "no fields")
}

func TestUpdate_RejectsEmptyFields(t *testing.T) {
	_, err := thingManager().Update(context.Background(), 1, map[string]any{})
	require.ErrorContains(t, err, "no fields")
}

func TestGetByField_UnknownColumn(t *testing.T) {
	_, err := thingManager().GetByField(context.Background(), "color", "red")
	require.ErrorContains(t, err, "unknown column")
}

func TestDelete(t *testing.T) {
	tx := &fakeTx{execTag: pgconn.NewCommandTag("DELETE 1")}
	ctx := Inject(context.Background(), &UnitOfWork{tx: tx})

	ok, err := thingManager().Delete(ctx, 9)
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, `DELETE FROM things WHERE id = $1`, tx.lastSQL)
	require.Equal(t, []any{int64(9)}, tx.lastArgs)

	tx.execTag = pgconn.NewCommandTag("DELETE 0")
	ok, err = thingManager().Delete(ctx, 9)
	require.NoError(t, err)
	require.False(t, ok)
}

func TestExists_BuildsExistsQuery(t *testing.T) {
	tx := &fakeTx{row: &fakeRow{scan: func(dest ...any) error {
		*(dest[0].(*bool)) = true
		return nil
	}}}
	ctx := Inject(context.Background(), &UnitOfWork{tx: tx})

	ok, err := thingManager().Exists(ctx, map[string]any{"name": "болт"})
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, `SELECT EXISTS (SELECT 1 FROM things WHERE name = $1)`, tx.lastSQL)
	require.Equal(t, []any{"болт"}, tx.lastArgs)
}

func TestCount(t *testing.T) {
	tx := &fakeTx{row: &fakeRow{scan: func(dest ...any) error {
		*(dest[0].(*int64)) = 5
		return nil
	}}}
	ctx := Inject(context.Background(), &UnitOfWork{tx: tx})

	n, err := thingManager().Count(ctx)
	require.NoError(t, err)
	require.Equal(t, int64(5), n)
	require.Equal(t, `SELECT COUNT(*) FROM things`, tx.lastSQL)
}
