package store

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/jackc/pgx/v5"
)

// Manager — типовые операции над одной таблицей. Все запросы идут через
// единицу работы из контекста (From), поэтому запись нескольких сущностей
// в рамках одного запроса коммитится одним махом.
type Manager[T any] struct {
	table  string
	cols   []string
	colSet map[string]struct{}
}

// NewManager описывает таблицу явным списком колонок: он же порядок
// SELECT/RETURNING и белый список для Create/Update/Filter.
func NewManager[T any](table string, columns []string) *Manager[T] {
	set := make(map[string]struct{}, len(columns))
	for _, c := range columns {
		set[c] = struct{}{}
	}
	return &Manager[T]{table: table, cols: columns, colSet: set}
}

func (m *Manager[T]) Create(ctx context.Context, fields map[string]any) (*T, error) {
	names, args, err := m.split(fields)
	if err != nil {
		return nil, err
	}
	if len(names) == 0 {
		return nil, fmt.Errorf("store: create %s: no fields", m.table)
	}
	q := insertSQL(m.table, m.cols, names)
	return m.collectOne(ctx, q, args...)
}

func (m *Manager[T]) Get(ctx context.Context, id int64) (*T, error) {
	q := fmt.Sprintf(`SELECT %s FROM %s WHERE id = $1`, strings.Join(m.cols, ", "), m.table)
	return m.collectOne(ctx, q, id)
}

func (m *Manager[T]) GetByField(ctx context.Context, name string, value any) (*T, error) {
	if err := m.check(name); err != nil {
		return nil, err
	}
	q := fmt.Sprintf(`SELECT %s FROM %s WHERE %s = $1 LIMIT 1`,
		strings.Join(m.cols, ", "), m.table, name)
	return m.collectOne(ctx, q, value)
}

// Filter — конъюнкция точных равенств, порядок строк — как отдаёт база.
func (m *Manager[T]) Filter(ctx context.Context, filters map[string]any) ([]T, error) {
	names, args, err := m.split(filters)
	if err != nil {
		return nil, err
	}
	q := fmt.Sprintf(`SELECT %s FROM %s`, strings.Join(m.cols, ", "), m.table)
	if len(names) > 0 {
		q += " WHERE " + whereClause(names, 0)
	}
	rows, err := From(ctx).Querier().Query(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, pgx.RowToStructByName[T])
}

// Exists — именно EXISTS-запрос, строки не вычитываются.
func (m *Manager[T]) Exists(ctx context.Context, filters map[string]any) (bool, error) {
	names, args, err := m.split(filters)
	if err != nil {
		return false, err
	}
	inner := fmt.Sprintf(`SELECT 1 FROM %s`, m.table)
	if len(names) > 0 {
		inner += " WHERE " + whereClause(names, 0)
	}
	var ok bool
	err = From(ctx).Querier().QueryRow(ctx, `SELECT EXISTS (`+inner+`)`, args...).Scan(&ok)
	if err != nil {
		return false, err
	}
	return ok, nil
}

// Update обновляет только переданные поля; nil, nil — если строки нет.
func (m *Manager[T]) Update(ctx context.Context, id int64, fields map[string]any) (*T, error) {
	names, args, err := m.split(fields)
	if err != nil {
		return nil, err
	}
	if len(names) == 0 {
		return nil, fmt.Errorf("store: update %s: no fields", m.table)
	}
	q := updateSQL(m.table, m.cols, names)
	args = append(args, id)
	return m.collectOne(ctx, q, args...)
}

func (m *Manager[T]) Delete(ctx context.Context, id int64) (bool, error) {
	tag, err := From(ctx).Querier().Exec(ctx,
		fmt.Sprintf(`DELETE FROM %s WHERE id = $1`, m.table), id)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

func (m *Manager[T]) Count(ctx context.Context) (int64, error) {
	var n int64
	err := From(ctx).Querier().QueryRow(ctx,
		fmt.Sprintf(`SELECT COUNT(*) FROM %s`, m.table)).Scan(&n)
	if err != nil {
		return 0, err
	}
	return n, nil
}

func (m *Manager[T]) collectOne(ctx context.Context, q string, args ...any) (*T, error) {
	rows, err := From(ctx).Querier().Query(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	rec, err := pgx.CollectOneRow(rows, pgx.RowToAddrOfStructByName[T])
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return rec, nil
}

func (m *Manager[T]) check(name string) error {
	if _, ok := m.colSet[name]; !ok {
		return fmt.Errorf("store: unknown column %q for table %s", name, m.table)
	}
	return nil
}

// split валидирует имена полей и отдаёт их в детерминированном
// (отсортированном) порядке вместе со значениями.
func (m *Manager[T]) split(fields map[string]any) ([]string, []any, error) {
	names := make([]string, 0, len(fields))
	for name := range fields {
		if err := m.check(name); err != nil {
			return nil, nil, err
		}
		names = append(names, name)
	}
	sort.Strings(names)
	args := make([]any, 0, len(names))
	for _, name := range names {
		args = append(args, fields[name])
	}
	return names, args, nil
}

func insertSQL(table string, cols, names []string) string {
	ph := make([]string, len(names))
	for i := range names {
		ph[i] = fmt.Sprintf("$%d", i+1)
	}
	return fmt.Sprintf(`INSERT INTO %s (%s) VALUES (%s) RETURNING %s`,
		table, strings.Join(names, ", "), strings.Join(ph, ", "), strings.Join(cols, ", "))
}

func updateSQL(table string, cols, names []string) string {
	set := make([]string, len(names))
	for i, name := range names {
		set[i] = fmt.Sprintf("%s = $%d", name, i+1)
	}
	return fmt.Sprintf(`UPDATE %s SET %s WHERE id = $%d RETURNING %s`,
		table, strings.Join(set, ", "), len(names)+1, strings.Join(cols, ", "))
}

func whereClause(names []string, offset int) string {
	conds := make([]string, len(names))
	for i, name := range names {
		conds[i] = fmt.Sprintf("%s = $%d", name, offset+i+1)
	}
	return strings.Join(conds, " AND ")
}
