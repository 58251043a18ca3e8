package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/spec-kit/helpdesk/internal/domain"
)

const (
	defaultPerPage = 20
	maxPerPage     = 100
	maxPage        = 100000

	uniqueViolation = "23505"
)

var (
	// ErrUnknownColumn is returned when a caller names a column the table does not have.
	ErrUnknownColumn = fmt.Errorf("%w: unknown column", domain.ErrInvalidQuery)
	// ErrInvalidDirection is returned for an ORDER BY direction other than asc or desc.
	ErrInvalidDirection = fmt.Errorf("%w: invalid order direction", domain.ErrInvalidQuery)
)

// Querier is the subset of pgxpool.Pool the repositories use.
type Querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// Schema maps an entity onto a single table. The id, created_at and
// updated_at columns are managed by the database and are not listed in Columns.
type Schema[T any] struct {
	Table   string
	Columns []string
	// Fields returns pointers to the entity's fields in Columns order.
	Fields func(*T) []any
	// Meta returns pointers to the database managed fields.
	Meta     func(*T) (id *string, createdAt, updatedAt *time.Time)
	NotFound error
	// DefaultOrder is used by FindBy and All.
	DefaultOrder string
}

// Condition is an equality filter on one column.
type Condition struct {
	Column string
	Value  any
	Not    bool
}

// PageRequest describes one page of a listing.
type PageRequest struct {
	Page      int
	PerPage   int
	OrderBy   string
	Direction string
	Where     []Condition
}

// Page is one page of results.
type Page[T any] struct {
	Items   []*T
	Page    int
	PerPage int
	Total   int
}

// TotalPages returns the number of pages needed for Total items.
func (p *Page[T]) TotalPages() int {
	if p.PerPage <= 0 || p.Total == 0 {
		return 0
	}
	return (p.Total + p.PerPage - 1) / p.PerPage
}

// Table implements the generic persistence operations for one entity.
type Table[T any] struct {
	db      Querier
	schema  Schema[T]
	columns []string
	known   map[string]int
}

// NewTable builds a Table for schema.
func NewTable[T any](db Querier, schema Schema[T]) *Table[T] {
	columns := make([]string, 0, len(schema.Columns)+3)
	columns = append(columns, "id")
	columns = append(columns, schema.Columns...)
	columns = append(columns, "created_at", "updated_at")

	known := make(map[string]int, len(columns))
	for i, c := range columns {
		known[c] = i
	}
	if schema.DefaultOrder == "" {
		schema.DefaultOrder = "created_at ASC"
	}
	return &Table[T]{db: db, schema: schema, columns: columns, known: known}
}

// Save inserts entity when its id is empty and updates it otherwise.
func (t *Table[T]) Save(ctx context.Context, entity *T) error {
	id, createdAt, updatedAt := t.schema.Meta(entity)
	values := t.schema.Fields(entity)

	var err error
	if *id == "" {
		err = t.db.QueryRow(ctx, t.insertSQL(), values...).Scan(id, createdAt, updatedAt)
	} else {
		args := append(values, *id)
		err = t.db.QueryRow(ctx, t.updateSQL(), args...).Scan(createdAt, updatedAt)
	}
	return t.wrap("save", err)
}

// Find loads the row with id.
func (t *Table[T]) Find(ctx context.Context, id string) (*T, error) {
	return t.FindOneBy(ctx, "id", id)
}

// FindOneBy loads the first row where column equals value.
func (t *Table[T]) FindOneBy(ctx context.Context, column string, value any) (*T, error) {
	query, args, err := t.selectSQL(t.columns, []Condition{{Column: column, Value: value}}, "", 1, 0)
	if err != nil {
		return nil, err
	}
	entity := new(T)
	if err := t.db.QueryRow(ctx, query, args...).Scan(t.targets(entity, t.columns)...); err != nil {
		return nil, t.wrap("find", err)
	}
	return entity, nil
}

// FindBy loads every row where column equals value.
func (t *Table[T]) FindBy(ctx context.Context, column string, value any) ([]*T, error) {
	return t.Where(ctx, []Condition{{Column: column, Value: value}})
}

// Where loads every row matching all conditions.
func (t *Table[T]) Where(ctx context.Context, where []Condition) ([]*T, error) {
	query, args, err := t.selectSQL(t.columns, where, t.schema.DefaultOrder, 0, 0)
	if err != nil {
		return nil, err
	}
	return t.query(ctx, t.columns, query, args)
}

// All loads every row. When columns are given only those fields are populated.
func (t *Table[T]) All(ctx context.Context, columns ...string) ([]*T, error) {
	if len(columns) == 0 {
		columns = t.columns
	}
	query, args, err := t.selectSQL(columns, nil, t.schema.DefaultOrder, 0, 0)
	if err != nil {
		return nil, err
	}
	return t.query(ctx, columns, query, args)
}

// Paginate loads one page of rows.
func (t *Table[T]) Paginate(ctx context.Context, req PageRequest) (*Page[T], error) {
	req = normalizePage(req)
	order, err := t.orderClause(req.OrderBy, req.Direction)
	if err != nil {
		return nil, err
	}
	total, err := t.Count(ctx, req.Where...)
	if err != nil {
		return nil, err
	}
	query, args, err := t.selectSQL(t.columns, req.Where, order, req.PerPage, (req.Page-1)*req.PerPage)
	if err != nil {
		return nil, err
	}
	items, err := t.query(ctx, t.columns, query, args)
	if err != nil {
		return nil, err
	}
	return &Page[T]{Items: items, Page: req.Page, PerPage: req.PerPage, Total: total}, nil
}

// Count returns the number of rows matching all conditions.
func (t *Table[T]) Count(ctx context.Context, where ...Condition) (int, error) {
	clause, args, err := t.whereClause(where)
	if err != nil {
		return 0, err
	}
	var total int
	query := fmt.Sprintf("SELECT COUNT(*) FROM %s%s", t.schema.Table, clause)
	if err := t.db.QueryRow(ctx, query, args...).Scan(&total); err != nil {
		return 0, t.wrap("count", err)
	}
	return total, nil
}

// Delete removes the row with id.
func (t *Table[T]) Delete(ctx context.Context, id string) error {
	n, err := t.DeleteBy(ctx, "id", id)
	if err != nil {
		return err
	}
	if n == 0 {
		return t.schema.NotFound
	}
	return nil
}

// DeleteBy removes every row where column equals value.
func (t *Table[T]) DeleteBy(ctx context.Context, column string, value any) (int64, error) {
	clause, args, err := t.whereClause([]Condition{{Column: column, Value: value}})
	if err != nil {
		return 0, err
	}
	cmd, err := t.db.Exec(ctx, fmt.Sprintf("DELETE FROM %s%s", t.schema.Table, clause), args...)
	if err != nil {
		return 0, t.wrap("delete", err)
	}
	return cmd.RowsAffected(), nil
}

func (t *Table[T]) query(ctx context.Context, columns []string, query string, args []any) ([]*T, error) {
	rows, err := t.db.Query(ctx, query, args...)
	if err != nil {
		return nil, t.wrap("query", err)
	}
	defer rows.Close()

	var items []*T
	for rows.Next() {
		entity := new(T)
		if err := rows.Scan(t.targets(entity, columns)...); err != nil {
			return nil, t.wrap("scan", err)
		}
		items = append(items, entity)
	}
	if err := rows.Err(); err != nil {
		return nil, t.wrap("query", err)
	}
	return items, nil
}

// targets returns scan destinations for columns, which must already be checked.
func (t *Table[T]) targets(entity *T, columns []string) []any {
	id, createdAt, updatedAt := t.schema.Meta(entity)
	all := make([]any, 0, len(t.columns))
	all = append(all, id)
	all = append(all, t.schema.Fields(entity)...)
	all = append(all, createdAt, updatedAt)

	out := make([]any, len(columns))
	for i, c := range columns {
		out[i] = all[t.known[c]]
	}
	return out
}

func (t *Table[T]) insertSQL() string {
	placeholders := make([]string, len(t.schema.Columns))
	for i := range t.schema.Columns {
		placeholders[i] = fmt.Sprintf("$%d", i+1)
	}
	return fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s) RETURNING id, created_at, updated_at",
		t.schema.Table, strings.Join(t.schema.Columns, ", "), strings.Join(placeholders, ", "))
}

func (t *Table[T]) updateSQL() string {
	sets := make([]string, len(t.schema.Columns))
	for i, c := range t.schema.Columns {
		sets[i] = fmt.Sprintf("%s=$%d", c, i+1)
	}
	return fmt.Sprintf("UPDATE %s SET %s, updated_at=NOW() WHERE id=$%d RETURNING created_at, updated_at",
		t.schema.Table, strings.Join(sets, ", "), len(t.schema.Columns)+1)
}

func (t *Table[T]) selectSQL(columns []string, where []Condition, order string, limit, offset int) (string, []any, error) {
	for _, c := range columns {
		if _, ok := t.known[c]; !ok {
			return "", nil, fmt.Errorf("%w %q", ErrUnknownColumn, c)
		}
	}
	clause, args, err := t.whereClause(where)
	if err != nil {
		return "", nil, err
	}

	var b strings.Builder
	fmt.Fprintf(&b, "SELECT %s FROM %s%s", strings.Join(columns, ", "), t.schema.Table, clause)
	if order != "" {
		b.WriteString(" ORDER BY " + order)
	}
	if limit > 0 {
		fmt.Fprintf(&b, " LIMIT %d", limit)
	}
	if offset > 0 {
		fmt.Fprintf(&b, " OFFSET %d", offset)
	}
	return b.String(), args, nil
}

func (t *Table[T]) whereClause(where []Condition) (string, []any, error) {
	if len(where) == 0 {
		return "", nil, nil
	}
	clauses := make([]string, 0, len(where))
	args := make([]any, 0, len(where))
	for _, cond := range where {
		if _, ok := t.known[cond.Column]; !ok {
			return "", nil, fmt.Errorf("%w %q", ErrUnknownColumn, cond.Column)
		}
		args = append(args, cond.Value)
		op := "="
		if cond.Not {
			op = "<>"
		}
		clauses = append(clauses, fmt.Sprintf("%s%s$%d", cond.Column, op, len(args)))
	}
	return " WHERE " + strings.Join(clauses, " AND "), args, nil
}

func (t *Table[T]) orderClause(column, direction string) (string, error) {
	if column == "" {
		column = "created_at"
	}
	if _, ok := t.known[column]; !ok {
		return "", fmt.Errorf("%w %q", ErrUnknownColumn, column)
	}
	switch strings.ToUpper(direction) {
	case "", "DESC":
		direction = "DESC"
	case "ASC":
		direction = "ASC"
	default:
		return "", fmt.Errorf("%w %q", ErrInvalidDirection, direction)
	}
	return column + " " + direction, nil
}

func (t *Table[T]) wrap(op string, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return t.schema.NotFound
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
		return domain.NewValidationError("", "a record with the same values already exists")
	}
	return fmt.Errorf("%s: %s: %w", t.schema.Table, op, err)
}

func normalizePage(req PageRequest) PageRequest {
	if req.Page < 1 {
		req.Page = 1
	}
	if req.Page > maxPage {
		req.Page = maxPage
	}
	if req.PerPage <= 0 {
		req.PerPage = defaultPerPage
	}
	if req.PerPage > maxPerPage {
		req.PerPage = maxPerPage
	}
	return req
}
