package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/studyabroad-search-api/internal/models"
	"github.com/noah-isme/studyabroad-search-api/pkg/predicate"
)

// SQLStore exposes count/find/distinct over one PostgreSQL table whose columns
// are named after the storage fields.
type SQLStore[T any] struct {
	db          *sqlx.DB
	table       string
	selectList  []string
	columns     predicate.Columns
	defaultSort []models.SortField
}

// NewSQLStore constructs a store for table. The columns slice lists every
// selectable column in select order.
func NewSQLStore[T any](db *sqlx.DB, table string, columns []string, defaultSort []models.SortField) *SQLStore[T] {
	mapping := make(predicate.Columns, len(columns))
	for _, col := range columns {
		mapping[col] = table + "." + col
	}
	return &SQLStore[T]{db: db, table: table, selectList: columns, columns: mapping, defaultSort: defaultSort}
}

// Count returns the number of rows matching p.
func (s *SQLStore[T]) Count(ctx context.Context, p predicate.Predicate) (int, error) {
	where, args, err := predicate.Compile(p, s.columns, 0)
	if err != nil {
		return 0, err
	}
	query := fmt.Sprintf("SELECT COUNT(*) FROM %s WHERE %s", s.table, where)
	var total int
	if err := s.db.GetContext(ctx, &total, query, args...); err != nil {
		return 0, fmt.Errorf("count %s: %w", s.table, err)
	}
	return total, nil
}

// Find returns the rows matching p windowed by opts.
func (s *SQLStore[T]) Find(ctx context.Context, p predicate.Predicate, opts models.FindOptions) ([]T, error) {
	where, args, err := predicate.Compile(p, s.columns, 0)
	if err != nil {
		return nil, err
	}
	selectList, err := s.projection(opts.Projection)
	if err != nil {
		return nil, err
	}
	orderBy, err := s.orderBy(opts.Sort)
	if err != nil {
		return nil, err
	}

	query := fmt.Sprintf("SELECT %s FROM %s WHERE %s ORDER BY %s", selectList, s.table, where, orderBy)
	if opts.Limit > 0 {
		query += fmt.Sprintf(" LIMIT %d", opts.Limit)
	}
	if opts.Skip > 0 {
		query += fmt.Sprintf(" OFFSET %d", opts.Skip)
	}

	rows := make([]T, 0)
	if err := s.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("find %s: %w", s.table, err)
	}
	return rows, nil
}

// Distinct returns the distinct non-null values of field among rows matching p.
func (s *SQLStore[T]) Distinct(ctx context.Context, field string, p predicate.Predicate) ([]string, error) {
	col, ok := s.columns[field]
	if !ok {
		return nil, fmt.Errorf("distinct %s: unknown field %q", s.table, field)
	}
	where, args, err := predicate.Compile(p, s.columns, 0)
	if err != nil {
		return nil, err
	}
	query := fmt.Sprintf("SELECT DISTINCT %s::text FROM %s WHERE %s AND %s IS NOT NULL", col, s.table, where, col)
	values := make([]string, 0)
	if err := s.db.SelectContext(ctx, &values, query, args...); err != nil {
		return nil, fmt.Errorf("distinct %s.%s: %w", s.table, field, err)
	}
	return values, nil
}

func (s *SQLStore[T]) projection(fields []string) (string, error) {
	if len(fields) == 0 {
		fields = s.selectList
	}
	cols := make([]string, 0, len(fields)+1)
	seen := make(map[string]struct{}, len(fields)+1)
	// id is always selected so children can be stitched back to their parents.
	for _, field := range append([]string{models.FieldID}, fields...) {
		if _, dup := seen[field]; dup {
			continue
		}
		col, ok := s.columns[field]
		if !ok {
			return "", fmt.Errorf("projection %s: unknown field %q", s.table, field)
		}
		seen[field] = struct{}{}
		cols = append(cols, col)
	}
	return strings.Join(cols, ", "), nil
}

func (s *SQLStore[T]) orderBy(sort []models.SortField) (string, error) {
	if len(sort) == 0 {
		sort = s.defaultSort
	}
	parts := make([]string, 0, len(sort)+1)
	hasID := false
	for _, field := range sort {
		col, ok := s.columns[field.Field]
		if !ok {
			return "", fmt.Errorf("sort %s: unknown field %q", s.table, field.Field)
		}
		dir := "ASC"
		if field.Desc {
			dir = "DESC"
		}
		parts = append(parts, col+" "+dir)
		hasID = hasID || field.Field == models.FieldID
	}
	if !hasID {
		parts = append(parts, s.columns[models.FieldID]+" ASC")
	}
	return strings.Join(parts, ", "), nil
}
