package database

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"tasktrack/logger"
	"tasktrack/models"
)

// FilterBuilder accumulates WHERE-clause predicate fragments and their bound
// parameters. Fragments are joined with AND in the order they were added, and
// the parameter slice returned by WhereClause matches placeholder order
// exactly; callers bind positionally, so that pairing must never drift.
type FilterBuilder struct {
	conditions []string
	params     []interface{}
}

func NewFilterBuilder() *FilterBuilder {
	return &FilterBuilder{}
}

// Eq adds an equality condition.
func (b *FilterBuilder) Eq(field string, value interface{}) *FilterBuilder {
	b.conditions = append(b.conditions, fmt.Sprintf("%s = ?", field))
	b.params = append(b.params, value)
	return b
}

// Ne adds an inequality condition.
func (b *FilterBuilder) Ne(field string, value interface{}) *FilterBuilder {
	b.conditions = append(b.conditions, fmt.Sprintf("%s != ?", field))
	b.params = append(b.params, value)
	return b
}

// In adds a membership condition. An empty value list contributes nothing at
// all rather than an always-false clause.
func (b *FilterBuilder) In(field string, values []interface{}) *FilterBuilder {
	if len(values) == 0 {
		return b
	}
	placeholders := strings.Repeat("?,", len(values)-1) + "?"
	b.conditions = append(b.conditions, fmt.Sprintf("%s IN (%s)", field, placeholders))
	b.params = append(b.params, values...)
	return b
}

// Like adds a pattern-match condition.
func (b *FilterBuilder) Like(field string, pattern interface{}) *FilterBuilder {
	b.conditions = append(b.conditions, fmt.Sprintf("%s LIKE ?", field))
	b.params = append(b.params, pattern)
	return b
}

// Custom adds a raw condition with its parameters, for predicates the typed
// helpers cannot express (e.g. subqueries).
func (b *FilterBuilder) Custom(condition string, params ...interface{}) *FilterBuilder {
	b.conditions = append(b.conditions, condition)
	b.params = append(b.params, params...)
	return b
}

// WhereClause renders the accumulated conditions as a " WHERE ..." fragment
// (leading space included) plus the positional parameters. With no conditions
// it returns an empty clause and nil parameters.
func (b *FilterBuilder) WhereClause() (string, []interface{}) {
	if len(b.conditions) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(b.conditions, " AND "), b.params
}

// PaginationFilter is the per-entity policy a paginated query runs under:
// which table, which business predicates, and which fields the caller may
// sort by.
type PaginationFilter interface {
	TableName() string
	PrimaryKey() string
	BuildFilter() *FilterBuilder
	SortableFields() []string
	DefaultSortField() string
}

// RowScanner maps one row of a data query to a value.
type RowScanner[T any] func(rows *sql.Rows) (T, error)

// QueryPage runs a count+data query pair for the given filter and page
// request and returns the assembled page.
//
// If both page and page size are strictly positive the matching rows are
// counted, a LIMIT/OFFSET window is fetched, and total_pages is derived from
// the count. Otherwise every matching row comes back as a single page whose
// total and page size equal the row count; that fallback is the contract
// distinguishing "paginate" from "list all".
//
// An unknown sort field silently falls back to the filter's default, and any
// sort order other than "asc" (case-insensitive) means descending.
func QueryPage[T any](filter PaginationFilter, columns string, query models.PaginationQuery, scan RowScanner[T]) (models.Page[T], error) {
	var zero models.Page[T]
	if DB == nil {
		return zero, errors.New("database connection is not initialized")
	}

	whereClause, params := filter.BuildFilter().WhereClause()

	sortField := query.SortBy
	if !containsField(filter.SortableFields(), sortField) {
		sortField = filter.DefaultSortField()
	}
	direction := "DESC"
	if strings.EqualFold(query.SortOrder, "asc") {
		direction = "ASC"
	}
	orderClause := fmt.Sprintf(" ORDER BY %s.%s %s, %s.%s %s",
		filter.TableName(), sortField, direction,
		filter.TableName(), filter.PrimaryKey(), direction)

	if query.Page > 0 && query.PageSize > 0 {
		countQuery := fmt.Sprintf("SELECT COUNT(*) FROM %s%s", filter.TableName(), whereClause)
		var total int
		if err := DB.QueryRow(countQuery, params...).Scan(&total); err != nil {
			logger.Error("QueryPage: Error counting rows in %s: %v", filter.TableName(), err)
			return zero, fmt.Errorf("counting rows in %s: %w", filter.TableName(), err)
		}

		offset := (query.Page - 1) * query.PageSize
		dataQuery := fmt.Sprintf("SELECT %s FROM %s%s%s LIMIT ? OFFSET ?",
			columns, filter.TableName(), whereClause, orderClause)
		dataParams := append(append([]interface{}{}, params...), query.PageSize, offset)

		data, err := queryRows(dataQuery, dataParams, filter.TableName(), scan)
		if err != nil {
			return zero, err
		}
		return models.NewPage(data, total, query.Page, query.PageSize), nil
	}

	dataQuery := fmt.Sprintf("SELECT %s FROM %s%s%s",
		columns, filter.TableName(), whereClause, orderClause)
	data, err := queryRows(dataQuery, params, filter.TableName(), scan)
	if err != nil {
		return zero, err
	}
	return models.AllPage(data), nil
}

func queryRows[T any](query string, params []interface{}, table string, scan RowScanner[T]) ([]T, error) {
	rows, err := DB.Query(query, params...)
	if err != nil {
		logger.Error("queryRows: Error querying %s: %v. Query: %s", table, err, query)
		return nil, fmt.Errorf("querying %s: %w", table, err)
	}
	defer rows.Close()

	var data []T
	for rows.Next() {
		item, err := scan(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning %s row: %w", table, err)
		}
		data = append(data, item)
	}
	return data, rows.Err()
}

func containsField(fields []string, field string) bool {
	for _, f := range fields {
		if f == field {
			return true
		}
	}
	return false
}
