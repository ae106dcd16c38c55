package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var ErrNotFound = errors.New("record not found")

// ListQuery narrows, orders and pages a List call.
type ListQuery struct {
	// Filters are exact column matches.
	Filters map[string]any
	// Search is matched case-insensitively against every SearchColumns entry.
	Search        string
	SearchColumns []string
	// Scopes apply to both the count and the page query.
	Scopes []func(*gorm.DB) *gorm.DB

	// Select, Joins and OrderBy only shape the page query.
	Select  string
	Joins   []string
	OrderBy []string
	Preload []string

	Offset int
	Limit  int
}

// Repository is the persistence layer for one entity kind.
type Repository[T any] struct {
	db *gorm.DB
}

func New[T any](db *gorm.DB) *Repository[T] {
	return &Repository[T]{db: db}
}

// WithTx returns a repository bound to tx.
func (r *Repository[T]) WithTx(tx *gorm.DB) *Repository[T] {
	return &Repository[T]{db: tx}
}

func (r *Repository[T]) DB() *gorm.DB {
	return r.db
}

func (r *Repository[T]) FindByField(ctx context.Context, field string, value any, preloads ...string) (*T, error) {
	var entity T
	q := r.db.WithContext(ctx)
	for _, p := range preloads {
		q = q.Preload(p)
	}
	err := q.Where(clause.Eq{Column: clause.Column{Name: field}, Value: value}).First(&entity).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find by %s: %w", field, err)
	}
	return &entity, nil
}

func (r *Repository[T]) FindByID(ctx context.Context, id string, preloads ...string) (*T, error) {
	return r.FindByField(ctx, "id", id, preloads...)
}

// Exists reports whether any row has field equal to value.
func (r *Repository[T]) Exists(ctx context.Context, field string, value any) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(new(T)).
		Where(clause.Eq{Column: clause.Column{Name: field}, Value: value}).
		Count(&count).Error
	if err != nil {
		return false, fmt.Errorf("exists by %s: %w", field, err)
	}
	return count > 0, nil
}

func (r *Repository[T]) Create(ctx context.Context, entity *T) error {
	if err := r.db.WithContext(ctx).Create(entity).Error; err != nil {
		return fmt.Errorf("create: %w", err)
	}
	return nil
}

// Update writes the given columns on the row with this id.
func (r *Repository[T]) Update(ctx context.Context, id string, fields map[string]any) error {
	if len(fields) == 0 {
		return nil
	}
	res := r.db.WithContext(ctx).Model(new(T)).Where("id = ?", id).Updates(fields)
	if res.Error != nil {
		return fmt.Errorf("update: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *Repository[T]) Delete(ctx context.Context, id string) error {
	res := r.db.WithContext(ctx).Where("id = ?", id).Delete(new(T))
	if res.Error != nil {
		return fmt.Errorf("delete: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// List returns one page of rows and the total number of matching rows.
func (r *Repository[T]) List(ctx context.Context, q ListQuery) ([]T, int64, error) {
	base := r.db.WithContext(ctx).Model(new(T))
	if len(q.Filters) > 0 {
		base = base.Where(q.Filters)
	}
	if q.Search != "" && len(q.SearchColumns) > 0 {
		like := "%" + strings.ToLower(q.Search) + "%"
		exprs := make([]clause.Expression, 0, len(q.SearchColumns))
		for _, col := range q.SearchColumns {
			exprs = append(exprs, clause.Expr{SQL: "LOWER(?) LIKE ?", Vars: []any{clause.Column{Name: col}, like}})
		}
		base = base.Where(clause.Or(exprs...))
	}
	base = base.Scopes(q.Scopes...)

	var total int64
	if err := base.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("count: %w", err)
	}

	page := base.Session(&gorm.Session{})
	if q.Select != "" {
		page = page.Select(q.Select)
	}
	for _, j := range q.Joins {
		page = page.Joins(j)
	}
	for _, o := range q.OrderBy {
		page = page.Order(o)
	}
	for _, p := range q.Preload {
		page = page.Preload(p)
	}
	if q.Offset > 0 {
		page = page.Offset(q.Offset)
	}
	if q.Limit > 0 {
		page = page.Limit(q.Limit)
	}

	var rows []T
	if err := page.Find(&rows).Error; err != nil {
		return nil, 0, fmt.Errorf("list: %w", err)
	}
	return rows, total, nil
}

// Transaction runs fn inside a database transaction.
func (r *Repository[T]) Transaction(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return r.db.WithContext(ctx).Transaction(fn)
}

// IsUniqueViolation reports whether err came from a unique constraint.
func IsUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "unique constraint") || strings.Contains(msg, "duplicate key")
}
