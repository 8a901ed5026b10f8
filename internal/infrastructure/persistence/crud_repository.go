package persistence

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/storefront/backend/internal/domain/shared"
	"gorm.io/gorm"
)

// queryOptions describes how a resource is listed
type queryOptions struct {
	// searchColumns are matched case-insensitively against Filter.Search
	searchColumns []string
	// sortFields is the ORDER BY whitelist
	sortFields map[string]bool
	// defaultSort is used when Filter.OrderBy is empty or not whitelisted
	defaultSort string
	// filterColumns maps Filter.Filters keys to equality columns
	filterColumns map[string]string
	// customFilter handles keys that are not plain equality; it reports whether it consumed the key
	customFilter func(query *gorm.DB, key string, value any) (*gorm.DB, bool)
	// preload lists associations loaded with every read
	preload []string
}

// gormCrud implements shared.CrudRepository for one entity type.
// Typed repositories embed it and add their specific queries.
type gormCrud[T any] struct {
	db   *gorm.DB
	opts queryOptions
}

func newGormCrud[T any](db *gorm.DB, opts queryOptions) gormCrud[T] {
	if opts.defaultSort == "" {
		opts.defaultSort = "created_at"
	}
	if opts.sortFields == nil {
		opts.sortFields = CommonSortFields
	}
	return gormCrud[T]{db: db, opts: opts}
}

func (r *gormCrud[T]) read(ctx context.Context) *gorm.DB {
	query := r.db.WithContext(ctx)
	for _, assoc := range r.opts.preload {
		query = query.Preload(assoc)
	}
	return query
}

// FindByID finds an entity by its ID
func (r *gormCrud[T]) FindByID(ctx context.Context, id uuid.UUID) (*T, error) {
	var entity T
	if err := r.read(ctx).First(&entity, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &entity, nil
}

// FindAll finds all entities matching the filter
func (r *gormCrud[T]) FindAll(ctx context.Context, filter shared.Filter) ([]T, error) {
	var entities []T
	query := r.applyFilter(r.read(ctx).Model(new(T)), filter)
	if err := query.Find(&entities).Error; err != nil {
		return nil, err
	}
	return entities, nil
}

// Count counts entities matching the filter
func (r *gormCrud[T]) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	var count int64
	query := r.applyFilterWithoutPagination(r.db.WithContext(ctx).Model(new(T)), filter)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// Save creates or updates an entity
func (r *gormCrud[T]) Save(ctx context.Context, entity *T) error {
	return r.db.WithContext(ctx).Save(entity).Error
}

// Delete deletes an entity
func (r *gormCrud[T]) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(new(T), "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// applyFilter applies filter options to the query
func (r *gormCrud[T]) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	query = r.applyFilterWithoutPagination(query, filter)

	if filter.Page > 0 && filter.PageSize > 0 {
		query = query.Offset(filter.Offset()).Limit(filter.PageSize)
	}

	orderBy := ValidateSortField(filter.OrderBy, r.opts.sortFields, r.opts.defaultSort)
	query = query.Order(orderBy + " " + ValidateSortOrder(filter.OrderDir))
	if orderBy != "id" {
		// stable pages when the sort column has ties
		query = query.Order("id ASC")
	}
	return query
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// escapeLike makes search text match literally inside a LIKE pattern
func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}

// applyFilterWithoutPagination applies search and equality filters
func (r *gormCrud[T]) applyFilterWithoutPagination(query *gorm.DB, filter shared.Filter) *gorm.DB {
	if search := strings.TrimSpace(filter.Search); search != "" && len(r.opts.searchColumns) > 0 {
		pattern := "%" + escapeLike(strings.ToLower(search)) + "%"
		clauses := make([]string, 0, len(r.opts.searchColumns))
		args := make([]any, 0, len(r.opts.searchColumns))
		for _, col := range r.opts.searchColumns {
			clauses = append(clauses, "LOWER("+col+") LIKE ? ESCAPE '\\'")
			args = append(args, pattern)
		}
		query = query.Where("("+strings.Join(clauses, " OR ")+")", args...)
	}

	for key, value := range filter.Filters {
		if r.opts.customFilter != nil {
			if q, ok := r.opts.customFilter(query, key, value); ok {
				query = q
				continue
			}
		}
		col, ok := r.opts.filterColumns[key]
		if !ok {
			continue
		}
		if value == nil {
			query = query.Where(col + " IS NULL")
		} else {
			query = query.Where(col+" = ?", value)
		}
	}
	return query
}

func notFound(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return shared.ErrNotFound
	}
	return err
}
