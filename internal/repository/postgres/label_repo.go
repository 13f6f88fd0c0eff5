package postgres

import (
	"context"
	"fmt"

	"github.com/rashid54/recipe-app-api/internal/domain"
	"github.com/rashid54/recipe-app-api/internal/repository"
)

// labelTable describes how one label-shaped entity maps onto SQL.
// Tags and ingredients have identical storage shape (id, user_id, name
// plus a recipe join table), so the owner-scoping queries are written
// once here and instantiated per entity.
type labelTable[T any] struct {
	table      string
	joinTable  string
	joinColumn string
	notFound   error
	newLabel   func(id, userID int64, name string) *T
	fields     func(*T) (id, userID int64, name string)
	setID      func(*T, int64)
}

// labelRepository implements repository.LabelRepository for PostgreSQL.
type labelRepository[T any] struct {
	db *DB
	t  labelTable[T]
}

// NewTagRepository creates a new PostgreSQL tag repository.
func NewTagRepository(db *DB) repository.LabelRepository[domain.Tag] {
	return &labelRepository[domain.Tag]{db: db, t: tagTable()}
}

// NewIngredientRepository creates a new PostgreSQL ingredient repository.
func NewIngredientRepository(db *DB) repository.LabelRepository[domain.Ingredient] {
	return &labelRepository[domain.Ingredient]{db: db, t: ingredientTable()}
}

func tagTable() labelTable[domain.Tag] {
	return labelTable[domain.Tag]{
		table:      "tags",
		joinTable:  "recipe_tags",
		joinColumn: "tag_id",
		notFound:   domain.ErrTagNotFound,
		newLabel: func(id, userID int64, name string) *domain.Tag {
			return &domain.Tag{ID: id, UserID: userID, Name: name}
		},
		fields: func(t *domain.Tag) (int64, int64, string) {
			return t.ID, t.UserID, t.Name
		},
		setID: func(t *domain.Tag, id int64) { t.ID = id },
	}
}

func ingredientTable() labelTable[domain.Ingredient] {
	return labelTable[domain.Ingredient]{
		table:      "ingredients",
		joinTable:  "recipe_ingredients",
		joinColumn: "ingredient_id",
		notFound:   domain.ErrIngredientNotFound,
		newLabel: func(id, userID int64, name string) *domain.Ingredient {
			return &domain.Ingredient{ID: id, UserID: userID, Name: name}
		},
		fields: func(i *domain.Ingredient) (int64, int64, string) {
			return i.ID, i.UserID, i.Name
		},
		setID: func(i *domain.Ingredient, id int64) { i.ID = id },
	}
}

// Create persists a new label.
func (r *labelRepository[T]) Create(ctx context.Context, label *T) error {
	_, userID, name := r.t.fields(label)

	query := fmt.Sprintf(
		`INSERT INTO %s (user_id, name) VALUES ($1, $2) RETURNING id`,
		r.t.table,
	)

	var id int64
	if err := r.db.Pool.QueryRow(ctx, query, userID, name).Scan(&id); err != nil {
		return fmt.Errorf("failed to create %s: %w", r.t.table, err)
	}
	r.t.setID(label, id)

	return nil
}

// GetByID retrieves a label owned by ownerID. A row owned by a different
// user scans as no rows, which is the whole point.
func (r *labelRepository[T]) GetByID(ctx context.Context, ownerID, id int64) (*T, error) {
	query := fmt.Sprintf(
		`SELECT id, user_id, name FROM %s WHERE id = $1 AND user_id = $2`,
		r.t.table,
	)

	var labelID, userID int64
	var name string
	err := r.db.Pool.QueryRow(ctx, query, id, ownerID).Scan(&labelID, &userID, &name)
	if err != nil {
		if isNoRows(err) {
			return nil, r.t.notFound
		}
		return nil, fmt.Errorf("failed to get %s: %w", r.t.table, err)
	}

	return r.t.newLabel(labelID, userID, name), nil
}

// List returns the owner's labels ordered by name descending.
func (r *labelRepository[T]) List(ctx context.Context, ownerID int64, opts repository.LabelListOptions) ([]*T, error) {
	query := fmt.Sprintf(`SELECT id, user_id, name FROM %s WHERE user_id = $1`, r.t.table)
	if opts.AssignedOnly {
		query += fmt.Sprintf(
			` AND EXISTS (SELECT 1 FROM %s jt WHERE jt.%s = %s.id)`,
			r.t.joinTable, r.t.joinColumn, r.t.table,
		)
	}
	query += ` ORDER BY name DESC`

	rows, err := r.db.Pool.Query(ctx, query, ownerID)
	if err != nil {
		return nil, fmt.Errorf("failed to list %s: %w", r.t.table, err)
	}
	defer rows.Close()

	var labels []*T
	for rows.Next() {
		var labelID, userID int64
		var name string
		if err := rows.Scan(&labelID, &userID, &name); err != nil {
			return nil, fmt.Errorf("failed to scan %s: %w", r.t.table, err)
		}
		labels = append(labels, r.t.newLabel(labelID, userID, name))
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating %s: %w", r.t.table, err)
	}

	return labels, nil
}

// Update updates the label's name, scoped to its owner.
func (r *labelRepository[T]) Update(ctx context.Context, label *T) error {
	id, userID, name := r.t.fields(label)

	query := fmt.Sprintf(`UPDATE %s SET name = $1 WHERE id = $2 AND user_id = $3`, r.t.table)

	result, err := r.db.Pool.Exec(ctx, query, name, id, userID)
	if err != nil {
		return fmt.Errorf("failed to update %s: %w", r.t.table, err)
	}

	if result.RowsAffected() == 0 {
		return r.t.notFound
	}

	return nil
}

// Delete removes a label owned by ownerID. Join rows cascade away, so
// recipes are detached, never deleted.
func (r *labelRepository[T]) Delete(ctx context.Context, ownerID, id int64) error {
	query := fmt.Sprintf(`DELETE FROM %s WHERE id = $1 AND user_id = $2`, r.t.table)

	result, err := r.db.Pool.Exec(ctx, query, id, ownerID)
	if err != nil {
		return fmt.Errorf("failed to delete %s: %w", r.t.table, err)
	}

	if result.RowsAffected() == 0 {
		return r.t.notFound
	}

	return nil
}

// Ensure the instantiations implement the repository interfaces.
var (
	_ repository.LabelRepository[domain.Tag]        = (*labelRepository[domain.Tag])(nil)
	_ repository.LabelRepository[domain.Ingredient] = (*labelRepository[domain.Ingredient])(nil)
)
