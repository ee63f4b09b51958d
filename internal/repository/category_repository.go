package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/iliyamo/helpdesk/internal/model"
)

// CategoryRepo manages the ticket_categories table: the four dropdown
// taxonomies plus their presentation order.  Reorder is the one operation
// in the system that needs a multi-statement transaction: partial position
// writes must never become observable.
type CategoryRepo struct{ DB *sql.DB }

func NewCategoryRepo(db *sql.DB) *CategoryRepo { return &CategoryRepo{DB: db} }

const categoryColumns = "id, type, value, label, description, sort_order"

// List returns every category.  Rows come back in taxonomy order with
// explicitly ordered rows first; the comparator lives in
// model.SortCategories so handlers and tests share one definition.
func (r *CategoryRepo) List(ctx context.Context) ([]model.Category, error) {
	rows, err := r.DB.QueryContext(ctx, "SELECT "+categoryColumns+" FROM ticket_categories")
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []model.Category{}
	for rows.Next() {
		c, err := scanCategory(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	model.SortCategories(out)
	return out, nil
}

// Create inserts a category, assigning sort_order = max+1 within its type
// (1 when the type is empty).  A duplicate (type, value) pair maps to
// ErrConflict.  The max lookup and insert run in one transaction so two
// concurrent creates cannot claim the same position.
func (r *CategoryRepo) Create(ctx context.Context, c *model.Category) error {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	var next int
	if err := tx.QueryRowContext(ctx,
		"SELECT COALESCE(MAX(sort_order),0)+1 FROM ticket_categories WHERE type=? FOR UPDATE",
		c.Type).Scan(&next); err != nil {
		return err
	}

	res, err := tx.ExecContext(ctx,
		"INSERT INTO ticket_categories (type, value, label, description, sort_order) VALUES (?,?,?,?,?)",
		c.Type, c.Value, c.Label, descriptionFor(c), next)
	if err != nil {
		if isDuplicateKey(err) {
			return ErrConflict
		}
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return err
	}
	c.ID = uint64(id)
	c.Order = &next
	c.Description = descriptionFor(c)
	return nil
}

// GetByID fetches one category or ErrCategoryNotFound.
func (r *CategoryRepo) GetByID(ctx context.Context, id uint64) (model.Category, error) {
	row := r.DB.QueryRowContext(ctx,
		"SELECT "+categoryColumns+" FROM ticket_categories WHERE id=? LIMIT 1", id)
	c, err := scanCategory(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.Category{}, ErrCategoryNotFound
		}
		return model.Category{}, err
	}
	return c, nil
}

// Update rewrites type, value, label and description of a category.  A
// collision of the new (type, value) pair with a different row maps to
// ErrConflict; a missing id to ErrCategoryNotFound.  Order is not touched
// here, positions only change through Reorder.
func (r *CategoryRepo) Update(ctx context.Context, id uint64, c *model.Category) error {
	if _, err := r.GetByID(ctx, id); err != nil {
		return err
	}
	_, err := r.DB.ExecContext(ctx,
		"UPDATE ticket_categories SET type=?, value=?, label=?, description=? WHERE id=?",
		c.Type, c.Value, c.Label, descriptionFor(c), id)
	if err != nil {
		if isDuplicateKey(err) {
			return ErrConflict
		}
		return err
	}
	updated, err := r.GetByID(ctx, id)
	if err != nil {
		return err
	}
	*c = updated
	return nil
}

// Delete hard-deletes a category.  ErrCategoryNotFound when nothing matched.
func (r *CategoryRepo) Delete(ctx context.Context, id uint64) error {
	res, err := r.DB.ExecContext(ctx, "DELETE FROM ticket_categories WHERE id=?", id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrCategoryNotFound
	}
	return nil
}

// Reorder assigns 1-based positions to the given ids atomically.  The ids
// are validated against the taxonomy inside the transaction (rows locked
// FOR UPDATE so a concurrent reorder or create on the same type serializes
// behind us); any id outside the type rolls everything back with
// ErrWrongType.
func (r *CategoryRepo) Reorder(ctx context.Context, catType string, orderedIDs []uint64) error {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	rows, err := tx.QueryContext(ctx,
		"SELECT id FROM ticket_categories WHERE type=? FOR UPDATE", catType)
	if err != nil {
		return err
	}
	belongs := map[uint64]bool{}
	for rows.Next() {
		var id uint64
		if err := rows.Scan(&id); err != nil {
			rows.Close()
			return err
		}
		belongs[id] = true
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return err
	}

	// All ids are validated before the first write, so ErrWrongType always
	// leaves every position untouched.
	for _, id := range orderedIDs {
		if !belongs[id] {
			return ErrWrongType
		}
	}
	for pos, id := range orderedIDs {
		if _, err := tx.ExecContext(ctx,
			"UPDATE ticket_categories SET sort_order=? WHERE id=?", pos+1, id); err != nil {
			return err
		}
	}
	return tx.Commit()
}

// descriptionFor nulls the description outside the priority taxonomy; it is
// only meaningful there and silently dropping it elsewhere is the contract.
func descriptionFor(c *model.Category) *string {
	if c.Type != model.CategoryPriority {
		return nil
	}
	return c.Description
}

func scanCategory(row interface{ Scan(...any) error }) (model.Category, error) {
	var (
		c     model.Category
		desc  sql.NullString
		order sql.NullInt64
	)
	if err := row.Scan(&c.ID, &c.Type, &c.Value, &c.Label, &desc, &order); err != nil {
		return model.Category{}, err
	}
	if desc.Valid {
		c.Description = &desc.String
	}
	if order.Valid {
		o := int(order.Int64)
		c.Order = &o
	}
	return c, nil
}
