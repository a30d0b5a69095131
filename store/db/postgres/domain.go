package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/forkful/forkful/store"
)

func (d *DB) GetProfile(ctx context.Context, userID string) (*store.Profile, error) {
	row := d.db.QueryRowContext(ctx,
		"SELECT id, full_name, allergies, updated_ts FROM profile WHERE id = $1", userID)
	p := &store.Profile{}
	var raw string
	if err := row.Scan(&p.ID, &p.FullName, &raw, &p.UpdatedTs); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	if err := json.Unmarshal([]byte(raw), &p.Allergies); err != nil {
		return nil, err
	}
	return p, nil
}

func (d *DB) UpsertProfile(ctx context.Context, upsert *store.Profile) (*store.Profile, error) {
	raw, err := json.Marshal(upsert.Allergies)
	if err != nil {
		return nil, err
	}
	stmt := `INSERT INTO profile (id, full_name, allergies, updated_ts)
	         VALUES ($1, $2, $3, $4)
	         ON CONFLICT (id) DO UPDATE SET
	           full_name = EXCLUDED.full_name,
	           allergies = EXCLUDED.allergies,
	           updated_ts = EXCLUDED.updated_ts`
	if _, err := d.db.ExecContext(ctx, stmt, upsert.ID, upsert.FullName, string(raw), upsert.UpdatedTs); err != nil {
		return nil, err
	}
	return upsert, nil
}

func (d *DB) ListRecipes(ctx context.Context, find *store.FindRecipe) ([]*store.Recipe, error) {
	where, args := []string{"1 = 1"}, []any{}
	if v := find.UserID; v != nil {
		where, args = append(where, "user_id = "+placeholder(len(args)+1)), append(args, *v)
	}
	if v := find.IsFavorite; v != nil {
		where, args = append(where, "is_favorite = "+placeholder(len(args)+1)), append(args, *v)
	}
	query := fmt.Sprintf(
		`SELECT id, user_id, title, description, is_favorite, created_ts
		 FROM recipe WHERE %s ORDER BY created_ts DESC, id`,
		strings.Join(where, " AND "),
	)
	rows, err := d.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var list []*store.Recipe
	for rows.Next() {
		r := &store.Recipe{}
		if err := rows.Scan(&r.ID, &r.UserID, &r.Title, &r.Description, &r.IsFavorite, &r.CreatedTs); err != nil {
			return nil, err
		}
		list = append(list, r)
	}
	return list, rows.Err()
}

func (d *DB) CreateRecipe(ctx context.Context, create *store.Recipe) (*store.Recipe, error) {
	stmt := `INSERT INTO recipe (id, user_id, title, description, is_favorite, created_ts)
	         VALUES ($1, $2, $3, $4, $5, $6)`
	if _, err := d.db.ExecContext(ctx, stmt,
		create.ID, create.UserID, create.Title, create.Description, create.IsFavorite, create.CreatedTs); err != nil {
		return nil, err
	}
	return create, nil
}

func (d *DB) DeleteRecipe(ctx context.Context, id, userID string) error {
	_, err := d.db.ExecContext(ctx, "DELETE FROM recipe WHERE id = $1 AND user_id = $2", id, userID)
	return err
}

func (d *DB) ListPantryItems(ctx context.Context, find *store.FindPantryItem) ([]*store.PantryItem, error) {
	where, args := []string{"1 = 1"}, []any{}
	if v := find.UserID; v != nil {
		where, args = append(where, "user_id = "+placeholder(len(args)+1)), append(args, *v)
	}
	query := fmt.Sprintf(
		`SELECT id, user_id, name, quantity, unit, category, expiry_date, created_ts
		 FROM pantry_item WHERE %s ORDER BY created_ts DESC, id`,
		strings.Join(where, " AND "),
	)
	rows, err := d.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var list []*store.PantryItem
	for rows.Next() {
		p := &store.PantryItem{}
		if err := rows.Scan(&p.ID, &p.UserID, &p.Name, &p.Quantity, &p.Unit, &p.Category, &p.ExpiryDate, &p.CreatedTs); err != nil {
			return nil, err
		}
		list = append(list, p)
	}
	return list, rows.Err()
}

func (d *DB) CreatePantryItem(ctx context.Context, create *store.PantryItem) (*store.PantryItem, error) {
	stmt := `INSERT INTO pantry_item (id, user_id, name, quantity, unit, category, expiry_date, created_ts)
	         VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	if _, err := d.db.ExecContext(ctx, stmt,
		create.ID, create.UserID, create.Name, create.Quantity, create.Unit, create.Category, create.ExpiryDate, create.CreatedTs); err != nil {
		return nil, err
	}
	return create, nil
}

func (d *DB) DeletePantryItem(ctx context.Context, id, userID string) error {
	_, err := d.db.ExecContext(ctx, "DELETE FROM pantry_item WHERE id = $1 AND user_id = $2", id, userID)
	return err
}

func (d *DB) ListMealPlans(ctx context.Context, find *store.FindMealPlan) ([]*store.MealPlan, error) {
	where, args := []string{"1 = 1"}, []any{}
	if v := find.UserID; v != nil {
		where, args = append(where, "user_id = "+placeholder(len(args)+1)), append(args, *v)
	}
	if v := find.DateFrom; v != nil {
		where, args = append(where, "date >= "+placeholder(len(args)+1)), append(args, *v)
	}
	if v := find.DateTo; v != nil {
		where, args = append(where, "date <= "+placeholder(len(args)+1)), append(args, *v)
	}
	query := fmt.Sprintf(
		`SELECT id, user_id, date, meal_type, meal_name, recipe_id, created_ts
		 FROM meal_plan WHERE %s ORDER BY date ASC, id`,
		strings.Join(where, " AND "),
	)
	rows, err := d.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var list []*store.MealPlan
	for rows.Next() {
		m := &store.MealPlan{}
		if err := rows.Scan(&m.ID, &m.UserID, &m.Date, &m.MealType, &m.MealName, &m.RecipeID, &m.CreatedTs); err != nil {
			return nil, err
		}
		list = append(list, m)
	}
	return list, rows.Err()
}

func (d *DB) CreateMealPlan(ctx context.Context, create *store.MealPlan) (*store.MealPlan, error) {
	stmt := `INSERT INTO meal_plan (id, user_id, date, meal_type, meal_name, recipe_id, created_ts)
	         VALUES ($1, $2, $3, $4, $5, $6, $7)`
	if _, err := d.db.ExecContext(ctx, stmt,
		create.ID, create.UserID, create.Date, create.MealType, create.MealName, create.RecipeID, create.CreatedTs); err != nil {
		return nil, err
	}
	return create, nil
}

func (d *DB) DeleteMealPlan(ctx context.Context, id, userID string) error {
	_, err := d.db.ExecContext(ctx, "DELETE FROM meal_plan WHERE id = $1 AND user_id = $2", id, userID)
	return err
}

func (d *DB) ListGroceryLists(ctx context.Context, find *store.FindGroceryList) ([]*store.GroceryList, error) {
	where, args := []string{"1 = 1"}, []any{}
	if v := find.UserID; v != nil {
		where, args = append(where, "user_id = "+placeholder(len(args)+1)), append(args, *v)
	}
	query := fmt.Sprintf(
		`SELECT id, user_id, name, created_ts
		 FROM grocery_list WHERE %s ORDER BY created_ts DESC, id DESC`,
		strings.Join(where, " AND "),
	)
	rows, err := d.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var list []*store.GroceryList
	for rows.Next() {
		g := &store.GroceryList{}
		if err := rows.Scan(&g.ID, &g.UserID, &g.Name, &g.CreatedTs); err != nil {
			return nil, err
		}
		list = append(list, g)
	}
	return list, rows.Err()
}

func (d *DB) CreateGroceryList(ctx context.Context, create *store.GroceryList) (*store.GroceryList, error) {
	stmt := `INSERT INTO grocery_list (id, user_id, name, created_ts) VALUES ($1, $2, $3, $4)`
	if _, err := d.db.ExecContext(ctx, stmt, create.ID, create.UserID, create.Name, create.CreatedTs); err != nil {
		return nil, err
	}
	return create, nil
}

func (d *DB) DeleteGroceryList(ctx context.Context, id, userID string) error {
	_, err := d.db.ExecContext(ctx, "DELETE FROM grocery_list WHERE id = $1 AND user_id = $2", id, userID)
	return err
}

func (d *DB) ListGroceryItems(ctx context.Context, find *store.FindGroceryItem) ([]*store.GroceryItem, error) {
	where, args := []string{"1 = 1"}, []any{}
	if v := find.ListID; v != nil {
		where, args = append(where, "list_id = "+placeholder(len(args)+1)), append(args, *v)
	}
	if len(find.ListIDs) > 0 {
		marks := make([]string, len(find.ListIDs))
		for i, id := range find.ListIDs {
			marks[i] = placeholder(len(args) + 1)
			args = append(args, id)
		}
		where = append(where, fmt.Sprintf("list_id IN (%s)", strings.Join(marks, ", ")))
	}
	if v := find.IsChecked; v != nil {
		where, args = append(where, "is_checked = "+placeholder(len(args)+1)), append(args, *v)
	}
	query := fmt.Sprintf(
		`SELECT id, list_id, name, quantity, unit, category, is_checked, created_ts
		 FROM grocery_item WHERE %s ORDER BY created_ts ASC, id`,
		strings.Join(where, " AND "),
	)
	rows, err := d.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var list []*store.GroceryItem
	for rows.Next() {
		g := &store.GroceryItem{}
		if err := rows.Scan(&g.ID, &g.ListID, &g.Name, &g.Quantity, &g.Unit, &g.Category, &g.IsChecked, &g.CreatedTs); err != nil {
			return nil, err
		}
		list = append(list, g)
	}
	return list, rows.Err()
}

func (d *DB) CreateGroceryItem(ctx context.Context, create *store.GroceryItem) (*store.GroceryItem, error) {
	stmt := `INSERT INTO grocery_item (id, list_id, name, quantity, unit, category, is_checked, created_ts)
	         VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	if _, err := d.db.ExecContext(ctx, stmt,
		create.ID, create.ListID, create.Name, create.Quantity, create.Unit, create.Category, create.IsChecked, create.CreatedTs); err != nil {
		return nil, err
	}
	return create, nil
}

func (d *DB) UpdateGroceryItem(ctx context.Context, update *store.UpdateGroceryItem) (*store.GroceryItem, error) {
	if v := update.IsChecked; v != nil {
		if _, err := d.db.ExecContext(ctx,
			"UPDATE grocery_item SET is_checked = $1 WHERE id = $2", *v, update.ID); err != nil {
			return nil, err
		}
	}
	row := d.db.QueryRowContext(ctx,
		`SELECT id, list_id, name, quantity, unit, category, is_checked, created_ts
		 FROM grocery_item WHERE id = $1`, update.ID)
	g := &store.GroceryItem{}
	if err := row.Scan(&g.ID, &g.ListID, &g.Name, &g.Quantity, &g.Unit, &g.Category, &g.IsChecked, &g.CreatedTs); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return g, nil
}

func (d *DB) DeleteGroceryItem(ctx context.Context, id string) error {
	_, err := d.db.ExecContext(ctx, "DELETE FROM grocery_item WHERE id = $1", id)
	return err
}
