package store

import "context"

// Meal types accepted by MealPlan.MealType.
const (
	MealBreakfast = "breakfast"
	MealLunch     = "lunch"
	MealDinner    = "dinner"
	MealSnack     = "snack"
)

// MealPlan is one planned meal on a calendar date.
type MealPlan struct {
	ID        string `json:"id"`
	UserID    string `json:"user_id"`
	Date      string `json:"date"` // YYYY-MM-DD
	MealType  string `json:"meal_type"`
	MealName  string `json:"meal_name"`
	RecipeID  string `json:"recipe_id,omitempty"` // empty for freeform meals
	CreatedTs int64  `json:"created_ts"`
}

// FindMealPlan filters for ListMealPlans. Results are ordered by date
// ascending. DateFrom/DateTo bound the window inclusively when set.
type FindMealPlan struct {
	UserID   *string
	DateFrom *string
	DateTo   *string
}

func (s *Store) ListMealPlans(ctx context.Context, find *FindMealPlan) ([]*MealPlan, error) {
	return s.driver.ListMealPlans(ctx, find)
}

func (s *Store) CreateMealPlan(ctx context.Context, create *MealPlan) (*MealPlan, error) {
	return s.driver.CreateMealPlan(ctx, create)
}

func (s *Store) DeleteMealPlan(ctx context.Context, id, userID string) error {
	return s.driver.DeleteMealPlan(ctx, id, userID)
}
