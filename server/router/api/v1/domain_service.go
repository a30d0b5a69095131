package v1

import (
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v5"

	"github.com/forkful/forkful/store"
)

func (s *APIV1Service) registerDomainRoutes(e *echo.Echo) {
	g := e.Group("/api/v1")

	g.GET("/profile", s.getProfile)
	g.PUT("/profile", s.updateProfile)

	g.GET("/recipes", s.listRecipes)
	g.POST("/recipes", s.createRecipe)
	g.DELETE("/recipes/:id", s.deleteRecipe)

	g.GET("/pantry", s.listPantryItems)
	g.POST("/pantry", s.createPantryItem)
	g.DELETE("/pantry/:id", s.deletePantryItem)

	g.GET("/meal-plans", s.listMealPlans)
	g.POST("/meal-plans", s.createMealPlan)
	g.DELETE("/meal-plans/:id", s.deleteMealPlan)

	g.GET("/grocery-lists", s.listGroceryLists)
	g.POST("/grocery-lists", s.createGroceryList)
	g.DELETE("/grocery-lists/:id", s.deleteGroceryList)
	g.GET("/grocery-lists/:id/items", s.listGroceryItems)
	g.POST("/grocery-lists/:id/items", s.createGroceryItem)
	g.PATCH("/grocery-items/:id", s.updateGroceryItem)
	g.DELETE("/grocery-items/:id", s.deleteGroceryItem)
}

// ── profile ──────────────────────────────────────────────────────────────────

func (s *APIV1Service) getProfile(c *echo.Context) error {
	userID, err := s.requireAuth(c)
	if err != nil {
		return err
	}
	p, err := s.Store.GetProfile(c.Request().Context(), userID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	if p == nil {
		p = &store.Profile{ID: userID, Allergies: []string{}}
	}
	return c.JSON(http.StatusOK, p)
}

func (s *APIV1Service) updateProfile(c *echo.Context) error {
	userID, err := s.requireAuth(c)
	if err != nil {
		return err
	}
	var req struct {
		FullName  string   `json:"full_name"`
		Allergies []string `json:"allergies"`
	}
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if req.Allergies == nil {
		req.Allergies = []string{}
	}
	p, err := s.Store.UpsertProfile(c.Request().Context(), &store.Profile{
		ID:        userID,
		FullName:  req.FullName,
		Allergies: req.Allergies,
		UpdatedTs: time.Now().Unix(),
	})
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, p)
}

// ── recipes ──────────────────────────────────────────────────────────────────

func (s *APIV1Service) listRecipes(c *echo.Context) error {
	userID, err := s.requireAuth(c)
	if err != nil {
		return err
	}
	find := &store.FindRecipe{UserID: &userID}
	if c.QueryParam("favorite") == "true" {
		fav := true
		find.IsFavorite = &fav
	}
	recipes, err := s.Store.ListRecipes(c.Request().Context(), find)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, recipes)
}

func (s *APIV1Service) createRecipe(c *echo.Context) error {
	userID, err := s.requireAuth(c)
	if err != nil {
		return err
	}
	var req struct {
		Title       string `json:"title"`
		Description string `json:"description"`
		IsFavorite  bool   `json:"is_favorite"`
	}
	if err := c.Bind(&req); err != nil || strings.TrimSpace(req.Title) == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "title required")
	}
	recipe, err := s.Store.CreateRecipe(c.Request().Context(), &store.Recipe{
		ID:          uuid.NewString(),
		UserID:      userID,
		Title:       req.Title,
		Description: req.Description,
		IsFavorite:  req.IsFavorite,
		CreatedTs:   time.Now().Unix(),
	})
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusCreated, recipe)
}

func (s *APIV1Service) deleteRecipe(c *echo.Context) error {
	userID, err := s.requireAuth(c)
	if err != nil {
		return err
	}
	if err := s.Store.DeleteRecipe(c.Request().Context(), c.Param("id"), userID); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.NoContent(http.StatusNoContent)
}

// ── pantry ───────────────────────────────────────────────────────────────────

func (s *APIV1Service) listPantryItems(c *echo.Context) error {
	userID, err := s.requireAuth(c)
	if err != nil {
		return err
	}
	items, err := s.Store.ListPantryItems(c.Request().Context(), &store.FindPantryItem{UserID: &userID})
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, items)
}

func (s *APIV1Service) createPantryItem(c *echo.Context) error {
	userID, err := s.requireAuth(c)
	if err != nil {
		return err
	}
	var req struct {
		Name       string  `json:"name"`
		Quantity   float64 `json:"quantity"`
		Unit       string  `json:"unit"`
		Category   string  `json:"category"`
		ExpiryDate string  `json:"expiry_date"`
	}
	if err := c.Bind(&req); err != nil || strings.TrimSpace(req.Name) == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "name required")
	}
	if req.Quantity <= 0 {
		return echo.NewHTTPError(http.StatusBadRequest, "quantity must be positive")
	}
	item, err := s.Store.CreatePantryItem(c.Request().Context(), &store.PantryItem{
		ID:         uuid.NewString(),
		UserID:     userID,
		Name:       req.Name,
		Quantity:   req.Quantity,
		Unit:       req.Unit,
		Category:   req.Category,
		ExpiryDate: req.ExpiryDate,
		CreatedTs:  time.Now().Unix(),
	})
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusCreated, item)
}

func (s *APIV1Service) deletePantryItem(c *echo.Context) error {
	userID, err := s.requireAuth(c)
	if err != nil {
		return err
	}
	if err := s.Store.DeletePantryItem(c.Request().Context(), c.Param("id"), userID); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.NoContent(http.StatusNoContent)
}

// ── meal plans ───────────────────────────────────────────────────────────────

func (s *APIV1Service) listMealPlans(c *echo.Context) error {
	userID, err := s.requireAuth(c)
	if err != nil {
		return err
	}
	find := &store.FindMealPlan{UserID: &userID}
	if from := c.QueryParam("from"); from != "" {
		find.DateFrom = &from
	}
	if to := c.QueryParam("to"); to != "" {
		find.DateTo = &to
	}
	plans, err := s.Store.ListMealPlans(c.Request().Context(), find)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, plans)
}

func (s *APIV1Service) createMealPlan(c *echo.Context) error {
	userID, err := s.requireAuth(c)
	if err != nil {
		return err
	}
	var req struct {
		Date     string `json:"date"`
		MealType string `json:"meal_type"`
		MealName string `json:"meal_name"`
		RecipeID string `json:"recipe_id"`
	}
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if _, err := time.Parse("2006-01-02", req.Date); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "date must be YYYY-MM-DD")
	}
	switch req.MealType {
	case store.MealBreakfast, store.MealLunch, store.MealDinner, store.MealSnack:
	default:
		return echo.NewHTTPError(http.StatusBadRequest, "invalid meal_type")
	}
	if strings.TrimSpace(req.MealName) == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "meal_name required")
	}
	plan, err := s.Store.CreateMealPlan(c.Request().Context(), &store.MealPlan{
		ID:        uuid.NewString(),
		UserID:    userID,
		Date:      req.Date,
		MealType:  req.MealType,
		MealName:  req.MealName,
		RecipeID:  req.RecipeID,
		CreatedTs: time.Now().Unix(),
	})
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusCreated, plan)
}

func (s *APIV1Service) deleteMealPlan(c *echo.Context) error {
	userID, err := s.requireAuth(c)
	if err != nil {
		return err
	}
	if err := s.Store.DeleteMealPlan(c.Request().Context(), c.Param("id"), userID); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.NoContent(http.StatusNoContent)
}

// ── grocery lists & items ────────────────────────────────────────────────────

func (s *APIV1Service) listGroceryLists(c *echo.Context) error {
	userID, err := s.requireAuth(c)
	if err != nil {
		return err
	}
	lists, err := s.Store.ListGroceryLists(c.Request().Context(), &store.FindGroceryList{UserID: &userID})
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, lists)
}

func (s *APIV1Service) createGroceryList(c *echo.Context) error {
	userID, err := s.requireAuth(c)
	if err != nil {
		return err
	}
	var req struct {
		Name string `json:"name"`
	}
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if strings.TrimSpace(req.Name) == "" {
		req.Name = "Grocery List - " + time.Now().Format("Jan 2")
	}
	list, err := s.Store.CreateGroceryList(c.Request().Context(), &store.GroceryList{
		ID:        uuid.NewString(),
		UserID:    userID,
		Name:      req.Name,
		CreatedTs: time.Now().Unix(),
	})
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusCreated, list)
}

func (s *APIV1Service) deleteGroceryList(c *echo.Context) error {
	userID, err := s.requireAuth(c)
	if err != nil {
		return err
	}
	if err := s.Store.DeleteGroceryList(c.Request().Context(), c.Param("id"), userID); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.NoContent(http.StatusNoContent)
}

// ownGroceryList verifies the list belongs to the authenticated user.
func (s *APIV1Service) ownGroceryList(c *echo.Context, userID, listID string) error {
	lists, err := s.Store.ListGroceryLists(c.Request().Context(), &store.FindGroceryList{UserID: &userID})
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	for _, l := range lists {
		if l.ID == listID {
			return nil
		}
	}
	return echo.NewHTTPError(http.StatusNotFound, "grocery list not found")
}

// ownGroceryItem verifies the item sits on one of the user's lists.
func (s *APIV1Service) ownGroceryItem(c *echo.Context, userID, itemID string) error {
	lists, err := s.Store.ListGroceryLists(c.Request().Context(), &store.FindGroceryList{UserID: &userID})
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	if len(lists) > 0 {
		ids := make([]string, 0, len(lists))
		for _, l := range lists {
			ids = append(ids, l.ID)
		}
		items, err := s.Store.ListGroceryItems(c.Request().Context(), &store.FindGroceryItem{ListIDs: ids})
		if err != nil {
			return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
		}
		for _, it := range items {
			if it.ID == itemID {
				return nil
			}
		}
	}
	return echo.NewHTTPError(http.StatusNotFound, "grocery item not found")
}

func (s *APIV1Service) listGroceryItems(c *echo.Context) error {
	userID, err := s.requireAuth(c)
	if err != nil {
		return err
	}
	listID := c.Param("id")
	if err := s.ownGroceryList(c, userID, listID); err != nil {
		return err
	}
	items, err := s.Store.ListGroceryItems(c.Request().Context(), &store.FindGroceryItem{ListID: &listID})
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, items)
}

func (s *APIV1Service) createGroceryItem(c *echo.Context) error {
	userID, err := s.requireAuth(c)
	if err != nil {
		return err
	}
	listID := c.Param("id")
	if err := s.ownGroceryList(c, userID, listID); err != nil {
		return err
	}
	var req struct {
		Name     string  `json:"name"`
		Quantity float64 `json:"quantity"`
		Unit     string  `json:"unit"`
		Category string  `json:"category"`
	}
	if err := c.Bind(&req); err != nil || strings.TrimSpace(req.Name) == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "name required")
	}
	if req.Quantity == 0 {
		req.Quantity = 1
	}
	if req.Unit == "" {
		req.Unit = "item"
	}
	item, err := s.Store.CreateGroceryItem(c.Request().Context(), &store.GroceryItem{
		ID:        uuid.NewString(),
		ListID:    listID,
		Name:      req.Name,
		Quantity:  req.Quantity,
		Unit:      req.Unit,
		Category:  req.Category,
		CreatedTs: time.Now().Unix(),
	})
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusCreated, item)
}

// updateGroceryItem toggles the checked state.
func (s *APIV1Service) updateGroceryItem(c *echo.Context) error {
	userID, err := s.requireAuth(c)
	if err != nil {
		return err
	}
	if err := s.ownGroceryItem(c, userID, c.Param("id")); err != nil {
		return err
	}
	var req struct {
		IsChecked *bool `json:"is_checked"`
	}
	if err := c.Bind(&req); err != nil || req.IsChecked == nil {
		return echo.NewHTTPError(http.StatusBadRequest, "is_checked required")
	}
	item, err := s.Store.UpdateGroceryItem(c.Request().Context(), &store.UpdateGroceryItem{
		ID:        c.Param("id"),
		IsChecked: req.IsChecked,
	})
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	if item == nil {
		return echo.NewHTTPError(http.StatusNotFound, "grocery item not found")
	}
	return c.JSON(http.StatusOK, item)
}

func (s *APIV1Service) deleteGroceryItem(c *echo.Context) error {
	userID, err := s.requireAuth(c)
	if err != nil {
		return err
	}
	if err := s.ownGroceryItem(c, userID, c.Param("id")); err != nil {
		return err
	}
	if err := s.Store.DeleteGroceryItem(c.Request().Context(), c.Param("id")); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.NoContent(http.StatusNoContent)
}
