package chat

// Tool names. The catalog below and the executor's dispatch are a closed set:
// adding a tool means updating both in lockstep, and the catalog invariant
// test fails otherwise.
const (
	ToolAddMealPlan     = "add_meal_plan"
	ToolAddPantryItem   = "add_pantry_item"
	ToolAddGroceryItem  = "add_grocery_item"
	ToolUpdateAllergies = "update_allergies"
)

// ToolDefinition is one catalog entry sent to the model. InputSchema is
// authoritative validation, not just documentation: the executor enforces the
// same required fields and enums.
type ToolDefinition struct {
	Name        string         `json:"name"`
	Description string         `json:"description"`
	InputSchema map[string]any `json:"input_schema"`
}

// Catalog returns the fixed tool catalog. The same slice content is used for
// prompt construction and to bound the execution surface.
func Catalog() []ToolDefinition {
	return []ToolDefinition{
		{
			Name: ToolAddMealPlan,
			Description: "Add a meal to the meal plan for a specific date and meal type. " +
				"Use this when the user wants to plan a meal for a specific day.",
			InputSchema: objectSchema(map[string]any{
				"date": map[string]any{
					"type":        "string",
					"description": "Date in YYYY-MM-DD format (e.g., 2025-11-23)",
				},
				"meal_type": map[string]any{
					"type":        "string",
					"enum":        []string{"breakfast", "lunch", "dinner", "snack"},
					"description": "Type of meal",
				},
				"meal_name": map[string]any{
					"type":        "string",
					"description": "Name of the meal or dish",
				},
				"recipe_id": map[string]any{
					"type":        "string",
					"description": "Optional recipe ID if linking to an existing recipe",
				},
			}, "date", "meal_type", "meal_name"),
		},
		{
			Name: ToolAddPantryItem,
			Description: "Add an item to the pantry inventory. " +
				"Use this when the user mentions they have or bought ingredients.",
			InputSchema: objectSchema(map[string]any{
				"name": map[string]any{
					"type":        "string",
					"description": "Name of the pantry item",
				},
				"quantity": map[string]any{
					"type":        "number",
					"description": "Quantity of the item",
				},
				"unit": map[string]any{
					"type":        "string",
					"description": "Unit of measurement (e.g., cups, grams, pieces, lbs)",
				},
				"category": map[string]any{
					"type":        "string",
					"description": "Optional category (e.g., dairy, meat, vegetables, grains)",
				},
				"expiry_date": map[string]any{
					"type":        "string",
					"description": "Optional expiry date in YYYY-MM-DD format",
				},
			}, "name", "quantity", "unit"),
		},
		{
			Name: ToolAddGroceryItem,
			Description: "Add an item to the grocery list. Use this when the user mentions they need to buy something. " +
				"If no active grocery list exists, one will be created.",
			InputSchema: objectSchema(map[string]any{
				"name": map[string]any{
					"type":        "string",
					"description": "Name of the grocery item",
				},
				"quantity": map[string]any{
					"type":        "number",
					"description": "Quantity of the item",
				},
				"unit": map[string]any{
					"type":        "string",
					"description": "Unit of measurement (e.g., cups, grams, pieces, lbs)",
				},
				"category": map[string]any{
					"type":        "string",
					"description": "Optional category (e.g., dairy, meat, vegetables, grains)",
				},
			}, "name"),
		},
		{
			Name: ToolUpdateAllergies,
			Description: "Update the user's allergy information. " +
				"Use this when the user mentions new allergies or wants to modify their allergy list.",
			InputSchema: objectSchema(map[string]any{
				"allergies": map[string]any{
					"type":        "array",
					"items":       map[string]any{"type": "string"},
					"description": "Array of allergy names",
				},
				"action": map[string]any{
					"type":        "string",
					"enum":        []string{"replace", "add", "remove"},
					"description": "Whether to replace all allergies, add new ones, or remove specific ones",
				},
			}, "allergies", "action"),
		},
	}
}

// CatalogNames returns the catalog's tool names in catalog order.
func CatalogNames() []string {
	defs := Catalog()
	names := make([]string, 0, len(defs))
	for _, d := range defs {
		names = append(names, d.Name)
	}
	return names
}

func objectSchema(properties map[string]any, required ...string) map[string]any {
	if required == nil {
		required = []string{}
	}
	return map[string]any{
		"type":       "object",
		"properties": properties,
		"required":   required,
	}
}
