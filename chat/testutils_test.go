package chat

import (
	"context"
	"sync"

	"github.com/forkful/forkful/store"
)

// fakeDomain is an in-memory DomainStore. Lists are returned newest first,
// matching the SQL drivers.
type fakeDomain struct {
	mu       sync.Mutex
	profiles map[string]*store.Profile
	recipes  []*store.Recipe
	pantry   []*store.PantryItem
	meals    []*store.MealPlan
	lists    []*store.GroceryList
	items    []*store.GroceryItem

	createPantryErr  error
	createMealErr    error
	createItemErr    error
	upsertProfileErr error
	listGroceriesErr error
	createdMealPlans int
}

func newFakeDomain() *fakeDomain {
	return &fakeDomain{profiles: make(map[string]*store.Profile)}
}

func (f *fakeDomain) GetProfile(_ context.Context, userID string) (*store.Profile, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.profiles[userID], nil
}

func (f *fakeDomain) UpsertProfile(_ context.Context, upsert *store.Profile) (*store.Profile, error) {
	if f.upsertProfileErr != nil {
		return nil, f.upsertProfileErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	clone := *upsert
	f.profiles[upsert.ID] = &clone
	return &clone, nil
}

func (f *fakeDomain) ListRecipes(_ context.Context, find *store.FindRecipe) ([]*store.Recipe, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*store.Recipe
	for _, r := range f.recipes {
		if find.UserID != nil && r.UserID != *find.UserID {
			continue
		}
		if find.IsFavorite != nil && r.IsFavorite != *find.IsFavorite {
			continue
		}
		out = append(out, r)
	}
	return out, nil
}

func (f *fakeDomain) ListPantryItems(_ context.Context, find *store.FindPantryItem) ([]*store.PantryItem, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*store.PantryItem
	for _, p := range f.pantry {
		if find.UserID != nil && p.UserID != *find.UserID {
			continue
		}
		out = append(out, p)
	}
	return out, nil
}

func (f *fakeDomain) CreatePantryItem(_ context.Context, create *store.PantryItem) (*store.PantryItem, error) {
	if f.createPantryErr != nil {
		return nil, f.createPantryErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.pantry = append(f.pantry, create)
	return create, nil
}

func (f *fakeDomain) ListMealPlans(_ context.Context, find *store.FindMealPlan) ([]*store.MealPlan, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*store.MealPlan
	for _, m := range f.meals {
		if find.UserID != nil && m.UserID != *find.UserID {
			continue
		}
		if find.DateFrom != nil && m.Date < *find.DateFrom {
			continue
		}
		if find.DateTo != nil && m.Date > *find.DateTo {
			continue
		}
		out = append(out, m)
	}
	return out, nil
}

func (f *fakeDomain) CreateMealPlan(_ context.Context, create *store.MealPlan) (*store.MealPlan, error) {
	if f.createMealErr != nil {
		return nil, f.createMealErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.meals = append(f.meals, create)
	f.createdMealPlans++
	return create, nil
}

func (f *fakeDomain) ListGroceryLists(_ context.Context, find *store.FindGroceryList) ([]*store.GroceryList, error) {
	if f.listGroceriesErr != nil {
		return nil, f.listGroceriesErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	// newest first
	var out []*store.GroceryList
	for i := len(f.lists) - 1; i >= 0; i-- {
		l := f.lists[i]
		if find.UserID != nil && l.UserID != *find.UserID {
			continue
		}
		out = append(out, l)
	}
	return out, nil
}

func (f *fakeDomain) CreateGroceryList(_ context.Context, create *store.GroceryList) (*store.GroceryList, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.lists = append(f.lists, create)
	return create, nil
}

func (f *fakeDomain) ListGroceryItems(_ context.Context, find *store.FindGroceryItem) ([]*store.GroceryItem, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	inLists := func(id string) bool {
		if find.ListID != nil {
			return id == *find.ListID
		}
		if len(find.ListIDs) == 0 {
			return true
		}
		for _, lid := range find.ListIDs {
			if lid == id {
				return true
			}
		}
		return false
	}
	var out []*store.GroceryItem
	for _, it := range f.items {
		if !inLists(it.ListID) {
			continue
		}
		if find.IsChecked != nil && it.IsChecked != *find.IsChecked {
			continue
		}
		out = append(out, it)
	}
	return out, nil
}

func (f *fakeDomain) CreateGroceryItem(_ context.Context, create *store.GroceryItem) (*store.GroceryItem, error) {
	if f.createItemErr != nil {
		return nil, f.createItemErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.items = append(f.items, create)
	return create, nil
}

// fakePersistence is an in-memory ConversationPersistence.
type fakePersistence struct {
	mu            sync.Mutex
	conversations map[string]*store.Conversation

	getErr    error
	upsertErr error
	upserts   int
}

func newFakePersistence() *fakePersistence {
	return &fakePersistence{conversations: make(map[string]*store.Conversation)}
}

func (f *fakePersistence) UpsertConversation(_ context.Context, upsert *store.Conversation) (*store.Conversation, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.upserts++
	if f.upsertErr != nil {
		return nil, f.upsertErr
	}
	clone := *upsert
	f.conversations[upsert.ID] = &clone
	return &clone, nil
}

func (f *fakePersistence) GetConversation(_ context.Context, find *store.FindConversation) (*store.Conversation, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.getErr != nil {
		return nil, f.getErr
	}
	conv, ok := f.conversations[*find.ID]
	if !ok {
		return nil, nil
	}
	if find.UserID != nil && conv.UserID != *find.UserID {
		return nil, nil
	}
	clone := *conv
	return &clone, nil
}

// fakeModel replays a canned reply or error.
type fakeModel struct {
	reply *ModelReply
	err   error

	calls       int
	lastPrompt  string
	lastHistory []store.Message
	lastCatalog []ToolDefinition
}

func (f *fakeModel) Complete(_ context.Context, systemPrompt string, history []store.Message, tools []ToolDefinition) (*ModelReply, error) {
	f.calls++
	f.lastPrompt = systemPrompt
	f.lastHistory = history
	f.lastCatalog = tools
	if f.err != nil {
		return nil, f.err
	}
	if f.reply == nil {
		return &ModelReply{Text: "ok"}, nil
	}
	return f.reply, nil
}
