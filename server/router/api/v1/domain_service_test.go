package v1

import (
	"context"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v5"
	"github.com/stretchr/testify/require"

	"github.com/forkful/forkful/server/auth"
	"github.com/forkful/forkful/server/profile"
	"github.com/forkful/forkful/store"
	"github.com/forkful/forkful/store/db/sqlite"
)

const testSecret = "test-secret"

func newTestService(t *testing.T) (*APIV1Service, *echo.Echo) {
	t.Helper()
	driver, err := sqlite.NewDB(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	st := store.New(driver)
	require.NoError(t, st.Migrate(context.Background()))
	t.Cleanup(func() { _ = st.Close() })

	svc := NewAPIV1Service(&profile.Profile{Mode: "dev", Secret: testSecret}, st, nil)
	e := echo.New()
	svc.Register(e)
	return svc, e
}

func bearerFor(t *testing.T, userID string) string {
	t.Helper()
	token, err := auth.NewAuthenticator(testSecret).GenerateAccessToken(userID, time.Now())
	require.NoError(t, err)
	return "Bearer " + token
}

func doJSON(e *echo.Echo, method, path, bearer, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Authorization", bearer)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func TestGroceryItemHandlersScopedToOwner(t *testing.T) {
	svc, e := newTestService(t)
	ctx := context.Background()

	list, err := svc.Store.CreateGroceryList(ctx, &store.GroceryList{
		ID: "l1", UserID: "owner", Name: "weekly", CreatedTs: 1,
	})
	require.NoError(t, err)
	item, err := svc.Store.CreateGroceryItem(ctx, &store.GroceryItem{
		ID: "i1", ListID: list.ID, Name: "milk", Quantity: 1, Unit: "gallon", CreatedTs: 1,
	})
	require.NoError(t, err)

	owner := bearerFor(t, "owner")
	intruder := bearerFor(t, "intruder")

	// Another authenticated user can neither check off nor delete the item.
	rec := doJSON(e, http.MethodPatch, "/api/v1/grocery-items/"+item.ID, intruder, `{"is_checked":true}`)
	require.Equal(t, http.StatusNotFound, rec.Code)
	rec = doJSON(e, http.MethodDelete, "/api/v1/grocery-items/"+item.ID, intruder, "")
	require.Equal(t, http.StatusNotFound, rec.Code)

	items, err := svc.Store.ListGroceryItems(ctx, &store.FindGroceryItem{ListID: &list.ID})
	require.NoError(t, err)
	require.Len(t, items, 1)
	require.False(t, items[0].IsChecked)

	// The owner can do both.
	rec = doJSON(e, http.MethodPatch, "/api/v1/grocery-items/"+item.ID, owner, `{"is_checked":true}`)
	require.Equal(t, http.StatusOK, rec.Code)
	items, err = svc.Store.ListGroceryItems(ctx, &store.FindGroceryItem{ListID: &list.ID})
	require.NoError(t, err)
	require.True(t, items[0].IsChecked)

	rec = doJSON(e, http.MethodDelete, "/api/v1/grocery-items/"+item.ID, owner, "")
	require.Equal(t, http.StatusNoContent, rec.Code)
	items, err = svc.Store.ListGroceryItems(ctx, &store.FindGroceryItem{ListID: &list.ID})
	require.NoError(t, err)
	require.Empty(t, items)
}

func TestGroceryItemRoutesRejectMissingToken(t *testing.T) {
	_, e := newTestService(t)

	rec := doJSON(e, http.MethodPatch, "/api/v1/grocery-items/i1", "", `{"is_checked":true}`)
	require.Equal(t, http.StatusUnauthorized, rec.Code)
	rec = doJSON(e, http.MethodDelete, "/api/v1/grocery-items/i1", "", "")
	require.Equal(t, http.StatusUnauthorized, rec.Code)
}
