package api

import (
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/pageza/recipeshare/backend/internal/middleware"
	"github.com/pageza/recipeshare/backend/internal/mocks"
	"github.com/pageza/recipeshare/backend/internal/model"
	"github.com/pageza/recipeshare/backend/internal/service"
	"github.com/pageza/recipeshare/backend/internal/store"
	"github.com/pageza/recipeshare/backend/internal/testhelpers"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type recipeResponse struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Ingredients []string  `json:"ingredients"`
	Steps       []string  `json:"steps"`
	CreatedAt   time.Time `json:"createdAt"`
}

func newTestRouter(s store.RecipeStore) *gin.Engine {
	handler := NewRecipeHandler(service.NewRecipeService(s, nil), nil)

	router := gin.New()
	router.Use(middleware.RequestID(), middleware.Recovery(slog.Default()))
	router.GET("/healthz", handler.Health)
	handler.RegisterRoutes(router.Group("/api"))
	return router
}

func setupRecipeTestRouter(t *testing.T) *gin.Engine {
	t.Helper()
	return newTestRouter(store.NewGormRecipeStore(testhelpers.SetupSQLiteDB(t)))
}

func createRecipe(t *testing.T, router *gin.Engine, body interface{}) recipeResponse {
	t.Helper()
	w := testhelpers.DoJSON(t, router, http.MethodPost, "/api/recipes", body)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var created recipeResponse
	testhelpers.DecodeJSON(t, w, &created)
	return created
}

func listRecipes(t *testing.T, router *gin.Engine) []recipeResponse {
	t.Helper()
	w := testhelpers.DoJSON(t, router, http.MethodGet, "/api/recipes", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var list []recipeResponse
	testhelpers.DecodeJSON(t, w, &list)
	return list
}

func TestListRecipesEmpty(t *testing.T) {
	router := setupRecipeTestRouter(t)

	w := testhelpers.DoJSON(t, router, http.MethodGet, "/api/recipes", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `[]`, w.Body.String())
}

func TestCreateRecipe(t *testing.T) {
	router := setupRecipeTestRouter(t)

	t.Run("title only", func(t *testing.T) {
		first := createRecipe(t, router, map[string]interface{}{"title": "Toast"})
		second := createRecipe(t, router, map[string]interface{}{"title": "Toast"})

		assert.Equal(t, "Toast", first.Title)
		assert.Equal(t, "", first.Description)
		assert.Equal(t, []string{}, first.Ingredients)
		assert.Equal(t, []string{}, first.Steps)
		_, err := uuid.Parse(first.ID)
		require.NoError(t, err)
		assert.NotEqual(t, first.ID, second.ID)
		assert.True(t, second.CreatedAt.After(first.CreatedAt))
	})

	t.Run("long title accepted", func(t *testing.T) {
		title := strings.Repeat("x", 300)
		created := createRecipe(t, router, map[string]interface{}{"title": title})
		assert.Equal(t, title, created.Title)
	})

	t.Run("client id and createdAt ignored", func(t *testing.T) {
		clientID := uuid.New().String()
		created := createRecipe(t, router, map[string]interface{}{
			"id":        clientID,
			"title":     "Pancakes",
			"createdAt": "2001-01-01T00:00:00Z",
		})
		assert.NotEqual(t, clientID, created.ID)
		assert.True(t, created.CreatedAt.After(time.Date(2001, 1, 2, 0, 0, 0, 0, time.UTC)))
	})
}

func TestCreateRecipeRoundTrip(t *testing.T) {
	router := setupRecipeTestRouter(t)

	created := createRecipe(t, router, map[string]interface{}{
		"title":       "Soup",
		"ingredients": []string{"water", "salt"},
		"steps":       []string{"boil", "season"},
	})

	list := listRecipes(t, router)
	require.Len(t, list, 1)
	assert.Equal(t, created.ID, list[0].ID)
	assert.Equal(t, []string{"water", "salt"}, list[0].Ingredients)
	assert.Equal(t, []string{"boil", "season"}, list[0].Steps)
	assert.True(t, created.CreatedAt.Equal(list[0].CreatedAt))
}

func TestCreateRecipeValidation(t *testing.T) {
	router := setupRecipeTestRouter(t)

	tests := []struct {
		name    string
		body    interface{}
		wantMsg string
	}{
		{"missing title", map[string]interface{}{"description": "no title"}, "title is required"},
		{"empty title", map[string]interface{}{"title": ""}, "title is required"},
		{"blank title", map[string]interface{}{"title": "   "}, "title is required"},
		{"null title", `{"title": null}`, "title is required"},
		{"empty body", nil, "title is required"},
		{"malformed json", `{"title": "Soup"`, msgInvalidBody},
		{"wrong type", `{"title": 42}`, msgInvalidBody},
		{"wrong list type", `{"title": "Soup", "steps": "boil"}`, msgInvalidBody},
		{"extra closing brace", `{"title":"Soup"}}`, msgInvalidBody},
		{"trailing garbage", `{"title":"Soup"} not json at all`, msgInvalidBody},
		{"two values", `{"title":"Soup"} {"title":"Stew"}`, msgInvalidBody},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := testhelpers.DoJSON(t, router, http.MethodPost, "/api/recipes", tt.body)
			assert.Equal(t, http.StatusBadRequest, w.Code)

			var resp middleware.ErrorResponse
			testhelpers.DecodeJSON(t, w, &resp)
			assert.Equal(t, tt.wantMsg, resp.Error)
		})
	}

	assert.Empty(t, listRecipes(t, router))
}

func TestListRecipesNewestFirst(t *testing.T) {
	router := setupRecipeTestRouter(t)

	var ids []string
	for _, title := range []string{"A", "B", "C", "D", "E"} {
		ids = append(ids, createRecipe(t, router, map[string]interface{}{"title": title}).ID)
	}

	list := listRecipes(t, router)
	require.Len(t, list, len(ids))
	for i, r := range list {
		assert.Equal(t, ids[len(ids)-1-i], r.ID)
		if i > 0 {
			assert.True(t, r.CreatedAt.Before(list[i-1].CreatedAt))
		}
	}
}

func TestUpdateRecipe(t *testing.T) {
	router := setupRecipeTestRouter(t)
	created := createRecipe(t, router, map[string]interface{}{
		"title":       "Soup",
		"ingredients": []string{"water", "salt"},
		"steps":       []string{"boil", "season"},
	})
	path := "/api/recipes/" + created.ID

	t.Run("description only", func(t *testing.T) {
		w := testhelpers.DoJSON(t, router, http.MethodPut, path, map[string]interface{}{"description": "new text"})
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())

		var updated recipeResponse
		testhelpers.DecodeJSON(t, w, &updated)
		assert.Equal(t, "new text", updated.Description)
		assert.Equal(t, created.ID, updated.ID)
		assert.Equal(t, created.Title, updated.Title)
		assert.Equal(t, created.Ingredients, updated.Ingredients)
		assert.Equal(t, created.Steps, updated.Steps)
		assert.True(t, created.CreatedAt.Equal(updated.CreatedAt))
	})

	t.Run("lists replaced", func(t *testing.T) {
		w := testhelpers.DoJSON(t, router, http.MethodPut, path, map[string]interface{}{"steps": []string{}})
		require.Equal(t, http.StatusOK, w.Code)

		var updated recipeResponse
		testhelpers.DecodeJSON(t, w, &updated)
		assert.Equal(t, []string{}, updated.Steps)
		assert.Equal(t, []string{"water", "salt"}, updated.Ingredients)
	})

	t.Run("id and createdAt immutable", func(t *testing.T) {
		w := testhelpers.DoJSON(t, router, http.MethodPut, path, map[string]interface{}{
			"id":        uuid.New().String(),
			"createdAt": "2001-01-01T00:00:00Z",
			"title":     "Stew",
		})
		require.Equal(t, http.StatusOK, w.Code)

		var updated recipeResponse
		testhelpers.DecodeJSON(t, w, &updated)
		assert.Equal(t, created.ID, updated.ID)
		assert.Equal(t, "Stew", updated.Title)
		assert.True(t, created.CreatedAt.Equal(updated.CreatedAt))
	})

	t.Run("empty body leaves record unchanged", func(t *testing.T) {
		w := testhelpers.DoJSON(t, router, http.MethodPut, path, nil)
		require.Equal(t, http.StatusOK, w.Code)

		var updated recipeResponse
		testhelpers.DecodeJSON(t, w, &updated)
		assert.Equal(t, "Stew", updated.Title)
	})

	t.Run("blank title rejected", func(t *testing.T) {
		w := testhelpers.DoJSON(t, router, http.MethodPut, path, map[string]interface{}{"title": " "})
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.JSONEq(t, `{"error":"title must not be empty"}`, w.Body.String())

		list := listRecipes(t, router)
		require.Len(t, list, 1)
		assert.Equal(t, "Stew", list[0].Title)
	})

	t.Run("malformed json", func(t *testing.T) {
		w := testhelpers.DoJSON(t, router, http.MethodPut, path, `{"title":`)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("trailing data rejected", func(t *testing.T) {
		w := testhelpers.DoJSON(t, router, http.MethodPut, path, `{"title":"Broth"}}`)
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.JSONEq(t, `{"error":"invalid request body"}`, w.Body.String())

		list := listRecipes(t, router)
		require.Len(t, list, 1)
		assert.Equal(t, "Stew", list[0].Title)
	})
}

func TestRequestBodyTooLarge(t *testing.T) {
	router := setupRecipeTestRouter(t)
	created := createRecipe(t, router, map[string]interface{}{"title": "Soup"})
	huge := map[string]interface{}{"title": strings.Repeat("a", maxBodyBytes+1)}

	w := testhelpers.DoJSON(t, router, http.MethodPost, "/api/recipes", huge)
	assert.Equal(t, http.StatusRequestEntityTooLarge, w.Code)
	assert.JSONEq(t, `{"error":"request body too large"}`, w.Body.String())

	w = testhelpers.DoJSON(t, router, http.MethodPut, "/api/recipes/"+created.ID, huge)
	assert.Equal(t, http.StatusRequestEntityTooLarge, w.Code)

	list := listRecipes(t, router)
	require.Len(t, list, 1)
	assert.Equal(t, "Soup", list[0].Title)
}

func TestUpdateRecipeNotFound(t *testing.T) {
	router := setupRecipeTestRouter(t)
	created := createRecipe(t, router, map[string]interface{}{"title": "Soup"})

	for _, id := range []string{uuid.New().String(), "not-a-uuid"} {
		w := testhelpers.DoJSON(t, router, http.MethodPut, "/api/recipes/"+id, map[string]interface{}{"title": "Stew"})
		assert.Equal(t, http.StatusNotFound, w.Code)
		assert.JSONEq(t, `{"error":"not found"}`, w.Body.String())
	}

	list := listRecipes(t, router)
	require.Len(t, list, 1)
	assert.Equal(t, created.ID, list[0].ID)
	assert.Equal(t, "Soup", list[0].Title)
}

func TestDeleteRecipeTwice(t *testing.T) {
	router := setupRecipeTestRouter(t)
	keep := createRecipe(t, router, map[string]interface{}{"title": "Keep"})
	gone := createRecipe(t, router, map[string]interface{}{"title": "Gone"})

	for i := 0; i < 2; i++ {
		w := testhelpers.DoJSON(t, router, http.MethodDelete, "/api/recipes/"+gone.ID, nil)
		assert.Equal(t, http.StatusNoContent, w.Code)
		assert.Empty(t, w.Body.String())

		list := listRecipes(t, router)
		require.Len(t, list, 1)
		assert.Equal(t, keep.ID, list[0].ID)
	}

	w := testhelpers.DoJSON(t, router, http.MethodDelete, "/api/recipes/not-a-uuid", nil)
	assert.Equal(t, http.StatusNoContent, w.Code)
}

func TestHealth(t *testing.T) {
	router := setupRecipeTestRouter(t)

	w := testhelpers.DoJSON(t, router, http.MethodGet, "/healthz", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok"}`, w.Body.String())
}

func TestStoreFailuresAreUnavailable(t *testing.T) {
	storeErr := errors.New("connection reset by peer")
	id := uuid.New()

	s := new(mocks.MockRecipeStore)
	s.On("ListAll", mock.Anything).Return(nil, storeErr)
	s.On("Insert", mock.Anything, mock.AnythingOfType("*model.Recipe")).Return(storeErr)
	s.On("UpdateByID", mock.Anything, id, mock.Anything).Return(nil, storeErr)
	s.On("DeleteByID", mock.Anything, id).Return(storeErr)
	s.On("Ping", mock.Anything).Return(storeErr)

	router := newTestRouter(s)

	requests := []struct {
		method string
		path   string
		body   interface{}
	}{
		{http.MethodGet, "/api/recipes", nil},
		{http.MethodPost, "/api/recipes", model.RecipeInput{Title: strPtr("Soup")}},
		{http.MethodPut, "/api/recipes/" + id.String(), map[string]string{"title": "Stew"}},
		{http.MethodDelete, "/api/recipes/" + id.String(), nil},
		{http.MethodGet, "/healthz", nil},
	}

	for _, r := range requests {
		t.Run(r.method+" "+r.path, func(t *testing.T) {
			w := testhelpers.DoJSON(t, router, r.method, r.path, r.body)
			assert.Equal(t, http.StatusServiceUnavailable, w.Code)
			assert.JSONEq(t, `{"error":"recipe storage is unavailable"}`, w.Body.String())
			assert.NotContains(t, w.Body.String(), "connection reset")
		})
	}

	s.AssertExpectations(t)
}

func TestWriteErrorUnclassified(t *testing.T) {
	handler := NewRecipeHandler(nil, nil)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)

	handler.writeError(c, errors.New("boom"))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.JSONEq(t, `{"error":"internal server error"}`, w.Body.String())
}

func strPtr(s string) *string { return &s }
