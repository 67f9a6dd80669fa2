package server

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"gamecatalog/backend/internal/config"
	"gamecatalog/backend/internal/database"
	"gamecatalog/backend/internal/hub"
	"gamecatalog/backend/internal/logging"
	"gamecatalog/backend/internal/models"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func testConfig() *config.Config {
	return &config.Config{
		Environment:    "development",
		DBType:         config.DBTypeSQLite,
		DBSynchronize:  true,
		EnableCORS:     true,
		MetricsEnabled: true,
		TokenTTL:       time.Hour,
	}
}

func newTestRouter(t *testing.T, cfg *config.Config) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	log := logging.Discard()

	db, err := database.Connect(cfg, log)
	require.NoError(t, err)
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	})

	return NewRouter(cfg, db, log, hub.New(log))
}

func request(t *testing.T, r http.Handler, method, path string, body any, headers ...string) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		switch b := body.(type) {
		case string:
			buf.WriteString(b)
		default:
			require.NoError(t, json.NewEncoder(&buf).Encode(b))
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)
	return rr
}

func decode[T any](t *testing.T, rr *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &v), "body: %s", rr.Body.String())
	return v
}

func createCategory(t *testing.T, r http.Handler, name string) models.Category {
	t.Helper()
	rr := request(t, r, http.MethodPost, "/category", map[string]any{"name": name})
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())
	return decode[models.Category](t, rr)
}

func createGame(t *testing.T, r http.Handler, title string, categoryID uint) models.Game {
	t.Helper()
	rr := request(t, r, http.MethodPost, "/game", map[string]any{
		"title":       title,
		"price":       9.99,
		"developer":   "Acme",
		"releaseDate": "2024-01-01",
		"category":    map[string]any{"id": categoryID},
	})
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())
	return decode[models.Game](t, rr)
}

func TestPing(t *testing.T) {
	r := newTestRouter(t, testConfig())

	rr := request(t, r, http.MethodGet, "/ping", nil)
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.NotEmpty(t, rr.Header().Get("X-Request-ID"))
}

func TestCategoryScenario(t *testing.T) {
	r := newTestRouter(t, testConfig())

	rpg := createCategory(t, r, "RPG")
	assert.NotZero(t, rpg.ID)

	rr := request(t, r, http.MethodPost, "/category", map[string]any{"name": "RPG"})
	assert.Equal(t, http.StatusConflict, rr.Code)

	rr = request(t, r, http.MethodGet, fmt.Sprintf("/category/%d", rpg.ID), nil)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "RPG", decode[models.Category](t, rr).Name)

	rr = request(t, r, http.MethodGet, "/category/999999", nil)
	assert.Equal(t, http.StatusNotFound, rr.Code)
	assert.Contains(t, decode[map[string]string](t, rr)["error"], "not found")

	rr = request(t, r, http.MethodGet, "/category/abc", nil)
	assert.Equal(t, http.StatusBadRequest, rr.Code)

	rr = request(t, r, http.MethodGet, "/category", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Len(t, decode[[]models.Category](t, rr), 1)
}

func TestCategoryFindByNameRoute(t *testing.T) {
	r := newTestRouter(t, testConfig())
	warfare := createCategory(t, r, "Warfare")

	rr := request(t, r, http.MethodGet, "/category/name/war", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, warfare.ID, decode[models.Category](t, rr).ID)

	rr = request(t, r, http.MethodGet, "/category/name/racing", nil)
	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestCategoryUpdateAndDeleteRoutes(t *testing.T) {
	r := newTestRouter(t, testConfig())
	rpg := createCategory(t, r, "RPG")

	rr := request(t, r, http.MethodPut, "/category", map[string]any{"id": rpg.ID, "description": "Role-playing"})
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	updated := decode[models.Category](t, rr)
	assert.Equal(t, "RPG", updated.Name)
	require.NotNil(t, updated.Description)
	assert.Equal(t, "Role-playing", *updated.Description)

	rr = request(t, r, http.MethodPut, "/category", map[string]any{"name": "no id"})
	assert.Equal(t, http.StatusBadRequest, rr.Code)

	rr = request(t, r, http.MethodPut, "/category", map[string]any{"id": 4242, "name": "x"})
	assert.Equal(t, http.StatusNotFound, rr.Code)

	rr = request(t, r, http.MethodDelete, fmt.Sprintf("/category/%d", rpg.ID), nil)
	assert.Equal(t, http.StatusNoContent, rr.Code)
	assert.Empty(t, rr.Body.String())

	rr = request(t, r, http.MethodDelete, fmt.Sprintf("/category/%d", rpg.ID), nil)
	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestGameScenario(t *testing.T) {
	r := newTestRouter(t, testConfig())
	rpg := createCategory(t, r, "RPG")

	quest := createGame(t, r, "Quest", rpg.ID)
	assert.NotZero(t, quest.ID)
	require.NotNil(t, quest.Category)
	assert.Equal(t, "RPG", quest.Category.Name)
	assert.True(t, quest.Price.Equal(decimal.RequireFromString("9.99")))

	rr := request(t, r, http.MethodGet, "/game/category/RPG", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	byName := decode[[]models.Game](t, rr)
	require.Len(t, byName, 1)
	assert.Equal(t, "Quest", byName[0].Title)

	rr = request(t, r, http.MethodGet, fmt.Sprintf("/game/category/id/%d", rpg.ID), nil)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Len(t, decode[[]models.Game](t, rr), 1)

	rr = request(t, r, http.MethodGet, "/game/category/id/abc", nil)
	assert.Equal(t, http.StatusBadRequest, rr.Code)

	rr = request(t, r, http.MethodGet, "/game/category/shooter", nil)
	assert.Equal(t, http.StatusNotFound, rr.Code)

	rr = request(t, r, http.MethodGet, "/game/abc", nil)
	assert.Equal(t, http.StatusBadRequest, rr.Code)

	rr = request(t, r, http.MethodGet, "/game/999", nil)
	assert.Equal(t, http.StatusNotFound, rr.Code)

	rr = request(t, r, http.MethodGet, "/game", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	all := decode[[]models.Game](t, rr)
	require.Len(t, all, 1)
	require.NotNil(t, all[0].Category)

	// Categories with games are not deleted.
	rr = request(t, r, http.MethodDelete, fmt.Sprintf("/category/%d", rpg.ID), nil)
	assert.Equal(t, http.StatusConflict, rr.Code)
}

func TestGameCreateValidation(t *testing.T) {
	r := newTestRouter(t, testConfig())
	rpg := createCategory(t, r, "RPG")

	rr := request(t, r, http.MethodPost, "/game", map[string]any{
		"title": "Quest", "price": 9.99, "developer": "Acme", "releaseDate": "2024-01-01",
		"category": map[string]any{"id": 9999},
	})
	assert.Equal(t, http.StatusUnprocessableEntity, rr.Code)

	rr = request(t, r, http.MethodPost, "/game", map[string]any{
		"price": 9.99, "developer": "Acme", "releaseDate": "2024-01-01",
		"category": map[string]any{"id": rpg.ID},
	})
	assert.Equal(t, http.StatusBadRequest, rr.Code)

	rr = request(t, r, http.MethodPost, "/game", map[string]any{
		"title": "Quest", "price": 9.99, "developer": "Acme", "releaseDate": "yesterday",
		"category": map[string]any{"id": rpg.ID},
	})
	assert.Equal(t, http.StatusBadRequest, rr.Code)

	rr = request(t, r, http.MethodPost, "/game", `{"title":`)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestGameUpdateAndDeleteRoutes(t *testing.T) {
	r := newTestRouter(t, testConfig())
	rpg := createCategory(t, r, "RPG")
	quest := createGame(t, r, "Quest", rpg.ID)

	rr := request(t, r, http.MethodPut, fmt.Sprintf("/game/%d", quest.ID), map[string]any{"price": "19.90"})
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	updated := decode[models.Game](t, rr)
	assert.True(t, updated.Price.Equal(decimal.RequireFromString("19.90")))
	assert.Equal(t, "Quest", updated.Title)
	assert.Equal(t, "Acme", updated.Developer)
	assert.True(t, updated.ReleaseDate.Equal(quest.ReleaseDate))
	assert.Equal(t, rpg.ID, updated.Category.ID)

	rr = request(t, r, http.MethodPut, "/game/777", map[string]any{"title": "Nope"})
	assert.Equal(t, http.StatusNotFound, rr.Code)

	rr = request(t, r, http.MethodPut, fmt.Sprintf("/game/%d", quest.ID), map[string]any{"category": map[string]any{"id": 555}})
	assert.Equal(t, http.StatusUnprocessableEntity, rr.Code)

	rr = request(t, r, http.MethodDelete, fmt.Sprintf("/game/%d", quest.ID), nil)
	assert.Equal(t, http.StatusNoContent, rr.Code)

	rr = request(t, r, http.MethodDelete, fmt.Sprintf("/game/%d", quest.ID), nil)
	assert.Equal(t, http.StatusNotFound, rr.Code)

	rr = request(t, r, http.MethodDelete, "/game/abc", nil)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestMetricsEndpoint(t *testing.T) {
	r := newTestRouter(t, testConfig())
	request(t, r, http.MethodGet, "/game", nil)

	rr := request(t, r, http.MethodGet, "/metrics", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), `route="/game"`)
}

func TestMetricsDisabled(t *testing.T) {
	cfg := testConfig()
	cfg.MetricsEnabled = false
	r := newTestRouter(t, cfg)

	rr := request(t, r, http.MethodGet, "/metrics", nil)
	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestWritesRequireTokenWhenAuthEnabled(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.MinCost)
	require.NoError(t, err)
	cfg := testConfig()
	cfg.JWTSecret = "secret"
	cfg.AdminUsername = "admin"
	cfg.AdminPasswordHash = string(hash)
	r := newTestRouter(t, cfg)

	rr := request(t, r, http.MethodPost, "/category", map[string]any{"name": "RPG"})
	assert.Equal(t, http.StatusUnauthorized, rr.Code)

	rr = request(t, r, http.MethodGet, "/category", nil)
	assert.Equal(t, http.StatusOK, rr.Code)

	rr = request(t, r, http.MethodPost, "/auth/token", map[string]any{"username": "admin", "password": "password123"})
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	token := decode[map[string]any](t, rr)["token"].(string)

	rr = request(t, r, http.MethodPost, "/category", map[string]any{"name": "RPG"}, "Authorization", "Bearer "+token)
	assert.Equal(t, http.StatusCreated, rr.Code)
}

func TestAuthRouteAbsentWithoutSecret(t *testing.T) {
	r := newTestRouter(t, testConfig())

	rr := request(t, r, http.MethodPost, "/auth/token", map[string]any{"username": "admin", "password": "x"})
	assert.Equal(t, http.StatusNotFound, rr.Code)
}
