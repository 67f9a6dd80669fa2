package handler

import (
	"net/http"

	"gamecatalog/backend/internal/service"

	"github.com/gin-gonic/gin"
)

// GameHandler exposes GameService over HTTP.
type GameHandler struct {
	games *service.GameService
}

func NewGameHandler(games *service.GameService) *GameHandler {
	return &GameHandler{games: games}
}

// GetGames godoc
// @Summary      List games
// @Description  Retrieves every game with its category.
// @Tags         games
// @Produce      json
// @Success      200 {array}  models.Game
// @Failure      500 {object} ErrorResponse
// @Router       /game [get]
func (h *GameHandler) GetGames(c *gin.Context) {
	games, err := h.games.FindAll(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, games)
}

// GetGameByID godoc
// @Summary      Get a single game by ID
// @Tags         games
// @Produce      json
// @Param        id path int true "Game ID"
// @Success      200 {object} models.Game
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse "Game not found"
// @Router       /game/{id} [get]
func (h *GameHandler) GetGameByID(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	game, err := h.games.FindByID(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, game)
}

// GetGamesByCategoryName godoc
// @Summary      List games of a category found by name
// @Tags         games
// @Produce      json
// @Param        categoryName path string true "Part of the category name"
// @Success      200 {array}  models.Game
// @Failure      404 {object} ErrorResponse "Category not found"
// @Router       /game/category/{categoryName} [get]
func (h *GameHandler) GetGamesByCategoryName(c *gin.Context) {
	games, err := h.games.FindByCategoryName(c.Request.Context(), c.Param("categoryName"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, games)
}

// GetGamesByCategoryID godoc
// @Summary      List games of a category
// @Tags         games
// @Produce      json
// @Param        categoryId path int true "Category ID"
// @Success      200 {array}  models.Game
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse "Category not found"
// @Router       /game/category/id/{categoryId} [get]
func (h *GameHandler) GetGamesByCategoryID(c *gin.Context) {
	categoryID, ok := parseID(c, "categoryId")
	if !ok {
		return
	}

	games, err := h.games.FindByCategoryID(c.Request.Context(), categoryID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, games)
}

// CreateGame godoc
// @Summary      Create a new game
// @Description  The referenced category must exist.
// @Tags         games
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        input body      service.CreateGameInput true "Game Info"
// @Success      201   {object}  models.Game
// @Failure      400   {object}  ErrorResponse
// @Failure      422   {object}  ErrorResponse "Category does not exist"
// @Router       /game [post]
func (h *GameHandler) CreateGame(c *gin.Context) {
	var input service.CreateGameInput
	if err := c.ShouldBindJSON(&input); err != nil {
		badRequest(c, err.Error())
		return
	}

	game, err := h.games.Create(c.Request.Context(), input)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, game)
}

// UpdateGame godoc
// @Summary      Update a game
// @Description  Partial update; omitted fields keep their value.
// @Tags         games
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      int                     true  "Game ID"
// @Param        input body      service.UpdateGameInput true  "Fields to change"
// @Success      200   {object}  models.Game
// @Failure      400   {object}  ErrorResponse
// @Failure      404   {object}  ErrorResponse "Game not found"
// @Failure      422   {object}  ErrorResponse "Category does not exist"
// @Router       /game/{id} [put]
func (h *GameHandler) UpdateGame(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	var input service.UpdateGameInput
	if err := c.ShouldBindJSON(&input); err != nil {
		badRequest(c, err.Error())
		return
	}

	game, err := h.games.Update(c.Request.Context(), id, input)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, game)
}

// DeleteGame godoc
// @Summary      Delete a game
// @Tags         games
// @Security     BearerAuth
// @Param        id path int true "Game ID"
// @Success      204
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse "Game not found"
// @Router       /game/{id} [delete]
func (h *GameHandler) DeleteGame(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	if err := h.games.Delete(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
