package handler

import (
	"net/http"

	"gamecatalog/backend/internal/service"

	"github.com/gin-gonic/gin"
)

// CategoryHandler exposes CategoryService over HTTP.
type CategoryHandler struct {
	categories *service.CategoryService
}

func NewCategoryHandler(categories *service.CategoryService) *CategoryHandler {
	return &CategoryHandler{categories: categories}
}

// GetCategories godoc
// @Summary      List categories
// @Description  Retrieves every category.
// @Tags         categories
// @Produce      json
// @Success      200  {array}   models.Category
// @Failure      500  {object}  ErrorResponse
// @Router       /category [get]
func (h *CategoryHandler) GetCategories(c *gin.Context) {
	categories, err := h.categories.FindAll(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, categories)
}

// GetCategoryByID godoc
// @Summary      Get a category by ID
// @Tags         categories
// @Produce      json
// @Param        id   path      int  true  "Category ID"
// @Success      200  {object}  models.Category
// @Failure      400  {object}  ErrorResponse
// @Failure      404  {object}  ErrorResponse "Category not found"
// @Router       /category/{id} [get]
func (h *CategoryHandler) GetCategoryByID(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	category, err := h.categories.FindByID(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, category)
}

// GetCategoryByName godoc
// @Summary      Find a category by name
// @Description  Case-insensitive substring match; the lowest ID wins when several match.
// @Tags         categories
// @Produce      json
// @Param        name path      string  true  "Part of the category name"
// @Success      200  {object}  models.Category
// @Failure      404  {object}  ErrorResponse "Category not found"
// @Router       /category/name/{name} [get]
func (h *CategoryHandler) GetCategoryByName(c *gin.Context) {
	category, err := h.categories.FindByName(c.Request.Context(), c.Param("name"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, category)
}

// CreateCategory godoc
// @Summary      Create a category
// @Tags         categories
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        input body      service.CreateCategoryInput true "Category Info"
// @Success      201   {object}  models.Category
// @Failure      400   {object}  ErrorResponse
// @Failure      409   {object}  ErrorResponse "Category already exists"
// @Router       /category [post]
func (h *CategoryHandler) CreateCategory(c *gin.Context) {
	var input service.CreateCategoryInput
	if err := c.ShouldBindJSON(&input); err != nil {
		badRequest(c, err.Error())
		return
	}

	category, err := h.categories.Create(c.Request.Context(), input)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, category)
}

// UpdateCategory godoc
// @Summary      Update a category
// @Description  Partial update; the category ID travels in the body.
// @Tags         categories
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        input body      service.UpdateCategoryInput true "Fields to change"
// @Success      200   {object}  models.Category
// @Failure      400   {object}  ErrorResponse
// @Failure      404   {object}  ErrorResponse "Category not found"
// @Failure      409   {object}  ErrorResponse "Name already in use"
// @Router       /category [put]
func (h *CategoryHandler) UpdateCategory(c *gin.Context) {
	var input service.UpdateCategoryInput
	if err := c.ShouldBindJSON(&input); err != nil {
		badRequest(c, err.Error())
		return
	}

	category, err := h.categories.Update(c.Request.Context(), input)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, category)
}

// DeleteCategory godoc
// @Summary      Delete a category
// @Description  Categories that still have games are not deleted.
// @Tags         categories
// @Security     BearerAuth
// @Param        id path int true "Category ID"
// @Success      204
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse "Category not found"
// @Failure      409 {object} ErrorResponse "Category still has games"
// @Router       /category/{id} [delete]
func (h *CategoryHandler) DeleteCategory(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	if err := h.categories.Delete(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
