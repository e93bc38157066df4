package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Keoroanthony/go-foodorders/internal/catalog"
)

// GET /api/foods?q=&category=&diet=&sort=
func (h *Handler) ListFoods(c *gin.Context) {
	items, err := h.catalog.List(c.Request.Context())
	if err != nil {
		h.fail(c, err)
		return
	}

	diet := c.Query("diet")
	if diet == "" {
		diet = c.Query("veg")
	}
	f := catalog.Filters{
		Text:     c.Query("q"),
		Category: c.DefaultQuery("category", "all"),
		Diet:     catalog.ParseDiet(diet),
		Sort:     catalog.ParseSort(c.Query("sort")),
	}
	c.JSON(http.StatusOK, catalog.Query(items, f))
}

// GET /api/foods/:id
func (h *Handler) GetFood(c *gin.Context) {
	item, ok, err := h.catalog.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.fail(c, err)
		return
	}
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "food not found"})
		return
	}
	c.JSON(http.StatusOK, item)
}

// GET /api/categories
func (h *Handler) ListCategories(c *gin.Context) {
	items, err := h.catalog.List(c.Request.Context())
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, catalog.Categories(items))
}

// POST /api/foods
func (h *Handler) CreateFood(c *gin.Context) {
	var d catalog.Draft
	if err := c.ShouldBindJSON(&d); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	item, err := h.catalog.Create(c.Request.Context(), h.session(c), d)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, item)
}

// PUT /api/foods/:id
func (h *Handler) UpdateFood(c *gin.Context) {
	var d catalog.Draft
	if err := c.ShouldBindJSON(&d); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	item, ok, err := h.catalog.Update(c.Request.Context(), c.Param("id"), d)
	if err != nil {
		h.fail(c, err)
		return
	}
	if !ok {
		c.Status(http.StatusNoContent)
		return
	}
	c.JSON(http.StatusOK, item)
}

// DELETE /api/foods/:id
func (h *Handler) DeleteFood(c *gin.Context) {
	if _, err := h.catalog.Delete(c.Request.Context(), c.Param("id")); err != nil {
		h.fail(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
