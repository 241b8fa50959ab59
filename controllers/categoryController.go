package controllers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/PraiseNight/models"
	"github.com/PraiseNight/services"
	"github.com/gin-gonic/gin"
)

// GetCategories returns stored categories followed by song-only tags.
func GetCategories(c *gin.Context) {
	categories, err := services.GetAllCategories(c.Request.Context())
	if err != nil {
		respondError(c, "Failed to fetch categories", err)
		return
	}

	c.JSON(http.StatusOK, categories)
}

func CreateCategory(c *gin.Context) {
	var body models.CategoryCreate
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Category name is required", "details": err.Error()})
		return
	}

	category, err := services.CreateCategory(c.Request.Context(), body)
	if err != nil {
		respondError(c, "Failed to create category", err)
		return
	}

	c.JSON(http.StatusCreated, category)
}

func UpdateCategory(c *gin.Context) {
	categoryID, ok := paramID(c, "category_id", "category")
	if !ok {
		return
	}

	var body models.CategoryUpdate
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body", "details": err.Error()})
		return
	}

	category, err := services.UpdateCategory(c.Request.Context(), categoryID, body)
	if err != nil {
		respondError(c, "Failed to update category", err)
		return
	}

	c.JSON(http.StatusOK, category)
}

// DeleteCategory accepts a stored category id or a song-cat-<name> tag id.
// Either way the songs in it end up "Uncategorized".
func DeleteCategory(c *gin.Context) {
	raw := c.Param("category_id")

	var err error
	if name, isTag := strings.CutPrefix(raw, services.TagIDPrefix); isTag {
		err = services.DeleteCategoryTag(c.Request.Context(), name)
	} else {
		categoryID, convErr := strconv.Atoi(raw)
		if convErr != nil || categoryID <= 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid category ID"})
			return
		}
		err = services.DeleteCategory(c.Request.Context(), categoryID)
	}

	if err != nil {
		respondError(c, "Failed to delete category", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Category deleted successfully"})
}
