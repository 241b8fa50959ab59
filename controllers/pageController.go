package controllers

import (
	"net/http"

	"github.com/PraiseNight/models"
	"github.com/PraiseNight/services"
	"github.com/gin-gonic/gin"
)

// GetPages returns every praise night with songs, comments and history.
func GetPages(c *gin.Context) {
	pages, err := services.GetAllPages(c.Request.Context())
	if err != nil {
		respondError(c, "Failed to fetch praise nights", err)
		return
	}

	c.JSON(http.StatusOK, pages)
}

func GetPage(c *gin.Context) {
	pageID, ok := paramID(c, "page_id", "page")
	if !ok {
		return
	}

	page, err := services.GetPage(c.Request.Context(), pageID)
	if err != nil {
		respondError(c, "Failed to fetch praise night", err)
		return
	}

	c.JSON(http.StatusOK, page)
}

func CreatePage(c *gin.Context) {
	var body models.PraiseNightCreate
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Praise night name is required", "details": err.Error()})
		return
	}

	page, err := services.CreatePage(c.Request.Context(), body)
	if err != nil {
		respondError(c, "Failed to create praise night", err)
		return
	}

	c.JSON(http.StatusCreated, page)
}

// UpdatePage changes only the fields present in the body.
func UpdatePage(c *gin.Context) {
	pageID, ok := paramID(c, "page_id", "page")
	if !ok {
		return
	}

	var body models.PraiseNightUpdate
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body", "details": err.Error()})
		return
	}

	page, err := services.UpdatePage(c.Request.Context(), pageID, body)
	if err != nil {
		respondError(c, "Failed to update praise night", err)
		return
	}

	c.JSON(http.StatusOK, page)
}

func DeletePage(c *gin.Context) {
	pageID, ok := paramID(c, "page_id", "page")
	if !ok {
		return
	}

	if err := services.DeletePage(c.Request.Context(), pageID); err != nil {
		respondError(c, "Failed to delete praise night", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Praise night deleted successfully"})
}

// GetPageCategoryStats returns heard/unheard counts per category of a page.
func GetPageCategoryStats(c *gin.Context) {
	pageID, ok := paramID(c, "page_id", "page")
	if !ok {
		return
	}

	stats, empty, err := services.GetPageCategoryStats(c.Request.Context(), pageID)
	if err != nil {
		respondError(c, "Failed to fetch category counts", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"categories": stats, "empty": empty})
}
