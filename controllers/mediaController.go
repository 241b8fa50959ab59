package controllers

import (
	"net/http"

	"github.com/PraiseNight/services"
	"github.com/gin-gonic/gin"
)

func GetMedia(c *gin.Context) {
	files, err := services.ListMedia(c.Request.Context())
	if err != nil {
		respondError(c, "Failed to fetch media", err)
		return
	}

	c.JSON(http.StatusOK, files)
}

// UploadMedia takes a multipart "file" and an optional "folder" field.
func UploadMedia(c *gin.Context) {
	header, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "File is required", "details": err.Error()})
		return
	}

	if header.Size > services.MaxUploadBytes() {
		c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": "File is too large"})
		return
	}

	file, err := header.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Failed to read file", "details": err.Error()})
		return
	}
	defer file.Close()

	media, err := services.UploadMedia(c.Request.Context(), services.MediaUpload{
		Name:   header.Filename,
		Folder: c.PostForm("folder"),
		Size:   header.Size,
		Body:   file,
	})
	if err != nil {
		respondError(c, "Failed to upload file", err)
		return
	}

	c.JSON(http.StatusCreated, media)
}

func DeleteMedia(c *gin.Context) {
	mediaID, ok := paramID(c, "media_id", "media")
	if !ok {
		return
	}

	if err := services.DeleteMedia(c.Request.Context(), mediaID); err != nil {
		respondError(c, "Failed to delete file", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "File deleted successfully"})
}
