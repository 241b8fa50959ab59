package controllers

import (
	"net/http"

	"github.com/PraiseNight/models"
	"github.com/PraiseNight/services"
	"github.com/gin-gonic/gin"
)

func GetSongComments(c *gin.Context) {
	songID, ok := paramID(c, "song_id", "song")
	if !ok {
		return
	}

	comments, err := services.GetCommentsBySong(c.Request.Context(), songID)
	if err != nil {
		respondError(c, "Failed to fetch comments", err)
		return
	}

	c.JSON(http.StatusOK, comments)
}

func CreateSongComment(c *gin.Context) {
	songID, ok := paramID(c, "song_id", "song")
	if !ok {
		return
	}

	var body models.CommentCreate
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Comment text is required", "details": err.Error()})
		return
	}

	comment, err := services.CreateComment(c.Request.Context(), songID, body)
	if err != nil {
		respondError(c, "Failed to add comment", err)
		return
	}

	c.JSON(http.StatusCreated, comment)
}

func DeleteSongComment(c *gin.Context) {
	songID, ok := paramID(c, "song_id", "song")
	if !ok {
		return
	}
	commentID, ok := paramID(c, "comment_id", "comment")
	if !ok {
		return
	}

	if err := services.DeleteComment(c.Request.Context(), songID, commentID); err != nil {
		respondError(c, "Failed to delete comment", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Comment deleted successfully"})
}
