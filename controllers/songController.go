package controllers

import (
	"net/http"

	"github.com/PraiseNight/models"
	"github.com/PraiseNight/services"
	"github.com/gin-gonic/gin"
)

func GetPageSongs(c *gin.Context) {
	pageID, ok := paramID(c, "page_id", "page")
	if !ok {
		return
	}

	songs, err := services.GetSongsByPage(c.Request.Context(), pageID)
	if err != nil {
		respondError(c, "Failed to fetch songs", err)
		return
	}

	c.JSON(http.StatusOK, songs)
}

func CreateSong(c *gin.Context) {
	pageID, ok := paramID(c, "page_id", "page")
	if !ok {
		return
	}

	var body models.SongCreate
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Song title is required", "details": err.Error()})
		return
	}

	song, err := services.CreateSong(c.Request.Context(), pageID, body)
	if err != nil {
		respondError(c, "Failed to create song", err)
		return
	}

	c.JSON(http.StatusCreated, song)
}

func GetSong(c *gin.Context) {
	songID, ok := paramID(c, "song_id", "song")
	if !ok {
		return
	}

	song, err := services.GetSong(c.Request.Context(), songID)
	if err != nil {
		respondError(c, "Failed to fetch song", err)
		return
	}

	c.JSON(http.StatusOK, song)
}

// UpdateSong saves an editor draft and records what changed in the song's history.
func UpdateSong(c *gin.Context) {
	songID, ok := paramID(c, "song_id", "song")
	if !ok {
		return
	}

	var draft models.SongDraft
	if err := c.ShouldBindJSON(&draft); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body", "details": err.Error()})
		return
	}

	song, err := services.SaveSongEdit(c.Request.Context(), songID, draft)
	if err != nil {
		respondError(c, "Failed to save song", err)
		return
	}

	c.JSON(http.StatusOK, song)
}

func DeleteSong(c *gin.Context) {
	songID, ok := paramID(c, "song_id", "song")
	if !ok {
		return
	}

	if err := services.DeleteSong(c.Request.Context(), songID); err != nil {
		respondError(c, "Failed to delete song", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Song deleted successfully"})
}

func GetSongHistory(c *gin.Context) {
	songID, ok := paramID(c, "song_id", "song")
	if !ok {
		return
	}

	entries, err := services.GetHistoryBySong(c.Request.Context(), songID)
	if err != nil {
		respondError(c, "Failed to fetch song history", err)
		return
	}

	c.JSON(http.StatusOK, entries)
}
