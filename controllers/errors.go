package controllers

import (
	"errors"
	"log"
	"net/http"
	"strconv"

	"github.com/PraiseNight/services"
	"github.com/gin-gonic/gin"
)

// respondError logs err and answers with the status its kind maps to.
func respondError(c *gin.Context, message string, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, services.ErrValidation):
		status = http.StatusBadRequest
	case errors.Is(err, services.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, services.ErrConflict):
		status = http.StatusConflict
	case errors.Is(err, services.ErrStorage):
		status = http.StatusBadGateway
	}

	log.Println(message+":", err)
	c.JSON(status, gin.H{"error": message, "details": err.Error()})
}

// paramID parses a numeric path parameter, answering 400 when it is not one.
func paramID(c *gin.Context, name, label string) (int, bool) {
	id, err := strconv.Atoi(c.Param(name))
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid " + label + " ID"})
		return 0, false
	}
	return id, true
}
