package utils

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/nikhilupadhyay26/voiceaipractice/internal/apperr"
)

// Success writes v as a 200 JSON body.
func Success(c *gin.Context, v any) {
	c.JSON(http.StatusOK, v)
}

// Error writes {error, detail?, path?} with the status carried by err.
func Error(c *gin.Context, err error) {
	e := apperr.From(err)
	body := gin.H{"error": string(e.Kind)}
	if e.Detail != "" {
		body["detail"] = e.Detail
	}
	if e.Path != "" {
		body["path"] = e.Path
	}
	status := e.Status
	if status == 0 {
		status = http.StatusInternalServerError
	}
	c.AbortWithStatusJSON(status, body)
}
