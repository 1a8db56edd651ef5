// README: Base handler utilities (JSON helpers, error mapping).
package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"voxguide/internal/modules/dialogue"
)

type errorResponse struct {
	Error string `json:"error"`
}

// isValidAudioName guards the audio route against path traversal: names
// are generated as audio_<hex>.mp3 and must stay that shape.
func isValidAudioName(v string) bool {
	if !strings.HasSuffix(v, ".mp3") {
		return false
	}
	if strings.ContainsAny(v, "/\\") || strings.Contains(v, "..") {
		return false
	}
	return true
}

func writeJSON(c *gin.Context, status int, v any) {
	c.JSON(status, v)
}

func writeError(c *gin.Context, status int, msg string) {
	writeJSON(c, status, errorResponse{Error: msg})
}

func writeTurnError(c *gin.Context, err error) {
	switch err {
	case dialogue.ErrTooManySessions:
		writeError(c, http.StatusServiceUnavailable, err.Error())
	default:
		writeError(c, http.StatusInternalServerError, "internal error")
	}
}
