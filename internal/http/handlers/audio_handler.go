// README: Serves generated audio segments once, then deletes them.
package handlers

import (
	"net/http"
	"os"
	"path/filepath"

	"github.com/gin-gonic/gin"

	"voxguide/internal/voice"
)

type AudioHandler struct {
	audioDir string
	audio    *voice.Generator
}

func NewAudioHandler(audioDir string, audio *voice.Generator) *AudioHandler {
	return &AudioHandler{audioDir: audioDir, audio: audio}
}

// Serve streams one generated segment and removes it afterwards; every
// file is fetched exactly once by the telephony provider.
func (h *AudioHandler) Serve(c *gin.Context) {
	name := c.Param("filename")
	if !isValidAudioName(name) {
		writeError(c, http.StatusBadRequest, "invalid audio filename")
		return
	}

	path := filepath.Join(h.audioDir, name)
	if _, err := os.Stat(path); err != nil {
		writeError(c, http.StatusNotFound, "audio not found")
		return
	}

	c.Header("Content-Type", "audio/mpeg")
	c.File(path)
	h.audio.Cleanup(path)
}

func audioFileName(path string) string {
	return filepath.Base(path)
}
