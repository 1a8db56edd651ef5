// README: HTTP router registration.
package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"voxguide/internal/http/handlers"
	"voxguide/internal/http/middleware"
	"voxguide/internal/service"
	"voxguide/internal/voice"
)

func NewRouter(controller *service.Controller, audio *voice.Generator, audioDir string) http.Handler {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(middleware.Logging(), middleware.Recovery())

	voiceHandler := handlers.NewVoiceHandler(controller, audio)
	r.POST("/voice", voiceHandler.Start)
	r.POST("/voice/process", voiceHandler.Process)
	r.POST("/voice/follow_up", voiceHandler.FollowUp)

	audioHandler := handlers.NewAudioHandler(audioDir, audio)
	r.GET("/audio/:filename", audioHandler.Serve)

	r.GET("/health", func(c *gin.Context) {
		c.String(http.StatusOK, "OK")
	})

	return r
}
