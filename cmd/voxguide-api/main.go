// README: Entry point; loads config, wires collaborators, starts the webhook server.
package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"voxguide/internal/ai"
	"voxguide/internal/config"
	httptransport "voxguide/internal/http"
	"voxguide/internal/infra"
	"voxguide/internal/maps"
	"voxguide/internal/modules/dialogue"
	"voxguide/internal/modules/usage"
	"voxguide/internal/service"
	"voxguide/internal/voice"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	dbPool, err := infra.NewDB(ctx, cfg.DB.DSN)
	if err != nil {
		log.Fatal(err)
	}

	redisClient := infra.NewRedis(cfg.Redis.Addr)

	usageSvc := usage.NewService(usage.NewStore(dbPool))

	sessions := dialogue.NewManager(cfg.Session.MaxSessions, time.Duration(cfg.Session.IdleMinutes)*time.Minute)
	snapshots := dialogue.NewStore(redisClient, time.Duration(cfg.Session.SnapshotTTLMin)*time.Minute)

	if cfg.Maps.APIKey == "" {
		log.Fatal("VOX_MAPS_API_KEY is required")
	}
	placesSvc, err := maps.NewPlacesService(cfg.Maps.APIKey)
	if err != nil {
		log.Fatalf("places init: %v", err)
	}
	geocodeSvc, err := maps.NewGeocodeService(cfg.Maps.APIKey)
	if err != nil {
		log.Fatalf("geocode init: %v", err)
	}

	composer, err := ai.NewGeminiComposer(ctx, cfg.AI.GeminiKey)
	if err != nil {
		log.Fatalf("gemini init: %v", err)
	}
	defer composer.Close()

	synth := voice.NewElevenLabs(cfg.Voice.TTSKey, cfg.Voice.TTSBase)
	audio, err := voice.NewGenerator(synth, cfg.Voice.AudioDir)
	if err != nil {
		log.Fatalf("audio init: %v", err)
	}

	controller := service.NewController(sessions, snapshots, placesSvc, composer, geocodeSvc, usageSvc, cfg.Search.TopK)

	server := &http.Server{
		Addr:    cfg.HTTP.Addr,
		Handler: httptransport.NewRouter(controller, audio, cfg.Voice.AudioDir),
	}

	go sessions.RunSweeper(ctx)
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = server.Shutdown(shutdownCtx)
	}()

	log.Printf("listening on %s", cfg.HTTP.Addr)
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatal(err)
	}
}
