package main

import (
	"fmt"
	"os"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"akunfin/pkg/storage"
)

var (
	cfg       *Config
	jwtSecret []byte
	store     *storage.Store
)

func main() {
	c, err := LoadConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("invalid configuration")
	}
	cfg = c
	jwtSecret = []byte(cfg.JWTSecret)
	store = storage.New(cfg.UploadBase, jwtSecret)

	// Support a lightweight migrate command: `./akunfin migrate`
	// It runs AutoMigrate and exits. Useful for CI or manual DB setup.
	if len(os.Args) > 1 && os.Args[1] == "migrate" {
		initDB()
		log.Info().Msg("migration completed")
		return
	}

	initDB()
	if err := store.EnsureBase(); err != nil {
		log.Fatal().Err(err).Str("dir", cfg.UploadBase).Msg("failed to create upload base dir")
	}

	r := gin.Default()
	setupRoutes(r)

	log.Info().Int("port", cfg.Port).Msg("listening")
	if err := r.Run(fmt.Sprintf(":%d", cfg.Port)); err != nil {
		log.Fatal().Err(err).Msg("server stopped")
	}
}
