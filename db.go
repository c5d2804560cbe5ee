package main

import (
	"github.com/rs/zerolog/log"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"akunfin/models"
)

var db *gorm.DB

func initDB() {
	var err error
	db, err = gorm.Open(postgres.Open(cfg.DatabaseDSN), &gorm.Config{})
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect postgres database")
	}
	if !cfg.DatabaseMigrate {
		return
	}
	// Migrate models individually so a failure on one doesn't block others.
	if err := db.AutoMigrate(&models.User{}); err != nil {
		log.Warn().Err(err).Msg("migration warning (users)")
	}
	if err := db.AutoMigrate(&models.RefreshToken{}); err != nil {
		log.Warn().Err(err).Msg("migration warning (refresh_tokens)")
	}
	if err := db.AutoMigrate(&models.Account{}); err != nil {
		log.Warn().Err(err).Msg("migration warning (accounts)")
	}
	if err := db.AutoMigrate(&models.Transaction{}); err != nil {
		log.Warn().Err(err).Msg("migration warning (transactions)")
	}
}
