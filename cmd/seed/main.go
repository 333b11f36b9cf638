// Команда seed заполняет базу демонстрационными данными: реквизиты компании,
// участки, слайды карусели и (по флагу) логотип.
package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/Amrita-Dey3792/matrichaya-properties/internal/catalog"
	"github.com/Amrita-Dey3792/matrichaya-properties/internal/config"
	"github.com/Amrita-Dey3792/matrichaya-properties/internal/database"
	"github.com/Amrita-Dey3792/matrichaya-properties/internal/logging"
	"github.com/Amrita-Dey3792/matrichaya-properties/internal/media"
	"github.com/Amrita-Dey3792/matrichaya-properties/internal/seed"
	"github.com/Amrita-Dey3792/matrichaya-properties/internal/slots"

	"github.com/rs/zerolog/log"
	"github.com/spf13/pflag"
)

func main() {
	logoPath := pflag.String("logo", "", "path to a logo image to upload and activate")
	logoName := pflag.String("logo-name", "", "display name for the logo")
	withAdmin := pflag.Bool("admin", true, "create the default admin user if none exists")
	pflag.Parse()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, "config:", err)
		os.Exit(1)
	}
	logging.Setup(cfg.LogLevel, cfg.Env)

	db, err := database.Open(cfg.DBDriver, cfg.DBDSN)
	if err != nil {
		log.Fatal().Err(err).Msg("database init failed")
	}
	if *withAdmin {
		if err := database.EnsureDefaultAdmin(db, cfg.AdminUsername, cfg.AdminPassword); err != nil {
			log.Fatal().Err(err).Msg("default admin")
		}
	}

	store, err := media.NewLocalStore(cfg.MediaRoot, cfg.MediaURL)
	if err != nil {
		log.Fatal().Err(err).Msg("media store")
	}

	seeder, err := seed.New(catalog.NewStore(db), slots.NewRegistry(db, store))
	if err != nil {
		log.Fatal().Err(err).Msg("load fixtures")
	}

	ctx := context.Background()
	rep, err := seeder.All(ctx)
	if err != nil {
		log.Fatal().Err(err).Msg("seed failed")
	}
	log.Info().Bool("company", rep.Company).Int("listings", rep.Listings).Int("slides", rep.Slides).Msg("seeded " + rep.String())

	if *logoPath != "" {
		data, err := os.ReadFile(*logoPath)
		if err != nil {
			log.Fatal().Err(err).Str("path", *logoPath).Msg("read logo")
		}
		asset, err := seeder.Logo(ctx, *logoName, filepath.Base(*logoPath), data)
		if err != nil {
			log.Fatal().Err(err).Msg("upload logo")
		}
		log.Info().Uint("id", asset.ID).Str("path", asset.Path).Msg("logo uploaded and activated")
	}
}
