package main

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"overshoot-detection-service/internal/adapters/csvsource"
	"overshoot-detection-service/internal/adapters/repositories"
	"overshoot-detection-service/internal/config"
	"overshoot-detection-service/internal/platform/db"
	"overshoot-detection-service/internal/platform/source"
	"time"

	"github.com/joho/godotenv"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found (using environment variables)")
	}

	cfg, err := config.FromEnv()
	if err != nil {
		log.Fatal(err)
	}

	settings, err := source.SettingsFromEnv(cfg.HistogramBins)
	if err != nil {
		log.Fatal(err)
	}
	if settings.Kind == source.KindCSV {
		log.Fatal("DATA_SOURCE must be sqlite or postgres to seed a database")
	}
	if settings.DSN == "" {
		log.Fatal("DATABASE_URL (postgres) or DB_PATH (sqlite) is required")
	}

	dialect, err := repositories.ParseDialect(settings.Kind)
	if err != nil {
		log.Fatal(err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
	defer cancel()

	driver := "sqlite"
	if dialect == repositories.Postgres {
		driver = "pgx"
	}
	conn, err := db.OpenDriver(ctx, driver, settings.DSN)
	if err != nil {
		log.Fatal(err)
	}
	defer conn.Close()

	if err := initAndSeed(ctx, conn, dialect, settings); err != nil {
		log.Fatal(err)
	}
}

func initAndSeed(ctx context.Context, conn *sql.DB, dialect repositories.Dialect, s source.Settings) error {
	log.Printf("Initializing database schema dialect=%s", dialect)
	if err := repositories.InitSchema(ctx, conn, dialect); err != nil {
		return fmt.Errorf("schema initialization failed: %w", err)
	}
	log.Println("Schema ready.")

	sites, err := csvsource.NewFileSiteRepository(s.SitesPath, s.CSV).ListSites(ctx)
	if err != nil {
		return fmt.Errorf("seeding failed: %w", err)
	}
	histograms, err := csvsource.NewFileHistogramRepository(s.TimingPath, s.Bins, s.CSV).ListHistograms(ctx)
	if err != nil {
		return fmt.Errorf("seeding failed: %w", err)
	}

	log.Printf("Seeding database sites=%d histograms=%d", len(sites), len(histograms))
	if err := repositories.SeedSites(ctx, conn, dialect, sites); err != nil {
		return fmt.Errorf("seeding failed: %w", err)
	}
	if err := repositories.SeedHistograms(ctx, conn, dialect, histograms); err != nil {
		return fmt.Errorf("seeding failed: %w", err)
	}
	log.Println("Seeding complete.")

	return nil
}
