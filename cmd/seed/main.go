package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"

	"tenderly/internal/config"
	"tenderly/internal/repository/postgres"
	"tenderly/internal/seed"
)

func main() {
	// Parse command-line flags
	dropTables := flag.Bool("drop-tables", false, "Drop all tables before seeding (fresh start)")
	schemaOnly := flag.Bool("schema-only", false, "Only run migrations, don't load the fixture")
	flag.Parse()

	_ = godotenv.Load()
	cfg := config.Load()

	if cfg.DatabaseURL == "" {
		log.Fatalf("DATABASE_URL is required; the in-memory store is seeded by the server at startup")
	}

	// SAFETY: Prevent destructive operations in production
	if cfg.Environment == "prod" && *dropTables {
		log.Fatalf("🚫 BLOCKED: Cannot run --drop-tables in production environment")
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	tables := postgres.DefaultTableNames()

	if *dropTables {
		log.Println("🗑️  Dropping all tables...")
		if err := dropAllTables(ctx, cfg.DatabaseURL, tables); err != nil {
			log.Fatalf("Failed to drop tables: %v", err)
		}
		log.Println("✅ Tables dropped")
	}

	log.Println("📋 Running migrations...")
	if err := postgres.Migrate(ctx, cfg.DatabaseURL); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}
	log.Println("✅ Schema ready")

	if *schemaOnly {
		return
	}

	pool, err := postgres.CreateConnectionPool(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer pool.Close()

	repoConfig := &postgres.RepositoryConfig{
		Pool:   pool,
		Tables: tables,
		Logger: logger,
	}

	fixture, err := seed.Load()
	if err != nil {
		log.Fatalf("Failed to load fixture: %v", err)
	}

	log.Printf("🌱 Seeding database (environment: %s, demo: %t)", cfg.Environment, cfg.SeedDemoData)
	stores := seed.Stores{
		Tenders:      postgres.NewTenderRepository(repoConfig),
		Company:      postgres.NewCompanyRepository(repoConfig),
		Attestations: postgres.NewAttestationRepository(repoConfig),
	}
	if err := seed.Apply(ctx, fixture, stores, cfg.SeedDemoData, logger); err != nil {
		log.Fatalf("Failed to seed: %v", err)
	}

	log.Println("🎉 Seeding complete!")
}

// dropAllTables drops the application tables (children first) and the goose
// version table so the next run migrates from scratch
func dropAllTables(ctx context.Context, databaseURL string, tables *postgres.TableNames) error {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return err
	}
	defer pool.Close()

	for _, table := range []string{
		tables.Attestations,
		tables.Versions,
		tables.Proposals,
		tables.Company,
		tables.Tenders,
		"goose_db_version",
	} {
		if _, err := pool.Exec(ctx, "DROP TABLE IF EXISTS "+table+" CASCADE"); err != nil {
			return fmt.Errorf("drop %s: %w", table, err)
		}
		log.Printf("  ✓ Dropped %s", table)
	}

	return nil
}
