package main

import (
	"context"
	"database/sql"
	"flag"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/easyml-code/ocr-data-insertion/internal/domain/procurement"
	"github.com/easyml-code/ocr-data-insertion/internal/infrastructure/config"
	"github.com/easyml-code/ocr-data-insertion/internal/infrastructure/logger"
	"github.com/easyml-code/ocr-data-insertion/internal/infrastructure/migration"
	"github.com/easyml-code/ocr-data-insertion/internal/infrastructure/persistence"
	"github.com/easyml-code/ocr-data-insertion/migrations"
	"github.com/google/uuid"
	_ "github.com/lib/pq"
	"go.uber.org/zap"
)

func main() {
	var (
		migrationsPath string
		logLevel       string
	)

	flag.StringVar(&migrationsPath, "path", "", "Path to migrations directory (default: embedded migrations)")
	flag.StringVar(&logLevel, "log-level", "info", "Log level (debug, info, warn, error)")
	flag.Parse()

	args := flag.Args()
	if len(args) == 0 {
		printUsage()
		os.Exit(1)
	}
	command := args[0]

	log, err := logger.New(&logger.Config{
		Level:      logLevel,
		Format:     "console",
		Output:     "stdout",
		TimeFormat: "2006-01-02 15:04:05",
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer func() {
		_ = log.Sync()
	}()

	if migrationsPath != "" {
		if migrationsPath, err = filepath.Abs(migrationsPath); err != nil {
			log.Fatal("Failed to get absolute path", zap.Error(err))
		}
	}

	// Commands that only touch files
	switch command {
	case "create":
		if migrationsPath == "" {
			log.Fatal("create needs -path pointing at the migrations directory")
		}
		if len(args) < 2 {
			log.Fatal("Migration name required. Usage: migrate -path migrations create <name> [description]")
		}
		description := ""
		if len(args) > 2 {
			description = args[2]
		}
		mf, err := migration.CreateMigration(migrationsPath, args[1], description)
		if err != nil {
			log.Fatal("Failed to create migration", zap.Error(err))
		}
		log.Info("Migration created",
			zap.String("version", mf.Version),
			zap.String("up_file", mf.UpPath),
			zap.String("down_file", mf.DownPath),
		)
		return

	case "list":
		var source fs.FS = migrations.FS
		if migrationsPath != "" {
			source = os.DirFS(migrationsPath)
		}
		stems, err := migration.ListMigrations(source)
		if err != nil {
			log.Fatal("Failed to list migrations", zap.Error(err))
		}
		for _, s := range stems {
			fmt.Println("  -", s)
		}
		return
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load configuration", zap.Error(err))
	}

	if command == "seed" {
		seed(log, cfg, args[1:])
		return
	}

	db, err := sql.Open("postgres", cfg.Database.DSN())
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	if err := db.Ping(); err != nil {
		log.Fatal("Failed to ping database", zap.Error(err))
	}

	var m *migration.Migrator
	if migrationsPath != "" {
		m, err = migration.New(db, migrationsPath, log)
	} else {
		m, err = migration.NewFromFS(db, migrations.FS, log)
	}
	if err != nil {
		log.Fatal("Failed to create migrator", zap.Error(err))
	}
	defer m.Close()

	switch command {
	case "up":
		if err := m.Up(); err != nil {
			log.Fatal("Migration up failed", zap.Error(err))
		}

	case "down":
		if err := m.Down(); err != nil {
			log.Fatal("Migration down failed", zap.Error(err))
		}

	case "step":
		if len(args) < 2 {
			log.Fatal("Step count required. Usage: migrate step <n>")
		}
		n, err := strconv.Atoi(args[1])
		if err != nil {
			log.Fatal("Invalid step count", zap.String("value", args[1]))
		}
		if err := m.Steps(n); err != nil {
			log.Fatal("Migration step failed", zap.Error(err))
		}

	case "version":
		version, dirty, err := m.Version()
		if err != nil {
			log.Fatal("Failed to get version", zap.Error(err))
		}
		log.Info("Current migration version", zap.Uint("version", version), zap.Bool("dirty", dirty))

	case "force":
		if len(args) < 2 {
			log.Fatal("Version required. Usage: migrate force <version>")
		}
		version, err := strconv.Atoi(args[1])
		if err != nil {
			log.Fatal("Invalid version number", zap.String("value", args[1]))
		}
		if err := m.Force(version); err != nil {
			log.Fatal("Force version failed", zap.Error(err))
		}

	default:
		log.Error("Unknown command", zap.String("command", command))
		printUsage()
		os.Exit(1)
	}
}

// seed inserts or renames master-data rows: seed <kind> <display name>...
func seed(log *zap.Logger, cfg *config.Config, args []string) {
	if len(args) < 2 {
		log.Fatal("Usage: migrate seed <supplier|item|legal_entity|site|po> <display name>...")
	}
	kind := procurement.ReferenceKind(args[0])
	if !kind.Valid() {
		log.Fatal("Unknown reference kind", zap.String("kind", args[0]))
	}

	database, err := persistence.NewDatabase(&cfg.Database)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer database.Close()

	repo := persistence.NewGormReferenceRepository(database.DB)
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	for _, name := range args[1:] {
		id, err := repo.Upsert(ctx, kind, uuid.New(), name)
		if err != nil {
			log.Fatal("Failed to seed master data", zap.String("name", name), zap.Error(err))
		}
		log.Info("Master data seeded",
			zap.String("kind", string(kind)),
			zap.String("match_key", procurement.NormalizeIdentifier(name)),
			zap.String("id", id.String()),
		)
	}
}

func printUsage() {
	fmt.Println(`OCR Data Insertion Migration Tool

Usage:
  migrate [flags] <command> [arguments]

Commands:
  up                         Apply all pending migrations
  down                       Roll back all migrations
  step <n>                   Apply n migrations (positive=up, negative=down)
  version                    Show current migration version
  force <version>            Force set migration version (use with caution)
  create <name> [desc]       Create the next numbered migration pair (needs -path)
  list                       List available migrations
  seed <kind> <name>...      Insert master-data rows for the lookup reference mode

Flags:
  -path string               Migrations directory (default: migrations embedded in the binary)
  -log-level string          Log level: debug, info, warn, error (default: info)

Environment Variables:
  OCR_DATABASE_HOST, OCR_DATABASE_PORT, OCR_DATABASE_USER, OCR_DATABASE_PASSWORD, OCR_DATABASE_DBNAME

Examples:
  migrate up
  migrate step -1
  migrate -path migrations create add_invoice_hash "Store payload hash on GRN header"
  migrate seed supplier "ACME Fasteners Pvt Ltd"`)
}
