package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"

	"labvault/internal/config"
	"labvault/internal/repository/postgres"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

func main() {
	// Parse command-line flags
	dropTables := flag.Bool("drop-tables", false, "Drop all tables before seeding (fresh start)")
	schemaOnly := flag.Bool("schema-only", false, "Only set up schema, don't seed fixtures")
	fixturesPath := flag.String("fixtures", "cmd/seed/fixtures.yaml", "Path to the YAML fixtures file")
	flag.Parse()

	// Load .env file
	_ = godotenv.Load()

	cfg := config.Load()

	// SAFETY: Prevent destructive operations in production
	if cfg.Environment == "prod" && *dropTables {
		log.Fatalf("BLOCKED: cannot run --drop-tables in production environment")
	}

	log.Printf("Seeding database (environment: %s, prefix: %s)", cfg.Environment, cfg.TablePrefix)

	ctx := context.Background()
	pool, err := postgres.CreateConnectionPool(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer pool.Close()

	tables := postgres.NewTableNames(cfg.TablePrefix)

	if *dropTables {
		log.Println("Dropping all tables...")
		if err := dropAllTables(ctx, pool, tables); err != nil {
			log.Fatalf("Failed to drop tables: %v", err)
		}
		log.Println("Tables dropped")
	}

	log.Println("Ensuring database schema is up to date...")
	if err := runSchema(ctx, pool, tables, cfg.TablePrefix); err != nil {
		log.Fatalf("Failed to run schema: %v", err)
	}
	log.Println("Schema ready")

	if *schemaOnly {
		log.Println("Schema setup complete (schema-only mode)")
		return
	}

	fixtures, err := loadFixtures(*fixturesPath)
	if err != nil {
		log.Fatalf("Failed to load fixtures: %v", err)
	}

	log.Printf("Seeding %d schools from %s...", len(fixtures.Schools), *fixturesPath)
	for _, school := range fixtures.Schools {
		if err := seedSchool(ctx, pool, tables, school); err != nil {
			log.Fatalf("Failed to seed school %q: %v", school.Name, err)
		}
	}

	log.Println("Seeding complete")
}

// fixtureFile is the top-level YAML document: a list of schools, each with a
// folder tree and documents addressed by folder path.
type fixtureFile struct {
	Schools []schoolFixture `yaml:"schools"`
}

type schoolFixture struct {
	Name      string            `yaml:"name"`
	Folders   []folderFixture   `yaml:"folders"`
	Documents []documentFixture `yaml:"documents"`
}

type folderFixture struct {
	Path string `yaml:"path"` // slash-separated, parents listed before children
}

type documentFixture struct {
	Name      string `yaml:"name"`
	Folder    string `yaml:"folder"` // empty = school root
	SizeBytes int64  `yaml:"size_bytes"`
	MimeType  string `yaml:"mime_type"`
	URL       string `yaml:"url"`
}

func loadFixtures(path string) (*fixtureFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var f fixtureFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return &f, nil
}

// seedSchool inserts one school's folder tree and documents. Folder fixtures
// must list parents before children; folderIDs maps path to the created row.
func seedSchool(ctx context.Context, pool *pgxpool.Pool, tables *postgres.TableNames, school schoolFixture) error {
	schoolID := uuid.NewString()
	userID := uuid.NewString()
	log.Printf("  School %q -> %s", school.Name, schoolID)

	folderIDs := make(map[string]string, len(school.Folders))
	for _, f := range school.Folders {
		var parentID *string
		if idx := lastSlash(f.Path); idx >= 0 {
			parent, ok := folderIDs[f.Path[:idx]]
			if !ok {
				return fmt.Errorf("folder %q references unseeded parent %q", f.Path, f.Path[:idx])
			}
			parentID = &parent
		}
		name := f.Path[lastSlash(f.Path)+1:]

		var id string
		query := `
			INSERT INTO ` + tables.Folders + ` (school_id, parent_id, name, created_by)
			VALUES ($1, $2, $3, $4)
			RETURNING id
		`
		if err := pool.QueryRow(ctx, query, schoolID, parentID, name, userID).Scan(&id); err != nil {
			return fmt.Errorf("insert folder %q: %w", f.Path, err)
		}
		folderIDs[f.Path] = id
		log.Printf("    folder %s", f.Path)
	}

	for _, d := range school.Documents {
		var folderID *string
		if d.Folder != "" {
			id, ok := folderIDs[d.Folder]
			if !ok {
				return fmt.Errorf("document %q references unknown folder %q", d.Name, d.Folder)
			}
			folderID = &id
		}

		query := `
			INSERT INTO ` + tables.Documents + ` (school_id, folder_id, name, size_bytes, mime_type, url, public_id, uploaded_by)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		`
		publicID := uuid.NewString()
		_, err := pool.Exec(ctx, query, schoolID, folderID, d.Name, d.SizeBytes, d.MimeType, d.URL, publicID, userID)
		if err != nil {
			return fmt.Errorf("insert document %q: %w", d.Name, err)
		}
		log.Printf("    document %s (%d bytes)", d.Name, d.SizeBytes)
	}

	return nil
}

func lastSlash(path string) int {
	for i := len(path) - 1; i >= 0; i-- {
		if path[i] == '/' {
			return i
		}
	}
	return -1
}

// runSchema creates tables if they don't exist. Folder and document names are
// deliberately not unique per level; sibling duplicates are allowed.
func runSchema(ctx context.Context, pool *pgxpool.Pool, tables *postgres.TableNames, tablePrefix string) error {
	createFolders := `
		CREATE TABLE IF NOT EXISTS ` + tables.Folders + ` (
			id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
			school_id UUID NOT NULL,
			parent_id UUID REFERENCES ` + tables.Folders + `(id),
			name TEXT NOT NULL,
			created_by UUID NOT NULL,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			deleted_at TIMESTAMPTZ
		)
	`
	if _, err := pool.Exec(ctx, createFolders); err != nil {
		return err
	}

	createDocuments := `
		CREATE TABLE IF NOT EXISTS ` + tables.Documents + ` (
			id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
			school_id UUID NOT NULL,
			folder_id UUID REFERENCES ` + tables.Folders + `(id),
			name TEXT NOT NULL,
			size_bytes BIGINT NOT NULL DEFAULT 0,
			mime_type TEXT NOT NULL DEFAULT '',
			url TEXT NOT NULL DEFAULT '',
			public_id TEXT NOT NULL DEFAULT '',
			uploaded_by UUID NOT NULL,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			deleted_at TIMESTAMPTZ
		)
	`
	if _, err := pool.Exec(ctx, createDocuments); err != nil {
		return err
	}

	indexes := []string{
		`CREATE INDEX IF NOT EXISTS idx_` + tablePrefix + `folders_school_parent ON ` + tables.Folders + `(school_id, parent_id) WHERE deleted_at IS NULL`,
		`CREATE INDEX IF NOT EXISTS idx_` + tablePrefix + `documents_school_folder ON ` + tables.Documents + `(school_id, folder_id) WHERE deleted_at IS NULL`,
	}
	for _, indexSQL := range indexes {
		if _, err := pool.Exec(ctx, indexSQL); err != nil {
			return err
		}
	}

	return nil
}

// dropAllTables drops all tables in reverse order (to respect foreign keys)
func dropAllTables(ctx context.Context, pool *pgxpool.Pool, tables *postgres.TableNames) error {
	tableNames := []string{
		tables.Documents,
		tables.Folders,
	}

	for _, table := range tableNames {
		dropSQL := "DROP TABLE IF EXISTS " + table + " CASCADE"
		if _, err := pool.Exec(ctx, dropSQL); err != nil {
			return err
		}
		log.Printf("  dropped %s", table)
	}

	return nil
}
