package main

import (
	"log"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/joho/godotenv"
	"github.com/retailops/inventory-service/config"
	"github.com/retailops/inventory-service/internal/pkg/postgres"
)

// Applies every .sql file under migrations/ in lexical order. Files are
// written to be re-runnable (IF NOT EXISTS everywhere), so there is no
// version bookkeeping.
func main() {
	_ = godotenv.Load()
	cfg := config.LoadEnv()

	dir := "migrations"
	if len(os.Args) > 1 {
		dir = os.Args[1]
	}

	db, err := postgres.NewPostgres(&postgres.Config{
		Host:            cfg.Postgres.Host,
		Port:            cfg.Postgres.Port,
		User:            cfg.Postgres.User,
		Password:        cfg.Postgres.Password,
		DBName:          cfg.Postgres.DBName,
		SSLMode:         cfg.Postgres.SSLMode,
		MaxOpenConns:    2,
		MaxIdleConns:    1,
		ConnMaxLifetime: time.Minute,
		ConnMaxIdleTime: time.Minute,
	})
	if err != nil {
		log.Fatalf("could not connect to database: %v", err)
	}
	defer db.Close()

	files, err := filepath.Glob(filepath.Join(dir, "*.sql"))
	if err != nil {
		log.Fatalf("could not list migrations: %v", err)
	}
	sort.Strings(files)

	for _, file := range files {
		content, err := os.ReadFile(file)
		if err != nil {
			log.Fatalf("could not read %s: %v", file, err)
		}
		if _, err := db.Exec(string(content)); err != nil {
			log.Fatalf("migration %s failed: %v", file, err)
		}
		log.Printf("applied %s", file)
	}
}
