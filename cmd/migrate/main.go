package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sort"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/samirrijal/gridsquare/internal/pkg/config"
)

func main() {
	if len(os.Args) < 2 {
		log.Fatal("usage: migrate <up|status> [dir]")
	}
	dir := "migrations"
	if len(os.Args) > 2 {
		dir = os.Args[2]
	}

	files, err := migrationFiles(dir)
	if err != nil {
		log.Fatalf("list migrations: %v", err)
	}

	if os.Args[1] == "status" {
		for _, f := range files {
			fmt.Println(f)
		}
		return
	}
	if os.Args[1] != "up" {
		log.Fatalf("unknown command: %s", os.Args[1])
	}

	cfg, err := config.Load("gridsquare-migrate")
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	ctx := context.Background()
	pool, err := pgxpool.New(ctx, cfg.Database.DSN())
	if err != nil {
		log.Fatalf("db: %v", err)
	}
	defer pool.Close()

	runMigrations(ctx, pool, files)
}

// migrationFiles returns the .sql files in dir in name order. Every
// migration is idempotent, so all of them run on each "up".
func migrationFiles(dir string) ([]string, error) {
	files, err := filepath.Glob(filepath.Join(dir, "*.sql"))
	if err != nil {
		return nil, err
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("no migrations in %s", dir)
	}
	sort.Strings(files)
	return files, nil
}

func runMigrations(ctx context.Context, pool *pgxpool.Pool, files []string) {
	for _, f := range files {
		data, err := os.ReadFile(f)
		if err != nil {
			log.Fatalf("read %s: %v", f, err)
		}

		if _, err := pool.Exec(ctx, string(data)); err != nil {
			log.Fatalf("exec %s: %v", f, err)
		}

		fmt.Printf("OK  %s\n", f)
	}

	log.Println("all migrations applied")
}
