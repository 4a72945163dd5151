package main

import (
	"context"
	"fmt"
	"os"
	"strconv"

	lite "ranch-pregcheck/internal/adapters/storage/sqlite"
	"ranch-pregcheck/internal/domain/seasons"

	"github.com/joho/godotenv"
)

// Herramienta de administración: fija la temporada de servicio actual
// directamente sobre la base, sin levantar el server.
//
//	set-season 2026
func main() {
	_ = godotenv.Load()

	if len(os.Args) != 2 {
		fmt.Fprintln(os.Stderr, "usage: set-season <year>")
		os.Exit(2)
	}

	year, err := strconv.Atoi(os.Args[1])
	if err != nil {
		fmt.Fprintf(os.Stderr, "invalid year %q\n", os.Args[1])
		os.Exit(2)
	}

	dbPath := os.Getenv("DB_PATH")
	if dbPath == "" {
		dbPath = "pregcheck.sqlite3"
	}

	db, err := lite.Open(dbPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "open database: %v\n", err)
		os.Exit(1)
	}
	defer db.Close()

	svc := seasons.NewService(lite.NewSeasonsRepo(db))
	if err := svc.Set(context.Background(), year); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	fmt.Printf("current breeding season set to %d\n", year)
}
