package main

import (
	"fmt"
	"log"
	"os"

	"github.com/numcore/solver/internal/catalog"
	"github.com/numcore/solver/internal/runlog"
)

// #region main
func main() {
	dbPath := envOr("SOLVER_DB", "problems.db")

	fmt.Println("=== Catalog Bootstrap Tool ===")
	fmt.Printf("  DB: %s\n", dbPath)

	store, err := catalog.NewStore(dbPath)
	if err != nil {
		log.Fatalf("failed to open store: %v", err)
	}
	defer store.Close()

	if err := runlog.EnsureSchema(store.DB()); err != nil {
		log.Fatalf("failed to init run log: %v", err)
	}

	added, err := store.Seed()
	if err != nil {
		log.Fatalf("seed catalog: %v", err)
	}

	problems, err := store.List()
	if err != nil {
		log.Fatalf("list catalog: %v", err)
	}

	fmt.Printf("Seeded %d new problems (%d total):\n", added, len(problems))
	for _, p := range problems {
		fmt.Printf("  %-22s %s on [%g, %g]\n", p.Name, p.Expression, p.A, p.B)
	}
}
// #endregion main

// #region helpers
func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
// #endregion helpers
