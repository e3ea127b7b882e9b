package testhelpers

import (
	"context"
	"testing"

	"restaurant-pos/config"
	"restaurant-pos/store"
)

// SetupTestStore opens a fresh in-memory SQLite database, migrates it and
// optionally loads the seed menu and tables
func SetupTestStore(t testing.TB, seed bool) *store.GormStore {
	t.Helper()

	db, err := config.OpenDB(config.Config{DBDriver: "sqlite", DBDSN: ":memory:"}, nil)
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})

	if err := store.Migrate(db); err != nil {
		t.Fatalf("Failed to migrate test database: %v", err)
	}

	repo := store.New(db)
	if seed {
		if err := repo.Seed(context.Background()); err != nil {
			t.Fatalf("Failed to seed test database: %v", err)
		}
	}
	return repo
}
