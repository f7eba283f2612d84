package postgresql_test

import (
	"context"
	"fmt"
	"os"

	"github.com/cmlabs-hris/punch-ledger-go/internal/pkg/database"
)

// TestDatabaseSetup wraps the database used by repository tests.
type TestDatabaseSetup struct {
	DB *database.DB
}

// ErrNoTestDatabase is returned when TEST_DATABASE_URL is not set.
var ErrNoTestDatabase = fmt.Errorf("TEST_DATABASE_URL is not set")

// NewTestDatabase connects to TEST_DATABASE_URL.
func NewTestDatabase() (*TestDatabaseSetup, error) {
	dsn := os.Getenv("TEST_DATABASE_URL")
	if dsn == "" {
		return nil, ErrNoTestDatabase
	}

	db, err := database.NewPostgreSQLDB(context.Background(), dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to test database: %w", err)
	}

	return &TestDatabaseSetup{DB: db}, nil
}

// TruncateAllTables removes every row from the catalog tables.
func (t *TestDatabaseSetup) TruncateAllTables(ctx context.Context) error {
	tables := []string{
		"shift_policies",
	}

	for _, table := range tables {
		if _, err := t.DB.Exec(ctx, fmt.Sprintf("TRUNCATE TABLE %s CASCADE", table)); err != nil {
			return err
		}
	}
	return nil
}

func (t *TestDatabaseSetup) Close() {
	t.DB.Close()
}
