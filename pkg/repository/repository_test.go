package repository_test

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/m-mizutani/gt"
	"github.com/secmon-lab/mentiondeck/pkg/domain/interfaces"
	"github.com/secmon-lab/mentiondeck/pkg/repository/firestore"
	"github.com/secmon-lab/mentiondeck/pkg/repository/memory"
	"github.com/secmon-lab/mentiondeck/pkg/repository/postgres"
	"github.com/secmon-lab/mentiondeck/pkg/repository/sqlite"
)

type repositoryFactory func(t *testing.T) interfaces.Repository

// backends returns every backend the contract tests run against. Postgres
// and Firestore skip themselves when not configured.
func backends() map[string]repositoryFactory {
	return map[string]repositoryFactory{
		"Memory":    newMemoryRepository,
		"SQLite":    newSQLiteRepository,
		"Postgres":  newPostgresRepository,
		"Firestore": newFirestoreRepository,
	}
}

func newMemoryRepository(t *testing.T) interfaces.Repository {
	return memory.New()
}

func newSQLiteRepository(t *testing.T) interfaces.Repository {
	t.Helper()

	path := filepath.Join(t.TempDir(), "mentiondeck.db")
	repo, err := sqlite.New(context.Background(), path)
	gt.NoError(t, err).Required()

	t.Cleanup(func() {
		if err := repo.Close(); err != nil {
			t.Errorf("failed to close sqlite repository: %v", err)
		}
	})
	return repo
}

func newPostgresRepository(t *testing.T) interfaces.Repository {
	t.Helper()

	dsn := os.Getenv("TEST_POSTGRES_DSN")
	if dsn == "" {
		t.Skip("TEST_POSTGRES_DSN not set")
	}

	repo, err := postgres.New(context.Background(), dsn)
	gt.NoError(t, err).Required()

	t.Cleanup(func() {
		if err := repo.Close(); err != nil {
			t.Errorf("failed to close postgres repository: %v", err)
		}
	})
	return repo
}

func newFirestoreRepository(t *testing.T) interfaces.Repository {
	t.Helper()

	projectID := os.Getenv("TEST_FIRESTORE_PROJECT_ID")
	if projectID == "" {
		t.Skip("TEST_FIRESTORE_PROJECT_ID not set")
	}
	databaseID := os.Getenv("TEST_FIRESTORE_DATABASE_ID")

	prefix := fmt.Sprintf("test_%d", time.Now().UnixNano())
	repo, err := firestore.New(context.Background(), projectID, databaseID, firestore.WithCollectionPrefix(prefix))
	gt.NoError(t, err).Required()

	t.Cleanup(func() {
		if err := repo.Close(); err != nil {
			t.Errorf("failed to close firestore repository: %v", err)
		}
	})
	return repo
}

// uniqueID returns an ID that does not collide across test runs sharing a
// persistent backend.
func uniqueID(prefix string) string {
	return prefix + uuid.NewString()[:8]
}

// uniqueTS returns a message ts base; appending ".000100" style suffixes
// keeps lexical order within one test.
func uniqueTS() string {
	return fmt.Sprintf("%d", time.Now().UnixNano())
}
