package types

import "fmt"

// RepositoryBackend is the storage engine behind interfaces.Repository
type RepositoryBackend string

const (
	RepositoryBackendSQLite    RepositoryBackend = "sqlite"
	RepositoryBackendMemory    RepositoryBackend = "memory"
	RepositoryBackendPostgres  RepositoryBackend = "postgres"
	RepositoryBackendFirestore RepositoryBackend = "firestore"
)

// AllRepositoryBackends returns all valid repository backends
func AllRepositoryBackends() []RepositoryBackend {
	return []RepositoryBackend{
		RepositoryBackendSQLite,
		RepositoryBackendMemory,
		RepositoryBackendPostgres,
		RepositoryBackendFirestore,
	}
}

// IsValid checks if the repository backend is valid
func (b RepositoryBackend) IsValid() bool {
	switch b {
	case RepositoryBackendSQLite,
		RepositoryBackendMemory,
		RepositoryBackendPostgres,
		RepositoryBackendFirestore:
		return true
	default:
		return false
	}
}

// String returns the string representation of the repository backend
func (b RepositoryBackend) String() string {
	return string(b)
}

// ParseRepositoryBackend parses a string into a RepositoryBackend
func ParseRepositoryBackend(s string) (RepositoryBackend, error) {
	b := RepositoryBackend(s)
	if !b.IsValid() {
		return "", fmt.Errorf("invalid repository backend: %s", s)
	}
	return b, nil
}
