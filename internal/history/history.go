package history

import "github.com/starford/papercheck/internal/models"

// Store defines the run history operations.
// Consumers should depend on this interface rather than the concrete *DB type.
type Store interface {
	Record(run models.Run) error
	Get(id string) (*models.Run, error)
	List(limit, offset int, path string) ([]models.Run, int, error)
	LatestChecksums() (map[string]string, error)
	Prune(keep int) (int64, error)
	Close() error
}

// Verify *DB satisfies Store at compile time.
var _ Store = (*DB)(nil)
