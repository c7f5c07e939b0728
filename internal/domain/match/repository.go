package match

import "context"

// Repository persists normalized match record sets.
type Repository interface {
	// Exists reports whether a match is already stored.
	Exists(ctx context.Context, matchID int64) (bool, error)
	// ListExistingIDs returns every stored match id, used to drop known
	// matches before fetching.
	ListExistingIDs(ctx context.Context) ([]int64, error)
	// SaveRecordSet writes all rows of one match in a single transaction.
	SaveRecordSet(ctx context.Context, rs RecordSet) error
}
