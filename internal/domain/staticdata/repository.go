package staticdata

import "context"

// Repository persists game reference data. Tables are populated once and
// only when empty.
type Repository interface {
	IsEmpty(ctx context.Context, table string) (bool, error)
	InsertCharacters(ctx context.Context, rows []Character) error
	InsertEquipment(ctx context.Context, rows []Equipment) error
	InsertTraits(ctx context.Context, rows []Trait) error
}
