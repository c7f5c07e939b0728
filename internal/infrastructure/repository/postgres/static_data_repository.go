package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/ksj1368/er-crawler/internal/domain/staticdata"
	qb "github.com/ksj1368/er-crawler/internal/platform/querybuilder"
)

type StaticDataRepository struct {
	db *sqlx.DB
}

func NewStaticDataRepository(db *sqlx.DB) *StaticDataRepository {
	return &StaticDataRepository{db: db}
}

func (r *StaticDataRepository) IsEmpty(ctx context.Context, table string) (bool, error) {
	query, args, err := qb.Select("1").From(table).Limit(1).ToSQL()
	if err != nil {
		return false, fmt.Errorf("build %s empty check query: %w", table, err)
	}

	var one int
	if err := r.db.GetContext(ctx, &one, query, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return true, nil
		}
		return false, fmt.Errorf("check %s is empty: %w", table, err)
	}
	return false, nil
}

func (r *StaticDataRepository) InsertCharacters(ctx context.Context, rows []staticdata.Character) error {
	return insertReference(ctx, r.db, staticdata.TableCharacter, rows)
}

func (r *StaticDataRepository) InsertEquipment(ctx context.Context, rows []staticdata.Equipment) error {
	return insertReference(ctx, r.db, staticdata.TableEquipment, rows)
}

func (r *StaticDataRepository) InsertTraits(ctx context.Context, rows []staticdata.Trait) error {
	return insertReference(ctx, r.db, staticdata.TableTrait, rows)
}

func insertReference[T any](ctx context.Context, db *sqlx.DB, table string, rows []T) error {
	if len(rows) == 0 {
		return nil
	}

	query, args, err := qb.InsertModels(table, rows, "ON CONFLICT DO NOTHING")
	if err != nil {
		return fmt.Errorf("build insert %s query: %w", table, err)
	}
	if _, err := db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("insert %s rows: %w", table, err)
	}
	return nil
}
