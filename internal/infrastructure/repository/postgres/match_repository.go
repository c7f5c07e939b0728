package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/ksj1368/er-crawler/internal/domain/match"
	qb "github.com/ksj1368/er-crawler/internal/platform/querybuilder"
)

type MatchRepository struct {
	db *sqlx.DB
}

func NewMatchRepository(db *sqlx.DB) *MatchRepository {
	return &MatchRepository{db: db}
}

func (r *MatchRepository) Exists(ctx context.Context, matchID int64) (bool, error) {
	query, args, err := qb.Select("1").From(match.TableMatchInfo).
		Where(qb.Eq("match_id", matchID)).
		Limit(1).
		ToSQL()
	if err != nil {
		return false, fmt.Errorf("build match exists query: %w", err)
	}

	var one int
	if err := r.db.GetContext(ctx, &one, query, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return false, nil
		}
		return false, fmt.Errorf("check match exists match_id=%d: %w", matchID, err)
	}
	return true, nil
}

func (r *MatchRepository) ListExistingIDs(ctx context.Context) ([]int64, error) {
	query, args, err := qb.Select("match_id").From(match.TableMatchInfo).
		OrderBy("match_id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list match ids query: %w", err)
	}

	var ids []int64
	if err := r.db.SelectContext(ctx, &ids, query, args...); err != nil {
		return nil, fmt.Errorf("select match ids: %w", err)
	}
	return ids, nil
}

// SaveRecordSet writes every row set of one match in a single transaction.
// Inserts carry ON CONFLICT DO NOTHING, so replaying an already stored
// match is a no-op rather than an error.
func (r *MatchRepository) SaveRecordSet(ctx context.Context, rs match.RecordSet) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx save match match_id=%d: %w", rs.MatchID(), err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	query, args, err := qb.InsertModel(match.TableMatchInfo, rs.Info, "ON CONFLICT (match_id) DO NOTHING")
	if err != nil {
		return fmt.Errorf("build insert %s query: %w", match.TableMatchInfo, err)
	}
	if _, err := tx.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("insert %s match_id=%d: %w", match.TableMatchInfo, rs.MatchID(), err)
	}

	if err := insertRows(ctx, tx, match.TableTeamInfo, rs.Teams); err != nil {
		return err
	}
	if err := insertRows(ctx, tx, match.TableUserBasic, rs.Basics); err != nil {
		return err
	}
	if err := insertRows(ctx, tx, match.TableUserEquipment, rs.Equipments); err != nil {
		return err
	}
	if err := insertRows(ctx, tx, match.TableUserStat, rs.Stats); err != nil {
		return err
	}
	if err := insertRows(ctx, tx, match.TableUserDamage, rs.Damages); err != nil {
		return err
	}
	if err := insertRows(ctx, tx, match.TableUserTrait, rs.Traits); err != nil {
		return err
	}
	if err := insertRows(ctx, tx, match.TableUserMMR, rs.MMRs); err != nil {
		return err
	}
	if err := insertRows(ctx, tx, match.TableUserKDADetail, rs.KDADetails); err != nil {
		return err
	}
	if err := insertRows(ctx, tx, match.TableUserSight, rs.Sights); err != nil {
		return err
	}
	if err := insertRows(ctx, tx, match.TableUserObject, rs.Objects); err != nil {
		return err
	}
	if err := insertRows(ctx, tx, match.TableUserGainCredit, rs.GainCredits); err != nil {
		return err
	}
	if err := insertRows(ctx, tx, match.TableUserUseCredit, rs.UseCredits); err != nil {
		return err
	}
	if err := insertRows(ctx, tx, match.TableUserCreditTime, rs.CreditTimes); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit save match tx match_id=%d: %w", rs.MatchID(), err)
	}
	return nil
}

func insertRows[T any](ctx context.Context, tx *sqlx.Tx, table string, rows []T) error {
	if len(rows) == 0 {
		return nil
	}

	query, args, err := qb.InsertModels(table, rows, "ON CONFLICT DO NOTHING")
	if err != nil {
		return fmt.Errorf("build insert %s query: %w", table, err)
	}
	if _, err := tx.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("insert %s rows: %w", table, err)
	}
	return nil
}
