package usecase

import (
	"context"
	"fmt"

	"github.com/ksj1368/er-crawler/internal/domain/staticdata"
	"github.com/ksj1368/er-crawler/internal/platform/logging"
)

// StaticSyncService populates the game reference tables. Each table is
// written only when it is empty; reference data changes between patches,
// not between runs.
type StaticSyncService struct {
	provider StaticDataProvider
	repo     staticdata.Repository
	logger   *logging.Logger
}

func NewStaticSyncService(provider StaticDataProvider, repo staticdata.Repository, logger *logging.Logger) *StaticSyncService {
	if logger == nil {
		logger = logging.Default()
	}
	return &StaticSyncService{provider: provider, repo: repo, logger: logger}
}

func (s *StaticSyncService) Sync(ctx context.Context) error {
	ctx, span := startUsecaseSpan(ctx, "usecase.StaticSyncService.Sync")
	defer span.End()

	if s.provider == nil || s.repo == nil {
		return fmt.Errorf("%w: static data sync is not fully configured", ErrDependencyUnavailable)
	}

	if err := s.syncCharacters(ctx); err != nil {
		return err
	}
	if err := s.syncEquipment(ctx); err != nil {
		return err
	}
	return s.syncTraits(ctx)
}

func (s *StaticSyncService) syncCharacters(ctx context.Context) error {
	empty, err := s.repo.IsEmpty(ctx, staticdata.TableCharacter)
	if err != nil {
		return fmt.Errorf("check %s: %w", staticdata.TableCharacter, err)
	}
	if !empty {
		s.logger.InfoContext(ctx, "skipping character sync, table is not empty")
		return nil
	}

	characters, levelUps, err := s.provider.Characters(ctx)
	if err != nil {
		return fmt.Errorf("fetch character data: %w", err)
	}

	rows := NormalizeCharacters(characters, levelUps)
	if err := s.repo.InsertCharacters(ctx, rows); err != nil {
		return fmt.Errorf("insert characters: %w", err)
	}
	s.logger.InfoContext(ctx, "character reference data inserted", "count", len(rows))
	return nil
}

func (s *StaticSyncService) syncEquipment(ctx context.Context) error {
	empty, err := s.repo.IsEmpty(ctx, staticdata.TableEquipment)
	if err != nil {
		return fmt.Errorf("check %s: %w", staticdata.TableEquipment, err)
	}
	if !empty {
		s.logger.InfoContext(ctx, "skipping equipment sync, table is not empty")
		return nil
	}

	armor, weapon, err := s.provider.EquipmentItems(ctx)
	if err != nil {
		return fmt.Errorf("fetch equipment data: %w", err)
	}

	rows, err := NormalizeEquipment(armor, weapon)
	if err != nil {
		return err
	}
	if err := s.repo.InsertEquipment(ctx, rows); err != nil {
		return fmt.Errorf("insert equipment: %w", err)
	}
	s.logger.InfoContext(ctx, "equipment reference data inserted", "count", len(rows))
	return nil
}

func (s *StaticSyncService) syncTraits(ctx context.Context) error {
	empty, err := s.repo.IsEmpty(ctx, staticdata.TableTrait)
	if err != nil {
		return fmt.Errorf("check %s: %w", staticdata.TableTrait, err)
	}
	if !empty {
		s.logger.InfoContext(ctx, "skipping trait sync, table is not empty")
		return nil
	}

	traits, err := s.provider.Traits(ctx)
	if err != nil {
		return fmt.Errorf("fetch trait data: %w", err)
	}
	l10nText, err := s.provider.L10nText(ctx)
	if err != nil {
		return fmt.Errorf("fetch localization text: %w", err)
	}

	rows, err := NormalizeTraits(traits, ParseL10nText(l10nText))
	if err != nil {
		return err
	}
	if err := s.repo.InsertTraits(ctx, rows); err != nil {
		return fmt.Errorf("insert traits: %w", err)
	}
	s.logger.InfoContext(ctx, "trait reference data inserted", "count", len(rows))
	return nil
}
