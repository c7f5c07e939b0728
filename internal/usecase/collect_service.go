package usecase

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"time"

	"github.com/ksj1368/er-crawler/internal/domain/match"
	"github.com/ksj1368/er-crawler/internal/platform/logging"
)

// CollectConfig shapes one full collection run.
type CollectConfig struct {
	SeasonID       int
	MatchingMode   int
	TopRankerLimit int
	// LogDir receives the failed-match-id side file.
	LogDir string
}

// CollectSummary reports what one run did.
type CollectSummary struct {
	Users      int
	Discovered int
	New        int
	Pipeline   PipelineResult
	Elapsed    time.Duration
}

// CollectService orchestrates a full crawl: reference-data sync, top-ranker
// listing, match-id discovery, batched fetch, and parallel ingestion.
// Partial failures are reported in the summary, never abort the run.
type CollectService struct {
	ranking    RankingProvider
	discovery  *DiscoveryService
	fetcher    *FetchService
	pipeline   *PipelineService
	staticSync *StaticSyncService
	matchRepo  match.Repository
	cfg        CollectConfig
	logger     *logging.Logger
	now        func() time.Time
}

func NewCollectService(
	ranking RankingProvider,
	discovery *DiscoveryService,
	fetcher *FetchService,
	pipeline *PipelineService,
	staticSync *StaticSyncService,
	matchRepo match.Repository,
	cfg CollectConfig,
	logger *logging.Logger,
) *CollectService {
	if logger == nil {
		logger = logging.Default()
	}
	return &CollectService{
		ranking:    ranking,
		discovery:  discovery,
		fetcher:    fetcher,
		pipeline:   pipeline,
		staticSync: staticSync,
		matchRepo:  matchRepo,
		cfg:        cfg,
		logger:     logger,
		now:        time.Now,
	}
}

func (s *CollectService) Collect(ctx context.Context) (CollectSummary, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.CollectService.Collect")
	defer span.End()

	if s.ranking == nil || s.discovery == nil || s.fetcher == nil || s.pipeline == nil || s.matchRepo == nil {
		return CollectSummary{}, fmt.Errorf("%w: collect service is not fully configured", ErrDependencyUnavailable)
	}

	start := s.now()

	if s.staticSync != nil {
		if err := s.staticSync.Sync(ctx); err != nil {
			s.logger.WarnContext(ctx, "static data sync failed, continuing run", "error", err)
		}
	}

	rankers, err := s.ranking.TopRankers(ctx, s.cfg.SeasonID, s.cfg.MatchingMode)
	if err != nil {
		return CollectSummary{}, fmt.Errorf("fetch top rankers season=%d mode=%d: %w", s.cfg.SeasonID, s.cfg.MatchingMode, err)
	}
	if s.cfg.TopRankerLimit > 0 && len(rankers) > s.cfg.TopRankerLimit {
		rankers = rankers[:s.cfg.TopRankerLimit]
	}
	users := make([]int64, 0, len(rankers))
	for _, r := range rankers {
		users = append(users, r.UserNum)
	}
	s.logger.InfoContext(ctx, "starting collection run", "users", len(users))

	discovered, err := s.discovery.DiscoverMatchIDs(ctx, users)
	if err != nil {
		return CollectSummary{}, err
	}
	s.logger.InfoContext(ctx, "match ids discovered", "count", len(discovered))

	newIDs, err := s.dropExistingIDs(ctx, discovered)
	if err != nil {
		return CollectSummary{}, err
	}
	s.logger.InfoContext(ctx, "dropped matches already in store", "remaining", len(newIDs))

	payloads, err := s.fetcher.FetchAll(ctx, newIDs)
	if err != nil {
		return CollectSummary{}, err
	}
	s.logger.InfoContext(ctx, "match payloads fetched", "count", len(payloads))

	pipelineResult, err := s.pipeline.Run(ctx, newIDs, payloads)
	if err != nil {
		return CollectSummary{}, err
	}

	// The side file carries every id that did not make it into the store,
	// the skipped discards as well as the failures.
	unsaved := make([]int64, 0, len(pipelineResult.FailedIDs)+len(pipelineResult.SkippedIDs))
	unsaved = append(unsaved, pipelineResult.FailedIDs...)
	unsaved = append(unsaved, pipelineResult.SkippedIDs...)
	sort.Slice(unsaved, func(i, j int) bool { return unsaved[i] < unsaved[j] })
	if len(unsaved) > 0 {
		path, err := s.writeFailureFile(start, unsaved)
		if err != nil {
			s.logger.ErrorContext(ctx, "writing unsaved match id file failed", "error", err)
		} else {
			s.logger.WarnContext(ctx, "some matches were not saved",
				"count", len(unsaved), "path", path)
		}
	}

	summary := CollectSummary{
		Users:      len(users),
		Discovered: len(discovered),
		New:        len(newIDs),
		Pipeline:   pipelineResult,
		Elapsed:    s.now().Sub(start),
	}
	s.logger.InfoContext(ctx, "collection run finished",
		"elapsed", summary.Elapsed,
		"saved", pipelineResult.Saved,
		"skipped", pipelineResult.Skipped,
		"failed", pipelineResult.Failed,
		"total", pipelineResult.Total)

	return summary, nil
}

func (s *CollectService) dropExistingIDs(ctx context.Context, ids []int64) ([]int64, error) {
	existing, err := s.matchRepo.ListExistingIDs(ctx)
	if err != nil {
		return nil, fmt.Errorf("list existing match ids: %w", err)
	}

	known := make(map[int64]struct{}, len(existing))
	for _, id := range existing {
		known[id] = struct{}{}
	}

	out := make([]int64, 0, len(ids))
	for _, id := range ids {
		if _, ok := known[id]; ok {
			continue
		}
		out = append(out, id)
	}
	return out, nil
}

// writeFailureFile records failed match ids next to the run logs, stamped
// with the run start time so reruns never clobber each other.
func (s *CollectService) writeFailureFile(runStart time.Time, ids []int64) (string, error) {
	if err := os.MkdirAll(s.cfg.LogDir, 0o755); err != nil {
		return "", fmt.Errorf("create log dir: %w", err)
	}

	path := filepath.Join(s.cfg.LogDir, fmt.Sprintf("failed_match_ids_%s.txt", runStart.Format("2006-01-02_15-04-05")))
	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("create failure file: %w", err)
	}
	defer f.Close()

	for _, id := range ids {
		if _, err := f.WriteString(strconv.FormatInt(id, 10) + "\n"); err != nil {
			return "", fmt.Errorf("write failure file: %w", err)
		}
	}
	if err := f.Sync(); err != nil {
		return "", fmt.Errorf("sync failure file: %w", err)
	}

	return path, nil
}
