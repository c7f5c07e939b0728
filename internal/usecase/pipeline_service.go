package usecase

import (
	"context"
	"fmt"
	"runtime"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"github.com/panjf2000/ants/v2"

	"github.com/ksj1368/er-crawler/internal/domain/match"
	"github.com/ksj1368/er-crawler/internal/platform/logging"
)

const (
	matchStatusSaved   = "saved"
	matchStatusSkipped = "skipped"
	matchStatusFailed  = "failed"
)

// minParticipants is the data-quality floor; smaller payloads are
// discarded as incomplete.
const minParticipants = 21

// ingestMaxAttempts bounds the whole save sequence per match. The second
// attempt runs only after a transient failure.
const ingestMaxAttempts = 2

// PipelineConfig shapes the parallel ingestion run.
type PipelineConfig struct {
	// BatchSize is how many matches one worker task processes.
	BatchSize int
	// Workers is the ants pool size; zero means one per CPU.
	Workers int
	// RetryDelay is the wait before the single retry of a transiently
	// failed match.
	RetryDelay time.Duration
}

// PipelineResult summarizes one ingestion run. SkippedIDs and FailedIDs
// together are the matches that did not make it into the store.
type PipelineResult struct {
	Total      int
	Saved      int
	Skipped    int
	Failed     int
	SkippedIDs []int64
	FailedIDs  []int64
}

// PipelineService ingests matches: dedup against the store, normalize,
// persist. Batches run on a worker pool; matches inside a batch run
// sequentially.
type PipelineService struct {
	repo     match.Repository
	provider MatchProvider
	cfg      PipelineConfig
	logger   *logging.Logger
}

func NewPipelineService(repo match.Repository, provider MatchProvider, cfg PipelineConfig, logger *logging.Logger) *PipelineService {
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = 50
	}
	if cfg.Workers <= 0 {
		cfg.Workers = runtime.NumCPU()
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &PipelineService{repo: repo, provider: provider, cfg: cfg, logger: logger}
}

// Run processes every match id. Prefetched payloads are used when present;
// missing ones are fetched again one by one. Per-match failures never stop
// the run.
func (s *PipelineService) Run(ctx context.Context, matchIDs []int64, prefetched map[int64]*ExternalMatchPayload) (PipelineResult, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.PipelineService.Run")
	defer span.End()

	if s.repo == nil {
		return PipelineResult{}, fmt.Errorf("%w: match repository is not configured", ErrDependencyUnavailable)
	}

	result := PipelineResult{Total: len(matchIDs)}
	if len(matchIDs) == 0 {
		return result, nil
	}

	batches := chunkIDs(matchIDs, s.cfg.BatchSize)
	failed := make(chan int64, len(matchIDs))
	skipped := make(chan int64, len(matchIDs))

	var savedCount atomic.Int64
	var skippedCount atomic.Int64
	var failedCount atomic.Int64

	workerCount := s.cfg.Workers
	if workerCount > len(batches) {
		workerCount = len(batches)
	}

	workerPool, err := ants.NewPool(workerCount)
	if err != nil {
		return PipelineResult{}, fmt.Errorf("create worker pool: %w", err)
	}
	defer workerPool.Release()

	var workers sync.WaitGroup
	for _, batch := range batches {
		batch := batch
		workers.Add(1)
		if err := workerPool.Submit(func() {
			defer workers.Done()

			for _, id := range batch {
				status := s.processMatch(ctx, id, prefetched[id])
				switch status {
				case matchStatusSaved:
					savedCount.Add(1)
				case matchStatusSkipped:
					skippedCount.Add(1)
					skipped <- id
				default:
					failedCount.Add(1)
					failed <- id
				}
			}
		}); err != nil {
			workers.Done()
			return PipelineResult{}, fmt.Errorf("submit batch to worker pool: %w", err)
		}
	}

	workers.Wait()
	close(failed)
	close(skipped)

	for id := range failed {
		result.FailedIDs = append(result.FailedIDs, id)
	}
	sort.Slice(result.FailedIDs, func(i, j int) bool { return result.FailedIDs[i] < result.FailedIDs[j] })

	for id := range skipped {
		result.SkippedIDs = append(result.SkippedIDs, id)
	}
	sort.Slice(result.SkippedIDs, func(i, j int) bool { return result.SkippedIDs[i] < result.SkippedIDs[j] })

	result.Saved = int(savedCount.Load())
	result.Skipped = int(skippedCount.Load())
	result.Failed = int(failedCount.Load())
	return result, nil
}

// processMatch runs the save sequence for one match with a bounded retry.
// Only transient outcomes (fetch or persistence errors) get the second
// attempt; malformed or undersized payloads are terminal.
func (s *PipelineService) processMatch(ctx context.Context, matchID int64, payload *ExternalMatchPayload) string {
	for attempt := 1; attempt <= ingestMaxAttempts; attempt++ {
		status, transient := s.processOnce(ctx, matchID, payload)
		if status != matchStatusFailed || !transient || attempt == ingestMaxAttempts {
			return status
		}

		s.logger.WarnContext(ctx, "retrying match after transient failure",
			"match_id", matchID, "attempt", attempt, "delay", s.cfg.RetryDelay)
		select {
		case <-ctx.Done():
			return matchStatusFailed
		case <-time.After(s.cfg.RetryDelay):
		}
	}

	return matchStatusFailed
}

func (s *PipelineService) processOnce(ctx context.Context, matchID int64, payload *ExternalMatchPayload) (status string, transient bool) {
	exists, err := s.repo.Exists(ctx, matchID)
	if err != nil {
		s.logger.ErrorContext(ctx, "existence check failed", "match_id", matchID, "error", err)
		return matchStatusFailed, true
	}
	if exists {
		// The work this match represents is already done, count it saved.
		s.logger.DebugContext(ctx, "match already stored", "match_id", matchID)
		return matchStatusSaved, false
	}

	if payload == nil {
		if s.provider == nil {
			s.logger.ErrorContext(ctx, "no payload and no match provider", "match_id", matchID)
			return matchStatusFailed, false
		}
		payload, err = s.provider.MatchByID(ctx, matchID)
		if err != nil {
			s.logger.WarnContext(ctx, "match refetch failed", "match_id", matchID, "error", err)
			return matchStatusFailed, true
		}
	}

	if len(payload.UserGames) < minParticipants {
		s.logger.InfoContext(ctx, "discarding undersized match",
			"match_id", matchID, "participants", len(payload.UserGames))
		return matchStatusSkipped, false
	}

	rs, err := Normalize(*payload)
	if err != nil {
		s.logger.ErrorContext(ctx, "match normalization failed", "match_id", matchID, "error", err)
		return matchStatusFailed, false
	}

	if err := s.repo.SaveRecordSet(ctx, rs); err != nil {
		s.logger.ErrorContext(ctx, "match persist failed", "match_id", matchID, "error", err)
		return matchStatusFailed, true
	}

	s.logger.InfoContext(ctx, "match saved", "match_id", matchID)
	return matchStatusSaved, false
}

func chunkIDs(ids []int64, size int) [][]int64 {
	if size <= 0 {
		return [][]int64{ids}
	}

	out := make([][]int64, 0, (len(ids)+size-1)/size)
	for start := 0; start < len(ids); start += size {
		end := start + size
		if end > len(ids) {
			end = len(ids)
		}
		out = append(out, ids[start:end])
	}
	return out
}
