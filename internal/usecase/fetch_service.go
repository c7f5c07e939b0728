package usecase

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/sourcegraph/conc/pool"

	"github.com/ksj1368/er-crawler/internal/platform/logging"
)

// FetchConfig shapes the batched match download.
type FetchConfig struct {
	// BatchSize is how many matches one batch requests concurrently.
	BatchSize int
	// BatchPause is the wait between batches, to stay inside the
	// upstream rate limit.
	BatchPause time.Duration
}

// FetchService downloads full match payloads in fixed-size concurrent
// batches.
type FetchService struct {
	provider MatchProvider
	cfg      FetchConfig
	logger   *logging.Logger
}

func NewFetchService(provider MatchProvider, cfg FetchConfig, logger *logging.Logger) *FetchService {
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = 100
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &FetchService{provider: provider, cfg: cfg, logger: logger}
}

// FetchAll downloads the given matches and returns payloads keyed by match
// id. A failed download is logged and left out of the result; the caller
// decides whether to retry.
func (s *FetchService) FetchAll(ctx context.Context, matchIDs []int64) (map[int64]*ExternalMatchPayload, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.FetchService.FetchAll")
	defer span.End()

	if s.provider == nil {
		return nil, fmt.Errorf("%w: match provider is not configured", ErrDependencyUnavailable)
	}

	out := make(map[int64]*ExternalMatchPayload, len(matchIDs))
	if len(matchIDs) == 0 {
		return out, nil
	}

	var mu sync.Mutex
	for start := 0; start < len(matchIDs); start += s.cfg.BatchSize {
		if err := ctx.Err(); err != nil {
			return out, err
		}

		end := start + s.cfg.BatchSize
		if end > len(matchIDs) {
			end = len(matchIDs)
		}
		batch := matchIDs[start:end]

		p := pool.New().WithMaxGoroutines(len(batch))
		for _, id := range batch {
			id := id
			p.Go(func() {
				payload, err := s.provider.MatchByID(ctx, id)
				if err != nil {
					s.logger.WarnContext(ctx, "match fetch failed", "match_id", id, "error", err)
					return
				}

				mu.Lock()
				out[id] = payload
				mu.Unlock()
			})
		}
		p.Wait()

		if end < len(matchIDs) && s.cfg.BatchPause > 0 {
			select {
			case <-ctx.Done():
				return out, ctx.Err()
			case <-time.After(s.cfg.BatchPause):
			}
		}
	}

	return out, nil
}
