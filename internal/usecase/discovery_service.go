package usecase

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/sourcegraph/conc/pool"

	"github.com/ksj1368/er-crawler/internal/platform/logging"
)

// DiscoveryConfig bounds a match-id discovery run.
type DiscoveryConfig struct {
	// VersionFloor is the major version a run collects; history below it
	// stops the walk for that player.
	VersionFloor int
	// MatchingMode filters the history to one queue.
	MatchingMode int
	// MaxConcurrent caps players walked at the same time.
	MaxConcurrent int
}

// DiscoveryService walks player match histories and collects the ids of
// matches on the configured version and queue.
type DiscoveryService struct {
	provider UserMatchProvider
	cfg      DiscoveryConfig
	logger   *logging.Logger
}

func NewDiscoveryService(provider UserMatchProvider, cfg DiscoveryConfig, logger *logging.Logger) *DiscoveryService {
	if cfg.MaxConcurrent <= 0 {
		cfg.MaxConcurrent = 8
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &DiscoveryService{provider: provider, cfg: cfg, logger: logger}
}

// DiscoverMatchIDs walks each player's history concurrently and returns the
// deduplicated, sorted set of collected match ids. A failing player is
// logged and skipped; the partial result stands.
func (s *DiscoveryService) DiscoverMatchIDs(ctx context.Context, users []int64) ([]int64, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.DiscoveryService.DiscoverMatchIDs")
	defer span.End()

	if s.provider == nil {
		return nil, fmt.Errorf("%w: match history provider is not configured", ErrDependencyUnavailable)
	}
	if len(users) == 0 {
		return nil, nil
	}

	var mu sync.Mutex
	seen := make(map[int64]struct{})

	p := pool.New().WithMaxGoroutines(s.cfg.MaxConcurrent)
	for _, user := range users {
		user := user
		p.Go(func() {
			ids, err := s.collectUserMatchIDs(ctx, user)
			if err != nil {
				s.logger.WarnContext(ctx, "match id discovery failed for user", "user_num", user, "error", err)
				return
			}

			mu.Lock()
			for _, id := range ids {
				seen[id] = struct{}{}
			}
			mu.Unlock()
		})
	}
	p.Wait()

	out := make([]int64, 0, len(seen))
	for id := range seen {
		out = append(out, id)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })

	return out, nil
}

// collectUserMatchIDs pages through one player's history newest-first. It
// stops at the end of the history or at the first entry below the version
// floor.
func (s *DiscoveryService) collectUserMatchIDs(ctx context.Context, userNum int64) ([]int64, error) {
	var ids []int64
	var next int64

	for {
		if err := ctx.Err(); err != nil {
			return ids, err
		}

		page, err := s.provider.UserMatchPage(ctx, userNum, next)
		if err != nil {
			return ids, fmt.Errorf("fetch match page user=%d next=%d: %w", userNum, next, err)
		}

		for i := range page.UserGames {
			game := &page.UserGames[i]
			if game.VersionMajor < s.cfg.VersionFloor {
				return ids, nil
			}
			if game.VersionMajor == s.cfg.VersionFloor && game.MatchingMode == s.cfg.MatchingMode {
				ids = append(ids, game.GameID)
			}
		}

		if page.Next == 0 || len(page.UserGames) == 0 {
			return ids, nil
		}
		next = page.Next
	}
}
