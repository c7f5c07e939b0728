package usecase

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

type stubRankingProvider struct {
	rankers []ExternalRankedUser
	err     error
}

func (s *stubRankingProvider) TopRankers(context.Context, int, int) ([]ExternalRankedUser, error) {
	return s.rankers, s.err
}

func newCollectFixture(t *testing.T, ranking RankingProvider, history *stubUserMatchProvider, matches *stubMatchProvider, repo *stubMatchRepo) *CollectService {
	t.Helper()

	discovery := NewDiscoveryService(history, DiscoveryConfig{VersionFloor: 45, MatchingMode: 3}, nil)
	fetcher := NewFetchService(matches, FetchConfig{BatchSize: 10}, nil)
	pipeline := NewPipelineService(repo, matches, PipelineConfig{BatchSize: 10, Workers: 1}, nil)

	return NewCollectService(ranking, discovery, fetcher, pipeline, nil, repo, CollectConfig{
		SeasonID:       31,
		MatchingMode:   3,
		TopRankerLimit: 10,
		LogDir:         t.TempDir(),
	}, nil)
}

func TestCollect_FullRun(t *testing.T) {
	t.Parallel()

	ranking := &stubRankingProvider{rankers: []ExternalRankedUser{
		{UserNum: 1, Rank: 1},
		{UserNum: 2, Rank: 2},
	}}
	history := &stubUserMatchProvider{pages: map[string]ExternalUserMatchPage{
		"1/0": {UserGames: []ExternalUserGame{historyGame(901, 45, 3), historyGame(900, 45, 3)}},
		"2/0": {UserGames: []ExternalUserGame{historyGame(901, 45, 3)}},
	}}
	matches := &stubMatchProvider{payloads: map[int64]*ExternalMatchPayload{
		901: fullPayload(901),
	}}
	// 900 is already stored, only 901 should flow through the pipeline.
	repo := &stubMatchRepo{existing: map[int64]bool{900: true}}

	svc := newCollectFixture(t, ranking, history, matches, repo)
	summary, err := svc.Collect(context.Background())
	if err != nil {
		t.Fatalf("Collect error: %v", err)
	}

	if summary.Users != 2 {
		t.Fatalf("unexpected user count: %d", summary.Users)
	}
	if summary.Discovered != 2 || summary.New != 1 {
		t.Fatalf("unexpected discovery counts: %+v", summary)
	}
	if summary.Pipeline.Saved != 1 || summary.Pipeline.Failed != 0 {
		t.Fatalf("unexpected pipeline result: %+v", summary.Pipeline)
	}
	if len(repo.saved) != 1 || repo.saved[0] != 901 {
		t.Fatalf("unexpected saved matches: %v", repo.saved)
	}
}

func TestCollect_AppliesTopRankerLimit(t *testing.T) {
	t.Parallel()

	rankers := make([]ExternalRankedUser, 0, 20)
	for i := 0; i < 20; i++ {
		rankers = append(rankers, ExternalRankedUser{UserNum: int64(i + 1), Rank: i + 1})
	}

	history := &stubUserMatchProvider{pages: map[string]ExternalUserMatchPage{}}
	svc := newCollectFixture(t, &stubRankingProvider{rankers: rankers}, history, &stubMatchProvider{}, &stubMatchRepo{})

	summary, err := svc.Collect(context.Background())
	if err != nil {
		t.Fatalf("Collect error: %v", err)
	}
	if summary.Users != 10 {
		t.Fatalf("expected ranker list capped at 10, got=%d", summary.Users)
	}
}

func TestCollect_RankingFailureAborts(t *testing.T) {
	t.Parallel()

	ranking := &stubRankingProvider{err: errors.New("upstream down")}
	svc := newCollectFixture(t, ranking, &stubUserMatchProvider{}, &stubMatchProvider{}, &stubMatchRepo{})

	if _, err := svc.Collect(context.Background()); err == nil {
		t.Fatal("expected error when the ranking fetch fails")
	}
}

func TestCollect_WritesFailureFile(t *testing.T) {
	t.Parallel()

	ranking := &stubRankingProvider{rankers: []ExternalRankedUser{{UserNum: 1, Rank: 1}}}
	history := &stubUserMatchProvider{pages: map[string]ExternalUserMatchPage{
		"1/0": {UserGames: []ExternalUserGame{historyGame(950, 45, 3), historyGame(949, 45, 3)}},
	}}
	repo := &stubMatchRepo{saveErr: map[int64]error{950: errors.New("persist failed")}}
	// 949 is an undersized discard, 950 a persist failure; both belong in
	// the side file.
	matches := &stubMatchProvider{payloads: map[int64]*ExternalMatchPayload{
		949: {UserGames: []ExternalUserGame{validGame(949, 1, 1, 1)}},
		950: fullPayload(950),
	}}

	logDir := t.TempDir()
	discovery := NewDiscoveryService(history, DiscoveryConfig{VersionFloor: 45, MatchingMode: 3}, nil)
	fetcher := NewFetchService(matches, FetchConfig{BatchSize: 10}, nil)
	pipeline := NewPipelineService(repo, matches, PipelineConfig{BatchSize: 10, Workers: 1}, nil)
	svc := NewCollectService(ranking, discovery, fetcher, pipeline, nil, repo, CollectConfig{
		SeasonID:     31,
		MatchingMode: 3,
		LogDir:       logDir,
	}, nil)

	summary, err := svc.Collect(context.Background())
	if err != nil {
		t.Fatalf("Collect error: %v", err)
	}
	if summary.Pipeline.Failed != 1 || summary.Pipeline.Skipped != 1 {
		t.Fatalf("unexpected pipeline result: %+v", summary.Pipeline)
	}

	entries, err := os.ReadDir(logDir)
	if err != nil {
		t.Fatalf("read log dir: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("expected one failure file, got=%d", len(entries))
	}
	if !strings.HasPrefix(entries[0].Name(), "failed_match_ids_") {
		t.Fatalf("unexpected failure file name: %s", entries[0].Name())
	}

	content, err := os.ReadFile(filepath.Join(logDir, entries[0].Name()))
	if err != nil {
		t.Fatalf("read failure file: %v", err)
	}
	if strings.TrimSpace(string(content)) != "949\n950" {
		t.Fatalf("unexpected failure file content: %q", content)
	}
}

func TestCollect_NotConfigured(t *testing.T) {
	t.Parallel()

	svc := NewCollectService(nil, nil, nil, nil, nil, nil, CollectConfig{}, nil)
	if _, err := svc.Collect(context.Background()); !errors.Is(err, ErrDependencyUnavailable) {
		t.Fatalf("expected ErrDependencyUnavailable, got=%v", err)
	}
}
