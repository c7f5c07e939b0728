package usecase

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"sync"
	"testing"
)

type stubUserMatchProvider struct {
	mu    sync.Mutex
	pages map[string]ExternalUserMatchPage
	errs  map[int64]error
	calls []string
}

func (s *stubUserMatchProvider) UserMatchPage(_ context.Context, userNum, next int64) (ExternalUserMatchPage, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.errs[userNum]; err != nil {
		return ExternalUserMatchPage{}, err
	}
	key := fmt.Sprintf("%d/%d", userNum, next)
	s.calls = append(s.calls, key)
	return s.pages[key], nil
}

func historyGame(gameID int64, versionMajor, matchingMode int) ExternalUserGame {
	return ExternalUserGame{GameID: gameID, VersionMajor: versionMajor, MatchingMode: matchingMode}
}

func TestDiscoverMatchIDs_WalksPagesToVersionFloor(t *testing.T) {
	t.Parallel()

	provider := &stubUserMatchProvider{pages: map[string]ExternalUserMatchPage{
		"1/0": {
			UserGames: []ExternalUserGame{
				historyGame(105, 45, 3),
				historyGame(104, 45, 2),
			},
			Next: 900,
		},
		"1/900": {
			UserGames: []ExternalUserGame{
				historyGame(103, 45, 3),
				historyGame(101, 44, 3),
				historyGame(100, 45, 3),
			},
			Next: 800,
		},
	}}

	svc := NewDiscoveryService(provider, DiscoveryConfig{VersionFloor: 45, MatchingMode: 3}, nil)
	ids, err := svc.DiscoverMatchIDs(context.Background(), []int64{1})
	if err != nil {
		t.Fatalf("DiscoverMatchIDs error: %v", err)
	}

	// 104 is the wrong queue, the walk stops at 101 before reaching 100.
	if want := []int64{103, 105}; !reflect.DeepEqual(ids, want) {
		t.Fatalf("unexpected ids: want=%v got=%v", want, ids)
	}
	for _, call := range provider.calls {
		if call == "1/800" {
			t.Fatal("walk should stop at the version floor, page 800 was fetched")
		}
	}
}

func TestDiscoverMatchIDs_StopsOnExhaustedHistory(t *testing.T) {
	t.Parallel()

	provider := &stubUserMatchProvider{pages: map[string]ExternalUserMatchPage{
		"7/0": {
			UserGames: []ExternalUserGame{historyGame(50, 45, 3)},
			Next:      300,
		},
		// Empty page with a stale pagination token ends the walk.
		"7/300": {Next: 200},
	}}

	svc := NewDiscoveryService(provider, DiscoveryConfig{VersionFloor: 45, MatchingMode: 3}, nil)
	ids, err := svc.DiscoverMatchIDs(context.Background(), []int64{7})
	if err != nil {
		t.Fatalf("DiscoverMatchIDs error: %v", err)
	}
	if want := []int64{50}; !reflect.DeepEqual(ids, want) {
		t.Fatalf("unexpected ids: want=%v got=%v", want, ids)
	}
}

func TestDiscoverMatchIDs_DeduplicatesAcrossUsers(t *testing.T) {
	t.Parallel()

	provider := &stubUserMatchProvider{pages: map[string]ExternalUserMatchPage{
		"1/0": {UserGames: []ExternalUserGame{historyGame(10, 45, 3), historyGame(9, 45, 3)}},
		"2/0": {UserGames: []ExternalUserGame{historyGame(10, 45, 3), historyGame(8, 45, 3)}},
	}}

	svc := NewDiscoveryService(provider, DiscoveryConfig{VersionFloor: 45, MatchingMode: 3}, nil)
	ids, err := svc.DiscoverMatchIDs(context.Background(), []int64{1, 2})
	if err != nil {
		t.Fatalf("DiscoverMatchIDs error: %v", err)
	}
	if want := []int64{8, 9, 10}; !reflect.DeepEqual(ids, want) {
		t.Fatalf("unexpected ids: want=%v got=%v", want, ids)
	}
}

func TestDiscoverMatchIDs_FailingUserKeepsPartialResult(t *testing.T) {
	t.Parallel()

	provider := &stubUserMatchProvider{
		pages: map[string]ExternalUserMatchPage{
			"1/0": {UserGames: []ExternalUserGame{historyGame(11, 45, 3)}},
		},
		errs: map[int64]error{2: errors.New("upstream down")},
	}

	svc := NewDiscoveryService(provider, DiscoveryConfig{VersionFloor: 45, MatchingMode: 3}, nil)
	ids, err := svc.DiscoverMatchIDs(context.Background(), []int64{1, 2})
	if err != nil {
		t.Fatalf("DiscoverMatchIDs error: %v", err)
	}
	if want := []int64{11}; !reflect.DeepEqual(ids, want) {
		t.Fatalf("unexpected ids: want=%v got=%v", want, ids)
	}
}

func TestDiscoverMatchIDs_NoUsers(t *testing.T) {
	t.Parallel()

	svc := NewDiscoveryService(&stubUserMatchProvider{}, DiscoveryConfig{VersionFloor: 45, MatchingMode: 3}, nil)
	ids, err := svc.DiscoverMatchIDs(context.Background(), nil)
	if err != nil {
		t.Fatalf("DiscoverMatchIDs error: %v", err)
	}
	if ids != nil {
		t.Fatalf("expected nil ids, got=%v", ids)
	}
}

func TestDiscoverMatchIDs_NilProvider(t *testing.T) {
	t.Parallel()

	svc := NewDiscoveryService(nil, DiscoveryConfig{VersionFloor: 45, MatchingMode: 3}, nil)
	if _, err := svc.DiscoverMatchIDs(context.Background(), []int64{1}); !errors.Is(err, ErrDependencyUnavailable) {
		t.Fatalf("expected ErrDependencyUnavailable, got=%v", err)
	}
}
