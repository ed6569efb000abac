// Package memory is a map-backed storage backend. It exists for tests and
// local hacking; the Postgres backend in internal/store is what the server
// runs on.
package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/juliantomlin/card-game-midterm/internal/game"
)

type Store struct {
	mu      sync.Mutex
	seq     int
	matches map[string]game.Match
	cards   map[string][]game.MatchCard
	users   map[string]game.User
	catalog []game.CatalogCard
}

func New() *Store {
	return &Store{
		matches: map[string]game.Match{},
		cards:   map[string][]game.MatchCard{},
		users:   map[string]game.User{},
	}
}

// SeedCatalog replaces the card catalog; call it before any match is dealt.
func (s *Store) SeedCatalog(cards []game.CatalogCard) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.catalog = append([]game.CatalogCard(nil), cards...)
}

func (s *Store) Ping(ctx context.Context) error { return nil }

func (s *Store) CreateMatch(ctx context.Context, player1 string, phase game.Phase) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.seq++
	id := fmt.Sprintf("m_%06d", s.seq)
	s.matches[id] = game.Match{
		ID:           id,
		Player1:      player1,
		Phase:        phase,
		LastMoveTime: time.Now().UTC(),
	}
	return id, nil
}

func (s *Store) GetMatch(ctx context.Context, id string) (game.Match, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	m, ok := s.matches[id]
	if !ok {
		return game.Match{}, game.ErrNotFound
	}
	return m, nil
}

func (s *Store) SetPlayer2(ctx context.Context, id, player2 string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	m, ok := s.matches[id]
	if !ok {
		return game.ErrNotFound
	}
	if m.Player2 != "" {
		return game.ErrMatchFull
	}
	m.Player2 = player2
	m.LastMoveTime = time.Now().UTC()
	s.matches[id] = m
	return nil
}

func (s *Store) UpdateMatch(ctx context.Context, id string, upd game.MatchUpdate) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	m, ok := s.matches[id]
	if !ok {
		return game.ErrNotFound
	}
	m.Phase = upd.Phase
	m.Player1Points = upd.Player1Points
	m.Player2Points = upd.Player2Points
	m.LastMoveTime = upd.LastMoveTime
	s.matches[id] = m
	return nil
}

func (s *Store) CardsInMatch(ctx context.Context, matchID string) ([]game.MatchCard, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]game.MatchCard(nil), s.cards[matchID]...), nil
}

func (s *Store) CardsAt(ctx context.Context, matchID string, pos game.Position) ([]game.MatchCard, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []game.MatchCard
	for _, c := range s.cards[matchID] {
		if c.Position == pos {
			out = append(out, c)
		}
	}
	return out, nil
}

func (s *Store) UpdateCardPosition(ctx context.Context, matchID string, cardID int, pos game.Position) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cards := s.cards[matchID]
	for i := range cards {
		if cards[i].CardID == cardID {
			cards[i].Position = pos
			return nil
		}
	}
	return game.ErrNotFound
}

func (s *Store) InsertCard(ctx context.Context, matchID string, cardID int, pos game.Position) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cards[matchID] = append(s.cards[matchID], game.MatchCard{
		CardID:   cardID,
		MatchID:  matchID,
		Position: pos,
	})
	return nil
}

func (s *Store) CardCatalog(ctx context.Context) ([]game.CatalogCard, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]game.CatalogCard(nil), s.catalog...), nil
}

func (s *Store) CreateUser(ctx context.Context, name string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.seq++
	id := fmt.Sprintf("u_%06d", s.seq)
	s.users[id] = game.User{ID: id, Name: name, CreatedAt: time.Now().UTC()}
	return id, nil
}

func (s *Store) GetUser(ctx context.Context, id string) (game.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[id]
	if !ok {
		return game.User{}, game.ErrNotFound
	}
	return u, nil
}

// FindJoinableMatch returns the oldest match still missing a second player,
// skipping matches the given player created themselves.
func (s *Store) FindJoinableMatch(ctx context.Context, excludePlayer string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var candidates []game.Match
	for _, m := range s.matches {
		if m.Player2 == "" && m.Player1 != excludePlayer && m.Phase != game.PhaseGameOver {
			candidates = append(candidates, m)
		}
	}
	if len(candidates) == 0 {
		return "", game.ErrNotFound
	}
	sort.Slice(candidates, func(i, j int) bool {
		if candidates[i].LastMoveTime.Equal(candidates[j].LastMoveTime) {
			return candidates[i].ID < candidates[j].ID
		}
		return candidates[i].LastMoveTime.Before(candidates[j].LastMoveTime)
	})
	return candidates[0].ID, nil
}

func (s *Store) ExpireIdleMatches(ctx context.Context, cutoff time.Time) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for id, m := range s.matches {
		if m.Phase != game.PhaseGameOver && m.LastMoveTime.Before(cutoff) {
			m.Phase = game.PhaseGameOver
			s.matches[id] = m
			n++
		}
	}
	return n, nil
}
