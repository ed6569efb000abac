package match

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/juliantomlin/card-game-midterm/internal/game"
)

// Storage is what the service needs beyond the engine's own collaborator:
// user rows and the two matchmaking/expiry queries.
type Storage interface {
	game.Storage
	CreateUser(ctx context.Context, name string) (string, error)
	GetUser(ctx context.Context, id string) (game.User, error)
	FindJoinableMatch(ctx context.Context, excludePlayer string) (string, error)
	ExpireIdleMatches(ctx context.Context, cutoff time.Time) (int, error)
}

type Service struct {
	eng   *game.Engine
	store Storage
}

func NewService(eng *game.Engine, st Storage) *Service {
	return &Service{eng: eng, store: st}
}

func (s *Service) Register(ctx context.Context, name string) (*UserResponse, error) {
	if name == "" {
		return nil, ErrInvalidRequest
	}
	id, err := s.store.CreateUser(ctx, name)
	if err != nil {
		return nil, err
	}
	return &UserResponse{UserID: id, Name: name}, nil
}

func (s *Service) CreateMatch(ctx context.Context, playerID string) (*MatchResponse, error) {
	if playerID == "" {
		return nil, ErrInvalidRequest
	}
	id, err := s.eng.CreateMatch(ctx, playerID)
	if err != nil {
		return nil, err
	}
	return &MatchResponse{MatchID: id, Phase: game.PhaseOpen}, nil
}

// QuickMatch seats the player into the oldest open match somebody else
// created, or opens a fresh one when none is waiting.
func (s *Service) QuickMatch(ctx context.Context, playerID string) (*QuickMatchResponse, error) {
	if playerID == "" {
		return nil, ErrInvalidRequest
	}
	id, err := s.store.FindJoinableMatch(ctx, playerID)
	switch {
	case errors.Is(err, game.ErrNotFound):
		created, err := s.eng.CreateMatch(ctx, playerID)
		if err != nil {
			return nil, err
		}
		return &QuickMatchResponse{MatchID: created, Phase: game.PhaseOpen}, nil
	case err != nil:
		return nil, err
	}
	if err := s.eng.JoinMatch(ctx, id, playerID); err != nil {
		return nil, err
	}
	return &QuickMatchResponse{MatchID: id, Phase: game.PhaseOpen, Joined: true}, nil
}

func (s *Service) Join(ctx context.Context, matchID, playerID string) (*MatchResponse, error) {
	if matchID == "" || playerID == "" {
		return nil, ErrInvalidRequest
	}
	if err := s.eng.JoinMatch(ctx, matchID, playerID); err != nil {
		return nil, err
	}
	return &MatchResponse{MatchID: matchID, Phase: game.PhaseOpen}, nil
}

func (s *Service) Bid(ctx context.Context, matchID, playerID string, cardID int) (*BidResponse, error) {
	if matchID == "" || playerID == "" || cardID <= 0 {
		return nil, ErrInvalidRequest
	}
	res, err := s.eng.SubmitBid(ctx, matchID, playerID, cardID)
	if err != nil {
		return nil, err
	}
	return &BidResponse{Phase: res.Phase, Accepted: res.Accepted}, nil
}

func (s *Service) View(ctx context.Context, matchID, playerID string) (*game.MatchView, error) {
	if matchID == "" || playerID == "" {
		return nil, ErrInvalidRequest
	}
	view, err := s.eng.View(ctx, matchID, playerID)
	if err != nil {
		return nil, err
	}
	return &view, nil
}

// StartJanitor periodically ends matches idle longer than maxIdle. The
// engine has no timeout logic of its own; this is the external collaborator
// last_move_time exists for.
func (s *Service) StartJanitor(ctx context.Context, interval, maxIdle time.Duration) {
	go func() {
		t := time.NewTicker(interval)
		defer t.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-t.C:
				n, err := s.store.ExpireIdleMatches(ctx, time.Now().UTC().Add(-maxIdle))
				if err != nil {
					log.Warn().Err(err).Msg("expire idle matches failed")
					continue
				}
				if n > 0 {
					log.Info().Int("count", n).Msg("expired idle matches")
				}
			}
		}
	}()
}
