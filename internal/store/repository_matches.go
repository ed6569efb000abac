package store

import (
	"context"
	"time"

	"github.com/juliantomlin/card-game-midterm/internal/game"
)

func (s *Store) CreateMatch(ctx context.Context, player1 string, phase game.Phase) (string, error) {
	id := NewID()
	_, err := s.db.Exec(ctx,
		`INSERT INTO matches (id, player1_id, phase, player1_points, player2_points, last_move_time)
		 VALUES ($1, $2, $3, 0, 0, now())`,
		id, player1, string(phase))
	return id, err
}

func (s *Store) GetMatch(ctx context.Context, id string) (game.Match, error) {
	row := s.db.QueryRow(ctx,
		`SELECT id, player1_id, COALESCE(player2_id, ''), player1_points, player2_points, phase, last_move_time
		 FROM matches WHERE id = $1`, id)
	var m game.Match
	var phase string
	if err := row.Scan(&m.ID, &m.Player1, &m.Player2, &m.Player1Points, &m.Player2Points, &phase, &m.LastMoveTime); err != nil {
		return game.Match{}, mapNotFound(err)
	}
	m.Phase = game.Phase(phase)
	return m, nil
}

func (s *Store) SetPlayer2(ctx context.Context, id, player2 string) error {
	tag, err := s.db.Exec(ctx,
		`UPDATE matches SET player2_id = $2, last_move_time = now()
		 WHERE id = $1 AND player2_id IS NULL`, id, player2)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return game.ErrMatchFull
	}
	return nil
}

func (s *Store) UpdateMatch(ctx context.Context, id string, upd game.MatchUpdate) error {
	tag, err := s.db.Exec(ctx,
		`UPDATE matches
		 SET phase = $2, player1_points = $3, player2_points = $4, last_move_time = $5
		 WHERE id = $1`,
		id, string(upd.Phase), upd.Player1Points, upd.Player2Points, upd.LastMoveTime)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return game.ErrNotFound
	}
	return nil
}

func (s *Store) FindJoinableMatch(ctx context.Context, excludePlayer string) (string, error) {
	row := s.db.QueryRow(ctx,
		`SELECT id FROM matches
		 WHERE player2_id IS NULL AND player1_id <> $1 AND phase <> 'game_over'
		 ORDER BY last_move_time ASC LIMIT 1`, excludePlayer)
	var id string
	if err := row.Scan(&id); err != nil {
		return "", mapNotFound(err)
	}
	return id, nil
}

// ExpireIdleMatches force-ends matches whose last state-affecting action is
// older than cutoff. Returns how many were ended.
func (s *Store) ExpireIdleMatches(ctx context.Context, cutoff time.Time) (int, error) {
	tag, err := s.db.Exec(ctx,
		`UPDATE matches SET phase = 'game_over'
		 WHERE phase <> 'game_over' AND last_move_time < $1`, cutoff)
	if err != nil {
		return 0, err
	}
	return int(tag.RowsAffected()), nil
}
