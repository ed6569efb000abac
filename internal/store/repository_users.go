package store

import (
	"context"

	"github.com/juliantomlin/card-game-midterm/internal/game"
)

func (s *Store) CreateUser(ctx context.Context, name string) (string, error) {
	id := NewID()
	_, err := s.db.Exec(ctx,
		`INSERT INTO users (id, name) VALUES ($1, $2)`, id, name)
	return id, err
}

func (s *Store) GetUser(ctx context.Context, id string) (game.User, error) {
	row := s.db.QueryRow(ctx,
		`SELECT id, name, created_at FROM users WHERE id = $1`, id)
	var u game.User
	if err := row.Scan(&u.ID, &u.Name, &u.CreatedAt); err != nil {
		return game.User{}, mapNotFound(err)
	}
	return u, nil
}
