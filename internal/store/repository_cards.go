package store

import (
	"context"

	"github.com/jackc/pgx/v5"

	"github.com/juliantomlin/card-game-midterm/internal/game"
)

func (s *Store) CardsInMatch(ctx context.Context, matchID string) ([]game.MatchCard, error) {
	rows, err := s.db.Query(ctx,
		`SELECT card_id, match_id, position FROM cards WHERE match_id = $1 ORDER BY card_id`, matchID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanMatchCards(rows)
}

func (s *Store) CardsAt(ctx context.Context, matchID string, pos game.Position) ([]game.MatchCard, error) {
	rows, err := s.db.Query(ctx,
		`SELECT card_id, match_id, position FROM cards WHERE match_id = $1 AND position = $2 ORDER BY card_id`,
		matchID, string(pos))
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanMatchCards(rows)
}

func (s *Store) UpdateCardPosition(ctx context.Context, matchID string, cardID int, pos game.Position) error {
	tag, err := s.db.Exec(ctx,
		`UPDATE cards SET position = $3 WHERE match_id = $1 AND card_id = $2`,
		matchID, cardID, string(pos))
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return game.ErrNotFound
	}
	return nil
}

func (s *Store) InsertCard(ctx context.Context, matchID string, cardID int, pos game.Position) error {
	_, err := s.db.Exec(ctx,
		`INSERT INTO cards (match_id, card_id, position) VALUES ($1, $2, $3)`,
		matchID, cardID, string(pos))
	return err
}

func (s *Store) CardCatalog(ctx context.Context) ([]game.CatalogCard, error) {
	rows, err := s.db.Query(ctx, `SELECT id, suit, value FROM card_lookup ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []game.CatalogCard
	for rows.Next() {
		var c game.CatalogCard
		var suit string
		if err := rows.Scan(&c.ID, &suit, &c.Value); err != nil {
			return nil, err
		}
		c.Suit = game.Suit(suit)
		out = append(out, c)
	}
	return out, rows.Err()
}

// EnsureDefaultCatalog seeds the standard 52-card catalog. Idempotent;
// runs at boot.
func (s *Store) EnsureDefaultCatalog(ctx context.Context) error {
	for _, c := range game.DefaultCatalog() {
		_, err := s.db.Exec(ctx,
			`INSERT INTO card_lookup (id, suit, value) VALUES ($1, $2, $3)
			 ON CONFLICT (id) DO NOTHING`,
			c.ID, string(c.Suit), c.Value)
		if err != nil {
			return err
		}
	}
	return nil
}

func scanMatchCards(rows pgx.Rows) ([]game.MatchCard, error) {
	var out []game.MatchCard
	for rows.Next() {
		var c game.MatchCard
		var pos string
		if err := rows.Scan(&c.CardID, &c.MatchID, &pos); err != nil {
			return nil, err
		}
		c.Position = game.Position(pos)
		out = append(out, c)
	}
	return out, rows.Err()
}
