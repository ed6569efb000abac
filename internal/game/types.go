package game

import (
	"context"
	"time"
)

// Phase is who the match is waiting on. Open means either player may bid.
type Phase string

const (
	PhaseOpen      Phase = "open"
	PhaseWaitingP1 Phase = "waiting_p1"
	PhaseWaitingP2 Phase = "waiting_p2"
	PhaseGameOver  Phase = "game_over"
)

// Position is where a card currently sits within a match.
type Position string

const (
	PosPlayer1Hand Position = "p1_hand"
	PosPlayer2Hand Position = "p2_hand"
	PosDeck        Position = "deck"
	PosPlayer1Bid  Position = "p1_bid"
	PosPlayer2Bid  Position = "p2_bid"
	PosPrize       Position = "prize"
	PosBurned      Position = "burned"
)

type Suit string

const (
	Hearts   Suit = "hearts"
	Spades   Suit = "spades"
	Diamonds Suit = "diamonds"
	Clubs    Suit = "clubs"
)

// CatalogCard is one immutable entry in the shared card catalog.
type CatalogCard struct {
	ID    int
	Suit  Suit
	Value int
}

// DefaultCatalog is the standard 52-card deck: thirteen cards per suit
// valued 2 through 14, ids assigned suit by suit.
func DefaultCatalog() []CatalogCard {
	suits := []Suit{Hearts, Spades, Diamonds, Clubs}
	out := make([]CatalogCard, 0, 52)
	id := 1
	for _, s := range suits {
		for v := 2; v <= 14; v++ {
			out = append(out, CatalogCard{ID: id, Suit: s, Value: v})
			id++
		}
	}
	return out
}

// MatchCard is a catalog card placed somewhere inside one match.
type MatchCard struct {
	CardID   int
	MatchID  string
	Position Position
}

type Match struct {
	ID            string
	Player1       string
	Player2       string
	Player1Points int
	Player2Points int
	Phase         Phase
	LastMoveTime  time.Time
}

// MatchUpdate is the full mutable slice of a match row; every update
// writes all of it so a transition is one statement.
type MatchUpdate struct {
	Phase         Phase
	Player1Points int
	Player2Points int
	LastMoveTime  time.Time
}

type User struct {
	ID        string
	Name      string
	CreatedAt time.Time
}

// Storage is what the engine needs from a backend. Implementations exist
// for Postgres and for an in-memory map.
type Storage interface {
	CreateMatch(ctx context.Context, player1 string, phase Phase) (string, error)
	GetMatch(ctx context.Context, id string) (Match, error)
	SetPlayer2(ctx context.Context, id, player2 string) error
	UpdateMatch(ctx context.Context, id string, upd MatchUpdate) error

	CardsInMatch(ctx context.Context, matchID string) ([]MatchCard, error)
	CardsAt(ctx context.Context, matchID string, pos Position) ([]MatchCard, error)
	UpdateCardPosition(ctx context.Context, matchID string, cardID int, pos Position) error
	InsertCard(ctx context.Context, matchID string, cardID int, pos Position) error
	CardCatalog(ctx context.Context) ([]CatalogCard, error)
}

// TxRunner is optionally implemented by backends that can scope a whole
// state transition to one transaction. The engine uses it when present.
type TxRunner interface {
	RunTx(ctx context.Context, fn func(Storage) error) error
}
