package game

import (
	"context"
	"fmt"
)

// DealPlan assigns one whole suit to each player's hand and one to the
// draw pile. The fourth suit sits the match out.
type DealPlan struct {
	Player1Suit Suit
	Player2Suit Suit
	DeckSuit    Suit
}

func DefaultDealPlan() DealPlan {
	return DealPlan{Player1Suit: Hearts, Player2Suit: Spades, DeckSuit: Diamonds}
}

// ParseDealPlan validates three suit names from configuration. The suits
// must all be known and pairwise distinct.
func ParseDealPlan(player1, player2, deck string) (DealPlan, error) {
	suits := [3]Suit{}
	for i, raw := range []string{player1, player2, deck} {
		switch s := Suit(raw); s {
		case Hearts, Spades, Diamonds, Clubs:
			suits[i] = s
		default:
			return DealPlan{}, fmt.Errorf("unknown suit %q", raw)
		}
	}
	if suits[0] == suits[1] || suits[0] == suits[2] || suits[1] == suits[2] {
		return DealPlan{}, fmt.Errorf("deal plan suits must be distinct, got %s/%s/%s", suits[0], suits[1], suits[2])
	}
	return DealPlan{Player1Suit: suits[0], Player2Suit: suits[1], DeckSuit: suits[2]}, nil
}

// dealHands partitions the catalog by the plan's suits, writes both hands
// and the draw pile, and flips the first prize. The partition is validated
// before the first write so a bad catalog never leaves a half-dealt match.
func (e *Engine) dealHands(ctx context.Context, st Storage, matchID string) error {
	catalog, err := st.CardCatalog(ctx)
	if err != nil {
		return err
	}

	bySuit := map[Suit][]CatalogCard{}
	for _, c := range catalog {
		bySuit[c.Suit] = append(bySuit[c.Suit], c)
	}
	hand1 := bySuit[e.plan.Player1Suit]
	hand2 := bySuit[e.plan.Player2Suit]
	deck := bySuit[e.plan.DeckSuit]
	for suit, cards := range map[Suit][]CatalogCard{
		e.plan.Player1Suit: hand1,
		e.plan.Player2Suit: hand2,
		e.plan.DeckSuit:    deck,
	} {
		if len(cards) == 0 {
			return fmt.Errorf("no %s cards in catalog: %w", suit, ErrCatalogIncomplete)
		}
	}

	for _, c := range hand1 {
		if err := st.InsertCard(ctx, matchID, c.ID, PosPlayer1Hand); err != nil {
			return err
		}
	}
	for _, c := range hand2 {
		if err := st.InsertCard(ctx, matchID, c.ID, PosPlayer2Hand); err != nil {
			return err
		}
	}
	prize := e.intn(len(deck))
	for i, c := range deck {
		pos := PosDeck
		if i == prize {
			pos = PosPrize
		}
		if err := st.InsertCard(ctx, matchID, c.ID, pos); err != nil {
			return err
		}
	}
	return nil
}
