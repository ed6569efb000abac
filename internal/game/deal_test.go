package game_test

import (
	"context"
	"errors"
	"math/rand"
	"testing"

	"github.com/juliantomlin/card-game-midterm/internal/game"
	"github.com/juliantomlin/card-game-midterm/internal/store/memory"
)

func TestParseDealPlan(t *testing.T) {
	plan, err := game.ParseDealPlan("clubs", "diamonds", "hearts")
	if err != nil {
		t.Fatalf("ParseDealPlan: %v", err)
	}
	if plan.Player1Suit != game.Clubs || plan.DeckSuit != game.Hearts {
		t.Fatalf("unexpected plan %+v", plan)
	}

	if _, err := game.ParseDealPlan("hearts", "hearts", "spades"); err == nil {
		t.Fatal("expected error for duplicate suits")
	}
	if _, err := game.ParseDealPlan("cups", "spades", "hearts"); err == nil {
		t.Fatal("expected error for unknown suit")
	}
}

func TestDealPartitionsFullCatalog(t *testing.T) {
	st := memory.New()
	st.SeedCatalog(game.DefaultCatalog())
	eng := game.NewEngine(st, game.DefaultDealPlan(), rand.New(rand.NewSource(7)))
	ctx := context.Background()

	id, err := eng.CreateMatch(ctx, "alice")
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if err := eng.JoinMatch(ctx, id, "bob"); err != nil {
		t.Fatalf("join: %v", err)
	}

	hand1, _ := st.CardsAt(ctx, id, game.PosPlayer1Hand)
	hand2, _ := st.CardsAt(ctx, id, game.PosPlayer2Hand)
	deck, _ := st.CardsAt(ctx, id, game.PosDeck)
	prize, _ := st.CardsAt(ctx, id, game.PosPrize)
	if len(hand1) != 13 || len(hand2) != 13 {
		t.Fatalf("hand sizes %d/%d, want 13/13", len(hand1), len(hand2))
	}
	if len(deck) != 12 || len(prize) != 1 {
		t.Fatalf("deck %d prize %d, want 12/1", len(deck), len(prize))
	}

	// Clubs sit out under the default plan, and no card lands twice.
	all, _ := st.CardsInMatch(ctx, id)
	if len(all) != 39 {
		t.Fatalf("cards in match %d, want 39", len(all))
	}
	seen := map[int]bool{}
	for _, c := range all {
		if seen[c.CardID] {
			t.Fatalf("card %d dealt twice", c.CardID)
		}
		seen[c.CardID] = true
		if c.CardID >= 40 {
			t.Fatalf("club card %d entered play", c.CardID)
		}
	}
}

func TestDealHonorsConfiguredPlan(t *testing.T) {
	st := memory.New()
	st.SeedCatalog(game.DefaultCatalog())
	plan, err := game.ParseDealPlan("clubs", "diamonds", "spades")
	if err != nil {
		t.Fatalf("parse plan: %v", err)
	}
	eng := game.NewEngine(st, plan, rand.New(rand.NewSource(7)))
	ctx := context.Background()

	id, _ := eng.CreateMatch(ctx, "alice")
	if err := eng.JoinMatch(ctx, id, "bob"); err != nil {
		t.Fatalf("join: %v", err)
	}
	hand1, _ := st.CardsAt(ctx, id, game.PosPlayer1Hand)
	for _, c := range hand1 {
		if c.CardID < 40 {
			t.Fatalf("player1 hand holds non-club card %d", c.CardID)
		}
	}
	all, _ := st.CardsInMatch(ctx, id)
	for _, c := range all {
		if c.CardID <= 13 {
			t.Fatalf("heart card %d entered play under clubs/diamonds/spades plan", c.CardID)
		}
	}
}

func TestDealFailsOnMissingSuit(t *testing.T) {
	st := memory.New()
	st.SeedCatalog([]game.CatalogCard{
		{ID: 1, Suit: game.Hearts, Value: 7},
		{ID: 2, Suit: game.Spades, Value: 4},
		// no diamonds: the draw pile can't be formed
	})
	eng := game.NewEngine(st, game.DefaultDealPlan(), rand.New(rand.NewSource(1)))
	ctx := context.Background()

	id, _ := eng.CreateMatch(ctx, "alice")
	err := eng.JoinMatch(ctx, id, "bob")
	if !errors.Is(err, game.ErrCatalogIncomplete) {
		t.Fatalf("expected catalog_incomplete, got %v", err)
	}
	all, _ := st.CardsInMatch(ctx, id)
	if len(all) != 0 {
		t.Fatalf("partial deal wrote %d cards", len(all))
	}
}

func TestDealFailsOnEmptyCatalog(t *testing.T) {
	st := memory.New()
	eng := game.NewEngine(st, game.DefaultDealPlan(), rand.New(rand.NewSource(1)))
	ctx := context.Background()

	id, _ := eng.CreateMatch(ctx, "alice")
	if err := eng.JoinMatch(ctx, id, "bob"); err == nil {
		t.Fatal("expected join to fail on empty catalog")
	}
}
