package store_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/juliantomlin/card-game-midterm/internal/game"
	"github.com/juliantomlin/card-game-midterm/internal/store"
	"github.com/juliantomlin/card-game-midterm/internal/testutil"
)

func TestMatchRoundTrip(t *testing.T) {
	st, cleanup := testutil.OpenTestStore(t)
	defer cleanup()
	ctx := context.Background()

	id, err := st.CreateMatch(ctx, "alice", game.PhaseOpen)
	if err != nil {
		t.Fatalf("create match: %v", err)
	}
	m, err := st.GetMatch(ctx, id)
	if err != nil {
		t.Fatalf("get match: %v", err)
	}
	if m.Player1 != "alice" || m.Player2 != "" || m.Phase != game.PhaseOpen {
		t.Fatalf("unexpected match %+v", m)
	}

	now := time.Now().UTC()
	if err := st.UpdateMatch(ctx, id, game.MatchUpdate{
		Phase:         game.PhaseWaitingP2,
		Player1Points: 10,
		LastMoveTime:  now,
	}); err != nil {
		t.Fatalf("update match: %v", err)
	}
	m, _ = st.GetMatch(ctx, id)
	if m.Phase != game.PhaseWaitingP2 || m.Player1Points != 10 {
		t.Fatalf("update not applied: %+v", m)
	}

	if _, err := st.GetMatch(ctx, "missing"); !errors.Is(err, game.ErrNotFound) {
		t.Fatalf("expected not_found, got %v", err)
	}
}

func TestSetPlayer2OnlyOnce(t *testing.T) {
	st, cleanup := testutil.OpenTestStore(t)
	defer cleanup()
	ctx := context.Background()

	id, err := st.CreateMatch(ctx, "alice", game.PhaseOpen)
	if err != nil {
		t.Fatalf("create match: %v", err)
	}
	if err := st.SetPlayer2(ctx, id, "bob"); err != nil {
		t.Fatalf("seat bob: %v", err)
	}
	if err := st.SetPlayer2(ctx, id, "carol"); !errors.Is(err, game.ErrMatchFull) {
		t.Fatalf("expected match_full, got %v", err)
	}
	m, _ := st.GetMatch(ctx, id)
	if m.Player2 != "bob" {
		t.Fatalf("player2 = %q, want bob", m.Player2)
	}
}

func TestCardLifecycle(t *testing.T) {
	st, cleanup := testutil.OpenTestStore(t)
	defer cleanup()
	ctx := context.Background()

	if err := st.EnsureDefaultCatalog(ctx); err != nil {
		t.Fatalf("ensure catalog: %v", err)
	}
	// Idempotent on second run.
	if err := st.EnsureDefaultCatalog(ctx); err != nil {
		t.Fatalf("ensure catalog again: %v", err)
	}
	catalog, err := st.CardCatalog(ctx)
	if err != nil {
		t.Fatalf("catalog: %v", err)
	}
	if len(catalog) != 52 {
		t.Fatalf("catalog size %d, want 52", len(catalog))
	}

	id, err := st.CreateMatch(ctx, "alice", game.PhaseOpen)
	if err != nil {
		t.Fatalf("create match: %v", err)
	}
	if err := st.InsertCard(ctx, id, 1, game.PosPlayer1Hand); err != nil {
		t.Fatalf("insert card: %v", err)
	}
	if err := st.InsertCard(ctx, id, 2, game.PosDeck); err != nil {
		t.Fatalf("insert card: %v", err)
	}

	if err := st.UpdateCardPosition(ctx, id, 1, game.PosPlayer1Bid); err != nil {
		t.Fatalf("move card: %v", err)
	}
	bids, err := st.CardsAt(ctx, id, game.PosPlayer1Bid)
	if err != nil {
		t.Fatalf("cards at bid: %v", err)
	}
	if len(bids) != 1 || bids[0].CardID != 1 {
		t.Fatalf("unexpected bid cards %+v", bids)
	}
	all, err := st.CardsInMatch(ctx, id)
	if err != nil {
		t.Fatalf("cards in match: %v", err)
	}
	if len(all) != 2 {
		t.Fatalf("cards in match %d, want 2", len(all))
	}

	if err := st.UpdateCardPosition(ctx, id, 99, game.PosBurned); !errors.Is(err, game.ErrNotFound) {
		t.Fatalf("expected not_found for unknown card, got %v", err)
	}
}

func TestFindJoinableMatchSkipsOwnAndFull(t *testing.T) {
	st, cleanup := testutil.OpenTestStore(t)
	defer cleanup()
	ctx := context.Background()

	if _, err := st.FindJoinableMatch(ctx, "bob"); !errors.Is(err, game.ErrNotFound) {
		t.Fatalf("expected not_found with no matches, got %v", err)
	}

	own, err := st.CreateMatch(ctx, "bob", game.PhaseOpen)
	if err != nil {
		t.Fatalf("create own: %v", err)
	}
	if _, err := st.FindJoinableMatch(ctx, "bob"); !errors.Is(err, game.ErrNotFound) {
		t.Fatalf("own match offered back, err %v", err)
	}

	other, err := st.CreateMatch(ctx, "alice", game.PhaseOpen)
	if err != nil {
		t.Fatalf("create other: %v", err)
	}
	got, err := st.FindJoinableMatch(ctx, "bob")
	if err != nil {
		t.Fatalf("find joinable: %v", err)
	}
	if got != other {
		t.Fatalf("got %s, want %s (not own match %s)", got, other, own)
	}

	if err := st.SetPlayer2(ctx, other, "carol"); err != nil {
		t.Fatalf("fill match: %v", err)
	}
	if _, err := st.FindJoinableMatch(ctx, "bob"); !errors.Is(err, game.ErrNotFound) {
		t.Fatalf("full match offered, err %v", err)
	}
}

func TestExpireIdleMatches(t *testing.T) {
	st, cleanup := testutil.OpenTestStore(t)
	defer cleanup()
	ctx := context.Background()

	stale, err := st.CreateMatch(ctx, "alice", game.PhaseOpen)
	if err != nil {
		t.Fatalf("create stale: %v", err)
	}
	if err := st.UpdateMatch(ctx, stale, game.MatchUpdate{
		Phase:        game.PhaseOpen,
		LastMoveTime: time.Now().UTC().Add(-2 * time.Hour),
	}); err != nil {
		t.Fatalf("age match: %v", err)
	}
	fresh, err := st.CreateMatch(ctx, "bob", game.PhaseOpen)
	if err != nil {
		t.Fatalf("create fresh: %v", err)
	}

	n, err := st.ExpireIdleMatches(ctx, time.Now().UTC().Add(-time.Hour))
	if err != nil {
		t.Fatalf("expire: %v", err)
	}
	if n != 1 {
		t.Fatalf("expired %d, want 1", n)
	}
	m, _ := st.GetMatch(ctx, stale)
	if m.Phase != game.PhaseGameOver {
		t.Fatalf("stale match phase %s, want game_over", m.Phase)
	}
	m, _ = st.GetMatch(ctx, fresh)
	if m.Phase != game.PhaseOpen {
		t.Fatalf("fresh match phase %s, want open", m.Phase)
	}
}

func TestUsers(t *testing.T) {
	st, cleanup := testutil.OpenTestStore(t)
	defer cleanup()
	ctx := context.Background()

	id, err := st.CreateUser(ctx, "alice")
	if err != nil {
		t.Fatalf("create user: %v", err)
	}
	u, err := st.GetUser(ctx, id)
	if err != nil {
		t.Fatalf("get user: %v", err)
	}
	if u.Name != "alice" || u.CreatedAt.IsZero() {
		t.Fatalf("unexpected user %+v", u)
	}
	if _, err := st.GetUser(ctx, "missing"); !errors.Is(err, game.ErrNotFound) {
		t.Fatalf("expected not_found, got %v", err)
	}
}

func TestRunTxRollsBackOnError(t *testing.T) {
	st, cleanup := testutil.OpenTestStore(t)
	defer cleanup()
	ctx := context.Background()

	id, err := st.CreateMatch(ctx, "alice", game.PhaseOpen)
	if err != nil {
		t.Fatalf("create match: %v", err)
	}

	boom := errors.New("boom")
	err = st.RunTx(ctx, func(tx game.Storage) error {
		if err := tx.UpdateMatch(ctx, id, game.MatchUpdate{
			Phase:        game.PhaseGameOver,
			LastMoveTime: time.Now().UTC(),
		}); err != nil {
			return err
		}
		return boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("expected boom, got %v", err)
	}
	m, _ := st.GetMatch(ctx, id)
	if m.Phase != game.PhaseOpen {
		t.Fatalf("rolled-back update persisted: phase %s", m.Phase)
	}

	if err := st.RunTx(ctx, func(tx game.Storage) error {
		return tx.UpdateMatch(ctx, id, game.MatchUpdate{
			Phase:        game.PhaseWaitingP1,
			LastMoveTime: time.Now().UTC(),
		})
	}); err != nil {
		t.Fatalf("committed tx: %v", err)
	}
	m, _ = st.GetMatch(ctx, id)
	if m.Phase != game.PhaseWaitingP1 {
		t.Fatalf("committed update missing: phase %s", m.Phase)
	}
}

var _ game.Storage = (*store.Store)(nil)
var _ game.TxRunner = (*store.Store)(nil)
