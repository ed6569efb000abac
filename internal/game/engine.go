package game

import (
	"context"
	"fmt"
	"math/rand"
	"sync"
	"time"
)

// Engine owns every state transition of a match. All read-then-write
// operations run under a per-match lock so two concurrent bids can never
// both observe the same turn precondition; when the backend implements
// TxRunner they additionally share one transaction.
type Engine struct {
	store Storage
	plan  DealPlan

	rndMu sync.Mutex
	rnd   *rand.Rand

	catMu   sync.Mutex
	catalog map[int]CatalogCard

	locksMu sync.Mutex
	locks   map[string]*sync.Mutex
}

// NewEngine wires the engine to its storage backend. rnd may be nil, in
// which case draws are seeded from the clock; tests inject a seeded source
// to make deals and prize draws deterministic.
func NewEngine(st Storage, plan DealPlan, rnd *rand.Rand) *Engine {
	if rnd == nil {
		rnd = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &Engine{
		store: st,
		plan:  plan,
		rnd:   rnd,
		locks: map[string]*sync.Mutex{},
	}
}

// BidResult is what a bid submission produced. A rejected bid is not an
// error: the phase comes back unchanged and Accepted is false, so a stale
// client just re-reads the true state.
type BidResult struct {
	Phase    Phase
	Accepted bool
}

func (e *Engine) CreateMatch(ctx context.Context, player1 string) (string, error) {
	return e.store.CreateMatch(ctx, player1, PhaseOpen)
}

// JoinMatch seats player2 and deals the hands, leaving the match open for
// bids from either side.
func (e *Engine) JoinMatch(ctx context.Context, matchID, player2 string) error {
	return e.withMatch(ctx, matchID, func(st Storage) error {
		m, err := st.GetMatch(ctx, matchID)
		if err != nil {
			return err
		}
		if m.Player1 == player2 {
			return ErrAlreadyInMatch
		}
		if m.Player2 != "" || m.Phase == PhaseGameOver {
			return ErrMatchFull
		}
		if err := e.dealHands(ctx, st, matchID); err != nil {
			return err
		}
		if err := st.SetPlayer2(ctx, matchID, player2); err != nil {
			return err
		}
		return st.UpdateMatch(ctx, matchID, MatchUpdate{
			Phase:         PhaseOpen,
			Player1Points: m.Player1Points,
			Player2Points: m.Player2Points,
			LastMoveTime:  time.Now().UTC(),
		})
	})
}

// SubmitBid applies the transition table: a first bid flips turn ownership
// to the other player, a second bid resolves the round. Out-of-turn bids,
// bids after game over, bids from strangers, and bids of cards not in the
// actor's hand are all silently rejected.
func (e *Engine) SubmitBid(ctx context.Context, matchID, actingPlayer string, cardID int) (BidResult, error) {
	var res BidResult
	err := e.withMatch(ctx, matchID, func(st Storage) error {
		m, err := st.GetMatch(ctx, matchID)
		if err != nil {
			return err
		}
		res = BidResult{Phase: m.Phase}

		if m.Phase == PhaseGameOver {
			return nil
		}
		handPos, bidPos := PosPlayer1Hand, PosPlayer1Bid
		awaited, next := PhaseWaitingP1, PhaseWaitingP2
		switch actingPlayer {
		case m.Player1:
		case m.Player2:
			if m.Player2 == "" {
				return nil
			}
			handPos, bidPos = PosPlayer2Hand, PosPlayer2Bid
			awaited, next = PhaseWaitingP2, PhaseWaitingP1
		default:
			return nil
		}
		if m.Phase != PhaseOpen && m.Phase != awaited {
			return nil
		}

		hand, err := st.CardsAt(ctx, matchID, handPos)
		if err != nil {
			return err
		}
		if !containsCard(hand, cardID) {
			return nil
		}
		if err := st.UpdateCardPosition(ctx, matchID, cardID, bidPos); err != nil {
			return err
		}

		if m.Phase == PhaseOpen {
			if err := st.UpdateMatch(ctx, matchID, MatchUpdate{
				Phase:         next,
				Player1Points: m.Player1Points,
				Player2Points: m.Player2Points,
				LastMoveTime:  time.Now().UTC(),
			}); err != nil {
				return err
			}
			res = BidResult{Phase: next, Accepted: true}
			return nil
		}

		// Second bid of the round: both bids are on the table now.
		phase, err := e.resolveRound(ctx, st, m)
		if err != nil {
			return err
		}
		res = BidResult{Phase: phase, Accepted: true}
		return nil
	})
	return res, err
}

// resolveRound compares the two committed bids, pays the prize value to
// the strictly higher bid, burns all three cards, and draws the next
// prize. A tie burns the cards but pays nobody.
func (e *Engine) resolveRound(ctx context.Context, st Storage, m Match) (Phase, error) {
	bid1, err := singleCardAt(ctx, st, m.ID, PosPlayer1Bid)
	if err != nil {
		return m.Phase, err
	}
	bid2, err := singleCardAt(ctx, st, m.ID, PosPlayer2Bid)
	if err != nil {
		return m.Phase, err
	}
	prize, err := singleCardAt(ctx, st, m.ID, PosPrize)
	if err != nil {
		return m.Phase, err
	}

	catalog, err := e.catalogByID(ctx)
	if err != nil {
		return m.Phase, err
	}
	v1, err := cardValue(catalog, bid1)
	if err != nil {
		return m.Phase, err
	}
	v2, err := cardValue(catalog, bid2)
	if err != nil {
		return m.Phase, err
	}
	pv, err := cardValue(catalog, prize)
	if err != nil {
		return m.Phase, err
	}

	p1, p2 := m.Player1Points, m.Player2Points
	if v1 > v2 {
		p1 += pv
	} else if v2 > v1 {
		p2 += pv
	}

	for _, id := range []int{bid1, bid2, prize} {
		if err := st.UpdateCardPosition(ctx, m.ID, id, PosBurned); err != nil {
			return m.Phase, err
		}
	}

	phase := PhaseOpen
	drawn, err := e.drawPrize(ctx, st, m.ID)
	if err != nil {
		return m.Phase, err
	}
	if !drawn {
		phase = PhaseGameOver
	}

	if err := st.UpdateMatch(ctx, m.ID, MatchUpdate{
		Phase:         phase,
		Player1Points: p1,
		Player2Points: p2,
		LastMoveTime:  time.Now().UTC(),
	}); err != nil {
		return m.Phase, err
	}
	return phase, nil
}

// drawPrize moves one uniformly random draw-pile card face up. It reports
// false when the deck is exhausted, which ends the match.
func (e *Engine) drawPrize(ctx context.Context, st Storage, matchID string) (bool, error) {
	deck, err := st.CardsAt(ctx, matchID, PosDeck)
	if err != nil {
		return false, err
	}
	if len(deck) == 0 {
		return false, nil
	}
	pick := deck[e.intn(len(deck))]
	if err := st.UpdateCardPosition(ctx, matchID, pick.CardID, PosPrize); err != nil {
		return false, err
	}
	return true, nil
}

// withMatch serializes all state transitions for one match and, when the
// backend supports it, scopes them to a single transaction.
func (e *Engine) withMatch(ctx context.Context, matchID string, fn func(Storage) error) error {
	mu := e.matchLock(matchID)
	mu.Lock()
	defer mu.Unlock()
	if tr, ok := e.store.(TxRunner); ok {
		return tr.RunTx(ctx, fn)
	}
	return fn(e.store)
}

func (e *Engine) matchLock(matchID string) *sync.Mutex {
	e.locksMu.Lock()
	defer e.locksMu.Unlock()
	mu, ok := e.locks[matchID]
	if !ok {
		mu = &sync.Mutex{}
		e.locks[matchID] = mu
	}
	return mu
}

// catalogByID caches the card catalog after the first successful read; the
// catalog is immutable at runtime.
func (e *Engine) catalogByID(ctx context.Context) (map[int]CatalogCard, error) {
	e.catMu.Lock()
	defer e.catMu.Unlock()
	if e.catalog != nil {
		return e.catalog, nil
	}
	cards, err := e.store.CardCatalog(ctx)
	if err != nil {
		return nil, err
	}
	byID := make(map[int]CatalogCard, len(cards))
	for _, c := range cards {
		byID[c.ID] = c
	}
	e.catalog = byID
	return byID, nil
}

func (e *Engine) intn(n int) int {
	e.rndMu.Lock()
	defer e.rndMu.Unlock()
	return e.rnd.Intn(n)
}

func singleCardAt(ctx context.Context, st Storage, matchID string, pos Position) (int, error) {
	cards, err := st.CardsAt(ctx, matchID, pos)
	if err != nil {
		return 0, err
	}
	if len(cards) != 1 {
		return 0, ErrIncompleteRound
	}
	return cards[0].CardID, nil
}

func cardValue(catalog map[int]CatalogCard, cardID int) (int, error) {
	c, ok := catalog[cardID]
	if !ok {
		return 0, fmt.Errorf("card %d missing from catalog", cardID)
	}
	return c.Value, nil
}

func containsCard(cards []MatchCard, cardID int) bool {
	for _, c := range cards {
		if c.CardID == cardID {
			return true
		}
	}
	return false
}
