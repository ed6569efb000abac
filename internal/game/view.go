package game

import (
	"context"
	"errors"
	"sort"
	"time"
)

// CardView is a catalog card as shown to a viewer.
type CardView struct {
	ID    int  `json:"id"`
	Suit  Suit `json:"suit"`
	Value int  `json:"value"`
}

// MatchView is a read-only, viewer-relative snapshot. The opponent's hand
// and bid stay hidden: only their size and presence are exposed.
type MatchView struct {
	MatchID          string     `json:"match_id"`
	Phase            Phase      `json:"phase"`
	YourPoints       int        `json:"your_points"`
	OpponentPoints   int        `json:"opponent_points"`
	YourHand         []CardView `json:"your_hand"`
	OpponentHandSize int        `json:"opponent_hand_size"`
	YourBid          *CardView  `json:"your_bid,omitempty"`
	OpponentHasBid   bool       `json:"opponent_has_bid"`
	PrizeValue       *int       `json:"prize_value,omitempty"`
	LastMoveTime     time.Time  `json:"last_move_time"`
}

// View builds the snapshot for one participant. Before rendering it runs
// the reconciliation pass: if both bids are already committed but the
// round was never resolved (two near-simultaneous submissions), the round
// is resolved here rather than showing the stuck state. The pass shares
// the write path's per-match lock and is a no-op when the resolver's
// preconditions aren't actually met.
func (e *Engine) View(ctx context.Context, matchID, viewingPlayer string) (MatchView, error) {
	var view MatchView
	err := e.withMatch(ctx, matchID, func(st Storage) error {
		m, err := st.GetMatch(ctx, matchID)
		if err != nil {
			return err
		}
		cards, err := st.CardsInMatch(ctx, matchID)
		if err != nil {
			return err
		}

		if m.Phase != PhaseGameOver && hasCardAt(cards, PosPlayer1Bid) && hasCardAt(cards, PosPlayer2Bid) {
			if _, err := e.resolveRound(ctx, st, m); err != nil && !errors.Is(err, ErrIncompleteRound) {
				return err
			}
			if m, err = st.GetMatch(ctx, matchID); err != nil {
				return err
			}
			if cards, err = st.CardsInMatch(ctx, matchID); err != nil {
				return err
			}
		}

		view, err = e.buildView(ctx, m, cards, viewingPlayer)
		return err
	})
	return view, err
}

func (e *Engine) buildView(ctx context.Context, m Match, cards []MatchCard, viewer string) (MatchView, error) {
	var handPos, oppHandPos, bidPos, oppBidPos Position
	var pts, oppPts int
	switch viewer {
	case m.Player1:
		handPos, oppHandPos = PosPlayer1Hand, PosPlayer2Hand
		bidPos, oppBidPos = PosPlayer1Bid, PosPlayer2Bid
		pts, oppPts = m.Player1Points, m.Player2Points
	case m.Player2:
		if m.Player2 == "" {
			return MatchView{}, ErrNotInMatch
		}
		handPos, oppHandPos = PosPlayer2Hand, PosPlayer1Hand
		bidPos, oppBidPos = PosPlayer2Bid, PosPlayer1Bid
		pts, oppPts = m.Player2Points, m.Player1Points
	default:
		return MatchView{}, ErrNotInMatch
	}

	catalog, err := e.catalogByID(ctx)
	if err != nil {
		return MatchView{}, err
	}

	view := MatchView{
		MatchID:        m.ID,
		Phase:          m.Phase,
		YourPoints:     pts,
		OpponentPoints: oppPts,
		YourHand:       []CardView{},
		LastMoveTime:   m.LastMoveTime,
	}
	for _, c := range cards {
		switch c.Position {
		case handPos:
			if cc, ok := catalog[c.CardID]; ok {
				view.YourHand = append(view.YourHand, CardView{ID: cc.ID, Suit: cc.Suit, Value: cc.Value})
			}
		case oppHandPos:
			view.OpponentHandSize++
		case bidPos:
			if cc, ok := catalog[c.CardID]; ok {
				view.YourBid = &CardView{ID: cc.ID, Suit: cc.Suit, Value: cc.Value}
			}
		case oppBidPos:
			view.OpponentHasBid = true
		case PosPrize:
			if cc, ok := catalog[c.CardID]; ok {
				v := cc.Value
				view.PrizeValue = &v
			}
		}
	}
	sort.Slice(view.YourHand, func(i, j int) bool { return view.YourHand[i].ID < view.YourHand[j].ID })
	return view, nil
}

func hasCardAt(cards []MatchCard, pos Position) bool {
	for _, c := range cards {
		if c.Position == pos {
			return true
		}
	}
	return false
}
