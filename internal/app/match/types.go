package match

import "github.com/juliantomlin/card-game-midterm/internal/game"

type UserResponse struct {
	UserID string `json:"user_id"`
	Name   string `json:"name"`
}

type MatchResponse struct {
	MatchID string     `json:"match_id"`
	Phase   game.Phase `json:"phase"`
}

type QuickMatchResponse struct {
	MatchID string     `json:"match_id"`
	Phase   game.Phase `json:"phase"`
	// Joined is true when the player was seated into an existing open
	// match rather than given a fresh one.
	Joined bool `json:"joined"`
}

type BidResponse struct {
	Phase    game.Phase `json:"phase"`
	Accepted bool       `json:"accepted"`
}
