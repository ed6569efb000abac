package game

import "errors"

var (
	// ErrNotFound is returned for unknown matches, users, and cards. The
	// Postgres backend maps its own no-rows error onto this sentinel.
	ErrNotFound = errors.New("not found")

	ErrMatchFull      = errors.New("match already has two players")
	ErrAlreadyInMatch = errors.New("player already seated in match")
	ErrNotInMatch     = errors.New("player is not a participant")

	// ErrCatalogIncomplete means the card catalog is missing a suit the
	// deal plan requires; nothing is dealt when it fires.
	ErrCatalogIncomplete = errors.New("card catalog incomplete")

	// ErrIncompleteRound means the resolver's preconditions do not hold:
	// fewer or more than one card at a bid or prize position.
	ErrIncompleteRound = errors.New("round not ready to resolve")
)
