package game

import "errors"

// Game errors
var (
	ErrOutOfTurn     = errors.New("not this team's turn")
	ErrIllegalTarget = errors.New("target hex is not attackable")
	ErrUnknownHex    = errors.New("hex does not exist on the map")
	ErrCardNotInHand = errors.New("card is not in the team's hand")
	ErrUnknownCard   = errors.New("card is not in the catalog")
	ErrUnknownTeam   = errors.New("team does not exist")
	ErrHandFull      = errors.New("team's hand is full")
	ErrNoQuestion    = errors.New("question pool is empty")
	ErrGameOver      = errors.New("game is over")
)
