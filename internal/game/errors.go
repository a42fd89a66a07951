package game

import "errors"

// Rejections returned by room and turn transitions. A transition that
// returns one of these has not modified any state.
var (
	ErrInvalidRoomSize   = errors.New("max players must be between 2 and 6")
	ErrEmptyRoomName     = errors.New("room name must not be empty")
	ErrInvalidPlayer     = errors.New("player identity must not be empty")
	ErrRoomFull          = errors.New("room is full")
	ErrNotInRoom         = errors.New("player is not in this room")
	ErrHostCannotLeave   = errors.New("host cannot leave the room")
	ErrNotHost           = errors.New("only the host can start the game")
	ErrNotEnoughPlayers  = errors.New("at least 2 players are required to start")
	ErrGameStarted       = errors.New("game has already started")
	ErrGameNotStarted    = errors.New("game has not started")
	ErrGameFinished      = errors.New("game already finished")
	ErrNotYourTurn       = errors.New("not your turn")
	ErrCardNotInHand     = errors.New("card is not in hand")
	ErrIllegalCard       = errors.New("card cannot be played on the last played card")
	ErrMustDraw          = errors.New("a pick effect is pending, player must draw")
	ErrInsufficientCards = errors.New("not enough cards to deal")
	ErrNoCardsAvailable  = errors.New("no cards available to draw")
)
