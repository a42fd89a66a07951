package server

import (
	"context"
	"errors"
	"net/http"

	"github.com/lox/whot/internal/game"
	"github.com/lox/whot/internal/store"
)

var (
	ErrMissingIdentity = errors.New("missing player identity")
	ErrInvalidRequest  = errors.New("invalid request")
)

type errorMapping struct {
	err    error
	status int
	code   string
}

// errorMappings is checked in order with errors.Is
var errorMappings = []errorMapping{
	{store.ErrNotFound, http.StatusNotFound, "not_found"},
	{ErrMissingIdentity, http.StatusUnauthorized, "missing_identity"},
	{ErrInvalidRequest, http.StatusBadRequest, "invalid_request"},
	{game.ErrInvalidRoomSize, http.StatusBadRequest, "invalid_room_size"},
	{game.ErrEmptyRoomName, http.StatusBadRequest, "empty_room_name"},
	{game.ErrInvalidPlayer, http.StatusBadRequest, "invalid_player"},
	{game.ErrRoomFull, http.StatusConflict, "room_full"},
	{game.ErrNotInRoom, http.StatusConflict, "not_in_room"},
	{game.ErrHostCannotLeave, http.StatusConflict, "host_cannot_leave"},
	{game.ErrNotHost, http.StatusConflict, "not_host"},
	{game.ErrNotEnoughPlayers, http.StatusConflict, "not_enough_players"},
	{game.ErrGameStarted, http.StatusConflict, "game_started"},
	{game.ErrGameNotStarted, http.StatusConflict, "game_not_started"},
	{game.ErrGameFinished, http.StatusConflict, "game_finished"},
	{game.ErrNotYourTurn, http.StatusConflict, "not_your_turn"},
	{game.ErrCardNotInHand, http.StatusConflict, "card_not_in_hand"},
	{game.ErrIllegalCard, http.StatusConflict, "illegal_card"},
	{game.ErrMustDraw, http.StatusConflict, "must_draw"},
	{game.ErrInsufficientCards, http.StatusConflict, "insufficient_cards"},
	{game.ErrNoCardsAvailable, http.StatusConflict, "no_cards_available"},
	{store.ErrConflict, http.StatusConflict, "conflict"},
	{context.DeadlineExceeded, http.StatusServiceUnavailable, "timeout"},
}

// classify maps an error to an HTTP status and a stable error code
func classify(err error) (int, string) {
	for _, m := range errorMappings {
		if errors.Is(err, m.err) {
			return m.status, m.code
		}
	}
	return http.StatusInternalServerError, "internal"
}
