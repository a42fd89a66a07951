// Package game implements the Whot room and turn state machine.
//
// The aggregate is Game: the roster, hands, draw and discard piles, whose
// turn it is, the pending special-card effect and the lifecycle status
// (waiting, in progress, finished).
//
// # Basic Usage
//
// Every transition takes a snapshot and returns the next one, or a sentinel
// error. The input snapshot is never modified:
//
//	g, _ := game.NewRoom("Friday night", "alice", 4)
//	g, _ = game.Join(g, "bob")
//	g, _ = game.Start(g, "alice", rng)
//	g, err := game.Play(g, "alice", whot.NewCard(whot.Star, 5), rng)
//	if errors.Is(err, game.ErrIllegalCard) {
//	    g, err = game.Draw(g, "alice", rng)
//	}
//
// # Concurrency
//
// Transitions are pure and synchronous. Callers that share a room between
// goroutines or processes must serialize read-transition-write per room;
// the store package provides that guarantee.
//
// # Effects
//
// Rules.Effects selects how special cards behave. EffectsAdvisory records
// the effect on the snapshot for the next actor to see and otherwise ignores
// it. EffectsEnforced makes pick-N force a draw of N, hold-on keep the turn,
// and general market deal one card to every other player.
package game
