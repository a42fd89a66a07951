package server

import (
	"context"
	"io"
	"os"
	"slices"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/coder/quartz"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	"github.com/lox/whot/internal/game"
	"github.com/lox/whot/internal/store"
	"github.com/lox/whot/whot"
)

var testEpoch = time.Date(2026, 10, 18, 12, 0, 0, 0, time.UTC)

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	os.Exit(m.Run())
}

func quietLogger() *log.Logger {
	return log.NewWithOptions(io.Discard, log.Options{})
}

type testEnv struct {
	svc   *Service
	store *store.Memory
	clock *quartz.Mock
}

func newTestEnv(t *testing.T, opts ...ServiceOption) *testEnv {
	t.Helper()
	logger := quietLogger()
	clock := quartz.NewMock(t)
	clock.Set(testEpoch)
	st := store.NewMemory()
	opts = append([]ServiceOption{WithClock(clock), WithSeed(1)}, opts...)
	return &testEnv{
		svc:   NewService(st, NewHub(logger), logger, opts...),
		store: st,
		clock: clock,
	}
}

// seedNearlyFinished stores an in-progress two player game where alice can
// win by playing circle-3 on circle-7.
func (e *testEnv) seedNearlyFinished(t *testing.T, id string) *game.Game {
	t.Helper()
	alice := whot.MustParseCards("circle-3")
	bob := whot.MustParseCards("circle-4 square-5")
	discard := whot.MustParseCards("circle-7")

	held := slices.Concat(alice, bob, discard)
	draw := slices.DeleteFunc(whot.OrderedDeck(), func(c whot.Card) bool {
		return slices.Contains(held, c)
	})

	last := discard[0]
	g := &game.Game{
		ID:          id,
		RoomName:    "endgame",
		Host:        "alice",
		Players:     []string{"alice", "bob"},
		MaxPlayers:  2,
		Status:      game.InProgress,
		Hands:       map[string][]whot.Card{"alice": alice, "bob": bob},
		DrawPile:    draw,
		DiscardPile: discard,
		LastPlayed:  &last,
		CurrentTurn: "alice",
		CreatedAt:   testEpoch,
		StartedAt:   testEpoch,
	}
	require.NoError(t, g.Validate())
	g, err := e.store.Create(context.Background(), g)
	require.NoError(t, err)
	return g
}
