package server

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lox/whot/internal/game"
)

func snapshot(id string, version uint64) *game.Game {
	return &game.Game{ID: id, Version: version}
}

func TestHubDeliversToRoomSubscribers(t *testing.T) {
	t.Parallel()
	h := NewHub(quietLogger())
	a, cancelA := h.Subscribe("a")
	defer cancelA()
	b, cancelB := h.Subscribe("b")
	defer cancelB()

	h.Publish(snapshot("a", 1))

	require.Len(t, a, 1)
	assert.Equal(t, uint64(1), (<-a).Version)
	assert.Empty(t, b)
}

func TestHubSlowSubscriberGetsLatest(t *testing.T) {
	t.Parallel()
	h := NewHub(quietLogger())
	ch, cancel := h.Subscribe("room")
	defer cancel()

	const published = subscriberBuffer + 5
	for v := uint64(1); v <= published; v++ {
		h.Publish(snapshot("room", v))
	}

	var got []uint64
	for len(ch) > 0 {
		got = append(got, (<-ch).Version)
	}
	require.Len(t, got, subscriberBuffer)
	assert.Equal(t, uint64(published), got[len(got)-1])
	assert.IsIncreasing(t, got)
}

func TestHubIgnoresStaleSnapshots(t *testing.T) {
	t.Parallel()
	h := NewHub(quietLogger())
	ch, cancel := h.Subscribe("room")
	defer cancel()

	h.Publish(snapshot("room", 3))
	h.Publish(snapshot("room", 2))
	h.Publish(snapshot("room", 3))

	require.Len(t, ch, 1)
	assert.Equal(t, uint64(3), (<-ch).Version)
}

func TestHubForgetsFinishedRooms(t *testing.T) {
	t.Parallel()
	h := NewHub(quietLogger())
	ch, cancel := h.Subscribe("room")
	defer cancel()

	h.Publish(snapshot("room", 1))
	h.Publish(snapshot("other", 1))
	final := snapshot("room", 2)
	final.Status = game.Finished
	h.Publish(final)

	require.Len(t, ch, 2)
	assert.Equal(t, uint64(1), (<-ch).Version)
	assert.Equal(t, game.Finished, (<-ch).Status)

	h.mu.Lock()
	defer h.mu.Unlock()
	assert.NotContains(t, h.latest, "room")
	assert.Contains(t, h.latest, "other")
}

func TestHubPublishesCopies(t *testing.T) {
	t.Parallel()
	h := NewHub(quietLogger())
	ch, cancel := h.Subscribe("room")
	defer cancel()

	g := &game.Game{ID: "room", Version: 1, Players: []string{"alice"}}
	h.Publish(g)
	g.Players[0] = "mallory"
	assert.Equal(t, "alice", (<-ch).Players[0])
}

func TestHubUnsubscribe(t *testing.T) {
	t.Parallel()
	h := NewHub(quietLogger())
	ch, cancel := h.Subscribe("room")
	assert.Equal(t, 1, h.Subscribers("room"))

	cancel()
	cancel()
	assert.Equal(t, 0, h.Subscribers("room"))
	_, ok := <-ch
	assert.False(t, ok)

	h.Publish(snapshot("room", 1))
}

func TestHubClose(t *testing.T) {
	t.Parallel()
	h := NewHub(quietLogger())
	ch, cancel := h.Subscribe("room")
	h.Close()
	_, ok := <-ch
	assert.False(t, ok)
	cancel()

	late, _ := h.Subscribe("room")
	_, ok = <-late
	assert.False(t, ok)
}
