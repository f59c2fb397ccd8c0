package room

import (
	"regexp"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistryCreate(t *testing.T) {
	g := NewRegistry(WithTickInterval(time.Hour))

	for _, tt := range []struct {
		name     string
		turnTime int
		practice bool
		want     int
		err      error
	}{
		{name: "10s", turnTime: 10, want: 10},
		{name: "30s", turnTime: 30, want: 30},
		{name: "invalid", turnTime: 15, err: ErrInvalidTurnTime},
		{name: "zero without practice", turnTime: 0, err: ErrInvalidTurnTime},
		{name: "practice ignores budget", turnTime: 20, practice: true, want: 0},
	} {
		t.Run(tt.name, func(t *testing.T) {
			r, err := g.Create(tt.turnTime, tt.practice)
			if tt.err != nil {
				assert.ErrorIs(t, err, tt.err)
				return
			}
			require.NoError(t, err)
			t.Cleanup(r.Close)
			assert.Equal(t, tt.want, r.Info().TurnTime)
			assert.Equal(t, tt.practice, r.Practice())
		})
	}
}

func TestRegistryIDs(t *testing.T) {
	g := NewRegistry()
	pattern := regexp.MustCompile(`^[A-Z0-9]{6}$`)

	seen := make(map[string]bool)
	for i := 0; i < 200; i++ {
		r, err := g.Create(30, false)
		require.NoError(t, err)
		assert.Regexp(t, pattern, r.ID())
		assert.False(t, seen[r.ID()])
		seen[r.ID()] = true
	}
	assert.Equal(t, 200, g.Len())
}

func TestRegistryGetAndDelete(t *testing.T) {
	g := NewRegistry()
	r, err := g.Create(20, false)
	require.NoError(t, err)

	got, err := g.Get(" " + strings.ToLower(r.ID()) + " ")
	require.NoError(t, err)
	assert.Same(t, r, got)

	assert.True(t, g.Delete(r.ID()))
	assert.False(t, g.Delete(r.ID()))

	_, err = g.Get(r.ID())
	assert.ErrorIs(t, err, ErrRoomNotFound)

	select {
	case <-r.Done():
	default:
		t.Fatal("deleted room was not closed")
	}
}

func TestRegistryOpenRooms(t *testing.T) {
	clock := newFakeClock()
	g := NewRegistry(WithNow(clock.Now))

	first, err := g.Create(10, false)
	require.NoError(t, err)
	clock.Advance(time.Second)
	_, err = g.Create(0, true)
	require.NoError(t, err)
	clock.Advance(time.Second)
	second, err := g.Create(30, false)
	require.NoError(t, err)

	_, err = first.AddPlayer("p1", "Alice")
	require.NoError(t, err)

	list := g.OpenRooms()
	require.Len(t, list, 2)
	assert.Equal(t, first.ID(), list[0].RoomID)
	assert.Equal(t, "Alice", list[0].HostNickname)
	assert.Equal(t, 1, list[0].PlayerCount)
	assert.Equal(t, second.ID(), list[1].RoomID)
	assert.Equal(t, 30, list[1].TurnTime)
}

func TestRegistryOpenRoomsWhileRoomsChange(t *testing.T) {
	clock := newFakeClock()
	g := NewRegistry(WithNow(clock.Now), WithTickInterval(time.Hour))
	first, err := g.Create(10, false)
	require.NoError(t, err)
	clock.Advance(time.Second)
	second, err := g.Create(20, false)
	require.NoError(t, err)
	t.Cleanup(first.Close)
	t.Cleanup(second.Close)

	var wg sync.WaitGroup
	for _, r := range []*Room{first, second} {
		wg.Add(1)
		go func(r *Room) {
			defer wg.Done()
			for i := 0; i < 100; i++ {
				_, _ = r.AddPlayer("p1", "Alice")
				_, _ = r.UpdateNickname("p1", "Alicia")
				_, _ = r.RemovePlayer("p1")
			}
		}(r)
	}
	for i := 0; i < 100; i++ {
		list := g.OpenRooms()
		require.Len(t, list, 2)
		assert.Equal(t, first.ID(), list[0].RoomID)
		assert.Equal(t, second.ID(), list[1].RoomID)
	}
	wg.Wait()
}

func TestRegistryOpenRoomsEmpty(t *testing.T) {
	g := NewRegistry()
	list := g.OpenRooms()
	assert.NotNil(t, list)
	assert.Empty(t, list)
}

func TestRegistryIdleRooms(t *testing.T) {
	clock := newFakeClock()
	g := NewRegistry(WithNow(clock.Now))

	old, err := g.Create(30, false)
	require.NoError(t, err)
	clock.Advance(20 * time.Minute)
	fresh, err := g.Create(30, false)
	require.NoError(t, err)
	clock.Advance(10 * time.Minute)

	idle := g.IdleRooms(clock.Now(), 30*time.Minute)
	require.Len(t, idle, 1)
	assert.Same(t, old, idle[0])

	_, err = old.AddPlayer("p1", "Alice")
	require.NoError(t, err)
	assert.Empty(t, g.IdleRooms(clock.Now(), 30*time.Minute))

	clock.Advance(20 * time.Minute)
	idle = g.IdleRooms(clock.Now(), 30*time.Minute)
	require.Len(t, idle, 1)
	assert.Same(t, fresh, idle[0])
}
