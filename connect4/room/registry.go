package room

import (
	"math/rand"
	"sort"
	"strings"
	"sync"
	"time"
)

const (
	idLength   = 6
	idAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
)

// Registry maps room ids to live rooms. Its lock is never held while calling into a room.
type Registry struct {
	mu    sync.RWMutex
	rooms map[string]*Room
	rng   *rand.Rand
	opts  []Option
}

// NewRegistry returns an empty registry. opts are applied to every room it creates.
func NewRegistry(opts ...Option) *Registry {
	return &Registry{
		rooms: make(map[string]*Room),
		rng:   createLocalRandGenerator(),
		opts:  opts,
	}
}

// ValidTurnTime reports whether t is an allowed per-turn budget in seconds.
func ValidTurnTime(t int) bool {
	return t == 10 || t == 20 || t == 30
}

func (g *Registry) Create(turnTime int, practice bool, opts ...Option) (*Room, error) {
	if practice {
		turnTime = 0
	} else if !ValidTurnTime(turnTime) {
		return nil, ErrInvalidTurnTime
	}

	g.mu.Lock()
	defer g.mu.Unlock()

	id := g.newIDLocked()
	all := make([]Option, 0, len(g.opts)+len(opts))
	all = append(all, g.opts...)
	all = append(all, opts...)
	r := New(id, turnTime, practice, all...)
	g.rooms[id] = r
	return r, nil
}

func (g *Registry) newIDLocked() string {
	buf := make([]byte, idLength)
	for {
		for i := range buf {
			buf[i] = idAlphabet[g.rng.Intn(len(idAlphabet))]
		}
		id := string(buf)
		if _, exists := g.rooms[id]; !exists {
			return id
		}
	}
}

// Get looks up a room. The id is matched case-insensitively.
func (g *Registry) Get(id string) (*Room, error) {
	id = strings.ToUpper(strings.TrimSpace(id))

	g.mu.RLock()
	r, ok := g.rooms[id]
	g.mu.RUnlock()
	if !ok {
		return nil, ErrRoomNotFound
	}
	return r, nil
}

// Delete removes the room and closes it.
func (g *Registry) Delete(id string) bool {
	g.mu.Lock()
	r, ok := g.rooms[id]
	delete(g.rooms, id)
	g.mu.Unlock()

	if ok {
		r.Close()
	}
	return ok
}

func (g *Registry) Len() int {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return len(g.rooms)
}

// all returns the rooms sorted by creation time.
func (g *Registry) all() []*Room {
	g.mu.RLock()
	rooms := make([]*Room, 0, len(g.rooms))
	for _, r := range g.rooms {
		rooms = append(rooms, r)
	}
	g.mu.RUnlock()

	// IDと作成時刻は生成後に変わらないのでルームのロックは不要
	sort.Slice(rooms, func(i, j int) bool {
		a, b := rooms[i].CreatedAt(), rooms[j].CreatedAt()
		if a.Equal(b) {
			return rooms[i].ID() < rooms[j].ID()
		}
		return a.Before(b)
	})
	return rooms
}

// OpenRooms returns the room list entries, oldest first. Practice rooms are private.
func (g *Registry) OpenRooms() []Info {
	list := []Info{}
	for _, r := range g.all() {
		if r.Practice() {
			continue
		}
		list = append(list, r.Info())
	}
	return list
}

// IdleRooms returns rooms without activity for at least window.
func (g *Registry) IdleRooms(now time.Time, window time.Duration) []*Room {
	var idle []*Room
	for _, r := range g.all() {
		if r.IsIdle(now, window) {
			idle = append(idle, r)
		}
	}
	return idle
}
