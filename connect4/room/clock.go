package room

import (
	"context"
	"time"
)

// startClockLocked resets the turn countdown. Practice rooms have no clock.
func (r *Room) startClockLocked() {
	r.stopClockLocked()
	r.turnStartedAt = r.now()
	if r.practice || r.turnTime <= 0 || r.closed {
		return
	}

	ctx, cancel := context.WithCancel(r.ctx)
	r.clockCancel = cancel
	go r.runClock(ctx, r.clockGen, r.tick)
}

// stopClockLocked invalidates every running clock goroutine.
func (r *Room) stopClockLocked() {
	r.clockGen++
	if r.clockCancel != nil {
		r.clockCancel()
		r.clockCancel = nil
	}
}

func (r *Room) runClock(ctx context.Context, gen uint64, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if !r.onTick(gen) {
				return
			}
		}
	}
}

// onTick sends the remaining time and forfeits the current player at zero.
// It returns false once the clock should stop.
func (r *Room) onTick(gen uint64) bool {
	r.mu.Lock()
	// 世代が古いか対局中でなければ何もしない
	if gen != r.clockGen || r.status != StatusPlaying {
		r.mu.Unlock()
		return false
	}

	notifier := r.notifier
	remaining := r.remainingLocked()
	if remaining > 0 {
		r.mu.Unlock()
		notifier.TimeUpdate(r.id, remaining)
		return true
	}

	// 時間切れ：手番のプレイヤーの負け
	loserIdx := r.currentPlayer
	winnerIdx := (loserIdx + 1) % MaxPlayers
	if loserIdx >= len(r.players) || winnerIdx >= len(r.players) {
		r.mu.Unlock()
		return false
	}
	loser := r.players[loserIdx]
	winner := r.players[winnerIdx]
	r.winner = &winner
	r.status = StatusFinished
	r.stopClockLocked()
	r.touchLocked()
	state := r.snapshotLocked()
	r.mu.Unlock()

	notifier.TimeUpdate(r.id, 0)
	notifier.TimeOver(r.id, loser, winner, state)
	return false
}

// remainingLocked is the turn budget minus the whole seconds since the turn started.
func (r *Room) remainingLocked() int {
	if r.status != StatusPlaying || r.turnTime <= 0 || r.turnStartedAt.IsZero() {
		return r.turnTime
	}
	elapsed := int(r.now().Sub(r.turnStartedAt) / time.Second)
	return max(0, r.turnTime-elapsed)
}
