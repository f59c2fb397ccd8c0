package actions

import (
	"time"

	"go.uber.org/zap"
)

type sessionPurger interface {
	Purge() int
}

// ReapIdleRooms closes rooms idle for longer than the inactivity timeout,
// whatever their status, and returns how many were closed.
func (d *Dispatcher) ReapIdleRooms(now time.Time) int {
	idle := d.rooms.IdleRooms(now, d.opts.InactivityTimeout)
	for _, r := range idle {
		d.closeRoom(r, "inactive")
	}
	if len(idle) > 0 {
		d.logger.Info("Inactive rooms closed", zap.Int("rooms_deleted", len(idle)))
		d.broadcastRoomList()
	}

	if p, ok := d.sessions.(sessionPurger); ok {
		if n := p.Purge(); n > 0 {
			d.logger.Info("Expired sessions purged", zap.Int("sessions", n))
		}
	}
	return len(idle)
}
