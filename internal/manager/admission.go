package manager

import (
	"context"
	"time"
)

// holdSlot blocks until the in-flight token is free or ctx ends. The holder
// owns the predictor for the whole decode/bind/predict sequence, so no call
// observes another call's bound image. The returned func gives the token back.
func (m *Manager) holdSlot(ctx context.Context) (func(), error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	start := time.Now()
	select {
	case m.slot <- struct{}{}:
	default:
		zlog.Debug().Msg("segment waiting for in-flight slot")
		select {
		case m.slot <- struct{}{}:
		case <-ctx.Done():
			slotWait.Observe(time.Since(start).Seconds())
			return nil, ctx.Err()
		}
	}
	slotWait.Observe(time.Since(start).Seconds())
	return func() { <-m.slot }, nil
}
