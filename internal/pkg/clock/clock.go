package clock

import (
	"context"
	"time"
)

// Clock abstracts wall-clock reads and cooperative sleeps so command timing
// (ack polling, minimum-duration floors) can be tested without real delays.
type Clock interface {
	Now() time.Time

	// Sleep pauses for d or until ctx is cancelled, whichever comes first.
	Sleep(ctx context.Context, d time.Duration)
}

// Real is the production Clock backed by the time package.
type Real struct{}

var _ Clock = Real{}

func (Real) Now() time.Time { return time.Now() }

func (Real) Sleep(ctx context.Context, d time.Duration) {
	if d <= 0 {
		return
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-t.C:
	case <-ctx.Done():
	}
}
