package traverse

import (
	"context"
	"sync/atomic"
)

// Control is the cooperative cancellation flag checked by Loop.
type Control interface {
	Active() bool
}

// Token is a Control that stays active until Stop is called. It is safe to
// stop from another goroutine.
type Token struct {
	stopped atomic.Bool
}

// NewToken returns an active token.
func NewToken() *Token { return &Token{} }

// Stop deactivates the token.
func (t *Token) Stop() { t.stopped.Store(true) }

// Active reports whether Stop has not been called yet.
func (t *Token) Active() bool { return !t.stopped.Load() }

type always struct{}

func (always) Active() bool { return true }

// Always returns a Control that never turns inactive.
func Always() Control { return always{} }

type ctxControl struct {
	ctx context.Context
	ctl Control
}

func (c ctxControl) Active() bool {
	return c.ctx.Err() == nil && c.ctl.Active()
}

// WithContext returns a Control that turns inactive when ctx is done or when
// ctl does. A nil ctl only follows ctx.
func WithContext(ctx context.Context, ctl Control) Control {
	if ctl == nil {
		ctl = Always()
	}
	return ctxControl{ctx: ctx, ctl: ctl}
}
