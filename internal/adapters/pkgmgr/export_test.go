package pkgmgr

import (
	"context"
	"time"
)

// Backoff exposes backoff for tests.
var Backoff = backoff

// SetWait replaces the backoff sleep.
func (f *Factory) SetWait(wait func(ctx context.Context, d time.Duration) error) {
	f.wait = wait
}
