package reconciler

import (
	"context"
	"time"
)

// SetWait replaces the poll sleep.
func (r *Reconciler) SetWait(wait func(ctx context.Context, d time.Duration) error) {
	r.wait = wait
}

// MatchesTarget exposes matchesTarget for tests.
var MatchesTarget = matchesTarget
