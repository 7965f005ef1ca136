package enrichment

import (
	"context"

	"github.com/jonathan/vendor-enricher/internal/logging"
	"github.com/jonathan/vendor-enricher/internal/types"
)

// DefaultLowWaterMark is the remaining-credit count that raises the low quota signal.
const DefaultLowWaterMark = 1

// QuotaPolicy decides when the remaining registry credits are worth a warning.
type QuotaPolicy struct {
	LowWaterMark int
	// AlertOnZero also raises the low signal once a window is exhausted.
	AlertOnZero bool
}

// Check inspects the hour and day counters. It only observes and logs; the
// result never changes the outcome of a run.
func (p QuotaPolicy) Check(ctx context.Context, q *types.Quota) types.QuotaSignal {
	log := logging.FromContext(ctx)
	if q == nil {
		log.Error().Msg("Could not get credits information")
		return types.QuotaUnknown
	}

	mark := p.LowWaterMark
	if mark <= 0 {
		mark = DefaultLowWaterMark
	}

	low := q.Hour == mark || q.Day == mark
	if p.AlertOnZero && (q.Hour == 0 || q.Day == 0) {
		low = true
	}
	if low {
		log.Warn().
			Int("day", q.Day).
			Int("hour", q.Hour).
			Msg("LOW CREDITS! Check service frequency!")
		return types.QuotaLow
	}

	log.Info().
		Int("month", q.Month).
		Int("day", q.Day).
		Int("hour", q.Hour).
		Msg("Credits left")
	return types.QuotaOK
}
