package lifecycle

import (
	"context"
	"time"

	"github.com/rs/zerolog"
)

// SweepResult reports a legacy TTL sweep invocation.
type SweepResult struct {
	Success      bool   `json:"success"`
	DeletedCount int    `json:"deletedCount"`
	Message      string `json:"message"`
}

// LegacySweeper is the retired bulk TTL sweep. Unattended mass deletion of
// expired uploads proved too risky without the reconciliation pass, so the
// endpoint survives only as a reporting stub; the audit report's safe-to-delete
// bucket is the supported path.
type LegacySweeper struct {
	entries Ledger
	log     zerolog.Logger
	now     func() time.Time
}

// NewLegacySweeper creates the sweep stub.
func NewLegacySweeper(entries Ledger, log zerolog.Logger) *LegacySweeper {
	return &LegacySweeper{
		entries: entries,
		log:     log.With().Str("component", "legacy-sweeper").Logger(),
		now:     time.Now,
	}
}

// Sweep counts expired ledger entries and deletes nothing.
func (s *LegacySweeper) Sweep(ctx context.Context) (*SweepResult, error) {
	entries, err := s.entries.ListAll(ctx)
	if err != nil {
		return nil, err
	}

	expired := 0
	now := s.now()
	for _, e := range entries {
		if e.Expired(now) {
			expired++
		}
	}

	s.log.Warn().
		Int("expired", expired).
		Msg("legacy sweep invoked; bulk deletion is retired, use the audit report instead")

	return &SweepResult{
		Success:      true,
		DeletedCount: 0,
		Message:      "bulk TTL sweep is retired; review the audit report's safe-to-delete bucket and clean up per owner",
	}, nil
}
