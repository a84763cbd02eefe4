package pipeline

import (
	"context"
	"fmt"

	"github.com/trackresolve/core/internal/external"
)

// ValidateDuration probes the downloaded file's actual duration and
// compares it against the bound release's expected duration. A delta
// beyond toleranceSec fails validation without touching the ledger,
// per §6/§7. expectedMs <= 0 skips the check (duration unknown at
// binding time).
func ValidateDuration(ctx context.Context, probe external.DurationProbe, path string, expectedMs int64, toleranceSec float64) error {
	if expectedMs <= 0 || probe == nil {
		return nil
	}

	actualMs, err := probe.ProbeDurationMs(ctx, path)
	if err != nil {
		return fmt.Errorf("pipeline: probing duration of %s: %w", path, err)
	}

	deltaMs := actualMs - expectedMs
	if deltaMs < 0 {
		deltaMs = -deltaMs
	}
	toleranceMs := int64(toleranceSec * 1000)
	if deltaMs > toleranceMs {
		return fmt.Errorf("pipeline: downloaded duration %dms differs from expected %dms by %dms, exceeds tolerance %dms",
			actualMs, expectedMs, deltaMs, toleranceMs)
	}
	return nil
}
