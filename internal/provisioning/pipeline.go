package provisioning

import (
	"fmt"
	"time"
)

// RunPhases executes all provisioning phases sequentially.
// The first failing phase stops the run.
func RunPhases(ctx *Context, phases []Phase) error {
	start := time.Now()
	ctx.Observer.Printf("Starting provisioning with %d phases...", len(phases))

	for i, phase := range phases {
		if err := ctx.Err(); err != nil {
			return fmt.Errorf("%s phase not started: %w", phase.Name(), err)
		}

		phaseStart := time.Now()
		LogPhaseStart(ctx.Observer, phase.Name())
		ctx.Observer.Progress(phase.Name(), i, len(phases))

		if err := phase.Provision(ctx); err != nil {
			LogPhaseFailed(ctx.Observer, phase.Name(), err)
			return fmt.Errorf("%s phase failed: %w", phase.Name(), err)
		}

		LogPhaseComplete(ctx.Observer, phase.Name(), time.Since(phaseStart))
	}

	ctx.Observer.Printf("Provisioning completed in %v", time.Since(start).Round(time.Millisecond))
	return nil
}
