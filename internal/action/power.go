package action

import (
	"context"

	"codeberg.org/mutker/hostctl/internal/platform"
)

func (d *Dispatcher) registerPower() {
	d.register(&action{
		name:     "setPowerPlan",
		endpoint: "/setPowerPlan/{balanced|high|power_saver}",
		category: CategoryPowerPlan,
		detached: true,
		handler:  d.setPowerPlan,
	})

	for _, pa := range []platform.PowerAction{
		platform.ActionShutdown,
		platform.ActionRestart,
		platform.ActionSleep,
		platform.ActionLock,
		platform.ActionLogout,
	} {
		d.register(&action{
			name:     string(pa),
			endpoint: "/" + string(pa),
			category: CategoryPowerState,
			detached: true,
			handler:  d.transition(pa),
		})
	}
}

func (d *Dispatcher) setPowerPlan(ctx context.Context, req Request) Result {
	plan, ok := platform.ParsePowerPlan(req.Param("name"))
	if !ok {
		return Fail(KindBadRequest, "Unknown plan")
	}

	if err := d.deps.Power.SetPowerPlan(ctx, plan); err != nil {
		return classify(err)
	}

	if d.deps.Refresher != nil {
		d.deps.Refresher.Refresh()
	}

	return OK(Payload{"success": true, "activePlan": string(plan)})
}

// transition issues a power-state command and reports success once the
// command has exited cleanly.
func (d *Dispatcher) transition(pa platform.PowerAction) Handler {
	return func(ctx context.Context, _ Request) Result {
		if err := d.deps.Power.Transition(ctx, pa); err != nil {
			return classify(err)
		}

		return OK(Payload{"success": true, "action": string(pa)})
	}
}
