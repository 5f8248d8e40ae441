package platform

import "strings"

// PowerPlan is one of the fixed power plans the service can activate.
type PowerPlan string

const (
	PlanBalanced   PowerPlan = "balanced"
	PlanHigh       PowerPlan = "high"
	PlanPowerSaver PowerPlan = "power_saver"
)

// PowerPlans lists the supported plans in display order.
var PowerPlans = []PowerPlan{PlanBalanced, PlanHigh, PlanPowerSaver}

// ParsePowerPlan resolves a plan name case-insensitively.
func ParsePowerPlan(name string) (PowerPlan, bool) {
	plan := PowerPlan(strings.ToLower(strings.TrimSpace(name)))
	for _, p := range PowerPlans {
		if p == plan {
			return p, true
		}
	}

	return "", false
}

// Scheme returns the platform identifier for the plan on this OS.
func (p PowerPlan) Scheme() string {
	return planSchemes[p]
}
