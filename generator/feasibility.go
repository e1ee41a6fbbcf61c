package generator

import (
	"log/slog"

	"github.com/cepro/copplanner/cop"
	"github.com/cepro/copplanner/resource"
)

// EnforceFeasibility repairs an hourly SOC sequence so that every transition
// is achievable within the resource's charge and discharge limits.
//
// For each adjacent pair of hours the maximum feasible charge and discharge
// are computed from the power limits, the round trip efficiency and the SOC
// headroom. A transition beyond either limit is clamped and the offending
// hour's power target forced to the corresponding full-power limit. Finally
// every SOC is clipped into [MinSOC, MaxSOC].
//
// This is a repair, not a rejection: the returned sequences are always
// feasible. The function is idempotent - running it on an already feasible
// sequence returns it unchanged.
func EnforceFeasibility(socs, targets []float64, profile resource.Profile) ([]float64, []float64) {

	repairedSocs := make([]float64, len(socs))
	copy(repairedSocs, socs)
	repairedTargets := make([]float64, len(targets))
	copy(repairedTargets, targets)

	for i := 0; i < len(repairedSocs)-1; i++ {
		current := repairedSocs[i]

		maxCharge := min(-profile.LSL()*profile.RoundTripEfficiency, profile.MaxSOC-current)
		maxDischarge := min(profile.HSL(), current-profile.MinSOC)

		delta := repairedSocs[i+1] - current

		if delta > maxCharge {
			repairedSocs[i+1] = current + maxCharge
			if i < len(repairedTargets) {
				repairedTargets[i] = profile.LSL()
			}
			slog.Debug("Repaired infeasible charge transition", "hour", i+1, "delta", delta, "max_charge", maxCharge)
		} else if delta < -maxDischarge {
			repairedSocs[i+1] = current - maxDischarge
			if i < len(repairedTargets) {
				repairedTargets[i] = profile.HSL()
			}
			slog.Debug("Repaired infeasible discharge transition", "hour", i+1, "delta", delta, "max_discharge", maxDischarge)
		}
	}

	for i := range repairedSocs {
		if repairedSocs[i] < profile.MinSOC {
			repairedSocs[i] = profile.MinSOC
		} else if repairedSocs[i] > profile.MaxSOC {
			repairedSocs[i] = profile.MaxSOC
		}
	}

	return repairedSocs, repairedTargets
}

// enforcePlanFeasibility runs EnforceFeasibility over the plan's SOC
// trajectory and writes the repaired values back.
func enforcePlanFeasibility(plan *cop.Plan, profile resource.Profile) {

	socs, targets := EnforceFeasibility(plan.SOCSequence(), plan.TargetSequence(), profile)

	// The SOCMin/SOCMax columns are left as set by the trajectory and any
	// ancillary overlay: they record the intended working range (including
	// held-energy floors), not the repaired trajectory.
	for i := range plan.Hours {
		plan.Hours[i].SOCBegin = socs[i]
		plan.Hours[i].TargetMW = targets[i]
	}
}
