package ancillary

import (
	"time"

	"github.com/cepro/copplanner/cop"
)

// Commitment holds the ancillary service awards for one resource in one hour.
// All values are MW of awarded capacity.
type Commitment struct {
	RegulationMW float64 // regulation (treated as energy neutral)
	RRSMW        float64 // responsive reserve, requires 1 hour of held energy
	ECRSMW       float64 // ECRS, requires 2 hours of held energy
}

// Commitments maps hour-ending timestamps to the awards for that hour.
type Commitments map[time.Time]Commitment

// overlayRule adjusts one plan hour for one ancillary service product.
type overlayRule struct {
	name        string
	committedMW func(Commitment) float64
	apply       func(hour *cop.PlanHour, mw float64)
}

// overlayRules is the product priority order. When an hour has awards for
// several products only the first matching rule is applied, so regulation
// takes precedence over RRS, which takes precedence over ECRS.
var overlayRules = []overlayRule{
	{
		name:        "regulation",
		committedMW: func(c Commitment) float64 { return c.RegulationMW },
		apply: func(hour *cop.PlanHour, mw float64) {
			// Regulation is symmetric around zero, so the energy plan for the
			// hour is neutral.
			hour.Status = cop.StatusOnReg
			hour.TargetMW = 0
		},
	},
	{
		name:        "responsive_reserve",
		committedMW: func(c Commitment) float64 { return c.RRSMW },
		apply: func(hour *cop.PlanHour, mw float64) {
			// Hold one hour of energy at the awarded MW.
			hour.Status = cop.StatusOnRR
			hour.SOCMin = max(hour.SOCMin, mw)
		},
	},
	{
		name:        "ecrs",
		committedMW: func(c Commitment) float64 { return c.ECRSMW },
		apply: func(hour *cop.PlanHour, mw float64) {
			// ECRS requires two hours of held energy.
			hour.Status = cop.StatusOnECRS
			hour.SOCMin = max(hour.SOCMin, mw*2)
		},
	},
}

// Apply overlays the given ancillary service commitments onto a copy of the
// plan and returns it. Hours without a commitment are untouched. The original
// plan is not modified.
func Apply(plan cop.Plan, commitments Commitments) cop.Plan {

	applied := plan.Clone()

	// Plain == is used for the map lookups on time.Time keys, which also
	// compares the location. Normalising the keys to UTC makes the lookups
	// location independent.
	byHour := make(Commitments, len(commitments))
	for t, commitment := range commitments {
		byHour[t.UTC()] = commitment
	}

	for i := range applied.Hours {
		hour := &applied.Hours[i]

		commitment, ok := byHour[hour.HourEnding.UTC()]
		if !ok {
			continue
		}

		for _, rule := range overlayRules {
			mw := rule.committedMW(commitment)
			if mw > 0 {
				rule.apply(hour, mw)
				break
			}
		}
	}

	return applied
}

func max(a, b float64) float64 {
	if a > b {
		return a
	}
	return b
}
