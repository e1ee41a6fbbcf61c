// Package generator builds hourly Current Operating Plans for a battery
// resource. A plan is generated from either a fixed diurnal pattern or a
// price forecast, its SOC trajectory is computed, and any physically
// infeasible hour-to-hour transitions are repaired in place so that the plan
// is always deliverable. The independent validator package re-audits the
// result.
package generator

import (
	"time"

	"github.com/cepro/copplanner/ancillary"
	"github.com/cepro/copplanner/cop"
	"github.com/cepro/copplanner/resource"
	timeutils "github.com/cepro/copplanner/time_utils"
)

// Price thresholds ($/MWh) for the forecast-driven mode. The comparisons are
// strict, so a price sitting exactly on a threshold falls through to the next
// band: 80 is a partial discharge, 50 and 25 are holds.
const (
	dischargePriceThreshold        = 80
	partialDischargePriceThreshold = 50
	chargePriceThreshold           = 25
)

const partialDischargeFraction = 0.5

// Inputs carries the optional external data for a generation run. The zero
// value produces the default diurnal plan.
type Inputs struct {
	// Prices maps hour-ending timestamps to forecast energy prices in $/MWh.
	// When nil the fixed diurnal pattern is used instead. Hours missing from
	// the map are planned as holds.
	Prices map[time.Time]float64

	// Commitments holds ancillary service awards to overlay onto the plan.
	Commitments ancillary.Commitments

	// InitialSOC is the SOC at the start of the horizon in MWh. When nil the
	// resource is assumed to sit at half of its maximum SOC.
	InitialSOC *float64
}

// Generate builds a Current Operating Plan for the given resource covering
// `horizonHours` clock hours starting at `start`. A non-positive horizon
// defaults to cop.DefaultHorizonHours.
//
// Generation never fails on infeasible inputs: an over-ambitious pattern or
// forecast is repaired to the physical limits of the resource. The only error
// is an *resource.InvalidProfileError for a non-physical profile.
func Generate(profile resource.Profile, start time.Time, horizonHours int, inputs Inputs) (cop.Plan, error) {

	if err := profile.Validate(); err != nil {
		return cop.Plan{}, err
	}

	if horizonHours <= 0 {
		horizonHours = cop.DefaultHorizonHours
	}

	// Plain == is used for map lookups on time.Time keys, which also compares
	// the location. Normalising the keys to UTC makes the lookups location
	// independent.
	prices := make(map[time.Time]float64, len(inputs.Prices))
	for t, price := range inputs.Prices {
		prices[t.UTC()] = price
	}

	plan := cop.Plan{
		ResourceID:    profile.ID,
		ResourceName:  profile.Name,
		GeneratedTime: time.Now(),
		Hours:         make([]cop.PlanHour, horizonHours),
	}

	for i, hourEnding := range timeutils.HourEndings(start, horizonHours) {
		hour := &plan.Hours[i]
		hour.HourEnding = hourEnding
		hour.Status = cop.StatusOn
		hour.HSL = profile.HSL()
		hour.LSL = profile.LSL()

		if inputs.Prices != nil {
			planHourForPrice(hour, profile, prices)
		} else {
			planHourDefault(hour, profile)
		}
	}

	initialSOC := profile.MaxSOC * 0.5
	if inputs.InitialSOC != nil {
		initialSOC = *inputs.InitialSOC
	}
	calculateSOCTrajectory(&plan, profile, initialSOC)

	if inputs.Commitments != nil {
		plan = ancillary.Apply(plan, inputs.Commitments)
	}

	enforcePlanFeasibility(&plan, profile)

	applyStaticFields(&plan, profile)

	return plan, nil
}

// planHourDefault fills in the mode and power target for one hour of the
// fixed diurnal pattern: charge overnight, hold through the morning, and
// discharge into the afternoon peak.
func planHourDefault(hour *cop.PlanHour, profile resource.Profile) {

	// The pattern is keyed on the hour of day in which the energy flows, i.e.
	// the hour beginning.
	hourOfDay := hour.HourEnding.Add(-time.Hour).Hour()

	switch {
	case hourOfDay < 6:
		hour.Mode = cop.ModeCharge
		hour.TargetMW = profile.LSL() * 0.8
	case hourOfDay < 10:
		hour.Mode = cop.ModeHold
		hour.TargetMW = 0
	case hourOfDay >= 14 && hourOfDay < 20:
		hour.Mode = cop.ModeDischarge
		hour.TargetMW = profile.HSL() * 0.9
	default:
		hour.Mode = cop.ModeHold
		hour.TargetMW = 0
	}
}

// planHourForPrice fills in the mode and power target for one hour using the
// threshold bands on the forecast price. Hours without a forecast are held.
func planHourForPrice(hour *cop.PlanHour, profile resource.Profile, prices map[time.Time]float64) {

	price, ok := prices[hour.HourEnding.UTC()]
	if !ok {
		hour.Mode = cop.ModeHold
		hour.TargetMW = 0
		return
	}

	switch {
	case price > dischargePriceThreshold:
		hour.Mode = cop.ModeDischarge
		hour.TargetMW = profile.HSL()
	case price < chargePriceThreshold:
		hour.Mode = cop.ModeCharge
		hour.TargetMW = profile.LSL()
	case price > partialDischargePriceThreshold:
		hour.Mode = cop.ModeDischarge
		hour.TargetMW = profile.HSL() * partialDischargeFraction
	default:
		hour.Mode = cop.ModeHold
		hour.TargetMW = 0
	}
}

// calculateSOCTrajectory walks the power targets forward from the initial SOC
// and records the hour-beginning SOC of every hour, along with the working
// SOC bracket that one hour of full charge or discharge could reach.
func calculateSOCTrajectory(plan *cop.Plan, profile resource.Profile, initialSOC float64) {

	for i := range plan.Hours {
		hour := &plan.Hours[i]

		if i == 0 {
			hour.SOCBegin = initialSOC
		} else {
			prevTarget := plan.Hours[i-1].TargetMW
			socChange := 0.0
			switch {
			case prevTarget > 0: // discharging
				socChange = -prevTarget
			case prevTarget < 0: // charging, less the round trip losses
				socChange = -prevTarget * profile.RoundTripEfficiency
			}
			hour.SOCBegin = plan.Hours[i-1].SOCBegin + socChange
		}

		hour.SOCMin, hour.SOCMax = socBracket(profile, hour.SOCBegin)
	}
}

// socBracket is the working SOC range reachable from `socBegin` within one
// hour of full charge or discharge, clipped to the resource bounds.
func socBracket(profile resource.Profile, socBegin float64) (float64, float64) {
	socMin := max(profile.MinSOC, socBegin-profile.HSL())
	socMax := min(profile.MaxSOC, socBegin+(-profile.LSL())*profile.RoundTripEfficiency)
	return socMin, socMax
}

// applyStaticFields fills in the plan fields that are fixed for a storage
// resource: the emergency power envelope (equal to the sustained limits),
// ramp rates, auxiliary load and the resource/fuel typing the market operator
// expects.
func applyStaticFields(plan *cop.Plan, profile resource.Profile) {

	plan.ResourceType = "ESR"
	plan.FuelType = "BATTERY"

	for i := range plan.Hours {
		hour := &plan.Hours[i]
		hour.HEL = hour.HSL
		hour.LEL = hour.LSL
		hour.NormalRampUp = profile.RampUpMWPerMin
		hour.NormalRampDown = profile.RampDownMWPerMin
		hour.EmergencyRampUp = profile.RampUpMWPerMin * 1.5
		hour.EmergencyRampDown = profile.RampDownMWPerMin * 1.5
		hour.AuxLoadMW = profile.AuxLoadMW
	}
}

func max(a, b float64) float64 {
	if a > b {
		return a
	}
	return b
}

func min(a, b float64) float64 {
	if a < b {
		return a
	}
	return b
}
