// Package validator audits a finished Current Operating Plan against the
// market operator's rules. It is deliberately independent of the generator:
// it re-derives the physical limits itself and reads the plan without
// modifying it, so a repair bug in generation shows up here as findings.
package validator

import (
	"fmt"
	"math"
	"sort"
	"strings"
	"time"

	"github.com/cepro/copplanner/cop"
	"github.com/cepro/copplanner/resource"
)

// socTolerance absorbs floating point rounding when comparing SOC transitions
// against the physical limits, in MWh.
const socTolerance = 0.01

// rampTolerance is the fractional allowance on hour-to-hour power moves
// before a ramp finding is raised.
const rampTolerance = 1.05

type Severity string

const (
	SeverityError   Severity = "ERROR"   // blocks submission
	SeverityWarning Severity = "WARNING" // informational only
)

// Finding types.
const (
	TypeSOCInfeasibleCharge    = "SOC_INFEASIBLE_CHARGE"
	TypeSOCInfeasibleDischarge = "SOC_INFEASIBLE_DISCHARGE"
	TypeSOCBelowMin            = "SOC_BELOW_MIN"
	TypeSOCAboveMax            = "SOC_ABOVE_MAX"
	TypeSOCMinInconsistent     = "SOC_MIN_INCONSISTENT"
	TypeSOCMaxInconsistent     = "SOC_MAX_INCONSISTENT"
	TypeRampRateExceeded       = "RAMP_RATE_EXCEEDED"
	TypeInsufficientSOCForRRS  = "INSUFFICIENT_SOC_FOR_RRS"
	TypeInsufficientSOCForECRS = "INSUFFICIENT_SOC_FOR_ECRS"
	TypeMissingFields          = "MISSING_FIELDS"
	TypeNullValues             = "NULL_VALUES"
	TypeNonContiguousHours     = "NON_CONTIGUOUS_HOURS"
	TypeInsufficientHorizon    = "INSUFFICIENT_HORIZON"
)

// Finding is one rule violation, located at the plan hour index it concerns.
// Plan-level findings use hour index -1.
type Finding struct {
	Hour     int
	Type     string
	Message  string
	Severity Severity
}

// Report is the outcome of validating one plan. Valid is true when there are
// no ERROR findings; warnings never block validity.
type Report struct {
	Valid    bool
	Errors   []Finding
	Warnings []Finding
	Summary  string
}

// Validate runs every check family over the plan and returns a fresh report.
// There is no short-circuiting: all findings from all families are collected
// so the caller can triage in one pass.
func Validate(plan cop.Plan, profile resource.Profile) Report {

	var findings []Finding
	findings = append(findings, checkSOCFeasibility(plan, profile)...)
	findings = append(findings, checkSOCBounds(plan, profile)...)
	findings = append(findings, checkRampRates(plan)...)
	findings = append(findings, checkASSufficiency(plan)...)
	findings = append(findings, checkCompleteness(plan)...)
	findings = append(findings, checkHorizon(plan)...)

	report := Report{}
	for _, finding := range findings {
		if finding.Severity == SeverityError {
			report.Errors = append(report.Errors, finding)
		} else {
			report.Warnings = append(report.Warnings, finding)
		}
	}
	report.Valid = len(report.Errors) == 0
	report.Summary = summarise(report)

	return report
}

// checkSOCFeasibility re-derives the maximum feasible charge and discharge
// for every hour-to-hour transition, exactly as the generator's repair step
// does, and flags stored trajectories that exceed them.
func checkSOCFeasibility(plan cop.Plan, profile resource.Profile) []Finding {

	var findings []Finding

	for i := 0; i < len(plan.Hours)-1; i++ {
		current := plan.Hours[i].SOCBegin

		maxCharge := min(-profile.LSL()*profile.RoundTripEfficiency, profile.MaxSOC-current)
		maxDischarge := min(profile.HSL(), current-profile.MinSOC)

		delta := plan.Hours[i+1].SOCBegin - current

		if delta > maxCharge+socTolerance {
			findings = append(findings, Finding{
				Hour:     i,
				Type:     TypeSOCInfeasibleCharge,
				Message:  fmt.Sprintf("hour %d: cannot charge %.1f MWh (max: %.1f)", i, delta, maxCharge),
				Severity: SeverityError,
			})
		} else if delta < -(maxDischarge + socTolerance) {
			findings = append(findings, Finding{
				Hour:     i,
				Type:     TypeSOCInfeasibleDischarge,
				Message:  fmt.Sprintf("hour %d: cannot discharge %.1f MWh (max: %.1f)", i, -delta, maxDischarge),
				Severity: SeverityError,
			})
		}
	}

	return findings
}

// checkSOCBounds verifies every hour's SOC against the hard resource bounds,
// and that the per-hour working bracket agrees with the planned SOC.
func checkSOCBounds(plan cop.Plan, profile resource.Profile) []Finding {

	var findings []Finding

	for i, hour := range plan.Hours {
		if hour.SOCBegin < profile.MinSOC {
			findings = append(findings, Finding{
				Hour:     i,
				Type:     TypeSOCBelowMin,
				Message:  fmt.Sprintf("hour %d: SOC %.1f below minimum %.1f", i, hour.SOCBegin, profile.MinSOC),
				Severity: SeverityError,
			})
		} else if hour.SOCBegin > profile.MaxSOC {
			findings = append(findings, Finding{
				Hour:     i,
				Type:     TypeSOCAboveMax,
				Message:  fmt.Sprintf("hour %d: SOC %.1f above maximum %.1f", i, hour.SOCBegin, profile.MaxSOC),
				Severity: SeverityError,
			})
		}

		if hour.SOCMin > hour.SOCBegin {
			findings = append(findings, Finding{
				Hour:     i,
				Type:     TypeSOCMinInconsistent,
				Message:  fmt.Sprintf("hour %d: working SOC min %.1f above planned SOC %.1f", i, hour.SOCMin, hour.SOCBegin),
				Severity: SeverityWarning,
			})
		}
		if hour.SOCMax < hour.SOCBegin {
			findings = append(findings, Finding{
				Hour:     i,
				Type:     TypeSOCMaxInconsistent,
				Message:  fmt.Sprintf("hour %d: working SOC max %.1f below planned SOC %.1f", i, hour.SOCMax, hour.SOCBegin),
				Severity: SeverityWarning,
			})
		}
	}

	return findings
}

// checkRampRates flags hour-to-hour power moves beyond the resource's normal
// ramp capability. Pairs with differing statuses are skipped: a status change
// is assumed to cover its own startup/shutdown ramping.
func checkRampRates(plan cop.Plan) []Finding {

	var findings []Finding

	for i := 0; i < len(plan.Hours)-1; i++ {
		current := plan.Hours[i]
		next := plan.Hours[i+1]

		if current.Status != next.Status {
			continue
		}

		move := math.Abs(next.TargetMW - current.TargetMW)
		maxRampPerHour := math.Max(current.NormalRampUp, current.NormalRampDown) * 60

		if move > maxRampPerHour*rampTolerance {
			findings = append(findings, Finding{
				Hour:     i,
				Type:     TypeRampRateExceeded,
				Message:  fmt.Sprintf("hour %d: ramp %.1f MW exceeds capability %.1f MW/hr", i, move, maxRampPerHour),
				Severity: SeverityWarning,
			})
		}
	}

	return findings
}

// checkASSufficiency verifies that hours committed to reserve products hold
// enough energy: one hour at HSL for responsive reserve, two for ECRS.
func checkASSufficiency(plan cop.Plan) []Finding {

	var findings []Finding

	for i, hour := range plan.Hours {
		switch hour.Status {
		case cop.StatusOnRR:
			required := hour.HSL * 1.0
			if hour.SOCBegin < required {
				findings = append(findings, Finding{
					Hour:     i,
					Type:     TypeInsufficientSOCForRRS,
					Message:  fmt.Sprintf("hour %d: SOC %.1f insufficient for RRS %.1f", i, hour.SOCBegin, required),
					Severity: SeverityWarning,
				})
			}
		case cop.StatusOnECRS:
			required := hour.HSL * 2.0
			if hour.SOCBegin < required {
				findings = append(findings, Finding{
					Hour:     i,
					Type:     TypeInsufficientSOCForECRS,
					Message:  fmt.Sprintf("hour %d: SOC %.1f insufficient for ECRS %.1f", i, hour.SOCBegin, required),
					Severity: SeverityWarning,
				})
			}
		}
	}

	return findings
}

// checkCompleteness verifies that every record carries the fields the market
// operator requires, and that the records form exactly one strictly
// increasing sequence of hour endings with no gaps or duplicates.
func checkCompleteness(plan cop.Plan) []Finding {

	var findings []Finding

	if len(plan.Hours) == 0 {
		return []Finding{{
			Hour:     -1,
			Type:     TypeMissingFields,
			Message:  "plan contains no hourly records",
			Severity: SeverityError,
		}}
	}

	for i, hour := range plan.Hours {
		if hour.HourEnding.IsZero() {
			findings = append(findings, Finding{
				Hour:     i,
				Type:     TypeNullValues,
				Message:  fmt.Sprintf("hour %d: missing hour ending", i),
				Severity: SeverityError,
			})
		}
		if hour.Status == "" {
			findings = append(findings, Finding{
				Hour:     i,
				Type:     TypeNullValues,
				Message:  fmt.Sprintf("hour %d: missing resource status", i),
				Severity: SeverityError,
			})
		}
		for _, field := range []struct {
			name  string
			value float64
		}{
			{"hsl", hour.HSL},
			{"lsl", hour.LSL},
			{"soc_begin", hour.SOCBegin},
			{"soc_min", hour.SOCMin},
			{"soc_max", hour.SOCMax},
			{"normal_ramp_up", hour.NormalRampUp},
			{"normal_ramp_down", hour.NormalRampDown},
		} {
			if math.IsNaN(field.value) {
				findings = append(findings, Finding{
					Hour:     i,
					Type:     TypeNullValues,
					Message:  fmt.Sprintf("hour %d: null value in required field %s", i, field.name),
					Severity: SeverityError,
				})
			}
		}
	}

	for i := 1; i < len(plan.Hours); i++ {
		gap := plan.Hours[i].HourEnding.Sub(plan.Hours[i-1].HourEnding)
		if gap != time.Hour {
			findings = append(findings, Finding{
				Hour:     i,
				Type:     TypeNonContiguousHours,
				Message:  fmt.Sprintf("hour %d: %s after the previous record, expected exactly one hour", i, gap),
				Severity: SeverityError,
			})
		}
	}

	return findings
}

// checkHorizon warns when the plan does not cover the full 7 day horizon.
// This is advisory only - short plans are accepted by the operator but will
// be padded with defaults on their side.
func checkHorizon(plan cop.Plan) []Finding {

	if len(plan.Hours) < cop.DefaultHorizonHours {
		return []Finding{{
			Hour:     -1,
			Type:     TypeInsufficientHorizon,
			Message:  fmt.Sprintf("plan contains %d hours, %d required for 7 days", len(plan.Hours), cop.DefaultHorizonHours),
			Severity: SeverityWarning,
		}}
	}
	return nil
}

// summarise builds the human readable one-liner for the report.
func summarise(report Report) string {

	if len(report.Errors) == 0 {
		return "COP validation PASSED - ready for submission"
	}

	seen := map[string]bool{}
	var types []string
	for _, finding := range report.Errors {
		if !seen[finding.Type] {
			seen[finding.Type] = true
			types = append(types, finding.Type)
		}
	}
	sort.Strings(types)

	return fmt.Sprintf("COP validation FAILED - %d errors: %s", len(report.Errors), strings.Join(types, ", "))
}

func min(a, b float64) float64 {
	if a < b {
		return a
	}
	return b
}
