package ancillary

import (
	"testing"
	"time"

	"github.com/cepro/copplanner/cop"
)

func TestApply(t *testing.T) {

	hourEnding := mustParseTime("2025-08-12T18:00:00-05:00")

	basePlan := cop.Plan{
		Hours: []cop.PlanHour{
			{
				HourEnding: hourEnding,
				Status:     cop.StatusOn,
				TargetMW:   50,
				SOCMin:     0,
			},
		},
	}

	type subTest struct {
		name           string
		commitment     Commitment
		expectedStatus cop.ResourceStatus
		expectedTarget float64
		expectedSOCMin float64
	}

	subTests := []subTest{
		{
			name:           "Regulation zeroes the energy target",
			commitment:     Commitment{RegulationMW: 20},
			expectedStatus: cop.StatusOnReg,
			expectedTarget: 0,
			expectedSOCMin: 0,
		},
		{
			name:           "RRS reserves one hour of energy",
			commitment:     Commitment{RRSMW: 30},
			expectedStatus: cop.StatusOnRR,
			expectedTarget: 50,
			expectedSOCMin: 30,
		},
		{
			name:           "ECRS reserves two hours of energy",
			commitment:     Commitment{ECRSMW: 25},
			expectedStatus: cop.StatusOnECRS,
			expectedTarget: 50,
			expectedSOCMin: 50,
		},
		{
			name:           "Regulation wins over RRS and ECRS",
			commitment:     Commitment{RegulationMW: 20, RRSMW: 30, ECRSMW: 25},
			expectedStatus: cop.StatusOnReg,
			expectedTarget: 0,
			expectedSOCMin: 0,
		},
		{
			name:           "RRS wins over ECRS",
			commitment:     Commitment{RRSMW: 30, ECRSMW: 25},
			expectedStatus: cop.StatusOnRR,
			expectedTarget: 50,
			expectedSOCMin: 30,
		},
		{
			name:           "Empty commitment leaves the hour alone",
			commitment:     Commitment{},
			expectedStatus: cop.StatusOn,
			expectedTarget: 50,
			expectedSOCMin: 0,
		},
	}
	for _, subTest := range subTests {
		t.Run(subTest.name, func(t *testing.T) {
			applied := Apply(basePlan, Commitments{hourEnding: subTest.commitment})

			hour := applied.HourAt(hourEnding)
			if hour.Status != subTest.expectedStatus {
				t.Errorf("Got status %v, expected %v", hour.Status, subTest.expectedStatus)
			}
			if hour.TargetMW != subTest.expectedTarget {
				t.Errorf("Got target %v, expected %v", hour.TargetMW, subTest.expectedTarget)
			}
			if hour.SOCMin != subTest.expectedSOCMin {
				t.Errorf("Got SOC min %v, expected %v", hour.SOCMin, subTest.expectedSOCMin)
			}
		})
	}
}

func TestApplyDoesNotMutateOriginal(t *testing.T) {

	hourEnding := mustParseTime("2025-08-12T18:00:00-05:00")
	plan := cop.Plan{
		Hours: []cop.PlanHour{
			{HourEnding: hourEnding, Status: cop.StatusOn, TargetMW: 50},
		},
	}

	Apply(plan, Commitments{hourEnding: {RegulationMW: 10}})

	if plan.Hours[0].Status != cop.StatusOn || plan.Hours[0].TargetMW != 50 {
		t.Errorf("Apply modified the original plan: %+v", plan.Hours[0])
	}
}

func TestApplyRaisesButNeverLowersSOCMin(t *testing.T) {

	hourEnding := mustParseTime("2025-08-12T18:00:00-05:00")
	plan := cop.Plan{
		Hours: []cop.PlanHour{
			{HourEnding: hourEnding, Status: cop.StatusOn, SOCMin: 40},
		},
	}

	applied := Apply(plan, Commitments{hourEnding: {RRSMW: 30}})
	if socMin := applied.Hours[0].SOCMin; socMin != 40 {
		t.Errorf("Got SOC min %v, expected the existing 40 to be kept", socMin)
	}
}

// mustParseTime returns the time.Time associated with the given string or panics.
func mustParseTime(str string) time.Time {
	time, err := time.Parse(time.RFC3339, str)
	if err != nil {
		panic(err)
	}
	return time
}
