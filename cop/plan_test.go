package cop

import (
	"testing"
	"time"
)

func TestHourAt(t *testing.T) {

	plan := Plan{
		Hours: []PlanHour{
			{HourEnding: mustParseTime("2025-08-12T01:00:00-05:00"), TargetMW: 10},
			{HourEnding: mustParseTime("2025-08-12T02:00:00-05:00"), TargetMW: 20},
		},
	}

	hour := plan.HourAt(mustParseTime("2025-08-12T02:00:00-05:00"))
	if hour == nil {
		t.Fatalf("Expected an hour, got nil")
	}
	if hour.TargetMW != 20 {
		t.Errorf("Got target %v, expected 20", hour.TargetMW)
	}

	if hour := plan.HourAt(mustParseTime("2025-08-12T03:00:00-05:00")); hour != nil {
		t.Errorf("Expected nil for a missing hour, got %+v", hour)
	}
}

func TestClone(t *testing.T) {

	plan := Plan{
		ResourceName: "BESS_WEST_100MW",
		Hours: []PlanHour{
			{HourEnding: mustParseTime("2025-08-12T01:00:00-05:00"), SOCBegin: 100},
		},
	}

	clone := plan.Clone()
	clone.Hours[0].SOCBegin = 50

	if plan.Hours[0].SOCBegin != 100 {
		t.Errorf("Mutating the clone changed the original plan")
	}
}

func TestSOCSequence(t *testing.T) {

	plan := Plan{
		Hours: []PlanHour{
			{SOCBegin: 100, TargetMW: 10},
			{SOCBegin: 90, TargetMW: -5},
			{SOCBegin: 95, TargetMW: 0},
		},
	}

	socs := plan.SOCSequence()
	expectedSocs := []float64{100, 90, 95}
	for i := range expectedSocs {
		if socs[i] != expectedSocs[i] {
			t.Errorf("Got SOC %v at index %d, expected %v", socs[i], i, expectedSocs[i])
		}
	}

	targets := plan.TargetSequence()
	expectedTargets := []float64{10, -5, 0}
	for i := range expectedTargets {
		if targets[i] != expectedTargets[i] {
			t.Errorf("Got target %v at index %d, expected %v", targets[i], i, expectedTargets[i])
		}
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
