package planner

import (
	"errors"
	"testing"
	"time"

	dataplatform "github.com/cepro/copplanner/data_platform"

	"github.com/cepro/copplanner/ancillary"
	"github.com/cepro/copplanner/cop"
	"github.com/cepro/copplanner/resource"
	"github.com/cepro/copplanner/submitter"
	timeutils "github.com/cepro/copplanner/time_utils"
	"github.com/google/uuid"
)

// MockForecastProvider returns canned prices and commitments, or errors.
type MockForecastProvider struct {
	prices      map[time.Time]float64
	commitments ancillary.Commitments
	err         error

	priceCalls int
}

func (m *MockForecastProvider) PriceForecast(resourceName string, period timeutils.Period) (map[time.Time]float64, error) {
	m.priceCalls++
	if m.err != nil {
		return nil, m.err
	}
	return m.prices, nil
}

func (m *MockForecastProvider) Commitments(resourceName string, period timeutils.Period) (ancillary.Commitments, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.commitments, nil
}

// MockSubmitter records the plan it was given.
type MockSubmitter struct {
	result submitter.Result
	err    error

	submittedPlans []cop.Plan
}

func (m *MockSubmitter) Submit(plan cop.Plan) (submitter.Result, error) {
	m.submittedPlans = append(m.submittedPlans, plan)
	return m.result, m.err
}

func testProfile() resource.Profile {
	return resource.Profile{
		ID:                  uuid.New(),
		Name:                "TEST_ESR_1",
		CapacityMW:          10,
		CapacityMWh:         200,
		RoundTripEfficiency: 0.9,
		RampUpMWPerMin:      5,
		RampDownMWPerMin:    5,
		MinSOC:              10,
		MaxSOC:              190,
	}
}

func mustParseTime(t *testing.T, timeStr string) time.Time {
	parsed, err := time.Parse(time.RFC3339, timeStr)
	if err != nil {
		t.Fatalf("Failed to parse time: %v", err)
	}
	return parsed
}

func newTestPlanner(forecast ForecastProvider, submitter SubmissionClient, runs chan dataplatform.PlanRun) *Planner {
	return New(Config{
		Profile:      testProfile(),
		HorizonHours: 24,
		Cutoff:       timeutils.ClockTime{Hour: 17, Minute: 0, Location: time.UTC},
		Forecast:     forecast,
		Submitter:    submitter,
		Runs:         runs,
	})
}

func TestRunCycleSubmitsValidPlan(t *testing.T) {
	forecast := &MockForecastProvider{}
	submission := &MockSubmitter{
		result: submitter.Result{Status: submitter.StatusSuccess, PlanID: "COP_1"},
	}
	runs := make(chan dataplatform.PlanRun, 1)
	planner := newTestPlanner(forecast, submission, runs)

	now := mustParseTime(t, "2024-06-10T12:00:00Z")
	run := planner.RunCycle(now)

	if len(submission.submittedPlans) != 1 {
		t.Fatalf("Expected 1 submission, got %d", len(submission.submittedPlans))
	}
	plan := submission.submittedPlans[0]
	wantStart := mustParseTime(t, "2024-06-11T01:00:00Z")
	if !plan.Hours[0].HourEnding.Equal(wantStart) {
		t.Errorf("Expected first hour ending %v, got %v", wantStart, plan.Hours[0].HourEnding)
	}
	if len(plan.Hours) != 24 {
		t.Errorf("Expected 24 hours, got %d", len(plan.Hours))
	}

	if !run.Report.Valid {
		t.Errorf("Expected a valid plan, got summary: %s", run.Report.Summary)
	}
	if run.Submission.Status != submitter.StatusSuccess {
		t.Errorf("Expected submission status %q, got %q", submitter.StatusSuccess, run.Submission.Status)
	}

	select {
	case buffered := <-runs:
		if buffered.Submission.PlanID != "COP_1" {
			t.Errorf("Expected buffered run with plan ID COP_1, got %q", buffered.Submission.PlanID)
		}
	default:
		t.Error("Expected the run to be pushed onto the runs channel")
	}
}

func TestRunCycleAfterCutoffDoesNotSubmit(t *testing.T) {
	forecast := &MockForecastProvider{}
	submission := &MockSubmitter{
		result: submitter.Result{Status: submitter.StatusSuccess},
	}
	runs := make(chan dataplatform.PlanRun, 1)
	planner := newTestPlanner(forecast, submission, runs)

	now := mustParseTime(t, "2024-06-10T17:00:00Z") // exactly at the cutoff
	run := planner.RunCycle(now)

	if len(submission.submittedPlans) != 0 {
		t.Errorf("Expected no submissions after the cutoff, got %d", len(submission.submittedPlans))
	}
	if run.Submission.Status != statusNotSubmittedLate {
		t.Errorf("Expected status %q, got %q", statusNotSubmittedLate, run.Submission.Status)
	}
	if !run.Report.Valid {
		t.Error("Expected the plan to still be generated and validated")
	}
	if len(runs) != 1 {
		t.Error("Expected the unsubmitted run to still be buffered")
	}
}

func TestRunCycleForecastFailureFallsBackToDefault(t *testing.T) {
	forecast := &MockForecastProvider{err: errors.New("connection refused")}
	submission := &MockSubmitter{
		result: submitter.Result{Status: submitter.StatusSuccess},
	}
	planner := newTestPlanner(forecast, submission, nil)

	run := planner.RunCycle(mustParseTime(t, "2024-06-10T12:00:00Z"))

	if len(submission.submittedPlans) != 1 {
		t.Fatalf("Expected the default-pattern plan to be submitted, got %d submissions", len(submission.submittedPlans))
	}
	if !run.Report.Valid {
		t.Errorf("Expected the default-pattern plan to validate, got summary: %s", run.Report.Summary)
	}

	// default pattern discharges in the evening peak
	plan := submission.submittedPlans[0]
	peakHour := plan.Hours[15] // hour beginning 15:00
	if peakHour.Mode != cop.ModeDischarge {
		t.Errorf("Expected discharge at hour beginning 15:00, got %q", peakHour.Mode)
	}
}

func TestRunCycleUsesForecastPrices(t *testing.T) {
	prices := map[time.Time]float64{}
	for i := 0; i < 24; i++ {
		prices[mustParseTime(t, "2024-06-11T00:00:00Z").Add(time.Duration(i+1)*time.Hour)] = 100.0
	}
	forecast := &MockForecastProvider{prices: prices}
	submission := &MockSubmitter{
		result: submitter.Result{Status: submitter.StatusSuccess},
	}
	planner := newTestPlanner(forecast, submission, nil)

	planner.RunCycle(mustParseTime(t, "2024-06-10T12:00:00Z"))

	if forecast.priceCalls != 1 {
		t.Fatalf("Expected 1 price forecast call, got %d", forecast.priceCalls)
	}
	plan := submission.submittedPlans[0]
	for i, hour := range plan.Hours {
		if hour.Mode == cop.ModeCharge {
			t.Errorf("Hour %d: expected no charging when prices are high, got %q", i, hour.Mode)
		}
	}
}

func TestRunCycleSubmitterError(t *testing.T) {
	forecast := &MockForecastProvider{}
	submission := &MockSubmitter{err: errors.New("gateway timeout")}
	planner := newTestPlanner(forecast, submission, nil)

	run := planner.RunCycle(mustParseTime(t, "2024-06-10T12:00:00Z"))

	if run.Submission.Status != statusNotSubmittedError {
		t.Errorf("Expected status %q, got %q", statusNotSubmittedError, run.Submission.Status)
	}
	if run.Submission.Message != "gateway timeout" {
		t.Errorf("Expected the submitter error in the message, got %q", run.Submission.Message)
	}
}

func TestRunCycleNoForecastProvider(t *testing.T) {
	submission := &MockSubmitter{
		result: submitter.Result{Status: submitter.StatusSuccess},
	}
	planner := newTestPlanner(nil, submission, nil)

	run := planner.RunCycle(mustParseTime(t, "2024-06-10T12:00:00Z"))

	if !run.Report.Valid {
		t.Errorf("Expected a valid default plan with no forecast provider, got: %s", run.Report.Summary)
	}
}
