// Package planner runs the daily Current Operating Plan cycle for one
// resource: pull external forecasts, generate the plan, validate it, submit
// it before the market deadline and hand the results to the data platform.
package planner

import (
	"context"
	"log/slog"
	"time"

	dataplatform "github.com/cepro/copplanner/data_platform"

	"github.com/cepro/copplanner/ancillary"
	"github.com/cepro/copplanner/cop"
	"github.com/cepro/copplanner/generator"
	"github.com/cepro/copplanner/resource"
	"github.com/cepro/copplanner/submitter"
	timeutils "github.com/cepro/copplanner/time_utils"
	"github.com/cepro/copplanner/validator"
)

// ForecastProvider supplies the optional external inputs to plan generation.
type ForecastProvider interface {
	PriceForecast(resourceName string, period timeutils.Period) (map[time.Time]float64, error)
	Commitments(resourceName string, period timeutils.Period) (ancillary.Commitments, error)
}

// SubmissionClient submits a finished plan to the market operator.
type SubmissionClient interface {
	Submit(plan cop.Plan) (submitter.Result, error)
}

// Submission statuses used when a plan is not sent at all.
const (
	statusNotSubmittedInvalid = "NOT_SUBMITTED_INVALID"
	statusNotSubmittedLate    = "NOT_SUBMITTED_AFTER_CUTOFF"
	statusNotSubmittedError   = "NOT_SUBMITTED_ERROR"
)

type Config struct {
	Profile      resource.Profile
	HorizonHours int

	// Cutoff is the daily market deadline: plans generated after this clock
	// time are buffered but not submitted.
	Cutoff timeutils.ClockTime

	Forecast  ForecastProvider
	Submitter SubmissionClient

	// Finished runs are put onto this channel for buffering and upload.
	Runs chan<- dataplatform.PlanRun
}

// Planner owns the daily planning cycle for a single resource. Run one
// Planner per resource - they share nothing.
type Planner struct {
	config Config
	logger *slog.Logger
}

func New(config Config) *Planner {
	return &Planner{
		config: config,
		logger: slog.Default().With("resource", config.Profile.Name),
	}
}

// Run executes a planning cycle immediately and then once per `interval`,
// until the context is cancelled.
func (p *Planner) Run(ctx context.Context, interval time.Duration) {

	p.RunCycle(time.Now())

	ticker := time.NewTicker(interval)
	for {
		select {
		case <-ctx.Done():
			return
		case t := <-ticker.C:
			p.RunCycle(t)
		}
	}
}

// RunCycle performs one full planning cycle at time `now`: the plan covers
// the horizon starting at the next midnight. The finished run is always
// handed to the data platform, whether or not it was submitted.
func (p *Planner) RunCycle(now time.Time) dataplatform.PlanRun {

	profile := p.config.Profile
	start := timeutils.StartOfNextDay(now.In(p.config.Cutoff.Location))
	period := timeutils.Period{
		Start: start,
		End:   start.Add(time.Duration(p.config.HorizonHours) * time.Hour),
	}

	p.logger.Info("Starting planning cycle", "plan_start", start, "horizon_hours", p.config.HorizonHours)

	inputs := generator.Inputs{}
	if p.config.Forecast != nil {
		prices, err := p.config.Forecast.PriceForecast(profile.Name, period)
		if err != nil {
			// a missing forecast is not fatal: fall back to the default plan
			p.logger.Warn("Price forecast unavailable, using default pattern", "error", err)
		} else {
			inputs.Prices = prices
		}

		commitments, err := p.config.Forecast.Commitments(profile.Name, period)
		if err != nil {
			p.logger.Warn("AS awards unavailable, planning without commitments", "error", err)
		} else {
			inputs.Commitments = commitments
		}
	}

	plan, err := generator.Generate(profile, start, p.config.HorizonHours, inputs)
	if err != nil {
		p.logger.Error("Plan generation failed", "error", err)
		return dataplatform.PlanRun{}
	}

	report := validator.Validate(plan, profile)
	for _, finding := range report.Errors {
		p.logger.Error("Validation error", "hour", finding.Hour, "type", finding.Type, "message", finding.Message)
	}
	for _, finding := range report.Warnings {
		p.logger.Warn("Validation warning", "hour", finding.Hour, "type", finding.Type, "message", finding.Message)
	}
	p.logger.Info("Validated plan", "valid", report.Valid, "errors", len(report.Errors), "warnings", len(report.Warnings))

	run := dataplatform.PlanRun{
		Plan:       plan,
		Report:     report,
		Submission: p.submit(plan, report, now),
	}

	if p.config.Runs != nil {
		p.config.Runs <- run
	}

	return run
}

// submit sends the plan to the market operator, unless it is invalid or the
// daily cutoff has passed.
func (p *Planner) submit(plan cop.Plan, report validator.Report, now time.Time) submitter.Result {

	if !report.Valid {
		p.logger.Error("Plan failed validation, not submitting", "summary", report.Summary)
		return submitter.Result{Status: statusNotSubmittedInvalid, Message: report.Summary}
	}

	cutoff := p.config.Cutoff.OnDay(now)
	if !now.Before(cutoff) {
		p.logger.Warn("Daily submission cutoff has passed, not submitting", "cutoff", cutoff)
		return submitter.Result{Status: statusNotSubmittedLate, Message: "submission cutoff passed"}
	}

	result, err := p.config.Submitter.Submit(plan)
	if err != nil {
		p.logger.Error("Submission failed", "error", err)
		if result.Status == "" {
			result.Status = statusNotSubmittedError
			result.Message = err.Error()
		}
		return result
	}

	p.logger.Info("Submission complete", "status", result.Status, "plan_id", result.PlanID)
	return result
}
