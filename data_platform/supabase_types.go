package dataplatform

import (
	"time"

	"github.com/cepro/copplanner/repository"
	"github.com/google/uuid"
)

// supabasePlanRun holds the json encoding schema for a plan run in supabase.
type supabasePlanRun struct {
	ID               uuid.UUID `json:"id"`
	GeneratedTime    time.Time `json:"generated_time"`
	ResourceID       uuid.UUID `json:"resource_id"`
	ResourceName     string    `json:"resource_name"`
	HorizonHours     int       `json:"horizon_hours"`
	Valid            bool      `json:"valid"`
	ErrorCount       int       `json:"error_count"`
	WarningCount     int       `json:"warning_count"`
	Summary          string    `json:"summary"`
	SubmissionStatus string    `json:"submission_status"`
	SubmissionPlanID string    `json:"submission_plan_id"`
}

// supabasePlanHour holds the json encoding schema for one hourly plan record
// in supabase.
type supabasePlanHour struct {
	RunID      uuid.UUID `json:"run_id"`
	HourEnding time.Time `json:"hour_ending"`
	Status     string    `json:"status"`
	HSL        float64   `json:"hsl"`
	LSL        float64   `json:"lsl"`
	SOCBegin   float64   `json:"soc_begin"`
	SOCMin     float64   `json:"soc_min"`
	SOCMax     float64   `json:"soc_max"`
	TargetMW   float64   `json:"target_mw"`
	Mode       string    `json:"mode"`
}

func newSupabasePlanRun(run repository.StoredPlanRun) supabasePlanRun {
	return supabasePlanRun{
		ID:               run.ID,
		GeneratedTime:    run.GeneratedTime,
		ResourceID:       run.ResourceID,
		ResourceName:     run.ResourceName,
		HorizonHours:     run.HorizonHours,
		Valid:            run.Valid,
		ErrorCount:       run.ErrorCount,
		WarningCount:     run.WarningCount,
		Summary:          run.Summary,
		SubmissionStatus: run.SubmissionStatus,
		SubmissionPlanID: run.SubmissionPlanID,
	}
}

func convertPlanHours(hours []repository.StoredPlanHour) []supabasePlanHour {
	var supabaseHours []supabasePlanHour
	for _, hour := range hours {
		supabaseHours = append(supabaseHours, supabasePlanHour{
			RunID:      hour.RunID,
			HourEnding: hour.HourEnding,
			Status:     hour.Status,
			HSL:        hour.HSL,
			LSL:        hour.LSL,
			SOCBegin:   hour.SOCBegin,
			SOCMin:     hour.SOCMin,
			SOCMax:     hour.SOCMax,
			TargetMW:   hour.TargetMW,
			Mode:       hour.Mode,
		})
	}
	return supabaseHours
}
