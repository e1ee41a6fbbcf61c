package repository

import (
	"time"

	"github.com/cepro/copplanner/cop"
	"github.com/cepro/copplanner/submitter"
	"github.com/cepro/copplanner/validator"
	"github.com/google/uuid"
)

// StoredPlanRun represents one planning cycle that is persisted to the SQLite
// database, and includes a count of upload attempts.
type StoredPlanRun struct {
	ID            uuid.UUID `gorm:"primaryKey"`
	GeneratedTime time.Time
	ResourceID    uuid.UUID
	ResourceName  string
	HorizonHours  int
	Valid         bool
	ErrorCount    int
	WarningCount  int
	Summary       string

	SubmissionStatus string
	SubmissionPlanID string

	UploadAttemptCount uint
}

// StoredPlanHour represents one hourly record of a stored plan run.
type StoredPlanHour struct {
	ID         uint      `gorm:"primaryKey;autoIncrement"`
	RunID      uuid.UUID `gorm:"index"`
	HourEnding time.Time
	Status     string
	HSL        float64
	LSL        float64
	SOCBegin   float64
	SOCMin     float64
	SOCMax     float64
	TargetMW   float64
	Mode       string
}

func newStoredPlanRun(id uuid.UUID, plan cop.Plan, report validator.Report, submission submitter.Result) StoredPlanRun {
	return StoredPlanRun{
		ID:                 id,
		GeneratedTime:      plan.GeneratedTime,
		ResourceID:         plan.ResourceID,
		ResourceName:       plan.ResourceName,
		HorizonHours:       len(plan.Hours),
		Valid:              report.Valid,
		ErrorCount:         len(report.Errors),
		WarningCount:       len(report.Warnings),
		Summary:            report.Summary,
		SubmissionStatus:   submission.Status,
		SubmissionPlanID:   submission.PlanID,
		UploadAttemptCount: 0,
	}
}

func newStoredPlanHours(runID uuid.UUID, plan cop.Plan) []StoredPlanHour {
	hours := make([]StoredPlanHour, len(plan.Hours))
	for i, hour := range plan.Hours {
		hours[i] = StoredPlanHour{
			RunID:      runID,
			HourEnding: hour.HourEnding,
			Status:     string(hour.Status),
			HSL:        hour.HSL,
			LSL:        hour.LSL,
			SOCBegin:   hour.SOCBegin,
			SOCMin:     hour.SOCMin,
			SOCMax:     hour.SOCMax,
			TargetMW:   hour.TargetMW,
			Mode:       string(hour.Mode),
		}
	}
	return hours
}
