package submitter

import (
	"time"

	"github.com/cepro/copplanner/cop"
)

// copHourPayload holds the JSON encoding of one hourly COP record in the
// market operator's submission schema.
type copHourPayload struct {
	HourEnding            string  `json:"hour_ending"`
	ResourceName          string  `json:"resource_name"`
	ResourceStatus        string  `json:"resource_status"`
	HSL                   float64 `json:"hsl"`
	LSL                   float64 `json:"lsl"`
	HEL                   float64 `json:"hel"`
	LEL                   float64 `json:"lel"`
	NormalRampRateUp      float64 `json:"normal_ramp_rate_up"`
	NormalRampRateDown    float64 `json:"normal_ramp_rate_down"`
	EmergencyRampRateUp   float64 `json:"emergency_ramp_rate_up"`
	EmergencyRampRateDown float64 `json:"emergency_ramp_rate_down"`
	MinimumSOC            float64 `json:"minimum_soc"`
	MaximumSOC            float64 `json:"maximum_soc"`
	HourBeginningPlanned  float64 `json:"hour_beginning_planned_soc"`
}

type copSubmissionPayload struct {
	Submission copSubmissionBody `json:"cop_submission"`
}

type copSubmissionBody struct {
	QSEName        string           `json:"qse_name"`
	SubmissionTime string           `json:"submission_time"`
	COPData        []copHourPayload `json:"cop_data"`
}

// newPayload converts a plan into the operator's submission schema. The
// internal planning fields (target power and mode) are deliberately omitted.
func newPayload(plan cop.Plan, qseName string, submissionTime time.Time) copSubmissionPayload {

	data := make([]copHourPayload, len(plan.Hours))
	for i, hour := range plan.Hours {
		data[i] = copHourPayload{
			HourEnding:            hour.HourEnding.Format(time.RFC3339),
			ResourceName:          plan.ResourceName,
			ResourceStatus:        string(hour.Status),
			HSL:                   hour.HSL,
			LSL:                   hour.LSL,
			HEL:                   hour.HEL,
			LEL:                   hour.LEL,
			NormalRampRateUp:      hour.NormalRampUp,
			NormalRampRateDown:    hour.NormalRampDown,
			EmergencyRampRateUp:   hour.EmergencyRampUp,
			EmergencyRampRateDown: hour.EmergencyRampDown,
			MinimumSOC:            hour.SOCMin,
			MaximumSOC:            hour.SOCMax,
			HourBeginningPlanned:  hour.SOCBegin,
		}
	}

	return copSubmissionPayload{
		Submission: copSubmissionBody{
			QSEName:        qseName,
			SubmissionTime: submissionTime.Format(time.RFC3339),
			COPData:        data,
		},
	}
}
