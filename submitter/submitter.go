// Package submitter sends validated Current Operating Plans to the market
// operator's submission API. Enforcing the daily submission deadline is the
// caller's responsibility - this package only performs the exchange.
package submitter

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/cepro/copplanner/cop"
)

// Submission statuses.
const (
	StatusSuccess     = "SUCCESS"
	StatusTestSuccess = "TEST_SUCCESS"
	StatusError       = "ERROR"
)

// Result is the outcome of one submission attempt. PlanID is the operator's
// opaque identifier for the accepted plan.
type Result struct {
	Status      string
	Message     string
	PlanID      string
	SubmittedAt time.Time
}

// Client submits COPs to the market operator on behalf of one QSE.
type Client struct {
	httpClient http.Client
	endpoint   string
	apiKey     string
	qseName    string
	testMode   bool // when true, submissions are validated and logged but never sent

	logger *slog.Logger
}

// submitResponse is the JSON body returned by the operator on a successful
// submission.
type submitResponse struct {
	COPID string `json:"cop_id"`
}

func New(httpClient http.Client, endpoint, apiKey, qseName string, testMode bool) *Client {
	return &Client{
		httpClient: httpClient,
		endpoint:   endpoint,
		apiKey:     apiKey,
		qseName:    qseName,
		testMode:   testMode,
		logger:     slog.Default().With("endpoint", endpoint, "qse", qseName),
	}
}

// Submit sends the given plan to the operator and returns the outcome. In
// test mode the payload is built and logged but nothing leaves the process.
func (c *Client) Submit(plan cop.Plan) (Result, error) {

	now := time.Now()
	payload := newPayload(plan, c.qseName, now)

	if c.testMode {
		result := Result{
			Status:      StatusTestSuccess,
			Message:     "COP validated and ready for submission (test mode)",
			PlanID:      fmt.Sprintf("TEST_%s", now.Format("20060102150405")),
			SubmittedAt: now,
		}
		c.logger.Info("Test mode submission", "plan_id", result.PlanID, "hours", len(plan.Hours))
		return result, nil
	}

	payloadData, err := json.Marshal(payload)
	if err != nil {
		return Result{}, fmt.Errorf("marshal: %w", err)
	}

	req, err := http.NewRequest("POST", c.endpoint, bytes.NewBuffer(payloadData))
	if err != nil {
		return Result{}, err
	}
	req.Header.Set("Authorization", fmt.Sprintf("Bearer %s", c.apiKey))
	req.Header.Set("Content-Type", "application/json")

	response, err := c.httpClient.Do(req)
	if err != nil {
		return Result{}, fmt.Errorf("post cop: %w", err)
	}
	defer response.Body.Close()

	if response.StatusCode != 200 {
		return Result{
			Status:      StatusError,
			Message:     fmt.Sprintf("submission failed: %d", response.StatusCode),
			SubmittedAt: now,
		}, fmt.Errorf("unexpected status code: %d", response.StatusCode)
	}

	parsedResponse := submitResponse{}
	err = json.NewDecoder(response.Body).Decode(&parsedResponse)
	if err != nil {
		return Result{}, fmt.Errorf("parse body: %w", err)
	}

	result := Result{
		Status:      StatusSuccess,
		Message:     "COP submitted successfully",
		PlanID:      parsedResponse.COPID,
		SubmittedAt: now,
	}
	c.logger.Info("Submitted COP", "plan_id", result.PlanID, "hours", len(plan.Hours))

	return result, nil
}
