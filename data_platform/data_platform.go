// Package dataplatform handles the streaming of planning results to Supabase,
// where the ops dashboard reads them. Runs are buffered on disk in a SQLite
// database before being uploaded, so results survive restarts and network
// outages.
package dataplatform

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/cepro/copplanner/cop"
	"github.com/cepro/copplanner/repository"
	"github.com/cepro/copplanner/submitter"
	"github.com/cepro/copplanner/validator"

	supa "github.com/nedpals/supabase-go"
)

// uploadChunkLimit defines how many plan runs we handle per upload attempt
const uploadChunkLimit = 10

// PlanRun bundles the artefacts of one planning cycle for storage and upload.
type PlanRun struct {
	Plan       cop.Plan
	Report     validator.Report
	Submission submitter.Result
}

// DataPlatform buffers planning results on disk and uploads them to Supabase.
// Put finished plan runs onto the `Runs` channel.
type DataPlatform struct {
	Runs chan PlanRun

	repository *repository.Repository
	supaClient *supa.Client
}

func New(supabaseUrl, supabaseKey, schema, bufferRepositoryFilename string) (*DataPlatform, error) {

	supaClient := supa.CreateClient(supabaseUrl, supabaseKey)
	supaClient.DB.AddHeader("Accept-Profile", schema)
	supaClient.DB.AddHeader("Content-Profile", schema)

	repository, err := repository.New(bufferRepositoryFilename)
	if err != nil {
		return nil, fmt.Errorf("create repository: %w", err)
	}

	return &DataPlatform{
		Runs:       make(chan PlanRun, 5), // a small buffer to allow SQLite to catch up in case the disk is slow
		repository: repository,
		supaClient: supaClient,
	}, nil
}

// Run loops forever waiting for plan runs; when they are available they are
// buffered to SQLite and periodically uploaded. Exits when the context is
// cancelled.
func (d *DataPlatform) Run(ctx context.Context, uploadInterval time.Duration) {

	uploadTicker := time.NewTicker(uploadInterval)

	for {
		select {
		case <-ctx.Done():
			return
		case run := <-d.Runs:
			runID, err := d.repository.AddPlanRun(run.Plan, run.Report, run.Submission)
			if err != nil {
				slog.Error("failed to persist plan run", "error", err)
				continue
			}
			slog.Debug("Stored plan run", "run_id", runID)

		case <-uploadTicker.C:
			d.attemptUpload()
		}
	}
}

// attemptUpload attempts to upload buffered plan runs from the repository
// into Supabase.
func (d *DataPlatform) attemptUpload() {

	// first attempt to upload any new runs that have not been seen before,
	// then any that have already failed an upload at least once
	for _, fresh := range []bool{true, false} {
		runs, err := d.repository.GetPlanRuns(uploadChunkLimit, fresh)
		if err != nil {
			slog.Error("failed to query plan runs", "error", err, "fresh", fresh)
			continue
		}
		for _, run := range runs {
			err := d.handleRun(run)
			if err != nil {
				slog.Error("failed to handle plan run", "error", err, "run_id", run.ID)
			}
		}
	}
}

// handleRun attempts to upload the given run and its hourly records. If
// successful, it deletes the run from the database, if unsuccessful, it
// increments the 'upload attempt count' column and leaves the run for another
// time.
func (d *DataPlatform) handleRun(run repository.StoredPlanRun) error {

	hours, err := d.repository.GetPlanHours(run.ID)
	if err != nil {
		return fmt.Errorf("query plan hours: %w", err)
	}

	err = d.supaClient.DB.From("cop_runs").Insert([]supabasePlanRun{newSupabasePlanRun(run)}).Execute(nil)
	if err == nil && len(hours) > 0 {
		err = d.supaClient.DB.From("cop_plan_hours").Insert(convertPlanHours(hours)).Execute(nil)
	}
	if err != nil {
		incrementErr := d.repository.IncrementUploadAttemptCount(run)
		if incrementErr != nil {
			return fmt.Errorf("increment upload attempt count: %w", incrementErr)
		}
		return fmt.Errorf("upload run: %w", err)
	}

	err = d.repository.DeletePlanRun(run)
	if err != nil {
		return fmt.Errorf("delete uploaded run: %w", err)
	}

	slog.Info("Uploaded plan run", "run_id", run.ID, "hours", len(hours))
	return nil
}
