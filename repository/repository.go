package repository

import (
	"fmt"

	"github.com/cepro/copplanner/cop"
	"github.com/cepro/copplanner/submitter"
	"github.com/cepro/copplanner/validator"
	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Repository stores planning cycles to the local file system (sqlite) before
// they are uploaded to the data platform.
type Repository struct {
	db *gorm.DB
}

func New(path string) (*Repository, error) {

	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	// Migrate the schema
	err = db.AutoMigrate(&StoredPlanRun{}, &StoredPlanHour{})
	if err != nil {
		return nil, fmt.Errorf("migrate database: %w", err)
	}

	return &Repository{
		db: db,
	}, nil
}

// AddPlanRun persists one planning cycle - the run summary and every hourly
// record - and returns the ID it was stored under.
func (r *Repository) AddPlanRun(plan cop.Plan, report validator.Report, submission submitter.Result) (uuid.UUID, error) {

	runID := uuid.New()

	result := r.db.Create(newStoredPlanRun(runID, plan, report, submission))
	if result.Error != nil {
		return uuid.Nil, result.Error
	}

	hours := newStoredPlanHours(runID, plan)
	if len(hours) > 0 {
		result = r.db.Create(&hours)
		if result.Error != nil {
			return uuid.Nil, result.Error
		}
	}

	return runID, nil
}

func (r *Repository) GetPlanRuns(limit int, fresh bool) ([]StoredPlanRun, error) {
	var runs []StoredPlanRun

	query := r.db.Limit(limit).Order("upload_attempt_count asc, generated_time desc")
	if fresh {
		query = query.Where("upload_attempt_count = ?", 0)
	} else {
		query = query.Where("upload_attempt_count > ?", 0)
	}
	result := query.Find(&runs)
	if result.Error != nil {
		return nil, result.Error
	}
	return runs, nil
}

func (r *Repository) GetPlanHours(runID uuid.UUID) ([]StoredPlanHour, error) {
	var hours []StoredPlanHour

	result := r.db.Where("run_id = ?", runID).Order("hour_ending asc").Find(&hours)
	if result.Error != nil {
		return nil, result.Error
	}
	return hours, nil
}

// DeletePlanRun removes a run and its hourly records once they have been
// uploaded.
func (r *Repository) DeletePlanRun(run StoredPlanRun) error {
	result := r.db.Where("run_id = ?", run.ID).Delete(&StoredPlanHour{})
	if result.Error != nil {
		return result.Error
	}
	result = r.db.Delete(&run)
	return result.Error
}

func (r *Repository) IncrementUploadAttemptCount(run StoredPlanRun) error {
	result := r.db.Model(&run).UpdateColumn("upload_attempt_count", gorm.Expr("upload_attempt_count + ?", 1))
	return result.Error
}
