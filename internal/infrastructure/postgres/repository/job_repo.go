package repository

import (
	"errors"
	"fmt"
	"time"

	"github.com/gigvault/escrow-service/internal/domain"
	"github.com/gigvault/escrow-service/internal/infrastructure/postgres/mappers"
	"github.com/gigvault/escrow-service/internal/infrastructure/postgres/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type DefaultJobRepository struct {
	db *gorm.DB
}

func NewDefaultJobRepository(db *gorm.DB) *DefaultJobRepository {
	return &DefaultJobRepository{db: db}
}

func (r *DefaultJobRepository) CreateJob(job *domain.Job) error {
	jobModel := mappers.ToGORMJob(job)
	if err := r.db.Create(jobModel).Error; err != nil {
		return err
	}
	return nil
}

func (r *DefaultJobRepository) GetJobByID(jobID string) (*domain.Job, error) {
	var jobModel models.JobModel
	if err := r.db.Preload("Milestones", func(db *gorm.DB) *gorm.DB {
		return db.Order("idx")
	}).First(&jobModel, "id = ?", jobID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.E(domain.KindNotFound, "job %s not found", jobID)
		}
		return nil, err
	}
	return mappers.ToDomainJob(&jobModel), nil
}

func (r *DefaultJobRepository) GetMilestone(jobID string, idx int) (*domain.Milestone, error) {
	var milestoneModel models.MilestoneModel
	if err := r.db.First(&milestoneModel, "job_id = ? AND idx = ?", jobID, idx).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.E(domain.KindNotFound, "milestone %d of job %s not found", idx, jobID)
		}
		return nil, err
	}
	return mappers.ToDomainMilestone(&milestoneModel), nil
}

func (r *DefaultJobRepository) GetJobsByParty(partyID string, page, limit int64) ([]*domain.Job, int64, error) {
	baseQuery := r.db.Model(&models.JobModel{}).
		Where("client_id = ? OR freelancer_id = ?", partyID, partyID)

	var total int64
	if err := baseQuery.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("count failed: %w", err)
	}

	var jobModels []models.JobModel
	offset := (page - 1) * limit
	if err := baseQuery.
		Preload("Milestones", func(db *gorm.DB) *gorm.DB {
			return db.Order("idx")
		}).
		Order("created_at DESC").
		Offset(int(offset)).Limit(int(limit)).
		Find(&jobModels).Error; err != nil {
		return nil, 0, err
	}

	jobs := make([]*domain.Job, len(jobModels))
	for i := range jobModels {
		jobs[i] = mappers.ToDomainJob(&jobModels[i])
	}
	return jobs, total, nil
}

func (r *DefaultJobRepository) UpdateJobStatus(jobID string, status domain.JobStatus) error {
	return r.db.Model(&models.JobModel{}).
		Where("id = ?", jobID).
		Update("status", string(status)).Error
}

// ProcessDeposit runs depositFn under the job row lock and flips the
// funds_deposited flag only when the ledger call succeeded.
func (r *DefaultJobRepository) ProcessDeposit(jobID string, depositFn func() error) error {
	tx := r.db.Begin()
	if tx.Error != nil {
		return tx.Error
	}
	defer func() {
		if rec := recover(); rec != nil {
			tx.Rollback()
			panic(rec)
		}
	}()

	var jobModel models.JobModel
	if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&jobModel, "id = ?", jobID).Error; err != nil {
		tx.Rollback()
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.E(domain.KindNotFound, "job %s not found", jobID)
		}
		return err
	}
	if jobModel.FundsDeposited {
		tx.Rollback()
		return domain.E(domain.KindAlreadyProcessed, "funds already deposited for job %s", jobID)
	}

	if depositFn != nil {
		if err := depositFn(); err != nil {
			tx.Rollback()
			return err
		}
	}

	if err := tx.Model(&models.JobModel{}).
		Where("id = ?", jobID).
		Update("funds_deposited", true).Error; err != nil {
		tx.Rollback()
		return fmt.Errorf("deposit flag write failed: %v: %w", err, domain.ErrReconcileRequired)
	}
	if err := tx.Commit().Error; err != nil {
		return fmt.Errorf("deposit commit failed: %v: %w", err, domain.ErrReconcileRequired)
	}
	return nil
}

func (r *DefaultJobRepository) UpdateMilestoneStatus(jobID string, idx int, status domain.MilestoneStatus) error {
	return r.db.Model(&models.MilestoneModel{}).
		Where("job_id = ? AND idx = ?", jobID, idx).
		Update("status", string(status)).Error
}

func (r *DefaultJobRepository) SetMilestoneSubmitted(jobID string, idx int, submissionRef string, submittedAt time.Time, pendingAuto bool) error {
	return r.db.Model(&models.MilestoneModel{}).
		Where("job_id = ? AND idx = ?", jobID, idx).
		Updates(map[string]any{
			"status":                string(domain.MilestoneSubmitted),
			"submission_ref":        submissionRef,
			"submitted_at":          submittedAt,
			"pending_auto_approval": pendingAuto,
		}).Error
}

// MarkMilestoneDisputed serializes against ProcessFinalize on the milestone
// row lock. Re-checking the status under the lock means a milestone that was
// paid out between the caller's read and this write is rejected instead of
// being regressed to DISPUTED, which would reopen it for a second payout.
func (r *DefaultJobRepository) MarkMilestoneDisputed(jobID string, idx int, dispute *domain.Dispute) error {
	tx := r.db.Begin()
	if tx.Error != nil {
		return tx.Error
	}
	defer func() {
		if rec := recover(); rec != nil {
			tx.Rollback()
			panic(rec)
		}
	}()

	var milestoneModel models.MilestoneModel
	if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&milestoneModel, "job_id = ? AND idx = ?", jobID, idx).Error; err != nil {
		tx.Rollback()
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.E(domain.KindNotFound, "milestone %d of job %s not found", idx, jobID)
		}
		return err
	}

	current := domain.MilestoneStatus(milestoneModel.Status)
	if current == domain.MilestoneCompleted || current == domain.MilestoneCancelled {
		tx.Rollback()
		return domain.E(domain.KindAlreadyProcessed, "milestone %d already settled as %s", idx, current)
	}
	if current != domain.MilestoneInProgress && current != domain.MilestoneSubmitted {
		tx.Rollback()
		return domain.E(domain.KindInvalidState, "milestone %d status is %s, cannot be disputed", idx, current)
	}

	var open int64
	if err := tx.Model(&models.DisputeModel{}).
		Where("milestone_id = ? AND resolved = false", milestoneModel.ID).
		Count(&open).Error; err != nil {
		tx.Rollback()
		return err
	}
	if open > 0 {
		tx.Rollback()
		return domain.E(domain.KindInvalidState, "milestone %d already has an open dispute", idx)
	}

	if err := tx.Create(mappers.ToGORMDispute(dispute)).Error; err != nil {
		tx.Rollback()
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return domain.E(domain.KindInvalidState, "milestone %d already has an open dispute", idx)
		}
		return err
	}
	if err := tx.Model(&models.MilestoneModel{}).
		Where("id = ?", milestoneModel.ID).
		Updates(map[string]any{
			"status":                string(domain.MilestoneDisputed),
			"pending_auto_approval": false,
		}).Error; err != nil {
		tx.Rollback()
		return err
	}
	if err := tx.Model(&models.JobModel{}).
		Where("id = ?", jobID).
		Update("status", string(domain.JobDisputed)).Error; err != nil {
		tx.Rollback()
		return err
	}
	return tx.Commit().Error
}

// ProcessFinalize is the two-phase pay-and-complete transition. The
// milestone row lock serializes concurrent finalize attempts; whichever
// caller loses the race sees AlreadyProcessed and pays nothing. A write
// failure after a successful transfer surfaces ErrReconcileRequired so the
// caller records it for manual reconciliation instead of paying again.
func (r *DefaultJobRepository) ProcessFinalize(req *domain.FinalizeRequest) error {
	tx := r.db.Begin()
	if tx.Error != nil {
		return tx.Error
	}
	defer func() {
		if rec := recover(); rec != nil {
			tx.Rollback()
			panic(rec)
		}
	}()

	var milestoneModel models.MilestoneModel
	if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&milestoneModel, "job_id = ? AND idx = ?", req.JobID, req.MilestoneIdx).Error; err != nil {
		tx.Rollback()
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.E(domain.KindNotFound, "milestone %d of job %s not found", req.MilestoneIdx, req.JobID)
		}
		return err
	}

	current := domain.MilestoneStatus(milestoneModel.Status)
	if current == domain.MilestoneCompleted || current == domain.MilestoneCancelled {
		tx.Rollback()
		return domain.E(domain.KindAlreadyProcessed, "milestone %d already settled as %s", req.MilestoneIdx, current)
	}

	expected := domain.MilestoneSubmitted
	if req.Source == domain.SourceDisputeResolution {
		expected = domain.MilestoneDisputed
	}
	if current != expected {
		tx.Rollback()
		if current == domain.MilestoneDisputed && req.Source == domain.SourceAutoApproval {
			return domain.E(domain.KindAlreadyProcessed, "milestone %d is disputed", req.MilestoneIdx)
		}
		return domain.E(domain.KindInvalidState, "milestone %d status is %s, expected %s", req.MilestoneIdx, current, expected)
	}

	if req.TransferFn != nil {
		if err := req.TransferFn(); err != nil {
			tx.Rollback()
			return err
		}
	}

	if err := tx.Model(&models.MilestoneModel{}).
		Where("id = ?", milestoneModel.ID).
		Updates(map[string]any{
			"status":                string(domain.MilestoneCompleted),
			"approved_at":           req.ApprovedAt,
			"pending_auto_approval": false,
		}).Error; err != nil {
		tx.Rollback()
		return fmt.Errorf("finalize status write failed: %v: %w", err, domain.ErrReconcileRequired)
	}
	if err := tx.Commit().Error; err != nil {
		return fmt.Errorf("finalize commit failed: %v: %w", err, domain.ErrReconcileRequired)
	}
	return nil
}

func (r *DefaultJobRepository) ResolveCancelMilestone(jobID string, idx int) error {
	tx := r.db.Begin()
	if tx.Error != nil {
		return tx.Error
	}
	defer func() {
		if rec := recover(); rec != nil {
			tx.Rollback()
			panic(rec)
		}
	}()

	var milestoneModel models.MilestoneModel
	if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&milestoneModel, "job_id = ? AND idx = ?", jobID, idx).Error; err != nil {
		tx.Rollback()
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.E(domain.KindNotFound, "milestone %d of job %s not found", idx, jobID)
		}
		return err
	}
	current := domain.MilestoneStatus(milestoneModel.Status)
	if current == domain.MilestoneCompleted || current == domain.MilestoneCancelled {
		tx.Rollback()
		return domain.E(domain.KindAlreadyProcessed, "milestone %d already settled as %s", idx, current)
	}
	if current != domain.MilestoneDisputed {
		tx.Rollback()
		return domain.E(domain.KindInvalidState, "milestone %d status is %s, expected DISPUTED", idx, current)
	}

	if err := tx.Model(&models.MilestoneModel{}).
		Where("id = ?", milestoneModel.ID).
		Updates(map[string]any{
			"status":                string(domain.MilestoneCancelled),
			"pending_auto_approval": false,
		}).Error; err != nil {
		tx.Rollback()
		return err
	}
	return tx.Commit().Error
}

func (r *DefaultJobRepository) CancelPendingMilestones(jobID string) error {
	return r.db.Model(&models.MilestoneModel{}).
		Where("job_id = ? AND status = ?", jobID, string(domain.MilestonePending)).
		Update("status", string(domain.MilestoneCancelled)).Error
}

func (r *DefaultJobRepository) CompleteJobIfSettled(jobID string) (bool, error) {
	completed := false
	err := r.db.Transaction(func(tx *gorm.DB) error {
		var jobModel models.JobModel
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&jobModel, "id = ?", jobID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return domain.E(domain.KindNotFound, "job %s not found", jobID)
			}
			return err
		}
		if domain.JobStatus(jobModel.Status) != domain.JobActive {
			return nil
		}

		var unsettled int64
		if err := tx.Model(&models.MilestoneModel{}).
			Where("job_id = ? AND status NOT IN ?", jobID,
				[]string{string(domain.MilestoneCompleted), string(domain.MilestoneCancelled)}).
			Count(&unsettled).Error; err != nil {
			return err
		}
		if unsettled > 0 {
			return nil
		}

		if err := tx.Model(&models.JobModel{}).
			Where("id = ?", jobID).
			Update("status", string(domain.JobCompleted)).Error; err != nil {
			return err
		}
		completed = true
		return nil
	})
	return completed, err
}

func (r *DefaultJobRepository) FindAutoApprovalCandidates(now time.Time, limit int) ([]*domain.AutoApprovalCandidate, error) {
	var milestoneModels []models.MilestoneModel
	if err := r.db.Model(&models.MilestoneModel{}).
		Joins("JOIN jobs ON jobs.id = milestones.job_id").
		Where("milestones.status = ?", string(domain.MilestoneSubmitted)).
		Where("milestones.pending_auto_approval = ?", true).
		Where("jobs.status = ?", string(domain.JobActive)).
		Where("milestones.submitted_at + (milestones.auto_approval_delay / 1000000000.0) * interval '1 second' <= ?", now).
		Where("NOT EXISTS (SELECT 1 FROM disputes WHERE disputes.milestone_id = milestones.id AND disputes.resolved = false)").
		Order("milestones.submitted_at").
		Limit(limit).
		Find(&milestoneModels).Error; err != nil {
		return nil, err
	}

	candidates := make([]*domain.AutoApprovalCandidate, len(milestoneModels))
	for i := range milestoneModels {
		candidates[i] = &domain.AutoApprovalCandidate{
			JobID:        milestoneModels[i].JobID,
			MilestoneID:  milestoneModels[i].ID,
			MilestoneIdx: milestoneModels[i].Idx,
			SubmittedAt:  *milestoneModels[i].SubmittedAt,
		}
	}
	return candidates, nil
}
