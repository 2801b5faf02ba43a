package usecase

import (
	"context"
	"strings"
	"time"

	"health-info-api/internal/converter"
	"health-info-api/internal/delivery/dto"
	"health-info-api/internal/domain/entity"
	"health-info-api/internal/domain/repository"
	"health-info-api/internal/service"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type EnrollmentUsecase interface {
	Create(ctx context.Context, actor Actor, req *dto.CreateEnrollmentRequest) (*dto.EnrollmentResponse, error)
	ListAll(ctx context.Context) ([]dto.EnrollmentResponse, error)
	ListByUser(ctx context.Context, actor Actor, userID string) ([]dto.EnrollmentResponse, error)
	ListByProgram(ctx context.Context, programID string) ([]dto.EnrollmentResponse, error)
	Get(ctx context.Context, actor Actor, id int64) (*dto.EnrollmentResponse, error)
	Update(ctx context.Context, actor Actor, id int64, req *dto.UpdateEnrollmentRequest) (*dto.EnrollmentResponse, error)
	Complete(ctx context.Context, actor Actor, id int64) (*dto.EnrollmentResponse, error)
	Delete(ctx context.Context, actor Actor, id int64) error
}

type enrollmentUsecase struct {
	db             *gorm.DB
	log            *logrus.Logger
	enrollmentRepo repository.EnrollmentRepository
	userRepo       repository.UserRepository
	programRepo    repository.HealthProgramRepository
	auditService   service.AuditService
	now            func() time.Time
}

func NewEnrollmentUsecase(
	db *gorm.DB,
	log *logrus.Logger,
	enrollmentRepo repository.EnrollmentRepository,
	userRepo repository.UserRepository,
	programRepo repository.HealthProgramRepository,
	auditService service.AuditService,
) EnrollmentUsecase {
	return &enrollmentUsecase{
		db:             db,
		log:            log,
		enrollmentRepo: enrollmentRepo,
		userRepo:       userRepo,
		programRepo:    programRepo,
		auditService:   auditService,
		now:            time.Now,
	}
}

// Create enrolls a user in an active program. The user defaults to the
// actor; only admins may enroll someone else.
func (u *enrollmentUsecase) Create(ctx context.Context, actor Actor, req *dto.CreateEnrollmentRequest) (*dto.EnrollmentResponse, error) {
	userID := strings.TrimSpace(req.UserID)
	if userID == "" {
		userID = actor.UserID
	}
	programID := strings.TrimSpace(req.ProgramID)
	if userID == "" || programID == "" {
		return nil, ErrMissingFields
	}
	if !actor.CanAccessUser(userID) {
		return nil, ErrAccessDenied
	}

	tx := u.db.WithContext(ctx).Begin()
	defer tx.Rollback()

	user, err := u.userRepo.FindByID(tx, userID)
	if err != nil {
		u.log.Warnf("Failed to find user: %+v", err)
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}

	program, err := u.programRepo.FindByID(tx, programID)
	if err != nil {
		u.log.Warnf("Failed to find program: %+v", err)
		return nil, err
	}
	if program == nil {
		return nil, ErrProgramNotFound
	}
	if !program.IsActive {
		return nil, ErrProgramInactive
	}

	existing, err := u.enrollmentRepo.FindByUserAndProgram(tx, userID, programID)
	if err != nil {
		u.log.Warnf("Failed to check enrollment: %+v", err)
		return nil, err
	}
	if existing != nil {
		return nil, ErrAlreadyEnrolled
	}

	now := u.now()
	enrollment := &entity.Enrollment{
		UserID:         userID,
		ProgramID:      programID,
		EnrolledAt:     now,
		Status:         entity.EnrollmentStatusActive,
		Progress:       0,
		Notes:          req.Notes,
		LastAccessedAt: &now,
	}

	if err := u.enrollmentRepo.Create(tx, enrollment); err != nil {
		if isDuplicateKeyError(err, "user_program") {
			return nil, ErrAlreadyEnrolled
		}
		if isForeignKeyError(err, "program") {
			return nil, ErrProgramNotFound
		}
		if isForeignKeyError(err, "user") {
			return nil, ErrUserNotFound
		}
		u.log.Warnf("Failed to create enrollment: %+v", err)
		return nil, err
	}

	if err := u.auditService.LogCreate(ctx, tx, actor.id(), entity.AuditActionEnrollmentCreate, "enrollment", formatID(enrollment.ID), map[string]interface{}{
		"user_id":    userID,
		"program_id": programID,
	}); err != nil {
		return nil, err
	}

	if err := tx.Commit().Error; err != nil {
		u.log.Warnf("Failed commit transaction: %+v", err)
		return nil, err
	}

	enrollment.Program = program
	return converter.EnrollmentToResponse(enrollment), nil
}

func (u *enrollmentUsecase) ListAll(ctx context.Context) ([]dto.EnrollmentResponse, error) {
	enrollments, err := u.enrollmentRepo.FindAll(u.db.WithContext(ctx))
	if err != nil {
		u.log.Warnf("Failed to list enrollments: %+v", err)
		return nil, err
	}
	return converter.EnrollmentsToResponses(enrollments), nil
}

func (u *enrollmentUsecase) ListByUser(ctx context.Context, actor Actor, userID string) ([]dto.EnrollmentResponse, error) {
	if !actor.CanAccessUser(userID) {
		return nil, ErrAccessDenied
	}

	enrollments, err := u.enrollmentRepo.FindByUserID(u.db.WithContext(ctx), userID)
	if err != nil {
		u.log.Warnf("Failed to list user enrollments: %+v", err)
		return nil, err
	}
	return converter.EnrollmentsToResponses(enrollments), nil
}

func (u *enrollmentUsecase) ListByProgram(ctx context.Context, programID string) ([]dto.EnrollmentResponse, error) {
	db := u.db.WithContext(ctx)

	program, err := u.programRepo.FindByID(db, programID)
	if err != nil {
		u.log.Warnf("Failed to find program: %+v", err)
		return nil, err
	}
	if program == nil {
		return nil, ErrProgramNotFound
	}

	enrollments, err := u.enrollmentRepo.FindByProgramID(db, programID)
	if err != nil {
		u.log.Warnf("Failed to list program enrollments: %+v", err)
		return nil, err
	}
	return converter.EnrollmentsToResponses(enrollments), nil
}

func (u *enrollmentUsecase) Get(ctx context.Context, actor Actor, id int64) (*dto.EnrollmentResponse, error) {
	enrollment, err := u.findOwned(u.db.WithContext(ctx), actor, id)
	if err != nil {
		return nil, err
	}
	return converter.EnrollmentToResponse(enrollment), nil
}

// findOwned loads an enrollment the actor is allowed to see.
func (u *enrollmentUsecase) findOwned(db *gorm.DB, actor Actor, id int64) (*entity.Enrollment, error) {
	enrollment, err := u.enrollmentRepo.FindByID(db, id)
	if err != nil {
		u.log.Warnf("Failed to find enrollment: %+v", err)
		return nil, err
	}
	if enrollment == nil {
		return nil, ErrEnrollmentNotFound
	}
	if !actor.CanAccessUser(enrollment.UserID) {
		return nil, ErrAccessDenied
	}
	return enrollment, nil
}

// Update changes status, progress or notes of an enrollment that is not yet
// completed. Every update refreshes lastAccessedAt.
func (u *enrollmentUsecase) Update(ctx context.Context, actor Actor, id int64, req *dto.UpdateEnrollmentRequest) (*dto.EnrollmentResponse, error) {
	if req.Progress != nil && (*req.Progress < 0 || *req.Progress > 100) {
		return nil, ErrInvalidProgress
	}
	if req.Status != nil && *req.Status != entity.EnrollmentStatusActive && *req.Status != entity.EnrollmentStatusInactive {
		return nil, ErrInvalidStatus
	}

	tx := u.db.WithContext(ctx).Begin()
	defer tx.Rollback()

	enrollment, err := u.findOwned(tx.Clauses(clause.Locking{Strength: "UPDATE"}), actor, id)
	if err != nil {
		return nil, err
	}
	if enrollment.IsCompleted() {
		return nil, ErrEnrollmentCompleted
	}

	fields := map[string]interface{}{
		"last_accessed_at": u.now(),
	}
	if req.Status != nil {
		fields["status"] = *req.Status
	}
	if req.Progress != nil {
		fields["progress"] = *req.Progress
	}
	if req.Notes != nil {
		fields["notes"] = *req.Notes
	}

	if err := u.enrollmentRepo.Update(tx, id, fields); err != nil {
		u.log.Warnf("Failed to update enrollment: %+v", err)
		return nil, err
	}

	if err := u.auditService.LogUpdate(ctx, tx, actor.id(), entity.AuditActionEnrollmentUpdate, "enrollment", formatID(id),
		map[string]interface{}{"status": enrollment.Status, "progress": enrollment.Progress},
		fields,
	); err != nil {
		return nil, err
	}

	if err := tx.Commit().Error; err != nil {
		u.log.Warnf("Failed commit transaction: %+v", err)
		return nil, err
	}

	return u.reload(ctx, id)
}

// Complete marks the enrollment completed with full progress. Completing an
// already completed enrollment stamps it again.
func (u *enrollmentUsecase) Complete(ctx context.Context, actor Actor, id int64) (*dto.EnrollmentResponse, error) {
	tx := u.db.WithContext(ctx).Begin()
	defer tx.Rollback()

	enrollment, err := u.findOwned(tx, actor, id)
	if err != nil {
		return nil, err
	}

	now := u.now()
	fields := map[string]interface{}{
		"status":           entity.EnrollmentStatusCompleted,
		"progress":         100,
		"completed_at":     now,
		"last_accessed_at": now,
	}

	if err := u.enrollmentRepo.Update(tx, id, fields); err != nil {
		u.log.Warnf("Failed to complete enrollment: %+v", err)
		return nil, err
	}

	if err := u.auditService.LogUpdate(ctx, tx, actor.id(), entity.AuditActionEnrollmentComplete, "enrollment", formatID(id),
		map[string]interface{}{"status": enrollment.Status, "progress": enrollment.Progress},
		fields,
	); err != nil {
		return nil, err
	}

	if err := tx.Commit().Error; err != nil {
		u.log.Warnf("Failed commit transaction: %+v", err)
		return nil, err
	}

	return u.reload(ctx, id)
}

func (u *enrollmentUsecase) Delete(ctx context.Context, actor Actor, id int64) error {
	tx := u.db.WithContext(ctx).Begin()
	defer tx.Rollback()

	enrollment, err := u.findOwned(tx, actor, id)
	if err != nil {
		return err
	}

	rows, err := u.enrollmentRepo.Delete(tx, id)
	if err != nil {
		u.log.Warnf("Failed to delete enrollment: %+v", err)
		return err
	}
	if rows == 0 {
		return ErrEnrollmentNotFound
	}

	if err := u.auditService.LogDelete(ctx, tx, actor.id(), entity.AuditActionEnrollmentDelete, "enrollment", formatID(id), map[string]interface{}{
		"user_id":    enrollment.UserID,
		"program_id": enrollment.ProgramID,
		"status":     enrollment.Status,
		"progress":   enrollment.Progress,
	}); err != nil {
		return err
	}

	if err := tx.Commit().Error; err != nil {
		u.log.Warnf("Failed commit transaction: %+v", err)
		return err
	}

	return nil
}

func (u *enrollmentUsecase) reload(ctx context.Context, id int64) (*dto.EnrollmentResponse, error) {
	enrollment, err := u.enrollmentRepo.FindByID(u.db.WithContext(ctx), id)
	if err != nil {
		u.log.Warnf("Failed to reload enrollment: %+v", err)
		return nil, err
	}
	if enrollment == nil {
		return nil, ErrEnrollmentNotFound
	}
	return converter.EnrollmentToResponse(enrollment), nil
}
