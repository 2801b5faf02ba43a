package usecase

import (
	"context"
	"strings"

	"health-info-api/internal/converter"
	"health-info-api/internal/delivery/dto"
	"health-info-api/internal/domain/entity"
	"health-info-api/internal/domain/repository"
	"health-info-api/internal/service"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ProgramUsecase interface {
	Create(ctx context.Context, actor Actor, req *dto.CreateProgramRequest) (*dto.ProgramResponse, error)
	GetByID(ctx context.Context, programID string) (*dto.ProgramResponse, error)
	List(ctx context.Context, filter repository.ProgramFilter) ([]dto.ProgramResponse, error)
	ListActive(ctx context.Context) ([]dto.ProgramResponse, error)
	ListByDifficulty(ctx context.Context, difficulty string) ([]dto.ProgramResponse, error)
	Update(ctx context.Context, actor Actor, programID string, req *dto.UpdateProgramRequest) (*dto.ProgramResponse, error)
	Delete(ctx context.Context, actor Actor, programID string) error
	ToggleStatus(ctx context.Context, actor Actor, programID string) (*dto.ProgramResponse, error)
}

type programUsecase struct {
	db           *gorm.DB
	log          *logrus.Logger
	programRepo  repository.HealthProgramRepository
	auditService service.AuditService
	cache        *service.ProgramCache
}

// NewProgramUsecase wires the catalog. cache may be nil.
func NewProgramUsecase(
	db *gorm.DB,
	log *logrus.Logger,
	programRepo repository.HealthProgramRepository,
	auditService service.AuditService,
	cache *service.ProgramCache,
) ProgramUsecase {
	return &programUsecase{
		db:           db,
		log:          log,
		programRepo:  programRepo,
		auditService: auditService,
		cache:        cache,
	}
}

func (u *programUsecase) Create(ctx context.Context, actor Actor, req *dto.CreateProgramRequest) (*dto.ProgramResponse, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, ErrMissingFields
	}
	if req.Difficulty != nil && !entity.IsValidDifficulty(*req.Difficulty) {
		return nil, ErrInvalidDifficulty
	}

	program := &entity.HealthProgram{
		ProgramID:   newProgramID(),
		Name:        name,
		Description: req.Description,
		ImageURL:    req.ImageURL,
		Duration:    req.Duration,
		Difficulty:  req.Difficulty,
		IsActive:    true,
	}
	if req.IsActive != nil {
		program.IsActive = *req.IsActive
	}

	tx := u.db.WithContext(ctx).Begin()
	defer tx.Rollback()

	if err := u.programRepo.Create(tx, program); err != nil {
		u.log.Warnf("Failed to create program: %+v", err)
		return nil, err
	}

	if err := u.auditService.LogCreate(ctx, tx, actor.id(), entity.AuditActionProgramCreate, "health_program", program.ProgramID, program); err != nil {
		return nil, err
	}

	if err := tx.Commit().Error; err != nil {
		u.log.Warnf("Failed commit transaction: %+v", err)
		return nil, err
	}

	return converter.ProgramToResponse(program), nil
}

func (u *programUsecase) GetByID(ctx context.Context, programID string) (*dto.ProgramResponse, error) {
	if program, ok := u.cache.Get(ctx, programID); ok {
		return converter.ProgramToResponse(program), nil
	}

	version, cacheable := u.cache.Version(ctx, programID)
	program, err := u.programRepo.FindByID(u.db.WithContext(ctx), programID)
	if err != nil {
		u.log.Warnf("Failed to find program: %+v", err)
		return nil, err
	}
	if program == nil {
		return nil, ErrProgramNotFound
	}

	if cacheable {
		u.cache.Set(ctx, program, version)
	}
	return converter.ProgramToResponse(program), nil
}

func (u *programUsecase) List(ctx context.Context, filter repository.ProgramFilter) ([]dto.ProgramResponse, error) {
	if filter.Difficulty != nil && !entity.IsValidDifficulty(*filter.Difficulty) {
		return nil, ErrInvalidDifficulty
	}

	programs, err := u.programRepo.FindAll(u.db.WithContext(ctx), filter)
	if err != nil {
		u.log.Warnf("Failed to list programs: %+v", err)
		return nil, err
	}

	return converter.ProgramsToResponses(programs), nil
}

func (u *programUsecase) ListActive(ctx context.Context) ([]dto.ProgramResponse, error) {
	active := true
	return u.List(ctx, repository.ProgramFilter{IsActive: &active})
}

func (u *programUsecase) ListByDifficulty(ctx context.Context, difficulty string) ([]dto.ProgramResponse, error) {
	return u.List(ctx, repository.ProgramFilter{Difficulty: &difficulty})
}

func (u *programUsecase) Update(ctx context.Context, actor Actor, programID string, req *dto.UpdateProgramRequest) (*dto.ProgramResponse, error) {
	if req.Difficulty != nil && !entity.IsValidDifficulty(*req.Difficulty) {
		return nil, ErrInvalidDifficulty
	}

	tx := u.db.WithContext(ctx).Begin()
	defer tx.Rollback()

	program, err := u.programRepo.FindByID(tx, programID)
	if err != nil {
		u.log.Warnf("Failed to find program: %+v", err)
		return nil, err
	}
	if program == nil {
		return nil, ErrProgramNotFound
	}

	fields := map[string]interface{}{}
	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			return nil, ErrMissingFields
		}
		fields["name"] = name
	}
	if req.Description != nil {
		fields["description"] = *req.Description
	}
	if req.ImageURL != nil {
		fields["image_url"] = *req.ImageURL
	}
	if req.Duration != nil {
		fields["duration"] = *req.Duration
	}
	if req.Difficulty != nil {
		fields["difficulty"] = *req.Difficulty
	}
	if req.IsActive != nil {
		fields["is_active"] = *req.IsActive
	}

	if len(fields) == 0 {
		return converter.ProgramToResponse(program), nil
	}

	if err := u.programRepo.Update(tx, programID, fields); err != nil {
		u.log.Warnf("Failed to update program: %+v", err)
		return nil, err
	}

	if err := u.auditService.LogUpdate(ctx, tx, actor.id(), entity.AuditActionProgramUpdate, "health_program", programID, program, fields); err != nil {
		return nil, err
	}

	if err := tx.Commit().Error; err != nil {
		u.log.Warnf("Failed commit transaction: %+v", err)
		return nil, err
	}

	u.cache.Invalidate(ctx, programID)

	updated, err := u.programRepo.FindByID(u.db.WithContext(ctx), programID)
	if err != nil {
		u.log.Warnf("Failed to reload program: %+v", err)
		return nil, err
	}
	if updated == nil {
		return nil, ErrProgramNotFound
	}

	return converter.ProgramToResponse(updated), nil
}

// Delete removes the program. Its enrollments are removed by the database
// cascade.
func (u *programUsecase) Delete(ctx context.Context, actor Actor, programID string) error {
	tx := u.db.WithContext(ctx).Begin()
	defer tx.Rollback()

	program, err := u.programRepo.FindByID(tx, programID)
	if err != nil {
		u.log.Warnf("Failed to find program: %+v", err)
		return err
	}
	if program == nil {
		return ErrProgramNotFound
	}

	rows, err := u.programRepo.Delete(tx, programID)
	if err != nil {
		u.log.Warnf("Failed to delete program: %+v", err)
		return err
	}
	if rows == 0 {
		return ErrProgramNotFound
	}

	if err := u.auditService.LogDelete(ctx, tx, actor.id(), entity.AuditActionProgramDelete, "health_program", programID, program); err != nil {
		return err
	}

	if err := tx.Commit().Error; err != nil {
		u.log.Warnf("Failed commit transaction: %+v", err)
		return err
	}

	u.cache.Invalidate(ctx, programID)
	return nil
}

func (u *programUsecase) ToggleStatus(ctx context.Context, actor Actor, programID string) (*dto.ProgramResponse, error) {
	tx := u.db.WithContext(ctx).Begin()
	defer tx.Rollback()

	program, err := u.programRepo.FindByID(tx.Clauses(clause.Locking{Strength: "UPDATE"}), programID)
	if err != nil {
		u.log.Warnf("Failed to find program: %+v", err)
		return nil, err
	}
	if program == nil {
		return nil, ErrProgramNotFound
	}

	previous := program.IsActive
	if err := u.programRepo.Update(tx, programID, map[string]interface{}{"is_active": !previous}); err != nil {
		u.log.Warnf("Failed to toggle program: %+v", err)
		return nil, err
	}

	if err := u.auditService.LogUpdate(ctx, tx, actor.id(), entity.AuditActionProgramToggle, "health_program", programID,
		map[string]interface{}{"is_active": previous},
		map[string]interface{}{"is_active": !previous},
	); err != nil {
		return nil, err
	}

	if err := tx.Commit().Error; err != nil {
		u.log.Warnf("Failed commit transaction: %+v", err)
		return nil, err
	}

	u.cache.Invalidate(ctx, programID)

	program.IsActive = !previous
	return converter.ProgramToResponse(program), nil
}
