package usecase

import (
	"context"
	"testing"

	"health-info-api/internal/delivery/dto"
	"health-info-api/internal/domain/entity"
	"health-info-api/internal/domain/repository"
	"health-info-api/internal/service"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newProgramFixture(t *testing.T, cache *service.ProgramCache) (ProgramUsecase, sqlmock.Sqlmock, *MockHealthProgramRepository, *MockAuditService) {
	t.Helper()
	db, sqlMock := newMockDB(t)
	repo := new(MockHealthProgramRepository)
	audit := allowAudit()
	return NewProgramUsecase(db, quietLogger(), repo, audit, cache), sqlMock, repo, audit
}

func newTestProgramCache(t *testing.T) (*service.ProgramCache, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return service.NewProgramCache(client, 0, quietLogger()), mr
}

func strPtr(s string) *string { return &s }

func TestProgramUsecase_Create(t *testing.T) {
	uc, sqlMock, repo, audit := newProgramFixture(t, nil)

	sqlMock.ExpectBegin()
	sqlMock.ExpectCommit()
	repo.On("Create", mock.Anything, mock.MatchedBy(func(p *entity.HealthProgram) bool {
		return p.Name == "Yoga Basics" && p.IsActive && len(p.ProgramID) > len(programIDPrefix)
	})).Return(nil)

	resp, err := uc.Create(context.Background(), adminActor, &dto.CreateProgramRequest{
		Name:       " Yoga Basics ",
		Difficulty: strPtr(entity.DifficultyBeginner),
	})
	require.NoError(t, err)
	assert.Contains(t, resp.ProgramID, programIDPrefix)
	assert.True(t, resp.IsActive)
	audit.AssertCalled(t, "LogCreate", mock.Anything, mock.Anything, mock.Anything, entity.AuditActionProgramCreate, "health_program", resp.ProgramID, mock.Anything)
}

func TestProgramUsecase_Create_InvalidDifficulty(t *testing.T) {
	uc, _, repo, _ := newProgramFixture(t, nil)

	_, err := uc.Create(context.Background(), adminActor, &dto.CreateProgramRequest{
		Name:       "Yoga",
		Difficulty: strPtr("Expert"),
	})
	assert.ErrorIs(t, err, ErrInvalidDifficulty)
	repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestProgramUsecase_GetByID_ReadThroughCache(t *testing.T) {
	cache, mr := newTestProgramCache(t)
	uc, _, repo, _ := newProgramFixture(t, cache)

	repo.On("FindByID", mock.Anything, "PROG-1").
		Return(&entity.HealthProgram{ProgramID: "PROG-1", Name: "Yoga", IsActive: true}, nil).Once()

	first, err := uc.GetByID(context.Background(), "PROG-1")
	require.NoError(t, err)
	assert.True(t, mr.Exists("program:PROG-1"))

	second, err := uc.GetByID(context.Background(), "PROG-1")
	require.NoError(t, err)
	assert.Equal(t, first.Name, second.Name)
	repo.AssertNumberOfCalls(t, "FindByID", 1)
}

func TestProgramUsecase_GetByID_WriteDuringLoadIsNotCached(t *testing.T) {
	cache, mr := newTestProgramCache(t)
	uc, _, repo, _ := newProgramFixture(t, cache)

	repo.On("FindByID", mock.Anything, "PROG-1").
		Run(func(mock.Arguments) { cache.Invalidate(context.Background(), "PROG-1") }).
		Return(&entity.HealthProgram{ProgramID: "PROG-1", Name: "Yoga", IsActive: true}, nil).Once()

	resp, err := uc.GetByID(context.Background(), "PROG-1")
	require.NoError(t, err)
	assert.Equal(t, "Yoga", resp.Name)
	assert.False(t, mr.Exists("program:PROG-1"))
}

func TestProgramUsecase_GetByID_NotFound(t *testing.T) {
	uc, _, repo, _ := newProgramFixture(t, nil)
	repo.On("FindByID", mock.Anything, "PROG-404").Return(nil, nil)

	_, err := uc.GetByID(context.Background(), "PROG-404")
	assert.ErrorIs(t, err, ErrProgramNotFound)
}

func TestProgramUsecase_ListFilters(t *testing.T) {
	uc, _, repo, _ := newProgramFixture(t, nil)
	active := true
	beginner := entity.DifficultyBeginner

	repo.On("FindAll", mock.Anything, repository.ProgramFilter{IsActive: &active}).
		Return([]entity.HealthProgram{{ProgramID: "PROG-1", IsActive: true}}, nil)
	repo.On("FindAll", mock.Anything, repository.ProgramFilter{Difficulty: &beginner}).
		Return([]entity.HealthProgram{}, nil)

	programs, err := uc.ListActive(context.Background())
	require.NoError(t, err)
	assert.Len(t, programs, 1)

	programs, err = uc.ListByDifficulty(context.Background(), entity.DifficultyBeginner)
	require.NoError(t, err)
	assert.Empty(t, programs)

	_, err = uc.ListByDifficulty(context.Background(), "Impossible")
	assert.ErrorIs(t, err, ErrInvalidDifficulty)
}

func TestProgramUsecase_ToggleTwiceRestoresStatus(t *testing.T) {
	cache, mr := newTestProgramCache(t)
	uc, sqlMock, repo, _ := newProgramFixture(t, cache)
	program := &entity.HealthProgram{ProgramID: "PROG-1", Name: "Yoga", IsActive: true}

	require.NoError(t, mr.Set("program:PROG-1", `{"program_id":"PROG-1","name":"stale","is_active":true}`))

	inactive := *program
	inactive.IsActive = false

	repo.On("FindByID", mock.Anything, "PROG-1").Return(program, nil).Once()
	repo.On("Update", mock.Anything, "PROG-1", map[string]interface{}{"is_active": false}).Return(nil).Once()
	repo.On("FindByID", mock.Anything, "PROG-1").Return(&inactive, nil).Once()
	repo.On("Update", mock.Anything, "PROG-1", map[string]interface{}{"is_active": true}).Return(nil).Once()

	sqlMock.ExpectBegin()
	sqlMock.ExpectCommit()
	sqlMock.ExpectBegin()
	sqlMock.ExpectCommit()

	first, err := uc.ToggleStatus(context.Background(), adminActor, "PROG-1")
	require.NoError(t, err)
	assert.False(t, first.IsActive)
	assert.False(t, mr.Exists("program:PROG-1"))

	second, err := uc.ToggleStatus(context.Background(), adminActor, "PROG-1")
	require.NoError(t, err)
	assert.True(t, second.IsActive)
	require.NoError(t, sqlMock.ExpectationsWereMet())
}

func TestProgramUsecase_Update(t *testing.T) {
	uc, sqlMock, repo, _ := newProgramFixture(t, nil)

	sqlMock.ExpectBegin()
	sqlMock.ExpectCommit()
	repo.On("FindByID", mock.Anything, "PROG-1").
		Return(&entity.HealthProgram{ProgramID: "PROG-1", Name: "Yoga", IsActive: true}, nil).Once()
	repo.On("Update", mock.Anything, "PROG-1", map[string]interface{}{"name": "Power Yoga", "duration": "6 weeks"}).Return(nil)
	repo.On("FindByID", mock.Anything, "PROG-1").
		Return(&entity.HealthProgram{ProgramID: "PROG-1", Name: "Power Yoga", Duration: strPtr("6 weeks"), IsActive: true}, nil).Once()

	resp, err := uc.Update(context.Background(), adminActor, "PROG-1", &dto.UpdateProgramRequest{
		Name:     strPtr("Power Yoga"),
		Duration: strPtr("6 weeks"),
	})
	require.NoError(t, err)
	assert.Equal(t, "Power Yoga", resp.Name)
	repo.AssertExpectations(t)
}

func TestProgramUsecase_Delete(t *testing.T) {
	t.Run("not found", func(t *testing.T) {
		uc, sqlMock, repo, _ := newProgramFixture(t, nil)
		sqlMock.ExpectBegin()
		sqlMock.ExpectRollback()
		repo.On("FindByID", mock.Anything, "PROG-404").Return(nil, nil)

		err := uc.Delete(context.Background(), adminActor, "PROG-404")
		assert.ErrorIs(t, err, ErrProgramNotFound)
		repo.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
	})

	t.Run("deletes and audits", func(t *testing.T) {
		uc, sqlMock, repo, audit := newProgramFixture(t, nil)
		sqlMock.ExpectBegin()
		sqlMock.ExpectCommit()
		repo.On("FindByID", mock.Anything, "PROG-1").Return(&entity.HealthProgram{ProgramID: "PROG-1"}, nil)
		repo.On("Delete", mock.Anything, "PROG-1").Return(int64(1), nil)

		require.NoError(t, uc.Delete(context.Background(), adminActor, "PROG-1"))
		audit.AssertCalled(t, "LogDelete", mock.Anything, mock.Anything, mock.Anything, entity.AuditActionProgramDelete, "health_program", "PROG-1", mock.Anything)
	})
}
