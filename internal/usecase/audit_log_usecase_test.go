package usecase

import (
	"context"
	"testing"

	"health-info-api/internal/domain/entity"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestAuditLogUsecase_GetAll(t *testing.T) {
	db, _ := newMockDB(t)
	repo := new(MockAuditLogRepository)
	uc := NewAuditLogUsecase(db, quietLogger(), repo)

	actor := "USER-1"
	repo.On("FindAll", mock.Anything, 10, 10).Return([]entity.AuditLog{
		{ID: 11, UserID: &actor, Action: entity.AuditActionProgramCreate},
	}, int64(11), nil)

	logs, total, err := uc.GetAllAuditLogs(context.Background(), 2, 0)
	require.NoError(t, err)
	assert.Equal(t, int64(11), total)
	require.Len(t, logs, 1)
	assert.Equal(t, entity.AuditActionProgramCreate, logs[0].Action)
}

func TestAuditLogUsecase_Get_NotFound(t *testing.T) {
	db, _ := newMockDB(t)
	repo := new(MockAuditLogRepository)
	uc := NewAuditLogUsecase(db, quietLogger(), repo)
	repo.On("FindByID", mock.Anything, int64(5)).Return(nil, nil)

	_, err := uc.GetAuditLog(context.Background(), 5)
	assert.ErrorIs(t, err, ErrAuditLogNotFound)
}
