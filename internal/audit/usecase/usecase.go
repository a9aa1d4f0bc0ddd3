package usecase

import (
	"context"

	"github.com/jmoiron/sqlx"

	"github.com/dukapos/retail-core/internal/apperrors"
	"github.com/dukapos/retail-core/internal/audit"
	"github.com/dukapos/retail-core/internal/auth"
	"github.com/dukapos/retail-core/internal/model"
	"github.com/dukapos/retail-core/internal/staff"
	"github.com/dukapos/retail-core/pkg/logger"
)

type auditUseCase struct {
	repo   audit.Repository
	staff  staff.Repository
	db     *sqlx.DB
	logger logger.Logger
}

func NewAuditUseCase(repo audit.Repository, staffRepo staff.Repository, db *sqlx.DB, log logger.Logger) audit.UseCase {
	return &auditUseCase{
		repo:   repo,
		staff:  staffRepo,
		db:     db,
		logger: log,
	}
}

func (uc *auditUseCase) List(ctx context.Context, actorID string, f *audit.Filters) ([]model.AuditLogEntry, int, error) {
	operator, err := uc.staff.GetByID(ctx, uc.db, actorID)
	if err != nil {
		return nil, 0, err
	}
	if !auth.CanViewAuditLog(operator.Role) {
		return nil, 0, apperrors.ErrPermissionDenied
	}
	return uc.repo.FindAll(ctx, uc.db, f)
}
