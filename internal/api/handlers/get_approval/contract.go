package get_approval

import (
	"context"

	"github.com/google/uuid"

	"github.com/apiwat1229/ServiceHub-sub002/internal/service/approvals/models"
)

type ApprovalService interface {
	GetByID(ctx context.Context, id uuid.UUID) (*models.ApprovalResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
