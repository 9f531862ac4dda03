package approval_history

import (
	"context"

	"github.com/google/uuid"

	"github.com/apiwat1229/ServiceHub-sub002/internal/service/approvals/models"
)

type ApprovalService interface {
	History(ctx context.Context, id uuid.UUID) (*models.LogListResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
