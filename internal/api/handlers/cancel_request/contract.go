package cancel_request

import (
	"context"

	"github.com/google/uuid"

	"github.com/apiwat1229/ServiceHub-sub002/internal/domain"
	"github.com/apiwat1229/ServiceHub-sub002/internal/service/approvals/models"
)

type ApprovalService interface {
	Cancel(ctx context.Context, id uuid.UUID, actor *domain.User) (*models.ApprovalResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
