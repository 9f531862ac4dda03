package delete_approval

import (
	"context"

	"github.com/google/uuid"

	"github.com/apiwat1229/ServiceHub-sub002/internal/domain"
)

type ApprovalService interface {
	SoftDelete(ctx context.Context, id uuid.UUID, actor *domain.User) error
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
