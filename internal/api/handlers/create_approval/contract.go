package create_approval

import (
	"context"

	"github.com/apiwat1229/ServiceHub-sub002/internal/domain"
)

type ApprovalService interface {
	CreateRequest(ctx context.Context, req *domain.ApprovalRequest, actor *domain.User) (*domain.ApprovalRequest, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
