package list_approvals

import (
	"context"

	"github.com/apiwat1229/ServiceHub-sub002/internal/service/approvals/models"
)

type ApprovalService interface {
	List(ctx context.Context, req *models.ListRequest) (*models.ApprovalListResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
