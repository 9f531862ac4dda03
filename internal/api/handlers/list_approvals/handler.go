package list_approvals

import (
	"net/http"

	"github.com/apiwat1229/ServiceHub-sub002/internal/api/handlers"
	"github.com/apiwat1229/ServiceHub-sub002/internal/service/approvals/models"
)

type Handler struct {
	service ApprovalService
	logger  Logger
}

func NewHandler(service ApprovalService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle GET /api/v1/approvals?status=&entityType=&includeDeleted=
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	req := &models.ListRequest{
		IncludeDeleted: query.Get("includeDeleted") == "true",
	}
	if v := query.Get("status"); v != "" {
		req.Status = &v
	}
	if v := query.Get("entityType"); v != "" {
		req.EntityType = &v
	}

	result, err := h.service.List(r.Context(), req)
	if err != nil {
		h.logger.Error("GET /approvals - Failed: error=%v", err)
		handlers.RespondInternalError(w)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, result)
}
