package approval_history

import (
	"errors"
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"github.com/apiwat1229/ServiceHub-sub002/internal/api/handlers"
	"github.com/apiwat1229/ServiceHub-sub002/internal/service/approvals"
)

const (
	msgInvalidApprovalID = "некорректный идентификатор заявки"
	msgApprovalNotFound  = "заявка не найдена"
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

// Handle GET /api/v1/approvals/{id}/history
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		handlers.RespondBadRequest(w, msgInvalidApprovalID)
		return
	}

	result, err := h.service.History(r.Context(), id)
	if err != nil {
		switch {
		case errors.Is(err, approvals.ErrRequestNotFound):
			handlers.RespondNotFound(w, msgApprovalNotFound)

		default:
			h.logger.Error("GET /approvals/{id}/history - Failed: id=%s, error=%v", id, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	handlers.RespondJSON(w, http.StatusOK, result)
}
