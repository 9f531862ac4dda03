package delete_approval

import (
	"errors"
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"github.com/apiwat1229/ServiceHub-sub002/internal/api/handlers"
	"github.com/apiwat1229/ServiceHub-sub002/internal/api/middleware"
	"github.com/apiwat1229/ServiceHub-sub002/internal/service/approvals"
)

const (
	msgInvalidApprovalID = "некорректный идентификатор заявки"
	msgApprovalNotFound  = "заявка не найдена"
	msgForbidden         = "недостаточно прав для удаления"
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

// Handle DELETE /api/v1/approvals/{id}
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		handlers.RespondBadRequest(w, msgInvalidApprovalID)
		return
	}

	actor := middleware.ActorFromContext(r.Context())

	if err := h.service.SoftDelete(r.Context(), id, actor); err != nil {
		switch {
		case errors.Is(err, approvals.ErrRequestNotFound):
			handlers.RespondNotFound(w, msgApprovalNotFound)

		case errors.Is(err, approvals.ErrForbidden):
			handlers.RespondForbidden(w, msgForbidden)

		default:
			h.logger.Error("DELETE /approvals/{id} - Failed: id=%s, error=%v", id, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("DELETE /approvals/{id} - Deleted: id=%s", id)
	handlers.RespondNoContent(w)
}
